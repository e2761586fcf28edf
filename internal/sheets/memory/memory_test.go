package memory

import (
	"context"
	"testing"

	"financas/internal/sheets"
)

func TestWriteAndLast(t *testing.T) {
	s := New()

	if _, ok := s.Last(); ok {
		t.Fatal("expected no export before any write")
	}

	export := sheets.Export{
		Transactions: []sheets.TransactionRow{
			{Date: "2026-09-01", Type: "Despesa", Description: "Mercado", Category: "Alimentação", Value: "120.5", Paid: true},
		},
		Summary: []sheets.SummaryRow{{Label: "Despesas", Value: "120.5"}},
	}
	if err := s.Write(context.Background(), export); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, ok := s.Last()
	if !ok {
		t.Fatal("expected an export after write")
	}
	if len(got.Transactions) != 1 || got.Transactions[0].Description != "Mercado" {
		t.Fatalf("unexpected export: %+v", got)
	}
}
