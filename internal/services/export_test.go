package services

import (
	"context"
	"testing"

	"financas/internal/core"
	memsheets "financas/internal/sheets/memory"
)

func TestExporterBuildsRowsSortedByDate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(200),
		Description: "Mercado", Category: "alimentacao", Date: core.NewDate(2026, 2, 10), Paid: true,
	})
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeIncome, Value: core.NewAmount(3000),
		Description: "Salário", Category: "salario", Date: core.NewDate(2026, 1, 5),
	})
	if _, err := store.Deposit(ctx, core.NewAmount(150), "Reserva"); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	writer := memsheets.New()
	exporter := NewExporter(store, writer)
	if err := exporter.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	export, ok := writer.Last()
	if !ok {
		t.Fatal("expected export to be written")
	}
	if len(export.Transactions) != 2 {
		t.Fatalf("rows = %d, want 2", len(export.Transactions))
	}
	if export.Transactions[0].Type != "Receita" || export.Transactions[0].Date != "2026-01-05" {
		t.Errorf("first row = %+v, want january income first", export.Transactions[0])
	}
	if export.Transactions[1].Type != "Despesa" || !export.Transactions[1].Paid {
		t.Errorf("second row = %+v, want paid february expense", export.Transactions[1])
	}
	if export.Transactions[0].Category != "Salário" {
		t.Errorf("category = %q, want display name Salário", export.Transactions[0].Category)
	}

	want := map[string]string{
		"Receitas": "3000",
		"Despesas": "200",
		"Saldo":    "2800",
		"Poupança": "150",
	}
	if len(export.Summary) != len(want) {
		t.Fatalf("summary rows = %d, want %d", len(export.Summary), len(want))
	}
	for _, row := range export.Summary {
		if want[row.Label] != row.Value {
			t.Errorf("summary %q = %q, want %q", row.Label, row.Value, want[row.Label])
		}
	}
}
