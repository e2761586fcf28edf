package services

import (
	"context"
	"strings"
	"testing"

	"financas/internal/core"
	"financas/internal/ledger"
	"financas/internal/storage"
)

func newTestStore(t *testing.T) *ledger.Store {
	t.Helper()
	return ledger.NewStore(storage.NewMemoryStore())
}

func addFixed(t *testing.T, store *ledger.Store, fe core.FixedExpense) core.FixedExpense {
	t.Helper()
	created, err := store.AddFixedExpense(context.Background(), fe)
	if err != nil {
		t.Fatalf("add fixed expense: %v", err)
	}
	return created
}

func TestMaterializeBackfillsFromStartMonth(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	addFixed(t, store, core.FixedExpense{
		Description: "Aluguel",
		Value:       core.NewAmount(1200),
		Category:    "moradia",
		DueDay:      5,
		StartMonth:  core.MonthKey{Year: 2026, Month: 1},
	})

	processor := NewFixedExpenseProcessor(store)
	today := core.NewDate(2026, 3, 10)

	created, err := processor.Materialize(ctx, today)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if created != 3 {
		t.Fatalf("created = %d, want 3 (jan, feb, mar)", created)
	}

	transactions, err := store.Transactions(ctx)
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	for _, tr := range transactions {
		if !strings.HasSuffix(tr.Description, FixedSuffix) {
			t.Errorf("description %q missing suffix", tr.Description)
		}
		if tr.Date.Day != 5 {
			t.Errorf("day = %d, want 5", tr.Date.Day)
		}
		if tr.FixedExpenseID == "" {
			t.Error("transaction missing fixed expense link")
		}
		if tr.Paid {
			t.Error("materialized transaction should start unpaid")
		}
	}
}

func TestMaterializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	addFixed(t, store, core.FixedExpense{
		Description: "Internet",
		Value:       core.NewAmount(100),
		Category:    "moradia",
		DueDay:      10,
		StartMonth:  core.MonthKey{Year: 2026, Month: 2},
	})

	processor := NewFixedExpenseProcessor(store)
	today := core.NewDate(2026, 3, 1)

	if _, err := processor.Materialize(ctx, today); err != nil {
		t.Fatalf("first Materialize: %v", err)
	}
	again, err := processor.Materialize(ctx, today)
	if err != nil {
		t.Fatalf("second Materialize: %v", err)
	}
	if again != 0 {
		t.Fatalf("second run created %d transactions, want 0", again)
	}

	transactions, _ := store.Transactions(ctx)
	if len(transactions) != 2 {
		t.Fatalf("total transactions = %d, want 2", len(transactions))
	}
}

func TestMaterializeClampsDueDay(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	addFixed(t, store, core.FixedExpense{
		Description: "Seguro",
		Value:       core.NewAmount(80),
		Category:    "outros",
		DueDay:      31,
		StartMonth:  core.MonthKey{Year: 2026, Month: 2},
	})

	processor := NewFixedExpenseProcessor(store)
	if _, err := processor.Materialize(ctx, core.NewDate(2026, 2, 28)); err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	transactions, _ := store.Transactions(ctx)
	if len(transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(transactions))
	}
	if got := transactions[0].Date.Day; got != 28 {
		t.Fatalf("day = %d, want 28 (february clamp)", got)
	}
}

func TestMaterializeWithoutStartMonthUsesCurrent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	addFixed(t, store, core.FixedExpense{
		Description: "Academia",
		Value:       core.NewAmount(90),
		Category:    "saude",
		DueDay:      1,
	})

	processor := NewFixedExpenseProcessor(store)
	created, err := processor.Materialize(ctx, core.NewDate(2026, 6, 15))
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1 (current month only, no backfill)", created)
	}

	transactions, _ := store.Transactions(ctx)
	if got := transactions[0].Date.MonthKey(); got != (core.MonthKey{Year: 2026, Month: 6}) {
		t.Fatalf("month = %v, want 2026-06", got)
	}
}
