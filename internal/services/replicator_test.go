package services

import (
	"context"
	"testing"

	"financas/internal/core"
	"financas/internal/ledger"
)

func TestReplicatePreservesDayAndResetsPaid(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	src, err := store.AddTransaction(ctx, core.Transaction{
		Type:        core.TypeExpense,
		Value:       core.NewAmount(250),
		Description: "Luz",
		Category:    "moradia",
		Date:        core.NewDate(2026, 1, 15),
		Paid:        true,
	})
	if err != nil {
		t.Fatalf("add transaction: %v", err)
	}

	replicator := NewReplicator(store)
	target := core.MonthKey{Year: 2026, Month: 2}

	created, err := replicator.Replicate(ctx, []string{src.ID}, target)
	if err != nil {
		t.Fatalf("Replicate: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created = %d, want 1", len(created))
	}

	replica := created[0]
	if replica.ID == src.ID {
		t.Error("replica should have a fresh id")
	}
	if replica.Date != core.NewDate(2026, 2, 15) {
		t.Errorf("replica date = %v, want 2026-02-15", replica.Date)
	}
	if replica.Paid {
		t.Error("replica should start unpaid")
	}
	if replica.ReplicatedFrom != src.ID {
		t.Errorf("ReplicatedFrom = %q, want %q", replica.ReplicatedFrom, src.ID)
	}
}

func TestReplicateIsIdempotentPerTargetMonth(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	src := mustAddTx(t, store, core.Transaction{
		Type:        core.TypeExpense,
		Value:       core.NewAmount(99),
		Description: "Streaming",
		Category:    "lazer",
		Date:        core.NewDate(2026, 1, 3),
	})

	replicator := NewReplicator(store)
	target := core.MonthKey{Year: 2026, Month: 2}

	first, err := replicator.Replicate(ctx, []string{src.ID}, target)
	if err != nil {
		t.Fatalf("first Replicate: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first run created %d, want 1", len(first))
	}

	second, err := replicator.Replicate(ctx, []string{src.ID}, target)
	if err != nil {
		t.Fatalf("second Replicate: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("second run created %d, want 0", len(second))
	}

	// A different target month is a fresh pair and replicates again.
	march, err := replicator.Replicate(ctx, []string{src.ID}, core.MonthKey{Year: 2026, Month: 3})
	if err != nil {
		t.Fatalf("march Replicate: %v", err)
	}
	if len(march) != 1 {
		t.Fatalf("march run created %d, want 1", len(march))
	}
}

func TestReplicateCardInstallments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	replicator := NewReplicator(store)
	target := core.MonthKey{Year: 2026, Month: 4}

	final := mustAddTx(t, store, core.Transaction{
		Type:         core.TypeExpense,
		Value:        core.NewAmount(120),
		Description:  "Notebook 1/1",
		Category:     "outros",
		Date:         core.NewDate(2026, 3, 10),
		IsCard:       true,
		Installments: 1,
	})
	created, err := replicator.Replicate(ctx, []string{final.ID}, target)
	if err != nil {
		t.Fatalf("Replicate final installment: %v", err)
	}
	if len(created) != 0 {
		t.Fatal("final installment should never be replicated")
	}

	mid := mustAddTx(t, store, core.Transaction{
		Type:         core.TypeExpense,
		Value:        core.NewAmount(120),
		Description:  "Notebook 2/3",
		Category:     "outros",
		Date:         core.NewDate(2026, 3, 10),
		IsCard:       true,
		Installments: 3,
	})
	created, err = replicator.Replicate(ctx, []string{mid.ID}, target)
	if err != nil {
		t.Fatalf("Replicate mid installment: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created = %d, want 1", len(created))
	}
	if got := created[0].Installments; got != 2 {
		t.Fatalf("replica installments = %d, want 2", got)
	}
}

func TestReplicateClampsDayAndSkipsMissing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	src := mustAddTx(t, store, core.Transaction{
		Type:        core.TypeExpense,
		Value:       core.NewAmount(50),
		Description: "Jantar",
		Category:    "alimentacao",
		Date:        core.NewDate(2026, 1, 31),
	})

	replicator := NewReplicator(store)
	created, err := replicator.Replicate(ctx, []string{src.ID, "missing-id"}, core.MonthKey{Year: 2026, Month: 2})
	if err != nil {
		t.Fatalf("Replicate: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created = %d, want 1 (missing id skipped)", len(created))
	}
	if created[0].Date.Day != 28 {
		t.Fatalf("day = %d, want 28 (february clamp)", created[0].Date.Day)
	}
}

func mustAddTx(t *testing.T, store *ledger.Store, tr core.Transaction) core.Transaction {
	t.Helper()
	created, err := store.AddTransaction(context.Background(), tr)
	if err != nil {
		t.Fatalf("add transaction: %v", err)
	}
	return created
}
