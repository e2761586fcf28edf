package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"financas/internal/core"
	"financas/internal/storage"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newTestStore(t)

	mustAdd(t, source, expense(120, core.NewDate(2024, 4, 2)))
	mustAdd(t, source, core.Transaction{
		Type:        core.TypeIncome,
		Value:       core.NewAmount(3000),
		Description: "Salário",
		Category:    "salario",
		Date:        core.NewDate(2024, 4, 5),
	})
	if _, err := source.AddGoal(ctx, core.Goal{Name: "Carro", TargetAmount: core.NewAmount(20000), Months: 24}); err != nil {
		t.Fatal(err)
	}
	if _, err := source.AddFixedExpense(ctx, core.FixedExpense{
		Description: "Internet",
		Value:       core.NewAmount(99),
		Category:    "moradia",
		DueDay:      10,
		StartMonth:  core.MonthKey{Year: 2024, Month: 1},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := source.Deposit(ctx, core.NewAmount(500), "reserva"); err != nil {
		t.Fatal(err)
	}

	snap, err := source.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	fresh := NewStore(storage.NewMemoryStore())
	if err := fresh.ImportJSON(ctx, data); err != nil {
		t.Fatalf("import: %v", err)
	}

	gotTx, _ := fresh.Transactions(ctx)
	wantTx, _ := source.Transactions(ctx)
	if len(gotTx) != len(wantTx) {
		t.Fatalf("transactions = %d, want %d", len(gotTx), len(wantTx))
	}
	for i := range wantTx {
		if gotTx[i].ID != wantTx[i].ID || !gotTx[i].Value.Equal(wantTx[i].Value) || gotTx[i].Date != wantTx[i].Date {
			t.Errorf("transaction %d drifted: got %+v want %+v", i, gotTx[i], wantTx[i])
		}
	}

	gotCats, _ := fresh.Categories(ctx)
	wantCats, _ := source.Categories(ctx)
	if len(gotCats) != len(wantCats) {
		t.Errorf("categories = %d, want %d", len(gotCats), len(wantCats))
	}

	gotGoals, _ := fresh.Goals(ctx)
	if len(gotGoals) != 1 || gotGoals[0].Name != "Carro" {
		t.Errorf("goals = %+v", gotGoals)
	}

	gotSavings, _ := fresh.Savings(ctx)
	if !gotSavings.Equal(core.NewAmount(500)) {
		t.Errorf("savings = %s, want 500", gotSavings)
	}

	gotFixed, _ := fresh.FixedExpenses(ctx)
	if len(gotFixed) != 1 || gotFixed[0].Description != "Internet" {
		t.Errorf("fixed expenses = %+v", gotFixed)
	}
}

func TestImportJSONMalformedAborts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	mustAdd(t, store, expense(42, core.NewDate(2024, 2, 2)))

	err := store.ImportJSON(ctx, []byte(`{"transactions": [{"date": "not-a-date"`))
	if err == nil {
		t.Fatal("malformed payload accepted")
	}

	// The parse failure aborted before any collection was touched.
	all, _ := store.Transactions(ctx)
	if len(all) != 1 {
		t.Errorf("transactions after failed import = %d, want 1", len(all))
	}
}

func TestImportPartialSnapshotLeavesAbsentCollections(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	mustAdd(t, store, expense(10, core.NewDate(2024, 1, 1)))
	if _, err := store.Deposit(ctx, core.NewAmount(77), ""); err != nil {
		t.Fatal(err)
	}

	// Payload carries only goals; transactions and savings stay.
	payload := []byte(`{"goals": [{"id":"g1","name":"Meta","targetAmount":100,"months":2,"currentAmount":0,"createdAt":"2024-01-01T00:00:00Z"}]}`)
	if err := store.ImportJSON(ctx, payload); err != nil {
		t.Fatalf("import: %v", err)
	}

	all, _ := store.Transactions(ctx)
	if len(all) != 1 {
		t.Errorf("transactions overwritten by partial import: %d", len(all))
	}
	savings, _ := store.Savings(ctx)
	if !savings.Equal(core.NewAmount(77)) {
		t.Errorf("savings overwritten by partial import: %s", savings)
	}
	goals, _ := store.Goals(ctx)
	if len(goals) != 1 || goals[0].ID != "g1" {
		t.Errorf("goals = %+v", goals)
	}
}
