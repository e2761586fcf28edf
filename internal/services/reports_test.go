package services

import (
	"context"
	"testing"

	"financas/internal/core"
)

func TestMonthlyBalance(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeIncome, Value: core.NewAmount(3000),
		Description: "Salário", Category: "salario", Date: core.NewDate(2026, 5, 1),
	})
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(800),
		Description: "Aluguel", Category: "moradia", Date: core.NewDate(2026, 5, 5),
	})
	// Different month, must not be counted.
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(999),
		Description: "Viagem", Category: "lazer", Date: core.NewDate(2026, 6, 5),
	})

	reports := NewReports(store)
	mb, err := reports.MonthlyBalance(ctx, core.MonthKey{Year: 2026, Month: 5})
	if err != nil {
		t.Fatalf("MonthlyBalance: %v", err)
	}
	if !mb.Income.Equal(core.NewAmount(3000)) {
		t.Errorf("income = %v, want 3000", mb.Income)
	}
	if !mb.Expense.Equal(core.NewAmount(800)) {
		t.Errorf("expense = %v, want 800", mb.Expense)
	}
	if !mb.Balance.Equal(core.NewAmount(2200)) {
		t.Errorf("balance = %v, want 2200", mb.Balance)
	}
}

func TestBalanceIncludesSavings(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	month := core.MonthKey{Year: 2026, Month: 5}
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeIncome, Value: core.NewAmount(1000),
		Description: "Salário", Category: "salario", Date: core.NewDate(2026, 5, 1),
	})
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(400),
		Description: "Mercado", Category: "alimentacao", Date: core.NewDate(2026, 5, 2),
	})
	if _, err := store.Deposit(ctx, core.NewAmount(500), "Reserva"); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	reports := NewReports(store)
	summary, err := reports.Balance(ctx, &month)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if !summary.Savings.Equal(core.NewAmount(500)) {
		t.Errorf("savings = %v, want 500", summary.Savings)
	}
	if !summary.Balance.Equal(core.NewAmount(1100)) {
		t.Errorf("balance = %v, want 1100 (500+1000-400)", summary.Balance)
	}
}

func TestExpensesByCategory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	month := core.MonthKey{Year: 2026, Month: 7}
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(100),
		Description: "Mercado", Category: "alimentacao", Date: core.NewDate(2026, 7, 3),
	})
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(50),
		Description: "Padaria", Category: "alimentacao", Date: core.NewDate(2026, 7, 9),
	})
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(70),
		Description: "Uber", Category: "transporte", Date: core.NewDate(2026, 7, 4),
	})
	// Income never shows up in the breakdown.
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeIncome, Value: core.NewAmount(2000),
		Description: "Salário", Category: "salario", Date: core.NewDate(2026, 7, 1),
	})

	reports := NewReports(store)
	byCategory, err := reports.ExpensesByCategory(ctx, &month)
	if err != nil {
		t.Fatalf("ExpensesByCategory: %v", err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("categories = %d, want 2", len(byCategory))
	}
	if !byCategory["alimentacao"].Equal(core.NewAmount(150)) {
		t.Errorf("alimentacao = %v, want 150", byCategory["alimentacao"])
	}
	if !byCategory["transporte"].Equal(core.NewAmount(70)) {
		t.Errorf("transporte = %v, want 70", byCategory["transporte"])
	}
}

func TestMonthlySeriesOrderAndWindow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(10),
		Description: "Março", Category: "outros", Date: core.NewDate(2026, 3, 1),
	})
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(20),
		Description: "Maio", Category: "outros", Date: core.NewDate(2026, 5, 1),
	})

	reports := NewReports(store)
	points, err := reports.MonthlySeries(ctx, 3, core.NewDate(2026, 5, 20))
	if err != nil {
		t.Fatalf("MonthlySeries: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3", len(points))
	}
	want := []core.MonthKey{
		{Year: 2026, Month: 3},
		{Year: 2026, Month: 4},
		{Year: 2026, Month: 5},
	}
	for i, p := range points {
		if p.Month != want[i] {
			t.Errorf("points[%d].Month = %v, want %v", i, p.Month, want[i])
		}
	}
	if !points[0].Expense.Equal(core.NewAmount(10)) {
		t.Errorf("march expense = %v, want 10", points[0].Expense)
	}
	if !points[1].Expense.IsZero() {
		t.Errorf("april expense = %v, want 0", points[1].Expense)
	}
	if !points[2].Expense.Equal(core.NewAmount(20)) {
		t.Errorf("may expense = %v, want 20", points[2].Expense)
	}
}

func TestUpcomingDue(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	today := core.NewDate(2026, 5, 10)

	dueToday := mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(30),
		Description: "Hoje", Category: "outros", Date: today,
	})
	dueSoon := mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(40),
		Description: "Em dois dias", Category: "outros", Date: core.NewDate(2026, 5, 12),
	})
	overdue := mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(50),
		Description: "Atrasada", Category: "outros", Date: core.NewDate(2026, 5, 7),
	})
	// Too far out.
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(60),
		Description: "Longe", Category: "outros", Date: core.NewDate(2026, 5, 25),
	})
	// Paid expenses are never due.
	mustAddTx(t, store, core.Transaction{
		Type: core.TypeExpense, Value: core.NewAmount(70),
		Description: "Paga", Category: "outros", Date: core.NewDate(2026, 5, 11), Paid: true,
	})

	reports := NewReports(store)
	due, err := reports.UpcomingDue(ctx, 5, today)
	if err != nil {
		t.Fatalf("UpcomingDue: %v", err)
	}
	if len(due) != 3 {
		t.Fatalf("due = %d, want 3", len(due))
	}
	if due[0].ID != overdue.ID || due[0].DaysUntilDue != -3 {
		t.Errorf("due[0] = %s (%d days), want overdue at -3", due[0].Description, due[0].DaysUntilDue)
	}
	if due[1].ID != dueToday.ID || due[1].DaysUntilDue != 0 {
		t.Errorf("due[1] = %s (%d days), want today at 0", due[1].Description, due[1].DaysUntilDue)
	}
	if due[2].ID != dueSoon.ID || due[2].DaysUntilDue != 2 {
		t.Errorf("due[2] = %s (%d days), want +2", due[2].Description, due[2].DaysUntilDue)
	}
}
