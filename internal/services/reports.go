package services

import (
	"context"
	"fmt"
	"sort"

	"financas/internal/core"
	"financas/internal/ledger"
)

// Reports holds the pure read-side queries over the ledger. Every
// query is a deterministic function of current ledger state; results
// are computed by plain scans, which is plenty at personal-scale
// volumes.
type Reports struct {
	store *ledger.Store
}

func NewReports(store *ledger.Store) *Reports {
	return &Reports{store: store}
}

// MonthBalance is the income/expense summary of one calendar month.
type MonthBalance struct {
	Income  core.Amount `json:"income"`
	Expense core.Amount `json:"expense"`
	Balance core.Amount `json:"balance"`
}

// BalanceSummary extends MonthBalance with the savings balance.
type BalanceSummary struct {
	Income  core.Amount `json:"income"`
	Expense core.Amount `json:"expense"`
	Savings core.Amount `json:"savings"`
	Balance core.Amount `json:"balance"`
}

// MonthPoint is one sample of the trailing monthly series.
type MonthPoint struct {
	Month   core.MonthKey `json:"month"`
	Income  core.Amount   `json:"income"`
	Expense core.Amount   `json:"expense"`
}

// DueExpense is an unpaid expense annotated with how many days remain
// until its date. Negative means overdue, zero means due today.
type DueExpense struct {
	core.Transaction
	DaysUntilDue int `json:"daysUntilDue"`
}

// MonthlyBalance sums income and expense transactions whose date falls
// in the given month, matched on year/month components.
func (r *Reports) MonthlyBalance(ctx context.Context, month core.MonthKey) (MonthBalance, error) {
	transactions, err := r.store.TransactionsByMonth(ctx, month)
	if err != nil {
		return MonthBalance{}, fmt.Errorf("monthly balance: %w", err)
	}
	var income, expense core.Amount
	for _, t := range transactions {
		switch t.Type {
		case core.TypeIncome:
			income = income.Add(t.Value)
		case core.TypeExpense:
			expense = expense.Add(t.Value)
		}
	}
	return MonthBalance{Income: income, Expense: expense, Balance: income.Sub(expense)}, nil
}

// Balance is MonthlyBalance plus the current savings balance. A nil
// filter defaults to the current calendar month.
func (r *Reports) Balance(ctx context.Context, filter *core.MonthKey) (BalanceSummary, error) {
	month := core.CurrentMonth()
	if filter != nil {
		month = *filter
	}
	mb, err := r.MonthlyBalance(ctx, month)
	if err != nil {
		return BalanceSummary{}, err
	}
	savings, err := r.store.Savings(ctx)
	if err != nil {
		return BalanceSummary{}, err
	}
	return BalanceSummary{
		Income:  mb.Income,
		Expense: mb.Expense,
		Savings: savings,
		Balance: savings.Add(mb.Income).Sub(mb.Expense),
	}, nil
}

// ExpensesByCategory maps category id to summed expense value. With a
// nil filter all expenses are counted; otherwise only the given month.
func (r *Reports) ExpensesByCategory(ctx context.Context, filter *core.MonthKey) (map[string]core.Amount, error) {
	var (
		transactions []core.Transaction
		err          error
	)
	if filter != nil {
		transactions, err = r.store.TransactionsByMonth(ctx, *filter)
	} else {
		transactions, err = r.store.Transactions(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}

	byCategory := make(map[string]core.Amount)
	for _, t := range transactions {
		if t.Type != core.TypeExpense {
			continue
		}
		byCategory[t.Category] = byCategory[t.Category].Add(t.Value)
	}
	return byCategory, nil
}

// MonthlySeries returns the trailing n months ending at the month of
// `today`, oldest first, each with its income/expense totals.
func (r *Reports) MonthlySeries(ctx context.Context, n int, today core.Date) ([]MonthPoint, error) {
	if n <= 0 {
		return nil, nil
	}
	current := today.MonthKey()
	points := make([]MonthPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		month := current.AddMonths(-i)
		mb, err := r.MonthlyBalance(ctx, month)
		if err != nil {
			return nil, err
		}
		points = append(points, MonthPoint{Month: month, Income: mb.Income, Expense: mb.Expense})
	}
	return points, nil
}

// UpcomingDue lists unpaid expenses due within daysAhead days of
// `today`, overdue ones included, sorted soonest first.
func (r *Reports) UpcomingDue(ctx context.Context, daysAhead int, today core.Date) ([]DueExpense, error) {
	transactions, err := r.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("upcoming due: %w", err)
	}

	var due []DueExpense
	for _, t := range transactions {
		if t.Type != core.TypeExpense || t.Paid {
			continue
		}
		days := t.Date.DaysUntil(today)
		if days > daysAhead {
			continue
		}
		due = append(due, DueExpense{Transaction: t, DaysUntilDue: days})
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].DaysUntilDue < due[j].DaysUntilDue
	})
	return due, nil
}
