// Package services provides the business logic layered on top of the
// ledger store: fixed-expense materialization, month replication,
// aggregation reports and spreadsheet export.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"financas/internal/core"
	"financas/internal/ledger"
)

// FixedSuffix marks transactions materialized from a fixed expense.
const FixedSuffix = " (fixa)"

// FixedExpenseProcessor turns fixed-expense definitions into concrete
// dated expense transactions, one per elapsed month.
type FixedExpenseProcessor struct {
	store *ledger.Store
}

func NewFixedExpenseProcessor(store *ledger.Store) *FixedExpenseProcessor {
	return &FixedExpenseProcessor{store: store}
}

// Materialize walks each fixed expense from its start month through the
// month of `today` and creates one expense transaction for every month
// not yet covered. Re-running with the same current month is a no-op.
// Months after the current one are never generated.
func (p *FixedExpenseProcessor) Materialize(ctx context.Context, today core.Date) (int, error) {
	fixed, err := p.store.FixedExpenses(ctx)
	if err != nil {
		return 0, fmt.Errorf("load fixed expenses: %w", err)
	}
	if len(fixed) == 0 {
		return 0, nil
	}

	transactions, err := p.store.Transactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("load transactions: %w", err)
	}

	// Months already materialized, per fixed expense.
	covered := make(map[string]map[core.MonthKey]bool)
	for _, t := range transactions {
		if t.FixedExpenseID == "" {
			continue
		}
		mk := t.Date.MonthKey()
		if covered[t.FixedExpenseID] == nil {
			covered[t.FixedExpenseID] = make(map[core.MonthKey]bool)
		}
		covered[t.FixedExpenseID][mk] = true
	}

	current := today.MonthKey()
	var pending []core.Transaction
	for _, fe := range fixed {
		start := fe.StartMonth
		if start.IsZero() {
			// No start month recorded: begin at the current month, do
			// not backfill.
			start = current
		}
		for mk := start; mk.Compare(current) <= 0; mk = mk.Next() {
			if covered[fe.ID][mk] {
				continue
			}
			day := fe.DueDay
			if last := mk.LastDay(); day > last {
				day = last
			}
			pending = append(pending, core.Transaction{
				Type:           core.TypeExpense,
				Value:          fe.Value,
				Description:    fe.Description + FixedSuffix,
				Category:       fe.Category,
				Date:           core.NewDate(mk.Year, mk.Month, day),
				FixedExpenseID: fe.ID,
			})
		}
	}

	if len(pending) == 0 {
		return 0, nil
	}
	created, err := p.store.AddTransactions(ctx, pending)
	if err != nil {
		return 0, fmt.Errorf("materialize fixed expenses: %w", err)
	}

	slog.InfoContext(ctx, "Fixed expenses materialized",
		"created", len(created),
		"definitions", len(fixed),
		"current_month", current.String())
	return len(created), nil
}
