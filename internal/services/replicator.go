package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financas/internal/core"
	"financas/internal/ledger"
)

// Replicator copies existing transactions into a target month,
// preserving day-of-month (clamped to the target month's last day) and
// decrementing card installment counters.
type Replicator struct {
	store *ledger.Store
}

func NewReplicator(store *ledger.Store) *Replicator {
	return &Replicator{store: store}
}

// Replicate copies each listed transaction into the target month and
// returns the newly created transactions. Per (source, target-month)
// pair the operation is idempotent; a source that already has a
// replica there is skipped. A card transaction on its final
// installment is never replicated. Missing ids are treated as no-ops.
func (r *Replicator) Replicate(ctx context.Context, ids []string, target core.MonthKey) ([]core.Transaction, error) {
	if target.IsZero() {
		return nil, core.ErrInvalidMonth
	}

	existing, err := r.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	// Sources already replicated into the target month.
	replicated := make(map[string]bool)
	for _, t := range existing {
		if t.ReplicatedFrom != "" && target.Contains(t.Date) {
			replicated[t.ReplicatedFrom] = true
		}
	}

	var pending []core.Transaction
	for _, id := range ids {
		src, err := r.store.TransactionByID(ctx, id)
		if errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Replication source not found", "id", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		if replicated[id] {
			continue
		}
		if src.IsCard && src.Installments > 0 && src.Installments <= 1 {
			// Final installment, nothing left to carry forward.
			continue
		}

		day := src.Date.Day
		if last := target.LastDay(); day > last {
			day = last
		}
		replica := src
		replica.ID = ""
		replica.Date = core.NewDate(target.Year, target.Month, day)
		replica.Paid = false
		replica.ReplicatedFrom = src.ID
		if src.IsCard && src.Installments > 0 {
			replica.Installments = src.Installments - 1
		}
		pending = append(pending, replica)
		replicated[id] = true
	}

	if len(pending) == 0 {
		return nil, nil
	}
	created, err := r.store.AddTransactions(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("replicate transactions: %w", err)
	}

	slog.InfoContext(ctx, "Transactions replicated",
		"requested", len(ids),
		"created", len(created),
		"target_month", target.String())
	return created, nil
}
