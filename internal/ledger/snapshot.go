package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/core"
)

// Snapshot is the whole-state document shared by export/import and the
// remote sync document. Absent collections stay nil and are left
// untouched on import.
type Snapshot struct {
	Transactions   []core.Transaction  `json:"transactions,omitempty"`
	Categories     []core.Category     `json:"categories,omitempty"`
	Goals          []core.Goal         `json:"goals,omitempty"`
	Savings        *core.Amount        `json:"savings,omitempty"`
	SavingsHistory []core.SavingsEntry `json:"savingsHistory,omitempty"`
	Settings       *core.Settings      `json:"settings,omitempty"`
	FixedExpenses  []core.FixedExpense `json:"fixedExpenses,omitempty"`
	Devices        []core.Device       `json:"devices,omitempty"`
	SyncedAt       *time.Time          `json:"syncedAt,omitempty"`
	ExportedAt     *time.Time          `json:"exportedAt,omitempty"`
}

// Export captures the complete current state. Every collection is
// present in the result, empty or not.
func (s *Store) Export(ctx context.Context) (Snapshot, error) {
	transactions, err := s.Transactions(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export transactions: %w", err)
	}
	categories, err := s.Categories(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export categories: %w", err)
	}
	goals, err := s.Goals(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export goals: %w", err)
	}
	savings, err := s.Savings(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export savings: %w", err)
	}
	history, err := s.SavingsHistory(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export savings history: %w", err)
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export settings: %w", err)
	}
	fixed, err := s.FixedExpenses(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export fixed expenses: %w", err)
	}

	if transactions == nil {
		transactions = []core.Transaction{}
	}
	if goals == nil {
		goals = []core.Goal{}
	}
	if history == nil {
		history = []core.SavingsEntry{}
	}
	if fixed == nil {
		fixed = []core.FixedExpense{}
	}

	now := time.Now().UTC()
	return Snapshot{
		Transactions:   transactions,
		Categories:     categories,
		Goals:          goals,
		Savings:        &savings,
		SavingsHistory: history,
		Settings:       &settings,
		FixedExpenses:  fixed,
		ExportedAt:     &now,
	}, nil
}

// Import wholesale-replaces each collection present in the snapshot.
// Nil collections are left untouched.
func (s *Store) Import(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Transactions != nil {
		if err := saveCollection(ctx, s.kv, keyTransactions, snap.Transactions); err != nil {
			return err
		}
	}
	if snap.Categories != nil {
		if err := saveCollection(ctx, s.kv, keyCategories, snap.Categories); err != nil {
			return err
		}
	}
	if snap.Goals != nil {
		if err := saveCollection(ctx, s.kv, keyGoals, snap.Goals); err != nil {
			return err
		}
	}
	if snap.Savings != nil {
		data, err := json.Marshal(snap.Savings)
		if err != nil {
			return err
		}
		if err := s.kv.Put(ctx, keySavings, data); err != nil {
			return err
		}
	}
	if snap.SavingsHistory != nil {
		if err := saveCollection(ctx, s.kv, keySavingsHistory, snap.SavingsHistory); err != nil {
			return err
		}
	}
	if snap.Settings != nil {
		data, err := json.Marshal(snap.Settings)
		if err != nil {
			return err
		}
		if err := s.kv.Put(ctx, keySettings, data); err != nil {
			return err
		}
	}
	if snap.FixedExpenses != nil {
		if err := saveCollection(ctx, s.kv, keyFixedExpenses, snap.FixedExpenses); err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "Snapshot imported",
		"transactions", len(snap.Transactions),
		"categories", len(snap.Categories),
		"goals", len(snap.Goals),
		"fixed_expenses", len(snap.FixedExpenses))
	return nil
}

// ImportJSON parses a snapshot document and applies it. The payload is
// decoded in full before any collection is overwritten, so a malformed
// document changes nothing.
func (s *Store) ImportJSON(ctx context.Context, data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse import payload: %w", err)
	}
	return s.Import(ctx, snap)
}
