package services

import (
	"context"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/ledger"
)

// LedgerService orchestrates ledger mutations across the local store
// and AMQP. Every successful mutation publishes a sync request so the
// push worker can upload a fresh snapshot; publish failures are logged
// and never fail the request, the data is already saved locally.
type LedgerService struct {
	store      *ledger.Store
	amqpClient *amqp.Client
	deviceID   string
}

func NewLedgerService(store *ledger.Store, amqpClient *amqp.Client, deviceID string) *LedgerService {
	return &LedgerService{
		store:      store,
		amqpClient: amqpClient,
		deviceID:   deviceID,
	}
}

// Store exposes the underlying ledger for read-side queries.
func (s *LedgerService) Store() *ledger.Store {
	return s.store
}

func (s *LedgerService) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.store.AddTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}
	s.notifyChange(ctx, "transaction_added")
	return created, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, upd ledger.TransactionUpdate) (core.Transaction, error) {
	updated, err := s.store.UpdateTransaction(ctx, id, upd)
	if err != nil {
		return core.Transaction{}, err
	}
	s.notifyChange(ctx, "transaction_updated")
	return updated, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.notifyChange(ctx, "transaction_deleted")
	return nil
}

func (s *LedgerService) TogglePaid(ctx context.Context, id string) (core.Transaction, error) {
	updated, err := s.store.TogglePaid(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	s.notifyChange(ctx, "transaction_toggled")
	return updated, nil
}

func (s *LedgerService) AddCategory(ctx context.Context, c core.Category) (core.Category, error) {
	created, err := s.store.AddCategory(ctx, c)
	if err != nil {
		return core.Category{}, err
	}
	s.notifyChange(ctx, "category_added")
	return created, nil
}

func (s *LedgerService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.notifyChange(ctx, "category_deleted")
	return nil
}

func (s *LedgerService) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	created, err := s.store.AddGoal(ctx, g)
	if err != nil {
		return core.Goal{}, err
	}
	s.notifyChange(ctx, "goal_added")
	return created, nil
}

func (s *LedgerService) UpdateGoal(ctx context.Context, id string, upd ledger.GoalUpdate) (core.Goal, error) {
	updated, err := s.store.UpdateGoal(ctx, id, upd)
	if err != nil {
		return core.Goal{}, err
	}
	s.notifyChange(ctx, "goal_updated")
	return updated, nil
}

func (s *LedgerService) DeleteGoal(ctx context.Context, id string) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return err
	}
	s.notifyChange(ctx, "goal_deleted")
	return nil
}

func (s *LedgerService) AllocateToGoal(ctx context.Context, goalID string, amount core.Amount) (core.Goal, error) {
	goal, err := s.store.AllocateToGoal(ctx, goalID, amount)
	if err != nil {
		return core.Goal{}, err
	}
	s.notifyChange(ctx, "goal_allocated")
	return goal, nil
}

func (s *LedgerService) AddFixedExpense(ctx context.Context, fe core.FixedExpense) (core.FixedExpense, error) {
	created, err := s.store.AddFixedExpense(ctx, fe)
	if err != nil {
		return core.FixedExpense{}, err
	}
	s.notifyChange(ctx, "fixed_expense_added")
	return created, nil
}

func (s *LedgerService) UpdateFixedExpense(ctx context.Context, id string, upd ledger.FixedExpenseUpdate) (core.FixedExpense, error) {
	updated, err := s.store.UpdateFixedExpense(ctx, id, upd)
	if err != nil {
		return core.FixedExpense{}, err
	}
	s.notifyChange(ctx, "fixed_expense_updated")
	return updated, nil
}

func (s *LedgerService) DeleteFixedExpense(ctx context.Context, id string) error {
	if err := s.store.DeleteFixedExpense(ctx, id); err != nil {
		return err
	}
	s.notifyChange(ctx, "fixed_expense_deleted")
	return nil
}

func (s *LedgerService) Deposit(ctx context.Context, amount core.Amount, reason string) (core.SavingsEntry, error) {
	entry, err := s.store.Deposit(ctx, amount, reason)
	if err != nil {
		return core.SavingsEntry{}, err
	}
	s.notifyChange(ctx, "savings_deposit")
	return entry, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, amount core.Amount, reason string) (core.SavingsEntry, error) {
	entry, err := s.store.Withdraw(ctx, amount, reason)
	if err != nil {
		return core.SavingsEntry{}, err
	}
	s.notifyChange(ctx, "savings_withdraw")
	return entry, nil
}

func (s *LedgerService) SaveSettings(ctx context.Context, settings core.Settings) error {
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return err
	}
	s.notifyChange(ctx, "settings_saved")
	return nil
}

func (s *LedgerService) Replicate(ctx context.Context, ids []string, target core.MonthKey) ([]core.Transaction, error) {
	replicator := NewReplicator(s.store)
	created, err := replicator.Replicate(ctx, ids, target)
	if err != nil {
		return nil, err
	}
	if len(created) > 0 {
		s.notifyChange(ctx, "transactions_replicated")
	}
	return created, nil
}

func (s *LedgerService) ImportSnapshot(ctx context.Context, data []byte) error {
	if err := s.store.ImportJSON(ctx, data); err != nil {
		return err
	}
	s.notifyChange(ctx, "data_imported")
	return nil
}

func (s *LedgerService) ClearAll(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	s.notifyChange(ctx, "data_cleared")
	return nil
}

func (s *LedgerService) notifyChange(ctx context.Context, reason string) {
	ledgerMutations.WithLabelValues(reason).Inc()
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping sync request", "reason", reason)
		return
	}
	if err := s.amqpClient.PublishSyncRequest(ctx, reason, s.deviceID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync request",
			"reason", reason, "error", err)
	}
}
