// Package ledger implements the transaction ledger: durable
// collections of transactions, categories, goals, fixed expenses and
// the savings balance, all persisted through a storage.KV document
// store.
package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"financas/internal/core"
	"financas/internal/storage"
)

// Collection keys in the KV store. The names match the documents
// produced by earlier clients so existing data imports cleanly.
const (
	keyTransactions   = "financas_transactions"
	keyCategories     = "financas_categories"
	keyGoals          = "financas_goals"
	keySettings       = "financas_settings"
	keySavings        = "financas_savings"
	keySavingsHistory = "financas_savings_history"
	keyFixedExpenses  = "financas_fixed_expenses"
)

// Store is the ledger store. All reads and writes from other
// components go through it; mutations are serialized by an internal
// mutex so a read-modify-write cycle never interleaves with another.
type Store struct {
	mu sync.Mutex
	kv storage.KV
}

func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// newID generates a collision-resistant opaque id: unix-milli in
// base36 plus a random hex suffix. No ordering is derived from ids.
func newID() string {
	suffix := make([]byte, 6)
	_, _ = rand.Read(suffix)
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + hex.EncodeToString(suffix)
}

func loadCollection[T any](ctx context.Context, kv storage.KV, key string) ([]T, error) {
	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

func saveCollection[T any](ctx context.Context, kv storage.KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Put(ctx, key, data)
}

// ===== Transactions =====

// Transactions returns all transactions in insertion order. Consumers
// sort explicitly by date when they need an ordering.
func (s *Store) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return loadCollection[core.Transaction](ctx, s.kv, keyTransactions)
}

// TransactionsByMonth returns transactions whose date falls in the
// given month, matched on year/month components.
func (s *Store) TransactionsByMonth(ctx context.Context, month core.MonthKey) ([]core.Transaction, error) {
	all, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Transaction
	for _, t := range all {
		if month.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) TransactionByID(ctx context.Context, id string) (core.Transaction, error) {
	all, err := s.Transactions(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

// AddTransaction validates, assigns a fresh id and creation timestamp,
// appends and persists. The stored transaction is returned.
func (s *Store) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.Transactions(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	t.ID = newID()
	t.CreatedAt = time.Now().UTC()
	all = append(all, t)
	if err := saveCollection(ctx, s.kv, keyTransactions, all); err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction added",
		"id", t.ID,
		"type", t.Type,
		"value", t.Value.String(),
		"date", t.Date.String())
	return t, nil
}

// TransactionUpdate lists the mutable fields of a transaction. Nil
// fields are left untouched; id and createdAt can never be changed.
type TransactionUpdate struct {
	Type         *core.TransactionType
	Value        *core.Amount
	Description  *string
	Category     *string
	Date         *core.Date
	Paid         *bool
	IsCard       *bool
	Installments *int
}

func (u TransactionUpdate) apply(t core.Transaction) core.Transaction {
	if u.Type != nil {
		t.Type = *u.Type
	}
	if u.Value != nil {
		t.Value = *u.Value
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.Date != nil {
		t.Date = *u.Date
	}
	if u.Paid != nil {
		t.Paid = *u.Paid
	}
	if u.IsCard != nil {
		t.IsCard = *u.IsCard
	}
	if u.Installments != nil {
		t.Installments = *u.Installments
	}
	return t
}

// UpdateTransaction merges the given fields into the transaction with
// the given id. Returns core.ErrNotFound when the id is absent; the
// updated record is validated before anything is persisted.
func (s *Store) UpdateTransaction(ctx context.Context, id string, upd TransactionUpdate) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.Transactions(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for i, t := range all {
		if t.ID != id {
			continue
		}
		updated := upd.apply(t)
		if err := updated.Validate(); err != nil {
			return core.Transaction{}, err
		}
		all[i] = updated
		if err := saveCollection(ctx, s.kv, keyTransactions, all); err != nil {
			return core.Transaction{}, err
		}
		return updated, nil
	}
	return core.Transaction{}, core.ErrNotFound
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.Transactions(ctx)
	if err != nil {
		return err
	}
	kept := all[:0]
	found := false
	for _, t := range all {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return core.ErrNotFound
	}
	return saveCollection(ctx, s.kv, keyTransactions, kept)
}

// TogglePaid flips the paid flag of an expense transaction.
func (s *Store) TogglePaid(ctx context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.Transactions(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for i, t := range all {
		if t.ID != id {
			continue
		}
		all[i].Paid = !t.Paid
		if err := saveCollection(ctx, s.kv, keyTransactions, all); err != nil {
			return core.Transaction{}, err
		}
		return all[i], nil
	}
	return core.Transaction{}, core.ErrNotFound
}

// AddTransactions appends several pre-built transactions in one
// persisted write. Used by the fixed-expense processor and the
// replicator, which construct complete records themselves.
func (s *Store) AddTransactions(ctx context.Context, ts []core.Transaction) ([]core.Transaction, error) {
	if len(ts) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	stored := make([]core.Transaction, 0, len(ts))
	for _, t := range ts {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		t.ID = newID()
		t.CreatedAt = time.Now().UTC()
		all = append(all, t)
		stored = append(stored, t)
	}
	if err := saveCollection(ctx, s.kv, keyTransactions, all); err != nil {
		return nil, err
	}
	return stored, nil
}

// AvailableMonths returns the distinct months containing transactions,
// newest first.
func (s *Store) AvailableMonths(ctx context.Context) ([]core.MonthKey, error) {
	all, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[core.MonthKey]bool)
	var months []core.MonthKey
	for _, t := range all {
		mk := t.Date.MonthKey()
		if !seen[mk] {
			seen[mk] = true
			months = append(months, mk)
		}
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Compare(months[j]) > 0
	})
	return months, nil
}

// ===== Categories =====

// Categories returns all categories, seeding the nine defaults on
// first access.
func (s *Store) Categories(ctx context.Context) ([]core.Category, error) {
	cats, err := loadCollection[core.Category](ctx, s.kv, keyCategories)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = core.DefaultCategories()
		if err := saveCollection(ctx, s.kv, keyCategories, cats); err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "Seeded default categories", "count", len(cats))
	}
	return cats, nil
}

func (s *Store) CategoryByID(ctx context.Context, id string) (core.Category, error) {
	cats, err := s.Categories(ctx)
	if err != nil {
		return core.Category{}, err
	}
	for _, c := range cats {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Category{}, core.ErrNotFound
}

// DisplayCategory resolves a category reference for display, degrading
// to the fallback category when the reference is orphaned.
func (s *Store) DisplayCategory(ctx context.Context, id string) core.Category {
	c, err := s.CategoryByID(ctx, id)
	if err == nil {
		return c
	}
	fallback, err := s.CategoryByID(ctx, core.FallbackCategoryID)
	if err != nil {
		return core.Category{ID: core.FallbackCategoryID, Name: "Outros"}
	}
	return fallback
}

func (s *Store) AddCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cats, err := s.Categories(ctx)
	if err != nil {
		return core.Category{}, err
	}
	c.ID = newID()
	c.Default = false
	cats = append(cats, c)
	if err := saveCollection(ctx, s.kv, keyCategories, cats); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

// DeleteCategory removes a custom category. Deleting a default
// category fails with core.ErrDefaultCategory and leaves the list
// unchanged. Transactions referencing the deleted category keep their
// category field; readers fall back at display time.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats, err := s.Categories(ctx)
	if err != nil {
		return err
	}
	found := false
	kept := cats[:0]
	for _, c := range cats {
		if c.ID == id {
			if c.Default {
				return core.ErrDefaultCategory
			}
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return core.ErrNotFound
	}
	return saveCollection(ctx, s.kv, keyCategories, kept)
}

// ===== Goals =====

func (s *Store) Goals(ctx context.Context) ([]core.Goal, error) {
	return loadCollection[core.Goal](ctx, s.kv, keyGoals)
}

func (s *Store) GoalByID(ctx context.Context, id string) (core.Goal, error) {
	goals, err := s.Goals(ctx)
	if err != nil {
		return core.Goal{}, err
	}
	for _, g := range goals {
		if g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, core.ErrNotFound
}

func (s *Store) AddGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.CurrentAmount = core.Amount{}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := s.Goals(ctx)
	if err != nil {
		return core.Goal{}, err
	}
	g.ID = newID()
	g.CreatedAt = time.Now().UTC()
	goals = append(goals, g)
	if err := saveCollection(ctx, s.kv, keyGoals, goals); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

// GoalUpdate lists the mutable fields of a goal. CurrentAmount is
// deliberately absent: it only changes through AddAmountToGoal.
type GoalUpdate struct {
	Name         *string
	TargetAmount *core.Amount
	Months       *int
}

func (s *Store) UpdateGoal(ctx context.Context, id string, upd GoalUpdate) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := s.Goals(ctx)
	if err != nil {
		return core.Goal{}, err
	}
	for i, g := range goals {
		if g.ID != id {
			continue
		}
		if upd.Name != nil {
			g.Name = *upd.Name
		}
		if upd.TargetAmount != nil {
			g.TargetAmount = *upd.TargetAmount
		}
		if upd.Months != nil {
			g.Months = *upd.Months
		}
		if err := g.Validate(); err != nil {
			return core.Goal{}, err
		}
		goals[i] = g
		if err := saveCollection(ctx, s.kv, keyGoals, goals); err != nil {
			return core.Goal{}, err
		}
		return g, nil
	}
	return core.Goal{}, core.ErrNotFound
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := s.Goals(ctx)
	if err != nil {
		return err
	}
	kept := goals[:0]
	found := false
	for _, g := range goals {
		if g.ID == id {
			found = true
			continue
		}
		kept = append(kept, g)
	}
	if !found {
		return core.ErrNotFound
	}
	return saveCollection(ctx, s.kv, keyGoals, kept)
}

// AddAmountToGoal increases a goal's progress by the given amount.
func (s *Store) AddAmountToGoal(ctx context.Context, id string, amount core.Amount) (core.Goal, error) {
	if !amount.IsPositive() {
		return core.Goal{}, core.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	goals, err := s.Goals(ctx)
	if err != nil {
		return core.Goal{}, err
	}
	for i, g := range goals {
		if g.ID != id {
			continue
		}
		goals[i].CurrentAmount = g.CurrentAmount.Add(amount)
		if err := saveCollection(ctx, s.kv, keyGoals, goals); err != nil {
			return core.Goal{}, err
		}
		return goals[i], nil
	}
	return core.Goal{}, core.ErrNotFound
}

// ===== Fixed expenses =====

func (s *Store) FixedExpenses(ctx context.Context) ([]core.FixedExpense, error) {
	return loadCollection[core.FixedExpense](ctx, s.kv, keyFixedExpenses)
}

func (s *Store) FixedExpenseByID(ctx context.Context, id string) (core.FixedExpense, error) {
	all, err := s.FixedExpenses(ctx)
	if err != nil {
		return core.FixedExpense{}, err
	}
	for _, fe := range all {
		if fe.ID == id {
			return fe, nil
		}
	}
	return core.FixedExpense{}, core.ErrNotFound
}

func (s *Store) AddFixedExpense(ctx context.Context, fe core.FixedExpense) (core.FixedExpense, error) {
	if err := fe.Validate(); err != nil {
		return core.FixedExpense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.FixedExpenses(ctx)
	if err != nil {
		return core.FixedExpense{}, err
	}
	fe.ID = newID()
	fe.CreatedAt = time.Now().UTC()
	all = append(all, fe)
	if err := saveCollection(ctx, s.kv, keyFixedExpenses, all); err != nil {
		return core.FixedExpense{}, err
	}
	return fe, nil
}

// FixedExpenseUpdate lists the mutable fields of a fixed expense.
type FixedExpenseUpdate struct {
	Description *string
	Value       *core.Amount
	Category    *string
	DueDay      *int
}

func (s *Store) UpdateFixedExpense(ctx context.Context, id string, upd FixedExpenseUpdate) (core.FixedExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.FixedExpenses(ctx)
	if err != nil {
		return core.FixedExpense{}, err
	}
	for i, fe := range all {
		if fe.ID != id {
			continue
		}
		if upd.Description != nil {
			fe.Description = *upd.Description
		}
		if upd.Value != nil {
			fe.Value = *upd.Value
		}
		if upd.Category != nil {
			fe.Category = *upd.Category
		}
		if upd.DueDay != nil {
			fe.DueDay = *upd.DueDay
		}
		if err := fe.Validate(); err != nil {
			return core.FixedExpense{}, err
		}
		all[i] = fe
		if err := saveCollection(ctx, s.kv, keyFixedExpenses, all); err != nil {
			return core.FixedExpense{}, err
		}
		return fe, nil
	}
	return core.FixedExpense{}, core.ErrNotFound
}

func (s *Store) DeleteFixedExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.FixedExpenses(ctx)
	if err != nil {
		return err
	}
	kept := all[:0]
	found := false
	for _, fe := range all {
		if fe.ID == id {
			found = true
			continue
		}
		kept = append(kept, fe)
	}
	if !found {
		return core.ErrNotFound
	}
	return saveCollection(ctx, s.kv, keyFixedExpenses, kept)
}

// ===== Savings =====

func (s *Store) Savings(ctx context.Context) (core.Amount, error) {
	data, ok, err := s.kv.Get(ctx, keySavings)
	if err != nil {
		return core.Amount{}, err
	}
	if !ok {
		return core.Amount{}, nil
	}
	var balance core.Amount
	if err := json.Unmarshal(data, &balance); err != nil {
		return core.Amount{}, fmt.Errorf("decode %s: %w", keySavings, err)
	}
	return balance, nil
}

func (s *Store) SavingsHistory(ctx context.Context) ([]core.SavingsEntry, error) {
	return loadCollection[core.SavingsEntry](ctx, s.kv, keySavingsHistory)
}

// Deposit adds to the savings balance and appends a history entry.
func (s *Store) Deposit(ctx context.Context, amount core.Amount, reason string) (core.SavingsEntry, error) {
	if !amount.IsPositive() {
		return core.SavingsEntry{}, core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applySavingsChange(ctx, core.SavingsDeposit, amount, reason)
}

// Withdraw removes from the savings balance. A withdrawal exceeding
// the balance fails with core.ErrInsufficientSavings and changes
// nothing.
func (s *Store) Withdraw(ctx context.Context, amount core.Amount, reason string) (core.SavingsEntry, error) {
	if !amount.IsPositive() {
		return core.SavingsEntry{}, core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applySavingsChange(ctx, core.SavingsWithdraw, amount, reason)
}

// applySavingsChange mutates balance and history together; callers
// hold the store mutex.
func (s *Store) applySavingsChange(ctx context.Context, typ core.SavingsEntryType, amount core.Amount, reason string) (core.SavingsEntry, error) {
	balance, err := s.Savings(ctx)
	if err != nil {
		return core.SavingsEntry{}, err
	}

	var after core.Amount
	switch typ {
	case core.SavingsDeposit:
		after = balance.Add(amount)
	case core.SavingsWithdraw:
		if amount.Cmp(balance) > 0 {
			return core.SavingsEntry{}, core.ErrInsufficientSavings
		}
		after = balance.Sub(amount)
	default:
		return core.SavingsEntry{}, fmt.Errorf("unknown savings entry type %q", typ)
	}

	entry := core.SavingsEntry{
		ID:           newID(),
		Type:         typ,
		Value:        amount,
		Reason:       reason,
		BalanceAfter: after,
		Date:         time.Now().UTC(),
	}

	history, err := s.SavingsHistory(ctx)
	if err != nil {
		return core.SavingsEntry{}, err
	}
	history = append(history, entry)

	data, err := json.Marshal(after)
	if err != nil {
		return core.SavingsEntry{}, err
	}
	if err := s.kv.Put(ctx, keySavings, data); err != nil {
		return core.SavingsEntry{}, err
	}
	if err := saveCollection(ctx, s.kv, keySavingsHistory, history); err != nil {
		return core.SavingsEntry{}, err
	}

	slog.InfoContext(ctx, "Savings balance changed",
		"type", typ,
		"value", amount.String(),
		"balance_after", after.String())
	return entry, nil
}

// AllocateToGoal moves part of the savings balance into a goal's
// progress: the withdrawal is history-tracked and the goal's
// currentAmount grows by the same amount.
func (s *Store) AllocateToGoal(ctx context.Context, goalID string, amount core.Amount) (core.Goal, error) {
	goal, err := s.GoalByID(ctx, goalID)
	if err != nil {
		return core.Goal{}, err
	}
	if _, err := s.Withdraw(ctx, amount, "Meta: "+goal.Name); err != nil {
		return core.Goal{}, err
	}
	return s.AddAmountToGoal(ctx, goalID, amount)
}

// ===== Settings =====

func (s *Store) Settings(ctx context.Context) (core.Settings, error) {
	data, ok, err := s.kv.Get(ctx, keySettings)
	if err != nil {
		return core.Settings{}, err
	}
	if !ok {
		return core.Settings{Theme: "light"}, nil
	}
	var settings core.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return core.Settings{}, fmt.Errorf("decode %s: %w", keySettings, err)
	}
	return settings, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings core.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, keySettings, data)
}

// ClearAll removes every ledger collection. Sync configuration is kept;
// disconnecting sync is a separate operation.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{
		keyTransactions, keyCategories, keyGoals,
		keySettings, keySavings, keySavingsHistory, keyFixedExpenses,
	} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	slog.WarnContext(ctx, "All ledger data cleared")
	return nil
}
