package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

const (
	SavingsDeposit  SavingsEntryType = "deposit"
	SavingsWithdraw SavingsEntryType = "withdraw"
)

type (
	TransactionType  string
	SavingsEntryType string

	// Transaction is a single income or expense entry. Instances are
	// created by direct entry, by the fixed-expense processor or by
	// month replication.
	Transaction struct {
		ID             string          `json:"id"`
		Type           TransactionType `json:"type"`
		Value          Amount          `json:"value"`
		Description    string          `json:"description"`
		Category       string          `json:"category"`
		Date           Date            `json:"date"`
		CreatedAt      time.Time       `json:"createdAt"`
		Paid           bool            `json:"paid"`
		IsCard         bool            `json:"isCard"`
		Installments   int             `json:"installments,omitempty"`
		FixedExpenseID string          `json:"fixedExpenseId,omitempty"`
		ReplicatedFrom string          `json:"replicatedFrom,omitempty"`
	}

	Category struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Color   string `json:"color"`
		Icon    string `json:"icon"`
		Default bool   `json:"default"`
	}

	// Goal tracks progress towards a savings target. CurrentAmount
	// only grows through explicit allocation, never from transactions.
	Goal struct {
		ID            string    `json:"id"`
		Name          string    `json:"name"`
		TargetAmount  Amount    `json:"targetAmount"`
		Months        int       `json:"months"`
		CurrentAmount Amount    `json:"currentAmount"`
		CreatedAt     time.Time `json:"createdAt"`
	}

	// FixedExpense is a recurring monthly obligation definition. It is
	// not itself a transaction; concrete instances are materialized per
	// month by the fixed-expense processor.
	FixedExpense struct {
		ID          string    `json:"id"`
		Description string    `json:"description"`
		Value       Amount    `json:"value"`
		Category    string    `json:"category"`
		DueDay      int       `json:"dueDay"`
		StartMonth  MonthKey  `json:"startMonth"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// SavingsEntry is one line of the append-only savings history.
	SavingsEntry struct {
		ID           string           `json:"id"`
		Type         SavingsEntryType `json:"type"`
		Value        Amount           `json:"value"`
		Reason       string           `json:"reason"`
		BalanceAfter Amount           `json:"balanceAfter"`
		Date         time.Time        `json:"date"`
	}

	Settings struct {
		Theme string `json:"theme"`
	}

	// Device identifies one synced installation in the shared remote
	// document. A blocked device is refused pull and push.
	Device struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		LastSync time.Time `json:"lastSync"`
		Blocked  bool      `json:"blocked,omitempty"`
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidDueDay       = errors.New("due day must be between 1 and 31")
	ErrEmptyDescription    = errors.New("empty description")
	ErrEmptyName           = errors.New("empty name")
	ErrEmptyCategory       = errors.New("empty category")
	ErrNotFound            = errors.New("not found")
	ErrDefaultCategory     = errors.New("default categories cannot be deleted")
	ErrInsufficientSavings = errors.New("withdrawal exceeds savings balance")
)

func (t Transaction) Validate() error {
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return ErrInvalidType
	}
	if !t.Value.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Installments < 0 {
		return errors.New("installments cannot be negative")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	if g.Months <= 0 {
		return errors.New("months must be positive")
	}
	if g.CurrentAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Completed reports whether the goal target has been reached.
func (g Goal) Completed() bool {
	return g.CurrentAmount.Cmp(g.TargetAmount) >= 0
}

func (fe FixedExpense) Validate() error {
	if strings.TrimSpace(fe.Description) == "" {
		return ErrEmptyDescription
	}
	if !fe.Value.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(fe.Category) == "" {
		return ErrEmptyCategory
	}
	if fe.DueDay < 1 || fe.DueDay > 31 {
		return ErrInvalidDueDay
	}
	return nil
}
