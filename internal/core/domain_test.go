package core

import (
	"errors"
	"testing"
)

func validTransaction() Transaction {
	return Transaction{
		Type:        TypeExpense,
		Value:       NewAmount(50),
		Description: "Mercado",
		Category:    "alimentacao",
		Date:        NewDate(2024, 3, 10),
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "bad type", mutate: func(tr *Transaction) { tr.Type = "transfer" }, wantErr: ErrInvalidType},
		{name: "zero value", mutate: func(tr *Transaction) { tr.Value = Amount{} }, wantErr: ErrInvalidAmount},
		{name: "blank description", mutate: func(tr *Transaction) { tr.Description = "   " }, wantErr: ErrEmptyDescription},
		{name: "missing category", mutate: func(tr *Transaction) { tr.Category = "" }, wantErr: ErrEmptyCategory},
		{name: "invalid date", mutate: func(tr *Transaction) { tr.Date = Date{2024, 2, 30} }, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := validTransaction()
			tt.mutate(&tr)
			err := tr.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFixedExpenseValidate(t *testing.T) {
	fe := FixedExpense{
		Description: "Aluguel",
		Value:       NewAmount(1200),
		Category:    "moradia",
		DueDay:      5,
	}
	if err := fe.Validate(); err != nil {
		t.Fatalf("valid fixed expense rejected: %v", err)
	}

	fe.DueDay = 0
	if !errors.Is(fe.Validate(), ErrInvalidDueDay) {
		t.Error("due day 0 accepted")
	}
	fe.DueDay = 32
	if !errors.Is(fe.Validate(), ErrInvalidDueDay) {
		t.Error("due day 32 accepted")
	}
	fe.DueDay = 31
	if err := fe.Validate(); err != nil {
		t.Errorf("due day 31 rejected: %v", err)
	}
}

func TestGoalCompleted(t *testing.T) {
	g := Goal{Name: "Viagem", TargetAmount: NewAmount(1000), Months: 10}
	if g.Completed() {
		t.Error("empty goal reported completed")
	}
	g.CurrentAmount = NewAmount(1000)
	if !g.Completed() {
		t.Error("goal at target not reported completed")
	}
}

func TestDefaultCategories(t *testing.T) {
	cats := DefaultCategories()
	if len(cats) != 9 {
		t.Fatalf("expected 9 default categories, got %d", len(cats))
	}
	for _, c := range cats {
		if !c.Default {
			t.Errorf("category %s not marked default", c.ID)
		}
	}
	found := false
	for _, c := range cats {
		if c.ID == FallbackCategoryID {
			found = true
		}
	}
	if !found {
		t.Errorf("fallback category %q missing from defaults", FallbackCategoryID)
	}
}
