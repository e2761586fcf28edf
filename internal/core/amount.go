// Package core holds the domain model of the ledger: transactions,
// categories, goals, fixed expenses and the savings balance, plus the
// value types (Amount, Date) they are built from.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value with exact decimal arithmetic. It
// marshals to a bare JSON number so snapshots stay interchangeable
// with the documents produced by earlier clients.
type Amount struct {
	dec decimal.Decimal
}

// NewAmount builds an Amount from an int64 of whole currency units.
func NewAmount(units int64) Amount {
	return Amount{dec: decimal.NewFromInt(units)}
}

// AmountFromDecimal wraps an existing decimal value.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{dec: d}
}

// ParseAmount parses a decimal string. Both "12.34" and "12,34" are
// accepted. The result may be zero but never negative.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{dec: d}, nil
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal { return a.dec }

// Float64 returns the value as a float64 for display purposes only.
func (a Amount) Float64() float64 {
	f, _ := a.dec.Float64()
	return f
}

func (a Amount) Add(b Amount) Amount { return Amount{dec: a.dec.Add(b.dec)} }
func (a Amount) Sub(b Amount) Amount { return Amount{dec: a.dec.Sub(b.dec)} }

func (a Amount) IsZero() bool        { return a.dec.IsZero() }
func (a Amount) IsPositive() bool    { return a.dec.IsPositive() }
func (a Amount) IsNegative() bool    { return a.dec.IsNegative() }
func (a Amount) Cmp(b Amount) int    { return a.dec.Cmp(b.dec) }
func (a Amount) Equal(b Amount) bool { return a.dec.Equal(b.dec) }

func (a Amount) String() string { return a.dec.String() }

// MarshalJSON emits the amount as an unquoted number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.dec.String()), nil
}

// UnmarshalJSON accepts either a bare number or a quoted decimal
// string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*a = Amount{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ErrInvalidAmount
	}
	a.dec = d
	return nil
}
