package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day held as separate year/month/day components.
// Dates are compared component-wise, never through timezone-aware
// instants, so a transaction entered as 2024-03-01 stays on March 1st
// on every device.
type Date struct {
	Year  int
	Month int // 1-12
	Day   int // 1-31
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// Today returns the current local calendar day.
func Today() Date {
	y, m, d := time.Now().Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// ParseDate parses a strict YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Date{}, ErrInvalidDate
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return Date{}, ErrInvalidDate
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	d := Date{Year: year, Month: month, Day: day}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

func (d Date) Validate() error {
	if d.Month < 1 || d.Month > 12 {
		return ErrInvalidDate
	}
	if d.Day < 1 || d.Day > DaysInMonth(d.Year, d.Month) {
		return ErrInvalidDate
	}
	return nil
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compare returns -1, 0 or 1 comparing d against other chronologically.
func (d Date) Compare(other Date) int {
	a := d.Year*10000 + d.Month*100 + d.Day
	b := other.Year*10000 + other.Month*100 + other.Day
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MonthKey returns the year-month bucket the date falls in.
func (d Date) MonthKey() MonthKey {
	return MonthKey{Year: d.Year, Month: d.Month}
}

// DaysUntil returns the number of whole days from `from` to d.
// Negative means d is in the past relative to `from`.
func (d Date) DaysUntil(from Date) int {
	// time.Date is only used for day arithmetic; both ends are pinned to
	// UTC midnight so no timezone shift can leak in.
	a := time.Date(from.Year, time.Month(from.Month), from.Day, 0, 0, 0, 0, time.UTC)
	b := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

// DaysInMonth returns the number of days in the given month, leap years
// included.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthKey identifies a calendar month (YYYY-MM).
type MonthKey struct {
	Year  int
	Month int // 1-12
}

// CurrentMonth returns the month bucket of the current local day.
func CurrentMonth() MonthKey {
	return Today().MonthKey()
}

// ParseMonthKey parses a strict YYYY-MM string.
func ParseMonthKey(s string) (MonthKey, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 || len(parts[0]) != 4 {
		return MonthKey{}, ErrInvalidMonth
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return MonthKey{}, ErrInvalidMonth
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return MonthKey{}, ErrInvalidMonth
	}
	return MonthKey{Year: year, Month: month}, nil
}

func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// IsZero reports whether the month key is the zero value.
func (m MonthKey) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Next returns the following calendar month.
func (m MonthKey) Next() MonthKey {
	if m.Month == 12 {
		return MonthKey{Year: m.Year + 1, Month: 1}
	}
	return MonthKey{Year: m.Year, Month: m.Month + 1}
}

// AddMonths returns the month n months after m (n may be negative).
func (m MonthKey) AddMonths(n int) MonthKey {
	total := m.Year*12 + (m.Month - 1) + n
	return MonthKey{Year: total / 12, Month: total%12 + 1}
}

// Compare returns -1, 0 or 1 comparing m against other chronologically.
func (m MonthKey) Compare(other MonthKey) int {
	a := m.Year*12 + m.Month
	b := other.Year*12 + other.Month
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Contains reports whether the date falls in this month, matched on
// year/month components.
func (m MonthKey) Contains(d Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

// LastDay returns the last day-of-month number for this month.
func (m MonthKey) LastDay() int {
	return DaysInMonth(m.Year, m.Month)
}

func (m MonthKey) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(m.String())
}

func (m *MonthKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*m = MonthKey{}
		return nil
	}
	parsed, err := ParseMonthKey(s)
	if err != nil {
		return fmt.Errorf("parse month %q: %w", s, err)
	}
	*m = parsed
	return nil
}
