package core

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "valid date", input: "2024-03-15", want: Date{2024, 3, 15}},
		{name: "leap day", input: "2024-02-29", want: Date{2024, 2, 29}},
		{name: "non-leap february 29", input: "2023-02-29", wantErr: true},
		{name: "month out of range", input: "2024-13-01", wantErr: true},
		{name: "day out of range", input: "2024-04-31", wantErr: true},
		{name: "missing day", input: "2024-04", wantErr: true},
		{name: "garbage", input: "not-a-date", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 7, 9)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-07-09"` {
		t.Errorf("marshal = %s, want %q", data, `"2024-07-09"`)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2024, 2, 29},
		{2023, 2, 28},
		{2024, 1, 31},
		{2024, 4, 30},
		{2024, 12, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestDateDaysUntil(t *testing.T) {
	today := NewDate(2024, 3, 15)
	tests := []struct {
		name string
		date Date
		want int
	}{
		{name: "same day", date: NewDate(2024, 3, 15), want: 0},
		{name: "two days ahead", date: NewDate(2024, 3, 17), want: 2},
		{name: "overdue", date: NewDate(2024, 3, 10), want: -5},
		{name: "across month boundary", date: NewDate(2024, 4, 1), want: 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.DaysUntil(today); got != tt.want {
				t.Errorf("DaysUntil = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMonthKeyNext(t *testing.T) {
	m := MonthKey{Year: 2024, Month: 11}
	if got := m.Next(); got != (MonthKey{2024, 12}) {
		t.Errorf("Next = %v", got)
	}
	if got := m.Next().Next(); got != (MonthKey{2025, 1}) {
		t.Errorf("Next across year = %v", got)
	}
}

func TestMonthKeyAddMonths(t *testing.T) {
	tests := []struct {
		start MonthKey
		n     int
		want  MonthKey
	}{
		{MonthKey{2024, 6}, 0, MonthKey{2024, 6}},
		{MonthKey{2024, 6}, 7, MonthKey{2025, 1}},
		{MonthKey{2024, 1}, -1, MonthKey{2023, 12}},
		{MonthKey{2024, 3}, -5, MonthKey{2023, 10}},
	}
	for _, tt := range tests {
		if got := tt.start.AddMonths(tt.n); got != tt.want {
			t.Errorf("%v.AddMonths(%d) = %v, want %v", tt.start, tt.n, got, tt.want)
		}
	}
}

func TestMonthKeyContains(t *testing.T) {
	m := MonthKey{Year: 2024, Month: 2}
	if !m.Contains(NewDate(2024, 2, 29)) {
		t.Error("expected 2024-02-29 in 2024-02")
	}
	if m.Contains(NewDate(2024, 3, 1)) {
		t.Error("did not expect 2024-03-01 in 2024-02")
	}
}
