package timeutil

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 3, 1, 23, 50, 0, 0, WIB)
	b := time.Date(2025, 3, 2, 0, 10, 0, 0, WIB)

	// Ten minutes apart but across midnight counts as one calendar day
	if got := DaysBetween(a, b); got != 1 {
		t.Errorf("DaysBetween across midnight = %d, want 1", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("DaysBetween same instant = %d, want 0", got)
	}
	if got := DaysBetween(b, a); got != -1 {
		t.Errorf("DaysBetween reversed = %d, want -1", got)
	}

	c := time.Date(2025, 3, 16, 8, 0, 0, 0, WIB)
	if got := DaysBetween(a, c); got != 15 {
		t.Errorf("DaysBetween two weeks = %d, want 15", got)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 3, 1, 0, 0, 1, 0, WIB)
	b := time.Date(2025, 3, 1, 23, 59, 59, 0, WIB)
	if !SameDay(a, b) {
		t.Error("expected same day for both ends of 2025-03-01")
	}
	if SameDay(a, b.Add(time.Second)) {
		t.Error("expected different day after midnight")
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-03-01")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 1 {
		t.Errorf("ParseDate = %v", got)
	}
	if got.Location() != WIB {
		t.Errorf("ParseDate location = %v, want operational timezone", got.Location())
	}

	if _, err := ParseDate("01-03-2025"); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	at := time.Date(2025, 7, 14, 13, 45, 12, 0, WIB)

	start := StartOfDay(at)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Errorf("StartOfDay = %v", start)
	}

	end := EndOfDay(at)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("EndOfDay = %v", end)
	}
	if !SameDay(start, end) {
		t.Error("start and end of day must share the calendar day")
	}
}
