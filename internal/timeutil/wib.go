package timeutil

import (
	"time"
)

// WIB is the operational timezone for all business-date arithmetic.
// Defaults to Western Indonesia Time (UTC+7); override with SetLocation.
var WIB *time.Location

func init() {
	var err error
	WIB, err = time.LoadLocation("Asia/Jakarta")
	if err != nil {
		// Fallback: create fixed zone if Asia/Jakarta not available
		WIB = time.FixedZone("WIB", 7*60*60) // UTC+7
	}
}

// SetLocation overrides the operational timezone (from config, at startup).
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	WIB = loc
	return nil
}

// Now returns the current time in the operational timezone
func Now() time.Time {
	return time.Now().In(WIB)
}

// ToWIB converts any time to the operational timezone
func ToWIB(t time.Time) time.Time {
	return t.In(WIB)
}

// ParseDate parses a YYYY-MM-DD string in the operational timezone
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, WIB)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// StartOfDay returns the start of day (00:00:00) in the operational timezone
func StartOfDay(t time.Time) time.Time {
	l := t.In(WIB)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, WIB)
}

// EndOfDay returns the end of day (23:59:59) in the operational timezone
func EndOfDay(t time.Time) time.Time {
	l := t.In(WIB)
	return time.Date(l.Year(), l.Month(), l.Day(), 23, 59, 59, 999999999, WIB)
}

// DaysBetween returns the number of whole calendar days from a to b
// (b - a), both truncated to their operational-timezone calendar day.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// SameDay reports whether a and b fall on the same operational-timezone day
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
