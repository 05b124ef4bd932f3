// Package timeutil provides calendar-date helpers for the progression engine.
// The activity ledger is keyed by calendar date strings ("2006-01-02") in a
// single configured location, so every date computation goes through here.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the layout of activity ledger date keys.
const DateLayout = "2006-01-02"

// MonthLayout is the layout of monthly rollup prefixes.
const MonthLayout = "2006-01"

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Clock returns the current time. Command handlers take a Clock so tests can
// pin "today" to a fixed date.
type Clock func() time.Time

// SystemClock returns the real current time in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// DateKey formats a time as a ledger date key in the given location.
// A nil location means UTC.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// MonthPrefix formats a time as a "YYYY-MM" monthly rollup prefix.
func MonthPrefix(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(MonthLayout)
}

// IsValidDateKey reports whether s is a well-formed ledger date key.
func IsValidDateKey(s string) bool {
	if !dateKeyPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ParseDateKey parses a ledger date key back into a time at midnight UTC.
func ParseDateKey(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: invalid date key %q: %w", s, err)
	}
	return t, nil
}

// StartOfDay returns midnight of t's day in the given location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DateKey(a, loc) == DateKey(b, loc)
}

// DaysAgo returns the date key of n days before t.
func DaysAgo(t time.Time, n int, loc *time.Location) string {
	return DateKey(t.AddDate(0, 0, -n), loc)
}

// LoadLocation resolves an IANA timezone name, falling back to UTC on an
// empty name. An unknown name is an error the caller must handle at startup.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timeutil: unknown timezone %q: %w", name, err)
	}
	return loc, nil
}
