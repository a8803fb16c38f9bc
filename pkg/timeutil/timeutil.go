// Package timeutil provides UTC calendar utilities for the FinEdu backend.
// Progression state (streaks, daily rewards, due dates) is tracked against
// UTC calendar days, so every day-boundary computation in the app goes
// through this package rather than ad-hoc time arithmetic.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// FormatDate is the wire format for calendar dates (YYYY-MM-DD).
const FormatDate = "2006-01-02"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Date creates a UTC time with the given date at midnight.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// StartOfDay returns the start of the UTC day (00:00:00).
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a date string (YYYY-MM-DD) as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, time.UTC)
}
