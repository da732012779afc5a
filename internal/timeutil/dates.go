package timeutil

import (
	"time"
)

// Common layouts
const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "02 Jan 2006"
)

// ParseDate parses a YYYY-MM-DD value as midnight in loc
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, value, loc)
}

// CalendarDate returns the calendar day of t as seen in loc, as midnight UTC.
// Invoice issue and due dates are Postgres DATE values, which pgx scans as
// midnight UTC, so every comparison against them uses this form.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate formats t as YYYY-MM-DD without converting its location
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
