package domain

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format exchanged with clients.
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t as observed in t's own location,
// normalized to midnight UTC. All scheduling dates use this representation so
// that comparisons never depend on a time of day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of now in loc. A nil loc means UTC.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

// ParseDate parses an ISO calendar date such as "2024-03-01".
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a date in ISO form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a calendar date by n days.
func AddDays(date time.Time, n int) time.Time {
	return DateOf(date).AddDate(0, 0, n)
}

// LaterDate returns whichever of a and b falls on the later calendar day.
func LaterDate(a, b time.Time) time.Time {
	a, b = DateOf(a), DateOf(b)
	if b.After(a) {
		return b
	}
	return a
}
