package domain

import (
	"strings"
	"time"
)

const deadlineLayout = "2006-01-02"

// ParseDeadline parses a YYYY-MM-DD deadline into a calendar date in loc.
// Anything else, including out-of-range dates, is reported as unparseable.
func ParseDeadline(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) != len(deadlineLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(deadlineLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDeadline renders a date back to its persisted YYYY-MM-DD form.
func FormatDeadline(t time.Time) string {
	return t.Format(deadlineLayout)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves a calendar date forward by n days.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}
