package membership

import (
	"strings"
	"time"
)

// =============================================================================
// CALENDAR DATES
// =============================================================================
// A calendar date is a time.Time at midnight UTC whose year/month/day are the
// local calendar date it stands for. Keeping everything on UTC midnight makes
// day differences exact (no DST hours) and comparisons cheap.

const day = 24 * time.Hour

// Date builds a calendar date.
func Date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its calendar date, read in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDate parses an ISO-8601 date or date-time and returns its calendar
// date. Empty input reports ok=false with a nil error; garbage reports
// ErrInvalidDate.
func ParseDate(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true, nil
		}
	}
	return time.Time{}, false, &DateError{Input: s}
}

// MustDate parses a YYYY-MM-DD literal. It panics on bad input; use it for
// constants and tests only.
func MustDate(s string) time.Time {
	t, ok, err := ParseDate(s)
	if err != nil || !ok {
		panic("membership: bad date literal " + s)
	}
	return t
}

// =============================================================================
// ARITHMETIC
// =============================================================================

// AddDays moves a calendar date by n days.
func AddDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// AddMonths adds n calendar months keeping the day of month when it exists in
// the target month, otherwise clamping to the target month's last day.
// time.AddDate would normalize Jan 31 + 1 month to Mar 3; this never overflows.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := DateOf(t).Date()
	target := Date(y, m, 1).AddDate(0, n, 0)
	last := EndOfMonth(target.Year(), target.Month()).Day()
	if d > last {
		d = last
	}
	return Date(target.Year(), target.Month(), d)
}

// AddYears adds n calendar years with the same clamp rule (Feb 29 -> Feb 28).
func AddYears(t time.Time, n int) time.Time { return AddMonths(t, 12*n) }

// EndOfMonth returns the last day of the given month.
func EndOfMonth(year int, month time.Month) time.Time {
	return Date(year, month+1, 1).AddDate(0, 0, -1)
}

// DaysBetween counts whole calendar days from -> to. Negative when to is
// earlier. Time of day on either side is ignored.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)) / day)
}
