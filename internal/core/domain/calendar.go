package domain

import "time"

const DateLayout = "2006-01-02"

// StartOfDay drops the time of day. Reservation dates are calendar days and
// are always kept at UTC midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from a to b. b must not be before a.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// EndOfMonthExclusive returns the first instant of the month after t's month.
func EndOfMonthExclusive(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether [a1, a2) and [b1, b2) intersect. Ranges that only
// touch at a boundary do not overlap.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(t), nil
}
