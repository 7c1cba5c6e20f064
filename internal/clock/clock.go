// Package clock abstracts the current time so date-driven state derivation
// (task status, harvest windows, recommendation schedules) can be tested
// against a fixed "today".
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Real returns the wall clock.
func Real() Clock { return wallClock{} }

// Fixed is a Clock frozen at T. Tests move it by assigning T.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time { return f.T }

// Date returns the civil date of t in loc as midnight UTC, so two dates
// compare and subtract without zone or DST effects.
func Date(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is Date(c.Now(), loc).
func Today(c Clock, loc *time.Location) time.Time {
	return Date(c.Now(), loc)
}

// DaysBetween returns the number of whole days from a to b, both civil dates.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// WeeksBetween returns the fractional number of weeks from a to b.
func WeeksBetween(a, b time.Time) float64 {
	return float64(DaysBetween(a, b)) / 7
}
