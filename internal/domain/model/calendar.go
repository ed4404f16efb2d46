package model

import "time"

// FirstOfNextMonth returns the first day of the month after t, at midnight in
// t's location.
func FirstOfNextMonth(t time.Time) time.Time {
	return AddMonthsPinned(t, 1)
}

// AddMonthsPinned advances t by n months and pins the result to day 1. Pinning
// before adding avoids time.AddDate normalising e.g. Jan 31 + 1 month into March.
func AddMonthsPinned(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, n, 0)
}

// SameMonth reports whether a and b fall in the same calendar month and year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// FullMonthsBetween counts the whole calendar months elapsed from `from` to
// `to`, comparing dates only. A month is complete once the day-of-month of
// `from` is reached again, so Jan 15 to Mar 14 is one month and Jan 15 to Mar 15
// is two. Returns a negative count when to precedes from.
func FullMonthsBetween(from, to time.Time) int {
	from, to = DateOnly(from), DateOnly(to)
	if to.Before(from) {
		return -FullMonthsBetween(to, from)
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()-from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
