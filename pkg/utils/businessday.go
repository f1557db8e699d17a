package utils

import (
	"time"

	"github.com/jinzhu/now"
)

// IsWeekend reports whether t falls on a Saturday or Sunday
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	return now.With(t).BeginningOfDay()
}

// AddBusinessDays walks forward one calendar day at a time until n weekdays
// have been added. A zero start yields the zero time; n <= 0 returns start.
func AddBusinessDays(start time.Time, n int) time.Time {
	if start.IsZero() {
		return time.Time{}
	}

	d := start
	for added := 0; added < n; {
		d = d.AddDate(0, 0, 1)
		if !IsWeekend(d) {
			added++
		}
	}

	return d
}

// CountBusinessDays counts weekdays in the closed interval [start, end].
// Both ends are compared by calendar day in start's location.
func CountBusinessDays(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}

	from := StartOfDay(start)
	to := StartOfDay(end.In(start.Location()))
	if from.After(to) {
		return 0
	}

	days := daysBetween(from, to) + 1
	fullWeeks := days / 7
	count := fullWeeks * 5

	d := from.AddDate(0, 0, fullWeeks*7)
	for i := 0; i < days%7; i++ {
		if !IsWeekend(d) {
			count++
		}
		d = d.AddDate(0, 0, 1)
	}

	return count
}

// daysBetween returns the number of calendar days from a to b, ignoring DST shifts
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
