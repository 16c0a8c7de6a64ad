// Package timeutil implements logical-day arithmetic and extraction windows.
//
// All decisions about "which day is it" happen in a configured local
// timezone, with the day rolling over at a configurable hour rather than
// midnight. Dates are represented as midnight-UTC time.Time values so they
// can be compared and formatted without timezone drift.
package timeutil

import (
	"fmt"
	"time"
)

// GitTimeLayout is the timestamp format accepted by git's --since/--until.
const GitTimeLayout = "2006-01-02 15:04:05 -0700"

// Location resolves an IANA timezone name.
func Location(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// dayStartHour normalizes a configured rollover hour, falling back to 4
// when it is out of range.
func dayStartHour(h int) int {
	if h < 0 || h > 23 {
		return 4
	}
	return h
}

// LogicalDate returns the logical calendar date for now: the local date,
// shifted back one day when the local time is before startHour. The result
// is midnight UTC on that date.
func LogicalDate(now time.Time, loc *time.Location, startHour int) time.Time {
	local := now.In(loc)
	if local.Hour() < dayStartHour(startHour) {
		local = local.AddDate(0, 0, -1)
	}
	return Date(local.Year(), local.Month(), local.Day())
}

// Date builds a midnight-UTC date value.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two instants fall on the same local date.
func SameDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// Window is a half-open extraction interval [Start, End) in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowEndingAt builds a window covering the lookback days immediately
// before end. The window starts at the local logical-day boundary
// (startHour) lookback days earlier and runs to end itself.
func WindowEndingAt(end time.Time, loc *time.Location, startHour, lookbackDays int) Window {
	local := end.In(loc)
	startDay := local.AddDate(0, 0, -lookbackDays)
	start := time.Date(startDay.Year(), startDay.Month(), startDay.Day(),
		dayStartHour(startHour), 0, 0, 0, loc)
	if !start.Before(end) {
		start = end
	}
	return Window{Start: start.UTC(), End: end.UTC()}
}

// FormatGit renders a timestamp the way git's date parsing expects it.
func FormatGit(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(GitTimeLayout)
}

// DateID renders a date as the compact YYYYMMDD identifier used in
// artifact filenames.
func DateID(date time.Time) string {
	return date.Format("20060102")
}

// DatesBackFrom lists the n+1 dates ending at date, oldest first.
func DatesBackFrom(date time.Time, n int) []time.Time {
	if n < 0 {
		n = 0
	}
	dates := make([]time.Time, 0, n+1)
	for i := n; i >= 0; i-- {
		dates = append(dates, date.AddDate(0, 0, -i))
	}
	return dates
}
