// Package policy decides how overview generation behaves on each weekday.
package policy

import (
	"strings"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/config"
)

// Policy describes overview generation for one weekday.
type Policy struct {
	// SummaryRange labels the period being summarized ("yesterday",
	// "last weekend").
	SummaryRange string
	// ForthcomingRange labels the period of upcoming plans ("today",
	// "this week").
	ForthcomingRange string
	// Lookback is how many days of summaries to include before the
	// target date itself.
	Lookback int
}

// Table maps each weekday to its policy. A nil entry disables overview
// generation for that weekday.
type Table [7]*Policy

// Default returns the built-in weekday table: no overviews on Sunday,
// a weekend-covering Monday, and a week-ahead Saturday.
func Default() Table {
	var t Table
	t[time.Sunday] = nil
	t[time.Monday] = &Policy{SummaryRange: "last weekend", ForthcomingRange: "this week", Lookback: 2}
	t[time.Saturday] = &Policy{SummaryRange: "yesterday", ForthcomingRange: "next week", Lookback: 1}
	for _, d := range []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		t[d] = &Policy{SummaryRange: "yesterday", ForthcomingRange: "today", Lookback: 1}
	}
	return t
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// Apply merges configured per-weekday overrides into the table. An override
// with Lookback 0 disables the weekday; unknown weekday names are ignored
// (config validation reports them separately).
func (t Table) Apply(overrides map[string]config.WeekdayOverride) Table {
	out := t
	for name, ov := range overrides {
		day, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			continue
		}

		if ov.Lookback != nil && *ov.Lookback == 0 {
			out[day] = nil
			continue
		}

		base := out[day]
		if base == nil {
			base = &Policy{SummaryRange: "yesterday", ForthcomingRange: "today", Lookback: 1}
		}
		merged := *base
		if ov.SummaryRange != "" {
			merged.SummaryRange = ov.SummaryRange
		}
		if ov.ForthcomingRange != "" {
			merged.ForthcomingRange = ov.ForthcomingRange
		}
		if ov.Lookback != nil {
			merged.Lookback = *ov.Lookback
		}
		out[day] = &merged
	}
	return out
}

// ForWeekday returns the weekday's policy. The second result is false when
// overview generation is disabled for that day.
func (t Table) ForWeekday(day time.Weekday) (Policy, bool) {
	p := t[day]
	if p == nil {
		return Policy{}, false
	}
	return *p, true
}

// MaxAgeDays returns the change-extraction lookback for a weekday, taking
// configured overrides over the built-in defaults.
func MaxAgeDays(day time.Weekday, overrides map[string]int) int {
	name := strings.ToLower(day.String())
	if overrides != nil {
		if v, ok := overrides[name]; ok && v > 0 {
			return v
		}
	}
	if v, ok := config.DefaultMaxAgeDays[name]; ok {
		return v
	}
	return 1
}
