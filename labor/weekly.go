package labor

import (
	"iter"
	"sort"
)

// =============================================================================
// WEEKLY AGGREGATION - ISO-week grouping and the 40-hour threshold
// =============================================================================

// OvertimeThresholdHours is the weekly cap on regular eligible hours.
const OvertimeThresholdHours = 40.0

// WeekKey identifies an ISO-8601 calendar week.
type WeekKey struct {
	Year int
	Week int
}

// WeekTotals holds one week's aggregate. Only overtime-eligible hours
// count toward the threshold; non-eligible hours are always regular.
//
// Invariants: Regular + Overtime == Total, Overtime >= 0.
type WeekTotals struct {
	Year     int
	Week     int
	Total    float64
	Eligible float64
	Regular  float64
	Overtime float64

	// Entries are retained for the monthly premium redistribution.
	Entries []DailyEntry
}

// Weekly groups the entry stream by ISO calendar week and computes the
// overtime split. Weeks are returned sorted ascending by (year, week).
func Weekly(entries iter.Seq[DailyEntry]) []WeekTotals {
	weeks := make(map[WeekKey]*WeekTotals)

	for e := range entries {
		year, week := e.Date.ISOWeek()
		k := WeekKey{Year: year, Week: week}
		w := weeks[k]
		if w == nil {
			w = &WeekTotals{Year: year, Week: week}
			weeks[k] = w
		}
		w.Total += e.Hours
		if e.OvertimeEligible {
			w.Eligible += e.Hours
		}
		w.Entries = append(w.Entries, e)
	}

	out := make([]WeekTotals, 0, len(weeks))
	for _, w := range weeks {
		if w.Eligible > OvertimeThresholdHours {
			w.Overtime = w.Eligible - OvertimeThresholdHours
		}
		w.Regular = w.Total - w.Overtime
		out = append(out, *w)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out
}
