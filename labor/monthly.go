package labor

import (
	"iter"
	"sort"
)

// =============================================================================
// MONTHLY AGGREGATION - Overtime premium redistribution
// =============================================================================

// OvertimePremiumFactor is the extra share of an overtime hour beyond
// the straight hour already counted in the week total: time-and-a-half
// means each overtime hour adds half an equivalent hour on top.
const OvertimePremiumFactor = 0.5

// MonthlyHours maps month key ("2026-02") to category-or-resource id
// to cumulative equivalent hours.
type MonthlyHours map[string]map[string]float64

// Monthly folds the entry stream into month x category equivalent-hour
// totals. Each week's overtime premium (overtime * 0.5) is distributed
// across that week's eligible entries in proportion to their share of
// the week's eligible hours, then every entry lands in the bucket of
// its own calendar month.
//
// No hours are created or lost: the grand total equals the sum over
// weeks of total + 0.5*overtime.
func Monthly(entries iter.Seq[DailyEntry]) MonthlyHours {
	months := make(MonthlyHours)

	for _, week := range Weekly(entries) {
		uplift := week.Overtime * OvertimePremiumFactor

		for _, e := range week.Entries {
			hours := e.Hours
			if e.OvertimeEligible && week.Eligible > 0 {
				hours += uplift * (e.Hours / week.Eligible)
			}

			monthKey := e.Date.MonthKey()
			bucket := months[monthKey]
			if bucket == nil {
				bucket = make(map[string]float64)
				months[monthKey] = bucket
			}
			bucket[string(e.CategoryID)] += hours
		}
	}

	return months
}

// Months returns the month keys in ascending order. Map iteration is
// unordered; emission must be deterministic for callers and tests.
func (m MonthlyHours) Months() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IDs returns the category/resource ids of one month, sorted.
func (m MonthlyHours) IDs(monthKey string) []string {
	bucket := m[monthKey]
	ids := make([]string, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GrandTotal sums every bucket. Used by conservation checks.
func (m MonthlyHours) GrandTotal() float64 {
	var total float64
	for _, bucket := range m {
		for _, h := range bucket {
			total += h
		}
	}
	return total
}
