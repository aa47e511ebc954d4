package labor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/deploy-engine/engine"
	"github.com/harborline/deploy-engine/labor"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func entries(es ...labor.DailyEntry) func(yield func(labor.DailyEntry) bool) {
	return func(yield func(labor.DailyEntry) bool) {
		for _, e := range es {
			if !yield(e) {
				return
			}
		}
	}
}

func entry(date string, cat string, hours float64, eligible bool) labor.DailyEntry {
	return labor.DailyEntry{
		Date:             engine.MustDate(date),
		CategoryID:       engine.CategoryID(cat),
		Hours:            hours,
		OvertimeEligible: eligible,
	}
}

// fiveDayWeek builds Mon-Fri entries in one ISO week (2026-01-05 is a Monday).
func fiveDayWeek(cat string, hoursPerDay float64, eligible bool) []labor.DailyEntry {
	out := make([]labor.DailyEntry, 0, 5)
	start := engine.MustDate("2026-01-05")
	for i := 0; i < 5; i++ {
		out = append(out, labor.DailyEntry{
			Date:             start.AddDays(i),
			CategoryID:       engine.CategoryID(cat),
			Hours:            hoursPerDay,
			OvertimeEligible: eligible,
		})
	}
	return out
}

// =============================================================================
// WEEKLY OVERTIME TESTS
// =============================================================================

func TestWeekly_FiftyEligibleHours_TenOvertime(t *testing.T) {
	// GIVEN: Five 10-hour eligible days in one week
	// WHEN: Aggregating weekly
	// THEN: 50 total, 40 regular, 10 overtime

	weeks := labor.Weekly(entries(fiveDayWeek("lc_2", 10, true)...))

	require.Len(t, weeks, 1)
	w := weeks[0]
	assert.Equal(t, 2026, w.Year)
	assert.Equal(t, 2, w.Week)
	assert.Equal(t, 50.0, w.Total)
	assert.Equal(t, 50.0, w.Eligible)
	assert.Equal(t, 40.0, w.Regular)
	assert.Equal(t, 10.0, w.Overtime)
}

func TestWeekly_NonEligibleHours_NeverOvertime(t *testing.T) {
	// GIVEN: 60 non-eligible hours in one week
	// THEN: All regular, zero overtime

	weeks := labor.Weekly(entries(fiveDayWeek("lc_1", 12, false)...))

	require.Len(t, weeks, 1)
	assert.Equal(t, 60.0, weeks[0].Total)
	assert.Equal(t, 0.0, weeks[0].Eligible)
	assert.Equal(t, 0.0, weeks[0].Overtime)
	assert.Equal(t, 60.0, weeks[0].Regular)
}

func TestWeekly_MixedEligibility(t *testing.T) {
	// GIVEN: 45 eligible + 20 non-eligible hours in the same week
	// THEN: Overtime counts only against the eligible pool

	es := append(fiveDayWeek("lc_2", 9, true), fiveDayWeek("lc_1", 4, false)...)
	weeks := labor.Weekly(entries(es...))

	require.Len(t, weeks, 1)
	w := weeks[0]
	assert.Equal(t, 65.0, w.Total)
	assert.Equal(t, 45.0, w.Eligible)
	assert.Equal(t, 5.0, w.Overtime)
	assert.Equal(t, 60.0, w.Regular)
	assert.Equal(t, w.Total, w.Regular+w.Overtime)
}

func TestWeekly_ExactlyAtThreshold_NoOvertime(t *testing.T) {
	weeks := labor.Weekly(entries(fiveDayWeek("lc_2", 8, true)...))

	require.Len(t, weeks, 1)
	assert.Equal(t, 0.0, weeks[0].Overtime)
}

func TestWeekly_SortedByYearWeek(t *testing.T) {
	es := []labor.DailyEntry{
		entry("2026-03-02", "lc_2", 8, true),
		entry("2025-12-29", "lc_2", 8, true), // ISO week 1 of 2026
		entry("2026-01-12", "lc_2", 8, true),
	}
	weeks := labor.Weekly(entries(es...))

	require.Len(t, weeks, 3)
	assert.Equal(t, [2]int{2026, 1}, [2]int{weeks[0].Year, weeks[0].Week})
	assert.Equal(t, [2]int{2026, 3}, [2]int{weeks[1].Year, weeks[1].Week})
	assert.Equal(t, [2]int{2026, 10}, [2]int{weeks[2].Year, weeks[2].Week})
}

func TestWeekly_YearBoundaryWeek_GroupsTogether(t *testing.T) {
	// GIVEN: Mon 2025-12-29 and Fri 2026-01-02 (same ISO week 2026-W01)
	// THEN: One week bucket

	es := []labor.DailyEntry{
		entry("2025-12-29", "lc_2", 30, true),
		entry("2026-01-02", "lc_2", 20, true),
	}
	weeks := labor.Weekly(entries(es...))

	require.Len(t, weeks, 1)
	assert.Equal(t, 50.0, weeks[0].Total)
	assert.Equal(t, 10.0, weeks[0].Overtime)
}

// =============================================================================
// MONTHLY REDISTRIBUTION TESTS
// =============================================================================

func TestMonthly_NoOvertime_PlainBuckets(t *testing.T) {
	// GIVEN: A 40-hour assignment week entirely inside February
	// THEN: The month bucket carries exactly the raw hours

	es := make([]labor.DailyEntry, 0, 5)
	for i := 0; i < 5; i++ {
		es = append(es, labor.DailyEntry{
			Date:       engine.MustDate("2026-02-01").AddDays(i),
			CategoryID: "res_1",
			Hours:      8,
		})
	}
	months := labor.Monthly(entries(es...))

	require.Contains(t, months, "2026-02")
	assert.InDelta(t, 40.0, months["2026-02"]["res_1"], 1e-9)
}

func TestMonthly_UpliftDistributedProportionally(t *testing.T) {
	// GIVEN: One week with 30h eligible from lc_2 and 20h eligible from lc_3
	// WHEN: Weekly overtime is 10h, premium 5h
	// THEN: lc_2 gains 5*(30/50)=3h, lc_3 gains 5*(20/50)=2h

	es := append(fiveDayWeek("lc_2", 6, true), fiveDayWeek("lc_3", 4, true)...)
	months := labor.Monthly(entries(es...))

	require.Contains(t, months, "2026-01")
	assert.InDelta(t, 33.0, months["2026-01"]["lc_2"], 1e-9)
	assert.InDelta(t, 22.0, months["2026-01"]["lc_3"], 1e-9)
}

func TestMonthly_NonEligible_GetsNoUplift(t *testing.T) {
	// GIVEN: 50h eligible (lc_2) + 10h non-eligible (lc_1) in one week
	// THEN: The premium lands entirely on the eligible category

	es := append(fiveDayWeek("lc_2", 10, true), fiveDayWeek("lc_1", 2, false)...)
	months := labor.Monthly(entries(es...))

	assert.InDelta(t, 55.0, months["2026-01"]["lc_2"], 1e-9) // 50 + 10*0.5
	assert.InDelta(t, 10.0, months["2026-01"]["lc_1"], 1e-9)
}

func TestMonthly_EntryLandsInItsOwnMonth(t *testing.T) {
	// GIVEN: One ISO week straddling Jan/Feb (2026-01-26 Mon .. 2026-02-01 Sun)
	// THEN: Each day's hours land in that day's calendar month

	es := []labor.DailyEntry{
		entry("2026-01-30", "lc_2", 8, true),
		entry("2026-02-01", "lc_2", 8, true),
	}
	months := labor.Monthly(entries(es...))

	assert.InDelta(t, 8.0, months["2026-01"]["lc_2"], 1e-9)
	assert.InDelta(t, 8.0, months["2026-02"]["lc_2"], 1e-9)
}

func TestMonthly_ConservationOfHours(t *testing.T) {
	// No hours created or lost: grand total == sum over weeks of
	// total + 0.5*overtime.

	es := append(fiveDayWeek("lc_2", 11, true), fiveDayWeek("lc_1", 3, false)...)
	es = append(es, entry("2026-02-10", "lc_3", 9, true))

	weeks := labor.Weekly(entries(es...))
	var want float64
	for _, w := range weeks {
		want += w.Total + labor.OvertimePremiumFactor*w.Overtime
	}

	months := labor.Monthly(entries(es...))
	assert.InDelta(t, want, months.GrandTotal(), 1e-9)
}

func TestMonthly_HelpersSorted(t *testing.T) {
	es := []labor.DailyEntry{
		entry("2026-03-01", "b", 1, false),
		entry("2026-01-01", "a", 1, false),
		entry("2026-01-02", "c", 1, false),
	}
	months := labor.Monthly(entries(es...))

	assert.Equal(t, []string{"2026-01", "2026-03"}, months.Months())
	assert.Equal(t, []string{"a", "c"}, months.IDs("2026-01"))
}

func TestMonthly_EmptyInput(t *testing.T) {
	months := labor.Monthly(entries())
	assert.Empty(t, months)
	assert.Zero(t, months.GrandTotal())
}
