package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/deploy-engine/billing"
	"github.com/harborline/deploy-engine/engine"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func concluded(id string, typ engine.DeploymentType, start, end string) engine.Deployment {
	e := engine.MustDate(end)
	return engine.Deployment{
		ID:    engine.DeploymentID(id),
		Name:  id,
		Type:  typ,
		Start: engine.MustDate(start),
		End:   &e,
	}
}

func rates(per15, daily, oa, flat int64) engine.DeploymentRates {
	return engine.DeploymentRates{
		Per15Day:     decimal.NewFromInt(per15),
		Daily:        decimal.NewFromInt(daily),
		OverAndAbove: decimal.NewFromInt(oa),
		FlatPrice:    decimal.NewFromInt(flat),
	}
}

// =============================================================================
// PERIOD BREAKDOWN TESTS
// =============================================================================

func TestBreakdown_TwentyDays(t *testing.T) {
	// GIVEN: A 20-day inclusive span
	// WHEN: Decomposing into 15-day periods
	// THEN: One whole period and five leftover days

	bd := billing.Breakdown(engine.MustDate("2025-01-01"), engine.MustDate("2025-01-20"))

	assert.Equal(t, 20, bd.TotalDays)
	assert.Equal(t, 1, bd.Periods)
	assert.Equal(t, 5, bd.RemainderDays)
}

func TestBreakdown_ExactMultiple(t *testing.T) {
	bd := billing.Breakdown(engine.MustDate("2025-01-01"), engine.MustDate("2025-01-30"))

	assert.Equal(t, 30, bd.TotalDays)
	assert.Equal(t, 2, bd.Periods)
	assert.Equal(t, 0, bd.RemainderDays)
}

func TestBreakdown_SingleDay(t *testing.T) {
	bd := billing.Breakdown(engine.MustDate("2025-01-01"), engine.MustDate("2025-01-01"))

	assert.Equal(t, 1, bd.TotalDays)
	assert.Equal(t, 0, bd.Periods)
	assert.Equal(t, 1, bd.RemainderDays)
}

func TestBreakdown_InvertedRange_AllZeros(t *testing.T) {
	// GIVEN: end before start
	// THEN: Treated as empty, not an error

	bd := billing.Breakdown(engine.MustDate("2025-01-20"), engine.MustDate("2025-01-01"))

	assert.Zero(t, bd.TotalDays)
	assert.Zero(t, bd.Periods)
	assert.Zero(t, bd.RemainderDays)
}

func TestBreakdown_Invariant(t *testing.T) {
	// Periods*15 + RemainderDays == TotalDays for every span length
	start := engine.MustDate("2025-01-01")
	for days := 1; days <= 100; days++ {
		bd := billing.Breakdown(start, start.AddDays(days-1))
		assert.Equal(t, days, bd.Periods*billing.PeriodLengthDays+bd.RemainderDays)
		assert.Less(t, bd.RemainderDays, billing.PeriodLengthDays)
	}
}

// =============================================================================
// LINE ITEM TESTS
// =============================================================================

func TestItemsFor_Land_DropsRemainder(t *testing.T) {
	// GIVEN: A 20-day land deployment
	// WHEN: Generating items
	// THEN: One CLIN and one parallel O&A, the 5 leftover days unbilled

	dep := concluded("d1", engine.DeploymentLand, "2025-01-01", "2025-01-20")
	items := billing.ItemsFor(dep, rates(12500, 0, 800, 0))

	require.Len(t, items, 2)

	clin := items[0]
	assert.Equal(t, "d1_15day_0", clin.ID)
	assert.Equal(t, billing.Kind15DayCLIN, clin.Kind)
	assert.Equal(t, "2025-01-01", clin.Start.String())
	assert.Equal(t, "2025-01-15", clin.End.String())
	assert.True(t, clin.Amount.Equal(decimal.NewFromInt(12500)))

	oa := items[1]
	assert.Equal(t, "d1_oa_0", oa.ID)
	assert.Equal(t, billing.KindOverAndAbove, oa.Kind)
	assert.Equal(t, clin.Start, oa.Start)
	assert.Equal(t, clin.End, oa.End)
}

func TestItemsFor_Land_OneOverAndAbovePerPeriod(t *testing.T) {
	dep := concluded("d1", engine.DeploymentLand, "2025-01-01", "2025-02-14") // 45 days
	items := billing.ItemsFor(dep, rates(12500, 0, 800, 0))

	var clins, oas int
	for _, it := range items {
		switch it.Kind {
		case billing.Kind15DayCLIN:
			clins++
		case billing.KindOverAndAbove:
			oas++
		}
	}
	assert.Equal(t, 3, clins)
	assert.Equal(t, clins, oas, "O&A items run parallel to CLIN items")
}

func TestItemsFor_Land_NoOverAndAboveWithoutRate(t *testing.T) {
	dep := concluded("d1", engine.DeploymentLand, "2025-01-01", "2025-01-15")
	items := billing.ItemsFor(dep, rates(12500, 0, 0, 0))

	require.Len(t, items, 1)
	assert.Equal(t, billing.Kind15DayCLIN, items[0].Kind)
}

func TestItemsFor_Ship_BillsRemainderDaily(t *testing.T) {
	// GIVEN: A 35-day ship deployment
	// WHEN: Generating items
	// THEN: Two CLINs plus one daily item per leftover day

	dep := concluded("s1", engine.DeploymentShip, "2025-01-31", "2025-03-06")
	items := billing.ItemsFor(dep, rates(14000, 950, 0, 0))

	require.Len(t, items, 7)

	assert.Equal(t, "s1_15day_0", items[0].ID)
	assert.Equal(t, "s1_15day_1", items[1].ID)
	assert.Equal(t, "2025-02-15", items[1].Start.String())
	assert.Equal(t, "2025-03-01", items[1].End.String())

	// Remainder days follow the second period, one single-day item each.
	daily := items[2:]
	wantDays := []string{"2025-03-02", "2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06"}
	for i, it := range daily {
		assert.Equal(t, billing.KindDailyRate, it.Kind)
		assert.Equal(t, wantDays[i], it.Start.String())
		assert.Equal(t, it.Start, it.End)
		assert.True(t, it.Amount.Equal(decimal.NewFromInt(950)))
	}
	assert.Equal(t, "s1_daily_20250302", daily[0].ID)
}

func TestItemsFor_Shore_BillsRemainderDaily(t *testing.T) {
	dep := concluded("sh1", engine.DeploymentShore, "2025-01-01", "2025-01-17")
	items := billing.ItemsFor(dep, rates(11000, 750, 0, 0))

	require.Len(t, items, 3) // 1 CLIN + 2 daily
	assert.Equal(t, billing.KindDailyRate, items[1].Kind)
	assert.Equal(t, billing.KindDailyRate, items[2].Kind)
}

func TestItemsFor_Other_FlatPriceIgnoresDecomposition(t *testing.T) {
	// GIVEN: A 40-day "Other" deployment
	// THEN: Exactly one flat item spanning the whole deployment

	dep := concluded("o1", engine.DeploymentOther, "2025-01-01", "2025-02-09")
	items := billing.ItemsFor(dep, rates(12500, 950, 800, 5000))

	require.Len(t, items, 1)
	assert.Equal(t, "o1_other", items[0].ID)
	assert.Equal(t, billing.KindOther, items[0].Kind)
	assert.Equal(t, "2025-01-01", items[0].Start.String())
	assert.Equal(t, "2025-02-09", items[0].End.String())
	assert.True(t, items[0].Amount.Equal(decimal.NewFromInt(5000)))
}

func TestItemsFor_Other_NoFlatPrice_NoItems(t *testing.T) {
	dep := concluded("o1", engine.DeploymentOther, "2025-01-01", "2025-02-09")
	assert.Empty(t, billing.ItemsFor(dep, rates(12500, 950, 800, 0)))
}

func TestItemsFor_OpenDeployment_NoItems(t *testing.T) {
	// A deployment without an end date has not concluded yet.
	dep := engine.Deployment{
		ID:    "open1",
		Type:  engine.DeploymentLand,
		Start: engine.MustDate("2025-01-01"),
	}
	assert.Empty(t, billing.ItemsFor(dep, rates(12500, 950, 800, 0)))
}

func TestItemsFor_DeterministicIDs(t *testing.T) {
	// Regenerating items must produce identical ids so stored billing
	// state keeps pointing at the same rows.
	dep := concluded("d1", engine.DeploymentShip, "2025-01-31", "2025-03-06")
	a := billing.ItemsFor(dep, rates(14000, 950, 0, 0))
	b := billing.ItemsFor(dep, rates(14000, 950, 0, 0))

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
	}
}

func TestItems_SortedByStartDate(t *testing.T) {
	deps := []engine.Deployment{
		concluded("later", engine.DeploymentLand, "2025-06-01", "2025-06-15"),
		concluded("earlier", engine.DeploymentLand, "2025-01-01", "2025-01-15"),
	}
	resolve := func(engine.Deployment) engine.DeploymentRates { return rates(100, 0, 0, 0) }

	items := billing.Items(deps, resolve)

	require.Len(t, items, 2)
	assert.Equal(t, engine.DeploymentID("earlier"), items[0].DeploymentID)
	assert.Equal(t, engine.DeploymentID("later"), items[1].DeploymentID)
}

func TestEstimatedCost(t *testing.T) {
	dep := concluded("d1", engine.DeploymentShip, "2025-01-01", "2025-01-17") // 1 CLIN + 2 daily
	items := billing.ItemsFor(dep, rates(14000, 950, 0, 0))

	total := billing.EstimatedCost(items)
	assert.True(t, total.Equal(decimal.NewFromInt(14000+2*950)), "got %s", total)
}
