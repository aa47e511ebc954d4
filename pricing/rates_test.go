package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/deploy-engine/engine"
	"github.com/harborline/deploy-engine/pricing"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func testMatrix() pricing.Matrix {
	return pricing.Matrix{
		"1": {
			Land15Day:        decimal.NewFromInt(12500),
			LandOverAndAbove: decimal.NewFromInt(800),
			Ship15Day:        decimal.NewFromInt(14000),
			ShipDaily:        decimal.NewFromInt(950),
			Shore15Day:       decimal.NewFromInt(11000),
			ShoreDaily:       decimal.NewFromInt(750),
			OtherFlat:        decimal.NewFromInt(5000),
		},
		"2": {
			Land15Day: decimal.NewFromInt(13000),
		},
	}
}

func dep(typ engine.DeploymentType, start string) engine.Deployment {
	return engine.Deployment{ID: "d1", Type: typ, Start: engine.MustDate(start)}
}

// =============================================================================
// RESOLUTION TESTS
// =============================================================================

func TestResolver_FallsBackToPeriodCard(t *testing.T) {
	// GIVEN: A land deployment starting inside ordering period 1 with no
	// explicit rates
	// THEN: The period card fills everything in

	resolve := pricing.Resolver(testMatrix(), engine.DefaultOrderingPeriods())
	rates := resolve(dep(engine.DeploymentLand, "2025-01-15"))

	assert.True(t, rates.Per15Day.Equal(decimal.NewFromInt(12500)))
	assert.True(t, rates.OverAndAbove.Equal(decimal.NewFromInt(800)))
}

func TestResolver_ExplicitRatesWin(t *testing.T) {
	resolve := pricing.Resolver(testMatrix(), engine.DefaultOrderingPeriods())

	d := dep(engine.DeploymentLand, "2025-01-15")
	d.Rates.Per15Day = decimal.NewFromInt(99999)
	rates := resolve(d)

	assert.True(t, rates.Per15Day.Equal(decimal.NewFromInt(99999)), "explicit positive rate is kept")
	assert.True(t, rates.OverAndAbove.Equal(decimal.NewFromInt(800)), "unset rates still fall back")
}

func TestResolver_PeriodSelectionByStartDate(t *testing.T) {
	// GIVEN: A land deployment starting in ordering period 2
	resolve := pricing.Resolver(testMatrix(), engine.DefaultOrderingPeriods())
	rates := resolve(dep(engine.DeploymentLand, "2025-11-01"))

	assert.True(t, rates.Per15Day.Equal(decimal.NewFromInt(13000)))
}

func TestResolver_ShipGetsDailyRate(t *testing.T) {
	resolve := pricing.Resolver(testMatrix(), engine.DefaultOrderingPeriods())
	rates := resolve(dep(engine.DeploymentShip, "2025-01-15"))

	assert.True(t, rates.Per15Day.Equal(decimal.NewFromInt(14000)))
	assert.True(t, rates.Daily.Equal(decimal.NewFromInt(950)))
	assert.True(t, rates.OverAndAbove.IsZero(), "O&A is a land concept")
}

func TestResolver_OtherGetsFlatPrice(t *testing.T) {
	resolve := pricing.Resolver(testMatrix(), engine.DefaultOrderingPeriods())
	rates := resolve(dep(engine.DeploymentOther, "2025-01-15"))

	assert.True(t, rates.FlatPrice.Equal(decimal.NewFromInt(5000)))
	assert.True(t, rates.Per15Day.IsZero())
}

func TestResolver_OutsideEveryPeriod_KeepsExplicitOnly(t *testing.T) {
	// GIVEN: A deployment starting before the first ordering period
	resolve := pricing.Resolver(testMatrix(), engine.DefaultOrderingPeriods())

	d := dep(engine.DeploymentLand, "2024-01-01")
	d.Rates.Per15Day = decimal.NewFromInt(500)
	rates := resolve(d)

	assert.True(t, rates.Per15Day.Equal(decimal.NewFromInt(500)))
	assert.True(t, rates.OverAndAbove.IsZero(), "no card to fall back to")
}

// =============================================================================
// MATRIX PARSING
// =============================================================================

func TestParseMatrix_RoundTrip(t *testing.T) {
	data := []byte(`{
		"1": {"land15": "12500", "landOA": "800", "ship15": "14000", "ship1": "950"},
		"2": {"land15": "13000"}
	}`)

	m, err := pricing.ParseMatrix(data)

	require.NoError(t, err)
	assert.True(t, m["1"].Land15Day.Equal(decimal.NewFromInt(12500)))
	assert.True(t, m["1"].ShipDaily.Equal(decimal.NewFromInt(950)))
	assert.True(t, m["2"].Land15Day.Equal(decimal.NewFromInt(13000)))
}

func TestParseMatrix_Malformed(t *testing.T) {
	_, err := pricing.ParseMatrix([]byte(`not json`))
	assert.Error(t, err)
}

func TestDefaultMatrix_OneCardPerPeriod(t *testing.T) {
	periods := engine.DefaultOrderingPeriods()
	m := pricing.DefaultMatrix(periods)

	require.Len(t, m, len(periods))
	for _, p := range periods {
		assert.Contains(t, m, p.ID)
	}
}
