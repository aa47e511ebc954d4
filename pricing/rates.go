/*
Package pricing resolves billing rates from the ordering-period matrix.

PURPOSE:
  The contract prices CLINs per ordering period: a matrix of pricing
  elements (land 15-day, land over & above, ship 15-day, ship daily,
  and so on) against the five ordering periods. This package parses
  that matrix from JSON and resolves a deployment's effective rates:
  explicit per-deployment rates win, everything else falls back to the
  rate card of the ordering period containing the deployment start.

WHY JSON?
  - Contract admins can update the matrix without code changes
  - The matrix round-trips through the document store and the UI
  - Version control for price changes

JSON SCHEMA (one card per ordering-period id):
  {
    "1": {"land15": "12500", "landOA": "800", "ship15": "14000", "ship1": "950"},
    "2": {...}
  }

SEE ALSO:
  - billing: consumes the resolved rates
  - engine/fiscal.go: ordering-period lookup
*/
package pricing

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/harborline/deploy-engine/engine"
)

// Matrix maps ordering-period id to that period's rate card.
type Matrix map[string]engine.RateCard

// DefaultMatrix returns an empty card for every configured ordering
// period, so the UI always has a full grid to edit.
func DefaultMatrix(periods []engine.OrderingPeriod) Matrix {
	m := make(Matrix, len(periods))
	for _, p := range periods {
		m[p.ID] = engine.RateCard{}
	}
	return m
}

// ParseMatrix parses the pricing matrix from JSON.
func ParseMatrix(data []byte) (Matrix, error) {
	var m Matrix
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse pricing matrix: %w", err)
	}
	return m, nil
}

// Resolver builds a billing rate resolver over the matrix. For each
// rate the deployment's own value wins when positive; otherwise the
// card of the ordering period containing the deployment start fills
// it in. A deployment outside every ordering period keeps only its
// explicit rates.
func Resolver(matrix Matrix, periods []engine.OrderingPeriod) func(dep engine.Deployment) engine.DeploymentRates {
	return func(dep engine.Deployment) engine.DeploymentRates {
		rates := dep.Rates

		op := engine.OrderingPeriodFor(dep.Start, periods)
		if op == nil {
			return rates
		}
		card, ok := matrix[op.ID]
		if !ok {
			return rates
		}

		if !rates.Per15Day.IsPositive() {
			rates.Per15Day = per15DayRate(card, dep.Type)
		}
		if !rates.Daily.IsPositive() {
			rates.Daily = dailyRate(card, dep.Type)
		}
		if !rates.OverAndAbove.IsPositive() && dep.Type == engine.DeploymentLand {
			rates.OverAndAbove = card.LandOverAndAbove
		}
		if !rates.FlatPrice.IsPositive() && dep.Type == engine.DeploymentOther {
			rates.FlatPrice = card.OtherFlat
		}
		return rates
	}
}

func per15DayRate(card engine.RateCard, t engine.DeploymentType) decimal.Decimal {
	switch t {
	case engine.DeploymentLand:
		return card.Land15Day
	case engine.DeploymentShip:
		return card.Ship15Day
	case engine.DeploymentShore:
		return card.Shore15Day
	}
	return decimal.Zero
}

func dailyRate(card engine.RateCard, t engine.DeploymentType) decimal.Decimal {
	switch t {
	case engine.DeploymentShip:
		return card.ShipDaily
	case engine.DeploymentShore:
		return card.ShoreDaily
	}
	return decimal.Zero
}
