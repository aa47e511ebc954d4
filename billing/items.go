package billing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/harborline/deploy-engine/engine"
)

// =============================================================================
// LINE ITEMS - Billable output of the period decomposition
// =============================================================================

type ItemKind string

const (
	Kind15DayCLIN    ItemKind = "15-Day CLIN"
	KindOverAndAbove ItemKind = "Over & Above"
	KindDailyRate    ItemKind = "Daily Rate"
	KindOther        ItemKind = "Other"
)

// LineItem is one billable row. IDs are deterministic per deployment
// and position so invoice state can be keyed against regenerated items.
type LineItem struct {
	ID             string
	DeploymentID   engine.DeploymentID
	DeploymentName string
	Kind           ItemKind
	Start          engine.Date
	End            engine.Date
	Amount         decimal.Decimal
	Description    string
}

// ItemsFor generates the line items for a single deployment using the
// already-resolved rates. A deployment without an end date produces
// no items.
func ItemsFor(dep engine.Deployment, rates engine.DeploymentRates) []LineItem {
	span, concluded := dep.Span()
	if !concluded {
		return nil
	}

	// Other bypasses the 15-day decomposition entirely.
	if dep.Type == engine.DeploymentOther {
		if !rates.FlatPrice.IsPositive() {
			return nil
		}
		return []LineItem{{
			ID:             fmt.Sprintf("%s_other", dep.ID),
			DeploymentID:   dep.ID,
			DeploymentName: dep.Name,
			Kind:           KindOther,
			Start:          span.Start,
			End:            span.End,
			Amount:         rates.FlatPrice,
		}}
	}

	bd := Breakdown(span.Start, span.End)
	var items []LineItem

	for i := 0; i < bd.Periods; i++ {
		pStart := span.Start.AddDays(i * PeriodLengthDays)
		pEnd := pStart.AddDays(PeriodLengthDays - 1)
		items = append(items, LineItem{
			ID:             fmt.Sprintf("%s_15day_%d", dep.ID, i),
			DeploymentID:   dep.ID,
			DeploymentName: dep.Name,
			Kind:           Kind15DayCLIN,
			Start:          pStart,
			End:            pEnd,
			Amount:         rates.Per15Day,
		})

		// Land bills Over & Above as a flat amount per 15-day period,
		// parallel to every CLIN item.
		if dep.Type == engine.DeploymentLand && rates.OverAndAbove.IsPositive() {
			items = append(items, LineItem{
				ID:             fmt.Sprintf("%s_oa_%d", dep.ID, i),
				DeploymentID:   dep.ID,
				DeploymentName: dep.Name,
				Kind:           KindOverAndAbove,
				Start:          pStart,
				End:            pEnd,
				Amount:         rates.OverAndAbove,
			})
		}
	}

	// Ship and Shore bill leftover days one item per day. Land leftover
	// days are dropped: land durations are whole 15-day multiples in
	// practice, and a partial period is not billable.
	if (dep.Type == engine.DeploymentShip || dep.Type == engine.DeploymentShore) && bd.RemainderDays > 0 {
		rStart := span.Start.AddDays(bd.Periods * PeriodLengthDays)
		for i := 0; i < bd.RemainderDays; i++ {
			day := rStart.AddDays(i)
			items = append(items, LineItem{
				ID:             fmt.Sprintf("%s_daily_%s", dep.ID, strings.ReplaceAll(day.String(), "-", "")),
				DeploymentID:   dep.ID,
				DeploymentName: dep.Name,
				Kind:           KindDailyRate,
				Start:          day,
				End:            day,
				Amount:         rates.Daily,
				Description:    fmt.Sprintf("Day %d of remainder", i+1),
			})
		}
	}

	return items
}

// RateResolver maps a deployment to its effective billing rates.
type RateResolver func(dep engine.Deployment) engine.DeploymentRates

// Items generates line items for every concluded deployment, sorted by
// start date (then id, for a stable order within a day).
func Items(deps []engine.Deployment, resolve RateResolver) []LineItem {
	var items []LineItem
	for _, dep := range deps {
		items = append(items, ItemsFor(dep, resolve(dep))...)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Start.Equal(items[j].Start) {
			return items[i].Start.Before(items[j].Start)
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// EstimatedCost sums the amounts of a set of line items.
func EstimatedCost(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}
