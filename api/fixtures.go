/*
fixtures.go - Demo dataset for evaluation and local development

PURPOSE:
  Loads a small but complete document into the store so every part of
  the engine has something to show: two concluded deployments (one Land,
  one Ship) with labor plans, an overhead block, a resource with an
  assignment, and a filled pricing matrix for ordering period 1.

USAGE:
  POST /api/fixtures/demo

  Replaces the whole stored document. Not for production databases.

SEE ALSO:
  - handlers.go: Route registration
  - service: ReplaceDocument
*/
package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/harborline/deploy-engine/engine"
	"github.com/harborline/deploy-engine/pricing"
)

// LoadDemoFixture replaces the stored document with the demo dataset.
func (h *Handler) LoadDemoFixture(w http.ResponseWriter, r *http.Request) {
	doc := DemoDocument()
	if err := h.Svc.ReplaceDocument(r.Context(), doc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load demo fixture", err)
		return
	}
	h.Log.Info().Msg("demo fixture loaded")
	writeJSON(w, http.StatusOK, doc)
}

// DemoDocument builds the demo state. Exported so tests can start from
// a realistic document.
func DemoDocument() *engine.Document {
	doc := engine.NewDocument()

	doc.LaborCategories = []engine.LaborCategory{
		{ID: "lc_1", Name: "Project Manager", OvertimeEligible: false, BaseRate: decimal.NewFromInt(150)},
		{ID: "lc_2", Name: "Senior Engineer", OvertimeEligible: true, BaseRate: decimal.NewFromInt(120)},
		{ID: "lc_3", Name: "Junior Engineer", OvertimeEligible: true, BaseRate: decimal.NewFromInt(80)},
	}

	landEnd := engine.MustDate("2025-01-20")
	shipEnd := engine.MustDate("2025-03-06")

	doc.Deployments = []engine.Deployment{
		{
			ID:    "demo_land",
			Name:  "Land Deployment Alpha",
			Type:  engine.DeploymentLand,
			Start: engine.MustDate("2025-01-01"),
			End:   &landEnd,
			Plan: engine.LaborPlan{
				Pre: []engine.LaborPlanSegment{
					{CategoryID: "lc_1", HoursPerDay: 4, DurationDays: 5, OffsetDays: 2},
				},
				During: []engine.LaborPlanSegment{
					{CategoryID: "lc_2", HoursPerDay: 10, OvertimeEligible: true},
					{CategoryID: "lc_3", HoursPerDay: 8, OvertimeEligible: true},
				},
				Post: []engine.LaborPlanSegment{
					{CategoryID: "lc_1", HoursPerDay: 2, DurationDays: 3, OffsetDays: 1},
				},
			},
		},
		{
			ID:    "demo_ship",
			Name:  "Ship Deployment Bravo",
			Type:  engine.DeploymentShip,
			Start: engine.MustDate("2025-01-31"),
			End:   &shipEnd,
			Plan: engine.LaborPlan{
				During: []engine.LaborPlanSegment{
					{CategoryID: "lc_2", HoursPerDay: 12, OvertimeEligible: true},
				},
			},
		},
	}

	doc.OverheadSegments = []engine.OverheadSegment{
		{
			ID:          "oh_demo_pm",
			CategoryID:  "lc_1",
			Start:       engine.MustDate("2025-01-01"),
			End:         engine.MustDate("2025-03-31"),
			HoursPerDay: 2,
		},
	}

	doc.Resources = []engine.Resource{
		{ID: "res_demo_1", Name: "A. Rivera", Kind: engine.ResourcePerson},
	}
	doc.Assignments = []engine.ResourceAssignment{
		{
			ID:              "asg_demo_1",
			ScheduleItemID:  engine.DeploymentItemID("demo_land"),
			ResourceID:      "res_demo_1",
			AllocationMode:  engine.AllocationPercent,
			AllocationValue: 50,
		},
	}

	doc.Pricing = pricing.DefaultMatrix(engine.DefaultOrderingPeriods())
	doc.Pricing["1"] = engine.RateCard{
		Land15Day:        decimal.NewFromInt(12500),
		LandOverAndAbove: decimal.NewFromInt(800),
		Ship15Day:        decimal.NewFromInt(14000),
		ShipDaily:        decimal.NewFromInt(950),
		Shore15Day:       decimal.NewFromInt(11000),
		ShoreDaily:       decimal.NewFromInt(750),
		OtherFlat:        decimal.NewFromInt(5000),
	}

	return doc
}
