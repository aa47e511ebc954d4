/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for computed API outputs. Stored
  collections (deployments, schedule items, resources...) already carry
  the wire-format JSON tags on their engine types and travel as-is;
  DTOs here cover the derived results - period breakdowns, line items,
  weekly/monthly aggregates, date classification - so the internal
  types can evolve without breaking clients.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/types.go: Stored collection types with wire tags
*/
package api

import (
	"github.com/harborline/deploy-engine/billing"
	"github.com/harborline/deploy-engine/engine"
	"github.com/harborline/deploy-engine/labor"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PeriodBreakdownDTO mirrors the billing period decomposition.
type PeriodBreakdownDTO struct {
	Periods15Day  int `json:"periods15Day"`
	RemainderDays int `json:"remainderDays"`
	TotalDays     int `json:"totalDays"`
}

// LineItemDTO represents one billable line item.
type LineItemDTO struct {
	ID             string  `json:"id"`
	DeploymentID   string  `json:"deploymentId"`
	DeploymentName string  `json:"deploymentName"`
	Type           string  `json:"type"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description,omitempty"`
	Status         string  `json:"status,omitempty"`
	InvoiceNumber  string  `json:"invoiceNumber,omitempty"`
}

// WeekDTO represents one ISO week's hour totals.
type WeekDTO struct {
	Year          int     `json:"year"`
	Week          int     `json:"week"`
	TotalHours    float64 `json:"totalHours"`
	EligibleHours float64 `json:"eligibleHours"`
	RegularHours  float64 `json:"regularHours"`
	OvertimeHours float64 `json:"overtimeHours"`
}

// OrderingPeriodDTO represents one contracting window.
type OrderingPeriodDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// DateInfoDTO classifies a single date.
type DateInfoDTO struct {
	FiscalYear     int                `json:"fiscalYear"`
	OrderingPeriod *OrderingPeriodDTO `json:"orderingPeriod"`
}

// BillingStateRequest updates invoicing status for generated items.
type BillingStateRequest struct {
	Updates map[string]engine.BillingItemState `json:"updates"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPeriodBreakdownDTO(bd billing.PeriodBreakdown) PeriodBreakdownDTO {
	return PeriodBreakdownDTO{
		Periods15Day:  bd.Periods,
		RemainderDays: bd.RemainderDays,
		TotalDays:     bd.TotalDays,
	}
}

func toLineItemDTO(it billing.LineItem, state map[string]engine.BillingItemState) LineItemDTO {
	amount, _ := it.Amount.Float64()
	dto := LineItemDTO{
		ID:             it.ID,
		DeploymentID:   string(it.DeploymentID),
		DeploymentName: it.DeploymentName,
		Type:           string(it.Kind),
		StartDate:      it.Start.String(),
		EndDate:        it.End.String(),
		Amount:         amount,
		Description:    it.Description,
	}
	if st, ok := state[it.ID]; ok {
		dto.Status = st.Status
		dto.InvoiceNumber = st.InvoiceNumber
	}
	return dto
}

func toWeekDTOs(weeks []labor.WeekTotals) []WeekDTO {
	dtos := make([]WeekDTO, len(weeks))
	for i, w := range weeks {
		dtos[i] = WeekDTO{
			Year:          w.Year,
			Week:          w.Week,
			TotalHours:    w.Total,
			EligibleHours: w.Eligible,
			RegularHours:  w.Regular,
			OvertimeHours: w.Overtime,
		}
	}
	return dtos
}

func toDateInfoDTO(info engine.DateInfo) DateInfoDTO {
	dto := DateInfoDTO{FiscalYear: info.FiscalYear}
	if op := info.OrderingPeriod; op != nil {
		dto.OrderingPeriod = &OrderingPeriodDTO{
			ID:    op.ID,
			Label: op.Label,
			Start: op.Span.Start.String(),
			End:   op.Span.End.String(),
		}
	}
	return dto
}
