/*
handlers.go - HTTP API handlers for the deployment engine

PURPOSE:
  Exposes the engine via REST API. Handles HTTP request/response and
  JSON serialization, and delegates everything else to the service
  layer.

ENDPOINTS:
  Document:
    GET    /api/data                       Whole state
    POST   /api/data                       Replace whole state

  Calculations:
    GET    /api/date-info?date=            Fiscal year + ordering period
    GET    /api/billing/periods?start=&end= 15-day decomposition
    GET    /api/billing/items              Generated line items
    GET    /api/stats/weekly-labor         ISO-week totals
    GET    /api/stats/monthly-labor        Month x category hours

  Collections (upsert-by-id POST, delete-by-id DELETE):
    /api/deployments, /api/labor-categories, /api/overhead,
    /api/scheduler/items, /api/scheduler/dependencies,
    /api/scheduler/resources, /api/scheduler/assignments,
    /api/invoices

  Other:
    POST   /api/scheduler/auto-schedule    Dependency forward pass
    GET    /api/pricing                    Rate matrix
    PUT    /api/pricing/{periodID}         One period's rate card
    POST   /api/billing/state              Invoice status updates
    POST   /api/fixtures/demo              Load the demo dataset

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, dependency cycles
  - 404: Record not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Computed-output data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/harborline/deploy-engine/engine"
	"github.com/harborline/deploy-engine/service"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Svc *service.Service
	Log zerolog.Logger
}

// NewHandler creates a new handler around the service layer.
func NewHandler(svc *service.Service, log zerolog.Logger) *Handler {
	return &Handler{Svc: svc, Log: log}
}

// =============================================================================
// DOCUMENT HANDLERS
// =============================================================================

// GetDocument returns the whole state.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.Document(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load document", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ReplaceDocument overwrites the whole state. Last write wins.
func (h *Handler) ReplaceDocument(w http.ResponseWriter, r *http.Request) {
	doc := engine.NewDocument()
	if err := json.NewDecoder(r.Body).Decode(doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document body", err)
		return
	}
	if err := h.Svc.ReplaceDocument(r.Context(), doc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save document", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// GetDateInfo classifies a date into fiscal year and ordering period.
func (h *Handler) GetDateInfo(w http.ResponseWriter, r *http.Request) {
	d, err := engine.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	writeJSON(w, http.StatusOK, toDateInfoDTO(h.Svc.DateInfo(d)))
}

// GetBillingPeriods decomposes a span into 15-day periods + remainder.
func (h *Handler) GetBillingPeriods(w http.ResponseWriter, r *http.Request) {
	start, err := engine.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
		return
	}
	end, err := engine.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodBreakdownDTO(h.Svc.BillingPeriods(start, end)))
}

// GetBillingItems returns generated line items with invoicing status.
func (h *Handler) GetBillingItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.BillingItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate billing items", err)
		return
	}
	doc, err := h.Svc.Document(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load billing state", err)
		return
	}
	dtos := make([]LineItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toLineItemDTO(it, doc.BillingState)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetWeeklyLabor returns ISO-week hour totals.
func (h *Handler) GetWeeklyLabor(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.Svc.WeeklyLabor(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate weekly labor", err)
		return
	}
	writeJSON(w, http.StatusOK, toWeekDTOs(weeks))
}

// GetMonthlyLabor returns month x category equivalent hours.
func (h *Handler) GetMonthlyLabor(w http.ResponseWriter, r *http.Request) {
	months, err := h.Svc.MonthlyLaborHours(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate monthly labor", err)
		return
	}
	// encoding/json emits map keys sorted, so the output is deterministic.
	writeJSON(w, http.StatusOK, months)
}

// =============================================================================
// SCHEDULER HANDLERS
// =============================================================================

// ListScheduleItems returns the merged timeline.
func (h *Handler) ListScheduleItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.MergedScheduleItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to assemble schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// UpsertScheduleItem stores an item; a deployment-linked item also
// syncs its dates and title back into the deployment.
func (h *Handler) UpsertScheduleItem(w http.ResponseWriter, r *http.Request) {
	var item engine.ScheduleItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid schedule item", err)
		return
	}
	saved, err := h.Svc.UpsertScheduleItem(r.Context(), item)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save schedule item", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) DeleteScheduleItem(w http.ResponseWriter, r *http.Request) {
	id := engine.ScheduleItemID(chi.URLParam(r, "id"))
	if err := h.Svc.DeleteScheduleItem(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete schedule item", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AutoSchedule runs the dependency forward pass and persists it.
func (h *Handler) AutoSchedule(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.AutoSchedule(r.Context())
	if err != nil {
		writeError(w, errStatus(err), "Auto-schedule failed", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) ListDependencies(w http.ResponseWriter, r *http.Request) {
	deps, err := h.Svc.Dependencies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load dependencies", err)
		return
	}
	if deps == nil {
		deps = []engine.ScheduleDependency{}
	}
	writeJSON(w, http.StatusOK, deps)
}

func (h *Handler) UpsertDependency(w http.ResponseWriter, r *http.Request) {
	var dep engine.ScheduleDependency
	if err := json.NewDecoder(r.Body).Decode(&dep); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dependency", err)
		return
	}
	saved, err := h.Svc.UpsertDependency(r.Context(), dep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save dependency", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) DeleteDependency(w http.ResponseWriter, r *http.Request) {
	id := engine.DependencyID(chi.URLParam(r, "id"))
	if err := h.Svc.DeleteDependency(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete dependency", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.Document(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load resources", err)
		return
	}
	if doc.Resources == nil {
		doc.Resources = []engine.Resource{}
	}
	writeJSON(w, http.StatusOK, doc.Resources)
}

func (h *Handler) UpsertResource(w http.ResponseWriter, r *http.Request) {
	var res engine.Resource
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid resource", err)
		return
	}
	saved, err := h.Svc.UpsertResource(r.Context(), res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save resource", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id := engine.ResourceID(chi.URLParam(r, "id"))
	if err := h.Svc.DeleteResource(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete resource", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.Document(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}
	if doc.Assignments == nil {
		doc.Assignments = []engine.ResourceAssignment{}
	}
	writeJSON(w, http.StatusOK, doc.Assignments)
}

func (h *Handler) UpsertAssignment(w http.ResponseWriter, r *http.Request) {
	var a engine.ResourceAssignment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment", err)
		return
	}
	saved, err := h.Svc.UpsertAssignment(r.Context(), a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id := engine.AssignmentID(chi.URLParam(r, "id"))
	if err := h.Svc.DeleteAssignment(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// DEPLOYMENT / LOOKUP HANDLERS
// =============================================================================

func (h *Handler) ListDeployments(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.Document(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load deployments", err)
		return
	}
	if doc.Deployments == nil {
		doc.Deployments = []engine.Deployment{}
	}
	writeJSON(w, http.StatusOK, doc.Deployments)
}

func (h *Handler) GetDeployment(w http.ResponseWriter, r *http.Request) {
	id := engine.DeploymentID(chi.URLParam(r, "id"))
	dep, err := h.Svc.Deployment(r.Context(), id)
	if err != nil {
		writeError(w, errStatus(err), "Failed to load deployment", err)
		return
	}
	writeJSON(w, http.StatusOK, dep)
}

func (h *Handler) UpsertDeployment(w http.ResponseWriter, r *http.Request) {
	var dep engine.Deployment
	if err := json.NewDecoder(r.Body).Decode(&dep); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid deployment", err)
		return
	}
	saved, err := h.Svc.UpsertDeployment(r.Context(), dep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save deployment", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) DeleteDeployment(w http.ResponseWriter, r *http.Request) {
	id := engine.DeploymentID(chi.URLParam(r, "id"))
	if err := h.Svc.DeleteDeployment(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete deployment", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ListLaborCategories(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.Document(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load categories", err)
		return
	}
	if doc.LaborCategories == nil {
		doc.LaborCategories = []engine.LaborCategory{}
	}
	writeJSON(w, http.StatusOK, doc.LaborCategories)
}

func (h *Handler) UpsertLaborCategory(w http.ResponseWriter, r *http.Request) {
	var c engine.LaborCategory
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid labor category", err)
		return
	}
	saved, err := h.Svc.UpsertLaborCategory(r.Context(), c)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save labor category", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) DeleteLaborCategory(w http.ResponseWriter, r *http.Request) {
	id := engine.CategoryID(chi.URLParam(r, "id"))
	if err := h.Svc.DeleteLaborCategory(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete labor category", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) UpsertOverheadSegment(w http.ResponseWriter, r *http.Request) {
	var seg engine.OverheadSegment
	if err := json.NewDecoder(r.Body).Decode(&seg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid overhead segment", err)
		return
	}
	saved, err := h.Svc.UpsertOverheadSegment(r.Context(), seg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save overhead segment", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) DeleteOverheadSegment(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteOverheadSegment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete overhead segment", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// PRICING / INVOICING HANDLERS
// =============================================================================

func (h *Handler) GetPricing(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.Document(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load pricing", err)
		return
	}
	writeJSON(w, http.StatusOK, doc.Pricing)
}

func (h *Handler) PutRateCard(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	var card engine.RateCard
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate card", err)
		return
	}
	if err := h.Svc.PutRateCard(r.Context(), periodID, card); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rate card", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *Handler) UpdateBillingState(w http.ResponseWriter, r *http.Request) {
	var req BillingStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid billing state update", err)
		return
	}
	if err := h.Svc.UpdateBillingState(r.Context(), req.Updates); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update billing state", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.Document(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load invoices", err)
		return
	}
	if doc.Invoices == nil {
		doc.Invoices = []engine.Invoice{}
	}
	writeJSON(w, http.StatusOK, doc.Invoices)
}

func (h *Handler) UpsertInvoice(w http.ResponseWriter, r *http.Request) {
	var inv engine.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice", err)
		return
	}
	saved, err := h.Svc.UpsertInvoice(r.Context(), inv)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := engine.InvoiceID(chi.URLParam(r, "id"))
	if err := h.Svc.DeleteInvoice(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// errStatus maps engine sentinel errors to HTTP status codes.
func errStatus(err error) int {
	switch {
	case engine.IsClientError(err):
		return http.StatusBadRequest
	case engine.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Code = err.Error()
	}
	writeJSON(w, status, resp)
}
