/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. zerolog:    Structured request logging
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/data                 Whole-document get/replace
  /api/billing/*            Period decomposition, line items, state
  /api/stats/*              Weekly and monthly labor aggregates
  /api/scheduler/*          Timeline, dependencies, resources, assignments
  /api/deployments/*        Deployment CRUD
  /api/pricing/*            Rate matrix
  /api/invoices/*           Invoice CRUD
  /api/fixtures/demo        Demo dataset

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Whole-document routes
		r.Get("/data", h.GetDocument)
		r.Post("/data", h.ReplaceDocument)

		r.Get("/date-info", h.GetDateInfo)

		// Billing routes
		r.Route("/billing", func(r chi.Router) {
			r.Get("/periods", h.GetBillingPeriods)
			r.Get("/items", h.GetBillingItems)
			r.Post("/state", h.UpdateBillingState)
		})

		// Aggregate routes
		r.Route("/stats", func(r chi.Router) {
			r.Get("/weekly-labor", h.GetWeeklyLabor)
			r.Get("/monthly-labor", h.GetMonthlyLabor)
		})

		// Scheduler routes
		r.Route("/scheduler", func(r chi.Router) {
			r.Get("/items", h.ListScheduleItems)
			r.Post("/items", h.UpsertScheduleItem)
			r.Delete("/items/{id}", h.DeleteScheduleItem)
			r.Post("/auto-schedule", h.AutoSchedule)

			r.Get("/dependencies", h.ListDependencies)
			r.Post("/dependencies", h.UpsertDependency)
			r.Delete("/dependencies/{id}", h.DeleteDependency)

			r.Get("/resources", h.ListResources)
			r.Post("/resources", h.UpsertResource)
			r.Delete("/resources/{id}", h.DeleteResource)

			r.Get("/assignments", h.ListAssignments)
			r.Post("/assignments", h.UpsertAssignment)
			r.Delete("/assignments/{id}", h.DeleteAssignment)
		})

		// Deployment routes
		r.Route("/deployments", func(r chi.Router) {
			r.Get("/", h.ListDeployments)
			r.Post("/", h.UpsertDeployment)
			r.Get("/{id}", h.GetDeployment)
			r.Delete("/{id}", h.DeleteDeployment)
		})

		// Labor configuration routes
		r.Route("/labor-categories", func(r chi.Router) {
			r.Get("/", h.ListLaborCategories)
			r.Post("/", h.UpsertLaborCategory)
			r.Delete("/{id}", h.DeleteLaborCategory)
		})
		r.Route("/overhead", func(r chi.Router) {
			r.Post("/", h.UpsertOverheadSegment)
			r.Delete("/{id}", h.DeleteOverheadSegment)
		})

		// Pricing routes
		r.Route("/pricing", func(r chi.Router) {
			r.Get("/", h.GetPricing)
			r.Put("/{periodID}", h.PutRateCard)
		})

		// Invoice routes
		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.ListInvoices)
			r.Post("/", h.UpsertInvoice)
			r.Delete("/{id}", h.DeleteInvoice)
		})

		// Fixture routes
		r.Post("/fixtures/demo", h.LoadDemoFixture)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Deployment Billing Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Deployment Billing Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/data">/api/data</a> - Whole document</li>
<li><a href="/api/billing/items">/api/billing/items</a> - Generated line items</li>
<li><a href="/api/stats/weekly-labor">/api/stats/weekly-labor</a> - Weekly labor hours</li>
<li><a href="/api/scheduler/items">/api/scheduler/items</a> - Merged timeline</li>
</ul>
</body>
</html>`))
	})

	return r
}

// requestLogger logs one structured line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
