/*
Package service is the thin operation layer over the document store.

PURPOSE:
  Exposes the engine's computations (billing, labor aggregation,
  schedule assembly, date classification) as side-effect-free reads,
  and the keyed upsert/delete operations as whole-document
  read-modify-write mutations. The HTTP layer delegates here and does
  nothing but (de)serialization.

CONSISTENCY:
  Every mutation is Load -> modify -> Save over the single shared
  document. Single writer, last write wins; no result caching - every
  calculate operation recomputes from the full input.

SEE ALSO:
  - engine/store.go: Repository contract
  - api: HTTP surface delegating to this package
*/
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborline/deploy-engine/billing"
	"github.com/harborline/deploy-engine/engine"
	"github.com/harborline/deploy-engine/labor"
	"github.com/harborline/deploy-engine/pricing"
	"github.com/harborline/deploy-engine/schedule"
)

type Service struct {
	repo    engine.Repository
	periods []engine.OrderingPeriod
}

func New(repo engine.Repository) *Service {
	return &Service{repo: repo, periods: engine.DefaultOrderingPeriods()}
}

// =============================================================================
// READS - Pure computations over the loaded document
// =============================================================================

// BillingPeriods decomposes a date span. Pure; touches no state.
func (s *Service) BillingPeriods(start, end engine.Date) billing.PeriodBreakdown {
	return billing.Breakdown(start, end)
}

// DateInfo classifies a date into fiscal year and ordering period.
func (s *Service) DateInfo(d engine.Date) engine.DateInfo {
	return engine.ClassifyDate(d, s.periods)
}

// BillingItems generates line items for every concluded deployment,
// resolving rates against the stored pricing matrix.
func (s *Service) BillingItems(ctx context.Context) ([]billing.LineItem, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	resolve := pricing.Resolver(pricing.Matrix(doc.Pricing), s.periods)
	return billing.Items(doc.Deployments, resolve), nil
}

// WeeklyLabor aggregates every hour source into ISO-week totals.
func (s *Service) WeeklyLabor(ctx context.Context) ([]labor.WeekTotals, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return labor.Weekly(labor.Expand(doc)), nil
}

// MonthlyLaborHours folds every hour source into month x category
// equivalent-hour totals.
func (s *Service) MonthlyLaborHours(ctx context.Context) (labor.MonthlyHours, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return labor.Monthly(labor.Expand(doc)), nil
}

// MergedScheduleItems returns the assembled timeline.
func (s *Service) MergedScheduleItems(ctx context.Context) ([]engine.ScheduleItem, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return schedule.Merge(doc.Deployments, doc.ScheduleItems), nil
}

// Dependencies returns the stored dependency collection.
func (s *Service) Dependencies(ctx context.Context) ([]engine.ScheduleDependency, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Dependencies, nil
}

// Deployment returns one deployment by id.
func (s *Service) Deployment(ctx context.Context, id engine.DeploymentID) (engine.Deployment, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return engine.Deployment{}, err
	}
	dep := doc.DeploymentByID(id)
	if dep == nil {
		return engine.Deployment{}, fmt.Errorf("%w: %s", engine.ErrDeploymentNotFound, id)
	}
	return *dep, nil
}

// Document returns the whole state for the document endpoint.
func (s *Service) Document(ctx context.Context) (*engine.Document, error) {
	return s.repo.Load(ctx)
}

// =============================================================================
// MUTATIONS - Whole-document read-modify-write, last write wins
// =============================================================================

// ReplaceDocument overwrites the entire state. The document endpoint
// mirrors the UI's push-whole-state behavior.
func (s *Service) ReplaceDocument(ctx context.Context, doc *engine.Document) error {
	return s.repo.Save(ctx, doc)
}

// UpsertScheduleItem stores an item keyed by id. When the item carries
// a deployment link, its start/end/title are written back into the
// deployment record before saving.
func (s *Service) UpsertScheduleItem(ctx context.Context, item engine.ScheduleItem) (engine.ScheduleItem, error) {
	if item.ID == "" {
		item.ID = engine.ScheduleItemID(uuid.NewString())
	}
	err := s.mutate(ctx, func(doc *engine.Document) error {
		upsert(&doc.ScheduleItems, item, func(x engine.ScheduleItem) engine.ScheduleItemID { return x.ID })
		schedule.SyncBack(item, doc.Deployments)
		return nil
	})
	return item, err
}

func (s *Service) DeleteScheduleItem(ctx context.Context, id engine.ScheduleItemID) error {
	return s.mutate(ctx, func(doc *engine.Document) error {
		remove(&doc.ScheduleItems, id, func(x engine.ScheduleItem) engine.ScheduleItemID { return x.ID })
		return nil
	})
}

func (s *Service) UpsertDependency(ctx context.Context, dep engine.ScheduleDependency) (engine.ScheduleDependency, error) {
	if dep.ID == "" {
		dep.ID = engine.DependencyID(uuid.NewString())
	}
	err := s.mutate(ctx, func(doc *engine.Document) error {
		upsert(&doc.Dependencies, dep, func(x engine.ScheduleDependency) engine.DependencyID { return x.ID })
		return nil
	})
	return dep, err
}

func (s *Service) DeleteDependency(ctx context.Context, id engine.DependencyID) error {
	return s.mutate(ctx, func(doc *engine.Document) error {
		remove(&doc.Dependencies, id, func(x engine.ScheduleDependency) engine.DependencyID { return x.ID })
		return nil
	})
}

func (s *Service) UpsertResource(ctx context.Context, r engine.Resource) (engine.Resource, error) {
	if r.ID == "" {
		r.ID = engine.ResourceID(uuid.NewString())
	}
	err := s.mutate(ctx, func(doc *engine.Document) error {
		upsert(&doc.Resources, r, func(x engine.Resource) engine.ResourceID { return x.ID })
		return nil
	})
	return r, err
}

func (s *Service) DeleteResource(ctx context.Context, id engine.ResourceID) error {
	return s.mutate(ctx, func(doc *engine.Document) error {
		remove(&doc.Resources, id, func(x engine.Resource) engine.ResourceID { return x.ID })
		return nil
	})
}

func (s *Service) UpsertAssignment(ctx context.Context, a engine.ResourceAssignment) (engine.ResourceAssignment, error) {
	if a.ID == "" {
		a.ID = engine.AssignmentID(uuid.NewString())
	}
	err := s.mutate(ctx, func(doc *engine.Document) error {
		upsert(&doc.Assignments, a, func(x engine.ResourceAssignment) engine.AssignmentID { return x.ID })
		return nil
	})
	return a, err
}

func (s *Service) DeleteAssignment(ctx context.Context, id engine.AssignmentID) error {
	return s.mutate(ctx, func(doc *engine.Document) error {
		remove(&doc.Assignments, id, func(x engine.ResourceAssignment) engine.AssignmentID { return x.ID })
		return nil
	})
}

func (s *Service) UpsertDeployment(ctx context.Context, dep engine.Deployment) (engine.Deployment, error) {
	if dep.ID == "" {
		dep.ID = engine.DeploymentID(uuid.NewString())
	}
	err := s.mutate(ctx, func(doc *engine.Document) error {
		upsert(&doc.Deployments, dep, func(x engine.Deployment) engine.DeploymentID { return x.ID })
		return nil
	})
	return dep, err
}

func (s *Service) DeleteDeployment(ctx context.Context, id engine.DeploymentID) error {
	return s.mutate(ctx, func(doc *engine.Document) error {
		remove(&doc.Deployments, id, func(x engine.Deployment) engine.DeploymentID { return x.ID })
		return nil
	})
}

func (s *Service) UpsertLaborCategory(ctx context.Context, c engine.LaborCategory) (engine.LaborCategory, error) {
	if c.ID == "" {
		c.ID = engine.CategoryID(uuid.NewString())
	}
	err := s.mutate(ctx, func(doc *engine.Document) error {
		upsert(&doc.LaborCategories, c, func(x engine.LaborCategory) engine.CategoryID { return x.ID })
		return nil
	})
	return c, err
}

func (s *Service) DeleteLaborCategory(ctx context.Context, id engine.CategoryID) error {
	return s.mutate(ctx, func(doc *engine.Document) error {
		remove(&doc.LaborCategories, id, func(x engine.LaborCategory) engine.CategoryID { return x.ID })
		return nil
	})
}

func (s *Service) UpsertOverheadSegment(ctx context.Context, seg engine.OverheadSegment) (engine.OverheadSegment, error) {
	if seg.ID == "" {
		seg.ID = uuid.NewString()
	}
	err := s.mutate(ctx, func(doc *engine.Document) error {
		upsert(&doc.OverheadSegments, seg, func(x engine.OverheadSegment) string { return x.ID })
		return nil
	})
	return seg, err
}

func (s *Service) DeleteOverheadSegment(ctx context.Context, id string) error {
	return s.mutate(ctx, func(doc *engine.Document) error {
		remove(&doc.OverheadSegments, id, func(x engine.OverheadSegment) string { return x.ID })
		return nil
	})
}

// UpsertInvoice stores an invoice. An invoice carrying item ids but no
// total gets its total computed from the matching generated line items.
func (s *Service) UpsertInvoice(ctx context.Context, inv engine.Invoice) (engine.Invoice, error) {
	if inv.ID == "" {
		inv.ID = engine.InvoiceID(uuid.NewString())
	}
	err := s.mutate(ctx, func(doc *engine.Document) error {
		if inv.Total.IsZero() && len(inv.ItemIDs) > 0 {
			inv.Total = s.invoiceTotal(doc, inv.ItemIDs)
		}
		upsert(&doc.Invoices, inv, func(x engine.Invoice) engine.InvoiceID { return x.ID })
		return nil
	})
	return inv, err
}

func (s *Service) invoiceTotal(doc *engine.Document, itemIDs []string) decimal.Decimal {
	resolve := pricing.Resolver(pricing.Matrix(doc.Pricing), s.periods)
	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	var matched []billing.LineItem
	for _, it := range billing.Items(doc.Deployments, resolve) {
		if wanted[it.ID] {
			matched = append(matched, it)
		}
	}
	return billing.EstimatedCost(matched)
}

func (s *Service) DeleteInvoice(ctx context.Context, id engine.InvoiceID) error {
	return s.mutate(ctx, func(doc *engine.Document) error {
		remove(&doc.Invoices, id, func(x engine.Invoice) engine.InvoiceID { return x.ID })
		return nil
	})
}

// UpdateBillingState merges the invoicing status of generated items.
func (s *Service) UpdateBillingState(ctx context.Context, updates map[string]engine.BillingItemState) error {
	return s.mutate(ctx, func(doc *engine.Document) error {
		if doc.BillingState == nil {
			doc.BillingState = make(map[string]engine.BillingItemState)
		}
		for id, state := range updates {
			doc.BillingState[id] = state
		}
		return nil
	})
}

// PutRateCard stores one ordering period's pricing.
func (s *Service) PutRateCard(ctx context.Context, periodID string, card engine.RateCard) error {
	return s.mutate(ctx, func(doc *engine.Document) error {
		if doc.Pricing == nil {
			doc.Pricing = make(map[string]engine.RateCard)
		}
		doc.Pricing[periodID] = card
		return nil
	})
}

// AutoSchedule runs the dependency forward pass over the stored items
// and persists the pushed dates. A dependency cycle aborts without
// modifying anything.
func (s *Service) AutoSchedule(ctx context.Context) ([]engine.ScheduleItem, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	scheduled, err := schedule.AutoSchedule(doc.ScheduleItems, doc.Dependencies)
	if err != nil {
		return nil, err
	}
	doc.ScheduleItems = scheduled
	// Pushed dates on linked items flow back into their deployments.
	for _, item := range scheduled {
		schedule.SyncBack(item, doc.Deployments)
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return scheduled, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Service) mutate(ctx context.Context, fn func(*engine.Document) error) error {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.repo.Save(ctx, doc)
}

func upsert[T any, K comparable](list *[]T, v T, key func(T) K) {
	for i := range *list {
		if key((*list)[i]) == key(v) {
			(*list)[i] = v
			return
		}
	}
	*list = append(*list, v)
}

func remove[T any, K comparable](list *[]T, id K, key func(T) K) {
	out := (*list)[:0]
	for _, v := range *list {
		if key(v) != id {
			out = append(out, v)
		}
	}
	*list = out
}
