/*
Package engine provides the core types for the deployment allocation
and billing engine.

PURPOSE:
  This package contains the shared entities and date primitives that the
  algorithm packages (billing, labor, schedule) operate on. Deployments,
  labor plans, overhead blocks, schedule items, resources, and the
  whole-application Document all live here so the algorithm packages
  stay free of each other.

KEY CONCEPTS IN THIS FILE (types.go):
  - Deployment: An operational assignment with a date span, a labor
    plan, and optional per-deployment billing rates
  - LaborPlan: pre / during / post hour segments per labor category
  - OverheadSegment: fixed hours independent of any deployment
  - ScheduleItem / ScheduleDependency / Resource / ResourceAssignment:
    the local schedule collections merged with deployments
  - Document: the single shared state persisted as one unit

DESIGN PRINCIPLES:
  1. Precision: billing amounts use decimal.Decimal, never float money
  2. Type Safety: strong typing for IDs prevents mixing id kinds
  3. Optionality: absent values are pointers, not sentinel defaults
  4. Inclusivity: every date range includes both endpoints

SEE ALSO:
  - date.go: Date and DateRange primitives
  - fiscal.go: Fiscal year and ordering period lookup
  - store.go: Repository interface for Document persistence
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type DeploymentID string
type CategoryID string
type ResourceID string
type ScheduleItemID string
type DependencyID string
type AssignmentID string
type InvoiceID string

// =============================================================================
// DEPLOYMENT - The authoritative operational record
// =============================================================================

type DeploymentType string

const (
	DeploymentLand  DeploymentType = "Land"
	DeploymentShip  DeploymentType = "Ship"
	DeploymentShore DeploymentType = "Shore"
	DeploymentOther DeploymentType = "Other"
)

// LaborPlanSegment describes fixed daily hours for one labor category.
// Pre and post segments additionally carry a duration and an offset
// measured in days from the deployment boundary.
type LaborPlanSegment struct {
	CategoryID       CategoryID `json:"categoryId"`
	HoursPerDay      float64    `json:"hoursPerDay"`
	OvertimeEligible bool       `json:"overtimeEligible"`
	DurationDays     int        `json:"durationDays,omitempty"`
	OffsetDays       int        `json:"offsetDays,omitempty"`
}

// LaborPlan holds a deployment's hour segments in three buckets.
type LaborPlan struct {
	Pre    []LaborPlanSegment `json:"pre,omitempty"`
	During []LaborPlanSegment `json:"during,omitempty"`
	Post   []LaborPlanSegment `json:"post,omitempty"`
}

// DeploymentRates are per-deployment billing rates. A zero value means
// "not set here"; billing falls back to the ordering-period rate card.
type DeploymentRates struct {
	Per15Day     decimal.Decimal `json:"per15Day"`
	Daily        decimal.Decimal `json:"daily"`
	OverAndAbove decimal.Decimal `json:"overAndAbove"`
	FlatPrice    decimal.Decimal `json:"flatPrice"`
}

// Deployment is an operational assignment. A nil End means the
// deployment is still open: it is excluded from billing and from labor
// expansion until it concludes.
type Deployment struct {
	ID     DeploymentID    `json:"id"`
	Name   string          `json:"name"`
	Type   DeploymentType  `json:"type"`
	Start  Date            `json:"startDate"`
	End    *Date           `json:"endDate,omitempty"`
	Status string          `json:"status,omitempty"`
	Plan   LaborPlan       `json:"laborPlan"`
	Rates  DeploymentRates `json:"rates"`
}

// Span returns the deployment's inclusive date range and whether the
// deployment has concluded. Open deployments have no span.
func (d Deployment) Span() (DateRange, bool) {
	if d.End == nil {
		return DateRange{}, false
	}
	return DateRange{Start: d.Start, End: *d.End}, true
}

// =============================================================================
// LABOR LOOKUPS - Categories and overhead blocks
// =============================================================================

// LaborCategory classifies raw hours. Entries referencing a category
// that does not resolve here are dropped from aggregation.
type LaborCategory struct {
	ID               CategoryID      `json:"id"`
	Name             string          `json:"name"`
	OvertimeEligible bool            `json:"isOvertimeEligible"`
	BaseRate         decimal.Decimal `json:"baseRate"`
}

// OverheadSegment is a fixed block of daily hours independent of any
// deployment. Overhead hours are never overtime-eligible.
type OverheadSegment struct {
	ID          string     `json:"id"`
	CategoryID  CategoryID `json:"categoryId"`
	Start       Date       `json:"startDate"`
	End         Date       `json:"endDate"`
	HoursPerDay float64    `json:"hoursPerDay"`
}

func (o OverheadSegment) Span() DateRange { return DateRange{Start: o.Start, End: o.End} }

// =============================================================================
// SCHEDULE - Locally edited timeline collections
// =============================================================================

type ScheduleItemType string

const (
	ItemDeployment ScheduleItemType = "deployment"
	ItemMilestone  ScheduleItemType = "milestone"
	ItemTask       ScheduleItemType = "task"
	ItemPhase      ScheduleItemType = "phase"
)

// ScheduleItem is a locally stored timeline row. When DeploymentID is
// set, the deployment is the authoritative source of title and dates;
// parent, ordering, and metadata stay locally editable.
type ScheduleItem struct {
	ID           ScheduleItemID    `json:"id"`
	Type         ScheduleItemType  `json:"type"`
	DeploymentID DeploymentID      `json:"deploymentId,omitempty"`
	Title        string            `json:"title"`
	Start        Date              `json:"startAt"`
	End          Date              `json:"endAt"`
	Progress     float64           `json:"progress"`
	ParentID     ScheduleItemID    `json:"parentId,omitempty"`
	SortOrder    int               `json:"sortOrder,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

func (i ScheduleItem) Span() DateRange { return DateRange{Start: i.Start, End: i.End} }

type DependencyRelation string

const (
	FinishToStart  DependencyRelation = "FS"
	StartToStart   DependencyRelation = "SS"
	FinishToFinish DependencyRelation = "FF"
	StartToFinish  DependencyRelation = "SF"
)

// ScheduleDependency links two schedule items. Stored as-is: no cycle
// detection and no referential integrity against live items.
type ScheduleDependency struct {
	ID            DependencyID       `json:"id"`
	PredecessorID ScheduleItemID     `json:"predecessorId"`
	SuccessorID   ScheduleItemID     `json:"successorId"`
	Relation      DependencyRelation `json:"type"`
	LagMinutes    int                `json:"lagMinutes"`
}

// =============================================================================
// RESOURCES - Allocatable entities and their assignments
// =============================================================================

type ResourceKind string

const (
	ResourcePerson ResourceKind = "person"
	ResourceRole   ResourceKind = "role"
	ResourceTeam   ResourceKind = "team"
	ResourceVendor ResourceKind = "vendor"
)

type Resource struct {
	ID   ResourceID   `json:"id"`
	Name string       `json:"name"`
	Kind ResourceKind `json:"kind,omitempty"`
}

type AllocationMode string

const (
	AllocationHours   AllocationMode = "hours"   // total hours spread evenly across the span
	AllocationFTE     AllocationMode = "fte"     // flat value*8 hours per day
	AllocationPercent AllocationMode = "percent" // flat value/100*8 hours per day
)

// ResourceAssignment binds a resource to a schedule item, either a
// local item by id or a deployment via the synthetic "dep_" id.
type ResourceAssignment struct {
	ID              AssignmentID   `json:"id"`
	ScheduleItemID  ScheduleItemID `json:"scheduleItemId"`
	ResourceID      ResourceID     `json:"resourceId"`
	AllocationMode  AllocationMode `json:"allocationMode"`
	AllocationValue float64        `json:"allocationValue"`
}

// =============================================================================
// BILLING STATE - Invoice tracking over generated line items
// =============================================================================

// BillingItemState tracks the invoicing status of a generated line
// item, keyed by the item's deterministic id.
type BillingItemState struct {
	Status        string `json:"status,omitempty"`
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
}

type Invoice struct {
	ID       InvoiceID       `json:"id"`
	Number   string          `json:"number"`
	IssuedOn Date            `json:"issuedOn"`
	Status   string          `json:"status,omitempty"`
	ItemIDs  []string        `json:"itemIds,omitempty"`
	Total    decimal.Decimal `json:"total"`
}

// =============================================================================
// RATE CARD - Pricing matrix cell for one ordering period
// =============================================================================

// RateCard holds the contract prices for one ordering period.
type RateCard struct {
	Land15Day        decimal.Decimal `json:"land15"`
	LandOverAndAbove decimal.Decimal `json:"landOA"`
	Ship15Day        decimal.Decimal `json:"ship15"`
	ShipDaily        decimal.Decimal `json:"ship1"`
	Shore15Day       decimal.Decimal `json:"shore15"`
	ShoreDaily       decimal.Decimal `json:"shore1"`
	OtherFlat        decimal.Decimal `json:"otherFlat"`
}

// =============================================================================
// DOCUMENT - The single shared mutable state
// =============================================================================

// Document is the whole application state, persisted as one unit.
// All operations are whole-document read-modify-write with last-write-
// wins semantics; see Repository.
type Document struct {
	Deployments      []Deployment         `json:"deployments"`
	LaborCategories  []LaborCategory      `json:"laborCategories"`
	OverheadSegments []OverheadSegment    `json:"overheadSegments"`
	ScheduleItems    []ScheduleItem       `json:"scheduleItems"`
	Dependencies     []ScheduleDependency `json:"scheduleDependencies"`
	Resources        []Resource           `json:"resources"`
	Assignments      []ResourceAssignment `json:"resourceAssignments"`
	Invoices         []Invoice            `json:"invoices"`

	// BillingState maps generated line-item ids to invoicing status.
	BillingState map[string]BillingItemState `json:"billingState,omitempty"`

	// Pricing maps ordering-period id to that period's rate card.
	Pricing map[string]RateCard `json:"pricing,omitempty"`
}

// NewDocument returns an empty document with maps initialized.
func NewDocument() *Document {
	return &Document{
		BillingState: make(map[string]BillingItemState),
		Pricing:      make(map[string]RateCard),
	}
}

// Lookup helpers. All return nil when the id does not resolve; callers
// drop the producing entry rather than failing (best-effort semantics).

func (d *Document) DeploymentByID(id DeploymentID) *Deployment {
	for i := range d.Deployments {
		if d.Deployments[i].ID == id {
			return &d.Deployments[i]
		}
	}
	return nil
}

func (d *Document) CategoryByID(id CategoryID) *LaborCategory {
	for i := range d.LaborCategories {
		if d.LaborCategories[i].ID == id {
			return &d.LaborCategories[i]
		}
	}
	return nil
}

func (d *Document) ScheduleItemByID(id ScheduleItemID) *ScheduleItem {
	for i := range d.ScheduleItems {
		if d.ScheduleItems[i].ID == id {
			return &d.ScheduleItems[i]
		}
	}
	return nil
}

func (d *Document) ResourceByID(id ResourceID) *Resource {
	for i := range d.Resources {
		if d.Resources[i].ID == id {
			return &d.Resources[i]
		}
	}
	return nil
}
