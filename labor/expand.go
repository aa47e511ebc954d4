/*
Package labor expands heterogeneous hour sources into daily entries and
aggregates them into weekly overtime and monthly per-category totals.

PURPOSE:
  Payroll-style hour math. Deployment labor plans, overhead blocks, and
  resource assignments all reduce to one canonical shape - a dated
  entry of hours against a category or resource id - which then flows
  through ISO-week grouping, the 40-hour overtime threshold, and the
  proportional redistribution of the overtime premium into months.

PIPELINE:
  Expand -> Weekly -> Monthly

  Expand produces a lazy iter.Seq: a year-long deployment does not
  force a materialized slice before aggregation begins. Sources are
  concatenated in a fixed order: during-plan, pre/post-plan, overhead,
  resource assignments.

DROP SEMANTICS:
  An entry whose category, resource, or schedule-item link does not
  resolve is silently dropped. Aggregation is best-effort and total
  over well-formed input; empty collections produce empty results.

SEE ALSO:
  - weekly.go: ISO-week grouping and overtime
  - monthly.go: Premium redistribution into month buckets
*/
package labor

import (
	"iter"

	"github.com/harborline/deploy-engine/engine"
)

// HoursPerFTEDay is the workday length backing the fte and percent
// allocation modes: one FTE equals eight hours per day.
const HoursPerFTEDay = 8.0

// DailyEntry is the canonical unit every source expands into.
// CategoryID carries a resource id for assignment-derived entries.
type DailyEntry struct {
	Date             engine.Date
	CategoryID       engine.CategoryID
	Hours            float64
	OvertimeEligible bool
}

// Expand streams canonical entries from every source in the document,
// concatenated in a fixed order: deployment during-plans, pre/post
// plans, overhead segments, resource assignments. The sequence is lazy
// and restartable.
func Expand(doc *engine.Document) iter.Seq[DailyEntry] {
	seqs := []iter.Seq[DailyEntry]{}
	for _, dep := range doc.Deployments {
		seqs = append(seqs, planEntries(doc, dep))
	}
	for _, seg := range doc.OverheadSegments {
		seqs = append(seqs, overheadEntries(doc, seg))
	}
	for _, a := range doc.Assignments {
		seqs = append(seqs, assignmentEntries(doc, a))
	}
	return Concat(seqs...)
}

// Concat chains sequences without materializing them.
func Concat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for v := range seq {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// planEntries expands one deployment's labor plan. An open deployment
// (no end date) has no labor window and emits nothing.
func planEntries(doc *engine.Document, dep engine.Deployment) iter.Seq[DailyEntry] {
	return func(yield func(DailyEntry) bool) {
		span, concluded := dep.Span()
		if !concluded {
			return
		}

		// During: every day of the deployment, one entry per segment.
		for day := range span.Days() {
			for _, seg := range dep.Plan.During {
				if doc.CategoryByID(seg.CategoryID) == nil {
					continue
				}
				if !yield(DailyEntry{Date: day, CategoryID: seg.CategoryID, Hours: seg.HoursPerDay, OvertimeEligible: seg.OvertimeEligible}) {
					return
				}
			}
		}

		// Pre: the window ends OffsetDays before the start and spans
		// DurationDays backward from that boundary.
		for _, seg := range dep.Plan.Pre {
			window := engine.DateRange{
				Start: span.Start.AddDays(-(seg.OffsetDays + seg.DurationDays)),
				End:   span.Start.AddDays(-(seg.OffsetDays + 1)),
			}
			if !yieldSegment(doc, seg, window, yield) {
				return
			}
		}

		// Post: the window starts OffsetDays after the end and spans
		// DurationDays forward.
		for _, seg := range dep.Plan.Post {
			window := engine.DateRange{
				Start: span.End.AddDays(seg.OffsetDays),
				End:   span.End.AddDays(seg.OffsetDays + seg.DurationDays - 1),
			}
			if !yieldSegment(doc, seg, window, yield) {
				return
			}
		}
	}
}

// yieldSegment emits one entry per window day for a pre/post segment.
// A zero or negative duration emits nothing.
func yieldSegment(doc *engine.Document, seg engine.LaborPlanSegment, window engine.DateRange, yield func(DailyEntry) bool) bool {
	if seg.DurationDays <= 0 {
		return true
	}
	if doc.CategoryByID(seg.CategoryID) == nil {
		return true
	}
	for day := range window.Days() {
		if !yield(DailyEntry{Date: day, CategoryID: seg.CategoryID, Hours: seg.HoursPerDay, OvertimeEligible: seg.OvertimeEligible}) {
			return false
		}
	}
	return true
}

// overheadEntries expands one overhead block. Overhead is never
// overtime-eligible.
func overheadEntries(doc *engine.Document, seg engine.OverheadSegment) iter.Seq[DailyEntry] {
	return func(yield func(DailyEntry) bool) {
		if doc.CategoryByID(seg.CategoryID) == nil {
			return
		}
		for day := range seg.Span().Days() {
			if !yield(DailyEntry{Date: day, CategoryID: seg.CategoryID, Hours: seg.HoursPerDay}) {
				return
			}
		}
	}
}

// assignmentEntries expands one resource assignment across its target
// item's span. The assignment is dropped when the resource or the
// target does not resolve. Entries carry the resource id in place of a
// category id and are never overtime-eligible.
func assignmentEntries(doc *engine.Document, a engine.ResourceAssignment) iter.Seq[DailyEntry] {
	return func(yield func(DailyEntry) bool) {
		if doc.ResourceByID(a.ResourceID) == nil {
			return
		}
		span, ok := assignmentSpan(doc, a)
		if !ok {
			return
		}
		n := span.DayCount()
		if n <= 0 {
			return
		}

		var perDay float64
		switch a.AllocationMode {
		case engine.AllocationHours:
			perDay = a.AllocationValue / float64(n)
		case engine.AllocationFTE:
			perDay = a.AllocationValue * HoursPerFTEDay
		case engine.AllocationPercent:
			perDay = a.AllocationValue / 100 * HoursPerFTEDay
		default:
			return
		}

		for day := range span.Days() {
			if !yield(DailyEntry{Date: day, CategoryID: engine.CategoryID(a.ResourceID), Hours: perDay}) {
				return
			}
		}
	}
}

// assignmentSpan resolves the assignment target to a date range:
// either a deployment via the synthetic id, or a local item by id.
func assignmentSpan(doc *engine.Document, a engine.ResourceAssignment) (engine.DateRange, bool) {
	if depID, ok := engine.DeploymentFromItemID(a.ScheduleItemID); ok {
		dep := doc.DeploymentByID(depID)
		if dep == nil {
			return engine.DateRange{}, false
		}
		return dep.Span()
	}
	if item := doc.ScheduleItemByID(a.ScheduleItemID); item != nil {
		return item.Span(), true
	}
	return engine.DateRange{}, false
}
