package engine

import "time"

// =============================================================================
// FISCAL CALENDAR - Fiscal year + ordering period classification
// =============================================================================

// The fiscal year runs April through March: a date in April 2025 or later
// belongs to FY2026, a date in March 2026 still belongs to FY2026.
//
// Ordering periods are contracting windows distinct from fiscal years.
// They come from the contract itself and are hand-maintained: the first
// window is a partial one, the rest align with October-September years.

// FiscalYear returns the fiscal year containing d.
func FiscalYear(d Date) int {
	if d.Month() >= time.April {
		return d.Year() + 1
	}
	return d.Year()
}

// OrderingPeriod is a fixed contracting window used for rate lookups.
type OrderingPeriod struct {
	ID    string
	Label string
	Span  DateRange
}

// DefaultOrderingPeriods returns the contract's five ordering periods.
func DefaultOrderingPeriods() []OrderingPeriod {
	return []OrderingPeriod{
		{ID: "1", Label: "OP1", Span: DateRange{Start: NewDate(2024, time.July, 14), End: NewDate(2025, time.September, 30)}},
		{ID: "2", Label: "OP2", Span: DateRange{Start: NewDate(2025, time.October, 1), End: NewDate(2026, time.September, 30)}},
		{ID: "3", Label: "OP3", Span: DateRange{Start: NewDate(2026, time.October, 1), End: NewDate(2027, time.September, 30)}},
		{ID: "4", Label: "OP4", Span: DateRange{Start: NewDate(2027, time.October, 1), End: NewDate(2028, time.September, 30)}},
		{ID: "5", Label: "OP5", Span: DateRange{Start: NewDate(2028, time.October, 1), End: NewDate(2029, time.September, 30)}},
	}
}

// OrderingPeriodFor returns the first period whose span contains d,
// or nil when d falls outside every configured period.
func OrderingPeriodFor(d Date, periods []OrderingPeriod) *OrderingPeriod {
	for i := range periods {
		if periods[i].Span.Contains(d) {
			return &periods[i]
		}
	}
	return nil
}

// DateInfo bundles the classification of a single date.
type DateInfo struct {
	FiscalYear     int
	OrderingPeriod *OrderingPeriod
}

// ClassifyDate computes the fiscal year and ordering period for d.
// Pure lookup, no side effects.
func ClassifyDate(d Date, periods []OrderingPeriod) DateInfo {
	return DateInfo{
		FiscalYear:     FiscalYear(d),
		OrderingPeriod: OrderingPeriodFor(d, periods),
	}
}
