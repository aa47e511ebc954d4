/*
Package billing turns deployment date spans into billable line items.

PURPOSE:
  Two pieces: the period calculator, which decomposes an inclusive date
  span into whole 15-day periods plus a remainder, and the item
  generator, which walks that decomposition and emits priced line items
  according to the deployment type.

BILLING RULES BY DEPLOYMENT TYPE:
  Land:        15-day CLIN per period, plus a parallel Over & Above
               item per period when that rate is configured. Leftover
               remainder days are never billed.
  Ship/Shore:  15-day CLIN per period, plus one single-day Daily Rate
               item per leftover day.
  Other:       One flat-price item spanning the whole deployment,
               ignoring the 15-day decomposition entirely.

  A deployment without an end date is not yet concluded and produces
  no items.

SEE ALSO:
  - items.go: Line item generation
  - pricing: Rate resolution against the ordering-period matrix
*/
package billing

import "github.com/harborline/deploy-engine/engine"

// PeriodLengthDays is the fixed billing period size.
const PeriodLengthDays = 15

// PeriodBreakdown decomposes an inclusive day count into whole 15-day
// periods and leftover days.
//
// Invariant: Periods*15 + RemainderDays == TotalDays, 0 <= RemainderDays < 15.
type PeriodBreakdown struct {
	Periods       int
	RemainderDays int
	TotalDays     int
}

// Breakdown computes the 15-day decomposition of [start, end].
// An inverted range is treated as empty, not as an error.
func Breakdown(start, end engine.Date) PeriodBreakdown {
	totalDays := engine.DaysBetween(start, end) + 1
	if totalDays <= 0 {
		return PeriodBreakdown{}
	}
	return PeriodBreakdown{
		Periods:       totalDays / PeriodLengthDays,
		RemainderDays: totalDays % PeriodLengthDays,
		TotalDays:     totalDays,
	}
}
