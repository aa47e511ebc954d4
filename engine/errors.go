/*
errors.go - Centralized error types for the engine

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  The service and api layers wrap these with operation context and map
  them to HTTP status codes.

ERROR PHILOSOPHY:
  Malformed input (bad dates, unknown ids on direct lookups) fails the
  operation. Unresolvable references encountered *during aggregation*
  are not errors: the producing entry is silently dropped, and the
  aggregation stays total over well-formed input.

SEE ALSO:
  - date.go: ParseDate wraps ErrInvalidDate
  - service: wraps not-found errors on keyed operations
*/
package engine

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date string cannot be parsed.
	// Dates are never silently truncated.
	ErrInvalidDate = errors.New("invalid date")

	// ErrDeploymentNotFound is returned when a referenced deployment
	// does not exist in the document.
	ErrDeploymentNotFound = errors.New("deployment not found")

	// ErrScheduleItemNotFound is returned on direct item lookups.
	ErrScheduleItemNotFound = errors.New("schedule item not found")

	// ErrDependencyCycle is returned when the auto-schedule forward
	// pass detects a cycle; the schedule is left unchanged.
	ErrDependencyCycle = errors.New("dependency cycle detected")

	// ErrDocumentNotFound is returned by stores with no saved state.
	ErrDocumentNotFound = errors.New("document not found")
)

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrDependencyCycle)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDeploymentNotFound) ||
		errors.Is(err, ErrScheduleItemNotFound) ||
		errors.Is(err, ErrDocumentNotFound)
}
