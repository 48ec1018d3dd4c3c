/*
errors.go - Centralized error types for the insights engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is / errors.As.

ERROR CATEGORIES:
  1. Range errors - Malformed or contradictory date bounds
  2. Entry errors - Malformed records from the tracking data source

Empty results are NOT errors: zero-length rollups and zero-valued summaries
are valid, well-defined outputs.

SEE ALSO:
  - range.go: Returns range errors
  - rollup.go: Returns entry errors
*/
package insights

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRangeInput is returned for malformed or contradictory date
	// bounds. There is no recovery; callers must supply valid inputs.
	ErrInvalidRangeInput = errors.New("invalid range input")

	// ErrInvalidEntry is returned when the data source hands the engine a
	// malformed record (e.g. negative duration). The engine rejects the whole
	// computation rather than skipping the record, so upstream data
	// corruption is surfaced instead of masked.
	ErrInvalidEntry = errors.New("invalid time entry")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRangeError describes which input made the range unresolvable.
type InvalidRangeError struct {
	Field  string // "start_date", "end_date", "bounds", "range"
	Value  string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range input: %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidRangeError) Unwrap() error {
	return ErrInvalidRangeInput
}

// InvalidEntryError identifies the offending record.
type InvalidEntryError struct {
	EntryID         string
	DurationSeconds int64
	Reason          string
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid time entry %q: %s (duration_seconds=%d)",
		e.EntryID, e.Reason, e.DurationSeconds)
}

func (e *InvalidEntryError) Unwrap() error {
	return ErrInvalidEntry
}

// IsClientError returns true if the error is due to invalid caller input
// rather than a data-source defect.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRangeInput)
}
