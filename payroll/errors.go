/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. ValidationError - A profile or time entry is structurally invalid;
     raised before any calculation begins for that employee.
  2. RangeError - A rate or code is outside its defined domain in a
     context with no defined default (e.g. an unrecognized tax code).
     Contexts WITH a defined default clamp silently instead (see
     ContributionCalculator).
  3. LookupError - No versioned table entry applies to the requested
     date. Always raised, never defaulted: guessing a statutory rate
     would be financially incorrect.
  4. ComputationError - Reserved for genuine arithmetic impossibilities.
     None currently exist; division-by-zero cases are explicitly guarded
     to return zero.

PROPAGATION:
  Errors for one employee within a batch are attached to that employee's
  result slot; they never abort sibling computations. Compliance
  evaluators never return errors at all.

USAGE:
  if payroll.IsValidation(err) { ... }
  var le *payroll.LookupError
  if errors.As(err, &le) { ... }
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the category sentinel for structurally invalid input.
	ErrValidation = errors.New("invalid input")

	// ErrRange is the category sentinel for out-of-domain values with no
	// defined default.
	ErrRange = errors.New("value out of range")

	// ErrLookup is the category sentinel for versioned-table misses.
	ErrLookup = errors.New("no applicable entry")

	// ErrComputation is reserved for genuine arithmetic impossibilities.
	ErrComputation = errors.New("computation failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a structurally invalid profile or time entry,
// scoped to a single employee.
type ValidationError struct {
	EmployeeID string
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.EmployeeID == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("employee %s: invalid %s: %s", e.EmployeeID, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// RangeError reports a value outside its defined domain.
type RangeError struct {
	What  string
	Value string
	Min   string
	Max   string
}

func (e *RangeError) Error() string {
	if e.Min != "" || e.Max != "" {
		return fmt.Sprintf("%s out of range: %s not in [%s, %s]", e.What, e.Value, e.Min, e.Max)
	}
	return fmt.Sprintf("unrecognized %s: %q", e.What, e.Value)
}

func (e *RangeError) Unwrap() error { return ErrRange }

// LookupError reports that no versioned table entry applies to a date.
type LookupError struct {
	What string
	At   Date
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no %s applies at %s", e.What, e.At)
}

func (e *LookupError) Unwrap() error { return ErrLookup }

// =============================================================================
// ERROR HELPERS
// =============================================================================

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsRange(err error) bool      { return errors.Is(err, ErrRange) }
func IsLookup(err error) bool     { return errors.Is(err, ErrLookup) }
