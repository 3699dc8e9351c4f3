/*
rules.go - Immutable rule set and atomic reload

PURPOSE:
  Bundles every statutory table and rate the engine needs into one
  immutable value, and provides the single sanctioned way to change it:
  an explicit, atomic whole-set swap. Nothing in the engine mutates a
  table field-by-field at runtime.

PROVIDERS:
  RuleProvider hands the current rule set to calculators. Profile and
  time-entry data come from injected provider interfaces; the engine
  holds no global state and performs no I/O of its own.

SEE ALSO:
  - nz/rules.go: The shipped statutory rule set
  - factory/rules.go: JSON rule packs parsed into a RuleSet
*/
package payroll

import (
	"context"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RULE SET
// =============================================================================

// StudentLoanRule deducts Rate on period income above the annual
// repayment threshold, pro-rated to the pay cycle.
type StudentLoanRule struct {
	Rate            decimal.Decimal
	AnnualThreshold Money
}

// RuleSet is the complete statutory configuration for one jurisdiction
// and era. Treat it as immutable: build a new one to change anything.
type RuleSet struct {
	Version string

	Tax          TaxTable
	Levy         LevyCalculator
	Contribution ContributionCalculator
	StudentLoan  StudentLoanRule
	MinimumWage  WageTable
	Holidays     *HolidayCalendar
	Hours        HoursRules

	// Alternative-day validity window, in months from the holiday date.
	AlternativeDayExpiryMonths int
}

// Validate checks the rule set before it is allowed to become current.
func (rs *RuleSet) Validate() error {
	if err := rs.Tax.Validate(); err != nil {
		return err
	}
	one := decimal.NewFromInt(1)
	if rs.Levy.Rate.IsNegative() || rs.Levy.Rate.GreaterThan(one) {
		return &RangeError{What: "levy rate", Value: rs.Levy.Rate.String(), Min: "0", Max: "1"}
	}
	if rs.Contribution.MinRate.GreaterThan(rs.Contribution.MaxRate) {
		return &ValidationError{Field: "contribution", Reason: "min rate exceeds max rate"}
	}
	if rs.StudentLoan.Rate.IsNegative() || rs.StudentLoan.Rate.GreaterThan(one) {
		return &RangeError{What: "student loan rate", Value: rs.StudentLoan.Rate.String(), Min: "0", Max: "1"}
	}
	if rs.Holidays == nil {
		return &ValidationError{Field: "holidays", Reason: "holiday calendar is required"}
	}
	// The break evaluator divides by the rest interval and compares
	// against the meal thresholds; a set without them must never become
	// current.
	if rs.Hours.RestBreakInterval <= 0 {
		return &ValidationError{Field: "hours", Reason: "rest break interval must be positive"}
	}
	if rs.Hours.MealBreakThreshold <= 0 || rs.Hours.MealBreakMinimum <= 0 {
		return &ValidationError{Field: "hours", Reason: "meal break threshold and minimum must be positive"}
	}
	return nil
}

// TaxEngine returns the bracket engine for this rule set.
func (rs *RuleSet) TaxEngine() TaxBracketEngine { return TaxBracketEngine{Table: rs.Tax} }

// WageValidator returns the minimum-wage validator for this rule set.
func (rs *RuleSet) WageValidator() MinimumWageValidator { return MinimumWageValidator{Table: rs.MinimumWage} }

// HolidayResolver returns the holiday pay resolver for this rule set.
func (rs *RuleSet) HolidayResolver() HolidayPayResolver {
	return HolidayPayResolver{Calendar: rs.Holidays, ExpiryMonths: rs.AlternativeDayExpiryMonths}
}

// =============================================================================
// RULE PROVIDER - Atomic whole-set swap
// =============================================================================

// RuleProvider holds the current rule set. Reload validates and swaps the
// entire set atomically; readers always see a complete, consistent set.
type RuleProvider struct {
	current atomic.Pointer[RuleSet]
}

func NewRuleProvider(rs *RuleSet) (*RuleProvider, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	p := &RuleProvider{}
	p.current.Store(rs)
	return p, nil
}

// Current returns the active rule set. The returned value must not be
// mutated.
func (p *RuleProvider) Current() *RuleSet { return p.current.Load() }

// Reload swaps in a new rule set after validating it. In-flight
// calculations keep the set they started with.
func (p *RuleProvider) Reload(rs *RuleSet) error {
	if err := rs.Validate(); err != nil {
		return err
	}
	p.current.Store(rs)
	return nil
}

// =============================================================================
// DATA PROVIDERS - Injected collaborators (the engine does no I/O)
// =============================================================================

// ProfileProvider supplies compensation profiles from the HR data layer.
type ProfileProvider interface {
	Profile(ctx context.Context, employeeID string) (CompensationProfile, error)
}

// TimeEntryProvider supplies attendance records for a date range.
type TimeEntryProvider interface {
	Entries(ctx context.Context, employeeID string, from, to Date) ([]TimeEntry, error)
}
