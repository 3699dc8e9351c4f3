/*
Package payroll provides the payroll tax and employment-compliance
calculation core.

PURPOSE:
  This package contains the pure calculation engine behind payslip
  generation: progressive income tax, accident-compensation levy,
  retirement contributions, statutory holiday pay, minimum-wage checks,
  and working-hours/break compliance. It performs no I/O; it consumes
  structured inputs and produces structured outputs.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: An exact decimal currency amount
  - PayFrequency: How a salary amount is quoted (hourly ... annually)
  - Classification: Minimum-wage classification (adult/starting/training)
  - TaxCode: Closed set of withholding codes
  - CompensationProfile: One employee's pay configuration (immutable input)
  - TimeEntry/BreakRecord: Attendance records for hours and break checks

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Immutability: Inputs are snapshots; calculators never mutate them
  3. Closed enums: Classifications, tax codes, and break types are
     exhaustively matched - an unrecognized value is an error, never a
     silent fall-through
  4. Purity: Identical inputs always yield identical outputs

SEE ALSO:
  - tax.go: Progressive bracket engine
  - rules.go: Immutable rule set and atomic reload
  - aggregate.go: Per-employee orchestration into a Payslip
*/
package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Exact decimal currency amount
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int64) Money {
	return Money{Value: decimal.NewFromInt(value)}
}

// ParseMoney parses a decimal string amount. A malformed amount is a
// ValidationError, never a silently substituted zero.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, &ValidationError{Field: "amount", Reason: fmt.Sprintf("invalid amount %q", s)}
	}
	return Money{Value: d}, nil
}

// MustParseMoney is ParseMoney for trusted literals; it panics on bad
// input.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func ZeroMoney() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(o Money) Money              { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money              { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Mul(s decimal.Decimal) Money    { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money    { return Money{Value: m.Value.Div(s)} }
func (m Money) Neg() Money                     { return Money{Value: m.Value.Neg()} }
func (m Money) IsNegative() bool               { return m.Value.IsNegative() }
func (m Money) IsZero() bool                   { return m.Value.IsZero() }
func (m Money) IsPositive() bool               { return m.Value.IsPositive() }
func (m Money) GreaterThan(o Money) bool       { return m.Value.GreaterThan(o.Value) }
func (m Money) LessThan(o Money) bool          { return m.Value.LessThan(o.Value) }
func (m Money) GreaterThanOrEqual(o Money) bool { return m.Value.GreaterThanOrEqual(o.Value) }
func (m Money) Equal(o Money) bool             { return m.Value.Equal(o.Value) }
func (m Money) Min(o Money) Money              { if m.LessThan(o) { return m }; return o }
func (m Money) Max(o Money) Money              { if m.GreaterThan(o) { return m }; return o }

// Rounded returns the amount at 2 decimal places for display.
// The engine itself never rounds mid-calculation.
func (m Money) Rounded() Money { return Money{Value: m.Value.Round(2)} }

func (m Money) String() string { return m.Value.String() }

// =============================================================================
// PAY FREQUENCY - How a salary amount is quoted
// =============================================================================

type PayFrequency string

const (
	FreqHourly      PayFrequency = "hourly"
	FreqWeekly      PayFrequency = "weekly"
	FreqFortnightly PayFrequency = "fortnightly"
	FreqMonthly     PayFrequency = "monthly"
	FreqAnnually    PayFrequency = "annually"
)

func (f PayFrequency) Valid() bool {
	switch f {
	case FreqHourly, FreqWeekly, FreqFortnightly, FreqMonthly, FreqAnnually:
		return true
	}
	return false
}

// PeriodsPerYear returns the number of pay cycles a year holds for this
// frequency. Hourly profiles pay on a weekly cycle.
func (f PayFrequency) PeriodsPerYear() (int, error) {
	switch f {
	case FreqHourly, FreqWeekly:
		return 52, nil
	case FreqFortnightly:
		return 26, nil
	case FreqMonthly:
		return 12, nil
	case FreqAnnually:
		return 1, nil
	default:
		return 0, &RangeError{What: "pay frequency", Value: string(f)}
	}
}

// =============================================================================
// CLASSIFICATION - Minimum-wage classification
// =============================================================================

type Classification string

const (
	ClassAdult    Classification = "adult"
	ClassStarting Classification = "starting"
	ClassTraining Classification = "training"
)

func (c Classification) Valid() bool {
	switch c {
	case ClassAdult, ClassStarting, ClassTraining:
		return true
	}
	return false
}

// =============================================================================
// TAX CODE - Closed set of withholding codes
// =============================================================================

type TaxCode string

const (
	TaxCodeM  TaxCode = "M"  // Main income
	TaxCodeME TaxCode = "ME" // Main income, tax credit eligible
	TaxCodeS  TaxCode = "S"  // Secondary income
	TaxCodeSB TaxCode = "SB" // Secondary, lowest bracket
	TaxCodeSH TaxCode = "SH" // Secondary, higher bracket
	TaxCodeST TaxCode = "ST" // Secondary, top bracket
)

func (tc TaxCode) Valid() bool {
	switch tc {
	case TaxCodeM, TaxCodeME, TaxCodeS, TaxCodeSB, TaxCodeSH, TaxCodeST:
		return true
	}
	return false
}

// =============================================================================
// COMPENSATION PROFILE - One employee's pay configuration
// =============================================================================

// CompensationProfile is an immutable snapshot of an employee's pay
// configuration, owned by the HR data layer. The engine validates it
// before any calculation begins.
type CompensationProfile struct {
	EmployeeID       string
	Salary           Money // quoted per Frequency (hourly rate for FreqHourly)
	Frequency        PayFrequency
	TaxCode          TaxCode
	ContributionRate decimal.Decimal // requested retirement contribution rate
	StudentLoan      bool
	Classification   Classification
	HoursPerWeek     decimal.Decimal // contracted hours
}

// Validate checks the profile for structural problems. A bad field yields
// a ValidationError scoped to this employee; an unrecognized tax code is
// a RangeError since there is no defined default to fall back to.
func (p CompensationProfile) Validate() error {
	if p.EmployeeID == "" {
		return &ValidationError{Field: "employeeId", Reason: "missing employee id"}
	}
	if p.Salary.IsNegative() {
		return &ValidationError{EmployeeID: p.EmployeeID, Field: "salary", Reason: "salary cannot be negative"}
	}
	if !p.Frequency.Valid() {
		return &ValidationError{EmployeeID: p.EmployeeID, Field: "frequency", Reason: "unknown pay frequency: " + string(p.Frequency)}
	}
	if !p.Classification.Valid() {
		return &ValidationError{EmployeeID: p.EmployeeID, Field: "classification", Reason: "unknown classification: " + string(p.Classification)}
	}
	if !p.TaxCode.Valid() {
		return &RangeError{What: "tax code", Value: string(p.TaxCode)}
	}
	if p.ContributionRate.IsNegative() {
		return &ValidationError{EmployeeID: p.EmployeeID, Field: "contributionRate", Reason: "contribution rate cannot be negative"}
	}
	if p.HoursPerWeek.IsNegative() {
		return &ValidationError{EmployeeID: p.EmployeeID, Field: "hoursPerWeek", Reason: "contracted hours cannot be negative"}
	}
	return nil
}

// =============================================================================
// TIME ENTRY - Attendance record for one shift
// =============================================================================

type BreakType string

const (
	RestBreak BreakType = "rest_break"
	MealBreak BreakType = "meal_break"
)

type BreakRecord struct {
	Start time.Time
	End   time.Time
	Type  BreakType
}

func (b BreakRecord) Duration() time.Duration { return b.End.Sub(b.Start) }

// TimeEntry records one shift. ClockOut is nil while the shift is open;
// compliance checks treat an open shift as in progress rather than failing.
type TimeEntry struct {
	Date     Date
	ClockIn  time.Time
	ClockOut *time.Time
	Breaks   []BreakRecord
	WorkType string
}

// Worked returns the shift length, measured against now for open shifts.
func (e TimeEntry) Worked(now time.Time) time.Duration {
	end := now
	if e.ClockOut != nil {
		end = *e.ClockOut
	}
	if end.Before(e.ClockIn) {
		return 0
	}
	return end.Sub(e.ClockIn)
}

// BreaksOfType returns the recorded breaks of one type, in recorded order.
func (e TimeEntry) BreaksOfType(t BreakType) []BreakRecord {
	var out []BreakRecord
	for _, b := range e.Breaks {
		if b.Type == t {
			out = append(out, b)
		}
	}
	return out
}
