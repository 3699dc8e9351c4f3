/*
wage.go - Minimum-wage normalization and compliance

PURPOSE:
  Normalizes any pay quote to an hourly rate and checks it against the
  versioned minimum-wage table for the employee's classification.

VERSIONING:
  The applicable wage version for a check date is the one with the latest
  effective date at or before that date. If none exists the check fails
  with a LookupError - no wage rate is ever "before time zero", and
  defaulting one would be financially incorrect.

NORMALIZATION:
  hourly       -> amount
  weekly       -> amount / hoursPerWeek
  fortnightly  -> amount / (hoursPerWeek * 2)
  monthly      -> (amount * 12) / (hoursPerWeek * 52)
  annually     -> amount / (hoursPerWeek * 52)
  Zero contracted hours is guarded to a zero rate, not an error.
*/
package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WAGE TABLE - Effective-dated minimum rates per classification
// =============================================================================

type WageRates struct {
	Adult    Money
	Starting Money
	Training Money
}

// For returns the rate for a classification. The enum is closed; an
// unknown value is a RangeError rather than a silent fall-through.
func (w WageRates) For(c Classification) (Money, error) {
	switch c {
	case ClassAdult:
		return w.Adult, nil
	case ClassStarting:
		return w.Starting, nil
	case ClassTraining:
		return w.Training, nil
	default:
		return Money{}, &RangeError{What: "classification", Value: string(c)}
	}
}

type WageRateVersion struct {
	EffectiveFrom Date
	Rates         WageRates
}

// WageTable holds wage versions sorted by effective date.
type WageTable struct {
	versions []WageRateVersion
}

func NewWageTable(versions []WageRateVersion) WageTable {
	vs := make([]WageRateVersion, len(versions))
	copy(vs, versions)
	sort.Slice(vs, func(i, j int) bool {
		return vs[i].EffectiveFrom.Before(vs[j].EffectiveFrom)
	})
	return WageTable{versions: vs}
}

func (t WageTable) Versions() []WageRateVersion { return t.versions }

// VersionFor returns the version with the latest effective date <= d.
func (t WageTable) VersionFor(d Date) (WageRateVersion, error) {
	for i := len(t.versions) - 1; i >= 0; i-- {
		if t.versions[i].EffectiveFrom.BeforeOrEqual(d) {
			return t.versions[i], nil
		}
	}
	return WageRateVersion{}, &LookupError{What: "minimum wage rate", At: d}
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// NormalizeHourlyRate converts a pay quote to an hourly rate. Division by
// zero contracted hours is guarded to return zero.
func NormalizeHourlyRate(amount Money, freq PayFrequency, hoursPerWeek decimal.Decimal) Money {
	if freq == FreqHourly {
		return amount
	}
	if !hoursPerWeek.IsPositive() {
		return ZeroMoney()
	}
	fiftyTwo := decimal.NewFromInt(52)
	switch freq {
	case FreqWeekly:
		return amount.Div(hoursPerWeek)
	case FreqFortnightly:
		return amount.Div(hoursPerWeek.Mul(decimal.NewFromInt(2)))
	case FreqMonthly:
		return amount.Mul(decimal.NewFromInt(12)).Div(hoursPerWeek.Mul(fiftyTwo))
	case FreqAnnually:
		return amount.Div(hoursPerWeek.Mul(fiftyTwo))
	default:
		return ZeroMoney()
	}
}

// =============================================================================
// COMPLIANCE CHECK
// =============================================================================

type WageCheck struct {
	IsCompliant    bool
	HourlyRate     Money
	RequiredRate   Money
	Shortfall      Money // RequiredRate - HourlyRate when non-compliant
	Classification Classification
	EffectiveFrom  Date // which wage version applied
}

type MinimumWageValidator struct {
	Table WageTable
}

// Check compares an hourly rate against the minimum for a classification
// on the given date.
func (v MinimumWageValidator) Check(hourlyRate Money, c Classification, on Date) (WageCheck, error) {
	version, err := v.Table.VersionFor(on)
	if err != nil {
		return WageCheck{}, err
	}
	required, err := version.Rates.For(c)
	if err != nil {
		return WageCheck{}, err
	}

	check := WageCheck{
		HourlyRate:     hourlyRate,
		RequiredRate:   required,
		Shortfall:      ZeroMoney(),
		Classification: c,
		EffectiveFrom:  version.EffectiveFrom,
	}
	check.IsCompliant = hourlyRate.GreaterThanOrEqual(required)
	if !check.IsCompliant {
		check.Shortfall = required.Sub(hourlyRate)
	}
	return check, nil
}

// CheckProfile normalizes the profile's salary quote and runs Check.
func (v MinimumWageValidator) CheckProfile(p CompensationProfile, on Date) (WageCheck, error) {
	if err := p.Validate(); err != nil {
		return WageCheck{}, err
	}
	hourly := NormalizeHourlyRate(p.Salary, p.Frequency, p.HoursPerWeek)
	return v.Check(hourly, p.Classification, on)
}

// WageViolation pairs a non-compliant employee with its check result.
type WageViolation struct {
	EmployeeID string
	Check      WageCheck
}

// NonCompliant evaluates a batch of profiles and returns only the
// non-compliant subset. A profile that cannot be evaluated carries its
// error in place of a check result via the returned error slice position;
// sibling profiles are unaffected.
func (v MinimumWageValidator) NonCompliant(profiles []CompensationProfile, on Date) ([]WageViolation, []error) {
	var violations []WageViolation
	var errs []error
	for _, p := range profiles {
		check, err := v.CheckProfile(p, on)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !check.IsCompliant {
			violations = append(violations, WageViolation{EmployeeID: p.EmployeeID, Check: check})
		}
	}
	return violations, errs
}
