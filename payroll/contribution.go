/*
contribution.go - Bounded-rate retirement contributions

PURPOSE:
  Computes the employee and employer retirement contributions for one pay
  period, plus an advisory long-term balance projection.

CLAMPING:
  The requested employee rate is clamped silently into [MinRate, MaxRate].
  No error is raised for an out-of-range request - the engine is
  permissive and self-correcting here. The employer rate is fixed and is
  never clamped against the employee's choice.

PROJECTION:
  Project() compounds (balance + yearlyContribution) * (1 + annualReturn)
  once per simulated year. It is advisory only and never affects any
  payslip value.
*/
package payroll

import "github.com/shopspring/decimal"

// =============================================================================
// CONTRIBUTION CALCULATOR
// =============================================================================

type ContributionCalculator struct {
	MinRate      decimal.Decimal
	MaxRate      decimal.Decimal
	EmployerRate decimal.Decimal // compulsory employer minimum
}

type Contribution struct {
	Employee    Money
	Employer    Money
	AppliedRate decimal.Decimal // employee rate after clamping
}

// Calculate computes both contributions on the period's gross pay.
func (cc ContributionCalculator) Calculate(grossPay Money, requestedRate decimal.Decimal) Contribution {
	rate := cc.clamp(requestedRate)
	return Contribution{
		Employee:    grossPay.Mul(rate),
		Employer:    grossPay.Mul(cc.EmployerRate),
		AppliedRate: rate,
	}
}

func (cc ContributionCalculator) clamp(rate decimal.Decimal) decimal.Decimal {
	if rate.LessThan(cc.MinRate) {
		return cc.MinRate
	}
	if rate.GreaterThan(cc.MaxRate) {
		return cc.MaxRate
	}
	return rate
}

// =============================================================================
// LONG-TERM PROJECTION (advisory)
// =============================================================================

type ProjectionYear struct {
	Year    int // 1-based simulated year
	Balance Money
}

// Project simulates years of yearly contributions compounding at a fixed
// annual return. Year N's balance is (previous + contribution) * (1 + r).
func (cc ContributionCalculator) Project(opening Money, yearlyContribution Money, annualReturn decimal.Decimal, years int) []ProjectionYear {
	growth := decimal.NewFromInt(1).Add(annualReturn)
	balance := opening
	out := make([]ProjectionYear, 0, years)
	for y := 1; y <= years; y++ {
		balance = balance.Add(yearlyContribution).Mul(growth)
		out = append(out, ProjectionYear{Year: y, Balance: balance})
	}
	return out
}
