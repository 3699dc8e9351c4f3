package payroll

import "github.com/shopspring/decimal"

// =============================================================================
// LEVY - Capped-base proportional levy (accident-compensation style)
// =============================================================================

// LevyCalculator applies a flat rate to earnings up to a capped base.
type LevyCalculator struct {
	Rate        decimal.Decimal
	EarningsCap Money
}

// Calculate returns min(income, cap) * rate. This is a total function:
// non-positive income yields a zero levy, never an error.
func (lc LevyCalculator) Calculate(income Money) Money {
	if !income.IsPositive() {
		return ZeroMoney()
	}
	return income.Min(lc.EarningsCap).Mul(lc.Rate)
}
