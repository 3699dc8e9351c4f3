/*
tax.go - Progressive income-tax bracket engine

PURPOSE:
  Computes total tax, effective rate, and a per-bracket breakdown from an
  ordered bracket table. This is the central PAYE calculation.

KEY INVARIANTS:
  - Brackets are ordered, non-overlapping, and cover [0, infinity):
    bracket[i].Max + 1 == bracket[i+1].Min (inclusive integer boundaries)
  - Only the last bracket is open-ended (Max == nil)
  - The sum of per-bracket taxed amounts equals the income exactly once
    remaining income reaches zero (no gap, no double-count)
  - tax(a) <= tax(b) whenever a <= b

ALGORITHM:
  Walk brackets in ascending order. For each bracket, tax
  min(remaining, width) * rate, where width = Max - Min + 1.
  Decrement remaining; stop when it reaches zero or brackets run out.

ROUNDING:
  None. Per-period tax is annualTax / periodsPerYear, unrounded. Rounding
  happens only at display, which is outside this engine.

SEE ALSO:
  - rules.go: Tables are immutable and swapped whole, never edited
  - aggregate.go: Annualizes period income before calling this engine
*/
package payroll

import "github.com/shopspring/decimal"

// =============================================================================
// TAX TABLE - Ordered, contiguous brackets covering [0, infinity)
// =============================================================================

// TaxBracket taxes the income slice [Min, Max] at Rate. Boundaries are
// inclusive whole-dollar amounts; a nil Max means unbounded.
type TaxBracket struct {
	Min  Money
	Max  *Money
	Rate decimal.Decimal
}

// Width returns Max - Min + 1, the taxable span of a closed bracket.
func (b TaxBracket) Width() Money {
	if b.Max == nil {
		return Money{}
	}
	return b.Max.Sub(b.Min).Add(NewMoneyFromInt(1))
}

// TaxTable is a versioned, effective-dated bracket table.
type TaxTable struct {
	Version       string
	EffectiveFrom Date
	Brackets      []TaxBracket
}

// Validate enforces the table invariants: non-empty, starting at zero,
// contiguous, rates within [0, 1], and only the last bracket open-ended.
func (t TaxTable) Validate() error {
	if len(t.Brackets) == 0 {
		return &ValidationError{Field: "brackets", Reason: "tax table has no brackets"}
	}
	if !t.Brackets[0].Min.IsZero() {
		return &ValidationError{Field: "brackets", Reason: "first bracket must start at 0"}
	}
	one := decimal.NewFromInt(1)
	for i, b := range t.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return &RangeError{What: "tax rate", Value: b.Rate.String(), Min: "0", Max: "1"}
		}
		last := i == len(t.Brackets)-1
		if last {
			if b.Max != nil {
				return &ValidationError{Field: "brackets", Reason: "last bracket must be open-ended"}
			}
			continue
		}
		if b.Max == nil {
			return &ValidationError{Field: "brackets", Reason: "only the last bracket may be open-ended"}
		}
		if !b.Max.GreaterThan(b.Min) {
			return &ValidationError{Field: "brackets", Reason: "bracket max must exceed min"}
		}
		// Contiguity: next.Min == this.Max + 1
		if !t.Brackets[i+1].Min.Equal(b.Max.Add(NewMoneyFromInt(1))) {
			return &ValidationError{Field: "brackets", Reason: "brackets must be contiguous (max + 1 == next min)"}
		}
	}
	return nil
}

// =============================================================================
// TAX CALCULATION
// =============================================================================

// BracketTax is the slice of income taxed within one bracket.
type BracketTax struct {
	Bracket TaxBracket
	Taxed   Money // income attributed to this bracket
	Tax     Money
}

type TaxResult struct {
	Income        Money
	Total         Money
	EffectiveRate decimal.Decimal
	Breakdown     []BracketTax
}

// TaxBracketEngine computes progressive tax from a bracket table.
type TaxBracketEngine struct {
	Table TaxTable
}

// Calculate walks the brackets in ascending order over a non-negative
// annual taxable income. Negative income is guarded to a zero result.
func (e TaxBracketEngine) Calculate(income Money) TaxResult {
	result := TaxResult{Income: income, Total: ZeroMoney(), EffectiveRate: decimal.Zero}
	if !income.IsPositive() {
		return result
	}

	remaining := income
	for _, bracket := range e.Table.Brackets {
		taxed := remaining
		if bracket.Max != nil {
			taxed = remaining.Min(bracket.Width())
		}
		tax := taxed.Mul(bracket.Rate)
		result.Breakdown = append(result.Breakdown, BracketTax{Bracket: bracket, Taxed: taxed, Tax: tax})
		result.Total = result.Total.Add(tax)

		remaining = remaining.Sub(taxed)
		if !remaining.IsPositive() {
			break
		}
	}

	// income > 0 here, so the division is safe
	result.EffectiveRate = result.Total.Value.Div(income.Value)
	return result
}

// PerPeriod divides annual tax across the year's pay cycles. No rounding
// is applied; display-level rounding is the caller's concern.
func (e TaxBracketEngine) PerPeriod(annualTax Money, freq PayFrequency) (Money, error) {
	periods, err := freq.PeriodsPerYear()
	if err != nil {
		return Money{}, err
	}
	return annualTax.Div(decimal.NewFromInt(int64(periods))), nil
}
