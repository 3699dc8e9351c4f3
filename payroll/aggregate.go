/*
aggregate.go - Payroll aggregation into payslips

PURPOSE:
  Orchestrates the calculators over one employee's pay period:
  taxable = basic + taxable allowances + overtime, annualized through the
  bracket engine, levy on the capped base, bounded retirement
  contribution, optional student-loan deduction, flat deductions, and a
  net that may legitimately go negative.

BATCH SEMANTICS:
  Employees are independent - the batch fans out on a bounded worker
  group. A ValidationError for one employee lands in that employee's
  result slot and never aborts siblings. Cancelling the context discards
  not-yet-started work; nothing commits external state. Identical inputs
  always produce identical payslips.

SEE ALSO:
  - rules.go: The rule provider and injected data providers
  - payslip.go: Output shape and status lifecycle
*/
package payroll

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// INPUT
// =============================================================================

// PeriodInput is everything needed to produce one payslip.
type PeriodInput struct {
	Profile     CompensationProfile
	PeriodStart Date
	PeriodEnd   Date

	TaxableAllowances Money
	Overtime          Money
	FlatDeductions    []DeductionLine
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// PayrollAggregator turns period inputs into payslips. Rules come from
// the injected provider; data for provider-driven runs comes from the
// injected profile and time-entry providers.
type PayrollAggregator struct {
	Rules    *RuleProvider
	Profiles ProfileProvider
	Times    TimeEntryProvider

	// Workers bounds batch parallelism; <= 0 means a default of 8.
	Workers int
}

func NewAggregator(rules *RuleProvider) *PayrollAggregator {
	return &PayrollAggregator{Rules: rules}
}

// Generate produces a DRAFT payslip for one employee and period.
// A malformed profile fails before any calculation begins.
func (a *PayrollAggregator) Generate(input PeriodInput) (*Payslip, error) {
	profile := input.Profile
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	rules := a.Rules.Current()
	periods, err := profile.Frequency.PeriodsPerYear()
	if err != nil {
		return nil, err
	}
	periodCount := decimal.NewFromInt(int64(periods))

	// Basic pay for one period. Hourly profiles pay contracted hours on
	// a weekly cycle; every other frequency quotes the period directly.
	basic := profile.Salary
	if profile.Frequency == FreqHourly {
		basic = profile.Salary.Mul(profile.HoursPerWeek)
	}

	taxable := basic.Add(input.TaxableAllowances).Add(input.Overtime)
	annualTaxable := taxable.Mul(periodCount)

	// PAYE on the annualized income, divided back across the cycles.
	taxResult := rules.TaxEngine().Calculate(annualTaxable)
	paye := taxResult.Total.Div(periodCount)

	// Levy is capped on the annual base, then pro-rated the same way.
	levy := rules.Levy.Calculate(annualTaxable).Div(periodCount)

	contribution := rules.Contribution.Calculate(taxable, profile.ContributionRate)

	deductions := []DeductionLine{
		{Code: DeductionPAYE, Description: "PAYE income tax", Amount: paye},
		{Code: DeductionLevy, Description: "ACC earner levy", Amount: levy},
		{Code: DeductionContribution, Description: "KiwiSaver employee contribution", Amount: contribution.Employee},
	}

	if profile.StudentLoan {
		periodThreshold := rules.StudentLoan.AnnualThreshold.Div(periodCount)
		over := taxable.Sub(periodThreshold)
		if over.IsPositive() {
			deductions = append(deductions, DeductionLine{
				Code:        DeductionStudentLoan,
				Description: "Student loan repayment",
				Amount:      over.Mul(rules.StudentLoan.Rate),
			})
		}
	}

	deductions = append(deductions, input.FlatDeductions...)

	total := ZeroMoney()
	for _, d := range deductions {
		total = total.Add(d.Amount)
	}

	return &Payslip{
		EmployeeID:           profile.EmployeeID,
		PeriodStart:          input.PeriodStart,
		PeriodEnd:            input.PeriodEnd,
		Frequency:            profile.Frequency,
		Gross:                taxable,
		Taxable:              taxable,
		Deductions:           deductions,
		TotalDeductions:      total,
		EmployerContribution: contribution.Employer,
		TaxBreakdown:         taxResult.Breakdown,
		Net:                  taxable.Sub(total), // may be negative
		Status:               StatusDraft,
	}, nil
}

// GenerateForEmployee builds the period input from the injected
// providers: the profile, plus an overtime line carrying the 0.5 uplift
// for hours worked on observed public holidays during the period.
func (a *PayrollAggregator) GenerateForEmployee(ctx context.Context, employeeID string, start, end Date) (*Payslip, error) {
	profile, err := a.Profiles.Profile(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	entries, err := a.Times.Entries(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}

	rules := a.Rules.Current()
	hourly := NormalizeHourlyRate(profile.Salary, profile.Frequency, profile.HoursPerWeek)
	uplift := ZeroMoney()
	half := decimal.RequireFromString("0.5")
	for _, entry := range entries {
		if entry.ClockOut == nil {
			continue
		}
		if _, onHoliday := rules.Holidays.IsObservedHoliday(entry.Date); !onHoliday {
			continue
		}
		hours := decimal.NewFromFloat(entry.Worked(*entry.ClockOut).Hours())
		// Base hours are already in salary; the holiday rate adds half.
		uplift = uplift.Add(hourly.Mul(hours).Mul(half))
	}

	return a.Generate(PeriodInput{
		Profile:     profile,
		PeriodStart: start,
		PeriodEnd:   end,
		Overtime:    uplift,
	})
}

// =============================================================================
// BATCH
// =============================================================================

// BatchResult is one employee's slot in a batch run. Exactly one of
// Payslip and Err is set.
type BatchResult struct {
	EmployeeID string
	Payslip    *Payslip
	Err        error
}

// GenerateBatch computes payslips for independent employees in parallel.
// One employee's failure never aborts the rest; a cancelled context
// marks unstarted slots with the context error.
func (a *PayrollAggregator) GenerateBatch(ctx context.Context, inputs []PeriodInput) []BatchResult {
	results := make([]BatchResult, len(inputs))

	workers := a.Workers
	if workers <= 0 {
		workers = 8
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, input := range inputs {
		i, input := i, input
		results[i].EmployeeID = input.Profile.EmployeeID
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			payslip, err := a.Generate(input)
			results[i].Payslip, results[i].Err = payslip, err
			return nil // per-employee errors stay in the slot
		})
	}
	_ = g.Wait()
	return results
}
