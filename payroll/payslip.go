package payroll

// =============================================================================
// PAYSLIP - The aggregator's output for one employee and pay period
// =============================================================================

// PayslipStatus tracks a payslip through its lifecycle. The engine only
// ever creates DRAFT payslips; the persistence layer owns transitions.
type PayslipStatus string

const (
	StatusDraft      PayslipStatus = "draft"
	StatusProcessing PayslipStatus = "processing"
	StatusCompleted  PayslipStatus = "completed"
	StatusPaid       PayslipStatus = "paid"
)

// CanTransitionTo reports whether the status move is legal:
// draft -> processing -> completed -> paid, strictly forward.
func (s PayslipStatus) CanTransitionTo(next PayslipStatus) bool {
	switch s {
	case StatusDraft:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted
	case StatusCompleted:
		return next == StatusPaid
	default:
		return false
	}
}

// Deduction line codes, in payslip order.
const (
	DeductionPAYE         = "paye"
	DeductionLevy         = "acc_levy"
	DeductionContribution = "kiwisaver"
	DeductionStudentLoan  = "student_loan"
)

type DeductionLine struct {
	Code        string
	Description string
	Amount      Money
}

// Payslip is created once per (employee, pay period) and is immutable
// once completed, except for status transitions performed by the
// persistence layer. IDs and timestamps are assigned externally.
type Payslip struct {
	EmployeeID  string
	PeriodStart Date
	PeriodEnd   Date
	Frequency   PayFrequency

	Gross   Money // gross pay for the period
	Taxable Money // basic + taxable allowances + overtime

	// Statutory deductions first (PAYE, levy, contribution, student
	// loan), then flat deductions, in a stable order.
	Deductions      []DeductionLine
	TotalDeductions Money

	// Employer-side contribution; informational, not deducted from pay.
	EmployerContribution Money

	// Annualized tax breakdown retained for auditability.
	TaxBreakdown []BracketTax

	// Net pay. Deliberately not floored at zero: a negative net is a
	// valid, reportable state.
	Net Money

	Status PayslipStatus
}
