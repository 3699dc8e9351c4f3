/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  engine's internal types from the external contract. Money crosses the
  wire as decimal strings so nothing is lost to binary floats.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation happens in the engine (ValidationError et al.);
  handlers only translate those errors to HTTP statuses.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rules.go: RulePackJSON is accepted verbatim for reloads
*/
package api

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ProfileDTO mirrors payroll.CompensationProfile on the wire.
type ProfileDTO struct {
	EmployeeID       string `json:"employee_id"`
	Salary           string `json:"salary"`
	Frequency        string `json:"frequency"`
	TaxCode          string `json:"tax_code"`
	ContributionRate string `json:"contribution_rate"`
	StudentLoan      bool   `json:"student_loan,omitempty"`
	Classification   string `json:"classification"`
	HoursPerWeek     string `json:"hours_per_week"`
}

type DeductionDTO struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
}

type GeneratePayslipRequest struct {
	Profile           ProfileDTO     `json:"profile"`
	PeriodStart       string         `json:"period_start"`
	PeriodEnd         string         `json:"period_end"`
	TaxableAllowances string         `json:"taxable_allowances,omitempty"`
	Overtime          string         `json:"overtime,omitempty"`
	FlatDeductions    []DeductionDTO `json:"flat_deductions,omitempty"`
}

type PayslipDTO struct {
	ID                   string         `json:"id,omitempty"`
	EmployeeID           string         `json:"employee_id"`
	PeriodStart          string         `json:"period_start"`
	PeriodEnd            string         `json:"period_end"`
	Frequency            string         `json:"frequency"`
	Gross                string         `json:"gross"`
	Taxable              string         `json:"taxable"`
	Deductions           []DeductionDTO `json:"deductions"`
	TotalDeductions      string         `json:"total_deductions"`
	EmployerContribution string         `json:"employer_contribution"`
	Net                  string         `json:"net"`
	Status               string         `json:"status"`
}

type BatchRequest struct {
	Payslips []GeneratePayslipRequest `json:"payslips"`
}

// BatchResultDTO carries one employee's outcome; exactly one of payslip
// and error is set (partial-failure isolation).
type BatchResultDTO struct {
	EmployeeID string      `json:"employee_id"`
	Payslip    *PayslipDTO `json:"payslip,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Tax

type TaxCalculationRequest struct {
	AnnualIncome string `json:"annual_income"`
	Frequency    string `json:"frequency,omitempty"`
}

type BracketTaxDTO struct {
	Min   string `json:"min"`
	Max   string `json:"max,omitempty"` // empty for the open-ended bracket
	Rate  string `json:"rate"`
	Taxed string `json:"taxed"`
	Tax   string `json:"tax"`
}

type TaxCalculationDTO struct {
	AnnualIncome  string          `json:"annual_income"`
	TotalTax      string          `json:"total_tax"`
	EffectiveRate string          `json:"effective_rate"`
	PerPeriod     string          `json:"per_period,omitempty"`
	Breakdown     []BracketTaxDTO `json:"breakdown"`
}

// Holidays

type HolidayDTO struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Observed string `json:"observed"`
	Region   string `json:"region,omitempty"`
}

type HolidayPayRequest struct {
	HourlyRate  string `json:"hourly_rate"`
	HoursWorked string `json:"hours_worked"`
	Date        string `json:"date"`
}

type HolidayPayDTO struct {
	Amount     string      `json:"amount"`
	Multiplier string      `json:"multiplier"`
	Holiday    *HolidayDTO `json:"holiday,omitempty"`
}

// Minimum wage

type WageCheckRequest struct {
	HourlyRate     string `json:"hourly_rate"`
	Classification string `json:"classification"`
	Date           string `json:"date"`
}

type WageCheckDTO struct {
	IsCompliant   bool   `json:"is_compliant"`
	HourlyRate    string `json:"hourly_rate"`
	RequiredRate  string `json:"required_rate"`
	Shortfall     string `json:"shortfall"`
	EffectiveFrom string `json:"effective_from"`
}

type WageAuditRequest struct {
	Profiles []ProfileDTO `json:"profiles"`
	Date     string       `json:"date"`
}

type WageViolationDTO struct {
	EmployeeID string       `json:"employee_id"`
	Check      WageCheckDTO `json:"check"`
}

type WageAuditDTO struct {
	NonCompliant []WageViolationDTO `json:"non_compliant"`
	Errors       []string           `json:"errors,omitempty"`
}

// Compliance

type BreakDTO struct {
	Start string `json:"start"` // RFC3339
	End   string `json:"end"`
	Type  string `json:"type"` // rest_break | meal_break
}

type TimeEntryDTO struct {
	Date     string     `json:"date"`
	ClockIn  string     `json:"clock_in"`            // RFC3339
	ClockOut string     `json:"clock_out,omitempty"` // empty = shift still open
	Breaks   []BreakDTO `json:"breaks,omitempty"`
	WorkType string     `json:"work_type,omitempty"`
}

type ComplianceRequest struct {
	Entries []TimeEntryDTO `json:"entries"`
	// Age is optional; when absent the adult rules apply. A present zero
	// is a real age and triggers the young-worker checks.
	Age *int `json:"age,omitempty"`
}

type MissedBreakDTO struct {
	Type       string `json:"type"`
	RequiredAt string `json:"required_at"`
}

type ComplianceDTO struct {
	IsCompliant  bool             `json:"is_compliant"`
	Issues       []string         `json:"issues"`
	MissedBreaks []MissedBreakDTO `json:"missed_breaks,omitempty"`
}

// Errors

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
