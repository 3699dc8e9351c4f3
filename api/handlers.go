/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the calculation engine over REST. Handlers parse the request,
  delegate to the pure engine, persist payslips through the store, and
  serialize the result. No calculation logic lives here.

ENDPOINTS:
  Payslips:
    POST   /api/payslips              Generate one payslip (persisted)
    POST   /api/payslips/batch        Generate a batch (partial-failure safe)
    GET    /api/payslips/{id}         Load a stored payslip
    PUT    /api/payslips/{id}/status  Lifecycle transition
    GET    /api/employees/{id}/payslips

  Calculators:
    POST   /api/tax/calculate         Progressive tax with breakdown
    GET    /api/holidays              Observed holidays in [from, to]
    POST   /api/holidays/pay          Value hours worked on a date
    POST   /api/minimum-wage/check    Single rate check
    POST   /api/minimum-wage/audit    Batch audit (non-compliant subset)
    POST   /api/compliance/breaks     Per-shift break check
    POST   /api/compliance/hours      Weekly/rest-period/young-worker check

  Admin:
    POST   /api/admin/rules           Validate + atomically reload a rule pack

ERROR HANDLING:
  Engine errors map onto HTTP statuses: ValidationError/RangeError -> 400,
  LookupError -> 404, everything else -> 500.

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	Rules   *payroll.RuleProvider
	Store   *sqlite.Store
	Factory *factory.RuleFactory
	Log     *zap.Logger

	aggregator *payroll.PayrollAggregator
}

// NewHandler creates a handler. Store may be nil for a calculation-only
// deployment.
func NewHandler(rules *payroll.RuleProvider, store *sqlite.Store, log *zap.Logger) *Handler {
	return &Handler{
		Rules:      rules,
		Store:      store,
		Factory:    factory.NewRuleFactory(),
		Log:        log,
		aggregator: payroll.NewAggregator(rules),
	}
}

// =============================================================================
// PAYSLIP HANDLERS
// =============================================================================

// GeneratePayslip computes and persists one payslip.
func (h *Handler) GeneratePayslip(w http.ResponseWriter, r *http.Request) {
	var req GeneratePayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	input, err := toPeriodInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payslip request", err)
		return
	}

	payslip, err := h.aggregator.Generate(input)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	dto := toPayslipDTO(payslip)
	if h.Store != nil {
		id, err := h.Store.SavePayslip(r.Context(), payslip)
		if err != nil {
			h.Log.Error("failed to save payslip", zap.Error(err), zap.String("employee", payslip.EmployeeID))
			writeError(w, http.StatusInternalServerError, "Failed to save payslip", err)
			return
		}
		dto.ID = id
	}

	writeJSON(w, http.StatusCreated, dto)
}

// GenerateBatch computes payslips for independent employees. One bad
// profile never aborts the rest.
func (h *Handler) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	inputs := make([]payroll.PeriodInput, 0, len(req.Payslips))
	for _, pr := range req.Payslips {
		input, err := toPeriodInput(pr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid payslip request", err)
			return
		}
		inputs = append(inputs, input)
	}

	results := h.aggregator.GenerateBatch(r.Context(), inputs)

	out := make([]BatchResultDTO, 0, len(results))
	for _, res := range results {
		dto := BatchResultDTO{EmployeeID: res.EmployeeID}
		if res.Err != nil {
			dto.Error = res.Err.Error()
		} else {
			p := toPayslipDTO(res.Payslip)
			dto.Payslip = &p
		}
		out = append(out, dto)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetPayslip loads one stored payslip.
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	payslip, err := h.Store.GetPayslip(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Payslip not found", err)
		return
	}
	dto := toPayslipDTO(payslip)
	dto.ID = id
	writeJSON(w, http.StatusOK, dto)
}

// ListPayslips returns an employee's stored payslips.
func (h *Handler) ListPayslips(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	payslips, err := h.Store.ListPayslips(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payslips", err)
		return
	}
	out := make([]PayslipDTO, 0, len(payslips))
	for _, p := range payslips {
		out = append(out, toPayslipDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdatePayslipStatus performs a lifecycle transition.
func (h *Handler) UpdatePayslipStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Store.UpdateStatus(r.Context(), id, payroll.PayslipStatus(req.Status)); err != nil {
		writeError(w, http.StatusConflict, "Status transition rejected", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// CalculateTax runs the bracket engine on an annual income.
func (h *Handler) CalculateTax(w http.ResponseWriter, r *http.Request) {
	var req TaxCalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	income, err := parseMoney(req.AnnualIncome)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid annual_income", err)
		return
	}

	engine := h.Rules.Current().TaxEngine()
	result := engine.Calculate(income)

	dto := TaxCalculationDTO{
		AnnualIncome:  result.Income.String(),
		TotalTax:      result.Total.String(),
		EffectiveRate: result.EffectiveRate.String(),
	}
	for _, bt := range result.Breakdown {
		row := BracketTaxDTO{
			Min:   bt.Bracket.Min.String(),
			Rate:  bt.Bracket.Rate.String(),
			Taxed: bt.Taxed.String(),
			Tax:   bt.Tax.String(),
		}
		if bt.Bracket.Max != nil {
			row.Max = bt.Bracket.Max.String()
		}
		dto.Breakdown = append(dto.Breakdown, row)
	}

	if req.Frequency != "" {
		perPeriod, err := engine.PerPeriod(result.Total, payroll.PayFrequency(req.Frequency))
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		dto.PerPeriod = perPeriod.String()
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListHolidays returns observed holidays intersecting [from, to].
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	from, err := payroll.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := payroll.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}

	observed := h.Rules.Current().Holidays.HolidaysInRange(from, to)
	out := make([]HolidayDTO, 0, len(observed))
	for _, oh := range observed {
		out = append(out, HolidayDTO{
			Name:     oh.Name,
			Date:     oh.Date.String(),
			Observed: oh.Observed.String(),
			Region:   oh.Region,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HolidayPay values hours worked on a date.
func (h *Handler) HolidayPay(w http.ResponseWriter, r *http.Request) {
	var req HolidayPayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rate, err := parseMoney(req.HourlyRate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hourly_rate", err)
		return
	}
	hours, err := decimal.NewFromString(req.HoursWorked)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hours_worked", err)
		return
	}
	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	result := h.Rules.Current().HolidayResolver().PayForShift(rate, hours, date)
	dto := HolidayPayDTO{Amount: result.Amount.String(), Multiplier: result.Multiplier.String()}
	if result.Holiday != nil {
		dto.Holiday = &HolidayDTO{
			Name:     result.Holiday.Name,
			Date:     result.Holiday.Date.String(),
			Observed: result.Holiday.Observed.String(),
			Region:   result.Holiday.Region,
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// CheckMinimumWage checks one hourly rate.
func (h *Handler) CheckMinimumWage(w http.ResponseWriter, r *http.Request) {
	var req WageCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rate, err := parseMoney(req.HourlyRate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hourly_rate", err)
		return
	}
	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	check, err := h.Rules.Current().WageValidator().Check(rate, payroll.Classification(req.Classification), date)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWageCheckDTO(check))
}

// AuditMinimumWage returns the non-compliant subset of a batch.
func (h *Handler) AuditMinimumWage(w http.ResponseWriter, r *http.Request) {
	var req WageAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	profiles := make([]payroll.CompensationProfile, 0, len(req.Profiles))
	for _, pd := range req.Profiles {
		profile, err := toProfile(pd)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid profile", err)
			return
		}
		profiles = append(profiles, profile)
	}

	violations, errs := h.Rules.Current().WageValidator().NonCompliant(profiles, date)
	dto := WageAuditDTO{NonCompliant: make([]WageViolationDTO, 0, len(violations))}
	for _, v := range violations {
		dto.NonCompliant = append(dto.NonCompliant, WageViolationDTO{
			EmployeeID: v.EmployeeID,
			Check:      toWageCheckDTO(v.Check),
		})
	}
	for _, e := range errs {
		dto.Errors = append(dto.Errors, e.Error())
	}
	writeJSON(w, http.StatusOK, dto)
}

// CheckBreaks evaluates per-shift break compliance.
func (h *Handler) CheckBreaks(w http.ResponseWriter, r *http.Request) {
	entries, _, ok := h.decodeCompliance(w, r)
	if !ok {
		return
	}
	evaluator := payroll.WorkHoursEvaluator{Rules: h.Rules.Current().Hours}
	result := payroll.ComplianceResult{IsCompliant: true}
	for _, entry := range entries {
		result.Merge(evaluator.CheckBreaks(entry))
	}
	writeJSON(w, http.StatusOK, toComplianceDTO(result))
}

// CheckHours evaluates weekly totals, rest periods, and young-worker rules.
func (h *Handler) CheckHours(w http.ResponseWriter, r *http.Request) {
	entries, age, ok := h.decodeCompliance(w, r)
	if !ok {
		return
	}
	evaluator := payroll.WorkHoursEvaluator{Rules: h.Rules.Current().Hours}
	result := evaluator.CheckHourLimits(entries, age)
	result.Merge(evaluator.CheckYoungWorker(entries, age))
	writeJSON(w, http.StatusOK, toComplianceDTO(result))
}

func (h *Handler) decodeCompliance(w http.ResponseWriter, r *http.Request) ([]payroll.TimeEntry, int, bool) {
	var req ComplianceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, 0, false
	}
	entries := make([]payroll.TimeEntry, 0, len(req.Entries))
	for _, ed := range req.Entries {
		entry, err := toTimeEntry(ed)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid time entry", err)
			return nil, 0, false
		}
		entries = append(entries, entry)
	}
	age := h.Rules.Current().Hours.ProtectedAge // absent age gets adult rules
	if req.Age != nil {
		age = *req.Age
	}
	return entries, age, true
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ReloadRules validates a JSON rule pack and swaps it in atomically.
// A pack that fails validation leaves the current set untouched.
func (h *Handler) ReloadRules(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read rule pack", err)
		return
	}

	rules, err := h.Factory.ParseRules(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Rule pack rejected", err)
		return
	}
	if err := h.Rules.Reload(rules); err != nil {
		writeError(w, http.StatusBadRequest, "Rule pack rejected", err)
		return
	}

	if h.Store != nil {
		if err := h.Store.SaveRulePack(r.Context(), rules.Version, body); err != nil {
			h.Log.Error("failed to persist rule pack", zap.Error(err), zap.String("version", rules.Version))
		}
	}

	h.Log.Info("rule pack reloaded", zap.String("version", rules.Version))
	writeJSON(w, http.StatusOK, map[string]string{"version": rules.Version})
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func parseMoney(s string) (payroll.Money, error) {
	if s == "" {
		return payroll.ZeroMoney(), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return payroll.Money{}, err
	}
	return payroll.Money{Value: d}, nil
}

func toProfile(pd ProfileDTO) (payroll.CompensationProfile, error) {
	salary, err := parseMoney(pd.Salary)
	if err != nil {
		return payroll.CompensationProfile{}, err
	}
	rate := decimal.Zero
	if pd.ContributionRate != "" {
		if rate, err = decimal.NewFromString(pd.ContributionRate); err != nil {
			return payroll.CompensationProfile{}, err
		}
	}
	hours := decimal.Zero
	if pd.HoursPerWeek != "" {
		if hours, err = decimal.NewFromString(pd.HoursPerWeek); err != nil {
			return payroll.CompensationProfile{}, err
		}
	}
	return payroll.CompensationProfile{
		EmployeeID:       pd.EmployeeID,
		Salary:           salary,
		Frequency:        payroll.PayFrequency(pd.Frequency),
		TaxCode:          payroll.TaxCode(pd.TaxCode),
		ContributionRate: rate,
		StudentLoan:      pd.StudentLoan,
		Classification:   payroll.Classification(pd.Classification),
		HoursPerWeek:     hours,
	}, nil
}

func toPeriodInput(req GeneratePayslipRequest) (payroll.PeriodInput, error) {
	profile, err := toProfile(req.Profile)
	if err != nil {
		return payroll.PeriodInput{}, err
	}
	start, err := payroll.ParseDate(req.PeriodStart)
	if err != nil {
		return payroll.PeriodInput{}, err
	}
	end, err := payroll.ParseDate(req.PeriodEnd)
	if err != nil {
		return payroll.PeriodInput{}, err
	}
	allowances, err := parseMoney(req.TaxableAllowances)
	if err != nil {
		return payroll.PeriodInput{}, err
	}
	overtime, err := parseMoney(req.Overtime)
	if err != nil {
		return payroll.PeriodInput{}, err
	}

	input := payroll.PeriodInput{
		Profile:           profile,
		PeriodStart:       start,
		PeriodEnd:         end,
		TaxableAllowances: allowances,
		Overtime:          overtime,
	}
	for _, dd := range req.FlatDeductions {
		amount, err := parseMoney(dd.Amount)
		if err != nil {
			return payroll.PeriodInput{}, err
		}
		input.FlatDeductions = append(input.FlatDeductions, payroll.DeductionLine{
			Code: dd.Code, Description: dd.Description, Amount: amount,
		})
	}
	return input, nil
}

func toTimeEntry(ed TimeEntryDTO) (payroll.TimeEntry, error) {
	date, err := payroll.ParseDate(ed.Date)
	if err != nil {
		return payroll.TimeEntry{}, err
	}
	clockIn, err := time.Parse(time.RFC3339, ed.ClockIn)
	if err != nil {
		return payroll.TimeEntry{}, err
	}
	entry := payroll.TimeEntry{Date: date, ClockIn: clockIn, WorkType: ed.WorkType}
	if ed.ClockOut != "" {
		clockOut, err := time.Parse(time.RFC3339, ed.ClockOut)
		if err != nil {
			return payroll.TimeEntry{}, err
		}
		entry.ClockOut = &clockOut
	}
	for _, bd := range ed.Breaks {
		start, err := time.Parse(time.RFC3339, bd.Start)
		if err != nil {
			return payroll.TimeEntry{}, err
		}
		end, err := time.Parse(time.RFC3339, bd.End)
		if err != nil {
			return payroll.TimeEntry{}, err
		}
		entry.Breaks = append(entry.Breaks, payroll.BreakRecord{
			Start: start, End: end, Type: payroll.BreakType(bd.Type),
		})
	}
	return entry, nil
}

func toPayslipDTO(p *payroll.Payslip) PayslipDTO {
	dto := PayslipDTO{
		EmployeeID:           p.EmployeeID,
		PeriodStart:          p.PeriodStart.String(),
		PeriodEnd:            p.PeriodEnd.String(),
		Frequency:            string(p.Frequency),
		Gross:                p.Gross.Rounded().String(),
		Taxable:              p.Taxable.Rounded().String(),
		TotalDeductions:      p.TotalDeductions.Rounded().String(),
		EmployerContribution: p.EmployerContribution.Rounded().String(),
		Net:                  p.Net.Rounded().String(),
		Status:               string(p.Status),
	}
	for _, d := range p.Deductions {
		dto.Deductions = append(dto.Deductions, DeductionDTO{
			Code: d.Code, Description: d.Description, Amount: d.Amount.Rounded().String(),
		})
	}
	return dto
}

func toWageCheckDTO(check payroll.WageCheck) WageCheckDTO {
	return WageCheckDTO{
		IsCompliant:   check.IsCompliant,
		HourlyRate:    check.HourlyRate.String(),
		RequiredRate:  check.RequiredRate.String(),
		Shortfall:     check.Shortfall.String(),
		EffectiveFrom: check.EffectiveFrom.String(),
	}
}

func toComplianceDTO(result payroll.ComplianceResult) ComplianceDTO {
	dto := ComplianceDTO{IsCompliant: result.IsCompliant, Issues: result.Issues}
	if dto.Issues == nil {
		dto.Issues = []string{}
	}
	for _, mb := range result.MissedBreaks {
		dto.MissedBreaks = append(dto.MissedBreaks, MissedBreakDTO{
			Type:       string(mb.Type),
			RequiredAt: mb.RequiredAt.Format(time.RFC3339),
		})
	}
	return dto
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case payroll.IsValidation(err), payroll.IsRange(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case payroll.IsLookup(err):
		writeError(w, http.StatusNotFound, "No applicable rule", err)
	default:
		h.Log.Error("engine error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Calculation failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
