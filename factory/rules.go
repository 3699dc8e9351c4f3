/*
Package factory converts JSON rule packs into payroll.RuleSet values.

PURPOSE:
  Statutory tables change on review dates, not code releases. A rule pack
  is one JSON document carrying the full set - tax brackets, levy,
  contribution bounds, student-loan rule, wage versions, holidays, and
  hours rules. The factory parses and validates a pack so the provider
  can swap it in atomically; a pack that fails validation never becomes
  current.

JSON SCHEMA (abridged):
  {
    "version": "nz-2024-25",
    "tax": {"effective_from": "2024-04-01",
            "brackets": [{"min": 0, "max": 15600, "rate": 0.105}, ...]},
    "levy": {"rate": 0.016, "earnings_cap": 142283},
    "contribution": {"min_rate": 0.03, "max_rate": 0.10, "employer_rate": 0.03},
    "student_loan": {"rate": 0.12, "annual_threshold": 24128},
    "minimum_wage": [{"effective_from": "2024-04-01",
                      "adult": 23.15, "starting": 18.52, "training": 18.52}],
    "holidays": [{"date": "2024-12-25", "name": "Christmas Day",
                  "region": "", "mondayised": true}],
    "hours": {"rest_break_interval_hours": 4, ...},
    "alternative_day_expiry_months": 24
  }

SEE ALSO:
  - payroll/rules.go: RuleSet validation and the atomic provider
  - nz/rules.go: The shipped Go-defined rule set
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type RulePackJSON struct {
	Version                    string          `json:"version"`
	Tax                        TaxJSON         `json:"tax"`
	Levy                       LevyJSON        `json:"levy"`
	Contribution               ContributionJSON `json:"contribution"`
	StudentLoan                StudentLoanJSON `json:"student_loan"`
	MinimumWage                []WageVersionJSON `json:"minimum_wage"`
	Holidays                   []HolidayJSON   `json:"holidays"`
	Hours                      HoursJSON       `json:"hours"`
	AlternativeDayExpiryMonths int             `json:"alternative_day_expiry_months"`
}

type TaxJSON struct {
	EffectiveFrom string        `json:"effective_from"`
	Brackets      []BracketJSON `json:"brackets"`
}

type BracketJSON struct {
	Min  float64  `json:"min"`
	Max  *float64 `json:"max,omitempty"` // nil = open-ended top bracket
	Rate float64  `json:"rate"`
}

type LevyJSON struct {
	Rate        float64 `json:"rate"`
	EarningsCap float64 `json:"earnings_cap"`
}

type ContributionJSON struct {
	MinRate      float64 `json:"min_rate"`
	MaxRate      float64 `json:"max_rate"`
	EmployerRate float64 `json:"employer_rate"`
}

type StudentLoanJSON struct {
	Rate            float64 `json:"rate"`
	AnnualThreshold float64 `json:"annual_threshold"`
}

type WageVersionJSON struct {
	EffectiveFrom string  `json:"effective_from"`
	Adult         float64 `json:"adult"`
	Starting      float64 `json:"starting"`
	Training      float64 `json:"training"`
}

type HolidayJSON struct {
	Date       string `json:"date"`
	Name       string `json:"name"`
	Region     string `json:"region,omitempty"`
	Mondayised bool   `json:"mondayised,omitempty"`
}

type HoursJSON struct {
	RestBreakIntervalHours  float64  `json:"rest_break_interval_hours"`
	RestBreakGraceHours     float64  `json:"rest_break_grace_hours"`
	MealBreakThresholdHours float64  `json:"meal_break_threshold_hours"`
	MealBreakMinimumMinutes float64  `json:"meal_break_minimum_minutes"`
	WeeklyMaxHours          float64  `json:"weekly_max_hours"`
	YoungWeeklyMaxHours     float64  `json:"young_weekly_max_hours"`
	MinShiftRestHours       float64  `json:"min_shift_rest_hours"`
	YoungMinShiftRestHours  float64  `json:"young_min_shift_rest_hours"`
	ProtectedAge            int      `json:"protected_age"`
	YoungDailyMaxHours      float64  `json:"young_daily_max_hours"`
	ProhibitedWorkTypes     []string `json:"prohibited_work_types,omitempty"`
}

// =============================================================================
// RULE FACTORY
// =============================================================================

// RuleFactory converts JSON rule packs to validated RuleSets.
type RuleFactory struct{}

func NewRuleFactory() *RuleFactory {
	return &RuleFactory{}
}

// ParseRules parses and validates a JSON rule pack.
func (f *RuleFactory) ParseRules(data []byte) (*payroll.RuleSet, error) {
	var pack RulePackJSON
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse rule pack: %w", err)
	}
	return f.FromJSON(pack)
}

// FromJSON converts RulePackJSON to a validated RuleSet.
func (f *RuleFactory) FromJSON(pack RulePackJSON) (*payroll.RuleSet, error) {
	taxFrom, err := parseDate(pack.Tax.EffectiveFrom, "tax.effective_from")
	if err != nil {
		return nil, err
	}

	table := payroll.TaxTable{
		Version:       pack.Version,
		EffectiveFrom: taxFrom,
	}
	for _, bj := range pack.Tax.Brackets {
		bracket := payroll.TaxBracket{
			Min:  payroll.NewMoney(bj.Min),
			Rate: decimal.NewFromFloat(bj.Rate),
		}
		if bj.Max != nil {
			max := payroll.NewMoney(*bj.Max)
			bracket.Max = &max
		}
		table.Brackets = append(table.Brackets, bracket)
	}

	var wageVersions []payroll.WageRateVersion
	for _, wj := range pack.MinimumWage {
		from, err := parseDate(wj.EffectiveFrom, "minimum_wage.effective_from")
		if err != nil {
			return nil, err
		}
		wageVersions = append(wageVersions, payroll.WageRateVersion{
			EffectiveFrom: from,
			Rates: payroll.WageRates{
				Adult:    payroll.NewMoney(wj.Adult),
				Starting: payroll.NewMoney(wj.Starting),
				Training: payroll.NewMoney(wj.Training),
			},
		})
	}

	var holidays []payroll.PublicHoliday
	var mondayised []string
	for _, hj := range pack.Holidays {
		date, err := parseDate(hj.Date, "holidays.date")
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, payroll.PublicHoliday{Name: hj.Name, Date: date, Region: hj.Region})
		if hj.Mondayised {
			mondayised = append(mondayised, hj.Name)
		}
	}

	rules := &payroll.RuleSet{
		Version: pack.Version,
		Tax:     table,
		Levy: payroll.LevyCalculator{
			Rate:        decimal.NewFromFloat(pack.Levy.Rate),
			EarningsCap: payroll.NewMoney(pack.Levy.EarningsCap),
		},
		Contribution: payroll.ContributionCalculator{
			MinRate:      decimal.NewFromFloat(pack.Contribution.MinRate),
			MaxRate:      decimal.NewFromFloat(pack.Contribution.MaxRate),
			EmployerRate: decimal.NewFromFloat(pack.Contribution.EmployerRate),
		},
		StudentLoan: payroll.StudentLoanRule{
			Rate:            decimal.NewFromFloat(pack.StudentLoan.Rate),
			AnnualThreshold: payroll.NewMoney(pack.StudentLoan.AnnualThreshold),
		},
		MinimumWage:                payroll.NewWageTable(wageVersions),
		Holidays:                   payroll.NewHolidayCalendar(holidays, mondayised),
		Hours:                      parseHours(pack.Hours),
		AlternativeDayExpiryMonths: pack.AlternativeDayExpiryMonths,
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("rule pack %q rejected: %w", pack.Version, err)
	}
	return rules, nil
}

func parseHours(hj HoursJSON) payroll.HoursRules {
	return payroll.HoursRules{
		RestBreakInterval:   hours(hj.RestBreakIntervalHours),
		RestBreakGrace:      hours(hj.RestBreakGraceHours),
		MealBreakThreshold:  hours(hj.MealBreakThresholdHours),
		MealBreakMinimum:    time.Duration(hj.MealBreakMinimumMinutes * float64(time.Minute)),
		WeeklyMax:           hours(hj.WeeklyMaxHours),
		YoungWeeklyMax:      hours(hj.YoungWeeklyMaxHours),
		MinShiftRest:        hours(hj.MinShiftRestHours),
		YoungMinShiftRest:   hours(hj.YoungMinShiftRestHours),
		ProtectedAge:        hj.ProtectedAge,
		YoungDailyMax:       hours(hj.YoungDailyMaxHours),
		ProhibitedWorkTypes: hj.ProhibitedWorkTypes,
	}
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func parseDate(s, field string) (payroll.Date, error) {
	d, err := payroll.ParseDate(s)
	if err != nil {
		return payroll.Date{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", field, s)
	}
	return d, nil
}
