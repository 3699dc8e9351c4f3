/*
Package nz ships the New Zealand statutory rule set: the 2023/24 PAYE
brackets, ACC earner levy, KiwiSaver bounds, student-loan repayment rule,
minimum-wage versions, public-holiday calendar, and the working-hours and
break requirements. The values live here as one immutable RuleSet;
updated rule packs are loaded through the factory and swapped atomically,
never edited in place.
*/
package nz

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

func money(s string) payroll.Money           { return payroll.MustParseMoney(s) }
func rate(s string) decimal.Decimal          { return decimal.RequireFromString(s) }
func moneyPtr(s string) *payroll.Money       { m := payroll.MustParseMoney(s); return &m }

// TaxTable is the 2023/24 progressive PAYE bracket table.
func TaxTable() payroll.TaxTable {
	return payroll.TaxTable{
		Version:       "nz-2023-24",
		EffectiveFrom: payroll.NewDate(2023, time.April, 1),
		Brackets: []payroll.TaxBracket{
			{Min: money("0"), Max: moneyPtr("14000"), Rate: rate("0.105")},
			{Min: money("14001"), Max: moneyPtr("48000"), Rate: rate("0.175")},
			{Min: money("48001"), Max: moneyPtr("70000"), Rate: rate("0.30")},
			{Min: money("70001"), Max: moneyPtr("180000"), Rate: rate("0.33")},
			{Min: money("180001"), Max: nil, Rate: rate("0.39")},
		},
	}
}

// WageTable carries the minimum-wage versions through the 2023 review.
func WageTable() payroll.WageTable {
	return payroll.NewWageTable([]payroll.WageRateVersion{
		{
			EffectiveFrom: payroll.NewDate(2021, time.April, 1),
			Rates: payroll.WageRates{
				Adult:    money("20.00"),
				Starting: money("16.00"),
				Training: money("16.00"),
			},
		},
		{
			EffectiveFrom: payroll.NewDate(2022, time.April, 1),
			Rates: payroll.WageRates{
				Adult:    money("21.20"),
				Starting: money("16.96"),
				Training: money("16.96"),
			},
		},
		{
			EffectiveFrom: payroll.NewDate(2023, time.April, 1),
			Rates: payroll.WageRates{
				Adult:    money("22.70"),
				Starting: money("18.16"),
				Training: money("18.16"),
			},
		},
	})
}

// HoursRules encodes the break, weekly-hour, and rest-period
// requirements, with the stricter limits for workers under 16.
func HoursRules() payroll.HoursRules {
	return payroll.HoursRules{
		RestBreakInterval:  4 * time.Hour,
		RestBreakGrace:     time.Hour,
		MealBreakThreshold: 6 * time.Hour,
		MealBreakMinimum:   30 * time.Minute,

		WeeklyMax:      50 * time.Hour,
		YoungWeeklyMax: 40 * time.Hour,

		MinShiftRest:      11 * time.Hour,
		YoungMinShiftRest: 12 * time.Hour,

		ProtectedAge:  16,
		YoungDailyMax: 8 * time.Hour,
		ProhibitedWorkTypes: []string{
			"heavy_machinery",
			"hazardous_substances",
			"night_fill",
		},
	}
}

// DefaultRules assembles the complete shipped rule set. The holiday
// calendar spans 2021-2027, the years Matariki dates are gazetted for.
func DefaultRules() *payroll.RuleSet {
	return &payroll.RuleSet{
		Version: "nz-2023-24",
		Tax:     TaxTable(),
		Levy: payroll.LevyCalculator{
			Rate:        rate("0.016"),
			EarningsCap: money("139384"),
		},
		Contribution: payroll.ContributionCalculator{
			MinRate:      rate("0.03"),
			MaxRate:      rate("0.10"),
			EmployerRate: rate("0.03"),
		},
		StudentLoan: payroll.StudentLoanRule{
			Rate:            rate("0.12"),
			AnnualThreshold: money("22828"),
		},
		MinimumWage:                WageTable(),
		Holidays:                   Calendar(2021, 2027),
		Hours:                      HoursRules(),
		AlternativeDayExpiryMonths: 24,
	}
}
