/*
holiday.go - Public-holiday calendar and statutory holiday pay

PURPOSE:
  Resolves which calendar days are observed public holidays (applying the
  Mondayisation date-shifting rule), values hours worked on them, and
  decides alternative-day-in-lieu grants.

MONDAYISATION:
  A holiday in the eligible name set that intrinsically falls on a
  Saturday is observed two days later (the following Monday); on a
  Sunday, one day later. Weekday holidays, and holidays outside the
  eligible set, are observed on their intrinsic date.

HOLIDAY PAY:
  amount = hourlyRate * hoursWorked * multiplier, where the multiplier is
  1.5 when the shift falls on an observed public holiday and 1.0 otherwise.

ALTERNATIVE DAY (day in lieu):
  Granted only when the holiday falls on a day the employee would
  normally work AND the caller explicitly requests it. The grant expires
  a configured number of months after the intrinsic holiday date.

SEE ALSO:
  - nz/holidays.go: The statutory calendar and Mondayised-eligible set
  - aggregate.go: Uses the range query for payroll-period detection
*/
package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CALENDAR
// =============================================================================

// PublicHoliday is a statutory holiday on its intrinsic date.
// Region is empty for national holidays.
type PublicHoliday struct {
	Name   string
	Date   Date
	Region string
}

// ObservedHoliday pairs a holiday with its post-Mondayisation date.
type ObservedHoliday struct {
	PublicHoliday
	Observed Date
}

// HolidayCalendar answers observed-holiday queries over a fixed holiday
// set. It is immutable once built; rule reloads swap the whole calendar.
type HolidayCalendar struct {
	observed   []ObservedHoliday // sorted by observed date
	mondayised map[string]bool
}

func NewHolidayCalendar(holidays []PublicHoliday, mondayisedNames []string) *HolidayCalendar {
	c := &HolidayCalendar{mondayised: make(map[string]bool, len(mondayisedNames))}
	for _, name := range mondayisedNames {
		c.mondayised[name] = true
	}
	for _, h := range holidays {
		c.observed = append(c.observed, ObservedHoliday{PublicHoliday: h, Observed: c.ObservedDate(h)})
	}
	sort.Slice(c.observed, func(i, j int) bool {
		return c.observed[i].Observed.Before(c.observed[j].Observed)
	})
	return c
}

// ObservedDate applies Mondayisation: Saturday shifts +2 days, Sunday +1,
// weekdays are unchanged. Only holidays in the eligible name set shift.
func (c *HolidayCalendar) ObservedDate(h PublicHoliday) Date {
	if !c.mondayised[h.Name] {
		return h.Date
	}
	switch h.Date.Weekday() {
	case time.Saturday:
		return h.Date.AddDays(2)
	case time.Sunday:
		return h.Date.AddDays(1)
	default:
		return h.Date
	}
}

// IsObservedHoliday reports whether the date is an observed public holiday.
func (c *HolidayCalendar) IsObservedHoliday(d Date) (ObservedHoliday, bool) {
	for _, oh := range c.observed {
		if oh.Observed.Equal(d) {
			return oh, true
		}
		if oh.Observed.After(d) {
			break
		}
	}
	return ObservedHoliday{}, false
}

// HolidaysInRange returns all observed holidays within [start, end],
// used for payroll-period holiday detection.
func (c *HolidayCalendar) HolidaysInRange(start, end Date) []ObservedHoliday {
	var out []ObservedHoliday
	for _, oh := range c.observed {
		if oh.Observed.Before(start) {
			continue
		}
		if oh.Observed.After(end) {
			break
		}
		out = append(out, oh)
	}
	return out
}

// =============================================================================
// HOLIDAY PAY
// =============================================================================

// HolidayRateMultiplier is the statutory uplift for hours worked on an
// observed public holiday.
var HolidayRateMultiplier = decimal.RequireFromString("1.5")

// HolidayPay values a shift: hourlyRate * hours, uplifted by 1.5 when the
// shift falls on an observed public holiday.
func HolidayPay(hourlyRate Money, hoursWorked decimal.Decimal, onPublicHoliday bool) Money {
	amount := hourlyRate.Mul(hoursWorked)
	if onPublicHoliday {
		amount = amount.Mul(HolidayRateMultiplier)
	}
	return amount
}

type HolidayPayResult struct {
	Amount     Money
	Multiplier decimal.Decimal
	Holiday    *ObservedHoliday // nil when the shift is not on a holiday
}

// HolidayPayResolver combines the calendar with pay and day-in-lieu rules.
type HolidayPayResolver struct {
	Calendar     *HolidayCalendar
	ExpiryMonths int // alternative-day validity window
}

// PayForShift resolves the pay for hours worked on a given date.
func (r HolidayPayResolver) PayForShift(hourlyRate Money, hoursWorked decimal.Decimal, on Date) HolidayPayResult {
	oh, isHoliday := r.Calendar.IsObservedHoliday(on)
	result := HolidayPayResult{
		Amount:     HolidayPay(hourlyRate, hoursWorked, isHoliday),
		Multiplier: decimal.NewFromInt(1),
	}
	if isHoliday {
		result.Multiplier = HolidayRateMultiplier
		result.Holiday = &oh
	}
	return result
}

// =============================================================================
// ALTERNATIVE DAY (day in lieu)
// =============================================================================

type AlternativeDay struct {
	Granted   bool
	Holiday   PublicHoliday
	ExpiresAt Date
	Reason    string
}

// AlternativeDayFor decides a day-in-lieu grant for working a holiday.
// wouldNormallyWork reflects the employee's regular schedule; the grant
// requires an explicit request from the caller.
func (r HolidayPayResolver) AlternativeDayFor(h PublicHoliday, wouldNormallyWork, requested bool) AlternativeDay {
	if !requested {
		return AlternativeDay{Holiday: h, Reason: "not requested"}
	}
	if !wouldNormallyWork {
		return AlternativeDay{Holiday: h, Reason: "holiday is not a normal working day"}
	}
	return AlternativeDay{
		Granted:   true,
		Holiday:   h,
		ExpiresAt: h.Date.AddMonths(r.ExpiryMonths),
	}
}
