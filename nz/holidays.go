/*
holidays.go - New Zealand statutory holiday calendar

PURPOSE:
  Generates the fixed set of NZ public holidays for a calendar year,
  including the movable ones: Easter (computed), King's Birthday (first
  Monday of June), Matariki (gazetted per year), Labour Day (fourth
  Monday of October), and the Monday-observed regional anniversary days.

MONDAYISATION:
  Only the holidays in MondayisedNames() shift when they fall on a
  weekend. Easter and the Monday-anchored holidays never need to.
*/
package nz

import (
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// Region codes for anniversary days.
const (
	RegionAuckland   = "auckland"
	RegionWellington = "wellington"
)

// matarikiDates are gazetted, not computed.
var matarikiDates = map[int]payroll.Date{
	2022: payroll.NewDate(2022, time.June, 24),
	2023: payroll.NewDate(2023, time.July, 14),
	2024: payroll.NewDate(2024, time.June, 28),
	2025: payroll.NewDate(2025, time.June, 20),
	2026: payroll.NewDate(2026, time.July, 10),
	2027: payroll.NewDate(2027, time.June, 25),
}

// MondayisedNames is the subset of holidays whose observance shifts to
// the following Monday when the intrinsic date falls on a weekend.
func MondayisedNames() []string {
	return []string{
		"New Year's Day",
		"Day after New Year's Day",
		"Waitangi Day",
		"Anzac Day",
		"Christmas Day",
		"Boxing Day",
	}
}

// Holidays returns the national public holidays for one calendar year.
func Holidays(year int) []payroll.PublicHoliday {
	easter := easterSunday(year)
	holidays := []payroll.PublicHoliday{
		{Name: "New Year's Day", Date: payroll.NewDate(year, time.January, 1)},
		{Name: "Day after New Year's Day", Date: payroll.NewDate(year, time.January, 2)},
		{Name: "Waitangi Day", Date: payroll.NewDate(year, time.February, 6)},
		{Name: "Good Friday", Date: easter.AddDays(-2)},
		{Name: "Easter Monday", Date: easter.AddDays(1)},
		{Name: "Anzac Day", Date: payroll.NewDate(year, time.April, 25)},
		{Name: "King's Birthday", Date: nthWeekday(year, time.June, time.Monday, 1)},
		{Name: "Labour Day", Date: nthWeekday(year, time.October, time.Monday, 4)},
		{Name: "Christmas Day", Date: payroll.NewDate(year, time.December, 25)},
		{Name: "Boxing Day", Date: payroll.NewDate(year, time.December, 26)},
	}
	if matariki, ok := matarikiDates[year]; ok {
		holidays = append(holidays, payroll.PublicHoliday{Name: "Matariki", Date: matariki})
	}
	return holidays
}

// RegionalHolidays returns the anniversary days observed per region.
func RegionalHolidays(year int) []payroll.PublicHoliday {
	return []payroll.PublicHoliday{
		{Name: "Auckland Anniversary", Region: RegionAuckland,
			Date: closestMonday(payroll.NewDate(year, time.January, 29))},
		{Name: "Wellington Anniversary", Region: RegionWellington,
			Date: closestMonday(payroll.NewDate(year, time.January, 22))},
	}
}

// Calendar builds an observed-holiday calendar spanning whole years,
// national and regional holidays included.
func Calendar(fromYear, toYear int) *payroll.HolidayCalendar {
	var all []payroll.PublicHoliday
	for y := fromYear; y <= toYear; y++ {
		all = append(all, Holidays(y)...)
		all = append(all, RegionalHolidays(y)...)
	}
	return payroll.NewHolidayCalendar(all, MondayisedNames())
}

// easterSunday computes Easter via the anonymous Gregorian algorithm.
func easterSunday(year int) payroll.Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return payroll.NewDate(year, time.Month(month), day)
}

// nthWeekday returns the nth given weekday of a month.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) payroll.Date {
	d := payroll.NewDate(year, month, 1)
	offset := (int(weekday) - int(d.Weekday()) + 7) % 7
	return d.AddDays(offset + (n-1)*7)
}

// closestMonday returns the Monday nearest to the anchor date, the
// traditional observance rule for anniversary days.
func closestMonday(anchor payroll.Date) payroll.Date {
	diff := (int(time.Monday) - int(anchor.Weekday()) + 7) % 7
	if diff > 3 {
		diff -= 7
	}
	return anchor.AddDays(diff)
}
