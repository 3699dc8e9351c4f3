/*
hours.go - Working-hours and break compliance

PURPOSE:
  Evaluates attendance records against break requirements, weekly hour
  limits, minimum inter-shift rest periods, and the stricter rules that
  protect workers under a threshold age.

CHECKS:
  1. Break compliance (per shift):
     - floor(hoursWorked / RestBreakInterval) rest breaks are required,
       each with a required-by timestamp of shiftStart + k * interval and
       a one-hour grace window
     - one meal break of at least MealBreakMinimum is required once the
       shift reaches MealBreakThreshold
  2. Hour limits (across entries):
     - entries grouped by week (weeks start Sunday); weekly totals are
       compared against a maximum, stricter under the protected age
     - every adjacent pair of shifts must be separated by a minimum rest
       period, again stricter under the protected age
  3. Young-worker rules: prohibited work types and a lower single-shift
     ceiling for workers under the protected age

ERROR MODEL:
  Evaluators never return errors. An open shift (no clock-out) is treated
  as in progress and measured against the current time.
*/
package payroll

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// RULES
// =============================================================================

type HoursRules struct {
	RestBreakInterval time.Duration // one rest break required per interval worked
	RestBreakGrace    time.Duration // window after required-by before a break is missed
	MealBreakThreshold time.Duration // shift length that requires a meal break
	MealBreakMinimum   time.Duration // minimum meal break duration

	WeeklyMax      time.Duration // maximum worked hours per week
	YoungWeeklyMax time.Duration // stricter weekly maximum under ProtectedAge

	MinShiftRest      time.Duration // minimum rest between consecutive shifts
	YoungMinShiftRest time.Duration // stricter rest minimum under ProtectedAge

	ProtectedAge       int           // workers younger than this get stricter rules
	YoungDailyMax      time.Duration // single-shift ceiling under ProtectedAge
	ProhibitedWorkTypes []string     // work types closed to young workers
}

func (r HoursRules) weeklyMaxFor(age int) time.Duration {
	if age < r.ProtectedAge {
		return r.YoungWeeklyMax
	}
	return r.WeeklyMax
}

func (r HoursRules) shiftRestFor(age int) time.Duration {
	if age < r.ProtectedAge {
		return r.YoungMinShiftRest
	}
	return r.MinShiftRest
}

func (r HoursRules) prohibited(workType string) bool {
	for _, p := range r.ProhibitedWorkTypes {
		if p == workType {
			return true
		}
	}
	return false
}

// =============================================================================
// RESULTS
// =============================================================================

// MissedBreak records a required break that was not taken, with the
// timestamp by which it was due.
type MissedBreak struct {
	Type       BreakType
	RequiredAt time.Time
}

// ComplianceResult is produced fresh on every evaluation and never
// persisted by the engine.
type ComplianceResult struct {
	IsCompliant  bool
	Issues       []string
	MissedBreaks []MissedBreak
}

func compliant() ComplianceResult { return ComplianceResult{IsCompliant: true} }

func (cr *ComplianceResult) addIssue(format string, args ...any) {
	cr.IsCompliant = false
	cr.Issues = append(cr.Issues, fmt.Sprintf(format, args...))
}

// Merge folds another result into this one.
func (cr *ComplianceResult) Merge(other ComplianceResult) {
	if !other.IsCompliant {
		cr.IsCompliant = false
	}
	cr.Issues = append(cr.Issues, other.Issues...)
	cr.MissedBreaks = append(cr.MissedBreaks, other.MissedBreaks...)
}

// =============================================================================
// EVALUATOR
// =============================================================================

// WorkHoursEvaluator runs the compliance checks. Now is injectable for
// deterministic tests; nil means time.Now.
type WorkHoursEvaluator struct {
	Rules HoursRules
	Now   func() time.Time
}

func (e WorkHoursEvaluator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// CheckBreaks evaluates one shift's rest and meal breaks. Open shifts are
// measured against the current time.
func (e WorkHoursEvaluator) CheckBreaks(entry TimeEntry) ComplianceResult {
	result := compliant()
	worked := entry.Worked(e.now())
	if worked <= 0 {
		return result
	}

	// Rest breaks: one per full interval, each due at start + k*interval.
	// A non-positive interval means no rest breaks are required; validated
	// rule sets always carry one, but the evaluator must not panic on a
	// hand-built zero value.
	if interval := e.Rules.RestBreakInterval; interval > 0 {
		required := int(worked / interval)
		rests := entry.BreaksOfType(RestBreak)
		sort.Slice(rests, func(i, j int) bool { return rests[i].Start.Before(rests[j].Start) })

		used := make([]bool, len(rests))
		for k := 1; k <= required; k++ {
			requiredAt := entry.ClockIn.Add(time.Duration(k) * interval)
			deadline := requiredAt.Add(e.Rules.RestBreakGrace)
			matched := false
			for i, b := range rests {
				if used[i] {
					continue
				}
				if !b.Start.Before(entry.ClockIn) && !b.Start.After(deadline) {
					used[i] = true
					matched = true
					break
				}
			}
			if !matched {
				result.addIssue("rest break %d not taken by %s", k, requiredAt.Format(time.RFC3339))
				result.MissedBreaks = append(result.MissedBreaks, MissedBreak{Type: RestBreak, RequiredAt: requiredAt})
			}
		}
	}

	// Meal break: one of minimum duration once the threshold is reached.
	if e.Rules.MealBreakThreshold > 0 && worked >= e.Rules.MealBreakThreshold {
		requiredAt := entry.ClockIn.Add(e.Rules.MealBreakThreshold)
		taken := false
		for _, b := range entry.BreaksOfType(MealBreak) {
			if b.Duration() >= e.Rules.MealBreakMinimum {
				taken = true
				break
			}
		}
		if !taken {
			result.addIssue("meal break of at least %s not taken by %s",
				e.Rules.MealBreakMinimum, requiredAt.Format(time.RFC3339))
			result.MissedBreaks = append(result.MissedBreaks, MissedBreak{Type: MealBreak, RequiredAt: requiredAt})
		}
	}

	return result
}

// CheckHourLimits evaluates weekly totals and inter-shift rest periods
// across a set of entries.
func (e WorkHoursEvaluator) CheckHourLimits(entries []TimeEntry, age int) ComplianceResult {
	result := compliant()
	now := e.now()

	// Weekly totals, grouped on Sunday-started weeks.
	weekly := make(map[Date]time.Duration)
	for _, entry := range entries {
		weekly[entry.Date.WeekStart()] += entry.Worked(now)
	}
	weekMax := e.Rules.weeklyMaxFor(age)
	weeks := make([]Date, 0, len(weekly))
	for w := range weekly {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })
	for _, w := range weeks {
		if weekly[w] > weekMax {
			result.addIssue("week of %s: worked %.1fh, exceeds maximum %.1fh",
				w, weekly[w].Hours(), weekMax.Hours())
		}
	}

	// Rest period between adjacent shifts. Open shifts have no end yet,
	// so the following gap cannot be judged and is skipped.
	sorted := make([]TimeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ClockIn.Before(sorted[j].ClockIn) })

	minRest := e.Rules.shiftRestFor(age)
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		if prev.ClockOut == nil {
			continue
		}
		rest := sorted[i].ClockIn.Sub(*prev.ClockOut)
		if rest < minRest {
			result.addIssue("only %.1fh rest between shifts ending %s and starting %s (minimum %.1fh)",
				rest.Hours(), prev.ClockOut.Format(time.RFC3339),
				sorted[i].ClockIn.Format(time.RFC3339), minRest.Hours())
		}
	}

	return result
}

// CheckYoungWorker applies the protected-age rules: prohibited work types
// and a lower single-shift ceiling. Older workers pass trivially.
func (e WorkHoursEvaluator) CheckYoungWorker(entries []TimeEntry, age int) ComplianceResult {
	result := compliant()
	if age >= e.Rules.ProtectedAge {
		return result
	}
	now := e.now()
	for _, entry := range entries {
		if entry.WorkType != "" && e.Rules.prohibited(entry.WorkType) {
			result.addIssue("work type %q on %s is prohibited under age %d",
				entry.WorkType, entry.Date, e.Rules.ProtectedAge)
		}
		if worked := entry.Worked(now); worked > e.Rules.YoungDailyMax {
			result.addIssue("shift on %s worked %.1fh, exceeds daily maximum %.1fh for workers under %d",
				entry.Date, worked.Hours(), e.Rules.YoungDailyMax.Hours(), e.Rules.ProtectedAge)
		}
	}
	return result
}

// Evaluate composes all three checks over a set of entries.
func (e WorkHoursEvaluator) Evaluate(entries []TimeEntry, age int) ComplianceResult {
	result := compliant()
	for _, entry := range entries {
		result.Merge(e.CheckBreaks(entry))
	}
	result.Merge(e.CheckHourLimits(entries, age))
	result.Merge(e.CheckYoungWorker(entries, age))
	return result
}
