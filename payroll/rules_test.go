package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

func validRuleSet(t *testing.T) *payroll.RuleSet {
	t.Helper()
	return &payroll.RuleSet{
		Version:      "test",
		Tax:          testTaxTable(),
		Levy:         testLevy(),
		Contribution: testContribution(),
		StudentLoan: payroll.StudentLoanRule{
			Rate:            rate("0.12"),
			AnnualThreshold: money("22828"),
		},
		MinimumWage:                testWageTable(),
		Holidays:                   testCalendar(),
		Hours:                      testHoursRules(),
		AlternativeDayExpiryMonths: 24,
	}
}

func TestRuleSetValidate_AcceptsCompleteSet(t *testing.T) {
	assert.NoError(t, validRuleSet(t).Validate())
}

func TestRuleSetValidate_RejectsMissingCalendar(t *testing.T) {
	rs := validRuleSet(t)
	rs.Holidays = nil

	err := rs.Validate()
	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
}

func TestRuleSetValidate_RejectsInvertedContributionBounds(t *testing.T) {
	rs := validRuleSet(t)
	rs.Contribution.MinRate = rate("0.20")

	assert.Error(t, rs.Validate())
}

func TestRuleSetValidate_RejectsLevyRateAboveOne(t *testing.T) {
	rs := validRuleSet(t)
	rs.Levy.Rate = rate("1.5")

	err := rs.Validate()
	require.Error(t, err)
	assert.True(t, payroll.IsRange(err))
}

func TestRuleSetValidate_RejectsZeroRestBreakInterval(t *testing.T) {
	// A zero interval would turn the break evaluator's interval division
	// into a runtime panic; the set must be rejected before it goes live.
	rs := validRuleSet(t)
	rs.Hours.RestBreakInterval = 0

	err := rs.Validate()
	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
}

func TestRuleSetValidate_RejectsMissingMealBreakRules(t *testing.T) {
	rs := validRuleSet(t)
	rs.Hours.MealBreakThreshold = 0

	err := rs.Validate()
	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
}

func TestRuleProvider_RejectsInvalidInitialSet(t *testing.T) {
	rs := validRuleSet(t)
	rs.Holidays = nil

	_, err := payroll.NewRuleProvider(rs)
	assert.Error(t, err)
}

func TestRuleProvider_ReloadSwapsWholeSet(t *testing.T) {
	// GIVEN: A provider serving version "test"
	// WHEN: Reloading a valid replacement
	// THEN: Readers see the new set

	provider, err := payroll.NewRuleProvider(validRuleSet(t))
	require.NoError(t, err)

	next := validRuleSet(t)
	next.Version = "test-2"
	require.NoError(t, provider.Reload(next))

	assert.Equal(t, "test-2", provider.Current().Version)
}

func TestRuleProvider_FailedReloadKeepsCurrentSet(t *testing.T) {
	// GIVEN: A provider serving a valid set
	// WHEN: Reloading a set that fails validation
	// THEN: The reload is rejected and the current set is untouched

	provider, err := payroll.NewRuleProvider(validRuleSet(t))
	require.NoError(t, err)

	broken := validRuleSet(t)
	broken.Version = "broken"
	broken.Holidays = nil

	assert.Error(t, provider.Reload(broken))
	assert.Equal(t, "test", provider.Current().Version)
}
