package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func testWageTable() payroll.WageTable {
	return payroll.NewWageTable([]payroll.WageRateVersion{
		{
			EffectiveFrom: date(2021, time.April, 1),
			Rates:         payroll.WageRates{Adult: money("20.00"), Starting: money("16.00"), Training: money("16.00")},
		},
		{
			EffectiveFrom: date(2023, time.April, 1),
			Rates:         payroll.WageRates{Adult: money("22.70"), Starting: money("18.16"), Training: money("18.16")},
		},
	})
}

func testWageValidator() payroll.MinimumWageValidator {
	return payroll.MinimumWageValidator{Table: testWageTable()}
}

func adultProfile(id, salary string, freq payroll.PayFrequency, hoursPerWeek string) payroll.CompensationProfile {
	return payroll.CompensationProfile{
		EmployeeID:     id,
		Salary:         money(salary),
		Frequency:      freq,
		TaxCode:        payroll.TaxCodeM,
		Classification: payroll.ClassAdult,
		HoursPerWeek:   decimal.RequireFromString(hoursPerWeek),
	}
}

// =============================================================================
// NORMALIZATION TESTS
// =============================================================================

func TestNormalizeHourlyRate_PerFrequency(t *testing.T) {
	forty := decimal.NewFromInt(40)

	cases := []struct {
		name   string
		amount string
		freq   payroll.PayFrequency
		want   string
	}{
		{"hourly passthrough", "22.70", payroll.FreqHourly, "22.70"},
		{"weekly", "1000", payroll.FreqWeekly, "25"},
		{"fortnightly", "1600", payroll.FreqFortnightly, "20"},
		{"monthly", "10400", payroll.FreqMonthly, "60"}, // 10400*12 / (40*52)
		{"annually", "104000", payroll.FreqAnnually, "50"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := payroll.NormalizeHourlyRate(money(tc.amount), tc.freq, forty)
			assert.True(t, got.Equal(money(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestNormalizeHourlyRate_ZeroContractedHours_GuardedToZero(t *testing.T) {
	got := payroll.NormalizeHourlyRate(money("52000"), payroll.FreqAnnually, decimal.Zero)
	assert.True(t, got.IsZero())
}

// =============================================================================
// VERSION LOOKUP TESTS
// =============================================================================

func TestWageTable_LatestVersionAtOrBeforeDate(t *testing.T) {
	table := testWageTable()

	// Day before the 2023 review still gets the 2021 rates.
	v, err := table.VersionFor(date(2023, time.March, 31))
	require.NoError(t, err)
	assert.True(t, v.Rates.Adult.Equal(money("20.00")))

	// The effective date itself gets the new rates.
	v, err = table.VersionFor(date(2023, time.April, 1))
	require.NoError(t, err)
	assert.True(t, v.Rates.Adult.Equal(money("22.70")))
}

func TestWageTable_BeforeFirstVersion_LookupError(t *testing.T) {
	// GIVEN: A check date before any wage version exists
	// WHEN: Looking up the applicable version
	// THEN: A LookupError - rates are never defaulted or guessed

	_, err := testWageTable().VersionFor(date(2020, time.January, 1))

	require.Error(t, err)
	assert.True(t, payroll.IsLookup(err))
	var le *payroll.LookupError
	require.ErrorAs(t, err, &le)
	assert.True(t, le.At.Equal(date(2020, time.January, 1)))
}

// =============================================================================
// COMPLIANCE CHECK TESTS
// =============================================================================

func TestWageCheck_Underpaid(t *testing.T) {
	// GIVEN: An adult paid 20/hour on 2024-05-01
	// WHEN: Checking against the minimum wage
	// THEN: Non-compliant, required 22.70, shortfall 2.70

	check, err := testWageValidator().Check(money("20"), payroll.ClassAdult, date(2024, time.May, 1))

	require.NoError(t, err)
	assert.False(t, check.IsCompliant)
	assert.True(t, check.RequiredRate.Equal(money("22.70")))
	assert.True(t, check.Shortfall.Equal(money("2.70")), "expected 2.70, got %s", check.Shortfall)
	assert.True(t, check.EffectiveFrom.Equal(date(2023, time.April, 1)))
}

func TestWageCheck_Compliant_ZeroShortfall(t *testing.T) {
	check, err := testWageValidator().Check(money("25"), payroll.ClassAdult, date(2024, time.May, 1))

	require.NoError(t, err)
	assert.True(t, check.IsCompliant)
	assert.True(t, check.Shortfall.IsZero())
}

func TestWageCheck_ExactlyMinimum_Compliant(t *testing.T) {
	check, err := testWageValidator().Check(money("22.70"), payroll.ClassAdult, date(2024, time.May, 1))

	require.NoError(t, err)
	assert.True(t, check.IsCompliant)
}

func TestWageCheck_UnknownClassification_RangeError(t *testing.T) {
	_, err := testWageValidator().Check(money("20"), payroll.Classification("casual"), date(2024, time.May, 1))

	require.Error(t, err)
	assert.True(t, payroll.IsRange(err))
}

func TestWageCheckProfile_NormalizesBeforeChecking(t *testing.T) {
	// GIVEN: An annual salary of 41,600 over 40 hours/week (= 20/hour)
	// WHEN: Checking the profile
	// THEN: The normalized rate is compared, not the raw quote

	profile := adultProfile("emp-1", "41600", payroll.FreqAnnually, "40")
	check, err := testWageValidator().CheckProfile(profile, date(2024, time.May, 1))

	require.NoError(t, err)
	assert.False(t, check.IsCompliant)
	assert.True(t, check.HourlyRate.Equal(money("20")))
	assert.True(t, check.Shortfall.Equal(money("2.70")))
}

func TestNonCompliant_BatchIsolation(t *testing.T) {
	// GIVEN: One underpaid, one compliant, one structurally invalid profile
	// WHEN: Auditing the batch
	// THEN: One violation, one error; siblings are unaffected

	profiles := []payroll.CompensationProfile{
		adultProfile("under", "18", payroll.FreqHourly, "40"),
		adultProfile("ok", "25", payroll.FreqHourly, "40"),
		{EmployeeID: "broken", Frequency: payroll.PayFrequency("yearly")},
	}

	violations, errs := testWageValidator().NonCompliant(profiles, date(2024, time.May, 1))

	require.Len(t, violations, 1)
	assert.Equal(t, "under", violations[0].EmployeeID)
	assert.True(t, violations[0].Check.Shortfall.Equal(money("4.70")))
	require.Len(t, errs, 1)
	assert.True(t, payroll.IsValidation(errs[0]))
}
