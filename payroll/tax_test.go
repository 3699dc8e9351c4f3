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

func money(s string) payroll.Money {
	return payroll.MustParseMoney(s)
}

func moneyPtr(s string) *payroll.Money {
	m := payroll.MustParseMoney(s)
	return &m
}

func rate(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int) payroll.Date {
	return payroll.NewDate(year, month, day)
}

// testTaxTable mirrors the 2023/24 shape: five brackets, open-ended top.
func testTaxTable() payroll.TaxTable {
	return payroll.TaxTable{
		Version:       "test",
		EffectiveFrom: date(2023, time.April, 1),
		Brackets: []payroll.TaxBracket{
			{Min: money("0"), Max: moneyPtr("14000"), Rate: rate("0.105")},
			{Min: money("14001"), Max: moneyPtr("48000"), Rate: rate("0.175")},
			{Min: money("48001"), Max: moneyPtr("70000"), Rate: rate("0.30")},
			{Min: money("70001"), Max: moneyPtr("180000"), Rate: rate("0.33")},
			{Min: money("180001"), Max: nil, Rate: rate("0.39")},
		},
	}
}

func newTestEngine() payroll.TaxBracketEngine {
	return payroll.TaxBracketEngine{Table: testTaxTable()}
}

// =============================================================================
// CALCULATION TESTS
// =============================================================================

func TestTaxCalculate_ZeroIncome_ZeroEverything(t *testing.T) {
	// GIVEN: Zero annual income
	// WHEN: Calculating tax
	// THEN: Total, effective rate, and breakdown are all zero (guarded, not an error)

	result := newTestEngine().Calculate(payroll.ZeroMoney())

	assert.True(t, result.Total.IsZero(), "total should be zero")
	assert.True(t, result.EffectiveRate.IsZero(), "effective rate should be zero")
	assert.Empty(t, result.Breakdown)
}

func TestTaxCalculate_NegativeIncome_Guarded(t *testing.T) {
	result := newTestEngine().Calculate(money("-5000"))

	assert.True(t, result.Total.IsZero())
	assert.Empty(t, result.Breakdown)
}

func TestTaxCalculate_FirstBracketOnly(t *testing.T) {
	// GIVEN: Income entirely inside the lowest bracket
	// WHEN: Calculating tax on 10,000
	// THEN: Tax is 10000 * 0.105 and the effective rate equals the bracket rate

	result := newTestEngine().Calculate(money("10000"))

	assert.True(t, result.Total.Equal(money("1050")), "expected 1050, got %s", result.Total)
	assert.True(t, result.EffectiveRate.Equal(rate("0.105")))
	require.Len(t, result.Breakdown, 1)
	assert.True(t, result.Breakdown[0].Taxed.Equal(money("10000")))
}

func TestTaxCalculate_SpansThreeBrackets(t *testing.T) {
	// GIVEN: Income of 50,000 (reaches into the third bracket)
	// WHEN: Calculating tax
	// THEN: Each bracket taxes min(remaining, width); widths are Max-Min+1

	result := newTestEngine().Calculate(money("50000"))

	require.Len(t, result.Breakdown, 3)
	assert.True(t, result.Breakdown[0].Taxed.Equal(money("14001")))
	assert.True(t, result.Breakdown[1].Taxed.Equal(money("34000")))
	assert.True(t, result.Breakdown[2].Taxed.Equal(money("1999")))

	// 14001*0.105 + 34000*0.175 + 1999*0.30
	expected := money("1470.105").Add(money("5950")).Add(money("599.70"))
	assert.True(t, result.Total.Equal(expected), "expected %s, got %s", expected, result.Total)
}

func TestTaxCalculate_OpenEndedTopBracket(t *testing.T) {
	// GIVEN: Income above the last closed bracket
	// WHEN: Calculating tax on 200,000
	// THEN: The remainder past 180,000 is taxed at the top rate with no cap

	result := newTestEngine().Calculate(money("200000"))

	require.Len(t, result.Breakdown, 5)
	top := result.Breakdown[4]
	assert.True(t, top.Taxed.Equal(money("19999")), "expected 19999 in top bracket, got %s", top.Taxed)
	assert.True(t, top.Tax.Equal(money("19999").Mul(rate("0.39"))))
}

func TestTaxCalculate_BracketCoverage_NoGapNoDoubleCount(t *testing.T) {
	// GIVEN: A range of incomes
	// WHEN: Calculating tax
	// THEN: The per-bracket taxed amounts sum back to the income exactly

	incomes := []string{"1", "13999", "14001", "48000", "48001", "70000", "123456.78", "180001", "500000"}
	engine := newTestEngine()

	for _, s := range incomes {
		income := money(s)
		result := engine.Calculate(income)

		sum := payroll.ZeroMoney()
		for _, bt := range result.Breakdown {
			sum = sum.Add(bt.Taxed)
		}
		assert.True(t, sum.Equal(income), "income %s: taxed sum %s", income, sum)
	}
}

func TestTaxCalculate_Monotonic(t *testing.T) {
	// GIVEN: An ascending ladder of incomes
	// WHEN: Calculating tax for each
	// THEN: tax(a) <= tax(b) whenever a <= b

	engine := newTestEngine()
	prev := payroll.ZeroMoney()
	for income := int64(0); income <= 250000; income += 2500 {
		total := engine.Calculate(payroll.NewMoneyFromInt(income)).Total
		assert.False(t, total.LessThan(prev), "tax decreased at income %d", income)
		prev = total
	}
}

func TestTaxPerPeriod_DividesWithoutRounding(t *testing.T) {
	engine := newTestEngine()

	weekly, err := engine.PerPeriod(money("5200"), payroll.FreqWeekly)
	require.NoError(t, err)
	assert.True(t, weekly.Equal(money("100")))

	monthly, err := engine.PerPeriod(money("5200"), payroll.FreqMonthly)
	require.NoError(t, err)
	assert.True(t, monthly.Mul(decimal.NewFromInt(12)).Equal(money("5200")))
}

func TestTaxPerPeriod_UnknownFrequency_RangeError(t *testing.T) {
	_, err := newTestEngine().PerPeriod(money("100"), payroll.PayFrequency("quarterly"))

	require.Error(t, err)
	assert.True(t, payroll.IsRange(err))
}

// =============================================================================
// TABLE VALIDATION TESTS
// =============================================================================

func TestTaxTableValidate_AcceptsWellFormedTable(t *testing.T) {
	assert.NoError(t, testTaxTable().Validate())
}

func TestTaxTableValidate_RejectsGap(t *testing.T) {
	// GIVEN: Brackets where next.Min != this.Max + 1
	table := payroll.TaxTable{Brackets: []payroll.TaxBracket{
		{Min: money("0"), Max: moneyPtr("14000"), Rate: rate("0.105")},
		{Min: money("15000"), Max: nil, Rate: rate("0.175")},
	}}

	err := table.Validate()
	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
}

func TestTaxTableValidate_RejectsNonZeroStart(t *testing.T) {
	table := payroll.TaxTable{Brackets: []payroll.TaxBracket{
		{Min: money("1"), Max: nil, Rate: rate("0.105")},
	}}

	assert.Error(t, table.Validate())
}

func TestTaxTableValidate_RejectsClosedLastBracket(t *testing.T) {
	table := payroll.TaxTable{Brackets: []payroll.TaxBracket{
		{Min: money("0"), Max: moneyPtr("14000"), Rate: rate("0.105")},
	}}

	assert.Error(t, table.Validate())
}

func TestTaxTableValidate_RejectsRateAboveOne(t *testing.T) {
	table := payroll.TaxTable{Brackets: []payroll.TaxBracket{
		{Min: money("0"), Max: nil, Rate: rate("1.5")},
	}}

	err := table.Validate()
	require.Error(t, err)
	assert.True(t, payroll.IsRange(err))
}

func TestTaxTableValidate_RejectsEmptyTable(t *testing.T) {
	assert.Error(t, payroll.TaxTable{}.Validate())
}
