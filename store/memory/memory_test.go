package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/memory"
)

func profile(id string) payroll.CompensationProfile {
	return payroll.CompensationProfile{
		EmployeeID:     id,
		Salary:         payroll.MustParseMoney("25"),
		Frequency:      payroll.FreqHourly,
		TaxCode:        payroll.TaxCodeM,
		Classification: payroll.ClassAdult,
		HoursPerWeek:   decimal.NewFromInt(40),
	}
}

func entryOn(day int, hour int) payroll.TimeEntry {
	return payroll.TimeEntry{
		Date:    payroll.NewDate(2025, time.March, day),
		ClockIn: time.Date(2025, time.March, day, hour, 0, 0, 0, time.UTC),
	}
}

func TestProfileStore_PutAndGet(t *testing.T) {
	store := memory.NewProfileStore()
	store.Put(profile("emp-1"))

	got, err := store.Profile(context.Background(), "emp-1")

	require.NoError(t, err)
	assert.Equal(t, "emp-1", got.EmployeeID)
	assert.True(t, got.Salary.Equal(payroll.MustParseMoney("25")))
}

func TestProfileStore_UnknownEmployee_ValidationError(t *testing.T) {
	store := memory.NewProfileStore()

	_, err := store.Profile(context.Background(), "nobody")

	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
}

func TestProfileStore_All_OrderedByEmployeeID(t *testing.T) {
	store := memory.NewProfileStore()
	store.Put(profile("emp-3"))
	store.Put(profile("emp-1"))
	store.Put(profile("emp-2"))

	all := store.All()

	require.Len(t, all, 3)
	assert.Equal(t, "emp-1", all[0].EmployeeID)
	assert.Equal(t, "emp-3", all[2].EmployeeID)
}

func TestTimeEntryStore_FiltersDateRangeInclusive(t *testing.T) {
	store := memory.NewTimeEntryStore()
	store.Add("emp-1", entryOn(9, 9), entryOn(10, 9), entryOn(11, 9), entryOn(12, 9))

	entries, err := store.Entries(context.Background(), "emp-1",
		payroll.NewDate(2025, time.March, 10), payroll.NewDate(2025, time.March, 11))

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Date.Equal(payroll.NewDate(2025, time.March, 10)))
	assert.True(t, entries[1].Date.Equal(payroll.NewDate(2025, time.March, 11)))
}

func TestTimeEntryStore_SortedByClockIn(t *testing.T) {
	store := memory.NewTimeEntryStore()
	store.Add("emp-1", entryOn(11, 9), entryOn(10, 14), entryOn(10, 8))

	entries, err := store.Entries(context.Background(), "emp-1",
		payroll.NewDate(2025, time.March, 1), payroll.NewDate(2025, time.March, 31))

	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].ClockIn.Before(entries[i].ClockIn))
	}
}

func TestTimeEntryStore_UnknownEmployee_Empty(t *testing.T) {
	store := memory.NewTimeEntryStore()

	entries, err := store.Entries(context.Background(), "nobody",
		payroll.NewDate(2025, time.March, 1), payroll.NewDate(2025, time.March, 31))

	require.NoError(t, err)
	assert.Empty(t, entries)
}
