package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func draftPayslip(employeeID string, startDay int) *payroll.Payslip {
	return &payroll.Payslip{
		EmployeeID:  employeeID,
		PeriodStart: payroll.NewDate(2024, time.May, startDay),
		PeriodEnd:   payroll.NewDate(2024, time.May, startDay+6),
		Frequency:   payroll.FreqWeekly,
		Gross:       payroll.MustParseMoney("1000"),
		Taxable:     payroll.MustParseMoney("1000"),
		Deductions: []payroll.DeductionLine{
			{Code: payroll.DeductionPAYE, Description: "PAYE income tax", Amount: payroll.MustParseMoney("165.77")},
			{Code: payroll.DeductionContribution, Description: "KiwiSaver employee contribution", Amount: payroll.MustParseMoney("30")},
		},
		TotalDeductions:      payroll.MustParseMoney("195.77"),
		EmployerContribution: payroll.MustParseMoney("30"),
		Net:                  payroll.MustParseMoney("804.23"),
		Status:               payroll.StatusDraft,
	}
}

// =============================================================================
// PAYSLIP PERSISTENCE TESTS
// =============================================================================

func TestSavePayslip_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SavePayslip(ctx, draftPayslip("emp-1", 6))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	loaded, err := store.GetPayslip(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, "emp-1", loaded.EmployeeID)
	assert.True(t, loaded.Gross.Equal(payroll.MustParseMoney("1000")))
	assert.True(t, loaded.Net.Equal(payroll.MustParseMoney("804.23")))
	assert.Equal(t, payroll.StatusDraft, loaded.Status)
	require.Len(t, loaded.Deductions, 2)
	assert.Equal(t, payroll.DeductionPAYE, loaded.Deductions[0].Code)
	assert.True(t, loaded.Deductions[0].Amount.Equal(payroll.MustParseMoney("165.77")))
}

func TestGetPayslip_CorruptAmountSurfacesError(t *testing.T) {
	// GIVEN: A persisted payslip whose gross column was mangled out of band
	// WHEN: Loading it
	// THEN: The corruption is an error, never a substituted zero amount

	path := filepath.Join(t.TempDir(), "payroll.db")
	store, err := sqlite.New(path)
	require.NoError(t, err)

	id, err := store.SavePayslip(context.Background(), draftPayslip("emp-1", 6))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE payslips SET gross = 'corrupt' WHERE id = ?`, id)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	_, err = reopened.GetPayslip(context.Background(), id)
	require.Error(t, err)
	assert.True(t, payroll.IsValidation(err))
}

func TestSavePayslip_DuplicatePeriodRejected(t *testing.T) {
	// One payslip per (employee, period); regenerating the same period is
	// a conflict, not a silent overwrite.
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SavePayslip(ctx, draftPayslip("emp-1", 6))
	require.NoError(t, err)

	_, err = store.SavePayslip(ctx, draftPayslip("emp-1", 6))
	assert.Error(t, err)
}

func TestListPayslips_NewestPeriodFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SavePayslip(ctx, draftPayslip("emp-1", 6))
	require.NoError(t, err)
	_, err = store.SavePayslip(ctx, draftPayslip("emp-1", 13))
	require.NoError(t, err)
	_, err = store.SavePayslip(ctx, draftPayslip("emp-2", 6))
	require.NoError(t, err)

	payslips, err := store.ListPayslips(ctx, "emp-1")
	require.NoError(t, err)

	require.Len(t, payslips, 2)
	assert.True(t, payslips[0].PeriodStart.Equal(payroll.NewDate(2024, time.May, 13)))
	assert.True(t, payslips[1].PeriodStart.Equal(payroll.NewDate(2024, time.May, 6)))
}

// =============================================================================
// STATUS LIFECYCLE TESTS
// =============================================================================

func TestUpdateStatus_ForwardTransitions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SavePayslip(ctx, draftPayslip("emp-1", 6))
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, id, payroll.StatusProcessing))
	require.NoError(t, store.UpdateStatus(ctx, id, payroll.StatusCompleted))
	require.NoError(t, store.UpdateStatus(ctx, id, payroll.StatusPaid))

	loaded, err := store.GetPayslip(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, loaded.Status)
}

func TestUpdateStatus_RejectsSkippedAndBackwardMoves(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SavePayslip(ctx, draftPayslip("emp-1", 6))
	require.NoError(t, err)

	// draft -> completed skips processing
	assert.Error(t, store.UpdateStatus(ctx, id, payroll.StatusCompleted))

	require.NoError(t, store.UpdateStatus(ctx, id, payroll.StatusProcessing))
	// processing -> draft moves backward
	assert.Error(t, store.UpdateStatus(ctx, id, payroll.StatusDraft))
}

func TestUpdateStatus_UnknownPayslip(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateStatus(context.Background(), "no-such-id", payroll.StatusProcessing)
	assert.Error(t, err)
}

// =============================================================================
// RULE PACK TESTS
// =============================================================================

func TestRulePack_SaveAndLoadLatest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRulePack(ctx, "nz-2023-24", []byte(`{"version":"nz-2023-24"}`)))
	require.NoError(t, store.SaveRulePack(ctx, "nz-2024-25", []byte(`{"version":"nz-2024-25"}`)))

	version, pack, err := store.LatestRulePack(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, version)
	assert.Contains(t, string(pack), version)
}

func TestRulePack_UpsertSameVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRulePack(ctx, "nz-2024-25", []byte(`{"a":1}`)))
	require.NoError(t, store.SaveRulePack(ctx, "nz-2024-25", []byte(`{"a":2}`)))

	_, pack, err := store.LatestRulePack(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(pack))
}

func TestLatestRulePack_EmptyStore(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.LatestRulePack(context.Background())
	assert.Error(t, err)
}
