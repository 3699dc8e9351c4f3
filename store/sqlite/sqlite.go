/*
Package sqlite persists payslips and rule packs.

PURPOSE:
  The calculation engine is pure; this package is the thin persistence
  collaborator that records its outputs. It owns payslip IDs and status
  transitions (draft -> processing -> completed -> paid), and stores JSON
  rule packs so an updated pack survives restarts.

KEY TABLES:
  payslips:   One row per (employee, period); amounts stored as exact
              decimal strings, deduction breakdown as JSON
  rule_packs: Versioned JSON rule packs; the newest row is loaded at
              startup and parsed by the factory

STATUS TRANSITIONS:
  UpdateStatus enforces the forward-only lifecycle via
  payroll.PayslipStatus.CanTransitionTo. The engine never transitions a
  payslip itself.

WAL MODE:
  SQLite opens with WAL for better read concurrency. A sync.RWMutex
  serializes writers; with PostgreSQL the database would handle this.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil { log.Fatal(err) }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payroll-engine/payroll"
)

// Store persists payslips and rule packs in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS payslips (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		frequency TEXT NOT NULL,
		gross TEXT NOT NULL,
		taxable TEXT NOT NULL,
		total_deductions TEXT NOT NULL,
		employer_contribution TEXT NOT NULL,
		net TEXT NOT NULL,
		deductions_json TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, period_start, period_end)
	);

	CREATE INDEX IF NOT EXISTS idx_payslips_employee
		ON payslips(employee_id, period_start DESC);
	CREATE INDEX IF NOT EXISTS idx_payslips_status
		ON payslips(status);

	CREATE TABLE IF NOT EXISTS rule_packs (
		version TEXT PRIMARY KEY,
		pack_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PAYSLIPS
// =============================================================================

type deductionRow struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// SavePayslip records a freshly generated payslip and returns its
// assigned id. The engine supplies no ids or timestamps; they are
// assigned here.
func (s *Store) SavePayslip(ctx context.Context, p *payroll.Payslip) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]deductionRow, 0, len(p.Deductions))
	for _, d := range p.Deductions {
		rows = append(rows, deductionRow{Code: d.Code, Description: d.Description, Amount: d.Amount.String()})
	}
	deductionsJSON, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO payslips (id, employee_id, period_start, period_end, frequency,
			gross, taxable, total_deductions, employer_contribution, net,
			deductions_json, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.EmployeeID, p.PeriodStart.String(), p.PeriodEnd.String(), string(p.Frequency),
		p.Gross.String(), p.Taxable.String(), p.TotalDeductions.String(),
		p.EmployerContribution.String(), p.Net.String(),
		string(deductionsJSON), string(p.Status), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save payslip: %w", err)
	}
	return id, nil
}

// GetPayslip loads one payslip by id.
func (s *Store) GetPayslip(ctx context.Context, id string) (*payroll.Payslip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT employee_id, period_start, period_end, frequency,
			gross, taxable, total_deductions, employer_contribution, net,
			deductions_json, status
		FROM payslips WHERE id = ?`, id)
	return scanPayslip(row)
}

// ListPayslips returns an employee's payslips, newest period first.
func (s *Store) ListPayslips(ctx context.Context, employeeID string) ([]*payroll.Payslip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, period_start, period_end, frequency,
			gross, taxable, total_deductions, employer_contribution, net,
			deductions_json, status
		FROM payslips WHERE employee_id = ?
		ORDER BY period_start DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateStatus moves a payslip through its lifecycle, rejecting any
// transition the status machine does not allow.
func (s *Store) UpdateStatus(ctx context.Context, id string, next payroll.PayslipStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM payslips WHERE id = ?`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return fmt.Errorf("payslip %s not found", id)
	}
	if err != nil {
		return err
	}
	if !payroll.PayslipStatus(current).CanTransitionTo(next) {
		return fmt.Errorf("illegal payslip status transition %s -> %s", current, next)
	}

	_, err = s.db.ExecContext(ctx, `UPDATE payslips SET status = ? WHERE id = ?`, string(next), id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayslip(row scanner) (*payroll.Payslip, error) {
	var p payroll.Payslip
	var start, end, frequency, gross, taxable, total, employer, net, deductionsJSON, status string

	if err := row.Scan(&p.EmployeeID, &start, &end, &frequency,
		&gross, &taxable, &total, &employer, &net, &deductionsJSON, &status); err != nil {
		return nil, err
	}

	var err error
	if p.PeriodStart, err = payroll.ParseDate(start); err != nil {
		return nil, err
	}
	if p.PeriodEnd, err = payroll.ParseDate(end); err != nil {
		return nil, err
	}
	p.Frequency = payroll.PayFrequency(frequency)
	// A persisted amount that no longer parses is corruption, not zero.
	if p.Gross, err = payroll.ParseMoney(gross); err != nil {
		return nil, err
	}
	if p.Taxable, err = payroll.ParseMoney(taxable); err != nil {
		return nil, err
	}
	if p.TotalDeductions, err = payroll.ParseMoney(total); err != nil {
		return nil, err
	}
	if p.EmployerContribution, err = payroll.ParseMoney(employer); err != nil {
		return nil, err
	}
	if p.Net, err = payroll.ParseMoney(net); err != nil {
		return nil, err
	}
	p.Status = payroll.PayslipStatus(status)

	var rows []deductionRow
	if err := json.Unmarshal([]byte(deductionsJSON), &rows); err != nil {
		return nil, err
	}
	for _, d := range rows {
		amount, err := payroll.ParseMoney(d.Amount)
		if err != nil {
			return nil, err
		}
		p.Deductions = append(p.Deductions, payroll.DeductionLine{
			Code: d.Code, Description: d.Description, Amount: amount,
		})
	}
	return &p, nil
}

// =============================================================================
// RULE PACKS
// =============================================================================

// SaveRulePack stores a JSON rule pack under its version.
func (s *Store) SaveRulePack(ctx context.Context, version string, packJSON []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rule_packs (version, pack_json, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(version) DO UPDATE SET pack_json = excluded.pack_json`,
		version, string(packJSON), time.Now().UTC().Format(time.RFC3339))
	return err
}

// LatestRulePack returns the most recently stored rule pack, or
// sql.ErrNoRows when none has been saved.
func (s *Store) LatestRulePack(ctx context.Context) (version string, packJSON []byte, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pack string
	err = s.db.QueryRowContext(ctx, `
		SELECT version, pack_json FROM rule_packs
		ORDER BY created_at DESC LIMIT 1`).Scan(&version, &pack)
	return version, []byte(pack), err
}
