package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"upkeep/internal/checks"
	"upkeep/internal/config"
)

// CheckStatus summarizes one check within a run.
type CheckStatus string

const (
	StatusOK          CheckStatus = "ok"
	StatusFindings    CheckStatus = "findings"
	StatusUnavailable CheckStatus = "unavailable"
)

// Run is one recorded maintenance pass.
type Run struct {
	ID         int64
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Findings   int
	Notified   bool
	Checks     []CheckRecord
}

// CheckRecord is one check's outcome within a run.
type CheckRecord struct {
	Check    string
	Status   CheckStatus
	Findings int
	Detail   string
}

// FindingRecord is one stored finding for the status view.
type FindingRecord struct {
	Category string
	Check    string
	Summary  string
	Detail   string
}

// Store persists run history in SQLite.
type Store struct {
	db        *sql.DB
	path      string
	retention int
}

// Open initializes or connects to the history database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.HistoryDBPath()
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, retention: cfg.History.RetentionRuns}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) applyMigrations(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			findings INTEGER NOT NULL DEFAULT 0,
			notified INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS run_checks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			check_name TEXT NOT NULL,
			status TEXT NOT NULL,
			findings INTEGER NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS run_findings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			check_name TEXT NOT NULL,
			summary TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_checks_run ON run_checks(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_run_findings_run ON run_findings(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// RecordRun stores a completed pass and prunes history past the retention
// limit.
func (s *Store) RecordRun(ctx context.Context, run Run, results []checks.Result) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, finished_at, findings, notified)
		 VALUES (?, ?, ?, ?, ?)`,
		run.RunID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		checks.TotalFindings(results),
		boolToInt(run.Notified),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	for _, result := range results {
		status := StatusOK
		switch {
		case result.Unavailable:
			status = StatusUnavailable
		case result.HasFindings():
			status = StatusFindings
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_checks (run_id, check_name, status, findings, detail)
			 VALUES (?, ?, ?, ?, ?)`,
			id, result.Check, string(status), len(result.Findings), result.Detail,
		); err != nil {
			return 0, fmt.Errorf("insert check record: %w", err)
		}
		for _, finding := range result.Findings {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_findings (run_id, category, check_name, summary, detail)
				 VALUES (?, ?, ?, ?, ?)`,
				id, string(finding.Category), finding.Check, finding.Summary, finding.Detail,
			); err != nil {
				return 0, fmt.Errorf("insert finding record: %w", err)
			}
		}
	}

	if s.retention > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM runs WHERE id NOT IN (
				SELECT id FROM runs ORDER BY id DESC LIMIT ?
			)`, s.retention,
		); err != nil {
			return 0, fmt.Errorf("prune history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	return id, nil
}

// RecentRuns returns the latest runs, newest first, with check records
// attached.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, started_at, finished_at, findings, notified
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		if err := s.attachChecks(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// LastRun returns the most recent run, or nil when history is empty.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	runs, err := s.RecentRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// FindingsForRun returns the stored findings of one run, insertion order.
func (s *Store) FindingsForRun(ctx context.Context, runID int64) ([]FindingRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, check_name, summary, detail
		 FROM run_findings WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	var findings []FindingRecord
	for rows.Next() {
		var f FindingRecord
		if err := rows.Scan(&f.Category, &f.Check, &f.Summary, &f.Detail); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		findings = append(findings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate findings: %w", err)
	}
	return findings, nil
}

func (s *Store) attachChecks(ctx context.Context, run *Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT check_name, status, findings, detail
		 FROM run_checks WHERE run_id = ? ORDER BY id`, run.ID)
	if err != nil {
		return fmt.Errorf("query check records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec CheckRecord
		var status string
		if err := rows.Scan(&rec.Check, &status, &rec.Findings, &rec.Detail); err != nil {
			return fmt.Errorf("scan check record: %w", err)
		}
		rec.Status = CheckStatus(status)
		run.Checks = append(run.Checks, rec)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var started, finished string
	var notified int
	if err := row.Scan(&run.ID, &run.RunID, &started, &finished, &run.Findings, &notified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Notified = notified != 0
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return Run{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
