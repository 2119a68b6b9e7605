// Package history provides a SQLite-backed ledger of completed runs: one
// summary row per run, written once at shutdown and read by `ralph history`.
// It never feeds state back into a run.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Record is one completed run.
type Record struct {
	RunID        string
	Engine       string
	Mode         string
	Iterations   int
	InputTokens  int
	OutputTokens int
	Outcome      string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration is the wall-clock length of the run.
func (r Record) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store provides SQLite-backed persistence for run records.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at dbPath and creates the table if it does
// not exist.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		engine TEXT NOT NULL,
		mode TEXT NOT NULL,
		iterations INTEGER NOT NULL,
		input_tokens INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Record inserts one completed run.
func (s *Store) Record(r Record) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, engine, mode, iterations, input_tokens, output_tokens, outcome, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Engine, r.Mode, r.Iterations, r.InputTokens, r.OutputTokens, r.Outcome, r.StartedAt, r.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Get retrieves a run by its identifier. Returns nil when not found.
func (s *Store) Get(runID string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT run_id, engine, mode, iterations, input_tokens, output_tokens, outcome, started_at, finished_at
		 FROM runs WHERE run_id = ?`,
		runID,
	)

	var r Record
	err := row.Scan(&r.RunID, &r.Engine, &r.Mode, &r.Iterations, &r.InputTokens, &r.OutputTokens, &r.Outcome, &r.StartedAt, &r.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return &r, nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT run_id, engine, mode, iterations, input_tokens, output_tokens, outcome, started_at, finished_at
		 FROM runs
		 ORDER BY finished_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.RunID, &r.Engine, &r.Mode, &r.Iterations, &r.InputTokens, &r.OutputTokens, &r.Outcome, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}
