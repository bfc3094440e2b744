package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ingsock/Chartonics/fsm/diag"
)

// SQLiteStore is a SQLite-backed Store.
//
// Designed for:
//   - Development and testing with zero external setup.
//   - Single-process servers that want compile-run history to survive a
//     restart.
//
// Schema: a single compiled_runs table keyed by run_id, with the
// diagnostics slice stored as a JSON column.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) a SQLite database at path
// and ensures its schema exists.
//
//	store, err := store.NewSQLiteStore("./fsmhdl.db")
//	if err != nil { ... }
//	defer store.Close()
//
// path may be ":memory:" for an ephemeral in-process database, useful in
// tests that want to exercise the real SQL path without a file on disk.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite connection: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS compiled_runs (
	run_id      TEXT PRIMARY KEY,
	entity_name TEXT NOT NULL,
	vhdl        TEXT NOT NULL,
	diagnostics TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
`

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun persists run, replacing any prior row with the same RunID.
func (s *SQLiteStore) SaveRun(ctx context.Context, run CompiledRun) error {
	diagsJSON, err := json.Marshal(run.Diagnostics)
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compiled_runs (run_id, entity_name, vhdl, diagnostics, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			entity_name = excluded.entity_name,
			vhdl        = excluded.vhdl,
			diagnostics = excluded.diagnostics,
			created_at  = excluded.created_at
	`, run.RunID, run.EntityName, run.VHDL, string(diagsJSON), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert compiled run: %w", err)
	}
	return nil
}

// GetRun retrieves a previously saved run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (CompiledRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, entity_name, vhdl, diagnostics, created_at
		FROM compiled_runs WHERE run_id = ?
	`, runID)

	var run CompiledRun
	var diagsJSON string
	var createdAt time.Time
	if err := row.Scan(&run.RunID, &run.EntityName, &run.VHDL, &diagsJSON, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return CompiledRun{}, ErrNotFound
		}
		return CompiledRun{}, fmt.Errorf("scan compiled run: %w", err)
	}
	run.CreatedAt = createdAt

	var ds []diag.Diagnostic
	if err := json.Unmarshal([]byte(diagsJSON), &ds); err != nil {
		return CompiledRun{}, fmt.Errorf("unmarshal diagnostics: %w", err)
	}
	run.Diagnostics = ds

	return run, nil
}

// ListRuns returns the most recently saved runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT run_id, entity_name, created_at, json_array_length(diagnostics)
		FROM compiled_runs ORDER BY created_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query compiled runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var rs RunSummary
		if err := rows.Scan(&rs.RunID, &rs.EntityName, &rs.CreatedAt, &rs.DiagnosticCount); err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		summaries = append(summaries, rs)
	}
	return summaries, rows.Err()
}
