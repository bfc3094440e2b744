package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/ingsock/Chartonics/fsm/diag"
)

// MySQLStore is a MySQL/MariaDB-backed Store.
//
// Designed for servers that archive compile runs across multiple instances
// (e.g. behind a load balancer) and need that history to survive any one
// instance's restart.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a new MySQL-backed store.
//
// The DSN (Data Source Name) format is:
//
//	[username[:password]@][protocol[(address)]]/dbname[?param1=value1&...]
//
// Example:
//
//	store, err := store.NewMySQLStore("user:pass@tcp(localhost:3306)/fsmhdl?parseTime=true")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// NEVER hardcode credentials in source; read the DSN from an environment
// variable or secrets manager.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	if _, err := db.ExecContext(ctx, mysqlSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS compiled_runs (
	run_id      VARCHAR(255) PRIMARY KEY,
	entity_name VARCHAR(255) NOT NULL,
	vhdl        LONGTEXT NOT NULL,
	diagnostics JSON NOT NULL,
	created_at  DATETIME NOT NULL,
	INDEX idx_created_at (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

// Close closes the underlying connection pool.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

// SaveRun persists run, replacing any prior row with the same RunID.
func (s *MySQLStore) SaveRun(ctx context.Context, run CompiledRun) error {
	diagsJSON, err := json.Marshal(run.Diagnostics)
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compiled_runs (run_id, entity_name, vhdl, diagnostics, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			entity_name = VALUES(entity_name),
			vhdl        = VALUES(vhdl),
			diagnostics = VALUES(diagnostics),
			created_at  = VALUES(created_at)
	`, run.RunID, run.EntityName, run.VHDL, string(diagsJSON), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert compiled run: %w", err)
	}
	return nil
}

// GetRun retrieves a previously saved run by ID.
func (s *MySQLStore) GetRun(ctx context.Context, runID string) (CompiledRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, entity_name, vhdl, diagnostics, created_at
		FROM compiled_runs WHERE run_id = ?
	`, runID)

	var run CompiledRun
	var diagsJSON string
	if err := row.Scan(&run.RunID, &run.EntityName, &run.VHDL, &diagsJSON, &run.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return CompiledRun{}, ErrNotFound
		}
		return CompiledRun{}, fmt.Errorf("scan compiled run: %w", err)
	}

	var ds []diag.Diagnostic
	if err := json.Unmarshal([]byte(diagsJSON), &ds); err != nil {
		return CompiledRun{}, fmt.Errorf("unmarshal diagnostics: %w", err)
	}
	run.Diagnostics = ds

	return run, nil
}

// ListRuns returns the most recently saved runs, newest first.
func (s *MySQLStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT run_id, entity_name, created_at, JSON_LENGTH(diagnostics)
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
