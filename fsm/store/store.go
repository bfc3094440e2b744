// Package store provides optional persistence for compiled FSM runs.
//
// It is never touched by fsm.Compile itself: the compiler is a pure,
// request-scoped function. A caller that wants a durable record of what was
// compiled — for audit, replay of the diagnostics feed, or serving a
// "history" endpoint — saves the CompiledRun after Compile returns. This
// mirrors how the original tool wrote output.vhd and drawflow_export.json
// to disk as a side effect of the HTTP handler, not of the compiler.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ingsock/Chartonics/fsm/diag"
)

// ErrNotFound is returned when a requested run ID does not exist.
var ErrNotFound = errors.New("not found")

// CompiledRun is the archived record of a single compilation.
type CompiledRun struct {
	RunID       string
	EntityName  string
	VHDL        string
	Diagnostics []diag.Diagnostic
	CreatedAt   time.Time
}

// RunSummary is the lightweight listing form of CompiledRun, omitting the
// VHDL body and full diagnostics payload.
type RunSummary struct {
	RunID          string
	EntityName     string
	CreatedAt      time.Time
	DiagnosticCount int
}

// Store persists and retrieves CompiledRuns.
//
// Implementations:
//   - MemStore: in-memory, for tests and single-process servers.
//   - SQLiteStore: durable single-file storage.
//   - MySQLStore: durable shared storage for multi-instance deployments.
type Store interface {
	// SaveRun persists run, replacing any prior run with the same RunID.
	SaveRun(ctx context.Context, run CompiledRun) error

	// GetRun retrieves a previously saved run by ID. Returns ErrNotFound if
	// runID is unknown.
	GetRun(ctx context.Context, runID string) (CompiledRun, error)

	// ListRuns returns the most recent runs, newest first, capped at limit.
	// A limit <= 0 means no cap.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}
