package diag

import (
	"context"
	"sync"
)

// BufferedEmitter stores Diagnostics in memory, organized by RunID.
//
// Use cases:
//   - Tests asserting on which diagnostics a compile run produced.
//   - A server returning the diagnostics list alongside the VHDL output.
//   - Ad-hoc inspection of a compile run after the fact.
type BufferedEmitter struct {
	mu   sync.RWMutex
	runs map[string][]Diagnostic // runID -> diagnostics, in emission order
}

// Filter narrows GetHistoryWithFilter to diagnostics matching every
// non-zero field (AND semantics).
type Filter struct {
	Stage  Stage  // empty = no filter
	Code   Code   // empty = no filter
	NodeID string // empty = no filter
}

// NewBufferedEmitter returns an empty BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{runs: make(map[string][]Diagnostic)}
}

// Emit appends d to its run's history.
func (b *BufferedEmitter) Emit(d Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runs[d.RunID] = append(b.runs[d.RunID], d)
}

// EmitBatch appends every diagnostic in ds, preserving order.
func (b *BufferedEmitter) EmitBatch(ctx context.Context, ds []Diagnostic) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range ds {
		b.runs[d.RunID] = append(b.runs[d.RunID], d)
	}
	return nil
}

// Flush is a no-op: BufferedEmitter has nothing to deliver downstream.
func (b *BufferedEmitter) Flush(ctx context.Context) error {
	return nil
}

// GetHistory returns a copy of every Diagnostic recorded for runID, in
// emission order. Returns an empty (non-nil) slice if runID is unknown.
func (b *BufferedEmitter) GetHistory(runID string) []Diagnostic {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot(b.runs[runID])
}

// GetHistoryWithFilter returns a copy of the diagnostics recorded for runID
// that match every non-zero field of filter.
func (b *BufferedEmitter) GetHistoryWithFilter(runID string, filter Filter) []Diagnostic {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ds := b.runs[runID]
	if filter.Stage == "" && filter.Code == "" && filter.NodeID == "" {
		return b.snapshot(ds)
	}

	result := make([]Diagnostic, 0, len(ds))
	for _, d := range ds {
		if filter.Stage != "" && d.Stage != filter.Stage {
			continue
		}
		if filter.Code != "" && d.Code != filter.Code {
			continue
		}
		if filter.NodeID != "" && d.NodeID != filter.NodeID {
			continue
		}
		result = append(result, d)
	}
	return result
}

// Clear removes the recorded diagnostics for runID, or every run if runID
// is empty.
func (b *BufferedEmitter) Clear(runID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if runID == "" {
		b.runs = make(map[string][]Diagnostic)
		return
	}
	delete(b.runs, runID)
}

func (b *BufferedEmitter) snapshot(ds []Diagnostic) []Diagnostic {
	result := make([]Diagnostic, len(ds))
	copy(result, ds)
	return result
}
