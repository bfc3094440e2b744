package diag

import "context"

// NullEmitter discards every Diagnostic it receives.
//
// Use it when diagnostic capture is not wanted — e.g. a caller that only
// cares about the VHDL output, or a benchmark that wants to measure the
// pipeline without emitter overhead.
type NullEmitter struct{}

// NewNullEmitter returns an Emitter that discards everything. Safe for
// concurrent use; has zero overhead.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit discards d.
func (n *NullEmitter) Emit(d Diagnostic) {}

// EmitBatch discards ds and never errors.
func (n *NullEmitter) EmitBatch(ctx context.Context, ds []Diagnostic) error {
	return nil
}

// Flush is a no-op.
func (n *NullEmitter) Flush(ctx context.Context) error {
	return nil
}
