// Package diag provides the diagnostics channel for the FSM compiler.
package diag

import "context"

// Emitter receives Diagnostics raised while compiling a document.
//
// Emitters enable pluggable observability backends:
//   - Logging: stdout, files.
//   - Distributed tracing: OpenTelemetry.
//   - In-memory buffering for tests and post-compile inspection.
//
// Implementations should be non-blocking and safe for concurrent use: the
// pipeline itself is single-threaded per request, but a server embedding it
// may run multiple compilations concurrently, each with its own Emitter or
// sharing one across requests.
type Emitter interface {
	// Emit records a single Diagnostic. Implementations must not panic and
	// must not block the compilation pipeline for any meaningful duration.
	Emit(d Diagnostic)

	// EmitBatch records multiple Diagnostics in one call, preserving order.
	// Returns an error only on catastrophic failures (e.g. a closed sink);
	// individual diagnostic failures should be absorbed, not returned.
	EmitBatch(ctx context.Context, ds []Diagnostic) error

	// Flush ensures any buffered Diagnostics reach their backend. Safe to
	// call multiple times. Should respect ctx cancellation.
	Flush(ctx context.Context) error
}
