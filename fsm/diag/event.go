// Package diag provides the diagnostics channel for the FSM compiler.
//
// The compilation pipeline never aborts on malformed input: instead each
// stage emits a Diagnostic describing what it skipped or could not fully
// translate, and keeps producing the best result it can. Diagnostic is the
// structured record of one such event; Emitter is the pluggable sink it is
// sent to (discard, buffer, log, or trace).
package diag

// Code is one of the fixed diagnostic codes the pipeline can emit.
//
// The vocabulary is closed and is part of the compiler's public contract:
// callers may switch on Code without needing to parse Msg.
type Code string

const (
	// CodeInvalidNodeShape marks a document entry that is missing a
	// required field or is not a mapping.
	CodeInvalidNodeShape Code = "invalid-node-shape"

	// CodeIDMismatch marks a node whose stored id disagrees with the key
	// used to index it in the document.
	CodeIDMismatch Code = "id-mismatch"

	// CodeMissingTarget marks a connection whose peer node id is absent
	// from the node index.
	CodeMissingTarget Code = "missing-target"

	// CodeCycleDetected marks a DFS branch that re-entered an
	// already-visited intermediate node and was cut off.
	CodeCycleDetected Code = "cycle-detected"

	// CodeAmbiguousIndicator marks a step whose predecessor is a Decision
	// but whose originating port could not be resolved to output_1 or
	// output_2.
	CodeAmbiguousIndicator Code = "ambiguous-indicator"

	// CodeUnknownStateCode marks a path whose start or end state has no
	// assigned binary code. The synthesizer also raises it for a Decision
	// or Event step whose input or output name is missing from the
	// allocated symbol table.
	CodeUnknownStateCode Code = "unknown-state-code"

	// CodeMinimizationFailed marks an equation that could not be reduced
	// (deadline exceeded or internal error) and was kept unminimized.
	CodeMinimizationFailed Code = "minimization-failed"

	// CodeNoStartStates marks a document that contains no State nodes at
	// all, so no paths or equations can be produced.
	CodeNoStartStates Code = "no-start-states"
)

// Stage identifies which pipeline stage raised a Diagnostic.
type Stage string

const (
	StageNormalize  Stage = "normalize"  // Graph Normalizer (4.A)
	StagePaths      Stage = "paths"      // Path Enumerator (4.B)
	StageAnnotate   Stage = "annotate"   // Path Annotator (4.C)
	StageSymbols    Stage = "symbols"    // Symbol Allocator (4.D)
	StageSynthesize Stage = "synthesize" // Equation Synthesizer (4.E)
	StageMinimize   Stage = "minimize"   // Logic Minimizer (4.F)
	StageEmit       Stage = "emit"       // VHDL Emitter (4.G)
)

// Diagnostic is one structured warning or error produced while compiling a
// single document. The pipeline never raises a Go error for these; it
// records a Diagnostic and continues with a best-effort result.
type Diagnostic struct {
	// RunID identifies the compilation request that produced this
	// diagnostic. fsm.Compile assigns a fresh UUID to every run.
	RunID string

	// Stage is the pipeline component that raised the diagnostic.
	Stage Stage

	// Code is the fixed diagnostic code, see the Code constants above.
	Code Code

	// NodeID is the document node id most relevant to the diagnostic,
	// empty when the diagnostic is not tied to a specific node.
	NodeID string

	// Msg is a human-readable description of what happened.
	Msg string

	// Meta carries additional structured context, e.g. {"reason":
	// "deadline"} for CodeMinimizationFailed or {"port": "output_3"} for
	// CodeAmbiguousIndicator.
	Meta map[string]interface{}
}
