// Package fsm compiles a Drawflow-style visual FSM graph into synthesizable
// VHDL.
package fsm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/ingsock/Chartonics/fsm/diag"
)

// CompileResult is everything Compile produces for one document: the
// rendered VHDL text, the full diagnostic trail, and the intermediate
// artifacts a caller may want to inspect (symbol table, state codes,
// enumerated paths) without re-running the pipeline.
type CompileResult struct {
	RunID       string
	EntityName  string
	VHDL        string
	Diagnostics []diag.Diagnostic
	Nodes       []Node
	Paths       []AnnotatedPath
	StateCodes  StateCode
	Symbols     SymbolTable
	Equations   Equations
}

// runCtx carries per-compile state threaded through every pipeline stage:
// the request context, its run id, resolved options, and a local
// diagnostic buffer the stage functions append to via emit.
type runCtx struct {
	ctx   context.Context
	runID string
	cfg   *compileConfig

	diagnostics []diag.Diagnostic
}

// emit records one Diagnostic: it is appended to the run's local buffer,
// forwarded to the configured Emitter, and (if metrics are enabled)
// counted by stage and code. Pipeline stages never return a Go error for
// malformed input; this is the sole channel they use instead.
func (r *runCtx) emit(stage diag.Stage, code diag.Code, nodeID, msg string, meta map[string]interface{}) {
	d := diag.Diagnostic{
		RunID:  r.runID,
		Stage:  stage,
		Code:   code,
		NodeID: nodeID,
		Msg:    msg,
		Meta:   meta,
	}
	r.diagnostics = append(r.diagnostics, d)
	r.cfg.emitter.Emit(d)
	if r.cfg.metrics != nil {
		r.cfg.metrics.IncrementDiagnostic(string(stage), string(code))
	}
}

// withStage runs fn, recording its wall time against stage via metrics and
// wrapping it in a child span when a tracer is configured.
func (r *runCtx) withStage(stage diag.Stage, fn func()) {
	start := time.Now()

	var span trace.Span
	if r.cfg.tracer != nil {
		_, span = r.cfg.tracer.Start(r.ctx, "fsm.compile."+string(stage))
	}

	fn()

	if span != nil {
		span.End()
	}
	if r.cfg.metrics != nil {
		r.cfg.metrics.RecordStageDuration(string(stage), time.Since(start))
	}
}

// Compile normalizes doc, enumerates and annotates its state-to-state
// paths, allocates binary state and symbol codes, synthesizes and
// minimizes Boolean equations, and emits the result as VHDL.
//
// Compile never returns an error for malformed or incomplete input: every
// recoverable problem is recorded as a Diagnostic in the result and
// compilation continues with a best-effort result. It returns an error
// only for the two caller mistakes it cannot recover from at all (a nil
// ctx or a nil doc) and for an error returned by one of opts.
func Compile(ctx context.Context, doc Document, opts ...Option) (CompileResult, error) {
	if ctx == nil {
		return CompileResult{}, ErrNilContext
	}
	if doc == nil {
		return CompileResult{}, ErrNilDocument
	}

	cfg := defaultCompileConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return CompileResult{}, err
		}
	}

	if cfg.tracer != nil {
		var span trace.Span
		ctx, span = cfg.tracer.Start(ctx, "fsm.compile")
		defer span.End()
	}

	r := &runCtx{ctx: ctx, runID: uuid.NewString(), cfg: cfg}

	var nodes []Node
	r.withStage(diag.StageNormalize, func() { nodes = r.normalize(doc) })

	var paths []Path
	r.withStage(diag.StagePaths, func() { paths = r.enumeratePaths(nodes) })

	var annotated []AnnotatedPath
	r.withStage(diag.StageAnnotate, func() { annotated = r.annotatePaths(nodes, paths) })

	var codes StateCode
	var symbols SymbolTable
	var moore MooreTable
	r.withStage(diag.StageSymbols, func() { codes, symbols, moore = r.allocateSymbols(nodes) })

	var eqs Equations
	r.withStage(diag.StageSynthesize, func() { eqs = r.synthesizeEquations(codes, symbols, moore, annotated) })

	r.withStage(diag.StageMinimize, func() {
		for i, eq := range eqs.NextState {
			eqs.NextState[i] = r.minimize(diag.StageMinimize, nextStateBitVar(i), eq, cfg.minimizeDeadline)
		}
		for name, eq := range eqs.Outputs {
			eqs.Outputs[name] = r.minimize(diag.StageMinimize, name, eq, cfg.minimizeDeadline)
		}
	})

	if cfg.metrics != nil {
		cfg.metrics.SetPathsEnumerated(len(paths))
		cfg.metrics.SetEquationsTotal(len(eqs.NextState) + len(eqs.Outputs))
	}

	var vhdl string
	r.withStage(diag.StageEmit, func() { vhdl = r.emitVHDL(cfg.entityName, symbols, eqs) })

	return CompileResult{
		RunID:       r.runID,
		EntityName:  cfg.entityName,
		VHDL:        vhdl,
		Diagnostics: r.diagnostics,
		Nodes:       nodes,
		Paths:       annotated,
		StateCodes:  codes,
		Symbols:     symbols,
		Equations:   eqs,
	}, nil
}
