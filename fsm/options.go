package fsm

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/ingsock/Chartonics/fsm/diag"
)

// Option configures a Compile call.
//
// Functional options keep Compile's signature stable as the pipeline grows
// observability knobs, while still reading as plain function calls at the
// call site:
//
//	out, err := fsm.Compile(ctx, doc,
//	    fsm.WithEntityName("traffic_light"),
//	    fsm.WithEmitter(diag.NewBufferedEmitter()),
//	    fsm.WithMinimizeDeadline(500*time.Millisecond),
//	)
type Option func(*compileConfig) error

// compileConfig collects options before Compile applies them.
type compileConfig struct {
	entityName       string
	emitter          diag.Emitter
	metrics          *PrometheusMetrics
	tracer           trace.Tracer
	minimizeDeadline time.Duration
}

func defaultCompileConfig() *compileConfig {
	return &compileConfig{
		entityName:       "fsm_top",
		emitter:          diag.NewNullEmitter(),
		minimizeDeadline: 2 * time.Second,
	}
}

// WithEntityName sets the VHDL entity name emitted by the VHDL stage.
//
// Default: "fsm_top". Must be a valid VHDL identifier; Compile does not
// validate this itself — an invalid name simply produces VHDL that won't
// elaborate, since entity naming is a caller concern, not a graph-shape
// concern.
func WithEntityName(name string) Option {
	return func(cfg *compileConfig) error {
		cfg.entityName = name
		return nil
	}
}

// WithEmitter routes every Diagnostic raised during compilation to emitter
// instead of the default NullEmitter.
//
// Example:
//
//	buf := diag.NewBufferedEmitter()
//	out, _ := fsm.Compile(ctx, doc, fsm.WithEmitter(buf))
//	for _, d := range buf.GetHistory(out.RunID) { ... }
func WithEmitter(emitter diag.Emitter) Option {
	return func(cfg *compileConfig) error {
		if emitter != nil {
			cfg.emitter = emitter
		}
		return nil
	}
}

// WithMetrics enables Prometheus metrics collection for this compile.
//
//	registry := prometheus.NewRegistry()
//	metrics := fsm.NewPrometheusMetrics(registry)
//	out, err := fsm.Compile(ctx, doc, fsm.WithMetrics(metrics))
func WithMetrics(metrics *PrometheusMetrics) Option {
	return func(cfg *compileConfig) error {
		cfg.metrics = metrics
		return nil
	}
}

// WithTracer enables OpenTelemetry tracing for this compile: each pipeline
// stage becomes a child span under a root "fsm.compile" span.
func WithTracer(tracer trace.Tracer) Option {
	return func(cfg *compileConfig) error {
		cfg.tracer = tracer
		return nil
	}
}

// WithMinimizeDeadline bounds how long the logic minimizer may spend
// reducing a single Boolean equation before falling back to the
// unminimized form.
//
// Default: 2s per equation. A deadline exceeded on one equation never
// aborts the compile: the unminimized equation is used, a
// minimization-failed Diagnostic with Meta["reason"]="deadline" is raised,
// and the remaining equations still get their own deadline.
func WithMinimizeDeadline(d time.Duration) Option {
	return func(cfg *compileConfig) error {
		if d > 0 {
			cfg.minimizeDeadline = d
		}
		return nil
	}
}
