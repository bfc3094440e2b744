package fsm

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics provides Prometheus-compatible metrics for the compile
// pipeline, namespaced "fsmhdl_".
//
// Metrics exposed:
//
//  1. stage_duration_ms (histogram): wall time spent in each pipeline
//     stage. Labels: stage.
//  2. diagnostics_total (counter): diagnostics emitted, by stage and code.
//     Labels: stage, code.
//  3. paths_enumerated (gauge): number of root-to-terminal paths found by
//     the most recent compile.
//  4. equations_total (gauge): number of Boolean equations synthesized
//     (next-state plus output) by the most recent compile.
//  5. minimization_failures_total (counter): equations that fell back to
//     their unminimized form after exceeding the minimizer deadline.
type PrometheusMetrics struct {
	stageDuration          *prometheus.HistogramVec
	diagnostics            *prometheus.CounterVec
	pathsEnumerated        prometheus.Gauge
	equationsTotal         prometheus.Gauge
	minimizationFailures   prometheus.Counter

	mu      sync.RWMutex
	enabled bool
}

// NewPrometheusMetrics creates and registers all compile-pipeline metrics
// with registry. Pass prometheus.DefaultRegisterer for the global registry,
// or a fresh prometheus.NewRegistry() for test isolation.
//
//	registry := prometheus.NewRegistry()
//	metrics := fsm.NewPrometheusMetrics(registry)
//	out, err := fsm.Compile(ctx, doc, fsm.WithMetrics(metrics))
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	pm := &PrometheusMetrics{enabled: true}

	pm.stageDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fsmhdl",
		Name:      "stage_duration_ms",
		Help:      "Wall time spent in each compile pipeline stage, in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000},
	}, []string{"stage"})

	pm.diagnostics = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fsmhdl",
		Name:      "diagnostics_total",
		Help:      "Diagnostics emitted during compilation, by stage and code",
	}, []string{"stage", "code"})

	pm.pathsEnumerated = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "fsmhdl",
		Name:      "paths_enumerated",
		Help:      "Number of root-to-terminal paths found by the most recent compile",
	})

	pm.equationsTotal = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "fsmhdl",
		Name:      "equations_total",
		Help:      "Number of Boolean equations synthesized by the most recent compile",
	})

	pm.minimizationFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: "fsmhdl",
		Name:      "minimization_failures_total",
		Help:      "Equations that fell back to their unminimized form after the minimizer deadline elapsed",
	})

	return pm
}

// RecordStageDuration records how long stage took to run.
func (pm *PrometheusMetrics) RecordStageDuration(stage string, d time.Duration) {
	if !pm.isEnabled() {
		return
	}
	pm.stageDuration.WithLabelValues(stage).Observe(float64(d.Microseconds()) / 1000.0)
}

// IncrementDiagnostic records one diagnostic of the given stage and code.
func (pm *PrometheusMetrics) IncrementDiagnostic(stage, code string) {
	if !pm.isEnabled() {
		return
	}
	pm.diagnostics.WithLabelValues(stage, code).Inc()
}

// SetPathsEnumerated sets the path count for the current compile.
func (pm *PrometheusMetrics) SetPathsEnumerated(n int) {
	if !pm.isEnabled() {
		return
	}
	pm.pathsEnumerated.Set(float64(n))
}

// SetEquationsTotal sets the synthesized-equation count for the current compile.
func (pm *PrometheusMetrics) SetEquationsTotal(n int) {
	if !pm.isEnabled() {
		return
	}
	pm.equationsTotal.Set(float64(n))
}

// IncrementMinimizationFailures records one equation that missed its
// minimization deadline and was emitted unminimized.
func (pm *PrometheusMetrics) IncrementMinimizationFailures() {
	if !pm.isEnabled() {
		return
	}
	pm.minimizationFailures.Inc()
}

func (pm *PrometheusMetrics) isEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}

// Disable temporarily stops metric recording. Useful in tests that want to
// exercise the pipeline without touching a shared registry's values.
func (pm *PrometheusMetrics) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = false
}

// Enable re-enables metric recording after Disable.
func (pm *PrometheusMetrics) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = true
}
