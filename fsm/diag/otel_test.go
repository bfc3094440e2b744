package diag

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestOTelEmitter_Emit(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	d := Diagnostic{
		RunID:  "run-001",
		Stage:  StagePaths,
		Code:   CodeCycleDetected,
		NodeID: "nodeA",
		Msg:    "cycle detected",
		Meta: map[string]interface{}{
			"visited": 3,
		},
	}
	emitter.Emit(d)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	span := spans[0]

	if span.Name != string(CodeCycleDetected) {
		t.Errorf("span name = %q, want %q", span.Name, CodeCycleDetected)
	}

	attrs := attributeMap(span.Attributes)
	if got := attrs["fsmhdl.run_id"]; got != "run-001" {
		t.Errorf("run_id = %v, want %q", got, "run-001")
	}
	if got := attrs["fsmhdl.stage"]; got != string(StagePaths) {
		t.Errorf("stage = %v, want %q", got, StagePaths)
	}
	if got := attrs["fsmhdl.node_id"]; got != "nodeA" {
		t.Errorf("node_id = %v, want %q", got, "nodeA")
	}
	if got := attrs["visited"]; got != int64(3) {
		t.Errorf("visited = %v, want %d", got, 3)
	}

	if !span.EndTime.After(span.StartTime) {
		t.Error("span was not ended")
	}
}

func TestOTelEmitter_EmitSetsErrorStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	d := Diagnostic{
		RunID:  "run-001",
		Stage:  StageMinimize,
		Code:   CodeMinimizationFailed,
		NodeID: "Y1",
		Msg:    "minimization deadline exceeded",
	}
	emitter.Emit(d)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	span := spans[0]

	if span.Status.Code != codes.Error {
		t.Errorf("status code = %v, want %v", span.Status.Code, codes.Error)
	}
	if span.Status.Description != "minimization deadline exceeded" {
		t.Errorf("status description = %q, want %q", span.Status.Description, "minimization deadline exceeded")
	}
	if len(span.Events) == 0 {
		t.Error("expected a recorded error event, got none")
	}
}

func TestOTelEmitter_EmitBatch(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	ds := []Diagnostic{
		{RunID: "run-001", Code: CodeInvalidNodeShape, NodeID: "nodeA", Msg: "a"},
		{RunID: "run-001", Code: CodeMissingTarget, NodeID: "nodeA", Msg: "b"},
		{RunID: "run-001", Code: CodeCycleDetected, NodeID: "nodeB", Msg: "c"},
	}

	ctx := context.Background()
	if err := emitter.EmitBatch(ctx, ds); err != nil {
		t.Fatalf("EmitBatch failed: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}

	expectedNames := []string{
		string(CodeInvalidNodeShape),
		string(CodeMissingTarget),
		string(CodeCycleDetected),
	}
	for i, span := range spans {
		if span.Name != expectedNames[i] {
			t.Errorf("span[%d] name = %q, want %q", i, span.Name, expectedNames[i])
		}
	}

	for i, span := range spans {
		if !span.EndTime.After(span.StartTime) {
			t.Errorf("span[%d] was not ended", i)
		}
	}
}

func TestOTelEmitter_EmitBatch_Empty(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	ctx := context.Background()
	if err := emitter.EmitBatch(ctx, []Diagnostic{}); err != nil {
		t.Fatalf("EmitBatch failed on empty batch: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 0 {
		t.Errorf("expected 0 spans for empty batch, got %d", len(spans))
	}
}

func TestOTelEmitter_Flush(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	emitter.Emit(Diagnostic{RunID: "run-001", Code: CodeCycleDetected, NodeID: "nodeA", Msg: "cycle"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := emitter.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Errorf("expected 1 span after flush, got %d", len(spans))
	}
}

func TestOTelEmitter_Flush_Timeout(_ *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := emitter.Flush(ctx)
	_ = err
}

func TestOTelEmitter_MetadataTypes(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	d := Diagnostic{
		RunID:  "run-001",
		Code:   CodeAmbiguousIndicator,
		NodeID: "nodeA",
		Msg:    "test_types",
		Meta: map[string]interface{}{
			"string_val":   "hello",
			"int_val":      42,
			"int64_val":    int64(99),
			"float64_val":  3.14,
			"bool_val":     true,
			"duration_val": 250 * time.Millisecond,
		},
	}
	emitter.Emit(d)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	attrs := attributeMap(spans[0].Attributes)

	if got := attrs["string_val"]; got != "hello" {
		t.Errorf("string_val = %v, want %q", got, "hello")
	}
	if got := attrs["int_val"]; got != int64(42) {
		t.Errorf("int_val = %v, want %d", got, 42)
	}
	if got := attrs["int64_val"]; got != int64(99) {
		t.Errorf("int64_val = %v, want %d", got, 99)
	}
	if got := attrs["float64_val"]; got != 3.14 {
		t.Errorf("float64_val = %v, want %f", got, 3.14)
	}
	if got := attrs["bool_val"]; got != true {
		t.Errorf("bool_val = %v, want %t", got, true)
	}
	if got := attrs["duration_val"]; got != int64(250) {
		t.Errorf("duration_val = %v, want %d ms", got, 250)
	}
}

func TestOTelEmitter_NilMeta(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := otel.Tracer("test")
	emitter := NewOTelEmitter(tracer)

	d := Diagnostic{
		RunID:  "run-001",
		Code:   CodeMissingTarget,
		NodeID: "nodeA",
		Msg:    "missing target",
		Meta:   nil,
	}
	emitter.Emit(d)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	attrs := attributeMap(spans[0].Attributes)
	if got := attrs["fsmhdl.run_id"]; got != "run-001" {
		t.Errorf("run_id = %v, want %q", got, "run-001")
	}
}

func attributeMap(attrs []attribute.KeyValue) map[string]interface{} {
	m := make(map[string]interface{})
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}
