package diag

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter records Diagnostics as OpenTelemetry spans.
//
// Each Diagnostic becomes a span that is ended as soon as it has been
// annotated: name is d.Code, attributes
// carry runID/stage/nodeID/meta, status is set to Error (with d.Msg
// recorded) since every Diagnostic represents something the pipeline could
// not fully honor.
//
// Usage:
//
//	tracer := otel.Tracer("fsmhdl")
//	emitter := diag.NewOTelEmitter(tracer)
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter returns an OTelEmitter using tracer to create spans.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit creates and immediately ends a span for d.
func (o *OTelEmitter) Emit(d Diagnostic) {
	_, span := o.tracer.Start(context.Background(), string(d.Code))
	defer span.End()
	o.annotate(span, d)
}

// EmitBatch creates one span per diagnostic in ds, in order.
func (o *OTelEmitter) EmitBatch(ctx context.Context, ds []Diagnostic) error {
	for _, d := range ds {
		_, span := o.tracer.Start(ctx, string(d.Code))
		o.annotate(span, d)
		span.End()
	}
	return nil
}

// Flush force-flushes the active TracerProvider if it supports it.
func (o *OTelEmitter) Flush(ctx context.Context) error {
	tp := otel.GetTracerProvider()
	type flusher interface {
		ForceFlush(context.Context) error
	}
	if f, ok := tp.(flusher); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}

func (o *OTelEmitter) annotate(span trace.Span, d Diagnostic) {
	span.SetAttributes(
		attribute.String("fsmhdl.run_id", d.RunID),
		attribute.String("fsmhdl.stage", string(d.Stage)),
		attribute.String("fsmhdl.node_id", d.NodeID),
	)
	span.SetStatus(codes.Error, d.Msg)
	span.RecordError(fmt.Errorf("%s", d.Msg))

	for key, value := range d.Meta {
		switch v := value.(type) {
		case string:
			span.SetAttributes(attribute.String(key, v))
		case int:
			span.SetAttributes(attribute.Int(key, v))
		case int64:
			span.SetAttributes(attribute.Int64(key, v))
		case float64:
			span.SetAttributes(attribute.Float64(key, v))
		case bool:
			span.SetAttributes(attribute.Bool(key, v))
		case time.Duration:
			span.SetAttributes(attribute.Int64(key, int64(v/time.Millisecond)))
		default:
			span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}
}
