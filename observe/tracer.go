package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// CompileMeta describes one compilation for telemetry purposes.
type CompileMeta struct {
	Function     string // name of the function being compiled (required)
	Fingerprint  string // short signature fingerprint (optional)
	NumArgs      int    // non-constant argument count
	NumConstants int    // compile-time constant argument count
}

// SpanName returns the deterministic span name for this compilation.
// Format: compile.cache.<function>
func (m CompileMeta) SpanName() string {
	return "compile.cache." + m.Function
}

// Tracer wraps OpenTelemetry tracing with compilation-specific span
// management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span covering one compiler invocation.
	StartSpan(ctx context.Context, meta CompileMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with compilation metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CompileMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("compile.function", meta.Function),
		attribute.Int("compile.args", meta.NumArgs),
		attribute.Int("compile.const_args", meta.NumConstants),
	}
	if meta.Fingerprint != "" {
		attrs = append(attrs, attribute.String("compile.signature", meta.Fingerprint))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta CompileMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
