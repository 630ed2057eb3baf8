package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func testTracer(t *testing.T) (*tracetest.SpanRecorder, Tracer) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return recorder, newTracer(tp.Tracer("test"))
}

// TestTracer_SpanAttributes verifies span naming and compile attributes.
func TestTracer_SpanAttributes(t *testing.T) {
	recorder, tracer := testTracer(t)

	meta := CompileMeta{
		Function:     "matmul",
		Fingerprint:  "abc123",
		NumArgs:      2,
		NumConstants: 1,
	}
	_, span := tracer.StartSpan(context.Background(), meta)
	tracer.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	got := spans[0]

	if got.Name() != "compile.cache.matmul" {
		t.Errorf("span name = %q, want %q", got.Name(), "compile.cache.matmul")
	}
	if got.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", got.Status().Code)
	}

	attrs := make(map[string]any)
	for _, kv := range got.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	if attrs["compile.function"] != "matmul" {
		t.Errorf("compile.function = %v, want matmul", attrs["compile.function"])
	}
	if attrs["compile.signature"] != "abc123" {
		t.Errorf("compile.signature = %v, want abc123", attrs["compile.signature"])
	}
	if attrs["compile.const_args"] != int64(1) {
		t.Errorf("compile.const_args = %v, want 1", attrs["compile.const_args"])
	}
}

// TestTracer_ErrorStatus verifies a failed compile marks the span.
func TestTracer_ErrorStatus(t *testing.T) {
	recorder, tracer := testTracer(t)

	_, span := tracer.StartSpan(context.Background(), CompileMeta{Function: "f"})
	tracer.EndSpan(span, errors.New("lowering failed"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[0].Status().Code)
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected a recorded error event")
	}
}
