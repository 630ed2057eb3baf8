package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records compilation cache activity.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly; recording is best-effort.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records one cache lookup and whether it hit an
	// already-resolved entry.
	RecordLookup(ctx context.Context, meta CompileMeta, hit bool)

	// RecordCompile records one actual compiler invocation with its
	// duration and error status.
	RecordCompile(ctx context.Context, meta CompileMeta, duration time.Duration, err error)

	// RecordExecutableBuild records one executable link step.
	RecordExecutableBuild(ctx context.Context, meta CompileMeta, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	lookupCount  metric.Int64Counter
	compileCount metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	buildCount   metric.Int64Counter
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	lookupCount, err := meter.Int64Counter(
		"compile.cache.lookups",
		metric.WithDescription("Total number of cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	compileCount, err := meter.Int64Counter(
		"compile.cache.compiles",
		metric.WithDescription("Total number of compiler invocations"),
		metric.WithUnit("{compile}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"compile.cache.errors",
		metric.WithDescription("Total number of failed compiler invocations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"compile.cache.duration_ms",
		metric.WithDescription("Compiler invocation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	buildCount, err := meter.Int64Counter(
		"compile.cache.executable_builds",
		metric.WithDescription("Total number of executable link steps"),
		metric.WithUnit("{build}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		lookupCount:  lookupCount,
		compileCount: compileCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		buildCount:   buildCount,
	}, nil
}

// attrs builds the common attribute set for a compilation.
func (m *metricsImpl) attrs(meta CompileMeta) []attribute.KeyValue {
	kv := []attribute.KeyValue{
		attribute.String("compile.function", meta.Function),
	}
	if meta.Fingerprint != "" {
		kv = append(kv, attribute.String("compile.signature", meta.Fingerprint))
	}
	return kv
}

// RecordLookup records a cache lookup with its hit/miss outcome.
func (m *metricsImpl) RecordLookup(ctx context.Context, meta CompileMeta, hit bool) {
	attrs := append(m.attrs(meta), attribute.Bool("cache.hit", hit))
	m.lookupCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordCompile records a compiler invocation.
func (m *metricsImpl) RecordCompile(ctx context.Context, meta CompileMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(m.attrs(meta)...)

	m.compileCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordExecutableBuild records an executable link step.
func (m *metricsImpl) RecordExecutableBuild(ctx context.Context, meta CompileMeta, err error) {
	attrs := append(m.attrs(meta), attribute.Bool("compile.build_error", err != nil))
	m.buildCount.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordLookup(ctx context.Context, meta CompileMeta, hit bool) {}

func (m *noopMetrics) RecordCompile(ctx context.Context, meta CompileMeta, duration time.Duration, err error) {
}

func (m *noopMetrics) RecordExecutableBuild(ctx context.Context, meta CompileMeta, err error) {}
