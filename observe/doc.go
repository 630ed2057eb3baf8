// Package observe provides observability primitives for the compilation
// cache: OpenTelemetry tracing and metrics plus a minimal structured
// logger.
//
// It is a pure instrumentation library: no compilation, no caching, no
// I/O beyond exporter setup. The cache package consumes it through the
// Instruments bundle; everything degrades to no-ops when unconfigured.
package observe
