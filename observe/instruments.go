package observe

// Instruments bundles the tracer, metrics, and logger the compilation
// cache emits through. Any field may be backed by a no-op.
//
// Contract:
//   - Concurrency: all three components are safe for concurrent use.
//   - Errors: telemetry failures never propagate into cache results.
type Instruments struct {
	Tracer  Tracer
	Metrics Metrics
	Logger  Logger
}

// NewInstruments creates an Instruments bundle from explicit components.
// Nil components are replaced with no-ops.
func NewInstruments(tracer Tracer, metrics Metrics, logger Logger) *Instruments {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Instruments{
		Tracer:  tracer,
		Metrics: metrics,
		Logger:  logger,
	}
}

// InstrumentsFromObserver creates an Instruments bundle from an Observer.
// This is the common wiring path.
func InstrumentsFromObserver(obs Observer) (*Instruments, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewInstruments(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// NoopInstruments returns an Instruments bundle that records nothing.
func NoopInstruments() *Instruments {
	return NewInstruments(nil, nil, nil)
}
