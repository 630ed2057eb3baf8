package cache

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/jonwraymond/jitcache/observe"
	"github.com/jonwraymond/jitcache/tensor"
)

// Sentinel errors for signature construction and cache setup.
var (
	ErrNilCompiler            = errors.New("cache: compiler is nil")
	ErrEmptyFunctionName      = errors.New("cache: function name is empty")
	ErrInvalidConstantCount   = errors.New("cache: constant argument count out of range")
	ErrConstantNotInitialized = errors.New("cache: constant argument not yet initialized")
	ErrArgumentUnavailable    = errors.New("cache: argument is not available")
	ErrUnsupportedArgument    = errors.New("cache: unsupported argument kind")
)

// entry is the value stored per signature. The cache owns every entry
// for the process lifetime; entries are never evicted.
type entry struct {
	// sig is set before the entry is published and never changes.
	sig *Signature

	mu sync.Mutex

	// compiled transitions once from false to true when a compile
	// attempt finishes, success or failure. It is never reset and the
	// compiler is never invoked again for this signature.
	compiled   bool
	compileErr error
	result     *Result
	buildable  bool

	// Executable link state, resolved at most once, only on request.
	executableBuilt bool
	executable      Executable
	buildErr        error
}

// Cache memoizes Compiler invocations keyed by Signature.
//
// Contract:
//   - Concurrency: safe for concurrent use. At most one compiler
//     invocation runs per signature; distinct signatures compile in
//     parallel, contending only on a brief table-lock critical section.
//   - Growth: unbounded by design; entries live as long as the cache.
type Cache struct {
	compiler        Compiler
	inst            *observe.Instruments
	warmConcurrency int

	// mu guards the entries map structure only. It is held for
	// lookup-or-insert and key copying, never across a compile.
	mu      sync.Mutex
	entries map[string]*entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithInstruments sets the telemetry bundle the cache emits through.
func WithInstruments(inst *observe.Instruments) Option {
	return func(c *Cache) {
		if inst != nil {
			c.inst = inst
		}
	}
}

// WithLogger sets only the logger, keeping tracing and metrics no-op.
func WithLogger(logger observe.Logger) Option {
	return func(c *Cache) {
		c.inst = observe.NewInstruments(c.inst.Tracer, c.inst.Metrics, logger)
	}
}

// WithWarmConcurrency bounds how many compilations Warm runs at once.
// Values below one are ignored.
func WithWarmConcurrency(n int) Option {
	return func(c *Cache) {
		if n >= 1 {
			c.warmConcurrency = n
		}
	}
}

// New creates a compilation cache over the given compiler.
func New(compiler Compiler, opts ...Option) (*Cache, error) {
	if compiler == nil {
		return nil, ErrNilCompiler
	}
	c := &Cache{
		compiler:        compiler,
		inst:            observe.NoopInstruments(),
		warmConcurrency: runtime.GOMAXPROCS(0),
		entries:         make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Compile returns the memoized compilation result for the call described
// by fn, numConstantArgs, variableArgs, and args, compiling on first use.
// No executable is built. A cached failure is returned identically to
// every caller; the compiler is never re-invoked for the same signature.
func (c *Cache) Compile(ctx context.Context, fn Function, numConstantArgs int, variableArgs []tensor.Optional, args ArgumentSource) (*Result, error) {
	result, _, err := c.compile(ctx, fn, numConstantArgs, variableArgs, args, false)
	return result, err
}

// CompileExecutable is Compile plus executable production: the
// executable is linked on first request and reused afterwards. The
// returned executable may be nil even on success when the computation
// has no non-constant outputs to execute, or when the artifact is not
// buildable.
func (c *Cache) CompileExecutable(ctx context.Context, fn Function, numConstantArgs int, variableArgs []tensor.Optional, args ArgumentSource) (*Result, Executable, error) {
	return c.compile(ctx, fn, numConstantArgs, variableArgs, args, true)
}

// compile implements the double-checked per-entry locking protocol.
func (c *Cache) compile(ctx context.Context, fn Function, numConstantArgs int, variableArgs []tensor.Optional, args ArgumentSource, wantExecutable bool) (*Result, Executable, error) {
	sig, err := BuildSignature(fn, numConstantArgs, variableArgs, args)
	if err != nil {
		return nil, nil, err
	}

	meta := observe.CompileMeta{
		Function:     fn.Name,
		Fingerprint:  sig.Fingerprint(),
		NumArgs:      len(sig.argTypes),
		NumConstants: len(sig.argValues),
	}

	// Lookup or insert under the table lock. The table lock is released
	// before any compile work so one signature's compilation never
	// blocks lookups for unrelated signatures.
	c.mu.Lock()
	e, hit := c.entries[sig.Key()]
	if !hit {
		e = &entry{sig: sig}
		c.entries[sig.Key()] = e
	}
	c.mu.Unlock()

	c.inst.Metrics.RecordLookup(ctx, meta, hit)

	// All entry state is read and written under the entry lock, so no
	// caller observes a half-written result. A caller racing with the
	// first compiler finds compiled == true here and reuses the outcome.
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.compiled {
		c.runCompile(ctx, meta, e)
	}

	if e.compileErr != nil {
		return nil, nil, e.compileErr
	}

	var exec Executable
	if wantExecutable && e.buildable {
		if !e.executableBuilt {
			c.runBuildExecutable(ctx, meta, e)
		}
		if e.buildErr != nil {
			return nil, nil, e.buildErr
		}
		exec = e.executable
	}

	return e.result, exec, nil
}

// runCompile invokes the compiler exactly once for the entry's
// signature and records the outcome. Caller holds e.mu.
func (c *Cache) runCompile(ctx context.Context, meta observe.CompileMeta, e *entry) {
	ctx, span := c.inst.Tracer.StartSpan(ctx, meta)
	start := time.Now()

	result, buildable, err := c.compiler.Compile(ctx, e.sig)

	duration := time.Since(start)
	c.inst.Tracer.EndSpan(span, err)
	c.inst.Metrics.RecordCompile(ctx, meta, duration, err)

	logger := c.inst.Logger.WithCompile(meta)
	fields := []observe.Field{
		{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	}
	if err != nil {
		fields = append(fields, observe.Field{Key: "error", Value: err.Error()})
		logger.Error(ctx, "compilation failed", fields...)
		e.compileErr = err
	} else {
		logger.Debug(ctx, "compilation completed", fields...)
		e.result = result
		e.buildable = buildable
	}
	e.compiled = true
}

// runBuildExecutable links the executable exactly once for the entry.
// Caller holds e.mu and has checked e.buildable.
func (c *Cache) runBuildExecutable(ctx context.Context, meta observe.CompileMeta, e *entry) {
	exec, err := c.compiler.BuildExecutable(ctx, e.result)
	c.inst.Metrics.RecordExecutableBuild(ctx, meta, err)
	if err != nil {
		c.inst.Logger.WithCompile(meta).Error(ctx, "executable build failed",
			observe.Field{Key: "error", Value: err.Error()})
		e.buildErr = err
	} else {
		// May be nil: the computation has no non-constant outputs.
		e.executable = exec
	}
	e.executableBuilt = true
}

// Client returns the underlying compiler client handle.
func (c *Cache) Client() any {
	return c.compiler.Client()
}
