package cache

import (
	"context"

	"github.com/jonwraymond/jitcache/tensor"
)

// Function identifies a compilable function: a name plus the attribute
// bindings it was instantiated with. Attributes participate in cache
// identity; two instantiations with different attributes compile
// separately.
type Function struct {
	Name  string
	Attrs map[string]string
}

// Result is the artifact produced by one successful compiler invocation.
// The cache stores it once per signature and hands the same instance to
// every caller; callers must treat it as read-only.
type Result struct {
	// Object is the compiled artifact in whatever form the Compiler
	// emits. The cache never interprets it.
	Object []byte

	// OutputSpecs describes the computation's outputs, in order.
	OutputSpecs []tensor.Spec
}

// Executable is a loaded form of a compilation result, ready to run.
type Executable interface {
	// Execute runs the compiled computation over the non-constant
	// inputs, in call order.
	Execute(ctx context.Context, inputs []*tensor.Tensor) ([]*tensor.Tensor, error)
}

// Compiler is the external ahead-of-time compiler the cache memoizes.
//
// Contract:
//   - Concurrency: the cache never invokes Compile concurrently for the
//     same signature, but may for distinct signatures.
//   - Determinism: Compile is invoked at most once per signature; its
//     outcome, success or failure, is cached and replayed.
//   - Context: ctx is the first requesting caller's context. The cache
//     never cancels an in-flight invocation on behalf of other callers.
type Compiler interface {
	// Compile lowers the function described by sig into an artifact.
	// buildable reports whether BuildExecutable can link the artifact.
	Compile(ctx context.Context, sig *Signature) (result *Result, buildable bool, err error)

	// BuildExecutable links an executable from a compilation result.
	// A nil executable with a nil error is a valid outcome: the
	// computation has no non-constant outputs to execute.
	BuildExecutable(ctx context.Context, result *Result) (Executable, error)

	// Client returns the underlying compiler client handle.
	Client() any
}
