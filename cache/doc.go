// Package cache memoizes the results of an ahead-of-time Compiler.
//
// The compiler requires static shapes and compile-time constant values,
// so every distinct combination of function, argument types/shapes, and
// constant argument values is specialized separately. The cache keys
// compiled artifacts on that structural signature and guarantees at most
// one compiler invocation per signature, success or failure, while
// unrelated signatures compile in parallel.
//
// The cache is intentionally unbounded and in-memory for the lifetime of
// the owning process: no eviction, no persistence, no cross-process
// sharing.
package cache
