// Package tensor provides the value model consumed by compilation
// signatures: element types, static shapes, host-memory tensors, and
// possibly-absent tensor wrappers for uninitialized variable arguments.
package tensor
