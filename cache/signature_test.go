package cache

import (
	"errors"
	"testing"

	"github.com/jonwraymond/jitcache/tensor"
)

func mustTensor(t *testing.T) func(tn *tensor.Tensor, err error) *tensor.Tensor {
	t.Helper()
	return func(tn *tensor.Tensor, err error) *tensor.Tensor {
		t.Helper()
		if err != nil {
			t.Fatalf("tensor construction failed: %v", err)
		}
		return tn
	}
}

// TestBuildSignature_Determinism verifies that identical inputs built
// from independently constructed values produce equal signatures.
func TestBuildSignature_Determinism(t *testing.T) {
	build := func() *Signature {
		constant := mustTensor(t)(tensor.FromInt32s(tensor.NewShape(), 7))
		arg := mustTensor(t)(tensor.FromFloat32s(tensor.NewShape(2, 2), 1, 2, 3, 4))
		variable := mustTensor(t)(tensor.FromInt64s(tensor.NewShape(3), 1, 2, 3))

		sig, err := BuildSignature(
			Function{Name: "f", Attrs: map[string]string{"T": "float32"}},
			1,
			[]tensor.Optional{tensor.Some(variable)},
			TensorArgs{constant, arg},
		)
		if err != nil {
			t.Fatalf("BuildSignature() error = %v", err)
		}
		return sig
	}

	a, b := build(), build()

	if !a.Equal(b) {
		t.Error("structurally identical signatures compared unequal")
	}
	if a.Key() != b.Key() {
		t.Error("structurally identical signatures have different keys")
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("structurally identical signatures have different fingerprints")
	}
}

// TestBuildSignature_Discrimination verifies that changing any single
// identity component produces a distinct signature.
func TestBuildSignature_Discrimination(t *testing.T) {
	constant := func(v int32) *tensor.Tensor { return tensor.Int32Scalar(v) }
	matrix := func(dims ...int64) *tensor.Tensor {
		n := tensor.NewShape(dims...).NumElements()
		tn, err := tensor.FromFloat32s(tensor.NewShape(dims...), make([]float32, n)...)
		if err != nil {
			t.Fatalf("FromFloat32s() error = %v", err)
		}
		return tn
	}

	base := func() (*Signature, error) {
		return BuildSignature(
			Function{Name: "f"},
			1,
			[]tensor.Optional{tensor.Some(constant(9))},
			TensorArgs{constant(7), matrix(2, 2)},
		)
	}

	tests := []struct {
		name  string
		build func() (*Signature, error)
	}{
		{"different function name", func() (*Signature, error) {
			return BuildSignature(Function{Name: "g"}, 1,
				[]tensor.Optional{tensor.Some(constant(9))},
				TensorArgs{constant(7), matrix(2, 2)})
		}},
		{"different attrs", func() (*Signature, error) {
			return BuildSignature(Function{Name: "f", Attrs: map[string]string{"T": "int32"}}, 1,
				[]tensor.Optional{tensor.Some(constant(9))},
				TensorArgs{constant(7), matrix(2, 2)})
		}},
		{"different constant value", func() (*Signature, error) {
			return BuildSignature(Function{Name: "f"}, 1,
				[]tensor.Optional{tensor.Some(constant(9))},
				TensorArgs{constant(8), matrix(2, 2)})
		}},
		{"different argument shape", func() (*Signature, error) {
			return BuildSignature(Function{Name: "f"}, 1,
				[]tensor.Optional{tensor.Some(constant(9))},
				TensorArgs{constant(7), matrix(3, 3)})
		}},
		{"absent variable argument", func() (*Signature, error) {
			return BuildSignature(Function{Name: "f"}, 1,
				[]tensor.Optional{tensor.None()},
				TensorArgs{constant(7), matrix(2, 2)})
		}},
		{"constant demoted to runtime argument", func() (*Signature, error) {
			return BuildSignature(Function{Name: "f"}, 0,
				[]tensor.Optional{tensor.Some(constant(9))},
				TensorArgs{constant(7), matrix(2, 2)})
		}},
	}

	ref, err := base()
	if err != nil {
		t.Fatalf("base BuildSignature() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := tt.build()
			if err != nil {
				t.Fatalf("BuildSignature() error = %v", err)
			}
			if sig.Equal(ref) {
				t.Error("variant signature compared equal to base")
			}
			if sig.Key() == ref.Key() {
				t.Error("variant signature has the same key as base")
			}
		})
	}
}

// TestBuildSignature_OrderMatters verifies argument position is part of
// the identity.
func TestBuildSignature_OrderMatters(t *testing.T) {
	f32 := mustTensor(t)(tensor.FromFloat32s(tensor.NewShape(2), 0, 0))
	i32 := mustTensor(t)(tensor.FromInt32s(tensor.NewShape(2), 0, 0))

	a, err := BuildSignature(Function{Name: "f"}, 0, nil, TensorArgs{f32, i32})
	if err != nil {
		t.Fatalf("BuildSignature() error = %v", err)
	}
	b, err := BuildSignature(Function{Name: "f"}, 0, nil, TensorArgs{i32, f32})
	if err != nil {
		t.Fatalf("BuildSignature() error = %v", err)
	}

	if a.Key() == b.Key() {
		t.Error("signatures differing only in argument order share a key")
	}
}

// TestBuildSignature_Errors tests the failure taxonomy of signature
// construction.
func TestBuildSignature_Errors(t *testing.T) {
	scalar := tensor.Int32Scalar(1)

	tests := []struct {
		name            string
		fn              Function
		numConstantArgs int
		args            TensorArgs
		wantErr         error
	}{
		{"empty function name", Function{}, 0, TensorArgs{scalar}, ErrEmptyFunctionName},
		{"negative constant count", Function{Name: "f"}, -1, TensorArgs{scalar}, ErrInvalidConstantCount},
		{"constant count beyond args", Function{Name: "f"}, 2, TensorArgs{scalar}, ErrInvalidConstantCount},
		{"uninitialized constant", Function{Name: "f"}, 1, TensorArgs{nil}, ErrConstantNotInitialized},
		{"unavailable runtime argument", Function{Name: "f"}, 0, TensorArgs{nil}, ErrArgumentUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := BuildSignature(tt.fn, tt.numConstantArgs, nil, tt.args)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BuildSignature() error = %v, want %v", err, tt.wantErr)
			}
			if sig != nil {
				t.Error("BuildSignature() returned a signature alongside an error")
			}
		})
	}
}

// TestSignature_KeyInjectivity verifies length-prefixing keeps adjacent
// string components from aliasing.
func TestSignature_KeyInjectivity(t *testing.T) {
	scalar := tensor.Int32Scalar(1)

	a, err := BuildSignature(Function{Name: "f", Attrs: map[string]string{"a": "bc"}}, 0, nil, TensorArgs{scalar})
	if err != nil {
		t.Fatalf("BuildSignature() error = %v", err)
	}
	b, err := BuildSignature(Function{Name: "f", Attrs: map[string]string{"ab": "c"}}, 0, nil, TensorArgs{scalar})
	if err != nil {
		t.Fatalf("BuildSignature() error = %v", err)
	}

	if a.Key() == b.Key() {
		t.Error("attribute boundaries aliased in key encoding")
	}
}

// TestSignature_String tests the human-readable rendering.
func TestSignature_String(t *testing.T) {
	constant := tensor.Int32Scalar(7)
	arg := mustTensor(t)(tensor.FromFloat32s(tensor.NewShape(2, 2), 1, 2, 3, 4))

	sig, err := BuildSignature(
		Function{Name: "f", Attrs: map[string]string{"T": "float32"}},
		1,
		[]tensor.Optional{tensor.None()},
		TensorArgs{constant, arg},
	)
	if err != nil {
		t.Fatalf("BuildSignature() error = %v", err)
	}

	want := "f[T=float32](float32[2,2], absent); constants: int32[]{7}"
	if got := sig.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// TestSignature_AccessorsCopy verifies accessors do not expose internal
// state to mutation.
func TestSignature_AccessorsCopy(t *testing.T) {
	attrs := map[string]string{"T": "float32"}
	sig, err := BuildSignature(Function{Name: "f", Attrs: attrs}, 0, nil, TensorArgs{tensor.Int32Scalar(1)})
	if err != nil {
		t.Fatalf("BuildSignature() error = %v", err)
	}

	// Mutating the caller's map after construction must not change identity.
	key := sig.Key()
	attrs["T"] = "int64"
	if sig.Key() != key {
		t.Error("signature aliased the caller's attribute map")
	}

	// Mutating the returned copies must not change internal state.
	got := sig.Attrs()
	got["T"] = "bool"
	if sig.Attrs()["T"] != "float32" {
		t.Error("Attrs() exposed internal map")
	}

	specs := sig.ArgTypes()
	if len(specs) != 1 {
		t.Fatalf("ArgTypes() length = %d, want 1", len(specs))
	}
	specs[0] = tensor.Spec{}
	if !sig.ArgTypes()[0].Valid() {
		t.Error("ArgTypes() exposed internal slice")
	}
}
