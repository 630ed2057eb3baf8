package tensor

// Spec pairs an element type with a static shape, describing an argument
// without committing to a value. The zero Spec (Invalid element type) is
// the distinct marker for an absent variable argument.
type Spec struct {
	DType DataType
	Shape Shape
}

// Valid reports whether the spec describes a concrete argument.
func (s Spec) Valid() bool {
	return s.DType.Valid()
}

// Equal reports whether both specs have the same element type and shape.
func (s Spec) Equal(other Spec) bool {
	return s.DType == other.DType && s.Shape.Equal(other.Shape)
}

// String renders the spec as "float32[2,3]"; the absent marker renders
// as "absent".
func (s Spec) String() string {
	if !s.Valid() {
		return "absent"
	}
	return s.DType.String() + s.Shape.String()
}
