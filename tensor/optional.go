package tensor

// Optional is a possibly-absent Tensor. It models resource and variable
// arguments that may not have been initialized yet: an absent value is a
// distinct state, not an error, and keys differently from any present
// value in a compilation signature.
type Optional struct {
	present bool
	value   *Tensor
}

// Some wraps a present tensor. Some(nil) is equivalent to None().
func Some(t *Tensor) Optional {
	return Optional{present: t != nil, value: t}
}

// None returns the absent value.
func None() Optional {
	return Optional{}
}

// Present reports whether a value is held.
func (o Optional) Present() bool {
	return o.present
}

// Value returns the held tensor and whether one is present.
func (o Optional) Value() (*Tensor, bool) {
	return o.value, o.present
}

// String renders the held tensor, or "absent".
func (o Optional) String() string {
	if !o.present {
		return "absent"
	}
	return o.value.String()
}
