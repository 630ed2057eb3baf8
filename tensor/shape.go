package tensor

import (
	"strconv"
	"strings"
)

// Shape is the ordered dimension list of a tensor, in row-major order.
// The zero value is the scalar shape. Shapes are immutable after
// construction.
type Shape struct {
	dims []int64
}

// NewShape returns a shape with the given dimensions. The dims slice is
// copied; negative dimensions are clamped to zero.
func NewShape(dims ...int64) Shape {
	if len(dims) == 0 {
		return Shape{}
	}
	copied := make([]int64, len(dims))
	for i, d := range dims {
		if d < 0 {
			d = 0
		}
		copied[i] = d
	}
	return Shape{dims: copied}
}

// Rank returns the number of dimensions. Scalars have rank zero.
func (s Shape) Rank() int {
	return len(s.dims)
}

// Dim returns the size of dimension i.
func (s Shape) Dim(i int) int64 {
	return s.dims[i]
}

// Dims returns a copy of the dimension list.
func (s Shape) Dims() []int64 {
	if len(s.dims) == 0 {
		return nil
	}
	return append([]int64(nil), s.dims...)
}

// NumElements returns the total element count: the product of all
// dimensions, or 1 for scalars.
func (s Shape) NumElements() int64 {
	n := int64(1)
	for _, d := range s.dims {
		n *= d
	}
	return n
}

// Equal reports whether both shapes have identical rank and dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s.dims) != len(other.dims) {
		return false
	}
	for i, d := range s.dims {
		if d != other.dims[i] {
			return false
		}
	}
	return true
}

// String renders the shape as "[2,3]"; scalars render as "[]".
func (s Shape) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, d := range s.dims {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(d, 10))
	}
	sb.WriteByte(']')
	return sb.String()
}
