package tensor

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors for tensor construction.
var (
	ErrInvalidDType = errors.New("tensor: invalid data type")
	ErrSizeMismatch = errors.New("tensor: payload size does not match shape")
)

// Tensor is an immutable host-memory value: an element type, a static
// shape, and the raw little-endian payload bits.
//
// Contract:
// - Immutability: a Tensor is never modified after construction.
// - Identity: two tensors are equal iff element type, shape, and payload
//   bits all match.
type Tensor struct {
	dtype DataType
	shape Shape
	data  []byte
}

// New builds a tensor from raw payload bytes. The payload length must
// equal shape.NumElements() * dtype.Size(); the payload is copied.
func New(dtype DataType, shape Shape, data []byte) (*Tensor, error) {
	if !dtype.Valid() {
		return nil, ErrInvalidDType
	}
	want := shape.NumElements() * int64(dtype.Size())
	if int64(len(data)) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(data), want)
	}
	return &Tensor{
		dtype: dtype,
		shape: shape,
		data:  append([]byte(nil), data...),
	}, nil
}

// FromInt32s builds an Int32 tensor from values in row-major order.
func FromInt32s(shape Shape, values ...int32) (*Tensor, error) {
	data := make([]byte, 0, len(values)*4)
	for _, v := range values {
		data = binary.LittleEndian.AppendUint32(data, uint32(v))
	}
	return New(Int32, shape, data)
}

// FromInt64s builds an Int64 tensor from values in row-major order.
func FromInt64s(shape Shape, values ...int64) (*Tensor, error) {
	data := make([]byte, 0, len(values)*8)
	for _, v := range values {
		data = binary.LittleEndian.AppendUint64(data, uint64(v))
	}
	return New(Int64, shape, data)
}

// FromFloat32s builds a Float32 tensor from values in row-major order.
func FromFloat32s(shape Shape, values ...float32) (*Tensor, error) {
	data := make([]byte, 0, len(values)*4)
	for _, v := range values {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
	}
	return New(Float32, shape, data)
}

// Int32Scalar builds a scalar Int32 tensor. It cannot fail.
func Int32Scalar(v int32) *Tensor {
	t, _ := FromInt32s(Shape{}, v)
	return t
}

// DType returns the element type.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// Shape returns the static shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Spec returns the (element type, shape) pair describing this tensor.
func (t *Tensor) Spec() Spec {
	return Spec{DType: t.dtype, Shape: t.shape}
}

// NumElements returns the total element count.
func (t *Tensor) NumElements() int64 {
	return t.shape.NumElements()
}

// Data returns the raw payload bits. Callers must not modify the
// returned slice.
func (t *Tensor) Data() []byte {
	return t.data
}

// Equal reports whether both tensors have identical element type, shape,
// and payload bits. A nil tensor equals only another nil tensor.
func (t *Tensor) Equal(other *Tensor) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.dtype == other.dtype &&
		t.shape.Equal(other.shape) &&
		bytes.Equal(t.data, other.data)
}

// maxRenderedElements bounds how many element values String prints.
const maxRenderedElements = 8

// String renders the tensor as "int32[2,2]{1 2 3 4}". Payloads larger
// than maxRenderedElements elements are elided.
func (t *Tensor) String() string {
	if t == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString(t.dtype.String())
	sb.WriteString(t.shape.String())
	sb.WriteByte('{')
	n := t.NumElements()
	render := n
	if render > maxRenderedElements {
		render = maxRenderedElements
	}
	for i := int64(0); i < render; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.element(i))
	}
	if n > render {
		sb.WriteString(" ...")
	}
	sb.WriteByte('}')
	return sb.String()
}

// element renders the i-th element value.
func (t *Tensor) element(i int64) string {
	off := i * int64(t.dtype.Size())
	switch t.dtype {
	case Bool:
		if t.data[off] != 0 {
			return "true"
		}
		return "false"
	case Int8:
		return fmt.Sprintf("%d", int8(t.data[off]))
	case Uint8:
		return fmt.Sprintf("%d", t.data[off])
	case Int16:
		return fmt.Sprintf("%d", int16(binary.LittleEndian.Uint16(t.data[off:])))
	case Int32:
		return fmt.Sprintf("%d", int32(binary.LittleEndian.Uint32(t.data[off:])))
	case Int64:
		return fmt.Sprintf("%d", int64(binary.LittleEndian.Uint64(t.data[off:])))
	case Float32:
		return fmt.Sprintf("%g", math.Float32frombits(binary.LittleEndian.Uint32(t.data[off:])))
	case Float64:
		return fmt.Sprintf("%g", math.Float64frombits(binary.LittleEndian.Uint64(t.data[off:])))
	default:
		return "?"
	}
}
