package tensor

// DataType identifies the element type of a Tensor.
type DataType int

// Supported element types. Invalid is the zero value and marks an
// absent variable argument in signature specs.
const (
	Invalid DataType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Float32
	Float64
)

// Size returns the width of one element in bytes. Invalid has size zero.
func (d DataType) Size() int {
	switch d {
	case Bool, Int8, Uint8:
		return 1
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

// Valid reports whether d names a concrete element type.
func (d DataType) Valid() bool {
	return d > Invalid && d <= Float64
}

func (d DataType) String() string {
	switch d {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "invalid"
	}
}
