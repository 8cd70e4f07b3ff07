package tensor

// DType is the type constraint for tensor element types.
//
// The Bayesian inference path runs in float64 throughout (log densities and
// their gradients are too fragile for single precision); float32 is kept for
// the prediction/plotting grid path, and the integer types for counts and
// index bookkeeping.
type DType interface {
	float32 | float64 | int32 | int64 | bool
}

// DataType identifies the element type of a RawTensor at runtime.
type DataType int

const (
	// Float32 is a 32-bit floating point element type.
	Float32 DataType = iota
	// Float64 is a 64-bit floating point element type.
	Float64
	// Int32 is a 32-bit signed integer element type.
	Int32
	// Int64 is a 64-bit signed integer element type.
	Int64
	// Bool is a boolean element type stored as one byte per element.
	Bool
)

// Size returns the size of one element in bytes.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Bool:
		return 1
	default:
		return 0
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// inferDataType maps a Go type parameter to its runtime DataType.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case bool:
		return Bool
	default:
		panic("tensor: unsupported element type")
	}
}
