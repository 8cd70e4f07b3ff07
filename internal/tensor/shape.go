package tensor

import "fmt"

// Shape describes the dimensions of a tensor.
//
// A nil or empty Shape denotes a scalar. Dimension order is row-major:
// for the grouped data used throughout this repo, [G, Nmax, D] means
// G groups of Nmax (padded) points with D features each.
type Shape []int

// NumElements returns the total number of elements for this shape.
// A scalar shape has one element.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate returns an error if any dimension is non-positive.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("shape: dimension %d is %d, must be positive", i, dim)
		}
	}
	return nil
}

// Equal reports whether two shapes have identical dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// ComputeStrides returns row-major strides in elements (not bytes).
//
// For shape [G, N, D] the strides are [N*D, D, 1].
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	stride := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= s[i]
	}
	return strides
}

// String renders the shape as [d0, d1, ...].
func (s Shape) String() string {
	return fmt.Sprintf("%v", []int(s))
}

// BroadcastShapes computes the broadcast result shape of a and b using
// NumPy rules: shapes align from the right, and each dimension pair must be
// equal or contain a 1.
//
// The second return value reports whether any broadcasting actually happens
// (false when the shapes are already equal).
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	if a.Equal(b) {
		return a.Clone(), false, nil
	}

	ndim := len(a)
	if len(b) > ndim {
		ndim = len(b)
	}

	out := make(Shape, ndim)
	for i := 0; i < ndim; i++ {
		da, db := 1, 1
		if idx := len(a) - ndim + i; idx >= 0 {
			da = a[idx]
		}
		if idx := len(b) - ndim + i; idx >= 0 {
			db = b[idx]
		}

		switch {
		case da == db:
			out[i] = da
		case da == 1:
			out[i] = db
		case db == 1:
			out[i] = da
		default:
			return nil, false, fmt.Errorf("shape: cannot broadcast %v with %v (dim %d: %d vs %d)", a, b, i, da, db)
		}
	}

	return out, true, nil
}

// NormalizeDim maps a possibly negative dimension index onto [0, ndim).
// Panics when the index is out of range, matching the backends' shape
// error policy.
func NormalizeDim(dim, ndim int) int {
	d := dim
	if d < 0 {
		d += ndim
	}
	if d < 0 || d >= ndim {
		panic(fmt.Sprintf("shape: dimension %d out of range for %d-d tensor", dim, ndim))
	}
	return d
}
