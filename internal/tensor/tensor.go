package tensor

import (
	"fmt"
)

// Tensor is the typed view over a RawTensor, generic over element type T and
// compute backend B. All computation delegates to the backend so the same
// model code runs on the plain CPU backend (prediction) and the autodiff
// decorator (log-density gradients).
type Tensor[T DType, B Backend] struct {
	raw          *RawTensor
	backend      B
	grad         *RawTensor
	requiresGrad bool
}

// New wraps an existing RawTensor in a typed view.
// Panics if the runtime dtype disagrees with T.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	var zero T
	if want := inferDataType(zero); raw.DType() != want {
		panic(fmt.Sprintf("tensor: dtype mismatch: raw is %s, want %s", raw.DType(), want))
	}
	return &Tensor[T, B]{raw: raw, backend: b}
}

// FromSlice builds a tensor from a Go slice laid out in row-major order.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("tensor: data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}

	var zero T
	raw, err := NewRaw(shape, inferDataType(zero), b.Device())
	if err != nil {
		return nil, err
	}
	copy(typedData[T](raw), data)
	return New[T](raw, b), nil
}

// typedData returns the raw buffer as []T.
func typedData[T DType](raw *RawTensor) []T {
	switch any(*new(T)).(type) {
	case float32:
		return any(raw.AsFloat32()).([]T)
	case float64:
		return any(raw.AsFloat64()).([]T)
	case int32:
		return any(raw.AsInt32()).([]T)
	case int64:
		return any(raw.AsInt64()).([]T)
	case bool:
		return any(raw.AsBool()).([]T)
	default:
		panic("tensor: unsupported element type")
	}
}

// Shape returns the tensor shape.
func (t *Tensor[T, B]) Shape() Shape {
	return t.raw.Shape()
}

// DType returns the runtime element type.
func (t *Tensor[T, B]) DType() DataType {
	return t.raw.DType()
}

// Device returns the storage device.
func (t *Tensor[T, B]) Device() Device {
	return t.raw.Device()
}

// NumElements returns the element count.
func (t *Tensor[T, B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw exposes the untyped storage for backend-level code.
func (t *Tensor[T, B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the backend this tensor computes on.
func (t *Tensor[T, B]) Backend() B {
	return t.backend
}

// Data returns the elements as a []T sharing the tensor's storage.
func (t *Tensor[T, B]) Data() []T {
	return typedData[T](t.raw)
}

// Item returns the single element of a scalar (or one-element) tensor.
func (t *Tensor[T, B]) Item() T {
	if t.NumElements() != 1 {
		panic(fmt.Sprintf("tensor: Item on tensor with %d elements", t.NumElements()))
	}
	return t.Data()[0]
}

// At returns the element at the given multi-dimensional index.
func (t *Tensor[T, B]) At(indices ...int) T {
	return t.Data()[t.flatIndex(indices)]
}

// Set writes the element at the given multi-dimensional index.
func (t *Tensor[T, B]) Set(value T, indices ...int) {
	t.Data()[t.flatIndex(indices)] = value
}

func (t *Tensor[T, B]) flatIndex(indices []int) int {
	shape := t.raw.Shape()
	if len(indices) != len(shape) {
		panic(fmt.Sprintf("tensor: %d indices for %d-d tensor", len(indices), len(shape)))
	}
	flat := 0
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for dim %d (size %d)", idx, i, shape[i]))
		}
		flat += idx * t.raw.Strides()[i]
	}
	return flat
}

// Clone returns a deep copy on the same backend.
func (t *Tensor[T, B]) Clone() *Tensor[T, B] {
	return New[T](t.raw.Clone(), t.backend)
}

// Detach returns a view that shares storage but is cut off from gradient
// tracking.
func (t *Tensor[T, B]) Detach() *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.raw, backend: t.backend}
}

// RequireGrad marks this tensor as a differentiation leaf and returns it.
func (t *Tensor[T, B]) RequireGrad() *Tensor[T, B] {
	t.requiresGrad = true
	return t
}

// RequiresGrad reports whether the tensor is a differentiation leaf.
func (t *Tensor[T, B]) RequiresGrad() bool {
	return t.requiresGrad
}

// Grad returns the accumulated gradient, or nil before any backward pass.
func (t *Tensor[T, B]) Grad() *Tensor[T, B] {
	if t.grad == nil {
		return nil
	}
	return New[T](t.grad, t.backend)
}

// SetGrad installs a gradient computed by a backward pass.
func (t *Tensor[T, B]) SetGrad(grad *RawTensor) {
	t.grad = grad
}

// String renders a short description, not the full contents.
func (t *Tensor[T, B]) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s", t.DType(), t.Shape(), t.Device())
}
