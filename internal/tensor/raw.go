// Package tensor implements the typed tensor core: raw storage with
// copy-on-write buffers, shapes with NumPy-style broadcasting, and the
// generic Tensor view parameterized over element type and compute backend.
package tensor

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Device identifies where a tensor's storage lives.
//
// Only CPU exists today; the type is kept so a future accelerator backend
// can slot in behind the Backend interface without touching callers.
type Device int

// CPU is host memory.
const CPU Device = iota

// String returns the device name.
func (d Device) String() string {
	if d == CPU {
		return "cpu"
	}
	return "unknown"
}

// tensorBuffer is the refcounted backing storage shared by tensor views.
//
// The refcount enables copy-on-write: backends may mutate a buffer in place
// only while it is uniquely referenced.
type tensorBuffer struct {
	data []byte
	refs atomic.Int64
}

func newTensorBuffer(size int) *tensorBuffer {
	tb := &tensorBuffer{data: make([]byte, size)}
	tb.refs.Store(1)
	return tb
}

func (tb *tensorBuffer) addRef() {
	tb.refs.Add(1)
}

func (tb *tensorBuffer) release() {
	tb.refs.Add(-1)
}

func (tb *tensorBuffer) isUnique() bool {
	return tb.refs.Load() == 1
}

// RawTensor is the untyped storage layer underneath Tensor.
//
// It owns a byte buffer plus the metadata needed to interpret it: shape,
// row-major strides, element type, and device. Backends operate on
// RawTensors; the generic Tensor adds compile-time element typing on top.
type RawTensor struct {
	buffer  *tensorBuffer
	shape   Shape
	strides []int
	dtype   DataType
	device  Device
}

// NewRaw allocates a zeroed RawTensor with the given shape and element type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("tensor: %w", err)
	}
	if dtype.Size() == 0 {
		return nil, fmt.Errorf("tensor: invalid dtype %d", dtype)
	}

	return &RawTensor{
		buffer:  newTensorBuffer(shape.NumElements() * dtype.Size()),
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		dtype:   dtype,
		device:  device,
	}, nil
}

// Shape returns the tensor's shape. Callers must not mutate it.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns row-major strides in elements.
func (r *RawTensor) Strides() []int {
	return r.strides
}

// DType returns the element type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns where the storage lives.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total element count.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the storage size in bytes.
func (r *RawTensor) ByteSize() int {
	return len(r.buffer.data)
}

// Data exposes the raw bytes. Intended for backends and serialization only.
func (r *RawTensor) Data() []byte {
	return r.buffer.data
}

// AsFloat32 reinterprets the buffer as []float32.
// Panics if the dtype does not match.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor: AsFloat32 on %s tensor", r.dtype))
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.buffer.data[0])), r.NumElements())
}

// AsFloat64 reinterprets the buffer as []float64.
// Panics if the dtype does not match.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor: AsFloat64 on %s tensor", r.dtype))
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.buffer.data[0])), r.NumElements())
}

// AsInt32 reinterprets the buffer as []int32.
// Panics if the dtype does not match.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("tensor: AsInt32 on %s tensor", r.dtype))
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&r.buffer.data[0])), r.NumElements())
}

// AsInt64 reinterprets the buffer as []int64.
// Panics if the dtype does not match.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("tensor: AsInt64 on %s tensor", r.dtype))
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&r.buffer.data[0])), r.NumElements())
}

// AsBool reinterprets the buffer as []bool (one byte per element).
// Panics if the dtype does not match.
func (r *RawTensor) AsBool() []bool {
	if r.dtype != Bool {
		panic(fmt.Sprintf("tensor: AsBool on %s tensor", r.dtype))
	}
	return unsafe.Slice((*bool)(unsafe.Pointer(&r.buffer.data[0])), r.NumElements())
}

// Clone returns a deep copy with its own buffer.
func (r *RawTensor) Clone() *RawTensor {
	out, err := NewRaw(r.shape, r.dtype, r.device)
	if err != nil {
		panic(fmt.Sprintf("tensor: clone failed: %v", err))
	}
	copy(out.buffer.data, r.buffer.data)
	return out
}

// Release drops this tensor's reference to the shared buffer.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// IsUnique reports whether this tensor is the sole owner of its buffer,
// which is what permits in-place computation in the backends.
func (r *RawTensor) IsUnique() bool {
	return r.buffer.isUnique()
}

// ForceNonUnique pins the buffer as shared for the duration of a forward
// operation and returns the undo function:
//
//	defer x.ForceNonUnique()()
//
// The autodiff decorator uses this so that no backend can overwrite an
// operand in place while the tape still references it for the backward pass.
func (r *RawTensor) ForceNonUnique() func() {
	r.buffer.addRef()
	return func() { r.buffer.release() }
}
