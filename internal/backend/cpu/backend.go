// Package cpu implements tensor.Backend in pure Go.
//
// Element-wise kernels run over contiguous buffers with a broadcast slow
// path, large loops are chunked across goroutines, and binary operations
// reuse the left operand's buffer when it is uniquely referenced (the
// autodiff decorator pins operands shared before delegating here, so tape
// inputs are never clobbered).
package cpu

import (
	"fmt"

	"github.com/born-ml/hbnn/internal/parallel"
	"github.com/born-ml/hbnn/internal/tensor"
)

// CPUBackend computes tensor operations on the host.
type CPUBackend struct {
	device tensor.Device
	par    parallel.Config
}

// New creates a CPU backend with default parallelism.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		par:    parallel.DefaultConfig(),
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "cpu"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// number covers the element types binary arithmetic is defined on.
type number interface {
	float32 | float64 | int32 | int64
}

type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
)

func (op binOp) String() string {
	switch op {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	case opMul:
		return "mul"
	case opDiv:
		return "div"
	default:
		return "?"
	}
}

// Add returns a + b with broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(a, b, opAdd)
}

// Sub returns a - b with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(a, b, opSub)
}

// Mul returns the element-wise product with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(a, b, opMul)
}

// Div returns the element-wise quotient with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(a, b, opDiv)
}

func (cpu *CPUBackend) binary(a, b *tensor.RawTensor, op binOp) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("cpu: %s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}

	outShape, broadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: %s: %v", op, err))
	}

	if !broadcast {
		// Reuse a's buffer when nothing else references it.
		out := a
		if !a.IsUnique() {
			out = cpu.alloc(outShape, a.DType())
		}
		switch a.DType() {
		case tensor.Float32:
			binaryContiguous(out.AsFloat32(), a.AsFloat32(), b.AsFloat32(), op, cpu.par)
		case tensor.Float64:
			binaryContiguous(out.AsFloat64(), a.AsFloat64(), b.AsFloat64(), op, cpu.par)
		case tensor.Int32:
			binaryContiguous(out.AsInt32(), a.AsInt32(), b.AsInt32(), op, cpu.par)
		case tensor.Int64:
			binaryContiguous(out.AsInt64(), a.AsInt64(), b.AsInt64(), op, cpu.par)
		default:
			panic(fmt.Sprintf("cpu: %s: unsupported dtype %s", op, a.DType()))
		}
		return out
	}

	out := cpu.alloc(outShape, a.DType())
	switch a.DType() {
	case tensor.Float32:
		binaryBroadcast(out.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, op)
	case tensor.Float64:
		binaryBroadcast(out.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, op)
	case tensor.Int32:
		binaryBroadcast(out.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, op)
	case tensor.Int64:
		binaryBroadcast(out.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, op)
	default:
		panic(fmt.Sprintf("cpu: %s: unsupported dtype %s", op, a.DType()))
	}
	return out
}

func binaryContiguous[T number](dst, a, b []T, op binOp, par parallel.Config) {
	switch op {
	case opAdd:
		parallel.ForChunks(len(dst), func(s, e int) {
			for i := s; i < e; i++ {
				dst[i] = a[i] + b[i]
			}
		}, par)
	case opSub:
		parallel.ForChunks(len(dst), func(s, e int) {
			for i := s; i < e; i++ {
				dst[i] = a[i] - b[i]
			}
		}, par)
	case opMul:
		parallel.ForChunks(len(dst), func(s, e int) {
			for i := s; i < e; i++ {
				dst[i] = a[i] * b[i]
			}
		}, par)
	case opDiv:
		parallel.ForChunks(len(dst), func(s, e int) {
			for i := s; i < e; i++ {
				dst[i] = a[i] / b[i]
			}
		}, par)
	}
}

// broadcastStrides returns per-output-dimension strides into a source shape,
// with stride 0 where the source broadcasts (missing or size-1 dimension).
func broadcastStrides(src, out tensor.Shape) []int {
	srcStrides := src.ComputeStrides()
	strides := make([]int, len(out))
	offset := len(out) - len(src)
	for d := range out {
		sd := d - offset
		if sd < 0 || src[sd] == 1 {
			strides[d] = 0
			continue
		}
		strides[d] = srcStrides[sd]
	}
	return strides
}

func binaryBroadcast[T number](dst, a, b []T, aShape, bShape, outShape tensor.Shape, op binOp) {
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		ai, bi := 0, 0
		rem := i
		for d := range outShape {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			ai += coord * aStrides[d]
			bi += coord * bStrides[d]
		}
		switch op {
		case opAdd:
			dst[i] = a[ai] + b[bi]
		case opSub:
			dst[i] = a[ai] - b[bi]
		case opMul:
			dst[i] = a[ai] * b[bi]
		case opDiv:
			dst[i] = a[ai] / b[bi]
		}
	}
}

// alloc creates a result tensor or panics; allocation failures inside
// backend ops are not recoverable by callers.
func (cpu *CPUBackend) alloc(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	out, err := tensor.NewRaw(shape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cpu: failed to allocate result: %v", err))
	}
	return out
}
