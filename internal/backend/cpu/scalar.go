package cpu

import (
	"fmt"

	"github.com/born-ml/hbnn/internal/parallel"
	"github.com/born-ml/hbnn/internal/tensor"
)

// Scalar operations: element-wise arithmetic against a single value. The
// scalar must have the tensor's element type.

// AddScalar returns x + scalar.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(x, scalar, opAdd)
}

// SubScalar returns x - scalar.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(x, scalar, opSub)
}

// MulScalar returns x * scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(x, scalar, opMul)
}

// DivScalar returns x / scalar.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(x, scalar, opDiv)
}

func (cpu *CPUBackend) scalarOp(x *tensor.RawTensor, scalar any, op binOp) *tensor.RawTensor {
	out := cpu.alloc(x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		s, ok := scalar.(float32)
		if !ok {
			panic(fmt.Sprintf("cpu: %sScalar: want float32 scalar, got %T", op, scalar))
		}
		scalarKernel(out.AsFloat32(), x.AsFloat32(), s, op, cpu.par)
	case tensor.Float64:
		s, ok := scalar.(float64)
		if !ok {
			panic(fmt.Sprintf("cpu: %sScalar: want float64 scalar, got %T", op, scalar))
		}
		scalarKernel(out.AsFloat64(), x.AsFloat64(), s, op, cpu.par)
	case tensor.Int32:
		s, ok := scalar.(int32)
		if !ok {
			panic(fmt.Sprintf("cpu: %sScalar: want int32 scalar, got %T", op, scalar))
		}
		scalarKernel(out.AsInt32(), x.AsInt32(), s, op, cpu.par)
	case tensor.Int64:
		s, ok := scalar.(int64)
		if !ok {
			panic(fmt.Sprintf("cpu: %sScalar: want int64 scalar, got %T", op, scalar))
		}
		scalarKernel(out.AsInt64(), x.AsInt64(), s, op, cpu.par)
	default:
		panic(fmt.Sprintf("cpu: %sScalar: unsupported dtype %s", op, x.DType()))
	}
	return out
}

func scalarKernel[T number](dst, src []T, scalar T, op binOp, par parallel.Config) {
	switch op {
	case opAdd:
		parallel.ForChunks(len(dst), func(s, e int) {
			for i := s; i < e; i++ {
				dst[i] = src[i] + scalar
			}
		}, par)
	case opSub:
		parallel.ForChunks(len(dst), func(s, e int) {
			for i := s; i < e; i++ {
				dst[i] = src[i] - scalar
			}
		}, par)
	case opMul:
		parallel.ForChunks(len(dst), func(s, e int) {
			for i := s; i < e; i++ {
				dst[i] = src[i] * scalar
			}
		}, par)
	case opDiv:
		parallel.ForChunks(len(dst), func(s, e int) {
			for i := s; i < e; i++ {
				dst[i] = src[i] / scalar
			}
		}, par)
	}
}
