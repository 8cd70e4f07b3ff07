package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/hbnn/internal/parallel"
	"github.com/born-ml/hbnn/internal/tensor"
)

// Element-wise math. Float tensors only; the log-density path runs these in
// float64, prediction grids in float32.

// Exp returns e^x element-wise.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, "exp", math.Exp)
}

// Log returns the natural logarithm element-wise.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, "log", math.Log)
}

// Sqrt returns the square root element-wise.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, "sqrt", math.Sqrt)
}

// Neg returns -x.
func (cpu *CPUBackend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, "neg", func(v float64) float64 { return -v })
}

// Tanh returns the hyperbolic tangent element-wise.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, "tanh", math.Tanh)
}

// Sigmoid returns 1 / (1 + exp(-x)) element-wise. Saturation at the tails
// follows IEEE semantics: exp overflow yields exactly 0 or 1.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, "sigmoid", sigmoid)
}

// Softplus returns log(1 + exp(x)) element-wise using the overflow-safe
// form max(x, 0) + log1p(exp(-|x|)).
func (cpu *CPUBackend) Softplus(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary(x, "softplus", softplus)
}

func sigmoid(v float64) float64 {
	return 1.0 / (1.0 + math.Exp(-v))
}

func softplus(v float64) float64 {
	return math.Max(v, 0) + math.Log1p(math.Exp(-math.Abs(v)))
}

func (cpu *CPUBackend) unary(x *tensor.RawTensor, name string, f func(float64) float64) *tensor.RawTensor {
	out := cpu.alloc(x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), out.AsFloat32()
		parallel.ForChunks(len(dst), func(s, e int) {
			for i := s; i < e; i++ {
				dst[i] = float32(f(float64(src[i])))
			}
		}, cpu.par)
	case tensor.Float64:
		src, dst := x.AsFloat64(), out.AsFloat64()
		parallel.ForChunks(len(dst), func(s, e int) {
			for i := s; i < e; i++ {
				dst[i] = f(src[i])
			}
		}, cpu.par)
	default:
		panic(fmt.Sprintf("cpu: %s: unsupported dtype %s", name, x.DType()))
	}
	return out
}
