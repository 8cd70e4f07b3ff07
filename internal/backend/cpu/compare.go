package cpu

import (
	"fmt"

	"github.com/born-ml/hbnn/internal/tensor"
)

// Comparisons produce Bool tensors. Operand shapes must match exactly;
// broadcast a threshold with Full/Expand first if needed.

// Greater returns a > b element-wise.
func (cpu *CPUBackend) Greater(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compare(a, b, "greater", func(cmp int) bool { return cmp > 0 })
}

// GreaterEqual returns a >= b element-wise.
func (cpu *CPUBackend) GreaterEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compare(a, b, "greaterequal", func(cmp int) bool { return cmp >= 0 })
}

// Lower returns a < b element-wise.
func (cpu *CPUBackend) Lower(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compare(a, b, "lower", func(cmp int) bool { return cmp < 0 })
}

func (cpu *CPUBackend) compare(a, b *tensor.RawTensor, name string, keep func(int) bool) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("cpu: %s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("cpu: %s: shape mismatch %v vs %v", name, a.Shape(), b.Shape()))
	}

	out := cpu.alloc(a.Shape(), tensor.Bool)
	dst := out.AsBool()
	switch a.DType() {
	case tensor.Float32:
		compareKernel(dst, a.AsFloat32(), b.AsFloat32(), keep)
	case tensor.Float64:
		compareKernel(dst, a.AsFloat64(), b.AsFloat64(), keep)
	case tensor.Int32:
		compareKernel(dst, a.AsInt32(), b.AsInt32(), keep)
	case tensor.Int64:
		compareKernel(dst, a.AsInt64(), b.AsInt64(), keep)
	default:
		panic(fmt.Sprintf("cpu: %s: unsupported dtype %s", name, a.DType()))
	}
	return out
}

func compareKernel[T number](dst []bool, a, b []T, keep func(int) bool) {
	for i := range dst {
		cmp := 0
		switch {
		case a[i] > b[i]:
			cmp = 1
		case a[i] < b[i]:
			cmp = -1
		}
		dst[i] = keep(cmp)
	}
}

// Where selects x where condition is true, else y. All three tensors must
// share a shape, and x and y a dtype.
func (cpu *CPUBackend) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	if condition.DType() != tensor.Bool {
		panic(fmt.Sprintf("cpu: where: condition must be bool, got %s", condition.DType()))
	}
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("cpu: where: dtype mismatch %s vs %s", x.DType(), y.DType()))
	}
	if !condition.Shape().Equal(x.Shape()) || !x.Shape().Equal(y.Shape()) {
		panic(fmt.Sprintf("cpu: where: shape mismatch %v / %v / %v",
			condition.Shape(), x.Shape(), y.Shape()))
	}

	out := cpu.alloc(x.Shape(), x.DType())
	cond := condition.AsBool()
	es := x.DType().Size()
	outData, xData, yData := out.Data(), x.Data(), y.Data()
	for i, c := range cond {
		src := yData
		if c {
			src = xData
		}
		copy(outData[i*es:(i+1)*es], src[i*es:(i+1)*es])
	}
	return out
}

// Cast converts x to the given element type. Bool sources map to 0/1,
// bool destinations hold v != 0.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.Clone()
	}

	out := cpu.alloc(x.Shape(), dtype)
	switch x.DType() {
	case tensor.Float32:
		castInto(out, x.AsFloat32())
	case tensor.Float64:
		castInto(out, x.AsFloat64())
	case tensor.Int32:
		castInto(out, x.AsInt32())
	case tensor.Int64:
		castInto(out, x.AsInt64())
	case tensor.Bool:
		castBoolInto(out, x.AsBool())
	default:
		panic(fmt.Sprintf("cpu: cast: unsupported source dtype %s", x.DType()))
	}
	return out
}

func castInto[S number](dst *tensor.RawTensor, src []S) {
	switch dst.DType() {
	case tensor.Float32:
		d := dst.AsFloat32()
		for i, v := range src {
			d[i] = float32(v)
		}
	case tensor.Float64:
		d := dst.AsFloat64()
		for i, v := range src {
			d[i] = float64(v)
		}
	case tensor.Int32:
		d := dst.AsInt32()
		for i, v := range src {
			d[i] = int32(v)
		}
	case tensor.Int64:
		d := dst.AsInt64()
		for i, v := range src {
			d[i] = int64(v)
		}
	case tensor.Bool:
		d := dst.AsBool()
		for i, v := range src {
			d[i] = v != 0
		}
	}
}

func castBoolInto(dst *tensor.RawTensor, src []bool) {
	switch dst.DType() {
	case tensor.Float32:
		d := dst.AsFloat32()
		for i, v := range src {
			if v {
				d[i] = 1
			}
		}
	case tensor.Float64:
		d := dst.AsFloat64()
		for i, v := range src {
			if v {
				d[i] = 1
			}
		}
	case tensor.Int32:
		d := dst.AsInt32()
		for i, v := range src {
			if v {
				d[i] = 1
			}
		}
	case tensor.Int64:
		d := dst.AsInt64()
		for i, v := range src {
			if v {
				d[i] = 1
			}
		}
	}
}
