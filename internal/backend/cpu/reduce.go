package cpu

import (
	"fmt"

	"github.com/born-ml/hbnn/internal/tensor"
)

// Sum reduces all elements to a scalar-shaped tensor.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	out := cpu.alloc(tensor.Shape{}, x.DType())
	switch x.DType() {
	case tensor.Float32:
		var s float32
		for _, v := range x.AsFloat32() {
			s += v
		}
		out.AsFloat32()[0] = s
	case tensor.Float64:
		var s float64
		for _, v := range x.AsFloat64() {
			s += v
		}
		out.AsFloat64()[0] = s
	case tensor.Int32:
		var s int32
		for _, v := range x.AsInt32() {
			s += v
		}
		out.AsInt32()[0] = s
	case tensor.Int64:
		var s int64
		for _, v := range x.AsInt64() {
			s += v
		}
		out.AsInt64()[0] = s
	default:
		panic(fmt.Sprintf("cpu: sum: unsupported dtype %s", x.DType()))
	}
	return out
}

// SumDim sums along dim. Negative dims count from the end; with
// keepDim=false the reduced dimension is dropped from the result shape.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	d := tensor.NormalizeDim(dim, len(shape))
	out := cpu.alloc(reducedShape(shape, d, keepDim), x.DType())

	outer, size, inner := splitAt(shape, d)
	switch x.DType() {
	case tensor.Float32:
		reduceSum(out.AsFloat32(), x.AsFloat32(), outer, size, inner)
	case tensor.Float64:
		reduceSum(out.AsFloat64(), x.AsFloat64(), outer, size, inner)
	case tensor.Int32:
		reduceSum(out.AsInt32(), x.AsInt32(), outer, size, inner)
	case tensor.Int64:
		reduceSum(out.AsInt64(), x.AsInt64(), outer, size, inner)
	default:
		panic(fmt.Sprintf("cpu: sumdim: unsupported dtype %s", x.DType()))
	}
	return out
}

// MeanDim averages along dim. Negative dims count from the end.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	d := tensor.NormalizeDim(dim, len(shape))
	sum := cpu.SumDim(x, d, keepDim)

	n := shape[d]
	switch x.DType() {
	case tensor.Float32:
		return cpu.DivScalar(sum, float32(n))
	case tensor.Float64:
		return cpu.DivScalar(sum, float64(n))
	default:
		panic(fmt.Sprintf("cpu: meandim: unsupported dtype %s", x.DType()))
	}
}

// reducedShape drops or keeps the reduced dimension. Reducing the only
// dimension without keepDim yields a scalar shape.
func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for i, s := range shape {
		if i != dim {
			out = append(out, s)
		}
	}
	return out
}

// splitAt factors a shape into (outer, size, inner) around dim so that the
// flat index of element [o, d, i] is (o*size+d)*inner + i.
func splitAt(shape tensor.Shape, dim int) (outer, size, inner int) {
	outer, inner = 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, shape[dim], inner
}

func reduceSum[T number](dst, src []T, outer, size, inner int) {
	for o := 0; o < outer; o++ {
		base := o * inner
		for d := 0; d < size; d++ {
			row := src[(o*size+d)*inner : (o*size+d+1)*inner]
			for i, v := range row {
				dst[base+i] += v
			}
		}
	}
}
