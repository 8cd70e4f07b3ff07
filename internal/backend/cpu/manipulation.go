package cpu

import (
	"fmt"

	"github.com/born-ml/hbnn/internal/tensor"
)

// Reshape returns a tensor with the same elements in a new shape.
func (cpu *CPUBackend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if x.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("cpu: reshape: cannot reshape %v (%d elements) to %v (%d elements)",
			x.Shape(), x.NumElements(), newShape, newShape.NumElements()))
	}
	out := cpu.alloc(newShape, x.DType())
	copy(out.Data(), x.Data())
	return out
}

// Transpose permutes dimensions. With no axes the order is fully reversed;
// otherwise axes must be a permutation of all dimensions.
func (cpu *CPUBackend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("cpu: transpose: %d axes for %d-d tensor", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("cpu: transpose: axes %v is not a permutation of 0..%d", axes, ndim-1))
		}
		seen[ax] = true
	}

	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		outShape[i] = shape[ax]
	}
	out := cpu.alloc(outShape, x.DType())

	srcStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	es := x.DType().Size()
	srcData, outData := x.Data(), out.Data()

	n := x.NumElements()
	for i := 0; i < n; i++ {
		// Map the output flat index back to a source flat index through
		// the axis permutation.
		si := 0
		rem := i
		for d := 0; d < ndim; d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			si += coord * srcStrides[axes[d]]
		}
		copy(outData[i*es:(i+1)*es], srcData[si*es:(si+1)*es])
	}
	return out
}

// Expand broadcasts x to a larger shape. Every expanded dimension must be
// missing or size 1 in the source.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	srcShape := x.Shape()
	if len(newShape) < len(srcShape) {
		panic(fmt.Sprintf("cpu: expand: target %v has fewer dims than %v", newShape, srcShape))
	}
	offset := len(newShape) - len(srcShape)
	for d, size := range newShape {
		sd := d - offset
		if sd < 0 {
			continue
		}
		if srcShape[sd] != 1 && srcShape[sd] != size {
			panic(fmt.Sprintf("cpu: expand: cannot expand %v to %v (dim %d)", srcShape, newShape, d))
		}
	}

	out := cpu.alloc(newShape, x.DType())
	srcStrides := broadcastStrides(srcShape, newShape)
	outStrides := newShape.ComputeStrides()
	es := x.DType().Size()
	srcData, outData := x.Data(), out.Data()

	n := newShape.NumElements()
	for i := 0; i < n; i++ {
		si := 0
		rem := i
		for d := range newShape {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			si += coord * srcStrides[d]
		}
		copy(outData[i*es:(i+1)*es], srcData[si*es:(si+1)*es])
	}
	return out
}

// Cat concatenates tensors along dim. Inputs must share dtype and agree on
// every dimension except dim.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cpu: cat: no tensors")
	}
	first := tensors[0]
	d := tensor.NormalizeDim(dim, len(first.Shape()))

	catSize := 0
	for _, t := range tensors {
		if t.DType() != first.DType() {
			panic(fmt.Sprintf("cpu: cat: dtype mismatch %s vs %s", t.DType(), first.DType()))
		}
		ts := t.Shape()
		if len(ts) != len(first.Shape()) {
			panic(fmt.Sprintf("cpu: cat: rank mismatch %v vs %v", ts, first.Shape()))
		}
		for i := range ts {
			if i != d && ts[i] != first.Shape()[i] {
				panic(fmt.Sprintf("cpu: cat: shapes %v and %v disagree on dim %d", ts, first.Shape(), i))
			}
		}
		catSize += ts[d]
	}

	outShape := first.Shape().Clone()
	outShape[d] = catSize
	out := cpu.alloc(outShape, first.DType())

	// Copy block-wise: each input contributes (size_d * inner) contiguous
	// elements per outer slice.
	es := first.DType().Size()
	outer, _, inner := splitAt(outShape, d)
	outData := out.Data()
	outRow := catSize * inner * es

	colOffset := 0
	for _, t := range tensors {
		size := t.Shape()[d]
		block := size * inner * es
		srcData := t.Data()
		for o := 0; o < outer; o++ {
			dst := outData[o*outRow+colOffset : o*outRow+colOffset+block]
			copy(dst, srcData[o*block:(o+1)*block])
		}
		colOffset += block
	}
	return out
}
