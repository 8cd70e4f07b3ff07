package ops

import (
	"fmt"

	"github.com/born-ml/hbnn/internal/tensor"
)

// reduceBroadcast reduces a gradient to the shape of a forward-pass operand
// that was broadcast. Broadcasting replicates an operand's values, so its
// gradient is the sum of the output gradient over every replicated slot.
//
// Example: a[1,D,H] + b[G,D,H] -> c[G,D,H]; grad_a = sum over dim 0 of
// grad_c, reshaped back to [1,D,H].
func reduceBroadcast(grad *tensor.RawTensor, target tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()
	if gradShape.Equal(target) {
		// Clone so in-place accumulation never aliases a shared gradient.
		return grad.Clone()
	}

	if len(target) == 0 {
		return backend.Sum(grad)
	}

	// Fold away leading dimensions the target does not have.
	out := grad
	for len(out.Shape()) > len(target) {
		out = backend.SumDim(out, 0, false)
	}

	// Sum over dimensions the target holds at size 1.
	for d := 0; d < len(target); d++ {
		if target[d] == 1 && out.Shape()[d] > 1 {
			out = backend.SumDim(out, d, true)
		}
	}

	if !out.Shape().Equal(target) {
		out = backend.Reshape(out, target)
	}
	return out
}

// onesLike returns a tensor of ones with x's shape and dtype.
func onesLike(x *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	out, err := tensor.NewRaw(x.Shape(), x.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("ops: onesLike: %v", err))
	}
	switch x.DType() {
	case tensor.Float32:
		data := out.AsFloat32()
		for i := range data {
			data[i] = 1
		}
	case tensor.Float64:
		data := out.AsFloat64()
		for i := range data {
			data[i] = 1
		}
	default:
		panic(fmt.Sprintf("ops: onesLike: unsupported dtype %s", x.DType()))
	}
	return out
}

// zerosLike returns a zero tensor with x's shape and dtype.
func zerosLike(x *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	out, err := tensor.NewRaw(x.Shape(), x.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("ops: zerosLike: %v", err))
	}
	return out
}

// lastTwoSwapped builds the transpose axes that swap a stack's matrix
// dimensions, leaving batch dimensions in place.
func lastTwoSwapped(ndim int) []int {
	axes := make([]int, ndim)
	for i := range axes {
		axes[i] = i
	}
	axes[ndim-2], axes[ndim-1] = axes[ndim-1], axes[ndim-2]
	return axes
}
