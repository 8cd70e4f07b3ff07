package ops

import "github.com/born-ml/hbnn/internal/tensor"

// SumOp records the full reduction y = sum(x), which is how every log
// density in this repo becomes the scalar the tape differentiates.
//
// Each element contributes with weight 1, so the backward pass broadcasts
// the scalar gradient back over the input shape.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a recorded full-sum reduction.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward returns [grad broadcast to x's shape].
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	ones := onesLike(op.input, backend)
	return []*tensor.RawTensor{backend.Mul(ones, outputGrad)}
}

// Inputs returns [x].
func (op *SumOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns sum(x).
func (op *SumOp) Output() *tensor.RawTensor { return op.output }
