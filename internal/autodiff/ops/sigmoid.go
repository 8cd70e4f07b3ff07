package ops

import "github.com/born-ml/hbnn/internal/tensor"

// SigmoidOp records y = 1 / (1 + exp(-x)).
//
// d(sigmoid(x))/dx = y * (1 - y), reusing the forward output.
type SigmoidOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSigmoidOp creates a recorded sigmoid.
func NewSigmoidOp(input, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{input: input, output: output}
}

// Backward returns [grad * y * (1 - y)].
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	y := op.output
	dydx := backend.Mul(y, backend.Sub(onesLike(y, backend), y))
	return []*tensor.RawTensor{backend.Mul(outputGrad, dydx)}
}

// Inputs returns [x].
func (op *SigmoidOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns sigmoid(x).
func (op *SigmoidOp) Output() *tensor.RawTensor { return op.output }
