package ops

import "github.com/born-ml/hbnn/internal/tensor"

// TanhOp records y = tanh(x), the hidden-layer activation.
//
// d(tanh(x))/dx = 1 - tanh(x)^2, reusing the forward output.
type TanhOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewTanhOp creates a recorded tanh.
func NewTanhOp(input, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Backward returns [grad * (1 - y^2)].
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	y := op.output
	oneMinusY2 := backend.Sub(onesLike(y, backend), backend.Mul(y, y))
	return []*tensor.RawTensor{backend.Mul(outputGrad, oneMinusY2)}
}

// Inputs returns [x].
func (op *TanhOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns tanh(x).
func (op *TanhOp) Output() *tensor.RawTensor { return op.output }
