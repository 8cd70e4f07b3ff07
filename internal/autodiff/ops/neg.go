package ops

import "github.com/born-ml/hbnn/internal/tensor"

// NegOp records y = -x.
type NegOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewNegOp creates a recorded negation.
func NewNegOp(input, output *tensor.RawTensor) *NegOp {
	return &NegOp{input: input, output: output}
}

// Backward returns [-grad].
func (op *NegOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Neg(outputGrad)}
}

// Inputs returns [x].
func (op *NegOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns -x.
func (op *NegOp) Output() *tensor.RawTensor { return op.output }
