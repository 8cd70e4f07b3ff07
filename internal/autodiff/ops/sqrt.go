package ops

import "github.com/born-ml/hbnn/internal/tensor"

// SqrtOp records y = sqrt(x). Gradient: grad / (2 * y).
type SqrtOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSqrtOp creates a recorded square root.
func NewSqrtOp(input, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{input: input, output: output}
}

// Backward returns [grad / (2 * y)].
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	twoY := backend.Add(op.output, op.output)
	return []*tensor.RawTensor{backend.Div(outputGrad, twoY)}
}

// Inputs returns [x].
func (op *SqrtOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns sqrt(x).
func (op *SqrtOp) Output() *tensor.RawTensor { return op.output }
