package ops

import "github.com/born-ml/hbnn/internal/tensor"

// ExpandOp records y = expand(x, shape). The forward repeats x along
// size-1 dimensions; the gradient sums those repeats back down.
type ExpandOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewExpandOp creates a recorded broadcast expansion.
func NewExpandOp(input, output *tensor.RawTensor) *ExpandOp {
	return &ExpandOp{input: input, output: output}
}

// Backward returns [grad reduced to x.shape].
func (op *ExpandOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{reduceBroadcast(outputGrad, op.input, backend)}
}

// Inputs returns [x].
func (op *ExpandOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns expand(x, shape).
func (op *ExpandOp) Output() *tensor.RawTensor { return op.output }
