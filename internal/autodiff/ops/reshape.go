package ops

import "github.com/born-ml/hbnn/internal/tensor"

// ReshapeOp records y = reshape(x, shape). Element order is unchanged,
// so the gradient just reshapes back.
type ReshapeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReshapeOp creates a recorded reshape.
func NewReshapeOp(input, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{input: input, output: output}
}

// Backward returns [reshape(grad, x.shape)].
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.input.Shape())}
}

// Inputs returns [x].
func (op *ReshapeOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns reshape(x, shape).
func (op *ReshapeOp) Output() *tensor.RawTensor { return op.output }
