package ops

import "github.com/born-ml/hbnn/internal/tensor"

// WhereOp records y = where(cond, a, b). The condition itself is not
// differentiable; each branch receives the gradient only at positions it
// was selected.
type WhereOp struct {
	cond   *tensor.RawTensor
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewWhereOp creates a recorded element selection.
func NewWhereOp(cond, a, b, output *tensor.RawTensor) *WhereOp {
	return &WhereOp{cond: cond, inputs: []*tensor.RawTensor{a, b}, output: output}
}

// Backward returns [where(cond, grad, 0), where(cond, 0, grad)].
func (op *WhereOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	zeros := zerosLike(outputGrad)
	return []*tensor.RawTensor{
		backend.Where(op.cond, outputGrad, zeros),
		backend.Where(op.cond, zeros, outputGrad),
	}
}

// Inputs returns [a, b].
func (op *WhereOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns where(cond, a, b).
func (op *WhereOp) Output() *tensor.RawTensor { return op.output }
