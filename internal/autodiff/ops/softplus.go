package ops

import "github.com/born-ml/hbnn/internal/tensor"

// SoftplusOp records y = log(1 + exp(x)), the term that keeps the
// Bernoulli-logits log-likelihood finite in the tails.
//
// d(softplus(x))/dx = sigmoid(x).
type SoftplusOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSoftplusOp creates a recorded softplus.
func NewSoftplusOp(input, output *tensor.RawTensor) *SoftplusOp {
	return &SoftplusOp{input: input, output: output}
}

// Backward returns [grad * sigmoid(x)].
func (op *SoftplusOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, backend.Sigmoid(op.input))}
}

// Inputs returns [x].
func (op *SoftplusOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns softplus(x).
func (op *SoftplusOp) Output() *tensor.RawTensor { return op.output }
