package ops

import "github.com/born-ml/hbnn/internal/tensor"

// SumDimOp records y = sum(x, dim).
//
// The gradient broadcasts back along the reduced dimension; when the
// forward dropped the dimension (keepDim=false) it is restored first so
// broadcasting lines up.
type SumDimOp struct {
	input   *tensor.RawTensor
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewSumDimOp creates a recorded dimension reduction.
func NewSumDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{input: input, output: output, dim: dim, keepDim: keepDim}
}

// Backward returns [grad broadcast along the reduced dimension].
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inShape := op.input.Shape()
	grad := outputGrad

	if !op.keepDim {
		d := tensor.NormalizeDim(op.dim, len(inShape))
		kept := inShape.Clone()
		kept[d] = 1
		grad = backend.Reshape(grad, kept)
	}

	return []*tensor.RawTensor{backend.Expand(grad, inShape)}
}

// Inputs returns [x].
func (op *SumDimOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns sum(x, dim).
func (op *SumDimOp) Output() *tensor.RawTensor { return op.output }
