package ops

import "github.com/born-ml/hbnn/internal/tensor"

// BatchMatMulOp records c = a @ b over a stack of matrices, the per-group
// forward step of the grouped model: [G, M, K] @ [G, K, N] -> [G, M, N].
//
// Backward mirrors the 2-D case per batch entry:
//
//	grad_a = grad @ b^T
//	grad_b = a^T @ grad
//
// with ^T swapping only the matrix dimensions.
type BatchMatMulOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewBatchMatMulOp creates a recorded batched matrix multiplication.
func NewBatchMatMulOp(a, b, output *tensor.RawTensor) *BatchMatMulOp {
	return &BatchMatMulOp{inputs: []*tensor.RawTensor{a, b}, output: output}
}

// Backward returns [grad @ b^T, a^T @ grad] batch-wise.
func (op *BatchMatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	axes := lastTwoSwapped(len(a.Shape()))

	gradA := backend.BatchMatMul(outputGrad, backend.Transpose(b, axes...))
	gradB := backend.BatchMatMul(backend.Transpose(a, axes...), outputGrad)
	return []*tensor.RawTensor{gradA, gradB}
}

// Inputs returns [a, b].
func (op *BatchMatMulOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns a @ b.
func (op *BatchMatMulOp) Output() *tensor.RawTensor { return op.output }
