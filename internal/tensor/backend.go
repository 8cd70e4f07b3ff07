package tensor

// Backend defines the compute interface every tensor operation routes
// through. The CPU backend is the reference implementation; the autodiff
// decorator wraps any Backend and records operations for backpropagation.
//
// Shape violations panic inside backend implementations; allocation and
// validation errors surface as error returns from the creation helpers.
type Backend interface {
	// Element-wise binary operations with NumPy broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor

	// BatchMatMul multiplies stacks of matrices: [G, M, K] @ [G, K, N] ->
	// [G, M, N]. This is the kernel the grouped model runs on, one matrix
	// per group.
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Scalar operations (element-wise against a scalar of the tensor's
	// element type, passed as any).
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	MulScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Element-wise math.
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Neg(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor
	Sigmoid(x *RawTensor) *RawTensor

	// Softplus computes log(1 + exp(x)) with the usual overflow guard
	// max(x, 0) + log1p(exp(-|x|)). It is the backbone of the numerically
	// stable Bernoulli-logits log-likelihood.
	Softplus(x *RawTensor) *RawTensor

	// Comparisons (element-wise, Bool result).
	Greater(a, b *RawTensor) *RawTensor
	GreaterEqual(a, b *RawTensor) *RawTensor
	Lower(a, b *RawTensor) *RawTensor

	// Reductions.
	Sum(x *RawTensor) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Shape manipulation.
	Reshape(x *RawTensor, newShape Shape) *RawTensor
	Transpose(x *RawTensor, axes ...int) *RawTensor
	Expand(x *RawTensor, newShape Shape) *RawTensor
	Cat(tensors []*RawTensor, dim int) *RawTensor

	// Where selects x where condition is true, else y.
	Where(condition, x, y *RawTensor) *RawTensor

	// Cast converts to a different element type.
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
