package tensor

// Operation methods delegate to the tensor's backend. Shape errors panic
// inside the backend; see Backend for the contract.

// Add returns t + other with broadcasting.
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T](t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub returns t - other with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T](t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul returns the element-wise product t * other with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T](t.backend.Mul(t.raw, other.raw), t.backend)
}

// Div returns the element-wise quotient t / other with broadcasting.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T](t.backend.Div(t.raw, other.raw), t.backend)
}

// MatMul returns the matrix product of two 2-D tensors.
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T](t.backend.MatMul(t.raw, other.raw), t.backend)
}

// BatchMatMul multiplies stacks of matrices: [G, M, K] @ [G, K, N] -> [G, M, N].
func (t *Tensor[T, B]) BatchMatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T](t.backend.BatchMatMul(t.raw, other.raw), t.backend)
}

// AddScalar returns t + scalar.
func (t *Tensor[T, B]) AddScalar(scalar T) *Tensor[T, B] {
	return New[T](t.backend.AddScalar(t.raw, scalar), t.backend)
}

// SubScalar returns t - scalar.
func (t *Tensor[T, B]) SubScalar(scalar T) *Tensor[T, B] {
	return New[T](t.backend.SubScalar(t.raw, scalar), t.backend)
}

// MulScalar returns t * scalar.
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	return New[T](t.backend.MulScalar(t.raw, scalar), t.backend)
}

// DivScalar returns t / scalar.
func (t *Tensor[T, B]) DivScalar(scalar T) *Tensor[T, B] {
	return New[T](t.backend.DivScalar(t.raw, scalar), t.backend)
}

// Exp returns e^t element-wise.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	return New[T](t.backend.Exp(t.raw), t.backend)
}

// Log returns the natural logarithm element-wise.
func (t *Tensor[T, B]) Log() *Tensor[T, B] {
	return New[T](t.backend.Log(t.raw), t.backend)
}

// Sqrt returns the square root element-wise.
func (t *Tensor[T, B]) Sqrt() *Tensor[T, B] {
	return New[T](t.backend.Sqrt(t.raw), t.backend)
}

// Neg returns -t.
func (t *Tensor[T, B]) Neg() *Tensor[T, B] {
	return New[T](t.backend.Neg(t.raw), t.backend)
}

// Tanh returns the hyperbolic tangent element-wise.
func (t *Tensor[T, B]) Tanh() *Tensor[T, B] {
	return New[T](t.backend.Tanh(t.raw), t.backend)
}

// Sigmoid returns 1 / (1 + exp(-t)) element-wise.
func (t *Tensor[T, B]) Sigmoid() *Tensor[T, B] {
	return New[T](t.backend.Sigmoid(t.raw), t.backend)
}

// Softplus returns log(1 + exp(t)) element-wise, computed stably.
func (t *Tensor[T, B]) Softplus() *Tensor[T, B] {
	return New[T](t.backend.Softplus(t.raw), t.backend)
}

// Greater returns the element-wise comparison t > other.
func (t *Tensor[T, B]) Greater(other *Tensor[T, B]) *Tensor[bool, B] {
	return New[bool](t.backend.Greater(t.raw, other.raw), t.backend)
}

// GreaterEqual returns the element-wise comparison t >= other.
func (t *Tensor[T, B]) GreaterEqual(other *Tensor[T, B]) *Tensor[bool, B] {
	return New[bool](t.backend.GreaterEqual(t.raw, other.raw), t.backend)
}

// Lower returns the element-wise comparison t < other.
func (t *Tensor[T, B]) Lower(other *Tensor[T, B]) *Tensor[bool, B] {
	return New[bool](t.backend.Lower(t.raw, other.raw), t.backend)
}

// Sum reduces all elements to a scalar tensor.
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	return New[T](t.backend.Sum(t.raw), t.backend)
}

// SumDim sums along dim (negative dims count from the end). With
// keepDim=false the reduced dimension is dropped from the result shape.
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	return New[T](t.backend.SumDim(t.raw, dim, keepDim), t.backend)
}

// MeanDim averages along dim (negative dims count from the end).
func (t *Tensor[T, B]) MeanDim(dim int, keepDim bool) *Tensor[T, B] {
	return New[T](t.backend.MeanDim(t.raw, dim, keepDim), t.backend)
}

// Reshape returns a tensor with the same elements and a new shape.
// The element count must be preserved.
func (t *Tensor[T, B]) Reshape(dims ...int) *Tensor[T, B] {
	return New[T](t.backend.Reshape(t.raw, Shape(dims)), t.backend)
}

// Transpose permutes dimensions. With no axes the dimension order is fully
// reversed; otherwise axes must be a permutation of all dimensions.
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	return New[T](t.backend.Transpose(t.raw, axes...), t.backend)
}

// T transposes a 2-D tensor.
func (t *Tensor[T, B]) T() *Tensor[T, B] {
	return t.Transpose()
}

// Expand broadcasts the tensor to a larger shape. Expanded dimensions must
// be size 1 in the source.
func (t *Tensor[T, B]) Expand(shape Shape) *Tensor[T, B] {
	return New[T](t.backend.Expand(t.raw, shape), t.backend)
}

// Float32 casts to a float32 tensor.
func (t *Tensor[T, B]) Float32() *Tensor[float32, B] {
	return New[float32](t.backend.Cast(t.raw, Float32), t.backend)
}

// Float64 casts to a float64 tensor.
func (t *Tensor[T, B]) Float64() *Tensor[float64, B] {
	return New[float64](t.backend.Cast(t.raw, Float64), t.backend)
}

// Bool casts to a bool tensor; nonzero elements become true.
func (t *Tensor[T, B]) Bool() *Tensor[bool, B] {
	return New[bool](t.backend.Cast(t.raw, Bool), t.backend)
}

// Cat concatenates tensors along dim. All inputs must agree on every other
// dimension.
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("tensor: Cat of zero tensors")
	}
	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.Raw()
	}
	b := tensors[0].Backend()
	return New[T](b.Cat(raws, dim), b)
}

// Where selects elements from x where cond is true and from y elsewhere.
func Where[T DType, B Backend](cond *Tensor[bool, B], x, y *Tensor[T, B]) *Tensor[T, B] {
	b := x.Backend()
	return New[T](b.Where(cond.Raw(), x.Raw(), y.Raw()), b)
}
