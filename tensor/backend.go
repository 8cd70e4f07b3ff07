// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/hbnn/internal/tensor"

// Backend defines the interface every compute backend implements.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go reference kernels
//
// Decorator backends for additional functionality:
//   - autodiff: operation recording for backpropagation (wraps any backend)
//
// Example:
//
//	import (
//	    "github.com/born-ml/hbnn/backend/cpu"
//	    "github.com/born-ml/hbnn/tensor"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float64](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float64](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend interface {
	// Element-wise binary operations with NumPy broadcasting.
	Add(a, b *RawTensor) *RawTensor // Element-wise addition.
	Sub(a, b *RawTensor) *RawTensor // Element-wise subtraction.
	Mul(a, b *RawTensor) *RawTensor // Element-wise multiplication.
	Div(a, b *RawTensor) *RawTensor // Element-wise division.

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor      // Matrix multiplication.
	BatchMatMul(a, b *RawTensor) *RawTensor // Batched matrix multiplication, one matrix per group.

	// Scalar operations (element-wise with scalar).
	AddScalar(x *RawTensor, scalar any) *RawTensor // Add scalar.
	SubScalar(x *RawTensor, scalar any) *RawTensor // Subtract scalar.
	MulScalar(x *RawTensor, scalar any) *RawTensor // Multiply by scalar.
	DivScalar(x *RawTensor, scalar any) *RawTensor // Divide by scalar.

	// Math operations (element-wise).
	Exp(x *RawTensor) *RawTensor      // Exponential.
	Log(x *RawTensor) *RawTensor      // Natural logarithm.
	Sqrt(x *RawTensor) *RawTensor     // Square root.
	Neg(x *RawTensor) *RawTensor      // Negation.
	Tanh(x *RawTensor) *RawTensor     // Hyperbolic tangent.
	Sigmoid(x *RawTensor) *RawTensor  // Logistic function.
	Softplus(x *RawTensor) *RawTensor // log(1 + exp(x)), overflow-guarded.

	// Comparison operations (element-wise, return bool tensor).
	Greater(a, b *RawTensor) *RawTensor      // a > b.
	GreaterEqual(a, b *RawTensor) *RawTensor // a >= b.
	Lower(a, b *RawTensor) *RawTensor        // a < b.

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor                            // Total sum (scalar result).
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // Sum along dimension.
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // Mean along dimension.

	// Shape operations.
	Reshape(x *RawTensor, newShape Shape) *RawTensor // Reshape tensor.
	Transpose(x *RawTensor, axes ...int) *RawTensor  // Transpose dimensions.
	Expand(x *RawTensor, newShape Shape) *RawTensor  // Broadcast to shape.
	Cat(tensors []*RawTensor, dim int) *RawTensor    // Concatenate along dimension.

	// Indexing operations.
	Where(condition, x, y *RawTensor) *RawTensor // Conditional element selection.

	// Type conversion.
	Cast(x *RawTensor, dtype DataType) *RawTensor // Cast to different data type.

	// Metadata.
	Name() string   // Backend name (e.g., "CPU").
	Device() Device // Device type.
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
