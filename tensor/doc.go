// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the hbnn
// inference pipeline.
//
// # Overview
//
// Tensors are the data structure every other package builds on. This
// package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Reference-counted buffers gating in-place reuse
//   - A Backend seam so the same tensor code runs on plain CPU kernels
//     or recorded through the autodiff decorator
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/hbnn/backend/cpu"
//	    "github.com/born-ml/hbnn/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros[float64](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float64](tensor.Shape{2, 3}, backend)
//
//	    z := x.Add(y)
//	    result := z.MatMul(y.T())
//	    _ = result
//	}
//
// # Supported Data Types
//
// The DType constraint covers float32, float64, int32, int64 and bool.
// The Bayesian inference path runs in float64 throughout; float32 and
// the integer types serve the prediction grid and index bookkeeping,
// bool serves masks.
//
// # Broadcasting
//
// Binary operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros[float64](tensor.Shape{3, 1}, backend)  // (3, 1)
//	b := tensor.Ones[float64](tensor.Shape{3, 4}, backend)   // (3, 4)
//	c := a.Add(b)                                            // (3, 4)
//
// # Memory Management
//
// Buffers are reference-counted: backends reuse an operand's buffer in
// place only while it is uniquely referenced, and the autodiff
// decorator pins recorded operands so taped values survive until the
// backward pass. Clone always produces an independent copy. Shape
// violations panic with formatted context, allocation and conversion
// problems surface as errors from the creation helpers.
package tensor
