// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float64-first kernels for the inference path
//   - NumPy-compatible broadcasting
//   - Chunked parallel loops for large buffers
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
//	    z := x.Add(y)
//	    _ = z
//	}
//
// # In-place Reuse
//
// Binary operations reuse the left operand's buffer when it is uniquely
// referenced. Callers that hand the same tensors to the autodiff tape
// are protected by the decorator, which pins shared operands before
// delegating here.
//
// # Thread Safety
//
// The backend itself carries no mutable state and is safe for
// concurrent use; concurrent writes to the same tensor are not.
package cpu
