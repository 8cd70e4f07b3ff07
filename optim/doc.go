// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-based optimizers over flat parameter
// vectors.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// The optimizers walk the same flattened []float64 parameter space the
// samplers walk. Their main job in this pipeline is maximum a
// posteriori warm-up: minimizing the negative log posterior to produce
// chain starting points near a mode.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/hbnn/optim"
//	)
//
//	func warmUp(model interface {
//	    Dim() int
//	    LogDensity(q []float64) (float64, []float64)
//	}, q []float64, steps int) {
//	    opt := optim.NewAdam(model.Dim(), optim.AdamConfig{LR: 0.05})
//
//	    for i := 0; i < steps; i++ {
//	        _, grad := model.LogDensity(q)
//	        for j := range grad {
//	            grad[j] = -grad[j] // climb the log posterior
//	        }
//	        opt.Step(q, grad)
//	    }
//	}
package optim
