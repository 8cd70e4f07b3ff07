// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/hbnn/internal/optim"
)

// Optimizer is the common interface for all optimizers.
type Optimizer = optim.Optimizer

// SGD (Stochastic Gradient Descent)

// SGD is the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for the SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer for a dim-dimensional position.
//
// Example:
//
//	opt := optim.NewSGD(model.Dim(), optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
func NewSGD(dim int, config SGDConfig) *SGD {
	return optim.NewSGD(dim, config)
}

// Adam (Adaptive Moment Estimation)

// Adam is the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for the Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction for a
// dim-dimensional position.
//
// Example:
//
//	opt := optim.NewAdam(model.Dim(), optim.AdamConfig{
//	    LR:    0.05,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	})
func NewAdam(dim int, config AdamConfig) *Adam {
	return optim.NewAdam(dim, config)
}
