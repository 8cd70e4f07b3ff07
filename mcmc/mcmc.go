// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package mcmc provides the Markov chain Monte Carlo samplers that draw
// from a model's posterior.
//
// Three samplers share one Target contract (log density plus gradient
// over a flat position vector): NUTS with dual-averaging step size
// adaptation, plain HMC with a fixed path length, and a random-walk
// Metropolis baseline that needs no gradients. Run drives several
// chains in parallel, and Diagnose computes split R-hat and effective
// sample sizes over the result.
//
// Example:
//
//	import (
//	    "context"
//
//	    "github.com/born-ml/hbnn/mcmc"
//	)
//
//	func sample(ctx context.Context, targets []mcmc.Target, inits [][]float64) (*mcmc.Result, error) {
//	    sampler := mcmc.NewNUTS(mcmc.Config{
//	        Warmup:    500,
//	        Draws:     1000,
//	        AdaptMass: true,
//	    })
//	    return mcmc.Run(ctx, sampler, targets, inits, 42)
//	}
package mcmc

import (
	"context"

	"github.com/born-ml/hbnn/internal/mcmc"
)

// Target is a differentiable log density over a flat position vector.
type Target = mcmc.Target

// Sampler draws one chain from a target.
type Sampler = mcmc.Sampler

// Config holds the sampling schedule shared by all samplers.
type Config = mcmc.Config

// Chain is one chain's retained output.
type Chain = mcmc.Chain

// Result collects the chains of one sampling run.
type Result = mcmc.Result

// Diagnostics holds per-dimension convergence summaries.
type Diagnostics = mcmc.Diagnostics

// NUTS is the No-U-Turn sampler.
type NUTS = mcmc.NUTS

// HMC is Hamiltonian Monte Carlo with a fixed leapfrog path length.
type HMC = mcmc.HMC

// RWM is random-walk Metropolis with a spherical Gaussian proposal.
type RWM = mcmc.RWM

// NewNUTS creates a NUTS sampler with the given schedule.
func NewNUTS(cfg Config) *NUTS {
	return mcmc.NewNUTS(cfg)
}

// NewHMC creates an HMC sampler with the given schedule.
func NewHMC(cfg Config) *HMC {
	return mcmc.NewHMC(cfg)
}

// NewRWM creates a random-walk Metropolis sampler with the given
// proposal scale.
func NewRWM(cfg Config, scale float64) *RWM {
	return mcmc.NewRWM(cfg, scale)
}

// Run samples every target on its own goroutine, one chain per target,
// seeding chain i with seed+i.
//
// Targets are typically clones of one model, so each chain gets an
// independent autodiff tape.
func Run(ctx context.Context, s Sampler, targets []Target, inits [][]float64, seed uint64) (*Result, error) {
	return mcmc.Run(ctx, s, targets, inits, seed)
}

// Diagnose computes split R-hat and effective sample size per dimension
// over all chains of a run.
func Diagnose(r *Result) (*Diagnostics, error) {
	return mcmc.Diagnose(r)
}
