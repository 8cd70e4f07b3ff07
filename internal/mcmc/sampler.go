// Package mcmc draws samples from differentiable log densities.
//
// Targets expose an unnormalized log density with its gradient over a
// flat []float64 position. The gradient samplers (NUTS and fixed-path
// HMC) adapt their leapfrog step size by dual averaging during warmup,
// optionally together with a diagonal mass matrix; RWM is a
// gradient-free random walk built on gonum's Metropolis-Hastings
// machinery. Run fans independent chains out over goroutines, one
// target and one seeded source per chain, and Diagnose summarizes
// convergence with split R-hat and effective sample sizes.
package mcmc

import (
	"context"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// Target is the distribution a sampler explores: an unnormalized log
// density over a flat position vector, with its gradient.
type Target interface {
	// Dim returns the length of the position vector.
	Dim() int

	// LogDensity returns the log density and its gradient at theta.
	// Implementations may assume len(theta) == Dim().
	LogDensity(theta []float64) (float64, []float64)
}

// Sampler runs one chain from an initial position, reading randomness
// from the given source.
type Sampler interface {
	Sample(ctx context.Context, target Target, init []float64, src rand.Source) (*Chain, error)
}

// Config holds the sampling schedule shared by all samplers. The zero
// value is not runnable; set Draws and pass it to a constructor, which
// fills the remaining defaults.
type Config struct {
	Warmup       int     // adaptation iterations, discarded
	Draws        int     // retained iterations per chain
	TargetAccept float64 // dual-averaging target acceptance (default 0.8)
	StepSize     float64 // initial leapfrog step size (0 searches for one)
	MaxDepth     int     // NUTS doubling limit (default 10)
	PathLength   int     // HMC leapfrog steps per transition (default 32)
	AdaptMass    bool    // estimate a diagonal mass matrix during warmup
}

func (c Config) withDefaults() Config {
	if c.TargetAccept <= 0 || c.TargetAccept >= 1 {
		c.TargetAccept = 0.8
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = 10
	}
	if c.PathLength <= 0 {
		c.PathLength = 32
	}
	return c
}

// Validate checks that the schedule can run.
func (c Config) Validate() error {
	if c.Draws < 1 {
		return fmt.Errorf("mcmc: draws %d too small", c.Draws)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("mcmc: negative warmup %d", c.Warmup)
	}
	if c.StepSize < 0 {
		return fmt.Errorf("mcmc: negative step size %g", c.StepSize)
	}
	return nil
}

// Chain is one chain's retained output.
type Chain struct {
	Draws       [][]float64 // retained positions, [draws][dim]
	LogProbs    []float64   // log density at each retained draw
	Accept      []float64   // per-iteration mean acceptance statistic
	Divergences int         // post-warmup divergent transitions
	StepSize    float64     // step size after adaptation (proposal scale for RWM)
}

// NumDraws returns the number of retained positions.
func (c *Chain) NumDraws() int {
	return len(c.Draws)
}

// MeanAccept averages the chain's acceptance statistic.
func (c *Chain) MeanAccept() float64 {
	if len(c.Accept) == 0 {
		return 0
	}
	return floats.Sum(c.Accept) / float64(len(c.Accept))
}

// Result is a completed multi-chain run.
type Result struct {
	Chains []*Chain
}

// NumChains returns the chain count.
func (r *Result) NumChains() int {
	return len(r.Chains)
}

// Dim returns the position dimension, or 0 for an empty result.
func (r *Result) Dim() int {
	for _, c := range r.Chains {
		if len(c.Draws) > 0 {
			return len(c.Draws[0])
		}
	}
	return 0
}

// Pooled concatenates every chain's draws, the form the posterior
// predictive consumes.
func (r *Result) Pooled() [][]float64 {
	var out [][]float64
	for _, c := range r.Chains {
		out = append(out, c.Draws...)
	}
	return out
}

// MeanAccept averages the post-warmup acceptance statistic over all
// chains.
func (r *Result) MeanAccept() float64 {
	var sum float64
	var n int
	for _, c := range r.Chains {
		if len(c.Accept) == 0 {
			continue
		}
		sum += floats.Sum(c.Accept)
		n += len(c.Accept)
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// TotalDivergences sums post-warmup divergent transitions across chains.
func (r *Result) TotalDivergences() int {
	var total int
	for _, c := range r.Chains {
		total += c.Divergences
	}
	return total
}
