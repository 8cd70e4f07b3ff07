package mcmc

import (
	"context"
	"math"

	"golang.org/x/exp/rand"
)

// HMC is fixed-path-length Hamiltonian Monte Carlo with a Metropolis
// correction. NUTS usually mixes better per gradient; HMC stays around
// as the simpler reference kernel.
type HMC struct {
	cfg Config
}

var _ Sampler = (*HMC)(nil)

// NewHMC builds the sampler, filling config defaults.
func NewHMC(cfg Config) *HMC {
	return &HMC{cfg: cfg.withDefaults()}
}

// Sample runs one chain.
func (h *HMC) Sample(ctx context.Context, target Target, init []float64, src rand.Source) (*Chain, error) {
	if err := h.cfg.Validate(); err != nil {
		return nil, err
	}
	return runAdaptive(ctx, target, init, h.cfg, src, h.transition(target))
}

// transition returns the kernel: a fresh momentum, PathLength leapfrog
// steps, then accept or reject on the energy error.
func (h *HMC) transition(target Target) kernel {
	return func(cur state, eps float64, invMass []float64, rng *rand.Rand) (state, float64, bool) {
		cur.mom = sampleMomentum(invMass, rng)
		h0 := energy(cur, invMass)

		next := cur
		for i := 0; i < h.cfg.PathLength; i++ {
			next = leapfrog(target, next, eps, invMass)
		}

		delta := h0 - energy(next, invMass)
		accept := 0.0
		switch {
		case math.IsNaN(delta):
		case delta >= 0:
			accept = 1
		default:
			accept = math.Exp(delta)
		}
		divergent := !(delta > -deltaMax)

		if rng.Float64() < accept {
			next.mom = nil
			return next, accept, divergent
		}
		cur.mom = nil
		return cur, accept, divergent
	}
}
