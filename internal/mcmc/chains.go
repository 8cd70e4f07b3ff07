package mcmc

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/born-ml/hbnn/internal/parallel"
)

// Run samples every chain in parallel and gathers the results. Each
// chain needs its own target (model targets are single-threaded) and
// gets its own source seeded from seed plus the chain index.
func Run(ctx context.Context, s Sampler, targets []Target, inits [][]float64, seed uint64) (*Result, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("mcmc: no chains to run")
	}
	if len(inits) != len(targets) {
		return nil, fmt.Errorf("mcmc: %d targets but %d initial positions", len(targets), len(inits))
	}

	chains := make([]*Chain, len(targets))
	errs := make([]error, len(targets))
	parallel.ForEach(len(targets), func(i int) {
		src := rand.NewSource(seed + uint64(i))
		chains[i], errs[i] = s.Sample(ctx, targets[i], inits[i], src)
	})

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("mcmc: chain %d: %w", i, err)
		}
	}
	return &Result{Chains: chains}, nil
}

// kernel advances one transition, returning the next state, the
// iteration's mean acceptance statistic, and whether it diverged.
type kernel func(cur state, eps float64, invMass []float64, rng *rand.Rand) (state, float64, bool)

// runAdaptive drives one gradient-sampler chain: warmup with dual
// averaging and an optional mass window, then draw collection.
//
// The warmup schedule is quartered. The first half adapts only the
// step size, the third quarter additionally feeds the variance
// accumulator, and at the three-quarter mark the diagonal mass is
// frozen and step-size adaptation restarts against the new metric.
func runAdaptive(ctx context.Context, target Target, init []float64, cfg Config, src rand.Source, k kernel) (*Chain, error) {
	rng := rand.New(src)
	dim := target.Dim()
	if len(init) != dim {
		return nil, fmt.Errorf("mcmc: init has %d elements, target dimension is %d", len(init), dim)
	}

	invMass := make([]float64, dim)
	for i := range invMass {
		invMass[i] = 1
	}

	logp, grad := target.LogDensity(init)
	if math.IsNaN(logp) || math.IsInf(logp, 0) {
		return nil, fmt.Errorf("mcmc: log density is not finite at the initial position")
	}
	cur := state{
		pos:  append([]float64(nil), init...),
		logp: logp,
		grad: append([]float64(nil), grad...),
	}

	eps := cfg.StepSize
	if eps == 0 {
		eps = findReasonableEpsilon(target, cur, invMass, rng)
	}
	da := newDualAveraging(eps, cfg.TargetAccept)

	windowStart := cfg.Warmup / 2
	windowEnd := cfg.Warmup * 3 / 4
	var acc *welford
	if cfg.AdaptMass && windowEnd-windowStart >= 2 {
		acc = newWelford(dim)
	}

	chain := &Chain{
		Draws:    make([][]float64, 0, cfg.Draws),
		LogProbs: make([]float64, 0, cfg.Draws),
		Accept:   make([]float64, 0, cfg.Draws),
	}

	total := cfg.Warmup + cfg.Draws
	for iter := 0; iter < total; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, accept, divergent := k(cur, eps, invMass, rng)
		cur = next

		if iter < cfg.Warmup {
			eps = da.update(accept)
			if acc != nil && iter >= windowStart && iter < windowEnd {
				acc.push(cur.pos)
				if iter == windowEnd-1 {
					if m := acc.invMass(); m != nil {
						invMass = m
						eps = findReasonableEpsilon(target, cur, invMass, rng)
						da = newDualAveraging(eps, cfg.TargetAccept)
					}
				}
			}
			if iter == cfg.Warmup-1 {
				eps = da.final()
			}
			continue
		}

		chain.Draws = append(chain.Draws, append([]float64(nil), cur.pos...))
		chain.LogProbs = append(chain.LogProbs, cur.logp)
		chain.Accept = append(chain.Accept, accept)
		if divergent {
			chain.Divergences++
		}
	}
	chain.StepSize = eps
	return chain, nil
}
