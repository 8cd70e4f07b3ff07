package mcmc

import (
	"context"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"
)

// RWM is random-walk Metropolis through gonum's MetropolisHastingser
// with a spherical normal proposal. It reads only density values, no
// gradients, which makes it the quick first thing to try on a new
// target.
type RWM struct {
	cfg   Config
	scale float64
}

var _ Sampler = (*RWM)(nil)

// NewRWM builds a random-walk sampler with the given proposal standard
// deviation.
func NewRWM(cfg Config, scale float64) *RWM {
	return &RWM{cfg: cfg.withDefaults(), scale: scale}
}

// rwmBlock is how many draws are taken between context checks.
const rwmBlock = 256

// Sample runs one chain. Warmup maps to gonum's burn-in; the Accept
// column holds a moved-draw indicator whose mean estimates the
// acceptance rate.
func (r *RWM) Sample(ctx context.Context, target Target, init []float64, src rand.Source) (*Chain, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("mcmc: proposal scale %g too small", r.scale)
	}
	dim := target.Dim()
	if len(init) != dim {
		return nil, fmt.Errorf("mcmc: init has %d elements, target dimension is %d", len(init), dim)
	}

	sigma := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		sigma.SetSym(i, i, r.scale*r.scale)
	}
	proposal, err := samplemv.NewProposalNormal(sigma, src)
	if err != nil {
		return nil, fmt.Errorf("mcmc: proposal distribution: %w", err)
	}

	lp := logProber{target: target}
	chain := &Chain{
		Draws:    make([][]float64, 0, r.cfg.Draws),
		LogProbs: make([]float64, 0, r.cfg.Draws),
		Accept:   make([]float64, 0, r.cfg.Draws),
		StepSize: r.scale,
	}

	last := append([]float64(nil), init...)
	burnIn := r.cfg.Warmup
	for remaining := r.cfg.Draws; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows := min(rwmBlock, remaining)
		mh := samplemv.MetropolisHastingser{
			Initial:  last,
			Target:   lp,
			Proposal: proposal,
			Src:      src,
			BurnIn:   burnIn,
			Rate:     1,
		}
		block := mat.NewDense(rows, dim, nil)
		mh.Sample(block)
		burnIn = 0

		for i := 0; i < rows; i++ {
			row := mat.Row(nil, i, block)
			moved := 0.0
			if !floats.Equal(row, last) {
				moved = 1
			}
			chain.Draws = append(chain.Draws, row)
			chain.LogProbs = append(chain.LogProbs, lp.LogProb(row))
			chain.Accept = append(chain.Accept, moved)
			last = row
		}
		remaining -= rows
	}
	return chain, nil
}

// logProber adapts a Target to gonum's distmv.LogProber, preferring a
// native gradient-free LogProb when the target has one.
type logProber struct {
	target Target
}

var _ distmv.LogProber = logProber{}

func (l logProber) LogProb(x []float64) float64 {
	if p, ok := l.target.(interface{ LogProb([]float64) float64 }); ok {
		return p.LogProb(x)
	}
	v, _ := l.target.LogDensity(x)
	return v
}
