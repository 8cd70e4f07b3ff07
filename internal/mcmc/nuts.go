package mcmc

import (
	"context"
	"math"

	"golang.org/x/exp/rand"
)

// deltaMax is the energy error beyond which a trajectory counts as
// divergent.
const deltaMax = 1000.0

// NUTS is the No-U-Turn sampler: leapfrog trajectories grown by
// recursive doubling until the path turns back on itself, with a slice
// variable selecting the next position (Hoffman & Gelman, 2014,
// algorithm 6).
type NUTS struct {
	cfg Config
}

var _ Sampler = (*NUTS)(nil)

// NewNUTS builds the sampler, filling config defaults.
func NewNUTS(cfg Config) *NUTS {
	return &NUTS{cfg: cfg.withDefaults()}
}

// Sample runs one chain.
func (s *NUTS) Sample(ctx context.Context, target Target, init []float64, src rand.Source) (*Chain, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	return runAdaptive(ctx, target, init, s.cfg, src, s.transition(target))
}

// transition returns the kernel: a fresh momentum and slice draw, then
// doubling until a U-turn, a divergence, or the depth cap.
func (s *NUTS) transition(target Target) kernel {
	return func(cur state, eps float64, invMass []float64, rng *rand.Rand) (state, float64, bool) {
		cur.mom = sampleMomentum(invMass, rng)
		h0 := energy(cur, invMass)
		logU := -h0 - rng.ExpFloat64()

		b := &treeBuilder{
			target:  target,
			logU:    logU,
			eps:     eps,
			h0:      h0,
			invMass: invMass,
			rng:     rng,
		}

		minus, plus := cur, cur
		prop := cur
		n := 1
		divergent := false
		var alphaSum float64
		var nAlpha int

		for depth := 0; depth < s.cfg.MaxDepth; depth++ {
			var t tree
			if rng.Float64() < 0.5 {
				t = b.build(minus, -1, depth)
				minus = t.minus
			} else {
				t = b.build(plus, 1, depth)
				plus = t.plus
			}
			alphaSum += t.alpha
			nAlpha += t.nAlpha
			if t.div {
				divergent = true
			}

			// The new half-tree proposes against the old tree's mass.
			if !t.stop && t.n > 0 && rng.Float64() < float64(t.n)/float64(n) {
				prop = t.prop
			}
			n += t.n

			if t.stop || uTurn(minus, plus, invMass) {
				break
			}
		}

		accept := 0.0
		if nAlpha > 0 {
			accept = alphaSum / float64(nAlpha)
		}
		prop.mom = nil
		return prop, accept, divergent
	}
}

// tree is one subtree of a NUTS trajectory.
type tree struct {
	minus  state   // backwards-most phase point
	plus   state   // forwards-most phase point
	prop   state   // candidate drawn uniformly from the valid points
	n      int     // valid points under the slice variable
	stop   bool    // U-turn or divergence inside the subtree
	div    bool    // true only for divergence, not U-turn
	alpha  float64 // sum of per-leaf acceptance probabilities
	nAlpha int     // leaves folded into alpha
}

// treeBuilder carries the per-transition constants through the
// doubling recursion.
type treeBuilder struct {
	target  Target
	logU    float64
	eps     float64
	h0      float64
	invMass []float64
	rng     *rand.Rand
}

func (b *treeBuilder) build(st state, dir float64, depth int) tree {
	if depth == 0 {
		next := leapfrog(b.target, st, dir*b.eps, b.invMass)
		h := energy(next, b.invMass)

		t := tree{minus: next, plus: next, prop: next, nAlpha: 1}
		if b.logU <= -h {
			t.n = 1
		}
		// Written so a NaN Hamiltonian also trips the divergence.
		if !(b.logU < deltaMax-h) {
			t.stop = true
			t.div = true
		}
		switch delta := b.h0 - h; {
		case math.IsNaN(delta):
		case delta >= 0:
			t.alpha = 1
		default:
			t.alpha = math.Exp(delta)
		}
		return t
	}

	t := b.build(st, dir, depth-1)
	if t.stop {
		return t
	}

	var t2 tree
	if dir < 0 {
		t2 = b.build(t.minus, dir, depth-1)
		t.minus = t2.minus
	} else {
		t2 = b.build(t.plus, dir, depth-1)
		t.plus = t2.plus
	}

	if total := t.n + t2.n; total > 0 && b.rng.Float64() < float64(t2.n)/float64(total) {
		t.prop = t2.prop
	}
	t.n += t2.n
	t.alpha += t2.alpha
	t.nAlpha += t2.nAlpha
	t.div = t.div || t2.div
	t.stop = t2.stop || uTurn(t.minus, t.plus, b.invMass)
	return t
}

// uTurn reports whether the trajectory spanning the two edge states has
// started doubling back, measured in the inverse-mass metric.
func uTurn(minus, plus state, invMass []float64) bool {
	var backward, forward float64
	for i := range minus.pos {
		d := plus.pos[i] - minus.pos[i]
		backward += d * invMass[i] * minus.mom[i]
		forward += d * invMass[i] * plus.mom[i]
	}
	return backward < 0 || forward < 0
}
