package mcmc

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// state is one phase-space point with its cached log density and
// gradient, so a rejected transition costs no re-evaluation.
type state struct {
	pos  []float64
	mom  []float64
	logp float64
	grad []float64
}

// leapfrog advances one step of size eps (negative eps integrates
// backwards): half-step momentum, full-step position scaled by the
// inverse mass, half-step momentum.
func leapfrog(target Target, s state, eps float64, invMass []float64) state {
	mom := floats.AddScaledTo(make([]float64, len(s.mom)), s.mom, 0.5*eps, s.grad)

	pos := make([]float64, len(s.pos))
	for i := range pos {
		pos[i] = s.pos[i] + eps*invMass[i]*mom[i]
	}

	logp, grad := target.LogDensity(pos)
	floats.AddScaled(mom, 0.5*eps, grad)

	return state{pos: pos, mom: mom, logp: logp, grad: grad}
}

// energy is the Hamiltonian: negative log density plus kinetic energy
// in the inverse-mass metric.
func energy(s state, invMass []float64) float64 {
	var k float64
	for i, p := range s.mom {
		k += p * p * invMass[i]
	}
	return -s.logp + 0.5*k
}

// sampleMomentum draws the auxiliary momentum for the diagonal mass
// matrix implied by invMass (mass = 1/invMass).
func sampleMomentum(invMass []float64, src rand.Source) []float64 {
	std := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	p := make([]float64, len(invMass))
	for i := range p {
		p[i] = std.Rand() / math.Sqrt(invMass[i])
	}
	return p
}
