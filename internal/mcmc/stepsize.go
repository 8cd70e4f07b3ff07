package mcmc

import (
	"math"

	"golang.org/x/exp/rand"
)

// dualAveraging adapts the leapfrog step size toward a target
// acceptance rate (Hoffman & Gelman, 2014, section 3.2).
type dualAveraging struct {
	mu     float64
	target float64
	gamma  float64
	t0     float64
	kappa  float64

	iter      int
	hBar      float64
	logEps    float64
	logEpsBar float64
}

func newDualAveraging(eps0, target float64) *dualAveraging {
	return &dualAveraging{
		mu:     math.Log(10 * eps0),
		target: target,
		gamma:  0.05,
		t0:     10,
		kappa:  0.75,
		logEps: math.Log(eps0),
	}
}

// update folds one iteration's acceptance statistic into the running
// estimate and returns the step size for the next iteration.
func (da *dualAveraging) update(accept float64) float64 {
	da.iter++
	m := float64(da.iter)

	w := 1 / (m + da.t0)
	da.hBar = (1-w)*da.hBar + w*(da.target-accept)
	da.logEps = da.mu - math.Sqrt(m)/da.gamma*da.hBar

	eta := math.Pow(m, -da.kappa)
	da.logEpsBar = eta*da.logEps + (1-eta)*da.logEpsBar

	return math.Exp(da.logEps)
}

// final returns the averaged step size to freeze after warmup.
func (da *dualAveraging) final() float64 {
	if da.iter == 0 {
		return math.Exp(da.logEps)
	}
	return math.Exp(da.logEpsBar)
}

// findReasonableEpsilon grows or shrinks the step size until a single
// leapfrog step lands near 50% acceptance (Hoffman & Gelman, algorithm
// 4), giving dual averaging a starting point of the right magnitude.
func findReasonableEpsilon(target Target, s state, invMass []float64, src rand.Source) float64 {
	const (
		minEps = 1e-10
		maxEps = 1e7
	)

	eps := 1.0
	s.mom = sampleMomentum(invMass, src)
	h0 := energy(s, invMass)

	logRatio := h0 - energy(leapfrog(target, s, eps, invMass), invMass)
	for math.IsNaN(logRatio) || math.IsInf(logRatio, 0) {
		eps /= 2
		if eps < minEps {
			return minEps
		}
		logRatio = h0 - energy(leapfrog(target, s, eps, invMass), invMass)
	}

	dir := -1.0
	if logRatio > -math.Ln2 {
		dir = 1.0
	}
	for dir*logRatio > -dir*math.Ln2 && eps > minEps && eps < maxEps {
		eps *= math.Pow(2, dir)
		logRatio = h0 - energy(leapfrog(target, s, eps, invMass), invMass)
		if math.IsNaN(logRatio) || math.IsInf(logRatio, 0) {
			// The doubled step blew up the integrator; settle one
			// step back.
			return eps / 2
		}
	}
	return eps
}
