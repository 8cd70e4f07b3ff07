package mcmc

// welford is an online per-dimension mean and variance accumulator
// feeding the mass-matrix adaptation window.
type welford struct {
	n    int
	mean []float64
	m2   []float64
}

func newWelford(dim int) *welford {
	return &welford{
		mean: make([]float64, dim),
		m2:   make([]float64, dim),
	}
}

// push folds one position into the running moments.
func (w *welford) push(x []float64) {
	w.n++
	for i, v := range x {
		d := v - w.mean[i]
		w.mean[i] += d / float64(w.n)
		w.m2[i] += d * (v - w.mean[i])
	}
}

// invMass returns the regularized variance estimate as a diagonal
// inverse mass matrix, shrunk toward a small identity. Returns nil
// until two positions have been seen.
func (w *welford) invMass() []float64 {
	if w.n < 2 {
		return nil
	}
	n := float64(w.n)
	out := make([]float64, len(w.m2))
	for i, m2 := range w.m2 {
		v := m2 / (n - 1)
		out[i] = n/(n+5)*v + 1e-3*5/(n+5)
	}
	return out
}
