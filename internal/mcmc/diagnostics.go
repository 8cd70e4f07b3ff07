package mcmc

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Diagnostics summarizes convergence across the chains of a Result.
type Diagnostics struct {
	RHat []float64 // split R-hat per parameter
	ESS  []float64 // effective sample size per parameter
}

// Diagnose computes split R-hat and ESS for every parameter.
//
// Each chain is halved, giving twice as many sequences; R-hat compares
// between- to within-sequence variance (Gelman et al.), and ESS sums
// sequence-averaged autocorrelations with Geyer's initial positive
// sequence truncation.
func Diagnose(r *Result) (*Diagnostics, error) {
	if r == nil || len(r.Chains) == 0 {
		return nil, fmt.Errorf("mcmc: no chains to diagnose")
	}
	numDraws := len(r.Chains[0].Draws)
	for i, c := range r.Chains {
		if len(c.Draws) != numDraws {
			return nil, fmt.Errorf("mcmc: chain %d has %d draws, chain 0 has %d", i, len(c.Draws), numDraws)
		}
	}
	if numDraws < 4 {
		return nil, fmt.Errorf("mcmc: %d draws per chain is too few to diagnose", numDraws)
	}
	dim := len(r.Chains[0].Draws[0])
	if dim == 0 {
		return nil, fmt.Errorf("mcmc: draws are empty")
	}

	d := &Diagnostics{
		RHat: make([]float64, dim),
		ESS:  make([]float64, dim),
	}

	half := numDraws / 2
	for p := 0; p < dim; p++ {
		seqs := make([][]float64, 0, 2*len(r.Chains))
		for _, c := range r.Chains {
			first := make([]float64, half)
			second := make([]float64, half)
			for i := 0; i < half; i++ {
				first[i] = c.Draws[i][p]
				second[i] = c.Draws[numDraws-half+i][p]
			}
			seqs = append(seqs, first, second)
		}
		d.RHat[p], d.ESS[p] = sequenceDiagnostics(seqs)
	}
	return d, nil
}

// MaxRHat returns the worst split R-hat across parameters.
func (d *Diagnostics) MaxRHat() float64 {
	return floats.Max(d.RHat)
}

// MinESS returns the smallest per-parameter effective sample size.
func (d *Diagnostics) MinESS() float64 {
	return floats.Min(d.ESS)
}

// MedianESS returns the median per-parameter effective sample size.
func (d *Diagnostics) MedianESS() float64 {
	sorted := append([]float64(nil), d.ESS...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// sequenceDiagnostics computes R-hat and ESS over equal-length
// sequences of one parameter.
func sequenceDiagnostics(seqs [][]float64) (rhat, ess float64) {
	m := float64(len(seqs))
	n := float64(len(seqs[0]))

	means := make([]float64, len(seqs))
	vars := make([]float64, len(seqs))
	for i, s := range seqs {
		means[i] = stat.Mean(s, nil)
		vars[i] = stat.Variance(s, nil)
	}
	w := stat.Mean(vars, nil)
	b := n * stat.Variance(means, nil)
	varPlus := (n-1)/n*w + b/n

	if w == 0 {
		// Constant sequences: report convergence rather than NaN.
		return 1, m * n
	}
	rhat = math.Sqrt(varPlus / w)

	// Pair sums of averaged autocorrelations, truncated at the first
	// non-positive pair.
	var sum float64
	for k := 0; 2*k+1 < int(n); k++ {
		pair := seqRho(seqs, means, 2*k, w, varPlus) + seqRho(seqs, means, 2*k+1, w, varPlus)
		if k > 0 && pair <= 0 {
			break
		}
		sum += pair
	}

	tau := 2*sum - 1
	if tau <= 0 {
		return rhat, m * n
	}
	return rhat, m * n / tau
}

// seqRho is the multi-sequence autocorrelation estimate at one lag.
func seqRho(seqs [][]float64, means []float64, lag int, w, varPlus float64) float64 {
	var acov float64
	for i, s := range seqs {
		var c float64
		for j := 0; j+lag < len(s); j++ {
			c += (s[j] - means[i]) * (s[j+lag] - means[i])
		}
		acov += c / float64(len(s))
	}
	acov /= float64(len(seqs))
	return 1 - (w-acov)/varPlus
}
