package mcmc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/hbnn/internal/mcmc"
)

// unitGaussian is an isotropic unit Gaussian target.
type unitGaussian struct{ dim int }

func (t unitGaussian) Dim() int { return t.dim }

func (t unitGaussian) LogDensity(x []float64) (float64, []float64) {
	grad := make([]float64, len(x))
	var lp float64
	for i, v := range x {
		lp -= 0.5 * v * v
		grad[i] = -v
	}
	return lp, grad
}

// correlated is a zero-mean bivariate Gaussian with unit variances and
// the given correlation.
type correlated struct{ rho float64 }

func (t correlated) Dim() int { return 2 }

func (t correlated) LogDensity(x []float64) (float64, []float64) {
	d := 1 - t.rho*t.rho
	g0 := -(x[0] - t.rho*x[1]) / d
	g1 := -(x[1] - t.rho*x[0]) / d
	return 0.5 * (g0*x[0] + g1*x[1]), []float64{g0, g1}
}

// column extracts one coordinate across draws.
func column(draws [][]float64, d int) []float64 {
	out := make([]float64, len(draws))
	for i, x := range draws {
		out[i] = x[d]
	}
	return out
}

// sameTargets repeats a stateless target once per chain.
func sameTargets(t mcmc.Target, chains int) []mcmc.Target {
	out := make([]mcmc.Target, chains)
	for i := range out {
		out[i] = t
	}
	return out
}

// TestNUTS_StandardGaussian tests moment recovery, warmup acceptance,
// and convergence diagnostics on a 3-d unit Gaussian.
func TestNUTS_StandardGaussian(t *testing.T) {
	target := unitGaussian{dim: 3}
	sampler := mcmc.NewNUTS(mcmc.Config{
		Warmup:    500,
		Draws:     1000,
		AdaptMass: true,
	})

	inits := [][]float64{
		{0.1, 0.1, 0.1},
		{-0.5, 0.2, 0.0},
		{0.3, -0.3, 0.4},
		{0.0, 0.5, -0.2},
	}
	result, err := mcmc.Run(context.Background(), sampler, sameTargets(target, 4), inits, 42)
	require.NoError(t, err)
	require.Equal(t, 4, result.NumChains())
	require.Equal(t, 3, result.Dim())

	pooled := result.Pooled()
	require.Len(t, pooled, 4000)
	for d := 0; d < 3; d++ {
		col := column(pooled, d)
		assert.InDelta(t, 0.0, stat.Mean(col, nil), 0.1, "mean of dimension %d", d)
		assert.InDelta(t, 1.0, stat.Variance(col, nil), 0.15, "variance of dimension %d", d)
	}

	assert.InDelta(t, 0.8, result.MeanAccept(), 0.15)
	assert.Zero(t, result.TotalDivergences())
	for _, c := range result.Chains {
		assert.Greater(t, c.StepSize, 0.0)
		assert.Len(t, c.LogProbs, 1000)
	}

	diag, err := mcmc.Diagnose(result)
	require.NoError(t, err)
	assert.Less(t, diag.MaxRHat(), 1.05)
	assert.Greater(t, diag.MinESS(), 200.0)
}

// TestHMC_CorrelatedGaussian tests covariance recovery on a correlated
// target.
func TestHMC_CorrelatedGaussian(t *testing.T) {
	target := correlated{rho: 0.8}
	sampler := mcmc.NewHMC(mcmc.Config{
		Warmup:     400,
		Draws:      3000,
		PathLength: 16,
		AdaptMass:  true,
	})

	inits := [][]float64{{0.2, -0.2}, {-0.4, 0.1}}
	result, err := mcmc.Run(context.Background(), sampler, sameTargets(target, 2), inits, 7)
	require.NoError(t, err)

	pooled := result.Pooled()
	x, y := column(pooled, 0), column(pooled, 1)
	assert.InDelta(t, 0.0, stat.Mean(x, nil), 0.2)
	assert.InDelta(t, 0.0, stat.Mean(y, nil), 0.2)
	assert.InDelta(t, 1.0, stat.Variance(x, nil), 0.4)
	assert.InDelta(t, 1.0, stat.Variance(y, nil), 0.4)
	assert.InDelta(t, 0.8, stat.Covariance(x, y, nil), 0.2)

	assert.Zero(t, result.TotalDivergences())
}

// TestRWM_StandardGaussian tests the gonum-backed random walk: moments
// within loose bounds and a plausible moved fraction.
func TestRWM_StandardGaussian(t *testing.T) {
	target := unitGaussian{dim: 2}
	sampler := mcmc.NewRWM(mcmc.Config{Warmup: 500, Draws: 6000}, 1.0)

	chain, err := sampler.Sample(context.Background(), target, []float64{0.5, -0.5}, rand.NewSource(3))
	require.NoError(t, err)
	require.Equal(t, 6000, chain.NumDraws())
	require.Len(t, chain.LogProbs, 6000)
	assert.Equal(t, 1.0, chain.StepSize)

	for d := 0; d < 2; d++ {
		col := column(chain.Draws, d)
		assert.InDelta(t, 0.0, stat.Mean(col, nil), 0.2, "mean of dimension %d", d)
		assert.InDelta(t, 1.0, stat.Variance(col, nil), 0.35, "variance of dimension %d", d)
	}

	moved := chain.MeanAccept()
	assert.Greater(t, moved, 0.2)
	assert.Less(t, moved, 0.7)
}

// TestRun_ContextCanceled tests that cancellation stops the chains with
// the context error.
func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sampler := mcmc.NewNUTS(mcmc.Config{Warmup: 100, Draws: 100})
	_, err := mcmc.Run(ctx, sampler, sameTargets(unitGaussian{dim: 2}, 2), [][]float64{{0, 0}, {0, 0}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRun_Validation tests the driver's input checks.
func TestRun_Validation(t *testing.T) {
	sampler := mcmc.NewNUTS(mcmc.Config{Draws: 10})

	_, err := mcmc.Run(context.Background(), sampler, nil, nil, 1)
	assert.Error(t, err)

	_, err = mcmc.Run(context.Background(), sampler, sameTargets(unitGaussian{dim: 2}, 2), [][]float64{{0, 0}}, 1)
	assert.Error(t, err)
}

// TestSample_Validation tests per-chain input checks.
func TestSample_Validation(t *testing.T) {
	ctx := context.Background()
	src := rand.NewSource(1)

	_, err := mcmc.NewNUTS(mcmc.Config{}).Sample(ctx, unitGaussian{dim: 2}, []float64{0, 0}, src)
	assert.Error(t, err, "zero draws")

	_, err = mcmc.NewHMC(mcmc.Config{Draws: 5}).Sample(ctx, unitGaussian{dim: 2}, []float64{0}, src)
	assert.Error(t, err, "wrong init length")

	_, err = mcmc.NewRWM(mcmc.Config{Draws: 5}, 0).Sample(ctx, unitGaussian{dim: 2}, []float64{0, 0}, src)
	assert.Error(t, err, "zero proposal scale")
}
