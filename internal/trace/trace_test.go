package trace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/hbnn/internal/mcmc"
	"github.com/born-ml/hbnn/internal/trace"
)

func sampleResult() *mcmc.Result {
	return &mcmc.Result{Chains: []*mcmc.Chain{
		{
			Draws:       [][]float64{{1, 2, 3}, {4, 5, 6}},
			LogProbs:    []float64{-10.5, -9.25},
			Accept:      []float64{0.8, 0.95},
			Divergences: 1,
			StepSize:    0.25,
		},
		{
			Draws:    [][]float64{{-1, 0, 1}},
			LogProbs: []float64{-11},
			Accept:   []float64{0.7},
			StepSize: 0.3,
		},
	}}
}

// TestTrace_RoundTrip tests that a result survives write and load
// bit for bit.
func TestTrace_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.bin")
	result := sampleResult()

	err := trace.Write(path, result, trace.Info{
		Algorithm: "nuts",
		Seed:      42,
		Meta:      map[string]string{"run": "abc"},
	})
	require.NoError(t, err)

	loaded, info, err := trace.Load(path)
	require.NoError(t, err)

	assert.Equal(t, result.Chains, loaded.Chains)
	assert.Equal(t, "nuts", info.Algorithm)
	assert.Equal(t, uint64(42), info.Seed)
	assert.Equal(t, map[string]string{"run": "abc"}, info.Meta)
	assert.False(t, info.CreatedAt.IsZero())
}

// TestTrace_UnequalChains tests that per-chain draw counts are kept
// separate rather than assumed uniform.
func TestTrace_UnequalChains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.bin")
	result := sampleResult()

	require.NoError(t, trace.Write(path, result, trace.Info{Algorithm: "hmc", Seed: 7}))

	loaded, _, err := trace.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Chains[0].NumDraws())
	assert.Equal(t, 1, loaded.Chains[1].NumDraws())
	assert.Equal(t, 3, loaded.Dim())
	assert.Equal(t, result.Pooled(), loaded.Pooled())
}

// TestTrace_DetectsCorruption tests that a flipped payload byte fails
// the checksum.
func TestTrace_DetectsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.bin")
	require.NoError(t, trace.Write(path, sampleResult(), trace.Info{Algorithm: "nuts"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, _, err = trace.Load(path)
	assert.ErrorIs(t, err, trace.ErrChecksum)
}

// TestTrace_RejectsForeignFiles tests magic and truncation checks.
func TestTrace_RejectsForeignFiles(t *testing.T) {
	dir := t.TempDir()

	notTrace := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(notTrace, []byte(`{"id": "x"}`), 0o644))
	_, _, err := trace.Load(notTrace)
	assert.ErrorIs(t, err, trace.ErrFormat)

	truncated := filepath.Join(dir, "trace.bin")
	require.NoError(t, trace.Write(truncated, sampleResult(), trace.Info{}))
	data, err := os.ReadFile(truncated)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(truncated, data[:len(data)-16], 0o644))
	_, _, err = trace.Load(truncated)
	assert.ErrorIs(t, err, trace.ErrFormat)

	_, _, err = trace.Load(filepath.Join(dir, "absent.bin"))
	assert.Error(t, err)
}

// TestTrace_WriteRejectsEmpty tests the nothing-to-write guard.
func TestTrace_WriteRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.bin")

	err := trace.Write(path, &mcmc.Result{}, trace.Info{})
	assert.Error(t, err)

	err = trace.Write(path, nil, trace.Info{})
	assert.Error(t, err)
}
