package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/hbnn/internal/bnn"
	"github.com/born-ml/hbnn/internal/config"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "nuts", cfg.Sampler.Algorithm)
	assert.True(t, cfg.Sampler.AdaptMass)
	assert.True(t, cfg.Output.Plots)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeYAML(t, `
data:
  groups: 3
  min_group_size: 10
  max_group_size: 12
  noise: 0.2
  max_rotation: 0.5
  test_fraction: 0.25
  seed: 7
model:
  hidden_size: 8
  pooling: pooled
sampler:
  algorithm: hmc
  chains: 2
  warmup: 100
  draws: 200
  target_accept: 0.9
  path_length: 16
output:
  dir: results
  plots: false
  save_draws: true
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Data.Groups)
	assert.Equal(t, int64(7), cfg.Data.Seed)
	assert.Equal(t, "pooled", cfg.Model.Pooling)
	assert.Equal(t, "hmc", cfg.Sampler.Algorithm)
	assert.Equal(t, 200, cfg.Sampler.Draws)
	assert.Equal(t, 0.9, cfg.Sampler.TargetAccept)
	assert.Equal(t, "results", cfg.Output.Dir)
	assert.False(t, cfg.Output.Plots)
	assert.True(t, cfg.Output.SaveDraws)
}

// TestLoad_PartialKeepsDefaults tests that keys absent from the file
// keep their baseline values, including default-true booleans.
func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := writeYAML(t, `
sampler:
  draws: 50
  adapt_mass: false
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Sampler.Draws)
	assert.False(t, cfg.Sampler.AdaptMass)

	def := config.Default()
	assert.Equal(t, def.Sampler.Warmup, cfg.Sampler.Warmup)
	assert.Equal(t, def.Data.Groups, cfg.Data.Groups)
	assert.Equal(t, def.Model.HiddenSize, cfg.Model.HiddenSize)
	assert.True(t, cfg.Output.Plots)
}

func TestLoad_EmptyFileIsDefaults(t *testing.T) {
	path := writeYAML(t, "")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeYAML(t, `
sampler:
  drawz: 50
`)

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeYAML(t, `
sampler:
  algorithm: gibbs
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "algorithm")
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.ApplyOverrides(config.Overrides{
		Groups:    9,
		Seed:      -3,
		Algorithm: "rwm",
		Chains:    2,
		Hidden:    4,
		Pooling:   "unpooled",
		OutputDir: "elsewhere",
		NoPlots:   true,
		SaveDraws: true,
	})

	assert.Equal(t, 9, cfg.Data.Groups)
	assert.Equal(t, int64(-3), cfg.Data.Seed)
	assert.Equal(t, "rwm", cfg.Sampler.Algorithm)
	assert.Equal(t, 2, cfg.Sampler.Chains)
	assert.Equal(t, 4, cfg.Model.HiddenSize)
	assert.Equal(t, "unpooled", cfg.Model.Pooling)
	assert.Equal(t, "elsewhere", cfg.Output.Dir)
	assert.False(t, cfg.Output.Plots)
	assert.True(t, cfg.Output.SaveDraws)

	def := config.Default()
	cfg.ApplyOverrides(config.Overrides{})
	assert.Equal(t, def.Sampler.Warmup, cfg.Sampler.Warmup)
	assert.Equal(t, 9, cfg.Data.Groups) // zero overrides change nothing
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"no groups", func(c *config.Config) { c.Data.Groups = 0 }},
		{"test fraction", func(c *config.Config) { c.Data.TestFraction = 1.0 }},
		{"pooling", func(c *config.Config) { c.Model.Pooling = "sideways" }},
		{"algorithm", func(c *config.Config) { c.Sampler.Algorithm = "gibbs" }},
		{"chains", func(c *config.Config) { c.Sampler.Chains = 0 }},
		{"draws", func(c *config.Config) { c.Sampler.Draws = 0 }},
		{"rwm scale", func(c *config.Config) {
			c.Sampler.Algorithm = "rwm"
			c.Sampler.ProposalScale = 0
		}},
		{"map steps", func(c *config.Config) { c.Sampler.MAPSteps = -1 }},
		{"map rate", func(c *config.Config) { c.Sampler.MAPLearnRate = 0 }},
		{"output dir", func(c *config.Config) { c.Output.Dir = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConverters(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Groups = 7
	cfg.Model.Pooling = "pooled"
	cfg.Sampler.Warmup = 123

	ds := cfg.DatasetConfig()
	assert.Equal(t, 7, ds.NumGroups)
	assert.Equal(t, cfg.Data.Seed, ds.Seed)

	bc := cfg.BNNConfig()
	assert.Equal(t, bnn.PoolingPooled, bc.Pooling)
	assert.Equal(t, cfg.Model.HiddenSize, bc.HiddenSize)

	mc := cfg.MCMCConfig()
	assert.Equal(t, 123, mc.Warmup)
	assert.Equal(t, cfg.Sampler.TargetAccept, mc.TargetAccept)
}
