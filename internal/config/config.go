// Package config loads and validates the YAML run configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/hbnn/internal/bnn"
	"github.com/born-ml/hbnn/internal/dataset"
	"github.com/born-ml/hbnn/internal/mcmc"
)

// Config captures the runtime knobs for a run.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Model   ModelConfig   `yaml:"model"`
	Sampler SamplerConfig `yaml:"sampler"`
	Output  OutputConfig  `yaml:"output"`
}

// DataConfig describes the synthetic grouped dataset.
type DataConfig struct {
	Groups       int     `yaml:"groups"`
	MinGroupSize int     `yaml:"min_group_size"`
	MaxGroupSize int     `yaml:"max_group_size"`
	Noise        float64 `yaml:"noise"`
	MaxRotation  float64 `yaml:"max_rotation"`
	TestFraction float64 `yaml:"test_fraction"`
	Seed         int64   `yaml:"seed"`
}

// ModelConfig describes the network.
type ModelConfig struct {
	HiddenSize int    `yaml:"hidden_size"`
	Pooling    string `yaml:"pooling"`
}

// SamplerConfig describes the inference run.
type SamplerConfig struct {
	Algorithm     string  `yaml:"algorithm"` // nuts, hmc or rwm
	Chains        int     `yaml:"chains"`
	Warmup        int     `yaml:"warmup"`
	Draws         int     `yaml:"draws"`
	TargetAccept  float64 `yaml:"target_accept"`
	MaxDepth      int     `yaml:"max_depth"`
	StepSize      float64 `yaml:"step_size"`
	PathLength    int     `yaml:"path_length"`
	AdaptMass     bool    `yaml:"adapt_mass"`
	ProposalScale float64 `yaml:"proposal_scale"` // rwm only
	MAPSteps      int     `yaml:"map_steps"`
	MAPLearnRate  float64 `yaml:"map_learn_rate"`
}

// OutputConfig describes where artifacts go.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Plots     bool   `yaml:"plots"`
	SaveDraws bool   `yaml:"save_draws"` // write the raw draws as a binary trace file
}

// Default returns the runnable baseline configuration.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Groups:       5,
			MinGroupSize: 20,
			MaxGroupSize: 60,
			Noise:        0.1,
			MaxRotation:  1.2,
			TestFraction: 0.2,
			Seed:         42,
		},
		Model: ModelConfig{
			HiddenSize: 16,
			Pooling:    string(bnn.PoolingHierarchical),
		},
		Sampler: SamplerConfig{
			Algorithm:     "nuts",
			Chains:        4,
			Warmup:        500,
			Draws:         1000,
			TargetAccept:  0.8,
			MaxDepth:      10,
			PathLength:    32,
			AdaptMass:     true,
			ProposalScale: 0.02,
			MAPSteps:      200,
			MAPLearnRate:  0.05,
		},
		Output: OutputConfig{
			Dir:       "out",
			Plots:     true,
			SaveDraws: false,
		},
	}
}

// Load reads path into a copy of the defaults, so absent keys keep
// their baseline values. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overrides captures CLI-supplied values. Zero fields leave the config
// untouched.
type Overrides struct {
	Groups    int
	Seed      int64
	Algorithm string
	Chains    int
	Warmup    int
	Draws     int
	Hidden    int
	Pooling   string
	OutputDir string
	NoPlots   bool
	SaveDraws bool
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Groups > 0 {
		c.Data.Groups = o.Groups
	}
	if o.Seed != 0 {
		c.Data.Seed = o.Seed
	}
	if o.Algorithm != "" {
		c.Sampler.Algorithm = o.Algorithm
	}
	if o.Chains > 0 {
		c.Sampler.Chains = o.Chains
	}
	if o.Warmup > 0 {
		c.Sampler.Warmup = o.Warmup
	}
	if o.Draws > 0 {
		c.Sampler.Draws = o.Draws
	}
	if o.Hidden > 0 {
		c.Model.HiddenSize = o.Hidden
	}
	if o.Pooling != "" {
		c.Model.Pooling = o.Pooling
	}
	if o.OutputDir != "" {
		c.Output.Dir = o.OutputDir
	}
	if o.NoPlots {
		c.Output.Plots = false
	}
	if o.SaveDraws {
		c.Output.SaveDraws = true
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: config is nil")
	}
	if err := c.DatasetConfig().Validate(); err != nil {
		return err
	}
	if c.Data.TestFraction < 0 || c.Data.TestFraction >= 1 {
		return fmt.Errorf("config: test_fraction must be in [0, 1) (got %g)", c.Data.TestFraction)
	}
	if err := c.BNNConfig().Validate(); err != nil {
		return err
	}

	switch c.Sampler.Algorithm {
	case "nuts", "hmc", "rwm":
	default:
		return fmt.Errorf("config: unknown sampler algorithm %q", c.Sampler.Algorithm)
	}
	if c.Sampler.Chains < 1 {
		return fmt.Errorf("config: chains must be > 0 (got %d)", c.Sampler.Chains)
	}
	if err := c.MCMCConfig().Validate(); err != nil {
		return err
	}
	if c.Sampler.Algorithm == "rwm" && c.Sampler.ProposalScale <= 0 {
		return fmt.Errorf("config: proposal_scale must be > 0 for rwm (got %g)", c.Sampler.ProposalScale)
	}
	if c.Sampler.MAPSteps < 0 {
		return fmt.Errorf("config: map_steps must be >= 0 (got %d)", c.Sampler.MAPSteps)
	}
	if c.Sampler.MAPSteps > 0 && c.Sampler.MAPLearnRate <= 0 {
		return fmt.Errorf("config: map_learn_rate must be > 0 (got %g)", c.Sampler.MAPLearnRate)
	}

	if c.Output.Dir == "" {
		return errors.New("config: output dir must be set")
	}
	return nil
}

// DatasetConfig converts the data section.
func (c *Config) DatasetConfig() dataset.Config {
	return dataset.Config{
		NumGroups:    c.Data.Groups,
		MinGroupSize: c.Data.MinGroupSize,
		MaxGroupSize: c.Data.MaxGroupSize,
		Noise:        c.Data.Noise,
		MaxRotation:  c.Data.MaxRotation,
		Seed:         c.Data.Seed,
	}
}

// BNNConfig converts the model section.
func (c *Config) BNNConfig() bnn.Config {
	return bnn.Config{
		HiddenSize: c.Model.HiddenSize,
		Pooling:    bnn.Pooling(c.Model.Pooling),
	}
}

// MCMCConfig converts the sampler section.
func (c *Config) MCMCConfig() mcmc.Config {
	return mcmc.Config{
		Warmup:       c.Sampler.Warmup,
		Draws:        c.Sampler.Draws,
		TargetAccept: c.Sampler.TargetAccept,
		StepSize:     c.Sampler.StepSize,
		MaxDepth:     c.Sampler.MaxDepth,
		PathLength:   c.Sampler.PathLength,
		AdaptMass:    c.Sampler.AdaptMass,
	}
}
