// Package report writes the JSON artifact describing one run: what was
// sampled, how well it converged, and where the figures went.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/born-ml/hbnn/internal/mcmc"
)

// Report is the per-run JSON artifact.
type Report struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Config any `json:"config,omitempty"`

	Data        DataSummary     `json:"data"`
	Sampler     SamplerSummary  `json:"sampler"`
	Diagnostics DiagSummary     `json:"diagnostics"`
	Accuracy    AccuracySummary `json:"accuracy"`

	Timings map[string]float64 `json:"timings_seconds"`
	Plots   []string           `json:"plots,omitempty"`
	Trace   string             `json:"trace,omitempty"`
}

// DataSummary records the padded dataset's shape.
type DataSummary struct {
	NumGroups   int   `json:"num_groups"`
	GroupSizes  []int `json:"group_sizes"`
	MaxSize     int   `json:"max_size"`
	NumFeatures int   `json:"num_features"`
	TrainPoints int   `json:"train_points"`
	TestPoints  int   `json:"test_points"`
}

// SamplerSummary records what the sampler did.
type SamplerSummary struct {
	Algorithm   string    `json:"algorithm"`
	Chains      int       `json:"chains"`
	Warmup      int       `json:"warmup"`
	Draws       int       `json:"draws"`
	StepSizes   []float64 `json:"step_sizes"`
	MeanAccept  float64   `json:"mean_accept"`
	Divergences int       `json:"divergences"`
}

// DiagSummary condenses the convergence diagnostics.
type DiagSummary struct {
	MaxRHat   float64 `json:"max_rhat"`
	MinESS    float64 `json:"min_ess"`
	MedianESS float64 `json:"median_ess"`
}

// AccuracySummary holds the masked train/test accuracies.
type AccuracySummary struct {
	Train float64 `json:"train"`
	Test  float64 `json:"test"`
}

// New starts a report with a fresh run ID.
func New() *Report {
	return &Report{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Timings:   make(map[string]float64),
	}
}

// SetSampler fills the sampler section from a finished result.
func (r *Report) SetSampler(algorithm string, warmup int, result *mcmc.Result) {
	s := SamplerSummary{
		Algorithm:   algorithm,
		Chains:      result.NumChains(),
		Warmup:      warmup,
		MeanAccept:  result.MeanAccept(),
		Divergences: result.TotalDivergences(),
	}
	for _, c := range result.Chains {
		s.StepSizes = append(s.StepSizes, c.StepSize)
		s.Draws = c.NumDraws()
	}
	r.Sampler = s
}

// SetDiagnostics condenses the convergence summary.
func (r *Report) SetDiagnostics(d *mcmc.Diagnostics) {
	r.Diagnostics = DiagSummary{
		MaxRHat:   d.MaxRHat(),
		MinESS:    d.MinESS(),
		MedianESS: d.MedianESS(),
	}
}

// AddTiming records one stage's wall-clock duration.
func (r *Report) AddTiming(stage string, d time.Duration) {
	r.Timings[stage] = d.Seconds()
}

// AddPlot records a written figure path.
func (r *Report) AddPlot(path string) {
	r.Plots = append(r.Plots, path)
}

// Write stores the report as indented JSON under dir, named by run ID,
// and returns the full path.
func (r *Report) Write(dir string) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: encode: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("run-%s.json", r.ID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}
	return path, nil
}

// Load reads a report back; round-tripping is mostly for tests and
// tooling.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("report: read %s: %w", path, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("report: decode %s: %w", path, err)
	}
	return &r, nil
}
