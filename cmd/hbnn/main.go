// Package main runs the hierarchical BNN pipeline end to end: generate
// grouped two-moons data, pad it, find a posterior mode, sample with
// the configured MCMC algorithm, diagnose the chains, evaluate
// accuracy, and write plots plus a JSON run report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand" //nolint:gosec // reproducible runs, not crypto
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/born-ml/hbnn/internal/backend/cpu"
	"github.com/born-ml/hbnn/internal/bnn"
	"github.com/born-ml/hbnn/internal/config"
	"github.com/born-ml/hbnn/internal/dataset"
	"github.com/born-ml/hbnn/internal/mcmc"
	"github.com/born-ml/hbnn/internal/optim"
	"github.com/born-ml/hbnn/internal/report"
	"github.com/born-ml/hbnn/internal/trace"
	"github.com/born-ml/hbnn/internal/viz"
)

// maxPlotDraws bounds the posterior draws fed to the plotting grid;
// the predictive surface is already smooth well below this.
const maxPlotDraws = 200

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (defaults used when empty)")
	groups := flag.Int("groups", 0, "Number of data groups")
	seed := flag.Int64("seed", 0, "PRNG seed")
	algorithm := flag.String("algorithm", "", "Sampler: nuts, hmc or rwm")
	chains := flag.Int("chains", 0, "Number of chains")
	warmup := flag.Int("warmup", 0, "Warmup iterations per chain")
	draws := flag.Int("draws", 0, "Retained draws per chain")
	hidden := flag.Int("hidden", 0, "Hidden layer width")
	pooling := flag.String("pooling", "", "Weight sharing: hierarchical, pooled or unpooled")
	outDir := flag.String("out", "", "Output directory")
	noPlots := flag.Bool("no-plots", false, "Skip PNG artifacts")
	saveDraws := flag.Bool("save-draws", false, "Write the raw draws as a binary trace file")

	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	cfg.ApplyOverrides(config.Overrides{
		Groups:    *groups,
		Seed:      *seed,
		Algorithm: *algorithm,
		Chains:    *chains,
		Warmup:    *warmup,
		Draws:     *draws,
		Hidden:    *hidden,
		Pooling:   *pooling,
		OutputDir: *outDir,
		NoPlots:   *noPlots,
		SaveDraws: *saveDraws,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log.Printf("algorithm=%s chains=%d warmup=%d draws=%d pooling=%s hidden=%d seed=%d",
		cfg.Sampler.Algorithm, cfg.Sampler.Chains, cfg.Sampler.Warmup, cfg.Sampler.Draws,
		cfg.Model.Pooling, cfg.Model.HiddenSize, cfg.Data.Seed)

	rep := report.New()
	rep.Config = cfg
	phase := time.Now()

	// Data: generate, split, pad.
	data, err := dataset.Generate(cfg.DatasetConfig())
	if err != nil {
		return err
	}
	train, test, err := data.Split(cfg.Data.TestFraction, cfg.Data.Seed)
	if err != nil {
		return err
	}
	log.Printf("phase=data groups=%d sizes=%v train=%d test=%d",
		data.NumGroups(), data.Sizes(), train.TotalSamples(), test.TotalSamples())

	backend := cpu.New()
	trainBatch, err := dataset.Pad(train, backend)
	if err != nil {
		return err
	}
	log.Printf("phase=pad shape=%v mask_total=%d", trainBatch.X.Shape(), train.TotalSamples())

	model, err := bnn.NewModel(trainBatch, cfg.BNNConfig())
	if err != nil {
		return err
	}
	log.Printf("phase=model dim=%d pooling=%s", model.Dim(), model.Pooling())
	rep.Data = report.DataSummary{
		NumGroups:   data.NumGroups(),
		GroupSizes:  train.Sizes(),
		MaxSize:     train.MaxSize(),
		NumFeatures: train.NumFeatures,
		TrainPoints: train.TotalSamples(),
		TestPoints:  test.TotalSamples(),
	}
	rep.AddTiming("data", time.Since(phase))
	phase = time.Now()

	// Chain starting points, optionally warm-started at a posterior mode.
	rng := rand.New(rand.NewSource(cfg.Data.Seed)) //nolint:gosec
	var mode []float64
	if cfg.Sampler.MAPSteps > 0 {
		start := model.InitPosition(rng)
		before := model.LogProb(start)
		mode = climbToMode(model, start, cfg.Sampler.MAPSteps, cfg.Sampler.MAPLearnRate)
		log.Printf("phase=map steps=%d logp_start=%.2f logp_end=%.2f",
			cfg.Sampler.MAPSteps, before, model.LogProb(mode))
	}

	targets := make([]mcmc.Target, cfg.Sampler.Chains)
	inits := make([][]float64, cfg.Sampler.Chains)
	for i := range targets {
		targets[i] = model.Clone()
		if mode != nil {
			q := append([]float64(nil), mode...)
			for j := range q {
				q[j] += 0.05 * rng.NormFloat64()
			}
			inits[i] = q
		} else {
			inits[i] = model.InitPosition(rng)
		}
	}
	rep.AddTiming("map", time.Since(phase))
	phase = time.Now()

	// Sample.
	sampler, err := newSampler(cfg)
	if err != nil {
		return err
	}
	result, err := mcmc.Run(ctx, sampler, targets, inits, uint64(cfg.Data.Seed)) //nolint:gosec
	if err != nil {
		return err
	}
	log.Printf("phase=sample accept=%.3f divergences=%d elapsed=%s",
		result.MeanAccept(), result.TotalDivergences(), time.Since(phase).Round(time.Millisecond))
	rep.SetSampler(cfg.Sampler.Algorithm, cfg.Sampler.Warmup, result)
	rep.AddTiming("sample", time.Since(phase))
	phase = time.Now()

	// Diagnose.
	diag, err := mcmc.Diagnose(result)
	if err != nil {
		log.Printf("phase=diagnose skipped=%v", err)
	} else {
		log.Printf("phase=diagnose max_rhat=%.3f min_ess=%.0f median_ess=%.0f",
			diag.MaxRHat(), diag.MinESS(), diag.MedianESS())
		rep.SetDiagnostics(diag)
	}

	// Evaluate.
	pooled := result.Pooled()
	trainProbs, err := model.PosteriorPredictive(pooled, trainBatch)
	if err != nil {
		return err
	}
	trainAcc := model.Accuracy(trainProbs, trainBatch)

	testAcc := 0.0
	if test.TotalSamples() > 0 {
		testBatch, err := dataset.Pad(test, backend)
		if err != nil {
			return err
		}
		testProbs, err := model.PosteriorPredictive(pooled, testBatch)
		if err != nil {
			return err
		}
		testAcc = model.Accuracy(testProbs, testBatch)
	}
	rep.Accuracy = report.AccuracySummary{Train: trainAcc, Test: testAcc}
	log.Printf("phase=evaluate train_acc=%.3f test_acc=%.3f", trainAcc, testAcc)
	rep.AddTiming("evaluate", time.Since(phase))
	phase = time.Now()

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if cfg.Output.SaveDraws {
		tracePath := filepath.Join(cfg.Output.Dir, fmt.Sprintf("trace-%s.bin", rep.ID))
		info := trace.Info{
			Algorithm: cfg.Sampler.Algorithm,
			Seed:      uint64(cfg.Data.Seed), //nolint:gosec
			Meta:      map[string]string{"run": rep.ID},
		}
		if err := trace.Write(tracePath, result, info); err != nil {
			return err
		}
		rep.Trace = tracePath
		log.Printf("phase=trace path=%s draws=%d dim=%d", tracePath, len(pooled), result.Dim())
	}

	// Plots.
	if cfg.Output.Plots {
		plotDraws := thin(pooled, maxPlotDraws)
		surface := func(group int, points [][]float64) ([]float64, error) {
			return model.GridProbabilities(plotDraws, group, points)
		}

		boundaries := filepath.Join(cfg.Output.Dir, "boundaries.png")
		if err := viz.DecisionBoundaries(boundaries, train, surface, viz.BoundaryOptions{}); err != nil {
			return err
		}
		rep.AddPlot(boundaries)

		traces := filepath.Join(cfg.Output.Dir, "traces.png")
		if err := viz.LogPosteriorTraces(traces, result); err != nil {
			return err
		}
		rep.AddPlot(traces)
		log.Printf("phase=plot boundaries=%s traces=%s", boundaries, traces)
		rep.AddTiming("plot", time.Since(phase))
	}

	path, err := rep.Write(cfg.Output.Dir)
	if err != nil {
		return err
	}
	log.Printf("phase=report path=%s", path)
	return nil
}

// newSampler builds the configured sampler.
func newSampler(cfg *config.Config) (mcmc.Sampler, error) {
	mc := cfg.MCMCConfig()
	switch cfg.Sampler.Algorithm {
	case "nuts":
		return mcmc.NewNUTS(mc), nil
	case "hmc":
		return mcmc.NewHMC(mc), nil
	case "rwm":
		return mcmc.NewRWM(mc, cfg.Sampler.ProposalScale), nil
	default:
		return nil, fmt.Errorf("unknown sampler algorithm %q", cfg.Sampler.Algorithm)
	}
}

// climbToMode runs Adam on the negative log posterior and returns the
// final position.
func climbToMode(model *bnn.Model, start []float64, steps int, lr float64) []float64 {
	q := append([]float64(nil), start...)
	opt := optim.NewAdam(len(q), optim.AdamConfig{LR: lr})

	for i := 0; i < steps; i++ {
		_, grad := model.LogDensity(q)
		for j := range grad {
			grad[j] = -grad[j]
		}
		opt.Step(q, grad)
	}
	return q
}

// thin returns at most max draws, evenly spaced across the input.
func thin(draws [][]float64, max int) [][]float64 {
	if len(draws) <= max {
		return draws
	}
	out := make([][]float64, 0, max)
	step := float64(len(draws)) / float64(max)
	for i := 0; i < max; i++ {
		out = append(out, draws[int(float64(i)*step)])
	}
	return out
}
