// Package bnn defines the Bayesian neural network over grouped,
// padded classification data.
//
// The network is a fixed three-layer MLP (features -> hidden -> hidden ->
// logit) with tanh activations and no biases. Weights exist per group; how
// they relate across groups is the pooling mode:
//
//   - pooled: one weight set shared by every group
//   - unpooled: independent weights per group
//   - hierarchical: non-centered parameterization W_g = mu + sigma*eps_g,
//     where mu is the population mean, eps_g the per-group deviation, and
//     sigma a half-normal population scale sampled on log scale
//
// The model exposes its log posterior and gradient over a flat position
// vector, which is the contract the samplers consume. Probabilities for
// held-out data come from averaging sigmoid(logits) over retained
// posterior draws.
package bnn

import (
	"fmt"
	"math"
	"math/rand" //nolint:gosec // jittered chain starts, not crypto

	"github.com/born-ml/hbnn/internal/autodiff"
	"github.com/born-ml/hbnn/internal/backend/cpu"
	"github.com/born-ml/hbnn/internal/dataset"
	"github.com/born-ml/hbnn/internal/tensor"
)

// Backend is the concrete compute stack the model runs on: the autodiff
// decorator over the CPU backend.
type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

// Pooling selects how weights are shared across groups.
type Pooling string

// Pooling modes.
const (
	PoolingHierarchical Pooling = "hierarchical"
	PoolingPooled       Pooling = "pooled"
	PoolingUnpooled     Pooling = "unpooled"
)

// Config describes the network and its prior structure.
type Config struct {
	HiddenSize int     // width of both hidden layers
	Pooling    Pooling // weight sharing mode (default hierarchical)
}

// Validate checks the model configuration.
func (c Config) Validate() error {
	if c.HiddenSize < 1 {
		return fmt.Errorf("bnn: hidden size %d too small", c.HiddenSize)
	}
	switch c.Pooling {
	case PoolingHierarchical, PoolingPooled, PoolingUnpooled:
		return nil
	default:
		return fmt.Errorf("bnn: unknown pooling mode %q", c.Pooling)
	}
}

// layerDims is one weight matrix's input/output width.
type layerDims struct {
	in  int
	out int
}

// Model is a Bayesian MLP bound to one padded training batch.
//
// A Model owns a private autodiff backend, so it is not safe for
// concurrent use; Clone produces an independent instance sharing the
// same (read-only) training tensors for use by parallel chains.
type Model struct {
	cfg   Config
	space *ParamSpace

	backend Backend

	x    *tensor.RawTensor // [G, Nmax, D]
	y    *tensor.RawTensor // [G, Nmax]
	mask *tensor.RawTensor // [G, Nmax]

	numGroups   int
	maxSize     int
	numFeatures int

	layers    []layerDims
	constTerm float64 // normalizing constants of the log density
}

const (
	halfLog2Pi = 0.9189385332046727 // 0.5 * log(2*pi)
)

// NewModel builds a model over a padded training batch.
func NewModel(batch *dataset.Batch[*cpu.CPUBackend], cfg Config) (*Model, error) {
	if cfg.Pooling == "" {
		cfg.Pooling = PoolingHierarchical
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shape := batch.X.Shape()
	m := &Model{
		cfg:         cfg,
		backend:     autodiff.New(cpu.New()),
		x:           batch.X.Raw(),
		y:           batch.Y.Raw(),
		mask:        batch.Mask.Raw(),
		numGroups:   shape[0],
		maxSize:     shape[1],
		numFeatures: shape[2],
	}
	m.layers = []layerDims{
		{in: m.numFeatures, out: cfg.HiddenSize},
		{in: cfg.HiddenSize, out: cfg.HiddenSize},
		{in: cfg.HiddenSize, out: 1},
	}

	space, err := m.buildSpace()
	if err != nil {
		return nil, err
	}
	m.space = space
	m.constTerm = m.logDensityConst()

	return m, nil
}

// Clone returns an independent model with its own backend and tape,
// sharing the read-only training tensors. Use one clone per chain.
func (m *Model) Clone() *Model {
	clone := *m
	clone.backend = autodiff.New(cpu.New())
	return &clone
}

// buildSpace lays out the parameter blocks for the pooling mode.
func (m *Model) buildSpace() (*ParamSpace, error) {
	var blocks []Block
	for l, d := range m.layers {
		switch m.cfg.Pooling {
		case PoolingHierarchical:
			blocks = append(blocks,
				Block{Name: blockName("mu", l), Shape: tensor.Shape{d.in, d.out}},
				Block{Name: blockName("logsigma", l), Shape: tensor.Shape{}},
				Block{Name: blockName("eps", l), Shape: tensor.Shape{m.numGroups, d.in, d.out}},
			)
		case PoolingPooled:
			blocks = append(blocks,
				Block{Name: blockName("w", l), Shape: tensor.Shape{d.in, d.out}})
		case PoolingUnpooled:
			blocks = append(blocks,
				Block{Name: blockName("w", l), Shape: tensor.Shape{m.numGroups, d.in, d.out}})
		}
	}
	return NewParamSpace(blocks...)
}

func blockName(kind string, layer int) string {
	return fmt.Sprintf("%s%d", kind, layer+1)
}

// logDensityConst sums the normalizing constants the graph leaves out:
// -n/2*log(2pi) per standard-normal block and 0.5*log(2/pi) per
// log-scale half-normal. Constants have zero gradient, so they are added
// once outside the recorded graph.
func (m *Model) logDensityConst() float64 {
	c := 0.0
	for _, d := range m.layers {
		n := d.in * d.out
		switch m.cfg.Pooling {
		case PoolingHierarchical:
			// mu, eps, then the log-scale half-normal.
			c -= float64(n) * halfLog2Pi
			c -= float64(m.numGroups) * float64(n) * halfLog2Pi
			c += 0.5 * math.Log(2.0/math.Pi)
		case PoolingPooled:
			c -= float64(n) * halfLog2Pi
		case PoolingUnpooled:
			c -= float64(m.numGroups) * float64(n) * halfLog2Pi
		}
	}
	return c
}

// Space returns the parameter layout.
func (m *Model) Space() *ParamSpace {
	return m.space
}

// Dim returns the flat parameter dimension.
func (m *Model) Dim() int {
	return m.space.Dim()
}

// NumGroups returns the number of groups the model was built over.
func (m *Model) NumGroups() int {
	return m.numGroups
}

// Pooling returns the configured pooling mode.
func (m *Model) Pooling() Pooling {
	return m.cfg.Pooling
}

// InitPosition returns a jittered starting position: every coordinate
// drawn from N(0, 0.1). Small starts keep the first leapfrog steps away
// from saturated tanh regions.
func (m *Model) InitPosition(rng *rand.Rand) []float64 {
	theta := make([]float64, m.space.Dim())
	for i := range theta {
		theta[i] = 0.1 * rng.NormFloat64()
	}
	return theta
}

// LogDensity evaluates the log posterior and its gradient at theta.
// This is the samplers' target contract.
func (m *Model) LogDensity(theta []float64) (float64, []float64) {
	value, grad, err := m.logPosterior(theta, true)
	if err != nil {
		panic(fmt.Sprintf("bnn: log density: %v", err))
	}
	return value, grad
}

// LogProb evaluates the log posterior without gradients. It satisfies
// gonum's distmv.LogProber, which is how the external random-walk
// sampler consumes the model.
func (m *Model) LogProb(theta []float64) float64 {
	value, _, err := m.logPosterior(theta, false)
	if err != nil {
		panic(fmt.Sprintf("bnn: log prob: %v", err))
	}
	return value
}

// logPosterior builds the log-density graph over the padded batch and,
// when withGrad is set, runs one tape backward for the flat gradient.
func (m *Model) logPosterior(theta []float64, withGrad bool) (float64, []float64, error) {
	be := m.backend
	tape := be.GetTape()
	if withGrad {
		tape.Clear()
		tape.StartRecording()
		defer func() {
			tape.StopRecording()
			tape.Clear()
		}()
	}

	blocks, err := m.space.Tensors(theta, be)
	if err != nil {
		return 0, nil, err
	}

	weights := m.groupWeights(blocks)
	z := m.forward(weights, m.x)
	ll := m.maskedLogLikelihood(z, m.y, m.mask)
	total := be.Add(ll, m.logPrior(blocks))
	total = be.AddScalar(total, m.constTerm)

	value := total.AsFloat64()[0]
	if !withGrad {
		return value, nil, nil
	}

	wrapped := tensor.New[float64](total, be)
	grads := autodiff.Backward(wrapped, be)
	return value, m.space.FlattenGrads(blocks, grads), nil
}

// groupWeights assembles the per-group weight tensors [G, in, out] for
// every layer according to the pooling mode.
func (m *Model) groupWeights(blocks map[string]*tensor.RawTensor) []*tensor.RawTensor {
	be := m.backend
	weights := make([]*tensor.RawTensor, len(m.layers))

	for l, d := range m.layers {
		switch m.cfg.Pooling {
		case PoolingHierarchical:
			mu := be.Reshape(blocks[blockName("mu", l)], tensor.Shape{1, d.in, d.out})
			sigma := be.Exp(blocks[blockName("logsigma", l)])
			scaled := be.Mul(blocks[blockName("eps", l)], sigma)
			weights[l] = be.Add(mu, scaled)
		case PoolingPooled:
			w := be.Reshape(blocks[blockName("w", l)], tensor.Shape{1, d.in, d.out})
			weights[l] = be.Expand(w, tensor.Shape{m.numGroups, d.in, d.out})
		case PoolingUnpooled:
			weights[l] = blocks[blockName("w", l)]
		}
	}
	return weights
}

// forward runs the batched MLP over x [G, N, D] and returns logits
// [G, N].
func (m *Model) forward(weights []*tensor.RawTensor, x *tensor.RawTensor) *tensor.RawTensor {
	be := m.backend

	h := x
	for l, w := range weights {
		h = be.BatchMatMul(h, w)
		if l < len(weights)-1 {
			h = be.Tanh(h)
		}
	}

	shape := x.Shape()
	return be.Reshape(h, tensor.Shape{shape[0], shape[1]})
}

// maskedLogLikelihood computes sum(mask * (y*z - softplus(z))), the
// Bernoulli-logits log likelihood with padded positions forced to zero.
// Softplus carries the overflow guard, so extreme logits stay finite.
func (m *Model) maskedLogLikelihood(z, y, mask *tensor.RawTensor) *tensor.RawTensor {
	be := m.backend
	yz := be.Mul(y, z)
	diff := be.Sub(yz, be.Softplus(z))
	return be.Sum(be.Mul(mask, diff))
}

// logPrior builds the prior terms of the graph, omitting normalizing
// constants (folded in once via constTerm).
func (m *Model) logPrior(blocks map[string]*tensor.RawTensor) *tensor.RawTensor {
	be := m.backend

	var total *tensor.RawTensor
	add := func(term *tensor.RawTensor) {
		if total == nil {
			total = term
			return
		}
		total = be.Add(total, term)
	}

	for l := range m.layers {
		switch m.cfg.Pooling {
		case PoolingHierarchical:
			add(m.stdNormalTerm(blocks[blockName("mu", l)]))
			add(m.stdNormalTerm(blocks[blockName("eps", l)]))
			add(m.halfNormalLogScaleTerm(blocks[blockName("logsigma", l)]))
		case PoolingPooled, PoolingUnpooled:
			add(m.stdNormalTerm(blocks[blockName("w", l)]))
		}
	}
	return total
}

// stdNormalTerm returns -0.5 * sum(w*w), the variable part of a
// standard normal log density.
func (m *Model) stdNormalTerm(w *tensor.RawTensor) *tensor.RawTensor {
	be := m.backend
	return be.MulScalar(be.Sum(be.Mul(w, w)), -0.5)
}

// halfNormalLogScaleTerm returns s - exp(2s)/2 for s = log sigma: the
// half-normal density of sigma plus the log-scale Jacobian.
func (m *Model) halfNormalLogScaleTerm(s *tensor.RawTensor) *tensor.RawTensor {
	be := m.backend
	e := be.Exp(be.MulScalar(s, 2.0))
	return be.Add(be.MulScalar(e, -0.5), s)
}
