package bnn

import (
	"fmt"

	"github.com/born-ml/hbnn/internal/backend/cpu"
	"github.com/born-ml/hbnn/internal/dataset"
	"github.com/born-ml/hbnn/internal/tensor"
)

// PosteriorPredictive averages sigmoid(logits) over posterior draws for
// every padded position of a batch, returning probabilities [G, Nmax].
// The batch must cover the same groups the model was trained on; its
// padded size may differ.
func (m *Model) PosteriorPredictive(draws [][]float64, batch *dataset.Batch[*cpu.CPUBackend]) (*tensor.RawTensor, error) {
	if len(draws) == 0 {
		return nil, fmt.Errorf("bnn: no posterior draws")
	}
	shape := batch.X.Shape()
	if shape[0] != m.numGroups {
		return nil, fmt.Errorf("bnn: batch has %d groups, model trained on %d", shape[0], m.numGroups)
	}
	if shape[2] != m.numFeatures {
		return nil, fmt.Errorf("bnn: batch has %d features, model trained on %d", shape[2], m.numFeatures)
	}

	be := m.backend
	perDraw := make([]*tensor.RawTensor, 0, len(draws))
	for i, theta := range draws {
		blocks, err := m.space.Tensors(theta, be)
		if err != nil {
			return nil, fmt.Errorf("bnn: draw %d: %w", i, err)
		}
		weights := m.groupWeights(blocks)
		z := m.forward(weights, batch.X.Raw())
		p := be.Sigmoid(z)
		perDraw = append(perDraw, be.Reshape(p, tensor.Shape{1, shape[0], shape[1]}))
	}

	// Stack draws into [S, G, Nmax], then average over the draw axis.
	stacked := be.Cat(perDraw, 0)
	return be.MeanDim(stacked, 0, false), nil
}

// Accuracy computes masked classification accuracy for mean posterior
// probabilities against a batch's labels: predictions are probability >=
// 0.5, and only positions with mask 1 count. The result is always within
// [0, 1] because the numerator sums a 0/1 indicator over exactly the
// positions the denominator counts.
func (m *Model) Accuracy(probs *tensor.RawTensor, batch *dataset.Batch[*cpu.CPUBackend]) float64 {
	be := m.backend
	shape := probs.Shape()

	half := tensor.Full[float64](shape, 0.5, be)
	ones := tensor.Ones[float64](shape, be)
	zeros := tensor.Zeros[float64](shape, be)

	// pred in {0,1}; correct = pred*y + (1-pred)*(1-y).
	pred := be.Where(be.GreaterEqual(probs, half.Raw()), ones.Raw(), zeros.Raw())
	y := batch.Y.Raw()
	agreeOnes := be.Mul(pred, y)
	agreeZeros := be.Mul(be.AddScalar(be.Neg(pred), 1.0), be.AddScalar(be.Neg(y), 1.0))
	correct := be.Add(agreeOnes, agreeZeros)

	masked := be.Mul(batch.Mask.Raw(), correct)
	num := be.Sum(masked).AsFloat64()[0]
	den := be.Sum(batch.Mask.Raw()).AsFloat64()[0]
	return num / den
}

// GridProbabilities evaluates the posterior-mean probability surface of
// one group over arbitrary 2-D points (the plotting grid). Each point is
// a [x, y] pair; the result has one probability per point.
func (m *Model) GridProbabilities(draws [][]float64, group int, points [][]float64) ([]float64, error) {
	if len(draws) == 0 {
		return nil, fmt.Errorf("bnn: no posterior draws")
	}
	if group < 0 || group >= m.numGroups {
		return nil, fmt.Errorf("bnn: group %d out of range [0, %d)", group, m.numGroups)
	}
	if m.numFeatures != 2 {
		return nil, fmt.Errorf("bnn: grid prediction needs 2-D features, model has %d", m.numFeatures)
	}

	be := m.backend
	n := len(points)

	gridRaw, err := tensor.NewRaw(tensor.Shape{n, 2}, tensor.Float64, be.Device())
	if err != nil {
		return nil, fmt.Errorf("bnn: allocating grid: %w", err)
	}
	gridData := gridRaw.AsFloat64()
	for i, p := range points {
		if len(p) != 2 {
			return nil, fmt.Errorf("bnn: grid point %d has %d coordinates, want 2", i, len(p))
		}
		gridData[2*i] = p[0]
		gridData[2*i+1] = p[1]
	}

	mean := make([]float64, n)
	for i, theta := range draws {
		blocks, err := m.space.Tensors(theta, be)
		if err != nil {
			return nil, fmt.Errorf("bnn: draw %d: %w", i, err)
		}
		weights := m.groupWeights(blocks)

		// Plain 2-D forward with this group's weight slice.
		h := gridRaw
		for l, w := range weights {
			h = be.MatMul(h, m.sliceGroup(w, group, l))
			if l < len(weights)-1 {
				h = be.Tanh(h)
			}
		}
		p := be.Sigmoid(be.Reshape(h, tensor.Shape{n}))

		for j, v := range p.AsFloat64() {
			mean[j] += v
		}
	}

	for j := range mean {
		mean[j] /= float64(len(draws))
	}
	return mean, nil
}

// sliceGroup extracts one group's [in, out] weight matrix from the
// grouped [G, in, out] tensor.
func (m *Model) sliceGroup(w *tensor.RawTensor, group, layer int) *tensor.RawTensor {
	d := m.layers[layer]
	out, err := tensor.NewRaw(tensor.Shape{d.in, d.out}, tensor.Float64, m.backend.Device())
	if err != nil {
		panic(fmt.Sprintf("bnn: slicing group weights: %v", err))
	}
	n := d.in * d.out
	copy(out.AsFloat64(), w.AsFloat64()[group*n:(group+1)*n])
	return out
}
