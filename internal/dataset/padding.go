package dataset

import (
	"fmt"

	"github.com/born-ml/hbnn/internal/tensor"
)

// Batch is a grouped dataset packed into dense tensors of one uniform
// group size. Padded slots hold a 0.0 sentinel in X and Y; Mask is the
// parallel validity tensor with 1 at real observations and 0 at padding.
type Batch[B tensor.Backend] struct {
	X    *tensor.Tensor[float64, B] // [G, Nmax, D] features
	Y    *tensor.Tensor[float64, B] // [G, Nmax] binary labels
	Mask *tensor.Tensor[float64, B] // [G, Nmax] 1 = real, 0 = padded

	Sizes   []int // true per-group sizes
	MaxSize int   // Nmax, the padded group dimension
}

// NumGroups returns G.
func (b *Batch[B]) NumGroups() int {
	return b.X.Shape()[0]
}

// NumFeatures returns D.
func (b *Batch[B]) NumFeatures() int {
	return b.X.Shape()[2]
}

// Pad packs grouped data into a Batch. Every group is laid out in its
// own row of length Nmax = max group size; positions past the group's
// true size stay at the zero sentinel with mask 0.
func Pad[B tensor.Backend](data *GroupedData, backend B) (*Batch[B], error) {
	numGroups := data.NumGroups()
	if numGroups == 0 {
		return nil, fmt.Errorf("dataset: cannot pad empty dataset")
	}
	if data.NumFeatures == 0 {
		return nil, fmt.Errorf("dataset: dataset has no features")
	}

	maxSize := data.MaxSize()
	if maxSize == 0 {
		return nil, fmt.Errorf("dataset: all groups are empty")
	}
	numFeatures := data.NumFeatures

	xRaw, err := tensor.NewRaw(tensor.Shape{numGroups, maxSize, numFeatures}, tensor.Float64, backend.Device())
	if err != nil {
		return nil, fmt.Errorf("dataset: allocating feature tensor: %w", err)
	}
	yRaw, err := tensor.NewRaw(tensor.Shape{numGroups, maxSize}, tensor.Float64, backend.Device())
	if err != nil {
		return nil, fmt.Errorf("dataset: allocating label tensor: %w", err)
	}
	mRaw, err := tensor.NewRaw(tensor.Shape{numGroups, maxSize}, tensor.Float64, backend.Device())
	if err != nil {
		return nil, fmt.Errorf("dataset: allocating mask tensor: %w", err)
	}

	xData := xRaw.AsFloat64()
	yData := yRaw.AsFloat64()
	mData := mRaw.AsFloat64()

	for g := range data.Groups {
		group := &data.Groups[g]
		for i, point := range group.X {
			if len(point) != numFeatures {
				return nil, fmt.Errorf("dataset: group %d point %d has %d features, want %d",
					g, i, len(point), numFeatures)
			}
			copy(xData[(g*maxSize+i)*numFeatures:], point)
			yData[g*maxSize+i] = group.Y[i]
			mData[g*maxSize+i] = 1
		}
	}

	return &Batch[B]{
		X:       tensor.New[float64](xRaw, backend),
		Y:       tensor.New[float64](yRaw, backend),
		Mask:    tensor.New[float64](mRaw, backend),
		Sizes:   data.Sizes(),
		MaxSize: maxSize,
	}, nil
}
