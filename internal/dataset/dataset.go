// Package dataset generates grouped two-moons classification data and
// packs it into padded, masked batch tensors.
//
// Groups share the same underlying two-class structure but differ by a
// per-group rotation and by size. Unequal group sizes are reconciled by
// Pad, which fills every group out to the largest size and records the
// real positions in a parallel mask tensor, so downstream code can run
// one batched computation over all groups at once.
package dataset

import (
	"fmt"
	"math/rand" //nolint:gosec // reproducible synthetic data, not crypto
)

// Group holds one group's observations: X is [n][NumFeatures] features
// in row-major order, Y the binary labels (0 or 1) as float64.
type Group struct {
	X [][]float64
	Y []float64
}

// Size returns the number of observations in the group.
func (g *Group) Size() int {
	return len(g.Y)
}

// GroupedData is a collection of groups over a shared feature space.
type GroupedData struct {
	Groups      []Group
	NumFeatures int
}

// NumGroups returns the group count.
func (d *GroupedData) NumGroups() int {
	return len(d.Groups)
}

// Sizes returns the per-group observation counts.
func (d *GroupedData) Sizes() []int {
	sizes := make([]int, len(d.Groups))
	for i := range d.Groups {
		sizes[i] = d.Groups[i].Size()
	}
	return sizes
}

// MaxSize returns the largest group size.
func (d *GroupedData) MaxSize() int {
	max := 0
	for i := range d.Groups {
		if n := d.Groups[i].Size(); n > max {
			max = n
		}
	}
	return max
}

// TotalSamples returns the number of observations across all groups.
func (d *GroupedData) TotalSamples() int {
	total := 0
	for i := range d.Groups {
		total += d.Groups[i].Size()
	}
	return total
}

// Bounds returns the feature-space bounding box over all groups,
// as (xmin, xmax, ymin, ymax). Only meaningful for 2-D features.
func (d *GroupedData) Bounds() (xmin, xmax, ymin, ymax float64) {
	first := true
	for _, g := range d.Groups {
		for _, p := range g.X {
			if first {
				xmin, xmax, ymin, ymax = p[0], p[0], p[1], p[1]
				first = false
				continue
			}
			if p[0] < xmin {
				xmin = p[0]
			}
			if p[0] > xmax {
				xmax = p[0]
			}
			if p[1] < ymin {
				ymin = p[1]
			}
			if p[1] > ymax {
				ymax = p[1]
			}
		}
	}
	return xmin, xmax, ymin, ymax
}

// Split partitions every group into train and test parts, keeping group
// identity. testFraction is the share of each group that goes to test,
// rounded down but leaving at least one training point per non-empty
// group. Order within each group is shuffled with the given seed.
func (d *GroupedData) Split(testFraction float64, seed int64) (train, test *GroupedData, err error) {
	if testFraction < 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("dataset: test fraction %g outside [0, 1)", testFraction)
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec

	train = &GroupedData{NumFeatures: d.NumFeatures, Groups: make([]Group, len(d.Groups))}
	test = &GroupedData{NumFeatures: d.NumFeatures, Groups: make([]Group, len(d.Groups))}

	for gi := range d.Groups {
		g := &d.Groups[gi]
		n := g.Size()

		idx := rng.Perm(n)
		nTest := int(float64(n) * testFraction)
		if n > 0 && n-nTest < 1 {
			nTest = n - 1
		}

		for k, j := range idx {
			point := append([]float64(nil), g.X[j]...)
			if k < nTest {
				test.Groups[gi].X = append(test.Groups[gi].X, point)
				test.Groups[gi].Y = append(test.Groups[gi].Y, g.Y[j])
			} else {
				train.Groups[gi].X = append(train.Groups[gi].X, point)
				train.Groups[gi].Y = append(train.Groups[gi].Y, g.Y[j])
			}
		}
	}

	return train, test, nil
}
