// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides the synthetic grouped two-moons data the
// pipeline trains on.
//
// Groups draw unequal sample counts and per-group rotations of the
// same two-moons pattern, and Pad packs the ragged groups into one
// rectangular batch with a validity mask so every downstream tensor
// operation runs on a single [G, Nmax, ...] block.
//
// Example:
//
//	import (
//	    "github.com/born-ml/hbnn/backend/cpu"
//	    "github.com/born-ml/hbnn/dataset"
//	)
//
//	func main() {
//	    data, err := dataset.Generate(dataset.Config{
//	        NumGroups:    5,
//	        MinGroupSize: 20,
//	        MaxGroupSize: 60,
//	        Noise:        0.1,
//	        MaxRotation:  1.2,
//	        Seed:         42,
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    train, test, err := data.Split(0.2, 42)
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    batch, err := dataset.Pad(train, cpu.New())
//	    if err != nil {
//	        panic(err)
//	    }
//	    _, _ = batch, test
//	}
package dataset

import (
	"math/rand" //nolint:gosec // reproducible synthetic data, not crypto

	"github.com/born-ml/hbnn/internal/dataset"
	"github.com/born-ml/hbnn/tensor"
)

// Config describes a grouped two-moons dataset.
type Config = dataset.Config

// Group is one group's raw samples.
type Group = dataset.Group

// GroupedData is a ragged collection of groups.
type GroupedData = dataset.GroupedData

// Batch is the padded rectangular form of a GroupedData: features
// [G, Nmax, D], labels [G, Nmax] and a validity mask [G, Nmax] whose
// row sums equal the true group sizes.
type Batch[B tensor.Backend] = dataset.Batch[B]

// Generate builds a grouped dataset: every group draws its own moons
// sample, sized uniformly from [MinGroupSize, MaxGroupSize], rotated
// about the pattern center by an angle evenly spaced across groups.
func Generate(cfg Config) (*GroupedData, error) {
	return dataset.Generate(cfg)
}

// Moons generates the classical two interleaved half-circles: n points,
// two features each, labels 0 (outer arc) and 1 (inner arc).
func Moons(n int, noise float64, rng *rand.Rand) ([][]float64, []float64) {
	return dataset.Moons(n, noise, rng)
}

// Pad packs ragged groups into one padded batch on the given backend.
func Pad[B tensor.Backend](data *GroupedData, backend B) (*Batch[B], error) {
	return dataset.Pad(data, backend)
}
