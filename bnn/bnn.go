// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package bnn provides the Bayesian neural network over grouped,
// padded classification data.
//
// The network is a fixed three-layer MLP with tanh activations and a
// per-group weight structure selected by the pooling mode (pooled,
// unpooled, or hierarchical with a non-centered parameterization). A
// Model exposes its log posterior and gradient over a flat position
// vector, the contract the mcmc samplers consume, plus posterior
// predictive probabilities and accuracy for evaluation.
//
// Example:
//
//	import (
//	    "github.com/born-ml/hbnn/backend/cpu"
//	    "github.com/born-ml/hbnn/bnn"
//	    "github.com/born-ml/hbnn/dataset"
//	)
//
//	func build(train *dataset.GroupedData) (*bnn.Model, error) {
//	    batch, err := dataset.Pad(train, cpu.New())
//	    if err != nil {
//	        return nil, err
//	    }
//	    return bnn.NewModel(batch, bnn.Config{HiddenSize: 16})
//	}
package bnn

import (
	"github.com/born-ml/hbnn/backend/cpu"
	"github.com/born-ml/hbnn/dataset"
	"github.com/born-ml/hbnn/internal/bnn"
)

// Pooling selects how weights are shared across groups.
type Pooling = bnn.Pooling

// Pooling modes.
const (
	PoolingHierarchical Pooling = bnn.PoolingHierarchical
	PoolingPooled       Pooling = bnn.PoolingPooled
	PoolingUnpooled     Pooling = bnn.PoolingUnpooled
)

// Config describes the network and its prior structure.
type Config = bnn.Config

// Model is a Bayesian MLP bound to one padded training batch.
//
// A Model owns a private autodiff backend, so it is not safe for
// concurrent use; Clone produces an independent instance for each
// parallel chain.
type Model = bnn.Model

// ParamSpace maps named parameter blocks onto one flat vector.
type ParamSpace = bnn.ParamSpace

// Block is one named, shaped span of the flat parameter vector.
type Block = bnn.Block

// NewModel builds a model over a padded training batch.
func NewModel(batch *dataset.Batch[*cpu.Backend], cfg Config) (*Model, error) {
	return bnn.NewModel(batch, cfg)
}
