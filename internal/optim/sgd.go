package optim

import "fmt"

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Momentum helps accelerate descent in consistent directions and dampens
// oscillations.
type SGD struct {
	lr       float64
	momentum float64
	velocity []float64
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer for a dim-dimensional position.
func NewSGD(dim int, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		lr:       config.LR,
		momentum: config.Momentum,
		velocity: make([]float64, dim),
	}
}

// Step performs a single SGD update on params in place.
func (s *SGD) Step(params, grad []float64) {
	if len(params) != len(s.velocity) || len(grad) != len(s.velocity) {
		panic(fmt.Sprintf("optim: SGD built for dim %d, got params %d, grad %d",
			len(s.velocity), len(params), len(grad)))
	}

	if s.momentum == 0 {
		for i, g := range grad {
			params[i] -= s.lr * g
		}
		return
	}

	for i, g := range grad {
		s.velocity[i] = s.momentum*s.velocity[i] + g
		params[i] -= s.lr * s.velocity[i]
	}
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}
