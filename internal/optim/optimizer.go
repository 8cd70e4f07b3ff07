// Package optim implements gradient-based optimizers over flat parameter
// vectors.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// The optimizers work on []float64 positions, the same flattened
// parameter space the samplers walk. Their main job here is maximum a
// posteriori warm-up: minimizing the negative log posterior to find a
// starting point before sampling begins.
//
// Example usage:
//
//	opt := optim.NewAdam(space.Dim(), optim.AdamConfig{LR: 0.05})
//	for i := 0; i < steps; i++ {
//	    _, grad := target.LogDensityGradient(q)
//	    for j := range grad {
//	        grad[j] = -grad[j] // minimize -log p
//	    }
//	    opt.Step(q, grad)
//	}
package optim

// Optimizer is the base interface for all optimization algorithms.
//
// Step updates the position in place given the gradient of the objective
// at that position. Implementations keep whatever per-dimension state
// they need (momenta, moment estimates) across calls.
type Optimizer interface {
	// Step applies one gradient update to params in place.
	// params and grad must have the dimension the optimizer was built for.
	Step(params, grad []float64)

	// GetLR returns the current learning rate.
	//
	// Useful for monitoring and learning rate scheduling.
	GetLR() float64
}
