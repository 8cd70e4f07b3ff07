// Package ops defines the differentiable operations recorded by the
// gradient tape. Each operation captures its raw input and output tensors
// during the forward pass and knows how to turn an output gradient into
// input gradients.
package ops

import "github.com/born-ml/hbnn/internal/tensor"

// Operation is one recorded step of a forward computation.
type Operation interface {
	// Backward maps the gradient of the loss with respect to this
	// operation's output into gradients with respect to each input, in
	// input order. The backend performs any tensor math needed.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the operation's input tensors in order.
	Inputs() []*tensor.RawTensor

	// Output returns the operation's output tensor.
	Output() *tensor.RawTensor
}
