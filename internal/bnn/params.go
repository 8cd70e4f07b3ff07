package bnn

import (
	"fmt"

	"github.com/born-ml/hbnn/internal/tensor"
)

// Block is one named parameter group with a fixed tensor shape.
type Block struct {
	Name  string
	Shape tensor.Shape
}

// NumElements returns the element count of the block.
func (b Block) NumElements() int {
	return b.Shape.NumElements()
}

// ParamSpace lays out named parameter blocks inside one flat []float64
// position vector. The samplers walk the flat vector; the model
// unflattens it back into tensors when building the log-density graph.
//
// Block order is fixed at construction, so offsets are stable across the
// whole run and a position can be saved and restored by plain copying.
type ParamSpace struct {
	blocks  []Block
	offsets map[string]int
	dim     int
}

// NewParamSpace builds a layout from blocks in the given order.
func NewParamSpace(blocks ...Block) (*ParamSpace, error) {
	space := &ParamSpace{
		blocks:  make([]Block, 0, len(blocks)),
		offsets: make(map[string]int, len(blocks)),
	}
	for _, b := range blocks {
		if err := b.Shape.Validate(); err != nil {
			return nil, fmt.Errorf("bnn: block %q: %w", b.Name, err)
		}
		if _, dup := space.offsets[b.Name]; dup {
			return nil, fmt.Errorf("bnn: duplicate block %q", b.Name)
		}
		space.offsets[b.Name] = space.dim
		space.blocks = append(space.blocks, b)
		space.dim += b.NumElements()
	}
	return space, nil
}

// Dim returns the total flat dimension.
func (s *ParamSpace) Dim() int {
	return s.dim
}

// Blocks returns the blocks in layout order.
func (s *ParamSpace) Blocks() []Block {
	return s.blocks
}

// Offset returns the flat offset of a named block. Panics on unknown
// names: a bad block name is a programming error, not an input error.
func (s *ParamSpace) Offset(name string) int {
	off, ok := s.offsets[name]
	if !ok {
		panic(fmt.Sprintf("bnn: unknown parameter block %q", name))
	}
	return off
}

// Slice returns the sub-slice of theta covering a named block. The
// returned slice shares backing storage with theta.
func (s *ParamSpace) Slice(theta []float64, name string) []float64 {
	if len(theta) != s.dim {
		panic(fmt.Sprintf("bnn: position has dim %d, space wants %d", len(theta), s.dim))
	}
	off := s.Offset(name)
	for _, b := range s.blocks {
		if b.Name == name {
			return theta[off : off+b.NumElements()]
		}
	}
	panic("unreachable")
}

// Tensors materializes every block of theta as a float64 tensor on the
// given backend, in layout order. The returned map is keyed by block
// name; creation is not a recorded operation, so the tensors are fresh
// differentiation leaves.
func (s *ParamSpace) Tensors(theta []float64, backend tensor.Backend) (map[string]*tensor.RawTensor, error) {
	if len(theta) != s.dim {
		return nil, fmt.Errorf("bnn: position has dim %d, space wants %d", len(theta), s.dim)
	}

	out := make(map[string]*tensor.RawTensor, len(s.blocks))
	off := 0
	for _, b := range s.blocks {
		n := b.NumElements()
		raw, err := tensor.NewRaw(b.Shape, tensor.Float64, backend.Device())
		if err != nil {
			return nil, fmt.Errorf("bnn: materializing block %q: %w", b.Name, err)
		}
		copy(raw.AsFloat64(), theta[off:off+n])
		out[b.Name] = raw
		off += n
	}
	return out, nil
}

// FlattenGrads collects per-block gradients back into one flat vector.
// Blocks without a gradient entry contribute zeros.
func (s *ParamSpace) FlattenGrads(
	blocks map[string]*tensor.RawTensor,
	grads map[*tensor.RawTensor]*tensor.RawTensor,
) []float64 {
	flat := make([]float64, s.dim)
	off := 0
	for _, b := range s.blocks {
		n := b.NumElements()
		if raw, ok := blocks[b.Name]; ok {
			if g, ok := grads[raw]; ok {
				copy(flat[off:off+n], g.AsFloat64())
			}
		}
		off += n
	}
	return flat
}
