package cpu

import (
	"testing"

	"github.com/born-ml/hbnn/internal/tensor"
)

func TestCPUBackend_Reshape(t *testing.T) {
	backend := newTestBackend()

	x := rawF64(t, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})

	result := backend.Reshape(x, tensor.Shape{3, 2})

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3, 2]", result.Shape())
	}
	// Row-major order is preserved, only the shape changes.
	if !float64sClose(result.AsFloat64(), x.AsFloat64(), 1e-12) {
		t.Errorf("Reshape reordered data: %v", result.AsFloat64())
	}

	mustPanic(t, "Reshape to a different element count", func() {
		backend.Reshape(x, tensor.Shape{4, 2})
	})
}

func TestCPUBackend_Transpose2D(t *testing.T) {
	backend := newTestBackend()

	x := rawF64(t, tensor.Shape{2, 3}, []float64{
		1, 2, 3,
		4, 5, 6,
	})

	result := backend.Transpose(x)

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3, 2]", result.Shape())
	}
	want := []float64{
		1, 4,
		2, 5,
		3, 6,
	}
	if !float64sClose(result.AsFloat64(), want, 1e-12) {
		t.Errorf("Transpose = %v, want %v", result.AsFloat64(), want)
	}
}

func TestCPUBackend_TransposeAxes(t *testing.T) {
	backend := newTestBackend()

	// [G, N, D] -> [G, D, N] swaps the last two axes per group.
	x := rawF64(t, tensor.Shape{2, 2, 3}, []float64{
		1, 2, 3,
		4, 5, 6,

		7, 8, 9,
		10, 11, 12,
	})

	result := backend.Transpose(x, 0, 2, 1)

	if !result.Shape().Equal(tensor.Shape{2, 3, 2}) {
		t.Fatalf("shape = %v, want [2, 3, 2]", result.Shape())
	}
	want := []float64{
		1, 4,
		2, 5,
		3, 6,

		7, 10,
		8, 11,
		9, 12,
	}
	if !float64sClose(result.AsFloat64(), want, 1e-12) {
		t.Errorf("Transpose(0,2,1) = %v, want %v", result.AsFloat64(), want)
	}
}

func TestCPUBackend_TransposePanics(t *testing.T) {
	backend := newTestBackend()

	x := rawF64(t, tensor.Shape{2, 3}, make([]float64, 6))

	mustPanic(t, "Transpose with repeated axis", func() { backend.Transpose(x, 0, 0) })
	mustPanic(t, "Transpose with out-of-range axis", func() { backend.Transpose(x, 0, 2) })
	mustPanic(t, "Transpose with wrong axis count", func() { backend.Transpose(x, 0) })
}

func TestCPUBackend_Expand(t *testing.T) {
	backend := newTestBackend()

	t.Run("size-1 dim", func(t *testing.T) {
		x := rawF64(t, tensor.Shape{3, 1}, []float64{1, 2, 3})

		result := backend.Expand(x, tensor.Shape{3, 4})

		if !result.Shape().Equal(tensor.Shape{3, 4}) {
			t.Fatalf("shape = %v, want [3, 4]", result.Shape())
		}
		want := []float64{
			1, 1, 1, 1,
			2, 2, 2, 2,
			3, 3, 3, 3,
		}
		if !float64sClose(result.AsFloat64(), want, 1e-12) {
			t.Errorf("Expand = %v, want %v", result.AsFloat64(), want)
		}
	})

	t.Run("new leading dim", func(t *testing.T) {
		x := rawF64(t, tensor.Shape{3}, []float64{1, 2, 3})

		result := backend.Expand(x, tensor.Shape{2, 3})

		want := []float64{1, 2, 3, 1, 2, 3}
		if !float64sClose(result.AsFloat64(), want, 1e-12) {
			t.Errorf("Expand = %v, want %v", result.AsFloat64(), want)
		}
	})

	t.Run("rejects non-broadcastable dims", func(t *testing.T) {
		x := rawF64(t, tensor.Shape{2}, []float64{1, 2})

		mustPanic(t, "Expand [2] to [2, 3]", func() { backend.Expand(x, tensor.Shape{2, 3}) })
	})
}

func TestCPUBackend_Cat(t *testing.T) {
	backend := newTestBackend()

	t.Run("dim0", func(t *testing.T) {
		a := rawF64(t, tensor.Shape{1, 3}, []float64{1, 2, 3})
		b := rawF64(t, tensor.Shape{2, 3}, []float64{4, 5, 6, 7, 8, 9})

		result := backend.Cat([]*tensor.RawTensor{a, b}, 0)

		if !result.Shape().Equal(tensor.Shape{3, 3}) {
			t.Fatalf("shape = %v, want [3, 3]", result.Shape())
		}
		want := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
		if !float64sClose(result.AsFloat64(), want, 1e-12) {
			t.Errorf("Cat = %v, want %v", result.AsFloat64(), want)
		}
	})

	t.Run("dim1 interleaves rows", func(t *testing.T) {
		// The grid construction path: stack x and y coordinate columns.
		xs := rawF64(t, tensor.Shape{3, 1}, []float64{1, 2, 3})
		ys := rawF64(t, tensor.Shape{3, 1}, []float64{10, 20, 30})

		result := backend.Cat([]*tensor.RawTensor{xs, ys}, 1)

		if !result.Shape().Equal(tensor.Shape{3, 2}) {
			t.Fatalf("shape = %v, want [3, 2]", result.Shape())
		}
		want := []float64{1, 10, 2, 20, 3, 30}
		if !float64sClose(result.AsFloat64(), want, 1e-12) {
			t.Errorf("Cat = %v, want %v", result.AsFloat64(), want)
		}
	})

	t.Run("negative dim", func(t *testing.T) {
		a := rawF64(t, tensor.Shape{2, 1}, []float64{1, 2})
		b := rawF64(t, tensor.Shape{2, 2}, []float64{3, 4, 5, 6})

		result := backend.Cat([]*tensor.RawTensor{a, b}, -1)

		if !result.Shape().Equal(tensor.Shape{2, 3}) {
			t.Fatalf("shape = %v, want [2, 3]", result.Shape())
		}
	})
}

func TestCPUBackend_CatPanics(t *testing.T) {
	backend := newTestBackend()

	a := rawF64(t, tensor.Shape{2, 2}, make([]float64, 4))
	rank := rawF64(t, tensor.Shape{4}, make([]float64, 4))
	offDim := rawF64(t, tensor.Shape{2, 3}, make([]float64, 6))

	mustPanic(t, "Cat with no tensors", func() { backend.Cat(nil, 0) })
	mustPanic(t, "Cat with rank mismatch", func() { backend.Cat([]*tensor.RawTensor{a, rank}, 0) })
	mustPanic(t, "Cat with off-dim size mismatch", func() { backend.Cat([]*tensor.RawTensor{a, offDim}, 0) })
}
