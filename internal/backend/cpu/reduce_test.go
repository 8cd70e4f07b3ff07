package cpu

import (
	"testing"

	"github.com/born-ml/hbnn/internal/tensor"
)

func TestCPUBackend_Sum(t *testing.T) {
	backend := newTestBackend()

	x := rawF64(t, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	result := backend.Sum(x)

	if !result.Shape().Equal(tensor.Shape{}) {
		t.Fatalf("Sum shape = %v, want scalar", result.Shape())
	}
	if got := result.AsFloat64()[0]; got != 21 {
		t.Errorf("Sum = %v, want 21", got)
	}
}

func TestCPUBackend_SumInt64(t *testing.T) {
	backend := newTestBackend()

	x, err := tensor.NewRaw(tensor.Shape{4}, tensor.Int64, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	copy(x.AsInt64(), []int64{10, -3, 7, 1})

	result := backend.Sum(x)

	if got := result.AsInt64()[0]; got != 15 {
		t.Errorf("Sum = %d, want 15", got)
	}
}

func TestCPUBackend_SumDim(t *testing.T) {
	backend := newTestBackend()

	// [[1, 2, 3], [4, 5, 6]]
	src := []float64{1, 2, 3, 4, 5, 6}

	tests := []struct {
		name      string
		dim       int
		keepDim   bool
		wantShape tensor.Shape
		want      []float64
	}{
		{"dim0", 0, false, tensor.Shape{3}, []float64{5, 7, 9}},
		{"dim1", 1, false, tensor.Shape{2}, []float64{6, 15}},
		{"dim1 keepdim", 1, true, tensor.Shape{2, 1}, []float64{6, 15}},
		{"negative dim", -1, false, tensor.Shape{2}, []float64{6, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := rawF64(t, tensor.Shape{2, 3}, src)

			result := backend.SumDim(x, tt.dim, tt.keepDim)

			if !result.Shape().Equal(tt.wantShape) {
				t.Fatalf("shape = %v, want %v", result.Shape(), tt.wantShape)
			}
			if !float64sClose(result.AsFloat64(), tt.want, 1e-12) {
				t.Errorf("SumDim = %v, want %v", result.AsFloat64(), tt.want)
			}
		})
	}
}

// TestCPUBackend_SumDimMiddle reduces the middle (sample) axis of a
// [G, N, D] tensor, the reduction that pools per-point log-likelihoods.
func TestCPUBackend_SumDimMiddle(t *testing.T) {
	backend := newTestBackend()

	x := rawF64(t, tensor.Shape{2, 2, 2}, []float64{
		1, 2,
		3, 4,

		10, 20,
		30, 40,
	})

	result := backend.SumDim(x, 1, false)

	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape = %v, want [2, 2]", result.Shape())
	}
	want := []float64{4, 6, 40, 60}
	if !float64sClose(result.AsFloat64(), want, 1e-12) {
		t.Errorf("SumDim(1) = %v, want %v", result.AsFloat64(), want)
	}
}

func TestCPUBackend_SumDimToScalar(t *testing.T) {
	backend := newTestBackend()

	x := rawF64(t, tensor.Shape{4}, []float64{1, 2, 3, 4})
	result := backend.SumDim(x, 0, false)

	if !result.Shape().Equal(tensor.Shape{}) {
		t.Fatalf("shape = %v, want scalar", result.Shape())
	}
	if got := result.AsFloat64()[0]; got != 10 {
		t.Errorf("SumDim = %v, want 10", got)
	}
}

func TestCPUBackend_MeanDim(t *testing.T) {
	backend := newTestBackend()

	x := rawF64(t, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})

	result := backend.MeanDim(x, 1, false)

	if !result.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("shape = %v, want [2]", result.Shape())
	}
	if !float64sClose(result.AsFloat64(), []float64{2, 5}, 1e-12) {
		t.Errorf("MeanDim = %v, want [2 5]", result.AsFloat64())
	}
}

func TestCPUBackend_MeanDimKeep(t *testing.T) {
	backend := newTestBackend()

	x := rawF64(t, tensor.Shape{2, 2}, []float64{1, 3, 5, 7})

	result := backend.MeanDim(x, 0, true)

	if !result.Shape().Equal(tensor.Shape{1, 2}) {
		t.Fatalf("shape = %v, want [1, 2]", result.Shape())
	}
	if !float64sClose(result.AsFloat64(), []float64{3, 5}, 1e-12) {
		t.Errorf("MeanDim = %v, want [3 5]", result.AsFloat64())
	}
}

func TestCPUBackend_MeanDimRejectsInts(t *testing.T) {
	backend := newTestBackend()

	x, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int32, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}

	mustPanic(t, "MeanDim on int32", func() { backend.MeanDim(x, 0, false) })
}

func TestCPUBackend_SumDimOutOfRange(t *testing.T) {
	backend := newTestBackend()

	x := rawF64(t, tensor.Shape{2, 3}, make([]float64, 6))

	mustPanic(t, "SumDim with dim 2 on a 2-d tensor", func() { backend.SumDim(x, 2, false) })
}
