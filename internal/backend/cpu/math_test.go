package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/hbnn/internal/tensor"
)

func TestCPUBackend_UnaryOps(t *testing.T) {
	backend := newTestBackend()

	tests := []struct {
		name string
		op   func(x *tensor.RawTensor) *tensor.RawTensor
		in   []float64
		want []float64
	}{
		{"Exp", backend.Exp, []float64{0, 1, -1}, []float64{1, math.E, 1 / math.E}},
		{"Log", backend.Log, []float64{1, math.E, math.E * math.E}, []float64{0, 1, 2}},
		{"Sqrt", backend.Sqrt, []float64{0, 4, 9}, []float64{0, 2, 3}},
		{"Neg", backend.Neg, []float64{1, -2, 0}, []float64{-1, 2, 0}},
		{"Tanh", backend.Tanh, []float64{0, 100, -100}, []float64{0, 1, -1}},
		{"Sigmoid", backend.Sigmoid, []float64{0, 100, -100}, []float64{0.5, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := rawF64(t, tensor.Shape{len(tt.in)}, tt.in)

			result := tt.op(x)

			if result == x {
				t.Fatalf("%s overwrote its input", tt.name)
			}
			if !float64sClose(result.AsFloat64(), tt.want, 1e-10) {
				t.Errorf("%s(%v) = %v, want %v", tt.name, tt.in, result.AsFloat64(), tt.want)
			}
		})
	}
}

func TestCPUBackend_Softplus(t *testing.T) {
	backend := newTestBackend()

	x := rawF64(t, tensor.Shape{3}, []float64{0, 2, -2})
	result := backend.Softplus(x)

	want := []float64{math.Log(2), math.Log1p(math.Exp(2)), math.Log1p(math.Exp(-2))}
	if !float64sClose(result.AsFloat64(), want, 1e-12) {
		t.Errorf("Softplus = %v, want %v", result.AsFloat64(), want)
	}
}

// TestCPUBackend_SoftplusStability checks the overflow-safe form: the naive
// log(1+exp(x)) overflows past x ~ 710, and underflows to log(1) = 0 too
// early on the negative side. The noise scale runs through Softplus, so the
// tails must stay finite and monotone.
func TestCPUBackend_SoftplusStability(t *testing.T) {
	backend := newTestBackend()

	x := rawF64(t, tensor.Shape{4}, []float64{800, 1e6, -800, -1e6})
	result := backend.Softplus(x).AsFloat64()

	if result[0] != 800 || result[1] != 1e6 {
		t.Errorf("Softplus saturates to identity for large x, got %v", result[:2])
	}
	if math.IsInf(result[0], 1) || math.IsNaN(result[0]) {
		t.Errorf("Softplus(800) = %v, want finite", result[0])
	}
	if result[2] != 0 || result[3] != 0 {
		t.Errorf("Softplus underflow tail = %v, want zeros", result[2:])
	}
}

func TestCPUBackend_SigmoidSaturation(t *testing.T) {
	backend := newTestBackend()

	x := rawF64(t, tensor.Shape{2}, []float64{800, -800})
	result := backend.Sigmoid(x).AsFloat64()

	if result[0] != 1 {
		t.Errorf("Sigmoid(800) = %v, want exactly 1", result[0])
	}
	if result[1] != 0 {
		t.Errorf("Sigmoid(-800) = %v, want exactly 0", result[1])
	}
}

func TestCPUBackend_UnaryFloat32(t *testing.T) {
	backend := newTestBackend()

	x, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}
	x.AsFloat32()[0] = 4
	x.AsFloat32()[1] = 16

	result := backend.Sqrt(x)

	if result.DType() != tensor.Float32 {
		t.Fatalf("dtype = %s, want float32", result.DType())
	}
	got := result.AsFloat32()
	if got[0] != 2 || got[1] != 4 {
		t.Errorf("Sqrt = %v, want [2 4]", got)
	}
}

func TestCPUBackend_UnaryRejectsInts(t *testing.T) {
	backend := newTestBackend()

	x, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int32, tensor.CPU)
	if err != nil {
		t.Fatal(err)
	}

	mustPanic(t, "Exp on int32", func() { backend.Exp(x) })
}
