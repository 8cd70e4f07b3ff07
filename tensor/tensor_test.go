// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/born-ml/hbnn/internal/backend/cpu"
	"github.com/born-ml/hbnn/tensor"
)

// TestBackendInterface verifies that cpu.CPUBackend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.CPUBackend)(nil)
}

// TestRawTensorAPI verifies the RawTensor type alias exposes the expected API.
func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float64, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}

	if !raw.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", raw.Shape())
	}
	if raw.DType() != tensor.Float64 {
		t.Errorf("DType() = %v, want Float64", raw.DType())
	}
	if raw.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want CPU", raw.Device())
	}
	if n := raw.NumElements(); n != 6 {
		t.Errorf("NumElements() = %d, want 6", n)
	}
	if got, want := raw.ByteSize(), 6*8; got != want {
		t.Errorf("ByteSize() = %d, want %d", got, want)
	}

	clone := raw.Clone()
	if clone == nil {
		t.Fatal("Clone() returned nil")
	}
	clone.AsFloat64()[0] = 42
	if raw.AsFloat64()[0] == 42 {
		t.Error("Clone() shares storage, want an independent copy")
	}
	if !raw.IsUnique() {
		t.Error("IsUnique() = false after Clone(), want true (deep copy)")
	}

	if got, want := len(raw.Data()), raw.ByteSize(); got != want {
		t.Errorf("Data() length = %d, want %d", got, want)
	}
	if got := len(raw.AsFloat64()); got != 6 {
		t.Errorf("AsFloat64() length = %d, want 6", got)
	}

	cleanup := raw.ForceNonUnique()
	if raw.IsUnique() {
		t.Error("IsUnique() = true after ForceNonUnique(), want false")
	}
	cleanup()
	if !raw.IsUnique() {
		t.Error("IsUnique() = false after cleanup(), want true")
	}
}

// TestTensorCreationFunctions verifies the high-level creation API.
func TestTensorCreationFunctions(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name string
		fn   func() interface{}
	}{
		{
			name: "Zeros",
			fn: func() interface{} {
				return tensor.Zeros[float64](tensor.Shape{2, 3}, backend)
			},
		},
		{
			name: "Ones",
			fn: func() interface{} {
				return tensor.Ones[float64](tensor.Shape{2, 3}, backend)
			},
		},
		{
			name: "Full",
			fn: func() interface{} {
				return tensor.Full[float64](tensor.Shape{2, 3}, 3.14, backend)
			},
		},
		{
			name: "Randn",
			fn: func() interface{} {
				return tensor.Randn[float64](tensor.Shape{2, 3}, backend)
			},
		},
		{
			name: "Rand",
			fn: func() interface{} {
				return tensor.Rand[float64](tensor.Shape{2, 3}, backend)
			},
		},
		{
			name: "Arange",
			fn: func() interface{} {
				return tensor.Arange[float64](0, 10, backend)
			},
		},
		{
			name: "Linspace",
			fn: func() interface{} {
				return tensor.Linspace[float64](-2, 3, 80, backend)
			},
		},
		{
			name: "FromSlice",
			fn: func() interface{} {
				data := []float64{1, 2, 3, 4, 5, 6}
				x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, backend)
				if err != nil {
					return err
				}
				return x
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.fn()
			if result == nil {
				t.Errorf("%s() returned nil", tt.name)
			}
			if err, ok := result.(error); ok {
				t.Errorf("%s() returned error: %v", tt.name, err)
			}
		})
	}
}

// TestDataTypeConstants verifies all data type constants are accessible.
func TestDataTypeConstants(t *testing.T) {
	dtypes := []struct {
		name  string
		dtype tensor.DataType
	}{
		{"Float32", tensor.Float32},
		{"Float64", tensor.Float64},
		{"Int32", tensor.Int32},
		{"Int64", tensor.Int64},
		{"Bool", tensor.Bool},
	}

	for _, dt := range dtypes {
		t.Run(dt.name, func(t *testing.T) {
			if str := dt.dtype.String(); str == "" || str == "unknown" {
				t.Errorf("DataType.String() = %q, want a known type name", str)
			}
			if size := dt.dtype.Size(); size <= 0 {
				t.Errorf("DataType.Size() = %d, want > 0", size)
			}
		})
	}
}

// TestShapeAPI verifies the Shape type alias exposes the expected API.
func TestShapeAPI(t *testing.T) {
	shape := tensor.Shape{2, 3, 4}

	if n := shape.NumElements(); n != 24 {
		t.Errorf("NumElements() = %d, want 24", n)
	}
	if len(shape) != 3 {
		t.Errorf("len(shape) = %d, want 3", len(shape))
	}
	if !shape.Equal(tensor.Shape{2, 3, 4}) {
		t.Error("Equal() = false, want true for identical shapes")
	}

	clone := shape.Clone()
	if !clone.Equal(shape) {
		t.Error("Clone() created non-equal shape")
	}
	clone[0] = 999
	if shape[0] == 999 {
		t.Error("Clone() did not create an independent copy")
	}
}

// TestBroadcastShapes verifies the BroadcastShapes utility function.
func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name          string
		shapeA        tensor.Shape
		shapeB        tensor.Shape
		wantShape     tensor.Shape
		wantBroadcast bool
		wantErr       bool
	}{
		{
			name:          "same shape",
			shapeA:        tensor.Shape{2, 3},
			shapeB:        tensor.Shape{2, 3},
			wantShape:     tensor.Shape{2, 3},
			wantBroadcast: false,
		},
		{
			name:          "broadcast scalar",
			shapeA:        tensor.Shape{2, 3},
			shapeB:        tensor.Shape{1},
			wantShape:     tensor.Shape{2, 3},
			wantBroadcast: true,
		},
		{
			name:          "broadcast dimension",
			shapeA:        tensor.Shape{3, 1},
			shapeB:        tensor.Shape{3, 4},
			wantShape:     tensor.Shape{3, 4},
			wantBroadcast: true,
		},
		{
			name:    "incompatible",
			shapeA:  tensor.Shape{2, 3},
			shapeB:  tensor.Shape{4, 5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotShape, gotBroadcast, err := tensor.BroadcastShapes(tt.shapeA, tt.shapeB)

			if (err != nil) != tt.wantErr {
				t.Errorf("BroadcastShapes() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil {
				if !gotShape.Equal(tt.wantShape) {
					t.Errorf("BroadcastShapes() shape = %v, want %v", gotShape, tt.wantShape)
				}
				if gotBroadcast != tt.wantBroadcast {
					t.Errorf("BroadcastShapes() broadcast = %v, want %v", gotBroadcast, tt.wantBroadcast)
				}
			}
		})
	}
}

// TestManipulationFunctions verifies Cat and Where at the facade level.
func TestManipulationFunctions(t *testing.T) {
	backend := cpu.New()

	t.Run("Cat", func(t *testing.T) {
		a := tensor.Ones[float64](tensor.Shape{2, 3}, backend)
		b := tensor.Zeros[float64](tensor.Shape{2, 3}, backend)
		c := tensor.Cat([]*tensor.Tensor[float64, *cpu.CPUBackend]{a, b}, 0)

		if c == nil {
			t.Fatal("Cat() returned nil")
		}
		if want := (tensor.Shape{4, 3}); !c.Shape().Equal(want) {
			t.Errorf("Cat() shape = %v, want %v", c.Shape(), want)
		}
	})

	t.Run("Where", func(t *testing.T) {
		cond := tensor.Full[bool](tensor.Shape{3}, true, backend)
		x := tensor.Full[float64](tensor.Shape{3}, 1.0, backend)
		y := tensor.Full[float64](tensor.Shape{3}, 0.0, backend)
		result := tensor.Where(cond, x, y)

		if result == nil {
			t.Fatal("Where() returned nil")
		}
		for i, v := range result.Data() {
			if v != 1.0 {
				t.Errorf("Where() data[%d] = %v, want 1.0", i, v)
			}
		}
	})
}

// TestCastMethods verifies the typed cast helpers on the facade alias.
func TestCastMethods(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float64{0, 1.5, -2}, tensor.Shape{3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	f32 := x.Float32()
	if f32.DType() != tensor.Float32 {
		t.Errorf("Float32().DType() = %v, want Float32", f32.DType())
	}
	if got := f32.Data()[1]; got != 1.5 {
		t.Errorf("Float32() data[1] = %v, want 1.5", got)
	}

	// Nonzero becomes true, zero becomes false.
	mask := x.Bool()
	if mask.DType() != tensor.Bool {
		t.Errorf("Bool().DType() = %v, want Bool", mask.DType())
	}
	if got, want := mask.Data(), []bool{false, true, true}; got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("Bool() data = %v, want %v", got, want)
	}

	back := mask.Float64()
	if got, want := back.Data(), []float64{0, 1, 1}; got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("Float64() data = %v, want %v", got, want)
	}
}
