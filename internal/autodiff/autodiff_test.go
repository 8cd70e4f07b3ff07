package autodiff_test

import (
	"math"
	"testing"

	"github.com/born-ml/hbnn/internal/autodiff"
	"github.com/born-ml/hbnn/internal/backend/cpu"
	"github.com/born-ml/hbnn/internal/tensor"
)

// TestAutodiffBackend_Name tests the Name method.
func TestAutodiffBackend_Name(t *testing.T) {
	backend := autodiff.New(cpu.New())
	expected := "Autodiff(CPU)"
	if backend.Name() != expected {
		t.Errorf("Name() = %s, want %s", backend.Name(), expected)
	}
}

// TestAutodiffBackend_Device tests the Device method.
func TestAutodiffBackend_Device(t *testing.T) {
	backend := autodiff.New(cpu.New())
	if backend.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want %v", backend.Device(), tensor.CPU)
	}
}

// TestTape_Recording tests tape recording on/off.
func TestTape_Recording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	if tape.IsRecording() {
		t.Error("Tape should not be recording initially")
	}

	tape.StartRecording()
	if !tape.IsRecording() {
		t.Error("Tape should be recording after StartRecording()")
	}

	tape.StopRecording()
	if tape.IsRecording() {
		t.Error("Tape should not be recording after StopRecording()")
	}
}

// TestTape_Clear tests that Clear drops operations but preserves the
// recording state, so the tape can be reset between iterations.
func TestTape_Clear(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	tape.StartRecording()

	a, _ := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2}, backend)
	b, _ := tensor.FromSlice([]float64{3, 4}, tensor.Shape{2}, backend)
	backend.Add(a.Raw(), b.Raw())

	if tape.NumOps() == 0 {
		t.Error("Tape should have recorded operations")
	}

	tape.Clear()

	if tape.NumOps() != 0 {
		t.Errorf("Tape should be empty after Clear(), got %d ops", tape.NumOps())
	}
	if !tape.IsRecording() {
		t.Error("Tape should still be recording after Clear()")
	}
}

// TestBackward_SimpleSquare tests dy/dx for y = x².
func TestBackward_SimpleSquare(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float64{3.0}, tensor.Shape{1}, backend)
	y := backend.Mul(x.Raw(), x.Raw())

	result := tensor.New[float64](y, backend)
	grads := autodiff.Backward(result, backend)

	grad := grads[x.Raw()]
	if grad == nil {
		t.Fatal("Expected gradient for x")
	}
	if got := grad.AsFloat64()[0]; math.Abs(got-6.0) > 1e-12 {
		t.Errorf("dy/dx = %f, want 6.0", got)
	}
}

// TestBackward_Accumulation tests that a tensor used twice accumulates
// both gradient contributions: z = x*y + x gives dz/dx = y + 1.
func TestBackward_Accumulation(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float64{2.0}, tensor.Shape{1}, backend)
	y, _ := tensor.FromSlice([]float64{5.0}, tensor.Shape{1}, backend)

	xy := backend.Mul(x.Raw(), y.Raw())
	z := backend.Add(xy, x.Raw())

	result := tensor.New[float64](z, backend)
	grads := autodiff.Backward(result, backend)

	if got := grads[x.Raw()].AsFloat64()[0]; math.Abs(got-6.0) > 1e-12 {
		t.Errorf("dz/dx = %f, want 6.0 (y + 1)", got)
	}
	if got := grads[y.Raw()].AsFloat64()[0]; math.Abs(got-2.0) > 1e-12 {
		t.Errorf("dz/dy = %f, want 2.0 (x)", got)
	}
}

// TestBackward_OperandsSurvive tests that operand pinning keeps the CPU
// backend from reusing operand buffers in place. Without the pins, the
// first Add would overwrite a's buffer and the later Mul would read
// garbage.
func TestBackward_OperandsSurvive(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3}, backend)
	b, _ := tensor.FromSlice([]float64{10, 20, 30}, tensor.Shape{3}, backend)

	c := backend.Add(a.Raw(), b.Raw()) // would in-place into a without pinning
	if got := a.Data(); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("operand a was mutated by Add: %v", got)
	}

	d := backend.Mul(a.Raw(), c) // d = a*(a+b)
	want := []float64{11, 44, 99}
	for i, v := range d.AsFloat64() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("d[%d] = %f, want %f", i, v, want[i])
		}
	}

	sum := backend.Sum(d)
	result := tensor.New[float64](sum, backend)
	grads := autodiff.Backward(result, backend)

	// d = a² + ab, so dd/da = 2a + b and dd/db = a.
	wantGradA := []float64{12, 24, 36}
	for i, v := range grads[a.Raw()].AsFloat64() {
		if math.Abs(v-wantGradA[i]) > 1e-12 {
			t.Errorf("grad_a[%d] = %f, want %f", i, v, wantGradA[i])
		}
	}
	wantGradB := []float64{1, 2, 3}
	for i, v := range grads[b.Raw()].AsFloat64() {
		if math.Abs(v-wantGradB[i]) > 1e-12 {
			t.Errorf("grad_b[%d] = %f, want %f", i, v, wantGradB[i])
		}
	}
}

// TestBackward_Broadcast tests gradient reduction over broadcast
// dimensions: a [2,3] + b [1,3] must give b a row-summed gradient.
func TestBackward_Broadcast(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	b, _ := tensor.FromSlice([]float64{10, 20, 30}, tensor.Shape{1, 3}, backend)

	c := backend.Add(a.Raw(), b.Raw())
	sum := backend.Sum(c)

	result := tensor.New[float64](sum, backend)
	grads := autodiff.Backward(result, backend)

	gradA := grads[a.Raw()]
	if !gradA.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("grad_a shape = %v, want [2 3]", gradA.Shape())
	}
	for i, v := range gradA.AsFloat64() {
		if v != 1 {
			t.Errorf("grad_a[%d] = %f, want 1", i, v)
		}
	}

	gradB := grads[b.Raw()]
	if !gradB.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("grad_b shape = %v, want [1 3]", gradB.Shape())
	}
	for i, v := range gradB.AsFloat64() {
		if v != 2 {
			t.Errorf("grad_b[%d] = %f, want 2 (summed over broadcast rows)", i, v)
		}
	}
}

// TestBackward_MaskedSum tests the masking identity the likelihood relies
// on: for loss = sum(mask * v), the gradient of v is exactly the mask, so
// masked-out positions receive zero gradient and contribute nothing.
func TestBackward_MaskedSum(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	v, _ := tensor.FromSlice([]float64{0.5, -1.5, 2.0, 7.0}, tensor.Shape{4}, backend)
	mask, _ := tensor.FromSlice([]float64{1, 1, 0, 0}, tensor.Shape{4}, backend)

	masked := backend.Mul(mask.Raw(), v.Raw())
	loss := backend.Sum(masked)

	if got := loss.AsFloat64()[0]; math.Abs(got-(-1.0)) > 1e-12 {
		t.Errorf("masked sum = %f, want -1.0", got)
	}

	result := tensor.New[float64](loss, backend)
	grads := autodiff.Backward(result, backend)

	gradV := grads[v.Raw()].AsFloat64()
	want := []float64{1, 1, 0, 0}
	for i, g := range gradV {
		if math.Abs(g-want[i]) > 1e-12 {
			t.Errorf("grad_v[%d] = %f, want %f", i, g, want[i])
		}
	}
}

// TestBackward_TanhChain tests the activation gradient 1 - tanh²(x).
func TestBackward_TanhChain(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float64{0.0, 1.0, -2.0}, tensor.Shape{3}, backend)
	h := backend.Tanh(x.Raw())
	loss := backend.Sum(h)

	result := tensor.New[float64](loss, backend)
	grads := autodiff.Backward(result, backend)

	gradX := grads[x.Raw()].AsFloat64()
	for i, xv := range x.Data() {
		th := math.Tanh(xv)
		want := 1 - th*th
		if math.Abs(gradX[i]-want) > 1e-12 {
			t.Errorf("grad_x[%d] = %f, want %f", i, gradX[i], want)
		}
	}
}

// TestBackward_Softplus tests d/dx softplus(x) = sigmoid(x).
func TestBackward_Softplus(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float64{-30, -1, 0, 1, 30}, tensor.Shape{5}, backend)
	sp := backend.Softplus(x.Raw())
	loss := backend.Sum(sp)

	result := tensor.New[float64](loss, backend)
	grads := autodiff.Backward(result, backend)

	gradX := grads[x.Raw()].AsFloat64()
	for i, xv := range x.Data() {
		want := 1.0 / (1.0 + math.Exp(-xv))
		if math.Abs(gradX[i]-want) > 1e-10 {
			t.Errorf("grad_x[%d] = %g, want %g", i, gradX[i], want)
		}
	}
}

// TestBackward_BatchMatMul tests gradients through the batched kernel.
// For C[g] = A[g] @ B[g] with a ones seed, dA[g] = seed @ B[g]ᵀ.
func TestBackward_BatchMatMul(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	// Two groups of 1x2 @ 2x1.
	a, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 1, 2}, backend)
	b, _ := tensor.FromSlice([]float64{5, 6, 7, 8}, tensor.Shape{2, 2, 1}, backend)

	c := backend.BatchMatMul(a.Raw(), b.Raw())
	want := []float64{1*5 + 2*6, 3*7 + 4*8}
	for i, v := range c.AsFloat64() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("c[%d] = %f, want %f", i, v, want[i])
		}
	}

	sum := backend.Sum(c)
	result := tensor.New[float64](sum, backend)
	grads := autodiff.Backward(result, backend)

	wantGradA := []float64{5, 6, 7, 8}
	for i, v := range grads[a.Raw()].AsFloat64() {
		if math.Abs(v-wantGradA[i]) > 1e-12 {
			t.Errorf("grad_a[%d] = %f, want %f", i, v, wantGradA[i])
		}
	}
	wantGradB := []float64{1, 2, 3, 4}
	for i, v := range grads[b.Raw()].AsFloat64() {
		if math.Abs(v-wantGradB[i]) > 1e-12 {
			t.Errorf("grad_b[%d] = %f, want %f", i, v, wantGradB[i])
		}
	}
}

// TestBackward_SharedParameterExpand tests that a parameter broadcast to
// every group collects the sum of per-group gradients, which is what the
// population mean relies on.
func TestBackward_SharedParameterExpand(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	mu, _ := tensor.FromSlice([]float64{1, 2}, tensor.Shape{1, 2}, backend)
	scale, _ := tensor.FromSlice([]float64{10, 10, 20, 20, 30, 30}, tensor.Shape{3, 2}, backend)

	shared := backend.Expand(mu.Raw(), tensor.Shape{3, 2})
	weighted := backend.Mul(shared, scale.Raw())
	loss := backend.Sum(weighted)

	result := tensor.New[float64](loss, backend)
	grads := autodiff.Backward(result, backend)

	gradMu := grads[mu.Raw()]
	if !gradMu.Shape().Equal(tensor.Shape{1, 2}) {
		t.Fatalf("grad_mu shape = %v, want [1 2]", gradMu.Shape())
	}
	wantGrad := []float64{60, 60}
	for i, v := range gradMu.AsFloat64() {
		if math.Abs(v-wantGrad[i]) > 1e-12 {
			t.Errorf("grad_mu[%d] = %f, want %f", i, v, wantGrad[i])
		}
	}
}

// TestMeanDim_Differentiable tests that the composed MeanDim records its
// pieces and yields the 1/n gradient.
func TestMeanDim_Differentiable(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{4}, backend)
	mean := backend.MeanDim(x.Raw(), 0, false)

	if got := mean.AsFloat64()[0]; math.Abs(got-2.5) > 1e-12 {
		t.Errorf("mean = %f, want 2.5", got)
	}

	result := tensor.New[float64](mean, backend)
	grads := autodiff.Backward(result, backend)

	for i, v := range grads[x.Raw()].AsFloat64() {
		if math.Abs(v-0.25) > 1e-12 {
			t.Errorf("grad_x[%d] = %f, want 0.25", i, v)
		}
	}
}

// TestBackward_ReshapeTranspose tests that shape plumbing ops route the
// gradient back to the original parameter.
func TestBackward_ReshapeTranspose(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	w, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{6}, backend)
	m := backend.Reshape(w.Raw(), tensor.Shape{2, 3})
	mt := backend.Transpose(m) // [3, 2]
	scale, _ := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2}, backend)
	loss := backend.Sum(backend.Mul(mt, scale.Raw()))

	result := tensor.New[float64](loss, backend)
	grads := autodiff.Backward(result, backend)

	gradW := grads[w.Raw()]
	if gradW == nil {
		t.Fatal("Expected gradient for original parameter")
	}
	if !gradW.Shape().Equal(tensor.Shape{6}) {
		t.Fatalf("grad_w shape = %v, want [6]", gradW.Shape())
	}
	// mt[i][j] = m[j][i], so grad of w follows the inverse permutation.
	want := []float64{1, 3, 5, 2, 4, 6}
	for i, v := range gradW.AsFloat64() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("grad_w[%d] = %f, want %f", i, v, want[i])
		}
	}
}

// TestBackward_NoRecordingPanics tests the guard against an empty tape.
func TestBackward_NoRecordingPanics(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float64{1}, tensor.Shape{1}, backend)

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for backward on empty tape")
		}
	}()
	autodiff.Backward(x, backend)
}
