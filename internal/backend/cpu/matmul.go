package cpu

import (
	"fmt"

	"github.com/born-ml/hbnn/internal/parallel"
	"github.com/born-ml/hbnn/internal/tensor"
)

// MatMul multiplies two 2-D tensors: [M, K] @ [K, N] -> [M, N].
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	as, bs := a.Shape(), b.Shape()
	if len(as) != 2 || len(bs) != 2 {
		panic(fmt.Sprintf("cpu: matmul: need 2-d tensors, got %v @ %v", as, bs))
	}
	if as[1] != bs[0] {
		panic(fmt.Sprintf("cpu: matmul: inner dimensions disagree: %v @ %v", as, bs))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("cpu: matmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	m, k, n := as[0], as[1], bs[1]
	out := cpu.alloc(tensor.Shape{m, n}, a.DType())

	switch a.DType() {
	case tensor.Float32:
		matmulKernel(out.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n, cpu.par)
	case tensor.Float64:
		matmulKernel(out.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n, cpu.par)
	default:
		panic(fmt.Sprintf("cpu: matmul: unsupported dtype %s", a.DType()))
	}
	return out
}

// BatchMatMul multiplies stacks of matrices: [G, M, K] @ [G, K, N] ->
// [G, M, N]. Batch dimensions must match exactly; this is the per-group
// forward kernel, so there is no batch broadcasting.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	as, bs := a.Shape(), b.Shape()
	if len(as) != 3 || len(bs) != 3 {
		panic(fmt.Sprintf("cpu: batchmatmul: need 3-d tensors, got %v @ %v", as, bs))
	}
	if as[0] != bs[0] {
		panic(fmt.Sprintf("cpu: batchmatmul: batch dimensions disagree: %v @ %v", as, bs))
	}
	if as[2] != bs[1] {
		panic(fmt.Sprintf("cpu: batchmatmul: inner dimensions disagree: %v @ %v", as, bs))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("cpu: batchmatmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	g, m, k, n := as[0], as[1], as[2], bs[2]
	out := cpu.alloc(tensor.Shape{g, m, n}, a.DType())

	seq := parallel.Config{} // matrices are parallelized over the batch below
	switch a.DType() {
	case tensor.Float32:
		av, bv, ov := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
		parallel.For(g, func(i int) {
			matmulKernel(ov[i*m*n:(i+1)*m*n], av[i*m*k:(i+1)*m*k], bv[i*k*n:(i+1)*k*n], m, k, n, seq)
		}, batchConfig(cpu.par, g))
	case tensor.Float64:
		av, bv, ov := a.AsFloat64(), b.AsFloat64(), out.AsFloat64()
		parallel.For(g, func(i int) {
			matmulKernel(ov[i*m*n:(i+1)*m*n], av[i*m*k:(i+1)*m*k], bv[i*k*n:(i+1)*k*n], m, k, n, seq)
		}, batchConfig(cpu.par, g))
	default:
		panic(fmt.Sprintf("cpu: batchmatmul: unsupported dtype %s", a.DType()))
	}
	return out
}

// batchConfig adapts the backend's parallel config to a batch loop: one
// group per chunk, no minimum below the batch size.
func batchConfig(par parallel.Config, batch int) parallel.Config {
	cfg := par
	cfg.MinChunkSize = 1
	if cfg.NumWorkers > batch {
		cfg.NumWorkers = batch
	}
	return cfg
}

// matmulKernel computes dst += a @ b row by row in i-k-j order so the inner
// loop streams both b and dst.
func matmulKernel[T interface{ float32 | float64 }](dst, a, b []T, m, k, n int, par parallel.Config) {
	parallel.ForChunks(m, func(s, e int) {
		for i := s; i < e; i++ {
			drow := dst[i*n : (i+1)*n]
			for p := 0; p < k; p++ {
				av := a[i*k+p]
				brow := b[p*n : (p+1)*n]
				for j, bv := range brow {
					drow[j] += av * bv
				}
			}
		}
	}, par)
}
