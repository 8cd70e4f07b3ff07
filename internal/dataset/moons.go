package dataset

import (
	"fmt"
	"math"
	"math/rand" //nolint:gosec // reproducible synthetic data, not crypto
)

// Center of the unrotated two-moons pattern. The outer arc sits on the
// unit circle at the origin, the inner arc on a unit circle at (1, 0.5),
// so the configuration is centered between them.
const (
	moonsCenterX = 0.5
	moonsCenterY = 0.25
)

// Config describes a grouped two-moons dataset.
type Config struct {
	NumGroups    int     // G, number of groups
	MinGroupSize int     // smallest group size (inclusive)
	MaxGroupSize int     // largest group size (inclusive)
	Noise        float64 // stddev of Gaussian jitter on every coordinate
	MaxRotation  float64 // radians; group g is rotated by MaxRotation*g/(G-1)
	Seed         int64
}

// Validate checks the configuration for basic consistency.
func (c Config) Validate() error {
	if c.NumGroups < 1 {
		return fmt.Errorf("dataset: need at least one group, got %d", c.NumGroups)
	}
	if c.MinGroupSize < 2 {
		return fmt.Errorf("dataset: min group size %d too small (need >= 2)", c.MinGroupSize)
	}
	if c.MaxGroupSize < c.MinGroupSize {
		return fmt.Errorf("dataset: max group size %d below min %d", c.MaxGroupSize, c.MinGroupSize)
	}
	if c.Noise < 0 {
		return fmt.Errorf("dataset: negative noise %g", c.Noise)
	}
	return nil
}

// Moons generates the classical two interleaved half-circles: n points,
// two features each, labels 0 (outer arc) and 1 (inner arc). Points are
// evenly spaced along each arc before noise is added.
func Moons(n int, noise float64, rng *rand.Rand) ([][]float64, []float64) {
	nOuter := n/2 + n%2
	nInner := n / 2

	x := make([][]float64, 0, n)
	y := make([]float64, 0, n)

	for i := 0; i < nOuter; i++ {
		t := math.Pi * float64(i) / float64(max(nOuter-1, 1))
		px := math.Cos(t) + noise*rng.NormFloat64()
		py := math.Sin(t) + noise*rng.NormFloat64()
		x = append(x, []float64{px, py})
		y = append(y, 0)
	}
	for i := 0; i < nInner; i++ {
		t := math.Pi * float64(i) / float64(max(nInner-1, 1))
		px := 1 - math.Cos(t) + noise*rng.NormFloat64()
		py := 0.5 - math.Sin(t) + noise*rng.NormFloat64()
		x = append(x, []float64{px, py})
		y = append(y, 1)
	}

	return x, y
}

// Generate builds a grouped dataset: every group draws its own moons
// sample, sized uniformly from [MinGroupSize, MaxGroupSize], rotated
// about the pattern center by an angle evenly spaced across groups.
// Group 0 is always unrotated, so the base pattern stays visible.
func Generate(cfg Config) (*GroupedData, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec

	data := &GroupedData{
		NumFeatures: 2,
		Groups:      make([]Group, cfg.NumGroups),
	}

	for g := 0; g < cfg.NumGroups; g++ {
		n := cfg.MinGroupSize
		if cfg.MaxGroupSize > cfg.MinGroupSize {
			n += rng.Intn(cfg.MaxGroupSize - cfg.MinGroupSize + 1)
		}

		theta := 0.0
		if cfg.NumGroups > 1 {
			theta = cfg.MaxRotation * float64(g) / float64(cfg.NumGroups-1)
		}

		x, y := Moons(n, cfg.Noise, rng)
		rotateAbout(x, theta, moonsCenterX, moonsCenterY)

		data.Groups[g] = Group{X: x, Y: y}
	}

	return data, nil
}

// rotateAbout rotates 2-D points in place by theta radians around
// (cx, cy).
func rotateAbout(points [][]float64, theta, cx, cy float64) {
	if theta == 0 {
		return
	}
	sin, cos := math.Sincos(theta)
	for _, p := range points {
		dx := p[0] - cx
		dy := p[1] - cy
		p[0] = cx + cos*dx - sin*dy
		p[1] = cy + sin*dx + cos*dy
	}
}
