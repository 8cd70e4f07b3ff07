// Package viz renders run artifacts as PNG files: per-group decision
// boundaries and sampler trace plots.
package viz

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/born-ml/hbnn/internal/dataset"
)

// Surface evaluates class-1 probabilities for one group at arbitrary
// points.
type Surface func(group int, points [][]float64) ([]float64, error)

// BoundaryOptions tunes the decision-boundary figure. The zero value
// picks sensible defaults.
type BoundaryOptions struct {
	GridSize int     // probability grid resolution per axis (default 80)
	Margin   float64 // padding around the data bounds (default 0.5)
	Cols     int     // tile columns (default 3, capped at the group count)
}

func (o BoundaryOptions) withDefaults(numGroups int) BoundaryOptions {
	if o.GridSize < 2 {
		o.GridSize = 80
	}
	if o.Margin <= 0 {
		o.Margin = 0.5
	}
	if o.Cols < 1 {
		o.Cols = 3
	}
	if o.Cols > numGroups {
		o.Cols = numGroups
	}
	return o
}

// DecisionBoundaries renders one tile per group: the posterior
// predictive probability as a heatmap over a shared grid, with the
// group's training points overlaid (circles for class 0, crosses for
// class 1).
func DecisionBoundaries(path string, data *dataset.GroupedData, surface Surface, opts BoundaryOptions) error {
	if data == nil || data.NumGroups() == 0 {
		return fmt.Errorf("viz: no groups to plot")
	}
	if data.NumFeatures != 2 {
		return fmt.Errorf("viz: decision boundaries need 2-d features, got %d", data.NumFeatures)
	}
	opts = opts.withDefaults(data.NumGroups())

	xmin, xmax, ymin, ymax := data.Bounds()
	xs := floats.Span(make([]float64, opts.GridSize), xmin-opts.Margin, xmax+opts.Margin)
	ys := floats.Span(make([]float64, opts.GridSize), ymin-opts.Margin, ymax+opts.Margin)

	points := make([][]float64, 0, len(xs)*len(ys))
	for _, y := range ys {
		for _, x := range xs {
			points = append(points, []float64{x, y})
		}
	}

	cols := opts.Cols
	rows := (data.NumGroups() + cols - 1) / cols
	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, cols)
	}

	pal := moreland.SmoothBlueRed().Palette(255)
	for g := 0; g < data.NumGroups(); g++ {
		probs, err := surface(g, points)
		if err != nil {
			return fmt.Errorf("viz: surface for group %d: %w", g, err)
		}
		if len(probs) != len(points) {
			return fmt.Errorf("viz: surface for group %d returned %d values for %d points", g, len(probs), len(points))
		}

		p := plot.New()
		p.Title.Text = fmt.Sprintf("group %d", g)
		p.X.Label.Text = "x1"
		p.Y.Label.Text = "x2"

		h := plotter.NewHeatMap(probGrid{xs: xs, ys: ys, z: probs}, pal)
		h.Min, h.Max = 0, 1
		p.Add(h)

		if err := addPoints(p, data.Groups[g]); err != nil {
			return err
		}
		plots[g/cols][g%cols] = p
	}

	img := vgimg.New(vg.Length(cols)*4*vg.Inch, vg.Length(rows)*3*vg.Inch)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Millimeter * 2, PadY: vg.Millimeter * 2,
		PadTop: vg.Millimeter, PadBottom: vg.Millimeter,
		PadLeft: vg.Millimeter, PadRight: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, draw.New(img))
	for r := range plots {
		for c := range plots[r] {
			if plots[r][c] != nil {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	}
	return writePNG(path, img)
}

// probGrid adapts a row-major probability surface to plotter.GridXYZ.
type probGrid struct {
	xs, ys []float64
	z      []float64 // [len(ys)][len(xs)] row-major
}

func (g probGrid) Dims() (int, int)   { return len(g.xs), len(g.ys) }
func (g probGrid) X(c int) float64    { return g.xs[c] }
func (g probGrid) Y(r int) float64    { return g.ys[r] }
func (g probGrid) Z(c, r int) float64 { return g.z[r*len(g.xs)+c] }

// addPoints overlays one group's training points, split by label.
func addPoints(p *plot.Plot, group dataset.Group) error {
	var zero, one plotter.XYs
	for i, x := range group.X {
		xy := plotter.XY{X: x[0], Y: x[1]}
		if group.Y[i] >= 0.5 {
			one = append(one, xy)
		} else {
			zero = append(zero, xy)
		}
	}

	for _, set := range []struct {
		xys   plotter.XYs
		shape draw.GlyphDrawer
	}{
		{zero, draw.CircleGlyph{}},
		{one, draw.CrossGlyph{}},
	} {
		if len(set.xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(set.xys)
		if err != nil {
			return fmt.Errorf("viz: scatter: %w", err)
		}
		s.GlyphStyle.Shape = set.shape
		s.GlyphStyle.Color = color.Black
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
	}
	return nil
}

func writePNG(path string, img *vgimg.Canvas) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("viz: create %s: %w", path, err)
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("viz: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("viz: close %s: %w", path, err)
	}
	return nil
}
