package viz

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/born-ml/hbnn/internal/mcmc"
)

// LogPosteriorTraces renders one line per chain over its retained
// log-posterior values, a quick read on mixing.
func LogPosteriorTraces(path string, result *mcmc.Result) error {
	if result == nil || len(result.Chains) == 0 {
		return fmt.Errorf("viz: no chains to plot")
	}

	p := plot.New()
	p.Title.Text = "log posterior by draw"
	p.X.Label.Text = "draw"
	p.Y.Label.Text = "log posterior"

	for i, c := range result.Chains {
		xys := make(plotter.XYs, len(c.LogProbs))
		for j, v := range c.LogProbs {
			xys[j] = plotter.XY{X: float64(j), Y: v}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("viz: trace for chain %d: %w", i, err)
		}
		line.LineStyle.Color = chainColor(i)
		line.LineStyle.Width = vg.Points(0.75)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("chain %d", i), line)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("viz: save traces: %w", err)
	}
	return nil
}

// chainColor cycles a small qualitative palette.
func chainColor(i int) color.Color {
	colors := []color.RGBA{
		{R: 0x1b, G: 0x9e, B: 0x77, A: 0xff},
		{R: 0xd9, G: 0x5f, B: 0x02, A: 0xff},
		{R: 0x75, G: 0x70, B: 0xb3, A: 0xff},
		{R: 0xe7, G: 0x29, B: 0x8a, A: 0xff},
		{R: 0x66, G: 0xa6, B: 0x1e, A: 0xff},
		{R: 0xe6, G: 0xab, B: 0x02, A: 0xff},
	}
	return colors[i%len(colors)]
}
