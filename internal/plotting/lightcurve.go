package plotting

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"transim/internal/synth"
)

// lcData adapts a light curve to the plotter's error-bar interfaces.
type lcData struct {
	plotter.XYs
	plotter.YErrors
}

// LightCurve writes the observed light curve with sqrt(N) error bars and an
// envelope of posterior model draws at reduced opacity. Each entry of
// envelope is one model curve evaluated at lc.Time.
func LightCurve(lc synth.LightCurve, envelope [][]float64, path string) error {
	if len(lc.Time) == 0 {
		return fmt.Errorf("light curve plot: no data")
	}

	p := plot.New()
	p.X.Label.Text = "time [d]"
	p.Y.Label.Text = "summed counts"

	data := lcData{
		XYs:     make(plotter.XYs, len(lc.Time)),
		YErrors: make(plotter.YErrors, len(lc.Time)),
	}
	for i := range lc.Time {
		data.XYs[i].X = lc.Time[i]
		data.XYs[i].Y = lc.Flux[i]
		data.YErrors[i].Low = lc.Sigma[i]
		data.YErrors[i].High = lc.Sigma[i]
	}

	points, err := plotter.NewScatter(data.XYs)
	if err != nil {
		return fmt.Errorf("light curve scatter: %w", err)
	}
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Radius = vg.Points(1.5)
	points.GlyphStyle.Color = color.NRGBA{A: 255}

	bars, err := plotter.NewYErrorBars(data)
	if err != nil {
		return fmt.Errorf("light curve error bars: %w", err)
	}
	bars.LineStyle.Color = color.NRGBA{A: 120}

	for _, curve := range envelope {
		if len(curve) != len(lc.Time) {
			return fmt.Errorf("light curve envelope: curve has %d points, data has %d", len(curve), len(lc.Time))
		}
		xys := make(plotter.XYs, len(curve))
		for i := range curve {
			xys[i].X = lc.Time[i]
			xys[i].Y = curve[i]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("light curve envelope line: %w", err)
		}
		line.LineStyle.Color = color.NRGBA{R: 220, G: 60, B: 40, A: 25}
		line.LineStyle.Width = vg.Points(0.75)
		p.Add(line)
	}

	p.Add(points, bars)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("write light curve plot: %w", err)
	}
	return nil
}
