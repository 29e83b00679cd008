// Package plotting renders the diagnostic figures: a corner plot of the
// posterior and the light curve with a posterior fit envelope.
package plotting

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const histogramBins = 40

// Corner writes a lower-triangle corner plot of the flattened samples:
// 1D histograms on the diagonal, 2D scatter marginals below it.
func Corner(flat [][]float64, labels []string, path string) error {
	if len(flat) == 0 {
		return fmt.Errorf("corner plot: no samples")
	}
	dim := len(flat[0])
	if len(labels) != dim {
		return fmt.Errorf("corner plot: %d labels for %d parameters", len(labels), dim)
	}

	plots := make([][]*plot.Plot, dim)
	for row := range plots {
		plots[row] = make([]*plot.Plot, dim)
		for col := 0; col <= row; col++ {
			p := plot.New()
			p.X.Label.Text = labels[col]
			if col == row {
				h, err := histogram(flat, col)
				if err != nil {
					return err
				}
				p.Add(h)
				p.Y.Label.Text = ""
			} else {
				s, err := scatter(flat, col, row)
				if err != nil {
					return err
				}
				p.Add(s)
				p.Y.Label.Text = labels[row]
			}
			plots[row][col] = p
		}
	}

	img := vgimg.New(9*vg.Inch, 9*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: dim,
		Cols: dim,
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		for col := range plots[row] {
			if plots[row][col] != nil {
				plots[row][col].Draw(canvases[row][col])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create corner plot: %w", err)
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("write corner plot: %w", err)
	}
	return nil
}

func histogram(flat [][]float64, col int) (*plotter.Histogram, error) {
	vals := make(plotter.Values, len(flat))
	for i, v := range flat {
		vals[i] = v[col]
	}
	h, err := plotter.NewHist(vals, histogramBins)
	if err != nil {
		return nil, fmt.Errorf("corner plot histogram: %w", err)
	}
	h.FillColor = color.NRGBA{R: 70, G: 120, B: 180, A: 255}
	return h, nil
}

func scatter(flat [][]float64, xcol, ycol int) (*plotter.Scatter, error) {
	xys := make(plotter.XYs, len(flat))
	for i, v := range flat {
		xys[i].X = v[xcol]
		xys[i].Y = v[ycol]
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("corner plot scatter: %w", err)
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(0.6)
	s.GlyphStyle.Color = color.NRGBA{R: 40, G: 40, B: 40, A: 40}
	return s, nil
}
