// Package chart renders dashboard figures as standalone SVG documents with
// gonum/plot. Renderers take already-derived data and never touch the dataset.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a renderer is given nothing to draw.
var ErrNoData = errors.New("no data to plot")

// Figure sizes.
const (
	Width       = 10 * vg.Inch
	Height      = 6 * vg.Inch
	SmallWidth  = 8 * vg.Inch
	SmallHeight = 6 * vg.Inch
)

// Colours shared across figures.
var (
	Blue    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	Red     = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	Green   = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	SkyBlue = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	Black   = color.RGBA{A: 255}
)

// SVG is a rendered figure.
type SVG []byte

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

// render encodes p as SVG, dropping the XML prologue so the document can be
// embedded in an HTML page.
func render(p *plot.Plot, w, h vg.Length) (SVG, error) {
	wt, err := p.WriterTo(w, h, "svg")
	if err != nil {
		return nil, fmt.Errorf("create svg writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write svg: %w", err)
	}
	out := buf.Bytes()
	if i := bytes.Index(out, []byte("<svg")); i > 0 {
		out = out[i:]
	}
	return SVG(out), nil
}

func scatter(xys plotter.XYs, c color.Color, radius vg.Length) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = radius
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	return s, nil
}
