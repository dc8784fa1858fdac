package chart

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/quake-dashboard/internal/analysis"
)

// Glyph radii for magnitude-scaled markers.
const (
	minMarker = 2.2
	maxMarker = 7.0
)

// MagnitudeScatter plots epicentres (longitude vs latitude) with colour and
// marker size scaled by magnitude on a blue-to-red map.
func MagnitudeScatter(lat, lon, mag []float64) (SVG, error) {
	if len(lat) == 0 {
		return nil, ErrNoData
	}
	xys := make(plotter.XYs, len(lat))
	for i := range lat {
		xys[i] = plotter.XY{X: lon[i], Y: lat[i]}
	}

	lo, hi := floats.Min(mag), floats.Max(mag)
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(lo)
	cmap.SetMax(hi)
	if hi <= lo {
		cmap.SetMax(lo + 1)
	}

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		c, err := cmap.At(mag[i])
		if err != nil {
			c = Red
		}
		frac := 0.0
		if hi > lo {
			frac = (mag[i] - lo) / (hi - lo)
		}
		return draw.GlyphStyle{
			Color:  withAlpha(c, 150),
			Radius: vg.Points(minMarker + frac*(maxMarker-minMarker)),
			Shape:  draw.CircleGlyph{},
		}
	}

	p := newPlot("Magnitude Distribution by Latitude and Longitude", "Longitude", "Latitude")
	p.Add(s)
	return render(p, Width, Height)
}

// GroupBars draws one bar per group in the given order.
func GroupBars(groups []analysis.GroupCount, title, xLabel string) (SVG, error) {
	if len(groups) == 0 {
		return nil, ErrNoData
	}
	values := make(plotter.Values, len(groups))
	labels := make([]string, len(groups))
	for i, g := range groups {
		values[i] = float64(g.Count)
		labels[i] = g.Name
	}

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = Blue
	bars.LineStyle.Width = vg.Length(0)

	p := newPlot(title, xLabel, "Count")
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	return render(p, Width, Height)
}

// Histogram bins values into the given number of equal-width bins.
func Histogram(values []float64, bins int, title, xLabel string) (SVG, error) {
	if len(values) == 0 {
		return nil, ErrNoData
	}
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	h.FillColor = SkyBlue
	h.LineStyle.Color = Black

	p := newPlot(title, xLabel, "Count")
	p.Add(h)
	return render(p, Width, Height)
}

// YearlyLine draws the record count per year.
func YearlyLine(counts []analysis.YearCount) (SVG, error) {
	if len(counts) == 0 {
		return nil, ErrNoData
	}
	l, err := plotter.NewLine(yearXYs(counts))
	if err != nil {
		return nil, fmt.Errorf("line: %w", err)
	}
	l.Color = Blue
	l.Width = vg.Points(1.5)

	p := newPlot("Number of Earthquakes Per Year", "Year", "Count")
	p.Add(l)
	p.X.Tick.Marker = yearTicks{}
	return render(p, Width, Height)
}

// Forecast draws the historical yearly counts, the fitted line over the
// historical years and the predicted future points.
func Forecast(t analysis.Trend, title string) (SVG, error) {
	if len(t.History) == 0 {
		return nil, ErrNoData
	}
	history := yearXYs(t.History)
	hist, err := scatter(history, Blue, vg.Points(3))
	if err != nil {
		return nil, err
	}

	fitted := make(plotter.XYs, len(history))
	for i, xy := range history {
		fitted[i] = plotter.XY{X: xy.X, Y: t.At(xy.X)}
	}
	line, err := plotter.NewLine(fitted)
	if err != nil {
		return nil, fmt.Errorf("line: %w", err)
	}
	line.Color = Red
	line.Width = vg.Points(1.5)

	p := newPlot(title, "Year", "Number of Earthquakes")
	p.Add(hist, line)
	p.Legend.Add("Historical Data", hist)
	p.Legend.Add("Regression Line", line)

	if len(t.Predictions) > 0 {
		future := make(plotter.XYs, len(t.Predictions))
		for i, pr := range t.Predictions {
			future[i] = plotter.XY{X: float64(pr.Year), Y: pr.Value}
		}
		fut, err := scatter(future, Green, vg.Points(3))
		if err != nil {
			return nil, err
		}
		p.Add(fut)
		p.Legend.Add("Future Predictions", fut)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	p.X.Tick.Marker = yearTicks{}
	return render(p, Width, Height)
}

// Clusters draws a two-column clustering, one colour per cluster.
func Clusters(c analysis.Clustering) (SVG, error) {
	if !c.Plottable() {
		return nil, fmt.Errorf("clusters need exactly 2 columns, got %d", len(c.Columns))
	}
	if len(c.Rows) == 0 {
		return nil, ErrNoData
	}
	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Paired", 12)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	colors := pal.Colors()

	p := newPlot(fmt.Sprintf("K-Means Clustering with %d Clusters", c.K), c.Columns[0], c.Columns[1])
	for k := 0; k < c.K; k++ {
		var xys plotter.XYs
		for i, r := range c.Rows {
			if c.Labels[i] == k {
				xys = append(xys, plotter.XY{X: r[0], Y: r[1]})
			}
		}
		if len(xys) == 0 {
			continue
		}
		s, err := scatter(xys, colors[k%len(colors)], vg.Points(3))
		if err != nil {
			return nil, err
		}
		p.Add(s)
		p.Legend.Add("Cluster "+strconv.Itoa(k), s)
	}
	p.Legend.Top = true
	return render(p, SmallWidth, SmallHeight)
}

// DepthMagnitude plots magnitude against depth.
func DepthMagnitude(points []analysis.Point) (SVG, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}
	s, err := scatter(pointXYs(points), withAlpha(SkyBlue, 130), vg.Points(2.5))
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Shape = draw.RingGlyph{}
	p := newPlot("Dependence of magnitude on earthquake depth", "Depth (km)", "Magnitude")
	p.Add(s)
	return render(p, Width, Height)
}

// TsunamiScatter plots magnitude against depth split by the tsunami flag.
func TsunamiScatter(none, tsunami []analysis.Point) (SVG, error) {
	if len(none)+len(tsunami) == 0 {
		return nil, ErrNoData
	}
	p := newPlot("Tsunami Occurrence Based on Depth and Magnitude", "Depth (km)", "Magnitude")
	series := []struct {
		label  string
		color  color.Color
		points []analysis.Point
	}{
		{"No Tsunami", Blue, none},
		{"Tsunami", Red, tsunami},
	}
	for _, sr := range series {
		if len(sr.points) == 0 {
			continue
		}
		s, err := scatter(pointXYs(sr.points), withAlpha(sr.color, 150), vg.Points(2.5))
		if err != nil {
			return nil, err
		}
		p.Add(s)
		p.Legend.Add(sr.label, s)
	}
	p.Legend.Top = true
	return render(p, Width, Height)
}

// maxDistributionBars is the most distinct values drawn as labelled bars;
// beyond it the distribution is drawn as stems on a numeric axis.
const maxDistributionBars = 40

// Distribution draws the value counts of a column ordered by value.
func Distribution(counts []analysis.ValueCount, column string) (SVG, error) {
	if len(counts) == 0 {
		return nil, ErrNoData
	}
	title := "Distribution of " + column
	p := newPlot(title, column, "Count")

	if len(counts) <= maxDistributionBars {
		values := make(plotter.Values, len(counts))
		labels := make([]string, len(counts))
		for i, vc := range counts {
			values[i] = float64(vc.Count)
			labels[i] = analysis.FormatNumber(vc.Value)
		}
		bars, err := plotter.NewBarChart(values, vg.Points(12))
		if err != nil {
			return nil, fmt.Errorf("bar chart: %w", err)
		}
		bars.Color = Blue
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalX(labels...)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = draw.XRight
		p.Y.Min = 0
		return render(p, Width, Height)
	}

	stems := make(plotter.XYs, 0, 3*len(counts))
	for _, vc := range counts {
		stems = append(stems,
			plotter.XY{X: vc.Value, Y: 0},
			plotter.XY{X: vc.Value, Y: float64(vc.Count)},
			plotter.XY{X: vc.Value, Y: 0},
		)
	}
	l, err := plotter.NewLine(stems)
	if err != nil {
		return nil, fmt.Errorf("line: %w", err)
	}
	l.Color = Blue
	p.Add(l)
	p.Y.Min = 0
	return render(p, Width, Height)
}

func yearXYs(counts []analysis.YearCount) plotter.XYs {
	xys := make(plotter.XYs, len(counts))
	for i, c := range counts {
		xys[i] = plotter.XY{X: float64(c.Year), Y: float64(c.Count)}
	}
	return xys
}

func pointXYs(points []analysis.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}

// yearTicks labels whole years only.
type yearTicks struct{}

func (yearTicks) Ticks(lo, hi float64) []plot.Tick {
	span := hi - lo
	step := 1.0
	for span/step > 12 {
		step *= 2
	}
	var ticks []plot.Tick
	for y := math.Ceil(lo/step) * step; y <= hi; y += step {
		ticks = append(ticks, plot.Tick{Value: y, Label: strconv.Itoa(int(y))})
	}
	return ticks
}
