// Package chart writes the run's figures as PNG files.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"PriceForecaster/internal/arima"
	"PriceForecaster/internal/stats"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	historyColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	arimaColor   = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	sarimaColor  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	bandColor    = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// Renderer writes charts into Dir.
type Renderer struct {
	Dir    string
	Width  vg.Length
	Height vg.Length
}

// NewRenderer creates a renderer with a 10x6 inch canvas.
func NewRenderer(dir string) *Renderer {
	return &Renderer{Dir: dir, Width: 10 * vg.Inch, Height: 6 * vg.Inch}
}

func (r *Renderer) path(name string) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	return filepath.Join(r.Dir, name), nil
}

// finiteXYs pairs each finite value with its index, starting at offset.
func finiteXYs(values []float64, offset int) plotter.XYs {
	pts := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(offset + i), Y: v})
	}
	return pts
}

func addLine(p *plot.Plot, pts plotter.XYs, c color.Color, legend string) error {
	if len(pts) == 0 {
		return nil
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	l.Color = c
	l.Width = vg.Points(1.2)
	p.Add(l)
	if legend != "" {
		p.Legend.Add(legend, l)
	}
	return nil
}

// Decomposition draws the observed series and its three components stacked.
func (r *Renderer) Decomposition(d *stats.DecompositionResult, symbol string) (string, error) {
	panels := []struct {
		title  string
		values []float64
	}{
		{fmt.Sprintf("%s observed", symbol), d.Observed},
		{"trend", d.Trend},
		{"seasonal", d.Seasonal},
		{"residual", d.Residual},
	}

	rows := make([][]*plot.Plot, len(panels))
	for i, pn := range panels {
		p := plot.New()
		p.Title.Text = pn.title
		if err := addLine(p, finiteXYs(pn.values, 0), historyColor, ""); err != nil {
			return "", fmt.Errorf("decomposition %s: %w", pn.title, err)
		}
		if i == len(panels)-1 {
			p.X.Label.Text = "index"
		}
		rows[i] = []*plot.Plot{p}
	}

	img := vgimg.New(r.Width, r.Height*4/3)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(rows), Cols: 1,
		PadY: 3 * vg.Millimeter, PadTop: 2 * vg.Millimeter, PadBottom: 2 * vg.Millimeter,
		PadLeft: 2 * vg.Millimeter, PadRight: 2 * vg.Millimeter,
	}
	canvases := plot.Align(rows, tiles, dc)
	for i := range rows {
		rows[i][0].Draw(canvases[i][0])
	}

	path, err := r.path("decomposition.png")
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Correlogram draws (partial) autocorrelations as bars with 95% and 99% bounds.
func (r *Renderer) Correlogram(c *stats.Correlogram, title, file string) (string, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "lag"
	p.Y.Min, p.Y.Max = -1, 1

	for k, v := range c.Values {
		stem, err := plotter.NewLine(plotter.XYs{{X: float64(k), Y: 0}, {X: float64(k), Y: v}})
		if err != nil {
			return "", err
		}
		stem.Color = historyColor
		stem.Width = vg.Points(1.5)
		p.Add(stem)
	}
	pts, err := plotter.NewScatter(finiteXYs(c.Values, 0))
	if err != nil {
		return "", err
	}
	pts.GlyphStyle.Color = historyColor
	pts.GlyphStyle.Radius = vg.Points(2)
	p.Add(pts)

	maxLag := float64(c.MaxLag())
	for _, bound := range []struct {
		v      float64
		dashes []vg.Length
	}{
		{c.Conf95, []vg.Length{vg.Points(4), vg.Points(2)}},
		{c.Conf99, []vg.Length{vg.Points(1), vg.Points(2)}},
	} {
		for _, sign := range []float64{1, -1} {
			l, err := plotter.NewLine(plotter.XYs{{X: 0, Y: sign * bound.v}, {X: maxLag, Y: sign * bound.v}})
			if err != nil {
				return "", err
			}
			l.Color = bandColor
			l.Dashes = bound.dashes
			p.Add(l)
		}
	}
	p.Add(plotter.NewGrid())

	path, err := r.path(file)
	if err != nil {
		return "", err
	}
	if err := p.Save(r.Width, r.Height, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// NamedForecast labels a forecast for the legend.
type NamedForecast struct {
	Name     string
	Forecast *arima.Forecast
}

// Forecasts draws the history with every forecast and its interval on the
// positions N..N+H-1 following it.
func (r *Renderer) Forecasts(history []float64, symbol string, forecasts []NamedForecast) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s close and forecasts", symbol)
	p.X.Label.Text = "index"
	p.Y.Label.Text = "price"
	p.Legend.Top = true
	p.Legend.Left = true

	if err := addLine(p, finiteXYs(history, 0), historyColor, "history"); err != nil {
		return "", err
	}
	colors := []color.Color{arimaColor, sarimaColor}
	for i, nf := range forecasts {
		if nf.Forecast == nil {
			continue
		}
		c := colors[i%len(colors)]
		fc := nf.Forecast
		if err := addLine(p, finiteXYs(fc.Mean, fc.Start), c, nf.Name); err != nil {
			return "", err
		}
		for _, bound := range [][]float64{fc.Lower, fc.Upper} {
			pts := finiteXYs(bound, fc.Start)
			if len(pts) == 0 {
				continue
			}
			l, err := plotter.NewLine(pts)
			if err != nil {
				return "", err
			}
			l.Color = c
			l.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
			p.Add(l)
		}
	}
	p.Add(plotter.NewGrid())

	path, err := r.path("forecast.png")
	if err != nil {
		return "", err
	}
	if err := p.Save(r.Width, r.Height, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}
