package chart

// Package chart renders aggregated execution times as a line chart with one
// series per variant on a logarithmic time axis.

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/perfgo/kbench/aggregate"
	"github.com/perfgo/kbench/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	DefaultTitle  = "Execution Time for Tests"
	DefaultOutput = "execution_times.png"
	XLabel        = "Test Number"
	YLabel        = "Time (in seconds)"
)

// ErrNoData is returned when no variant has a drawable time.
var ErrNoData = errors.New("no execution times to plot")

// DefaultYTicks are the labelled values of the time axis.
var DefaultYTicks = []float64{0.000001, 0.001, 0.1, 1, 10, 100, 200}

var (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 7 * vg.Inch
)

var colors = map[model.Variant]color.Color{
	model.VariantSequential:   color.RGBA{B: 255, A: 255},
	model.VariantMultiProcess: color.RGBA{R: 255, A: 255},
	model.VariantMultiThread:  color.RGBA{G: 128, A: 255},
	model.VariantAccelerator:  color.RGBA{R: 128, B: 128, A: 255},
}

var gridColor = color.Gray{Y: 166}

// Options controls the rendered chart.
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	YTicks []float64
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if len(o.YTicks) == 0 {
		o.YTicks = DefaultYTicks
	}
	return o
}

// Color returns the line color of variant.
func Color(v model.Variant) color.Color {
	if c, ok := colors[v]; ok {
		return c
	}
	return color.Black
}

// Segments splits a series into runs of consecutive drawable points. Absent
// and non-positive samples break the line.
func Segments(s aggregate.Series) []plotter.XYs {
	var (
		segments []plotter.XYs
		current  plotter.XYs
	)

	for _, p := range s.Points {
		v, ok := p.Time.Value()
		if !ok || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		current = append(current, plotter.XY{X: float64(p.Ordinal), Y: v})
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}

	return segments
}

// Render builds the chart for result. Every variant is listed in the legend,
// even the ones without data.
func Render(result *aggregate.Result, opts Options) (*plot.Plot, error) {
	opts = opts.withDefaults()

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.ConstantTicks(numberTicks(opts.YTicks))
	p.X.Tick.Marker = plot.ConstantTicks(ordinalTicks(result.Axis))
	p.Legend.Top = true
	p.Legend.Left = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Vertical.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Horizontal.Color = gridColor
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(grid)

	drawn := 0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, series := range result.All() {
		c := Color(series.Variant)

		var thumb plot.Thumbnailer
		for _, seg := range Segments(series) {
			line, points, err := plotter.NewLinePoints(seg)
			if err != nil {
				return nil, fmt.Errorf("failed to plot %s: %w", series.Variant.Label(), err)
			}
			line.Color = c
			line.Width = vg.Points(1.5)
			points.Color = c
			points.Shape = draw.CircleGlyph{}
			points.Radius = vg.Points(3)

			p.Add(line, points)
			drawn += len(seg)
			for _, xy := range seg {
				lo = math.Min(lo, xy.Y)
				hi = math.Max(hi, xy.Y)
			}
			if thumb == nil {
				thumb = line
			}
		}

		if thumb == nil {
			thumb = &plotter.Line{LineStyle: draw.LineStyle{Color: c, Width: vg.Points(1.5)}}
		}
		p.Legend.Add(series.Variant.Label(), thumb)
	}

	if drawn == 0 {
		return nil, ErrNoData
	}

	// the time axis spans every labelled tick as well as the data
	for _, v := range opts.YTicks {
		if v > 0 {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo == hi {
		lo, hi = lo/10, hi*10
	}
	p.Y.Min, p.Y.Max = lo, hi

	return p, nil
}

// Save writes p to path. The image format follows the file extension.
func Save(p *plot.Plot, path string, opts Options) error {
	opts = opts.withDefaults()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".svg", ".pdf", ".eps", ".jpg", ".jpeg", ".tif", ".tiff":
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("failed to save chart to %s: %w", path, err)
	}
	return nil
}

// Plot renders result and saves it to path.
func Plot(result *aggregate.Result, path string, opts Options) error {
	p, err := Render(result, opts)
	if err != nil {
		return err
	}
	return Save(p, path, opts)
}

func numberTicks(values []float64) []plot.Tick {
	ticks := make([]plot.Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
	}
	return ticks
}

func ordinalTicks(axis []int) []plot.Tick {
	ticks := make([]plot.Tick, 0, len(axis))
	for _, n := range axis {
		ticks = append(ticks, plot.Tick{Value: float64(n), Label: strconv.Itoa(n)})
	}
	return ticks
}
