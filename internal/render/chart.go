package render

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/mwiater/auctionbench/internal/util"
)

// clampedLog is a log scale that maps non-positive values to the bottom of
// the axis instead of panicking, so bars based at zero can share a log axis.
type clampedLog struct{}

const logFloor = 1e-12

func (clampedLog) Normalize(min, max, x float64) float64 {
	lo := math.Log(math.Max(min, logFloor))
	hi := math.Log(math.Max(max, logFloor))
	if hi == lo {
		return 0
	}
	return (math.Log(math.Max(x, logFloor)) - lo) / (hi - lo)
}

// setLog switches a to a log scale over [lo, hi]. Call it after every
// plotter has been added, since Add widens the axis range.
func setLog(a *plot.Axis, lo, hi float64) {
	if hi <= 0 {
		lo, hi = 1, 10
	}
	if lo <= 0 {
		lo = hi / 1000
	}
	if hi <= lo {
		hi = lo * 10
	}
	a.Scale = clampedLog{}
	a.Tick.Marker = plot.LogTicks{Prec: -1}
	a.Min, a.Max = lo, hi
}

// autoLog puts a on a log scale spanning the positive values of series,
// padded by half a decade below and above.
func autoLog(a *plot.Axis, series ...[]float64) {
	lo, hi := math.Inf(1), 0.0
	for _, s := range series {
		for _, v := range s {
			if v > 0 && v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 1, 10
	}
	setLog(a, lo/2, hi*2)
}

// intTicks labels the exact values vals.
func intTicks(vals []int) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(vals))
	for i, v := range vals {
		ticks[i] = plot.Tick{Value: float64(v), Label: strconv.Itoa(v)}
	}
	return ticks
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{Y: 0xdd}
	grid.Horizontal.Color = color.Gray{Y: 0xdd}
	p.Add(grid)
	return p
}

// line adds a line with point markers in the given style. Dashed lines are
// used for secondary series such as p99.
func line(p *plot.Plot, xys plotter.XYs, ss SeriesStyle, label string, dashed bool) error {
	l, s, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	c := ss.RGBA()
	l.Color = c
	l.Width = vg.Points(2)
	if dashed {
		l.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	}
	s.Color = c
	s.Shape = ss.Glyph()
	s.Radius = vg.Points(3)
	p.Add(l, s)
	p.Legend.Add(label, l, s)
	return nil
}

// refLine draws y = f(x) over [xmin, xmax] as a thin dashed reference.
func refLine(p *plot.Plot, f func(float64) float64, xmin, xmax float64, label string, c color.Color) {
	fn := plotter.NewFunction(f)
	fn.XMin, fn.XMax = xmin, xmax
	fn.Color = c
	fn.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(fn)
	if label != "" {
		p.Legend.Add(label, fn)
	}
}

func (s Style) save(p *plot.Plot, dir, base string) (string, error) {
	if err := util.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, s.File(base))
	if err := p.Save(s.Width, s.Height, path); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

// saveGrid lays plots out in a rows x cols grid on one canvas.
func (s Style) saveGrid(plots [][]*plot.Plot, w, h vg.Length, dir, base string) (string, error) {
	if err := util.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, s.File(base))
	format := filepath.Ext(path)[1:]

	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return "", err
	}
	dc := draw.New(c)
	tiles := draw.Tiles{
		Rows: len(plots), Cols: len(plots[0]),
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j, p := range plots[i] {
			p.Draw(canvases[i][j])
		}
	}

	f, err := util.CreateFile(path)
	if err != nil {
		return "", err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
