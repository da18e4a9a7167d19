package render

import (
	"errors"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mwiater/auctionbench/internal/csvload"
	"github.com/mwiater/auctionbench/internal/latency"
)

// CurveSeries is one system's latency as a function of achieved throughput.
type CurveSeries struct {
	Name   string
	Points []latency.CurvePoint
}

// ScalingSeries is one system's achieved throughput as a function of load.
type ScalingSeries struct {
	Name string
	X    []float64
	Y    []float64
}

// ObsidianCurve turns throughput CSV rows into a latency curve keyed by
// achieved throughput.
func ObsidianCurve(rows []csvload.ThroughputRow) []latency.CurvePoint {
	pts := make([]latency.CurvePoint, len(rows))
	for i, r := range rows {
		pts[i] = latency.CurvePoint{Throughput: r.ActualAPS, P50: r.P50Ms, P99: r.P99Ms}
	}
	return pts
}

// ObsidianScaling is target against achieved throughput.
func ObsidianScaling(name string, rows []csvload.ThroughputRow) ScalingSeries {
	ss := ScalingSeries{Name: name}
	for _, r := range rows {
		ss.X = append(ss.X, r.TargetAPS)
		ss.Y = append(ss.Y, r.ActualAPS)
	}
	return ss
}

// AddaxScaling is auction load against averaged achieved throughput.
func AddaxScaling(name string, pts []latency.ThroughputPoint) ScalingSeries {
	ss := ScalingSeries{Name: name}
	for _, p := range pts {
		ss.X = append(ss.X, float64(p.Auctions))
		ss.Y = append(ss.Y, p.Throughput)
	}
	return ss
}

// CompareCharts draws latency_vs_throughput and throughput_comparison.
// Systems with no points are left out; a chart with no system at all is
// skipped with a notice.
func (s Style) CompareCharts(w io.Writer, curves []CurveSeries, scaling []ScalingSeries, dir string) ([]string, error) {
	var paths []string
	var errs []error

	if p, ok, err := s.latencyVsThroughput(curves); err != nil {
		errs = append(errs, err)
	} else if !ok {
		NoData(w, "latency_vs_throughput")
	} else if path, err := s.save(p, dir, "latency_vs_throughput"); err != nil {
		errs = append(errs, err)
	} else {
		saved(w, path)
		paths = append(paths, path)
	}

	if p, ok, err := s.throughputComparison(scaling); err != nil {
		errs = append(errs, err)
	} else if !ok {
		NoData(w, "throughput_comparison")
	} else if path, err := s.save(p, dir, "throughput_comparison"); err != nil {
		errs = append(errs, err)
	} else {
		saved(w, path)
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

func (s Style) latencyVsThroughput(curves []CurveSeries) (*plot.Plot, bool, error) {
	p := newPlot("Latency (ms) vs. Throughput (auctions/second)", "Throughput (auctions/second)", "Latency (ms)")
	drawn := false
	for _, c := range curves {
		if len(c.Points) == 0 {
			continue
		}
		p50 := make(plotter.XYs, len(c.Points))
		p99 := make(plotter.XYs, len(c.Points))
		for i, pt := range c.Points {
			p50[i] = plotter.XY{X: pt.Throughput, Y: pt.P50}
			p99[i] = plotter.XY{X: pt.Throughput, Y: pt.P99}
		}
		ss := s.ForChart("latency_vs_throughput", c.Name)
		if err := line(p, p50, ss, ss.Label+" p50", false); err != nil {
			return nil, false, err
		}
		if err := line(p, p99, ss, ss.Label+" p99", true); err != nil {
			return nil, false, err
		}
		drawn = true
	}
	p.X.Min, p.X.Max = 0, 500
	p.Y.Min, p.Y.Max = 0, 1000
	p.Legend.Top = true
	p.Legend.Left = true
	return p, drawn, nil
}

func (s Style) throughputComparison(series []ScalingSeries) (*plot.Plot, bool, error) {
	p := newPlot("Throughput Comparison", "Load (auctions)", "Throughput (auctions/sec)")
	var xs, ys []float64
	for _, sc := range series {
		if len(sc.X) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(sc.X))
		for i := range sc.X {
			xys[i] = plotter.XY{X: sc.X[i], Y: sc.Y[i]}
		}
		ss := s.ForChart("throughput_comparison", sc.Name)
		if err := line(p, xys, ss, ss.Label, false); err != nil {
			return nil, false, err
		}
		xs = append(xs, sc.X...)
		ys = append(ys, sc.Y...)
	}
	if len(xs) == 0 {
		return p, false, nil
	}
	autoLog(&p.X, xs)
	autoLog(&p.Y, ys)
	p.Legend.Top = true
	p.Legend.Left = true
	return p, true, nil
}

var (
	blue   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}
	orange = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 255}
	green  = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 255}
	red    = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 255}
	purple = color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 255}
	black  = color.RGBA{A: 255}
)

func fixed(c color.RGBA, marker string) SeriesStyle {
	return SeriesStyle{Color: hex(c), Marker: marker}
}

// SingleCoreAnalysis draws the four-panel analysis of one throughput sweep:
// latency against achieved throughput, efficiency, actual against target
// throughput and completed samples per run.
func (s Style) SingleCoreAnalysis(w io.Writer, rows []csvload.ThroughputRow, dir string) (string, error) {
	if len(rows) == 0 {
		NoData(w, "single_core_analysis")
		return "", nil
	}
	var (
		p50, p99, eff, actual plotter.XYs
		maxTarget             float64
	)
	for _, r := range rows {
		p50 = append(p50, plotter.XY{X: r.ActualAPS, Y: r.P50Ms})
		p99 = append(p99, plotter.XY{X: r.ActualAPS, Y: r.P99Ms})
		if e, ok := r.Efficiency(); ok {
			eff = append(eff, plotter.XY{X: r.TargetAPS, Y: e})
		}
		actual = append(actual, plotter.XY{X: r.TargetAPS, Y: r.ActualAPS})
		maxTarget = max(maxTarget, r.TargetAPS)
	}

	lat := newPlot("Latency vs Achieved Throughput", "Actual Throughput (auctions/sec)", "Latency (ms)")
	if err := line(lat, p50, fixed(blue, "o"), "P50", false); err != nil {
		return "", err
	}
	if err := line(lat, p99, fixed(orange, "s"), "P99", false); err != nil {
		return "", err
	}
	var latValues []float64
	for i := range p50 {
		latValues = append(latValues, p50[i].Y, p99[i].Y)
	}
	autoLog(&lat.Y, latValues)
	lat.Legend.Top = true

	effPlot := newPlot("System Efficiency", "Target Throughput (auctions/sec)", "Efficiency (%)")
	if len(eff) > 0 {
		if err := line(effPlot, eff, fixed(green, "o"), "Efficiency", false); err != nil {
			return "", err
		}
	}
	refLine(effPlot, func(float64) float64 { return 100 }, 0, maxTarget, "100% efficiency", red)
	effPlot.Legend.Top = true

	scaling := newPlot("Throughput Scaling", "Target Throughput (auctions/sec)", "Actual Throughput (auctions/sec)")
	refLine(scaling, func(x float64) float64 { return x }, 0, maxTarget, "Perfect scaling", black)
	if err := line(scaling, actual, fixed(red, "o"), "Actual", false); err != nil {
		return "", err
	}
	scaling.Legend.Top = true
	scaling.Legend.Left = true

	samples := newPlot("Sample Count per Test", "Target Throughput (auctions/sec)", "Completed Auctions")
	for _, r := range rows {
		if !r.HasSamples {
			continue
		}
		bar, err := plotter.NewBarChart(plotter.Values{r.Samples}, vg.Points(10))
		if err != nil {
			return "", err
		}
		bar.XMin = r.TargetAPS
		bar.Color = Lighter(blue, 0.3)
		bar.LineStyle.Width = 0
		samples.Add(bar)
	}

	grid := [][]*plot.Plot{{lat, effPlot}, {scaling, samples}}
	path, err := s.saveGrid(grid, 15*vg.Inch, 12*vg.Inch, dir, "single_core_analysis")
	if err != nil {
		return "", err
	}
	saved(w, path)
	return path, nil
}
