package render

import (
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mwiater/auctionbench/internal/latency"
)

// LatencyAnalysis draws the four-panel view of a latency sweep: percentiles
// against target throughput, achieved against target throughput, sample
// distributions of the high-throughput runs and efficiency.
func (s Style) LatencyAnalysis(w io.Writer, points []latency.Point, cases []latency.DistributionCase, dir string) (string, error) {
	if len(points) == 0 {
		NoData(w, "latency_analysis")
		return "", nil
	}

	var (
		p50, p95, p99, p999, actual, eff plotter.XYs
		targets, latValues               []float64
		maxTarget                        float64
	)
	for _, pt := range points {
		x := float64(pt.TargetAPS)
		sum := pt.Summary
		p50 = append(p50, plotter.XY{X: x, Y: sum.P50})
		p95 = append(p95, plotter.XY{X: x, Y: sum.P95})
		p99 = append(p99, plotter.XY{X: x, Y: sum.P99})
		p999 = append(p999, plotter.XY{X: x, Y: sum.P999})
		actual = append(actual, plotter.XY{X: x, Y: pt.ActualAPS})
		eff = append(eff, plotter.XY{X: x, Y: pt.Efficiency})
		targets = append(targets, x)
		latValues = append(latValues, sum.P50, sum.P95, sum.P99, sum.P999)
		maxTarget = max(maxTarget, x)
	}

	pct := newPlot("Latency Percentiles vs Throughput", "Target Throughput (auctions/second)", "Latency (ms)")
	percentiles := []struct {
		xys   plotter.XYs
		style SeriesStyle
		label string
	}{
		{p50, fixed(blue, "o"), "P50"},
		{p95, fixed(orange, "s"), "P95"},
		{p99, fixed(green, "^"), "P99"},
		{p999, fixed(purple, "v"), "P99.9"},
	}
	for _, pc := range percentiles {
		if err := line(pct, pc.xys, pc.style, pc.label, false); err != nil {
			return "", err
		}
	}
	autoLog(&pct.X, targets)
	autoLog(&pct.Y, latValues)
	pct.Legend.Top = true
	pct.Legend.Left = true

	scaling := newPlot("Throughput Scaling", "Target Throughput (auctions/second)", "Actual Throughput (auctions/second)")
	refLine(scaling, func(x float64) float64 { return x }, 0, maxTarget, "Perfect scaling", black)
	if err := line(scaling, actual, fixed(red, "o"), "Actual throughput", false); err != nil {
		return "", err
	}
	scaling.Legend.Top = true
	scaling.Legend.Left = true

	dist, err := distributionPlot(cases)
	if err != nil {
		return "", err
	}

	effPlot := newPlot("System Efficiency vs Throughput", "Target Throughput (auctions/second)", "Efficiency (%)")
	if err := line(effPlot, eff, fixed(green, "o"), "Efficiency", false); err != nil {
		return "", err
	}
	refLine(effPlot, func(float64) float64 { return 100 }, 0, maxTarget, "100% efficiency", black)
	effPlot.Y.Min, effPlot.Y.Max = 0, 120
	effPlot.Legend.Top = true

	grid := [][]*plot.Plot{{pct, scaling}, {dist, effPlot}}
	path, err := s.saveGrid(grid, 16*vg.Inch, 12*vg.Inch, dir, "latency_analysis")
	if err != nil {
		return "", err
	}
	saved(w, path)
	return path, nil
}

func distributionPlot(cases []latency.DistributionCase) (*plot.Plot, error) {
	p := newPlot("Latency Distribution at High Throughput", "", "Latency (ms)")
	ticks := make([]plot.Tick, len(cases))
	for i, c := range cases {
		box, err := plotter.NewBoxPlot(vg.Points(24), float64(i), plotter.Values(c.Samples))
		if err != nil {
			return nil, err
		}
		box.FillColor = Lighter(blue, 0.6)
		p.Add(box)
		ticks[i] = plot.Tick{Value: float64(i), Label: c.Label}
	}
	if len(cases) > 0 {
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
		p.X.Min, p.X.Max = -0.5, float64(len(cases))-0.5
	}
	return p, nil
}
