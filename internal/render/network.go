package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mwiater/auctionbench/internal/normalize"
)

// barSeries is one bar color group: a system, optionally at one RTT.
type barSeries struct {
	label  string
	style  SeriesStyle
	light  bool
	values []float64
	ok     []bool
}

type networkChart struct {
	name   string
	title  string
	xLabel string
	yLabel string
	comm   bool
	domain bool
}

var networkCharts = []networkChart{
	{name: "comm_vs_bidders", title: "Communication vs Number of Bidders (Domain: %d)", xLabel: "Number of Bidders", yLabel: "Communication (KB)", comm: true},
	{name: "comm_vs_domain", title: "Communication vs Domain Size (Bidders: %d)", xLabel: "Domain Size", yLabel: "Communication (KB)", comm: true, domain: true},
	{name: "time_vs_bidders", title: "Time vs Number of Bidders (Domain: %d)", xLabel: "Number of Bidders", yLabel: "Time (ms)"},
	{name: "time_vs_domain", title: "Time vs Domain Size (Bidders: %d)", xLabel: "Domain Size", yLabel: "Time (ms)", domain: true},
}

// NetworkCharts draws grouped bar charts of the normalized network table.
// Communication charts use the sweep's CommRTT; time charts draw one bar
// per system and RTT, with the second and later RTTs in a lighter shade.
// Absent cells draw no bar.
func (s Style) NetworkCharts(w io.Writer, t *normalize.Table, sweep normalize.Sweep, dir string) ([]string, error) {
	var paths []string
	var errs []error
	for _, nc := range networkCharts {
		xs := sweep.Bidders
		held := sweep.FixedDomain
		key := func(x, rtt int) normalize.NetworkKey {
			return normalize.NetworkKey{Bidders: x, Domain: sweep.FixedDomain, RTTms: rtt}
		}
		if nc.domain {
			xs = sweep.Domains
			held = sweep.FixedBidders
			key = func(x, rtt int) normalize.NetworkKey {
				return normalize.NetworkKey{Bidders: sweep.FixedBidders, Domain: x, RTTms: rtt}
			}
		}

		series := s.networkSeries(t, nc, xs, sweep, key)
		if !anyPresent(series) {
			NoData(w, nc.name)
			continue
		}
		p, err := barPlot(fmt.Sprintf(nc.title, held), nc.xLabel, nc.yLabel, xs, series, nc.comm)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", nc.name, err))
			continue
		}
		path, err := s.save(p, dir, nc.name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		saved(w, path)
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

func (s Style) networkSeries(t *normalize.Table, nc networkChart, xs []int, sweep normalize.Sweep, key func(x, rtt int) normalize.NetworkKey) []barSeries {
	rtts := sweep.RTTs
	if nc.comm {
		rtts = []int{sweep.CommRTT}
	}
	var series []barSeries
	for _, name := range t.Systems {
		ss := s.For(name)
		for ri, rtt := range rtts {
			bs := barSeries{
				label:  ss.Label,
				style:  ss,
				light:  ri > 0,
				values: make([]float64, len(xs)),
				ok:     make([]bool, len(xs)),
			}
			if !nc.comm {
				bs.label = fmt.Sprintf("%s (%dms)", ss.Label, rtt)
			}
			for i, x := range xs {
				cell, ok := t.Get(name, key(x, rtt))
				if !ok {
					continue
				}
				v := cell.TimeMs
				if nc.comm {
					v = cell.CommKB
				}
				// A non-positive value cannot be drawn on the log axis.
				if v <= 0 {
					continue
				}
				bs.values[i], bs.ok[i] = v, true
			}
			series = append(series, bs)
		}
	}
	return series
}

func anyPresent(series []barSeries) bool {
	for _, bs := range series {
		for _, ok := range bs.ok {
			if ok {
				return true
			}
		}
	}
	return false
}

// barPlot lays out one bar per series around each category position. Each
// present cell is its own single-value bar chart so absent cells leave a
// gap instead of a zero-height bar.
func barPlot(title, xLabel, yLabel string, xs []int, series []barSeries, wide bool) (*plot.Plot, error) {
	p := newPlot(title, xLabel, yLabel)

	width := vg.Points(14)
	if wide {
		width = vg.Points(24)
	}
	n := float64(len(series))
	var present []float64
	for si, bs := range series {
		offset := vg.Length(float64(si)-n/2+0.5) * width
		c := bs.style.RGBA()
		if bs.light {
			c = Lighter(c, 0.45)
		}
		var legend *plotter.BarChart
		for i := range xs {
			if !bs.ok[i] {
				continue
			}
			bar, err := plotter.NewBarChart(plotter.Values{bs.values[i]}, width)
			if err != nil {
				return nil, err
			}
			bar.XMin = float64(i)
			bar.Offset = offset
			bar.Color = c
			bar.LineStyle.Width = 0
			p.Add(bar)
			present = append(present, bs.values[i])
			if legend == nil {
				legend = bar
			}
		}
		if legend != nil {
			p.Legend.Add(bs.label, legend)
		}
	}

	labels := make([]plot.Tick, len(xs))
	for i, x := range xs {
		labels[i] = plot.Tick{Value: float64(i), Label: strconv.Itoa(x)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(labels)
	p.X.Min, p.X.Max = -0.5, float64(len(xs))-0.5
	autoLog(&p.Y, present)
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}
