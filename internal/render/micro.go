package render

import (
	"errors"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"

	"github.com/mwiater/auctionbench/internal/csvload"
)

// MicroSweep is the pair of parameter sweeps the microbenchmarks run: a
// bidder sweep at a fixed domain and a domain sweep at a fixed bidder count.
type MicroSweep struct {
	Bidders      []int `mapstructure:"bidders" json:"bidders"`
	FixedDomain  int   `mapstructure:"fixedDomain" json:"fixedDomain"`
	Domains      []int `mapstructure:"domains" json:"domains"`
	FixedBidders int   `mapstructure:"fixedBidders" json:"fixedBidders"`
}

// DefaultMicroSweep is the sweep the microbenchmark harness runs.
func DefaultMicroSweep() MicroSweep {
	return MicroSweep{
		Bidders:      []int{25, 50, 100, 200, 400, 800},
		FixedDomain:  1024,
		Domains:      []int{128, 256, 512, 1024, 2048, 4096},
		FixedBidders: 100,
	}
}

// PhaseSeries holds online and preprocessing values along one sweep. Only
// x values with both phases present are kept.
type PhaseSeries struct {
	X          []int
	Online     []float64
	Preprocess []float64
}

// Len is the number of kept points.
func (ps PhaseSeries) Len() int { return len(ps.X) }

// Phases collects the mean of each phase at every x, scaled by scale.
func Phases(g *csvload.Grouped[csvload.MicroKey], xs []int, key func(x int) (bidders, domain int), scale float64) PhaseSeries {
	var ps PhaseSeries
	for _, x := range xs {
		b, d := key(x)
		on, okOn := g.Mean(csvload.MicroKey{Bidders: b, Domain: d, Phase: csvload.PhaseOnline})
		pre, okPre := g.Mean(csvload.MicroKey{Bidders: b, Domain: d, Phase: csvload.PhasePreprocess})
		if !okOn || !okPre {
			continue
		}
		ps.X = append(ps.X, x)
		ps.Online = append(ps.Online, on*scale)
		ps.Preprocess = append(ps.Preprocess, pre*scale)
	}
	return ps
}

type microChart struct {
	name   string
	base   string
	xLabel string
	yLabel string
	comm   bool
	domain bool
}

var microCharts = []microChart{
	{name: "comm_bidders", base: "comm_cost_bidders", xLabel: "Number of Bidders", yLabel: "Communication Cost (KB)", comm: true},
	{name: "scale_bidders", base: "scale_bidders", xLabel: "Number of Bidders", yLabel: "Time (ms)"},
	{name: "comm_domain", base: "comm_cost_domain", xLabel: "Domain Size", yLabel: "Communication Cost (KB)", comm: true, domain: true},
	{name: "scale_domain", base: "scale_domain", xLabel: "Domain Size", yLabel: "Time (ms)", domain: true},
}

// MicroCharts draws the four microbenchmark scaling charts into dir. A
// chart without data prints a notice and is skipped; save errors are
// collected and returned after all charts were attempted.
func (s Style) MicroCharts(w io.Writer, m csvload.Micro, sweep MicroSweep, dir string) ([]string, error) {
	var paths []string
	var errs []error
	for _, mc := range microCharts {
		xs := sweep.Bidders
		key := func(x int) (int, int) { return x, sweep.FixedDomain }
		if mc.domain {
			xs = sweep.Domains
			key = func(x int) (int, int) { return sweep.FixedBidders, x }
		}
		g, scale := m.Time, 1.0
		if mc.comm {
			g, scale = m.Comm, 1.0/1024
		}
		ps := Phases(g, xs, key, scale)
		if ps.Len() == 0 {
			NoData(w, mc.name)
			continue
		}
		p, err := s.microPlot(mc, ps)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		path, err := s.save(p, dir, mc.base)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		saved(w, path)
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

func (s Style) microPlot(mc microChart, ps PhaseSeries) (*plot.Plot, error) {
	p := newPlot("", mc.xLabel, mc.yLabel)
	online := make(plotter.XYs, ps.Len())
	pre := make(plotter.XYs, ps.Len())
	for i, x := range ps.X {
		online[i] = plotter.XY{X: float64(x), Y: ps.Online[i]}
		pre[i] = plotter.XY{X: float64(x), Y: ps.Preprocess[i]}
	}
	on := s.For(csvload.PhaseOnline)
	if err := line(p, online, on, on.Label, false); err != nil {
		return nil, err
	}
	prep := s.For(csvload.PhasePreprocess)
	if err := line(p, pre, prep, prep.Label, true); err != nil {
		return nil, err
	}

	p.X.Scale = clampedLog{}
	p.X.Tick.Marker = intTicks(ps.X)
	first, last := float64(ps.X[0]), float64(ps.X[ps.Len()-1])
	if mc.domain {
		p.X.Min, p.X.Max = 110, last*1.2
	} else {
		p.X.Min, p.X.Max = first/1.2, 1000
	}
	if p.X.Min >= p.X.Max {
		p.X.Min, p.X.Max = first/1.2, last*1.2
	}

	if mc.comm {
		p.Y.Min, p.Y.Max = 0, 135
	} else {
		setLog(&p.Y, 0.6, 900)
	}
	p.Legend.Top = !mc.comm || mc.domain
	p.Legend.Left = true
	return p, nil
}
