package render

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/plot/vg/draw"

	"github.com/mwiater/auctionbench/internal/csvload"
	"github.com/mwiater/auctionbench/internal/latency"
	"github.com/mwiater/auctionbench/internal/metrics"
	"github.com/mwiater/auctionbench/internal/normalize"
)

func testStyle() Style {
	s := DefaultStyle()
	s.Format = "svg"
	return s
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#2ca02c")
	if err != nil {
		t.Fatalf("ParseColor error: %v", err)
	}
	if c.R != 0x2c || c.G != 0xa0 || c.B != 0x2c || c.A != 255 {
		t.Fatalf("unexpected color: %+v", c)
	}
	if short, err := ParseColor("#fff"); err != nil || short.R != 255 || short.B != 255 {
		t.Fatalf("short form: %+v %v", short, err)
	}
	if _, err := ParseColor("green"); err == nil {
		t.Fatal("expected error for a named color")
	}
	light := Lighter(c, 1)
	if light.R != 255 || light.G != 255 || light.B != 255 {
		t.Fatalf("full mix should be white: %+v", light)
	}
}

func TestStyleIsImmutable(t *testing.T) {
	base := DefaultStyle()
	changed := base.WithSeries("Obsidian", SeriesStyle{Color: "#000000", Label: "Ob"})
	if base.For("Obsidian").Color != "#2ca02c" {
		t.Fatal("WithSeries modified the original style")
	}
	if changed.For("Obsidian").Label != "Ob" {
		t.Fatal("WithSeries did not apply")
	}
	if got := base.For("Unknown"); got.Label != "Unknown" {
		t.Fatalf("unknown series should be labelled by name: %+v", got)
	}
	if got := base.File("scale_bidders"); got != "scale_bidders.png" {
		t.Fatalf("unexpected file name: %s", got)
	}
}

func TestChartMarkers(t *testing.T) {
	s := DefaultStyle()
	tests := []struct {
		chart, series, want string
	}{
		{"latency_vs_throughput", "Obsidian", "*"},
		{"latency_vs_throughput", "Addax (2-Round)", "o"},
		{"latency_vs_throughput", "Addax (Non-Interactive)", "D"},
		{"throughput_comparison", "Obsidian", "o"},
		{"throughput_comparison", "Addax (2-Round)", "s"},
		{"throughput_comparison", "Addax (Non-Interactive)", "^"},
	}
	for _, tt := range tests {
		got := s.ForChart(tt.chart, tt.series)
		if got.Marker != tt.want {
			t.Fatalf("%s/%s: marker %q, want %q", tt.chart, tt.series, got.Marker, tt.want)
		}
		if got.Color != s.For(tt.series).Color {
			t.Fatalf("%s/%s: color changed to %s", tt.chart, tt.series, got.Color)
		}
	}
	if _, ok := s.ForChart("throughput_comparison", "Addax (Non-Interactive)").Glyph().(draw.TriangleGlyph); !ok {
		t.Fatal("expected a triangle glyph")
	}
}

func TestClampedLog(t *testing.T) {
	var n clampedLog
	if got := n.Normalize(1, 100, 10); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("Normalize(1,100,10) = %v", got)
	}
	if got := n.Normalize(1, 100, 0); !(got < 0) || math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("zero should map below the axis, got %v", got)
	}
}

func TestPhasesKeepsOnlyComplete(t *testing.T) {
	g := csvload.NewGrouped[csvload.MicroKey]()
	g.Add(csvload.MicroKey{Bidders: 25, Domain: 1024, Phase: csvload.PhaseOnline}, 2048)
	g.Add(csvload.MicroKey{Bidders: 25, Domain: 1024, Phase: csvload.PhasePreprocess}, 4096)
	g.Add(csvload.MicroKey{Bidders: 50, Domain: 1024, Phase: csvload.PhaseOnline}, 1024)

	ps := Phases(g, []int{25, 50, 100}, func(x int) (int, int) { return x, 1024 }, 1.0/1024)
	if ps.Len() != 1 || ps.X[0] != 25 || ps.Online[0] != 2 || ps.Preprocess[0] != 4 {
		t.Fatalf("unexpected series: %+v", ps)
	}
}

func TestMicroChartsNoData(t *testing.T) {
	var out bytes.Buffer
	micro := csvload.Micro{Time: csvload.NewGrouped[csvload.MicroKey](), Comm: csvload.NewGrouped[csvload.MicroKey]()}
	paths, err := testStyle().MicroCharts(&out, micro, DefaultMicroSweep(), t.TempDir())
	if err != nil {
		t.Fatalf("MicroCharts error: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no charts, got %v", paths)
	}
	for _, name := range []string{"comm_bidders", "scale_bidders", "comm_domain", "scale_domain"} {
		if !strings.Contains(out.String(), "No data for "+name+" plot") {
			t.Fatalf("missing notice for %s in %q", name, out.String())
		}
	}
}

func TestMicroChartsPartialData(t *testing.T) {
	dir := t.TempDir()
	times := csvload.NewGrouped[csvload.MicroKey]()
	for _, b := range []int{25, 50} {
		times.Add(csvload.MicroKey{Bidders: b, Domain: 1024, Phase: csvload.PhaseOnline}, float64(b))
		times.Add(csvload.MicroKey{Bidders: b, Domain: 1024, Phase: csvload.PhasePreprocess}, float64(b)*3)
	}
	micro := csvload.Micro{Time: times, Comm: csvload.NewGrouped[csvload.MicroKey]()}

	var out bytes.Buffer
	paths, err := testStyle().MicroCharts(&out, micro, DefaultMicroSweep(), dir)
	if err != nil {
		t.Fatalf("MicroCharts error: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "scale_bidders.svg" {
		t.Fatalf("unexpected charts: %v", paths)
	}
	if _, err := os.Stat(paths[0]); err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	for _, name := range []string{"comm_bidders", "comm_domain", "scale_domain"} {
		if !strings.Contains(out.String(), "No data for "+name+" plot") {
			t.Fatalf("expected a notice for %s: %q", name, out.String())
		}
	}
}

func TestNetworkChartsSkipAbsent(t *testing.T) {
	table := normalize.NewTable("Obsidian", "Addax", "MP-SPDZ")
	table.Set("Obsidian", normalize.NetworkKey{Bidders: 25, Domain: 1000, RTTms: 20}, normalize.Cell{TimeMs: 12, CommKB: 40})
	table.Set("Obsidian", normalize.NetworkKey{Bidders: 25, Domain: 1000, RTTms: 40}, normalize.Cell{TimeMs: 24, CommKB: 40})
	sweep := normalize.Sweep{RTTs: []int{20, 40}, Domains: []int{100, 1000, 10000}, Bidders: []int{25, 50, 100}, FixedDomain: 1000, FixedBidders: 100, CommRTT: 20}

	var out bytes.Buffer
	paths, err := testStyle().NetworkCharts(&out, table, sweep, t.TempDir())
	if err != nil {
		t.Fatalf("NetworkCharts error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected the two bidder charts, got %v", paths)
	}
	for _, name := range []string{"comm_vs_domain", "time_vs_domain"} {
		if !strings.Contains(out.String(), "No data for "+name+" plot") {
			t.Fatalf("missing notice for %s", name)
		}
	}
}

func TestCompareChartsNoData(t *testing.T) {
	var out bytes.Buffer
	paths, err := testStyle().CompareCharts(&out, []CurveSeries{{Name: "Obsidian"}}, nil, t.TempDir())
	if err != nil || len(paths) != 0 {
		t.Fatalf("unexpected result: %v %v", paths, err)
	}
	if !strings.Contains(out.String(), "No data for latency_vs_throughput plot") ||
		!strings.Contains(out.String(), "No data for throughput_comparison plot") {
		t.Fatalf("missing notices: %q", out.String())
	}
}

func TestCompareCharts(t *testing.T) {
	rows := []csvload.ThroughputRow{
		{TargetAPS: 10, ActualAPS: 10, P50Ms: 20, P99Ms: 40},
		{TargetAPS: 50, ActualAPS: 48, P50Ms: 30, P99Ms: 90},
	}
	curves := []CurveSeries{
		{Name: "Obsidian", Points: ObsidianCurve(rows)},
		{Name: "Addax (2-Round)", Points: []latency.CurvePoint{{Throughput: 5, P50: 300, P99: 600}}},
	}
	scaling := []ScalingSeries{
		ObsidianScaling("Obsidian", rows),
		AddaxScaling("Addax (2-Round)", []latency.ThroughputPoint{{Auctions: 100, Throughput: 7}}),
	}
	var out bytes.Buffer
	paths, err := testStyle().CompareCharts(&out, curves, scaling, t.TempDir())
	if err != nil {
		t.Fatalf("CompareCharts error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected two charts, got %v", paths)
	}
}

func TestSingleCoreAnalysis(t *testing.T) {
	rows := []csvload.ThroughputRow{
		{TargetAPS: 10, ActualAPS: 10, P50Ms: 5, P99Ms: 9, Samples: 600, HasSamples: true},
		{TargetAPS: 20, ActualAPS: 18, P50Ms: 7, P99Ms: 30, Samples: 1080, HasSamples: true},
	}
	var out bytes.Buffer
	path, err := testStyle().SingleCoreAnalysis(&out, rows, t.TempDir())
	if err != nil {
		t.Fatalf("SingleCoreAnalysis error: %v", err)
	}
	if filepath.Base(path) != "single_core_analysis.svg" {
		t.Fatalf("unexpected path: %s", path)
	}

	out.Reset()
	if path, err := testStyle().SingleCoreAnalysis(&out, nil, t.TempDir()); err != nil || path != "" {
		t.Fatalf("empty sweep: %q %v", path, err)
	}
	if !strings.Contains(out.String(), "No data for single_core_analysis plot") {
		t.Fatalf("missing notice: %q", out.String())
	}
}

func testPoints(t *testing.T) []latency.Point {
	t.Helper()
	var points []latency.Point
	for _, target := range []int{10, 40, 80} {
		values := make([]float64, 200)
		for i := range values {
			values[i] = float64(target + i%17)
		}
		summary, ok := metrics.Summarize(values)
		if !ok {
			t.Fatal("expected summary")
		}
		points = append(points, latency.NewPoint(target, summary, 60))
	}
	return points
}

func TestLatencyAnalysis(t *testing.T) {
	points := testPoints(t)
	cases := []latency.DistributionCase{{Label: "40 aps", Samples: []float64{1, 2, 3, 4, 5}}}
	var out bytes.Buffer
	path, err := testStyle().LatencyAnalysis(&out, points, cases, t.TempDir())
	if err != nil {
		t.Fatalf("LatencyAnalysis error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("chart not written: %v", err)
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	points := testPoints(t)
	path := filepath.Join(t.TempDir(), "out", "benchmark_summary.csv")
	if err := WriteSummaries(path, points); err != nil {
		t.Fatalf("WriteSummaries error: %v", err)
	}
	rows, warnings, err := csvload.ReadSummaries(path)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("ReadSummaries: %v %v", warnings, err)
	}
	if len(rows) != len(points) {
		t.Fatalf("expected %d rows, got %d", len(points), len(rows))
	}
	for i, r := range rows {
		if r.Throughput != points[i].TargetAPS || r.Summary != points[i].Summary {
			t.Fatalf("row %d: got %+v want %+v", i, r, points[i].Summary)
		}
	}
}

func TestSummaryText(t *testing.T) {
	summary, _ := metrics.Summarize([]float64{10, 20, 30, 40, 100})
	var out bytes.Buffer
	SummaryText(&out, []latency.Point{latency.NewPoint(100, summary, 60)})
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %q", out.String())
	}
	if !strings.HasPrefix(lines[0], "Throughput   Count    P50") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	want := "100          5        30.00    100.00   100.00   100.00   40.00      100.00"
	if lines[3] != want {
		t.Fatalf("got  %q\nwant %q", lines[3], want)
	}
	if table := SummaryTable([]latency.Point{latency.NewPoint(100, summary, 60)}); !strings.Contains(table, "P99.9") {
		t.Fatalf("table missing header: %s", table)
	}
}

func TestNetworkCSVAndReport(t *testing.T) {
	table := normalize.NewTable("Obsidian", "MP-SPDZ")
	table.Set("Obsidian", normalize.NetworkKey{Bidders: 100, Domain: 1000, RTTms: 20}, normalize.Cell{TimeMs: 12.5, CommKB: 2})

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "network_summary.csv")
	if err := WriteNetworkCSV(csvPath, table); err != nil {
		t.Fatalf("WriteNetworkCSV error: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "system,bidders,domain,rtt_ms,time_ms,comm_kb\nObsidian,100,1000,20,12.500,2.000\n"
	if string(data) != want {
		t.Fatalf("got %q want %q", data, want)
	}

	html, err := DefaultStyle().GenerateNetworkReport(table, []string{"time_vs_bidders.png"}, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatalf("GenerateNetworkReport error: %v", err)
	}
	for _, s := range []string{"<td>12.50</td>", "No results", "time_vs_bidders.png", `"system":"Obsidian"`} {
		if !strings.Contains(html, s) {
			t.Fatalf("report missing %q", s)
		}
	}
}
