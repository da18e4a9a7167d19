package latency

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/auctionbench/internal/metrics"
)

func mustSummary(t *testing.T, values []float64) metrics.Summary {
	t.Helper()
	summary, ok := metrics.Summarize(values)
	if !ok {
		t.Fatal("expected summary")
	}
	return summary
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestAnalyzeScenario(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "latencies_100_aps.txt", "10\n20\n30\n40\n100\n")

	summary, ok := Analyze(path)
	if !ok {
		t.Fatal("expected data")
	}
	if summary.Count != 5 || summary.P50 != 30 || summary.P99 != 100 || summary.Min != 10 || summary.Max != 100 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestAnalyzeMissingAndEmptyDegrade(t *testing.T) {
	dir := t.TempDir()
	if _, ok := Analyze(filepath.Join(dir, "nope.txt")); ok {
		t.Fatal("expected no data for missing file")
	}
	empty := writeFile(t, dir, "latencies_5_aps.txt", "\n\n")
	if _, ok := Analyze(empty); ok {
		t.Fatal("expected no data for empty file")
	}
	if _, err := ReadSamples(empty); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestReadSamplesRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.txt", "1.5\nabc\n")
	_, err := ReadSamples(path)
	if err == nil || !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected line-numbered error, got %v", err)
	}
}

func TestParseSampleFileName(t *testing.T) {
	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"latencies_100_aps.txt", 100, true},
		{"latencies_0_aps.txt", 0, true},
		{"latencies_x_aps.txt", 0, false},
		{"latencies_100_aps.txt.bak", 0, false},
		{"prefix_latencies_100_aps.txt", 0, false},
		{"latencies_100_aps.csv", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseSampleFileName(tt.name)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("%s: got (%d,%v) want (%d,%v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCollectSortsAndSkipsEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "latencies_200_aps.txt", strings.Repeat("5\n", 120))
	writeFile(t, dir, "latencies_50_aps.txt", strings.Repeat("2\n", 60))
	writeFile(t, dir, "latencies_75_aps.txt", "")
	writeFile(t, dir, "notes.txt", "ignored")

	points, err := Collect(dir, 60)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].TargetAPS != 50 || points[1].TargetAPS != 200 {
		t.Fatalf("unexpected order: %+v", points)
	}
	if points[0].ActualAPS != 1 || points[0].Efficiency != 2 {
		t.Fatalf("unexpected derived values: %+v", points[0])
	}
	if points[1].ActualAPS != 2 || points[1].Efficiency != 1 {
		t.Fatalf("unexpected derived values: %+v", points[1])
	}
}

func TestCollectMissingDir(t *testing.T) {
	if _, err := Collect(filepath.Join(t.TempDir(), "missing"), 60); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestBuildInsights(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "latencies_10_aps.txt", strings.Repeat("50\n", 600))
	writeFile(t, dir, "latencies_40_aps.txt", strings.Repeat("900\n", 1200)+"2000\n")
	writeFile(t, dir, "latencies_80_aps.txt", strings.Repeat("1500\n", 1200))
	points, err := Collect(dir, 60)
	if err != nil {
		t.Fatal(err)
	}

	in, ok := BuildInsights(points, 1000)
	if !ok {
		t.Fatal("expected insights")
	}
	if in.MostEfficient.TargetAPS != 10 {
		t.Fatalf("most efficient: got %d", in.MostEfficient.TargetAPS)
	}
	if !in.HasUnderThreshold || in.MaxUnderThreshold != 40 {
		t.Fatalf("max under threshold: got %d (%v)", in.MaxUnderThreshold, in.HasUnderThreshold)
	}
	if in.PeakTarget != 80 {
		t.Fatalf("peak: got %d", in.PeakTarget)
	}
	if in.BestP99.TargetAPS != 10 {
		t.Fatalf("best p99: got %d", in.BestP99.TargetAPS)
	}
	lines := in.Lines()
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "Most efficient throughput: 10 aps") {
		t.Fatalf("unexpected lines: %v", lines)
	}

	if _, ok := BuildInsights(nil, 1000); ok {
		t.Fatal("expected no insights for empty points")
	}
}

func TestHighThroughputCases(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "latencies_20_aps.txt", strings.Repeat("1\n", 500))
	writeFile(t, dir, "latencies_40_aps.txt", strings.Repeat("1\n", 50))
	writeFile(t, dir, "latencies_60_aps.txt", strings.Repeat("1\n", 1500))
	points, err := Collect(dir, 60)
	if err != nil {
		t.Fatal(err)
	}
	cases := HighThroughputCases(dir, points, 40, 100, 6, 1000)
	if len(cases) != 1 {
		t.Fatalf("expected 1 case, got %d", len(cases))
	}
	if cases[0].Label != "60 aps" || len(cases[0].Samples) != 1000 {
		t.Fatalf("unexpected case: %s (%d samples)", cases[0].Label, len(cases[0].Samples))
	}
}

func TestQuickLine(t *testing.T) {
	p := NewPoint(100, mustSummary(t, []float64{10, 20, 30, 40, 100}), 60)
	line := QuickLine(p)
	want := " 100 aps target:    0.1 actual, P50:   30.0ms, P99:  100.0ms, samples: 5"
	if line != want {
		t.Fatalf("got %q want %q", line, want)
	}
	if math.Abs(p.Efficiency-p.ActualAPS) > 1e-12 {
		t.Fatalf("efficiency for target 100 should equal actual aps in percent: %+v", p)
	}
}

func TestReadSamplesRejectsNonFinite(t *testing.T) {
	dir := t.TempDir()
	for i, bad := range []string{"NaN", "Inf", "-inf", "+Infinity"} {
		path := writeFile(t, dir, "latencies_"+strings.Repeat("1", i+1)+"_aps.txt", "10\n"+bad+"\n30\n")
		if _, err := ReadSamples(path); !errors.Is(err, ErrNonFinite) {
			t.Fatalf("%s: expected ErrNonFinite, got %v", bad, err)
		}
		if _, ok := Analyze(path); ok {
			t.Fatalf("%s: expected the file to be skipped", bad)
		}
	}
}
