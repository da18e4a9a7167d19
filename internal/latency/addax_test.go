package latency

import (
	"path/filepath"
	"testing"
)

func TestLoadLatencyReportsAveragesServers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "latency_2_100.txt", "median latency: 10.00\n99% latency: 30.00\n")
	writeFile(t, dir, "latency_4_100.txt", "median latency: 20.00\n99% latency: 50.00\n")
	writeFile(t, dir, "latency_2_400.txt", "median latency: 80.50\n99% latency: 120.00\n")
	writeFile(t, dir, "latency_2_800.txt", "median latency: 1.00\n")
	writeFile(t, dir, "readme.txt", "median latency: 1\n99% latency: 1\n")

	points, err := LoadLatencyReports(dir)
	if err != nil {
		t.Fatalf("LoadLatencyReports error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %+v", points)
	}
	if points[0] != (LoadPoint{Auctions: 100, P50: 15, P99: 40}) {
		t.Fatalf("unexpected first point: %+v", points[0])
	}
	if points[1] != (LoadPoint{Auctions: 400, P50: 80.5, P99: 120}) {
		t.Fatalf("unexpected second point: %+v", points[1])
	}
}

func TestLoadThroughputReports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "throughput_2_100.txt", "warmup\ntotal throughput: 90\n")
	writeFile(t, dir, "throughput_4_100.txt", "total throughput: 110\n")
	writeFile(t, dir, "throughput_2_400.txt", "no summary line\n")

	points, err := LoadThroughputReports(dir)
	if err != nil {
		t.Fatalf("LoadThroughputReports error: %v", err)
	}
	if len(points) != 1 || points[0] != (ThroughputPoint{Auctions: 100, Throughput: 100}) {
		t.Fatalf("unexpected points: %+v", points)
	}
}

func TestReportsMissingDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "results_2round")
	lat, err := LoadLatencyReports(missing)
	if err != nil || lat != nil {
		t.Fatalf("expected nil, nil; got %v, %v", lat, err)
	}
	tput, err := LoadThroughputReports(missing)
	if err != nil || tput != nil {
		t.Fatalf("expected nil, nil; got %v, %v", tput, err)
	}
}

func TestJoinCurve(t *testing.T) {
	lat := []LoadPoint{{Auctions: 100, P50: 1, P99: 2}, {Auctions: 200, P50: 3, P99: 4}}
	tput := []ThroughputPoint{{Auctions: 200, Throughput: 50}, {Auctions: 300, Throughput: 70}}
	curve := JoinCurve(lat, tput)
	if len(curve) != 1 || curve[0] != (CurvePoint{Throughput: 50, P50: 3, P99: 4}) {
		t.Fatalf("unexpected curve: %+v", curve)
	}
}
