package latency

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/mwiater/auctionbench/internal/logging"
)

var (
	latencyReportName    = regexp.MustCompile(`latency_(\d+)_(\d+)\.txt`)
	throughputReportName = regexp.MustCompile(`throughput_(\d+)_(\d+)\.txt`)

	medianLatencyLine   = regexp.MustCompile(`median latency:\s*([\d.]+)`)
	p99LatencyLine      = regexp.MustCompile(`99% latency:\s*([\d.]+)`)
	totalThroughputLine = regexp.MustCompile(`total throughput:\s*(\d+)`)
)

// LoadPoint is the latency of one load level (auction count), averaged over
// every server configuration that ran it.
type LoadPoint struct {
	Auctions int
	P50      float64
	P99      float64
}

// ThroughputPoint is the achieved throughput of one load level, averaged
// over server configurations.
type ThroughputPoint struct {
	Auctions   int
	Throughput float64
}

// CurvePoint pairs achieved throughput with latency for one load level.
type CurvePoint struct {
	Throughput float64
	P50        float64
	P99        float64
}

// LoadLatencyReports reads latency_<servers>_<auctions>.txt files from dir.
// Each file carries "median latency:" and "99% latency:" lines in ms. A
// missing dir yields no points.
func LoadLatencyReports(dir string) ([]LoadPoint, error) {
	paths, err := reportPaths(dir, "latency_*.txt")
	if err != nil || paths == nil {
		return nil, err
	}
	p50s := make(map[int][]float64)
	p99s := make(map[int][]float64)
	for _, path := range paths {
		m := latencyReportName.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			continue
		}
		auctions, _ := strconv.Atoi(m[2])
		content, err := os.ReadFile(path)
		if err != nil {
			logging.LogWarning(path, "error loading latency report: %v", err)
			continue
		}
		p50m := medianLatencyLine.FindSubmatch(content)
		p99m := p99LatencyLine.FindSubmatch(content)
		if p50m == nil || p99m == nil {
			continue
		}
		p50, err1 := strconv.ParseFloat(string(p50m[1]), 64)
		p99, err2 := strconv.ParseFloat(string(p99m[1]), 64)
		if err := errors.Join(err1, err2); err != nil {
			logging.LogWarning(path, "error loading latency report: %v", err)
			continue
		}
		p50s[auctions] = append(p50s[auctions], p50)
		p99s[auctions] = append(p99s[auctions], p99)
	}

	points := make([]LoadPoint, 0, len(p50s))
	for _, auctions := range sortedKeys(p50s) {
		p50, _ := stats.Mean(p50s[auctions])
		p99, _ := stats.Mean(p99s[auctions])
		points = append(points, LoadPoint{Auctions: auctions, P50: p50, P99: p99})
	}
	return points, nil
}

// LoadThroughputReports reads throughput_<servers>_<auctions>.txt files
// from dir, each carrying a "total throughput:" line.
func LoadThroughputReports(dir string) ([]ThroughputPoint, error) {
	paths, err := reportPaths(dir, "throughput_*.txt")
	if err != nil || paths == nil {
		return nil, err
	}
	values := make(map[int][]float64)
	for _, path := range paths {
		m := throughputReportName.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			continue
		}
		auctions, _ := strconv.Atoi(m[2])
		content, err := os.ReadFile(path)
		if err != nil {
			logging.LogWarning(path, "error loading throughput report: %v", err)
			continue
		}
		tm := totalThroughputLine.FindSubmatch(content)
		if tm == nil {
			continue
		}
		v, err := strconv.Atoi(string(tm[1]))
		if err != nil {
			logging.LogWarning(path, "error loading throughput report: %v", err)
			continue
		}
		values[auctions] = append(values[auctions], float64(v))
	}

	points := make([]ThroughputPoint, 0, len(values))
	for _, auctions := range sortedKeys(values) {
		mean, _ := stats.Mean(values[auctions])
		points = append(points, ThroughputPoint{Auctions: auctions, Throughput: mean})
	}
	return points, nil
}

// JoinCurve matches latency and throughput points by auction count. Load
// levels missing from either side are dropped.
func JoinCurve(lat []LoadPoint, tput []ThroughputPoint) []CurvePoint {
	byAuctions := make(map[int]float64, len(tput))
	for _, t := range tput {
		byAuctions[t.Auctions] = t.Throughput
	}
	var curve []CurvePoint
	for _, l := range lat {
		throughput, ok := byAuctions[l.Auctions]
		if !ok {
			continue
		}
		curve = append(curve, CurvePoint{Throughput: throughput, P50: l.P50, P99: l.P99})
	}
	return curve
}

func reportPaths(dir, glob string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to stat results dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("results path is not a directory: %s", dir)
	}
	paths, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	if paths == nil {
		paths = []string{}
	}
	return paths, nil
}

func sortedKeys(m map[int][]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
