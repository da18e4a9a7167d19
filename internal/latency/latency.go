// Package latency reads one-value-per-line latency sample files and turns
// them into per-throughput statistics.
package latency

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mwiater/auctionbench/internal/logging"
	"github.com/mwiater/auctionbench/internal/metrics"
)

// DefaultTestDuration is the length, in seconds, of one throughput run.
const DefaultTestDuration = 60.0

// ErrNoData reports a sample file that exists but holds no values.
var ErrNoData = errors.New("no samples")

// ErrNonFinite reports a NaN or infinite sample.
var ErrNonFinite = errors.New("non-finite sample")

var sampleFilePattern = regexp.MustCompile(`^latencies_(\d+)_aps\.txt$`)

// SampleFile is a discovered latency file and the target throughput encoded
// in its name.
type SampleFile struct {
	Path      string
	TargetAPS int
}

// Point is the statistics for one target throughput.
type Point struct {
	TargetAPS int
	Summary   metrics.Summary
	// ActualAPS is Summary.Count divided by the test duration.
	ActualAPS float64
	// Efficiency is ActualAPS / TargetAPS in percent; 0 when TargetAPS is 0.
	Efficiency float64
}

// ReadSamples parses a file containing one float per line. Blank lines are
// skipped; any other unparsable or non-finite line is an error.
func ReadSamples(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var values []float64
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s:%d: %w: %q", path, lineNo, ErrNonFinite, line)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoData)
	}
	return values, nil
}

// Analyze summarizes a sample file. A missing, unreadable or empty file
// yields false rather than an error so a batch over many files can continue.
func Analyze(path string) (metrics.Summary, bool) {
	values, err := ReadSamples(path)
	if err != nil {
		logging.LogWarning(path, "error reading latencies: %v", err)
		return metrics.Summary{}, false
	}
	return metrics.Summarize(values)
}

// ParseSampleFileName extracts the target throughput from a name of the
// form latencies_<target>_aps.txt.
func ParseSampleFileName(name string) (int, bool) {
	m := sampleFilePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	target, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return target, true
}

// Discover lists latency sample files in dir, sorted by target throughput.
func Discover(dir string) ([]SampleFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read results dir %s: %w", dir, err)
	}
	var files []SampleFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		target, ok := ParseSampleFileName(entry.Name())
		if !ok {
			continue
		}
		files = append(files, SampleFile{
			Path:      filepath.Join(dir, entry.Name()),
			TargetAPS: target,
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].TargetAPS < files[j].TargetAPS
	})
	return files, nil
}

// Collect discovers and analyzes every sample file in dir. Files without
// data are skipped. testDuration is in seconds; non-positive values fall back
// to DefaultTestDuration.
func Collect(dir string, testDuration float64) ([]Point, error) {
	files, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	if testDuration <= 0 {
		testDuration = DefaultTestDuration
	}
	points := make([]Point, 0, len(files))
	for _, f := range files {
		summary, ok := Analyze(f.Path)
		if !ok {
			continue
		}
		points = append(points, NewPoint(f.TargetAPS, summary, testDuration))
	}
	return points, nil
}

// NewPoint derives actual throughput and efficiency for a summary.
func NewPoint(target int, summary metrics.Summary, testDuration float64) Point {
	p := Point{
		TargetAPS: target,
		Summary:   summary,
	}
	if testDuration > 0 {
		p.ActualAPS = float64(summary.Count) / testDuration
	}
	if target > 0 {
		p.Efficiency = p.ActualAPS / float64(target) * 100
	}
	return p
}
