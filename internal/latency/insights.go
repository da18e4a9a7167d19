package latency

import (
	"fmt"
	"path/filepath"
)

// Insights are the headline numbers printed under a latency summary table.
type Insights struct {
	MostEfficient     Point
	HasMostEfficient  bool
	MaxUnderThreshold int
	HasUnderThreshold bool
	ThresholdMs       float64
	PeakTarget        int
	BestP99           Point
}

// BuildInsights scans points for the most efficient target, the largest
// target whose P99 stays under thresholdMs, the peak target and the best
// P99. It returns false when points is empty.
func BuildInsights(points []Point, thresholdMs float64) (Insights, bool) {
	if len(points) == 0 {
		return Insights{}, false
	}
	in := Insights{ThresholdMs: thresholdMs}
	best := points[0]
	for i, p := range points {
		if p.TargetAPS > 0 && (!in.HasMostEfficient || p.Efficiency > in.MostEfficient.Efficiency) {
			in.MostEfficient = p
			in.HasMostEfficient = true
		}
		if p.Summary.P99 < thresholdMs && (!in.HasUnderThreshold || p.TargetAPS > in.MaxUnderThreshold) {
			in.MaxUnderThreshold = p.TargetAPS
			in.HasUnderThreshold = true
		}
		if i == 0 || p.TargetAPS > in.PeakTarget {
			in.PeakTarget = p.TargetAPS
		}
		if p.Summary.P99 < best.Summary.P99 {
			best = p
		}
	}
	in.BestP99 = best
	return in, true
}

// Lines renders the insights as report lines.
func (in Insights) Lines() []string {
	var lines []string
	if in.HasMostEfficient {
		lines = append(lines, fmt.Sprintf("Most efficient throughput: %d aps (%.1f%% efficiency)", in.MostEfficient.TargetAPS, in.MostEfficient.Efficiency))
	}
	if in.HasUnderThreshold {
		lines = append(lines, fmt.Sprintf("Maximum throughput with P99 < %.0fms: %d aps", in.ThresholdMs, in.MaxUnderThreshold))
	}
	lines = append(lines, fmt.Sprintf("Peak throughput tested: %d aps", in.PeakTarget))
	lines = append(lines, fmt.Sprintf("Best P99 latency: %.2fms at %d aps", in.BestP99.Summary.P99, in.BestP99.TargetAPS))
	return lines
}

// QuickLine formats the one-line summary used by the quick analysis.
func QuickLine(p Point) string {
	return fmt.Sprintf("%4d aps target: %6.1f actual, P50: %6.1fms, P99: %6.1fms, samples: %d",
		p.TargetAPS, p.ActualAPS, p.Summary.P50, p.Summary.P99, p.Summary.Count)
}

// DistributionCase is a capped sample set shown in a distribution panel.
type DistributionCase struct {
	Label   string
	Samples []float64
}

// HighThroughputCases takes the first maxCases targets at or above
// minTarget and loads the raw samples of those with more than minSamples
// values, keeping at most limit samples of each.
func HighThroughputCases(dir string, points []Point, minTarget, minSamples, maxCases, limit int) []DistributionCase {
	var cases []DistributionCase
	considered := 0
	for _, p := range points {
		if p.TargetAPS < minTarget {
			continue
		}
		if considered >= maxCases {
			break
		}
		considered++
		path := filepath.Join(dir, fmt.Sprintf("latencies_%d_aps.txt", p.TargetAPS))
		values, err := ReadSamples(path)
		if err != nil || len(values) <= minSamples {
			continue
		}
		if len(values) > limit {
			values = values[:limit]
		}
		cases = append(cases, DistributionCase{
			Label:   fmt.Sprintf("%d aps", p.TargetAPS),
			Samples: values,
		})
	}
	return cases
}
