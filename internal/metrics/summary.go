// internal/metrics/summary.go
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is the statistics record derived from a single sample series.
// The unit of every field except Count is the unit of the input samples.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	P999  float64 `json:"p999"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Summarize computes a Summary over values. The second return value is false
// when values is empty, in which case the Summary is the zero value.
// Std is the population standard deviation.
func Summarize(values []float64) (Summary, bool) {
	if len(values) == 0 {
		return Summary{}, false
	}
	sorted := sortedCopy(values)
	mean, variance := stat.PopMeanVariance(sorted, nil)
	return Summary{
		Count: len(sorted),
		Mean:  mean,
		Std:   math.Sqrt(variance),
		P50:   PercentileSorted(sorted, 50),
		P95:   PercentileSorted(sorted, 95),
		P99:   PercentileSorted(sorted, 99),
		P999:  PercentileSorted(sorted, 99.9),
		Min:   floats.Min(sorted),
		Max:   floats.Max(sorted),
	}, true
}

// PercentileIndex returns the nearest-rank index for percentile p over a
// series of length n: floor(n*p/100), clamped to [0, n-1]. It returns 0 when
// n is not positive.
func PercentileIndex(n int, p float64) int {
	if n <= 0 {
		return 0
	}
	idx := int(math.Floor(float64(n) * p / 100))
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// Percentile returns the nearest-rank percentile of values without
// interpolation. Empty input yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return PercentileSorted(sortedCopy(values), p)
}

// PercentileSorted is Percentile for input that is already sorted ascending.
func PercentileSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[PercentileIndex(len(sorted), p)]
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}
