package csvload

import (
	"fmt"
	"strconv"

	"github.com/mwiater/auctionbench/internal/metrics"
)

// Throughput CSV columns.
const (
	ColTargetAPS = "target_aps"
	ColActualAPS = "actual_aps"
	ColP50Ms     = "p50_ms"
	ColP99Ms     = "p99_ms"
	ColSamples   = "samples"
)

// ThroughputRow is one target-throughput run from a throughput results CSV.
type ThroughputRow struct {
	TargetAPS float64
	ActualAPS float64
	P50Ms     float64
	P99Ms     float64
	// Samples is absent (HasSamples false) in files that omit the column.
	Samples    float64
	HasSamples bool
}

// Efficiency is ActualAPS / TargetAPS in percent; ok is false for a zero
// target.
func (r ThroughputRow) Efficiency() (float64, bool) {
	if r.TargetAPS == 0 {
		return 0, false
	}
	return r.ActualAPS / r.TargetAPS * 100, true
}

// LoadThroughput reads a throughput results CSV in row order. Rows with a
// malformed or empty required field are skipped with a warning.
func LoadThroughput(path string) ([]ThroughputRow, []Warning, error) {
	recs, warnings, err := Read(path, ColTargetAPS, ColActualAPS, ColP50Ms, ColP99Ms)
	if err != nil {
		return nil, nil, err
	}
	rows := make([]ThroughputRow, 0, len(recs.Rows))
	for _, rec := range recs.Rows {
		row, err := throughputRow(rec)
		if err != nil {
			warnings = append(warnings, Warning{Path: path, Line: rec.Line, Err: err})
			continue
		}
		rows = append(rows, row)
	}
	return rows, warnings, nil
}

func throughputRow(rec Record) (ThroughputRow, error) {
	var row ThroughputRow
	required := []struct {
		col string
		dst *float64
	}{
		{ColTargetAPS, &row.TargetAPS},
		{ColActualAPS, &row.ActualAPS},
		{ColP50Ms, &row.P50Ms},
		{ColP99Ms, &row.P99Ms},
	}
	for _, f := range required {
		v, ok, err := rec.Float(f.col)
		if err != nil {
			return ThroughputRow{}, err
		}
		if !ok {
			return ThroughputRow{}, fmt.Errorf("column %s: empty", f.col)
		}
		*f.dst = v
	}
	samples, ok, err := rec.Float(ColSamples)
	if err != nil {
		return ThroughputRow{}, err
	}
	row.Samples, row.HasSamples = samples, ok
	return row, nil
}

// SummaryColumns is the column order of a latency summary CSV.
var SummaryColumns = []string{"throughput", "count", "mean", "std", "p50", "p95", "p99", "p999", "min", "max"}

// SummaryRow is one line of a latency summary CSV.
type SummaryRow struct {
	Throughput int
	metrics.Summary
}

// Values renders the row in SummaryColumns order.
func (r SummaryRow) Values() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		strconv.Itoa(r.Throughput),
		strconv.Itoa(r.Count),
		f(r.Mean), f(r.Std), f(r.P50), f(r.P95), f(r.P99), f(r.P999), f(r.Min), f(r.Max),
	}
}

// ReadSummaries loads a latency summary CSV written in SummaryColumns
// order. Malformed rows are skipped with a warning.
func ReadSummaries(path string) ([]SummaryRow, []Warning, error) {
	recs, warnings, err := Read(path, SummaryColumns...)
	if err != nil {
		return nil, nil, err
	}
	rows := make([]SummaryRow, 0, len(recs.Rows))
	for _, rec := range recs.Rows {
		row, err := summaryRow(rec)
		if err != nil {
			warnings = append(warnings, Warning{Path: path, Line: rec.Line, Err: err})
			continue
		}
		rows = append(rows, row)
	}
	return rows, warnings, nil
}

func summaryRow(rec Record) (SummaryRow, error) {
	var row SummaryRow
	ints := []struct {
		col string
		dst *int
	}{
		{"throughput", &row.Throughput},
		{"count", &row.Count},
	}
	for _, f := range ints {
		v, ok, err := rec.Int(f.col)
		if err != nil {
			return SummaryRow{}, err
		}
		if !ok {
			return SummaryRow{}, fmt.Errorf("column %s: empty", f.col)
		}
		*f.dst = v
	}
	floats := []struct {
		col string
		dst *float64
	}{
		{"mean", &row.Mean}, {"std", &row.Std},
		{"p50", &row.P50}, {"p95", &row.P95}, {"p99", &row.P99}, {"p999", &row.P999},
		{"min", &row.Min}, {"max", &row.Max},
	}
	for _, f := range floats {
		v, ok, err := rec.Float(f.col)
		if err != nil {
			return SummaryRow{}, err
		}
		if !ok {
			return SummaryRow{}, fmt.Errorf("column %s: empty", f.col)
		}
		*f.dst = v
	}
	return row, nil
}
