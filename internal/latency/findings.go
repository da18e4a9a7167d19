package latency

import (
	"fmt"

	"github.com/mwiater/auctionbench/internal/csvload"
)

// Findings summarizes a single-core throughput sweep.
type Findings struct {
	MaxEfficient     float64
	HasMaxEfficient  bool
	MaxReasonable    float64
	HasMaxReasonable bool
	Peak             float64
	BestP50          float64
	BestP99          float64
}

// BuildFindings scans rows for the highest achieved throughput at or above
// efficiencyPct efficiency, the highest with P99 under p99LimitMs, the peak,
// and the best P50 and P99. ok is false for an empty sweep.
func BuildFindings(rows []csvload.ThroughputRow, efficiencyPct, p99LimitMs float64) (Findings, bool) {
	if len(rows) == 0 {
		return Findings{}, false
	}
	f := Findings{
		Peak:    rows[0].ActualAPS,
		BestP50: rows[0].P50Ms,
		BestP99: rows[0].P99Ms,
	}
	for _, r := range rows {
		if eff, ok := r.Efficiency(); ok && eff >= efficiencyPct {
			if !f.HasMaxEfficient || r.ActualAPS > f.MaxEfficient {
				f.MaxEfficient, f.HasMaxEfficient = r.ActualAPS, true
			}
		}
		if r.P99Ms < p99LimitMs {
			if !f.HasMaxReasonable || r.ActualAPS > f.MaxReasonable {
				f.MaxReasonable, f.HasMaxReasonable = r.ActualAPS, true
			}
		}
		f.Peak = max(f.Peak, r.ActualAPS)
		f.BestP50 = min(f.BestP50, r.P50Ms)
		f.BestP99 = min(f.BestP99, r.P99Ms)
	}
	return f, true
}

// Lines renders the findings; thresholds are echoed in the labels.
func (f Findings) Lines(efficiencyPct, p99LimitMs float64) []string {
	var lines []string
	if f.HasMaxEfficient {
		lines = append(lines, fmt.Sprintf("Max efficient throughput (≥%.0f%%): %.1f aps", efficiencyPct, f.MaxEfficient))
	}
	if f.HasMaxReasonable {
		lines = append(lines, fmt.Sprintf("Max throughput with P99 < %.0fms: %.1f aps", p99LimitMs, f.MaxReasonable))
	}
	return append(lines,
		fmt.Sprintf("Peak throughput achieved: %.1f aps", f.Peak),
		fmt.Sprintf("Best P50 latency: %.1fms", f.BestP50),
		fmt.Sprintf("Best P99 latency: %.1fms", f.BestP99),
	)
}
