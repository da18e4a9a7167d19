package auctionbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/auctionbench/internal/csvload"
	"github.com/mwiater/auctionbench/internal/latency"
	"github.com/mwiater/auctionbench/internal/render"
)

var throughputOpts struct {
	efficiencyPct float64
	p99LimitMs    float64
}

// throughputCmd renders the single-core analysis of a throughput sweep.
var throughputCmd = &cobra.Command{
	Use:   "throughput [csv]",
	Short: "Analyze a single-core throughput sweep CSV",
	Long: `Read target_aps,actual_aps,p50_ms,p99_ms,samples rows (default: the
configured throughput CSV), render single_core_analysis and print the key
findings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()
		path := cfg.Results.ThroughputCSV
		if len(args) == 1 {
			path = args[0]
		}

		rows, warnings, err := csvload.LoadThroughput(path)
		if err != nil {
			return fmt.Errorf("loading throughput results: %w", err)
		}
		logWarnings(warnings)

		if _, err := cfg.Style().SingleCoreAnalysis(out, rows, cfg.OutputDir); err != nil {
			return fmt.Errorf("rendering single-core analysis: %w", err)
		}

		f, ok := latency.BuildFindings(rows, throughputOpts.efficiencyPct, throughputOpts.p99LimitMs)
		if !ok {
			return nil
		}
		fmt.Fprintln(out)
		render.Heading(out, "Key Findings:", 13)
		for _, line := range f.Lines(throughputOpts.efficiencyPct, throughputOpts.p99LimitMs) {
			fmt.Fprintln(out, line)
		}
		debugDump(f)
		return nil
	},
}

func init() {
	throughputCmd.Flags().Float64Var(&throughputOpts.efficiencyPct, "efficiency", 90, "efficiency percentage counted as efficient")
	throughputCmd.Flags().Float64Var(&throughputOpts.p99LimitMs, "p99-limit", 100, "P99 limit in ms for the reasonable-throughput finding")
	rootCmd.AddCommand(throughputCmd)
}
