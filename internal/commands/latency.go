package auctionbench

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mwiater/auctionbench/internal/latency"
	"github.com/mwiater/auctionbench/internal/render"
)

// SummaryFile is the per-target statistics CSV written next to the samples.
const SummaryFile = "benchmark_summary.csv"

var latencyOpts struct {
	table       bool
	thresholdMs float64
	outDir      string
}

// latencyCmd analyzes a directory of latencies_<target>_aps.txt files.
var latencyCmd = &cobra.Command{
	Use:   "latency [dir]",
	Short: "Summarize latency sample files per target throughput",
	Long: `Read every latencies_<target>_aps.txt file in dir (default: current
directory), print per-target percentiles, write benchmark_summary.csv next to
the samples and render the four-panel latency analysis chart.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		points, err := latency.Collect(dir, cfg.TestDuration)
		if err != nil {
			return fmt.Errorf("reading latency files: %w", err)
		}
		if len(points) == 0 {
			fmt.Fprintln(out, "No valid results found!")
			return nil
		}

		render.Heading(out, "THROUGHPUT BENCHMARK RESULTS", 100)
		if latencyOpts.table {
			fmt.Fprintln(out, render.SummaryTable(points))
		} else {
			render.SummaryText(out, points)
		}

		summaryPath := filepath.Join(dir, SummaryFile)
		if err := render.WriteSummaries(summaryPath, points); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		fmt.Fprintf(out, "\nDetailed results saved to: %s\n", summaryPath)

		chartDir := latencyOpts.outDir
		if chartDir == "" {
			chartDir = dir
		}
		cases := latency.HighThroughputCases(dir, points, 40, 100, 6, 1000)
		if _, err := cfg.Style().LatencyAnalysis(out, points, cases, chartDir); err != nil {
			return fmt.Errorf("rendering latency analysis: %w", err)
		}

		if in, ok := latency.BuildInsights(points, latencyOpts.thresholdMs); ok {
			fmt.Fprintln(out)
			render.Heading(out, "KEY INSIGHTS", 50)
			for _, line := range in.Lines() {
				fmt.Fprintln(out, line)
			}
		}
		debugDump(points)
		return nil
	},
}

func init() {
	latencyCmd.Flags().BoolVar(&latencyOpts.table, "table", false, "print a bordered table instead of fixed-width text")
	latencyCmd.Flags().Float64Var(&latencyOpts.thresholdMs, "p99-threshold", 1000, "P99 limit in ms for the max-throughput insight")
	latencyCmd.Flags().StringVar(&latencyOpts.outDir, "out", "", "chart directory (default: the sample directory)")
	rootCmd.AddCommand(latencyCmd)
}
