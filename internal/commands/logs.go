package auctionbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/auctionbench/internal/logscan"
)

// logsCmd extracts latencies from a tree of raw benchmark logs.
var logsCmd = &cobra.Command{
	Use:   "logs [dir]",
	Short: "Median and 99th percentile latency from benchmark logs",
	Long: `Scan every file under dir (default: current directory) for "TIME: total",
"handle time" and "total time spent" lines, pool the retained values and
print the median and 99th percentile in milliseconds.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		report, err := logscan.ScanTree(dir)
		if err != nil {
			return fmt.Errorf("scanning logs: %w", err)
		}
		debugDump(report)
		return report.Print(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
}
