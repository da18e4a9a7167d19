package auctionbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/auctionbench/internal/latency"
)

// quickCmd prints one line per target without writing any files.
var quickCmd = &cobra.Command{
	Use:   "quick [dir]",
	Short: "One-line throughput and latency summary per target",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		points, err := latency.Collect(dir, GetConfig().TestDuration)
		if err != nil {
			return fmt.Errorf("reading latency files: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(points) == 0 {
			fmt.Fprintln(out, "No valid results found!")
			return nil
		}
		for _, p := range points {
			fmt.Fprintln(out, latency.QuickLine(p))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quickCmd)
}
