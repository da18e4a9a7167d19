package auctionbench

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/auctionbench/internal/tui"
)

// browseCmd opens a result CSV in the interactive table.
var browseCmd = &cobra.Command{
	Use:   "browse [csv]",
	Short: "Browse a result CSV interactively",
	Long:  `Open any result CSV (default: benchmark_summary.csv) in a sortable terminal table.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := SummaryFile
		if len(args) == 1 {
			path = args[0]
		}
		data, warnings, err := tui.Load(path)
		if err != nil {
			return err
		}
		logWarnings(warnings)
		return tui.Browse(data)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
