package auctionbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/auctionbench/internal/csvload"
)

var microOutDir string

// microCmd plots the microbenchmark scaling charts.
var microCmd = &cobra.Command{
	Use:   "micro [csv]",
	Short: "Plot microbenchmark communication and time scaling",
	Long: `Read num_bidders,domain_size,phase,time_ms,comm_bytes rows (default: the
configured microbenchmark CSV), average repeated runs and plot online and
preprocessing phases against bidders and domain size.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		path := cfg.Results.MicroCSV
		if len(args) == 1 {
			path = args[0]
		}
		dir := microOutDir
		if dir == "" {
			dir = cfg.Results.MicroOutputDir
		}

		micro, warnings, err := csvload.LoadMicro(path)
		if err != nil {
			return fmt.Errorf("loading microbenchmark results: %w", err)
		}
		logWarnings(warnings)

		_, err = cfg.Style().MicroCharts(cmd.OutOrStdout(), micro, cfg.Micro, dir)
		return err
	},
}

func init() {
	microCmd.Flags().StringVar(&microOutDir, "out", "", "chart directory (default: results.microOutputDir)")
	rootCmd.AddCommand(microCmd)
}
