package auctionbench

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/auctionbench/internal/csvload"
	"github.com/mwiater/auctionbench/internal/latency"
	"github.com/mwiater/auctionbench/internal/logging"
	"github.com/mwiater/auctionbench/internal/render"
)

const (
	addax2Round         = "Addax (2-Round)"
	addaxNonInteractive = "Addax (Non-Interactive)"
)

// compareCmd draws Obsidian against both Addax variants.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare Obsidian and Addax latency and throughput",
	Long: `Combine the Obsidian throughput CSV with the Addax latency_*.txt and
throughput_*.txt reports and draw latency_vs_throughput and
throughput_comparison. Missing inputs leave that system out of the charts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rows, warnings, err := csvload.LoadThroughput(cfg.Results.ThroughputCSV)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logging.LogWarning(cfg.Results.ThroughputCSV, "not found, Obsidian left out")
		case err != nil:
			return fmt.Errorf("loading throughput results: %w", err)
		}
		logWarnings(warnings)

		curves := []render.CurveSeries{{Name: "Obsidian", Points: render.ObsidianCurve(rows)}}
		scaling := []render.ScalingSeries{render.ObsidianScaling("Obsidian", rows)}
		for _, variant := range []struct{ name, dir string }{
			{addax2Round, cfg.Results.Addax2RoundDir},
			{addaxNonInteractive, cfg.Results.AddaxNonInteractiveDir},
		} {
			lat, err := latency.LoadLatencyReports(variant.dir)
			if err != nil {
				return fmt.Errorf("%s: %w", variant.name, err)
			}
			tput, err := latency.LoadThroughputReports(variant.dir)
			if err != nil {
				return fmt.Errorf("%s: %w", variant.name, err)
			}
			curves = append(curves, render.CurveSeries{Name: variant.name, Points: latency.JoinCurve(lat, tput)})
			scaling = append(scaling, render.AddaxScaling(variant.name, tput))
		}
		debugDump(curves)

		_, err = cfg.Style().CompareCharts(cmd.OutOrStdout(), curves, scaling, cfg.OutputDir)
		return err
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
