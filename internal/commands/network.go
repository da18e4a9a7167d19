package auctionbench

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwiater/auctionbench/internal/normalize"
	"github.com/mwiater/auctionbench/internal/render"
)

const (
	networkCSVFile    = "network_summary.csv"
	networkReportFile = "network_report.html"
)

// networkCmd normalizes the per-system network results and plots them.
var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Compare network benchmark results across systems",
	Long: `Load every configured system's network benchmark CSVs, convert time to
ms and communication to KB, print and save the normalized table, draw the
four grouped bar charts and write an HTML report.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()
		style := cfg.Style()

		table := normalize.Build(cfg.NormalizeSystems(), cfg.Network.Keys())
		debugDump(table.Rows())

		render.Heading(out, "Network benchmark results", 40)
		if table.Len() == 0 {
			fmt.Fprintln(out, "No network results found.")
		} else {
			fmt.Fprintln(out, render.NetworkTable(table))
		}

		csvPath := filepath.Join(cfg.OutputDir, networkCSVFile)
		if err := render.WriteNetworkCSV(csvPath, table); err != nil {
			return fmt.Errorf("writing network summary: %w", err)
		}

		charts, chartErr := style.NetworkCharts(out, table, cfg.Network, cfg.OutputDir)
		rel := make([]string, len(charts))
		for i, c := range charts {
			rel[i] = filepath.Base(c)
		}
		reportPath := filepath.Join(cfg.OutputDir, networkReportFile)
		if err := style.WriteNetworkReport(reportPath, table, rel, time.Now()); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSummary: %s\nReport: %s\n", csvPath, reportPath)
		return chartErr
	},
}

func init() {
	rootCmd.AddCommand(networkCmd)
}
