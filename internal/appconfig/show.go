package appconfig

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
)

// ShowConfig prints the current configuration summary. With debug set the
// whole decoded struct is dumped as well.
func ShowConfig(out io.Writer, cfg Config, debug bool) {
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	logFile := cfg.LogFilePath()
	if logFile == "" {
		logFile = "(stdout only)"
	}
	fmt.Fprintf(out, "  Log File:        %s\n", logFile)
	fmt.Fprintf(out, "  Output Format:   %s\n", cfg.OutputFormat)
	fmt.Fprintf(out, "  Output Dir:      %s\n", cfg.OutputDir)
	fmt.Fprintf(out, "  Test Duration:   %gs\n", cfg.TestDuration)
	fmt.Fprintf(out, "  Throughput CSV:  %s\n", cfg.Results.ThroughputCSV)
	fmt.Fprintf(out, "  Micro CSV:       %s\n", cfg.Results.MicroCSV)
	fmt.Fprintf(out, "  Micro Sweep:     bidders %v at domain %d, domains %v at %d bidders\n",
		cfg.Micro.Bidders, cfg.Micro.FixedDomain, cfg.Micro.Domains, cfg.Micro.FixedBidders)
	fmt.Fprintf(out, "  Network Sweep:   rtts %v, bidders %v at domain %d, domains %v at %d bidders\n",
		cfg.Network.RTTs, cfg.Network.Bidders, cfg.Network.FixedDomain, cfg.Network.Domains, cfg.Network.FixedBidders)
	for _, s := range cfg.Systems {
		fmt.Fprintf(out, "  System %-10s %s/%s\n", s.Name+":", s.Dir, s.Pattern)
	}

	if debug {
		fmt.Fprintln(out)
		pp.Fprintln(out, cfg)
	}
}
