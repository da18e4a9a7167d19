package auctionbench

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mwiater/auctionbench/internal/inputs"
)

var inputsDir string

// inputsCmd writes the MP-SPDZ player input files.
var inputsCmd = &cobra.Command{
	Use:   "inputs <domain_size>",
	Short: "Generate MP-SPDZ Input-P0-0 and Input-P1-0 bid files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("domain size %q: %w", args[0], err)
		}
		cfg := GetConfig()
		dir := inputsDir
		if dir == "" {
			dir = cfg.Inputs.Dir
		}
		if _, err := inputs.Generate(dir, n, cfg.Inputs.Seed); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated Input-P0-0 and Input-P1-0 with %d bids each\n", n)
		return nil
	},
}

func init() {
	inputsCmd.Flags().StringVar(&inputsDir, "dir", "", "output directory (default: inputs.dir, Player-Data)")
	rootCmd.AddCommand(inputsCmd)
}
