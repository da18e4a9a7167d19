package auctionbench

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/auctionbench/internal/appconfig"
)

// configCmd implements the 'config' command, which displays the current configuration settings.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		appconfig.ShowConfig(cmd.OutOrStdout(), *GetConfig(), DebugEnabled())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
