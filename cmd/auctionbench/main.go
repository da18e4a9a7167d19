// cmd/auctionbench/main.go
package main

import (
	cmd "github.com/mwiater/auctionbench/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main hands over to the cobra root command; version info is injected at
// build time with -ldflags.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
