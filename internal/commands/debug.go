package auctionbench

import (
	"github.com/k0kubun/pp"

	"github.com/mwiater/auctionbench/internal/logging"
)

// debugDump pretty-prints v when --debug is set.
func debugDump(v any) {
	if !logging.DebugEnabled() {
		return
	}
	pp.Println(v)
}
