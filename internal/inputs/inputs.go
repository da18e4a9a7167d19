// Package inputs writes the MP-SPDZ bid files for the Vickrey auction
// benchmarks.
package inputs

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strconv"

	"github.com/mwiater/auctionbench/internal/util"
)

const (
	// DefaultDir is where MP-SPDZ looks for player inputs.
	DefaultDir = "Player-Data"
	// DefaultSeed keeps reruns byte-identical.
	DefaultSeed int64 = 42
	// MaxBid is the largest bid written; bids are in [0, MaxBid].
	MaxBid = 100
)

// Files are the per-party input files, in party order.
var Files = []string{"Input-P0-0", "Input-P1-0"}

// ErrDomainSize is returned for a non-positive domain size.
var ErrDomainSize = errors.New("domain size must be positive")

// Bids returns n bids per party from one generator seeded with seed.
// Party 1 continues the stream party 0 used.
func Bids(n int, seed int64) [][]int {
	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	out := make([][]int, len(Files))
	for p := range out {
		out[p] = make([]int, n)
		for i := range out[p] {
			out[p][i] = rng.IntN(MaxBid + 1)
		}
	}
	return out
}

// Generate writes one file per party into dir, each holding domainSize
// bids, one per line. It returns the written paths.
func Generate(dir string, domainSize int, seed int64) ([]string, error) {
	if domainSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrDomainSize, domainSize)
	}
	if dir == "" {
		dir = DefaultDir
	}
	var paths []string
	for p, bids := range Bids(domainSize, seed) {
		var buf bytes.Buffer
		for _, b := range bids {
			buf.WriteString(strconv.Itoa(b))
			buf.WriteByte('\n')
		}
		path := filepath.Join(dir, Files[p])
		if err := util.WriteFile(path, buf.Bytes()); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
