// Package normalize aligns the network benchmark results of several systems
// into one table of online time in milliseconds and communication in KB.
// Each system names its result files and columns differently; units are
// inferred from the column names.
package normalize

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/mwiater/auctionbench/internal/csvload"
	"github.com/mwiater/auctionbench/internal/logging"
)

// System describes where one system writes its network results and which
// columns hold time and communication.
type System struct {
	Name    string `mapstructure:"name" json:"name"`
	Dir     string `mapstructure:"dir" json:"dir"`
	Pattern string `mapstructure:"pattern" json:"pattern"`
	TimeCol string `mapstructure:"timeCol" json:"timeCol"`
	CommCol string `mapstructure:"commCol" json:"commCol"`
}

// NetworkKey is one network benchmark configuration.
type NetworkKey struct {
	Bidders int
	Domain  int
	RTTms   int
}

// Cell is the normalized result for one system and configuration.
type Cell struct {
	TimeMs float64
	CommKB float64
}

// UsesDomain reports whether the file pattern encodes the domain size.
func (s System) UsesDomain() bool {
	return strings.Contains(s.Pattern, "{domain}")
}

// FileName fills the pattern placeholders for k. Patterns without
// {domain} ignore k.Domain.
func (s System) FileName(k NetworkKey) string {
	r := strings.NewReplacer(
		"{bidders}", strconv.Itoa(k.Bidders),
		"{domain}", strconv.Itoa(k.Domain),
		"{rtt}", strconv.Itoa(k.RTTms),
	)
	return r.Replace(s.Pattern)
}

// TimeToMillis converts a value of column col to milliseconds. A column
// whose name contains "s" but not "ms" holds seconds.
func TimeToMillis(col string, v float64) float64 {
	if strings.Contains(col, "s") && !strings.Contains(col, "ms") {
		return v * 1000
	}
	return v
}

// CommToKB converts a value of column col to kilobytes. Names containing
// "mb" hold megabytes and names containing "bytes" without "kb" or "mb" hold
// bytes; anything else is taken as KB.
func CommToKB(col string, v float64) float64 {
	lower := strings.ToLower(col)
	switch {
	case strings.Contains(lower, "mb"):
		return v * 1024
	case strings.Contains(lower, "bytes") && !strings.Contains(lower, "kb"):
		return v / 1024
	default:
		return v
	}
}

// Load reads every file matching the system's pattern for k and averages
// time and communication over all rows. ok is false when no file matches or
// either column has no usable value, so a missing configuration is never
// reported as zero.
func Load(s System, k NetworkKey) (Cell, bool, []csvload.Warning) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, s.FileName(k)))
	if err != nil {
		logging.LogWarning(s.Name, "bad pattern %q: %v", s.Pattern, err)
		return Cell{}, false, nil
	}
	sort.Strings(matches)

	var times, comms []float64
	var warnings []csvload.Warning
	for _, path := range matches {
		recs, rowWarnings, err := csvload.Read(path)
		if err != nil {
			logging.LogWarning(s.Name, "skipping %s: %v", path, err)
			continue
		}
		warnings = append(warnings, rowWarnings...)
		for _, rec := range recs.Rows {
			t, tok, terr := rec.Float(s.TimeCol)
			c, cok, cerr := rec.Float(s.CommCol)
			if terr != nil || cerr != nil {
				warnings = append(warnings, csvload.Warning{Path: path, Line: rec.Line, Err: firstErr(terr, cerr)})
				continue
			}
			if tok {
				times = append(times, t)
			}
			if cok {
				comms = append(comms, c)
			}
		}
	}
	if len(times) == 0 || len(comms) == 0 {
		return Cell{}, false, warnings
	}
	avgTime, _ := stats.Mean(times)
	avgComm, _ := stats.Mean(comms)
	return Cell{
		TimeMs: TimeToMillis(s.TimeCol, avgTime),
		CommKB: CommToKB(s.CommCol, avgComm),
	}, true, warnings
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Row is one present entry of a Table.
type Row struct {
	System string
	Key    NetworkKey
	Cell
}

// Table is the normalized (system, configuration) view. Configurations
// without results are absent rather than zero.
type Table struct {
	Systems []string
	cells   map[string]map[NetworkKey]Cell
}

// NewTable returns an empty table over the named systems.
func NewTable(systems ...string) *Table {
	t := &Table{cells: make(map[string]map[NetworkKey]Cell)}
	for _, name := range systems {
		t.addSystem(name)
	}
	return t
}

func (t *Table) addSystem(name string) {
	if _, ok := t.cells[name]; ok {
		return
	}
	t.Systems = append(t.Systems, name)
	t.cells[name] = make(map[NetworkKey]Cell)
}

// Set records a present cell.
func (t *Table) Set(system string, k NetworkKey, c Cell) {
	t.addSystem(system)
	t.cells[system][k] = c
}

// Get returns the cell for system and k.
func (t *Table) Get(system string, k NetworkKey) (Cell, bool) {
	c, ok := t.cells[system][k]
	return c, ok
}

// Len is the number of present cells.
func (t *Table) Len() int {
	n := 0
	for _, m := range t.cells {
		n += len(m)
	}
	return n
}

// Rows lists present cells ordered by system, then bidders, domain and RTT.
func (t *Table) Rows() []Row {
	var rows []Row
	for _, name := range t.Systems {
		for k, c := range t.cells[name] {
			rows = append(rows, Row{System: name, Key: k, Cell: c})
		}
	}
	order := make(map[string]int, len(t.Systems))
	for i, name := range t.Systems {
		order[name] = i
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.System != b.System {
			return order[a.System] < order[b.System]
		}
		if a.Key.Bidders != b.Key.Bidders {
			return a.Key.Bidders < b.Key.Bidders
		}
		if a.Key.Domain != b.Key.Domain {
			return a.Key.Domain < b.Key.Domain
		}
		return a.Key.RTTms < b.Key.RTTms
	})
	return rows
}

// Build loads every system at every key. Row warnings are logged.
func Build(systems []System, keys []NetworkKey) *Table {
	names := make([]string, len(systems))
	for i, s := range systems {
		names[i] = s.Name
	}
	t := NewTable(names...)
	for _, s := range systems {
		for _, k := range keys {
			cell, ok, warnings := Load(s, k)
			for _, w := range warnings {
				logging.LogWarning(s.Name, "%s", w)
			}
			if !ok {
				logging.LogDebug("%s: no result for %+v", s.Name, k)
				continue
			}
			t.Set(s.Name, k, cell)
		}
	}
	return t
}

// Sweep is the set of network configurations to compare. Bidder charts hold
// the domain at FixedDomain; domain charts hold bidders at FixedBidders.
// Communication charts use CommRTT.
type Sweep struct {
	RTTs         []int `mapstructure:"rtts" json:"rtts"`
	Domains      []int `mapstructure:"domains" json:"domains"`
	Bidders      []int `mapstructure:"bidders" json:"bidders"`
	FixedDomain  int   `mapstructure:"fixedDomain" json:"fixedDomain"`
	FixedBidders int   `mapstructure:"fixedBidders" json:"fixedBidders"`
	CommRTT      int   `mapstructure:"commRTT" json:"commRTT"`
}

// Keys lists every configuration the sweep charts read, without duplicates.
// CommRTT is included even when it is not one of RTTs.
func (s Sweep) Keys() []NetworkKey {
	seen := make(map[NetworkKey]struct{})
	var keys []NetworkKey
	add := func(k NetworkKey) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	rtts := s.RTTs
	if s.CommRTT > 0 {
		rtts = append(append([]int(nil), s.RTTs...), s.CommRTT)
	}
	for _, rtt := range rtts {
		for _, b := range s.Bidders {
			add(NetworkKey{Bidders: b, Domain: s.FixedDomain, RTTms: rtt})
		}
		for _, d := range s.Domains {
			add(NetworkKey{Bidders: s.FixedBidders, Domain: d, RTTms: rtt})
		}
	}
	return keys
}

func (k NetworkKey) String() string {
	return fmt.Sprintf("bidders=%d domain=%d rtt=%dms", k.Bidders, k.Domain, k.RTTms)
}
