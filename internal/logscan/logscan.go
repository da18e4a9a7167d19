// Package logscan pulls per-auction timings out of free-form benchmark logs
// and reduces them to median and p99 latency in milliseconds.
package logscan

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mwiater/auctionbench/internal/logging"
	"github.com/mwiater/auctionbench/internal/metrics"
)

// Kind classifies a matched log line.
type Kind int

const (
	// TimeTotal is the "TIME: total:" line of the non-interactive protocol.
	TimeTotal Kind = iota
	// TotalSpent is the aggregate "total time spent:" line. It is matched so
	// that it cannot fall through to another rule, and is never retained.
	TotalSpent
	// HandleTime is a per-auction "<id> handle time:" line.
	HandleTime
)

// Rule maps a line pattern to the kind of value it yields. Group is the
// capture group holding the value in seconds.
type Rule struct {
	Kind    Kind
	Pattern *regexp.Regexp
	Group   int
}

// Rules are tried in order against every trimmed line; the first match
// wins.
var Rules = []Rule{
	{Kind: TimeTotal, Pattern: regexp.MustCompile(`^TIME:\s+total:\s+(\d*\.\d*)$`), Group: 1},
	{Kind: TotalSpent, Pattern: regexp.MustCompile(`^total time spent:\s+(\d*\.\d*)$`), Group: 1},
	{Kind: HandleTime, Pattern: regexp.MustCompile(`^(\d+) handle time:\s+(\d*\.\d*)$`), Group: 2},
}

// Match returns the kind and value of line under rules.
func Match(rules []Rule, line string) (Kind, float64, bool) {
	for _, r := range rules {
		m := r.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[r.Group], 64)
		if err != nil {
			// "." alone satisfies the pattern but carries no value.
			return r.Kind, 0, false
		}
		return r.Kind, v, true
	}
	return 0, 0, false
}

// Select applies the retention policy to the values matched in one file.
// TIME: total values take precedence; otherwise handle times are kept with
// the first one dropped when there is more than one. Aggregate totals are
// never retained.
func Select(found map[Kind][]float64) []float64 {
	if totals := found[TimeTotal]; len(totals) > 0 {
		return totals
	}
	handles := found[HandleTime]
	switch len(handles) {
	case 0:
		return nil
	case 1:
		return handles
	default:
		return handles[1:]
	}
}

// Scan reads one log stream and returns its retained values in seconds.
func Scan(r io.Reader) ([]float64, error) {
	found := make(map[Kind][]float64)
	br := bufio.NewReader(r)
	for {
		// Lines have no length limit; a huge junk line must not hide the
		// timings around it.
		line, err := br.ReadString('\n')
		if kind, v, ok := Match(Rules, strings.TrimSpace(line)); ok {
			found[kind] = append(found[kind], v)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return Select(found), nil
}

// ScanFile scans the log file at path.
func ScanFile(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	values, err := Scan(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// Report is the latency summary of a log tree in milliseconds.
type Report struct {
	Count int
	P50   float64
	P99   float64
}

// Lines renders the report in the format the result collectors parse. An
// empty report prints bare zeros.
func (r Report) Lines() []string {
	if r.Count == 0 {
		return []string{"median latency: 0", "99% latency: 0"}
	}
	return []string{
		fmt.Sprintf("median latency: %.2f", r.P50),
		fmt.Sprintf("99%% latency: %.2f", r.P99),
	}
}

// Print writes Lines to w.
func (r Report) Print(w io.Writer) error {
	for _, line := range r.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// ScanTree walks dir and pools the retained values of every regular file.
// A missing or unreadable root is an error; unreadable files below it are
// logged and skipped.
func ScanTree(dir string) (Report, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Report{}, err
	}
	if !info.IsDir() {
		return Report{}, fmt.Errorf("%s: not a directory", dir)
	}

	var seconds []float64
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == dir {
				return walkErr
			}
			logging.LogWarning("logscan", "skipping %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		values, err := ScanFile(path)
		if err != nil {
			logging.LogWarning("logscan", "skipping %s: %v", path, err)
			return nil
		}
		seconds = append(seconds, values...)
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	return Summarize(seconds), nil
}

// Summarize converts second-valued samples into a millisecond Report.
func Summarize(seconds []float64) Report {
	if len(seconds) == 0 {
		return Report{}
	}
	sorted := make([]float64, len(seconds))
	for i, v := range seconds {
		sorted[i] = v * 1000
	}
	sort.Float64s(sorted)
	return Report{
		Count: len(sorted),
		P50:   metrics.PercentileSorted(sorted, 50),
		P99:   metrics.PercentileSorted(sorted, 99),
	}
}
