package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mwiater/auctionbench/internal/csvload"
	"github.com/mwiater/auctionbench/internal/latency"
	"github.com/mwiater/auctionbench/internal/normalize"
	"github.com/mwiater/auctionbench/internal/util"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// SummaryHeaders are the columns of the printed latency summary.
var SummaryHeaders = []string{"Throughput", "Count", "P50", "P95", "P99", "P99.9", "Mean", "Max"}

var summaryUnits = []string{"(aps)", "(#)", "(ms)", "(ms)", "(ms)", "(ms)", "(ms)", "(ms)"}

func summaryCells(p latency.Point) []string {
	s := p.Summary
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	return []string{
		strconv.Itoa(p.TargetAPS), strconv.Itoa(s.Count),
		f(s.P50), f(s.P95), f(s.P99), f(s.P999), f(s.Mean), f(s.Max),
	}
}

// SummaryText writes the fixed-width latency summary.
func SummaryText(w io.Writer, points []latency.Point) {
	widths := []int{12, 8, 8, 8, 8, 8, 10, 10}
	row := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, " "), " "))
	}
	row(SummaryHeaders)
	row(summaryUnits)
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, p := range points {
		row(summaryCells(p))
	}
}

// SummaryTable renders the latency summary as a bordered terminal table.
func SummaryTable(points []latency.Point) string {
	headers := make([]string, len(SummaryHeaders))
	for i, h := range SummaryHeaders {
		headers[i] = h + " " + summaryUnits[i]
	}
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = summaryCells(p)
	}
	return styledTable(headers, rows)
}

// NetworkColumns is the header of the normalized network CSV.
var NetworkColumns = []string{"system", "bidders", "domain", "rtt_ms", "time_ms", "comm_kb"}

func networkCells(r normalize.Row) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
	return []string{
		r.System,
		strconv.Itoa(r.Key.Bidders),
		strconv.Itoa(r.Key.Domain),
		strconv.Itoa(r.Key.RTTms),
		f(r.TimeMs),
		f(r.CommKB),
	}
}

// NetworkTable renders the present cells of t as a terminal table.
func NetworkTable(t *normalize.Table) string {
	var rows [][]string
	for _, r := range t.Rows() {
		rows = append(rows, networkCells(r))
	}
	return styledTable(NetworkColumns, rows)
}

func styledTable(headers []string, rows [][]string) string {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return tbl.String()
}

// WriteSummaries writes one row per point in csvload.SummaryColumns order.
func WriteSummaries(path string, points []latency.Point) error {
	records := make([][]string, 0, len(points))
	for _, p := range points {
		row := csvload.SummaryRow{Throughput: p.TargetAPS, Summary: p.Summary}
		records = append(records, row.Values())
	}
	return writeCSV(path, csvload.SummaryColumns, records)
}

// WriteNetworkCSV writes the present cells of t. Absent configurations have
// no row.
func WriteNetworkCSV(path string, t *normalize.Table) error {
	var records [][]string
	for _, r := range t.Rows() {
		records = append(records, networkCells(r))
	}
	return writeCSV(path, NetworkColumns, records)
}

func writeCSV(path string, header []string, records [][]string) error {
	f, err := util.CreateFile(path)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
