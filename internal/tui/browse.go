// Package tui is an interactive terminal browser for result CSV files.
package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/auctionbench/internal/csvload"
	"github.com/mwiater/auctionbench/internal/util"
)

const (
	minColumnWidth = 6
	maxColumnWidth = 28
	chromeHeight   = 6
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(1)
	frameStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

// Data is a CSV file as rows of strings in header order.
type Data struct {
	Path    string
	Columns []string
	Rows    [][]string
}

// Load reads any CSV with a header row. Malformed rows are dropped and
// reported in the returned warnings.
func Load(path string) (Data, []csvload.Warning, error) {
	recs, warnings, err := csvload.Read(path)
	if err != nil {
		return Data{}, nil, err
	}
	d := Data{Path: path, Columns: recs.Header}
	for _, r := range recs.Rows {
		row := make([]string, len(recs.Header))
		for i, col := range recs.Header {
			row[i] = strings.TrimSpace(r.Fields[col])
		}
		d.Rows = append(d.Rows, row)
	}
	return d, warnings, nil
}

// model is the Bubble Tea model of the browser.
type model struct {
	data          Data
	table         table.Model
	sortCol       int
	descending    bool
	width, height int
}

func newModel(d Data) *model {
	cols := make([]table.Column, len(d.Columns))
	for i, c := range d.Columns {
		w := len(c)
		for _, r := range d.Rows {
			w = max(w, len(r[i]))
		}
		cols[i] = table.Column{Title: c, Width: min(max(w, minColumnWidth), maxColumnWidth)}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(min(len(d.Rows)+1, 20)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	m := &model{data: d, table: t, sortCol: -1}
	m.refresh()
	return m
}

// refresh pushes the rows in the current sort order into the table.
func (m *model) refresh() {
	rows := make([][]string, len(m.data.Rows))
	copy(rows, m.data.Rows)
	if m.sortCol >= 0 {
		sortRows(rows, m.sortCol, m.descending)
	}
	tr := make([]table.Row, len(rows))
	for i, r := range rows {
		tr[i] = table.Row(r)
	}
	m.table.SetRows(tr)
}

// sortRows orders rows by column col, numerically when both values parse
// as numbers. The sort is stable so ties keep file order.
func sortRows(rows [][]string, col int, descending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i][col], rows[j][col]
		if descending {
			a, b = b, a
		}
		fa, errA := strconv.ParseFloat(a, 64)
		fb, errB := strconv.ParseFloat(b, 64)
		if errA == nil && errB == nil {
			return fa < fb
		}
		return a < b
	})
}

func (m *model) Init() tea.Cmd { return nil }

// Update handles quitting, sorting and resizing; everything else goes to
// the table.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "s":
			if len(m.data.Columns) > 0 {
				m.sortCol = (m.sortCol + 1) % len(m.data.Columns)
				m.refresh()
			}
			return m, nil
		case "r":
			m.descending = !m.descending
			m.refresh()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-chromeHeight, 3))
		m.table.SetWidth(max(msg.Width-4, 20))
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) sortLabel() string {
	if m.sortCol < 0 {
		return "file order"
	}
	dir := "asc"
	if m.descending {
		dir = "desc"
	}
	return fmt.Sprintf("%s %s", m.data.Columns[m.sortCol], dir)
}

// detail renders the selected row as column=value pairs.
func (m *model) detail() string {
	row := m.table.SelectedRow()
	if row == nil {
		return "No rows"
	}
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = m.data.Columns[i] + "=" + v
	}
	return util.TruncateRunes(strings.Join(parts, "  "), max(m.width-2, 40))
}

func (m *model) View() string {
	title := titleStyle.Render(fmt.Sprintf("%s  (%d rows, sorted by %s)", m.data.Path, len(m.data.Rows), m.sortLabel()))
	help := helpStyle.Render("↑/↓ move • s sort column • r reverse • q quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		frameStyle.Render(m.table.View()),
		detailStyle.Render(m.detail()),
		help,
	)
}

// Browse opens the interactive browser over d and blocks until the user
// quits.
func Browse(d Data) error {
	p := tea.NewProgram(newModel(d), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
