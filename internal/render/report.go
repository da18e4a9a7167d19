package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/mwiater/auctionbench/internal/normalize"
	"github.com/mwiater/auctionbench/internal/util"
)

// ReportData is the view model of the network comparison report.
type ReportData struct {
	Title     string
	Generated string
	Systems   []ReportSystem
	Charts    []string
	RowsJSON  template.JS
}

// ReportSystem groups one system's present configurations.
type ReportSystem struct {
	Name  string
	Color string
	Rows  []ReportRow
}

// ReportRow is one normalized configuration.
type ReportRow struct {
	Bidders int     `json:"bidders"`
	Domain  int     `json:"domain"`
	RTTms   int     `json:"rtt_ms"`
	TimeMs  float64 `json:"time_ms"`
	CommKB  float64 `json:"comm_kb"`
}

type reportPayload struct {
	System string `json:"system"`
	ReportRow
}

// GenerateNetworkReport renders a standalone HTML page of the normalized
// table. charts are relative paths of images to embed beneath the tables.
func (s Style) GenerateNetworkReport(t *normalize.Table, charts []string, now time.Time) (string, error) {
	data := ReportData{
		Title:     "auctionbench: Network Benchmark Report",
		Generated: now.Format(time.RFC1123),
		Charts:    charts,
	}
	var payload []reportPayload
	bySystem := make(map[string]int)
	for _, name := range t.Systems {
		bySystem[name] = len(data.Systems)
		data.Systems = append(data.Systems, ReportSystem{Name: s.For(name).Label, Color: s.For(name).Color})
	}
	for _, r := range t.Rows() {
		row := ReportRow{Bidders: r.Key.Bidders, Domain: r.Key.Domain, RTTms: r.Key.RTTms, TimeMs: r.TimeMs, CommKB: r.CommKB}
		i := bySystem[r.System]
		data.Systems[i].Rows = append(data.Systems[i].Rows, row)
		payload = append(payload, reportPayload{System: r.System, ReportRow: row})
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	data.RowsJSON = template.JS(raw)

	var buf bytes.Buffer
	if err := networkReportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteNetworkReport renders the report and writes it to path.
func (s Style) WriteNetworkReport(path string, t *normalize.Table, charts []string, now time.Time) error {
	html, err := s.GenerateNetworkReport(t, charts, now)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return util.WriteFile(path, []byte(html))
}

var networkReportTemplate = template.Must(template.New("network-report").Funcs(template.FuncMap{
	"f2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(networkReportTemplateHTML))

const networkReportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --border: #E2E8F0;
    }
    body {
      margin: 0;
      font-family: system-ui, sans-serif;
      background-color: var(--light);
      color: var(--text);
    }
    header {
      background-color: var(--primary);
      color: var(--light);
      padding: 1rem 2rem;
    }
    header small { color: var(--border); }
    main { padding: 1.5rem 2rem; }
    .card {
      background: var(--background);
      border: 1px solid var(--border);
      border-radius: 12px;
      padding: 1.25rem;
      margin-bottom: 1.5rem;
    }
    .swatch {
      display: inline-block;
      width: 14px;
      height: 14px;
      border-radius: 3px;
      margin-right: 0.5rem;
      vertical-align: middle;
    }
    table { border-collapse: collapse; width: 100%; }
    th, td {
      text-align: right;
      padding: 0.35rem 0.75rem;
      border-bottom: 1px solid var(--border);
    }
    th { background-color: var(--light); color: var(--secondary); }
    td.empty { text-align: center; color: var(--secondary); }
    figure { margin: 0 0 1.5rem; }
    figure img { max-width: 100%; }
  </style>
</head>
<body>
  <header>
    <h1>{{ .Title }}</h1>
    <small>Generated {{ .Generated }}</small>
  </header>
  <main>
    {{- range .Systems }}
    <section class="card">
      <h2><span class="swatch" style="background-color: {{ .Color }}"></span>{{ .Name }}</h2>
      <table>
        <thead>
          <tr><th>Bidders</th><th>Domain</th><th>RTT (ms)</th><th>Time (ms)</th><th>Communication (KB)</th></tr>
        </thead>
        <tbody>
          {{- range .Rows }}
          <tr><td>{{ .Bidders }}</td><td>{{ .Domain }}</td><td>{{ .RTTms }}</td><td>{{ f2 .TimeMs }}</td><td>{{ f2 .CommKB }}</td></tr>
          {{- else }}
          <tr><td class="empty" colspan="5">No results</td></tr>
          {{- end }}
        </tbody>
      </table>
    </section>
    {{- end }}
    {{- if .Charts }}
    <section class="card">
      <h2>Charts</h2>
      {{- range .Charts }}
      <figure><img src="{{ . }}" alt="{{ . }}"></figure>
      {{- end }}
    </section>
    {{- end }}
  </main>
  <script id="network-rows" type="application/json">{{ .RowsJSON }}</script>
</body>
</html>
`
