// Package render draws the benchmark comparison charts with gonum/plot and
// writes the printed tables, summary CSVs and HTML report.
package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// SeriesStyle is how one system or series is drawn.
type SeriesStyle struct {
	Color  string `mapstructure:"color" json:"color"`
	Marker string `mapstructure:"marker" json:"marker"`
	Label  string `mapstructure:"label" json:"label"`
}

// Style holds the per-series display options and output settings for every
// chart. It is passed by value and never modified by the renderer.
type Style struct {
	Series map[string]SeriesStyle
	// ChartMarkers overrides series markers on one chart, keyed by chart
	// name and then series name.
	ChartMarkers map[string]map[string]string
	// Format is the chart file extension: png, svg or pdf.
	Format string
	Width  vg.Length
	Height vg.Length
}

// DefaultStyle returns the palette used for the three auction systems and
// the microbenchmark phases.
func DefaultStyle() Style {
	return Style{
		Series: map[string]SeriesStyle{
			"Obsidian":                {Color: "#2ca02c", Marker: "*", Label: "Obsidian"},
			"Addax":                   {Color: "#1f77b4", Marker: "D", Label: "Addax"},
			"MP-SPDZ":                 {Color: "#ff7f0e", Marker: "o", Label: "MP-SPDZ"},
			"Addax (2-Round)":         {Color: "#ff7f0e", Marker: "o", Label: "Addax (2-Round)"},
			"Addax (Non-Interactive)": {Color: "#1f77b4", Marker: "D", Label: "Addax (Non-Interactive)"},
			"online":                  {Color: "#1f77b4", Marker: "o", Label: "Online Phase"},
			"preprocess":              {Color: "#ff7f0e", Marker: "s", Label: "Preprocessing Phase"},
		},
		ChartMarkers: map[string]map[string]string{
			"throughput_comparison": {
				"Obsidian":                "o",
				"Addax (2-Round)":         "s",
				"Addax (Non-Interactive)": "^",
			},
		},
		Format: "png",
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

// WithSeries returns a copy of s with name set to ss.
func (s Style) WithSeries(name string, ss SeriesStyle) Style {
	series := make(map[string]SeriesStyle, len(s.Series)+1)
	for k, v := range s.Series {
		series[k] = v
	}
	series[name] = ss
	s.Series = series
	return s
}

// For returns the style for name. Unknown names get a gray circle labelled
// with the name itself.
func (s Style) For(name string) SeriesStyle {
	ss, ok := s.Series[name]
	if !ok {
		return SeriesStyle{Color: "#7f7f7f", Marker: "o", Label: name}
	}
	if ss.Label == "" {
		ss.Label = name
	}
	return ss
}

// ForChart is For with the marker overrides of chart applied.
func (s Style) ForChart(chart, name string) SeriesStyle {
	ss := s.For(name)
	if m, ok := s.ChartMarkers[chart][name]; ok {
		ss.Marker = m
	}
	return ss
}

// File returns base with the configured chart extension.
func (s Style) File(base string) string {
	format := strings.TrimPrefix(strings.ToLower(s.Format), ".")
	if format == "" {
		format = "png"
	}
	return base + "." + format
}

// ParseColor parses "#rrggbb" or "#rgb".
func ParseColor(hex string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// RGBA is the parsed series color, falling back to gray.
func (ss SeriesStyle) RGBA() color.RGBA {
	c, err := ParseColor(ss.Color)
	if err != nil {
		return color.RGBA{R: 127, G: 127, B: 127, A: 255}
	}
	return c
}

// Lighter mixes c toward white by f in [0,1].
func Lighter(c color.RGBA, f float64) color.RGBA {
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*f)
	}
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}

// Glyph maps a marker letter to a gonum glyph drawer.
func (ss SeriesStyle) Glyph() draw.GlyphDrawer {
	switch ss.Marker {
	case "s":
		return draw.SquareGlyph{}
	case "^":
		return draw.TriangleGlyph{}
	case "v", "D":
		return draw.PyramidGlyph{}
	case "*", "x":
		return draw.CrossGlyph{}
	case "+":
		return draw.PlusGlyph{}
	case "O":
		return draw.RingGlyph{}
	default:
		return draw.CircleGlyph{}
	}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
