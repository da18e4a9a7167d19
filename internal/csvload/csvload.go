// Package csvload reads benchmark CSV files with a header row and groups
// their rows by configuration key. Row-level problems are collected as
// warnings so one bad row never discards the rest of a file.
package csvload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

// ErrMissingColumn is returned when a header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Record is one data row addressed by column name.
type Record struct {
	Line   int
	Fields map[string]string
}

// Get returns the trimmed value of col. ok is false when the column is
// absent from the row or empty.
func (r Record) Get(col string) (string, bool) {
	v, ok := r.Fields[col]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Float parses col as a float. present is false for an absent or empty
// column; err is set only for a present value that does not parse.
func (r Record) Float(col string) (value float64, present bool, err error) {
	raw, ok := r.Get(col)
	if !ok {
		return 0, false, nil
	}
	value, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, fmt.Errorf("column %s: %w", col, err)
	}
	return value, true, nil
}

// Int parses col as an integer with the same conventions as Float.
func (r Record) Int(col string) (value int, present bool, err error) {
	raw, ok := r.Get(col)
	if !ok {
		return 0, false, nil
	}
	value, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("column %s: %w", col, err)
	}
	return value, true, nil
}

// Records is a parsed CSV file.
type Records struct {
	Path   string
	Header []string
	Rows   []Record
}

// Has reports whether the header contains col.
func (r *Records) Has(col string) bool {
	for _, h := range r.Header {
		if h == col {
			return true
		}
	}
	return false
}

// Warning describes a row that was skipped or partially used.
type Warning struct {
	Path string
	Line int
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d: %v", w.Path, w.Line, w.Err)
}

// Read loads path and checks the header against required. Rows the CSV
// parser rejects are returned as warnings.
func Read(path string, required ...string) (*Records, []Warning, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%s: empty file", path)
		}
		return nil, nil, fmt.Errorf("%s: reading header: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	recs := &Records{Path: path, Header: header}
	for _, col := range required {
		if !recs.Has(col) {
			return nil, nil, fmt.Errorf("%s: %w %q", path, ErrMissingColumn, col)
		}
	}

	var warnings []Warning
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				warnings = append(warnings, Warning{Path: path, Line: parseErr.Line, Err: err})
				continue
			}
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		line, _ := reader.FieldPos(0)
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				fields[col] = row[i]
			}
		}
		recs.Rows = append(recs.Rows, Record{Line: line, Fields: fields})
	}
	return recs, warnings, nil
}

// Grouped maps configuration keys to the values of their rows, in row
// order. Keys keeps first-seen order.
type Grouped[K comparable] struct {
	Keys   []K
	Values map[K][]float64
}

// NewGrouped returns an empty Grouped.
func NewGrouped[K comparable]() *Grouped[K] {
	return &Grouped[K]{Values: make(map[K][]float64)}
}

// Touch registers k without adding a value.
func (g *Grouped[K]) Touch(k K) {
	if _, ok := g.Values[k]; !ok {
		g.Keys = append(g.Keys, k)
		g.Values[k] = nil
	}
}

// Add appends v to the series for k.
func (g *Grouped[K]) Add(k K, v float64) {
	g.Touch(k)
	g.Values[k] = append(g.Values[k], v)
}

// Get returns the series for k; ok is false when k was never seen.
func (g *Grouped[K]) Get(k K) ([]float64, bool) {
	v, ok := g.Values[k]
	return v, ok
}

// Mean averages the series for k. ok is false when the key is unknown or
// its series is empty, so a missing configuration is never reported as 0.
func (g *Grouped[K]) Mean(k K) (float64, bool) {
	v := g.Values[k]
	if len(v) == 0 {
		return 0, false
	}
	mean, err := stats.Mean(v)
	if err != nil {
		return 0, false
	}
	return mean, true
}

// GroupBy groups recs by the key returned from keyFn and collects the value
// column. Rows whose key or value fails to parse are skipped with a warning.
// When optional is true an empty value column registers the key and is
// otherwise skipped silently; when false it is a warning.
func GroupBy[K comparable](recs *Records, keyFn func(Record) (K, error), value string, optional bool) (*Grouped[K], []Warning) {
	g := NewGrouped[K]()
	var warnings []Warning
	for _, row := range recs.Rows {
		k, err := keyFn(row)
		if err != nil {
			warnings = append(warnings, Warning{Path: recs.Path, Line: row.Line, Err: err})
			continue
		}
		v, present, err := row.Float(value)
		if err != nil {
			warnings = append(warnings, Warning{Path: recs.Path, Line: row.Line, Err: err})
			continue
		}
		if !present {
			if optional {
				g.Touch(k)
				continue
			}
			warnings = append(warnings, Warning{Path: recs.Path, Line: row.Line, Err: fmt.Errorf("column %s: empty", value)})
			continue
		}
		g.Add(k, v)
	}
	return g, warnings
}
