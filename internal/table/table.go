package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Accepted layouts for declared date columns, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// Column is a typed, nullable column vector.
type Column struct {
	Name string
	Kind Kind

	strs    []string
	floats  []float64
	bools   []bool
	dates   []time.Time
	present []bool
}

// Len returns the number of rows in the column.
func (c *Column) Len() int { return len(c.present) }

// Present reports whether row i holds a value.
func (c *Column) Present(i int) bool { return c.present[i] }

// MissingCount returns the number of absent values.
func (c *Column) MissingCount() int {
	n := 0
	for _, p := range c.present {
		if !p {
			n++
		}
	}
	return n
}

// Str returns the string value at row i.
func (c *Column) Str(i int) (string, bool) {
	if c.Kind != KindString || !c.present[i] {
		return "", false
	}
	return c.strs[i], true
}

// Float returns the numeric value at row i.
func (c *Column) Float(i int) (float64, bool) {
	if c.Kind != KindFloat || !c.present[i] {
		return 0, false
	}
	return c.floats[i], true
}

// Bool returns the flag value at row i.
func (c *Column) Bool(i int) (bool, bool) {
	if c.Kind != KindBool || !c.present[i] {
		return false, false
	}
	return c.bools[i], true
}

// Date returns the date value at row i.
func (c *Column) Date(i int) (time.Time, bool) {
	if c.Kind != KindDate || !c.present[i] {
		return time.Time{}, false
	}
	return c.dates[i], true
}

// Label renders the value at row i as a grouping label, the way the value
// would appear in a report. Booleans render as True/False, integral floats
// without a decimal point.
func (c *Column) Label(i int) (string, bool) {
	if !c.present[i] {
		return "", false
	}
	switch c.Kind {
	case KindString:
		return c.strs[i], true
	case KindBool:
		if c.bools[i] {
			return "True", true
		}
		return "False", true
	case KindFloat:
		return strconv.FormatFloat(c.floats[i], 'f', -1, 64), true
	case KindDate:
		return c.dates[i].Format("2006-01-02"), true
	}
	return "", false
}

// NonNullFloats returns the present numeric values in row order.
func (c *Column) NonNullFloats() []float64 {
	if c.Kind != KindFloat {
		return nil
	}
	out := make([]float64, 0, len(c.floats))
	for i, p := range c.present {
		if p {
			out = append(out, c.floats[i])
		}
	}
	return out
}

// Table is the canonical in-memory view of one policy snapshot.
type Table struct {
	schema  Schema
	order   []string
	cols    map[string]*Column
	raw     [][]string // original cells, row-major, indexed like order for input columns
	rawCols int        // number of input columns covered by raw
	numRows int
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.numRows }

// NumCols returns the column count, derived columns included.
func (t *Table) NumCols() int { return len(t.order) }

// ColumnNames returns the column names in snapshot order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Col returns the named column, or false when the column is absent. Callers
// treat an absent optional column as "skip the dependent check".
func (t *Table) Col(name string) (*Column, bool) {
	c, ok := t.cols[name]
	return c, ok
}

// HasCol reports whether the named column exists.
func (t *Table) HasCol(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// RawRow returns the original input cells for row i, derived columns excluded.
// Used for full-row duplicate detection.
func (t *Table) RawRow(i int) []string { return t.raw[i] }

// Load reads a policy CSV from path into a Table using the given schema.
// A missing file is fatal for the run; the caller reports it and writes no
// partial output.
func Load(path string, schema Schema) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source table: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read source table: %w", err)
	}

	// Strip UTF-8 BOM so the first header cell parses cleanly.
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse source table: %w", err)
	}

	tbl, err := FromRecords(records, schema)
	if err != nil {
		return nil, err
	}

	slog.Info("loaded source table",
		slog.String("path", path),
		slog.Int("rows", tbl.NumRows()),
		slog.Int("columns", tbl.NumCols()))
	return tbl, nil
}

// FromRecords builds a Table from already-parsed CSV records, the first being
// the header. Empty cells become absent values; declared defaults are filled
// in afterwards so they appear in both the typed view and the snapshot.
func FromRecords(records [][]string, schema Schema) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("source table has no header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}
	rows := records[1:]

	for _, spec := range schema.Columns {
		if spec.Required && !containsName(header, spec.Name) {
			return nil, fmt.Errorf("required column %q not found in source table", spec.Name)
		}
	}

	t := &Table{
		schema:  schema,
		order:   header,
		cols:    make(map[string]*Column, len(header)),
		raw:     make([][]string, len(rows)),
		rawCols: len(header),
		numRows: len(rows),
	}

	for i, row := range rows {
		cells := make([]string, len(header))
		copy(cells, row)
		t.raw[i] = cells
	}

	for idx, name := range header {
		spec, declared := schema.Spec(name)
		kind := KindString
		if declared {
			kind = spec.Kind
		}

		col := &Column{
			Name:    name,
			Kind:    kind,
			present: make([]bool, len(rows)),
		}
		switch kind {
		case KindString:
			col.strs = make([]string, len(rows))
		case KindBool:
			col.bools = make([]bool, len(rows))
		case KindFloat:
			col.floats = make([]float64, len(rows))
		case KindDate:
			col.dates = make([]time.Time, len(rows))
		}

		for i := range rows {
			cell := strings.TrimSpace(t.raw[i][idx])
			if cell == "" {
				if declared && spec.Default != "" && kind == KindString {
					col.strs[i] = spec.Default
					col.present[i] = true
					t.raw[i][idx] = spec.Default
				}
				continue
			}
			switch kind {
			case KindString:
				col.strs[i] = cell
				col.present[i] = true
			case KindBool:
				if v, ok := parseBool(cell); ok {
					col.bools[i] = v
					col.present[i] = true
				}
			case KindFloat:
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					col.floats[i] = v
					col.present[i] = true
				}
			case KindDate:
				if v, ok := parseDate(cell); ok {
					col.dates[i] = v
					col.present[i] = true
				}
			}
		}

		t.cols[name] = col
	}

	return t, nil
}

// AddStrColumn appends a derived string column to the table. present may be
// nil, meaning every value is present. Rows in derived columns are written to
// the snapshot after the original columns, in the order they were added.
func (t *Table) AddStrColumn(name string, values []string, present []bool) error {
	if len(values) != t.numRows {
		return fmt.Errorf("derived column %q has %d values for %d rows", name, len(values), t.numRows)
	}
	if _, exists := t.cols[name]; exists {
		return fmt.Errorf("column %q already exists", name)
	}
	col := &Column{
		Name:    name,
		Kind:    KindString,
		strs:    values,
		present: present,
	}
	if col.present == nil {
		col.present = make([]bool, t.numRows)
		for i := range col.present {
			col.present[i] = true
		}
	}
	t.cols[name] = col
	t.order = append(t.order, name)
	return nil
}

// SnapshotRecords renders the full table, original plus derived columns, as
// CSV records with a header row.
func (t *Table) SnapshotRecords() [][]string {
	out := make([][]string, 0, t.numRows+1)
	out = append(out, t.ColumnNames())

	derived := t.order[t.rawCols:]
	for i := 0; i < t.numRows; i++ {
		row := make([]string, 0, len(t.order))
		row = append(row, t.raw[i]...)
		for _, name := range derived {
			col := t.cols[name]
			if label, ok := col.Label(i); ok {
				row = append(row, label)
			} else {
				row = append(row, "")
			}
		}
		out = append(out, row)
	}
	return out
}

// InferredKind returns the kind a column was loaded as.
func (t *Table) InferredKind(name string) (Kind, bool) {
	c, ok := t.cols[name]
	if !ok {
		return KindString, false
	}
	return c.Kind, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "1", "t", "yes":
		return true, true
	case "false", "0", "f", "no":
		return false, true
	}
	return false, false
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return v, true
		}
	}
	return time.Time{}, false
}

func containsName(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
