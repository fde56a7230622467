package tabular

import (
	"fmt"
	"math"
	"strings"
)

// Table is an in-memory, row-major sheet with a single header row. Cells are
// string, float64 or nil (missing); rows may be shorter than the header.
type Table struct {
	Columns []string
	Rows    [][]any
}

// New builds a table from a header and its rows.
func New(columns []string, rows [][]any) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// NormalizeColumns lower-cases every header in place.
func (t *Table) NormalizeColumns() {
	for i, c := range t.Columns {
		t.Columns[i] = strings.ToLower(c)
	}
}

// ColumnIndex returns the position of the first header equal to name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Cell returns the value at (row, col), or nil when the row is short.
func (t *Table) Cell(row, col int) any {
	r := t.Rows[row]
	if col >= len(r) {
		return nil
	}
	return r[col]
}

// Column returns the raw values of one column, padding short rows with nil.
func (t *Table) Column(col int) []any {
	out := make([]any, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Cell(i, col)
	}
	return out
}

// ColumnStrings returns one column as text. Missing cells become "".
func (t *Table) ColumnStrings(col int) []string {
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = cellString(t.Cell(i, col))
	}
	return out
}

// AddColumn appends a column. values must have one entry per row.
func (t *Table) AddColumn(name string, values []any) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	width := len(t.Columns)
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		for len(t.Rows[i]) < width {
			t.Rows[i] = append(t.Rows[i], nil)
		}
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// FillMissing replaces nil and NaN cells with v and pads short rows.
func (t *Table) FillMissing(v any) {
	width := len(t.Columns)
	for i, row := range t.Rows {
		for len(row) < width {
			row = append(row, nil)
		}
		for j, cell := range row {
			if isMissing(cell) {
				row[j] = v
			}
		}
		t.Rows[i] = row
	}
}

// Records converts the table into one map per row keyed by header.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.Rows))
	for i := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for j, c := range t.Columns {
			rec[c] = t.Cell(i, j)
		}
		out[i] = rec
	}
	return out
}

func isMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	}
	return false
}

func cellString(v any) string {
	if isMissing(v) {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
