// Package table defines the in-memory tabular model shared by the CSV
// reader, the crosstab engine, and the storage sinks. A Table is a plain
// rectangular block of string cells with one or more header rows; it carries
// no behavior beyond index lookups so that the engine can treat it as an
// immutable snapshot.
package table

import "fmt"

// Table is a rectangular block of cells. Header holds one or more header
// rows; input tables always have exactly one, while crosstab output may carry
// several (formats 2-4). Every header row and every data row has the same
// width.
type Table struct {
	Header [][]string
	Rows   [][]string
}

// New returns an empty Table with a single header row of the given names.
func New(names []string) *Table {
	return &Table{Header: [][]string{names}}
}

// Names returns the first header row. For input tables this is the canonical
// set of column names; for multi-row-header output it is only a display row.
func (t *Table) Names() []string {
	if len(t.Header) == 0 {
		return nil
	}
	return t.Header[0]
}

// Width returns the number of columns, derived from the first header row.
func (t *Table) Width() int { return len(t.Names()) }

// NumRows returns the number of data rows (header rows excluded).
func (t *Table) NumRows() int { return len(t.Rows) }

// ColumnIndex returns the position of the named column in the first header
// row, or false when the name is absent.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, n := range t.Names() {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Append adds one data row. The row width must match the header width.
func (t *Table) Append(row []string) error {
	if len(row) != t.Width() {
		return fmt.Errorf("table: row width %d != header width %d", len(row), t.Width())
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Column returns the values of the i-th column across all data rows.
func (t *Table) Column(i int) []string {
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}
