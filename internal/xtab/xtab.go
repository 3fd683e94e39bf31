// Package xtab implements the crosstab core: it reshapes a table in
// normalized (long) form into cross-tabulated (wide) form. Distinct
// combinations of the row-key columns become output rows, distinct
// combinations of the column-key columns crossed with the value-column names
// become output columns, and each cell holds the single value resolved for
// that address.
//
// The engine is a pure, single-threaded computation over an immutable input
// snapshot: one pass discovers the distinct keys, a second pass resolves the
// cells, and the result is assembled deterministically. I/O belongs to the
// callers; the package consumes an already-parsed table.Table and returns a
// new one.
package xtab

import (
	"fmt"
	"strings"

	"github.com/geocoug/xtab/internal/table"
)

// ColumnSpec names the columns driving the pivot. Each list must be
// non-empty and every name must exist in the input header.
type ColumnSpec struct {
	RowKeys   []string
	ColKeys   []string
	ValueCols []string
}

// Role tags which list of a ColumnSpec referenced a column.
type Role string

const (
	RoleRow   Role = "row"
	RoleCol   Role = "col"
	RoleValue Role = "value"
)

// MissingColumn is one requested column name absent from the input header.
type MissingColumn struct {
	Role Role
	Name string
}

// SchemaError reports every requested column missing from the input header.
// All problems are accumulated before the pivot fails, so a user can fix the
// whole spec in one round trip.
type SchemaError struct {
	Missing []MissingColumn
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		parts[i] = fmt.Sprintf("%s column %q not in input header", m.Role, m.Name)
	}
	return "missing columns: " + strings.Join(parts, "; ")
}

// Result is the outcome of one crosstab run.
type Result struct {
	// Table is the assembled wide-form output.
	Table *table.Table

	// Collisions lists, per output cell, how many extra input rows mapped to
	// an already-written cell. Non-empty Collisions is a warning, not an
	// error; the table holds the first value seen for each cell.
	Collisions []Collision

	// DistinctRowKeys and DistinctColKeys count the key combinations found.
	DistinctRowKeys int
	DistinctColKeys int
}

// Crosstab pivots in according to spec and format. The input is not
// modified. Identical inputs always produce identical output: key order is
// first-seen order and cell conflicts resolve first-write-wins.
//
// An invalid format or a spec referencing absent columns returns an error
// before any row is scanned.
func Crosstab(in *table.Table, spec ColumnSpec, format Format) (*Result, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("format must be between 1 and 4, got %d", int(format))
	}
	rowIdx, colIdx, valIdx, err := resolveSpec(in, spec)
	if err != nil {
		return nil, err
	}

	// Pass 1: distinct key tuples, in first-seen order.
	rowSet, colSet := NewKeySet(), NewKeySet()
	for _, row := range in.Rows {
		rowSet.Add(project(row, rowIdx))
		colSet.Add(project(row, colIdx))
	}

	// Pass 2: resolve cells, first write wins.
	store := newCellStore(rowSet.Len(), colSet.Len(), len(spec.ValueCols))
	for _, row := range in.Rows {
		r, _ := rowSet.Index(project(row, rowIdx))
		c, _ := colSet.Index(project(row, colIdx))
		for v, vi := range valIdx {
			store.put(r, c, v, row[vi])
		}
	}

	header, err := buildHeader(spec.RowKeys, spec.ColKeys, spec.ValueCols, colSet.Tuples(), format)
	if err != nil {
		return nil, err
	}
	out := assemble(header, rowSet.Tuples(), colSet.Len(), spec.ValueCols, store)

	return &Result{
		Table:           out,
		Collisions:      store.collisions(rowSet.Tuples(), colSet.Tuples(), spec.ValueCols),
		DistinctRowKeys: rowSet.Len(),
		DistinctColKeys: colSet.Len(),
	}, nil
}

// resolveSpec maps every spec name to its input column index, accumulating
// all missing names into a single SchemaError.
func resolveSpec(in *table.Table, spec ColumnSpec) (rowIdx, colIdx, valIdx []int, err error) {
	var missing []MissingColumn
	lookup := func(names []string, role Role) []int {
		idx := make([]int, 0, len(names))
		for _, n := range names {
			i, ok := in.ColumnIndex(n)
			if !ok {
				missing = append(missing, MissingColumn{Role: role, Name: n})
				continue
			}
			idx = append(idx, i)
		}
		return idx
	}
	rowIdx = lookup(spec.RowKeys, RoleRow)
	colIdx = lookup(spec.ColKeys, RoleCol)
	valIdx = lookup(spec.ValueCols, RoleValue)
	if len(missing) > 0 {
		return nil, nil, nil, &SchemaError{Missing: missing}
	}
	return rowIdx, colIdx, valIdx, nil
}

// project extracts the canonicalized key tuple of row at the given column
// indices.
func project(row []string, idx []int) KeyTuple {
	k := make(KeyTuple, len(idx))
	for i, ci := range idx {
		k[i] = canonical(row[ci])
	}
	return k
}

// assemble builds the output table: one row per distinct row-key tuple, the
// tuple's own values first, then one cell per (column key, value column)
// pair in header order. Addresses never written render as empty cells.
func assemble(header [][]string, rowKeys []KeyTuple, nColKeys int, valueCols []string, store *cellStore) *table.Table {
	out := &table.Table{Header: header}
	width := len(header[0])
	for r, rk := range rowKeys {
		row := make([]string, width)
		copy(row, rk)
		i := len(rk)
		for c := 0; c < nColKeys; c++ {
			for v := range valueCols {
				if val, ok := store.get(r, c, v); ok {
					row[i] = val
				}
				i++
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
