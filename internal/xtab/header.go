// Header layouts. The four formats share one contract: the non-row-key
// column block enumerates every distinct column-key tuple crossed with every
// value column, in first-seen key order; only the header rendering differs.
package xtab

import "fmt"

// Format selects the output header convention.
type Format int

const (
	// FormatFlat emits one header row; each column is named by joining the
	// column-key values and the value-column name with underscores.
	FormatFlat Format = 1

	// FormatTwoRow emits two header rows: column-key labels over a cycling
	// row of value-column names.
	FormatTwoRow Format = 2

	// FormatPerKey emits one header row per column-key component plus a
	// final row of value-column names.
	FormatPerKey Format = 3

	// FormatPerKeyLabeled is FormatPerKey with each component rendered as
	// "name=value".
	FormatPerKeyLabeled Format = 4
)

// Valid reports whether f is one of the four defined formats.
func (f Format) Valid() bool { return f >= FormatFlat && f <= FormatPerKeyLabeled }

// flatSep joins column-key values and value names in FormatFlat headers.
const flatSep = "_"

// buildHeader produces the full header block for the output table: the
// row-key columns (named after the original row-key columns) followed by one
// column per (column-key tuple, value column) pair. For multi-row formats the
// row-key names appear on the last header row, the one adjacent to the data.
func buildHeader(rowKeyNames, colKeyNames, valueCols []string, colKeys []KeyTuple, f Format) ([][]string, error) {
	nOut := len(rowKeyNames) + len(colKeys)*len(valueCols)

	blank := func() []string { return make([]string, nOut) }
	// fill writes the cross block of row h using per-pair function cell.
	fill := func(h []string, cell func(c KeyTuple, v string) string) {
		i := len(rowKeyNames)
		for _, c := range colKeys {
			for _, v := range valueCols {
				h[i] = cell(c, v)
				i++
			}
		}
	}
	withRowKeys := func(h []string) []string {
		copy(h, rowKeyNames)
		return h
	}

	switch f {
	case FormatFlat:
		h := withRowKeys(blank())
		fill(h, func(c KeyTuple, v string) string {
			return c.Label(flatSep) + flatSep + v
		})
		return [][]string{h}, nil

	case FormatTwoRow:
		top := blank()
		fill(top, func(c KeyTuple, v string) string { return c.Label(flatSep) })
		bottom := withRowKeys(blank())
		fill(bottom, func(c KeyTuple, v string) string { return v })
		return [][]string{top, bottom}, nil

	case FormatPerKey, FormatPerKeyLabeled:
		rows := make([][]string, 0, len(colKeyNames)+1)
		for comp, name := range colKeyNames {
			h := blank()
			fill(h, func(c KeyTuple, v string) string {
				if f == FormatPerKeyLabeled {
					return name + "=" + c[comp]
				}
				return c[comp]
			})
			rows = append(rows, h)
		}
		bottom := withRowKeys(blank())
		fill(bottom, func(c KeyTuple, v string) string { return v })
		return append(rows, bottom), nil

	default:
		return nil, fmt.Errorf("format must be between 1 and 4, got %d", int(f))
	}
}
