// CSV writing for output tables. Multi-row headers (crosstab formats 2-4)
// are emitted as consecutive leading lines before the data block.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV serializes t to w as delimited text. Header rows are written
// first, then data rows, all with the same delimiter. A zero comma writes
// standard comma-separated output.
func WriteCSV(w io.Writer, t *Table, comma rune) error {
	cw := csv.NewWriter(w)
	if comma != 0 {
		cw.Comma = comma
	}
	for i, h := range t.Header {
		if err := cw.Write(h); err != nil {
			return fmt.Errorf("write header row %d: %w", i+1, err)
		}
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
