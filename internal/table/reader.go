// CSV reading for input tables. The reader streams through encoding/csv and
// soft-skips rows whose width does not match the header, so a handful of
// ragged lines in real-world exports does not abort a run.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ReadOptions configures CSV reading. All fields are optional; zero values
// fall back to sensible defaults.
type ReadOptions struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing space from every cell.
	TrimSpace bool

	// LazyQuotes relaxes quote handling in encoding/csv for inputs with
	// stray or unescaped quotes.
	LazyQuotes bool

	// FoldHeaderDiacritics strips combining marks from header names
	// (e.g. "Región" -> "Region") so column references typed in ASCII match
	// accented source headers.
	FoldHeaderDiacritics bool
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// skipLogLimit caps how many skipped-row reasons are logged per read.
const skipLogLimit = 400

// ReadCSV parses a delimited file whose first line is the header. It returns
// the parsed table and the number of data rows skipped because of parse
// errors or width mismatches.
//
// Duplicate header names are a hard error: the crosstab engine addresses
// columns by name and cannot disambiguate repeats.
func ReadCSV(r io.Reader, opt ReadOptions) (*Table, int, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = -1 // width enforced against the header below

	hdr, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	names, err := normalizeHeader(hdr, opt)
	if err != nil {
		return nil, 0, err
	}

	t := New(names)
	var skipped int
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < skipLogLimit {
				log.Printf("Skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}
		if len(row) != len(names) {
			if skipped < skipLogLimit {
				log.Printf("Skipping row %d: incorrect number of fields (expected %d, got %d)", line, len(names), len(row))
			}
			skipped++
			continue
		}
		cells := make([]string, len(row))
		for i, v := range row {
			if opt.TrimSpace {
				v = strings.TrimSpace(v)
			}
			cells[i] = v
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, skipped, nil
}

// normalizeHeader trims header cells, strips a UTF-8 BOM from the first cell,
// optionally folds diacritics, and rejects duplicate names.
func normalizeHeader(hdr []string, opt ReadOptions) ([]string, error) {
	names := make([]string, len(hdr))
	seen := make(map[string]int, len(hdr))
	for i, h := range hdr {
		n := strings.TrimSpace(h)
		if i == 0 {
			n = strings.TrimPrefix(n, utf8BOM)
		}
		if opt.FoldHeaderDiacritics {
			n = foldDiacritics(n)
		}
		if prev, dup := seen[n]; dup {
			return nil, fmt.Errorf("duplicate header name %q (columns %d and %d)", n, prev+1, i+1)
		}
		seen[n] = i
		names[i] = n
	}
	return names, nil
}

// foldDiacritics removes combining marks: decompose, drop marks, recompose.
func foldDiacritics(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
