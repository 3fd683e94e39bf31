package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/geocoug/xtab/internal/table"
)

// CSVSink writes the table as a delimited text file. The file is created (or
// truncated) at Write time.
type CSVSink struct {
	// Path is the destination file path.
	Path string

	// Comma optionally overrides the delimiter; zero writes commas.
	Comma rune
}

// Write serializes t to the configured path.
func (s *CSVSink) Write(ctx context.Context, t *table.Table) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.Path, err)
	}
	if err := table.WriteCSV(f, t, s.Comma); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.Path, err)
	}
	return nil
}
