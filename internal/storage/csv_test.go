package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/geocoug/xtab/internal/table"
)

func outputFixture() *table.Table {
	t := table.New([]string{"region", "Jan_sales", "Feb_sales"})
	t.Rows = [][]string{
		{"E", "10", "20"},
		{"W", "5", ""},
	}
	return t
}

func TestCSVSink_Write(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "wide.csv")
	sink := &CSVSink{Path: path}
	if err := sink.Write(context.Background(), outputFixture()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "region,Jan_sales,Feb_sales\nE,10,20\nW,5,\n"
	if string(got) != want {
		t.Fatalf("file = %q, want %q", got, want)
	}
}

func TestCSVSink_WriteCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &CSVSink{Path: filepath.Join(t.TempDir(), "wide.csv")}
	if err := sink.Write(ctx, outputFixture()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Write(canceled) err = %v, want context.Canceled", err)
	}
}

// failSink always fails; it verifies WriteAll error propagation.
type failSink struct{ err error }

func (f *failSink) Write(ctx context.Context, t *table.Table) error { return f.err }

func TestWriteAll_FansOut(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := &CSVSink{Path: filepath.Join(dir, "a.csv")}
	b := &CSVSink{Path: filepath.Join(dir, "b.csv")}
	if err := WriteAll(context.Background(), outputFixture(), a, b); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	for _, p := range []string{a.Path, b.Path} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("sink output missing: %v", err)
		}
	}
}

func TestWriteAll_PropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	ok := &CSVSink{Path: filepath.Join(t.TempDir(), "ok.csv")}
	if err := WriteAll(context.Background(), outputFixture(), ok, &failSink{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("WriteAll err = %v, want boom", err)
	}
}
