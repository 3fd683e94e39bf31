// Command xtab reads a table of data in normalized (long) form from a
// delimited text file and cross-tabulates it, allowing multiple value
// columns to be crosstabbed at once.
//
// A run can be described entirely by flags:
//
//	xtab -infile data.csv -outfile wide.csv -rows region -cols month -values sales
//
// or by a JSON spec file (-config), with flags overriding file values.
// Configuration problems are all collected and reported before the input is
// read; cell collisions are reported as warnings at the end of the run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/geocoug/xtab/internal/config"
	"github.com/geocoug/xtab/internal/metrics"
	"github.com/geocoug/xtab/internal/storage"
	"github.com/geocoug/xtab/internal/storage/postgres"
	"github.com/geocoug/xtab/internal/storage/sqlite"
	"github.com/geocoug/xtab/internal/table"
	"github.com/geocoug/xtab/internal/xtab"
)

func main() {
	var (
		cfgPath  string
		infile   string
		outfile  string
		rows     string
		cols     string
		values   string
		format   int
		validate bool
	)

	flag.StringVar(&cfgPath, "config", "", "JSON spec file path (flags override file values)")
	flag.StringVar(&infile, "infile", "", "input file to read; the first line must contain column names")
	flag.StringVar(&outfile, "outfile", "", "output file to create (.csv)")
	flag.StringVar(&rows, "rows", "", "comma-separated column names to use as row headers")
	flag.StringVar(&cols, "cols", "", "comma-separated column names to use as column headers")
	flag.StringVar(&values, "values", "", "comma-separated column names whose values fill the cells")
	flag.IntVar(&format, "format", 0, "column header format, 1-4 (default 1)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	spec, err := loadSpec(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	mergeFlags(&spec, infile, outfile, rows, cols, values, format)

	issues := config.ValidateSpec(spec)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		fatalf("configuration is invalid")
	}
	if validate {
		log.Printf("configuration is valid")
		return
	}

	ctx := context.Background()
	start := time.Now()
	if *verbose {
		log.Printf("run: job=%s infile=%s outfile=%s format=%d", spec.Job, spec.Input.Path, spec.Output.Path, spec.Format)
	}

	res, err := run(ctx, spec)
	if err != nil {
		fatalf("%v", err)
	}

	for _, c := range res.Collisions {
		fmt.Fprintf(os.Stderr, "warning: %s\n", c)
	}
	if n := len(res.Collisions); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d output cell(s) received more than one value; first value kept\n", n)
	}
	if *verbose {
		log.Printf("completed in %s: %d row(s), %d column group(s)",
			time.Since(start).Truncate(time.Millisecond), res.DistinctRowKeys, res.DistinctColKeys)
	}
	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush error: %v", err)
	}
}

// loadSpec decodes the spec file when provided, or returns a zero Spec for
// flag-only runs.
func loadSpec(path string) (config.Spec, error) {
	var spec config.Spec
	if path == "" {
		return spec, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return spec, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&spec); err != nil {
		return spec, fmt.Errorf("decode config: %w", err)
	}
	return spec, nil
}

// mergeFlags overlays non-empty flag values onto spec and applies the format
// default.
func mergeFlags(spec *config.Spec, infile, outfile, rows, cols, values string, format int) {
	if infile != "" {
		spec.Input.Path = infile
	}
	if outfile != "" {
		spec.Output.Path = outfile
	}
	if rows != "" {
		spec.Columns.RowKeys = splitList(rows)
	}
	if cols != "" {
		spec.Columns.ColKeys = splitList(cols)
	}
	if values != "" {
		spec.Columns.ValueCols = splitList(values)
	}
	if format != 0 {
		spec.Format = format
	}
	if spec.Format == 0 {
		spec.Format = 1
	}
}

// splitList splits a comma-separated flag value into trimmed, non-empty
// names.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// run executes the pivot: read input, crosstab, fan out to sinks.
func run(ctx context.Context, spec config.Spec) (*xtab.Result, error) {
	readStart := time.Now()
	f, err := os.Open(spec.Input.Path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	in, skipped, err := table.ReadCSV(f, readOptions(spec.Input.Options))
	f.Close()
	metrics.RecordStep(spec.Job, "read", err, time.Since(readStart))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if skipped > 0 {
		log.Printf("skipped %d malformed input row(s)", skipped)
	}
	metrics.RecordRows(spec.Job, "read", int64(in.NumRows()))
	metrics.RecordRows(spec.Job, "skipped", int64(skipped))

	pivotStart := time.Now()
	res, err := xtab.Crosstab(in, xtab.ColumnSpec{
		RowKeys:   spec.Columns.RowKeys,
		ColKeys:   spec.Columns.ColKeys,
		ValueCols: spec.Columns.ValueCols,
	}, xtab.Format(spec.Format))
	metrics.RecordStep(spec.Job, "pivot", err, time.Since(pivotStart))
	if err != nil {
		return nil, err
	}
	metrics.RecordRows(spec.Job, "row_keys", int64(res.DistinctRowKeys))
	metrics.RecordRows(spec.Job, "col_keys", int64(res.DistinctColKeys))
	metrics.RecordRows(spec.Job, "collisions", int64(len(res.Collisions)))

	sinks, err := buildSinks(spec)
	if err != nil {
		return nil, err
	}
	writeStart := time.Now()
	err = storage.WriteAll(ctx, res.Table, sinks...)
	metrics.RecordStep(spec.Job, "write", err, time.Since(writeStart))
	if err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return res, nil
}

// readOptions translates the free-form input options bag into reader options.
func readOptions(o config.Options) table.ReadOptions {
	return table.ReadOptions{
		Comma:                o.Rune("comma", ','),
		TrimSpace:            o.Bool("trim_space", true),
		LazyQuotes:           o.Bool("lazy_quotes", false),
		FoldHeaderDiacritics: o.Bool("fold_header_diacritics", false),
	}
}

// buildSinks assembles the csv sink plus any configured extras.
func buildSinks(spec config.Spec) ([]storage.Sink, error) {
	comma := ','
	if spec.Output.Comma != "" {
		comma = []rune(spec.Output.Comma)[0]
	}
	sinks := []storage.Sink{&storage.CSVSink{Path: spec.Output.Path, Comma: comma}}
	for _, sk := range spec.Output.Sinks {
		switch sk.Kind {
		case "sqlite":
			sinks = append(sinks, sqlite.New(sqlite.Config{DSN: sk.DB.DSN, Table: sk.DB.Table}))
		case "postgres":
			sinks = append(sinks, postgres.New(postgres.Config{DSN: sk.DB.DSN, Table: sk.DB.Table}))
		default:
			return nil, fmt.Errorf("unknown sink kind %q", sk.Kind)
		}
	}
	return sinks, nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
