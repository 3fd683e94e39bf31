package main

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/geocoug/xtab/internal/config"
	"github.com/geocoug/xtab/internal/table"
)

func TestSplitList(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want []string
	}{
		{"region", []string{"region"}},
		{"region,store", []string{"region", "store"}},
		{" region , store ", []string{"region", "store"}},
		{"region,,store,", []string{"region", "store"}},
		{"", nil},
	}
	for _, c := range cases {
		if got := splitList(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("splitList(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	spec := config.Spec{
		Input:  config.Input{Path: "from-file.csv"},
		Output: config.Output{Path: "from-file-out.csv"},
		Columns: config.Columns{
			RowKeys: []string{"old"},
		},
		Format: 3,
	}

	// Flags override file values; empty flags leave them alone.
	mergeFlags(&spec, "in.csv", "", "region,store", "", "sales", 0)
	if spec.Input.Path != "in.csv" {
		t.Fatalf("input.path = %q, want in.csv", spec.Input.Path)
	}
	if spec.Output.Path != "from-file-out.csv" {
		t.Fatalf("output.path = %q, want from-file-out.csv", spec.Output.Path)
	}
	if want := []string{"region", "store"}; !reflect.DeepEqual(spec.Columns.RowKeys, want) {
		t.Fatalf("row_keys = %#v, want %#v", spec.Columns.RowKeys, want)
	}
	if spec.Format != 3 {
		t.Fatalf("format = %d, want 3 (unset flag keeps file value)", spec.Format)
	}

	// Default format applies only when nothing set it.
	var bare config.Spec
	mergeFlags(&bare, "", "", "", "", "", 0)
	if bare.Format != 1 {
		t.Fatalf("default format = %d, want 1", bare.Format)
	}
}

func TestLoadSpec(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "spec.json")
	const js = `{
	  "input":  { "path": "sales.csv" },
	  "output": { "path": "wide.csv" },
	  "columns": { "row_keys": ["region"], "col_keys": ["month"], "value_cols": ["sales"] },
	  "format": 2
	}`
	if err := os.WriteFile(path, []byte(js), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}

	spec, err := loadSpec(path)
	if err != nil {
		t.Fatalf("loadSpec: %v", err)
	}
	if spec.Input.Path != "sales.csv" || spec.Format != 2 {
		t.Fatalf("spec = %#v", spec)
	}

	if _, err := loadSpec(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("loadSpec(missing) err = nil, want error")
	}
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "sales.csv")
	out := filepath.Join(dir, "wide.csv")
	const data = "region,month,sales\nE,Jan,10\nE,Feb,20\nW,Jan,5\nE,Jan,99\n"
	if err := os.WriteFile(in, []byte(data), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	spec := config.Spec{
		Input:  config.Input{Path: in, Options: config.Options{}},
		Output: config.Output{Path: out},
		Columns: config.Columns{
			RowKeys:   []string{"region"},
			ColKeys:   []string{"month"},
			ValueCols: []string{"sales"},
		},
		Format: 1,
	}

	res, err := run(context.Background(), spec)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Collisions) != 1 || res.Collisions[0].Extra != 1 {
		t.Fatalf("collisions = %#v, want one entry with extra=1", res.Collisions)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "region,Jan_sales,Feb_sales\nE,10,20\nW,5,\n"
	if string(got) != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestReadOptions_Defaults(t *testing.T) {
	t.Parallel()

	got := readOptions(config.Options{})
	want := table.ReadOptions{Comma: ',', TrimSpace: true}
	if got != want {
		t.Fatalf("readOptions = %#v, want %#v", got, want)
	}

	got = readOptions(config.Options{"comma": ";", "trim_space": false, "lazy_quotes": true})
	want = table.ReadOptions{Comma: ';', LazyQuotes: true}
	if got != want {
		t.Fatalf("readOptions = %#v, want %#v", got, want)
	}
}

func TestBuildSinks(t *testing.T) {
	t.Parallel()

	spec := config.Spec{Output: config.Output{Path: "wide.csv"}}
	sinks, err := buildSinks(spec)
	if err != nil {
		t.Fatalf("buildSinks: %v", err)
	}
	if len(sinks) != 1 {
		t.Fatalf("sinks = %d, want 1 (csv only)", len(sinks))
	}

	spec.Output.Sinks = []config.Sink{{Kind: "sqlite", DB: config.DBConfig{DSN: "x.db", Table: "t"}}}
	sinks, err = buildSinks(spec)
	if err != nil {
		t.Fatalf("buildSinks: %v", err)
	}
	if len(sinks) != 2 {
		t.Fatalf("sinks = %d, want 2", len(sinks))
	}

	spec.Output.Sinks = []config.Sink{{Kind: "kafka"}}
	if _, err := buildSinks(spec); err == nil {
		t.Fatalf("buildSinks(kafka) err = nil, want error")
	}
}
