// Package config defines the canonical, JSON-serializable configuration
// model for a crosstab run. It is intentionally small and explicit so that a
// run can be described either by CLI flags or by a spec file on disk and
// passed through the program without additional glue code.
//
// Example spec file (trimmed):
//
//	{
//	  "job":    "sales_by_month",
//	  "input":  { "path": "sales.csv", "options": { "trim_space": true } },
//	  "output": { "path": "wide.csv" },
//	  "columns": {
//	    "row_keys":   ["region"],
//	    "col_keys":   ["month"],
//	    "value_cols": ["sales"]
//	  },
//	  "format": 1
//	}
package config

import "encoding/json"

// Spec describes one crosstab run end to end: where the input comes from,
// which columns drive the pivot, how headers are formatted, and where the
// output goes.
type Spec struct {
	// Job is an optional label used in logs and metrics.
	Job string `json:"job"`

	// Input locates and configures the normalized-form source table.
	Input Input `json:"input"`

	// Output locates the primary .csv destination and any extra sinks.
	Output Output `json:"output"`

	// Columns names the row-key, column-key, and value columns.
	Columns Columns `json:"columns"`

	// Format selects the header convention (1-4). See the xtab package.
	Format int `json:"format"`
}

// Input identifies the source file and its parser options.
type Input struct {
	// Path is the local filesystem path to the input file. The first line
	// must contain column names.
	Path string `json:"path"`

	// Options is a free-form map interpreted by the CSV reader. Typical
	// keys: comma (string), trim_space (bool), lazy_quotes (bool),
	// fold_header_diacritics (bool).
	Options Options `json:"options"`
}

// Output identifies the destinations for the pivoted table.
type Output struct {
	// Path is the primary output file. It must end in ".csv".
	Path string `json:"path"`

	// Comma optionally overrides the output delimiter (first rune used).
	Comma string `json:"comma"`

	// Sinks lists additional destinations written alongside the csv file.
	Sinks []Sink `json:"sinks"`
}

// Sink selects an additional output destination.
type Sink struct {
	// Kind selects the sink implementation: "sqlite" or "postgres".
	Kind string `json:"kind"`

	// DB carries connection settings for database sinks.
	DB DBConfig `json:"db"`
}

// DBConfig configures a database sink.
type DBConfig struct {
	// DSN is the driver connection string.
	DSN string `json:"dsn"`

	// Table is the destination table name (possibly schema-qualified for
	// Postgres). It is created with one TEXT column per output column when
	// absent.
	Table string `json:"table"`
}

// Columns names the three column roles of the pivot. Each list must be
// non-empty; existence against the input header is checked by the engine.
type Columns struct {
	RowKeys   []string `json:"row_keys"`
	ColKeys   []string `json:"col_keys"`
	ValueCols []string `json:"value_cols"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without a third-party configuration library. It performs only minimal type
// coercion and returns the provided defaults when a key is absent or of an
// unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Useful for single-character settings such as a CSV
// delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON decodes a missing or null "options" object to a non-nil,
// empty Options map, removing nil checks at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
