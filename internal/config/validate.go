// Static validation for Spec values. Checks run before any input is read and
// accumulate every finding rather than stopping at the first, so a user can
// fix the whole configuration in one pass.
package config

import (
	"fmt"
	"os"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding surfaced to users without blocking
	// execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Spec.
//
// Path is a dotted path into the config (e.g. "output.path",
// "columns.row_keys"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where needed.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasError reports whether any issue in the slice is an error.
func HasError(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateSpec performs static validation of a Spec. It does not mutate the
// spec; it returns a slice of Issue values for the caller to surface.
//
// Column existence against the input header is the engine's job; this
// function covers everything checkable without reading the input: paths,
// extension, format code, non-empty column lists, and sink settings.
func ValidateSpec(s Spec) []Issue {
	var issues []Issue

	issues = append(issues, validateInput(s.Input)...)
	issues = append(issues, validateOutput(s.Output)...)
	issues = append(issues, validateColumns(s.Columns)...)

	if s.Format < 1 || s.Format > 4 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "format",
			Message:  fmt.Sprintf("format must be between 1 and 4, got %d", s.Format),
		})
	}
	for _, sk := range s.Output.Sinks {
		if (sk.Kind == "sqlite" || sk.Kind == "postgres") && s.Format != 1 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "output.sinks",
				Message:  fmt.Sprintf("%s sink requires format 1 (unique flat column names), got format %d", sk.Kind, s.Format),
			})
		}
	}

	return issues
}

// validateInput checks the input path and existence.
func validateInput(in Input) []Issue {
	var issues []Issue
	if strings.TrimSpace(in.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input.path",
			Message:  "input.path must not be empty",
		})
		return issues
	}
	if _, err := os.Stat(in.Path); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input.path",
			Message:  fmt.Sprintf("input file does not exist: %s", in.Path),
		})
	}
	return issues
}

// validateOutput checks the output path extension and sink settings.
func validateOutput(out Output) []Issue {
	var issues []Issue
	if strings.TrimSpace(out.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.path",
			Message:  "output.path must not be empty",
		})
	} else if !strings.HasSuffix(out.Path, ".csv") {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.path",
			Message:  fmt.Sprintf("output file must be a .csv file: %s", out.Path),
		})
	}

	known := map[string]struct{}{
		"sqlite":   {},
		"postgres": {},
	}
	for i, sk := range out.Sinks {
		path := fmt.Sprintf("output.sinks[%d]", i)
		if _, ok := known[sk.Kind]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".kind",
				Message:  fmt.Sprintf("unknown sink kind %q; ensure a matching implementation exists", sk.Kind),
			})
			continue
		}
		if strings.TrimSpace(sk.DB.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".db.dsn",
				Message:  "db.dsn must not be empty",
			})
		}
		if strings.TrimSpace(sk.DB.Table) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".db.table",
				Message:  "db.table must not be empty",
			})
		}
	}
	return issues
}

// validateColumns checks that each role list is non-empty and warns when a
// name appears in more than one role. Reuse is not blocked: the engine
// handles the overlap deterministically, but the output is rarely what the
// user intended.
func validateColumns(c Columns) []Issue {
	var issues []Issue

	lists := []struct {
		path  string
		names []string
	}{
		{"columns.row_keys", c.RowKeys},
		{"columns.col_keys", c.ColKeys},
		{"columns.value_cols", c.ValueCols},
	}
	seen := map[string]string{}
	for _, l := range lists {
		if len(l.names) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     l.path,
				Message:  "at least one column name is required",
			})
		}
		for _, n := range l.names {
			if strings.TrimSpace(n) == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     l.path,
					Message:  "column names must not be empty",
				})
				continue
			}
			if prev, ok := seen[n]; ok && prev != l.path {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     l.path,
					Message:  fmt.Sprintf("column %q is also listed in %s", n, prev),
				})
				continue
			}
			seen[n] = l.path
		}
	}
	return issues
}
