// Package sqlite implements a SQLite-backed storage.Sink using database/sql.
// It creates the destination table with one TEXT column per output column
// and performs batched INSERTs inside a transaction; SQLite has no dedicated
// bulk-load API, but a single transaction keeps performance acceptable for
// crosstab-sized volumes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// SQLite driver; registers as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/geocoug/xtab/internal/table"
)

// Config holds SQLite sink configuration.
type Config struct {
	// DSN is passed to database/sql, e.g. "wide.db" or
	// "file:wide.db?cache=shared".
	DSN string

	// Table is the destination table name. An existing table with the same
	// name is dropped first so reruns replace the previous output.
	Table string
}

// Sink is a SQLite-backed implementation of storage.Sink.
type Sink struct{ cfg Config }

// New returns a Sink for the given configuration.
func New(cfg Config) *Sink { return &Sink{cfg: cfg} }

// Write stores t in the configured table. It requires a single-header-row
// table with unique column names (crosstab format 1); multi-row headers have
// no relational representation.
func (s *Sink) Write(ctx context.Context, t *table.Table) error {
	if strings.TrimSpace(s.cfg.DSN) == "" {
		return fmt.Errorf("sqlite: DSN must not be empty")
	}
	cols, err := relationalColumns(t)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}

	db, err := sql.Open("sqlite", s.cfg.DSN)
	if err != nil {
		return fmt.Errorf("sqlite: open: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}

	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c) + " TEXT"
	}
	if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(s.cfg.Table)); err != nil {
		return fmt.Errorf("sqlite: drop table: %w", err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(s.cfg.Table), strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}

	if len(t.Rows) == 0 {
		return nil
	}

	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	stmtSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(s.cfg.Table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range t.Rows {
		args := make([]any, len(row))
		for j, v := range row {
			if v == "" {
				args[j] = nil // absent combinations store as NULL
			} else {
				args[j] = v
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite: insert row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// relationalColumns returns the unique flat column names of t or an error
// when the header cannot map onto a database table.
func relationalColumns(t *table.Table) ([]string, error) {
	if len(t.Header) != 1 {
		return nil, fmt.Errorf("multi-row header (%d rows) cannot be stored relationally; use format 1", len(t.Header))
	}
	names := t.Names()
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("duplicate output column %q", n)
		}
		seen[n] = struct{}{}
	}
	return names, nil
}

// quoteIdent safely quotes a single identifier for SQLite.
func quoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
