// Package postgres implements a Postgres-backed storage.Sink using pgx v5.
// The output table is recreated with one TEXT column per output column and
// populated with a single COPY.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geocoug/xtab/internal/table"
)

// Config holds Postgres sink configuration.
type Config struct {
	// DSN is the connection string for pgxpool (e.g. postgresql://...).
	DSN string

	// Table is the destination table name, optionally schema-qualified
	// (e.g. "public.sales_wide"). It is dropped and recreated on Write.
	Table string
}

// Sink is a Postgres-backed implementation of storage.Sink.
type Sink struct{ cfg Config }

// New returns a Sink for the given configuration.
func New(cfg Config) *Sink { return &Sink{cfg: cfg} }

// Write stores t in the configured table via COPY. Like the sqlite sink it
// requires a single-header-row table with unique column names (format 1).
func (s *Sink) Write(ctx context.Context, t *table.Table) error {
	if len(t.Header) != 1 {
		return fmt.Errorf("postgres: multi-row header (%d rows) cannot be stored relationally; use format 1", len(t.Header))
	}
	cols := t.Names()

	pool, err := pgxpool.New(ctx, s.cfg.DSN)
	if err != nil {
		return fmt.Errorf("postgres: pgxpool: %w", err)
	}
	defer pool.Close()

	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = pgIdent(c) + " TEXT"
	}
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+pgFQN(s.cfg.Table)); err != nil {
		return fmt.Errorf("postgres: drop table: %w", err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", pgFQN(s.cfg.Table), strings.Join(defs, ", "))
	if _, err := pool.Exec(ctx, create); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}

	if len(t.Rows) == 0 {
		return nil
	}

	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		vals := make([]any, len(row))
		for j, v := range row {
			if v == "" {
				vals[j] = nil // absent combinations store as NULL
			} else {
				vals[j] = v
			}
		}
		rows[i] = vals
	}

	n, err := pool.CopyFrom(ctx, splitFQN(s.cfg.Table), cols, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("postgres: copy: %w", err)
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("postgres: copy wrote %d of %d rows", n, len(rows))
	}
	return nil
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "public.sales_wide" to
// "public"."sales_wide". If no dot is present, returns a single quoted ident.
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
// If no dot is present, returns {"table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}
