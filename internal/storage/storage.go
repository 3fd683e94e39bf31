// Package storage defines the sink abstraction the CLI hands a finished
// crosstab table to, plus the default CSV file sink. Database-backed sinks
// live in subpackages so their drivers stay isolated.
package storage

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/geocoug/xtab/internal/table"
)

// Sink persists one output table. Implementations must not modify the table.
type Sink interface {
	Write(ctx context.Context, t *table.Table) error
}

// WriteAll writes t to every sink concurrently and returns the first error.
// Sinks only ever run after the pivot has completed, so a failing sink can
// leave its own destination partial but never corrupts another sink's.
func WriteAll(ctx context.Context, t *table.Table, sinks ...Sink) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range sinks {
		s := s
		g.Go(func() error { return s.Write(ctx, t) })
	}
	return g.Wait()
}
