// Package source defines the storage collaborators the alias engine
// reads from, and concrete sources backed by memory, parquet files,
// and SQLite tables.
//
// A Source exposes the raw column names it can serve and a column-wise
// fetch. The engine never mutates a source; it only reads ValidNames
// and calls Fetch. Degraded sources (missing files, unreadable data)
// must surface as an error or an empty result, never as silently wrong
// data.
package source

import (
	"context"

	"github.com/roach88/simtab/internal/table"
)

// Source is a provider of raw, typed, row-aligned columns.
type Source interface {
	// ValidNames returns the column names fetchable without aliasing.
	ValidNames() []string

	// Fetch returns a table containing exactly the requested columns,
	// each typed per the source's own schema.
	Fetch(ctx context.Context, names []string) (*table.Table, error)
}
