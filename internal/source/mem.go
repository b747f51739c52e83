package source

import (
	"context"
	"fmt"

	"github.com/roach88/simtab/internal/table"
)

// Mem is an in-memory source backed by a fixed table. Used by tests
// and for data already assembled by the caller.
type Mem struct {
	name string
	tbl  *table.Table
}

// NewMem creates a memory source over the given table.
func NewMem(name string, tbl *table.Table) *Mem {
	return &Mem{name: name, tbl: tbl}
}

// Name returns the source name.
func (m *Mem) Name() string {
	return m.name
}

// ValidNames returns the backing table's column names.
func (m *Mem) ValidNames() []string {
	return m.tbl.Names()
}

// Fetch returns a table with exactly the requested columns.
func (m *Mem) Fetch(_ context.Context, names []string) (*table.Table, error) {
	out, err := table.New()
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		col, ok := m.tbl.Column(n)
		if !ok {
			return nil, fmt.Errorf("source %q: unknown column %q", m.name, n)
		}
		if err := out.Append(col); err != nil {
			return nil, err
		}
	}
	return out, nil
}
