package alias

import (
	"fmt"

	"github.com/roach88/simtab/internal/table"
)

// materializer is the evaluation-pass Binding. It replays the
// resolution map built by the discovery pass against a table of real
// raw columns: terminal names read straight from the table, derived
// names re-run their recorded alias derivation with the recorded
// capture groups.
//
// Asking for a name the discovery pass never resolved, or for a raw
// column the fetch step omitted, is a sequencing bug and fails with
// UNRESOLVED_NAME or MISSING_COLUMN respectively.
type materializer struct {
	session *Session
	raw     *table.Table
}

func newMaterializer(session *Session, raw *table.Table) *materializer {
	return &materializer{session: session, raw: raw}
}

// Lookup returns the single real column for name. Names that expand to
// multiple columns cannot be used as an input inside another
// derivation.
func (m *materializer) Lookup(name string) (table.Column, error) {
	res, err := m.materialize(name)
	if err != nil {
		return table.Column{}, err
	}
	cols := res.Columns()
	if len(cols) != 1 {
		return table.Column{}, fmt.Errorf("name %q expands to %d columns and cannot be used as a single input", name, len(cols))
	}
	return cols[0], nil
}

// materialize evaluates name against the raw table, recursing through
// the recorded alias chain. Every derivation in the chain runs exactly
// once per requested output name; derivations are required to be pure,
// so no cross-name result caching is needed.
func (m *materializer) materialize(name string) (Result, error) {
	entry, ok := m.session.entries[name]
	if !ok {
		return Result{}, newUnresolvedNameError(m.session.token, name)
	}
	if entry.Terminal {
		col, ok := m.raw.Column(name)
		if !ok {
			return Result{}, newMissingColumnError(m.session.token, name)
		}
		return Single(col), nil
	}
	return entry.alias.transform(m, entry.groups)
}
