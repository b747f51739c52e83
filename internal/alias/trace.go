package alias

import "github.com/roach88/simtab/internal/table"

// tracer is the discovery-pass Binding. Every lookup resolves the name
// — first alias match wins, falling back to the source's raw columns —
// and returns an inert placeholder instead of data. Derivations are
// executed purely for their name-requesting behavior; the placeholder
// return value must never be inspected for real values. The useful
// output is the side channel: the session's resolution map and terminal
// name set.
type tracer struct {
	session *Session
	group   *Group
	valid   map[string]struct{}
}

// newTracer creates a discovery binding over the group's aliases and
// the source's valid raw names. group may be nil, in which case every
// name must be a raw column.
func newTracer(session *Session, group *Group, validNames []string) *tracer {
	valid := make(map[string]struct{}, len(validNames))
	for _, n := range validNames {
		valid[n] = struct{}{}
	}
	return &tracer{session: session, group: group, valid: valid}
}

// Lookup resolves name and records the outcome in the session.
//
// A name already resolved in this session is never re-matched: the
// cached entry stands and a placeholder is returned immediately. A name
// matching an alias runs the alias derivation against the tracer itself
// so that chained lookups are discovered recursively; the entry is
// recorded only after the derivation returns, so a derivation that
// re-requests its own name keeps recursing until the lookup counter
// trips the RECURSION_LIMIT guard instead of looping forever.
func (t *tracer) Lookup(name string) (table.Column, error) {
	t.session.calls++
	if t.session.calls > MaxLookups {
		return table.Column{}, newRecursionLimitError(t.session.token, name, MaxLookups)
	}

	if _, done := t.session.entries[name]; done {
		return table.Placeholder(), nil
	}

	if a, groups, ok := t.group.match(name); ok {
		// Run the derivation for effect: its lookups resolve through
		// this same tracer. The result is a placeholder and is dropped.
		if _, err := a.transform(t, groups); err != nil {
			return table.Column{}, err
		}
		t.session.recordAlias(name, a, groups)
		return table.Placeholder(), nil
	}

	if _, ok := t.valid[name]; !ok {
		return table.Column{}, newUnknownVariableError(t.session.token, name)
	}
	t.session.recordTerminal(name)
	return table.Placeholder(), nil
}
