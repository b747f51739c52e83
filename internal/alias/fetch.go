package alias

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/simtab/internal/source"
	"github.com/roach88/simtab/internal/table"
)

// Filter is a row predicate expressed over name-indexable data. It must
// return a boolean column aligned with the source rows.
//
// The filter runs twice per fetch: once against the discovery binding,
// so that names referenced only inside the filter are still fetched,
// and once against real data to build the row mask. It must therefore
// be pure and must treat discovery-pass values as opaque.
type Filter func(b Binding) (table.Column, error)

// Request describes one fetch call.
type Request struct {
	// Names are the variables to return, in output order. Nil means
	// every raw column of the source, with no aliasing applied.
	Names []string

	// Filter optionally masks rows. May reference aliased names that
	// are not in Names.
	Filter Filter

	// Span optionally restricts the result to a positional row range,
	// applied after filtering.
	Span *table.Span
}

// Fetch resolves the requested names against the group's aliases,
// reads exactly the raw columns the resolution needs from src, and
// evaluates the derivations against the fetched data.
//
// Guarantees: output column order equals requested-name order, with
// multi-column expansions inlined in place; output row order equals
// source row order, filtered then sliced. A name that matches no alias
// and no raw column fails with UNKNOWN_VARIABLE attributed to that
// name, never silently dropped.
//
// Aliasing is strictly opt-in per source: with a nil or empty group and
// no filter, the request passes straight through to src.Fetch.
func Fetch(ctx context.Context, src source.Source, group *Group, req Request) (*table.Table, error) {
	names := req.Names
	if names == nil {
		// All raw columns, unaliased. An unanchored alias pattern may
		// overlap a raw column name; a whole-source request must still
		// return the raw data. The filter, if any, resolves against raw
		// columns only.
		names = src.ValidNames()
		group = nil
	}

	// Fast path: no aliases to resolve, no filter to discover names for.
	if group.Empty() && req.Filter == nil {
		tbl, err := src.Fetch(ctx, names)
		if err != nil {
			return nil, err
		}
		if req.Span != nil {
			tbl = tbl.Slice(*req.Span)
		}
		return tbl, nil
	}

	session := NewSession()
	tr := newTracer(session, group, src.ValidNames())

	// Discover names referenced only inside the filter. The filter's
	// return value is a placeholder here and is dropped; only the
	// session side channel matters.
	if req.Filter != nil {
		if _, err := req.Filter(tr); err != nil {
			return nil, err
		}
	}
	for _, n := range names {
		if _, err := tr.Lookup(n); err != nil {
			return nil, err
		}
	}

	terminals := session.TerminalNames()
	slog.Debug("alias resolution complete",
		"session", session.Token(),
		"requested", len(names),
		"raw_columns", len(terminals))

	raw, err := src.Fetch(ctx, terminals)
	if err != nil {
		return nil, err
	}

	mat := newMaterializer(session, raw)
	out, err := table.New()
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		res, err := mat.materialize(n)
		if err != nil {
			return nil, err
		}
		if res.Expanded() {
			for _, c := range res.Columns() {
				if err := out.Append(c); err != nil {
					return nil, err
				}
			}
			continue
		}
		cols := res.Columns()
		if len(cols) == 0 {
			return nil, fmt.Errorf("name %q resolved to no columns", n)
		}
		if err := out.Append(cols[0].Renamed(n)); err != nil {
			return nil, err
		}
	}

	if req.Filter != nil {
		col, err := req.Filter(mat)
		if err != nil {
			return nil, err
		}
		mask, err := col.BoolValues()
		if err != nil {
			return nil, err
		}
		out, err = out.Filter(mask)
		if err != nil {
			return nil, err
		}
	}
	if req.Span != nil {
		out = out.Slice(*req.Span)
	}
	return out, nil
}
