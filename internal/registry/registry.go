// Package registry provides the CRUD layer around the alias engine:
// named sources, alias groups, and the bindings between them.
//
// A Registry is a plain value owned by the caller — create it, mutate
// it through registration calls, discard it. There is no process-wide
// instance. Registration follows upsert semantics: re-registering a
// group name atomically replaces the previous group and drops its
// source bindings.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/simtab/internal/alias"
	"github.com/roach88/simtab/internal/source"
	"github.com/roach88/simtab/internal/table"
)

// Registry holds sources, alias groups, and source-to-group bindings.
// Not safe for concurrent mutation; queries are safe concurrently once
// registration is complete, provided the sources themselves are.
type Registry struct {
	sources map[string]source.Source
	groups  map[string]*alias.Group
	binds   map[string]string // source name -> group name
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		sources: make(map[string]source.Source),
		groups:  make(map[string]*alias.Group),
		binds:   make(map[string]string),
	}
}

// AddSource registers a source under its name. If groupName is
// non-empty the source is bound to that group, creating the group empty
// if it does not exist yet.
func (r *Registry) AddSource(name string, src source.Source, groupName string) {
	r.sources[name] = src
	if groupName == "" {
		return
	}
	if _, ok := r.groups[groupName]; !ok {
		r.groups[groupName] = alias.NewGroup(groupName)
	}
	r.binds[name] = groupName
}

// RemoveSource unregisters a source and its group binding.
// Removing an unknown source is logged, not an error.
func (r *Registry) RemoveSource(name string) {
	if _, ok := r.sources[name]; !ok {
		slog.Warn("cannot remove source: it does not exist", "source", name)
		return
	}
	delete(r.sources, name)
	delete(r.binds, name)
}

// Source looks up a source by name.
func (r *Registry) Source(name string) (source.Source, bool) {
	src, ok := r.sources[name]
	return src, ok
}

// SourceNames returns the registered source names, sorted.
func (r *Registry) SourceNames() []string {
	names := make([]string, 0, len(r.sources))
	for n := range r.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AddGroup registers an alias group under name. This is an upsert, not
// an error: a previous group of the same name is replaced atomically
// and every source bound to it is unbound.
func (r *Registry) AddGroup(name string, aliases ...*alias.Alias) {
	if _, existed := r.groups[name]; existed {
		for srcName, groupName := range r.binds {
			if groupName == name {
				delete(r.binds, srcName)
			}
		}
	}
	r.groups[name] = alias.NewGroup(name, aliases...)
}

// Group looks up a group by name.
func (r *Registry) Group(name string) (*alias.Group, bool) {
	g, ok := r.groups[name]
	return g, ok
}

// Bind attaches the named sources to an existing group.
// Unknown group or source names are logged and skipped.
func (r *Registry) Bind(groupName string, sourceNames ...string) {
	if _, ok := r.groups[groupName]; !ok {
		slog.Warn("cannot bind group: it does not exist", "group", groupName)
		return
	}
	for _, srcName := range sourceNames {
		if _, ok := r.sources[srcName]; !ok {
			slog.Warn("cannot bind group to source: source does not exist",
				"group", groupName, "source", srcName)
			continue
		}
		r.binds[srcName] = groupName
	}
}

// AddAlias appends an alias to the named groups, preserving
// registration order within each group. Unknown groups are logged and
// skipped.
func (r *Registry) AddAlias(a *alias.Alias, groupNames ...string) {
	for _, gn := range groupNames {
		g, ok := r.groups[gn]
		if !ok {
			slog.Warn("cannot assign alias: group does not exist", "group", gn)
			continue
		}
		g.Add(a)
	}
}

// GroupFor returns the group bound to a source, or nil when the source
// has no binding. A nil group disables aliasing for the source.
func (r *Registry) GroupFor(sourceName string) *alias.Group {
	gn, ok := r.binds[sourceName]
	if !ok {
		return nil
	}
	return r.groups[gn]
}

// Fetch resolves and fetches a request against one named source.
// Requested names are NFC-normalized before matching, so composed and
// decomposed spellings of the same variable resolve identically.
func (r *Registry) Fetch(ctx context.Context, sourceName string, req alias.Request) (*table.Table, error) {
	src, ok := r.sources[sourceName]
	if !ok {
		return nil, fmt.Errorf("source %q does not exist", sourceName)
	}
	req.Names = normalizeNames(req.Names)
	return alias.Fetch(ctx, src, r.GroupFor(sourceName), req)
}

// Tables fans one request across several sources, keyed by source name.
// With no source names given, all registered sources are queried.
// Unknown source names are logged and skipped; fetch failures abort.
func (r *Registry) Tables(ctx context.Context, req alias.Request, sourceNames ...string) (map[string]*table.Table, error) {
	if len(sourceNames) == 0 {
		sourceNames = r.SourceNames()
	}
	out := make(map[string]*table.Table, len(sourceNames))
	for _, sn := range sourceNames {
		if _, ok := r.sources[sn]; !ok {
			slog.Warn("source does not exist; skipping", "source", sn)
			continue
		}
		tbl, err := r.Fetch(ctx, sn, req)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", sn, err)
		}
		out[sn] = tbl
	}
	return out, nil
}

// normalizeNames returns the NFC normalization of each name.
// Nil stays nil: a nil request means "all valid names".
func normalizeNames(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = norm.NFC.String(n)
	}
	return out
}
