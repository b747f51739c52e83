package alias

// Group is a named, ordered collection of aliases.
//
// Order is part of the contract: resolution tries aliases in
// registration order and commits to the first regex match — not the
// best match, not all matches. Two overlapping patterns therefore
// resolve to whichever was registered first.
type Group struct {
	name    string
	aliases []*Alias
}

// NewGroup creates a group with the given aliases in registration order.
func NewGroup(name string, aliases ...*Alias) *Group {
	return &Group{name: name, aliases: aliases}
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// Add appends an alias, preserving registration order.
func (g *Group) Add(a *Alias) {
	g.aliases = append(g.aliases, a)
}

// Aliases returns the aliases in registration order.
// The returned slice must not be mutated.
func (g *Group) Aliases() []*Alias {
	return g.aliases
}

// Empty reports whether the group has no aliases. A source bound to an
// empty group behaves as if it had no group at all.
func (g *Group) Empty() bool {
	return g == nil || len(g.aliases) == 0
}

// match scans the aliases in order and returns the first whose pattern
// matches name, with its capture groups.
func (g *Group) match(name string) (*Alias, []string, bool) {
	if g == nil {
		return nil, nil, false
	}
	for _, a := range g.aliases {
		if groups, ok := a.match(name); ok {
			return a, groups, true
		}
	}
	return nil, nil, false
}
