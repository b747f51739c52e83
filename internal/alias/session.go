package alias

import "github.com/google/uuid"

// MaxLookups bounds the number of name lookups one fetch may perform
// during dependency discovery. The bound guards against a pathological
// alias whose derivation, directly or through a cycle, re-requests its
// own name and would otherwise recurse unboundedly.
const MaxLookups = 1000

// Resolution records how one name resolved. Built at most once per
// distinct name per session and immutable afterwards, so the discovery
// and evaluation passes see syntactically identical resolutions: the
// same alias, the same capture groups.
type Resolution struct {
	// Name is the resolved variable name.
	Name string

	// Terminal marks a raw source column with no further indirection.
	Terminal bool

	// alias and groups replay the derivation during evaluation.
	// Both are nil for terminal names.
	alias  *Alias
	groups []string
}

// Session is the per-fetch mutable state: the memoized resolution map,
// the terminal (raw) names discovered, and the lookup counter feeding
// the recursion guard.
//
// A session is exclusively owned by one fetch invocation and must never
// be shared across concurrent calls. Reset allows reuse across
// sequential calls without accumulating state.
type Session struct {
	token     string
	calls     int
	entries   map[string]*Resolution
	terminals []string
	seen      map[string]struct{}
}

// NewSession creates an empty session with a fresh correlation token.
func NewSession() *Session {
	return &Session{
		token:   uuid.NewString(),
		entries: make(map[string]*Resolution),
		seen:    make(map[string]struct{}),
	}
}

// Token returns the session correlation token, used to tie log lines
// and resolution errors back to one fetch invocation.
func (s *Session) Token() string {
	return s.token
}

// Reset clears all resolution state and issues a new token, making the
// session safe to reuse for an unrelated fetch.
func (s *Session) Reset() {
	s.token = uuid.NewString()
	s.calls = 0
	s.entries = make(map[string]*Resolution)
	s.terminals = nil
	s.seen = make(map[string]struct{})
}

// Resolution returns the recorded entry for name, if any.
func (s *Session) Resolution(name string) (*Resolution, bool) {
	r, ok := s.entries[name]
	return r, ok
}

// TerminalNames returns the raw column names discovered so far, in
// first-discovery order, without duplicates.
func (s *Session) TerminalNames() []string {
	return s.terminals
}

// recordTerminal memoizes name as a raw column and adds it to the
// terminal set.
func (s *Session) recordTerminal(name string) {
	s.entries[name] = &Resolution{Name: name, Terminal: true}
	if _, dup := s.seen[name]; dup {
		return
	}
	s.seen[name] = struct{}{}
	s.terminals = append(s.terminals, name)
}

// recordAlias memoizes name as derived through a, with its capture groups.
func (s *Session) recordAlias(name string, a *Alias, groups []string) {
	s.entries[name] = &Resolution{Name: name, alias: a, groups: groups}
}
