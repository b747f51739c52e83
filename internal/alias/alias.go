// Package alias implements derived-variable resolution for tabular
// simulation output.
//
// An Alias is a (regex, derivation) rule: a requested variable name is
// matched against registered patterns, the capture groups are bound as
// text parameters, and the derivation computes the variable from other
// raw or derived columns. Derivations request their inputs through a
// Binding, which is polymorphic over two passes:
//
//   - a discovery pass that records which raw columns a request needs,
//     returning inert placeholders instead of data
//   - an evaluation pass that replays the identical resolution against
//     the fetched raw table
//
// Fetch drives both passes: discover, fetch raw columns, evaluate,
// filter, slice.
package alias

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/roach88/simtab/internal/table"
)

// Binding is the capability a derivation uses to request other columns
// by name. Lookups resolve through further aliases transitively until
// they reach raw source columns.
//
// During the discovery pass the returned column is an inert placeholder
// (see table.Placeholder); derivations must pass it through arithmetic
// and chained lookups without branching on its values.
type Binding interface {
	Lookup(name string) (table.Column, error)
}

// Transform derives one or more columns from columns requested through
// the binding. groups holds the regex capture groups of the matched
// name, as untyped text, in pattern order.
//
// A transform must be well-defined for any capture-group tuple its
// pattern can produce, and must be pure: both passes invoke it with the
// same groups and expect the same lookups.
type Transform func(b Binding, groups []string) (Result, error)

// Result is a transform's output: either a single column, renamed to
// the requested name in the final table, or an expansion into several
// columns kept under their intrinsic names.
type Result struct {
	cols   []table.Column
	expand bool
}

// Single wraps one derived column. The orchestrator renames it to the
// requested variable name in the output table.
func Single(c table.Column) Result {
	return Result{cols: []table.Column{c}}
}

// Expand wraps a list of columns that one name fans out to. Each is
// kept under its own intrinsic name in the output table.
func Expand(cols ...table.Column) Result {
	return Result{cols: cols, expand: true}
}

// Columns returns the result's columns in order.
func (r Result) Columns() []table.Column {
	return r.cols
}

// Expanded reports whether the result is a multi-column expansion.
func (r Result) Expanded() bool {
	return r.expand
}

// Alias is a single derivation rule. Immutable after creation; many
// names may match the same alias.
type Alias struct {
	pattern   *regexp.Regexp
	transform Transform
}

// New creates an alias from a regex pattern and a transform.
// The pattern may contain zero or more capture groups. A pattern that
// does not compile is rejected with an INVALID_PATTERN error.
func New(pattern string, transform Transform) (*Alias, error) {
	if transform == nil {
		return nil, errors.New("alias transform is required")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, newInvalidPatternError(pattern, err)
	}
	return &Alias{pattern: re, transform: transform}, nil
}

// NewTemplate creates the common rename alias: the matched name is
// redirected to another variable name produced by interpolating the
// capture groups into template. Group references are positional text
// substitutions: $1 is the first capture group, $2 the second, and so
// on. Groups are never converted to numbers.
//
// Example:
//
//	NewTemplate(`^zone_(\d+)_temp$`, `ZONE[$1]:TEMPERATURE`)
//
// resolves "zone_3_temp" through the variable "ZONE[3]:TEMPERATURE".
func NewTemplate(pattern, template string) (*Alias, error) {
	return New(pattern, func(b Binding, groups []string) (Result, error) {
		col, err := b.Lookup(expandTemplate(template, groups))
		if err != nil {
			return Result{}, err
		}
		return Single(col), nil
	})
}

// Pattern returns the alias regex source text.
func (a *Alias) Pattern() string {
	return a.pattern.String()
}

// match tests name against the alias pattern. The match is an
// unanchored search; on success it returns the capture groups in
// pattern order.
func (a *Alias) match(name string) ([]string, bool) {
	m := a.pattern.FindStringSubmatch(name)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

var groupRef = regexp.MustCompile(`\$(\d+)`)

// expandTemplate substitutes positional group references ($1, $2, ...)
// in template with the captured group text. References past the end of
// groups expand to the empty string.
func expandTemplate(template string, groups []string) string {
	return groupRef.ReplaceAllStringFunc(template, func(ref string) string {
		i, err := strconv.Atoi(ref[1:])
		if err != nil || i < 1 || i > len(groups) {
			return ""
		}
		return groups[i-1]
	})
}
