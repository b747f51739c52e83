// Package table provides the in-memory column/table model the alias
// engine operates on.
//
// A Table is an ordered collection of named, typed, row-aligned columns.
// Columns are treated as opaque aligned arrays indexable by name; the
// engine never interprets values beyond boolean masks for row filtering.
package table

import "fmt"

// Kind identifies the value type of a column.
type Kind int

const (
	// Float holds float64 values (simulation reals).
	Float Kind = iota
	// Int holds int64 values.
	Int
	// Bool holds boolean values.
	Bool
	// String holds string values (categorical/enumerated data).
	String
)

// String returns a human-readable kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is a named, typed array of values. Exactly one of the value
// slices is populated, selected by Kind.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Ints    []int64
	Bools   []bool
	Strings []string
}

// NewFloat creates a float column.
func NewFloat(name string, values []float64) Column {
	return Column{Name: name, Kind: Float, Floats: values}
}

// NewInt creates an integer column.
func NewInt(name string, values []int64) Column {
	return Column{Name: name, Kind: Int, Ints: values}
}

// NewBool creates a boolean column.
func NewBool(name string, values []bool) Column {
	return Column{Name: name, Kind: Bool, Bools: values}
}

// NewString creates a string column.
func NewString(name string, values []string) Column {
	return Column{Name: name, Kind: String, Strings: values}
}

// Len returns the number of rows in the column.
func (c Column) Len() int {
	switch c.Kind {
	case Float:
		return len(c.Floats)
	case Int:
		return len(c.Ints)
	case Bool:
		return len(c.Bools)
	case String:
		return len(c.Strings)
	default:
		return 0
	}
}

// Renamed returns a copy of the column under a new name.
// The value slice is shared; columns are treated as immutable.
func (c Column) Renamed(name string) Column {
	c.Name = name
	return c
}

// Value returns the row value at index i as an any, for rendering.
func (c Column) Value(i int) any {
	switch c.Kind {
	case Float:
		return c.Floats[i]
	case Int:
		return c.Ints[i]
	case Bool:
		return c.Bools[i]
	case String:
		return c.Strings[i]
	default:
		return nil
	}
}

// Float64s returns the column values as float64, converting integer
// columns. Boolean and string columns cannot be converted.
func (c Column) Float64s() ([]float64, error) {
	switch c.Kind {
	case Float:
		return c.Floats, nil
	case Int:
		out := make([]float64, len(c.Ints))
		for i, v := range c.Ints {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("column %q is %s, not numeric", c.Name, c.Kind)
	}
}

// BoolValues returns the column values as a boolean row mask.
func (c Column) BoolValues() ([]bool, error) {
	if c.Kind != Bool {
		return nil, fmt.Errorf("column %q is %s, not bool", c.Name, c.Kind)
	}
	return c.Bools, nil
}

// filter returns a copy of the column keeping only rows where mask is true.
func (c Column) filter(mask []bool) Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case Float:
		for i, keep := range mask {
			if keep {
				out.Floats = append(out.Floats, c.Floats[i])
			}
		}
	case Int:
		for i, keep := range mask {
			if keep {
				out.Ints = append(out.Ints, c.Ints[i])
			}
		}
	case Bool:
		for i, keep := range mask {
			if keep {
				out.Bools = append(out.Bools, c.Bools[i])
			}
		}
	case String:
		for i, keep := range mask {
			if keep {
				out.Strings = append(out.Strings, c.Strings[i])
			}
		}
	}
	return out
}

// slice returns the half-open row range [lo, hi) of the column.
func (c Column) slice(lo, hi int) Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case Float:
		out.Floats = c.Floats[lo:hi]
	case Int:
		out.Ints = c.Ints[lo:hi]
	case Bool:
		out.Bools = c.Bools[lo:hi]
	case String:
		out.Strings = c.Strings[lo:hi]
	}
	return out
}

// Span selects a positional half-open row range [Start, End).
// End < 0 means "through the last row".
type Span struct {
	Start int
	End   int
}

// bounds clamps the span to a table of n rows.
func (s Span) bounds(n int) (int, int) {
	lo := s.Start
	if lo < 0 {
		lo = 0
	}
	if lo > n {
		lo = n
	}
	hi := s.End
	if hi < 0 || hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Table is an ordered set of row-aligned columns indexed by name.
//
// Column order is significant: it is the order columns were appended,
// which the engine uses to preserve requested-name order in results.
type Table struct {
	cols  []Column
	index map[string]int
}

// New creates a table from the given columns.
// All columns must have the same length and distinct names.
func New(cols ...Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := t.Append(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Len returns the number of rows (zero for an empty table).
func (t *Table) Len() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.cols)
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in table order.
// The returned slice must not be mutated.
func (t *Table) Columns() []Column {
	return t.cols
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// Append adds a column to the table.
// Fails if the name is already present or the row count disagrees.
func (t *Table) Append(c Column) error {
	if _, exists := t.index[c.Name]; exists {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.Len() {
		return fmt.Errorf("column %q has %d rows, table has %d", c.Name, c.Len(), t.Len())
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Filter returns a new table keeping only rows where mask is true.
// The mask length must equal the row count.
func (t *Table) Filter(mask []bool) (*Table, error) {
	if len(mask) != t.Len() {
		return nil, fmt.Errorf("mask has %d rows, table has %d", len(mask), t.Len())
	}
	out := &Table{index: make(map[string]int, len(t.cols))}
	for _, c := range t.cols {
		if err := out.Append(c.filter(mask)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Slice returns a new table restricted to the span's row range.
func (t *Table) Slice(span Span) *Table {
	lo, hi := span.bounds(t.Len())
	out := &Table{index: make(map[string]int, len(t.cols))}
	for _, c := range t.cols {
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, c.slice(lo, hi))
	}
	return out
}
