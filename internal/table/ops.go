package table

import "fmt"

// PlaceholderName is the column name of the inert trace-pass token.
const PlaceholderName = "_placeholder"

// Placeholder returns the inert single-row column handed to derivation
// functions while dependencies are being discovered, before any real
// data exists. Derivations must treat it as an opaque token: pass it
// through arithmetic and chained lookups, never branch on its values.
func Placeholder() Column {
	return NewFloat(PlaceholderName, []float64{1})
}

// MapFloat applies fn elementwise to a numeric column.
func MapFloat(name string, c Column, fn func(float64) float64) (Column, error) {
	vals, err := c.Float64s()
	if err != nil {
		return Column{}, err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = fn(v)
	}
	return NewFloat(name, out), nil
}

// ZipFloat combines two numeric columns elementwise.
// The columns must have the same row count.
func ZipFloat(name string, a, b Column, fn func(x, y float64) float64) (Column, error) {
	xs, err := a.Float64s()
	if err != nil {
		return Column{}, err
	}
	ys, err := b.Float64s()
	if err != nil {
		return Column{}, err
	}
	if len(xs) != len(ys) {
		return Column{}, fmt.Errorf("columns %q (%d rows) and %q (%d rows) are not aligned",
			a.Name, len(xs), b.Name, len(ys))
	}
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = fn(xs[i], ys[i])
	}
	return NewFloat(name, out), nil
}

// CompareFloat applies a predicate elementwise to a numeric column,
// producing a boolean column usable as a row mask.
func CompareFloat(name string, c Column, pred func(float64) bool) (Column, error) {
	vals, err := c.Float64s()
	if err != nil {
		return Column{}, err
	}
	out := make([]bool, len(vals))
	for i, v := range vals {
		out[i] = pred(v)
	}
	return NewBool(name, out), nil
}

// CompareString applies a predicate elementwise to a string column,
// producing a boolean column usable as a row mask.
func CompareString(name string, c Column, pred func(string) bool) (Column, error) {
	if c.Kind != String {
		return Column{}, fmt.Errorf("column %q is %s, not string", c.Name, c.Kind)
	}
	out := make([]bool, len(c.Strings))
	for i, v := range c.Strings {
		out[i] = pred(v)
	}
	return NewBool(name, out), nil
}

// And combines two boolean columns elementwise.
func And(name string, a, b Column) (Column, error) {
	xs, err := a.BoolValues()
	if err != nil {
		return Column{}, err
	}
	ys, err := b.BoolValues()
	if err != nil {
		return Column{}, err
	}
	if len(xs) != len(ys) {
		return Column{}, fmt.Errorf("columns %q (%d rows) and %q (%d rows) are not aligned",
			a.Name, len(xs), b.Name, len(ys))
	}
	out := make([]bool, len(xs))
	for i := range xs {
		out[i] = xs[i] && ys[i]
	}
	return NewBool(name, out), nil
}
