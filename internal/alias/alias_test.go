package alias

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simtab/internal/table"
)

func passthrough(b Binding, groups []string) (Result, error) {
	col, err := b.Lookup("X")
	if err != nil {
		return Result{}, err
	}
	return Single(col), nil
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(`zone_(`, passthrough)
	require.Error(t, err)
	assert.True(t, IsInvalidPattern(err))

	var re *ResolveError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidPattern, re.Code)
	assert.Equal(t, `zone_(`, re.Name)
}

func TestNew_NilTransform(t *testing.T) {
	_, err := New(`^X$`, nil)
	assert.ErrorContains(t, err, "transform is required")
}

func TestAlias_Match(t *testing.T) {
	a, err := New(`^zone_(\d+)_(temp|rh)$`, passthrough)
	require.NoError(t, err)

	groups, ok := a.match("zone_42_temp")
	require.True(t, ok)
	assert.Equal(t, []string{"42", "temp"}, groups)

	_, ok = a.match("site_temp")
	assert.False(t, ok)
}

func TestAlias_Match_UnanchoredSearch(t *testing.T) {
	a, err := New(`zone_(\d+)`, passthrough)
	require.NoError(t, err)

	groups, ok := a.match("prefix_zone_7_suffix")
	require.True(t, ok)
	assert.Equal(t, []string{"7"}, groups)
}

func TestExpandTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		groups   []string
		want     string
	}{
		{"positional", "ZONE[$1]:$2", []string{"3", "TEMP"}, "ZONE[3]:TEMP"},
		{"no refs", "SITE:TEMP", []string{"ignored"}, "SITE:TEMP"},
		{"out of range", "A$3B", []string{"x"}, "AB"},
		{"zero index ignored", "A$0B", []string{"x"}, "AB"},
		{"groups stay text", "V[$1]", []string{"007"}, "V[007]"},
		{"repeated ref", "$1+$1", []string{"q"}, "q+q"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandTemplate(tt.template, tt.groups))
		})
	}
}

func TestGroup_FirstMatchWins(t *testing.T) {
	first, err := New(`^V`, passthrough)
	require.NoError(t, err)
	second, err := New(`^VAR$`, passthrough)
	require.NoError(t, err)

	g := NewGroup("g", first, second)
	a, _, ok := g.match("VAR")
	require.True(t, ok)
	assert.Same(t, first, a, "registration order decides overlapping matches")
}

func TestGroup_Empty(t *testing.T) {
	var g *Group
	assert.True(t, g.Empty())
	assert.True(t, NewGroup("g").Empty())

	a, err := New(`^X$`, passthrough)
	require.NoError(t, err)
	g2 := NewGroup("g")
	g2.Add(a)
	assert.False(t, g2.Empty())
}

func TestResult_SingleAndExpand(t *testing.T) {
	c := table.NewFloat("x", []float64{1})
	s := Single(c)
	assert.False(t, s.Expanded())
	assert.Len(t, s.Columns(), 1)

	e := Expand(c, table.NewFloat("y", []float64{2}))
	assert.True(t, e.Expanded())
	assert.Len(t, e.Columns(), 2)
}
