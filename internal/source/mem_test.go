package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simtab/internal/table"
)

func TestMem_Fetch(t *testing.T) {
	tbl, err := table.New(
		table.NewFloat("X", []float64{1, 2}),
		table.NewString("MODE", []string{"ON", "OFF"}),
	)
	require.NoError(t, err)
	src := NewMem("run", tbl)

	assert.Equal(t, []string{"X", "MODE"}, src.ValidNames())

	out, err := src.Fetch(context.Background(), []string{"MODE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"MODE"}, out.Names())
}

func TestMem_Fetch_UnknownColumn(t *testing.T) {
	tbl, err := table.New(table.NewFloat("X", []float64{1}))
	require.NoError(t, err)
	src := NewMem("run", tbl)

	_, err = src.Fetch(context.Background(), []string{"Y"})
	assert.ErrorContains(t, err, `unknown column "Y"`)
}
