package cli

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simtab/internal/alias"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simtab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func newResultsDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE run_output (step INTEGER, "ZONE[1]:TEMPERATURE" REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO run_output VALUES (1, 20.5), (2, 22.0)`)
	require.NoError(t, err)
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: results
    type: sqlite
    path: /tmp/results.db
    table: run_output
    group: ep
groups:
  - name: ep
    aliases:
      - pattern: '^zone_(\d+)_temp$'
        template: 'ZONE[$1]:TEMPERATURE'
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "results", cfg.Sources[0].Name)
	assert.Equal(t, "sqlite", cfg.Sources[0].Type)
	assert.Equal(t, "run_output", cfg.Sources[0].Table)
	assert.Equal(t, "ep", cfg.Sources[0].Group)

	require.Len(t, cfg.Groups, 1)
	require.Len(t, cfg.Groups[0].Aliases, 1)
	assert.Equal(t, `ZONE[$1]:TEMPERATURE`, cfg.Groups[0].Aliases[0].Template)
}

func TestLoadConfig_SchemaRejectsUnknownField(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: results
    type: sqlite
    pth: typo.db
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadConfig_SchemaRejectsBadSourceType(t *testing.T) {
	path := writeConfig(t, `
sources:
  - name: results
    type: csv
    path: results.csv
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestBuildRegistry_EndToEnd(t *testing.T) {
	dbPath := newResultsDB(t)
	cfg := &Config{
		Sources: []SourceConfig{{
			Name:  "results",
			Type:  "sqlite",
			Path:  dbPath,
			Table: "run_output",
			Group: "ep",
		}},
		Groups: []GroupConfig{{
			Name: "ep",
			Aliases: []AliasConfig{{
				Pattern:  `^zone_(\d+)_temp$`,
				Template: `ZONE[$1]:TEMPERATURE`,
			}},
		}},
	}

	reg, err := BuildRegistry(cfg)
	require.NoError(t, err)

	tbl, err := reg.Fetch(context.Background(), "results",
		alias.Request{Names: []string{"zone_1_temp", "step"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"zone_1_temp", "step"}, tbl.Names())
	col, ok := tbl.Column("zone_1_temp")
	require.True(t, ok)
	assert.Equal(t, []float64{20.5, 22.0}, col.Floats)
}

func TestBuildRegistry_SQLiteRequiresTable(t *testing.T) {
	cfg := &Config{Sources: []SourceConfig{{Name: "r", Type: "sqlite", Path: "x.db"}}}
	_, err := BuildRegistry(cfg)
	assert.ErrorContains(t, err, "require a table")
}

func TestBuildRegistry_BadAliasPattern(t *testing.T) {
	cfg := &Config{Groups: []GroupConfig{{
		Name:    "ep",
		Aliases: []AliasConfig{{Pattern: `zone_(`, Template: `X`}},
	}}}
	_, err := BuildRegistry(cfg)
	require.Error(t, err)
	assert.True(t, alias.IsInvalidPattern(err))
	assert.Contains(t, err.Error(), `group "ep"`)
}

func TestBuildRegistry_UnknownSourceType(t *testing.T) {
	cfg := &Config{Sources: []SourceConfig{{Name: "r", Type: "hdf5", Path: "x.h5"}}}
	_, err := BuildRegistry(cfg)
	assert.ErrorContains(t, err, `unknown type "hdf5"`)
}
