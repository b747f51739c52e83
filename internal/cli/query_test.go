package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func workspaceConfig(t *testing.T) string {
	t.Helper()
	dbPath := newResultsDB(t)
	return writeConfig(t, fmt.Sprintf(`
sources:
  - name: results
    type: sqlite
    path: %s
    table: run_output
    group: ep
groups:
  - name: ep
    aliases:
      - pattern: '^zone_(\d+)_temp$'
        template: 'ZONE[$1]:TEMPERATURE'
`, dbPath))
}

func TestQueryCommand(t *testing.T) {
	cfg := workspaceConfig(t)

	out, err := runCommand(t,
		"query", "--config", cfg, "--source", "results",
		"--names", "zone_1_temp,step", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"zone_1_temp"`)
	assert.Contains(t, out, "20.5")
}

func TestQueryCommand_Span(t *testing.T) {
	cfg := workspaceConfig(t)

	out, err := runCommand(t,
		"query", "--config", cfg, "--source", "results",
		"--names", "step", "--start", "1", "--format", "json")
	require.NoError(t, err)
	assert.NotContains(t, out, "20.5")
	assert.Contains(t, out, "2")
}

func TestQueryCommand_UnknownVariable(t *testing.T) {
	cfg := workspaceConfig(t)

	_, err := runCommand(t,
		"query", "--config", cfg, "--source", "results", "--names", "ghost")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "ghost")
}

func TestQueryCommand_BadConfigPath(t *testing.T) {
	_, err := runCommand(t, "query", "--config", "does-not-exist.yaml", "--source", "x")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestQueryCommand_InvalidFormat(t *testing.T) {
	cfg := workspaceConfig(t)
	_, err := runCommand(t, "query", "--config", cfg, "--source", "results", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestSourcesCommand(t *testing.T) {
	cfg := workspaceConfig(t)

	out, err := runCommand(t, "sources", "--config", cfg, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"results"`)
}

func TestNamesCommand(t *testing.T) {
	cfg := workspaceConfig(t)

	out, err := runCommand(t, "names", "--config", cfg, "--source", "results", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "ZONE[1]:TEMPERATURE")
	assert.Contains(t, out, "step")
}

func TestNamesCommand_UnknownSource(t *testing.T) {
	cfg := workspaceConfig(t)

	_, err := runCommand(t, "names", "--config", cfg, "--source", "ghost")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
