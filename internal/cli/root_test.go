package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "lensdraw", cmd.Use)
	assert.Contains(t, cmd.Long, "aspherical")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"new", "add", "remove", "set", "table", "outline", "render", "validate", "convert", "catalog"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}

	for _, sub := range []string{"import", "list", "export", "delete"} {
		subCmd, _, err := cmd.Find([]string{"catalog", sub})
		require.NoError(t, err)
		assert.Equal(t, sub, subCmd.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	tableCmd, _, err := cmd.Find([]string{"table"})
	require.NoError(t, err)
	assert.Equal(t, "0.25", tableCmd.Flags().Lookup("step").DefValue)
	assert.Equal(t, "0", tableCmd.Flags().Lookup("lens").DefValue)

	renderCmd, _, err := cmd.Find([]string{"render"})
	require.NoError(t, err)
	outputFlag := renderCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.Equal(t, "800", renderCmd.Flags().Lookup("width").DefValue)

	catalogCmd, _, err := cmd.Find([]string{"catalog", "list"})
	require.NoError(t, err)
	dbFlag := catalogCmd.InheritedFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "lenses.db", dbFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	path := writeLensFile(t, "lenses.json", planoConvex())

	_, stderr, err := execute(t, "table", path, "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, `invalid format "xml"`)
}

func TestConfigFile(t *testing.T) {
	path := writeLensFile(t, "lenses.json", planoConvex())
	cfg := filepath.Join(t.TempDir(), "lensdraw.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: json\ntable:\n  step: 1\n"), 0o644))

	stdout, _, err := execute(t, "table", path, "--config", cfg)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TableResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Surfaces, 2)
	assert.Len(t, resp.Data.Surfaces[0].Rows, 2)
}

func TestConfigFileFlagWins(t *testing.T) {
	path := writeLensFile(t, "lenses.json", planoConvex())
	cfg := filepath.Join(t.TempDir(), "lensdraw.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("table:\n  step: 1\n"), 0o644))

	stdout, _, err := execute(t, "table", path, "--config", cfg, "--step", "0.5", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data TableResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Len(t, resp.Data.Surfaces[0].Rows, 4)
}

func TestMissingConfigFile(t *testing.T) {
	path := writeLensFile(t, "lenses.json", planoConvex())

	_, _, err := execute(t, "table", path, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEnvironment(t *testing.T) {
	path := writeLensFile(t, "lenses.json", planoConvex())
	t.Setenv("LENSDRAW_TABLE_STEP", "1")
	t.Setenv("LENSDRAW_FORMAT", "json")

	stdout, _, err := execute(t, "table", path)
	require.NoError(t, err)

	var resp struct {
		Data TableResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Len(t, resp.Data.Surfaces[0].Rows, 2)
}

func TestVerboseLogging(t *testing.T) {
	path := writeLensFile(t, "lenses.json", planoConvex())

	_, stderr, err := execute(t, "table", path, "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "decoded lens collection")

	_, stderr, err = execute(t, "table", path)
	require.NoError(t, err)
	assert.Empty(t, stderr)
}
