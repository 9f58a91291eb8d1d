package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honnef.co/go/lens/lensfile"
)

func TestCatalogWorkflow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "lenses.db")
	path := writeLensFile(t, "lenses.json", planoConvex(), asphere())

	stdout, _, err := execute(t, "catalog", "import", path, "--db", db, "--format", "json")
	require.NoError(t, err)
	var imported struct {
		Status string   `json:"status"`
		Data   []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &imported))
	require.Len(t, imported.Data, 2)

	stdout, _, err = execute(t, "catalog", "list", "--db", db, "--format", "json")
	require.NoError(t, err)
	var listed struct {
		Data []CatalogEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &listed))
	require.Len(t, listed.Data, 2)
	assert.Equal(t, imported.Data[0], listed.Data[0].ID)
	assert.Equal(t, "plano-convex", listed.Data[0].Name)
	assert.Equal(t, "N-BK7", listed.Data[0].Material)
	assert.Equal(t, "asphere", listed.Data[1].Name)

	stdout, _, err = execute(t, "catalog", "list", "--db", db, "--name", "asphere")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], imported.Data[1])

	out := filepath.Join(t.TempDir(), "export.yaml")
	_, _, err = execute(t, "catalog", "export", out, imported.Data[1], imported.Data[0], "--db", db)
	require.NoError(t, err)
	lenses, err := lensfile.ReadFile(out)
	require.NoError(t, err)
	require.Len(t, lenses, 2)
	assert.Equal(t, asphere(), lenses[0])
	assert.Equal(t, planoConvex(), lenses[1])

	_, _, err = execute(t, "catalog", "delete", imported.Data[0], "--db", db)
	require.NoError(t, err)
	stdout, _, err = execute(t, "catalog", "list", "--db", db, "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &listed))
	require.Len(t, listed.Data, 1)

	stdout, _, err = execute(t, "catalog", "delete", imported.Data[0], "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "[E009]")

	_, _, err = execute(t, "catalog", "export", out, "no-such-id", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCatalogEnvironment(t *testing.T) {
	db := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("LENSDRAW_CATALOG_DB", db)
	path := writeLensFile(t, "lenses.json", window())

	_, _, err := execute(t, "catalog", "import", path)
	require.NoError(t, err)

	stdout, _, err := execute(t, "catalog", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "window & flat")
}

func TestCatalogOpenError(t *testing.T) {
	db := filepath.Join(t.TempDir(), "missing", "dir", "lenses.db")
	_, _, err := execute(t, "catalog", "list", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
