package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honnef.co/go/lens"
)

func TestValidateCommand_Valid(t *testing.T) {
	path := writeLensFile(t, "lenses.json", planoConvex(), asphere())

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "✓ 2 lens(es) valid\n", buf.String())
}

func TestValidateCommand_ValidJSON(t *testing.T) {
	path := writeLensFile(t, "lenses.yaml", window())

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 1, resp.Data.Lenses)
}

func TestValidateCommand_InvalidSurfaces(t *testing.T) {
	l := &lens.Lens{
		Name:      "broken",
		Thickness: 1,
		Left:      &lens.Sphere{InnerDiameter: 10, OuterDiameter: 8, Radius: math.Inf(1)},
		Right:     &lens.Sphere{InnerDiameter: 10, OuterDiameter: 12, Radius: 0},
	}
	path := writeLensFile(t, "lenses.json", planoConvex(), l)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	newGoldie(t).Assert(t, "validate_surfaces", buf.Bytes())
}

func TestValidateCommand_SchemaViolations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lenses.json")
	doc := `{
    "lens_count": 1,
    "0": {
        "name": 7,
        "material": "",
        "thickness": 1,
        "description": "",
        "left": {"type": "SPH", "inner_diameter": 1, "outer_diameter": 2, "base_radius": "Inf", "colour": "red"},
        "right": {"type": "XYZ", "inner_diameter": 1, "outer_diameter": 2, "base_radius": "Inf"}
    }
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSchema, resp.Error.Code)

	var fields []string
	for _, issue := range resp.Data.Errors {
		assert.Equal(t, ErrCodeSchema, issue.Code)
		fields = append(fields, issue.Field)
	}
	for _, prefix := range []string{"0.name", "0.left.colour", "0.right.type"} {
		assert.True(t, slices.ContainsFunc(fields, func(f string) bool { return strings.HasPrefix(f, prefix) }),
			"no issue for %s in %v", prefix, fields)
	}
}

func TestValidateCommand_RecordError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lenses.json")
	doc := `{"lens_count": 2, "0": {"name": "a", "thickness": 1,
		"left": {"type": "SPH", "inner_diameter": 1, "outer_diameter": 2, "base_radius": 5},
		"right": {"type": "SPH", "inner_diameter": 1, "outer_diameter": 2, "base_radius": 5}}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "[E003] 1: missing")
}

func TestValidateCommand_Syntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lenses.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"lens_count": `), 0o644))

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "✗ Validation failed")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.json")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E002]")
}

func TestFlatten(t *testing.T) {
	assert.Nil(t, flatten(nil))

	l := &lens.Lens{
		Left:  &lens.Sphere{InnerDiameter: -1, OuterDiameter: -2, Radius: 0},
		Right: &lens.Sphere{InnerDiameter: 1, OuterDiameter: 2, Radius: 5},
	}
	errs := flatten(l.Validate())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "left: ")
}
