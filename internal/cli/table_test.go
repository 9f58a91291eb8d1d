package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honnef.co/go/lens"
)

func TestTableGolden(t *testing.T) {
	path := writeLensFile(t, "lenses.json", planoConvex())

	stdout, _, err := execute(t, "table", path, "--step", "0.5")
	require.NoError(t, err)

	newGoldie(t).Assert(t, "table", []byte(stdout))
}

func TestTableJSON(t *testing.T) {
	path := writeLensFile(t, "lenses.yaml", window(), planoConvex())

	stdout, _, err := execute(t, "table", path, "--lens", "1", "--step", "0.5", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Index    int    `json:"index"`
			Name     string `json:"name"`
			Surfaces []struct {
				Side string           `json:"side"`
				Type string           `json:"type"`
				Rows []map[string]any `json:"rows"`
			} `json:"surfaces"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Index)
	assert.Equal(t, "plano-convex", resp.Data.Name)
	require.Len(t, resp.Data.Surfaces, 2)

	left, right := resp.Data.Surfaces[0], resp.Data.Surfaces[1]
	assert.Equal(t, "left", left.Side)
	assert.Equal(t, "SPH", left.Type)
	require.Len(t, left.Rows, 4)
	assert.Equal(t, 1.0, left.Rows[2]["h"])
	assert.InDelta(t, 0.0100010001, left.Rows[2]["sag"], 1e-9)
	assert.Equal(t, 50.0, left.Rows[2]["local_R"])

	assert.Equal(t, "right", right.Side)
	assert.Equal(t, "Inf", right.Rows[0]["local_R"])
	assert.Equal(t, 0.0, right.Rows[0]["sag"])
}

func TestTabulateLens(t *testing.T) {
	res, err := tabulateLens(asphere(), 3)
	require.NoError(t, err)
	require.Len(t, res.Surfaces, 2)
	assert.Equal(t, "ASP", res.Surfaces[0].Type)
	assert.Equal(t, "ODD", res.Surfaces[1].Type)
	// 0, 3, 6 below the clear aperture of 9.
	assert.Len(t, res.Surfaces[0].Rows, 3)

	sag, err := asphere().Left.Sag(6)
	require.NoError(t, err)
	assert.Equal(t, jsonFloat(sag), res.Surfaces[0].Rows[2].Sag)
}

func TestTableErrors(t *testing.T) {
	path := writeLensFile(t, "lenses.json", planoConvex())

	t.Run("lens index", func(t *testing.T) {
		stdout, _, err := execute(t, "table", path, "--lens", "3")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, stdout, "lens index 3 out of range: file holds 1 lens(es)")
	})

	t.Run("step", func(t *testing.T) {
		_, _, err := execute(t, "table", path, "--step", "0")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("tiny step", func(t *testing.T) {
		stdout, _, err := execute(t, "table", path, "--step", "1e-300")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, stdout, "[E005]")
		assert.Contains(t, stdout, "too small")
	})

	t.Run("missing file", func(t *testing.T) {
		stdout, _, err := execute(t, "table", path+".missing.json")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, stdout, "[E002]")
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, _, err := execute(t, "table", "lenses.txt")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("outside domain", func(t *testing.T) {
		// A sphere of radius 3 cannot span a clear aperture of 10.
		l := planoConvex()
		l.Left = &lens.Sphere{InnerDiameter: 10, OuterDiameter: 12, Radius: 3}
		p := writeLensFile(t, "domain.json", l)

		stdout, _, err := execute(t, "table", p, "--format", "json")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.ErrorIs(t, err, lens.ErrDomain)

		var resp CLIResponse
		require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, ErrCodeDomain, resp.Error.Code)
	})
}
