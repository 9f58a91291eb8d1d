package cli

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"honnef.co/go/lens"
	"honnef.co/go/lens/lensfile"
)

// execute runs the root command with args and returns what it wrote to
// stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() { lens.SetLogger(nil) })

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// writeLensFile writes lenses to name inside a temporary directory.
func writeLensFile(t *testing.T, name string, lenses ...*lens.Lens) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, lensfile.WriteFile(path, lenses))
	return path
}

func planoConvex() *lens.Lens {
	return &lens.Lens{
		Name:      "plano-convex",
		Material:  "N-BK7",
		Thickness: 2,
		Left:      &lens.Sphere{InnerDiameter: 4, OuterDiameter: 5, Radius: 50},
		Right:     &lens.Sphere{InnerDiameter: 4, OuterDiameter: 5, Radius: math.Inf(1)},
	}
}

func window() *lens.Lens {
	return &lens.Lens{
		Name:      "window & flat",
		Thickness: 4,
		Left:      &lens.Sphere{InnerDiameter: 10, OuterDiameter: 12, Radius: math.Inf(1)},
		Right:     &lens.Sphere{InnerDiameter: 10, OuterDiameter: 12, Radius: math.Inf(1)},
	}
}

func asphere() *lens.Lens {
	return &lens.Lens{
		Name:      "asphere",
		Thickness: 3,
		Left:      &lens.EvenAsphere{InnerDiameter: 18, OuterDiameter: 20, Radius: 25, Conic: -0.5, Coefficients: []float64{1e-6, 0}},
		Right:     &lens.OddAsphere{InnerDiameter: 18, OuterDiameter: 20, Radius: -40, Coefficients: []float64{1e-5}},
	}
}
