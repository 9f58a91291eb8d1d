package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"honnef.co/go/lens"
)

// SetOptions holds flags for the set command.
type SetOptions struct {
	Lens int
	Side string

	Name        string
	Description string
	Material    string
	Thickness   float64

	Type         string
	Radius       string
	Conic        float64
	Inner        float64
	Outer        float64
	Coefficients []float64
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetOptions{}

	cmd := &cobra.Command{
		Use:   "set <file>",
		Short: "Change the parameters of a lens",
		Long: `Change lens or surface parameters in place.

Lens flags (--name, --description, --material, --thickness) apply to the
lens selected with --lens. Surface flags require --side left|right.

Changing --type keeps the diameters and base radius and resets the conic
constant and coefficients. --radius accepts "inf" for a flat surface.
--coefs replaces the coefficient list; asphere coefficients start at A4,
odd asphere coefficients at A3.

The edited lens must validate before the file is written.`,
		Example: `  lensdraw set lenses.json --lens 0 --side left --type ASP --radius 25 --conic -1
  lensdraw set lenses.json --side right --coefs 1e-5,-2e-8
  lensdraw set lenses.json --thickness 4.5 --material N-BK7`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd, rootOpts, opts, args[0])
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&opts.Lens, "lens", 0, "Lens index")
	fl.StringVar(&opts.Side, "side", "", "Surface to edit (left|right)")
	fl.StringVar(&opts.Name, "name", "", "Lens name")
	fl.StringVar(&opts.Description, "description", "", "Lens description")
	fl.StringVar(&opts.Material, "material", "", "Lens material")
	fl.Float64Var(&opts.Thickness, "thickness", 0, "Center thickness")
	fl.StringVar(&opts.Type, "type", "", "Surface type (SPH|ASP|ODD)")
	fl.StringVar(&opts.Radius, "radius", "", "Base radius")
	fl.Float64Var(&opts.Conic, "conic", 0, "Conic constant")
	fl.Float64Var(&opts.Inner, "inner", 0, "Inner (clear) diameter")
	fl.Float64Var(&opts.Outer, "outer", 0, "Outer (mechanical) diameter")
	fl.Float64SliceVar(&opts.Coefficients, "coefs", nil, "Polynomial coefficients")

	return cmd
}

var surfaceFlags = []string{"type", "radius", "conic", "inner", "outer", "coefs"}

func runSet(cmd *cobra.Command, rootOpts *RootOptions, opts *SetOptions, path string) error {
	f := rootOpts.formatter(cmd)
	changed := cmd.Flags().Changed

	lenses, err := readLenses(f, path)
	if err != nil {
		return err
	}
	l, err := pickLens(f, lenses, opts.Lens)
	if err != nil {
		return err
	}

	if changed("name") {
		l.Name = opts.Name
	}
	if changed("description") {
		l.Description = opts.Description
	}
	if changed("material") {
		l.Material = opts.Material
	}
	if changed("thickness") {
		l.Thickness = opts.Thickness
	}

	var slot *lens.Surface
	switch opts.Side {
	case "left":
		slot = &l.Left
	case "right":
		slot = &l.Right
	case "":
		for _, name := range surfaceFlags {
			if changed(name) {
				return f.Fail(ExitCommandError, ErrCodeUsage, fmt.Sprintf("--%s requires --side", name), nil)
			}
		}
	default:
		return f.Fail(ExitCommandError, ErrCodeUsage, fmt.Sprintf("invalid side %q: must be 'left' or 'right'", opts.Side), nil)
	}

	if slot != nil {
		s, err := editSurface(*slot, opts, changed)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeUsage, "invalid surface parameters", err)
		}
		*slot = s
	}

	if err := l.Validate(); err != nil {
		return f.Fail(ExitFailure, ErrCodeInvalid, fmt.Sprintf("lens %d is invalid, %s not written", opts.Lens, path), err)
	}
	if err := writeLenses(f, path, lenses); err != nil {
		return err
	}

	f.VerboseLog("wrote %d lens(es) to %s", len(lenses), path)
	return f.Success(l.Record(), fmt.Sprintf("Updated lens %d (%s) in %s", opts.Lens, l.Name, path))
}

// editSurface returns s with the changed surface flags applied.
func editSurface(s lens.Surface, opts *SetOptions, changed func(string) bool) (lens.Surface, error) {
	if changed("type") {
		typ, err := lens.ParseSurfaceType(strings.ToUpper(opts.Type))
		if err != nil {
			return nil, err
		}
		if typ != s.Type() {
			s = convertSurface(s, typ)
		}
	}

	if changed("radius") {
		r, err := strconv.ParseFloat(opts.Radius, 64)
		if err != nil {
			return nil, fmt.Errorf("--radius: %w", err)
		}
		switch s := s.(type) {
		case *lens.Sphere:
			s.Radius = r
		case *lens.EvenAsphere:
			s.Radius = r
		case *lens.OddAsphere:
			s.Radius = r
		}
	}

	if changed("inner") || changed("outer") {
		inner, outer := s.Diameters()
		if changed("inner") {
			inner = opts.Inner
		}
		if changed("outer") {
			outer = opts.Outer
		}
		switch s := s.(type) {
		case *lens.Sphere:
			s.InnerDiameter, s.OuterDiameter = inner, outer
		case *lens.EvenAsphere:
			s.InnerDiameter, s.OuterDiameter = inner, outer
		case *lens.OddAsphere:
			s.InnerDiameter, s.OuterDiameter = inner, outer
		}
	}

	if changed("conic") || changed("coefs") {
		switch s := s.(type) {
		case *lens.Sphere:
			return nil, fmt.Errorf("a %s surface has no conic constant or coefficients", s.Type())
		case *lens.EvenAsphere:
			if changed("conic") {
				s.Conic = opts.Conic
			}
			if changed("coefs") {
				s.Coefficients = opts.Coefficients
			}
		case *lens.OddAsphere:
			if changed("conic") {
				s.Conic = opts.Conic
			}
			if changed("coefs") {
				s.Coefficients = opts.Coefficients
			}
		}
	}

	return s, nil
}

// convertSurface returns a surface of type typ with the diameters and base
// radius of s and default polynomial terms.
func convertSurface(s lens.Surface, typ lens.SurfaceType) lens.Surface {
	inner, outer := s.Diameters()
	r := s.BaseRadius()
	switch typ {
	case lens.TypeEvenAsphere:
		a := lens.NewEvenAsphere(r, 0, nil)
		a.InnerDiameter, a.OuterDiameter = inner, outer
		return a
	case lens.TypeOddAsphere:
		a := lens.NewOddAsphere(r, 0, nil)
		a.InnerDiameter, a.OuterDiameter = inner, outer
		return a
	default:
		sp := lens.NewSphere(r)
		sp.InnerDiameter, sp.OuterDiameter = inner, outer
		return sp
	}
}
