package lens

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// SurfaceType tags the variant of a [Surface]. Its string form is the tag
// used in lens records.
type SurfaceType int

const (
	TypeSphere SurfaceType = iota + 1
	TypeEvenAsphere
	TypeOddAsphere
)

func (t SurfaceType) String() string {
	switch t {
	case TypeSphere:
		return "SPH"
	case TypeEvenAsphere:
		return "ASP"
	case TypeOddAsphere:
		return "ODD"
	default:
		return fmt.Sprintf("SurfaceType(%d)", int(t))
	}
}

// ParseSurfaceType parses a record tag ("SPH", "ASP" or "ODD").
func ParseSurfaceType(s string) (SurfaceType, error) {
	switch s {
	case "SPH":
		return TypeSphere, nil
	case "ASP":
		return TypeEvenAsphere, nil
	case "ODD":
		return TypeOddAsphere, nil
	default:
		return 0, schemaErrorf("type", "unknown surface type %q", s)
	}
}

// Surface is a rotationally symmetric optical surface. All evaluation methods
// take a radial height h and fail with a [DomainError] if h lies beyond the
// zone where the base conic is defined, or with a [DegenerateRadiusError] if
// the base radius is zero.
//
// Evaluation does not restrict h to the clear aperture; callers that draw or
// tabulate a surface should limit h to [0, inner diameter / 2].
//
// Surfaces are plain structs and may be mutated through their fields.
// Nothing is revalidated after a mutation; call Validate.
type Surface interface {
	Type() SurfaceType
	// Diameters returns the clear (inner) and mechanical (outer) diameters.
	Diameters() (inner, outer float64)
	BaseRadius() float64

	// Sag returns the axial displacement from the vertex.
	Sag(h float64) (float64, error)
	// Deriv1 returns dz/dh.
	Deriv1(h float64) (float64, error)
	// Deriv2 returns d²z/dh².
	Deriv2(h float64) (float64, error)
	// Slope returns atan(dz/dh) in degrees.
	Slope(h float64) (float64, error)
	LocalCurvature(h float64) (float64, error)
	// LocalRadius returns the reciprocal of LocalCurvature, or +Inf where the
	// curvature is zero.
	LocalRadius(h float64) (float64, error)

	// Validate checks the surface's parameters.
	Validate() error
}

var (
	_ Surface = (*Sphere)(nil)
	_ Surface = (*EvenAsphere)(nil)
	_ Surface = (*OddAsphere)(nil)
)

// Eval evaluates fn at every height in hs. The result has the same length and
// order as hs. The first failing height aborts the evaluation.
//
//	sags, err := lens.Eval(hs, s.Sag)
func Eval(hs []float64, fn func(h float64) (float64, error)) ([]float64, error) {
	out := make([]float64, len(hs))
	for i, h := range hs {
		v, err := fn(h)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Sample is one row of a surface's tabulation.
type Sample struct {
	H           float64
	Sag         float64
	Slope       float64
	LocalRadius float64
}

// Tabulate evaluates sag, slope and local radius of s at every height in hs.
func Tabulate(s Surface, hs []float64) ([]Sample, error) {
	out := make([]Sample, len(hs))
	for i, h := range hs {
		sag, err := s.Sag(h)
		if err != nil {
			return nil, err
		}
		slope, err := s.Slope(h)
		if err != nil {
			return nil, err
		}
		lr, err := s.LocalRadius(h)
		if err != nil {
			return nil, err
		}
		out[i] = Sample{H: h, Sag: sag, Slope: slope, LocalRadius: lr}
	}
	return out, nil
}

// MaxHeights bounds the number of heights [Heights] will produce.
const MaxHeights = 10_000_000

// Heights returns 0, step, 2·step, … for all values strictly less than limit.
// It returns nil if that would take more than [MaxHeights] values.
func Heights(limit, step float64) []float64 {
	if !(limit > 0) || !(step > 0) || math.IsInf(limit, 0) {
		return nil
	}
	q := math.Ceil(limit / step)
	if !(q <= MaxHeights) {
		return nil
	}
	n := int(q)
	hs := make([]float64, n)
	for i := range hs {
		hs[i] = float64(i) * step
	}
	return hs
}

// Span returns n evenly spaced heights covering [0, limit], both ends
// included.
func Span(limit float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{0}
	}
	return floats.Span(make([]float64, n), 0, limit)
}

func validateDiameters(inner, outer float64) error {
	var errs []error
	if !(inner >= 0) {
		errs = append(errs, fmt.Errorf("inner diameter %g is negative", inner))
	}
	if !(outer >= 0) {
		errs = append(errs, fmt.Errorf("outer diameter %g is negative", outer))
	}
	if outer < inner {
		errs = append(errs, fmt.Errorf("outer diameter %g is smaller than inner diameter %g", outer, inner))
	}
	return errors.Join(errs...)
}
