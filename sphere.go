package lens

import (
	"errors"
	"math"
)

// Sphere is a spherical surface, or a flat one when Radius is infinite.
type Sphere struct {
	InnerDiameter float64
	OuterDiameter float64
	// Radius is the signed radius of curvature. ±Inf denotes a plane.
	Radius float64
}

// NewSphere returns a sphere of the given radius with zero diameters.
func NewSphere(radius float64) *Sphere {
	return &Sphere{Radius: radius}
}

func (s *Sphere) Type() SurfaceType                 { return TypeSphere }
func (s *Sphere) Diameters() (inner, outer float64) { return s.InnerDiameter, s.OuterDiameter }
func (s *Sphere) BaseRadius() float64               { return s.Radius }

func (s *Sphere) profile() (profile, error) {
	return newProfile(TypeSphere, s.Radius, 0, nil, nil)
}

func (s *Sphere) Sag(h float64) (float64, error) {
	p, err := s.profile()
	if err != nil {
		return 0, err
	}
	return p.sag(h)
}

func (s *Sphere) Deriv1(h float64) (float64, error) {
	p, err := s.profile()
	if err != nil {
		return 0, err
	}
	return p.deriv1(h)
}

func (s *Sphere) Deriv2(h float64) (float64, error) {
	p, err := s.profile()
	if err != nil {
		return 0, err
	}
	return p.deriv2(h)
}

func (s *Sphere) Slope(h float64) (float64, error) {
	d1, err := s.Deriv1(h)
	if err != nil {
		return 0, err
	}
	return slopeDegrees(d1), nil
}

// LocalCurvature returns 1/Radius for every height in the domain.
func (s *Sphere) LocalCurvature(h float64) (float64, error) {
	p, err := s.profile()
	if err != nil {
		return 0, err
	}
	if _, err := p.root(h); err != nil {
		return 0, err
	}
	return p.c, nil
}

// LocalRadius returns Radius for every height in the domain. A flat sphere
// has a local radius of +Inf, whichever infinity its Radius is.
func (s *Sphere) LocalRadius(h float64) (float64, error) {
	if _, err := s.LocalCurvature(h); err != nil {
		return 0, err
	}
	if math.IsInf(s.Radius, 0) {
		return math.Inf(1), nil
	}
	return s.Radius, nil
}

func (s *Sphere) Validate() error {
	err := validateDiameters(s.InnerDiameter, s.OuterDiameter)
	if _, cerr := curvature(TypeSphere, s.Radius); cerr != nil {
		err = errors.Join(err, cerr)
	}
	// A sphere cannot be wider than twice its radius.
	if r := math.Abs(s.Radius); err == nil && s.InnerDiameter/2 > r {
		err = &DomainError{H: s.InnerDiameter / 2, Surface: TypeSphere, Radius: s.Radius}
	}
	return err
}
