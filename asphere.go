package lens

import (
	"errors"
	"fmt"
	"math"
)

// Default number of polynomial terms offered by a new asphere.
const (
	DefaultEvenTerms = 9  // A4 … A20
	DefaultOddTerms  = 20 // A3 … A22
)

// EvenAsphere is a conic with an even polynomial correction:
//
//	z(h) = c·h² / (1 + sqrt(1 - (1+k)·c²·h²)) + Σ Coefficients[i]·h^(2i+4)
//
// Coefficients[0] is A4, Coefficients[1] is A6 and so on.
type EvenAsphere struct {
	InnerDiameter float64
	OuterDiameter float64
	Radius        float64
	// Conic is the conic constant k. k = 0 is a sphere, k = -1 a paraboloid.
	Conic        float64
	Coefficients []float64
}

// NewEvenAsphere returns an even asphere. A nil coefs is replaced by
// DefaultEvenTerms zeros.
func NewEvenAsphere(radius, k float64, coefs []float64) *EvenAsphere {
	if coefs == nil {
		coefs = make([]float64, DefaultEvenTerms)
	}
	return &EvenAsphere{Radius: radius, Conic: k, Coefficients: coefs}
}

// Exponent returns the power of h that Coefficients[i] multiplies.
func (s *EvenAsphere) Exponent(i int) int { return evenExponent(i) }

// CoefficientLabel returns the conventional name of Coefficients[i], such as
// "A4".
func (s *EvenAsphere) CoefficientLabel(i int) string { return fmt.Sprintf("A%d", evenExponent(i)) }

func evenExponent(i int) int { return 2*(i+1) + 2 }

func (s *EvenAsphere) Type() SurfaceType                 { return TypeEvenAsphere }
func (s *EvenAsphere) Diameters() (inner, outer float64) { return s.InnerDiameter, s.OuterDiameter }
func (s *EvenAsphere) BaseRadius() float64               { return s.Radius }

func (s *EvenAsphere) profile() (profile, error) {
	return newProfile(TypeEvenAsphere, s.Radius, s.Conic, s.Coefficients, evenExponent)
}

func (s *EvenAsphere) Sag(h float64) (float64, error) {
	p, err := s.profile()
	if err != nil {
		return 0, err
	}
	return p.sag(h)
}

func (s *EvenAsphere) Deriv1(h float64) (float64, error) {
	p, err := s.profile()
	if err != nil {
		return 0, err
	}
	return p.deriv1(h)
}

func (s *EvenAsphere) Deriv2(h float64) (float64, error) {
	p, err := s.profile()
	if err != nil {
		return 0, err
	}
	return p.deriv2(h)
}

func (s *EvenAsphere) Slope(h float64) (float64, error) {
	d1, err := s.Deriv1(h)
	if err != nil {
		return 0, err
	}
	return slopeDegrees(d1), nil
}

func (s *EvenAsphere) LocalCurvature(h float64) (float64, error) {
	p, err := s.profile()
	if err != nil {
		return 0, err
	}
	return p.curvature(h)
}

func (s *EvenAsphere) LocalRadius(h float64) (float64, error) {
	curv, err := s.LocalCurvature(h)
	if err != nil {
		return 0, err
	}
	return radiusOf(curv), nil
}

func (s *EvenAsphere) Validate() error {
	return validateAsphere(TypeEvenAsphere, s.InnerDiameter, s.OuterDiameter, s.Radius, s.Conic, s.Coefficients, s.CoefficientLabel)
}

// OddAsphere is a conic with a polynomial correction in every integer power
// from three upwards:
//
//	z(h) = c·h² / (1 + sqrt(1 - (1+k)·c²·h²)) + Σ Coefficients[i]·h^(i+3)
//
// Coefficients[0] is A3, Coefficients[1] is A4 and so on.
type OddAsphere struct {
	InnerDiameter float64
	OuterDiameter float64
	Radius        float64
	Conic         float64
	Coefficients  []float64
}

// NewOddAsphere returns an odd asphere. A nil coefs is replaced by
// DefaultOddTerms zeros.
func NewOddAsphere(radius, k float64, coefs []float64) *OddAsphere {
	if coefs == nil {
		coefs = make([]float64, DefaultOddTerms)
	}
	return &OddAsphere{Radius: radius, Conic: k, Coefficients: coefs}
}

// Exponent returns the power of h that Coefficients[i] multiplies.
func (s *OddAsphere) Exponent(i int) int { return oddExponent(i) }

// CoefficientLabel returns the conventional name of Coefficients[i], such as
// "A3".
func (s *OddAsphere) CoefficientLabel(i int) string { return fmt.Sprintf("A%d", oddExponent(i)) }

func oddExponent(i int) int { return i + 3 }

func (s *OddAsphere) Type() SurfaceType                 { return TypeOddAsphere }
func (s *OddAsphere) Diameters() (inner, outer float64) { return s.InnerDiameter, s.OuterDiameter }
func (s *OddAsphere) BaseRadius() float64               { return s.Radius }

func (s *OddAsphere) profile() (profile, error) {
	return newProfile(TypeOddAsphere, s.Radius, s.Conic, s.Coefficients, oddExponent)
}

func (s *OddAsphere) Sag(h float64) (float64, error) {
	p, err := s.profile()
	if err != nil {
		return 0, err
	}
	return p.sag(h)
}

func (s *OddAsphere) Deriv1(h float64) (float64, error) {
	p, err := s.profile()
	if err != nil {
		return 0, err
	}
	return p.deriv1(h)
}

func (s *OddAsphere) Deriv2(h float64) (float64, error) {
	p, err := s.profile()
	if err != nil {
		return 0, err
	}
	return p.deriv2(h)
}

func (s *OddAsphere) Slope(h float64) (float64, error) {
	d1, err := s.Deriv1(h)
	if err != nil {
		return 0, err
	}
	return slopeDegrees(d1), nil
}

func (s *OddAsphere) LocalCurvature(h float64) (float64, error) {
	p, err := s.profile()
	if err != nil {
		return 0, err
	}
	return p.curvature(h)
}

func (s *OddAsphere) LocalRadius(h float64) (float64, error) {
	curv, err := s.LocalCurvature(h)
	if err != nil {
		return 0, err
	}
	return radiusOf(curv), nil
}

func (s *OddAsphere) Validate() error {
	return validateAsphere(TypeOddAsphere, s.InnerDiameter, s.OuterDiameter, s.Radius, s.Conic, s.Coefficients, s.CoefficientLabel)
}

func validateAsphere(typ SurfaceType, inner, outer, r, k float64, coefs []float64, label func(int) string) error {
	errs := []error{validateDiameters(inner, outer)}
	if _, err := curvature(typ, r); err != nil {
		errs = append(errs, err)
	}
	if math.IsNaN(k) || math.IsInf(k, 0) {
		errs = append(errs, fmt.Errorf("conic constant %g is not finite", k))
	}
	for i, a := range coefs {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			errs = append(errs, fmt.Errorf("coefficient %s is %g", label(i), a))
		}
	}
	return errors.Join(errs...)
}
