package lens

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Lens pairs two surfaces. Light travels from Left to Right; the vertex of
// Right sits Thickness further along the optical axis than the vertex of
// Left.
//
// A Lens owns its surfaces. Sharing a surface between two lenses means that
// mutating one mutates both; use Clone to get an independent copy.
type Lens struct {
	Name        string
	Description string
	Left        Surface
	Right       Surface
	// Thickness is the center thickness. It is not required to be positive.
	Thickness float64
	// Material is a free-form label, typically a glass name.
	Material string
}

// NewLens returns a lens made of two flat surfaces.
func NewLens() *Lens {
	return &Lens{
		Left:  NewSphere(math.Inf(1)),
		Right: NewSphere(math.Inf(1)),
	}
}

// MechanicalDiameter returns the larger of the two outer diameters.
func (l *Lens) MechanicalDiameter() float64 {
	_, lo := l.Left.Diameters()
	_, ro := l.Right.Diameters()
	return max(lo, ro)
}

// Validate validates both surfaces.
func (l *Lens) Validate() error {
	var errs []error
	for _, side := range []struct {
		name string
		s    Surface
	}{{"left", l.Left}, {"right", l.Right}} {
		if side.s == nil {
			errs = append(errs, fmt.Errorf("%s: %w", side.name, ErrMissingSurface))
			continue
		}
		if err := side.s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", side.name, err))
		}
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy of the lens.
func (l *Lens) Clone() *Lens {
	c := *l
	c.Left = cloneSurface(l.Left)
	c.Right = cloneSurface(l.Right)
	return &c
}

func cloneSurface(s Surface) Surface {
	switch s := s.(type) {
	case *Sphere:
		c := *s
		return &c
	case *EvenAsphere:
		c := *s
		c.Coefficients = slices.Clone(s.Coefficients)
		return &c
	case *OddAsphere:
		c := *s
		c.Coefficients = slices.Clone(s.Coefficients)
		return &c
	default:
		return s
	}
}
