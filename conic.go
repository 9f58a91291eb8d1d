package lens

import "math"

// domainSlack absorbs rounding in 1 - (1+k)·c²·h² for heights that sit on the
// edge of the domain, such as h = |R| on a sphere.
const domainSlack = 1e-12

// curvature returns the vertex curvature c = 1/radius. An infinite radius is
// a flat surface with c = 0. A radius of zero has no curvature.
func curvature(typ SurfaceType, radius float64) (float64, error) {
	switch {
	case math.IsInf(radius, 0):
		return 0, nil
	case radius == 0 || math.IsNaN(radius):
		return 0, &DegenerateRadiusError{Surface: typ, Radius: radius}
	default:
		return 1 / radius, nil
	}
}

// profile is the shared kernel of all surface variants: a base conic plus a
// polynomial whose i-th coefficient multiplies h^exp(i).
type profile struct {
	typ   SurfaceType
	r     float64
	k     float64
	c     float64
	coefs []float64
	exp   func(i int) int
}

func newProfile(typ SurfaceType, r, k float64, coefs []float64, exp func(int) int) (profile, error) {
	c, err := curvature(typ, r)
	if err != nil {
		return profile{}, err
	}
	return profile{typ: typ, r: r, k: k, c: c, coefs: coefs, exp: exp}, nil
}

// root returns rt = sqrt(1 - (1+k)·c²·h²).
func (p profile) root(h float64) (float64, error) {
	ch := p.c * h
	arg := 1 - (1+p.k)*ch*ch
	if arg < 0 || math.IsNaN(arg) {
		if arg < -domainSlack || math.IsNaN(arg) {
			return 0, &DomainError{H: h, Surface: p.typ, Radius: p.r, Conic: p.k}
		}
		arg = 0
	}
	return math.Sqrt(arg), nil
}

func (p profile) sag(h float64) (float64, error) {
	rt, err := p.root(h)
	if err != nil {
		return 0, err
	}
	return p.c*h*h/(1+rt) + p.polySag(h), nil
}

// deriv1 is 2ch/(rt+1) + c³h³(1+k)/(rt(rt+1)²), which simplifies to ch/rt.
func (p profile) deriv1(h float64) (float64, error) {
	rt, err := p.root(h)
	if err != nil {
		return 0, err
	}
	return p.c*h/rt + p.polyDeriv1(h), nil
}

// deriv2 is the derivative of ch/rt, which is c/rt³.
func (p profile) deriv2(h float64) (float64, error) {
	rt, err := p.root(h)
	if err != nil {
		return 0, err
	}
	return p.c/(rt*rt*rt) + p.polyDeriv2(h), nil
}

// curvature computes z''/(1+z'²)^1.5 after multiplying numerator and
// denominator by rt³. The result stays finite where rt reaches zero.
func (p profile) curvature(h float64) (float64, error) {
	rt, err := p.root(h)
	if err != nil {
		return 0, err
	}
	num := p.c + p.polyDeriv2(h)*rt*rt*rt
	t := p.c*h + p.polyDeriv1(h)*rt
	den := rt*rt + t*t
	return num / (den * math.Sqrt(den)), nil
}

func (p profile) polySag(h float64) float64 {
	var z float64
	for i, a := range p.coefs {
		z += a * powi(h, p.exp(i))
	}
	return z
}

func (p profile) polyDeriv1(h float64) float64 {
	var z float64
	for i, a := range p.coefs {
		e := p.exp(i)
		z += float64(e) * a * powi(h, e-1)
	}
	return z
}

func (p profile) polyDeriv2(h float64) float64 {
	var z float64
	for i, a := range p.coefs {
		e := p.exp(i)
		z += float64(e*(e-1)) * a * powi(h, e-2)
	}
	return z
}

// powi computes x^n for n ≥ 0 by repeated squaring.
func powi(x float64, n int) float64 {
	r := 1.0
	for n > 0 {
		if n&1 == 1 {
			r *= x
		}
		x *= x
		n >>= 1
	}
	return r
}

func slopeDegrees(d1 float64) float64 {
	return math.Atan(d1) * 180 / math.Pi
}

// radiusOf returns the reciprocal of a curvature, with a flat profile
// reported as +Inf regardless of the sign of zero.
func radiusOf(curv float64) float64 {
	if curv == 0 {
		return math.Inf(1)
	}
	return 1 / curv
}
