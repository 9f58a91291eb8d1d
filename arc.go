package lens

import (
	"iter"
	"math"
)

// Arc is a circular arc. Angles are in radians, measured from the positive
// x-axis towards the positive y-axis.
type Arc struct {
	Center     Point
	Radius     float64
	StartAngle float64
	SweepAngle float64
}

// PathElements approximates the arc with cubic Béziers whose error is below
// tolerance. The first element is a MoveTo to the start of the arc.
func (a Arc) PathElements(tolerance float64) iter.Seq[PathElement] {
	return func(yield func(PathElement) bool) {
		p0 := a.sample(a.StartAngle)
		if !yield(MoveTo(p0)) {
			return
		}

		scaledError := math.Abs(a.Radius) / tolerance
		// Number of subdivisions per circle based on error tolerance.
		nError := max(math.Pow(1.1163*scaledError, 1.0/6.0), 3.999_999)
		n := math.Ceil(nError * math.Abs(a.SweepAngle) * (1.0 / (2.0 * math.Pi)))
		angleStep := a.SweepAngle / n
		armLen := math.Copysign((4.0/3.0)*math.Tan(math.Abs(0.25*angleStep)), a.SweepAngle)
		angle0 := a.StartAngle

		for range int(n) {
			angle1 := angle0 + angleStep
			p1 := p0.Translate(a.tangent(angle0).Mul(armLen))
			p3 := a.sample(angle1)
			p2 := p3.Translate(a.tangent(angle1).Mul(-armLen))

			angle0 = angle1
			p0 = p3

			if !yield(CubicTo(p1, p2, p3)) {
				break
			}
		}
	}
}

// End returns the point at the end of the arc.
func (a Arc) End() Point {
	return a.sample(a.StartAngle + a.SweepAngle)
}

func (a Arc) sample(angle float64) Point {
	sin, cos := math.Sincos(angle)
	r := math.Abs(a.Radius)
	return Pt(a.Center.X+r*cos, a.Center.Y+r*sin)
}

// tangent returns the derivative of sample with respect to angle.
func (a Arc) tangent(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	r := math.Abs(a.Radius)
	return Vec(-r*sin, r*cos)
}
