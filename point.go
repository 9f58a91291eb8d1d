package lens

import (
	"fmt"
	"math"
)

// Point is a position in the meridional plane of a lens. X runs along the
// optical axis, Y is the signed radial height.
type Point struct {
	X float64
	Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (pt Point) String() string {
	return fmt.Sprintf("(%g, %g)", pt.X, pt.Y)
}

func (pt Point) Translate(o Vec2) Point {
	return Point{
		X: pt.X + o.X,
		Y: pt.Y + o.Y,
	}
}

func (pt Point) Transform(aff Affine) Point {
	return Point{
		X: aff.N0*pt.X + aff.N2*pt.Y + aff.N4,
		Y: aff.N1*pt.X + aff.N3*pt.Y + aff.N5,
	}
}

// Sub computes pt−o.
func (pt Point) Sub(o Point) Vec2 {
	return Vec2{
		X: pt.X - o.X,
		Y: pt.Y - o.Y,
	}
}

// Distance returns the Euclidean distance between two points.
func (pt Point) Distance(o Point) float64 {
	return pt.Sub(o).Hypot()
}

// IsFinite reports whether both coordinates are finite.
func (pt Point) IsFinite() bool {
	return !math.IsInf(pt.X, 0) && !math.IsNaN(pt.X) &&
		!math.IsInf(pt.Y, 0) && !math.IsNaN(pt.Y)
}
