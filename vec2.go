package lens

import "math"

// Vec2 is a displacement in the meridional plane.
type Vec2 struct {
	X float64
	Y float64
}

// Vec returns the vector (x, y).
func Vec(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Hypot returns the magnitude of the vector.
func (v Vec2) Hypot() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{
		X: v.X + o.X,
		Y: v.Y + o.Y,
	}
}

func (v Vec2) Mul(f float64) Vec2 {
	return Vec2{
		X: v.X * f,
		Y: v.Y * f,
	}
}
