package lens

// CubicBez is a cubic Bézier segment.
type CubicBez struct {
	P0, P1, P2, P3 Point
}

func (cb CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	a := Vec2(cb.P0).Mul(mt * mt * mt)
	b := Vec2(cb.P1).Mul(mt * mt * 3.0)
	c := Vec2(cb.P2).Mul(mt * 3.0)
	d := Vec2(cb.P3)
	v := a.Add(b.Add(c.Add(d.Mul(t)).Mul(t)).Mul(t))
	return Point(v)
}

// hermite returns the cubic through p0 and p1 whose derivatives with respect
// to a parameter running over [0, 1] are d0 and d1.
func hermite(p0 Point, d0 Vec2, p1 Point, d1 Vec2) CubicBez {
	return CubicBez{
		P0: p0,
		P1: p0.Translate(d0.Mul(1.0 / 3.0)),
		P2: p1.Translate(d1.Mul(-1.0 / 3.0)),
		P3: p1,
	}
}
