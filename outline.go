package lens

import (
	"fmt"
	"iter"
	"log/slog"
	"math"
)

const (
	// initialPieces is the number of pieces a profile is split into before
	// any error-driven subdivision.
	initialPieces = 8
	// maxFitDepth bounds the recursive subdivision of a single piece.
	maxFitDepth = 16
)

// ProfilePath returns the upper half of a surface's meridional profile, the
// curve (sag(h), h) for h from 0 to limit, as a path starting at the vertex.
// Curves deviate from the exact profile by at most tolerance.
//
// Spheres are drawn as circular arcs. Aspheres are approximated with cubic
// Béziers that match sag and slope at both ends of every segment, which are
// subdivided until the error is small enough. A segment whose slope is
// infinite, as happens where the profile meets the edge of its domain,
// degrades to a line.
//
// Sag depends only on the distance from the axis. The lower half of the
// profile is the upper half mirrored with [FlipY].
func ProfilePath(s Surface, limit, tolerance float64) (BezPath, error) {
	if !(tolerance > 0) {
		return nil, fmt.Errorf("lens: tolerance must be positive, got %g", tolerance)
	}
	limit = math.Abs(limit)
	z0, err := s.Sag(0)
	if err != nil {
		return nil, err
	}
	if _, err := s.Sag(limit); err != nil {
		return nil, err
	}
	var p BezPath
	p.MoveTo(Pt(z0, 0))
	if limit == 0 {
		return p, nil
	}

	if sph, ok := s.(*Sphere); ok {
		r := sph.Radius
		if math.IsInf(r, 0) {
			p.LineTo(Pt(0, limit))
			return p, nil
		}
		alpha := math.Asin(min(limit/math.Abs(r), 1))
		arc := Arc{Center: Pt(r, 0), Radius: r, StartAngle: 0, SweepAngle: alpha}
		if r > 0 {
			arc.StartAngle = math.Pi
			arc.SweepAngle = -alpha
		}
		appendTail(&p, arc.PathElements(tolerance))
		return p, nil
	}

	step := limit / initialPieces
	for i := range initialPieces {
		h0 := float64(i) * step
		h1 := float64(i+1) * step
		if i == initialPieces-1 {
			h1 = limit
		}
		if err := fitPiece(&p, s, h0, h1, tolerance, 0); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// fitPiece appends the profile between h0 and h1 to p.
func fitPiece(p *BezPath, s Surface, h0, h1, tolerance float64, depth int) error {
	z0, d0, err := sagSlope(s, h0)
	if err != nil {
		return err
	}
	z1, d1, err := sagSlope(s, h1)
	if err != nil {
		return err
	}
	dh := h1 - h0
	cb := hermite(Pt(z0, h0), Vec(d0*dh, dh), Pt(z1, h1), Vec(d1*dh, dh))

	if !cb.P1.IsFinite() || !cb.P2.IsFinite() {
		if depth >= maxFitDepth {
			Logger().Debug("profile slope not finite, using a line",
				slog.String("surface", s.Type().String()),
				slog.Float64("h0", h0), slog.Float64("h1", h1))
			p.LineTo(cb.P3)
			return nil
		}
		return splitPiece(p, s, h0, h1, tolerance, depth)
	}

	// The cubic's y coordinate is linear in t, so only x needs checking.
	var maxErr float64
	for _, t := range [...]float64{0.25, 0.5, 0.75} {
		z, err := s.Sag(h0 + t*dh)
		if err != nil {
			return err
		}
		maxErr = max(maxErr, math.Abs(cb.Eval(t).X-z))
	}
	if maxErr <= tolerance || depth >= maxFitDepth {
		p.CubicTo(cb.P1, cb.P2, cb.P3)
		return nil
	}
	return splitPiece(p, s, h0, h1, tolerance, depth)
}

func splitPiece(p *BezPath, s Surface, h0, h1, tolerance float64, depth int) error {
	hm := 0.5 * (h0 + h1)
	if err := fitPiece(p, s, h0, hm, tolerance, depth+1); err != nil {
		return err
	}
	return fitPiece(p, s, hm, h1, tolerance, depth+1)
}

func sagSlope(s Surface, h float64) (z, d float64, err error) {
	if z, err = s.Sag(h); err != nil {
		return 0, 0, err
	}
	if d, err = s.Deriv1(h); err != nil {
		return 0, 0, err
	}
	return z, d, nil
}

// appendTail appends all elements of seq except a leading MoveTo.
func appendTail(p *BezPath, seq iter.Seq[PathElement]) {
	first := true
	for el := range seq {
		if first {
			first = false
			if el.Kind == MoveToKind {
				continue
			}
		}
		p.Push(el)
	}
}

// face returns a surface's full profile across its clear aperture, from
// (sag, -inner/2) to (sag, inner/2), shifted by offset along the axis.
func face(s Surface, offset, tolerance float64) (BezPath, error) {
	if s == nil {
		return nil, ErrMissingSurface
	}
	inner, _ := s.Diameters()
	upper, err := ProfilePath(s, inner/2, tolerance)
	if err != nil {
		return nil, err
	}
	lower := upper.Transform(FlipY).Reverse()
	full := append(BezPath{}, lower...)
	appendTail(&full, upper.Elements())
	return full.Transform(Translate(Vec(offset, 0))), nil
}

// Outline returns the closed meridional cross-section of the lens: the left
// face across its clear aperture, the flat annulus out to its mechanical
// diameter, the edge, and the right face shifted by the thickness. The
// optical axis is the x-axis and the left vertex sits at the origin.
func (l *Lens) Outline(tolerance float64) (BezPath, error) {
	left, err := face(l.Left, 0, tolerance)
	if err != nil {
		return nil, fmt.Errorf("left: %w", err)
	}
	right, err := face(l.Right, l.Thickness, tolerance)
	if err != nil {
		return nil, fmt.Errorf("right: %w", err)
	}
	leftEnd, _ := left[len(left)-1].EndPoint()
	rightStart, _ := right[0].EndPoint()
	_, lo := l.Left.Diameters()
	_, ro := l.Right.Diameters()
	// Rims never sit inside the clear aperture.
	lrim := max(lo/2, leftEnd.Y)
	rrim := max(ro/2, -rightStart.Y)

	var p BezPath
	p.MoveTo(Pt(leftEnd.X, lrim))
	p.LineTo(leftEnd)
	appendTail(&p, left.Reverse().Elements())
	p.LineTo(Pt(leftEnd.X, -lrim))
	p.LineTo(Pt(rightStart.X, -rrim))
	p.LineTo(rightStart)
	appendTail(&p, right.Elements())
	p.LineTo(Pt(rightStart.X, rrim))
	p.ClosePath()
	return p, nil
}
