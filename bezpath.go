package lens

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"
)

type PathElementKind int

const (
	// Move directly to the point without drawing anything, starting a new
	// subpath.
	MoveToKind PathElementKind = iota + 1
	// Draw a line from the current location to the point.
	LineToKind
	// Draw a cubic bezier using the current location and the three points.
	CubicToKind
	// Close off the path.
	ClosePathKind
)

// PathElement is one drawing command of a [BezPath].
type PathElement struct {
	Kind PathElementKind
	P0   Point
	P1   Point
	P2   Point
}

func (el PathElement) String() string {
	var kind string
	switch el.Kind {
	case MoveToKind:
		kind = "MoveTo"
	case LineToKind:
		kind = "LineTo"
	case CubicToKind:
		kind = "CubicTo"
	case ClosePathKind:
		kind = "ClosePath"
	default:
		kind = "InvalidPathElement"
	}
	return fmt.Sprintf("%s(%s, %s, %s)", kind, el.P0, el.P1, el.P2)
}

func (el PathElement) Transform(aff Affine) PathElement {
	switch el.Kind {
	case MoveToKind:
		return MoveTo(el.P0.Transform(aff))
	case LineToKind:
		return LineTo(el.P0.Transform(aff))
	case CubicToKind:
		return CubicTo(el.P0.Transform(aff), el.P1.Transform(aff), el.P2.Transform(aff))
	case ClosePathKind:
		return ClosePath()
	default:
		return PathElement{}
	}
}

// EndPoint returns the end point of the element, or false for ClosePath.
func (el PathElement) EndPoint() (Point, bool) {
	switch el.Kind {
	case MoveToKind, LineToKind:
		return el.P0, true
	case CubicToKind:
		return el.P2, true
	default:
		return Point{}, false
	}
}

func MoveTo(pt Point) PathElement {
	return PathElement{Kind: MoveToKind, P0: pt}
}

func LineTo(pt Point) PathElement {
	return PathElement{Kind: LineToKind, P0: pt}
}

func CubicTo(p0, p1, p2 Point) PathElement {
	return PathElement{Kind: CubicToKind, P0: p0, P1: p1, P2: p2}
}

func ClosePath() PathElement {
	return PathElement{Kind: ClosePathKind}
}

// BezPath is a sequence of path elements. Profiles and lens outlines are
// built as BezPaths.
type BezPath []PathElement

// Transform returns a new path with aff applied to every element.
func (p BezPath) Transform(aff Affine) BezPath {
	els := make([]PathElement, len(p))
	for i := range p {
		els[i] = p[i].Transform(aff)
	}
	return els
}

// Push adds an element to the path.
func (p *BezPath) Push(el PathElement) {
	*p = append(*p, el)
}

func (p *BezPath) MoveTo(pt Point)          { p.Push(MoveTo(pt)) }
func (p *BezPath) LineTo(pt Point)          { p.Push(LineTo(pt)) }
func (p *BezPath) CubicTo(p1, p2, p3 Point) { p.Push(CubicTo(p1, p2, p3)) }
func (p *BezPath) ClosePath()               { p.Push(ClosePath()) }

// Elements returns an iterator over the path's elements.
func (p BezPath) Elements() iter.Seq[PathElement] { return slices.Values(p) }

// Reverse returns the path traversed backwards. p must consist of a single
// open subpath without ClosePath elements.
func (p BezPath) Reverse() BezPath {
	if len(p) == 0 {
		return nil
	}
	out := make(BezPath, 0, len(p))
	end, _ := p[len(p)-1].EndPoint()
	out.MoveTo(end)
	for i := len(p) - 1; i > 0; i-- {
		start, _ := p[i-1].EndPoint()
		switch el := p[i]; el.Kind {
		case LineToKind:
			out.LineTo(start)
		case CubicToKind:
			out.CubicTo(el.P1, el.P0, start)
		}
	}
	return out
}

// ControlBox returns a rectangle that conservatively encloses the path, using
// control points directly rather than tight curve bounds.
func (p BezPath) ControlBox() Rect {
	first := true
	var cbox Rect
	addPt := func(pt Point) {
		if first {
			first = false
			cbox = NewRectFromPoints(pt, pt)
		} else {
			cbox = cbox.UnionPoint(pt)
		}
	}
	for _, el := range p {
		switch el.Kind {
		case MoveToKind, LineToKind:
			addPt(el.P0)
		case CubicToKind:
			addPt(el.P0)
			addPt(el.P1)
			addPt(el.P2)
		case ClosePathKind:
		}
	}
	return cbox
}

// SVGOptions specifies optional settings for [BezPath.SVG] and
// [BezPath.WriteSVG].
type SVGOptions struct {
	// The maximum precision with which to format coordinates. A value of 0
	// chooses the highest precision necessary to unambiguously represent any
	// given coordinate.
	MaxPrecision int
}

// SVG converts the path to a string of SVG path commands.
func (p BezPath) SVG(opts SVGOptions) string {
	sb := &strings.Builder{}
	p.WriteSVG(sb, opts)
	return sb.String()
}

// WriteSVG writes the path as SVG path commands to w.
func (p BezPath) WriteSVG(w io.Writer, opts SVGOptions) error {
	var err error
	writef := func(s string, v ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, s, v...)
	}
	format := func(n float64) string {
		if opts.MaxPrecision <= 0 {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
		s := strconv.FormatFloat(n, 'f', opts.MaxPrecision, 64)
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
		if s == "-0" {
			s = "0"
		}
		return s
	}
	for i, el := range p {
		if i > 0 {
			writef(" ")
		}
		switch el.Kind {
		case MoveToKind:
			writef("M%s,%s", format(el.P0.X), format(el.P0.Y))
		case LineToKind:
			writef("L%s,%s", format(el.P0.X), format(el.P0.Y))
		case CubicToKind:
			writef("C%s,%s %s,%s %s,%s",
				format(el.P0.X), format(el.P0.Y),
				format(el.P1.X), format(el.P1.Y),
				format(el.P2.X), format(el.P2.Y))
		case ClosePathKind:
			writef("Z")
		default:
			return fmt.Errorf("lens: invalid path element kind %d", el.Kind)
		}
	}
	return err
}
