// Package render draws lens cross-sections as SVG documents and PNG images.
//
// Drawings show the closed outline of a lens, see [lens.Lens.Outline], and
// the dashed optical axis. Both axes span ±(L + margin) where L is the
// larger of the lens's outer radius and its thickness, so that lenses of
// similar size are drawn at the same scale. The left vertex sits at the
// center of the drawing.
package render

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/gg"

	"honnef.co/go/lens"
)

// Options control the size and appearance of a drawing. Zero fields take
// the values from [DefaultOptions].
type Options struct {
	// Width and Height are the size of the drawing in pixels.
	Width  int
	Height int
	// Margin is added to the drawn extent, in lens units.
	Margin float64
	// LineWidth is the outline's stroke width in pixels.
	LineWidth float64
	// Tolerance is the maximum deviation of the drawn profile from the
	// exact one, in lens units.
	Tolerance float64
}

// DefaultOptions returns the options used for zero fields.
func DefaultOptions() Options {
	return Options{
		Width:     800,
		Height:    800,
		Margin:    1,
		LineWidth: 1.5,
		Tolerance: 1e-3,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.Margin <= 0 {
		o.Margin = def.Margin
	}
	if o.LineWidth <= 0 {
		o.LineWidth = def.LineWidth
	}
	if o.Tolerance <= 0 {
		o.Tolerance = def.Tolerance
	}
	return o
}

// ErrNoAperture is returned for lenses with a surface whose clear aperture
// is empty.
var ErrNoAperture = errors.New("render: surface has no clear aperture")

// scene is a lens outline and optical axis in pixel coordinates.
type scene struct {
	opts    Options
	outline lens.BezPath
	axis    [2]lens.Point
}

// Limit returns the half-extent of the drawn region in lens units.
func Limit(l *lens.Lens, margin float64) float64 {
	return max(l.MechanicalDiameter()/2, l.Thickness) + margin
}

// View returns the transform from lens coordinates, with the optical axis
// along x and y pointing up, to pixel coordinates with y pointing down.
func View(l *lens.Lens, opts Options) lens.Affine {
	opts = opts.withDefaults()
	lim := Limit(l, opts.Margin)
	scale := float64(min(opts.Width, opts.Height)) / (2 * lim)
	return lens.FlipY.
		ThenScale(scale, scale).
		ThenTranslate(lens.Vec(float64(opts.Width)/2, float64(opts.Height)/2))
}

func newScene(l *lens.Lens, opts Options) (*scene, error) {
	opts = opts.withDefaults()
	for _, s := range []lens.Surface{l.Left, l.Right} {
		if s == nil {
			return nil, fmt.Errorf("render: %s: %w", l.Name, lens.ErrMissingSurface)
		}
		if inner, _ := s.Diameters(); !(inner > 0) {
			return nil, fmt.Errorf("%w: %s", ErrNoAperture, l.Name)
		}
	}
	outline, err := l.Outline(opts.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("render: %s: %w", l.Name, err)
	}
	view := View(l, opts)
	lim := Limit(l, opts.Margin)
	return &scene{
		opts:    opts,
		outline: outline.Transform(view),
		axis: [2]lens.Point{
			lens.Pt(-lim, 0).Transform(view),
			lens.Pt(lim, 0).Transform(view),
		},
	}, nil
}

// SVG writes a standalone SVG document of the lens to w.
func SVG(w io.Writer, l *lens.Lens, opts Options) error {
	sc, err := newScene(l, opts)
	if err != nil {
		return err
	}
	opts = sc.opts
	svgOpts := lens.SVGOptions{MaxPrecision: 3}
	axis := lens.BezPath{lens.MoveTo(sc.axis[0]), lens.LineTo(sc.axis[1])}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		opts.Width, opts.Height, opts.Width, opts.Height)
	bw.WriteString("  <title>")
	if err := xml.EscapeText(bw, []byte(l.Name)); err != nil {
		return err
	}
	bw.WriteString("</title>\n")
	fmt.Fprintf(bw, `  <rect width="%d" height="%d" fill="white"/>`+"\n", opts.Width, opts.Height)
	fmt.Fprintf(bw, `  <path d="%s" fill="none" stroke="gray" stroke-width="1" stroke-dasharray="8 4"/>`+"\n",
		axis.SVG(svgOpts))
	fmt.Fprintf(bw, `  <path d="%s" fill="none" stroke="blue" stroke-width="%g"/>`+"\n",
		sc.outline.SVG(svgOpts), opts.LineWidth)
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

// PNG renders the lens to a PNG image written to w.
func PNG(w io.Writer, l *lens.Lens, opts Options) error {
	sc, err := newScene(l, opts)
	if err != nil {
		return err
	}
	opts = sc.opts

	dc := gg.NewContext(opts.Width, opts.Height)
	defer dc.Close()
	dc.ClearWithColor(gg.White)

	dc.SetRGB(0.5, 0.5, 0.5)
	dc.SetLineWidth(1)
	dc.SetDash(8, 4)
	dc.MoveTo(sc.axis[0].X, sc.axis[0].Y)
	dc.LineTo(sc.axis[1].X, sc.axis[1].Y)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("render: stroke axis: %w", err)
	}

	dc.SetDash()
	dc.SetRGB(0, 0, 1)
	dc.SetLineWidth(opts.LineWidth)
	appendPath(dc, sc.outline)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("render: stroke outline: %w", err)
	}

	lens.Logger().Debug("rendered lens", "name", l.Name, "width", opts.Width, "height", opts.Height)
	return dc.EncodePNG(w)
}

func appendPath(dc *gg.Context, p lens.BezPath) {
	for _, el := range p {
		switch el.Kind {
		case lens.MoveToKind:
			dc.MoveTo(el.P0.X, el.P0.Y)
		case lens.LineToKind:
			dc.LineTo(el.P0.X, el.P0.Y)
		case lens.CubicToKind:
			dc.CubicTo(el.P0.X, el.P0.Y, el.P1.X, el.P1.Y, el.P2.X, el.P2.Y)
		case lens.ClosePathKind:
			dc.ClosePath()
		}
	}
}
