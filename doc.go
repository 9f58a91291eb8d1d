// Package lens models the profiles of rotationally symmetric optical surfaces
// and the assembly of two such surfaces into a lens. It is meant for
// engineering visualization and for producing the numbers that go onto
// manufacturing drawings.
//
// # Surfaces
//
// A [Surface] describes one lens face by its base radius R, and, for
// aspheres, a conic constant k and a list of polynomial coefficients. With
// c = 1/R, the sag of every variant is
//
//	z(h) = c·h² / (1 + sqrt(1 - (1+k)·c²·h²)) + Σ aᵢ·h^e(i)
//
// The package provides three variants:
//   - [Sphere]: k = 0 and no polynomial
//   - [EvenAsphere]: e(i) = 2i + 4, that is A4, A6, A8, …
//   - [OddAsphere]: e(i) = i + 3, that is A3, A4, A5, …
//
// Every surface computes sag, first and second derivatives, slope angle (in
// degrees), local curvature and local radius of curvature at a radial height
// h. [Eval] and [Tabulate] evaluate a surface at many heights at once.
//
// An infinite base radius is a flat surface. Its sag and slope are exactly
// zero and its local radius is exactly +Inf. A base radius of zero is
// rejected with a [DegenerateRadiusError]. Heights for which the square root
// above would be imaginary are rejected with a [DomainError]. No other
// restriction is placed on h; in particular, heights beyond the clear
// aperture are evaluated normally.
//
// The derivatives are evaluated in terms of rt = sqrt(1 - (1+k)·c²·h²):
//
//	z'  = c·h/rt  + Σ e·aᵢ·h^(e-1)
//	z'' = c/rt³   + Σ e·(e-1)·aᵢ·h^(e-2)
//
// and the local curvature z''/(1+z'²)^1.5 is rearranged so that it stays
// finite where rt reaches zero.
//
// # Lenses
//
// A [Lens] holds two surfaces, a center thickness, a material label, a name
// and a description. It does no optics; it only aggregates its surfaces and
// converts to and from [Record], the plain nested representation used for
// persistence. See the lensfile sub-package for reading and writing files of
// lenses.
//
// # Drawings
//
// [ProfilePath] approximates a surface's profile by a [BezPath], and
// [Lens.Outline] builds the closed cross-section of a lens, including the
// flat annulus between clear and mechanical diameter and the edge. Paths can
// be written as SVG path data with [BezPath.SVG]. The render sub-package
// turns outlines into complete SVG and PNG drawings.
//
// # Units
//
// All lengths are in the same unit, conventionally millimetres. Angles
// returned by Slope are in degrees.
package lens
