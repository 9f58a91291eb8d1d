package lens

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Record is the plain nested representation of a lens used for persistence.
// Its layout is
//
//	name, material, description: string
//	thickness: number
//	left, right: surface records
//
// where a surface record holds type ("SPH", "ASP" or "ODD"),
// inner_diameter, outer_diameter and base_radius, and, for aspheres only,
// conic_constant and coefficients. An infinite base radius is stored as the
// string "Inf" (or "-Inf").
type Record map[string]any

// Record keys.
const (
	KeyName          = "name"
	KeyMaterial      = "material"
	KeyThickness     = "thickness"
	KeyDescription   = "description"
	KeyLeft          = "left"
	KeyRight         = "right"
	KeyType          = "type"
	KeyInnerDiameter = "inner_diameter"
	KeyOuterDiameter = "outer_diameter"
	KeyBaseRadius    = "base_radius"
	KeyConic         = "conic_constant"
	KeyCoefficients  = "coefficients"
)

// Keys written by older versions of the lens editor. They are accepted when
// reading but never written.
var legacyKeys = map[string]string{
	KeyInnerDiameter: "inner_d",
	KeyOuterDiameter: "outer_d",
	KeyBaseRadius:    "radius",
	KeyConic:         "k",
	KeyCoefficients:  "coefs",
}

// Record returns the lens in its persisted form. Both surfaces must be set;
// a lens that passes [Lens.Validate] always satisfies this.
func (l *Lens) Record() Record {
	return Record{
		KeyName:        l.Name,
		KeyMaterial:    l.Material,
		KeyThickness:   l.Thickness,
		KeyDescription: l.Description,
		KeyLeft:        surfaceRecord(l.Left),
		KeyRight:       surfaceRecord(l.Right),
	}
}

func surfaceRecord(s Surface) Record {
	inner, outer := s.Diameters()
	rec := Record{
		KeyType:          s.Type().String(),
		KeyInnerDiameter: inner,
		KeyOuterDiameter: outer,
		KeyBaseRadius:    formatBaseRadius(s.BaseRadius()),
	}
	switch s := s.(type) {
	case *EvenAsphere:
		rec[KeyConic] = s.Conic
		rec[KeyCoefficients] = slices.Clone(s.Coefficients)
	case *OddAsphere:
		rec[KeyConic] = s.Conic
		rec[KeyCoefficients] = slices.Clone(s.Coefficients)
	}
	return rec
}

// formatBaseRadius returns r unchanged if it is finite and "Inf" or "-Inf"
// otherwise, since infinities have no representation in JSON.
func formatBaseRadius(r float64) any {
	switch {
	case math.IsInf(r, 1):
		return "Inf"
	case math.IsInf(r, -1):
		return "-Inf"
	case math.IsNaN(r):
		return "NaN"
	}
	return r
}

// parseBaseRadius parses a stored base radius. Anything that isn't a number
// is read as a flat surface, matching the editor's handling of its radius
// text field. No other field is parsed this leniently.
func parseBaseRadius(v any) float64 {
	if _, ok := v.(bool); ok || v == nil {
		return math.Inf(1)
	}
	r, err := parseNumber(v)
	if err != nil {
		return math.Inf(1)
	}
	return r
}

// parseNumber accepts any numeric type as well as numeric strings.
func parseNumber(v any) (float64, error) {
	if s, ok := v.(string); ok {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return cast.ToFloat64E(v)
}

// FromRecord reconstructs a lens from its persisted form. It fails with a
// [SchemaError] if a required field is missing or malformed. Numeric fields
// must be finite. Only base_radius is exempt: a value that doesn't parse as
// a number yields an infinite radius.
//
// The name, thickness, left and right fields are required. Material and
// description are always written by [Lens.Record] but may be absent when
// reading, in which case they are empty.
func FromRecord(rec Record) (*Lens, error) {
	l := &Lens{}
	var err error
	if l.Name, err = requireString(rec, "", KeyName); err != nil {
		return nil, err
	}
	if l.Material, err = optionalString(rec, "", KeyMaterial); err != nil {
		return nil, err
	}
	if l.Description, err = optionalString(rec, "", KeyDescription); err != nil {
		return nil, err
	}
	if l.Thickness, err = requireFloat(rec, "", KeyThickness); err != nil {
		return nil, err
	}
	if l.Left, err = surfaceFromField(rec, KeyLeft); err != nil {
		return nil, err
	}
	if l.Right, err = surfaceFromField(rec, KeyRight); err != nil {
		return nil, err
	}
	return l, nil
}

func surfaceFromField(rec Record, key string) (Surface, error) {
	v, ok := rec[key]
	if !ok {
		return nil, schemaErrorf(key, "missing")
	}
	m, ok := asRecord(v)
	if !ok {
		return nil, schemaErrorf(key, "expected a mapping, got %T", v)
	}
	return SurfaceFromRecord(m, key)
}

// SurfaceFromRecord reconstructs a single surface. prefix is used in error
// messages to locate the surface within a larger record.
func SurfaceFromRecord(rec Record, prefix string) (Surface, error) {
	tv, ok := rec[KeyType]
	if !ok {
		return nil, schemaErrorf(join(prefix, KeyType), "missing")
	}
	tag, ok := tv.(string)
	if !ok {
		return nil, schemaErrorf(join(prefix, KeyType), "expected a string, got %T", tv)
	}
	typ, err := ParseSurfaceType(tag)
	if err != nil {
		return nil, schemaErrorf(join(prefix, KeyType), "unknown surface type %q", tag)
	}

	inner, err := requireFloat(rec, prefix, KeyInnerDiameter)
	if err != nil {
		return nil, err
	}
	outer, err := requireFloat(rec, prefix, KeyOuterDiameter)
	if err != nil {
		return nil, err
	}
	rv, ok := lookup(rec, KeyBaseRadius)
	if !ok {
		return nil, schemaErrorf(join(prefix, KeyBaseRadius), "missing")
	}
	r := parseBaseRadius(rv)

	if typ == TypeSphere {
		return &Sphere{InnerDiameter: inner, OuterDiameter: outer, Radius: r}, nil
	}

	k, err := requireFloat(rec, prefix, KeyConic)
	if err != nil {
		return nil, err
	}
	coefs, err := requireFloats(rec, prefix, KeyCoefficients)
	if err != nil {
		return nil, err
	}
	if typ == TypeEvenAsphere {
		return &EvenAsphere{InnerDiameter: inner, OuterDiameter: outer, Radius: r, Conic: k, Coefficients: coefs}, nil
	}
	return &OddAsphere{InnerDiameter: inner, OuterDiameter: outer, Radius: r, Conic: k, Coefficients: coefs}, nil
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func asRecord(v any) (Record, bool) {
	switch v := v.(type) {
	case Record:
		return v, true
	case map[string]any:
		return Record(v), true
	default:
		return nil, false
	}
}

func lookup(rec Record, key string) (any, bool) {
	if v, ok := rec[key]; ok {
		return v, true
	}
	if alias, ok := legacyKeys[key]; ok {
		v, ok := rec[alias]
		return v, ok
	}
	return nil, false
}

func requireString(rec Record, prefix, key string) (string, error) {
	v, ok := lookup(rec, key)
	if !ok {
		return "", schemaErrorf(join(prefix, key), "missing")
	}
	s, ok := v.(string)
	if !ok {
		return "", schemaErrorf(join(prefix, key), "expected a string, got %T", v)
	}
	return s, nil
}

func optionalString(rec Record, prefix, key string) (string, error) {
	if _, ok := lookup(rec, key); !ok {
		return "", nil
	}
	return requireString(rec, prefix, key)
}

func requireFloat(rec Record, prefix, key string) (float64, error) {
	v, ok := lookup(rec, key)
	if !ok {
		return 0, schemaErrorf(join(prefix, key), "missing")
	}
	return toFloat(v, join(prefix, key))
}

func requireFloats(rec Record, prefix, key string) ([]float64, error) {
	field := join(prefix, key)
	v, ok := lookup(rec, key)
	if !ok {
		return nil, schemaErrorf(field, "missing")
	}
	switch v := v.(type) {
	case []float64:
		return slices.Clone(v), nil
	case []any:
		out := make([]float64, len(v))
		for i, e := range v {
			f, err := toFloat(e, fmt.Sprintf("%s[%d]", field, i))
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, schemaErrorf(field, "expected a list of numbers, got %T", v)
	}
}

func toFloat(v any, field string) (float64, error) {
	switch v.(type) {
	case nil, bool:
		return 0, schemaErrorf(field, "expected a number, got %v", v)
	}
	f, err := parseNumber(v)
	if err != nil {
		return 0, &SchemaError{Field: field, Msg: "expected a number", Err: err}
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, schemaErrorf(field, "expected a finite number, got %v", v)
	}
	return f, nil
}
