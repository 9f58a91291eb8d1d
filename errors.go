package lens

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain is matched by every [DomainError].
	ErrDomain = errors.New("lens: height outside surface domain")
	// ErrDegenerateRadius is matched by every [DegenerateRadiusError].
	ErrDegenerateRadius = errors.New("lens: degenerate base radius")
	// ErrSchema is matched by every [SchemaError].
	ErrSchema = errors.New("lens: malformed lens record")
	// ErrMissingSurface is returned for a lens whose left or right surface
	// is nil.
	ErrMissingSurface = errors.New("lens: missing surface")
)

// DomainError is returned when a height lies beyond the zone in which the
// base conic is defined, that is, when 1 - (1+k)·c²·h² < 0.
type DomainError struct {
	H       float64
	Surface SurfaceType
	Radius  float64
	Conic   float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("lens: height %g outside domain of %s surface (R=%g, k=%g)",
		e.H, e.Surface, e.Radius, e.Conic)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

// DegenerateRadiusError is returned when a surface with a base radius of
// exactly zero (or NaN) is evaluated. Only an infinite radius denotes a flat
// surface.
type DegenerateRadiusError struct {
	Surface SurfaceType
	Radius  float64
}

func (e *DegenerateRadiusError) Error() string {
	return fmt.Sprintf("lens: %s surface has degenerate base radius %g", e.Surface, e.Radius)
}

func (e *DegenerateRadiusError) Unwrap() error { return ErrDegenerateRadius }

// SchemaError describes a missing or malformed field in a lens record. Field
// is a dotted path such as "left.coefficients[2]".
type SchemaError struct {
	Field string
	Msg   string
	Err   error
}

func (e *SchemaError) Error() string {
	var s string
	if e.Field == "" {
		s = "lens: " + e.Msg
	} else {
		s = fmt.Sprintf("lens: field %q: %s", e.Field, e.Msg)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *SchemaError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSchema, e.Err}
	}
	return []error{ErrSchema}
}

func schemaErrorf(field string, format string, args ...any) *SchemaError {
	return &SchemaError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
