package lensfile

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"honnef.co/go/lens"
)

//go:embed schema.cue
var schemaSource string

// Validate checks the structure of a decoded document against the lens file
// schema. All violations are reported at once, joined inside a single
// [lens.SchemaError]; [Violations] lists them.
//
// Validate only checks structure. Values such as malformed numeric strings
// are caught by [Lenses].
func Validate(doc Document) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("lensfile: invalid embedded schema: %w", err)
	}
	v := ctx.Encode(map[string]any(doc))
	if err := v.Err(); err != nil {
		return &lens.SchemaError{Msg: "cannot encode document", Err: err}
	}
	err := schema.Unify(v).Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var violations []error
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		violations = append(violations, &lens.SchemaError{
			Field: strings.Join(e.Path(), "."),
			Msg:   fmt.Sprintf(format, args...),
		})
	}
	if len(violations) == 0 {
		violations = append(violations, err)
	}
	return &lens.SchemaError{
		Msg: fmt.Sprintf("%d schema violation(s)", len(violations)),
		Err: errors.Join(violations...),
	}
}

// Violations returns the individual problems reported by [Validate].
func Violations(err error) []*lens.SchemaError {
	var top *lens.SchemaError
	if !errors.As(err, &top) {
		return nil
	}
	joined, ok := top.Err.(interface{ Unwrap() []error })
	if !ok {
		return []*lens.SchemaError{top}
	}
	var out []*lens.SchemaError
	for _, e := range joined.Unwrap() {
		var se *lens.SchemaError
		if errors.As(e, &se) {
			out = append(out, se)
		}
	}
	return out
}
