package cli

import (
	"errors"
	"fmt"

	"honnef.co/go/lens"
	"honnef.co/go/lens/lensfile"
)

// readLenses reads a collection file, reporting failures through f.
func readLenses(f *OutputFormatter, path string) ([]*lens.Lens, error) {
	lenses, err := lensfile.ReadFile(path)
	if err == nil {
		return lenses, nil
	}
	switch {
	case errors.Is(err, lensfile.ErrUnknownFormat):
		return nil, f.Fail(ExitCommandError, ErrCodeUsage, fmt.Sprintf("cannot tell the format of %s", path), err)
	case errors.Is(err, lens.ErrSchema):
		return nil, f.Fail(ExitCommandError, ErrCodeSchema, fmt.Sprintf("invalid lens file %s", path), err)
	default:
		return nil, f.Fail(ExitCommandError, ErrCodeRead, fmt.Sprintf("reading %s", path), err)
	}
}

// writeLenses writes a collection file, reporting failures through f.
func writeLenses(f *OutputFormatter, path string, lenses []*lens.Lens) error {
	if err := lensfile.WriteFile(path, lenses); err != nil {
		return f.Fail(ExitCommandError, ErrCodeWrite, fmt.Sprintf("writing %s", path), err)
	}
	return nil
}

// pickLens returns lenses[index].
func pickLens(f *OutputFormatter, lenses []*lens.Lens, index int) (*lens.Lens, error) {
	if index < 0 || index >= len(lenses) {
		return nil, f.Fail(ExitCommandError, ErrCodeUsage,
			fmt.Sprintf("lens index %d out of range: file holds %d lens(es)", index, len(lenses)), nil)
	}
	return lenses[index], nil
}
