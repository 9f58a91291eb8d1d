// Package lensfile reads and writes collections of lenses.
//
// A collection file is a mapping holding the number of lenses under
// "lens_count" and each lens record, as produced by [lens.Lens.Record],
// under its index:
//
//	{
//	    "lens_count": 2,
//	    "0": { "name": "...", ... },
//	    "1": { "name": "...", ... }
//	}
//
// Files are JSON or YAML, chosen by extension.
package lensfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"honnef.co/go/lens"
)

// KeyLensCount is the key holding the number of lenses in a collection.
const KeyLensCount = "lens_count"

const indent = "    "

// Format is a file encoding.
type Format int

const (
	JSON Format = iota + 1
	YAML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ErrUnknownFormat is returned for file extensions other than .json, .yaml
// and .yml.
var ErrUnknownFormat = errors.New("lensfile: unknown file format")

// FormatFromPath picks a format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Document is a decoded collection file before conversion to lenses.
type Document map[string]any

// Encode writes lenses as a collection in the given format.
func Encode(w io.Writer, lenses []*lens.Lens, f Format) error {
	var b []byte
	var err error
	switch f {
	case JSON:
		b, err = encodeJSON(lenses)
	case YAML:
		b, err = encodeYAML(lenses)
	default:
		return fmt.Errorf("lensfile: cannot encode %s", f)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// encodeJSON writes the lens count first and the lenses in index order.
// encoding/json would sort the keys of a map as strings, placing "10"
// before "2".
func encodeJSON(lenses []*lens.Lens) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	fmt.Fprintf(&buf, "%s%q: %d", indent, KeyLensCount, len(lenses))
	for i, l := range lenses {
		rec, err := json.MarshalIndent(l.Record(), indent, indent)
		if err != nil {
			return nil, fmt.Errorf("lensfile: lens %d: %w", i, err)
		}
		fmt.Fprintf(&buf, ",\n%s%q: %s", indent, strconv.Itoa(i), rec)
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

func encodeYAML(lenses []*lens.Lens) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, v any) error {
		var val yaml.Node
		if err := val.Encode(v); err != nil {
			return err
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, &val)
		return nil
	}
	if err := add(KeyLensCount, len(lenses)); err != nil {
		return nil, err
	}
	for i, l := range lenses {
		if err := add(strconv.Itoa(i), map[string]any(l.Record())); err != nil {
			return nil, fmt.Errorf("lensfile: lens %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeDocument parses a collection without converting it to lenses. JSON
// input may contain the bare constants Infinity, -Infinity and NaN, which
// are read as the strings "Inf", "-Inf" and "NaN".
func DecodeDocument(r io.Reader, f Format) (Document, error) {
	var doc Document
	switch f {
	case JSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("lensfile: %w", err)
		}
		if err := json.NewDecoder(bytes.NewReader(quoteNonFinite(data))).Decode(&doc); err != nil {
			return nil, fmt.Errorf("lensfile: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("lensfile: %w", err)
		}
	default:
		return nil, fmt.Errorf("lensfile: cannot decode %s", f)
	}
	if doc == nil {
		return nil, &lens.SchemaError{Msg: "empty document"}
	}
	return normalize(doc).(Document), nil
}

// normalize converts nested mappings to lens.Record so that documents from
// either format look alike.
func normalize(v any) any {
	switch v := v.(type) {
	case Document:
		for k, e := range v {
			v[k] = normalize(e)
		}
		return v
	case map[string]any:
		rec := lens.Record(v)
		for k, e := range rec {
			rec[k] = normalize(e)
		}
		return rec
	case []any:
		for i, e := range v {
			v[i] = normalize(e)
		}
		return v
	default:
		return v
	}
}

// Decode reads a collection, validates its structure and converts it to
// lenses.
func Decode(r io.Reader, f Format) ([]*lens.Lens, error) {
	doc, err := DecodeDocument(r, f)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return Lenses(doc)
}

// Lenses converts a document to lenses. Errors in a lens record are
// reported with the lens index prepended to the field path, as in
// "2.left.base_radius".
func Lenses(doc Document) ([]*lens.Lens, error) {
	n, err := lensCount(doc)
	if err != nil {
		return nil, err
	}
	out := make([]*lens.Lens, n)
	for i := range n {
		key := strconv.Itoa(i)
		v, ok := doc[key]
		if !ok {
			return nil, &lens.SchemaError{Field: key, Msg: "missing"}
		}
		rec, ok := v.(lens.Record)
		if !ok {
			return nil, &lens.SchemaError{Field: key, Msg: fmt.Sprintf("expected a mapping, got %T", v)}
		}
		l, err := lens.FromRecord(rec)
		if err != nil {
			var se *lens.SchemaError
			if errors.As(err, &se) {
				return nil, &lens.SchemaError{Field: key + "." + se.Field, Msg: se.Msg, Err: se.Err}
			}
			return nil, err
		}
		out[i] = l
	}
	lens.Logger().Debug("decoded lens collection", "lenses", n)
	return out, nil
}

func lensCount(doc Document) (int, error) {
	v, ok := doc[KeyLensCount]
	if !ok {
		return 0, &lens.SchemaError{Field: KeyLensCount, Msg: "missing"}
	}
	if _, ok := v.(bool); ok {
		return 0, &lens.SchemaError{Field: KeyLensCount, Msg: "expected an integer, got bool"}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, &lens.SchemaError{Field: KeyLensCount, Msg: "expected an integer", Err: err}
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, &lens.SchemaError{Field: KeyLensCount, Msg: fmt.Sprintf("expected a non-negative integer, got %v", v)}
	}
	return int(f), nil
}

// ReadFile reads a collection, picking the format by extension.
func ReadFile(path string) ([]*lens.Lens, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return Decode(fd, f)
}

// ReadDocument reads a collection without converting it.
func ReadDocument(path string) (Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return DecodeDocument(fd, f)
}

// WriteFile writes a collection, picking the format by extension.
func WriteFile(path string, lenses []*lens.Lens) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, lenses, f); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
