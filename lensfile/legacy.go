package lensfile

import "bytes"

// Bare constants written by older versions of the lens editor, whose JSON
// encoder emits non-finite floats as JavaScript literals.
var nonFiniteTokens = []struct {
	token, quoted []byte
}{
	{[]byte("-Infinity"), []byte(`"-Inf"`)},
	{[]byte("Infinity"), []byte(`"Inf"`)},
	{[]byte("NaN"), []byte(`"NaN"`)},
}

// quoteNonFinite rewrites the tokens Infinity, -Infinity and NaN outside of
// string literals into the strings "Inf", "-Inf" and "NaN". Input without
// such tokens is returned unchanged.
func quoteNonFinite(data []byte) []byte {
	if !bytes.Contains(data, []byte("Infinity")) && !bytes.Contains(data, []byte("NaN")) {
		return data
	}
	out := make([]byte, 0, len(data)+16)
	inString := false
	for i := 0; i < len(data); {
		c := data[i]
		if inString {
			out = append(out, c)
			switch c {
			case '\\':
				if i+1 < len(data) {
					out = append(out, data[i+1])
					i++
				}
			case '"':
				inString = false
			}
			i++
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			i++
			continue
		}
		if tok, n := matchNonFinite(data, i); n > 0 {
			out = append(out, tok...)
			i += n
			continue
		}
		out = append(out, c)
		i++
	}
	return out
}

func matchNonFinite(data []byte, i int) ([]byte, int) {
	if i > 0 && isIdentByte(data[i-1]) {
		return nil, 0
	}
	for _, t := range nonFiniteTokens {
		end := i + len(t.token)
		if !bytes.HasPrefix(data[i:], t.token) {
			continue
		}
		if end < len(data) && isIdentByte(data[end]) {
			continue
		}
		return t.quoted, len(t.token)
	}
	return nil, 0
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c == '+' ||
		'0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
