package asm

import "fmt"

// parseEscapeAt parses the escape sequence starting at s[i] (s[i] == '\\')
// and returns the number of source characters consumed and the resulting
// byte. Only \n \r \t \0 \\ \' \" are recognized; anything else is not a
// valid escape here.
func parseEscapeAt(s string, i int) (consumed int, b byte, ok bool) {
	if i+1 >= len(s) || s[i] != '\\' {
		return 0, 0, false
	}
	switch s[i+1] {
	case 'n':
		return 2, '\n', true
	case 'r':
		return 2, '\r', true
	case 't':
		return 2, '\t', true
	case '0':
		return 2, 0, true
	case '\\':
		return 2, '\\', true
	case '\'':
		return 2, '\'', true
	case '"':
		return 2, '"', true
	default:
		return 0, 0, false
	}
}

// parseEscapeChar parses a single escape sequence (the input starts with
// the backslash) and returns its byte value.
func parseEscapeChar(escape string) (byte, int, error) {
	if len(escape) < 2 || escape[0] != '\\' {
		return 0, 0, fmt.Errorf("invalid escape sequence: %s", escape)
	}
	consumed, b, ok := parseEscapeAt(escape, 0)
	if !ok {
		return 0, 0, fmt.Errorf("unknown escape sequence: %s", escape)
	}
	return b, consumed, nil
}

// unquoteString decodes a double-quoted string literal's contents
// (excluding the surrounding quotes), applying escape sequences, and
// returns the raw bytes it produces for a `db "…"` data directive.
func unquoteString(contents string) ([]byte, error) {
	out := make([]byte, 0, len(contents))
	i := 0
	for i < len(contents) {
		if contents[i] == '\\' {
			consumed, b, ok := parseEscapeAt(contents, i)
			if !ok {
				return nil, fmt.Errorf("invalid escape sequence at offset %d", i)
			}
			out = append(out, b)
			i += consumed
			continue
		}
		out = append(out, contents[i])
		i++
	}
	return out, nil
}
