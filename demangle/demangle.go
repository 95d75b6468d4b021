// Package demangle decodes symbol names produced by the Microsoft C++
// compiler, such as ??0klass@@QEAA@XZ, back into readable declarations.
//
// The usual entry point is Demangle:
//
//	out, err := demangle.Demangle("?x@@3HA", demangle.LessWhitespace)
//	// out == "int x"
//
// Parse and Serialize expose the two halves separately for callers that
// want to inspect or transform the symbol structure in between.
package demangle

import "strings"

// WhitespaceMode selects how generously the output is padded.
type WhitespaceMode int

const (
	// LessWhitespace inserts spaces only where two tokens would
	// otherwise merge, e.g. "int*x" and "int x".
	LessWhitespace WhitespaceMode = iota

	// LotsOfWhitespace additionally pads after '*', '&' and '>',
	// matching the output of the undname utility, e.g. "int * x".
	LotsOfWhitespace
)

// Parse decodes a mangled symbol into its structured form. The input must
// start with '?'. Errors wrap one of the Err sentinels in this package.
func Parse(input string) (*ParseResult, error) {
	return newParser(input).parse()
}

// Serialize renders a parsed symbol as a C++ declaration.
func Serialize(r *ParseResult, mode WhitespaceMode) (string, error) {
	s := &serializer{mode: mode}
	if err := s.serialize(r); err != nil {
		return "", err
	}
	return string(s.buf), nil
}

// Demangle decodes a mangled symbol directly to a C++ declaration. It is
// Parse followed by Serialize.
func Demangle(input string, mode WhitespaceMode) (string, error) {
	r, err := Parse(input)
	if err != nil {
		return "", err
	}
	return Serialize(r, mode)
}

// IsMangled reports whether s looks like a symbol this package can
// decode. It is a cheap prefix test, not a full validation.
func IsMangled(s string) bool {
	return strings.HasPrefix(s, "?")
}

// Filter demangles every mangled token in s, leaving the rest of the text
// untouched. Tokens are separated by spaces and tabs. A token that is a
// cdecl-decorated C name loses its leading underscore; tokens that fail to
// demangle are passed through unchanged, so Filter is safe to run over
// arbitrary tool output such as linker maps or stack traces.
func Filter(s string, mode WhitespaceMode) string {
	var b strings.Builder
	b.Grow(len(s))

	rest := s
	for len(rest) > 0 {
		i := strings.IndexAny(rest, " \t")
		var tok, sep string
		if i < 0 {
			tok, rest = rest, ""
		} else {
			tok, sep, rest = rest[:i], rest[i:i+1], rest[i+1:]
		}
		switch {
		case IsMangled(tok):
			if out, err := Demangle(tok, mode); err == nil {
				tok = out
			}
		case isCDecorated(tok):
			tok = tok[1:]
		}
		b.WriteString(tok)
		b.WriteString(sep)
	}
	return b.String()
}

// isCDecorated reports whether tok is a cdecl-decorated C name: a leading
// underscore followed by a plain C identifier.
func isCDecorated(tok string) bool {
	if len(tok) < 2 || tok[0] != '_' {
		return false
	}
	for i := 1; i < len(tok); i++ {
		c := tok[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
