package demangle

import (
	"errors"
	"fmt"
)

// Sentinel errors for parse failures. Every error returned by Parse wraps
// one of these inside a *ParseError.
var (
	// ErrNotMangled indicates the input does not start with '?'.
	ErrNotMangled = errors.New("demangle: input is not an MSVC mangled name")

	// ErrUnexpectedEnd indicates the input ended mid-production.
	ErrUnexpectedEnd = errors.New("demangle: unexpected end of input")

	// ErrExpectedLiteral indicates a required fixed byte sequence was absent.
	ErrExpectedLiteral = errors.New("demangle: expected literal not found")

	// ErrBadNumber indicates a malformed integer encoding.
	ErrBadNumber = errors.New("demangle: bad number encoding")

	// ErrMissingTerminator indicates a name without its '@' terminator.
	ErrMissingTerminator = errors.New("demangle: missing '@' terminator")

	// ErrBackrefOutOfRange indicates a back-reference past the table size.
	ErrBackrefOutOfRange = errors.New("demangle: back-reference out of range")

	// ErrUnknownOperator indicates an unrecognized operator escape.
	ErrUnknownOperator = errors.New("demangle: unknown operator name")

	// ErrUnknownCallingConv indicates an unrecognized calling convention byte.
	ErrUnknownCallingConv = errors.New("demangle: unknown calling convention")

	// ErrUnknownStorageClass indicates an unrecognized qualifier byte.
	ErrUnknownStorageClass = errors.New("demangle: unknown storage class")

	// ErrUnknownFuncClass indicates an unrecognized function class byte.
	ErrUnknownFuncClass = errors.New("demangle: unknown function class")

	// ErrUnknownType indicates an unrecognized type code.
	ErrUnknownType = errors.New("demangle: unknown type code")

	// ErrInvalidDimension indicates a non-positive array dimension count.
	ErrInvalidDimension = errors.New("demangle: invalid array dimension")

	// ErrMissingScope indicates a constructor or destructor name with no
	// enclosing scope to take its spelling from.
	ErrMissingScope = errors.New("demangle: constructor or destructor without enclosing scope")
)

// ParseError reports a parse failure together with the unparsed input
// suffix at the point of failure.
type ParseError struct {
	Remaining string // unconsumed input at the failure point
	Detail    string // optional extra context, e.g. the expected literal
	Err       error  // the sentinel describing the failure
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%v: %s (remaining %q)", e.Err, e.Detail, e.Remaining)
	}
	return fmt.Sprintf("%v (remaining %q)", e.Err, e.Remaining)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SerializeError indicates an inconsistency between an AST and the
// printer's assumptions. ASTs produced by Parse never trigger one.
type SerializeError struct {
	Message string
}

func (e *SerializeError) Error() string { return "demangle: serialize: " + e.Message }
