package demangle

import (
	"bytes"
	"fmt"
)

// Cursor primitives over the remaining unparsed suffix of the mangled
// input. The read methods shorten p.input as they consume it; none of
// them ever aborts on truncated input, exhaustion surfaces as
// ErrUnexpectedEnd through the normal error path.

// peek returns the next byte without consuming it.
func (p *parser) peek() (byte, bool) {
	if len(p.input) == 0 {
		return 0, false
	}
	return p.input[0], true
}

// get consumes and returns the next byte.
func (p *parser) get() (byte, error) {
	c, ok := p.peek()
	if !ok {
		return 0, p.fail(ErrUnexpectedEnd)
	}
	p.trim(1)
	return c, nil
}

// trim drops n bytes from the front of the input.
func (p *parser) trim(n int) {
	p.input = p.input[n:]
}

// consume eats s if the input starts with it.
func (p *parser) consume(s string) bool {
	if len(p.input) < len(s) || string(p.input[:len(s)]) != s {
		return false
	}
	p.trim(len(s))
	return true
}

// expect is consume with a mandatory match.
func (p *parser) expect(s string) error {
	if !p.consume(s) {
		return &ParseError{
			Remaining: string(p.input),
			Detail:    fmt.Sprintf("expected %q", s),
			Err:       ErrExpectedLiteral,
		}
	}
	return nil
}

// consumeDigit eats one ASCII decimal digit and returns its value.
func (p *parser) consumeDigit() (byte, bool) {
	c, ok := p.peek()
	if !ok || c < '0' || c > '9' {
		return 0, false
	}
	p.trim(1)
	return c - '0', true
}

// consumeHexDigit eats one ASCII hex digit.
func (p *parser) consumeHexDigit() bool {
	c, ok := p.peek()
	if !ok {
		return false
	}
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		p.trim(1)
		return true
	}
	return false
}

// readNumber decodes the integer encoding used for array lengths,
// discriminators, thunk adjustments and template constants:
//
//	<number>               ::= [?] <non-negative integer>
//	<non-negative integer> ::= <decimal digit>   # when 1 <= value <= 10
//	                       ::= <hex digit>+ @    # when value == 0 or > 10
//	<hex digit>            ::= [A-P]             # A = 0, B = 1, ...
//
// The one-digit form encodes digit+1, so the common small dimensions fit
// in a single byte.
func (p *parser) readNumber() (int32, error) {
	neg := p.consume("?")

	if d, ok := p.consumeDigit(); ok {
		n := int32(d) + 1
		if neg {
			n = -n
		}
		return n, nil
	}

	orig := p.input
	var n int32
	for i := 0; i < len(p.input); i++ {
		c := p.input[i]
		switch {
		case c == '@':
			p.trim(i + 1)
			if neg {
				n = -n
			}
			return n, nil
		case c >= 'A' && c <= 'P':
			n = n<<4 + int32(c-'A')
		default:
			return 0, p.failAt(orig, ErrBadNumber)
		}
	}
	return 0, p.failAt(orig, ErrBadNumber)
}

// readString consumes bytes up to and including the next '@' and returns
// the part before it.
func (p *parser) readString() (string, error) {
	i := bytes.IndexByte(p.input, '@')
	if i < 0 {
		return "", p.fail(ErrMissingTerminator)
	}
	s := string(p.input[:i])
	p.trim(i + 1)
	return s, nil
}

// fail wraps a sentinel with the current input position.
func (p *parser) fail(err error) error {
	return p.failAt(p.input, err)
}

// failAt wraps a sentinel with an explicit input position, for errors
// reported against the start of the production that failed.
func (p *parser) failAt(at []byte, err error) error {
	return &ParseError{Remaining: string(at), Err: err}
}
