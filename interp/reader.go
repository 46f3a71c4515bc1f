package interp

import (
	"bufio"
	"io"
)

// Reader parses S-expressions from a buffered byte stream, per spec.md
// §4.1. Structured the way other_examples' glojure LispReader.go shapes a
// Lisp reader: a peek-then-consume byte loop, a small delimiter predicate,
// and dedicated read-string/read-number/read-symbol helpers, cross-checked
// against original_source/scheme.c's read_object/is_delimiter for exact
// token-boundary semantics.
type Reader struct {
	in  *bufio.Reader
	syn *symbolTable
}

func NewReader(r io.Reader, syn *symbolTable) *Reader {
	return &Reader{in: bufio.NewReader(r), syn: syn}
}

// NewReaderFromPort builds a Reader directly over an already-buffered input
// port's stream, so repeated (read port) calls share one buffer instead of
// re-wrapping and dropping any bytes already peeked.
func NewReaderFromPort(port *Value, syn *symbolTable) *Reader {
	return &Reader{in: port.in, syn: syn}
}

func isDelimiter(b byte, eof bool) bool {
	if eof {
		return true
	}
	switch b {
	case ' ', '\t', '\n', '\r', '(', ')', '"', ';':
		return true
	}
	return false
}

func isSymbolStart(b byte) bool {
	if b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' {
		return true
	}
	switch b {
	case '*', '/', '>', '<', '=', '?', '!':
		return true
	}
	return false
}

func isSymbolContinue(b byte) bool {
	if isSymbolStart(b) || (b >= '0' && b <= '9') {
		return true
	}
	return b == '+' || b == '-'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// peek returns the next byte without consuming it, and whether the stream
// is at EOF.
func (r *Reader) peek() (byte, bool, *SchemeError) {
	b, err := r.in.Peek(1)
	if err == io.EOF {
		return 0, true, nil
	}
	if err != nil {
		return 0, false, resourceError("read: %v", err)
	}
	return b[0], false, nil
}

func (r *Reader) next() (byte, bool, *SchemeError) {
	b, err := r.in.ReadByte()
	if err == io.EOF {
		return 0, true, nil
	}
	if err != nil {
		return 0, false, resourceError("read: %v", err)
	}
	return b, false, nil
}

func (r *Reader) skipWhitespace() *SchemeError {
	for {
		b, eof, rerr := r.peek()
		if rerr != nil {
			return rerr
		}
		if eof {
			return nil
		}
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			r.in.ReadByte()
		case b == ';':
			for {
				c, eof, rerr := r.next()
				if rerr != nil {
					return rerr
				}
				if eof || c == '\n' {
					break
				}
			}
		default:
			return nil
		}
	}
}

// Read returns the next top-level value, or the EofObject singleton at a
// clean end of input (spec.md §4.1).
func (r *Reader) Read() (*Value, *SchemeError) {
	if err := r.skipWhitespace(); err != nil {
		return nil, err
	}
	b, eof, err := r.peek()
	if err != nil {
		return nil, err
	}
	if eof {
		return Eof, nil
	}

	switch {
	case b == '(':
		r.in.ReadByte()
		return r.readList()
	case b == ')':
		r.in.ReadByte()
		return nil, lexError("unexpected ')'")
	case b == '\'':
		r.in.ReadByte()
		datum, err := r.readRequired()
		if err != nil {
			return nil, err
		}
		return Cons(NewSymbolValue(r.syn.Intern("quote")), Cons(datum, EmptyList)), nil
	case b == '"':
		r.in.ReadByte()
		return r.readString()
	case b == '#':
		r.in.ReadByte()
		return r.readHash()
	case b == '-':
		return r.readMinusOrSymbol()
	case b == '+':
		return r.readSymbol("")
	case isDigit(b):
		return r.readNumber("")
	case isSymbolStart(b):
		return r.readSymbol("")
	default:
		r.in.ReadByte()
		return nil, lexError("unexpected character %q", b)
	}
}

// readRequired reads one value, treating a clean EOF as an error (used
// mid-construct, e.g. after a quote or inside a list, per spec.md §4.1).
func (r *Reader) readRequired() (*Value, *SchemeError) {
	v, err := r.Read()
	if err != nil {
		return nil, err
	}
	if v.IsEof() {
		return nil, lexError("unexpected end of input")
	}
	return v, nil
}

func (r *Reader) readList() (*Value, *SchemeError) {
	if err := r.skipWhitespace(); err != nil {
		return nil, err
	}
	b, eof, err := r.peek()
	if err != nil {
		return nil, err
	}
	if eof {
		return nil, lexError("unexpected end of input in list")
	}
	if b == ')' {
		r.in.ReadByte()
		return EmptyList, nil
	}
	if b == '.' {
		// Only a tail marker if '.' is itself followed by a delimiter;
		// otherwise it is a stray '.' error, since no symbol or number in
		// spec.md's grammar starts with '.'.
		r.in.ReadByte()
		nb, neof, nerr := r.peek()
		if nerr != nil {
			return nil, nerr
		}
		if isDelimiter(nb, neof) {
			tail, err := r.readRequired()
			if err != nil {
				return nil, err
			}
			if err := r.skipWhitespace(); err != nil {
				return nil, err
			}
			cb, ceof, cerr := r.next()
			if cerr != nil {
				return nil, cerr
			}
			if ceof || cb != ')' {
				return nil, lexError("expected ')' after dotted tail")
			}
			return tail, nil
		}
		return nil, lexError("stray '.'")
	}

	first, err := r.readRequired()
	if err != nil {
		return nil, err
	}
	rest, err := r.readList()
	if err != nil {
		return nil, err
	}
	return Cons(first, rest), nil
}

func (r *Reader) readString() (*Value, *SchemeError) {
	const maxLen = 999
	var buf []byte
	for {
		b, eof, err := r.next()
		if err != nil {
			return nil, err
		}
		if eof {
			return nil, lexError("unterminated string literal")
		}
		if b == '"' {
			return NewString(string(buf)), nil
		}
		if b == '\\' {
			eb, eeof, eerr := r.next()
			if eerr != nil {
				return nil, eerr
			}
			if eeof {
				return nil, lexError("unterminated string literal")
			}
			switch eb {
			case 'n':
				buf = append(buf, '\n')
			case '\\':
				buf = append(buf, '\\')
			case '"':
				buf = append(buf, '"')
			default:
				return nil, lexError("invalid escape \\%c in string", eb)
			}
		} else {
			buf = append(buf, b)
		}
		if len(buf) > maxLen {
			return nil, lexError("string literal exceeds maximum length of %d bytes", maxLen)
		}
	}
}

func (r *Reader) readHash() (*Value, *SchemeError) {
	b, eof, err := r.next()
	if err != nil {
		return nil, err
	}
	if eof {
		return nil, lexError("unexpected end of input after '#'")
	}
	switch b {
	case 't':
		if derr := r.requireDelimiterNext(); derr != nil {
			return nil, derr
		}
		return True, nil
	case 'f':
		if derr := r.requireDelimiterNext(); derr != nil {
			return nil, derr
		}
		return False, nil
	case '\\':
		return r.readCharacter()
	default:
		return nil, lexError("unexpected character %q after '#'", b)
	}
}

// requireDelimiterNext peeks (without consuming) the next byte and errors
// if it is not a delimiter, per spec.md's "must be followed by a delimiter"
// rules for booleans, characters, numbers, and symbols.
func (r *Reader) requireDelimiterNext() *SchemeError {
	b, eof, err := r.peek()
	if err != nil {
		return err
	}
	if !isDelimiter(b, eof) {
		return lexError("expected delimiter, got %q", b)
	}
	return nil
}

var namedChars = map[string]byte{
	"space":   ' ',
	"newline": '\n',
}

func (r *Reader) readCharacter() (*Value, *SchemeError) {
	first, eof, err := r.next()
	if err != nil {
		return nil, err
	}
	if eof {
		return nil, lexError("unexpected end of input in character literal")
	}

	// Accumulate every byte up to the next delimiter and test the run against
	// the named literals (#\space, #\newline); a single byte followed by a
	// delimiter is that byte's own character.
	name := []byte{first}
	for {
		b, beof, berr := r.peek()
		if berr != nil {
			return nil, berr
		}
		if isDelimiter(b, beof) {
			break
		}
		name = append(name, b)
		r.in.ReadByte()
	}

	if len(name) == 1 {
		return NewCharacter(name[0]), nil
	}
	if c, ok := namedChars[string(name)]; ok {
		return NewCharacter(c), nil
	}
	return nil, lexError("unknown character literal #\\%s", name)
}

func (r *Reader) readMinusOrSymbol() (*Value, *SchemeError) {
	r.in.ReadByte() // consume '-'
	b, eof, err := r.peek()
	if err != nil {
		return nil, err
	}
	if !eof && isDigit(b) {
		return r.readNumber("-")
	}
	if isDelimiter(b, eof) {
		return NewSymbolValue(r.syn.Intern("-")), nil
	}
	return r.readSymbol("-")
}

func (r *Reader) readNumber(prefix string) (*Value, *SchemeError) {
	digits := []byte(prefix)
	for {
		b, eof, err := r.peek()
		if err != nil {
			return nil, err
		}
		if isDelimiter(b, eof) {
			break
		}
		if !isDigit(b) {
			return nil, lexError("malformed number, unexpected %q", b)
		}
		digits = append(digits, b)
		r.in.ReadByte()
	}
	return NewFixnum(parseFixnum(string(digits))), nil
}

func parseFixnum(s string) int64 {
	neg := false
	i := 0
	if len(s) > 0 && s[0] == '-' {
		neg = true
		i = 1
	}
	var n int64
	for ; i < len(s); i++ {
		n = n*10 + int64(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n
}

func (r *Reader) readSymbol(prefix string) (*Value, *SchemeError) {
	chars := []byte(prefix)
	for {
		b, eof, err := r.peek()
		if err != nil {
			return nil, err
		}
		if isDelimiter(b, eof) {
			break
		}
		if !isSymbolContinue(b) {
			return nil, lexError("malformed symbol, unexpected %q", b)
		}
		chars = append(chars, b)
		r.in.ReadByte()
	}
	return NewSymbolValue(r.syn.Intern(string(chars))), nil
}
