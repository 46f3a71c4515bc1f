package interp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Write prints v in a form the reader can read back, per spec.md §4.2. The
// writer makes no attempt to detect cycles: a cyclic pair loops forever,
// exactly as in the reference (spec.md §9 documents this rather than fixing
// it).
func Write(v *Value, out io.Writer) {
	switch v.kind {
	case kindEmptyList:
		io.WriteString(out, "()")
	case kindBoolean:
		if v.boolVal {
			io.WriteString(out, "#t")
		} else {
			io.WriteString(out, "#f")
		}
	case kindFixnum:
		io.WriteString(out, strconv.FormatInt(v.fixnum, 10))
	case kindCharacter:
		writeCharacter(v.char, out)
	case kindString:
		writeString(v.str, out)
	case kindSymbol:
		io.WriteString(out, v.sym.name)
	case kindPair:
		writePair(v, out)
	case kindPrimitiveProc:
		io.WriteString(out, "#<primitive-procedure>")
	case kindCompoundProc:
		io.WriteString(out, "#<compound-procedure>")
	case kindInputPort:
		io.WriteString(out, "#<input-port>")
	case kindOutputPort:
		io.WriteString(out, "#<output-port>")
	case kindEofObject:
		io.WriteString(out, "#<eof>")
	default:
		fmt.Fprintf(out, "#<unknown %d>", v.kind)
	}
}

func writeCharacter(c byte, out io.Writer) {
	switch c {
	case ' ':
		io.WriteString(out, "#\\space")
	case '\n':
		io.WriteString(out, "#\\newline")
	default:
		fmt.Fprintf(out, "#\\%c", c)
	}
}

func writeString(s string, out io.Writer) {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			b.WriteString(`\n`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
	io.WriteString(out, b.String())
}

func writePair(v *Value, out io.Writer) {
	io.WriteString(out, "(")
	Write(v.car, out)
	rest := v.cdr
	for rest.IsPair() {
		io.WriteString(out, " ")
		Write(rest.car, out)
		rest = rest.cdr
	}
	if !rest.IsEmptyList() {
		io.WriteString(out, " . ")
		Write(rest, out)
	}
	io.WriteString(out, ")")
}

// writeToString is a small convenience used by error messages and tests.
func writeToString(v *Value) string {
	var b strings.Builder
	Write(v, &b)
	return b.String()
}
