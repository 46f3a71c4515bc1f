package interp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func read(t *testing.T, syn *symbolTable, src string) *Value {
	t.Helper()
	r := NewReader(strings.NewReader(src), syn)
	v, err := r.Read()
	require.NoError(t, err)
	return v
}

func TestReaderBooleans(t *testing.T) {
	syn := newSymbolTable()
	require.True(t, read(t, syn, "#t ") == True)
	require.True(t, read(t, syn, "#f ") == False)
}

func TestReaderFixnums(t *testing.T) {
	syn := newSymbolTable()
	require.Equal(t, int64(42), read(t, syn, "42 ").fixnum)
	require.Equal(t, int64(-7), read(t, syn, "-7 ").fixnum)
}

func TestReaderMinusAloneIsSymbol(t *testing.T) {
	syn := newSymbolTable()
	v := read(t, syn, "- ")
	require.True(t, v.IsSymbol())
	require.Equal(t, "-", v.sym.name)
}

func TestReaderCharacters(t *testing.T) {
	syn := newSymbolTable()
	require.Equal(t, byte(' '), read(t, syn, "#\\space ").char)
	require.Equal(t, byte('\n'), read(t, syn, "#\\newline ").char)
	require.Equal(t, byte('x'), read(t, syn, "#\\x ").char)
}

func TestReaderStrings(t *testing.T) {
	syn := newSymbolTable()
	v := read(t, syn, `"hi\nthere\\\"x"`)
	require.True(t, v.IsString())
	require.Equal(t, "hi\nthere\\\"x", v.str)
}

func TestReaderSymbols(t *testing.T) {
	syn := newSymbolTable()
	v := read(t, syn, "set! ")
	require.Equal(t, "set!", v.sym.name)
}

func TestReaderProperList(t *testing.T) {
	syn := newSymbolTable()
	v := read(t, syn, "(1 2 3)")
	slice, proper := ListToSlice(v)
	require.True(t, proper)
	require.Len(t, slice, 3)
	require.Equal(t, int64(2), slice[1].fixnum)
}

func TestReaderImproperList(t *testing.T) {
	syn := newSymbolTable()
	v := read(t, syn, "(1 2 . 3)")
	require.True(t, v.IsPair())
	require.Equal(t, int64(1), v.car.fixnum)
	require.Equal(t, int64(2), v.cdr.car.fixnum)
	require.Equal(t, int64(3), v.cdr.cdr.fixnum)
}

func TestReaderEmptyList(t *testing.T) {
	syn := newSymbolTable()
	v := read(t, syn, "()")
	require.True(t, v.IsEmptyList())
}

func TestReaderQuote(t *testing.T) {
	syn := newSymbolTable()
	v := read(t, syn, "'x")
	require.True(t, v.IsPair())
	require.Equal(t, "quote", v.car.sym.name)
	require.Equal(t, "x", v.cdr.car.sym.name)
}

func TestReaderComment(t *testing.T) {
	syn := newSymbolTable()
	v := read(t, syn, "; a comment\n42")
	require.Equal(t, int64(42), v.fixnum)
}

func TestReaderEofAtTopLevel(t *testing.T) {
	syn := newSymbolTable()
	r := NewReader(strings.NewReader("   "), syn)
	v, err := r.Read()
	require.NoError(t, err)
	require.True(t, v.IsEof())
}

func TestReaderUnterminatedStringIsError(t *testing.T) {
	syn := newSymbolTable()
	r := NewReader(strings.NewReader(`"abc`), syn)
	_, err := r.Read()
	require.Error(t, err)
	require.Equal(t, ErrLex, err.Kind)
}

func TestReaderStrayCloseParenIsError(t *testing.T) {
	syn := newSymbolTable()
	r := NewReader(strings.NewReader(")"), syn)
	_, err := r.Read()
	require.Error(t, err)
	require.Equal(t, ErrLex, err.Kind)
}

// Reader round-trip property from spec.md §8: read(write(v)) == v for any
// non-procedure, non-port, non-eof, acyclic value.
func TestReaderWriterRoundTrip(t *testing.T) {
	syn := newSymbolTable()
	cases := []string{
		"()", "#t", "#f", "42", "-7", "0",
		`"a string with \"quotes\" and \\backslash"`,
		"#\\a", "#\\space", "#\\newline",
		"sym", "set!", "*special*",
		"(1 2 3)", "(1 2 . 3)", "(a (b c) d)",
	}
	for _, src := range cases {
		v1 := read(t, syn, src)
		printed := writeToString(v1)
		v2 := read(t, syn, printed)
		require.Equal(t, writeToString(v1), writeToString(v2), "round trip of %s", src)
	}
}

// Symbol interning property from spec.md §8: eq?(intern(s), intern(s)).
func TestSymbolInterningIsIdentity(t *testing.T) {
	syn := newSymbolTable()
	require.True(t, syn.Intern("abc") == syn.Intern("abc"))
	require.False(t, syn.Intern("abc") == syn.Intern("abd"))
}
