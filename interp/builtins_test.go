package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredicatePrimitives(t *testing.T) {
	i, _, _ := newTestInterp()
	cases := map[string]string{
		"(null? '())":         "#t",
		"(null? 5)":           "#f",
		"(boolean? #t)":       "#t",
		"(symbol? 'abc)":      "#t",
		"(integer? 5)":        "#t",
		"(char? #\\a)":        "#t",
		"(string? \"a\")":     "#t",
		"(pair? (cons 1 2))":  "#t",
		"(procedure? car)":    "#t",
	}
	for src, want := range cases {
		v := evalString(t, i, src)
		require.Equal(t, want, writeToString(v), src)
	}
}

func TestConversionPrimitives(t *testing.T) {
	i, _, _ := newTestInterp()
	require.Equal(t, "97", writeToString(evalString(t, i, "(char->integer #\\a)")))
	require.Equal(t, "#\\a", writeToString(evalString(t, i, "(integer->char 97)")))
	require.Equal(t, "\"42\"", writeToString(evalString(t, i, "(number->string 42)")))
	require.Equal(t, "42", writeToString(evalString(t, i, `(string->number "42")`)))
	require.Equal(t, "\"abc\"", writeToString(evalString(t, i, "(symbol->string 'abc)")))
	require.Equal(t, "abc", writeToString(evalString(t, i, `(string->symbol "abc")`)))
}

func TestQuotientRemainder(t *testing.T) {
	i, _, _ := newTestInterp()
	require.Equal(t, "3", writeToString(evalString(t, i, "(quotient 7 2)")))
	require.Equal(t, "1", writeToString(evalString(t, i, "(remainder 7 2)")))
}

func TestCarOfNonPairIsTypeError(t *testing.T) {
	i, _, _ := newTestInterp()
	_, err := i.EvalString("(car 5)")
	require.Error(t, err)
	require.Equal(t, ErrEval, err.Kind)
}

func TestListBuiltin(t *testing.T) {
	i, _, _ := newTestInterp()
	v := evalString(t, i, "(list 1 2 3)")
	require.Equal(t, "(1 2 3)", writeToString(v))
}

func TestErrorPrimitiveAborts(t *testing.T) {
	i, _, _ := newTestInterp()
	_, err := i.EvalString(`(error "boom" 1 2)`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}

func TestWriteGoesThroughOutputPort(t *testing.T) {
	var stdout, stderr bytes.Buffer
	i := New(strings.NewReader(""), &stdout, &stderr)
	evalString(t, i, `(write "hi")`)
	require.Equal(t, `"hi"`, stdout.String())
}

func TestReadCharFromInputPort(t *testing.T) {
	var stdout, stderr bytes.Buffer
	i := New(strings.NewReader("ab"), &stdout, &stderr)
	v := evalString(t, i, "(read-char)")
	require.Equal(t, "#\\a", writeToString(v))
	v = evalString(t, i, "(read-char)")
	require.Equal(t, "#\\b", writeToString(v))
	v = evalString(t, i, "(read-char)")
	require.True(t, v.IsEof())
}

func TestLoadMissingFileIsResourceError(t *testing.T) {
	i, _, _ := newTestInterp()
	_, err := i.Load("/nonexistent/path/does-not-exist.scm")
	require.Error(t, err)
	require.Equal(t, ErrResource, err.Kind)
}

func TestClosePortTwiceIsError(t *testing.T) {
	i, _, _ := newTestInterp()
	tmp := t.TempDir() + "/out.scm"
	evalString(t, i, `(define p (open-output-port "`+tmp+`"))`)
	v := evalString(t, i, "(close-output-port p)")
	require.Equal(t, "ok", writeToString(v))
	_, err := i.EvalString("(close-output-port p)")
	require.Error(t, err)
}
