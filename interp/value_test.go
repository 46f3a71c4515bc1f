package interp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqIdentityForPairs(t *testing.T) {
	p := Cons(NewFixnum(1), NewFixnum(2))
	require.True(t, Eq(p, p))
	require.False(t, Eq(p, Cons(NewFixnum(1), NewFixnum(2))))
}

func TestEqValueEqualityForScalars(t *testing.T) {
	require.True(t, Eq(NewFixnum(3), NewFixnum(3)))
	require.True(t, Eq(NewCharacter('a'), NewCharacter('a')))
	require.True(t, Eq(NewString("hi"), NewString("hi")))
	require.False(t, Eq(NewFixnum(3), NewFixnum(4)))
}

func TestPairMutation(t *testing.T) {
	p := Cons(NewFixnum(1), NewFixnum(2))
	y := NewFixnum(9)
	p.SetCar(y)
	require.True(t, p.Car() == y)

	z := NewFixnum(10)
	p.SetCdr(z)
	require.True(t, p.Cdr() == z)
}

func TestSliceListRoundTrip(t *testing.T) {
	vs := []*Value{NewFixnum(1), NewFixnum(2), NewFixnum(3)}
	list := SliceToList(vs)
	back, proper := ListToSlice(list)
	require.True(t, proper)
	require.Equal(t, vs, back)
	require.Equal(t, 3, ListLength(list))
}

func TestTruthinessOnlyFalseIsFalse(t *testing.T) {
	require.True(t, EmptyList.IsTrue())
	require.True(t, NewFixnum(0).IsTrue())
	require.True(t, NewString("").IsTrue())
	require.False(t, False.IsTrue())
	require.True(t, True.IsTrue())
}
