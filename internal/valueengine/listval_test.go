package valueengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func b(s string) []byte { return []byte(s) }

func TestListValPushPop(t *testing.T) {
	l := NewListVal()
	l.PushRight(b("a"), b("b"), b("c"))
	require.Equal(t, 3, l.Len())

	v, ok := l.PopLeft()
	require.True(t, ok)
	require.Equal(t, b("a"), v)

	l.PushLeft(b("x"), b("y"))
	// LPUSH x y on [b c] => y x b c
	vals := l.Range(0, -1)
	require.Equal(t, [][]byte{b("y"), b("x"), b("b"), b("c")}, vals)
}

func TestListValIndexNegative(t *testing.T) {
	l := NewListVal()
	l.PushRight(b("a"), b("b"), b("c"))
	v, ok := l.Index(-1)
	require.True(t, ok)
	require.Equal(t, b("c"), v)

	_, ok = l.Index(10)
	require.False(t, ok)
}

func TestListValSet(t *testing.T) {
	l := NewListVal()
	l.PushRight(b("a"), b("b"))
	require.NoError(t, l.Set(1, b("z")))
	require.ErrorIs(t, l.Set(5, b("z")), ErrOutOfRange)
}

func TestListValInsert(t *testing.T) {
	l := NewListVal()
	l.PushRight(b("a"), b("c"))
	n := l.InsertAfter(b("a"), b("b"))
	require.Equal(t, 3, n)
	require.Equal(t, [][]byte{b("a"), b("b"), b("c")}, l.Range(0, -1))

	require.Equal(t, ListNotFound, l.InsertBefore(b("nope"), b("x")))
}

func TestListValRem(t *testing.T) {
	l := NewListVal()
	l.PushRight(b("a"), b("b"), b("a"), b("c"), b("a"))
	removed := l.Rem(false, 2, b("a"))
	require.Equal(t, 2, removed)
	require.Equal(t, [][]byte{b("b"), b("c"), b("a")}, l.Range(0, -1))
}

func TestListValTrim(t *testing.T) {
	l := NewListVal()
	l.PushRight(b("a"), b("b"), b("c"), b("d"))
	l.Trim(1, 2)
	require.Equal(t, [][]byte{b("b"), b("c")}, l.Range(0, -1))
}
