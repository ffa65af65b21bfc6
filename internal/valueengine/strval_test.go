package valueengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrValIntegerRoundtrip(t *testing.T) {
	s := NewStrVal([]byte("123"))
	require.Equal(t, kindInt, s.kind)
	require.Equal(t, []byte("123"), s.Get())

	s = NewStrVal([]byte("007"))
	require.Equal(t, kindData, s.kind)

	s = NewStrVal([]byte("+5"))
	require.Equal(t, kindData, s.kind)

	s = NewStrVal([]byte("-5"))
	require.Equal(t, kindInt, s.kind)
}

func TestStrValAppend(t *testing.T) {
	s := NewStrVal([]byte("Hello "))
	n, err := s.Append([]byte("World"))
	require.NoError(t, err)
	require.Equal(t, 11, n)
	require.Equal(t, []byte("Hello World"), s.Get())
}

func TestStrValGetRangeNegative(t *testing.T) {
	s := NewStrVal([]byte("This is a string"))
	require.Equal(t, []byte("This"), s.GetRange(0, 3))
	require.Equal(t, []byte("ing"), s.GetRange(-3, -1))
	require.Equal(t, []byte("This is a string"), s.GetRange(0, -1))
}

func TestStrValSetRangePads(t *testing.T) {
	s := NewStrVal([]byte("Hello World"))
	n, err := s.SetRange(6, []byte("Redis"))
	require.NoError(t, err)
	require.Equal(t, 11, n)
	require.Equal(t, []byte("Hello Redis"), s.Get())

	s = NewStrVal(nil)
	n, err = s.SetRange(5, []byte("hi"))
	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.Equal(t, []byte("\x00\x00\x00\x00\x00hi"), s.Get())
}

func TestStrValBits(t *testing.T) {
	s := NewStrVal(nil)
	old, err := s.SetBit(7, 1)
	require.NoError(t, err)
	require.Equal(t, 0, old)

	bit, err := s.GetBit(7)
	require.NoError(t, err)
	require.Equal(t, 1, bit)

	bit, err = s.GetBit(6)
	require.NoError(t, err)
	require.Equal(t, 0, bit)
}

func TestStrValIncr(t *testing.T) {
	s := NewStrVal([]byte("10"))
	v, err := s.Incr(5)
	require.NoError(t, err)
	require.Equal(t, int64(15), v)

	s = NewStrVal([]byte("abc"))
	_, err = s.Incr(1)
	require.ErrorIs(t, err, ErrNotAnInteger)

	s = NewStrVal([]byte("9223372036854775807"))
	_, err = s.Incr(1)
	require.ErrorIs(t, err, ErrNotAnInteger)
}

func TestStrValIncrByFloat(t *testing.T) {
	s := NewStrVal([]byte("10.50"))
	v, err := s.IncrByFloat(0.1)
	require.NoError(t, err)
	require.InDelta(t, 10.6, v, 1e-9)
}

func TestStrValPFAddCount(t *testing.T) {
	s := NewHLLStrVal()
	changed, err := s.PFAdd([][]byte{[]byte("a"), []byte("b"), []byte("c")})
	require.NoError(t, err)
	require.True(t, changed)

	card, err := s.PFCount()
	require.NoError(t, err)
	require.InDelta(t, 3, float64(card), 2)
}

func TestStrValPFMerge(t *testing.T) {
	a := NewHLLStrVal()
	_, _ = a.PFAdd([][]byte{[]byte("a"), []byte("b")})
	b := NewHLLStrVal()
	_, _ = b.PFAdd([][]byte{[]byte("b"), []byte("c")})

	require.NoError(t, a.PFMerge([]*StrVal{b}))
	card, err := a.PFCount()
	require.NoError(t, err)
	require.InDelta(t, 3, float64(card), 2)
}

func TestStrValWrongTypeOnHLL(t *testing.T) {
	s := NewHLLStrVal()
	_, err := s.Incr(1)
	require.ErrorIs(t, err, ErrWrongType)
}
