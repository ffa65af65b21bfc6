package dump

import (
	"testing"

	"github.com/edirooss/kvstore/internal/valueengine"
	"github.com/stretchr/testify/require"
)

func TestDumpParseString(t *testing.T) {
	v := valueengine.NewValue()
	s, _ := v.Str(true)
	s.Set([]byte("hello world"))

	b, err := Dump(v)
	require.NoError(t, err)

	got, err := Parse(b, 512)
	require.NoError(t, err)
	require.Equal(t, valueengine.KindString, got.Kind())
	gs, _ := got.StrReadOnly()
	require.Equal(t, []byte("hello world"), gs.Get())
}

func TestDumpParseList(t *testing.T) {
	v := valueengine.NewValue()
	l, _ := v.List(true)
	l.PushRight([]byte("a"), []byte("b"), []byte("c"))

	b, err := Dump(v)
	require.NoError(t, err)

	got, err := Parse(b, 512)
	require.NoError(t, err)
	gl, _ := got.List(false)
	require.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, gl.Range(0, -1))
}

func TestDumpParseSet(t *testing.T) {
	v := valueengine.NewValue()
	set, _ := v.Set(true, 512)
	set.SAdd([][]byte{[]byte("1"), []byte("2"), []byte("x")})

	b, err := Dump(v)
	require.NoError(t, err)

	got, err := Parse(b, 512)
	require.NoError(t, err)
	gs, _ := got.Set(false, 0)
	require.ElementsMatch(t, [][]byte{[]byte("1"), []byte("2"), []byte("x")}, gs.SMembers())
}

func TestDumpParseZSet(t *testing.T) {
	v := valueengine.NewValue()
	z, _ := v.ZSet(true)
	z.ZAdd([]valueengine.ScoreMember{{Member: "a", Score: 1.5}, {Member: "b", Score: -2}}, false, false, false, false)

	b, err := Dump(v)
	require.NoError(t, err)

	got, err := Parse(b, 512)
	require.NoError(t, err)
	gz, _ := got.ZSet(false)
	score, ok := gz.ZScore("a")
	require.True(t, ok)
	require.Equal(t, 1.5, score)
	score, ok = gz.ZScore("b")
	require.True(t, ok)
	require.Equal(t, -2.0, score)
}

func TestDumpNilIsUndefined(t *testing.T) {
	_, err := Dump(valueengine.NewValue())
	require.ErrorIs(t, err, ErrNilUndefined)
}

func TestParseRejectsCorruption(t *testing.T) {
	v := valueengine.NewValue()
	s, _ := v.Str(true)
	s.Set([]byte("x"))
	b, err := Dump(v)
	require.NoError(t, err)

	corrupt := append([]byte(nil), b...)
	corrupt[0] ^= 0xFF
	_, err = Parse(corrupt, 512)
	require.ErrorIs(t, err, ErrChecksum)
}

func TestParseRejectsTruncated(t *testing.T) {
	_, err := Parse([]byte{1, 2, 3}, 512)
	require.ErrorIs(t, err, ErrTruncated)
}
