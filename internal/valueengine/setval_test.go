package valueengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetValIntsetEncoding(t *testing.T) {
	s := NewSetVal(512)
	require.Equal(t, 2, s.SAdd([][]byte{b("1"), b("2")}))
	require.Equal(t, "intset", s.Encoding())

	require.Equal(t, 1, s.SAdd([][]byte{b("abc")}))
	require.Equal(t, "hashtable", s.Encoding())
}

func TestSetValPromotionIsOneWay(t *testing.T) {
	s := NewSetVal(2)
	s.SAdd([][]byte{b("1"), b("2"), b("3")})
	require.Equal(t, "hashtable", s.Encoding())
	s.SRem([][]byte{b("3")})
	require.Equal(t, "hashtable", s.Encoding())
}

func TestSetValMembership(t *testing.T) {
	s := NewSetVal(512)
	s.SAdd([][]byte{b("a"), b("b")})
	require.True(t, s.SIsMember(b("a")))
	require.False(t, s.SIsMember(b("z")))
	require.Equal(t, 2, s.Card())
}

func TestSetValDiffInterUnion(t *testing.T) {
	a := NewSetVal(512)
	a.SAdd([][]byte{b("a"), b("b"), b("c")})
	bb := NewSetVal(512)
	bb.SAdd([][]byte{b("b"), b("c"), b("d")})

	diff := SDiff(a, []SetLike{bb})
	require.ElementsMatch(t, [][]byte{b("a")}, diff)

	inter := SInter([]SetLike{a, bb})
	require.ElementsMatch(t, [][]byte{b("b"), b("c")}, inter)

	union := SUnion([]SetLike{a, bb})
	require.ElementsMatch(t, [][]byte{b("a"), b("b"), b("c"), b("d")}, union)
}

func TestSetValNilActsEmpty(t *testing.T) {
	a := NewSetVal(512)
	a.SAdd([][]byte{b("x")})
	require.ElementsMatch(t, [][]byte{b("x")}, SDiff(a, []SetLike{nil}))
	require.Empty(t, SInter([]SetLike{a, nil}))
	require.ElementsMatch(t, [][]byte{b("x")}, SUnion([]SetLike{a, nil}))
}

func TestSetValSPop(t *testing.T) {
	s := NewSetVal(512)
	s.SAdd([][]byte{b("a"), b("b"), b("c")})
	popped := s.SPop(2)
	require.Len(t, popped, 2)
	require.Equal(t, 1, s.Card())
}
