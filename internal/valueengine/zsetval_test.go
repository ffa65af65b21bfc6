package valueengine

import (
	"testing"

	"github.com/edirooss/kvstore/internal/skiplist"
	"github.com/stretchr/testify/require"
)

func TestZSetValAddScoreRank(t *testing.T) {
	z := NewZSetVal()
	count, _, _, err := z.ZAdd([]ScoreMember{{Member: "a", Score: 1}, {Member: "b", Score: 2}}, false, false, false, false)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	score, ok := z.ZScore("a")
	require.True(t, ok)
	require.Equal(t, 1.0, score)

	rank, ok := z.ZRank("b")
	require.True(t, ok)
	require.Equal(t, 1, rank)
}

func TestZSetValAddNXXX(t *testing.T) {
	z := NewZSetVal()
	z.ZAdd([]ScoreMember{{Member: "a", Score: 1}}, false, false, false, false)

	count, _, _, err := z.ZAdd([]ScoreMember{{Member: "a", Score: 5}}, true, false, false, false)
	require.NoError(t, err)
	require.Equal(t, 0, count)
	score, _ := z.ZScore("a")
	require.Equal(t, 1.0, score)

	count, _, _, err = z.ZAdd([]ScoreMember{{Member: "a", Score: 5}}, false, true, false, false)
	require.NoError(t, err)
	require.Equal(t, 0, count) // updated, but XX doesn't count as "added"
	score, _ = z.ZScore("a")
	require.Equal(t, 5.0, score)

	_, _, _, err = z.ZAdd([]ScoreMember{{Member: "a", Score: 1}}, true, true, false, false)
	require.ErrorIs(t, err, ErrSyntax)
}

func TestZSetValAddCH(t *testing.T) {
	z := NewZSetVal()
	z.ZAdd([]ScoreMember{{Member: "a", Score: 1}}, false, false, false, false)
	count, _, _, err := z.ZAdd([]ScoreMember{{Member: "a", Score: 2}}, false, false, true, false)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestZSetValIncr(t *testing.T) {
	z := NewZSetVal()
	v, err := z.ZIncrBy("a", 5)
	require.NoError(t, err)
	require.Equal(t, 5.0, v)

	v, err = z.ZIncrBy("a", -2)
	require.NoError(t, err)
	require.Equal(t, 3.0, v)
}

func TestZSetValRemAndRange(t *testing.T) {
	z := NewZSetVal()
	z.ZAdd([]ScoreMember{{Member: "a", Score: 1}, {Member: "b", Score: 2}, {Member: "c", Score: 3}}, false, false, false, false)

	rng := z.ZRange(0, -1, false)
	require.Equal(t, []ScoreMember{{Member: "a", Score: 1}, {Member: "b", Score: 2}, {Member: "c", Score: 3}}, rng)

	rev := z.ZRange(0, -1, true)
	require.Equal(t, []ScoreMember{{Member: "c", Score: 3}, {Member: "b", Score: 2}, {Member: "a", Score: 1}}, rev)

	require.Equal(t, 1, z.ZRem([]string{"b"}))
	require.Equal(t, 2, z.Card())
}

func TestZSetValRangeByScore(t *testing.T) {
	z := NewZSetVal()
	z.ZAdd([]ScoreMember{{Member: "a", Score: 1}, {Member: "b", Score: 2}, {Member: "c", Score: 3}}, false, false, false, false)

	out := z.ZRangeByScore(skiplist.Inc(2.0), skiplist.Unb[float64](), 0, -1, false)
	require.Equal(t, []ScoreMember{{Member: "b", Score: 2}, {Member: "c", Score: 3}}, out)

	out = z.ZRangeByScore(skiplist.Exc(1.0), skiplist.Exc(3.0), 0, -1, false)
	require.Equal(t, []ScoreMember{{Member: "b", Score: 2}}, out)

	require.Equal(t, 2, z.ZCount(skiplist.Inc(2.0), skiplist.Unb[float64]()))
}

func TestZSetValRangeByScoreSameScoreBoundary(t *testing.T) {
	z := NewZSetVal()
	z.ZAdd([]ScoreMember{{Member: "a", Score: 5}, {Member: "b", Score: 5}, {Member: "c", Score: 5}}, false, false, false, false)

	// Excluded(5) on both sides must drop every element regardless of member.
	require.Equal(t, 0, z.ZCount(skiplist.Exc(5.0), skiplist.Unb[float64]()))
	require.Equal(t, 0, z.ZCount(skiplist.Unb[float64](), skiplist.Exc(5.0)))
	require.Equal(t, 3, z.ZCount(skiplist.Inc(5.0), skiplist.Inc(5.0)))
}

func TestZSetValRangeByLex(t *testing.T) {
	z := NewZSetVal()
	z.ZAdd([]ScoreMember{{Member: "a", Score: 0}, {Member: "b", Score: 0}, {Member: "c", Score: 0}}, false, false, false, false)

	out := z.ZRangeByLex(skiplist.Inc("b"), skiplist.Unb[string](), 0, -1, false)
	require.Equal(t, []ScoreMember{{Member: "b", Score: 0}, {Member: "c", Score: 0}}, out)

	require.Equal(t, 2, z.ZLexCount(skiplist.Inc("b"), skiplist.Unb[string]()))
}

func TestZSetValRemRangeByRank(t *testing.T) {
	z := NewZSetVal()
	z.ZAdd([]ScoreMember{{Member: "a", Score: 1}, {Member: "b", Score: 2}, {Member: "c", Score: 3}}, false, false, false, false)
	require.Equal(t, 2, z.ZRemRangeByRank(0, 1))
	require.Equal(t, 1, z.Card())
	_, ok := z.ZScore("c")
	require.True(t, ok)
}

func TestZSetValUnionInter(t *testing.T) {
	a := NewZSetVal()
	a.ZAdd([]ScoreMember{{Member: "a", Score: 1}, {Member: "b", Score: 2}}, false, false, false, false)
	z := NewZSetVal()
	z.ZAdd([]ScoreMember{{Member: "b", Score: 3}, {Member: "c", Score: 4}}, false, false, false, false)

	union := ZUnion([]*ZSetVal{a, z}, nil, AggSum)
	byMember := make(map[string]float64)
	for _, sm := range union {
		byMember[sm.Member] = sm.Score
	}
	require.Equal(t, 1.0, byMember["a"])
	require.Equal(t, 5.0, byMember["b"])
	require.Equal(t, 4.0, byMember["c"])

	inter := ZInter([]*ZSetVal{a, z}, nil, AggMax)
	require.Len(t, inter, 1)
	require.Equal(t, "b", inter[0].Member)
	require.Equal(t, 3.0, inter[0].Score)
}

func TestZSetValWeightedUnion(t *testing.T) {
	a := NewZSetVal()
	a.ZAdd([]ScoreMember{{Member: "a", Score: 1}}, false, false, false, false)
	z := NewZSetVal()
	z.ZAdd([]ScoreMember{{Member: "a", Score: 1}}, false, false, false, false)

	union := ZUnion([]*ZSetVal{a, z}, []float64{2, 3}, AggSum)
	require.Equal(t, 5.0, union[0].Score)
}
