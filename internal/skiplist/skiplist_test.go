package skiplist

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func lessInt(a, b int) bool { return a < b }

func TestInsertRankAndGetByRank(t *testing.T) {
	s := New(lessInt)
	values := []int{5, 3, 8, 1, 9, 2, 7}
	for _, v := range values {
		s.Insert(v)
	}
	require.Equal(t, len(values), s.Len())

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	for i, v := range sorted {
		got, ok := s.GetByRank(i)
		require.True(t, ok)
		require.Equal(t, v, got)

		rank, ok := s.Rank(v)
		require.True(t, ok)
		require.Equal(t, i, rank)
	}
}

func TestRemove(t *testing.T) {
	s := New(lessInt)
	for _, v := range []int{1, 2, 3, 4, 5} {
		s.Insert(v)
	}
	require.True(t, s.Remove(3))
	require.False(t, s.Remove(3))
	require.Equal(t, 4, s.Len())
	_, ok := s.Rank(3)
	require.False(t, ok)
}

func TestRangeByValueBounds(t *testing.T) {
	s := New(lessInt)
	for i := 1; i <= 10; i++ {
		s.Insert(i)
	}
	got := s.RangeByValue(Inc(3), Exc(7), 0, -1, false)
	require.Equal(t, []int{3, 4, 5, 6}, got)

	got = s.RangeByValue(Unb[int](), Unb[int](), 0, 3, false)
	require.Equal(t, []int{1, 2, 3}, got)

	got = s.RangeByValue(Unb[int](), Unb[int](), 0, -1, true)
	require.Equal(t, []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, got)
}

func TestCountInRange(t *testing.T) {
	s := New(lessInt)
	for i := 1; i <= 20; i++ {
		s.Insert(i)
	}
	require.Equal(t, 20, s.CountInRange(Unb[int](), Unb[int]()))
	require.Equal(t, 5, s.CountInRange(Inc(10), Inc(14)))
	require.Equal(t, 0, s.CountInRange(Inc(100), Inc(200)))
}

func TestRandomizedAgainstSortSlice(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := New(lessInt)
	var model []int
	present := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := rng.Intn(200)
		if present[v] {
			continue
		}
		present[v] = true
		model = append(model, v)
		s.Insert(v)
	}
	sort.Ints(model)
	require.Equal(t, len(model), s.Len())
	for i, v := range model {
		got, ok := s.GetByRank(i)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
}
