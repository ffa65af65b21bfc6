package rhmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	m := New[string, int]()
	require.False(t, m.Set("a", 1))
	require.True(t, m.Set("a", 2))

	v, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, 2, v)

	_, ok = m.Get("missing")
	require.False(t, ok)

	require.True(t, m.Delete("a"))
	require.False(t, m.Delete("a"))
}

func TestIncrementalRehashGrow(t *testing.T) {
	m := New[int, int]()
	const n = 64
	for i := 0; i < n; i++ {
		m.Set(i, i*i)
	}
	require.Equal(t, n, m.Len())

	// Drain any in-progress migration so Cap() reflects the final table.
	for m.Rehashing() {
		m.Step(4)
	}
	require.GreaterOrEqual(t, m.Cap(), n)

	for i := 0; i < n; i++ {
		v, ok := m.Get(i)
		require.True(t, ok)
		require.Equal(t, i*i, v)
	}
}

func TestShrinkAfterBulkDelete(t *testing.T) {
	m := New[int, int]()
	const n = 200
	for i := 0; i < n; i++ {
		m.Set(i, i)
	}
	for m.Rehashing() {
		m.Step(8)
	}
	bigCap := m.Cap()

	for i := 0; i < n-n/10; i++ {
		m.Delete(i)
	}
	// Shrink is scheduled lazily; pump steps until migration settles.
	for i := 0; i < n*4; i++ {
		if !m.Step(1) {
			break
		}
	}
	require.Less(t, m.Cap(), bigCap)
	require.Equal(t, n/10, m.Len())
}

func TestRangeVisitsEveryEntryDuringMigration(t *testing.T) {
	m := New[int, int]()
	const n = 100
	for i := 0; i < n; i++ {
		m.Set(i, i)
	}
	seen := make(map[int]bool)
	m.Range(func(k, v int) bool {
		seen[k] = true
		return true
	})
	require.Len(t, seen, n)
}

func TestKeysAcrossTables(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 50; i++ {
		m.Set(i, i)
	}
	keys := m.Keys()
	require.Len(t, keys, 50)
}
