package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatsReflectsKeysAndExpires(t *testing.T) {
	db := newTestDB(t)
	v, _ := db.GetOrCreate(0, "k1")
	s, _ := v.Str(true)
	s.Set([]byte("v"))
	v2, _ := db.GetOrCreate(0, "k2")
	s2, _ := v2.Str(true)
	s2.Set([]byte("v"))
	db.Expire(0, "k2", nowMillis()+100000)

	stats := db.Stats()
	require.Len(t, stats.Namespaces, 1)
	require.Equal(t, 0, stats.Namespaces[0].Index)
	require.Equal(t, 2, stats.Namespaces[0].Keys)
	require.Equal(t, 1, stats.Namespaces[0].Expires)
}

func TestStatsSkipsEmptyNamespaces(t *testing.T) {
	db := newTestDB(t)
	v, _ := db.GetOrCreate(2, "k")
	s, _ := v.Str(true)
	s.Set([]byte("v"))

	stats := db.Stats()
	require.Len(t, stats.Namespaces, 1)
	require.Equal(t, 2, stats.Namespaces[0].Index)
}

func TestStatsCachedWithinTTL(t *testing.T) {
	db := newTestDB(t)
	first := db.Stats()

	v, _ := db.GetOrCreate(0, "k")
	s, _ := v.Str(true)
	s.Set([]byte("v"))

	second := db.Stats()
	require.Equal(t, first.GeneratedAt, second.GeneratedAt)
	require.Equal(t, 0, len(second.Namespaces))
}

func TestStatsInvalidateForcesRefresh(t *testing.T) {
	db := newTestDB(t)
	db.Stats()

	v, _ := db.GetOrCreate(0, "k")
	s, _ := v.Str(true)
	s.Set([]byte("v"))
	db.InvalidateStats()

	refreshed := db.Stats()
	require.Len(t, refreshed.Namespaces, 1)
	require.Equal(t, 1, refreshed.Namespaces[0].Keys)
}

func TestStatsExpiresAfterTTL(t *testing.T) {
	db := newTestDB(t)
	db.Stats()

	v, _ := db.GetOrCreate(0, "k")
	s, _ := v.Str(true)
	s.Set([]byte("v"))

	time.Sleep(defaultStatsTTL + 50*time.Millisecond)
	refreshed := db.Stats()
	require.Len(t, refreshed.Namespaces, 1)
}

func TestStatsConcurrentCallsCoalesce(t *testing.T) {
	db := newTestDB(t)
	v, _ := db.GetOrCreate(0, "k")
	s, _ := v.Str(true)
	s.Set([]byte("v"))
	db.InvalidateStats()

	const n = 20
	results := make([]Stats, n)
	done := make(chan int, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			results[i] = db.Stats()
			done <- i
		}(i)
	}
	for i := 0; i < n; i++ {
		<-done
	}
	for i := 1; i < n; i++ {
		require.Equal(t, results[0].GeneratedAt, results[i].GeneratedAt)
	}
}
