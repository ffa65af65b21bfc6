package store

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// NamespaceStats is one namespace's row in a Stats snapshot.
type NamespaceStats struct {
	Index   int
	Keys    int
	Expires int
}

// Stats is a point-in-time snapshot of keyspace sizes across every
// namespace, served by INFO (spec §4.I) and the admin HTTP /debug/info
// endpoint.
type Stats struct {
	Namespaces  []NamespaceStats
	GeneratedAt time.Time
}

// statsCache coalesces concurrent Stats recomputation: walking every
// namespace's key map is O(n) and INFO or /debug/info can be polled far
// faster than the keyspace changes, so repeated callers within ttl share
// one walk instead of each re-scanning, grounded on
// internal/service/channel_summary.go's singleflight+TTL snapshot cache.
type statsCache struct {
	mu      sync.RWMutex
	snap    Stats
	expires time.Time

	sg singleflight.Group
}

// defaultStatsTTL bounds how stale a served Stats snapshot may be.
const defaultStatsTTL = 200 * time.Millisecond

// Stats returns a cached keyspace snapshot, refreshing it (at most once
// across concurrent callers) when it has aged past defaultStatsTTL.
func (d *Database) Stats() Stats {
	d.statsCache.mu.RLock()
	if !d.statsCache.expires.IsZero() && time.Now().Before(d.statsCache.expires) {
		snap := d.statsCache.snap
		d.statsCache.mu.RUnlock()
		return snap
	}
	d.statsCache.mu.RUnlock()

	v, _, _ := d.statsCache.sg.Do("stats", func() (any, error) {
		d.statsCache.mu.RLock()
		if !d.statsCache.expires.IsZero() && time.Now().Before(d.statsCache.expires) {
			snap := d.statsCache.snap
			d.statsCache.mu.RUnlock()
			return snap, nil
		}
		d.statsCache.mu.RUnlock()

		snap := d.computeStats()
		d.statsCache.mu.Lock()
		d.statsCache.snap = snap
		d.statsCache.expires = time.Now().Add(defaultStatsTTL)
		d.statsCache.mu.Unlock()
		return snap, nil
	})
	return v.(Stats)
}

// InvalidateStats forces the next Stats call to recompute rather than serve
// a cached snapshot, used after FLUSHALL/FLUSHDB so INFO reflects the
// clear immediately instead of for up to defaultStatsTTL.
func (d *Database) InvalidateStats() {
	d.statsCache.mu.Lock()
	d.statsCache.expires = time.Time{}
	d.statsCache.mu.Unlock()
}

func (d *Database) computeStats() Stats {
	now := time.Now()
	rows := make([]NamespaceStats, 0, len(d.namespaces))
	for i := range d.namespaces {
		keys, _ := d.DBSize(i)
		expires, _ := d.ExpiresCount(i)
		if keys == 0 {
			continue
		}
		rows = append(rows, NamespaceStats{Index: i, Keys: keys, Expires: expires})
	}
	return Stats{Namespaces: rows, GeneratedAt: now}
}
