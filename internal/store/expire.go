package store

import "time"

const expireSampleSize = 20 // K in spec §4.K

// ActiveExpireCycle runs the time-budgeted sampling sweep (spec §4.K/§8):
// round-robin through namespaces from a cursor kept on the Database; for
// each, sample up to K random keys from the expiration index, evict expired
// ones, and keep sampling that namespace while more than ~25% of the last
// sample was expired, checking the time budget every 16 iterations.
func (d *Database) ActiveExpireCycle(budget time.Duration) {
	deadline := time.Now().Add(budget)
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.namespaces) == 0 {
		return
	}

	iterations := 0
	for i := 0; i < len(d.namespaces); i++ {
		nsIdx := (d.activeExpireCursor + i) % len(d.namespaces)
		n := d.namespaces[nsIdx]

		for {
			candidates := randomKeyCandidates(n, expireSampleSize)
			if len(candidates) == 0 {
				break
			}
			expiredCount := 0
			for _, k := range candidates {
				if d.expiredLocked(n, k) {
					n.values.Delete(k)
					n.expires.Delete(k)
					d.keyUpdatedLocked(nsIdx, k)
					expiredCount++
				}
				iterations++
				if iterations%16 == 0 && time.Now().After(deadline) {
					d.activeExpireCursor = (nsIdx + 1) % len(d.namespaces)
					return
				}
			}
			if expiredCount*4 < len(candidates) {
				break
			}
		}
		if time.Now().After(deadline) {
			d.activeExpireCursor = (nsIdx + 1) % len(d.namespaces)
			return
		}
	}
	d.activeExpireCursor = 0
}
