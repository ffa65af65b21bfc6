package store

// keyUpdatedLocked is invoked whenever key's value changed or was deleted
// (spec §4.H key_updated). Callers must hold d.mu. It performs a bounded
// rehash step on the namespace's maps, deletes an emptied entry, fires every
// one-shot notifier registered on the key, and invalidates every watch on
// it.
func (d *Database) keyUpdatedLocked(ns int, key string) {
	n := d.namespaces[ns]

	if d.activeRehashing {
		n.values.Step(1)
		n.expires.Step(1)
	}

	if v, ok := n.values.Get(key); ok && v.Empty() {
		n.values.Delete(key)
		n.expires.Delete(key)
	}

	for _, ch := range n.notifiers[key] {
		close(ch)
	}
	delete(n.notifiers, key)

	delete(n.watchers, key)
}

// KeyUpdated is the exported entry point internal/command calls after any
// mutation completes (spec §4.H). The bounded rehash step runs only when
// the Database was built with ActiveRehashing; key_updated's
// notification/invalidation side effects always run.
func (d *Database) KeyUpdated(ns int, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keyUpdatedLocked(ns, key)
}

// KeyWatch records that client watches (ns, key) for optimistic concurrency.
func (d *Database) KeyWatch(ns int, key string, clientID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return err
	}
	set, ok := n.watchers[key]
	if !ok {
		set = make(map[int64]struct{})
		n.watchers[key] = set
	}
	set[clientID] = struct{}{}
	return nil
}

// KeyWatchVerify reports whether (ns, key) is still watched by clientID,
// i.e. has not been invalidated by a key_updated call since KeyWatch.
func (d *Database) KeyWatchVerify(ns int, key string, clientID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ns < 0 || ns >= len(d.namespaces) {
		return false
	}
	set, ok := d.namespaces[ns].watchers[key]
	if !ok {
		return false
	}
	_, watching := set[clientID]
	return watching
}

// KeyUnwatch removes a single (ns, key, clientID) watch entry.
func (d *Database) KeyUnwatch(ns int, key string, clientID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ns < 0 || ns >= len(d.namespaces) {
		return
	}
	if set, ok := d.namespaces[ns].watchers[key]; ok {
		delete(set, clientID)
		if len(set) == 0 {
			delete(d.namespaces[ns].watchers, key)
		}
	}
}

// KeySubscribe registers a one-shot notifier on (ns, key), fired by the next
// key_updated call on that key. Used by BLPOP/BRPOP/BRPOPLPUSH after an
// initial synchronous attempt finds nothing.
func (d *Database) KeySubscribe(ns int, key string) (<-chan struct{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return nil, err
	}
	ch := make(chan struct{})
	n.notifiers[key] = append(n.notifiers[key], ch)
	return ch, nil
}
