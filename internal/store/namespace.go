package store

import (
	"github.com/edirooss/kvstore/internal/rhmap"
	"github.com/edirooss/kvstore/internal/valueengine"
)

// namespace is one of the N logically isolated key spaces selected by
// SELECT (spec §3 "Namespaces"): a value map, an expiration index, a
// per-key watcher set, and a per-key one-shot notifier set.
type namespace struct {
	values  *rhmap.Map[string, *valueengine.Value]
	expires *rhmap.Map[string, int64] // absolute ms deadline

	// watchers maps key -> set of client ids that WATCHed it and have not
	// yet been invalidated.
	watchers map[string]map[int64]struct{}

	// notifiers maps key -> one-shot channels registered by a blocking
	// handler (BLPOP/BRPOP/BRPOPLPUSH) awaiting that key's next update.
	notifiers map[string][]chan struct{}
}

func newNamespace() *namespace {
	return &namespace{
		values:    rhmap.New[string, *valueengine.Value](),
		expires:   rhmap.New[string, int64](),
		watchers:  make(map[string]map[int64]struct{}),
		notifiers: make(map[string][]chan struct{}),
	}
}
