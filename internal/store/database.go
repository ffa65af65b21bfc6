// Package store implements the Database component (spec §4.H): N logical
// namespaces, the expiration index, key-change notification, the key-watch
// mechanism backing WATCH/MULTI/EXEC, process-wide pub/sub registries, the
// monitor fan-out, and the active-expire cursor. internal/command drives it;
// store never parses wire protocol itself.
package store

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/edirooss/kvstore/internal/aof"
	"github.com/edirooss/kvstore/internal/valueengine"
	"go.uber.org/zap"
)

// Reply is an untyped RESP-shaped response tree (string, int64, []byte, nil,
// error, or []Reply); internal/respio renders it onto the wire. Keeping this
// untyped here, rather than importing a wire-codec type, is what lets store
// stay free of any protocol dependency, per spec §1's "RESP wire
// parser/serializer...deliberately out of scope" boundary.
type Reply any

// Sink receives an asynchronous Reply, used for pub/sub messages, monitor
// command lines, and MULTI-free out-of-band events. Implementations are
// single-consumer; Send returning an error marks the sink dead and it is
// dropped on the next fan-out, per spec §3 "sinks that fail on send are
// treated as closed".
type Sink func(Reply) error

// Database owns every namespace plus the process-wide registries layered
// on top of them.
type Database struct {
	log *zap.Logger
	mu  sync.Mutex

	namespaces []*namespace

	channels map[string]map[int64]Sink
	patterns map[string]map[int64]Sink
	nextSub  int64

	monitors  map[int64]Sink
	nextMonID int64

	activeExpireCursor int

	aofWriter      *aof.Writer
	aofDisabled    bool
	renameCommands map[string]string

	loading bool

	maxIntset       int
	activeRehashing bool

	statsCache statsCache
}

// Options configures a new Database.
type Options struct {
	Namespaces      int
	MaxIntset       int
	ActiveRehashing bool
	AOF             *aof.Writer
	RenameCommands  map[string]string
}

// New allocates a Database with the given number of namespaces.
func New(log *zap.Logger, opts Options) *Database {
	if opts.Namespaces <= 0 {
		opts.Namespaces = 16
	}
	if opts.MaxIntset <= 0 {
		opts.MaxIntset = 512
	}
	nss := make([]*namespace, opts.Namespaces)
	for i := range nss {
		nss[i] = newNamespace()
	}
	rename := opts.RenameCommands
	if rename == nil {
		rename = map[string]string{}
	}
	return &Database{
		log:             log.Named("store"),
		namespaces:      nss,
		channels:        make(map[string]map[int64]Sink),
		patterns:        make(map[string]map[int64]Sink),
		monitors:        make(map[int64]Sink),
		aofWriter:       opts.AOF,
		renameCommands:  rename,
		maxIntset:       opts.MaxIntset,
		activeRehashing: opts.ActiveRehashing,
	}
}

// SetAOF attaches w as the append-only writer, replacing whatever was
// configured at New. Used to defer opening the real writer until after
// startup AOF replay has finished re-executing the prior file's commands,
// so replay does not re-append everything it just read.
func (d *Database) SetAOF(w *aof.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.aofWriter = w
	d.aofDisabled = false
}

// NumNamespaces returns the configured namespace count.
func (d *Database) NumNamespaces() int { return len(d.namespaces) }

// MaxIntset returns the configured set_max_intset_entries threshold.
func (d *Database) MaxIntset() int { return d.maxIntset }

// SetLoading toggles loading mode: while set, expiration is ignored on
// reads (spec §6 "Persistence file").
func (d *Database) SetLoading(loading bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = loading
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// ns validates a namespace index and returns it. The off-by-one fix noted in
// spec §9's first Open Question is applied here: dbindex must be strictly
// less than the namespace count.
func (d *Database) ns(idx int) (*namespace, error) {
	if idx < 0 || idx >= len(d.namespaces) {
		return nil, fmt.Errorf("ERR DB index is out of range")
	}
	return d.namespaces[idx], nil
}

// expiredLocked reports whether key has passed its expiration deadline.
// Loading mode suppresses expiration entirely, per spec §3.
func (d *Database) expiredLocked(n *namespace, key string) bool {
	if d.loading {
		return false
	}
	deadline, ok := n.expires.Get(key)
	if !ok {
		return false
	}
	return nowMillis() >= deadline
}

// getLocked fetches key's value, lazily evicting it (and firing key_updated)
// if it has expired. Returns (nil, false) if absent or expired.
func (d *Database) getLocked(ns int, n *namespace, key string) (*valueengine.Value, bool) {
	if d.expiredLocked(n, key) {
		n.values.Delete(key)
		n.expires.Delete(key)
		d.keyUpdatedLocked(ns, key)
		return nil, false
	}
	v, ok := n.values.Get(key)
	return v, ok
}

// Get returns the value stored at key, or (nil, false) if absent/expired.
func (d *Database) Get(ns int, key string) (*valueengine.Value, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return nil, false, err
	}
	v, ok := d.getLocked(ns, n, key)
	return v, ok, nil
}

// GetOrCreate returns key's value, creating a Nil-kind Value if absent. The
// caller is expected to transition it via valueengine.Value's create-aware
// accessors (Str(true), List(true), ...), then call KeyUpdated.
func (d *Database) GetOrCreate(ns int, key string) (*valueengine.Value, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return nil, err
	}
	if v, ok := d.getLocked(ns, n, key); ok {
		return v, nil
	}
	v := valueengine.NewValue()
	n.values.Set(key, v)
	return v, nil
}

// Del removes keys, returning the count that existed.
func (d *Database) Del(ns int, keys []string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, k := range keys {
		if _, ok := d.getLocked(ns, n, k); ok {
			n.values.Delete(k)
			n.expires.Delete(k)
			count++
			d.keyUpdatedLocked(ns, k)
		}
	}
	return count, nil
}

// Exists counts how many of keys are present (and unexpired).
func (d *Database) Exists(ns int, keys []string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, k := range keys {
		if _, ok := d.getLocked(ns, n, k); ok {
			count++
		}
	}
	return count, nil
}

// DBSize returns the number of live (unexpired) keys in a namespace. It does
// not lazily evict every expired key outright (that is the active-expire
// cycle's job); it simply excludes them from the count per spec §8's
// Expiration property.
func (d *Database) DBSize(ns int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return 0, err
	}
	count := 0
	n.values.Range(func(k string, _ *valueengine.Value) bool {
		if !d.expiredLocked(n, k) {
			count++
		}
		return true
	})
	return count, nil
}

// ExpiresCount returns the number of live keys in a namespace that carry an
// expiration, for INFO's per-namespace keyspace section.
func (d *Database) ExpiresCount(ns int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return 0, err
	}
	count := 0
	n.expires.Range(func(k string, _ int64) bool {
		if !d.expiredLocked(n, k) {
			count++
		}
		return true
	})
	return count, nil
}

// Keys returns every live key in a namespace matching the glob pattern,
// via match (injected by the caller to keep store free of the glob dep).
func (d *Database) Keys(ns int, match func(key string) bool) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return nil, err
	}
	var out []string
	n.values.Range(func(k string, _ *valueengine.Value) bool {
		if !d.expiredLocked(n, k) && match(k) {
			out = append(out, k)
		}
		return true
	})
	return out, nil
}

// Flush clears a single namespace.
func (d *Database) Flush(ns int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return err
	}
	*n = *newNamespace()
	d.InvalidateStats()
	return nil
}

// FlushAll clears every namespace.
func (d *Database) FlushAll() {
	d.mu.Lock()
	for i := range d.namespaces {
		d.namespaces[i] = newNamespace()
	}
	d.mu.Unlock()
	d.InvalidateStats()
}

// Expire sets key's expiration to deadlineMs (absolute milliseconds),
// reporting whether the key existed.
func (d *Database) Expire(ns int, key string, deadlineMs int64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return false, err
	}
	if _, ok := d.getLocked(ns, n, key); !ok {
		return false, nil
	}
	n.expires.Set(key, deadlineMs)
	return true, nil
}

// Persist clears key's expiration (supplemented PERSIST, SPEC_FULL §14).
// Reports whether a TTL was actually removed.
func (d *Database) Persist(ns int, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return false, err
	}
	if _, ok := d.getLocked(ns, n, key); !ok {
		return false, nil
	}
	return n.expires.Delete(key), nil
}

// TTL returns the remaining time-to-live in milliseconds, -1 if the key has
// no expiration, or -2 if it is absent.
func (d *Database) TTL(ns int, key string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return 0, err
	}
	if _, ok := d.getLocked(ns, n, key); !ok {
		return -2, nil
	}
	deadline, ok := n.expires.Get(key)
	if !ok {
		return -1, nil
	}
	remaining := deadline - nowMillis()
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Rename moves src's value (and expiration) to dst, overwriting dst
// (supplemented RENAME, SPEC_FULL §14). Reports an error if src is absent.
func (d *Database) Rename(ns int, src, dst string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return err
	}
	v, ok := d.getLocked(ns, n, src)
	if !ok {
		return fmt.Errorf("ERR no such key")
	}
	if deadline, ok := n.expires.Get(src); ok {
		n.expires.Set(dst, deadline)
	} else {
		n.expires.Delete(dst)
	}
	n.values.Set(dst, v)
	n.values.Delete(src)
	n.expires.Delete(src)
	d.keyUpdatedLocked(ns, src)
	d.keyUpdatedLocked(ns, dst)
	return nil
}

// RenameNX is like Rename but fails (reporting false, no error) if dst
// already exists.
func (d *Database) RenameNX(ns int, src, dst string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.ns(ns)
	if err != nil {
		return false, err
	}
	if _, ok := d.getLocked(ns, n, dst); ok {
		return false, nil
	}
	v, ok := d.getLocked(ns, n, src)
	if !ok {
		return false, fmt.Errorf("ERR no such key")
	}
	if deadline, ok := n.expires.Get(src); ok {
		n.expires.Set(dst, deadline)
	}
	n.values.Set(dst, v)
	n.values.Delete(src)
	n.expires.Delete(src)
	d.keyUpdatedLocked(ns, src)
	d.keyUpdatedLocked(ns, dst)
	return true, nil
}

// MappedCommand consults the rename_commands configuration (spec §4.H):
// absence passes the name through unchanged, an explicit "" mapping
// disables the command (ok=false), otherwise the mapped alias is returned.
func (d *Database) MappedCommand(name string) (mapped string, ok bool) {
	if alias, present := d.renameCommands[name]; present {
		if alias == "" {
			return "", false
		}
		return alias, true
	}
	return name, true
}

// randomKeyCandidates returns up to k keys sampled at random from a
// namespace's expiration index (all of them when it holds k or fewer), for
// the active-expire cycle. The keys are not checked for liveness.
func randomKeyCandidates(n *namespace, k int) []string {
	all := n.expires.Keys()
	if len(all) == 0 {
		return nil
	}
	if k >= len(all) {
		return all
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:k]
}
