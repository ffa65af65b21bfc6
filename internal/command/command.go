// Package command implements the Command registry & executor (spec §4.I):
// parsing argument vectors into typed operations, validating arity and
// flags, driving MULTI/EXEC/WATCH, coordinating blocking waits, and
// fanning executed commands out to the monitor stream and append-only log
// via internal/store. internal/respio hands this package an already
// parsed argument vector; this package never touches wire bytes itself.
package command

import (
	"strings"
	"sync"
	"time"

	"github.com/edirooss/kvstore/internal/config"
	"github.com/edirooss/kvstore/internal/glob"
	"github.com/edirooss/kvstore/internal/respio"
	"github.com/edirooss/kvstore/internal/store"
	"go.uber.org/zap"
)

// Flags classify a command's behavior for dispatch-time checks, per spec
// §4.I's properties table.
type Flags uint32

const (
	FlagWrite Flags = 1 << iota
	FlagReadonly
	FlagDenyOOM
	FlagAdmin
	FlagPubSub
	FlagNoScript
	FlagRandom
	FlagSortForScript
	FlagLoading
	FlagStale
	FlagSkipMonitor
	FlagAsking
	FlagFast
)

// Outcome is what a handler returns to the executor: exactly one of a ready
// reply, an error, or a Wait request (spec §4.I "a handler signals one of a
// ready response, a typed error, or a wait request").
type Outcome struct {
	Reply respio.Reply
	Err   error
	Wait  *Wait
}

// Wait carries a channel that will eventually yield either nil (the
// blocking call timed out or was aborted) or a freshly built argument
// vector that the executor re-dispatches on the normal path (spec §4.I
// blocking commands, spec §5 "wait token").
type Wait struct {
	Ready <-chan [][]byte
}

// suppressedReply marks that a handler already wrote its response(s)
// directly to Client.Out (pub/sub subscribe/unsubscribe acknowledgements,
// which come one-per-channel) rather than through the normal synchronous
// reply path; the connection loop must skip writing anything for it.
type suppressedReply struct{}

// Suppressed is the sentinel Outcome.Reply value for commands handled
// entirely through Client.Out.
var Suppressed respio.Reply = suppressedReply{}

// IsSuppressed reports whether r is the Suppressed sentinel.
func IsSuppressed(r respio.Reply) bool {
	_, ok := r.(suppressedReply)
	return ok
}

func reply(r respio.Reply) Outcome      { return Outcome{Reply: r} }
func errOutcome(err error) Outcome      { return Outcome{Err: err} }
func waitOutcome(ch <-chan [][]byte) Outcome { return Outcome{Wait: &Wait{Ready: ch}} }

// Handler executes one command against c's namespace and connection state.
// args[0] is the command name as the client sent it (not case-folded).
type Handler func(ex *Executor, c *Client, args [][]byte) Outcome

// Props is a command's static properties record (spec §4.I).
type Props struct {
	Name         string
	Handler      Handler
	Arity        int // positive: exact; negative: minimum, i.e. -3 means ">= 3"
	Flags        Flags
	FirstKey     int
	LastKey      int
	KeyStep      int
	NotForMulti  bool // rejected while queuing (WATCH/UNWATCH/MULTI handled specially)
}

func (p *Props) checkArity(argc int) bool {
	if p.Arity >= 0 {
		return argc == p.Arity
	}
	return argc >= -p.Arity
}

// Client is the per-connection state passed to every handler (spec §4.I).
type Client struct {
	ID            int64
	NS            int
	Authenticated bool
	Out           store.Sink

	mu            sync.Mutex
	channels      map[string]int64 // channel -> subscriber id
	patterns      map[string]int64 // pattern -> subscriber id
	inMulti       bool
	multiErr      bool // a queuing-time error occurred; EXEC will abort
	queued        [][][]byte
	watched       map[watchKey]struct{}
	monitorID     int64
	isMonitor     bool
}

type watchKey struct {
	ns  int
	key string
}

// NewClient allocates per-connection state bound to sink for async events
// (pub/sub messages, monitor lines).
func NewClient(id int64, out store.Sink) *Client {
	return &Client{
		ID:       id,
		Out:      out,
		channels: make(map[string]int64),
		patterns: make(map[string]int64),
		watched:  make(map[watchKey]struct{}),
	}
}

func (c *Client) subCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.channels) + len(c.patterns)
}

// Executor owns the command table and the collaborators every handler
// needs: the Database, live configuration, and the blocking-timeout
// scheduler.
type Executor struct {
	log   *zap.Logger
	db    *store.Database
	cfg   *config.Store
	sched *scheduler
	start time.Time
	table map[string]*Props

	// mu serializes handler execution across every connection, realizing
	// spec §5's "exactly one command executes against the Database at a
	// time" at the executor layer rather than relying on Database's
	// internal mutex alone — handlers mutate *valueengine.Value pointers
	// fetched from the store directly, which is only safe under a single
	// wide lock. Released while a blocking handler awaits its Wait
	// channel (spec §5 "the executor then releases the Database lock").
	mu sync.Mutex
}

// NewExecutor builds the full command registry wired to db and cfg.
func NewExecutor(log *zap.Logger, db *store.Database, cfg *config.Store) *Executor {
	ex := &Executor{
		log:   log.Named("command"),
		db:    db,
		cfg:   cfg,
		sched: newScheduler(),
		start: time.Now(),
	}
	ex.table = buildTable()
	return ex
}

// lookup resolves name through rename_commands, then the static table.
func (ex *Executor) lookup(name string) (*Props, bool) {
	mapped, ok := ex.db.MappedCommand(name)
	if !ok {
		return nil, false
	}
	p, ok := ex.table[mapped]
	return p, ok
}

// matchGlob adapts internal/glob to the func(string) bool shape
// store.Keys expects, keeping store free of the glob dependency.
func matchGlob(pattern string) func(string) bool {
	return func(key string) bool { return glob.Match(pattern, key) }
}

func lower(b []byte) string { return strings.ToLower(string(b)) }
