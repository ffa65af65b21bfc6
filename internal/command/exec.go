package command

import (
	"strings"

	"github.com/edirooss/kvstore/internal/respio"
)

// Execute is the sole entry point the connection loop (or AOF replay) calls
// to run one already-parsed argument vector against c; EXEC runs its queued
// commands through dispatchLocked instead. It implements the full dispatch pipeline from spec
// §4.I: rename resolution, arity/auth checks, MULTI queuing, monitor/AOF
// fan-out, and blocking re-dispatch.
func (ex *Executor) Execute(c *Client, args [][]byte) respio.Reply {
	if len(args) == 0 {
		return errSyntax()
	}
	name := lower(args[0])

	props, ok := ex.lookup(name)
	if !ok {
		return errUnknownCommand(name, args)
	}

	// Authentication gate: only AUTH runs before success, spec §4.I.
	if !c.Authenticated && ex.requiresAuth() && name != "auth" {
		return errNoAuth()
	}

	if !props.checkArity(len(args)) {
		return errWrongArgs(name)
	}

	// MULTI queuing: MULTI/EXEC/DISCARD are always processed directly;
	// WATCH/UNWATCH are rejected while a transaction is open, and every
	// other command is queued.
	c.mu.Lock()
	inMulti := c.inMulti
	c.mu.Unlock()
	if inMulti && !isMultiControl(name) {
		if name == "watch" || name == "unwatch" || props.NotForMulti {
			c.mu.Lock()
			c.multiErr = true
			c.mu.Unlock()
			return errInsideMulti(strings.ToUpper(name))
		}
		c.mu.Lock()
		c.queued = append(c.queued, append([][]byte(nil), args...))
		c.mu.Unlock()
		return respio.Queued
	}

	return ex.dispatch(c, name, props, args)
}

// dispatch runs a single command's handler to completion under ex.mu,
// resolving any blocking Wait by awaiting its channel and re-invoking the
// handler with the re-parsed argument vector it supplies (spec §5
// suspension points).
func (ex *Executor) dispatch(c *Client, name string, props *Props, args [][]byte) respio.Reply {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	return ex.dispatchLocked(c, name, props, args)
}

// dispatchLocked is dispatch's body, factored out so cmdExec can invoke it
// directly for each queued command without taking ex.mu a second time.
// cmdExec is itself a Handler, so it already runs with ex.mu held by the
// dispatch call that invoked it; calling dispatch again from inside it
// would deadlock retaking the non-reentrant mutex on the same goroutine.
// Callers must hold ex.mu on entry; it is still held on return (the Wait
// loop below releases it only for the duration of the blocking channel
// read).
func (ex *Executor) dispatchLocked(c *Client, name string, props *Props, args [][]byte) respio.Reply {
	outcome := props.Handler(ex, c, args)
	for outcome.Wait != nil {
		ex.mu.Unlock()
		next, ok := <-outcome.Wait.Ready
		ex.mu.Lock()
		if !ok || next == nil {
			return respio.NilArray
		}
		outcome = props.Handler(ex, c, next)
	}

	if !props.Flags.has(FlagSkipMonitor) {
		ex.db.LogCommand(c.NS, args, props.Flags.has(FlagWrite) && outcome.Err == nil)
	}

	if outcome.Err != nil {
		return asWireError(outcome.Err)
	}
	return outcome.Reply
}

func (f Flags) has(flag Flags) bool { return f&flag != 0 }

func isMultiControl(name string) bool {
	switch name {
	case "multi", "exec", "discard":
		return true
	}
	return false
}

func (ex *Executor) requiresAuth() bool {
	return ex.cfg.Get().RequirePass != ""
}
