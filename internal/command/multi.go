package command

import (
	"github.com/edirooss/kvstore/internal/respio"
)

// Disconnect releases every piece of server-side state a connection
// accumulated: pub/sub subscriptions, the monitor registration, and watched
// keys. The RESP connection loop calls this once, after the socket closes,
// covering the same three registries cmdUnsubscribe/cmdPUnsubscribe/
// cmdMonitor/cmdUnwatch clean up individually during a live session.
func (ex *Executor) Disconnect(c *Client) {
	c.mu.Lock()
	channels := c.channels
	patterns := c.patterns
	watched := c.watched
	monitorID := c.monitorID
	isMonitor := c.isMonitor
	c.mu.Unlock()

	for ch, id := range channels {
		ex.db.Unsubscribe(ch, id)
	}
	for p, id := range patterns {
		ex.db.PUnsubscribe(p, id)
	}
	if isMonitor {
		ex.db.MonitorRemove(monitorID)
	}
	for wk := range watched {
		ex.db.KeyUnwatch(wk.ns, wk.key, c.ID)
	}
}

func cmdMulti(ex *Executor, c *Client, args [][]byte) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inMulti {
		return errOutcome(errNestedMulti())
	}
	c.inMulti = true
	c.multiErr = false
	c.queued = nil
	return reply(respio.OK)
}

func cmdDiscard(ex *Executor, c *Client, args [][]byte) Outcome {
	c.mu.Lock()
	if !c.inMulti {
		c.mu.Unlock()
		return errOutcome(newErr("ERR", "DISCARD without MULTI"))
	}
	c.inMulti = false
	c.queued = nil
	c.multiErr = false
	watched := c.watched
	c.watched = make(map[watchKey]struct{})
	c.mu.Unlock()

	for wk := range watched {
		ex.db.KeyUnwatch(wk.ns, wk.key, c.ID)
	}
	return reply(respio.OK)
}

func cmdExec(ex *Executor, c *Client, args [][]byte) Outcome {
	c.mu.Lock()
	if !c.inMulti {
		c.mu.Unlock()
		return errOutcome(errNotMulti())
	}
	queued := c.queued
	dirty := c.multiErr
	watched := c.watched
	c.inMulti = false
	c.queued = nil
	c.multiErr = false
	c.watched = make(map[watchKey]struct{})
	c.mu.Unlock()

	// Verify every watched key has not been invalidated since WATCH (spec
	// §4.I EXEC step (b)); the watch set is cleared regardless, above.
	aborted := dirty
	for wk := range watched {
		if !ex.db.KeyWatchVerify(wk.ns, wk.key, c.ID) {
			aborted = true
		}
		ex.db.KeyUnwatch(wk.ns, wk.key, c.ID)
	}
	if aborted {
		return reply(respio.NilArray)
	}

	results := make(respio.Array, 0, len(queued))
	for _, qargs := range queued {
		name := lower(qargs[0])
		props, ok := ex.lookup(name)
		if !ok {
			results = append(results, errUnknownCommand(name, qargs))
			continue
		}
		if !props.checkArity(len(qargs)) {
			results = append(results, errWrongArgs(name))
			continue
		}
		results = append(results, ex.dispatchLocked(c, name, props, qargs))
	}
	return reply(results)
}

func cmdWatch(ex *Executor, c *Client, args [][]byte) Outcome {
	if len(args) < 2 {
		return errOutcome(errWrongArgs("watch"))
	}
	for _, k := range args[1:] {
		if err := ex.db.KeyWatch(c.NS, string(k), c.ID); err != nil {
			return errOutcome(asWireError(err))
		}
		c.mu.Lock()
		c.watched[watchKey{ns: c.NS, key: string(k)}] = struct{}{}
		c.mu.Unlock()
	}
	return reply(respio.OK)
}

func cmdUnwatch(ex *Executor, c *Client, args [][]byte) Outcome {
	c.mu.Lock()
	watched := c.watched
	c.watched = make(map[watchKey]struct{})
	c.mu.Unlock()
	for wk := range watched {
		ex.db.KeyUnwatch(wk.ns, wk.key, c.ID)
	}
	return reply(respio.OK)
}

func cmdSelect(ex *Executor, c *Client, args [][]byte) Outcome {
	idx, ok := parseInt(args[1])
	if !ok {
		return errOutcome(errNotInt())
	}
	if idx < 0 || idx >= ex.db.NumNamespaces() {
		return errOutcome(errInvalidDBIndex())
	}
	c.NS = idx
	return reply(respio.OK)
}

func cmdAuth(ex *Executor, c *Client, args [][]byte) Outcome {
	pass := ex.cfg.Get().RequirePass
	if pass == "" {
		return errOutcome(newErr("ERR", "Client sent AUTH, but no password is set. Did you mean AUTH <username> <password>?"))
	}
	if string(args[1]) != pass {
		c.Authenticated = false
		return errOutcome(newErr("WRONGPASS", "invalid username-password pair or user is disabled."))
	}
	c.Authenticated = true
	return reply(respio.OK)
}

func cmdPing(ex *Executor, c *Client, args [][]byte) Outcome {
	if len(args) == 2 {
		return reply(respio.BulkString(args[1]))
	}
	return reply(respio.SimpleString("PONG"))
}
