package command

import (
	"github.com/edirooss/kvstore/internal/respio"
	"github.com/edirooss/kvstore/internal/store"
)

func cmdSubscribe(ex *Executor, c *Client, args [][]byte) Outcome {
	for _, ch := range args[1:] {
		channel := string(ch)
		c.mu.Lock()
		_, already := c.channels[channel]
		c.mu.Unlock()
		if !already {
			id := ex.db.Subscribe(channel, c.Out)
			c.mu.Lock()
			c.channels[channel] = id
			c.mu.Unlock()
		}
		if err := c.Out(store.Reply(respio.Array{"subscribe", channel, respio.Integer(c.subCount())})); err != nil {
			return errOutcome(newErr("ERR", "%s", err.Error()))
		}
	}
	return reply(Suppressed)
}

func cmdPSubscribe(ex *Executor, c *Client, args [][]byte) Outcome {
	for _, pb := range args[1:] {
		pattern := string(pb)
		c.mu.Lock()
		_, already := c.patterns[pattern]
		c.mu.Unlock()
		if !already {
			id := ex.db.PSubscribe(pattern, c.Out)
			c.mu.Lock()
			c.patterns[pattern] = id
			c.mu.Unlock()
		}
		if err := c.Out(store.Reply(respio.Array{"psubscribe", pattern, respio.Integer(c.subCount())})); err != nil {
			return errOutcome(newErr("ERR", "%s", err.Error()))
		}
	}
	return reply(Suppressed)
}

func cmdUnsubscribe(ex *Executor, c *Client, args [][]byte) Outcome {
	targets := args[1:]
	c.mu.Lock()
	if len(targets) == 0 {
		for ch := range c.channels {
			targets = append(targets, []byte(ch))
		}
	}
	c.mu.Unlock()

	if len(targets) == 0 {
		ack := respio.Array{"unsubscribe", respio.NilBulk, respio.Integer(c.subCount())}
		if err := c.Out(store.Reply(ack)); err != nil {
			return errOutcome(newErr("ERR", "%s", err.Error()))
		}
		return reply(Suppressed)
	}

	for _, ch := range targets {
		channel := string(ch)
		c.mu.Lock()
		id, ok := c.channels[channel]
		if ok {
			delete(c.channels, channel)
		}
		c.mu.Unlock()
		if ok {
			ex.db.Unsubscribe(channel, id)
		}
		if err := c.Out(store.Reply(respio.Array{"unsubscribe", channel, respio.Integer(c.subCount())})); err != nil {
			return errOutcome(newErr("ERR", "%s", err.Error()))
		}
	}
	return reply(Suppressed)
}

func cmdPUnsubscribe(ex *Executor, c *Client, args [][]byte) Outcome {
	targets := args[1:]
	c.mu.Lock()
	if len(targets) == 0 {
		for p := range c.patterns {
			targets = append(targets, []byte(p))
		}
	}
	c.mu.Unlock()

	if len(targets) == 0 {
		ack := respio.Array{"punsubscribe", respio.NilBulk, respio.Integer(c.subCount())}
		if err := c.Out(store.Reply(ack)); err != nil {
			return errOutcome(newErr("ERR", "%s", err.Error()))
		}
		return reply(Suppressed)
	}

	for _, pb := range targets {
		pattern := string(pb)
		c.mu.Lock()
		id, ok := c.patterns[pattern]
		if ok {
			delete(c.patterns, pattern)
		}
		c.mu.Unlock()
		if ok {
			ex.db.PUnsubscribe(pattern, id)
		}
		if err := c.Out(store.Reply(respio.Array{"punsubscribe", pattern, respio.Integer(c.subCount())})); err != nil {
			return errOutcome(newErr("ERR", "%s", err.Error()))
		}
	}
	return reply(Suppressed)
}

func cmdPublish(ex *Executor, c *Client, args [][]byte) Outcome {
	n := ex.db.Publish(string(args[1]), string(args[2]))
	return reply(respio.Integer(n))
}

// cmdMonitor adds c's sink to the monitor fan-out. The MONITOR command
// itself carries FlagSkipMonitor so it is never echoed back (spec §4.I
// "marked not-logged to avoid recursion").
func cmdMonitor(ex *Executor, c *Client, args [][]byte) Outcome {
	c.mu.Lock()
	if c.isMonitor {
		c.mu.Unlock()
		return reply(respio.OK)
	}
	c.isMonitor = true
	c.mu.Unlock()
	id := ex.db.MonitorAdd(c.Out)
	c.mu.Lock()
	c.monitorID = id
	c.mu.Unlock()
	return reply(respio.OK)
}
