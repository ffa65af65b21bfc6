package command

import (
	"github.com/edirooss/kvstore/internal/respio"
	"github.com/edirooss/kvstore/internal/valueengine"
)

func genericPush(fromLeft, xx bool) Handler {
	return func(ex *Executor, c *Client, args [][]byte) Outcome {
		key := string(args[1])
		values := args[2:]

		var v *valueengine.Value
		if xx {
			existing, ok, err := ex.db.Get(c.NS, key)
			if err != nil {
				return errOutcome(asWireError(err))
			}
			if !ok {
				return reply(respio.Integer(0))
			}
			v = existing
		} else {
			var err error
			v, err = ex.db.GetOrCreate(c.NS, key)
			if err != nil {
				return errOutcome(asWireError(err))
			}
		}

		list, err := v.List(!xx)
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if list == nil {
			return reply(respio.Integer(0))
		}

		var n int
		if fromLeft {
			n = list.PushLeft(values...)
		} else {
			n = list.PushRight(values...)
		}
		ex.db.KeyUpdated(c.NS, key)
		return reply(respio.Integer(n))
	}
}

var cmdLPush = genericPush(true, false)
var cmdRPush = genericPush(false, false)
var cmdLPushX = genericPush(true, true)
var cmdRPushX = genericPush(false, true)

func genericPop(fromLeft bool) Handler {
	return func(ex *Executor, c *Client, args [][]byte) Outcome {
		key := string(args[1])
		count := 1
		hasCount := false
		if len(args) == 3 {
			n, ok := parseInt(args[2])
			if !ok || n < 0 {
				return errOutcome(errOutOfRange())
			}
			count = n
			hasCount = true
		}

		v, ok, err := ex.db.Get(c.NS, key)
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if !ok {
			if hasCount {
				return reply(respio.NilArray)
			}
			return reply(respio.NilBulk)
		}
		list, err := v.List(false)
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if list == nil || list.Len() == 0 {
			if hasCount {
				return reply(respio.NilArray)
			}
			return reply(respio.NilBulk)
		}

		if !hasCount {
			var val []byte
			var popped bool
			if fromLeft {
				val, popped = list.PopLeft()
			} else {
				val, popped = list.PopRight()
			}
			if !popped {
				return reply(respio.NilBulk)
			}
			ex.db.KeyUpdated(c.NS, key)
			return reply(respio.BulkString(val))
		}

		out := make(respio.Array, 0, count)
		for i := 0; i < count; i++ {
			var val []byte
			var popped bool
			if fromLeft {
				val, popped = list.PopLeft()
			} else {
				val, popped = list.PopRight()
			}
			if !popped {
				break
			}
			out = append(out, respio.BulkString(val))
		}
		ex.db.KeyUpdated(c.NS, key)
		return reply(out)
	}
}

var cmdLPop = genericPop(true)
var cmdRPop = genericPop(false)

func cmdLLen(ex *Executor, c *Client, args [][]byte) Outcome {
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Integer(0))
	}
	list, err := v.List(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if list == nil {
		return reply(respio.Integer(0))
	}
	return reply(respio.Integer(list.Len()))
}

func cmdLIndex(ex *Executor, c *Client, args [][]byte) Outcome {
	idx, ok := parseInt(args[2])
	if !ok {
		return errOutcome(errNotInt())
	}
	v, ok2, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok2 {
		return reply(respio.NilBulk)
	}
	list, err := v.List(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if list == nil {
		return reply(respio.NilBulk)
	}
	val, found := list.Index(idx)
	if !found {
		return reply(respio.NilBulk)
	}
	return reply(respio.BulkString(val))
}

func cmdLRange(ex *Executor, c *Client, args [][]byte) Outcome {
	start, ok1 := parseInt(args[2])
	stop, ok2 := parseInt(args[3])
	if !ok1 || !ok2 {
		return errOutcome(errNotInt())
	}
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Array{})
	}
	list, err := v.List(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if list == nil {
		return reply(respio.Array{})
	}
	vals := list.Range(start, stop)
	out := make(respio.Array, len(vals))
	for i, b := range vals {
		out[i] = respio.BulkString(b)
	}
	return reply(out)
}

func cmdLSet(ex *Executor, c *Client, args [][]byte) Outcome {
	idx, ok := parseInt(args[2])
	if !ok {
		return errOutcome(errNotInt())
	}
	key := string(args[1])
	v, ok2, err := ex.db.Get(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok2 {
		return errOutcome(errNoSuchKey())
	}
	list, err := v.List(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if list == nil {
		return errOutcome(errNoSuchKey())
	}
	if err := list.Set(idx, args[3]); err != nil {
		return errOutcome(asWireError(err))
	}
	ex.db.KeyUpdated(c.NS, key)
	return reply(respio.OK)
}

func cmdLInsert(ex *Executor, c *Client, args [][]byte) Outcome {
	var before bool
	switch lower(args[2]) {
	case "before":
		before = true
	case "after":
		before = false
	default:
		return errOutcome(errSyntax())
	}
	key := string(args[1])
	v, ok, err := ex.db.Get(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Integer(0))
	}
	list, err := v.List(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if list == nil {
		return reply(respio.Integer(0))
	}
	var n int
	if before {
		n = list.InsertBefore(args[3], args[4])
	} else {
		n = list.InsertAfter(args[3], args[4])
	}
	if n == valueengine.ListNotFound {
		return reply(respio.Integer(-1))
	}
	ex.db.KeyUpdated(c.NS, key)
	return reply(respio.Integer(n))
}

func cmdLRem(ex *Executor, c *Client, args [][]byte) Outcome {
	count, ok := parseInt(args[2])
	if !ok {
		return errOutcome(errNotInt())
	}
	key := string(args[1])
	v, ok2, err := ex.db.Get(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok2 {
		return reply(respio.Integer(0))
	}
	list, err := v.List(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if list == nil {
		return reply(respio.Integer(0))
	}
	fromTail := count < 0
	if count < 0 {
		count = -count
	}
	n := list.Rem(fromTail, count, args[3])
	if n > 0 {
		ex.db.KeyUpdated(c.NS, key)
	}
	return reply(respio.Integer(n))
}

func cmdLTrim(ex *Executor, c *Client, args [][]byte) Outcome {
	start, ok1 := parseInt(args[2])
	stop, ok2 := parseInt(args[3])
	if !ok1 || !ok2 {
		return errOutcome(errNotInt())
	}
	key := string(args[1])
	v, ok, err := ex.db.Get(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.OK)
	}
	list, err := v.List(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if list == nil {
		return reply(respio.OK)
	}
	list.Trim(start, stop)
	ex.db.KeyUpdated(c.NS, key)
	return reply(respio.OK)
}
