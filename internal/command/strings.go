package command

import (
	"time"

	"github.com/edirooss/kvstore/internal/respio"
	"github.com/edirooss/kvstore/internal/valueengine"
)

func cmdSet(ex *Executor, c *Client, args [][]byte) Outcome {
	key, val := string(args[1]), args[2]
	var nx, xx bool
	var expireAt int64
	hasExpire := false

	i := 3
	for i < len(args) {
		switch lower(args[i]) {
		case "nx":
			nx = true
			i++
		case "xx":
			xx = true
			i++
		case "ex", "px":
			if i+1 >= len(args) {
				return errOutcome(errSyntax())
			}
			n, ok := parseInt64(args[i+1])
			if !ok || n <= 0 {
				return errOutcome(newErr("ERR", "invalid expire time in 'set' command"))
			}
			now := time.Now().UnixMilli()
			if lower(args[i]) == "ex" {
				expireAt = now + n*1000
			} else {
				expireAt = now + n
			}
			hasExpire = true
			i += 2
		default:
			return errOutcome(errSyntax())
		}
	}
	if nx && xx {
		return errOutcome(errSyntax())
	}

	_, exists, err := ex.db.Get(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if nx && exists {
		return reply(respio.NilBulk)
	}
	if xx && !exists {
		return reply(respio.NilBulk)
	}

	v, err := ex.db.GetOrCreate(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	v.ResetStr().Set(val)

	// Apply expiration before notifying, so watchers never observe a
	// stale TTL (spec §9's out-of-order "publish after expiration" fix).
	if hasExpire {
		if _, err := ex.db.Expire(c.NS, key, expireAt); err != nil {
			return errOutcome(asWireError(err))
		}
	} else {
		ex.db.Persist(c.NS, key)
	}
	ex.db.KeyUpdated(c.NS, key)
	return reply(respio.OK)
}

func cmdGet(ex *Executor, c *Client, args [][]byte) Outcome {
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.NilBulk)
	}
	s, err := v.StrReadOnly()
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if s == nil {
		return reply(respio.NilBulk)
	}
	return reply(respio.BulkString(s.Get()))
}

func cmdStrlen(ex *Executor, c *Client, args [][]byte) Outcome {
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Integer(0))
	}
	s, err := v.StrReadOnly()
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if s == nil {
		return reply(respio.Integer(0))
	}
	return reply(respio.Integer(s.Len()))
}

func cmdAppend(ex *Executor, c *Client, args [][]byte) Outcome {
	key := string(args[1])
	v, err := ex.db.GetOrCreate(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	s, err := v.Str(true)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	n, err := s.Append(args[2])
	if err != nil {
		return errOutcome(asWireError(err))
	}
	ex.db.KeyUpdated(c.NS, key)
	return reply(respio.Integer(n))
}

func cmdGetRange(ex *Executor, c *Client, args [][]byte) Outcome {
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
		return reply(respio.BulkString([]byte{}))
	}
	s, err := v.StrReadOnly()
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if s == nil {
		return reply(respio.BulkString([]byte{}))
	}
	return reply(respio.BulkString(s.GetRange(start, stop)))
}

func cmdSetRange(ex *Executor, c *Client, args [][]byte) Outcome {
	offset, ok := parseInt(args[2])
	if !ok {
		return errOutcome(errNotInt())
	}
	key := string(args[1])

	// An empty value against an absent key is a no-op: SETRANGE must not
	// materialize an empty string at key just to report its length as 0.
	if len(args[3]) == 0 {
		_, exists, err := ex.db.Get(c.NS, key)
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if !exists {
			return reply(respio.Integer(0))
		}
	}

	v, err := ex.db.GetOrCreate(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	s, err := v.Str(true)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	n, err := s.SetRange(offset, args[3])
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if v.Kind() == valueengine.KindString && len(args[3]) > 0 {
		ex.db.KeyUpdated(c.NS, key)
	}
	return reply(respio.Integer(n))
}

func cmdGetBit(ex *Executor, c *Client, args [][]byte) Outcome {
	n, ok := parseInt64(args[2])
	if !ok || n < 0 {
		return errOutcome(errOutOfRange())
	}
	v, ok2, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok2 {
		return reply(respio.Integer(0))
	}
	s, err := v.StrReadOnly()
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if s == nil {
		return reply(respio.Integer(0))
	}
	bit, err := s.GetBit(uint32(n))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	return reply(respio.Integer(bit))
}

func cmdSetBit(ex *Executor, c *Client, args [][]byte) Outcome {
	n, ok := parseInt64(args[2])
	if !ok || n < 0 {
		return errOutcome(errOutOfRange())
	}
	bit, ok := parseInt(args[3])
	if !ok || (bit != 0 && bit != 1) {
		return errOutcome(newErr("ERR", "bit is not an integer or out of range"))
	}
	key := string(args[1])
	v, err := ex.db.GetOrCreate(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	s, err := v.Str(true)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	old, err := s.SetBit(uint32(n), bit)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	ex.db.KeyUpdated(c.NS, key)
	return reply(respio.Integer(old))
}

func genericIncr(ex *Executor, c *Client, key string, delta int64) Outcome {
	v, err := ex.db.GetOrCreate(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	s, err := v.Str(true)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	n, err := s.Incr(delta)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	ex.db.KeyUpdated(c.NS, key)
	return reply(respio.Integer(n))
}

func cmdIncr(ex *Executor, c *Client, args [][]byte) Outcome {
	return genericIncr(ex, c, string(args[1]), 1)
}

func cmdDecr(ex *Executor, c *Client, args [][]byte) Outcome {
	return genericIncr(ex, c, string(args[1]), -1)
}

func cmdIncrBy(ex *Executor, c *Client, args [][]byte) Outcome {
	n, ok := parseInt64(args[2])
	if !ok {
		return errOutcome(errNotInt())
	}
	return genericIncr(ex, c, string(args[1]), n)
}

func cmdDecrBy(ex *Executor, c *Client, args [][]byte) Outcome {
	n, ok := parseInt64(args[2])
	if !ok {
		return errOutcome(errNotInt())
	}
	return genericIncr(ex, c, string(args[1]), -n)
}

func cmdIncrByFloat(ex *Executor, c *Client, args [][]byte) Outcome {
	delta, ok := parseFloat(args[2])
	if !ok {
		return errOutcome(errNotFloat())
	}
	key := string(args[1])
	v, err := ex.db.GetOrCreate(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	s, err := v.Str(true)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	result, err := s.IncrByFloat(delta)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	ex.db.KeyUpdated(c.NS, key)
	return reply(respio.BulkString(formatFloat(result)))
}

func cmdMGet(ex *Executor, c *Client, args [][]byte) Outcome {
	out := make(respio.Array, len(args)-1)
	for i, kb := range args[1:] {
		v, ok, err := ex.db.Get(c.NS, string(kb))
		if err != nil || !ok {
			out[i] = respio.NilBulk
			continue
		}
		s, err := v.StrReadOnly()
		if err != nil || s == nil {
			out[i] = respio.NilBulk
			continue
		}
		out[i] = respio.BulkString(s.Get())
	}
	return reply(out)
}

func cmdMSet(ex *Executor, c *Client, args [][]byte) Outcome {
	if (len(args)-1)%2 != 0 || len(args) < 3 {
		return errOutcome(errWrongArgs("mset"))
	}
	for i := 1; i < len(args); i += 2 {
		key := string(args[i])
		v, err := ex.db.GetOrCreate(c.NS, key)
		if err != nil {
			return errOutcome(asWireError(err))
		}
		v.ResetStr().Set(args[i+1])
		ex.db.Persist(c.NS, key)
		ex.db.KeyUpdated(c.NS, key)
	}
	return reply(respio.OK)
}

func cmdPFAdd(ex *Executor, c *Client, args [][]byte) Outcome {
	key := string(args[1])
	v, err := ex.db.GetOrCreate(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	str, err := strForHLL(v)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	changed, err := str.PFAdd(args[2:])
	if err != nil {
		return errOutcome(asWireError(err))
	}
	ex.db.KeyUpdated(c.NS, key)
	return reply(respio.Integer(boolInt(changed)))
}

// strForHLL returns v's String variant, creating a fresh HLL-backed one if
// v is Nil (PFADD auto-create).
func strForHLL(v *valueengine.Value) (*valueengine.StrVal, error) {
	if v.Kind() == valueengine.KindNil {
		return v.NewHLL(), nil
	}
	return v.Str(true)
}

func cmdPFCount(ex *Executor, c *Client, args [][]byte) Outcome {
	var total *valueengine.StrVal
	for _, kb := range args[1:] {
		v, ok, err := ex.db.Get(c.NS, string(kb))
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if !ok {
			continue
		}
		s, err := v.StrReadOnly()
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if s == nil {
			continue
		}
		if total == nil {
			total = valueengine.NewHLLStrVal()
		}
		if err := total.PFMerge([]*valueengine.StrVal{s}); err != nil {
			return errOutcome(asWireError(err))
		}
	}
	if total == nil {
		return reply(respio.Integer(0))
	}
	n, err := total.PFCount()
	if err != nil {
		return errOutcome(asWireError(err))
	}
	return reply(respio.Integer(int64(n)))
}

func cmdPFMerge(ex *Executor, c *Client, args [][]byte) Outcome {
	key := string(args[1])
	v, err := ex.db.GetOrCreate(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	dst, err := strForHLL(v)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	var sources []*valueengine.StrVal
	for _, kb := range args[2:] {
		sv, ok, err := ex.db.Get(c.NS, string(kb))
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if !ok {
			continue
		}
		s, err := sv.StrReadOnly()
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if s != nil {
			sources = append(sources, s)
		}
	}
	if err := dst.PFMerge(sources); err != nil {
		return errOutcome(asWireError(err))
	}
	ex.db.KeyUpdated(c.NS, key)
	return reply(respio.OK)
}
