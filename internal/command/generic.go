package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/edirooss/kvstore/internal/dump"
	"github.com/edirooss/kvstore/internal/respio"
	"github.com/edirooss/kvstore/internal/valueengine"
)

func cmdDel(ex *Executor, c *Client, args [][]byte) Outcome {
	// Database.Del already fires key_updated per removed key internally.
	n, err := ex.db.Del(c.NS, byteArgsToStrings(args[1:]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	return reply(respio.Integer(n))
}

func cmdExists(ex *Executor, c *Client, args [][]byte) Outcome {
	n, err := ex.db.Exists(c.NS, byteArgsToStrings(args[1:]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	return reply(respio.Integer(n))
}

func cmdDBSize(ex *Executor, c *Client, args [][]byte) Outcome {
	n, err := ex.db.DBSize(c.NS)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	return reply(respio.Integer(n))
}

func cmdKeys(ex *Executor, c *Client, args [][]byte) Outcome {
	pattern := string(args[1])
	keys, err := ex.db.Keys(c.NS, matchGlob(pattern))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	out := make(respio.Array, len(keys))
	for i, k := range keys {
		out[i] = respio.BulkString(k)
	}
	return reply(out)
}

func cmdFlushDB(ex *Executor, c *Client, args [][]byte) Outcome {
	if err := ex.db.Flush(c.NS); err != nil {
		return errOutcome(asWireError(err))
	}
	return reply(respio.OK)
}

func cmdFlushAll(ex *Executor, c *Client, args [][]byte) Outcome {
	ex.db.FlushAll()
	return reply(respio.OK)
}

func cmdType(ex *Executor, c *Client, args [][]byte) Outcome {
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.SimpleString("none"))
	}
	return reply(respio.SimpleString(v.Kind().String()))
}

func expireDeadline(now time.Time, amount int64, unit time.Duration, absolute bool) int64 {
	if absolute {
		if unit == time.Second {
			return amount * 1000
		}
		return amount
	}
	return now.UnixMilli() + amount*int64(unit/time.Millisecond)
}

func genericExpire(ex *Executor, c *Client, key string, amount int64, unit time.Duration, absolute bool) Outcome {
	deadline := expireDeadline(time.Now(), amount, unit, absolute)
	applied, err := ex.db.Expire(c.NS, key, deadline)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if applied {
		ex.db.KeyUpdated(c.NS, key)
	}
	return reply(respio.Integer(boolInt(applied)))
}

func cmdExpire(ex *Executor, c *Client, args [][]byte) Outcome {
	n, ok := parseInt64(args[2])
	if !ok {
		return errOutcome(errNotInt())
	}
	return genericExpire(ex, c, string(args[1]), n, time.Second, false)
}

func cmdPExpire(ex *Executor, c *Client, args [][]byte) Outcome {
	n, ok := parseInt64(args[2])
	if !ok {
		return errOutcome(errNotInt())
	}
	return genericExpire(ex, c, string(args[1]), n, time.Millisecond, false)
}

func cmdExpireAt(ex *Executor, c *Client, args [][]byte) Outcome {
	n, ok := parseInt64(args[2])
	if !ok {
		return errOutcome(errNotInt())
	}
	return genericExpire(ex, c, string(args[1]), n, time.Second, true)
}

func cmdPExpireAt(ex *Executor, c *Client, args [][]byte) Outcome {
	n, ok := parseInt64(args[2])
	if !ok {
		return errOutcome(errNotInt())
	}
	return genericExpire(ex, c, string(args[1]), n, time.Millisecond, true)
}

func cmdTTL(ex *Executor, c *Client, args [][]byte) Outcome {
	ms, err := ex.db.TTL(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if ms < 0 {
		return reply(respio.Integer(ms))
	}
	return reply(respio.Integer((ms + 999) / 1000))
}

func cmdPTTL(ex *Executor, c *Client, args [][]byte) Outcome {
	ms, err := ex.db.TTL(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	return reply(respio.Integer(ms))
}

func cmdPersist(ex *Executor, c *Client, args [][]byte) Outcome {
	removed, err := ex.db.Persist(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if removed {
		ex.db.KeyUpdated(c.NS, string(args[1]))
	}
	return reply(respio.Integer(boolInt(removed)))
}

func cmdRename(ex *Executor, c *Client, args [][]byte) Outcome {
	if err := ex.db.Rename(c.NS, string(args[1]), string(args[2])); err != nil {
		return errOutcome(asWireError(err))
	}
	return reply(respio.OK)
}

func cmdRenameNX(ex *Executor, c *Client, args [][]byte) Outcome {
	ok, err := ex.db.RenameNX(c.NS, string(args[1]), string(args[2]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	return reply(respio.Integer(boolInt(ok)))
}

func cmdDump(ex *Executor, c *Client, args [][]byte) Outcome {
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.NilBulk)
	}
	b, err := dump.Dump(v)
	if err != nil {
		return errOutcome(newErr("ERR", "%s", err.Error()))
	}
	return reply(respio.BulkString(b))
}

// cmdObject handles OBJECT ENCODING, reporting the concrete encoding (supplemented feature,
// SPEC_FULL §14: OBJECT ENCODING alongside DEBUG OBJECT).
func cmdObject(ex *Executor, c *Client, args [][]byte) Outcome {
	sub := lower(args[1])
	if sub != "encoding" || len(args) != 3 {
		return errOutcome(errSyntax())
	}
	v, ok, err := ex.db.Get(c.NS, string(args[2]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return errOutcome(errNoSuchKey())
	}
	return reply(respio.BulkString(objectEncoding(v)))
}

func objectEncoding(v *valueengine.Value) string {
	switch v.Kind() {
	case valueengine.KindString:
		return "raw"
	case valueengine.KindList:
		return "linkedlist"
	case valueengine.KindSet:
		s, _ := v.Set(false, 0)
		return s.Encoding()
	case valueengine.KindZSet:
		return "skiplist"
	default:
		return "none"
	}
}

func cmdDebugObject(ex *Executor, c *Client, args [][]byte) Outcome {
	if lower(args[1]) != "object" || len(args) != 3 {
		return errOutcome(errSyntax())
	}
	v, ok, err := ex.db.Get(c.NS, string(args[2]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return errOutcome(errNoSuchKey())
	}
	desc := fmt.Sprintf("Value at:0x0 refcount:1 encoding:%s serializedlength:? %s",
		objectEncoding(v), strings.TrimSpace(spew.Sdump(v)))
	return reply(respio.SimpleString(desc))
}

func cmdInfo(ex *Executor, c *Client, args [][]byte) Outcome {
	return reply(respio.BulkString(ex.renderInfo()))
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func byteArgsToStrings(args [][]byte) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = string(a)
	}
	return out
}
