package command

import (
	"github.com/edirooss/kvstore/internal/respio"
	"github.com/edirooss/kvstore/internal/valueengine"
)

func toReplyArray(items [][]byte) respio.Array {
	out := make(respio.Array, len(items))
	for i, b := range items {
		out[i] = respio.BulkString(b)
	}
	return out
}

func cmdSAdd(ex *Executor, c *Client, args [][]byte) Outcome {
	key := string(args[1])
	v, err := ex.db.GetOrCreate(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	set, err := v.Set(true, ex.db.MaxIntset())
	if err != nil {
		return errOutcome(asWireError(err))
	}
	n := set.SAdd(args[2:])
	if n > 0 {
		ex.db.KeyUpdated(c.NS, key)
	}
	return reply(respio.Integer(n))
}

func cmdSRem(ex *Executor, c *Client, args [][]byte) Outcome {
	key := string(args[1])
	v, ok, err := ex.db.Get(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Integer(0))
	}
	set, err := v.Set(false, 0)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if set == nil {
		return reply(respio.Integer(0))
	}
	n := set.SRem(args[2:])
	if n > 0 {
		ex.db.KeyUpdated(c.NS, key)
	}
	return reply(respio.Integer(n))
}

func cmdSIsMember(ex *Executor, c *Client, args [][]byte) Outcome {
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Integer(0))
	}
	set, err := v.Set(false, 0)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if set == nil {
		return reply(respio.Integer(0))
	}
	return reply(respio.Integer(boolInt(set.SIsMember(args[2]))))
}

func cmdSCard(ex *Executor, c *Client, args [][]byte) Outcome {
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Integer(0))
	}
	set, err := v.Set(false, 0)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if set == nil {
		return reply(respio.Integer(0))
	}
	return reply(respio.Integer(set.Card()))
}

func cmdSMembers(ex *Executor, c *Client, args [][]byte) Outcome {
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Array{})
	}
	set, err := v.Set(false, 0)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if set == nil {
		return reply(respio.Array{})
	}
	return reply(toReplyArray(set.SMembers()))
}

func cmdSRandMember(ex *Executor, c *Client, args [][]byte) Outcome {
	hasCount := len(args) == 3
	count := 1
	if hasCount {
		n, ok := parseInt(args[2])
		if !ok {
			return errOutcome(errNotInt())
		}
		count = n
	}
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		if hasCount {
			return reply(respio.Array{})
		}
		return reply(respio.NilBulk)
	}
	set, err := v.Set(false, 0)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if set == nil {
		if hasCount {
			return reply(respio.Array{})
		}
		return reply(respio.NilBulk)
	}
	if !hasCount {
		picked := set.SRandMember(1, false)
		if len(picked) == 0 {
			return reply(respio.NilBulk)
		}
		return reply(respio.BulkString(picked[0]))
	}
	allowDup := count < 0
	if count < 0 {
		count = -count
	}
	return reply(toReplyArray(set.SRandMember(count, allowDup)))
}

func cmdSPop(ex *Executor, c *Client, args [][]byte) Outcome {
	hasCount := len(args) == 3
	count := 1
	if hasCount {
		n, ok := parseInt(args[2])
		if !ok || n < 0 {
			return errOutcome(errOutOfRange())
		}
		count = n
	}
	key := string(args[1])
	v, ok, err := ex.db.Get(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		if hasCount {
			return reply(respio.Array{})
		}
		return reply(respio.NilBulk)
	}
	set, err := v.Set(false, 0)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if set == nil {
		if hasCount {
			return reply(respio.Array{})
		}
		return reply(respio.NilBulk)
	}
	popped := set.SPop(count)
	if len(popped) > 0 {
		ex.db.KeyUpdated(c.NS, key)
	}
	if !hasCount {
		if len(popped) == 0 {
			return reply(respio.NilBulk)
		}
		return reply(respio.BulkString(popped[0]))
	}
	return reply(toReplyArray(popped))
}

func cmdSMove(ex *Executor, c *Client, args [][]byte) Outcome {
	src, dst, member := string(args[1]), string(args[2]), args[3]

	srcV, ok, err := ex.db.Get(c.NS, src)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Integer(0))
	}
	srcSet, err := srcV.Set(false, 0)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if srcSet == nil || !srcSet.SIsMember(member) {
		return reply(respio.Integer(0))
	}

	dstV, err := ex.db.GetOrCreate(c.NS, dst)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	dstSet, err := dstV.Set(true, ex.db.MaxIntset())
	if err != nil {
		return errOutcome(asWireError(err))
	}

	srcSet.SRem([][]byte{member})
	dstSet.SAdd([][]byte{member})
	ex.db.KeyUpdated(c.NS, src)
	ex.db.KeyUpdated(c.NS, dst)
	return reply(respio.Integer(1))
}

// loadSetLikes resolves each key to a setLike, erroring on WRONGTYPE and
// treating absent keys as nil (empty), per SDIFF/SINTER/SUNION semantics.
func loadSetLikes(ex *Executor, ns int, keys []string) ([]valueengine.SetLike, error) {
	out := make([]valueengine.SetLike, len(keys))
	for i, k := range keys {
		v, ok, err := ex.db.Get(ns, k)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		set, err := v.Set(false, 0)
		if err != nil {
			return nil, err
		}
		if set != nil {
			out[i] = set
		}
	}
	return out, nil
}

func cmdSDiff(ex *Executor, c *Client, args [][]byte) Outcome {
	keys := byteArgsToStrings(args[1:])
	sets, err := loadSetLikes(ex, c.NS, keys)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	var first valueengine.SetLike
	if len(sets) > 0 {
		first = sets[0]
	}
	return reply(toReplyArray(valueengine.SDiff(first, sets[1:])))
}

func cmdSInter(ex *Executor, c *Client, args [][]byte) Outcome {
	keys := byteArgsToStrings(args[1:])
	sets, err := loadSetLikes(ex, c.NS, keys)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	return reply(toReplyArray(valueengine.SInter(sets)))
}

func cmdSUnion(ex *Executor, c *Client, args [][]byte) Outcome {
	keys := byteArgsToStrings(args[1:])
	sets, err := loadSetLikes(ex, c.NS, keys)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	return reply(toReplyArray(valueengine.SUnion(sets)))
}

func storeSetResult(ex *Executor, c *Client, dst string, members [][]byte) Outcome {
	if len(members) == 0 {
		if _, err := ex.db.Del(c.NS, []string{dst}); err != nil {
			return errOutcome(asWireError(err))
		}
		return reply(respio.Integer(0))
	}
	v, err := ex.db.GetOrCreate(c.NS, dst)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	set := v.ResetSet(ex.db.MaxIntset())
	set.SAdd(members)
	ex.db.KeyUpdated(c.NS, dst)
	return reply(respio.Integer(len(members)))
}

func cmdSDiffStore(ex *Executor, c *Client, args [][]byte) Outcome {
	dst := string(args[1])
	keys := byteArgsToStrings(args[2:])
	sets, err := loadSetLikes(ex, c.NS, keys)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	var first valueengine.SetLike
	if len(sets) > 0 {
		first = sets[0]
	}
	return storeSetResult(ex, c, dst, valueengine.SDiff(first, sets[1:]))
}

func cmdSInterStore(ex *Executor, c *Client, args [][]byte) Outcome {
	dst := string(args[1])
	keys := byteArgsToStrings(args[2:])
	sets, err := loadSetLikes(ex, c.NS, keys)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	return storeSetResult(ex, c, dst, valueengine.SInter(sets))
}

func cmdSUnionStore(ex *Executor, c *Client, args [][]byte) Outcome {
	dst := string(args[1])
	keys := byteArgsToStrings(args[2:])
	sets, err := loadSetLikes(ex, c.NS, keys)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	return storeSetResult(ex, c, dst, valueengine.SUnion(sets))
}
