package command

import (
	"github.com/edirooss/kvstore/internal/respio"
	"github.com/edirooss/kvstore/internal/valueengine"
)

func cmdZAdd(ex *Executor, c *Client, args [][]byte) Outcome {
	key := string(args[1])
	i := 2
	var nx, xx, ch, incr bool
loop:
	for i < len(args) {
		switch lower(args[i]) {
		case "nx":
			nx = true
			i++
		case "xx":
			xx = true
			i++
		case "ch":
			ch = true
			i++
		case "incr":
			incr = true
			i++
		default:
			break loop
		}
	}
	rest := args[i:]
	if len(rest) == 0 || len(rest)%2 != 0 {
		return errOutcome(errSyntax())
	}
	if nx && xx {
		return errOutcome(errSyntax())
	}
	if incr && len(rest) != 2 {
		return errOutcome(newErr("ERR", "INCR option supports a single increment-element pair"))
	}

	pairs := make([]valueengine.ScoreMember, 0, len(rest)/2)
	for j := 0; j < len(rest); j += 2 {
		score, ok := parseFloat(rest[j])
		if !ok {
			return errOutcome(errNotFloat())
		}
		pairs = append(pairs, valueengine.ScoreMember{Member: string(rest[j+1]), Score: score})
	}

	v, err := ex.db.GetOrCreate(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	zset, err := v.ZSet(true)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	count, incrScore, incrApplied, err := zset.ZAdd(pairs, nx, xx, ch, incr)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if count > 0 || incrApplied {
		ex.db.KeyUpdated(c.NS, key)
	}
	if incr {
		if !incrApplied {
			return reply(respio.NilBulk)
		}
		return reply(respio.BulkString(formatFloat(incrScore)))
	}
	return reply(respio.Integer(count))
}

func cmdZRem(ex *Executor, c *Client, args [][]byte) Outcome {
	key := string(args[1])
	v, ok, err := ex.db.Get(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Integer(0))
	}
	zset, err := v.ZSet(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if zset == nil {
		return reply(respio.Integer(0))
	}
	n := zset.ZRem(byteArgsToStrings(args[2:]))
	if n > 0 {
		ex.db.KeyUpdated(c.NS, key)
	}
	return reply(respio.Integer(n))
}

func cmdZScore(ex *Executor, c *Client, args [][]byte) Outcome {
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.NilBulk)
	}
	zset, err := v.ZSet(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if zset == nil {
		return reply(respio.NilBulk)
	}
	score, found := zset.ZScore(string(args[2]))
	if !found {
		return reply(respio.NilBulk)
	}
	return reply(respio.BulkString(formatFloat(score)))
}

func cmdZIncrBy(ex *Executor, c *Client, args [][]byte) Outcome {
	delta, ok := parseFloat(args[2])
	if !ok {
		return errOutcome(errNotFloat())
	}
	key := string(args[1])
	v, err := ex.db.GetOrCreate(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	zset, err := v.ZSet(true)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	score, err := zset.ZIncrBy(string(args[3]), delta)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	ex.db.KeyUpdated(c.NS, key)
	return reply(respio.BulkString(formatFloat(score)))
}

func cmdZCard(ex *Executor, c *Client, args [][]byte) Outcome {
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Integer(0))
	}
	zset, err := v.ZSet(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if zset == nil {
		return reply(respio.Integer(0))
	}
	return reply(respio.Integer(zset.Card()))
}

func genericRank(rev bool) Handler {
	return func(ex *Executor, c *Client, args [][]byte) Outcome {
		v, ok, err := ex.db.Get(c.NS, string(args[1]))
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if !ok {
			return reply(respio.NilBulk)
		}
		zset, err := v.ZSet(false)
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if zset == nil {
			return reply(respio.NilBulk)
		}
		rank, found := zset.ZRank(string(args[2]))
		if !found {
			return reply(respio.NilBulk)
		}
		if rev {
			rank = zset.Card() - 1 - rank
		}
		return reply(respio.Integer(rank))
	}
}

var cmdZRank = genericRank(false)
var cmdZRevRank = genericRank(true)

func cmdZCount(ex *Executor, c *Client, args [][]byte) Outcome {
	min, ok1 := parseScoreBound(args[2])
	max, ok2 := parseScoreBound(args[3])
	if !ok1 || !ok2 {
		return errOutcome(errNotFloat())
	}
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Integer(0))
	}
	zset, err := v.ZSet(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if zset == nil {
		return reply(respio.Integer(0))
	}
	return reply(respio.Integer(zset.ZCount(min, max)))
}

func cmdZLexCount(ex *Executor, c *Client, args [][]byte) Outcome {
	min, ok1 := parseLexBound(args[2])
	max, ok2 := parseLexBound(args[3])
	if !ok1 || !ok2 {
		return errOutcome(errSyntax())
	}
	v, ok, err := ex.db.Get(c.NS, string(args[1]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Integer(0))
	}
	zset, err := v.ZSet(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if zset == nil {
		return reply(respio.Integer(0))
	}
	return reply(respio.Integer(zset.ZLexCount(min, max)))
}

func scoreMembersToReply(pairs []valueengine.ScoreMember, withScores bool) respio.Array {
	if !withScores {
		out := make(respio.Array, len(pairs))
		for i, p := range pairs {
			out[i] = respio.BulkString([]byte(p.Member))
		}
		return out
	}
	out := make(respio.Array, 0, len(pairs)*2)
	for _, p := range pairs {
		out = append(out, respio.BulkString([]byte(p.Member)), respio.BulkString(formatFloat(p.Score)))
	}
	return out
}

func genericZRange(rev bool) Handler {
	return func(ex *Executor, c *Client, args [][]byte) Outcome {
		start, ok1 := parseInt(args[2])
		stop, ok2 := parseInt(args[3])
		if !ok1 || !ok2 {
			return errOutcome(errNotInt())
		}
		withScores := false
		if len(args) == 5 {
			if lower(args[4]) != "withscores" {
				return errOutcome(errSyntax())
			}
			withScores = true
		} else if len(args) > 5 {
			return errOutcome(errSyntax())
		}
		v, ok, err := ex.db.Get(c.NS, string(args[1]))
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if !ok {
			return reply(respio.Array{})
		}
		zset, err := v.ZSet(false)
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if zset == nil {
			return reply(respio.Array{})
		}
		return reply(scoreMembersToReply(zset.ZRange(start, stop, rev), withScores))
	}
}

var cmdZRange = genericZRange(false)
var cmdZRevRange = genericZRange(true)

// parseZRangeByScoreArgs parses trailing WITHSCORES and LIMIT offset count,
// common to ZRANGEBYSCORE/ZREVRANGEBYSCORE.
func parseZRangeByScoreArgs(args [][]byte) (withScores bool, offset, count int, err error) {
	count = -1
	i := 0
	for i < len(args) {
		switch lower(args[i]) {
		case "withscores":
			withScores = true
			i++
		case "limit":
			if i+2 >= len(args) {
				return false, 0, 0, errSyntax()
			}
			o, ok1 := parseInt(args[i+1])
			n, ok2 := parseInt(args[i+2])
			if !ok1 || !ok2 {
				return false, 0, 0, errNotInt()
			}
			offset, count = o, n
			i += 3
		default:
			return false, 0, 0, errSyntax()
		}
	}
	return withScores, offset, count, nil
}

func genericZRangeByScore(rev bool) Handler {
	return func(ex *Executor, c *Client, args [][]byte) Outcome {
		minArg, maxArg := args[2], args[3]
		if rev {
			minArg, maxArg = args[3], args[2]
		}
		min, ok1 := parseScoreBound(minArg)
		max, ok2 := parseScoreBound(maxArg)
		if !ok1 || !ok2 {
			return errOutcome(errNotFloat())
		}
		withScores, offset, count, perr := parseZRangeByScoreArgs(args[4:])
		if perr != nil {
			return errOutcome(perr)
		}
		v, ok, err := ex.db.Get(c.NS, string(args[1]))
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if !ok {
			return reply(respio.Array{})
		}
		zset, err := v.ZSet(false)
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if zset == nil {
			return reply(respio.Array{})
		}
		return reply(scoreMembersToReply(zset.ZRangeByScore(min, max, offset, count, rev), withScores))
	}
}

var cmdZRangeByScore = genericZRangeByScore(false)
var cmdZRevRangeByScore = genericZRangeByScore(true)

func genericZRangeByLex(rev bool) Handler {
	return func(ex *Executor, c *Client, args [][]byte) Outcome {
		minArg, maxArg := args[2], args[3]
		if rev {
			minArg, maxArg = args[3], args[2]
		}
		min, ok1 := parseLexBound(minArg)
		max, ok2 := parseLexBound(maxArg)
		if !ok1 || !ok2 {
			return errOutcome(errSyntax())
		}
		_, offset, count, perr := parseZRangeByScoreArgs(args[4:])
		if perr != nil {
			return errOutcome(perr)
		}
		v, ok, err := ex.db.Get(c.NS, string(args[1]))
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if !ok {
			return reply(respio.Array{})
		}
		zset, err := v.ZSet(false)
		if err != nil {
			return errOutcome(asWireError(err))
		}
		if zset == nil {
			return reply(respio.Array{})
		}
		return reply(scoreMembersToReply(zset.ZRangeByLex(min, max, offset, count, rev), false))
	}
}

var cmdZRangeByLex = genericZRangeByLex(false)
var cmdZRevRangeByLex = genericZRangeByLex(true)

func cmdZRemRangeByScore(ex *Executor, c *Client, args [][]byte) Outcome {
	min, ok1 := parseScoreBound(args[2])
	max, ok2 := parseScoreBound(args[3])
	if !ok1 || !ok2 {
		return errOutcome(errNotFloat())
	}
	key := string(args[1])
	v, ok, err := ex.db.Get(c.NS, key)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !ok {
		return reply(respio.Integer(0))
	}
	zset, err := v.ZSet(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if zset == nil {
		return reply(respio.Integer(0))
	}
	n := zset.ZRemRangeByScore(min, max)
	if n > 0 {
		ex.db.KeyUpdated(c.NS, key)
	}
	return reply(respio.Integer(n))
}

func cmdZRemRangeByLex(ex *Executor, c *Client, args [][]byte) Outcome {
	min, ok1 := parseLexBound(args[2])
	max, ok2 := parseLexBound(args[3])
	if !ok1 || !ok2 {
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
	zset, err := v.ZSet(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if zset == nil {
		return reply(respio.Integer(0))
	}
	n := zset.ZRemRangeByLex(min, max)
	if n > 0 {
		ex.db.KeyUpdated(c.NS, key)
	}
	return reply(respio.Integer(n))
}

func cmdZRemRangeByRank(ex *Executor, c *Client, args [][]byte) Outcome {
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
		return reply(respio.Integer(0))
	}
	zset, err := v.ZSet(false)
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if zset == nil {
		return reply(respio.Integer(0))
	}
	n := zset.ZRemRangeByRank(start, stop)
	if n > 0 {
		ex.db.KeyUpdated(c.NS, key)
	}
	return reply(respio.Integer(n))
}

// parseZStoreArgs parses ZUNIONSTORE/ZINTERSTORE's "dst numkeys key
// [key...] [WEIGHTS w...] [AGGREGATE SUM|MIN|MAX]" shape.
func parseZStoreArgs(args [][]byte) (dst string, keys []string, weights []float64, agg valueengine.Aggregate, err error) {
	dst = string(args[1])
	numKeys, ok := parseInt(args[2])
	if !ok || numKeys <= 0 {
		return "", nil, nil, 0, newErr("ERR", "at least 1 input key is needed")
	}
	if len(args) < 3+numKeys {
		return "", nil, nil, 0, errSyntax()
	}
	keys = byteArgsToStrings(args[3 : 3+numKeys])
	agg = valueengine.AggSum

	i := 3 + numKeys
	for i < len(args) {
		switch lower(args[i]) {
		case "weights":
			if i+numKeys >= len(args) {
				return "", nil, nil, 0, errSyntax()
			}
			weights = make([]float64, numKeys)
			for j := 0; j < numKeys; j++ {
				w, ok := parseFloat(args[i+1+j])
				if !ok {
					return "", nil, nil, 0, errNotFloat()
				}
				weights[j] = w
			}
			i += 1 + numKeys
		case "aggregate":
			if i+1 >= len(args) {
				return "", nil, nil, 0, errSyntax()
			}
			switch lower(args[i+1]) {
			case "sum":
				agg = valueengine.AggSum
			case "min":
				agg = valueengine.AggMin
			case "max":
				agg = valueengine.AggMax
			default:
				return "", nil, nil, 0, errSyntax()
			}
			i += 2
		default:
			return "", nil, nil, 0, errSyntax()
		}
	}
	return dst, keys, weights, agg, nil
}

func loadZSets(ex *Executor, ns int, keys []string) ([]*valueengine.ZSetVal, error) {
	out := make([]*valueengine.ZSetVal, len(keys))
	for i, k := range keys {
		v, ok, err := ex.db.Get(ns, k)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		// ZUNIONSTORE/ZINTERSTORE accept set inputs too (spec §4.F), treating
		// each member as score 1.
		if set, serr := v.Set(false, 0); serr == nil && set != nil {
			z := valueengine.NewZSetVal()
			for _, m := range set.SMembers() {
				z.ZAdd([]valueengine.ScoreMember{{Member: string(m), Score: 1}}, false, false, false, false)
			}
			out[i] = z
			continue
		}
		z, err := v.ZSet(false)
		if err != nil {
			return nil, err
		}
		out[i] = z
	}
	return out, nil
}

func genericZStore(union bool) Handler {
	return func(ex *Executor, c *Client, args [][]byte) Outcome {
		dst, keys, weights, agg, err := parseZStoreArgs(args)
		if err != nil {
			return errOutcome(err)
		}
		sources, err := loadZSets(ex, c.NS, keys)
		if err != nil {
			return errOutcome(asWireError(err))
		}
		var pairs []valueengine.ScoreMember
		if union {
			pairs = valueengine.ZUnion(sources, weights, agg)
		} else {
			pairs = valueengine.ZInter(sources, weights, agg)
		}
		if len(pairs) == 0 {
			if _, err := ex.db.Del(c.NS, []string{dst}); err != nil {
				return errOutcome(asWireError(err))
			}
			return reply(respio.Integer(0))
		}
		v, err := ex.db.GetOrCreate(c.NS, dst)
		if err != nil {
			return errOutcome(asWireError(err))
		}
		zset := v.ResetZSet()
		zset.ZAdd(pairs, false, false, false, false)
		ex.db.KeyUpdated(c.NS, dst)
		return reply(respio.Integer(len(pairs)))
	}
}

var cmdZUnionStore = genericZStore(true)
var cmdZInterStore = genericZStore(false)
