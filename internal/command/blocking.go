package command

import (
	"time"

	"github.com/edirooss/kvstore/internal/respio"
)

// popList performs a single LPOP/RPOP-equivalent against an existing list,
// firing key_updated on success. It never auto-creates (BLPOP/BRPOP never
// materialize an absent key).
func popList(ex *Executor, ns int, key string, fromLeft bool) ([]byte, bool, error) {
	v, ok, err := ex.db.Get(ns, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	list, err := v.List(false)
	if err != nil {
		return nil, false, err
	}
	if list == nil {
		return nil, false, nil
	}
	var val []byte
	if fromLeft {
		val, ok = list.PopLeft()
	} else {
		val, ok = list.PopRight()
	}
	if !ok {
		return nil, false, nil
	}
	ex.db.KeyUpdated(ns, key)
	return val, true, nil
}

func parseTimeoutSeconds(b []byte) (float64, bool) {
	f, ok := parseFloat(b)
	if !ok || f < 0 {
		return 0, false
	}
	return f, true
}

// redispatchWithRemaining rebuilds args with its trailing timeout argument
// reduced by the elapsed time since start, for the re-parsed argument
// vector a blocking handler hands back to the executor on wakeup (spec
// §4.I "recomputes the adjusted remaining timeout").
func redispatchWithRemaining(args [][]byte, timeout float64, start time.Time) [][]byte {
	if timeout <= 0 {
		return args
	}
	remaining := timeout - time.Since(start).Seconds()
	if remaining < 0 {
		remaining = 0
	}
	out := append([][]byte(nil), args...)
	out[len(out)-1] = []byte(formatFloat(remaining))
	return out
}

// waitOnKeys subscribes a one-shot notifier to each key and races it
// against an optional timeout timer (scheduled on ex.sched, the
// container/heap-based scheduler), returning a Wait channel that yields
// either nil (timed out) or the re-parsed args to retry (spec §4.I/§5).
func (ex *Executor) waitOnKeys(c *Client, keys []string, timeout float64, start time.Time, args [][]byte) Outcome {
	ready := make(chan [][]byte, 1)

	fired := make(chan struct{}, 1)
	for _, key := range keys {
		ch, err := ex.db.KeySubscribe(c.NS, key)
		if err != nil {
			return errOutcome(asWireError(err))
		}
		go func(ch <-chan struct{}) {
			<-ch
			select {
			case fired <- struct{}{}:
			default:
			}
		}(ch)
	}

	var cancelTimer func()
	if timeout > 0 {
		cancelTimer = ex.sched.After(time.Duration(timeout*float64(time.Second)), func() {
			select {
			case ready <- nil:
			default:
			}
		})
	}

	go func() {
		<-fired
		if cancelTimer != nil {
			cancelTimer()
		}
		select {
		case ready <- redispatchWithRemaining(args, timeout, start):
		default:
		}
	}()

	return waitOutcome(ready)
}

func genericBPop(fromLeft bool) Handler {
	return func(ex *Executor, c *Client, args [][]byte) Outcome {
		if len(args) < 3 {
			return errOutcome(errWrongArgs(cmdNameFor(fromLeft)))
		}
		keyArgs := args[1 : len(args)-1]
		timeout, ok := parseTimeoutSeconds(args[len(args)-1])
		if !ok {
			return errOutcome(newErr("ERR", "timeout is not a float or out of range"))
		}

		for _, kb := range keyArgs {
			key := string(kb)
			val, popped, err := popList(ex, c.NS, key, fromLeft)
			if err != nil {
				return errOutcome(asWireError(err))
			}
			if popped {
				return reply(respio.Array{respio.BulkString(key), respio.BulkString(val)})
			}
		}

		keys := byteArgsToStrings(keyArgs)
		return ex.waitOnKeys(c, keys, timeout, time.Now(), args)
	}
}

func cmdNameFor(fromLeft bool) string {
	if fromLeft {
		return "blpop"
	}
	return "brpop"
}

var cmdBLPop = genericBPop(true)
var cmdBRPop = genericBPop(false)

func cmdBRPopLPush(ex *Executor, c *Client, args [][]byte) Outcome {
	if len(args) != 4 {
		return errOutcome(errWrongArgs("brpoplpush"))
	}
	src, dst := string(args[1]), string(args[2])
	timeout, ok := parseTimeoutSeconds(args[3])
	if !ok {
		return errOutcome(newErr("ERR", "timeout is not a float or out of range"))
	}

	if val, popped, err := rpoplpush(ex, c.NS, src, dst); err != nil {
		return errOutcome(asWireError(err))
	} else if popped {
		return reply(respio.BulkString(val))
	}

	return ex.waitOnKeys(c, []string{src}, timeout, time.Now(), args)
}

// rpoplpush pops the tail of src and pushes it onto the head of dst
// (auto-creating dst), firing key_updated on both keys that changed.
func rpoplpush(ex *Executor, ns int, src, dst string) ([]byte, bool, error) {
	val, popped, err := popList(ex, ns, src, false)
	if err != nil || !popped {
		return nil, popped, err
	}
	dstVal, err := ex.db.GetOrCreate(ns, dst)
	if err != nil {
		return nil, false, err
	}
	list, err := dstVal.List(true)
	if err != nil {
		return nil, false, err
	}
	list.PushLeft(val)
	ex.db.KeyUpdated(ns, dst)
	return val, true, nil
}

func cmdRPopLPush(ex *Executor, c *Client, args [][]byte) Outcome {
	val, popped, err := rpoplpush(ex, c.NS, string(args[1]), string(args[2]))
	if err != nil {
		return errOutcome(asWireError(err))
	}
	if !popped {
		return reply(respio.NilBulk)
	}
	return reply(respio.BulkString(val))
}
