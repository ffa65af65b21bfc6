package command

import (
	"testing"

	"github.com/edirooss/kvstore/internal/config"
	"github.com/edirooss/kvstore/internal/respio"
	"github.com/edirooss/kvstore/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	db := store.New(zap.NewNop(), store.Options{Namespaces: 4})
	cfg, err := config.NewStore(zap.NewNop(), "")
	require.NoError(t, err)
	return NewExecutor(zap.NewNop(), db, cfg)
}

func collectSink() (store.Sink, *[]store.Reply) {
	var out []store.Reply
	return func(r store.Reply) error {
		out = append(out, r)
		return nil
	}, &out
}

func TestExecuteSetGet(t *testing.T) {
	ex := newTestExecutor(t)
	sink, _ := collectSink()
	c := NewClient(1, sink)
	c.Authenticated = true

	reply := ex.Execute(c, [][]byte{[]byte("SET"), []byte("k"), []byte("v")})
	require.Equal(t, respio.OK, reply)

	reply = ex.Execute(c, [][]byte{[]byte("GET"), []byte("k")})
	require.Equal(t, respio.BulkString("v"), reply)
}

func TestDisconnectUnsubscribesChannelsAndPatterns(t *testing.T) {
	ex := newTestExecutor(t)

	subSink, subOut := collectSink()
	sub := NewClient(1, subSink)
	sub.Authenticated = true
	ex.Execute(sub, [][]byte{[]byte("SUBSCRIBE"), []byte("chan")})
	ex.Execute(sub, [][]byte{[]byte("PSUBSCRIBE"), []byte("foo*")})
	*subOut = nil

	ex.Disconnect(sub)

	pubSink, _ := collectSink()
	pub := NewClient(2, pubSink)
	pub.Authenticated = true
	reply := ex.Execute(pub, [][]byte{[]byte("PUBLISH"), []byte("chan"), []byte("hello")})
	require.Equal(t, respio.Integer(0), reply)

	require.Empty(t, *subOut, "disconnected client should not receive further publishes")
}

func TestDisconnectRemovesMonitorRegistration(t *testing.T) {
	ex := newTestExecutor(t)

	monSink, monOut := collectSink()
	mon := NewClient(1, monSink)
	mon.Authenticated = true
	ex.Execute(mon, [][]byte{[]byte("MONITOR")})
	*monOut = nil

	ex.Disconnect(mon)

	other := NewClient(2, func(store.Reply) error { return nil })
	other.Authenticated = true
	ex.Execute(other, [][]byte{[]byte("SET"), []byte("k"), []byte("v")})

	require.Empty(t, *monOut, "disconnected monitor should not receive further command logs")
}

func TestMultiExecRunsQueuedCommands(t *testing.T) {
	ex := newTestExecutor(t)
	sink, _ := collectSink()
	c := NewClient(1, sink)
	c.Authenticated = true

	require.Equal(t, respio.OK, ex.Execute(c, [][]byte{[]byte("MULTI")}))
	require.Equal(t, respio.Queued, ex.Execute(c, [][]byte{[]byte("SET"), []byte("k"), []byte("1")}))
	require.Equal(t, respio.Queued, ex.Execute(c, [][]byte{[]byte("INCR"), []byte("k")}))

	reply := ex.Execute(c, [][]byte{[]byte("EXEC")})
	results, ok := reply.(respio.Array)
	require.True(t, ok, "EXEC should reply with an array of per-command results")
	require.Equal(t, respio.Array{respio.OK, respio.Integer(2)}, results)

	got := ex.Execute(c, [][]byte{[]byte("GET"), []byte("k")})
	require.Equal(t, respio.BulkString("2"), got)
}

func TestMultiExecAbortsOnWatchedKeyChange(t *testing.T) {
	ex := newTestExecutor(t)
	sink, _ := collectSink()
	c := NewClient(1, sink)
	c.Authenticated = true

	require.Equal(t, respio.OK, ex.Execute(c, [][]byte{[]byte("WATCH"), []byte("k")}))
	require.Equal(t, respio.OK, ex.Execute(c, [][]byte{[]byte("MULTI")}))
	require.Equal(t, respio.Queued, ex.Execute(c, [][]byte{[]byte("SET"), []byte("k"), []byte("2")}))

	other := NewClient(2, func(store.Reply) error { return nil })
	other.Authenticated = true
	ex.Execute(other, [][]byte{[]byte("SET"), []byte("k"), []byte("changed")})

	reply := ex.Execute(c, [][]byte{[]byte("EXEC")})
	require.Equal(t, respio.NilArray, reply)
}

func TestSetRangeEmptyValueOnAbsentKeyIsNoop(t *testing.T) {
	ex := newTestExecutor(t)
	sink, _ := collectSink()
	c := NewClient(1, sink)
	c.Authenticated = true

	reply := ex.Execute(c, [][]byte{[]byte("SETRANGE"), []byte("k"), []byte("0"), []byte("")})
	require.Equal(t, respio.Integer(0), reply)

	n, err := ex.db.Exists(c.NS, []string{"k"})
	require.NoError(t, err)
	require.Equal(t, 0, n, "SETRANGE with an empty value must not create the key")
}

func TestSetRangeEmptyValueOnExistingKeyIsNoop(t *testing.T) {
	ex := newTestExecutor(t)
	sink, _ := collectSink()
	c := NewClient(1, sink)
	c.Authenticated = true

	ex.Execute(c, [][]byte{[]byte("SET"), []byte("k"), []byte("hello")})
	reply := ex.Execute(c, [][]byte{[]byte("SETRANGE"), []byte("k"), []byte("0"), []byte("")})
	require.Equal(t, respio.Integer(5), reply)

	got := ex.Execute(c, [][]byte{[]byte("GET"), []byte("k")})
	require.Equal(t, respio.BulkString("hello"), got)
}

func TestDisconnectUnwatchesKeys(t *testing.T) {
	ex := newTestExecutor(t)

	sink, _ := collectSink()
	c := NewClient(1, sink)
	c.Authenticated = true
	ex.Execute(c, [][]byte{[]byte("WATCH"), []byte("k")})

	ex.Disconnect(c)

	require.False(t, ex.db.KeyWatchVerify(0, "k", c.ID))
}
