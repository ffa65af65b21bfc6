package store

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	return New(zap.NewNop(), Options{Namespaces: 4})
}

func TestDatabaseGetSetDelete(t *testing.T) {
	db := newTestDB(t)
	v, err := db.GetOrCreate(0, "k")
	require.NoError(t, err)
	s, _ := v.Str(true)
	s.Set([]byte("hello"))

	got, ok, err := db.Get(0, "k")
	require.NoError(t, err)
	require.True(t, ok)
	gs, _ := got.StrReadOnly()
	require.Equal(t, []byte("hello"), gs.Get())

	n, err := db.Del(0, []string{"k", "missing"})
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestDatabaseNamespaceOutOfRange(t *testing.T) {
	db := newTestDB(t)
	_, _, err := db.Get(db.NumNamespaces(), "k")
	require.Error(t, err)
	_, _, err = db.Get(-1, "k")
	require.Error(t, err)
}

func TestDatabaseExpiration(t *testing.T) {
	db := newTestDB(t)
	v, _ := db.GetOrCreate(0, "k")
	s, _ := v.Str(true)
	s.Set([]byte("v"))

	ok, err := db.Expire(0, "k", nowMillis()-1)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = db.Get(0, "k")
	require.NoError(t, err)
	require.False(t, ok)

	size, err := db.DBSize(0)
	require.NoError(t, err)
	require.Equal(t, 0, size)
}

func TestDatabaseTTL(t *testing.T) {
	db := newTestDB(t)
	v, _ := db.GetOrCreate(0, "k")
	s, _ := v.Str(true)
	s.Set([]byte("v"))

	ttl, err := db.TTL(0, "k")
	require.NoError(t, err)
	require.Equal(t, int64(-1), ttl)

	db.Expire(0, "k", nowMillis()+10000)
	ttl, err = db.TTL(0, "k")
	require.NoError(t, err)
	require.InDelta(t, 10000, ttl, 100)

	ttl, err = db.TTL(0, "missing")
	require.NoError(t, err)
	require.Equal(t, int64(-2), ttl)
}

func TestDatabaseRename(t *testing.T) {
	db := newTestDB(t)
	v, _ := db.GetOrCreate(0, "src")
	s, _ := v.Str(true)
	s.Set([]byte("v"))

	require.NoError(t, db.Rename(0, "src", "dst"))
	_, ok, _ := db.Get(0, "src")
	require.False(t, ok)
	got, ok, _ := db.Get(0, "dst")
	require.True(t, ok)
	gs, _ := got.StrReadOnly()
	require.Equal(t, []byte("v"), gs.Get())
}

func TestDatabaseWatchInvalidation(t *testing.T) {
	db := newTestDB(t)
	v, _ := db.GetOrCreate(0, "k")
	s, _ := v.Str(true)
	s.Set([]byte("1"))

	require.NoError(t, db.KeyWatch(0, "k", 42))
	require.True(t, db.KeyWatchVerify(0, "k", 42))

	db.KeyUpdated(0, "k")
	require.False(t, db.KeyWatchVerify(0, "k", 42))
}

func TestDatabasePublishDelivery(t *testing.T) {
	db := newTestDB(t)
	var received []Reply
	db.Subscribe("chan", func(r Reply) error {
		received = append(received, r)
		return nil
	})
	n := db.Publish("chan", "hello")
	require.Equal(t, 1, n)
	require.Len(t, received, 1)
}

func TestDatabasePublishPatternDelivery(t *testing.T) {
	db := newTestDB(t)
	var received []Reply
	db.PSubscribe("foo*baz", func(r Reply) error {
		received = append(received, r)
		return nil
	})
	n := db.Publish("foobarbaz", "payload")
	require.Equal(t, 1, n)
	require.Equal(t, []Reply{"pmessage", "foo*baz", "foobarbaz", "payload"}, received[0])
}

func TestDatabasePublishDropsDeadSink(t *testing.T) {
	db := newTestDB(t)
	db.Subscribe("chan", func(r Reply) error { return errSinkClosed })
	n := db.Publish("chan", "hi")
	require.Equal(t, 0, n)
	// Second publish should find zero subscribers, since the dead sink
	// was dropped.
	n = db.Publish("chan", "hi again")
	require.Equal(t, 0, n)
}

var errSinkClosed = errors.New("sink closed")

func TestDatabaseKeySubscribeFiresOnUpdate(t *testing.T) {
	db := newTestDB(t)
	ch, err := db.KeySubscribe(0, "k")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		<-ch
		close(done)
	}()

	db.KeyUpdated(0, "k")
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notifier did not fire")
	}
}

func TestActiveExpireCycleEvictsKeys(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 50; i++ {
		key := "k" + strconv.Itoa(i)
		v, _ := db.GetOrCreate(0, key)
		s, _ := v.Str(true)
		s.Set([]byte("v"))
		db.Expire(0, key, nowMillis()-1)
	}
	db.ActiveExpireCycle(50 * time.Millisecond)
	size, err := db.DBSize(0)
	require.NoError(t, err)
	require.Less(t, size, 50)
}
