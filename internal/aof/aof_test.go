package aof

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriterDisabledIsNoop(t *testing.T) {
	w, err := Open(zap.NewNop(), "", false)
	require.NoError(t, err)
	require.False(t, w.Enabled())
	require.NoError(t, w.Append([][]byte{[]byte("SET"), []byte("k"), []byte("v")}))
	require.NoError(t, w.Close())
}

func TestWriterAppendsRESPArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appendonly.aof")

	w, err := Open(zap.NewNop(), path, true)
	require.NoError(t, err)
	require.True(t, w.Enabled())

	require.NoError(t, w.Append([][]byte{[]byte("SET"), []byte("k"), []byte("v")}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n", string(data))
}

func TestWriterAppendsAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appendonly.aof")

	w, err := Open(zap.NewNop(), path, true)
	require.NoError(t, err)
	require.NoError(t, w.Append([][]byte{[]byte("PING")}))
	require.NoError(t, w.Append([][]byte{[]byte("PING")}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "*1\r\n$4\r\nPING\r\n*1\r\n$4\r\nPING\r\n", string(data))
}

func TestReplayFileRoundTripsAppendedCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appendonly.aof")

	w, err := Open(zap.NewNop(), path, true)
	require.NoError(t, err)
	require.NoError(t, w.Append([][]byte{[]byte("SET"), []byte("k"), []byte("v")}))
	require.NoError(t, w.Append([][]byte{[]byte("DEL"), []byte("k")}))
	require.NoError(t, w.Close())

	cmds, err := ReplayFile(path)
	require.NoError(t, err)
	require.Equal(t, [][][]byte{
		{[]byte("SET"), []byte("k"), []byte("v")},
		{[]byte("DEL"), []byte("k")},
	}, cmds)
}

func TestReplayFileMissingIsEmpty(t *testing.T) {
	cmds, err := ReplayFile(filepath.Join(t.TempDir(), "missing.aof"))
	require.NoError(t, err)
	require.Nil(t, cmds)
}

func TestReplayFileMalformedReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appendonly.aof")
	require.NoError(t, os.WriteFile(path, []byte("*not-a-count\r\n"), 0o644))

	_, err := ReplayFile(path)
	require.Error(t, err)
}
