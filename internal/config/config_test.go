package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewStoreDefaultsWhenMissing(t *testing.T) {
	s, err := NewStore(zap.NewNop(), "")
	require.NoError(t, err)
	require.Equal(t, 16, s.Get().Databases)
	require.Equal(t, 512, s.Get().SetMaxIntsetEntries)
}

func TestNewStoreOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kvstore.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"databases": 4, "requirepass": "secret"}`), 0644))

	s, err := NewStore(zap.NewNop(), path)
	require.NoError(t, err)
	require.Equal(t, 4, s.Get().Databases)
	require.Equal(t, "secret", s.Get().RequirePass)
	require.Equal(t, 512, s.Get().SetMaxIntsetEntries) // default preserved
}

func TestReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kvstore.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"databases": 4}`), 0644))

	s, err := NewStore(zap.NewNop(), path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0644))
	s.Reload(path)
	require.Equal(t, 4, s.Get().Databases)
}
