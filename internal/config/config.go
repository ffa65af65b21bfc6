// Package config loads the engine's configuration surface (spec §6) from a
// JSON file and keeps it live-reloadable with a debounced fsnotify watcher.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
)

// Config is the configuration surface consumed by the core (spec §6).
// It is immutable once loaded; live reload swaps the pointer atomically
// rather than mutating fields in place.
type Config struct {
	Databases           int               `json:"databases"`
	RequirePass         string            `json:"requirepass"`
	SetMaxIntsetEntries int               `json:"set_max_intset_entries"`
	ActiveRehashing     bool              `json:"active_rehashing"`
	AppendOnly          bool              `json:"appendonly"`
	AppendFilename      string            `json:"appendfilename"`
	RenameCommands      map[string]string `json:"rename_commands"`
	Port                int               `json:"port"`
	Dir                 string            `json:"dir"`
}

// Default returns the built-in defaults, used when no config file is given
// and as a base before overlaying the JSON file's fields.
func Default() *Config {
	return &Config{
		Databases:           16,
		SetMaxIntsetEntries: 512,
		AppendFilename:      "appendonly.aof",
		RenameCommands:      map[string]string{},
		Port:                6380,
		Dir:                 ".",
	}
}

// Store holds the current Config behind an atomic pointer, so readers never
// observe a half-updated value during a reload.
type Store struct {
	log *zap.Logger
	cur atomic.Pointer[Config]
}

// NewStore loads path (if non-empty) over the defaults and returns a Store
// ready for concurrent reads. A missing path is not an error: defaults apply.
func NewStore(log *zap.Logger, path string) (*Store, error) {
	s := &Store{log: log.Named("config")}
	cfg, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", path, err)
	}
	s.cur.Store(cfg)
	return s, nil
}

// Get returns the current configuration. The returned pointer is never
// mutated; a reload replaces it wholesale.
func (s *Store) Get() *Config { return s.cur.Load() }

// Reload re-reads path and swaps the stored config. Malformed files leave
// the previous configuration in place and are logged, not propagated: a
// bad edit should not take the server down.
func (s *Store) Reload(path string) {
	cfg, err := load(path)
	if err != nil {
		s.log.Warn("reload failed, keeping previous config", zap.Error(err))
		return
	}
	s.cur.Store(cfg)
	s.log.Info("config reloaded", zap.String("path", path))
}

func load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if cfg.RenameCommands == nil {
		cfg.RenameCommands = map[string]string{}
	}
	return cfg, nil
}
