package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch starts a debounced fsnotify watcher on path's directory and calls
// Reload whenever path itself changes, coalescing bursts of writes from an
// editor saving the file multiple times in quick succession. It returns
// once the watcher is set up; it runs until ctx is canceled.
func (s *Store) Watch(ctx context.Context, path string, debounce time.Duration) error {
	if path == "" {
		return nil
	}
	if debounce <= 0 {
		debounce = 750 * time.Millisecond
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		var t *time.Timer
		reset := func() {
			if t != nil {
				t.Stop()
			}
			t = time.AfterFunc(debounce, func() { s.Reload(abs) })
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name != abs {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					reset()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Warn("watch error", zap.Error(err))
			}
		}
	}()
	return nil
}
