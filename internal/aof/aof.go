// Package aof is the append-only persistence log the core forwards write
// commands to. Per spec §1/§6 the file format and replay policy are a
// boundary contract, not part of the core: this package only states what the
// core passes across that boundary (a command name plus its RESP-encoded
// argument vector) and fsyncs it to appendfilename when appendonly is set.
package aof

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/edirooss/kvstore/internal/respio"
	"go.uber.org/zap"
)

// Writer appends commands to an AOF file in RESP array-of-bulk-strings form,
// the same encoding used on the wire, so the file can be replayed by feeding
// it back through the command parser unchanged.
type Writer struct {
	log     *zap.Logger
	mu      sync.Mutex
	f       *os.File
	w       *bufio.Writer
	enabled bool
}

// Open returns a no-op Writer if enabled is false; otherwise it opens path
// for appending, creating it if necessary.
func Open(log *zap.Logger, path string, enabled bool) (*Writer, error) {
	aw := &Writer{log: log.Named("aof"), enabled: enabled}
	if !enabled {
		return aw, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	aw.f = f
	aw.w = bufio.NewWriter(f)
	return aw, nil
}

// Append writes one command's argument vector (command name plus args) as a
// RESP array of bulk strings, then flushes and fsyncs.
func (w *Writer) Append(args [][]byte) error {
	if !w.enabled {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := fmt.Fprintf(w.w, "*%d\r\n", len(args)); err != nil {
		return err
	}
	for _, a := range args {
		if _, err := fmt.Fprintf(w.w, "$%s\r\n", strconv.Itoa(len(a))); err != nil {
			return err
		}
		if _, err := w.w.Write(a); err != nil {
			return err
		}
		if _, err := w.w.WriteString("\r\n"); err != nil {
			return err
		}
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		w.log.Warn("fsync failed", zap.Error(err))
	}
	return nil
}

// Close flushes and closes the underlying file, if any.
func (w *Writer) Close() error {
	if !w.enabled {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.f.Close()
}

// Enabled reports whether the writer is actually persisting.
func (w *Writer) Enabled() bool { return w.enabled }

// ReplayFile reads every command previously appended to path, in order, for
// the caller to re-execute against a freshly started Database (spec §6/§8
// startup restore). A missing file replays as empty, not an error. The file
// uses the same RESP array-of-bulk-strings grammar as the wire protocol, so
// replay reuses internal/respio's parser unchanged.
func ReplayFile(path string) ([][][]byte, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	var cmds [][][]byte
	r := bufio.NewReader(f)
	for {
		args, err := respio.ReadCommand(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("replay %q: %w", path, err)
		}
		cmds = append(cmds, args)
	}
	return cmds, nil
}
