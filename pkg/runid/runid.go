// Package runid allocates the process-wide run id reported by INFO and the
// per-connection client ids used for watch/monitor/pub-sub bookkeeping.
package runid

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// New returns a fresh random run id for the run_id field reported in INFO:
// a random UUID in its 36-character hyphenated text form.
func New() string {
	return uuid.New().String()
}

var clientSeq atomic.Int64

// NextClientID returns a monotonically increasing id unique for the life of
// the process, used to identify connections for watch/monitor/pub-sub
// bookkeeping.
func NextClientID() int64 {
	return clientSeq.Add(1)
}
