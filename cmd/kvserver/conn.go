package main

import (
	"context"

	"github.com/edirooss/kvstore/internal/command"
	"github.com/edirooss/kvstore/internal/respio"
	"github.com/edirooss/kvstore/internal/store"
	"github.com/edirooss/kvstore/pkg/runid"
)

// newConnHandler returns a respio.Handler that drives one RESP connection's
// request/response loop against ex until the connection closes or ctx is
// canceled.
func newConnHandler(ex *command.Executor) respio.Handler {
	return func(ctx context.Context, conn *respio.Conn) {
		id := runid.NextClientID()
		c := command.NewClient(id, func(r store.Reply) error {
			return conn.WriteReply(r)
		})
		defer ex.Disconnect(c)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			args, err := conn.ReadCommand()
			if err != nil {
				// EOF, a reset connection, or a malformed frame: nothing more can
				// be read reliably, so the connection is simply closed.
				return
			}
			if len(args) == 0 {
				continue
			}

			out := ex.Execute(c, args)
			if command.IsSuppressed(out) {
				continue
			}
			if err := conn.WriteReply(out); err != nil {
				return
			}
		}
	}
}
