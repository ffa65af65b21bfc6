package respio

import (
	"bufio"
	"context"
	"net"
	"sync"

	"go.uber.org/zap"
)

// Conn bundles a net.Conn with the buffered reader/writer ReadCommand and
// WriteReply need, and serializes writes so a synchronous command reply and
// an asynchronous push (pub/sub message, MONITOR line) can never interleave
// mid-frame on the wire.
type Conn struct {
	net.Conn
	r *bufio.Reader

	wmu sync.Mutex
	w   *bufio.Writer
}

// NewConn wraps an accepted connection for RESP I/O.
func NewConn(c net.Conn) *Conn {
	return &Conn{Conn: c, r: bufio.NewReader(c), w: bufio.NewWriter(c)}
}

// ReadCommand reads one request off the connection.
func (c *Conn) ReadCommand() ([][]byte, error) {
	return ReadCommand(c.r)
}

// WriteReply serializes and flushes r, holding the write lock for the
// duration so concurrent callers (the command loop and a pub/sub fan-out
// goroutine) never tear a frame in half.
func (c *Conn) WriteReply(r Reply) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := WriteReply(c.w, r); err != nil {
		return err
	}
	return c.w.Flush()
}

// Server is a minimal TCP acceptor for the RESP port (spec §6's "TCP
// acceptor and per-connection I/O" boundary stand-in): it owns nothing
// about commands, only accepting connections and handing each to a
// caller-supplied handler.
type Server struct {
	log *zap.Logger
	ln  net.Listener
}

// Listen binds addr (e.g. ":6380") and returns a Server ready to Serve.
func Listen(log *zap.Logger, addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{log: log.Named("respio"), ln: ln}, nil
}

// Addr returns the bound address, useful when addr was ":0" in tests.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Close stops accepting new connections. In-flight connections are left to
// their handlers to close.
func (s *Server) Close() error { return s.ln.Close() }

// Handler processes one accepted connection until it closes or ctx is done.
type Handler func(ctx context.Context, conn *Conn)

// Serve accepts connections until ctx is canceled or Close is called,
// dispatching each to handle on its own goroutine. It returns nil on a
// clean shutdown (ctx canceled or Close called), and the Accept error
// otherwise.
func (s *Server) Serve(ctx context.Context, handle Handler) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}
		c := NewConn(conn)
		go func() {
			defer c.Close()
			handle(ctx, c)
		}()
	}
}
