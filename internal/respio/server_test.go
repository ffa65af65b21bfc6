package respio

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServeEchoesCommand(t *testing.T) {
	srv, err := Listen(zap.NewNop(), "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ctx, func(ctx context.Context, conn *Conn) {
			args, err := conn.ReadCommand()
			if err != nil {
				return
			}
			_ = conn.WriteReply(args[0])
		})
	}()

	cli, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer cli.Close()

	_, err = cli.Write([]byte("*1\r\n$4\r\nPING\r\n"))
	require.NoError(t, err)

	cli.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(cli)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "$4\r\n", line)

	cancel()
	select {
	case err := <-serveErr:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestConnWriteReplySerializesConcurrentWriters(t *testing.T) {
	srvConn, cliConn := net.Pipe()
	defer srvConn.Close()
	defer cliConn.Close()

	c := NewConn(srvConn)

	const n = 25
	go func() {
		for i := 0; i < n; i++ {
			_ = c.WriteReply(SimpleString("a"))
		}
	}()
	go func() {
		for i := 0; i < n; i++ {
			_ = c.WriteReply(SimpleString("b"))
		}
	}()

	r := bufio.NewReader(cliConn)
	for i := 0; i < 2*n; i++ {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		require.True(t, line == "+a\r\n" || line == "+b\r\n", "got malformed/interleaved frame: %q", line)
	}
}

func TestCloseUnblocksServe(t *testing.T) {
	srv, err := Listen(zap.NewNop(), "127.0.0.1:0")
	require.NoError(t, err)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(context.Background(), func(ctx context.Context, conn *Conn) {})
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Close())

	select {
	case <-serveErr:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Close")
	}
}
