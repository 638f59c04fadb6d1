package stream

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devlink/console.go/pkg/console"
)

type chanReadWriter struct {
	readCh  chan []byte
	writeCh chan byte
}

func (c *chanReadWriter) Read(p []byte) (int, error) {
	return copy(p, <-c.readCh), nil
}

func (c *chanReadWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		c.writeCh <- b
	}
	return len(p), nil
}

type portTestEnv struct {
	t      *testing.T
	rw     *chanReadWriter
	port   *Port
	cancel func()
}

func newPortTestEnv(t *testing.T, handler console.LineHandler) *portTestEnv {
	env := &portTestEnv{
		t:  t,
		rw: &chanReadWriter{readCh: make(chan []byte, 1), writeCh: make(chan byte, 256)},
	}
	tr := console.NewTransport()
	tr.Handler = handler
	env.port = New(env.rw, tr)
	var ctx context.Context
	ctx, env.cancel = context.WithCancel(context.Background())
	go env.port.Run(ctx)
	return env
}

func (e *portTestEnv) expect(want string) {
	for i := 0; i < len(want); i++ {
		select {
		case b := <-e.rw.writeCh:
			require.Equalf(e.t, want[i], b, "byte[%d] of %q mismatch", i, want)
		case <-time.After(time.Second):
			e.t.Fatalf("timeout waiting for byte[%d] of %q", i, want)
		}
	}
}

func TestPortLineRoundTrip(t *testing.T) {
	env := newPortTestEnv(t, console.ProcessLineFunc(func(line []byte, out console.Writer) {
		if string(line) == "ping" {
			out.Output([]byte("pong\r\n"))
		}
	}))
	defer env.cancel()

	env.rw.readCh <- []byte("ping\r")
	env.expect("ping\r\npong\r\n> ")

	env.rw.readCh <- []byte("ping\n")
	env.expect("ping\r\npong\r\n> ")
}

func TestPortInvoke(t *testing.T) {
	env := newPortTestEnv(t, nil)
	defer env.cancel()

	env.port.Invoke(func(tr *console.Transport) {
		tr.Log(console.LogLevelWarn, console.LogRegionLink, "retrying\r\n")
	})
	env.expect("WARN LINK retrying\r\n")
}

type closingReadWriter struct {
	chanReadWriter
	closed chan struct{}
}

func (c *closingReadWriter) Read(p []byte) (int, error) {
	select {
	case b := <-c.readCh:
		return copy(p, b), nil
	case <-c.closed:
		return 0, io.EOF
	}
}

func (c *closingReadWriter) Close() error {
	close(c.closed)
	return nil
}

func TestPortClosesReadWriterOnCancel(t *testing.T) {
	rw := &closingReadWriter{
		chanReadWriter: chanReadWriter{readCh: make(chan []byte), writeCh: make(chan byte, 16)},
		closed:         make(chan struct{}),
	}
	port := New(rw, console.NewTransport())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- port.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
	select {
	case <-rw.closed:
	default:
		t.Fatal("ReadWriter was not closed")
	}
}

func TestPortRunStopsOnCancel(t *testing.T) {
	rw := &chanReadWriter{readCh: make(chan []byte), writeCh: make(chan byte, 16)}
	port := New(rw, console.NewTransport())
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- port.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
