// Package ws serves a console transport to a WebSocket client.
package ws

import (
	"context"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/devlink/console.go/pkg/console"
)

// DefaultPath is the handler path the console is served on.
const DefaultPath = "/console"

const readChunk = 64

type inbound struct {
	conn *websocket.Conn
	buf  []byte
}

// Port serves one console transport on a WebSocket endpoint. The
// device has a single console, so only one client is attached at a
// time; later connections are refused until the current one goes
// away. The Run loop is the single execution context for all
// transport entry points.
type Port struct {
	Addr string
	Path string
	// Listener overrides Addr when set.
	Listener  net.Listener
	Transport *console.Transport

	rxCh   chan inbound
	sendCh chan []byte
	callCh chan func(*console.Transport)
	connCh chan *websocket.Conn
	dropCh chan *websocket.Conn
	doneCh chan struct{}
}

// New creates a Port listening on addr and binds it as the
// transport's driver.
func New(addr string, t *console.Transport) *Port {
	p := &Port{
		Addr:      addr,
		Path:      DefaultPath,
		Transport: t,
		rxCh:      make(chan inbound),
		sendCh:    make(chan []byte, 1),
		callCh:    make(chan func(*console.Transport), 16),
		connCh:    make(chan *websocket.Conn),
		dropCh:    make(chan *websocket.Conn),
		doneCh:    make(chan struct{}),
	}
	t.Driver = p
	return p
}

// BeginSend implements console.Driver.
func (p *Port) BeginSend(span []byte) {
	p.sendCh <- span
}

// Invoke posts fn to the Run loop where it gets exclusive access to
// the transport.
func (p *Port) Invoke(fn func(*console.Transport)) {
	p.callCh <- fn
}

// Run implements run.Runnable. Run once per Port.
func (p *Port) Run(ctx context.Context) error {
	ln := p.Listener
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", p.Addr); err != nil {
			return err
		}
	}
	mux := http.NewServeMux()
	mux.Handle(p.Path, websocket.Handler(p.serve))
	srv := &http.Server{Handler: mux}
	defer srv.Close()
	defer close(p.doneCh) // releases serve goroutines parked on the channels
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	var conn *websocket.Conn
	for {
		select {
		case c := <-p.connCh:
			if conn != nil {
				// single console, refuse the newcomer
				c.Close()
				break
			}
			glog.V(1).Infof("ws client attached: %s", c.Request().RemoteAddr)
			conn = c
		case c := <-p.dropCh:
			if c == conn {
				glog.V(1).Info("ws client detached")
				conn = nil
			}
		case in := <-p.rxCh:
			if in.conn == conn {
				p.Transport.Receive(in.buf)
			}
		case span := <-p.sendCh:
			if conn != nil {
				if err := websocket.Message.Send(conn, span); err != nil {
					conn.Close()
					conn = nil
				}
			}
			// best effort: with no client attached the span is dropped
			p.Transport.SendDone()
		case fn := <-p.callCh:
			fn(p.Transport)
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Port) serve(conn *websocket.Conn) {
	select {
	case p.connCh <- conn:
	case <-p.doneCh:
		conn.Close()
		return
	}
	for {
		buf := make([]byte, readChunk)
		n, err := conn.Read(buf)
		if n > 0 {
			select {
			case p.rxCh <- inbound{conn: conn, buf: buf[:n]}:
			case <-p.doneCh:
				return
			}
		}
		if err != nil {
			break
		}
	}
	select {
	case p.dropCh <- conn:
	case <-p.doneCh:
	}
}
