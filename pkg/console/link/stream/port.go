// Package stream attaches a console transport to an io.ReadWriter.
package stream

import (
	"context"
	"io"

	"github.com/devlink/console.go/pkg/console"
	"github.com/devlink/console.go/pkg/run"
)

// readChunk is the largest inbound batch handed to the transport at
// once.
const readChunk = 64

// Port drives a console.Transport over an io.ReadWriter. The Run loop
// is the single execution context the transport requires: inbound
// bytes, send completions and Invoke'd work are all dispatched from
// it, strictly interleaved.
type Port struct {
	ReadWriter io.ReadWriter
	Transport  *console.Transport

	sendCh chan []byte
	callCh chan func(*console.Transport)
}

// New creates a Port and binds it as the transport's driver.
func New(rw io.ReadWriter, t *console.Transport) *Port {
	p := &Port{
		ReadWriter: rw,
		Transport:  t,
		// one send outstanding at most, so one slot never blocks
		sendCh: make(chan []byte, 1),
		callCh: make(chan func(*console.Transport), 16),
	}
	t.Driver = p
	return p
}

// BeginSend implements console.Driver. The span is handed to the Run
// loop, which writes it out and confirms completion.
func (p *Port) BeginSend(span []byte) {
	p.sendCh <- span
}

// Invoke posts fn to the Run loop where it gets exclusive access to
// the transport. Output originating outside the loop, e.g. log writes
// from other goroutines, must go through here.
func (p *Port) Invoke(fn func(*console.Transport)) {
	p.callCh <- fn
}

// Run implements run.Runnable. It returns when the context is
// canceled or the underlying ReadWriter fails. A ReadWriter that is
// also an io.Closer gets closed on the way out, which unblocks the
// reader; otherwise the reader goroutine stays parked in Read until
// the ReadWriter delivers.
func (p *Port) Run(ctx context.Context) error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return run.RunWithContextCloser(ctx, closer, func() error {
			return p.loop(ctx)
		})
	}
	return p.loop(ctx)
}

func (p *Port) loop(ctx context.Context) error {
	byteCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go p.readLoop(subCtx, byteCh, errCh)
	for {
		select {
		case buf := <-byteCh:
			p.Transport.Receive(buf)
		case span := <-p.sendCh:
			if _, err := p.ReadWriter.Write(span); err != nil {
				return err
			}
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

func (p *Port) readLoop(ctx context.Context, byteCh chan []byte, errCh chan error) {
	for {
		buf := make([]byte, readChunk)
		n, err := p.ReadWriter.Read(buf)
		if n > 0 {
			select {
			case byteCh <- buf[:n]:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
