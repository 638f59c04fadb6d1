package mqtt

import (
	"context"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/devlink/console.go/pkg/console"
)

// Topic suffixes under <device-id>/.
const (
	// RxTopic carries inbound key bytes from clients to the console.
	RxTopic = "rx"
	// TxTopic carries drained output spans to clients.
	TxTopic = "tx"
	// MetaTopic announces the console (retained) for discovery.
	MetaTopic = "meta"
)

// DefaultDeviceID derives a stable device identifier from the machine
// identity, falling back to "console" when unavailable.
func DefaultDeviceID() string {
	if id, err := machineid.ID(); err == nil && id != "" {
		return "console-" + id
	}
	return "console"
}

// Bus is the pub/sub surface the port drives; Queue satisfies it.
type Bus interface {
	Sub(topic string, handler Handler) *Subscription
	Pub(topic string, payload []byte) paho.Token
	PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token
}

// Port serves one console transport over an MQTT topic pair. Like the
// stream link, the Run loop is the single execution context for all
// transport entry points.
type Port struct {
	Bus       Bus
	Transport *console.Transport
	ID        string

	rxCh   chan []byte
	sendCh chan []byte
	callCh chan func(*console.Transport)
}

// New creates a Port for the device ID and binds it as the
// transport's driver.
func New(bus Bus, id string, t *console.Transport) *Port {
	p := &Port{
		Bus:       bus,
		Transport: t,
		ID:        id,
		rxCh:      make(chan []byte, 1),
		sendCh:    make(chan []byte, 1),
		callCh:    make(chan func(*console.Transport), 16),
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

// Run implements run.Runnable. It announces the console, then
// dispatches inbound bytes and send completions until the context is
// canceled or a publish fails.
func (p *Port) Run(ctx context.Context) error {
	sub := p.Bus.Sub(p.ID+"/"+RxTopic, Handler(func(_ string, payload []byte) {
		buf := make([]byte, len(payload))
		copy(buf, payload)
		select {
		case p.rxCh <- buf:
		case <-ctx.Done():
		}
	}))
	defer sub.Close()

	p.Bus.PubWith(p.ID+"/"+MetaTopic, []byte("console"), 0, true)
	defer p.Bus.PubWith(p.ID+"/"+MetaTopic, nil, 0, true)

	for {
		select {
		case buf := <-p.rxCh:
			p.Transport.Receive(buf)
		case span := <-p.sendCh:
			token := p.Bus.Pub(p.ID+"/"+TxTopic, span)
			token.Wait()
			if err := token.Error(); err != nil {
				return err
			}
			p.Transport.SendDone()
		case fn := <-p.callCh:
			fn(p.Transport)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
