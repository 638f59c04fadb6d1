package console

import "fmt"

// Default buffer capacities.
const (
	// MaxLineLength bounds a single OutputFormat rendering.
	MaxLineLength = 128
	// RxBufferSize is the default receive line buffer capacity.
	RxBufferSize = 512
	// TxBufferSize is the default transmit ring capacity.
	TxBufferSize = 1024
)

var (
	prompt = []byte{'>', ' '}
	erase  = []byte{'\b', ' ', '\b'}
	crnl   = []byte{'\r', '\n'}
)

// interruptByte is ASCII ETX (Ctrl-C).
const interruptByte = 0x03

// Transport owns the console byte streams in both directions. A device
// has exactly one Transport, constructed at startup and never torn
// down. Collaborators are bound through the public fields after
// construction.
//
// The Transport does no locking and no operation blocks or allocates
// on the steady-state paths; the host must invoke all entry points
// from a single execution context (see package doc).
type Transport struct {
	// Driver transmits drained spans. Queued bytes stay in the ring
	// until a Driver is bound.
	Driver Driver
	// Handler interprets completed lines. Completed lines are dropped
	// while no Handler is bound.
	Handler LineHandler
	// OnInterrupt, when set, is invoked for the interrupt byte
	// (Ctrl-C). Hosted builds may install an exit hook here; leave
	// nil on targets where the byte has no meaning.
	OnInterrupt func()

	rx      []byte
	rxLen   int
	tx      *Ring
	sendLen int
	echo    [1]byte
}

// NewTransport creates a Transport with the default buffer sizes.
func NewTransport() *Transport {
	return &Transport{
		rx: make([]byte, RxBufferSize),
		tx: NewRing(TxBufferSize),
	}
}

// WithBufferSizes replaces both buffers with the given capacities and
// discards any pending state. Call before any bytes flow.
func (t *Transport) WithBufferSizes(rxSize, txSize int) *Transport {
	t.rx = make([]byte, rxSize)
	t.rxLen = 0
	t.tx = NewRing(txSize)
	t.sendLen = 0
	return t
}

// Receive processes newly arrived bytes in order. It runs to
// completion and never blocks. The LineHandler it invokes must not
// call back into Receive.
func (t *Transport) Receive(p []byte) {
	for _, b := range p {
		switch b {
		case '\r', '\n':
			t.Output(crnl)
			if t.rxLen > 0 {
				t.processLine()
			}
			t.Output(prompt)
		case interruptByte:
			if fn := t.OnInterrupt; fn != nil {
				fn()
			}
		case '\b', 0x7f:
			if t.rxLen > 0 {
				t.Output(erase)
				t.rxLen--
			}
		default:
			// One slot stays reserved so the stored length never
			// reaches the buffer capacity. Once the line is full,
			// further bytes are dropped without echo so the
			// terminal display matches the stored line.
			if t.rxLen+1 < len(t.rx) {
				t.echo[0] = b
				t.Output(t.echo[:])
				t.rx[t.rxLen] = b
				t.rxLen++
			}
		}
	}
}

func (t *Transport) processLine() {
	line := t.rx[:t.rxLen]
	// Terminators never reach the buffer through Receive; this strips
	// at most one trailing LF and one trailing CR in case a line was
	// stored through some other path.
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	if h := t.Handler; h != nil {
		h.ProcessLine(line, t)
	}
	t.rxLen = 0
}

// Prompt emits the command prompt. Intended for startup; Receive
// re-emits it after every line on its own.
func (t *Transport) Prompt() {
	t.Output(prompt)
}

// Output queues bytes for transmission and returns the number
// accepted. Bytes beyond the transmit ring's free space are dropped;
// the console is best effort and back-pressure is advisory.
func (t *Transport) Output(p []byte) int {
	n := t.tx.Write(p)
	t.pump()
	return n
}

// OutputFormat renders the format into a line-bounded scratch and
// queues the result, clamped to MaxLineLength bytes. Returns the
// number of bytes accepted into the ring.
func (t *Transport) OutputFormat(format string, args ...interface{}) int {
	s := fmt.Sprintf(format, args...)
	if len(s) > MaxLineLength {
		s = s[:MaxLineLength]
	}
	return t.Output([]byte(s))
}

// Pending returns the number of bytes queued and not yet confirmed
// transmitted.
func (t *Transport) Pending() int {
	return t.tx.Len()
}

// pump arms the next transmission when idle: the longest contiguous
// run at the ring's head. Bytes wrapped past the end of the ring are
// withheld until the next completion. Never issues a zero-length send.
func (t *Transport) pump() {
	if t.sendLen != 0 {
		return
	}
	run := t.tx.Peek()
	if len(run) == 0 {
		return
	}
	if d := t.Driver; d != nil {
		t.sendLen = len(run)
		d.BeginSend(run)
	}
}

// SendDone is the completion signal from the Driver: the in-flight
// span has been transmitted. It confirms those bytes and re-arms,
// draining anything queued while the send was outstanding. A call with
// no send in flight is a driver contract violation and is ignored.
func (t *Transport) SendDone() {
	if t.sendLen == 0 {
		return
	}
	t.tx.Discard(t.sendLen)
	t.sendLen = 0
	t.pump()
}
