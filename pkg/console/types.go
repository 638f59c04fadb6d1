package console

// Driver performs the actual transmission of outbound bytes.
type Driver interface {
	// BeginSend requests transmission of exactly these bytes, in order.
	// The span aliases the transport's transmit ring and remains valid
	// until the matching SendDone. The driver must signal completion
	// exactly once per call via Transport.SendDone, and never without
	// a prior BeginSend.
	BeginSend(span []byte)
}

// BeginSendFunc is func type of Driver.
type BeginSendFunc func(span []byte)

// BeginSend implements Driver.
func (f BeginSendFunc) BeginSend(span []byte) {
	f(span)
}

// Writer is the output handle handed to the interpreter for emitting
// response text. Both calls are best effort: bytes beyond the transmit
// ring's free space are dropped and the accepted count is returned.
type Writer interface {
	Output(p []byte) int
	OutputFormat(format string, args ...interface{}) int
}

// LineHandler interprets a completed command line.
type LineHandler interface {
	// ProcessLine is called once per completed input line with the
	// line content (no terminator bytes) and the output handle for
	// the response. The call is synchronous: it must return before
	// further input is processed, and it must not call back into
	// Receive. The line aliases the receive buffer and is only valid
	// for the duration of the call.
	ProcessLine(line []byte, out Writer)
}

// ProcessLineFunc is func type of LineHandler.
type ProcessLineFunc func(line []byte, out Writer)

// ProcessLine implements LineHandler.
func (f ProcessLineFunc) ProcessLine(line []byte, out Writer) {
	f(line, out)
}
