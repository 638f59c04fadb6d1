// Package console provides the device console transport.
package console

// The console transport sits between a byte-oriented link and a
// line-oriented command interpreter. It owns two concerns: assembling
// inbound bytes into discrete, edited command lines, and draining
// outbound bytes through a link driver that accepts one transmission
// at a time.
//
// The transport does no locking and never blocks. The host environment
// must serialize the entry points (Receive, Output, OutputFormat,
// SendDone), e.g. by dispatching all of them from a single event loop.
// The link packages under link/ provide such loops.
//
// Producer: link driver (inbound bytes, send completions)
// Consumer: command interpreter (completed lines, response output)
