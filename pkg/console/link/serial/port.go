// Package serial attaches a console transport to a serial port.
package serial

import (
	"time"

	tarm "github.com/tarm/serial"

	"github.com/devlink/console.go/pkg/console"
	"github.com/devlink/console.go/pkg/console/link/stream"
)

// DefaultBaud is used when Config.Baud is unset.
const DefaultBaud = 115200

// Config specifies the serial port the console is attached to.
type Config struct {
	// Name is the device name, e.g. /dev/ttyUSB0.
	Name string
	// Baud is the line rate, DefaultBaud when zero.
	Baud int
	// ReadTimeout bounds a single read. Zero blocks until data.
	ReadTimeout time.Duration
}

// Open opens the port and returns a stream link bound to the
// transport.
func (c *Config) Open(t *console.Transport) (*stream.Port, error) {
	baud := c.Baud
	if baud == 0 {
		baud = DefaultBaud
	}
	port, err := tarm.OpenPort(&tarm.Config{
		Name:        c.Name,
		Baud:        baud,
		ReadTimeout: c.ReadTimeout,
	})
	if err != nil {
		return nil, err
	}
	return stream.New(port, t), nil
}
