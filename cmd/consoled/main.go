package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/devlink/console.go/pkg/console"
	mqttlink "github.com/devlink/console.go/pkg/console/link/mqtt"
	seriallink "github.com/devlink/console.go/pkg/console/link/serial"
	"github.com/devlink/console.go/pkg/console/link/stream"
	wslink "github.com/devlink/console.go/pkg/console/link/ws"
	"github.com/devlink/console.go/pkg/run"
	"github.com/devlink/console.go/pkg/shell"
)

const version = "0.1.0"

var (
	serialName string
	serialBaud = seriallink.DefaultBaud
	mqttURL    string
	deviceID   string
	wsAddr     string
)

func init() {
	if val := os.Getenv("CONSOLE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&serialName, "serial", "", "Serial port name, e.g. /dev/ttyUSB0.")
	flag.IntVar(&serialBaud, "baud", serialBaud, "Serial baud rate.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL, e.g. mqtt://localhost:1883/console/.")
	flag.StringVar(&deviceID, "id", "", "Device ID announced over MQTT.")
	flag.StringVar(&wsAddr, "listen", "", "WebSocket listen address, e.g. :8632.")
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func main() {
	flag.Parse()

	t := console.NewTransport()
	t.Handler = shell.New().WithVersion(version)

	var link run.Runnable
	switch {
	case serialName != "":
		port, err := (&seriallink.Config{Name: serialName, Baud: serialBaud}).Open(t)
		if err != nil {
			glog.Exit(err)
		}
		link = run.NamedRun("serial", port)
	case wsAddr != "":
		link = run.NamedRun("ws", wslink.New(wsAddr, t))
	case mqttURL != "":
		q, err := mqttlink.NewQueueFromURL(mqttURL)
		if err != nil {
			glog.Exit(err)
		}
		if token := q.Connect(); token.Wait() && token.Error() != nil {
			glog.Exit(token.Error())
		}
		defer q.Close()
		id := deviceID
		if id == "" {
			id = mqttlink.DefaultDeviceID()
		}
		link = run.NamedRun("mqtt", mqttlink.New(q, id, t))
	default:
		// hosted simulation on stdin/stdout: Ctrl-C ends the process
		t.OnInterrupt = func() { os.Exit(0) }
		link = run.NamedRun("stdio", stream.New(stdio{}, t))
	}

	t.OutputFormat("devlink console %s\r\n", version)
	t.Prompt()

	if err := run.NewRunner().HandleSignals().Go(link).Wait(); err != nil {
		glog.Exit(err)
	}
}
