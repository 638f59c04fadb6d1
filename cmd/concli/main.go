package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	mqttlink "github.com/devlink/console.go/pkg/console/link/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/console/"
	device  string
)

func init() {
	if val := os.Getenv("CONSOLE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&device, "device", "", "Device ID to attach to at startup.")
}

type client struct {
	queue  *mqttlink.Queue
	shell  *ishell.Shell
	device string
	sub    *mqttlink.Subscription
}

func (c *client) attach(id string) {
	if c.sub != nil {
		c.sub.Close()
	}
	c.device = id
	c.sub = c.queue.Sub(id+"/"+mqttlink.TxTopic, func(_ string, payload []byte) {
		c.shell.Print(string(payload))
	})
	c.shell.SetPrompt("[" + id + "] ")
}

func (c *client) discover() []string {
	resCh := make(chan string, 16)
	sub := c.queue.Sub("+/"+mqttlink.MetaTopic, func(topic string, payload []byte) {
		if len(payload) == 0 {
			// retained tombstone of a departed console
			return
		}
		if items := strings.Split(topic, "/"); len(items) == 2 {
			select {
			case resCh <- items[0]:
			default:
			}
		}
	})
	defer sub.Close()

	var ids []string
	seen := make(map[string]bool)
	timeout := time.After(500 * time.Millisecond)
	for {
		select {
		case id := <-resCh:
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		case <-timeout:
			return ids
		}
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	opts, prefix, err := mqttlink.ClientOptionsFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	opts.SetClientID(fmt.Sprintf("concli-%d", os.Getpid()))
	q := mqttlink.NewQueue(opts, prefix)
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	defer q.Close()

	c := &client{queue: q, shell: ishell.New()}
	c.shell.Println("devlink console client")
	c.shell.SetPrompt("[none] ")
	c.shell.AddCmd(&ishell.Cmd{
		Name: "devices",
		Help: "list announced consoles",
		Func: func(ctx *ishell.Context) {
			ids := c.discover()
			if len(ids) == 0 {
				ctx.Println("no consoles found")
				return
			}
			for _, id := range ids {
				ctx.Println(id)
			}
		},
	})
	c.shell.AddCmd(&ishell.Cmd{
		Name: "attach",
		Help: "attach to a console: attach <device-id>",
		Func: func(ctx *ishell.Context) {
			if len(ctx.Args) != 1 {
				ctx.Err(fmt.Errorf("usage: attach <device-id>"))
				return
			}
			c.attach(ctx.Args[0])
		},
	})
	// anything else is forwarded to the attached console verbatim
	c.shell.NotFound(func(ctx *ishell.Context) {
		if c.device == "" {
			ctx.Err(fmt.Errorf("not attached, use attach <device-id>"))
			return
		}
		line := strings.Join(ctx.RawArgs, " ") + "\r"
		c.queue.Pub(c.device+"/"+mqttlink.RxTopic, []byte(line))
	})

	if device != "" {
		c.attach(device)
	}
	c.shell.Run()
}
