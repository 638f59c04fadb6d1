// Package mqtt serves a console transport over an MQTT broker.
package mqtt

import (
	"net/url"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is the callback when a message is received.
type Handler func(topic string, payload []byte)

// Queue wraps the MQTT client with prefix-scoped pub/sub.
type Queue struct {
	Client      paho.Client
	TopicPrefix string

	lock   sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
}

// Subscription is a subscribed topic pattern.
type Subscription struct {
	Token paho.Token

	queue *Queue
	topic string
	id    int
}

// MatchTopic matches a topic against a subscription pattern with +
// and trailing # wildcards.
func MatchTopic(topic, pattern string) bool {
	tt, pt := strings.Split(topic, "/"), strings.Split(pattern, "/")
	if len(pt) > len(tt) {
		return false
	}
	for i, tok := range pt {
		switch {
		case tok == "#" && i+1 == len(pt):
			return true
		case tok == "+":
		case tok != tt[i]:
			return false
		}
	}
	return len(pt) == len(tt)
}

// ClientOptionsFromURL creates ClientOptions and a topic prefix from a
// broker URL, e.g. mqtt://localhost:1883/console/?client-id=x. Without
// an explicit client-id the machine identity is used when available.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	server := u.Scheme
	if server == "" || server == "mqtt" {
		server = "tcp"
	}
	server += "://" + u.Host

	topicPrefix := strings.TrimPrefix(u.Path, "/")

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}

	clientID := u.Query().Get("client-id")
	if clientID == "" {
		if id, idErr := machineid.ID(); idErr == nil {
			clientID = "console-" + id
		}
	}
	if clientID != "" {
		opts.SetClientID(clientID)
	}

	return opts, topicPrefix, nil
}

// NewQueue creates a Queue.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix}
	options.SetOnConnectHandler(q.onConnect)
	options.SetConnectionLostHandler(q.onConnectionLost)
	q.Client = paho.NewClient(options)
	return q
}

// NewQueueFromURL creates a Queue from a broker URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewQueue(opts, topicPrefix), nil
}

// Connect connects the client.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Sub subscribes a topic pattern.
func (q *Queue) Sub(topic string, handler Handler) *Subscription {
	q.lock.Lock()
	if q.subs == nil {
		q.subs = make(map[string]map[int]Handler)
	}
	hs := q.subs[topic]
	newSub := hs == nil
	if newSub {
		hs = make(map[int]Handler)
		q.subs[topic] = hs
	}
	q.nextID++
	sub := &Subscription{queue: q, topic: topic, id: q.nextID}
	hs[sub.id] = handler
	q.lock.Unlock()

	if newSub {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+topic)
		sub.Token = q.Client.Subscribe(q.TopicPrefix+topic, 0, q.dispatch)
	}
	return sub
}

// Pub publishes to a topic.
func (q *Queue) Pub(topic string, payload []byte) paho.Token {
	return q.PubWith(topic, payload, 0, false)
}

// PubWith publishes with QoS and retain settings.
func (q *Queue) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	return q.Client.Publish(q.TopicPrefix+topic, qos, retain, payload)
}

// Resubscribe restores all subscriptions, used after reconnect.
func (q *Queue) Resubscribe() {
	filters := make(map[string]byte)
	q.lock.RLock()
	for topic := range q.subs {
		filters[q.TopicPrefix+topic] = 0
	}
	q.lock.RUnlock()
	if len(filters) > 0 {
		q.Client.SubscribeMultiple(filters, q.dispatch)
	}
}

func (q *Queue) onConnect(paho.Client) {
	glog.Info("mqtt connected")
	q.Resubscribe()
}

func (q *Queue) onConnectionLost(_ paho.Client, err error) {
	glog.Warningf("mqtt connection lost: %v", err)
}

func (q *Queue) dispatch(_ paho.Client, msg paho.Message) {
	topic := msg.Topic()
	if !strings.HasPrefix(topic, q.TopicPrefix) {
		return
	}
	topic = topic[len(q.TopicPrefix):]
	var handlers []Handler
	q.lock.RLock()
	for pattern, hs := range q.subs {
		if MatchTopic(topic, pattern) {
			for _, h := range hs {
				handlers = append(handlers, h)
			}
		}
	}
	q.lock.RUnlock()
	payload := msg.Payload()
	for _, h := range handlers {
		h(topic, payload)
	}
}

// Close unsubscribes the handler.
func (s *Subscription) Close() error {
	if s.queue == nil {
		return nil
	}
	var unsub bool
	s.queue.lock.Lock()
	if hs := s.queue.subs[s.topic]; hs != nil {
		delete(hs, s.id)
		if unsub = len(hs) == 0; unsub {
			delete(s.queue.subs, s.topic)
		}
	}
	s.queue.lock.Unlock()
	if unsub {
		glog.V(2).Infof("UNSUB %q", s.queue.TopicPrefix+s.topic)
		token := s.queue.Client.Unsubscribe(s.queue.TopicPrefix + s.topic)
		token.Wait()
		return token.Error()
	}
	return nil
}
