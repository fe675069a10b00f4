// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

// Package mqttsub serves pin writes from MQTT.
//
// A message on "<topic>/<pin>/set" drives the pin to the level in the payload.
// The resulting level is published, retained, to "<topic>/<pin>/state".
package mqttsub

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/btl/gpio"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
)

// Writer drives a pin to a level.
type Writer interface {
	Write(pin int, level gpio.Level) error
}

// Config defines the broker connection.
type Config struct {
	Broker   string
	ClientID string
	Topic    string
	Timeout  time.Duration
}

// Subscriber relays MQTT set messages to a Writer.
type Subscriber struct {
	w       Writer
	log     *log.Logger
	topic   string
	timeout time.Duration
	m       mqtt.Client
	publish func(topic string, payload []byte)

	// latest level of each pin awaiting publication
	mu      sync.Mutex
	pending map[int]gpio.Level
	kick    chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a Subscriber. It does not connect until Start.
func New(cfg Config, w Writer, logger *log.Logger) *Subscriber {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	s := &Subscriber{
		w:       w,
		log:     logger,
		topic:   strings.TrimSuffix(cfg.Topic, "/"),
		timeout: cfg.Timeout,
		pending: map[int]gpio.Level{},
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	mopt := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(cfg.Timeout).
		SetMaxReconnectInterval(cfg.Timeout * 3).
		SetOnConnectHandler(s.onConnect).
		SetOrderMatters(true).
		SetWriteTimeout(cfg.Timeout)
	s.m = mqtt.NewClient(mopt)
	s.publish = s.mqttPublish
	return s
}

// Start connects to the broker. The subscription is made, and remade on
// reconnect, by the connect handler.
func (s *Subscriber) Start() error {
	s.startPublisher()
	if err := s.tokenWait(s.m.Connect(), "connect"); err != nil {
		s.stopPublisher()
		return err
	}
	return nil
}

// Stop disconnects from the broker.
// A Subscriber cannot be restarted.
func (s *Subscriber) Stop() {
	s.m.Disconnect(uint(s.timeout / time.Millisecond))
	s.stopPublisher()
}

func (s *Subscriber) startPublisher() {
	s.wg.Add(1)
	go s.publishStates()
}

func (s *Subscriber) stopPublisher() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriber) onConnect(c mqtt.Client) {
	topic := s.topic + "/+/set"
	t := c.Subscribe(topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		s.handle(msg.Topic(), msg.Payload())
	})
	if err := s.tokenWait(t, "subscribe:"+topic); err != nil {
		s.log.Printf("mqttsub: %s", err)
	}
}

// handle applies a set message. Invalid messages are logged and dropped.
func (s *Subscriber) handle(topic string, payload []byte) {
	pin, err := s.parseTopic(topic)
	if err != nil {
		s.log.Printf("mqttsub: ignoring %s", err)
		return
	}
	level, err := gpio.ParseLevel(string(payload))
	if err != nil {
		s.log.Printf("mqttsub: ignoring %s on %s", err, topic)
		return
	}
	if err := s.w.Write(pin, level); err != nil {
		s.log.Printf("mqttsub: write %d: %s", pin, err)
		return
	}
	s.queueState(pin, level)
}

// queueState records the level for publication without waiting on the
// broker, as the handler blocks delivery of subsequent messages.
func (s *Subscriber) queueState(pin int, level gpio.Level) {
	s.mu.Lock()
	s.pending[pin] = level
	s.mu.Unlock()
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// publishStates publishes queued levels until stopped.
// Only the most recent level of each pin is published.
func (s *Subscriber) publishStates() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.kick:
		}
		s.mu.Lock()
		pp := s.pending
		s.pending = map[int]gpio.Level{}
		s.mu.Unlock()
		for pin, level := range pp {
			s.publish(fmt.Sprintf("%s/%d/state", s.topic, pin), []byte(statePayloads[level]))
		}
	}
}

func (s *Subscriber) parseTopic(topic string) (int, error) {
	rest := strings.TrimPrefix(topic, s.topic+"/")
	if rest == topic || !strings.HasSuffix(rest, "/set") {
		return 0, errors.NotValidf("topic %q", topic)
	}
	pin, err := strconv.ParseUint(strings.TrimSuffix(rest, "/set"), 10, 32)
	if err != nil {
		return 0, errors.NotValidf("topic %q", topic)
	}
	return int(pin), nil
}

func (s *Subscriber) mqttPublish(topic string, payload []byte) {
	t := s.m.Publish(topic, 1, true, payload)
	if err := s.tokenWait(t, "publish:"+topic); err != nil {
		s.log.Printf("mqttsub: %s", err)
	}
}

func (s *Subscriber) tokenWait(t mqtt.Token, tag string) error {
	if !t.WaitTimeout(s.timeout) {
		return errors.Errorf("%s timeout", tag)
	}
	if err := t.Error(); err != nil {
		return errors.Annotate(err, tag)
	}
	return nil
}

var statePayloads = map[gpio.Level]string{
	gpio.Low:  "0",
	gpio.High: "1",
}
