package mqtt

import (
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Options configures a RealPublisher.
type Options struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	TopicPrefix    string
	ConnectTimeout time.Duration // how long NewRealPublisher waits for the first connection
	PublishTimeout time.Duration
}

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client  paho.Client
	prefix  string
	timeout time.Duration
}

// NewRealPublisher creates a publisher for the given broker. An unreachable
// broker is not an error: the client keeps retrying in the background and
// IsConnected reports false until it succeeds.
func NewRealPublisher(o Options) (*RealPublisher, error) {
	if o.TopicPrefix == "" {
		o.TopicPrefix = DefaultTopicPrefix
	}
	if o.ClientID == "" {
		o.ClientID = "level-sensor"
	}
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = 10 * time.Second
	}
	if o.PublishTimeout == 0 {
		o.PublishTimeout = 5 * time.Second
	}

	will, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE"})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetUsername(o.Username).
		SetPassword(o.Password).
		SetBinaryWill(SystemTopic(o.TopicPrefix), will, 1, true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			slog.Info("mqtt connected", "broker", o.Broker)
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			slog.Warn("mqtt connection lost", "broker", o.Broker, "err", err)
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(o.ConnectTimeout) {
		slog.Warn("mqtt broker not reachable yet, retrying in background", "broker", o.Broker)
	} else if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &RealPublisher{
		client:  client,
		prefix:  o.TopicPrefix,
		timeout: o.PublishTimeout,
	}, nil
}

// Publish sends one telemetry value. QoS 0 (at-most-once), not retained.
func (p *RealPublisher) Publish(channel, payload string) bool {
	topic := Topic(p.prefix, channel)
	token := p.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(p.timeout) {
		slog.Warn("publish timeout", "topic", topic)
		return false
	}
	if err := token.Error(); err != nil {
		slog.Warn("publish failed", "topic", topic, "err", err)
		return false
	}
	return true
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	token := p.client.Publish(SystemTopic(p.prefix), 1, event.Retained, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}

	return nil
}

// IsConnected reports whether the client currently has an open connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
