// Package mqtt provides telemetry publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/sweeney/level-sensor/internal/logic"
)

// DefaultTopicPrefix is prepended to every channel name.
const DefaultTopicPrefix = "level/sensor"

// Channel names for the two telemetry values.
const (
	ChannelDepth = "depth_mm"
	ChannelRaw   = "raw_16bit"
)

// Channels names the depth and raw telemetry channels.
type Channels struct {
	Depth string `yaml:"depth"`
	Raw   string `yaml:"raw"`
}

// DefaultChannels returns the channel names used by the shipped firmware.
func DefaultChannels() Channels {
	return Channels{Depth: ChannelDepth, Raw: ChannelRaw}
}

// Topic returns the MQTT topic for a channel.
func Topic(prefix, channel string) string {
	return prefix + "/" + channel
}

// SystemTopic returns the MQTT topic for system lifecycle events.
func SystemTopic(prefix string) string {
	return prefix + "/system"
}

// Publisher publishes telemetry to the broker.
type Publisher interface {
	// Publish sends one payload to a named channel. It reports whether the
	// broker accepted it. Failures are not retried.
	Publish(channel, payload string) bool

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// FormatReport renders the depth and raw count as decimal strings.
func FormatReport(r logic.Report) (depth, raw string) {
	return strconv.Itoa(int(r.Depth)), strconv.Itoa(int(r.Raw))
}

// SendReport transmits a due report and returns its outcome. The depth
// channel is published first and alone decides the outcome; the raw channel
// is sent best-effort and its result is discarded.
func SendReport(p Publisher, ch Channels, r logic.Report) logic.Outcome {
	if r.Skipped {
		return logic.OutcomeSkipped
	}
	if !r.Connected {
		return logic.OutcomeDisconnected
	}

	depth, raw := FormatReport(r)
	ok := p.Publish(ch.Depth, depth)
	p.Publish(ch.Raw, raw)

	if ok {
		return logic.OutcomeTransmitted
	}
	return logic.OutcomeFailed
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "OFFLINE"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
