package mqtt

// Message is one recorded telemetry publish.
type Message struct {
	Channel string
	Payload string
}

// FakePublisher records published telemetry for test assertions.
type FakePublisher struct {
	// Messages contains every Publish call, accepted or not.
	Messages []Message

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// Reject lists channels whose publishes report failure.
	Reject map[string]bool

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records the message and reports success unless the channel is
// rejected.
func (f *FakePublisher) Publish(channel, payload string) bool {
	f.Messages = append(f.Messages, Message{Channel: channel, Payload: payload})
	return !f.Reject[channel]
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// OnChannel returns the payloads published to channel, in order.
func (f *FakePublisher) OnChannel(channel string) []string {
	var out []string
	for _, m := range f.Messages {
		if m.Channel == channel {
			out = append(out, m.Payload)
		}
	}
	return out
}

// Reset clears recorded messages.
func (f *FakePublisher) Reset() {
	f.Messages = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Reject = nil
	f.Closed = false
	f.PublishSystemError = nil
	f.Connected = false
}
