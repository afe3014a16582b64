package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/level-sensor/internal/logic"
)

func TestTopics(t *testing.T) {
	if got := Topic(DefaultTopicPrefix, ChannelDepth); got != "level/sensor/depth_mm" {
		t.Errorf("depth topic: got %s", got)
	}
	if got := Topic(DefaultTopicPrefix, ChannelRaw); got != "level/sensor/raw_16bit" {
		t.Errorf("raw topic: got %s", got)
	}
	if got := SystemTopic(DefaultTopicPrefix); got != "level/sensor/system" {
		t.Errorf("system topic: got %s", got)
	}
}

func TestFormatReport(t *testing.T) {
	tests := []struct {
		report    logic.Report
		wantDepth string
		wantRaw   string
	}{
		{logic.Report{Depth: 1653, Raw: 7068}, "1653", "7068"},
		{logic.Report{Depth: 0, Raw: 6425}, "0", "6425"},
		{logic.Report{Depth: -2, Raw: -32768}, "-2", "-32768"},
	}

	for _, tt := range tests {
		depth, raw := FormatReport(tt.report)
		if depth != tt.wantDepth || raw != tt.wantRaw {
			t.Errorf("FormatReport(%+v) = (%q, %q), want (%q, %q)", tt.report, depth, raw, tt.wantDepth, tt.wantRaw)
		}
	}
}

func TestSendReportTransmitted(t *testing.T) {
	f := NewFakePublisher()
	r := logic.Report{Depth: 250, Raw: 7068, Samples: 120, Connected: true}

	if got := SendReport(f, DefaultChannels(), r); got != logic.OutcomeTransmitted {
		t.Errorf("outcome: got %s, want TRANSMITTED", got)
	}

	want := []Message{{ChannelDepth, "250"}, {ChannelRaw, "7068"}}
	if len(f.Messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(f.Messages))
	}
	for i := range want {
		if f.Messages[i] != want[i] {
			t.Errorf("message %d: got %+v, want %+v", i, f.Messages[i], want[i])
		}
	}
}

func TestSendReportDepthFailure(t *testing.T) {
	f := NewFakePublisher()
	f.Reject = map[string]bool{ChannelDepth: true}
	r := logic.Report{Depth: 250, Raw: 7068, Connected: true}

	if got := SendReport(f, DefaultChannels(), r); got != logic.OutcomeFailed {
		t.Errorf("outcome: got %s, want FAILED", got)
	}
	// The raw channel is still attempted.
	if len(f.OnChannel(ChannelRaw)) != 1 {
		t.Error("raw channel should still be published")
	}
}

func TestSendReportIgnoresRawFailure(t *testing.T) {
	f := NewFakePublisher()
	f.Reject = map[string]bool{ChannelRaw: true}
	r := logic.Report{Depth: 250, Raw: 7068, Connected: true}

	if got := SendReport(f, DefaultChannels(), r); got != logic.OutcomeTransmitted {
		t.Errorf("outcome: got %s, want TRANSMITTED", got)
	}
}

func TestSendReportDisconnected(t *testing.T) {
	f := NewFakePublisher()
	r := logic.Report{Depth: 250, Raw: 7068, Connected: false}

	if got := SendReport(f, DefaultChannels(), r); got != logic.OutcomeDisconnected {
		t.Errorf("outcome: got %s, want DISCONNECTED", got)
	}
	if len(f.Messages) != 0 {
		t.Errorf("expected no publish while disconnected, got %d", len(f.Messages))
	}
}

func TestSendReportSkipped(t *testing.T) {
	f := NewFakePublisher()
	r := logic.Report{Connected: true, Skipped: true, Reason: "empty-window"}

	if got := SendReport(f, DefaultChannels(), r); got != logic.OutcomeSkipped {
		t.Errorf("outcome: got %s, want SKIPPED", got)
	}
	if len(f.Messages) != 0 {
		t.Errorf("expected no publish for skipped report, got %d", len(f.Messages))
	}
}

func TestSendReportCustomChannels(t *testing.T) {
	f := NewFakePublisher()
	ch := Channels{Depth: "depth", Raw: "raw"}

	SendReport(f, ch, logic.Report{Depth: 1, Raw: 2, Connected: true})
	if got := f.OnChannel("depth"); len(got) != 1 || got[0] != "1" {
		t.Errorf("depth channel: got %v", got)
	}
	if got := f.OnChannel("raw"); len(got) != 1 || got[0] != "2" {
		t.Errorf("raw channel: got %v", got)
	}
}

func TestFakePublisherSystemError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishSystemError = errors.New("simulated error")

	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err == nil {
		t.Error("expected error")
	}
	if len(f.SystemEvents) != 0 {
		t.Error("failed system event should not be recorded")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Connected = true
	f.Publish(ChannelDepth, "1")
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Close()

	f.Reset()

	if len(f.Messages) != 0 || len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("expected recorded data cleared")
	}
	if f.Closed || f.Connected {
		t.Error("expected flags cleared")
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "OFFLINE",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := raw["system"]["reason"]; ok {
		t.Error("reason should be omitted when empty")
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", payload)
	}
}
