package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Ready         bool         `json:"ready"`
	Reading       *ReadingJSON `json:"reading,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"report_counts"`
	LastReport    *ReportJSON  `json:"last_report,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the JSON representation of the latest iteration.
type ReadingJSON struct {
	Raw           int    `json:"raw"`
	DepthMM       int    `json:"depth_mm"`
	Display       string `json:"display"`
	Glyph         string `json:"glyph,omitempty"`
	WindowSamples int    `json:"window_samples"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of report counts.
type CountsJSON struct {
	Reports      int `json:"reports"`
	Transmitted  int `json:"transmitted"`
	Failed       int `json:"failed"`
	Disconnected int `json:"disconnected"`
	Skipped      int `json:"skipped"`
	ReadErrors   int `json:"read_errors"`
}

// ReportJSON is the JSON representation of the last report attempt.
type ReportJSON struct {
	Timestamp string `json:"timestamp"`
	DepthMM   int    `json:"depth_mm"`
	Raw       int    `json:"raw"`
	Samples   int    `json:"samples"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason,omitempty"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Variant          string `json:"variant"`
	ZeroOffset       int    `json:"zero_offset"`
	ScaleNumerator   int    `json:"scale_numerator"`
	ScaleDenominator int    `json:"scale_denominator"`
	Averaging        bool   `json:"averaging"`
	IntervalMs       int64  `json:"interval_ms,omitempty"`
	Every            int    `json:"every,omitempty"`
	CadenceMs        int64  `json:"cadence_ms"`
	Broker           string `json:"broker"`
	TopicPrefix      string `json:"topic_prefix"`
	HTTPAddr         string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	c := snap.Counts
	inner := StatusInner{
		Ready:         snap.Sampled,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Reports:      c.Reports,
			Transmitted:  c.Transmitted,
			Failed:       c.Failed,
			Disconnected: c.Disconnected,
			Skipped:      c.Skipped,
			ReadErrors:   c.ReadErrors,
		},
		Config: ConfigJSON{
			Variant:          snap.Config.Variant,
			ZeroOffset:       snap.Config.ZeroOffset,
			ScaleNumerator:   snap.Config.ScaleNumerator,
			ScaleDenominator: snap.Config.ScaleDenominator,
			Averaging:        snap.Config.Averaging,
			IntervalMs:       snap.Config.IntervalMs,
			Every:            snap.Config.Every,
			CadenceMs:        snap.Config.CadenceMs,
			Broker:           snap.Config.Broker,
			TopicPrefix:      snap.Config.TopicPrefix,
			HTTPAddr:         snap.Config.HTTPAddr,
		},
	}

	if snap.Sampled {
		inner.Reading = &ReadingJSON{
			Raw:           int(snap.Raw),
			DepthMM:       int(snap.Depth),
			Display:       snap.Frame.Text,
			Glyph:         string(snap.Frame.Glyph),
			WindowSamples: snap.Window.Count,
		}
	}

	if r := snap.LastReport; r != nil {
		inner.LastReport = &ReportJSON{
			Timestamp: r.Timestamp.UTC().Format(time.RFC3339),
			DepthMM:   int(r.Depth),
			Raw:       int(r.Raw),
			Samples:   r.Samples,
			Outcome:   string(snap.LastOutcome),
			Reason:    r.Reason,
		}
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
