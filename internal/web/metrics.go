package web

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sweeney/level-sensor/internal/logic"
	"github.com/sweeney/level-sensor/internal/status"
)

const namespace = "level_sensor"

// NewRegistry returns a registry whose collectors read the tracker on
// every scrape.
func NewRegistry(tracker *status.Tracker) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	gauge := func(name, help string, f func(status.Snapshot) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return f(tracker.Snapshot()) })
	}

	reg.MustRegister(
		gauge("depth_mm", "Depth of the latest sample in millimetres.", func(s status.Snapshot) float64 {
			return float64(s.Depth)
		}),
		gauge("raw", "Raw ADC count of the latest sample.", func(s status.Snapshot) float64 {
			return float64(s.Raw)
		}),
		gauge("window_samples", "Samples accumulated in the current window.", func(s status.Snapshot) float64 {
			return float64(s.Window.Count)
		}),
		gauge("mqtt_connected", "1 when the broker connection is up.", func(s status.Snapshot) float64 {
			if s.MQTTConnected {
				return 1
			}
			return 0
		}),
		gauge("uptime_seconds", "Seconds since the daemon started.", func(s status.Snapshot) float64 {
			return s.Uptime().Seconds()
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_errors_total",
			Help:      "ADC reads that returned an error.",
		}, func() float64 { return float64(tracker.Snapshot().Counts.ReadErrors) }),
	)

	outcomes := []struct {
		outcome logic.Outcome
		count   func(logic.Counts) int
	}{
		{logic.OutcomeTransmitted, func(c logic.Counts) int { return c.Transmitted }},
		{logic.OutcomeFailed, func(c logic.Counts) int { return c.Failed }},
		{logic.OutcomeDisconnected, func(c logic.Counts) int { return c.Disconnected }},
		{logic.OutcomeSkipped, func(c logic.Counts) int { return c.Skipped }},
	}
	for _, o := range outcomes {
		count := o.count
		reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "reports_total",
			Help:        "Report attempts by outcome.",
			ConstLabels: prometheus.Labels{"outcome": strings.ToLower(string(o.outcome))},
		}, func() float64 { return float64(count(tracker.Snapshot().Counts)) }))
	}

	return reg
}
