// Package status provides a thread-safe status tracker for the level-sensor daemon.
// It is written by the control loop and read by HTTP handlers and system
// event payloads.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/level-sensor/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Variant          string
	ZeroOffset       int
	ScaleNumerator   int
	ScaleDenominator int
	Averaging        bool
	IntervalMs       int64 // 0 when the counter schedule is used
	Every            int   // 0 when the clock schedule is used
	CadenceMs        int64
	Broker           string
	TopicPrefix      string
	HTTPAddr         string
}

// Reading is the outcome of one loop iteration.
type Reading struct {
	Raw       logic.Raw
	Depth     logic.Depth
	Frame     logic.Frame
	Window    logic.Window
	Counts    logic.Counts
	Connected bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Reading
	Sampled       bool // true once the first sample has been taken
	LastReport    *logic.Report
	LastOutcome   logic.Outcome
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update stores the latest iteration. Called from runLoop on every tick.
func (t *Tracker) Update(r Reading) {
	t.mu.Lock()
	t.snap.Reading = r
	t.snap.Sampled = true
	t.snap.MQTTConnected = r.Connected
	t.mu.Unlock()
}

// SetReport stores the most recent report attempt and its outcome.
func (t *Tracker) SetReport(r logic.Report, o logic.Outcome) {
	t.mu.Lock()
	t.snap.LastReport = &r
	t.snap.LastOutcome = o
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	if s.LastReport != nil {
		r := *s.LastReport
		s.LastReport = &r
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
