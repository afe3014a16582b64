// Package logic contains the pure measurement, aggregation and reporting logic
// for the level sensor. This package has NO external dependencies (no ADC,
// display, MQTT, OS, or time.Sleep). Time is always injectable via time.Time
// parameters.
package logic

import "time"

// Raw is a single signed ADC count as read from the converter.
type Raw int16

// Depth is a calibrated liquid depth in millimetres.
type Depth int

// Glyph is the status indicator shown beneath the depth reading.
type Glyph string

const (
	GlyphNone         Glyph = ""
	GlyphSent         Glyph = "SENT"
	GlyphDisconnected Glyph = "DISCONNECTED"
)

// Outcome describes what happened to a report.
type Outcome string

const (
	OutcomeTransmitted  Outcome = "TRANSMITTED"
	OutcomeFailed       Outcome = "FAILED"
	OutcomeDisconnected Outcome = "DISCONNECTED"
	OutcomeSkipped      Outcome = "SKIPPED"
)

// Input represents one iteration's observations.
type Input struct {
	Raw       Raw
	Time      time.Time
	Connected bool // cloud link state sampled at the start of the iteration
}

// Report is produced when the due-condition fires.
type Report struct {
	Timestamp time.Time
	Depth     Depth // window mean, or the instantaneous depth when averaging is off
	Raw       Raw   // raw count of the iteration that fired
	Samples   int   // samples in the window before it was reset
	Connected bool
	Skipped   bool   // true when there was nothing to report
	Reason    string // why the report was skipped
}

// ShouldPublish reports whether the reporter must attempt transmission.
func (r Report) ShouldPublish() bool {
	return r.Connected && !r.Skipped
}

// Step is the result of processing one Input.
type Step struct {
	Depth  Depth   // instantaneous calibrated depth
	Text   string  // formatted depth for the display
	Report *Report // non-nil when a report was due this iteration
}

// Frame is what the display shows for one iteration.
type Frame struct {
	Text  string
	Glyph Glyph
}

// Counts tracks report outcomes since startup.
type Counts struct {
	Reports      int
	Transmitted  int
	Failed       int
	Disconnected int
	Skipped      int
	ReadErrors   int
}

// Record adds an outcome to the counts.
func (c *Counts) Record(o Outcome) {
	c.Reports++
	switch o {
	case OutcomeTransmitted:
		c.Transmitted++
	case OutcomeFailed:
		c.Failed++
	case OutcomeDisconnected:
		c.Disconnected++
	case OutcomeSkipped:
		c.Skipped++
	}
}
