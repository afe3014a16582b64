package logic

import "time"

// Monitor is the aggregation and scheduling state machine. It is created once,
// fed one Input per loop iteration, and owned by a single goroutine.
type Monitor struct {
	variant   Variant
	trigger   Trigger
	window    Window
	startTime time.Time
	last      Step
	lastRaw   Raw
	counts    Counts
}

// NewMonitor creates a monitor for the given variant. The startTime anchors
// the first reporting interval.
func NewMonitor(v Variant, startTime time.Time) *Monitor {
	return &Monitor{
		variant:   v,
		trigger:   v.NewTrigger(startTime),
		startTime: startTime,
	}
}

// Process converts one raw sample, adds it to the window and evaluates the
// due-condition. When due the returned Step carries a Report and the window
// is reset whether or not the report is later transmitted.
func (m *Monitor) Process(in Input) Step {
	depth := m.variant.Calibration.Convert(in.Raw)
	m.window.Add(depth)
	m.lastRaw = in.Raw

	step := Step{
		Depth: depth,
		Text:  m.variant.Format.Render(depth),
	}

	if m.trigger.Due(in.Time) {
		step.Report = m.report(in, depth)
	}

	m.last = step
	return step
}

// CheckDue evaluates the due-condition without a new sample. It is used on
// iterations where the ADC read failed, so the schedule keeps its cadence.
func (m *Monitor) CheckDue(now time.Time, connected bool) *Report {
	if !m.trigger.Due(now) {
		return nil
	}
	r := m.report(Input{Raw: m.lastRaw, Time: now, Connected: connected}, m.last.Depth)
	if !m.variant.Averaging {
		// Without a fresh sample there is nothing instantaneous to send.
		r.Skipped = true
		r.Reason = "no-sample"
	}
	return r
}

func (m *Monitor) report(in Input, instantaneous Depth) *Report {
	r := &Report{
		Timestamp: in.Time,
		Raw:       in.Raw,
		Samples:   m.window.Count,
		Connected: in.Connected,
	}

	if m.variant.Averaging {
		if mean, ok := m.window.Mean(); ok {
			r.Depth = mean
		} else {
			r.Skipped = true
			r.Reason = "empty-window"
		}
	} else {
		r.Depth = instantaneous
	}

	m.window.Reset()
	return r
}

// Record stores the outcome of a report attempt.
func (m *Monitor) Record(o Outcome) {
	m.counts.Record(o)
}

// RecordReadError counts an iteration whose ADC read failed.
func (m *Monitor) RecordReadError() {
	m.counts.ReadErrors++
}

// Counts returns a copy of the outcome counters.
func (m *Monitor) Counts() Counts {
	return m.counts
}

// Window returns a copy of the current aggregation window.
func (m *Monitor) Window() Window {
	return m.window
}

// Last returns the most recent Step.
func (m *Monitor) Last() Step {
	return m.last
}

// Variant returns the variant the monitor was built with.
func (m *Monitor) Variant() Variant {
	return m.variant
}

// Uptime returns how long the monitor has been running at now.
func (m *Monitor) Uptime(now time.Time) time.Duration {
	return now.Sub(m.startTime)
}
