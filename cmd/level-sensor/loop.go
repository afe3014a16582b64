package main

import (
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/sweeney/level-sensor/internal/adc"
	"github.com/sweeney/level-sensor/internal/display"
	"github.com/sweeney/level-sensor/internal/gpio"
	"github.com/sweeney/level-sensor/internal/logic"
	"github.com/sweeney/level-sensor/internal/mqtt"
	"github.com/sweeney/level-sensor/internal/status"
)

// loop holds the capabilities the control loop drives. Only runLoop's
// goroutine touches them.
type loop struct {
	reader    adc.Reader
	publisher mqtt.Publisher
	link      mqtt.ConnectionStatus
	sink      display.Sink
	layout    display.Layout
	led       gpio.Indicator
	tracker   *status.Tracker
	channels  mqtt.Channels
	variant   logic.Variant
	cadence   time.Duration
	now       func() time.Time
	after     func(time.Duration) <-chan time.Time
	log       *slog.Logger

	lastRaw logic.Raw // most recent successful read
}

// runLoop runs iterations until a signal arrives. Signals are only observed
// between iterations.
func runLoop(l loop, sig <-chan os.Signal) error {
	monitor := logic.NewMonitor(l.variant, l.now())

	for {
		start := l.now()
		l.iterate(monitor, start)

		wait := l.cadence - l.now().Sub(start)
		if wait < 0 {
			wait = 0
		}

		select {
		case s := <-sig:
			l.shutdown(s)
			return nil
		case <-l.after(wait):
		}
	}
}

func (l *loop) iterate(m *logic.Monitor, t time.Time) {
	connected := l.link.IsConnected()

	var step logic.Step
	raw, err := l.reader.Read()
	if err != nil {
		l.log.Warn("adc read error", "error", err)
		m.RecordReadError()
		step = m.Last()
		step.Report = m.CheckDue(t, connected)
	} else {
		l.lastRaw = raw
		step = m.Process(logic.Input{Raw: raw, Time: t, Connected: connected})
	}

	transmitted := false
	if r := step.Report; r != nil {
		outcome := mqtt.SendReport(l.publisher, l.channels, *r)
		m.Record(outcome)
		l.tracker.SetReport(*r, outcome)
		transmitted = outcome == logic.OutcomeTransmitted

		attrs := []any{
			"depth_mm", r.Depth,
			"raw", r.Raw,
			"samples", r.Samples,
			"connected", r.Connected,
			"transmitted", transmitted,
			"outcome", outcome,
		}
		if r.Reason != "" {
			attrs = append(attrs, "reason", r.Reason)
		}
		l.log.Info("report", attrs...)
	}

	frame := logic.Frame{Text: step.Text, Glyph: logic.StatusGlyph(transmitted, connected)}
	if err := display.Render(l.sink, l.layout, frame); err != nil {
		l.log.Warn("display error", "error", err)
	}
	if err := l.led.Set(frame.Glyph == logic.GlyphSent); err != nil {
		l.log.Warn("led error", "error", err)
	}

	l.tracker.Update(status.Reading{
		Raw:       l.lastRaw,
		Depth:     step.Depth,
		Frame:     frame,
		Window:    m.Window(),
		Counts:    m.Counts(),
		Connected: connected,
	})

	l.log.Debug("iteration",
		"raw", l.lastRaw,
		"depth_mm", step.Depth,
		"display", step.Text,
		"window", m.Window().Count,
		"connected", connected,
	)
}

func (l *loop) shutdown(s os.Signal) {
	name := signalName(s)
	l.log.Info("shutting down", "signal", name)

	if err := l.led.Set(false); err != nil {
		l.log.Warn("led error", "error", err)
	}

	l.tracker.SetMQTTConnected(l.link.IsConnected())
	snap := l.tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  l.now(),
		Event:      "SHUTDOWN",
		Reason:     name,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", name),
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		l.log.Warn("failed to publish shutdown event", "error", err)
	} else {
		l.log.Info("published shutdown event")
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
