package display

import (
	"log/slog"
	"strings"
)

// LogSink is a Sink for running without a panel. It logs the frame text
// whenever it differs from the previous frame.
type LogSink struct {
	logger  *slog.Logger
	pending []string
	last    string
}

// NewLogSink creates a LogSink writing to logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (l *LogSink) Clear() {
	l.pending = l.pending[:0]
}

func (l *LogSink) WriteText(_, _ int, text string) {
	l.pending = append(l.pending, text)
}

func (l *LogSink) Flush() error {
	frame := strings.Join(l.pending, " | ")
	if frame != l.last {
		l.logger.Info("display", "frame", frame)
		l.last = frame
	}
	return nil
}
