package display

import "errors"

// Text is one WriteText call.
type Text struct {
	X, Y int
	Text string
}

// FakeSink records frames for test assertions.
type FakeSink struct {
	// Frames contains every flushed frame.
	Frames [][]Text

	// Clears counts calls to Clear.
	Clears int

	// FlushError, if set, will be returned by Flush.
	FlushError error

	current []Text
}

// NewFakeSink creates a FakeSink.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

func (f *FakeSink) Clear() {
	f.Clears++
	f.current = nil
}

func (f *FakeSink) WriteText(x, y int, text string) {
	f.current = append(f.current, Text{X: x, Y: y, Text: text})
}

// Flush records the current frame.
func (f *FakeSink) Flush() error {
	if f.FlushError != nil {
		return f.FlushError
	}
	f.Frames = append(f.Frames, f.current)
	return nil
}

// Last returns the most recently flushed frame.
func (f *FakeSink) Last() ([]Text, error) {
	if len(f.Frames) == 0 {
		return nil, errors.New("no frames flushed")
	}
	return f.Frames[len(f.Frames)-1], nil
}
