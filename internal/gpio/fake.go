package gpio

// FakeIndicator is a test double that records output changes.
type FakeIndicator struct {
	// States contains every value passed to Set.
	States []bool

	// On is the current output.
	On bool

	// Closed tracks if Close was called
	Closed bool

	// SetError, if set, will be returned by Set()
	SetError error
}

// NewFakeIndicator creates a FakeIndicator.
func NewFakeIndicator() *FakeIndicator {
	return &FakeIndicator{}
}

// Set records the new output.
func (f *FakeIndicator) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.States = append(f.States, on)
	f.On = on
	return nil
}

// Close marks the indicator as closed and the output off.
func (f *FakeIndicator) Close() error {
	f.On = false
	f.Closed = true
	return nil
}
