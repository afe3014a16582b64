// Package gpio drives the activity LED with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Indicator drives a single status output.
type Indicator interface {
	// Set turns the output on or off.
	Set(on bool) error

	// Close releases GPIO resources.
	Close() error
}

// DefaultPinLED is the BCM pin of the activity LED. A pin below zero disables
// the indicator.
const DefaultPinLED = -1

// Nop is an Indicator that does nothing. It is used when no LED is fitted.
type Nop struct{}

func (Nop) Set(bool) error { return nil }
func (Nop) Close() error   { return nil }
