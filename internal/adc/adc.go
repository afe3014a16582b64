// Package adc provides ADC sampling with hardware abstraction.
// The ADS1115 implementation talks to the converter over I2C, the serial
// implementation reads counts from a USB bridge, and the fake allows testing
// without hardware.
package adc

import "github.com/sweeney/level-sensor/internal/logic"

// Reader reads raw ADC counts.
type Reader interface {
	// Read performs one single-ended conversion and returns the raw count.
	Read() (logic.Raw, error)

	// Close releases the converter.
	Close() error
}

// Defaults for the NCD PR33-8 probe board.
const (
	DefaultI2CAddress = 0x48
	DefaultChannel    = 0
	DefaultBaudRate   = 9600
)
