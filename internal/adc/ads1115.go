package adc

import (
	"errors"
	"fmt"

	"github.com/sweeney/level-sensor/internal/logic"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

// singleEnded maps a channel number to its single-ended ads1x15 channel.
var singleEnded = []ads1x15.Channel{
	ads1x15.Channel0,
	ads1x15.Channel1,
	ads1x15.Channel2,
	ads1x15.Channel3,
}

// ADS1115Config selects the bus and input for an ADS1115.
type ADS1115Config struct {
	Bus     string // i2creg bus name; empty selects the first bus
	Address uint16
	Channel int
}

// ADS1115 reads a TI ADS1115 16-bit converter over I2C.
type ADS1115 struct {
	bus i2c.BusCloser
	dev *ads1x15.Dev
	pin ads1x15.PinADC
}

// NewADS1115 opens the I2C bus and configures a single-ended input at gain
// two (+/-2.048V full scale).
func NewADS1115(cfg ADS1115Config) (*ADS1115, error) {
	if cfg.Channel < 0 || cfg.Channel >= len(singleEnded) {
		return nil, fmt.Errorf("ads1115: channel %d out of range", cfg.Channel)
	}
	if cfg.Address == 0 {
		cfg.Address = DefaultI2CAddress
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}

	opts := ads1x15.DefaultOpts
	opts.I2cAddress = cfg.Address
	dev, err := ads1x15.NewADS1115(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("open ads1115 at %#x: %w", cfg.Address, err)
	}

	pin, err := dev.PinForChannel(singleEnded[cfg.Channel], 2048*physic.MilliVolt, 128*physic.Hertz, ads1x15.BestQuality)
	if err != nil {
		dev.Halt()
		bus.Close()
		return nil, fmt.Errorf("configure channel %d: %w", cfg.Channel, err)
	}

	return &ADS1115{bus: bus, dev: dev, pin: pin}, nil
}

// Read performs one conversion and returns the signed 16-bit count.
func (a *ADS1115) Read() (logic.Raw, error) {
	s, err := a.pin.Read()
	if err != nil {
		return 0, fmt.Errorf("read ads1115: %w", err)
	}
	return logic.Raw(s.Raw), nil
}

// Close halts the converter and releases the bus.
func (a *ADS1115) Close() error {
	var errs []error
	if a.pin != nil {
		if err := a.pin.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt pin: %w", err))
		}
	}
	if a.dev != nil {
		if err := a.dev.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt device: %w", err))
		}
	}
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bus: %w", err))
		}
	}
	return errors.Join(errs...)
}
