package display

import (
	"errors"
	"fmt"
	"image"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// SSD1306 is a monochrome OLED on I2C.
type SSD1306 struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
}

// NewSSD1306 opens the named I2C bus (empty for the first one) and
// initialises a width x height panel.
func NewSSD1306(bus string, width, height int) (*SSD1306, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", bus, err)
	}

	opts := ssd1306.DefaultOpts
	if width > 0 {
		opts.W = width
	}
	if height > 0 {
		opts.H = height
	}
	dev, err := ssd1306.NewI2C(b, &opts)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("open ssd1306: %w", err)
	}

	return &SSD1306{bus: b, dev: dev}, nil
}

// Bounds returns the panel size.
func (s *SSD1306) Bounds() image.Rectangle {
	return s.dev.Bounds()
}

// Draw pushes src to the panel.
func (s *SSD1306) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	return s.dev.Draw(r, src, sp)
}

// Close blanks the panel and releases the bus.
func (s *SSD1306) Close() error {
	var errs []error
	if err := s.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt ssd1306: %w", err))
	}
	if err := s.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close bus: %w", err))
	}
	return errors.Join(errs...)
}
