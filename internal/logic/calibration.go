package logic

import "errors"

// Calibration maps raw ADC counts to millimetres.
//
// ZeroOffset is the count read with an empty probe. The scale is expressed as
// an integer ratio so conversion never touches floating point.
type Calibration struct {
	ZeroOffset       int `yaml:"zero_offset"`
	ScaleNumerator   int `yaml:"scale_numerator"`
	ScaleDenominator int `yaml:"scale_denominator"`
}

// Validate rejects calibrations that would divide by zero.
func (c Calibration) Validate() error {
	if c.ScaleDenominator == 0 {
		return errors.New("calibration: scale denominator must not be zero")
	}
	return nil
}

// Convert returns the calibrated depth for a raw count. Results below zero are
// passed through; the formatter decides how to show them.
func (c Calibration) Convert(raw Raw) Depth {
	zeroBased := int64(raw) - int64(c.ZeroOffset)
	return Depth(zeroBased * int64(c.ScaleNumerator) / int64(c.ScaleDenominator))
}
