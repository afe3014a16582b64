package logic

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Variant is one complete parametrisation of the reporting loop.
//
// Exactly one of Interval (clock schedule) or Every (iteration counter) is
// set.
type Variant struct {
	Name        string        `yaml:"name"`
	Calibration Calibration   `yaml:"calibration"`
	Averaging   bool          `yaml:"averaging"`
	Interval    time.Duration `yaml:"interval"`
	Every       int           `yaml:"every"`
	Format      Format        `yaml:"format"`
}

// Preset names.
const (
	VariantAveraging     = "averaging"
	VariantInstantaneous = "instantaneous"
	VariantCounter       = "counter"
)

// The shipped firmware scales by 250/643 (mm per count). The probe sheet
// variants scale by 643/250. Both are kept as presets.
var presets = map[string]Variant{
	VariantAveraging: {
		Name:        VariantAveraging,
		Calibration: Calibration{ZeroOffset: 6425, ScaleNumerator: 250, ScaleDenominator: 643},
		Averaging:   true,
		Interval:    60 * time.Second,
		Format: Format{
			BelowZero:     " 0.0cm",
			AboveMax:      "10.00m",
			Centimetres:   "%2d.%1dcm",
			Metres:        "%2d.%02dm",
			MetreDecimals: 2,
			MaxDepth:      DefaultMaxDepth,
			Width:         8,
		},
	},
	VariantInstantaneous: {
		Name:        VariantInstantaneous,
		Calibration: Calibration{ZeroOffset: 6425, ScaleNumerator: 643, ScaleDenominator: 250},
		Interval:    60 * time.Second,
		Format: Format{
			BelowZero:     "---- cm",
			AboveMax:      "10.0 m",
			Centimetres:   "%2d.%1dcm",
			Metres:        "%2d.%1d m",
			MetreDecimals: 1,
			MaxDepth:      DefaultMaxDepth,
			Width:         8,
		},
	},
	VariantCounter: {
		Name:        VariantCounter,
		Calibration: Calibration{ZeroOffset: 6425, ScaleNumerator: 643, ScaleDenominator: 250},
		Every:       120,
		Format: Format{
			BelowZero:     "---- cm",
			AboveMax:      "10.0 m",
			Centimetres:   "%2d.%1dcm",
			Metres:        "%2d.%1d m",
			MetreDecimals: 1,
			MaxDepth:      DefaultMaxDepth,
			Width:         8,
		},
	},
}

// Preset returns a copy of the named preset.
func Preset(name string) (Variant, error) {
	v, ok := presets[name]
	if !ok {
		return Variant{}, fmt.Errorf("unknown variant %q (have %v)", name, PresetNames())
	}
	return v, nil
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the calibration, the schedule and the display templates.
func (v Variant) Validate() error {
	if err := v.Calibration.Validate(); err != nil {
		return err
	}
	switch {
	case v.Interval > 0 && v.Every > 0:
		return errors.New("variant: set either interval or every, not both")
	case v.Interval <= 0 && v.Every <= 0:
		return errors.New("variant: a positive interval or every is required")
	}
	return v.Format.Validate()
}

// NewTrigger builds the scheduling trigger for this variant.
func (v Variant) NewTrigger(start time.Time) Trigger {
	if v.Every > 0 {
		return NewCountTrigger(v.Every)
	}
	return NewIntervalTrigger(v.Interval, start)
}
