package logic

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxDepth is the largest depth shown as a number (10 m).
const DefaultMaxDepth Depth = 10000

// Format holds the templates used to render a depth on the display.
//
// Centimetres receives (v/10, v%10). Metres receives (v/1000, frac) where
// frac has MetreDecimals digits.
type Format struct {
	BelowZero     string `yaml:"below_zero"`
	AboveMax      string `yaml:"above_max"`
	Centimetres   string `yaml:"centimetres"`
	Metres        string `yaml:"metres"`
	MetreDecimals int    `yaml:"metre_decimals"`
	MaxDepth      Depth  `yaml:"max_depth"`
	Width         int    `yaml:"width"` // display field width in characters
}

// Render formats v for the display.
func (f Format) Render(v Depth) string {
	switch {
	case v < 0:
		return f.BelowZero
	case v > f.MaxDepth:
		return f.AboveMax
	case v < 1000:
		return fmt.Sprintf(f.Centimetres, v/10, v%10)
	default:
		return fmt.Sprintf(f.Metres, v/1000, f.metreFraction(v))
	}
}

func (f Format) metreFraction(v Depth) Depth {
	if f.MetreDecimals == 1 {
		return (v / 100) % 10
	}
	return (v / 10) % 100
}

// Validate checks that every branch fits the field width. The numeric
// branches are checked at their widest values.
func (f Format) Validate() error {
	if f.MetreDecimals != 1 && f.MetreDecimals != 2 {
		return fmt.Errorf("format: metre decimals must be 1 or 2, got %d", f.MetreDecimals)
	}
	if f.MaxDepth < 1000 {
		return fmt.Errorf("format: max depth %d is below one metre", f.MaxDepth)
	}
	if f.Width <= 0 {
		return errors.New("format: width must be positive")
	}
	if !strings.Contains(f.Centimetres, "%") || !strings.Contains(f.Metres, "%") {
		return errors.New("format: centimetre and metre templates need verbs")
	}

	widest := []Depth{-1, 0, 999, 1000, f.MaxDepth, f.MaxDepth + 1}
	for _, v := range widest {
		s := f.Render(v)
		if strings.Contains(s, "%!") {
			return fmt.Errorf("format: template for %d is malformed: %q", v, s)
		}
		if len(s) > f.Width {
			return fmt.Errorf("format: %q for %d exceeds width %d", s, v, f.Width)
		}
	}
	return nil
}

// StatusGlyph derives the glyph for one iteration. A successful transmission
// this iteration wins over connectivity; nothing is carried over from earlier
// iterations.
func StatusGlyph(transmitted, connected bool) Glyph {
	switch {
	case transmitted:
		return GlyphSent
	case !connected:
		return GlyphDisconnected
	default:
		return GlyphNone
	}
}
