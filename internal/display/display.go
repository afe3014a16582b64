// Package display renders the depth reading and status glyph on the local
// OLED, with hardware abstraction for testing.
package display

import (
	"image"

	"github.com/sweeney/level-sensor/internal/logic"
)

// Sink is a text-oriented display surface. Coordinates are pixels from the
// top-left corner to the top-left of the text.
type Sink interface {
	Clear()
	WriteText(x, y int, text string)
	Flush() error
}

// Glyphs holds the text drawn for each status glyph.
type Glyphs struct {
	Sent         string `yaml:"sent"`
	Disconnected string `yaml:"disconnected"`
}

// DefaultGlyphs returns the glyphs used by the shipped firmware.
func DefaultGlyphs() Glyphs {
	return Glyphs{Sent: "v", Disconnected: "x"}
}

// Text returns the text for g, or "" for GlyphNone.
func (g Glyphs) Text(glyph logic.Glyph) string {
	switch glyph {
	case logic.GlyphSent:
		return g.Sent
	case logic.GlyphDisconnected:
		return g.Disconnected
	default:
		return ""
	}
}

// Layout positions the depth text and the glyph.
type Layout struct {
	Text   image.Point
	Glyph  image.Point
	Glyphs Glyphs
}

// DefaultLayout puts the depth on the first text row and the glyph on the
// row below it, for text rows lineHeight pixels tall.
func DefaultLayout(lineHeight int) Layout {
	return Layout{
		Text:   image.Pt(0, 10),
		Glyph:  image.Pt(0, 10+lineHeight),
		Glyphs: DefaultGlyphs(),
	}
}

// Render clears the sink, draws the frame and flushes it. It always redraws
// the whole frame, even when nothing changed.
func Render(s Sink, l Layout, f logic.Frame) error {
	s.Clear()
	s.WriteText(l.Text.X, l.Text.Y, f.Text)
	if g := l.Glyphs.Text(f.Glyph); g != "" {
		s.WriteText(l.Glyph.X, l.Glyph.Y, g)
	}
	return s.Flush()
}

// Nop is a Sink that draws nothing. It is used when no display is fitted.
type Nop struct{}

func (Nop) Clear()                     {}
func (Nop) WriteText(int, int, string) {}
func (Nop) Flush() error               { return nil }
