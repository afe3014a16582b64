package display

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/sweeney/level-sensor/internal/logic"
)

// fakeDrawer is an in-memory panel.
type fakeDrawer struct {
	bounds image.Rectangle
	draws  int
	last   image.Image
}

func (d *fakeDrawer) Bounds() image.Rectangle { return d.bounds }

func (d *fakeDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.draws++
	d.last = src
	return nil
}

func countOn(img image.Image, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.At(x, y) == image1bit.On {
				n++
			}
		}
	}
	return n
}

func TestGlyphsText(t *testing.T) {
	g := DefaultGlyphs()
	assert.Equal(t, "v", g.Text(logic.GlyphSent))
	assert.Equal(t, "x", g.Text(logic.GlyphDisconnected))
	assert.Equal(t, "", g.Text(logic.GlyphNone))
}

func TestRenderWritesTextAndGlyph(t *testing.T) {
	s := NewFakeSink()
	l := DefaultLayout(26)

	require.NoError(t, Render(s, l, logic.Frame{Text: " 1.6 m", Glyph: logic.GlyphSent}))

	frame, err := s.Last()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Clears)
	assert.Equal(t, []Text{
		{X: 0, Y: 10, Text: " 1.6 m"},
		{X: 0, Y: 36, Text: "v"},
	}, frame)
}

func TestRenderWithoutGlyph(t *testing.T) {
	s := NewFakeSink()

	require.NoError(t, Render(s, DefaultLayout(26), logic.Frame{Text: " 0.0cm"}))

	frame, err := s.Last()
	require.NoError(t, err)
	assert.Len(t, frame, 1)
	assert.Equal(t, " 0.0cm", frame[0].Text)
}

func TestRenderRedrawsUnchangedFrame(t *testing.T) {
	s := NewFakeSink()
	f := logic.Frame{Text: "25.0cm", Glyph: logic.GlyphDisconnected}

	for i := 0; i < 3; i++ {
		require.NoError(t, Render(s, DefaultLayout(26), f))
	}

	assert.Equal(t, 3, s.Clears)
	assert.Len(t, s.Frames, 3)
}

func TestRenderReturnsFlushError(t *testing.T) {
	s := NewFakeSink()
	s.FlushError = errors.New("i2c nack")

	assert.Error(t, Render(s, DefaultLayout(26), logic.Frame{Text: "x"}))
}

func TestFakeSinkLastEmpty(t *testing.T) {
	_, err := NewFakeSink().Last()
	assert.Error(t, err)
}

func TestCanvasDrawsScaledText(t *testing.T) {
	d := &fakeDrawer{bounds: image.Rect(0, 0, 128, 64)}
	c := NewCanvas(d, 2)
	assert.Equal(t, 26, c.LineHeight())

	c.Clear()
	c.WriteText(0, 10, "10.00m")
	require.NoError(t, c.Flush())

	assert.Equal(t, 1, d.draws)
	assert.Same(t, c.Image(), d.last)

	// Six 7px glyphs doubled: 84px wide, 26px tall, starting at y=10.
	text := image.Rect(0, 10, 84, 36)
	assert.Greater(t, countOn(c.Image(), text), 50)
	assert.Zero(t, countOn(c.Image(), image.Rect(0, 0, 128, 10)))
	assert.Zero(t, countOn(c.Image(), image.Rect(84, 0, 128, 64)))
	assert.Zero(t, countOn(c.Image(), image.Rect(0, 36, 128, 64)))
}

func TestCanvasClear(t *testing.T) {
	d := &fakeDrawer{bounds: image.Rect(0, 0, 128, 64)}
	c := NewCanvas(d, 1)

	c.WriteText(0, 0, "8888")
	require.Greater(t, countOn(c.Image(), d.bounds), 0)

	c.Clear()
	assert.Zero(t, countOn(c.Image(), d.bounds))
}

func TestCanvasClipsOverflow(t *testing.T) {
	d := &fakeDrawer{bounds: image.Rect(0, 0, 32, 16)}
	c := NewCanvas(d, 3)

	assert.NotPanics(t, func() {
		c.Clear()
		c.WriteText(20, 10, "10.00m")
	})
	require.NoError(t, c.Flush())
}

func TestLogSinkLogsChangesOnly(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSink(slog.New(slog.NewTextHandler(&buf, nil)))
	l := DefaultLayout(26)

	require.NoError(t, Render(s, l, logic.Frame{Text: "25.0cm"}))
	require.NoError(t, Render(s, l, logic.Frame{Text: "25.0cm"}))
	require.NoError(t, Render(s, l, logic.Frame{Text: "25.0cm", Glyph: logic.GlyphSent}))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "msg=display"))
	assert.Contains(t, out, `frame="25.0cm | v"`)
}
