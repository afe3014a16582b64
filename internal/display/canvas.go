package display

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Drawer is the part of a periph display.Drawer that Canvas needs.
type Drawer interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// Canvas is a Sink that rasterises text into a 1-bit frame buffer and pushes
// the whole buffer to a Drawer on Flush.
type Canvas struct {
	dst   Drawer
	img   *image1bit.VerticalLSB
	face  font.Face
	scale int
}

// NewCanvas creates a canvas the size of dst. Text is drawn with the 7x13
// fixed font magnified scale times.
func NewCanvas(dst Drawer, scale int) *Canvas {
	if scale < 1 {
		scale = 1
	}
	return &Canvas{
		dst:   dst,
		img:   image1bit.NewVerticalLSB(dst.Bounds()),
		face:  basicfont.Face7x13,
		scale: scale,
	}
}

// LineHeight returns the pixel height of one text row.
func (c *Canvas) LineHeight() int {
	return c.face.Metrics().Height.Ceil() * c.scale
}

// Clear blanks the frame buffer.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: image1bit.Off}, image.Point{}, draw.Src)
}

// WriteText draws text with its top-left corner at (x, y). Text running
// past the edge is clipped.
func (c *Canvas) WriteText(x, y int, text string) {
	if text == "" {
		return
	}
	m := c.face.Metrics()
	w := font.MeasureString(c.face, text).Ceil()
	h := m.Height.Ceil()

	glyphs := image.NewGray(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  glyphs,
		Src:  image.White,
		Face: c.face,
		Dot:  fixed.P(0, m.Ascent.Ceil()),
	}
	d.DrawString(text)

	dr := image.Rect(x, y, x+w*c.scale, y+h*c.scale)
	xdraw.NearestNeighbor.Scale(c.img, dr, glyphs, glyphs.Bounds(), xdraw.Src, nil)
}

// Flush sends the frame buffer to the device.
func (c *Canvas) Flush() error {
	return c.dst.Draw(c.dst.Bounds(), c.img, image.Point{})
}

// Image returns the frame buffer.
func (c *Canvas) Image() image.Image {
	return c.img
}
