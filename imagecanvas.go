package canopy

import (
	"image"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// ImageCanvas is a CPU Canvas backed by a gg drawing context. It is used for
// screenshots and headless visual tests.
type ImageCanvas struct {
	dc   *gg.Context
	face font.Face
}

// NewImageCanvas creates a transparent canvas of w x h pixels drawing text
// with the 7x13 basic font.
func NewImageCanvas(w, h int) *ImageCanvas {
	return NewImageCanvasWithFace(w, h, basicfont.Face7x13)
}

// NewImageCanvasWithFace is NewImageCanvas with a custom font face. Use the
// same face for the scene's TextMeasurer so boxes fit the drawn text.
func NewImageCanvasWithFace(w, h int, face font.Face) *ImageCanvas {
	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.SetFontFace(face)
	return &ImageCanvas{dc: dc, face: face}
}

// Clear fills the whole canvas with c.
func (ic *ImageCanvas) Clear(c Color) {
	ic.dc.SetRGBA(c.R, c.G, c.B, c.A)
	ic.dc.Clear()
}

// FillRect fills r with c.
func (ic *ImageCanvas) FillRect(r Rect, c Color) {
	ic.dc.SetRGBA(c.R, c.G, c.B, c.A)
	ic.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	ic.dc.Fill()
}

// DrawText draws text line by line from the top-left of box.
func (ic *ImageCanvas) DrawText(text string, box Rect, c Color) {
	m := ic.face.Metrics()
	ascent := float64(m.Ascent) / 64
	lineHeight := float64(m.Height) / 64
	ic.dc.SetRGBA(c.R, c.G, c.B, c.A)
	for i, line := range strings.Split(text, "\n") {
		ic.dc.DrawString(line, box.X, box.Y+ascent+float64(i)*lineHeight)
	}
}

// Image returns the canvas contents.
func (ic *ImageCanvas) Image() image.Image {
	return ic.dc.Image()
}

// EncodePNG writes the canvas as PNG.
func (ic *ImageCanvas) EncodePNG(w io.Writer) error {
	return ic.dc.EncodePNG(w)
}

// SavePNG writes the canvas to a PNG file.
func (ic *ImageCanvas) SavePNG(path string) error {
	return ic.dc.SavePNG(path)
}

// canvasSize returns the pixel size needed to hold r.
func canvasSize(r Rect) (int, int) {
	return int(math.Ceil(r.X + r.Width)), int(math.Ceil(r.Y + r.Height))
}
