package ebitenui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/phanxgames/canopy"
)

// --- White pixel singleton (no sync.Once; drawing happens on the game goroutine) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used to
// fill rectangles.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// Canvas paints canopy nodes into an ebiten image.
type Canvas struct {
	Target *ebiten.Image

	face       text.Face
	lineHeight float64
	imgOp      ebiten.DrawImageOptions
	textOp     text.DrawOptions
}

// NewCanvas creates a canvas drawing into target with the 7x13 basic font,
// matching canopy.DefaultMeasurer.
func NewCanvas(target *ebiten.Image) *Canvas {
	face := basicfont.Face7x13
	return &Canvas{
		Target:     target,
		face:       text.NewGoXFace(face),
		lineHeight: float64(face.Metrics().Height) / 64,
	}
}

// FillRect scales the white pixel over r and tints it with c.
func (c *Canvas) FillRect(r canopy.Rect, col canopy.Color) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	op := &c.imgOp
	op.GeoM.Reset()
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.ColorScale.Reset()
	a := float32(col.A)
	op.ColorScale.Scale(float32(col.R)*a, float32(col.G)*a, float32(col.B)*a, a)
	c.Target.DrawImage(ensureWhitePixel(), op)
}

// DrawText draws s with its top-left corner at the top-left of box.
func (c *Canvas) DrawText(s string, box canopy.Rect, col canopy.Color) {
	op := &c.textOp
	op.GeoM.Reset()
	op.GeoM.Translate(box.X, box.Y)
	op.ColorScale.Reset()
	op.ColorScale.ScaleWithColor(col.RGBA())
	op.LineSpacing = c.lineHeight
	text.Draw(c.Target, s, c.face, op)
}
