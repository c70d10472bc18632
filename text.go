package canopy

import (
	"strings"

	"github.com/phanxgames/canopy/flex"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// TextMeasurer reports the intrinsic size of a text run. The layout engine
// hands the result to the solver as the text node's content size.
type TextMeasurer interface {
	Measure(text string) flex.Size
}

// FontMeasurer measures text with a font.Face. Lines are split on '\n'; the
// width is the widest line and the height is one face line height per line.
type FontMeasurer struct {
	Face font.Face
}

// DefaultMeasurer measures with the 7x13 fixed-width basic font.
func DefaultMeasurer() FontMeasurer {
	return FontMeasurer{Face: basicfont.Face7x13}
}

// Measure returns the size of text. Empty text measures zero.
func (m FontMeasurer) Measure(text string) flex.Size {
	if text == "" || m.Face == nil {
		return flex.Size{}
	}
	lineHeight := float64(m.Face.Metrics().Height) / 64
	var width float64
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		w := float64(font.MeasureString(m.Face, line)) / 64
		if w > width {
			width = w
		}
	}
	return flex.Size{Width: width, Height: lineHeight * float64(len(lines))}
}
