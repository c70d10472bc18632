package canopy

import (
	"image/color"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"right edge", 110, 20, false},
		{"bottom edge", 50, 70, false},
		{"bottom-right corner", 110, 70, false},
		{"just inside right edge", 109.999, 20, true},
		{"outside left", 5, 40, false},
		{"outside top", 50, 15, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Rect.Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRectContainsEmpty(t *testing.T) {
	r := Rect{X: 5, Y: 5}
	if r.Contains(5, 5) {
		t.Error("zero-size rect should contain nothing")
	}
}

func TestColorRGBA(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want color.RGBA
	}{
		{"white", ColorWhite, color.RGBA{255, 255, 255, 255}},
		{"transparent", ColorTransparent, color.RGBA{}},
		{"half alpha premultiplied", Color{1, 0, 0, 0.5}, color.RGBA{127, 0, 0, 127}},
		{"clamped", Color{2, -1, 0, 1}, color.RGBA{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.RGBA(); got != tt.want {
				t.Errorf("RGBA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnumStrings(t *testing.T) {
	if KindText.String() != "text" || KindContainer.String() != "container" {
		t.Errorf("Kind strings = %q, %q", KindContainer, KindText)
	}
	if EventClick.String() != "click" || EventPointerLeave.String() != "pointer-leave" {
		t.Errorf("EventType strings = %q, %q", EventClick, EventPointerLeave)
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("Kind(99) = %q", Kind(99))
	}
}

func TestHandleString(t *testing.T) {
	if got := (Handle{}).String(); got != "#nil" {
		t.Errorf("zero handle = %q", got)
	}
	if got := (Handle{index: 3, gen: 2}).String(); got != "#3.2" {
		t.Errorf("handle = %q, want #3.2", got)
	}
}
