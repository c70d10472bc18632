package canopy

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when a canvas converts it.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default text color.
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent is the default container background (nothing painted).
var ColorTransparent = Color{}

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions and offsets.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle. The
// rectangle is half-open: [X, X+Width) x [Y, Y+Height). The left and top
// edges are inside, the right and bottom edges are not.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width &&
		y >= r.Y && y < r.Y+r.Height
}

// Position returns the top-left corner.
func (r Rect) Position() Vec2 {
	return Vec2{r.X, r.Y}
}

// Kind is the closed set of node variants.
type Kind uint8

const (
	KindContainer Kind = iota // styled box that lays out children
	KindText                  // UTF-8 text leaf sized by its measured content
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of interaction event and the handler slot it
// is routed to.
type EventType uint8

const (
	EventPointerDown  EventType = iota // fires when a pointer button is pressed
	EventPointerUp                     // fires when a pointer button is released
	EventPointerMove                   // fires when the pointer moves over a node
	EventClick                         // fires on press then release over the same node
	EventPointerEnter                  // fires when the pointer enters a node's bounds
	EventPointerLeave                  // fires when the pointer leaves a node's bounds

	numEventTypes
)

func (e EventType) String() string {
	switch e {
	case EventPointerDown:
		return "pointer-down"
	case EventPointerUp:
		return "pointer-up"
	case EventPointerMove:
		return "pointer-move"
	case EventClick:
		return "click"
	case EventPointerEnter:
		return "pointer-enter"
	case EventPointerLeave:
		return "pointer-leave"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)
