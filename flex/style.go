package flex

import "math"

// MaxContent is the available-space value meaning "unconstrained": nodes take
// their intrinsic (max-content) size on that axis.
var MaxContent = math.Inf(1)

// Unit specifies how a Dimension is interpreted.
type Unit uint8

const (
	UnitAuto    Unit = iota // size determined by content or flex
	UnitPoints              // absolute size in pixels
	UnitPercent             // percentage of the parent's content box
)

// Dimension is a size that can be fixed, a percentage, or auto.
type Dimension struct {
	Amount float64
	Unit   Unit
}

// Auto returns a Dimension computed from content or flex.
func Auto() Dimension {
	return Dimension{Unit: UnitAuto}
}

// Points returns a Dimension of v pixels.
func Points(v float64) Dimension {
	return Dimension{Amount: v, Unit: UnitPoints}
}

// Percent returns a Dimension of p percent (0-100 scale) of the parent's
// content box.
func Percent(p float64) Dimension {
	return Dimension{Amount: p, Unit: UnitPercent}
}

// IsAuto reports whether the dimension is computed from content or flex.
func (d Dimension) IsAuto() bool {
	return d.Unit == UnitAuto
}

// Edges holds values for the four sides of a box.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// EdgeAll creates Edges with the same value on all sides.
func EdgeAll(v float64) Edges {
	return Edges{Top: v, Right: v, Bottom: v, Left: v}
}

// EdgeSymmetric creates Edges with vertical (top/bottom) and horizontal
// (left/right) values.
func EdgeSymmetric(v, h float64) Edges {
	return Edges{Top: v, Right: h, Bottom: v, Left: h}
}

// Direction specifies the main axis for laying out children.
type Direction uint8

const (
	Row    Direction = iota // children laid out left-to-right
	Column                  // children laid out top-to-bottom
)

// Justify specifies how children are distributed along the main axis.
type Justify uint8

const (
	JustifyStart        Justify = iota // pack at start
	JustifyEnd                         // pack at end
	JustifyCenter                      // center children
	JustifySpaceBetween                // even space between, none at edges
	JustifySpaceAround                 // even space around each child
)

// Align specifies how children are positioned on the cross axis.
type Align uint8

const (
	AlignStart   Align = iota // align to start of cross axis
	AlignEnd                  // align to end of cross axis
	AlignCenter               // center on cross axis
	AlignStretch              // stretch to fill cross axis
)

// Style contains all layout properties of a solver node.
type Style struct {
	// Sizing
	Width     Dimension
	Height    Dimension
	MinWidth  Dimension
	MinHeight Dimension
	MaxWidth  Dimension
	MaxHeight Dimension

	// Flex container properties
	Direction      Direction
	JustifyContent Justify
	AlignItems     Align
	Gap            float64 // space between children on the main axis, added to each later child's leading margin

	// Flex item properties
	FlexGrow   float64
	FlexShrink float64
	AlignSelf  *Align // overrides the parent's AlignItems (nil = inherit)

	// Spacing
	Padding Edges
	Margin  Edges

	// Content is the intrinsic content-box size of a leaf (measured text,
	// images). Ignored for nodes with children.
	Content Size
}

// DefaultStyle returns a Style with the usual flexbox defaults.
func DefaultStyle() Style {
	return Style{
		Width:      Auto(),
		Height:     Auto(),
		MinWidth:   Points(0),
		MinHeight:  Points(0),
		MaxWidth:   Auto(),
		MaxHeight:  Auto(),
		Direction:  Row,
		AlignItems: AlignStretch,
		FlexShrink: 1,
	}
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Rect is a node box relative to its parent's border box.
type Rect struct {
	X, Y, Width, Height float64
}
