package canopy

import "github.com/phanxgames/canopy/flex"

// Style is the content of a node that drives layout and painting. Layout is
// handed to the solver verbatim (text nodes get their measured size filled
// into Layout.Content); Background is painted behind containers.
type Style struct {
	Layout     flex.Style
	Background Color
}

// DefaultStyle returns the style new nodes start with: auto size, children
// stacked in a column and packed at the start of the cross axis, so a child
// keeps its intrinsic size unless told to stretch.
func DefaultStyle() Style {
	ls := flex.DefaultStyle()
	ls.Direction = flex.Column
	ls.AlignItems = flex.AlignStart
	return Style{Layout: ls}
}

// Content describes a node to insert.
type Content struct {
	Kind      Kind
	Name      string
	Style     Style
	Text      string
	TextColor Color
}

// Container returns Content for a container node with the given style.
func Container(name string, style Style) Content {
	return Content{Kind: KindContainer, Name: name, Style: style}
}

// Text returns Content for a text node with the default style.
func Text(name, text string) Content {
	return Content{Kind: KindText, Name: name, Style: DefaultStyle(), Text: text, TextColor: ColorWhite}
}

// AccessID is a stable accessibility identifier. Zero is reserved for
// "no ID".
type AccessID uint64

// Node is a single scene-graph element. A single flat struct is used for all
// kinds; behavior is selected by switching on Kind. Nodes are read through
// [Tree.Node] and written only through Tree mutators so that every write is
// recorded in the dirty queue.
type Node struct {
	// Identity
	handle Handle
	kind   Kind
	name   string

	// Content
	style       Style
	text        string
	textColor   Color
	label       string
	interactive bool
	entityID    uint32

	// Hierarchy. parent is a non-owning back-reference; ownership follows the
	// children list only.
	parent   Handle
	children []Handle

	// Derived state, written by the layout and accessibility passes
	layoutHandle flex.NodeID
	absoluteBox  Rect
	accessID     AccessID

	// Per-event handler slots (nil by default)
	handlers [numEventTypes]Handler
}

// Handle returns the node's own handle.
func (n *Node) Handle() Handle { return n.handle }

// Kind returns the node's variant.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the debug name given at insertion.
func (n *Node) Name() string { return n.name }

// Style returns the node's style.
func (n *Node) Style() Style { return n.style }

// Text returns the text of a text node ("" for containers).
func (n *Node) Text() string { return n.text }

// TextColor returns the text color of a text node.
func (n *Node) TextColor() Color { return n.textColor }

// Label returns the explicit accessibility label.
func (n *Node) Label() string { return n.label }

// Interactive reports whether the node takes part in selective hit-testing.
// Nodes with any handler are interactive too.
func (n *Node) Interactive() bool {
	return n.interactive || n.hasHandlers()
}

// EntityID returns the ECS entity the node is bound to (0 = none).
func (n *Node) EntityID() uint32 { return n.entityID }

// Parent returns the parent handle and false for the root and detached nodes.
func (n *Node) Parent() (Handle, bool) {
	return n.parent, !n.parent.IsZero()
}

// Children returns the ordered child list (render/z-order). The returned
// slice MUST NOT be mutated by the caller.
func (n *Node) Children() []Handle {
	return n.children
}

// LayoutHandle returns the node's solver handle and whether it has one.
func (n *Node) LayoutHandle() (flex.NodeID, bool) {
	return n.layoutHandle, n.layoutHandle != 0
}

// AbsoluteBox returns the screen-space box computed by the last layout pass.
// It is stale after a mutation until the next layout pass.
func (n *Node) AbsoluteBox() Rect {
	return n.absoluteBox
}

// AccessID returns the node's accessibility ID and whether one is assigned.
func (n *Node) AccessID() (AccessID, bool) {
	return n.accessID, n.accessID != 0
}

// HasHandler reports whether the slot for ev is occupied. A slot is empty
// while its handler is running.
func (n *Node) HasHandler(ev EventType) bool {
	return ev < numEventTypes && n.handlers[ev] != nil
}

func (n *Node) hasHandlers() bool {
	for _, h := range n.handlers {
		if h != nil {
			return true
		}
	}
	return false
}

// removeChild removes child from n.children without touching child.parent.
func (n *Node) removeChild(child Handle) bool {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = Handle{}
			n.children = n.children[:len(n.children)-1]
			return true
		}
	}
	return false
}
