package canopy

import (
	"fmt"

	"github.com/phanxgames/canopy/flex"
)

// Tombstone records the derived resources of a removed node so the layout
// and accessibility passes can release them on the next flush.
type Tombstone struct {
	Handle       Handle
	LayoutHandle flex.NodeID
	AccessID     AccessID
}

type slot struct {
	node *Node
	gen  uint32
}

// Tree is the node arena. It owns node content and child ordering, records
// every mutation in its DirtyQueue, and keeps tombstones of removed nodes
// until the end of the frame.
//
// A Tree is not safe for concurrent use. Exactly one owner (the frame loop)
// mutates it; other goroutines go through [Scene.Post].
type Tree struct {
	slots     []slot // index 0 is never used, so the zero Handle is invalid
	free      []uint32
	live      int
	root      Handle
	dirty     DirtyQueue
	graveyard []Tombstone
}

// NewTree creates a tree whose root is a container with the given style.
func NewTree(rootStyle Style) *Tree {
	t := &Tree{slots: make([]slot, 1, 64)}
	t.root = t.Insert(Container("root", rootStyle))
	return t
}

// Root returns the root handle.
func (t *Tree) Root() Handle {
	return t.root
}

// Len returns the number of live nodes, detached ones included.
func (t *Tree) Len() int {
	return t.live
}

// Dirty returns the tree's dirty queue.
func (t *Tree) Dirty() *DirtyQueue {
	return &t.dirty
}

// Graveyard returns the tombstones of nodes removed since the last EndFrame.
// The returned slice MUST NOT be mutated by the caller.
func (t *Tree) Graveyard() []Tombstone {
	return t.graveyard
}

// EndFrame clears the dirty queue and the graveyard. Call it once the layout
// and accessibility passes have both consumed the cycle.
func (t *Tree) EndFrame() {
	t.dirty.Clear()
	t.graveyard = t.graveyard[:0]
}

// Contains reports whether h refers to a live node.
func (t *Tree) Contains(h Handle) bool {
	_, err := t.node(h)
	return err == nil
}

// Node returns the node for h, or a *LookupError for stale or unknown
// handles. The pointer stays valid while the node is live.
func (t *Tree) Node(h Handle) (*Node, error) {
	return t.node(h)
}

func (t *Tree) node(h Handle) (*Node, error) {
	if h.index == 0 || int(h.index) >= len(t.slots) {
		return nil, &LookupError{Handle: h}
	}
	s := &t.slots[h.index]
	if s.node == nil || s.gen != h.gen {
		return nil, &LookupError{Handle: h}
	}
	return s.node, nil
}

// --- Insertion ---

// Insert allocates a detached node and marks it dirty.
func (t *Tree) Insert(c Content) Handle {
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		idx = uint32(len(t.slots) - 1)
	}
	s := &t.slots[idx]
	h := Handle{index: idx, gen: s.gen}
	s.node = &Node{
		handle:    h,
		kind:      c.Kind,
		name:      c.Name,
		style:     c.Style,
		text:      c.Text,
		textColor: c.TextColor,
	}
	t.live++
	t.dirty.Push(h)
	return h
}

// InsertContainer inserts a detached container.
func (t *Tree) InsertContainer(style Style) Handle {
	return t.Insert(Container("", style))
}

// InsertText inserts a detached text node with the default style.
func (t *Tree) InsertText(text string) Handle {
	return t.Insert(Text("", text))
}

// InsertUnder inserts a node and appends it to parent's children.
func (t *Tree) InsertUnder(parent Handle, c Content) (Handle, error) {
	if _, err := t.node(parent); err != nil {
		return Handle{}, err
	}
	h := t.Insert(c)
	if err := t.AppendChild(parent, h); err != nil {
		return Handle{}, err
	}
	return h, nil
}

// --- Mutators ---

// mutate applies fn to the node and pushes it to the dirty queue. The push
// happens even when fn leaves the content unchanged.
func (t *Tree) mutate(h Handle, fn func(n *Node) error) error {
	n, err := t.node(h)
	if err != nil {
		return err
	}
	if err := fn(n); err != nil {
		return err
	}
	t.dirty.Push(h)
	return nil
}

// MarkDirty queues h for layout and accessibility without changing it.
func (t *Tree) MarkDirty(h Handle) error {
	return t.mutate(h, func(*Node) error { return nil })
}

// SetStyle replaces the node's whole style.
func (t *Tree) SetStyle(h Handle, s Style) error {
	return t.mutate(h, func(n *Node) error {
		n.style = s
		return nil
	})
}

// SetSize sets the node's width and height.
func (t *Tree) SetSize(h Handle, w, hgt flex.Dimension) error {
	return t.mutate(h, func(n *Node) error {
		n.style.Layout.Width = w
		n.style.Layout.Height = hgt
		return nil
	})
}

// SetPadding sets the node's padding.
func (t *Tree) SetPadding(h Handle, e flex.Edges) error {
	return t.mutate(h, func(n *Node) error {
		n.style.Layout.Padding = e
		return nil
	})
}

// SetMargin sets the node's margin.
func (t *Tree) SetMargin(h Handle, e flex.Edges) error {
	return t.mutate(h, func(n *Node) error {
		n.style.Layout.Margin = e
		return nil
	})
}

// SetDirection sets the main axis along which children are laid out.
func (t *Tree) SetDirection(h Handle, d flex.Direction) error {
	return t.mutate(h, func(n *Node) error {
		n.style.Layout.Direction = d
		return nil
	})
}

// SetAlignItems sets cross-axis alignment of the node's children.
func (t *Tree) SetAlignItems(h Handle, a flex.Align) error {
	return t.mutate(h, func(n *Node) error {
		n.style.Layout.AlignItems = a
		return nil
	})
}

// SetJustify sets main-axis distribution of the node's children.
func (t *Tree) SetJustify(h Handle, j flex.Justify) error {
	return t.mutate(h, func(n *Node) error {
		n.style.Layout.JustifyContent = j
		return nil
	})
}

// SetGap sets the main-axis space between children.
func (t *Tree) SetGap(h Handle, gap float64) error {
	return t.mutate(h, func(n *Node) error {
		n.style.Layout.Gap = gap
		return nil
	})
}

// SetFlexGrow sets how much the node grows relative to its siblings.
func (t *Tree) SetFlexGrow(h Handle, grow float64) error {
	return t.mutate(h, func(n *Node) error {
		n.style.Layout.FlexGrow = grow
		return nil
	})
}

// SetBackgroundColor sets the color painted behind a container.
func (t *Tree) SetBackgroundColor(h Handle, c Color) error {
	return t.mutate(h, func(n *Node) error {
		n.style.Background = c
		return nil
	})
}

// SetText replaces the text of a text node.
func (t *Tree) SetText(h Handle, text string) error {
	return t.mutate(h, func(n *Node) error {
		if n.kind != KindText {
			return fmt.Errorf("set text on %s %s: %w", n.kind, h, ErrKind)
		}
		n.text = text
		return nil
	})
}

// SetTextColor sets the color of a text node.
func (t *Tree) SetTextColor(h Handle, c Color) error {
	return t.mutate(h, func(n *Node) error {
		if n.kind != KindText {
			return fmt.Errorf("set text color on %s %s: %w", n.kind, h, ErrKind)
		}
		n.textColor = c
		return nil
	})
}

// SetLabel sets the accessibility label. Text nodes fall back to their text
// when the label is empty.
func (t *Tree) SetLabel(h Handle, label string) error {
	return t.mutate(h, func(n *Node) error {
		n.label = label
		return nil
	})
}

// SetInteractive marks the node as a candidate for selective hit-testing.
func (t *Tree) SetInteractive(h Handle, interactive bool) error {
	return t.mutate(h, func(n *Node) error {
		n.interactive = interactive
		return nil
	})
}

// SetEntityID binds the node to an ECS entity. Interaction events on the
// node are forwarded to the scene's EntityStore with this ID.
func (t *Tree) SetEntityID(h Handle, id uint32) error {
	return t.mutate(h, func(n *Node) error {
		n.entityID = id
		return nil
	})
}

// SetHandler installs fn in the node's slot for ev, replacing any previous
// handler. The node is marked dirty because its accessible actions change.
func (t *Tree) SetHandler(h Handle, ev EventType, fn Handler) error {
	return t.mutate(h, func(n *Node) error {
		if ev >= numEventTypes {
			return fmt.Errorf("set handler for event %d: unknown event type", ev)
		}
		n.handlers[ev] = fn
		return nil
	})
}

// ClearHandler empties the node's slot for ev.
func (t *Tree) ClearHandler(h Handle, ev EventType) error {
	return t.SetHandler(h, ev, nil)
}

// --- Tree manipulation ---

// AppendChild appends child to parent's children. If child already has a
// parent, it is removed from that parent first, so it always ends up in
// exactly one child list. The old parent, the new parent and the child are
// marked dirty.
func (t *Tree) AppendChild(parent, child Handle) error {
	p, c, err := t.attachable(parent, child)
	if err != nil {
		return err
	}
	t.unlink(c)
	p.children = append(p.children, child)
	c.parent = parent
	t.dirty.Push(parent)
	t.dirty.Push(child)
	return nil
}

// InsertChildAt inserts child into parent's children at index. The index is
// interpreted after child has been removed from its previous position.
func (t *Tree) InsertChildAt(parent, child Handle, index int) error {
	p, c, err := t.attachable(parent, child)
	if err != nil {
		return err
	}
	size := len(p.children)
	if c.parent == parent {
		size--
	}
	if index < 0 || index > size {
		return fmt.Errorf("insert %s at %d of %s: %w", child, index, parent, ErrIndex)
	}
	t.unlink(c)
	p.children = append(p.children, Handle{})
	copy(p.children[index+1:], p.children[index:])
	p.children[index] = child
	c.parent = parent
	t.dirty.Push(parent)
	t.dirty.Push(child)
	return nil
}

// Detach removes h from its parent's children. The detached subtree stays
// live and can be attached again. No-op for nodes without a parent.
func (t *Tree) Detach(h Handle) error {
	if h == t.root {
		return fmt.Errorf("detach %s: %w", h, ErrRoot)
	}
	n, err := t.node(h)
	if err != nil {
		return err
	}
	if n.parent.IsZero() {
		return nil
	}
	t.unlink(n)
	t.dirty.Push(h)
	return nil
}

// Remove detaches h and destroys it together with its whole subtree. Every
// destroyed node leaves a Tombstone so its solver node and accessibility ID
// are released on the next flush. Dirty entries already queued for destroyed
// nodes stay in the queue; consumers skip them because the lookup fails.
func (t *Tree) Remove(h Handle) error {
	if h == t.root {
		return fmt.Errorf("remove %s: %w", h, ErrRoot)
	}
	n, err := t.node(h)
	if err != nil {
		return err
	}
	t.unlink(n)

	stack := []Handle{h}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cn, err := t.node(cur)
		if err != nil {
			continue
		}
		stack = append(stack, cn.children...)
		t.graveyard = append(t.graveyard, Tombstone{
			Handle:       cur,
			LayoutHandle: cn.layoutHandle,
			AccessID:     cn.accessID,
		})
		s := &t.slots[cur.index]
		s.node = nil
		s.gen++
		t.free = append(t.free, cur.index)
		t.live--
	}
	return nil
}

// attachable validates a parent/child pair for attachment.
func (t *Tree) attachable(parent, child Handle) (*Node, *Node, error) {
	p, err := t.node(parent)
	if err != nil {
		return nil, nil, err
	}
	c, err := t.node(child)
	if err != nil {
		return nil, nil, err
	}
	if child == t.root {
		return nil, nil, fmt.Errorf("attach %s under %s: %w", child, parent, ErrRoot)
	}
	if t.isAncestor(child, parent) {
		return nil, nil, fmt.Errorf("attach %s under %s: %w", child, parent, ErrCycle)
	}
	return p, c, nil
}

// unlink removes n from its parent's child list, clears the back-reference
// and marks the old parent dirty.
func (t *Tree) unlink(n *Node) {
	if n.parent.IsZero() {
		return
	}
	if p, err := t.node(n.parent); err == nil {
		p.removeChild(n.handle)
		t.dirty.Push(n.parent)
	}
	n.parent = Handle{}
}

// isAncestor reports whether candidate is h or one of h's ancestors.
func (t *Tree) isAncestor(candidate, h Handle) bool {
	for cur := h; !cur.IsZero(); {
		if cur == candidate {
			return true
		}
		n, err := t.node(cur)
		if err != nil {
			return false
		}
		cur = n.parent
	}
	return false
}

// Walk visits h and its descendants in pre-order (painter order). Returning
// false from fn skips the node's children.
func (t *Tree) Walk(h Handle, fn func(n *Node) bool) error {
	if _, err := t.node(h); err != nil {
		return err
	}
	stack := []Handle{h}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, err := t.node(cur)
		if err != nil {
			continue
		}
		if !fn(n) {
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return nil
}
