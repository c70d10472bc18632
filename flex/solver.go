package flex

import (
	"errors"
	"fmt"

	yoga "github.com/kjk/flex"
)

// ErrInvalidNode is returned when a NodeID does not refer to a live node.
var ErrInvalidNode = errors.New("flex: invalid node")

// ErrCycle is returned when a child list would make a node its own ancestor.
var ErrCycle = errors.New("flex: child would create a cycle")

// NodeID addresses a node in the solver's node space. IDs are never reused;
// the zero value is never valid.
type NodeID uint32

type node struct {
	yn       *yoga.Node
	style    Style
	children []NodeID
	parent   NodeID
	measured bool // yn has a measure func; only childless nodes do
	live     bool
}

// Solver is an arena of layout nodes backed by a Yoga node tree. Not safe
// for concurrent use.
type Solver struct {
	nodes    []node // index 0 is a permanent dead sentinel
	live     int
	lastRoot NodeID
}

// NewSolver creates an empty solver.
func NewSolver() *Solver {
	return &Solver{nodes: make([]node, 1, 64)}
}

// Len returns the number of live nodes.
func (s *Solver) Len() int {
	return s.live
}

func (s *Solver) get(id NodeID) (*node, error) {
	if id == 0 || int(id) >= len(s.nodes) || !s.nodes[id].live {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNode, id)
	}
	return &s.nodes[id], nil
}

// NewNode creates a node with the given style and children. Children that
// already belong to another node are moved.
func (s *Solver) NewNode(style Style, children []NodeID) (NodeID, error) {
	for _, c := range children {
		if _, err := s.get(c); err != nil {
			return 0, err
		}
	}
	s.nodes = append(s.nodes, node{yn: yoga.NewNode(), style: style, live: true})
	id := NodeID(len(s.nodes) - 1)
	s.live++
	s.applyStyle(id)
	s.syncMeasure(id)
	if len(children) > 0 {
		if err := s.SetChildren(id, children); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// SetStyle replaces a node's style.
func (s *Solver) SetStyle(id NodeID, style Style) error {
	n, err := s.get(id)
	if err != nil {
		return err
	}
	contentChanged := n.style.Content != style.Content
	gapChanged := n.style.Gap != style.Gap || n.style.Direction != style.Direction
	n.style = style
	s.applyStyle(id)
	if gapChanged {
		s.applyChildMargins(id)
	}
	if contentChanged && n.measured {
		n.yn.MarkDirty()
	}
	return nil
}

// Style returns a node's style.
func (s *Solver) Style(id NodeID) (Style, error) {
	n, err := s.get(id)
	if err != nil {
		return Style{}, err
	}
	return n.style, nil
}

// SetChildren replaces the complete child list of id. Previous children not
// in the new list are detached; new children are moved out of any other
// parent.
func (s *Solver) SetChildren(id NodeID, children []NodeID) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	for _, c := range children {
		if _, err := s.get(c); err != nil {
			return err
		}
		if s.isAncestor(c, id) {
			return fmt.Errorf("%w: %d under %d", ErrCycle, c, id)
		}
	}

	for _, old := range s.nodes[id].children {
		s.nodes[id].yn.RemoveChild(s.nodes[old].yn)
		s.nodes[old].parent = 0
		s.applyMargin(old, 0)
	}
	s.nodes[id].children = nil

	next := make([]NodeID, 0, len(children))
	moved := make(map[NodeID]struct{})
	for _, c := range children {
		if p := s.nodes[c].parent; p != 0 && p != id {
			s.removeChild(p, c)
			moved[p] = struct{}{}
		}
		s.nodes[c].parent = id
		next = append(next, c)
	}
	s.nodes[id].children = next

	s.syncMeasure(id)
	yn := s.nodes[id].yn
	for i, c := range next {
		yn.InsertChild(s.nodes[c].yn, i)
	}
	s.applyChildMargins(id)
	for p := range moved {
		s.applyChildMargins(p)
	}
	return nil
}

// Children returns a copy of a node's child list.
func (s *Solver) Children(id NodeID) ([]NodeID, error) {
	n, err := s.get(id)
	if err != nil {
		return nil, err
	}
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out, nil
}

// Remove deletes a node. It is detached from its parent and its children
// become parentless; they are not removed.
func (s *Solver) Remove(id NodeID) error {
	n, err := s.get(id)
	if err != nil {
		return err
	}
	if p := n.parent; p != 0 {
		s.removeChild(p, id)
		s.applyChildMargins(p)
	}
	for _, c := range s.nodes[id].children {
		s.nodes[id].yn.RemoveChild(s.nodes[c].yn)
		s.nodes[c].parent = 0
		s.applyMargin(c, 0)
	}
	s.nodes[id] = node{}
	s.live--
	return nil
}

// Layout returns the last computed box of id, relative to its parent.
func (s *Solver) Layout(id NodeID) (Rect, error) {
	n, err := s.get(id)
	if err != nil {
		return Rect{}, err
	}
	return Rect{
		X:      float64(n.yn.LayoutGetLeft()),
		Y:      float64(n.yn.LayoutGetTop()),
		Width:  float64(n.yn.LayoutGetWidth()),
		Height: float64(n.yn.LayoutGetHeight()),
	}, nil
}

// removeChild drops child from parent's list and Yoga node.
func (s *Solver) removeChild(parent, child NodeID) {
	p := &s.nodes[parent]
	for i, c := range p.children {
		if c == child {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			p.yn.RemoveChild(s.nodes[child].yn)
			s.nodes[child].parent = 0
			s.applyMargin(child, 0)
			break
		}
	}
	s.syncMeasure(parent)
}

// isAncestor reports whether candidate is id or one of its ancestors.
func (s *Solver) isAncestor(candidate, id NodeID) bool {
	for p := id; p != 0; p = s.nodes[p].parent {
		if p == candidate {
			return true
		}
	}
	return false
}
