// Package flex is the box-constraint solver canopy lays out against. It keeps
// its own node space addressed by NodeID and delegates the flexbox algorithm
// to Yoga (github.com/kjk/flex): fixed, percentage and auto sizes, min/max
// clamps, padding, margin, grow/shrink, justify-content and
// align-items/align-self. Gap is applied as extra leading margin on every
// child after the first.
//
// Callers create nodes with a style and a list of child nodes, update them in
// place, then run [Solver.Compute] on a root and read back each node's box
// with [Solver.Layout]:
//
//	s := flex.NewSolver()
//	leaf, _ := s.NewNode(flex.Style{Content: flex.Size{Width: 7, Height: 13}}, nil)
//	root, _ := s.NewNode(flex.DefaultStyle(), []flex.NodeID{leaf})
//	_ = s.Compute(root, flex.Size{Width: flex.MaxContent, Height: flex.MaxContent})
//	box, _ := s.Layout(leaf)
//
// Boxes are relative to the parent's border box. A childless node's Content
// is its measured size; with [MaxContent] available space every auto-sized
// node takes its intrinsic size.
package flex
