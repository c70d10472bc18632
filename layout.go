package canopy

import (
	"errors"

	"go.uber.org/zap"

	"github.com/phanxgames/canopy/flex"
)

// Solver is the box-constraint layout capability the engine drives. Boxes
// returned by Layout are relative to the parent's border box.
// [flex.Solver] implements it.
type Solver interface {
	NewNode(style flex.Style, children []flex.NodeID) (flex.NodeID, error)
	SetStyle(id flex.NodeID, style flex.Style) error
	SetChildren(id flex.NodeID, children []flex.NodeID) error
	Remove(id flex.NodeID) error
	Compute(root flex.NodeID, available flex.Size) error
	Layout(id flex.NodeID) (flex.Rect, error)
}

// LayoutEngine reconciles dirty nodes against a Solver and converts the
// solver's parent-relative boxes into absolute screen boxes.
//
// The mapping from nodes to solver nodes lives on the nodes themselves
// (Node.LayoutHandle); a solver node is created the first time a layout pass
// touches a node and released when the node is removed.
type LayoutEngine struct {
	solver   Solver
	measurer TextMeasurer
	logger   *zap.Logger

	// clean is true after a pass on lastRoot that succeeded; a following
	// pass on the same root with nothing dirty and nothing removed is skipped.
	clean    bool
	lastRoot Handle

	// reused traversal buffers
	kids    []flex.NodeID
	stack   []layoutVisit
	offsets []Vec2
}

type layoutVisit struct {
	h    Handle
	exit bool
}

// NewLayoutEngine creates an engine. A nil measurer uses DefaultMeasurer and
// a nil logger discards output.
func NewLayoutEngine(solver Solver, measurer TextMeasurer, logger *zap.Logger) *LayoutEngine {
	if measurer == nil {
		measurer = DefaultMeasurer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LayoutEngine{solver: solver, measurer: measurer, logger: logger}
}

// Solver returns the engine's solver.
func (e *LayoutEngine) Solver() Solver {
	return e.solver
}

// Layout runs one layout pass for the tree rooted at root:
//
//  1. release solver nodes of removed nodes;
//  2. for each dirty node, in first-occurrence queue order, create or update
//     its solver node with its current style and the solver handles of those
//     children that already have one;
//  3. compute the solver with max-content available space on both axes;
//  4. walk the tree from root accumulating parent offsets into absolute boxes.
//
// A child that has no solver handle when its parent is processed is skipped
// for that parent. When the child is built later in the same pass, the
// parent's child list is synced again before computing, so insertion order in
// the queue does not matter.
//
// Solver failures do not abort the pass. The failing subtree loses its solver
// handles and is queued for a rebuild on the next cycle; every failure is
// returned, joined, as *SolverError values.
func (e *LayoutEngine) Layout(t *Tree, root Handle) error {
	rn, err := t.node(root)
	if err != nil {
		return err
	}
	removed := e.releaseRemoved(t)
	dirty := t.dirty.Unique()
	if e.clean && root == e.lastRoot && len(dirty) == 0 && !removed && rn.layoutHandle != 0 {
		return nil
	}

	var errs []error
	fail := func(h Handle, op string, err error) {
		errs = append(errs, &SolverError{Handle: h, Op: op, Err: err})
		e.logger.Warn("layout failed; subtree will be rebuilt",
			zap.Stringer("node", h), zap.String("op", op), zap.Error(err))
		e.invalidate(t, h)
	}

	// Reconcile
	var created []Handle
	for _, h := range dirty {
		n, err := t.node(h)
		if err != nil {
			continue // removed after being queued
		}
		wasNew := n.layoutHandle == 0
		if err := e.build(t, n); err != nil {
			fail(h, "build", err)
			continue
		}
		if wasNew {
			created = append(created, h)
		}
	}

	// Attach nodes built after their parent was processed.
	synced := make(map[Handle]struct{})
	for _, h := range created {
		n, err := t.node(h)
		if err != nil || n.parent.IsZero() {
			continue
		}
		if _, ok := synced[n.parent]; ok {
			continue
		}
		p, err := t.node(n.parent)
		if err != nil || p.layoutHandle == 0 {
			continue
		}
		synced[n.parent] = struct{}{}
		if err := e.solver.SetChildren(p.layoutHandle, e.builtChildren(t, p)); err != nil {
			fail(n.parent, "sync children", err)
		}
	}

	// Compute
	if rn.layoutHandle == 0 {
		errs = append(errs, &SolverError{Handle: root, Op: "compute", Err: errors.New("root has no solver node")})
		e.clean = false
		return errors.Join(errs...)
	}
	available := flex.Size{Width: flex.MaxContent, Height: flex.MaxContent}
	if err := e.solver.Compute(rn.layoutHandle, available); err != nil {
		fail(root, "compute", err)
		e.clean = false
		return errors.Join(errs...)
	}

	// Absolute boxes
	errs = append(errs, e.absolute(t, root)...)
	e.lastRoot = root

	e.clean = len(errs) == 0
	return errors.Join(errs...)
}

// build creates or updates the solver node of n.
func (e *LayoutEngine) build(t *Tree, n *Node) error {
	style := e.solverStyle(n)
	kids := e.builtChildren(t, n)
	if n.layoutHandle == 0 {
		id, err := e.solver.NewNode(style, kids)
		if err != nil {
			return err
		}
		n.layoutHandle = id
		return nil
	}
	if err := e.solver.SetStyle(n.layoutHandle, style); err != nil {
		return err
	}
	// The full list replaces the previous association, dropping children
	// detached since the last build.
	return e.solver.SetChildren(n.layoutHandle, kids)
}

// builtChildren returns the solver handles of n's children that have one.
// The result aliases an engine buffer and is only valid until the next call.
func (e *LayoutEngine) builtChildren(t *Tree, n *Node) []flex.NodeID {
	e.kids = e.kids[:0]
	for _, c := range n.children {
		cn, err := t.node(c)
		if err != nil || cn.layoutHandle == 0 {
			continue
		}
		e.kids = append(e.kids, cn.layoutHandle)
	}
	return e.kids
}

// solverStyle converts the node's content into a solver style.
func (e *LayoutEngine) solverStyle(n *Node) flex.Style {
	st := n.style.Layout
	switch n.kind {
	case KindText:
		st.Content = e.measurer.Measure(n.text)
	case KindContainer:
		st.Content = flex.Size{}
	}
	return st
}

// absolute walks the tree from root in pre-order with an explicit stack,
// storing each node's absolute box as its solver box offset by the nearest
// ancestor's absolute position. A node whose box moved is pushed to the dirty
// queue so the accessibility pass reports its new bounds. Nodes without a
// solver node keep their stale box and their subtree is skipped.
func (e *LayoutEngine) absolute(t *Tree, root Handle) []error {
	var errs []error
	e.stack = append(e.stack[:0], layoutVisit{h: root})
	e.offsets = e.offsets[:0]
	for len(e.stack) > 0 {
		v := e.stack[len(e.stack)-1]
		e.stack = e.stack[:len(e.stack)-1]
		if v.exit {
			e.offsets = e.offsets[:len(e.offsets)-1]
			continue
		}
		n, err := t.node(v.h)
		if err != nil || n.layoutHandle == 0 {
			continue
		}
		rel, err := e.solver.Layout(n.layoutHandle)
		if err != nil {
			errs = append(errs, &SolverError{Handle: v.h, Op: "read layout", Err: err})
			e.logger.Warn("layout read failed; subtree will be rebuilt",
				zap.Stringer("node", v.h), zap.Error(err))
			e.invalidate(t, v.h)
			continue
		}
		var origin Vec2
		if k := len(e.offsets); k > 0 {
			origin = e.offsets[k-1]
		}
		box := Rect{
			X:      origin.X + rel.X,
			Y:      origin.Y + rel.Y,
			Width:  rel.Width,
			Height: rel.Height,
		}
		if box != n.absoluteBox {
			n.absoluteBox = box
			t.dirty.Push(v.h)
		}
		e.offsets = append(e.offsets, n.absoluteBox.Position())
		e.stack = append(e.stack, layoutVisit{h: v.h, exit: true})
		for i := len(n.children) - 1; i >= 0; i-- {
			e.stack = append(e.stack, layoutVisit{h: n.children[i]})
		}
	}
	return errs
}

// invalidate discards the solver handles of h's subtree and queues the
// subtree, plus h's parent, for the next cycle.
func (e *LayoutEngine) invalidate(t *Tree, h Handle) {
	n, err := t.node(h)
	if err != nil {
		return
	}
	if !n.parent.IsZero() {
		t.dirty.Defer(n.parent)
	}
	_ = t.Walk(h, func(n *Node) bool {
		if n.layoutHandle != 0 {
			if err := e.solver.Remove(n.layoutHandle); err != nil && !isInvalidSolverNode(err) {
				e.logger.Debug("release solver node", zap.Stringer("node", n.handle), zap.Error(err))
			}
			n.layoutHandle = 0
		}
		t.dirty.Defer(n.handle)
		return true
	})
	e.clean = false
}

// releaseRemoved frees the solver nodes of tombstoned nodes. Reports whether
// any tombstones were pending.
func (e *LayoutEngine) releaseRemoved(t *Tree) bool {
	pending := false
	for i := range t.graveyard {
		ts := &t.graveyard[i]
		if ts.LayoutHandle == 0 {
			continue
		}
		pending = true
		if err := e.solver.Remove(ts.LayoutHandle); err != nil && !isInvalidSolverNode(err) {
			e.logger.Warn("release solver node of removed node",
				zap.Stringer("node", ts.Handle), zap.Error(err))
		}
		ts.LayoutHandle = 0
	}
	return pending
}
