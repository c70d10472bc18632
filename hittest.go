package canopy

// HitMode selects which nodes take part in hit-testing.
type HitMode uint8

const (
	// HitAll considers every node.
	HitAll HitMode = iota
	// HitInteractive considers only nodes marked interactive or carrying a
	// handler. Non-interactive ancestors are still traversed.
	HitInteractive
)

// HitTester resolves the topmost node under a point from the absolute boxes
// of the last layout pass. It keeps its traversal buffers between calls.
type HitTester struct {
	buf   []*Node
	stack []Handle
}

// HitTest returns the topmost node under (x, y) in the subtree rooted at
// root. Nodes are collected in painter order (pre-order, children in list
// order) and scanned backward, so a child beats its parent and a later
// sibling beats an earlier one. Containment is half-open: a point on a box's
// right or bottom edge is outside it.
func (ht *HitTester) HitTest(t *Tree, root Handle, x, y float64, mode HitMode) (Handle, bool) {
	ht.buf = ht.buf[:0]
	if _, err := t.node(root); err != nil {
		return Handle{}, false
	}
	ht.stack = append(ht.stack[:0], root)
	for len(ht.stack) > 0 {
		h := ht.stack[len(ht.stack)-1]
		ht.stack = ht.stack[:len(ht.stack)-1]
		n, err := t.node(h)
		if err != nil {
			continue
		}
		if mode == HitAll || n.Interactive() {
			ht.buf = append(ht.buf, n)
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			ht.stack = append(ht.stack, n.children[i])
		}
	}

	for i := len(ht.buf) - 1; i >= 0; i-- {
		n := ht.buf[i]
		if n.absoluteBox.Contains(x, y) {
			return n.handle, true
		}
	}
	return Handle{}, false
}

// HitTest is a convenience wrapper that allocates a fresh HitTester.
func HitTest(t *Tree, root Handle, x, y float64, mode HitMode) (Handle, bool) {
	var ht HitTester
	return ht.HitTest(t, root, x, y, mode)
}
