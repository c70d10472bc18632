package canopy

// Canvas is the paint target. Boxes are absolute screen coordinates.
type Canvas interface {
	FillRect(r Rect, c Color)
	DrawText(text string, box Rect, c Color)
}

// Paint draws the subtree rooted at root into c in painter order: a parent
// before its children, siblings in child-list order. Containers fill their
// box with the background color unless it is fully transparent; text nodes
// draw their text at the top-left of their box.
func Paint(t *Tree, root Handle, c Canvas) error {
	return t.Walk(root, func(n *Node) bool {
		switch n.kind {
		case KindContainer:
			if n.style.Background.A > 0 {
				c.FillRect(n.absoluteBox, n.style.Background)
			}
		case KindText:
			if n.text != "" {
				c.DrawText(n.text, n.absoluteBox, n.textColor)
			}
		}
		return true
	})
}
