package flex

import (
	"math"

	yoga "github.com/kjk/flex"
)

// Compute lays out the tree rooted at root within the available space. Pass
// MaxContent on an axis to size the root by its content on that axis.
func (s *Solver) Compute(root NodeID, available Size) error {
	n, err := s.get(root)
	if err != nil {
		return err
	}
	// Computing a subtree as a root overwrites its position; the previous
	// root must not be served from Yoga's cache afterwards.
	if last := s.lastRoot; last != root && last != 0 && s.nodes[last].live {
		s.touch(last)
	}
	s.lastRoot = root
	yoga.CalculateLayout(n.yn, yogaAvailable(available.Width), yogaAvailable(available.Height), yoga.DirectionLTR)
	return nil
}

// touch marks id and its ancestors for relayout.
func (s *Solver) touch(id NodeID) {
	n := &s.nodes[id]
	if n.measured {
		n.yn.MarkDirty()
		return
	}
	g := float32(n.style.FlexGrow)
	n.yn.StyleSetFlexGrow(g + 1)
	n.yn.StyleSetFlexGrow(g)
}

func yogaAvailable(v float64) float32 {
	if math.IsInf(v, 1) {
		return yoga.Undefined
	}
	return float32(v)
}

// measureFunc reports the intrinsic content size of a leaf. Yoga adds the
// padding around it.
func (s *Solver) measureFunc(id NodeID) yoga.MeasureFunc {
	return func(_ *yoga.Node, _ float32, _ yoga.MeasureMode, _ float32, _ yoga.MeasureMode) yoga.Size {
		c := s.nodes[id].style.Content
		return yoga.Size{Width: float32(c.Width), Height: float32(c.Height)}
	}
}

// syncMeasure installs the measure func on childless nodes and removes it
// from nodes with children.
func (s *Solver) syncMeasure(id NodeID) {
	n := &s.nodes[id]
	switch leaf := len(n.children) == 0; {
	case leaf && !n.measured:
		n.yn.SetMeasureFunc(s.measureFunc(id))
		n.measured = true
	case !leaf && n.measured:
		n.yn.SetMeasureFunc(nil)
		n.measured = false
	}
}

// applyStyle copies the node's style onto its Yoga node. Margins are left to
// applyMargin because they depend on the parent's gap.
func (s *Solver) applyStyle(id NodeID) {
	n := &s.nodes[id]
	st, yn := n.style, n.yn

	setDimension(st.Width, yn.StyleSetWidth, yn.StyleSetWidthPercent, yn.StyleSetWidthAuto)
	setDimension(st.Height, yn.StyleSetHeight, yn.StyleSetHeightPercent, yn.StyleSetHeightAuto)
	setBound(st.MinWidth, yn.StyleSetMinWidth, yn.StyleSetMinWidthPercent)
	setBound(st.MinHeight, yn.StyleSetMinHeight, yn.StyleSetMinHeightPercent)
	setBound(st.MaxWidth, yn.StyleSetMaxWidth, yn.StyleSetMaxWidthPercent)
	setBound(st.MaxHeight, yn.StyleSetMaxHeight, yn.StyleSetMaxHeightPercent)

	if st.Direction == Column {
		yn.StyleSetFlexDirection(yoga.FlexDirectionColumn)
	} else {
		yn.StyleSetFlexDirection(yoga.FlexDirectionRow)
	}
	yn.StyleSetJustifyContent(yogaJustify(st.JustifyContent))
	yn.StyleSetAlignItems(yogaAlign(st.AlignItems))
	if st.AlignSelf != nil {
		yn.StyleSetAlignSelf(yogaAlign(*st.AlignSelf))
	} else {
		yn.StyleSetAlignSelf(yoga.AlignAuto)
	}
	yn.StyleSetFlexGrow(float32(st.FlexGrow))
	yn.StyleSetFlexShrink(float32(st.FlexShrink))

	yn.StyleSetPadding(yoga.EdgeTop, float32(st.Padding.Top))
	yn.StyleSetPadding(yoga.EdgeRight, float32(st.Padding.Right))
	yn.StyleSetPadding(yoga.EdgeBottom, float32(st.Padding.Bottom))
	yn.StyleSetPadding(yoga.EdgeLeft, float32(st.Padding.Left))

	s.applyMargin(id, s.gapLead(id))
}

// gapLead returns the extra leading margin id gets from its parent's gap.
func (s *Solver) gapLead(id NodeID) float64 {
	p := s.nodes[id].parent
	if p == 0 {
		return 0
	}
	siblings := s.nodes[p].children
	if len(siblings) == 0 || siblings[0] == id {
		return 0
	}
	return s.nodes[p].style.Gap
}

// applyMargin sets the node's margin plus lead on the leading main-axis edge
// of its parent.
func (s *Solver) applyMargin(id NodeID, lead float64) {
	n := &s.nodes[id]
	m := n.style.Margin
	if lead != 0 {
		if p := n.parent; p != 0 && s.nodes[p].style.Direction == Column {
			m.Top += lead
		} else {
			m.Left += lead
		}
	}
	n.yn.StyleSetMargin(yoga.EdgeTop, float32(m.Top))
	n.yn.StyleSetMargin(yoga.EdgeRight, float32(m.Right))
	n.yn.StyleSetMargin(yoga.EdgeBottom, float32(m.Bottom))
	n.yn.StyleSetMargin(yoga.EdgeLeft, float32(m.Left))
}

// applyChildMargins refreshes the margins of every child of id.
func (s *Solver) applyChildMargins(id NodeID) {
	for _, c := range s.nodes[id].children {
		s.applyMargin(c, s.gapLead(c))
	}
}

func setDimension(d Dimension, points, percent func(float32), auto func()) {
	switch d.Unit {
	case UnitPoints:
		points(float32(d.Amount))
	case UnitPercent:
		percent(float32(d.Amount))
	default:
		auto()
	}
}

// setBound sets a min or max constraint; auto clears it.
func setBound(d Dimension, points, percent func(float32)) {
	switch d.Unit {
	case UnitPoints:
		points(float32(d.Amount))
	case UnitPercent:
		percent(float32(d.Amount))
	default:
		points(yoga.Undefined)
	}
}

func yogaJustify(j Justify) yoga.Justify {
	switch j {
	case JustifyEnd:
		return yoga.JustifyFlexEnd
	case JustifyCenter:
		return yoga.JustifyCenter
	case JustifySpaceBetween:
		return yoga.JustifySpaceBetween
	case JustifySpaceAround:
		return yoga.JustifySpaceAround
	default:
		return yoga.JustifyFlexStart
	}
}

func yogaAlign(a Align) yoga.Align {
	switch a {
	case AlignEnd:
		return yoga.AlignFlexEnd
	case AlignCenter:
		return yoga.AlignCenter
	case AlignStretch:
		return yoga.AlignStretch
	default:
		return yoga.AlignFlexStart
	}
}
