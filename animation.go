package canopy

import (
	"errors"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/canopy/flex"
)

// TweenGroup animates up to 4 values of one node simultaneously. Each
// Update writes the current values through a Tree mutator, so the node is
// marked dirty and the next flush lays it out and re-describes it. If the
// target node is removed, the group stops.
//
// Create one with TweenSize, TweenBackground, TweenTextColor or
// TweenFlexGrow, then either call Update each frame or hand it to
// Scene.AddTween.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	target Handle
	apply  func(t *Tree, h Handle, v *[4]float64) error
	Done   bool
}

// Target returns the animated node.
func (g *TweenGroup) Target() Handle {
	return g.target
}

// Update advances all tweens by dt seconds and writes the values to the
// target.
func (g *TweenGroup) Update(t *Tree, dt float32) error {
	if g.Done {
		return nil
	}
	if !t.Contains(g.target) {
		g.Done = true
		return nil
	}

	var v [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		v[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	return g.apply(t, g.target, &v)
}

func newGroup(h Handle, apply func(*Tree, Handle, *[4]float64) error, duration float32, fn ease.TweenFunc, pairs ...[2]float64) *TweenGroup {
	g := &TweenGroup{count: len(pairs), target: h, apply: apply}
	for i, p := range pairs {
		g.tweens[i] = gween.New(float32(p[0]), float32(p[1]), duration, fn)
	}
	return g
}

// TweenSize animates the node's width and height to fixed point sizes. Auto
// dimensions start from the size of the last layout pass.
func TweenSize(t *Tree, h Handle, toW, toH float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	n, err := t.node(h)
	if err != nil {
		return nil, err
	}
	ls := n.style.Layout
	fromW, fromH := n.absoluteBox.Width, n.absoluteBox.Height
	if ls.Width.Unit == flex.UnitPoints {
		fromW = ls.Width.Amount
	}
	if ls.Height.Unit == flex.UnitPoints {
		fromH = ls.Height.Amount
	}
	apply := func(t *Tree, h Handle, v *[4]float64) error {
		return t.SetSize(h, flex.Points(v[0]), flex.Points(v[1]))
	}
	return newGroup(h, apply, duration, fn, [2]float64{fromW, toW}, [2]float64{fromH, toH}), nil
}

// TweenBackground animates a container's background color.
func TweenBackground(t *Tree, h Handle, to Color, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	n, err := t.node(h)
	if err != nil {
		return nil, err
	}
	from := n.style.Background
	apply := func(t *Tree, h Handle, v *[4]float64) error {
		return t.SetBackgroundColor(h, Color{v[0], v[1], v[2], v[3]})
	}
	return newGroup(h, apply, duration, fn, colorPairs(from, to)...), nil
}

// TweenTextColor animates a text node's color.
func TweenTextColor(t *Tree, h Handle, to Color, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	n, err := t.node(h)
	if err != nil {
		return nil, err
	}
	if n.kind != KindText {
		return nil, ErrKind
	}
	apply := func(t *Tree, h Handle, v *[4]float64) error {
		return t.SetTextColor(h, Color{v[0], v[1], v[2], v[3]})
	}
	return newGroup(h, apply, duration, fn, colorPairs(n.textColor, to)...), nil
}

// TweenFlexGrow animates the node's grow factor.
func TweenFlexGrow(t *Tree, h Handle, to float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	n, err := t.node(h)
	if err != nil {
		return nil, err
	}
	apply := func(t *Tree, h Handle, v *[4]float64) error {
		return t.SetFlexGrow(h, v[0])
	}
	return newGroup(h, apply, duration, fn, [2]float64{n.style.Layout.FlexGrow, to}), nil
}

func colorPairs(from, to Color) [][2]float64 {
	return [][2]float64{{from.R, to.R}, {from.G, to.G}, {from.B, to.B}, {from.A, to.A}}
}

// AddTween registers g to be advanced by every Update, before layout.
// Finished groups are dropped.
func (s *Scene) AddTween(g *TweenGroup) {
	if g != nil {
		s.tweens = append(s.tweens, g)
	}
}

// Tweens returns the number of running tween groups.
func (s *Scene) Tweens() int {
	return len(s.tweens)
}

func (s *Scene) updateTweens(dt float32) error {
	var errs []error
	live := s.tweens[:0]
	for _, g := range s.tweens {
		if err := g.Update(s.tree, dt); err != nil {
			errs = append(errs, err)
		}
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(s.tweens[len(live):])
	s.tweens = live
	return errors.Join(errs...)
}
