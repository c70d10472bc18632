package canopy

import "errors"

// PointerEvent is one sample of pointer state in screen coordinates, as an
// input source (a window event pump, an injected event) reports it.
type PointerEvent struct {
	X, Y      float64
	Pressed   bool
	Button    MouseButton
	Modifiers KeyModifiers
}

type pointerState struct {
	down    bool
	lastX   float64
	lastY   float64
	moved   bool // lastX/lastY hold a real sample
	hitNode Handle
	hover   Handle
	button  MouseButton // button captured at press time
}

// --- Listener registry ---

// Listener is a scene-level callback. It runs before the target's own
// handler, for every event of its type, including events with no target.
type Listener func(ev Event)

type listener struct {
	id uint32
	fn Listener
}

type listenerRegistry struct {
	byType [numEventTypes][]listener
	nextID uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *listenerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing from
// inside a listener leaves the event being fired unaffected.
func (h CallbackHandle) Remove() {
	if h.reg == nil || h.event >= numEventTypes {
		return
	}
	s := h.reg.byType[h.event]
	for i := range s {
		if s[i].id == h.id {
			// A fresh slice; fire may still be ranging over the old one.
			h.reg.byType[h.event] = append(s[:i:i], s[i+1:]...)
			return
		}
	}
}

// OnEvent registers a scene-level callback for events of type typ.
func (s *Scene) OnEvent(typ EventType, fn Listener) CallbackHandle {
	if typ >= numEventTypes || fn == nil {
		return CallbackHandle{}
	}
	s.listeners.nextID++
	id := s.listeners.nextID
	s.listeners.byType[typ] = append(s.listeners.byType[typ], listener{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.listeners, event: typ}
}

// CapturePointer routes all pointer events to h until the next release or
// ReleasePointer.
func (s *Scene) CapturePointer(h Handle) {
	s.captured = h
}

// ReleasePointer stops routing pointer events to a captured node.
func (s *Scene) ReleasePointer() {
	s.captured = Handle{}
}

// Hovered returns the node currently under the pointer.
func (s *Scene) Hovered() (Handle, bool) {
	return s.pointer.hover, s.tree.Contains(s.pointer.hover)
}

// --- Pointer state machine ---

// HandlePointer feeds one pointer sample through the state machine. The
// target is the captured node, or else the topmost interactive node under
// the pointer according to the last layout pass. Events fire in this order:
// leave/enter when the hovered node changes, then down, click and up, or
// move. A click fires on release when the press started on the same node.
//
// Handler errors (a target removed by an earlier callback) are joined and
// returned; the remaining events still fire.
func (s *Scene) HandlePointer(pe PointerEvent) error {
	ps := &s.pointer
	var errs []error

	target, ok := s.captured, s.tree.Contains(s.captured)
	if !ok {
		target, _ = s.HitTest(pe.X, pe.Y, HitInteractive)
	}

	if target != ps.hover {
		if !ps.hover.IsZero() && s.tree.Contains(ps.hover) {
			errs = append(errs, s.fire(EventPointerLeave, ps.hover, pe, pe.Button))
		}
		if !target.IsZero() {
			errs = append(errs, s.fire(EventPointerEnter, target, pe, pe.Button))
		}
		ps.hover = target
	}

	switch {
	case pe.Pressed && !ps.down:
		ps.down = true
		ps.button = pe.Button
		ps.hitNode = target
		errs = append(errs, s.fire(EventPointerDown, target, pe, ps.button))
	case !pe.Pressed && ps.down:
		if !ps.hitNode.IsZero() && ps.hitNode == target {
			errs = append(errs, s.fire(EventClick, target, pe, ps.button))
		}
		errs = append(errs, s.fire(EventPointerUp, target, pe, ps.button))
		s.captured = Handle{}
		ps.down = false
		ps.hitNode = Handle{}
	default:
		if ps.moved && (pe.X != ps.lastX || pe.Y != ps.lastY) {
			errs = append(errs, s.fire(EventPointerMove, target, pe, ps.button))
		}
	}
	ps.lastX, ps.lastY, ps.moved = pe.X, pe.Y, true
	return errors.Join(errs...)
}

// fire delivers one event: scene listeners, then the target's handler, then
// the ECS bridge.
func (s *Scene) fire(typ EventType, target Handle, pe PointerEvent, button MouseButton) error {
	ev := Event{
		Type:      typ,
		Target:    target,
		X:         pe.X,
		Y:         pe.Y,
		Button:    button,
		Modifiers: pe.Modifiers,
	}
	n, err := s.tree.node(target)
	if err == nil {
		ev.LocalX = ev.X - n.absoluteBox.X
		ev.LocalY = ev.Y - n.absoluteBox.Y
	}

	for _, l := range s.listeners.byType[typ] {
		l.fn(ev)
	}
	if target.IsZero() {
		return nil
	}
	if _, err := Dispatch(s.tree, target, ev); err != nil {
		return err
	}
	s.emitInteractionEvent(ev)
	return nil
}

// --- ECS bridge ---

func (s *Scene) emitInteractionEvent(ev Event) {
	if s.store == nil {
		return
	}
	n, err := s.tree.node(ev.Target)
	if err != nil || n.entityID == 0 {
		return
	}
	s.store.EmitEvent(InteractionEvent{
		Type:      ev.Type,
		EntityID:  n.entityID,
		Node:      ev.Target,
		GlobalX:   ev.X,
		GlobalY:   ev.Y,
		LocalX:    ev.LocalX,
		LocalY:    ev.LocalY,
		Button:    ev.Button,
		Modifiers: ev.Modifiers,
	})
}
