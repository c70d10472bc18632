package canopy

// Handler is a per-node event callback. It receives the tree with full
// mutable access: it may edit any node, including its own, and may remove
// nodes. While it runs its own slot is empty, so dispatching the same event
// to the same node from inside the handler is a no-op.
type Handler func(t *Tree, ev Event)

// Event is the payload delivered to handlers.
type Event struct {
	Type      EventType
	Target    Handle
	X, Y      float64 // screen coordinates
	LocalX    float64 // X relative to the target's absolute box
	LocalY    float64 // Y relative to the target's absolute box
	Button    MouseButton
	Modifiers KeyModifiers
}

// Dispatch delivers ev to the handler in h's slot for ev.Type and reports
// whether a handler ran. Target and the local coordinates are filled in from
// h. A stale h returns a *LookupError; an empty slot is not an error.
//
// The handler is taken out of its slot for the duration of the call and put
// back afterwards. The restore overwrites whatever the slot holds at that
// point; if h was removed during the call the handler is dropped.
func Dispatch(t *Tree, h Handle, ev Event) (bool, error) {
	n, err := t.node(h)
	if err != nil {
		return false, err
	}
	if ev.Type >= numEventTypes {
		return false, nil
	}
	fn := n.handlers[ev.Type]
	if fn == nil {
		return false, nil
	}

	ev.Target = h
	box := n.absoluteBox
	ev.LocalX = ev.X - box.X
	ev.LocalY = ev.Y - box.Y

	n.handlers[ev.Type] = nil
	defer restoreHandler(t, h, ev.Type, fn)
	fn(t, ev)
	return true, nil
}

func restoreHandler(t *Tree, h Handle, typ EventType, fn Handler) {
	n, err := t.node(h)
	if err != nil {
		return
	}
	n.handlers[typ] = fn
}
