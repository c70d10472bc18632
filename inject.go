package canopy

// InjectPress queues a left-button press at the given screen coordinates.
// Injected events are consumed one per Update, before layout.
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, PointerEvent{X: x, Y: y, Pressed: true, Button: MouseButtonLeft})
}

// InjectMove queues a pointer move with the button held down. Use it between
// InjectPress and InjectRelease.
func (s *Scene) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, PointerEvent{X: x, Y: y, Pressed: true, Button: MouseButtonLeft})
}

// InjectHover queues a pointer move with no button held.
func (s *Scene) InjectHover(x, y float64) {
	s.injectQueue = append(s.injectQueue, PointerEvent{X: x, Y: y, Button: MouseButtonLeft})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, PointerEvent{X: x, Y: y, Button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly
// interpolated moves and a release at (toX, toY). Minimum frames is 2.
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// PendingInput returns the number of injected events not yet consumed. Input
// sources skip real input while it is non-zero.
func (s *Scene) PendingInput() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one injected event and feeds it through
// HandlePointer. Reports whether an event was consumed.
func (s *Scene) processInjectedInput() (bool, error) {
	if len(s.injectQueue) == 0 {
		return false, nil
	}
	pe := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	return true, s.HandlePointer(pe)
}
