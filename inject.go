package boneview

// syntheticPointerEvent is one injected input event in screen coordinates.
// Injected events feed the same state machine as real input.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
	button  MouseButton

	wheel          bool
	wheelX, wheelY float64
}

// InjectPress queues a left-button press at (x, y). The event is consumed on
// the next Process call.
func (s *Surface) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		x: x, y: y, pressed: true, button: MouseButtonLeft,
	})
}

// InjectMove queues a move with the button held. Use it between InjectPress
// and InjectRelease to simulate a drag.
func (s *Surface) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		x: x, y: y, pressed: true, button: MouseButtonLeft,
	})
}

// InjectRelease queues a pointer release at (x, y).
func (s *Surface) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		x: x, y: y, pressed: false, button: MouseButtonLeft,
	})
}

// InjectHover queues a hover move (no button) to (x, y).
func (s *Surface) InjectHover(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		x: x, y: y, pressed: false, button: MouseButtonLeft,
	})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (s *Surface) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2
// interpolated moves, and release at (toX, toY). Minimum frames is 2.
func (s *Surface) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
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

// InjectWheel queues a wheel scroll at (x, y).
func (s *Surface) InjectWheel(x, y, dx, dy float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		x: x, y: y, wheel: true, wheelX: dx, wheelY: dy,
	})
}

// Pending returns the number of queued synthetic events.
func (s *Surface) Pending() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one synthetic event and runs it. Returns true if
// an event was consumed, in which case real input is skipped this frame.
func (s *Surface) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	if evt.wheel {
		s.processWheelAt(evt.x, evt.y, evt.wheelX, evt.wheelY, 0)
		return true
	}
	s.processPointer(0, evt.x, evt.y, evt.pressed, evt.button, 0)
	return true
}
