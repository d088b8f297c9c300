package boneview

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // pixels
)

// --- Event contexts ---

// PointerContext carries the data of a pointer event in screen coordinates.
type PointerContext struct {
	X, Y      float64
	Button    MouseButton
	PointerID int
	Modifiers KeyModifiers
}

// DragContext carries drag event data. DeltaX/DeltaY are relative to the
// previous drag event; DragStart reports the delta from the press point.
type DragContext struct {
	X, Y           float64
	StartX, StartY float64
	DeltaX, DeltaY float64
	Button         MouseButton
	PointerID      int
	Modifiers      KeyModifiers
}

// WheelContext carries a mouse wheel event. Positive DeltaY scrolls up.
type WheelContext struct {
	X, Y           float64
	DeltaX, DeltaY float64
	Modifiers      KeyModifiers
}

// Overlay is a screen region drawn above the 3D view, such as a panel or a
// button. Presses that land on an overlay go to it and never reach the
// surface listeners.
type Overlay interface {
	Contains(x, y float64) bool
	PointerDown(ctx PointerContext)
}

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
	inside   bool        // pointer is over the surface and not over an overlay
	captured bool        // press went to an overlay or started outside
	button   MouseButton // button captured at press time
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type dragHandler struct {
	id uint32
	fn func(DragContext)
}

type wheelHandler struct {
	id uint32
	fn func(WheelContext)
}

type handlerRegistry struct {
	pointerDown  []pointerHandler
	pointerUp    []pointerHandler
	pointerMove  []pointerHandler
	pointerLeave []pointerHandler
	click        []pointerHandler
	dragStart    []dragHandler
	drag         []dragHandler
	dragEnd      []dragHandler
	wheel        []wheelHandler
	nextID       uint32
}

func (r *handlerRegistry) count() int {
	return len(r.pointerDown) + len(r.pointerUp) + len(r.pointerMove) +
		len(r.pointerLeave) + len(r.click) + len(r.dragStart) +
		len(r.drag) + len(r.dragEnd) + len(r.wheel)
}

// CallbackHandle allows removing a registered surface callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. Removing twice, or
// removing the zero handle, is a no-op.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerDown:
		h.reg.pointerDown = removeHandler(h.reg.pointerDown, h.id)
	case EventPointerUp:
		h.reg.pointerUp = removeHandler(h.reg.pointerUp, h.id)
	case EventPointerMove:
		h.reg.pointerMove = removeHandler(h.reg.pointerMove, h.id)
	case EventPointerLeave:
		h.reg.pointerLeave = removeHandler(h.reg.pointerLeave, h.id)
	case EventClick:
		h.reg.click = removeHandler(h.reg.click, h.id)
	case EventDragStart:
		h.reg.dragStart = removeHandler(h.reg.dragStart, h.id)
	case EventDrag:
		h.reg.drag = removeHandler(h.reg.drag, h.id)
	case EventDragEnd:
		h.reg.dragEnd = removeHandler(h.reg.dragEnd, h.id)
	case EventWheel:
		h.reg.wheel = removeHandler(h.reg.wheel, h.id)
	}
}

type identified interface {
	pointerHandler | dragHandler | wheelHandler
}

func handlerID[T identified](h T) uint32 {
	switch v := any(h).(type) {
	case pointerHandler:
		return v.id
	case dragHandler:
		return v.id
	case wheelHandler:
		return v.id
	}
	return 0
}

// removeHandler deletes the entry with the given id, preserving order. A new
// slice is returned so that dispatch loops iterating the old one are not
// disturbed by a handler removing itself.
func removeHandler[T identified](s []T, id uint32) []T {
	for i := range s {
		if handlerID(s[i]) == id {
			out := make([]T, 0, len(s)-1)
			out = append(out, s[:i]...)
			return append(out, s[i+1:]...)
		}
	}
	return s
}

// --- Surface ---

// Surface turns ebiten mouse and touch input over a screen region into
// pointer events. Call Process once per frame.
type Surface struct {
	// Bounds is the screen region events are reported for. An empty rect
	// accepts the whole screen.
	Bounds Rect

	handlers     handlerRegistry
	pointers     [maxPointers]pointerState
	overlays     []Overlay
	dragDeadZone float64

	injectQueue []syntheticPointerEvent

	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
}

// NewSurface creates a surface covering bounds.
func NewSurface(bounds Rect) *Surface {
	return &Surface{Bounds: bounds, dragDeadZone: defaultDragDeadZone}
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (s *Surface) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// AddOverlay registers an overlay. Later overlays sit on top.
func (s *Surface) AddOverlay(o Overlay) {
	s.overlays = append(s.overlays, o)
}

// RemoveOverlay unregisters o. No-op if it was never added.
func (s *Surface) RemoveOverlay(o Overlay) {
	for i, c := range s.overlays {
		if c == o {
			s.overlays = append(s.overlays[:i], s.overlays[i+1:]...)
			return
		}
	}
}

// HandlerCount returns the number of registered callbacks.
func (s *Surface) HandlerCount() int {
	return s.handlers.count()
}

// --- Event registration ---

func (s *Surface) addPointer(list *[]pointerHandler, event EventType, fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	*list = append(*list, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: event}
}

func (s *Surface) addDrag(list *[]dragHandler, event EventType, fn func(DragContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	*list = append(*list, dragHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: event}
}

// OnPointerDown registers a callback for pointer presses on the surface.
func (s *Surface) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	return s.addPointer(&s.handlers.pointerDown, EventPointerDown, fn)
}

// OnPointerUp registers a callback for pointer releases.
func (s *Surface) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	return s.addPointer(&s.handlers.pointerUp, EventPointerUp, fn)
}

// OnPointerMove registers a callback for hover movement (no button held).
func (s *Surface) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	return s.addPointer(&s.handlers.pointerMove, EventPointerMove, fn)
}

// OnPointerLeave registers a callback fired when the pointer leaves the
// surface or moves onto an overlay.
func (s *Surface) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	return s.addPointer(&s.handlers.pointerLeave, EventPointerLeave, fn)
}

// OnClick registers a callback for press-release pairs without a drag.
func (s *Surface) OnClick(fn func(PointerContext)) CallbackHandle {
	return s.addPointer(&s.handlers.click, EventClick, fn)
}

// OnDragStart registers a callback for drag start events.
func (s *Surface) OnDragStart(fn func(DragContext)) CallbackHandle {
	return s.addDrag(&s.handlers.dragStart, EventDragStart, fn)
}

// OnDrag registers a callback for drag events.
func (s *Surface) OnDrag(fn func(DragContext)) CallbackHandle {
	return s.addDrag(&s.handlers.drag, EventDrag, fn)
}

// OnDragEnd registers a callback for drag end events.
func (s *Surface) OnDragEnd(fn func(DragContext)) CallbackHandle {
	return s.addDrag(&s.handlers.dragEnd, EventDragEnd, fn)
}

// OnWheel registers a callback for mouse wheel events over the surface.
func (s *Surface) OnWheel(fn func(WheelContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.wheel = append(s.handlers.wheel, wheelHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventWheel}
}

// --- Hit testing ---

// overlayAt returns the topmost overlay containing (x, y), or nil.
func (s *Surface) overlayAt(x, y float64) Overlay {
	for i := len(s.overlays) - 1; i >= 0; i-- {
		if s.overlays[i].Contains(x, y) {
			return s.overlays[i]
		}
	}
	return nil
}

func (s *Surface) inBounds(x, y float64) bool {
	if s.Bounds.Width <= 0 || s.Bounds.Height <= 0 {
		return true
	}
	return s.Bounds.Contains(x, y)
}

// --- Input processing ---

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// Process reads this frame's input and fires events. A queued synthetic
// event replaces real input for the frame.
func (s *Surface) Process() {
	if s.processInjectedInput() {
		return
	}
	mods := readModifiers()
	s.processMousePointer(mods)
	s.processTouchPointers(mods)
	s.processWheel(mods)
}

// processMousePointer handles mouse input (pointer 0).
func (s *Surface) processMousePointer(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()

	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	if left || right || middle {
		pressed = true
		if left {
			button = MouseButtonLeft
		} else if right {
			button = MouseButtonRight
		} else {
			button = MouseButtonMiddle
		}
	}

	s.processPointer(0, float64(mx), float64(my), pressed, button, mods)
}

// processTouchPointers handles touch input (pointers 1-9).
func (s *Surface) processTouchPointers(mods KeyModifiers) {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft, mods)
	}

	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft, mods)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns -1 when all slots are taken.
func (s *Surface) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

func (s *Surface) processWheel(mods KeyModifiers) {
	dx, dy := ebiten.Wheel()
	if dx == 0 && dy == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	s.processWheelAt(float64(mx), float64(my), dx, dy, mods)
}

func (s *Surface) processWheelAt(x, y, dx, dy float64, mods KeyModifiers) {
	if !s.inBounds(x, y) || s.overlayAt(x, y) != nil {
		return
	}
	ctx := WheelContext{X: x, Y: y, DeltaX: dx, DeltaY: dy, Modifiers: mods}
	for _, h := range s.handlers.wheel {
		h.fn(ctx)
	}
}

// processPointer runs the pointer state machine for a single pointer.
func (s *Surface) processPointer(pointerID int, x, y float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &s.pointers[pointerID]

	overlay := s.overlayAt(x, y)
	inside := overlay == nil && s.inBounds(x, y)

	if ps.inside && !inside && !ps.dragging {
		s.firePointer(s.handlers.pointerLeave, pointerID, x, y, button, mods)
	}
	ps.inside = inside

	if pressed && !ps.down {
		ps.down = true
		ps.button = button
		ps.startX = x
		ps.startY = y
		ps.lastX = x
		ps.lastY = y
		ps.dragging = false
		ps.captured = !inside

		if overlay != nil {
			overlay.PointerDown(PointerContext{X: x, Y: y, Button: button, PointerID: pointerID, Modifiers: mods})
			return
		}
		if ps.captured {
			return
		}
		s.firePointer(s.handlers.pointerDown, pointerID, x, y, ps.button, mods)
	} else if !pressed && ps.down {
		captured := ps.captured
		ps.down = false
		ps.captured = false
		if captured {
			ps.dragging = false
			ps.lastX = x
			ps.lastY = y
			return
		}
		if ps.dragging {
			s.fireDrag(s.handlers.dragEnd, pointerID, x, y, ps, x-ps.lastX, y-ps.lastY, mods)
		} else {
			s.firePointer(s.handlers.click, pointerID, x, y, ps.button, mods)
		}
		s.firePointer(s.handlers.pointerUp, pointerID, x, y, ps.button, mods)
		ps.dragging = false
		ps.lastX = x
		ps.lastY = y
	} else if pressed && ps.down {
		if ps.captured {
			ps.lastX = x
			ps.lastY = y
			return
		}
		if x != ps.lastX || y != ps.lastY {
			if !ps.dragging {
				dx := x - ps.startX
				dy := y - ps.startY
				if math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone {
					ps.dragging = true
					s.fireDrag(s.handlers.dragStart, pointerID, x, y, ps, dx, dy, mods)
				}
			}
			if ps.dragging {
				s.fireDrag(s.handlers.drag, pointerID, x, y, ps, x-ps.lastX, y-ps.lastY, mods)
			}
		}
		ps.lastX = x
		ps.lastY = y
	} else {
		// Hover move.
		if x != ps.lastX || y != ps.lastY {
			if inside {
				s.firePointer(s.handlers.pointerMove, pointerID, x, y, button, mods)
			}
			ps.lastX = x
			ps.lastY = y
		}
	}
}

// --- Event dispatch ---

// firePointer calls every handler in list. The slice header is read once, so
// handlers added or removed during dispatch take effect on the next event.
func (s *Surface) firePointer(list []pointerHandler, pointerID int, x, y float64, button MouseButton, mods KeyModifiers) {
	ctx := PointerContext{X: x, Y: y, Button: button, PointerID: pointerID, Modifiers: mods}
	for _, h := range list {
		h.fn(ctx)
	}
}

func (s *Surface) fireDrag(list []dragHandler, pointerID int, x, y float64, ps *pointerState, dx, dy float64, mods KeyModifiers) {
	ctx := DragContext{
		X: x, Y: y,
		StartX: ps.startX, StartY: ps.startY,
		DeltaX: dx, DeltaY: dy,
		Button: ps.button, PointerID: pointerID, Modifiers: mods,
	}
	for _, h := range list {
		h.fn(ctx)
	}
}
