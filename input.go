package trellis

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// pointerState tracks the mouse between frames. Coordinates are in screen space.
type pointerState struct {
	down         bool
	button       MouseButton
	startX       float64
	startY       float64
	lastX, lastY float64
	hitNode      *Node
}

// --- Input processing ---

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// processInput is called from Scene.Update() to feed the mouse into the
// drag controller. Injected events take precedence over the real mouse.
func (s *Scene) processInput() {
	mods := readModifiers()
	if s.processInjectedInput(mods) {
		return
	}
	s.processMousePointer(mods)
}

// processMousePointer reads the mouse and runs the pointer state machine.
func (s *Scene) processMousePointer(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()

	// If the pointer is already down, the stored button is used to avoid
	// changing mid-interaction.
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

	s.FeedPointer(float64(mx), float64(my), pressed, button, mods)
}

// FeedPointer runs one pointer sample, in screen coordinates, through the
// pointer state machine. Hosts that do not use Update call it directly.
func (s *Scene) FeedPointer(sx, sy float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &s.pointer
	wx, wy := s.view.ScreenToWorld(sx, sy)
	p := PointerEvent{X: wx, Y: wy, ScreenX: sx, ScreenY: sy, Button: button, Modifiers: mods}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = sx, sy
		ps.hitNode = s.glass.ElementFromPoint(sx, sy)
		if ps.hitNode != nil {
			s.drag.PointerDown(ps.hitNode, s.operationFor(ps.hitNode, p), p)
		}
	case !pressed && ps.down:
		p.Button = ps.button
		if sx != ps.lastX || sy != ps.lastY {
			s.drag.PointerMove(p)
		}
		dragged := s.drag.PointerUp(p)
		if !dragged && ps.hitNode != nil && s.glass.ElementFromPoint(sx, sy) == ps.hitNode {
			s.emit(Event{Type: EventClick, Node: ps.hitNode, X: wx, Y: wy})
		}
		ps.down = false
		ps.hitNode = nil
	case pressed && ps.down:
		if sx != ps.lastX || sy != ps.lastY {
			p.Button = ps.button
			s.drag.PointerMove(p)
		}
	}
	ps.lastX, ps.lastY = sx, sy
}

// operationFor returns the operation a press on n starts: the one its
// traits provide, else the background operation.
func (s *Scene) operationFor(n *Node, p PointerEvent) Operation {
	if prov, ok := traitOf[OperationProvider](n); ok {
		if op := prov.DragOperation(s.env, n, p); op != nil {
			return op
		}
	}
	return s.background
}
