package trellis

import (
	"math"

	"github.com/sirupsen/logrus"
)

// PointerEvent is one pointer sample. X and Y are in scene space; ScreenX
// and ScreenY are the raw screen position.
type PointerEvent struct {
	X, Y             float64
	ScreenX, ScreenY float64
	Button           MouseButton
	Modifiers        KeyModifiers
}

// Operation is a drag behavior: a four-phase lifecycle driven by the
// DragController. Accept is asked once at press time; the other phases
// run only when the pointer actually moved.
type Operation interface {
	Accept(n *Node, p PointerEvent) bool
	DoDragStart(n *Node, p PointerEvent)
	DoDragMove(n *Node, p PointerEvent)
	DoDrop(n *Node, p PointerEvent)
}

// DragState is the state of the gesture controller.
type DragState uint8

const (
	DragIdle     DragState = iota // no pointer pressed
	DragArmed                     // pressed, operation accepted, not moved yet
	DragDragging                  // drag start ran, samples are being applied
	DragSettling                  // drop in progress
)

var dragStateNames = [...]string{"idle", "armed", "dragging", "settling"}

func (s DragState) String() string {
	if int(s) < len(dragStateNames) {
		return dragStateNames[s]
	}
	return "unknown"
}

// DragController turns pointer down, move and up into operation phases.
// One session at a time: a press while a session is open is refused.
type DragController struct {
	// DeadZone is the distance, in screen pixels, the pointer must travel
	// from the press point before the drag starts.
	DeadZone float64

	state DragState
	op    Operation
	node  *Node
	start PointerEvent
	log   logrus.FieldLogger
}

// NewDragController creates an idle controller.
func NewDragController(log logrus.FieldLogger) *DragController {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DragController{log: log}
}

// State returns the controller state.
func (c *DragController) State() DragState {
	return c.state
}

// Node returns the node of the open session, if any.
func (c *DragController) Node() *Node {
	return c.node
}

// Operation returns the operation of the open session, if any.
func (c *DragController) Operation() Operation {
	return c.op
}

// PointerDown opens a session on n with op, if op accepts it. Returns false
// when a session is already open or op refuses.
func (c *DragController) PointerDown(n *Node, op Operation, p PointerEvent) bool {
	if c.state != DragIdle {
		c.log.WithField("state", c.state).Debug("pointer down ignored, session open")
		return false
	}
	if op == nil || !op.Accept(n, p) {
		return false
	}
	c.state = DragArmed
	c.op = op
	c.node = n
	c.start = p
	return true
}

// PointerMove applies a sample. The first sample past the dead zone runs
// the drag start phase before the move phase.
func (c *DragController) PointerMove(p PointerEvent) {
	switch c.state {
	case DragArmed:
		dx := p.ScreenX - c.start.ScreenX
		dy := p.ScreenY - c.start.ScreenY
		if dx == 0 && dy == 0 {
			// Samples built without screen coordinates.
			dx, dy = p.X-c.start.X, p.Y-c.start.Y
		}
		if dx == 0 && dy == 0 {
			return
		}
		if c.DeadZone > 0 && math.Sqrt(dx*dx+dy*dy) <= c.DeadZone {
			return
		}
		c.state = DragDragging
		c.op.DoDragStart(c.node, c.start)
		c.op.DoDragMove(c.node, p)
	case DragDragging:
		c.op.DoDragMove(c.node, p)
	}
}

// PointerUp closes the session. It returns true when the session had
// become a drag; a press released without movement runs no drag phase.
func (c *DragController) PointerUp(p PointerEvent) bool {
	switch c.state {
	case DragArmed:
		c.reset()
		return false
	case DragDragging:
		c.state = DragSettling
		defer c.reset()
		c.op.DoDrop(c.node, p)
		return true
	}
	return false
}

func (c *DragController) reset() {
	c.state = DragIdle
	c.op = nil
	c.node = nil
	c.start = PointerEvent{}
}
