package trellis

import (
	"math"

	"github.com/google/uuid"
)

// RotateOperation rotates a node around its position while dragged. On
// drop the node's parent decides, through RotationAccepter, whether the new
// angle is kept; a refused rotation is reverted from the snapshot taken at
// pick-up.
type RotateOperation struct {
	env     *Env
	gesture uuid.UUID

	node       *Node
	origin     *Snapshot
	cx, cy     float64
	startAngle float64
	base       float64
	angle      float64
}

// NewRotateOperation creates a rotate operation bound to env.
func NewRotateOperation(env *Env) *RotateOperation {
	return &RotateOperation{env: env}
}

// Angle returns the rotation applied so far by the current gesture.
func (r *RotateOperation) Angle() float64 {
	return r.angle
}

func (r *RotateOperation) Accept(n *Node, p PointerEvent) bool {
	if r.env.ReadOnly || n == nil || n.Parent == nil || r.node != nil {
		return false
	}
	if a, ok := traitOf[DragAccepter](n); ok && !a.AcceptDrag(n, p) {
		return false
	}
	return true
}

func (r *RotateOperation) DoDragStart(n *Node, p PointerEvent) {
	r.gesture = uuid.New()
	r.env.Undo.Open()
	r.env.Undo.Register(n)
	r.node = n
	r.origin = n.Snapshot()
	r.cx, r.cy = n.GlobalPosition()
	r.startAngle = math.Atan2(p.Y-r.cy, p.X-r.cx)
	r.base = n.Rotation
	r.angle = 0
	r.env.emit(Event{Type: EventDragStart, Node: n, Other: n.Parent, X: p.X, Y: p.Y})
}

func (r *RotateOperation) DoDragMove(n *Node, p PointerEvent) {
	if r.node == nil {
		return
	}
	r.angle = math.Atan2(p.Y-r.cy, p.X-r.cx) - r.startAngle
	r.node.SetRotation(r.base + r.angle)
	r.env.emit(Event{Type: EventDragMove, Node: r.node, X: p.X, Y: p.Y})
}

func (r *RotateOperation) DoDrop(n *Node, p PointerEvent) {
	if r.node == nil {
		return
	}
	node := r.node
	defer r.reset()
	parent := node.Parent
	accepted := true
	if a, ok := traitOf[RotationAccepter](parent); ok {
		accepted = a.AcceptRotation(parent, node, r.angle)
	}
	log := r.env.log().WithField("gesture", r.gesture.String()).WithFields(nodeFields(node))
	if accepted {
		log.WithField("angle", r.angle).Debug("rotation committed")
		r.env.Undo.Close()
		r.env.emit(Event{Type: EventRotated, Node: node, Other: parent})
		return
	}
	log.Debug("rotation refused")
	if err := node.Restore(r.origin); err != nil {
		log.WithError(err).Warn("rotation revert")
	}
	r.env.Undo.Cancel()
	r.env.emit(Event{Type: EventRevertRotation, Node: node, Other: parent})
}

func (r *RotateOperation) reset() {
	r.node = nil
	r.origin = nil
}
