package trellis

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// dragSession is the per-node state of a move gesture, created at pick-up
// and consumed at drop.
type dragSession struct {
	origin *Snapshot
	parent *Node
	index  int
	next   *Node // sibling that followed the node at pick-up

	offsetX, offsetY float64
	originX, originY float64
	lastX, lastY     float64
	validX, validY   float64

	support *Node
	initial *Node
	target  *Node

	localX, localY float64
	cancelled      bool
}

// MoveOperation drags a set of nodes across the scene and drops them onto
// the targets found under them. The whole gesture is one undo scope: if no
// node commits, every change made since pick-up is rolled back.
type MoveOperation struct {
	env      *Env
	gesture  uuid.UUID
	set      []*Node
	sessions map[*Node]*dragSession
}

// NewMoveOperation creates a move operation bound to env.
func NewMoveOperation(env *Env) *MoveOperation {
	return &MoveOperation{env: env}
}

// Set returns the nodes of the current gesture. The returned slice MUST NOT
// be mutated.
func (m *MoveOperation) Set() []*Node {
	return m.set
}

// Active reports whether a gesture is in progress.
func (m *MoveOperation) Active() bool {
	return m.sessions != nil
}

func (m *MoveOperation) log() logrus.FieldLogger {
	return m.env.log().WithField("gesture", m.gesture.String())
}

// Accept refuses in read-only mode, for detached nodes and for nodes whose
// traits refuse the drag.
func (m *MoveOperation) Accept(n *Node, p PointerEvent) bool {
	if m.env.ReadOnly || n == nil || n.Parent == nil || m.sessions != nil {
		return false
	}
	if a, ok := traitOf[DragAccepter](n); ok && !a.AcceptDrag(n, p) {
		return false
	}
	return true
}

// DoDragStart picks the drag set up: each node is snapshotted, lifted off
// its parent and put on the glass at its current scene position. Origins
// are recorded for the whole set before the first node is lifted.
func (m *MoveOperation) DoDragStart(n *Node, p PointerEvent) {
	env := m.env
	m.gesture = uuid.New()
	env.Undo.Open()
	m.set = computeDragSet(env, n, p)
	m.sessions = make(map[*Node]*dragSession, len(m.set))
	m.log().WithFields(nodeFields(n)).WithField("size", len(m.set)).Debug("drag start")

	for _, node := range m.set {
		parent := node.Parent
		env.Undo.Register(node)
		env.Undo.Register(parent)

		gx, gy := node.GlobalPosition()
		index := parent.IndexOf(node)
		var next *Node
		if index+1 < len(parent.children) {
			next = parent.children[index+1]
		}
		m.sessions[node] = &dragSession{
			origin:  node.Snapshot(),
			parent:  parent,
			index:   index,
			next:    next,
			offsetX: gx - p.X,
			offsetY: gy - p.Y,
			originX: gx,
			originY: gy,
			lastX:   gx,
			lastY:   gy,
			validX:  gx,
			validY:  gy,
			support: parent,
		}
	}

	for _, node := range m.set {
		s := m.sessions[node]
		parent, gx, gy := s.parent, s.originX, s.originY
		if h, ok := traitOf[LiftHandler](node); ok {
			h.Lifted(node, parent)
		}
		node.RemoveFromParent()
		env.Glass.PutElementOnGlass(node, parent, gx, gy)
		env.emit(Event{Type: EventDragStart, Node: node, Other: parent, X: gx, Y: gy})
	}
	if env.Selection != nil {
		env.Selection.UnselectAll()
	}
	env.emit(Event{Type: EventDragMoveStart, Node: n, Set: m.set, X: p.X, Y: p.Y})
}

// DoDragMove follows the pointer, resolves targets for the whole set and
// re-homes nodes whose target changed. Nodes without a target freeze at
// their last valid position.
func (m *MoveOperation) DoDragMove(n *Node, p PointerEvent) {
	if m.sessions == nil {
		return
	}
	env := m.env
	for _, node := range m.set {
		s := m.sessions[node]
		s.lastX, s.lastY = p.X+s.offsetX, p.Y+s.offsetY
		env.Glass.MoveElementOnGlass(node, nil, s.lastX, s.lastY)
	}

	targets := m.getTargets(m.set)
	for _, node := range m.set {
		s := m.sessions[node]
		t := targets[node]
		if t.effective == nil {
			s.lastX, s.lastY = s.validX, s.validY
			s.initial, s.target = nil, nil
			env.Glass.MoveElementOnGlass(node, nil, s.lastX, s.lastY)
			continue
		}
		s.initial, s.target = t.initial, t.effective
		if t.effective != s.support {
			s.support = t.effective
			env.Glass.MoveElementOnGlass(node, s.support, s.lastX, s.lastY)
		}
	}

	for _, node := range m.set {
		s := m.sessions[node]
		if h, ok := traitOf[HoverHandler](node); ok {
			h.HoverOn(node, s.initial, m.set)
		}
		env.emit(Event{Type: EventDragMove, Node: node, Other: s.target, X: s.lastX, Y: s.lastY})
	}
	env.emit(Event{Type: EventDragMoveMove, Node: n, Set: m.set, X: p.X, Y: p.Y})
	for _, node := range m.set {
		s := m.sessions[node]
		s.validX, s.validY = s.lastX, s.lastY
	}
}

// DoDrop commits or rolls back every node of the set. Placement and
// acceptance may still cancel a node; once execution begins, nothing can.
func (m *MoveOperation) DoDrop(n *Node, p PointerEvent) {
	if m.sessions == nil {
		return
	}
	env := m.env
	log := m.log()
	defer m.reset()

	// Placement.
	for _, node := range m.set {
		s := m.sessions[node]
		if s.cancelled {
			continue
		}
		if !m.addressable(s.target) {
			log.WithFields(nodeFields(node)).Debug("no drop target")
			s.cancelled = true
			continue
		}
		s.localX, s.localY = s.target.GlobalToLocal(s.lastX, s.lastY)
	}

	// Acceptance. No participant can cancel after this loop.
	for _, node := range m.set {
		s := m.sessions[node]
		if s.cancelled {
			continue
		}
		if a, ok := traitOf[DropAccepter](s.target); ok && !a.AcceptDrop(s.target, node, m.set, s.initial) {
			log.WithFields(nodeFields(node)).WithField("target", s.target.Name).Debug("drop refused by target")
			s.cancelled = true
			continue
		}
		if a, ok := traitOf[TargetAccepter](node); ok && !a.AcceptDropTarget(node, s.target, s.initial) {
			log.WithFields(nodeFields(node)).WithField("target", s.target.Name).Debug("target refused by node")
			s.cancelled = true
		}
	}

	// Execution. Commits run in document order, rollbacks in reverse so
	// every refused node finds the sibling it was lifted in front of.
	committed := 0
	for _, node := range m.set {
		s := m.sessions[node]
		env.Glass.RemoveElementFromGlass(node)
		if s.cancelled {
			continue
		}
		exec, ok := traitOf[DropExecutor](s.target)
		if !ok {
			violation("DoDrop", s.target, "drop target has no DropExecutor")
		}
		env.Undo.Register(s.target)
		node.SetPosition(s.localX, s.localY)
		if o, ok := traitOf[DropOrienter](node); ok {
			o.OrientForDrop(node, s.target)
		}
		exec.ExecuteDrop(s.target, node, s.initial)
		committed++
	}
	for i := len(m.set) - 1; i >= 0; i-- {
		node := m.set[i]
		s := m.sessions[node]
		if !s.cancelled {
			continue
		}
		m.restoreOrigin(node, s)
		if r, ok := traitOf[DropReverter](s.parent); ok {
			r.UndoDrop(s.parent, node, m.homeIndex(s))
		} else {
			s.parent.AddChildAt(node, m.homeIndex(s))
		}
		if r, ok := traitOf[DropRecoverer](node); ok {
			r.RecoverDrop(node)
		}
	}

	// Finalization.
	var dropped []*Node
	for _, node := range m.set {
		s := m.sessions[node]
		if !s.cancelled {
			if r, ok := traitOf[DropReceiver](s.target); ok {
				r.ReceiveDrop(s.target, node)
			}
			if l, ok := traitOf[DropListener](node); ok {
				l.Dropped(node, s.target)
			}
			env.emit(Event{Type: EventReceiveDrop, Node: s.target, Other: node})
			env.emit(Event{Type: EventDropped, Node: node, Other: s.target})
			dropped = append(dropped, node)
			continue
		}
		if r, ok := traitOf[RevertReceiver](s.parent); ok {
			r.RevertDrop(s.parent, node)
		}
		if l, ok := traitOf[RevertListener](node); ok {
			l.RevertDropped(node, s.parent)
		}
		env.emit(Event{Type: EventRevertDrop, Node: s.parent, Other: node})
		env.emit(Event{Type: EventRevertDropped, Node: node, Other: s.parent})
	}

	if committed == 0 {
		log.Debug("drop cancelled, rolling back gesture")
		env.Undo.Cancel()
	} else {
		log.WithField("committed", committed).Debug("drop committed")
		env.Undo.Close()
	}
	if env.Selection != nil && len(dropped) > 0 {
		env.Selection.SelectOnly(dropped...)
	}
	env.emit(Event{Type: EventDragMoveDrop, Node: n, Set: m.set, X: p.X, Y: p.Y})
}

// Cancel aborts an open gesture before its drop: every node goes back to
// its origin and the undo scope is cancelled.
func (m *MoveOperation) Cancel() {
	if m.sessions == nil {
		return
	}
	for _, node := range m.set {
		m.sessions[node].cancelled = true
		m.env.Glass.RemoveElementFromGlass(node)
	}
	for i := len(m.set) - 1; i >= 0; i-- {
		node := m.set[i]
		s := m.sessions[node]
		m.restoreOrigin(node, s)
		s.parent.AddChildAt(node, m.homeIndex(s))
	}
	m.env.Undo.Cancel()
	m.reset()
}

func (m *MoveOperation) restoreOrigin(node *Node, s *dragSession) {
	if err := node.Restore(s.origin); err != nil {
		m.log().WithFields(nodeFields(node)).WithError(err).Warn("restoring drag origin")
	}
}

// homeIndex is where a rolled-back node goes in its origin parent: in front
// of the sibling that followed it at pick-up. Committed set members are
// skipped; refused ones later in document order are already back in place.
// A follower moved elsewhere falls back to the recorded index.
func (m *MoveOperation) homeIndex(s *dragSession) int {
	next := s.next
	for next != nil {
		if ns, ok := m.sessions[next]; ok && !ns.cancelled {
			next = ns.next
			continue
		}
		if next.Parent != s.parent {
			return clampIndex(s.index, s.parent)
		}
		return s.parent.IndexOf(next)
	}
	return len(s.parent.children)
}

func (m *MoveOperation) reset() {
	m.set = nil
	m.sessions = nil
}

func clampIndex(i int, parent *Node) int {
	if i < 0 || i > len(parent.children) {
		return len(parent.children)
	}
	return i
}
