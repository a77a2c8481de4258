package trellis

import "math"

// Trait is a capability component attached to a node when it is created.
// The engine discovers behavior by querying a node's traits for the optional
// interfaces below; a node without a matching trait gets the default
// behavior documented on each interface.
type Trait any

// traitOf returns the first trait of n implementing T.
func traitOf[T any](n *Node) (T, bool) {
	var zero T
	if n == nil {
		return zero, false
	}
	for _, t := range n.traits {
		if v, ok := t.(T); ok {
			return v, true
		}
	}
	return zero, false
}

// --- Capability interfaces ---

// OperationProvider supplies the drag operation started by a pointer press
// on the node. Nodes without one are not draggable on their own.
type OperationProvider interface {
	DragOperation(env *Env, n *Node, p PointerEvent) Operation
}

// DragAccepter lets a node refuse to be picked up. Default: accept.
type DragAccepter interface {
	AcceptDrag(n *Node, p PointerEvent) bool
}

// CompanionProvider lists nodes that travel with n when it is dragged.
type CompanionProvider interface {
	Companions(n *Node) []*Node
}

// LiftHandler reacts to n being lifted off its parent at pick-up.
// It may mutate siblings; those changes are covered by the gesture's undo scope.
type LiftHandler interface {
	Lifted(n, from *Node)
}

// DropTargetFinder lets a resolved owner redirect the drop of n to another
// node. Default: the owner itself. Returning nil means no target.
type DropTargetFinder interface {
	FindDropTarget(owner, n *Node, set []*Node) *Node
}

// DropTargetChooser lets the dragged node override its target.
// Default: keep the proposed target.
type DropTargetChooser interface {
	ChooseDropTarget(n, proposed *Node, set []*Node) *Node
}

// HoverHandler is told which candidate n is currently hovering over.
type HoverHandler interface {
	HoverOn(n, initial *Node, set []*Node)
}

// DropAccepter is consulted on the effective target at drop time.
// Default: accept.
type DropAccepter interface {
	AcceptDrop(target, n *Node, set []*Node, initial *Node) bool
}

// TargetAccepter is consulted on the dragged node at drop time.
// Default: accept.
type TargetAccepter interface {
	AcceptDropTarget(n, target, initial *Node) bool
}

// DropOrienter adjusts n right before the target executes the drop.
type DropOrienter interface {
	OrientForDrop(n, target *Node)
}

// DropExecutor performs the structural reparenting of n into target.
// Every effective drop target must have one.
type DropExecutor interface {
	ExecuteDrop(target, n, initial *Node)
}

// DropReverter re-inserts n into its original parent after a refused drop.
// Default: insert back in front of the sibling that followed n at pick-up.
type DropReverter interface {
	UndoDrop(parent, n *Node, index int)
}

// DropRecoverer runs on n after it has been rolled back.
type DropRecoverer interface {
	RecoverDrop(n *Node)
}

// DropReceiver is notified on a target after a committed drop.
type DropReceiver interface {
	ReceiveDrop(target, n *Node)
}

// DropListener is notified on n after it was dropped.
type DropListener interface {
	Dropped(n, target *Node)
}

// RevertReceiver is notified on the original parent after a rollback.
type RevertReceiver interface {
	RevertDrop(parent, n *Node)
}

// RevertListener is notified on n after its drop was reverted.
type RevertListener interface {
	RevertDropped(n, parent *Node)
}

// RotationAccepter is consulted on a node's parent when a rotation gesture
// ends. Default: accept.
type RotationAccepter interface {
	AcceptRotation(parent, n *Node, angle float64) bool
}

// SectionListener observes section membership changes.
type SectionListener interface {
	SectionEntered(n *Node, s *Section)
	SectionExited(n *Node, s *Section)
}

// SnapshotTrait lets a trait carry state through Snapshot and Restore.
// Delegates run in trait order.
type SnapshotTrait interface {
	SnapshotState() any
	RestoreState(state any)
}

// CloneableTrait produces the trait instance used by a clone. Traits that
// do not implement it are shared between the original and the clone.
type CloneableTrait interface {
	CloneTrait() Trait
}

// --- Concrete traits ---

// Movable makes a node draggable with the scene's move operation. A drop
// landing on a movable node goes to its nearest ancestor able to execute
// it, so cards dropped on cards end up in the card's container.
type Movable struct {
	// Locked refuses every pick-up while true.
	Locked bool
}

func (m *Movable) DragOperation(env *Env, n *Node, p PointerEvent) Operation {
	return env.Move
}

func (m *Movable) AcceptDrag(n *Node, p PointerEvent) bool {
	return !m.Locked
}

// FindDropTarget climbs from owner to the first node with a DropExecutor.
func (m *Movable) FindDropTarget(owner, n *Node, set []*Node) *Node {
	for t := owner; t != nil; t = t.Parent {
		if _, ok := traitOf[DropExecutor](t); ok {
			return t
		}
	}
	return nil
}

func (m *Movable) SnapshotState() any     { return m.Locked }
func (m *Movable) RestoreState(state any) { m.Locked, _ = state.(bool) }
func (m *Movable) CloneTrait() Trait      { c := *m; return &c }

// Selectable marks a node as eligible for the selection set. Selected
// movable nodes are dragged together with the clicked node.
type Selectable struct{}

// Rotatable makes a node rotate, rather than move, when dragged.
type Rotatable struct{}

func (Rotatable) DragOperation(env *Env, n *Node, p PointerEvent) Operation {
	return env.Rotate
}

// Container accepts drops and adopts dropped nodes as children.
type Container struct {
	// Accept filters incoming nodes. Nil accepts everything.
	Accept func(target, n *Node) bool
}

func (c Container) AcceptDrop(target, n *Node, set []*Node, initial *Node) bool {
	if c.Accept == nil {
		return true
	}
	return c.Accept(target, n)
}

func (c Container) ExecuteDrop(target, n, initial *Node) {
	target.AddChild(n)
}

// KeepUpright cancels the rotation a node would inherit from its new parent.
type KeepUpright struct{}

func (KeepUpright) OrientForDrop(n, target *Node) {
	g := target.GlobalTransform()
	n.SetRotation(-math.Atan2(g[1], g[0]))
}

// Companions attaches a fixed list of companion nodes.
type Companions []*Node

func (c Companions) Companions(n *Node) []*Node { return c }
