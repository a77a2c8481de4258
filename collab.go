package trellis

import "github.com/sirupsen/logrus"

// UndoLog is the rollback collaborator used by gestures. Register snapshots
// a node before it is mutated; Cancel discards the open scope, restoring
// every registered node; Close persists it as one undoable unit.
type UndoLog interface {
	Open()
	Register(n *Node)
	Cancel()
	Close()
}

// SelectionSet is the selection collaborator.
type SelectionSet interface {
	Selection(pred func(*Node) bool) []*Node
	SelectOnly(nodes ...*Node)
	UnselectAll()
}

// Glass is the transient overlay surface hosting dragged nodes. Points
// passed to ElementFromPoint are in screen coordinates; every other
// coordinate is in scene space.
type Glass interface {
	PutElementOnGlass(n, support *Node, x, y float64)
	// MoveElementOnGlass keeps the current support when support is nil.
	MoveElementOnGlass(n, support *Node, x, y float64)
	RemoveElementFromGlass(n *Node)
	HideGlass()
	ShowGlass()
	ElementFromPoint(sx, sy float64) *Node
	HoveredElements(support *Node) []*Node
}

// SpatialIndex answers point queries in a section's coordinate space.
type SpatialIndex interface {
	Add(n *Node)
	Remove(n *Node)
	Find(x, y float64) []*Node
}

// ViewState is the saved state of an addressable viewport.
type ViewState struct {
	X, Y, Zoom, Rotation float64
}

// Addressable is the part of the host viewport the target resolver needs:
// point conversion, and the ability to shift the view so an off-screen
// point becomes addressable.
type Addressable interface {
	WorldToScreen(wx, wy float64) (sx, sy float64)
	ViewState() ViewState
	SetViewState(v ViewState)
	// ShiftOrigin moves the view so (wx, wy) lands on the viewport origin
	// and returns that origin in screen coordinates.
	ShiftOrigin(wx, wy float64) (sx, sy float64)
}

// Env bundles the collaborators handed to drag operations. The engine keeps
// no global state; everything an operation touches comes through here.
type Env struct {
	Scene     *Scene
	Glass     Glass
	View      Addressable
	Undo      UndoLog
	Selection SelectionSet
	Log       logrus.FieldLogger

	// ReadOnly refuses every modifying operation.
	ReadOnly bool

	Move   *MoveOperation
	Rotate *RotateOperation
}

// NewEnv wires the built-in operations to the given collaborators.
func NewEnv(scene *Scene, glass Glass, view Addressable, undo UndoLog, sel SelectionSet) *Env {
	env := &Env{
		Scene:     scene,
		Glass:     glass,
		View:      view,
		Undo:      undo,
		Selection: sel,
		Log:       logrus.StandardLogger(),
	}
	if scene != nil {
		env.Log = scene.log()
	}
	env.Move = &MoveOperation{env: env}
	env.Rotate = &RotateOperation{env: env}
	return env
}

// log returns the environment's logger, or the logrus standard logger for
// an Env assembled by hand.
func (e *Env) log() logrus.FieldLogger {
	if e == nil || e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}

func (e *Env) emit(ev Event) {
	if e.Scene != nil {
		e.Scene.emit(ev)
	}
}
