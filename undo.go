package trellis

import "github.com/sirupsen/logrus"

// transaction is one undoable unit: every node registered while the scope
// was open, with its state before and after.
type transaction struct {
	nodes  []*Node
	before []*Snapshot
	after  []*Snapshot
	seen   map[*Node]bool
}

// History is the default UndoLog. Scopes nest; only the outermost Close
// commits. A node is snapshotted the first time it is registered within a
// scope, so later registrations do not overwrite its original state.
type History struct {
	depth   int
	current *transaction
	done    []*transaction
	undone  []*transaction
	limit   int
	log     logrus.FieldLogger
}

// NewHistory creates a History keeping at most limit committed units.
// A limit of zero keeps everything.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Open starts (or nests into) a scope.
func (h *History) Open() {
	h.depth++
	if h.current == nil {
		h.current = &transaction{seen: make(map[*Node]bool)}
	}
}

// Register snapshots n unless it was already registered in the open scope.
// No-op when no scope is open.
func (h *History) Register(n *Node) {
	t := h.current
	if t == nil || n == nil || t.seen[n] {
		return
	}
	t.seen[n] = true
	t.nodes = append(t.nodes, n)
	t.before = append(t.before, n.Snapshot())
}

// Cancel restores every registered node, most recent first, and discards
// the whole scope including enclosing levels.
func (h *History) Cancel() {
	t := h.current
	h.current = nil
	h.depth = 0
	if t == nil {
		return
	}
	h.restoreAll(t.nodes, t.before)
}

// Close ends one scope level. The outermost Close commits the unit when
// anything was registered.
func (h *History) Close() {
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	t := h.current
	h.current = nil
	if t == nil || len(t.nodes) == 0 {
		return
	}
	t.after = make([]*Snapshot, len(t.nodes))
	for i, n := range t.nodes {
		t.after[i] = n.Snapshot()
	}
	h.done = append(h.done, t)
	if h.limit > 0 && len(h.done) > h.limit {
		h.done = h.done[len(h.done)-h.limit:]
	}
	h.undone = nil
}

// Undo reverts the most recent committed unit.
func (h *History) Undo() bool {
	if len(h.done) == 0 || h.current != nil {
		return false
	}
	t := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	h.restoreAll(t.nodes, t.before)
	h.undone = append(h.undone, t)
	return true
}

// Redo reapplies the most recently undone unit.
func (h *History) Redo() bool {
	if len(h.undone) == 0 || h.current != nil {
		return false
	}
	t := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	for i, n := range t.nodes {
		h.restore(n, t.after[i])
	}
	h.done = append(h.done, t)
	return true
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool { return len(h.done) > 0 && h.current == nil }

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool { return len(h.undone) > 0 && h.current == nil }

// InScope reports whether a scope is open.
func (h *History) InScope() bool { return h.current != nil }

// SetLogger sets the logger failed restores are reported to.
func (h *History) SetLogger(l logrus.FieldLogger) {
	h.log = l
}

func (h *History) restoreAll(nodes []*Node, snaps []*Snapshot) {
	for i := len(nodes) - 1; i >= 0; i-- {
		h.restore(nodes[i], snaps[i])
	}
}

func (h *History) restore(n *Node, snap *Snapshot) {
	if err := n.Restore(snap); err != nil {
		l := h.log
		if l == nil {
			l = logrus.StandardLogger()
		}
		l.WithFields(nodeFields(n)).WithError(err).Warn("undo restore")
	}
}
