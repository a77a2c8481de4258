package trellis

import (
	"github.com/google/uuid"
)

// HitShape is used for custom hit testing regions.
type HitShape interface {
	Contains(x, y float64) bool
}

// CloneMode controls how much of a node Clone copies.
type CloneMode uint8

const (
	CloneInherit CloneMode = iota // use the mode inherited from the cloned ancestor
	CloneFull                     // copy the node and its whole subtree
	CloneShallow                  // copy the node but none of its children
	CloneNever                    // leave the node out of the copy
)

// Binding is a per-node notification handler. Bindings are copied by Clone
// only when Cloneable is set.
type Binding struct {
	Event     EventType
	Fn        func(Event)
	Cloneable bool
}

// Node is the fundamental scene graph element. A single flat struct is used
// for every node kind; optional behavior comes from traits fixed at
// construction.
//
// A node lives in two trees. The logical tree (Parent, Children) is what
// traversal, cloning, snapshots and hit-testing see. The physical tree is
// the stacking order actually painted: it equals the logical tree except for
// nodes whose resolved z-index differs from their parent's, which are
// hosted on a synthetic layer of their section, and nodes being dragged,
// which are hosted on the glass.
type Node struct {
	// Identity
	ID   uuid.UUID
	Name string
	Type NodeType

	// Logical hierarchy
	Parent   *Node
	children []*Node

	// Physical (stacking) hierarchy
	phys         *Node
	physChildren []*Node

	// Transform (local)
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64
	SkewX, SkewY float64
	PivotX       float64
	PivotY       float64

	// Box in local coordinates, used for painting and spatial indexing.
	Width, Height float64

	// Visibility & interaction
	Alpha        float64
	Visible      bool
	Interactable bool
	Color        Color
	HitShape     HitShape

	CloneMode CloneMode

	attrs  map[string]any
	zIndex *int

	// Registration state
	section    *Section // section this node belongs to
	ownSection *Section // section rooted at this node, if any
	relative   [6]float64
	zTransform [6]float64
	onLayer    *layer
	onGlass    bool
	ownerGlass *Surface // set on the glass root only

	// Propagated by the layer flush for layered nodes.
	inheritedVisible bool
	inheritedAlpha   float64

	traits   []Trait
	bindings []Binding

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = uuid.New()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.relative = identityTransform
	n.zTransform = identityTransform
	n.inheritedVisible = true
	n.inheritedAlpha = 1
}

// NewContainer creates a group node with no visual representation.
func NewContainer(name string, traits ...Trait) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer, traits: traits}
	nodeDefaults(n)
	return n
}

// NewShape creates a filled box node of the given size.
func NewShape(name string, w, h float64, traits ...Trait) *Node {
	n := &Node{Name: name, Type: NodeTypeShape, Width: w, Height: h, traits: traits}
	nodeDefaults(n)
	n.Interactable = true
	return n
}

// Traits returns the node's traits. The returned slice MUST NOT be mutated.
func (n *Node) Traits() []Trait {
	return n.traits
}

// Bind registers a per-node notification handler.
func (n *Node) Bind(ev EventType, fn func(Event), cloneable bool) {
	n.bindings = append(n.bindings, Binding{Event: ev, Fn: fn, Cloneable: cloneable})
}

// Section returns the section this node currently belongs to, or nil when
// the node is detached.
func (n *Node) Section() *Section {
	return n.section
}

// OwnSection returns the section rooted at this node, if any.
func (n *Node) OwnSection() *Section {
	return n.ownSection
}

// childSection is the section that children of n belong to.
func (n *Node) childSection() *Section {
	if n.ownSection != nil {
		return n.ownSection
	}
	return n.section
}

func (n *Node) scene() *Scene {
	if s := n.childSection(); s != nil {
		return s.scene
	}
	return nil
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	n.checkAdd(child, "AddChild")
	n.attach(child, -1)
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	n.checkAdd(child, "AddChildAt")
	limit := len(n.children)
	if child.Parent == n {
		limit--
	}
	if index < 0 || index > limit {
		panic("trellis: child index out of range")
	}
	n.attach(child, index)
}

// InsertBefore inserts child right before ref. A nil ref appends.
// Returns a *NotAChildError if ref is not a child of n.
func (n *Node) InsertBefore(child, ref *Node) error {
	n.checkAdd(child, "InsertBefore")
	if ref == nil {
		n.attach(child, -1)
		return nil
	}
	if ref.Parent != n {
		return &NotAChildError{Parent: n, Child: ref}
	}
	if ref == child {
		return nil
	}
	if child.Parent != nil {
		child.Parent.detach(child)
	}
	n.attach(child, n.IndexOf(ref))
	return nil
}

// RemoveChild detaches child from this node.
// Returns a *NotAChildError if child.Parent != n.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.Parent != n {
		return &NotAChildError{Parent: n, Child: child}
	}
	if s := n.scene(); s != nil && s.debug {
		debugCheckDisposed(s, n, "RemoveChild (parent)")
		debugCheckDisposed(s, child, "RemoveChild (child)")
	}
	n.detach(child)
	return nil
}

// ReplaceChild puts newChild in old's slot and detaches old.
// Returns a *NotAChildError if old is not a child of n.
func (n *Node) ReplaceChild(newChild, old *Node) error {
	if old == nil || old.Parent != n {
		return &NotAChildError{Parent: n, Child: old}
	}
	if newChild == old {
		return nil
	}
	n.checkAdd(newChild, "ReplaceChild")
	if newChild.Parent != nil {
		newChild.Parent.detach(newChild)
	}
	index := n.IndexOf(old)
	n.detach(old)
	n.attach(newChild, index)
	return nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.detach(n)
}

// Clear detaches all children from this node. Children are NOT disposed.
func (n *Node) Clear() {
	for len(n.children) > 0 {
		n.detach(n.children[len(n.children)-1])
	}
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// IndexOf returns the index of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// PhysicalParent returns the node this node is painted under: its logical
// parent, a synthetic layer, or the glass.
func (n *Node) PhysicalParent() *Node {
	return n.phys
}

// Layered reports whether the node is hosted on a z-index layer.
func (n *Node) Layered() bool {
	return n.onLayer != nil
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.Parent = nil
		child.phys = nil
		child.dispose()
	}
	n.children = nil
	n.physChildren = nil
	n.Parent = nil
	n.HitShape = nil
	n.attrs = nil
	n.bindings = nil
	n.traits = nil
}

// --- Helpers ---

func (n *Node) checkAdd(child *Node, op string) {
	if child == nil {
		panic("trellis: cannot add nil child")
	}
	if s := n.scene(); s != nil && s.debug {
		debugCheckDisposed(s, n, op+" (parent)")
		debugCheckDisposed(s, child, op+" (child)")
	}
	if isAncestor(child, n) {
		panic("trellis: adding child would create a cycle")
	}
}

// attach makes child a logical and physical child of n at index (-1 appends)
// and registers it with n's section.
func (n *Node) attach(child *Node, index int) {
	if child.Parent != nil {
		child.Parent.detach(child)
	} else if child.phys != nil {
		physRemove(child)
	}
	child.Parent = n
	if index < 0 || index >= len(n.children) {
		n.children = append(n.children, child)
	} else {
		n.children = append(n.children, nil)
		copy(n.children[index+1:], n.children[index:])
		n.children[index] = child
	}
	physInsert(n, child)
	if n.childSection() != nil {
		register(child)
	}
	if s := n.scene(); s != nil && s.debug {
		debugCheckTreeDepth(s, child)
		debugCheckChildCount(s, n)
	}
}

// detach is the reverse of attach.
func (n *Node) detach(child *Node) {
	if child.section != nil {
		unregister(child)
	}
	physRemove(child)
	n.removeChildByPtr(child)
	child.Parent = nil
}

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	n.children = removeNode(n.children, child)
}

func removeNode(s []*Node, target *Node) []*Node {
	for i, c := range s {
		if c == target {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			return s[:len(s)-1]
		}
	}
	return s
}

func insertNode(s []*Node, index int, n *Node) []*Node {
	s = append(s, nil)
	copy(s[index+1:], s[index:])
	s[index] = n
	return s
}
