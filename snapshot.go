package trellis

import "fmt"

// Snapshot is a deep capture of a node subtree: attributes, transform and
// visual fields, z override, trait state, bindings and, recursively, the
// children. It is the only mechanism used to roll back structural or
// attribute changes.
type Snapshot struct {
	node *Node

	attrs        map[string]any
	x, y         float64
	scaleX       float64
	scaleY       float64
	rotation     float64
	skewX, skewY float64
	pivotX       float64
	pivotY       float64
	width        float64
	height       float64
	alpha        float64
	visible      bool
	interactable bool
	color        Color
	zIndex       *int

	traits   []any
	bindings []Binding
	children []*Snapshot
}

// Node returns the node the snapshot was taken from.
func (s *Snapshot) Node() *Node {
	return s.node
}

// Snapshot captures the node and its subtree.
func (n *Node) Snapshot() *Snapshot {
	s := &Snapshot{
		node:         n,
		attrs:        copyAttrs(n.attrs),
		x:            n.X,
		y:            n.Y,
		scaleX:       n.ScaleX,
		scaleY:       n.ScaleY,
		rotation:     n.Rotation,
		skewX:        n.SkewX,
		skewY:        n.SkewY,
		pivotX:       n.PivotX,
		pivotY:       n.PivotY,
		width:        n.Width,
		height:       n.Height,
		alpha:        n.Alpha,
		visible:      n.Visible,
		interactable: n.Interactable,
		color:        n.Color,
		zIndex:       copyZ(n.zIndex),
		bindings:     append([]Binding(nil), n.bindings...),
	}
	if len(n.traits) > 0 {
		s.traits = make([]any, len(n.traits))
		for i, t := range n.traits {
			if st, ok := t.(SnapshotTrait); ok {
				s.traits[i] = st.SnapshotState()
			}
		}
	}
	if len(n.children) > 0 {
		s.children = make([]*Snapshot, len(n.children))
		for i, c := range n.children {
			s.children[i] = c.Snapshot()
		}
	}
	return s
}

// Restore puts the node back into the captured state. The whole child list
// is replaced and every restored child is registered again.
// Returns ErrForeignSnapshot if s was taken from another node.
func (n *Node) Restore(s *Snapshot) error {
	if s == nil || s.node != n {
		return fmt.Errorf("restore %q: %w", n.Name, ErrForeignSnapshot)
	}
	n.attrs = copyAttrs(s.attrs)
	n.X, n.Y = s.x, s.y
	n.ScaleX, n.ScaleY = s.scaleX, s.scaleY
	n.Rotation = s.rotation
	n.SkewX, n.SkewY = s.skewX, s.skewY
	n.PivotX, n.PivotY = s.pivotX, s.pivotY
	n.Width, n.Height = s.width, s.height
	n.Alpha = s.alpha
	n.Visible = s.visible
	n.Interactable = s.interactable
	n.Color = s.color
	n.bindings = append([]Binding(nil), s.bindings...)
	for i, t := range n.traits {
		if st, ok := t.(SnapshotTrait); ok && i < len(s.traits) {
			st.RestoreState(s.traits[i])
		}
	}
	zChanged := !sameZ(n.zIndex, s.zIndex)
	n.zIndex = copyZ(s.zIndex)
	n.transformChanged()
	if zChanged {
		refreshZIndex(n)
	}

	n.Clear()
	for _, cs := range s.children {
		c := cs.node
		if err := c.Restore(cs); err != nil {
			return err
		}
		n.attach(c, -1)
	}
	return nil
}

func copyZ(z *int) *int {
	if z == nil {
		return nil
	}
	v := *z
	return &v
}

func sameZ(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
