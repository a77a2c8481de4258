package trellis

import "github.com/google/uuid"

// Clone returns a detached deep copy of the node. seen maps originals to
// their copies; passing the same map to several Clone calls makes nodes
// reachable from more than one root copy only once. A nil seen is allowed.
//
// CloneMode controls the copy per node: CloneFull copies the subtree,
// CloneShallow copies the node without its children, CloneNever leaves the
// node (and its subtree) out. CloneInherit uses the mode of the nearest
// cloned ancestor. Traits are cloned when they implement CloneableTrait and
// shared otherwise; only Cloneable bindings are copied. Clones get fresh
// IDs and never own a section.
func (n *Node) Clone(seen map[*Node]*Node) *Node {
	if seen == nil {
		seen = make(map[*Node]*Node)
	}
	return n.cloneWith(seen, CloneFull)
}

func (n *Node) cloneWith(seen map[*Node]*Node, inherited CloneMode) *Node {
	if c, ok := seen[n]; ok {
		return c
	}
	mode := n.CloneMode
	if mode == CloneInherit {
		mode = inherited
	}
	if mode == CloneNever {
		return nil
	}

	c := &Node{
		ID:           uuid.New(),
		Name:         n.Name,
		Type:         n.Type,
		X:            n.X,
		Y:            n.Y,
		ScaleX:       n.ScaleX,
		ScaleY:       n.ScaleY,
		Rotation:     n.Rotation,
		SkewX:        n.SkewX,
		SkewY:        n.SkewY,
		PivotX:       n.PivotX,
		PivotY:       n.PivotY,
		Width:        n.Width,
		Height:       n.Height,
		Alpha:        n.Alpha,
		Visible:      n.Visible,
		Interactable: n.Interactable,
		Color:        n.Color,
		HitShape:     n.HitShape,
		CloneMode:    n.CloneMode,
		attrs:        copyAttrs(n.attrs),
		zIndex:       copyZ(n.zIndex),

		relative:         identityTransform,
		zTransform:       identityTransform,
		inheritedVisible: true,
		inheritedAlpha:   1,
	}
	if len(n.traits) > 0 {
		c.traits = make([]Trait, len(n.traits))
		for i, t := range n.traits {
			if ct, ok := t.(CloneableTrait); ok {
				c.traits[i] = ct.CloneTrait()
			} else {
				c.traits[i] = t
			}
		}
	}
	for _, b := range n.bindings {
		if b.Cloneable {
			c.bindings = append(c.bindings, b)
		}
	}
	seen[n] = c

	if mode == CloneShallow {
		return c
	}
	for _, child := range n.children {
		cc := child.cloneWith(seen, mode)
		if cc != nil && cc.Parent == nil {
			c.attach(cc, -1)
		}
	}
	return c
}
