package trellis

import "sort"

// layer is a synthetic stacking bucket holding every layered node of one
// section that shares a resolved priority. Its node is painted as part of
// the section root: layers below the base priority before the root's own
// content, the others after it.
type layer struct {
	node     *Node
	priority int
	section  *Section
}

func newLayerNode(priority int) *Node {
	n := &Node{Name: "layer", Type: NodeTypeLayer}
	nodeDefaults(n)
	n.zIndex = &priority
	return n
}

// layerFor returns the layer for priority, creating it in sorted position
// when absent.
func (sec *Section) layerFor(priority int) *layer {
	i := sort.Search(len(sec.layers), func(i int) bool {
		return sec.layers[i].priority >= priority
	})
	if i < len(sec.layers) && sec.layers[i].priority == priority {
		return sec.layers[i]
	}
	l := &layer{node: newLayerNode(priority), priority: priority, section: sec}
	l.node.phys = sec.root
	sec.layers = append(sec.layers, nil)
	copy(sec.layers[i+1:], sec.layers[i:])
	sec.layers[i] = l
	return l
}

func (sec *Section) dropLayer(l *layer) {
	for i, x := range sec.layers {
		if x == l {
			copy(sec.layers[i:], sec.layers[i+1:])
			sec.layers[len(sec.layers)-1] = nil
			sec.layers = sec.layers[:len(sec.layers)-1]
			break
		}
	}
	l.node.phys = nil
}

// LayerPriorities returns the priorities of the section's layers, ascending.
func (sec *Section) LayerPriorities() []int {
	out := make([]int, len(sec.layers))
	for i, l := range sec.layers {
		out[i] = l.priority
	}
	return out
}

// LayerNodes returns the nodes hosted on the layer for priority, in
// stacking order, or nil when no such layer exists.
func (sec *Section) LayerNodes(priority int) []*Node {
	for _, l := range sec.layers {
		if l.priority == priority {
			return l.node.physChildren
		}
	}
	return nil
}

// --- Priorities ---

// SetZIndex sets the node's priority override and restacks its subtree.
func (n *Node) SetZIndex(z int) {
	if n.zIndex != nil && *n.zIndex == z {
		return
	}
	n.zIndex = &z
	refreshZIndex(n)
}

// ClearZIndex removes the node's priority override.
func (n *Node) ClearZIndex() {
	if n.zIndex == nil {
		return
	}
	n.zIndex = nil
	refreshZIndex(n)
}

// ZIndex returns the node's own override, if any.
func (n *Node) ZIndex() (int, bool) {
	if n.zIndex == nil {
		return 0, false
	}
	return *n.zIndex, true
}

// ResolvedPriority returns the node's own override, else the override of
// the nearest logical ancestor within the same section, else the section's
// base priority.
func (n *Node) ResolvedPriority() int {
	p := n
	for {
		if p.zIndex != nil {
			return *p.zIndex
		}
		parent := p.Parent
		if parent == nil || parent.ownSection != nil {
			break
		}
		p = parent
	}
	if n.section != nil {
		return n.section.BasePriority
	}
	return 0
}

// homePriority is the priority of the place n occupies when not layered:
// its logical parent's stacking level.
func homePriority(n *Node) int {
	p := n.Parent
	if p.ownSection != nil {
		return p.ownSection.BasePriority
	}
	return p.ResolvedPriority()
}

func refreshZIndex(n *Node) {
	if n.section == nil {
		return
	}
	registerForZIndex(n)
	if n.ownSection != nil {
		return
	}
	for _, c := range n.children {
		refreshZIndex(c)
	}
}

// registerForZIndex moves n onto the layer of its resolved priority when it
// differs from its parent's stacking level, and back home when it no longer
// does.
func registerForZIndex(n *Node) {
	if n.section == nil || n.Parent == nil || n.onGlass {
		return
	}
	want := n.ResolvedPriority()
	if want == homePriority(n) {
		unregisterForZIndex(n)
		return
	}
	if n.onLayer != nil && n.onLayer.priority == want {
		return
	}
	putOnLayer(n, want)
}

// putOnLayer physically hosts n on the layer for priority, at the position
// its document order dictates.
func putOnLayer(n *Node, priority int) {
	sec := n.section
	l := sec.layerFor(priority)
	if n.phys == nil {
		l.node.physChildren = append(l.node.physChildren, n)
	} else {
		physRemove(n)
		pos := GetPosition(n, l.node.physChildren)
		l.node.physChildren = insertNode(l.node.physChildren, pos, n)
	}
	n.phys = l.node
	n.onLayer = l
	sec.scene.markLayersDirty()
}

// unregisterForZIndex takes n off its layer, destroying the layer when it
// becomes empty, and puts n back under its logical parent in document order.
func unregisterForZIndex(n *Node) {
	l := n.onLayer
	if l == nil {
		return
	}
	physRemove(n)
	n.zTransform = identityTransform
	n.inheritedVisible = true
	n.inheritedAlpha = 1
	if n.Parent != nil {
		physInsert(n.Parent, n)
	}
	l.section.scene.markLayersDirty()
}

// --- Physical tree ---

func physInsert(parent, n *Node) {
	pos := GetPosition(n, parent.physChildren)
	parent.physChildren = insertNode(parent.physChildren, pos, n)
	n.phys = parent
}

func physRemove(n *Node) {
	p := n.phys
	if p == nil {
		return
	}
	p.physChildren = removeNode(p.physChildren, n)
	n.phys = nil
	if l := n.onLayer; l != nil {
		n.onLayer = nil
		if len(l.node.physChildren) == 0 {
			l.section.dropLayer(l)
		}
	}
}

// PhysicalChildren returns the nodes painted directly under n, in stacking
// order. For a section root this includes its layers.
func (n *Node) PhysicalChildren() []*Node {
	sec := n.ownSection
	if sec == nil || len(sec.layers) == 0 {
		return n.physChildren
	}
	out := make([]*Node, 0, len(n.physChildren)+len(sec.layers))
	i := 0
	for ; i < len(sec.layers) && sec.layers[i].priority < sec.BasePriority; i++ {
		out = append(out, sec.layers[i].node)
	}
	out = append(out, n.physChildren...)
	for ; i < len(sec.layers); i++ {
		out = append(out, sec.layers[i].node)
	}
	return out
}
