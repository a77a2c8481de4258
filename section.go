package trellis

// Section is a subtree root that owns an independent spatial index and an
// independent global transform. The scene root owns the top-level section;
// nested sections ("packs") are created with Scene.NewSection.
//
// Every registered node belongs to exactly one section: the nearest ancestor
// section, or none when detached.
type Section struct {
	root  *Node
	scene *Scene
	index SpatialIndex

	// BasePriority is the resolved z-index of nodes without any override.
	BasePriority int

	layers []*layer
	packs  []*Node // members that root a nested section
}

// NewSection makes root the root of a new section backed by index. Nodes
// already under root move into the new section.
// Panics if root already owns a section.
func (s *Scene) NewSection(root *Node, index SpatialIndex) *Section {
	if root.ownSection != nil {
		panic("trellis: node already roots a section")
	}
	if index == nil {
		index = NewListIndex()
	}
	sec := &Section{root: root, scene: s, index: index}
	children := append([]*Node(nil), root.children...)
	for _, c := range children {
		unregister(c)
	}
	root.ownSection = sec
	if root.section != nil {
		root.section.addPack(root)
	}
	for _, c := range children {
		register(c)
	}
	s.sections = append(s.sections, sec)
	return sec
}

// Root returns the node this section is rooted at.
func (sec *Section) Root() *Node {
	return sec.root
}

// Index returns the section's spatial index.
func (sec *Section) Index() SpatialIndex {
	return sec.index
}

// GlobalTransform returns the section's transform in scene coordinates.
func (sec *Section) GlobalTransform() [6]float64 {
	r := sec.root
	if r.section != nil {
		return multiplyAffine(r.section.GlobalTransform(), r.relative)
	}
	return localChain(r)
}

// Find returns every node whose box contains the section-space point,
// including nodes of nested sections.
func (sec *Section) Find(x, y float64) []*Node {
	out := sec.index.Find(x, y)
	for _, p := range sec.packs {
		lx, ly := transformPoint(invertAffine(p.relative), x, y)
		out = append(out, p.ownSection.Find(lx, ly)...)
	}
	return out
}

// FindGlobal is Find for a scene-space point.
func (sec *Section) FindGlobal(gx, gy float64) []*Node {
	x, y := transformPoint(invertAffine(sec.GlobalTransform()), gx, gy)
	return sec.Find(x, y)
}

func (sec *Section) enter(n *Node) {
	sec.index.Add(n)
	if n.ownSection != nil {
		sec.addPack(n)
	}
	if l, ok := traitOf[SectionListener](n); ok {
		l.SectionEntered(n, sec)
	}
	sec.scene.emit(Event{Type: EventSectionEntered, Node: n, Section: sec})
}

func (sec *Section) exit(n *Node) {
	sec.index.Remove(n)
	sec.packs = removeNode(sec.packs, n)
	if l, ok := traitOf[SectionListener](n); ok {
		l.SectionExited(n, sec)
	}
	sec.scene.emit(Event{Type: EventSectionExited, Node: n, Section: sec})
}

func (sec *Section) addPack(n *Node) {
	for _, p := range sec.packs {
		if p == n {
			return
		}
	}
	sec.packs = append(sec.packs, n)
}

func (sec *Section) reindex(n *Node) {
	sec.index.Remove(n)
	sec.index.Add(n)
}

// --- Registration ---

// register brings n (and its subtree) into its parent's section. It is a
// no-op when n already belongs to that section. Layer placement is resolved
// last, once the section (and its base priority) has been adopted.
func register(n *Node) {
	p := n.Parent
	if p == nil {
		return
	}
	target := p.childSection()
	if target == nil {
		unregister(n)
		return
	}
	if n.section == target {
		return
	}
	n.relative = multiplyAffine(parentRelative(p), computeLocalTransform(n))
	if old := n.section; old != nil {
		old.exit(n)
	}
	n.section = target
	target.enter(n)
	if n.ownSection == nil {
		for _, c := range n.children {
			register(c)
		}
	}
	registerForZIndex(n)
}

// unregister reverses register for n and its subtree.
func unregister(n *Node) {
	old := n.section
	if old == nil {
		return
	}
	old.exit(n)
	n.section = nil
	if n.ownSection == nil {
		for _, c := range n.children {
			unregister(c)
		}
	}
	unregisterForZIndex(n)
}
