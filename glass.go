package trellis

// glassEntry tracks one node hosted on the glass.
type glassEntry struct {
	node    *Node
	support *Node
	x, y    float64
	halo    *Node
}

// haloColor is the tint of the drop shadow drawn under dragged nodes.
var haloColor = Color{R: 0.2, G: 0.4, B: 1, A: 0.25}

// Surface is the default Glass: an overlay painted above the whole scene.
// A node put on the glass is physically hosted by the surface while it has
// no logical parent. The node's own X and Y are never touched; its
// placement is carried by the transform the surface computes from the
// support node.
type Surface struct {
	scene   *Scene
	root    *Node
	entries map[*Node]*glassEntry
	hidden  bool

	// halos of removed entries wait for the next flush before disposal so
	// a hit-test running in the same turn never sees a half-torn overlay.
	pending []*Node
}

func newSurface(s *Scene) *Surface {
	root := &Node{Name: "glass", Type: NodeTypeGlass}
	nodeDefaults(root)
	g := &Surface{scene: s, root: root, entries: make(map[*Node]*glassEntry)}
	root.ownerGlass = g
	return g
}

// Root returns the synthetic node the glass paints under.
func (g *Surface) Root() *Node {
	return g.root
}

// PutElementOnGlass hosts n on the glass so that its position lands at the
// scene point (x, y), oriented like support. n must be logically detached.
func (g *Surface) PutElementOnGlass(n, support *Node, x, y float64) {
	if n.Parent != nil {
		violation("PutElementOnGlass", n, "node still has a logical parent")
	}
	if _, ok := g.entries[n]; ok {
		g.MoveElementOnGlass(n, support, x, y)
		return
	}
	physRemove(n)
	e := &glassEntry{node: n, support: support, x: x, y: y}
	e.halo = NewShape("halo", n.Width, n.Height)
	e.halo.Interactable = false
	e.halo.Color = haloColor
	e.halo.phys = g.root
	g.root.physChildren = append(g.root.physChildren, e.halo)

	n.onGlass = true
	n.phys = g.root
	g.root.physChildren = append(g.root.physChildren, n)
	g.entries[n] = e
	g.refresh(n)
}

// MoveElementOnGlass moves a hosted node to the scene point (x, y). A nil
// support keeps the current one.
func (g *Surface) MoveElementOnGlass(n, support *Node, x, y float64) {
	e, ok := g.entries[n]
	if !ok {
		return
	}
	if support != nil {
		e.support = support
	}
	e.x, e.y = x, y
	g.refresh(n)
}

// RemoveElementFromGlass takes n off the glass. Its halo is hidden at once
// and disposed on the next flush.
func (g *Surface) RemoveElementFromGlass(n *Node) {
	e, ok := g.entries[n]
	if !ok {
		return
	}
	delete(g.entries, n)
	g.root.physChildren = removeNode(g.root.physChildren, n)
	n.phys = nil
	n.onGlass = false
	n.zTransform = identityTransform
	e.halo.Visible = false
	g.pending = append(g.pending, e.halo)
	if g.scene != nil {
		g.scene.markLayersDirty()
	}
}

// disposePending releases halos of removed entries. Idempotent.
func (g *Surface) disposePending() {
	for _, h := range g.pending {
		g.root.physChildren = removeNode(g.root.physChildren, h)
		h.phys = nil
		h.Dispose()
	}
	clear(g.pending)
	g.pending = g.pending[:0]
}

// HideGlass makes the glass transparent to hit-testing and painting.
func (g *Surface) HideGlass() { g.hidden = true }

// ShowGlass undoes HideGlass.
func (g *Surface) ShowGlass() { g.hidden = false }

// Hidden reports whether the glass is hidden.
func (g *Surface) Hidden() bool { return g.hidden }

// Hosts reports whether n is on the glass.
func (g *Surface) Hosts(n *Node) bool {
	_, ok := g.entries[n]
	return ok
}

// Support returns the support node of a hosted node.
func (g *Surface) Support(n *Node) *Node {
	if e, ok := g.entries[n]; ok {
		return e.support
	}
	return nil
}

// HoveredElements returns the hosted nodes currently supported by support.
func (g *Surface) HoveredElements(support *Node) []*Node {
	var out []*Node
	for _, n := range g.root.physChildren {
		if e, ok := g.entries[n]; ok && e.support == support {
			out = append(out, n)
		}
	}
	return out
}

// ElementFromPoint returns the topmost node under the screen point: a
// hosted node when the glass is shown, else the topmost scene node in paint
// order. Points outside the viewport resolve to nothing; points inside it
// that hit nothing resolve to the scene root.
func (g *Surface) ElementFromPoint(sx, sy float64) *Node {
	s := g.scene
	if !s.view.ContainsScreen(sx, sy) {
		return nil
	}
	wx, wy := s.view.ScreenToWorld(sx, sy)
	if !g.hidden {
		kids := g.root.physChildren
		for i := len(kids) - 1; i >= 0; i-- {
			n := kids[i]
			if _, ok := g.entries[n]; !ok {
				continue
			}
			if hit := glassHit(n, n.zTransform, wx, wy); hit != nil {
				return hit
			}
		}
	}
	return s.topmostAt(wx, wy)
}

// glassHit hit-tests a hosted subtree, topmost descendant first.
func glassHit(n *Node, parent [6]float64, wx, wy float64) *Node {
	if !n.Visible {
		return nil
	}
	world := multiplyAffine(parent, computeLocalTransform(n))
	for i := len(n.children) - 1; i >= 0; i-- {
		if hit := glassHit(n.children[i], world, wx, wy); hit != nil {
			return hit
		}
	}
	if !n.Interactable {
		return nil
	}
	lx, ly := transformPoint(invertAffine(world), wx, wy)
	if nodeContainsLocal(n, lx, ly) {
		return n
	}
	return nil
}

// refresh recomputes the hosting transform of n: the linear part of the
// support's global transform, translated so n's position lands on the
// entry point.
func (g *Surface) refresh(n *Node) {
	e, ok := g.entries[n]
	if !ok {
		return
	}
	lin := identityTransform
	if e.support != nil {
		lin = linearPart(e.support.GlobalTransform())
	}
	ax, ay := transformPoint(lin, n.X, n.Y)
	lin[4] = e.x - ax
	lin[5] = e.y - ay
	n.zTransform = lin

	e.halo.Width, e.halo.Height = n.Width, n.Height
	e.halo.zTransform = multiplyAffine(lin, computeLocalTransform(n))
}

// positionOf returns the scene point a hosted node's position is pinned to.
func (g *Surface) positionOf(n *Node) (float64, float64) {
	if e, ok := g.entries[n]; ok {
		return e.x, e.y
	}
	return n.X, n.Y
}
