package trellis

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	var positive, negative bool
	for i := 0; i < n; i++ {
		x1 := p.Points[i].X
		y1 := p.Points[i].Y
		j := (i + 1) % n
		x2 := p.Points[j].X
		y2 := p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region.
// Uses HitShape if set; otherwise the node's box.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	if n.Width == 0 && n.Height == 0 {
		return false
	}
	return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
}

// --- ListIndex ---

type indexEntry struct {
	node *Node
	box  Rect
}

// ListIndex is the default SpatialIndex: a flat list of section-space boxes
// scanned linearly, refined by each node's hit region.
type ListIndex struct {
	entries []indexEntry
}

// NewListIndex creates an empty ListIndex.
func NewListIndex() *ListIndex {
	return &ListIndex{}
}

// Add records n with its current section bounds, replacing any previous entry.
func (ix *ListIndex) Add(n *Node) {
	box := n.SectionBounds()
	for i := range ix.entries {
		if ix.entries[i].node == n {
			ix.entries[i].box = box
			return
		}
	}
	ix.entries = append(ix.entries, indexEntry{node: n, box: box})
}

// Remove forgets n. No-op if n is not indexed.
func (ix *ListIndex) Remove(n *Node) {
	for i := range ix.entries {
		if ix.entries[i].node == n {
			copy(ix.entries[i:], ix.entries[i+1:])
			ix.entries[len(ix.entries)-1] = indexEntry{}
			ix.entries = ix.entries[:len(ix.entries)-1]
			return
		}
	}
}

// Find returns the indexed nodes whose hit region contains the
// section-space point, in insertion order.
func (ix *ListIndex) Find(x, y float64) []*Node {
	var out []*Node
	for _, e := range ix.entries {
		n := e.node
		if n.HitShape == nil && !e.box.Contains(x, y) {
			continue
		}
		lx, ly := transformPoint(invertAffine(n.relative), x, y)
		if nodeContainsLocal(n, lx, ly) {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of indexed nodes.
func (ix *ListIndex) Len() int {
	return len(ix.entries)
}

// Has reports whether n is indexed.
func (ix *ListIndex) Has(n *Node) bool {
	for _, e := range ix.entries {
		if e.node == n {
			return true
		}
	}
	return false
}

// Bounds returns the recorded box of n.
func (ix *ListIndex) Bounds(n *Node) (Rect, bool) {
	for _, e := range ix.entries {
		if e.node == n {
			return e.box, true
		}
	}
	return Rect{}, false
}
