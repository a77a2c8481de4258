package trellis

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform computes the local affine matrix from the node's
// transform properties. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-PivotX, -PivotY) -> Scale -> Skew -> Rotate -> Translate(X, Y)
func computeLocalTransform(n *Node) [6]float64 {
	sx := n.ScaleX
	sy := n.ScaleY

	sin, cos := math.Sincos(n.Rotation)

	var tanSkewX, tanSkewY float64
	if n.SkewX != 0 {
		tanSkewX = math.Tan(n.SkewX)
	}
	if n.SkewY != 0 {
		tanSkewY = math.Tan(n.SkewY)
	}

	// After Scale * Translate(-pivot):
	//   a=sx, b=0, c=0, d=sy, tx=-px*sx, ty=-py*sy
	//
	// After Skew:
	a := sx
	b := tanSkewY * sx
	c := tanSkewX * sy
	d := sy

	px := n.PivotX
	py := n.PivotY
	preTx := -px*sx - tanSkewX*py*sy
	preTy := -tanSkewY*px*sx - py*sy

	// After Rotate:
	ra := cos*a - sin*b
	rb := sin*a + cos*b
	rc := cos*c - sin*d
	rd := sin*c + cos*d
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	// After Translate(X, Y):
	return [6]float64{ra, rb, rc, rd, rtx + n.X, rty + n.Y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// linearPart drops the translation of m.
func linearPart(m [6]float64) [6]float64 {
	return [6]float64{m[0], m[1], m[2], m[3], 0, 0}
}

// --- Relative / global transforms ---

// LocalTransform returns the node's local affine matrix.
func (n *Node) LocalTransform() [6]float64 {
	return computeLocalTransform(n)
}

// RelativeTransform returns the cached composition of local transforms from
// the owning section's root down to this node. Only meaningful while the
// node belongs to a section.
func (n *Node) RelativeTransform() [6]float64 {
	return n.relative
}

// GlobalTransform returns the node's transform in scene coordinates: the
// section's global transform times the node's relative transform, or the
// chain of local transforms up to the root when the node is detached.
func (n *Node) GlobalTransform() [6]float64 {
	if n.section != nil {
		return multiplyAffine(n.section.GlobalTransform(), n.relative)
	}
	return localChain(n)
}

// localChain multiplies local transforms from the topmost ancestor down to n.
func localChain(n *Node) [6]float64 {
	m := computeLocalTransform(n)
	for p := n.Parent; p != nil; p = p.Parent {
		m = multiplyAffine(computeLocalTransform(p), m)
	}
	return m
}

// parentRelative is the transform children of p are composed onto.
func parentRelative(p *Node) [6]float64 {
	if p == nil || p.ownSection != nil {
		return identityTransform
	}
	return p.relative
}

// refreshRelative recomputes cached relative transforms top-down for n's
// subtree and re-indexes the moved nodes. Nested sections stop the walk:
// their content is relative to their own root.
func refreshRelative(n *Node) {
	if n.section == nil {
		return
	}
	n.relative = multiplyAffine(parentRelative(n.Parent), computeLocalTransform(n))
	n.section.reindex(n)
	if n.ownSection != nil {
		return
	}
	for _, c := range n.children {
		refreshRelative(c)
	}
}

// transformChanged is called by every setter.
func (n *Node) transformChanged() {
	refreshRelative(n)
	if s := n.scene(); s != nil {
		s.markLayersDirty()
	} else if n.onGlass && n.phys != nil && n.phys.ownerGlass != nil {
		n.phys.ownerGlass.refresh(n)
	}
}

// --- Transform property setters ---

// SetPosition sets the node's local X and Y.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.transformChanged()
}

// SetScale sets the node's ScaleX and ScaleY.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX = sx
	n.ScaleY = sy
	n.transformChanged()
}

// SetRotation sets the node's rotation (in radians).
func (n *Node) SetRotation(r float64) {
	n.Rotation = r
	n.transformChanged()
}

// SetSkew sets the node's SkewX and SkewY.
func (n *Node) SetSkew(sx, sy float64) {
	n.SkewX = sx
	n.SkewY = sy
	n.transformChanged()
}

// SetPivot sets the node's PivotX and PivotY.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX = px
	n.PivotY = py
	n.transformChanged()
}

// SetSize sets the node's box.
func (n *Node) SetSize(w, h float64) {
	n.Width = w
	n.Height = h
	n.transformChanged()
}

// SetVisible toggles visibility. Layered descendants pick the change up on
// the next flush.
func (n *Node) SetVisible(v bool) {
	n.Visible = v
	if s := n.scene(); s != nil {
		s.markLayersDirty()
	}
}

// SetAlpha sets the node's alpha.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	if s := n.scene(); s != nil {
		s.markLayersDirty()
	}
}

// MarkDirty refreshes cached transforms after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformChanged()
}

// --- Coordinate conversion ---

// GlobalToLocal converts a scene-space point to this node's local coordinate space.
func (n *Node) GlobalToLocal(gx, gy float64) (lx, ly float64) {
	inv := invertAffine(n.GlobalTransform())
	return transformPoint(inv, gx, gy)
}

// LocalToGlobal converts a local-space point to scene space.
func (n *Node) LocalToGlobal(lx, ly float64) (gx, gy float64) {
	return transformPoint(n.GlobalTransform(), lx, ly)
}

// GlobalPosition returns where the node's position (X, Y) lands in scene
// space, i.e. its pivot point.
func (n *Node) GlobalPosition() (float64, float64) {
	if n.Parent == nil {
		if n.onGlass && n.phys != nil && n.phys.ownerGlass != nil {
			return n.phys.ownerGlass.positionOf(n)
		}
		return n.X, n.Y
	}
	return n.Parent.LocalToGlobal(n.X, n.Y)
}

// SectionBounds returns the node's box in its section's coordinate space.
func (n *Node) SectionBounds() Rect {
	return worldAABB(n.relative, n.Width, n.Height)
}

// GlobalBounds returns the node's box in scene space.
func (n *Node) GlobalBounds() Rect {
	return worldAABB(n.GlobalTransform(), n.Width, n.Height)
}

// worldAABB computes the axis-aligned bounding box for a rectangle of size (w, h)
// transformed by the given affine matrix.
func worldAABB(transform [6]float64, w, h float64) Rect {
	a, b, cc, d, tx, ty := transform[0], transform[2], transform[1], transform[3], transform[4], transform[5]

	// Transform four corners: (0,0), (w,0), (w,h), (0,h)
	x0, y0 := tx, ty
	x1, y1 := a*w+tx, cc*w+ty
	x2, y2 := a*w+b*h+tx, cc*w+d*h+ty
	x3, y3 := b*h+tx, d*h+ty

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
