package trellis

// SwitchCase pairs a predicate with the operation it selects. A nil When
// always matches.
type SwitchCase struct {
	When func(n *Node, p PointerEvent) bool
	Op   Operation
}

// SwitchOperation picks, at press time, the first case whose predicate
// matches and forwards every phase of the gesture to it.
type SwitchOperation struct {
	Cases []SwitchCase

	chosen Operation
}

// ButtonIs matches presses of button b.
func ButtonIs(b MouseButton) func(*Node, PointerEvent) bool {
	return func(_ *Node, p PointerEvent) bool { return p.Button == b }
}

// ModifierHeld matches presses with all of mods held.
func ModifierHeld(mods KeyModifiers) func(*Node, PointerEvent) bool {
	return func(_ *Node, p PointerEvent) bool { return p.Modifiers&mods == mods }
}

func (s *SwitchOperation) Accept(n *Node, p PointerEvent) bool {
	s.chosen = nil
	for _, c := range s.Cases {
		if c.Op == nil || (c.When != nil && !c.When(n, p)) {
			continue
		}
		if c.Op.Accept(n, p) {
			s.chosen = c.Op
			return true
		}
		return false
	}
	return false
}

func (s *SwitchOperation) DoDragStart(n *Node, p PointerEvent) {
	if s.chosen != nil {
		s.chosen.DoDragStart(n, p)
	}
}

func (s *SwitchOperation) DoDragMove(n *Node, p PointerEvent) {
	if s.chosen != nil {
		s.chosen.DoDragMove(n, p)
	}
}

func (s *SwitchOperation) DoDrop(n *Node, p PointerEvent) {
	if s.chosen != nil {
		s.chosen.DoDrop(n, p)
		s.chosen = nil
	}
}

// ParentOperation delegates to the operation of the nearest logical
// ancestor exposing one. The ancestor, not the pressed node, is the node
// the delegate operates on.
type ParentOperation struct {
	Env *Env

	op    Operation
	owner *Node
}

// DelegateToParent is a trait that makes a node forward its gestures to
// its nearest ancestor's operation.
type DelegateToParent struct{}

func (DelegateToParent) DragOperation(env *Env, n *Node, p PointerEvent) Operation {
	return &ParentOperation{Env: env}
}

func (po *ParentOperation) Accept(n *Node, p PointerEvent) bool {
	po.op, po.owner = nil, nil
	for a := n.Parent; a != nil; a = a.Parent {
		prov, ok := traitOf[OperationProvider](a)
		if !ok {
			continue
		}
		op := prov.DragOperation(po.Env, a, p)
		if op == nil {
			continue
		}
		if !op.Accept(a, p) {
			return false
		}
		po.op, po.owner = op, a
		return true
	}
	return false
}

func (po *ParentOperation) DoDragStart(n *Node, p PointerEvent) {
	if po.op != nil {
		po.op.DoDragStart(po.owner, p)
	}
}

func (po *ParentOperation) DoDragMove(n *Node, p PointerEvent) {
	if po.op != nil {
		po.op.DoDragMove(po.owner, p)
	}
}

func (po *ParentOperation) DoDrop(n *Node, p PointerEvent) {
	if po.op != nil {
		po.op.DoDrop(po.owner, p)
		po.op, po.owner = nil, nil
	}
}

// ScrollOperation pans the viewport by the pointer's screen movement.
type ScrollOperation struct {
	View *Viewport

	lastX, lastY float64
}

func (s *ScrollOperation) Accept(n *Node, p PointerEvent) bool {
	return s.View != nil
}

func (s *ScrollOperation) DoDragStart(n *Node, p PointerEvent) {
	s.lastX, s.lastY = p.ScreenX, p.ScreenY
}

func (s *ScrollOperation) DoDragMove(n *Node, p PointerEvent) {
	s.View.Pan(p.ScreenX-s.lastX, p.ScreenY-s.lastY)
	s.lastX, s.lastY = p.ScreenX, p.ScreenY
}

func (s *ScrollOperation) DoDrop(n *Node, p PointerEvent) {}

// AreaSelectOperation selects every Selectable node whose scene bounds lie
// inside the rubber band spanned by the gesture.
type AreaSelectOperation struct {
	Env *Env

	x0, y0 float64
	rect   Rect
	active bool
}

// Rect returns the current rubber band in scene space.
func (a *AreaSelectOperation) Rect() Rect {
	return a.rect
}

// Active reports whether a rubber band is being dragged.
func (a *AreaSelectOperation) Active() bool {
	return a.active
}

func (a *AreaSelectOperation) Accept(n *Node, p PointerEvent) bool {
	return a.Env != nil && a.Env.Selection != nil && a.Env.Scene != nil
}

func (a *AreaSelectOperation) DoDragStart(n *Node, p PointerEvent) {
	a.x0, a.y0 = p.X, p.Y
	a.rect = Rect{X: p.X, Y: p.Y}
	a.active = true
}

func (a *AreaSelectOperation) DoDragMove(n *Node, p PointerEvent) {
	a.rect = rectFromPoints(a.x0, a.y0, p.X, p.Y)
}

func (a *AreaSelectOperation) DoDrop(n *Node, p PointerEvent) {
	a.rect = rectFromPoints(a.x0, a.y0, p.X, p.Y)
	a.active = false
	a.Env.Selection.SelectOnly(selectableWithin(a.Env.Scene.root, a.rect)...)
}

// selectableWithin collects, in document order, the topmost Selectable
// nodes under root whose scene bounds lie inside r.
func selectableWithin(root *Node, r Rect) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.children {
			if !c.Visible {
				continue
			}
			if isSelectable(c) && r.ContainsRect(c.GlobalBounds()) {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func isSelectable(n *Node) bool {
	if _, ok := traitOf[Selectable](n); ok {
		return true
	}
	_, ok := traitOf[*Selectable](n)
	return ok
}
