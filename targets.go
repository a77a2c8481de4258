package trellis

// dropTarget is the resolution of one dragged node: the owner found under
// its point and the target left after substitution hooks ran.
type dropTarget struct {
	initial   *Node
	effective *Node
}

// computeDragSet builds the nodes moved by a gesture started on n: n, the
// compatible selected nodes and the companions of both, minus nodes with an
// ancestor in the set and nodes refusing the drag. The result is in
// document order.
func computeDragSet(env *Env, n *Node, p PointerEvent) []*Node {
	var cands []*Node
	seen := make(map[*Node]bool)
	add := func(x *Node) {
		if x == nil || seen[x] {
			return
		}
		seen[x] = true
		cands = append(cands, x)
	}
	add(n)
	if env.Selection != nil {
		for _, sel := range env.Selection.Selection(func(x *Node) bool {
			return x != n && moveCompatible(env, x, p)
		}) {
			add(sel)
		}
	}
	for i := 0; i < len(cands); i++ {
		if cp, ok := traitOf[CompanionProvider](cands[i]); ok {
			for _, c := range cp.Companions(cands[i]) {
				add(c)
			}
		}
	}

	accepted := make(map[*Node]bool, len(cands))
	for _, c := range cands {
		if c.Parent == nil {
			continue
		}
		if a, ok := traitOf[DragAccepter](c); ok && !a.AcceptDrag(c, p) {
			continue
		}
		accepted[c] = true
	}
	set := make([]*Node, 0, len(accepted))
	for _, c := range cands {
		if accepted[c] && !hasAncestorIn(c, accepted) {
			set = append(set, c)
		}
	}
	return GetOrder(set)
}

// moveCompatible reports whether a selected node can join a move gesture.
func moveCompatible(env *Env, n *Node, p PointerEvent) bool {
	op, ok := traitOf[OperationProvider](n)
	if !ok {
		return false
	}
	return op.DragOperation(env, n, p) == Operation(env.Move)
}

func hasAncestorIn(n *Node, set map[*Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if set[p] {
			return true
		}
	}
	return false
}

// getTargets resolves a drop target for every node at its last position.
// The glass is hidden for the whole batch. Points the viewport cannot
// address are resolved in a second pass that shifts the viewport so the
// point becomes its origin, queries there and restores the viewport.
func (m *MoveOperation) getTargets(nodes []*Node) map[*Node]dropTarget {
	env := m.env
	out := make(map[*Node]dropTarget, len(nodes))
	env.Glass.HideGlass()
	defer env.Glass.ShowGlass()

	var unresolved []*Node
	for _, n := range nodes {
		s := m.sessions[n]
		sx, sy := env.View.WorldToScreen(s.lastX, s.lastY)
		owner := env.Glass.ElementFromPoint(sx, sy)
		if owner == nil {
			unresolved = append(unresolved, n)
			continue
		}
		out[n] = m.substitute(n, owner)
	}
	if len(unresolved) == 0 {
		return out
	}

	m.log().WithField("count", len(unresolved)).Debug("resolving targets off viewport")
	for _, n := range unresolved {
		s := m.sessions[n]
		saved := env.View.ViewState()
		ox, oy := env.View.ShiftOrigin(s.lastX, s.lastY)
		owner := env.Glass.ElementFromPoint(ox, oy)
		env.View.SetViewState(saved)
		if owner == nil {
			out[n] = dropTarget{}
			continue
		}
		out[n] = m.substitute(n, owner)
	}
	return out
}

// substitute lets the owner redirect the drop, then lets the dragged node
// override the result.
func (m *MoveOperation) substitute(n, owner *Node) dropTarget {
	t := dropTarget{initial: owner, effective: owner}
	if f, ok := traitOf[DropTargetFinder](owner); ok {
		t.effective = f.FindDropTarget(owner, n, m.set)
	}
	if t.effective != nil {
		if c, ok := traitOf[DropTargetChooser](n); ok {
			t.effective = c.ChooseDropTarget(n, t.effective, m.set)
		}
	}
	return t
}

// addressable reports whether t can receive a drop: it must be attached to
// the operation's scene.
func (m *MoveOperation) addressable(t *Node) bool {
	if t == nil || t.disposed {
		return false
	}
	if t.section != nil {
		return m.env.Scene == nil || t.section.scene == m.env.Scene
	}
	return m.env.Scene != nil && t == m.env.Scene.root
}
