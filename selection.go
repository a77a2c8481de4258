package trellis

// Selection is the default SelectionSet. Order of selection is preserved.
type Selection struct {
	nodes []*Node
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Select adds n. Nodes without the Selectable trait are ignored.
func (s *Selection) Select(n *Node) {
	if n == nil || s.IsSelected(n) || !isSelectable(n) {
		return
	}
	s.nodes = append(s.nodes, n)
}

// Unselect removes n.
func (s *Selection) Unselect(n *Node) {
	s.nodes = removeNode(s.nodes, n)
}

// Toggle flips the selection state of n.
func (s *Selection) Toggle(n *Node) {
	if s.IsSelected(n) {
		s.Unselect(n)
		return
	}
	s.Select(n)
}

// IsSelected reports whether n is selected.
func (s *Selection) IsSelected(n *Node) bool {
	for _, x := range s.nodes {
		if x == n {
			return true
		}
	}
	return false
}

// Selection returns the selected nodes matching pred. A nil pred matches all.
func (s *Selection) Selection(pred func(*Node) bool) []*Node {
	var out []*Node
	for _, n := range s.nodes {
		if pred == nil || pred(n) {
			out = append(out, n)
		}
	}
	return out
}

// SelectOnly replaces the selection.
func (s *Selection) SelectOnly(nodes ...*Node) {
	s.nodes = s.nodes[:0]
	for _, n := range nodes {
		s.Select(n)
	}
}

// UnselectAll clears the selection.
func (s *Selection) UnselectAll() {
	clear(s.nodes)
	s.nodes = s.nodes[:0]
}

// Len returns the number of selected nodes.
func (s *Selection) Len() int {
	return len(s.nodes)
}
