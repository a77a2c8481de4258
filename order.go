package trellis

import "sort"

// orderPath returns the sequence of sibling indices from n up to its root:
// n's index within its parent first, the root's child last.
//
// Indices are taken in the logical tree. For nodes that are not layered the
// logical and physical indices agree; for layered nodes the logical index is
// the one that describes where the node belongs in the document.
func orderPath(n *Node) []int {
	var path []int
	for p := n; p.Parent != nil; p = p.Parent {
		path = append(path, p.Parent.IndexOf(p))
	}
	return path
}

// compareOrderPaths compares two order paths starting from the root end.
// The first differing pair decides; a path exhausted first sorts first.
func compareOrderPaths(a, b []int) int {
	i, j := len(a)-1, len(b)-1
	for i >= 0 && j >= 0 {
		if a[i] != b[j] {
			if a[i] < b[j] {
				return -1
			}
			return 1
		}
		i--
		j--
	}
	switch {
	case i < 0 && j < 0:
		return 0
	case i < 0:
		return -1
	default:
		return 1
	}
}

// CompareOrder returns -1, 0 or 1 depending on whether a comes before, at
// or after b in document order.
func CompareOrder(a, b *Node) int {
	if a == b {
		return 0
	}
	return compareOrderPaths(orderPath(a), orderPath(b))
}

// GetOrder returns nodes sorted in document order. The input is not modified.
func GetOrder(nodes []*Node) []*Node {
	type keyed struct {
		n    *Node
		path []int
	}
	ks := make([]keyed, len(nodes))
	for i, n := range nodes {
		ks[i] = keyed{n: n, path: orderPath(n)}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return compareOrderPaths(ks[i].path, ks[j].path) < 0
	})
	out := make([]*Node, len(ks))
	for i, k := range ks {
		out[i] = k.n
	}
	return out
}

// GetPosition returns the index at which n must be inserted into sorted
// (already in document order) to keep it sorted. Binary search.
func GetPosition(n *Node, sorted []*Node) int {
	path := orderPath(n)
	return sort.Search(len(sorted), func(i int) bool {
		return compareOrderPaths(path, orderPath(sorted[i])) < 0
	})
}
