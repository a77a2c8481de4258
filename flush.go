package trellis

// markLayersDirty schedules a layer flush for the next idle point.
func (s *Scene) markLayersDirty() {
	if s != nil {
		s.layersDirty = true
	}
}

// Flush runs the deferred layer propagation: every layered node gets the
// transform of its logical parent composed onto its layer, and the
// visibility and opacity of its logical ancestors, since its physical
// ancestors no longer carry them. Halos of nodes taken off the glass are
// disposed here as well. Calling Flush twice in a row is a no-op the second
// time.
//
// Update calls Flush once per frame; tests and hosts without a frame loop
// call it directly.
func (s *Scene) Flush() {
	if s.glass != nil {
		s.glass.disposePending()
	}
	if !s.layersDirty {
		return
	}
	s.layersDirty = false
	for _, sec := range s.sections {
		for _, l := range sec.layers {
			for _, n := range l.node.physChildren {
				propagateToLayered(n)
			}
		}
	}
}

// propagateToLayered computes the layered node's host transform and
// inherited visual state from its logical ancestors, stopping at the
// section root (the layer is painted as part of it).
func propagateToLayered(n *Node) {
	n.zTransform = parentRelative(n.Parent)
	visible := true
	alpha := 1.0
	for p := n.Parent; p != nil && p.ownSection == nil; p = p.Parent {
		if !p.Visible {
			visible = false
		}
		alpha *= p.Alpha
	}
	n.inheritedVisible = visible
	n.inheritedAlpha = alpha
}

// LayersDirty reports whether a flush is pending.
func (s *Scene) LayersDirty() bool {
	return s.layersDirty
}
