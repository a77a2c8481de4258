package trellis

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values of a Node simultaneously. Values are
// written through the node's setters, so cached transforms, index entries
// and layer propagation stay consistent while the animation runs. If the
// target node is disposed, the group stops immediately.
//
// Groups registered with Scene.Animate are advanced by Scene.Update;
// others are advanced by calling Update directly.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(v [4]float64)
	target *Node
	Done   bool
}

func newTweenGroup(n *Node, from, to []float64, duration float32, fn ease.TweenFunc, apply func(v [4]float64)) *TweenGroup {
	if fn == nil {
		fn = ease.OutQuad
	}
	g := &TweenGroup{count: len(from), target: n, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds and applies the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(vals)
}

// Node returns the animated node.
func (g *TweenGroup) Node() *Node {
	return g.target
}

// TweenPosition animates the node's position to (toX, toY).
func TweenPosition(n *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(n, []float64{n.X, n.Y}, []float64{toX, toY}, duration, fn, func(v [4]float64) {
		n.SetPosition(v[0], v[1])
	})
}

// TweenScale animates the node's scale factors.
func TweenScale(n *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(n, []float64{n.ScaleX, n.ScaleY}, []float64{toSX, toSY}, duration, fn, func(v [4]float64) {
		n.SetScale(v[0], v[1])
	})
}

// TweenRotation animates the node's rotation, in radians.
func TweenRotation(n *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(n, []float64{n.Rotation}, []float64{to}, duration, fn, func(v [4]float64) {
		n.SetRotation(v[0])
	})
}

// TweenAlpha animates the node's opacity.
func TweenAlpha(n *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(n, []float64{n.Alpha}, []float64{to}, duration, fn, func(v [4]float64) {
		n.SetAlpha(v[0])
	})
}

// TweenColor animates all four components of the node's fill color.
func TweenColor(n *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := n.Color
	return newTweenGroup(n, []float64{c.R, c.G, c.B, c.A}, []float64{to.R, to.G, to.B, to.A}, duration, fn, func(v [4]float64) {
		n.Color = Color{v[0], v[1], v[2], v[3]}
	})
}

// Animate registers g to be advanced by Update until it is done. A node
// being dragged is not animated; groups targeting it wait for the drop.
func (s *Scene) Animate(g *TweenGroup) {
	s.tweens = append(s.tweens, g)
}

// Animating returns the number of registered groups that are not done.
func (s *Scene) Animating() int {
	n := 0
	for _, g := range s.tweens {
		if !g.Done {
			n++
		}
	}
	return n
}

// advanceTweens updates every registered group and drops finished ones.
func (s *Scene) advanceTweens(dt float32) {
	if len(s.tweens) == 0 {
		return
	}
	live := s.tweens[:0]
	for _, g := range s.tweens {
		if g.target != nil && s.glass.Hosts(g.target) {
			live = append(live, g)
			continue
		}
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(s.tweens[len(live):])
	s.tweens = live
}
