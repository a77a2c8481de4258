package trellis

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

// Scene is the top-level object that owns the node tree, its sections, the
// glass, the viewport, the drag controller and the default collaborators.
type Scene struct {
	root     *Node
	section  *Section
	sections []*Section

	glass     *Surface
	view      *Viewport
	history   *History
	selection *Selection
	env       *Env
	drag      *DragController

	// background is the operation started by presses that hit no draggable node.
	background Operation

	handlers handlerRegistry
	store    EntityStore
	logger   logrus.FieldLogger
	debug    bool

	layersDirty bool

	// Input
	pointer      pointerState
	injectQueue  []syntheticPointerEvent
	dragDeadZone float64
	script       *ScriptRunner

	tweens []*TweenGroup

	// Render
	commands   []paintCommand
	whitePixel *ebiten.Image
	ClearColor Color
}

// NewScene creates a new scene with a root container that roots the
// top-level section and accepts drops.
func NewScene() *Scene {
	s := &Scene{
		logger:     logrus.StandardLogger(),
		history:    NewHistory(0),
		selection:  NewSelection(),
		view:       NewViewport(Rect{Width: 640, Height: 480}),
		ClearColor: Color{0.1, 0.1, 0.12, 1},
	}
	root := NewContainer("root", Container{})
	root.Interactable = true
	s.root = root
	s.section = s.NewSection(root, NewListIndex())
	s.glass = newSurface(s)
	s.env = NewEnv(s, s.glass, s.view, s.history, s.selection)
	s.history.SetLogger(s.log())
	s.drag = NewDragController(s.log())
	s.background = &SwitchOperation{
		Cases: []SwitchCase{
			{When: ButtonIs(MouseButtonMiddle), Op: &ScrollOperation{View: s.view}},
			{When: ModifierHeld(ModAlt), Op: &ScrollOperation{View: s.view}},
			{Op: &AreaSelectOperation{Env: s.env}},
		},
	}
	return s
}

// NewSceneWithConfig creates a scene and applies cfg to it.
func NewSceneWithConfig(cfg Config) *Scene {
	s := NewScene()
	s.ApplyConfig(cfg)
	return s
}

// ApplyConfig applies the tunables of cfg.
func (s *Scene) ApplyConfig(cfg Config) {
	s.dragDeadZone = cfg.DragDeadZone
	s.drag.DeadZone = cfg.DragDeadZone
	s.section.BasePriority = cfg.BasePriority
	s.env.ReadOnly = cfg.ReadOnly
	s.history.limit = cfg.UndoLimit
	if cfg.ViewportWidth > 0 && cfg.ViewportHeight > 0 {
		s.view.Rect = Rect{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight}
		s.view.X, s.view.Y = cfg.ViewportWidth/2, cfg.ViewportHeight/2
		s.view.MarkDirty()
	}
	s.SetLogger(newLogger(cfg))
	s.SetDebugMode(cfg.Debug)
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// RootSection returns the top-level section.
func (s *Scene) RootSection() *Section {
	return s.section
}

// Sections returns every section created in this scene. The returned slice
// MUST NOT be mutated.
func (s *Scene) Sections() []*Section {
	return s.sections
}

// Glass returns the scene's glass surface.
func (s *Scene) Glass() *Surface {
	return s.glass
}

// Viewport returns the scene's viewport.
func (s *Scene) Viewport() *Viewport {
	return s.view
}

// History returns the default undo log.
func (s *Scene) History() *History {
	return s.history
}

// Selection returns the default selection set.
func (s *Scene) Selection() *Selection {
	return s.selection
}

// Env returns the collaborators handed to drag operations.
func (s *Scene) Env() *Env {
	return s.env
}

// Controller returns the pointer-gesture controller.
func (s *Scene) Controller() *DragController {
	return s.drag
}

// SetBackgroundOperation sets the operation started by presses that hit
// no draggable node. Nil disables background gestures.
func (s *Scene) SetBackgroundOperation(op Operation) {
	s.background = op
}

// SetDragDeadZone sets the distance the pointer must travel before a press
// becomes a drag.
func (s *Scene) SetDragDeadZone(d float64) {
	s.dragDeadZone = d
	s.drag.DeadZone = d
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame timing stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Update processes input, advances the viewport and animations and
// flushes deferred work.
func (s *Scene) Update() {
	s.step(float32(1.0 / float64(ebiten.TPS())))
}

func (s *Scene) step(dt float32) {
	s.view.update(dt)
	if s.script != nil {
		s.script.step(s)
	}
	s.processInput()
	s.advanceTweens(dt)
	s.Flush()
}

// Reveal scrolls the viewport so n becomes visible.
func (s *Scene) Reveal(n *Node, duration float32) {
	s.view.Reveal(n.GlobalBounds(), duration)
}

// topmostAt returns the visible, interactable node painted topmost at the
// scene point. When nothing is hit, the root is returned if it has no box
// or its box contains the point.
func (s *Scene) topmostAt(wx, wy float64) *Node {
	hits := s.section.FindGlobal(wx, wy)
	var best *Node
	bestRank := -1
	if len(hits) > 0 {
		ranks := s.paintRanks()
		for _, h := range hits {
			if !h.Interactable || !visibleChain(h) {
				continue
			}
			if r, ok := ranks[h]; ok && r > bestRank {
				best, bestRank = h, r
			}
		}
	}
	if best != nil {
		return best
	}
	r := s.root
	if r.Width == 0 && r.Height == 0 {
		return r
	}
	if r.GlobalBounds().Contains(wx, wy) {
		return r
	}
	return nil
}

// PaintOrder returns every scene node in the order it is painted, back to
// front, walking the physical tree. Synthetic layer nodes are skipped.
func (s *Scene) PaintOrder() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Type != NodeTypeLayer {
			out = append(out, n)
		}
		for _, c := range n.PhysicalChildren() {
			walk(c)
		}
	}
	walk(s.root)
	return out
}

func (s *Scene) paintRanks() map[*Node]int {
	order := s.PaintOrder()
	ranks := make(map[*Node]int, len(order))
	for i, n := range order {
		ranks[n] = i
	}
	return ranks
}

// visibleChain reports whether n and all its logical ancestors are visible.
func visibleChain(n *Node) bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}
