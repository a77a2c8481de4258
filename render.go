package trellis

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// color32 is a compact RGBA color using float32, for paint commands only.
type color32 struct {
	R, G, B, A float32
}

// paintCommand is one filled quad emitted during traversal. Transform maps
// the unit square onto the node's box in screen space.
type paintCommand struct {
	node      *Node
	Transform [6]float32
	Color     color32
}

// affine32 converts a [6]float64 affine matrix to [6]float32.
func affine32(m [6]float64) [6]float32 {
	return [6]float32{float32(m[0]), float32(m[1]), float32(m[2]), float32(m[3]), float32(m[4]), float32(m[5])}
}

// collectPaint fills s.commands with the paint list for view: the scene
// root's physical tree first, then the glass unless it is hidden.
func (s *Scene) collectPaint(view [6]float64) []paintCommand {
	s.commands = s.commands[:0]
	s.traverse(s.root, view, 1)
	if !s.glass.hidden {
		s.traverse(s.glass.root, view, 1)
	}
	return s.commands
}

// traverse walks the physical tree depth-first. A node's transform is its
// physical parent's, times its host transform (identity unless layered or
// on the glass), times its local transform.
func (s *Scene) traverse(n *Node, parentTransform [6]float64, parentAlpha float64) {
	if !n.Visible || !n.inheritedVisible {
		return
	}
	world := multiplyAffine(parentTransform, multiplyAffine(n.zTransform, computeLocalTransform(n)))
	alpha := parentAlpha * n.inheritedAlpha * n.Alpha

	if n.Type == NodeTypeShape && n.Width > 0 && n.Height > 0 && alpha > 0 {
		box := multiplyAffine(world, [6]float64{n.Width, 0, 0, n.Height, 0, 0})
		s.commands = append(s.commands, paintCommand{
			node:      n,
			Transform: affine32(box),
			Color:     color32{float32(n.Color.R), float32(n.Color.G), float32(n.Color.B), float32(n.Color.A * alpha)},
		})
	}

	for _, c := range n.PhysicalChildren() {
		s.traverse(c, world, alpha)
	}
}

// Draw flushes pending work, then paints the scene and the glass through
// the viewport onto screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	var stats debugStats
	var t0 time.Time

	if s.debug {
		t0 = time.Now()
	}
	s.Flush()
	if s.debug {
		stats.flushTime = time.Since(t0)
		t0 = time.Now()
	}

	cmds := s.collectPaint(s.view.Matrix())

	if s.debug {
		stats.traverseTime = time.Since(t0)
		stats.commandCount = len(cmds)
		stats.layerCount = s.countLayers()
		t0 = time.Now()
	}

	screen.Fill(s.ClearColor.toRGBA())
	s.submit(screen, cmds)

	if s.debug {
		stats.submitTime = time.Since(t0)
		s.debugLog(stats)
	}
}

// submit draws each command as a scaled white pixel.
func (s *Scene) submit(target *ebiten.Image, cmds []paintCommand) {
	if s.whitePixel == nil {
		s.whitePixel = ebiten.NewImage(1, 1)
		s.whitePixel.Fill(color.White)
	}
	var op ebiten.DrawImageOptions
	for i := range cmds {
		cmd := &cmds[i]
		op.GeoM.Reset()
		op.GeoM.Concat(commandGeoM(cmd))
		op.ColorScale.Reset()
		a := cmd.Color.A
		op.ColorScale.Scale(cmd.Color.R*a, cmd.Color.G*a, cmd.Color.B*a, a)
		target.DrawImage(s.whitePixel, &op)
	}
}

// commandGeoM converts a command's transform into an ebiten.GeoM.
func commandGeoM(cmd *paintCommand) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, float64(cmd.Transform[0]))
	m.SetElement(1, 0, float64(cmd.Transform[1]))
	m.SetElement(0, 1, float64(cmd.Transform[2]))
	m.SetElement(1, 1, float64(cmd.Transform[3]))
	m.SetElement(0, 2, float64(cmd.Transform[4]))
	m.SetElement(1, 2, float64(cmd.Transform[5]))
	return m
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	clamp := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: clamp(c.A),
	}
}

// --- Run loop ---

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
}

// gameShell adapts a Scene to ebiten.Game.
type gameShell struct {
	scene *Scene
	w, h  int
}

func (g *gameShell) Update() error {
	g.scene.Update()
	return nil
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *gameShell) Layout(_, _ int) (int, int) {
	return g.w, g.h
}

// Run opens a window and drives the scene until the window closes.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = int(scene.view.Rect.Width)
	}
	if cfg.Height <= 0 {
		cfg.Height = int(scene.view.Rect.Height)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	return ebiten.RunGame(&gameShell{scene: scene, w: cfg.Width, h: cfg.Height})
}
