package trellis

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for viewport X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Viewport controls the view into the scene: position, zoom, rotation, and
// the screen rectangle it renders into. It converts between scene and screen
// coordinates and can be shifted temporarily so an off-screen point becomes
// addressable by hit-testing.
type Viewport struct {
	// X and Y are the scene-space position the viewport centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the view rotation in radians (clockwise).
	Rotation float64
	// Rect is the screen-space rectangle this viewport renders into.
	Rect Rect

	// BoundsEnabled clamps the position so the visible area stays within Bounds.
	BoundsEnabled bool
	// Bounds is the scene-space rectangle the viewport is clamped to when
	// BoundsEnabled is true.
	Bounds Rect

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	scrollTween *scrollAnim
}

// NewViewport creates a Viewport over rect, centered so that scene and
// screen coordinates coincide.
func NewViewport(rect Rect) *Viewport {
	return &Viewport{
		X:     rect.X + rect.Width/2,
		Y:     rect.Y + rect.Height/2,
		Zoom:  1.0,
		Rect:  rect,
		dirty: true,
	}
}

// ScrollTo animates the viewport to the given scene position over duration seconds.
func (v *Viewport) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.OutQuad
	}
	v.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(v.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(v.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (v *Viewport) Scrolling() bool {
	return v.scrollTween != nil
}

// Pan moves the view by a screen-space delta, the way dragging the
// background does.
func (v *Viewport) Pan(dsx, dsy float64) {
	v.computeViewMatrix()
	// Screen delta to scene delta: linear part of the inverse view.
	inv := v.invViewMatrix
	dx := inv[0]*dsx + inv[2]*dsy
	dy := inv[1]*dsx + inv[3]*dsy
	v.X -= dx
	v.Y -= dy
	if v.BoundsEnabled {
		v.clampToBounds()
	}
	v.dirty = true
}

// Reveal scrolls so that r becomes visible, when it is not already.
func (v *Viewport) Reveal(r Rect, duration float32) {
	if v.VisibleBounds().ContainsRect(r) {
		return
	}
	cx, cy := r.X+r.Width/2, r.Y+r.Height/2
	if duration <= 0 {
		v.X, v.Y = cx, cy
		v.dirty = true
		return
	}
	v.ScrollTo(cx, cy, duration, ease.OutQuad)
}

// SetBounds enables bounds clamping.
func (v *Viewport) SetBounds(bounds Rect) {
	v.BoundsEnabled = true
	v.Bounds = bounds
}

// ClearBounds disables bounds clamping.
func (v *Viewport) ClearBounds() {
	v.BoundsEnabled = false
}

// update advances scroll and bounds clamping. Called from Scene.Update().
func (v *Viewport) update(dt float32) {
	prevX, prevY := v.X, v.Y
	prevZoom, prevRot := v.Zoom, v.Rotation

	if v.scrollTween != nil {
		if !v.scrollTween.doneX {
			val, done := v.scrollTween.tweenX.Update(dt)
			v.X = float64(val)
			v.scrollTween.doneX = done
		}
		if !v.scrollTween.doneY {
			val, done := v.scrollTween.tweenY.Update(dt)
			v.Y = float64(val)
			v.scrollTween.doneY = done
		}
		if v.scrollTween.doneX && v.scrollTween.doneY {
			v.scrollTween = nil
		}
	}

	if v.BoundsEnabled {
		v.clampToBounds()
	}

	if v.X != prevX || v.Y != prevY || v.Zoom != prevZoom || v.Rotation != prevRot {
		v.dirty = true
	}
}

// clampToBounds restricts the position so the visible area stays within Bounds.
func (v *Viewport) clampToBounds() {
	halfW := v.Rect.Width / (2 * v.Zoom)
	halfH := v.Rect.Height / (2 * v.Zoom)

	minX := v.Bounds.X + halfW
	maxX := v.Bounds.X + v.Bounds.Width - halfW
	minY := v.Bounds.Y + halfH
	maxY := v.Bounds.Y + v.Bounds.Height - halfH

	// If bounds are smaller than the visible area, center.
	if minX > maxX {
		v.X = v.Bounds.X + v.Bounds.Width/2
	} else {
		v.X = math.Max(minX, math.Min(v.X, maxX))
	}
	if minY > maxY {
		v.Y = v.Bounds.Y + v.Bounds.Height/2
	} else {
		v.Y = math.Max(minY, math.Min(v.Y, maxY))
	}
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
// where cx, cy = center of Rect.
func (v *Viewport) computeViewMatrix() [6]float64 {
	if !v.dirty {
		return v.viewMatrix
	}
	v.dirty = false

	cx := v.Rect.X + v.Rect.Width/2
	cy := v.Rect.Y + v.Rect.Height/2

	cos := math.Cos(-v.Rotation)
	sin := math.Sin(-v.Rotation)
	z := v.Zoom

	a := z * cos
	b := -z * sin
	cc := z * sin
	d := z * cos
	tx := cx + z*(-cos*v.X+sin*v.Y)
	ty := cy + z*(-sin*v.X-cos*v.Y)

	v.viewMatrix = [6]float64{a, cc, b, d, tx, ty}
	v.invViewMatrix = invertAffine(v.viewMatrix)
	return v.viewMatrix
}

// WorldToScreen converts scene coordinates to screen coordinates.
func (v *Viewport) WorldToScreen(wx, wy float64) (sx, sy float64) {
	v.computeViewMatrix()
	sx, sy = transformPoint(v.viewMatrix, wx, wy)
	return
}

// ScreenToWorld converts screen coordinates to scene coordinates.
func (v *Viewport) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	v.computeViewMatrix()
	wx, wy = transformPoint(v.invViewMatrix, sx, sy)
	return
}

// ContainsScreen reports whether the screen point lies inside Rect.
func (v *Viewport) ContainsScreen(sx, sy float64) bool {
	return v.Rect.Contains(sx, sy)
}

// VisibleBounds returns the axis-aligned bounding rect of the visible area
// in scene space.
func (v *Viewport) VisibleBounds() Rect {
	v.computeViewMatrix()
	inv := v.invViewMatrix

	vx := v.Rect.X
	vy := v.Rect.Y
	vr := vx + v.Rect.Width
	vb := vy + v.Rect.Height

	x0, y0 := transformPoint(inv, vx, vy)
	x1, y1 := transformPoint(inv, vr, vy)
	x2, y2 := transformPoint(inv, vr, vb)
	x3, y3 := transformPoint(inv, vx, vb)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ViewState returns the current position, zoom and rotation.
func (v *Viewport) ViewState() ViewState {
	return ViewState{X: v.X, Y: v.Y, Zoom: v.Zoom, Rotation: v.Rotation}
}

// SetViewState restores a state returned by ViewState.
func (v *Viewport) SetViewState(s ViewState) {
	v.X, v.Y, v.Zoom, v.Rotation = s.X, s.Y, s.Zoom, s.Rotation
	v.dirty = true
}

// ShiftOrigin moves the view so the scene point (wx, wy) is drawn at the
// top-left corner of Rect, and returns that corner. Bounds are ignored;
// callers restore the previous state with SetViewState.
func (v *Viewport) ShiftOrigin(wx, wy float64) (sx, sy float64) {
	v.X, v.Y = wx, wy
	v.dirty = true
	ox, oy := v.ScreenToWorld(v.Rect.X, v.Rect.Y)
	v.X, v.Y = 2*wx-ox, 2*wy-oy
	v.dirty = true
	return v.Rect.X, v.Rect.Y
}

// MarkDirty forces a recomputation of the view matrix.
func (v *Viewport) MarkDirty() {
	v.dirty = true
}

// Matrix returns the scene-to-screen matrix.
func (v *Viewport) Matrix() [6]float64 {
	return v.computeViewMatrix()
}
