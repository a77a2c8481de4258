package trellis

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestViewportDefaults(t *testing.T) {
	v := NewViewport(Rect{Width: 800, Height: 600})
	if v.Zoom != 1.0 {
		t.Errorf("Zoom = %f, want 1.0", v.Zoom)
	}
	sx, sy := v.WorldToScreen(10, 20)
	if !approxEqual(sx, 10, epsilon) || !approxEqual(sy, 20, epsilon) {
		t.Errorf("new viewport should map scene to screen 1:1, got (%f,%f)", sx, sy)
	}
}

func TestViewportTranslation(t *testing.T) {
	v := NewViewport(Rect{Width: 800, Height: 600})
	v.X = 100
	v.Y = 50
	v.MarkDirty()
	sx, sy := v.WorldToScreen(100, 50)
	if !approxEqual(sx, 400, epsilon) || !approxEqual(sy, 300, epsilon) {
		t.Errorf("WorldToScreen(100,50) = (%f,%f), want (400,300)", sx, sy)
	}
}

func TestViewportZoom(t *testing.T) {
	v := NewViewport(Rect{Width: 800, Height: 600})
	v.Zoom = 2.0
	v.MarkDirty()

	sx1, _ := v.WorldToScreen(1, 0)
	sx0, _ := v.WorldToScreen(0, 0)
	if !approxEqual(sx1-sx0, 2.0, epsilon) {
		t.Errorf("zoom 2x: 1 scene unit = %f screen pixels, want 2.0", sx1-sx0)
	}
}

func TestViewportRotation90(t *testing.T) {
	v := NewViewport(Rect{Width: 800, Height: 600})
	v.X, v.Y = 0, 0
	v.Rotation = math.Pi / 2
	v.MarkDirty()

	// Rotate(-π/2) maps (1,0) to (0,-1), then translates to the center.
	sx, sy := v.WorldToScreen(1, 0)
	if !approxEqual(sx, 400, epsilon) || !approxEqual(sy, 299, epsilon) {
		t.Errorf("90° rotation: WorldToScreen(1,0) = (%f,%f), want (400,299)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	v := NewViewport(Rect{Width: 800, Height: 600})
	v.X = 42
	v.Y = -17
	v.Zoom = 1.5
	v.Rotation = 0.3
	v.MarkDirty()

	sx, sy := v.WorldToScreen(123, -456)
	wx, wy := v.ScreenToWorld(sx, sy)
	if !approxEqual(wx, 123, 1e-6) || !approxEqual(wy, -456, 1e-6) {
		t.Errorf("roundtrip: got (%f,%f), want (123,-456)", wx, wy)
	}
}

func TestVisibleBounds(t *testing.T) {
	v := NewViewport(Rect{Width: 800, Height: 600})
	b := v.VisibleBounds()
	if !approxEqual(b.X, 0, 1e-6) || !approxEqual(b.Y, 0, 1e-6) ||
		!approxEqual(b.Width, 800, 1e-6) || !approxEqual(b.Height, 600, 1e-6) {
		t.Errorf("VisibleBounds = %+v, want (0,0,800,600)", b)
	}

	v.Zoom = 2.0
	v.MarkDirty()
	b = v.VisibleBounds()
	if !approxEqual(b.Width, 400, 1e-6) || !approxEqual(b.Height, 300, 1e-6) {
		t.Errorf("VisibleBounds at zoom 2 size = (%f,%f), want (400,300)", b.Width, b.Height)
	}
}

func TestViewportScrollTo(t *testing.T) {
	v := NewViewport(Rect{Width: 800, Height: 600})
	v.X, v.Y = 0, 0
	v.ScrollTo(100, 200, 1.0, ease.Linear)

	v.update(0.5)
	if !approxEqual(v.X, 50, 1.0) || !approxEqual(v.Y, 100, 1.0) {
		t.Errorf("scroll halfway: (%f,%f), want ~(50,100)", v.X, v.Y)
	}
	v.update(0.5)
	if !approxEqual(v.X, 100, 1.0) || !approxEqual(v.Y, 200, 1.0) {
		t.Errorf("scroll end: (%f,%f), want ~(100,200)", v.X, v.Y)
	}
	if v.Scrolling() {
		t.Error("scroll tween should be cleared after completion")
	}
}

func TestViewportPan(t *testing.T) {
	v := NewViewport(Rect{Width: 800, Height: 600})
	v.Zoom = 2
	v.MarkDirty()
	before := v.X

	v.Pan(20, 0)
	// Dragging the background right by 20 pixels moves the view left by 10 units.
	if !approxEqual(v.X, before-10, epsilon) {
		t.Errorf("Pan: X = %f, want %f", v.X, before-10)
	}
}

func TestViewportReveal(t *testing.T) {
	v := NewViewport(Rect{Width: 800, Height: 600})
	v.Reveal(Rect{X: 10, Y: 10, Width: 20, Height: 20}, 0)
	if v.X != 400 || v.Y != 300 {
		t.Errorf("revealing a visible rect moved the view to (%f,%f)", v.X, v.Y)
	}

	v.Reveal(Rect{X: 2000, Y: 0, Width: 100, Height: 100}, 0)
	if !approxEqual(v.X, 2050, epsilon) || !approxEqual(v.Y, 50, epsilon) {
		t.Errorf("Reveal = (%f,%f), want (2050,50)", v.X, v.Y)
	}

	v.Reveal(Rect{X: -3000, Y: 0, Width: 10, Height: 10}, 0.5)
	if !v.Scrolling() {
		t.Error("Reveal with a duration should animate")
	}
}

func TestViewportBounds(t *testing.T) {
	v := NewViewport(Rect{Width: 100, Height: 100})
	v.SetBounds(Rect{Width: 1000, Height: 1000})

	v.X, v.Y = 0, 0
	v.update(0)
	if v.X < 50 || v.Y < 50 {
		t.Errorf("bounds clamp min: (%f,%f), want >= (50,50)", v.X, v.Y)
	}

	v.X, v.Y = 999, 999
	v.update(0)
	if v.X > 950 || v.Y > 950 {
		t.Errorf("bounds clamp max: (%f,%f), want <= (950,950)", v.X, v.Y)
	}

	v.ClearBounds()
	v.X, v.Y = -999, -999
	v.update(0)
	if v.X != -999 || v.Y != -999 {
		t.Errorf("after ClearBounds: (%f,%f), want (-999,-999)", v.X, v.Y)
	}
}

func TestViewportBoundsSmallWorld(t *testing.T) {
	v := NewViewport(Rect{Width: 800, Height: 600})
	v.SetBounds(Rect{Width: 100, Height: 100})
	v.update(0)
	if !approxEqual(v.X, 50, epsilon) || !approxEqual(v.Y, 50, epsilon) {
		t.Errorf("small world center: (%f,%f), want (50,50)", v.X, v.Y)
	}
}

func TestViewportShiftOrigin(t *testing.T) {
	v := NewViewport(Rect{X: 10, Y: 20, Width: 800, Height: 600})
	v.Zoom = 2
	v.Rotation = 0.4
	v.MarkDirty()
	saved := v.ViewState()

	sx, sy := v.ShiftOrigin(5000, -300)
	if sx != 10 || sy != 20 {
		t.Errorf("ShiftOrigin returned (%f,%f), want the viewport origin (10,20)", sx, sy)
	}
	wx, wy := v.ScreenToWorld(sx, sy)
	if !approxEqual(wx, 5000, 1e-6) || !approxEqual(wy, -300, 1e-6) {
		t.Errorf("origin maps to (%f,%f), want (5000,-300)", wx, wy)
	}

	v.SetViewState(saved)
	if v.ViewState() != saved {
		t.Errorf("ViewState = %+v, want %+v", v.ViewState(), saved)
	}
}

func TestViewportContainsScreen(t *testing.T) {
	v := NewViewport(Rect{Width: 100, Height: 100})
	if !v.ContainsScreen(0, 0) || !v.ContainsScreen(100, 100) {
		t.Error("edges are inside the viewport")
	}
	if v.ContainsScreen(-1, 50) || v.ContainsScreen(50, 101) {
		t.Error("points outside the rect are not addressable")
	}
}

func TestViewportMarkDirty(t *testing.T) {
	v := NewViewport(Rect{Width: 800, Height: 600})
	v.computeViewMatrix()
	if v.dirty {
		t.Error("viewport should not be dirty after computeViewMatrix")
	}
	v.MarkDirty()
	if !v.dirty {
		t.Error("viewport should be dirty after MarkDirty")
	}
}

func TestWorldAABB(t *testing.T) {
	r := worldAABB(identityTransform, 64, 64)
	if r != (Rect{Width: 64, Height: 64}) {
		t.Errorf("identity AABB = %+v", r)
	}
	r = worldAABB([6]float64{1, 0, 0, 1, 100, 50}, 32, 32)
	if r != (Rect{X: 100, Y: 50, Width: 32, Height: 32}) {
		t.Errorf("translated AABB = %+v", r)
	}
}
