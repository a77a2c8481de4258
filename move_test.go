package trellis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gesture presses at the first point, moves through the rest and releases
// at the last one. Points are screen coordinates.
func gesture(s *Scene, pts ...[2]float64) {
	s.FeedPointer(pts[0][0], pts[0][1], true, MouseButtonLeft, 0)
	for _, p := range pts[1:] {
		s.FeedPointer(p[0], p[1], true, MouseButtonLeft, 0)
	}
	last := pts[len(pts)-1]
	s.FeedPointer(last[0], last[1], false, MouseButtonLeft, 0)
}

func newCard(name string) *Node {
	return NewShape(name, 40, 40, &Movable{}, Selectable{})
}

func newTarget(name string, x, y float64, accept bool) *Node {
	t := NewShape(name, 200, 200, Container{Accept: func(_, _ *Node) bool { return accept }})
	t.X, t.Y = x, y
	return t
}

type eventLog struct {
	types  []EventType
	byType map[EventType][]Event
}

func recordEvents(s *Scene) *eventLog {
	l := &eventLog{byType: make(map[EventType][]Event)}
	for ev := EventType(0); ev < eventTypeCount; ev++ {
		if ev == EventSectionEntered || ev == EventSectionExited {
			continue
		}
		s.On(ev, func(e Event) {
			l.types = append(l.types, e.Type)
			l.byType[e.Type] = append(l.byType[e.Type], e)
		})
	}
	return l
}

func TestMoveCommitsIntoTarget(t *testing.T) {
	s := NewScene()
	target := newTarget("T", 100, 50, true)
	card := newCard("card")
	s.Root().AddChild(target)
	s.Root().AddChild(card)
	events := recordEvents(s)

	gesture(s, [2]float64{10, 10}, [2]float64{130, 80})

	require.Equal(t, target, card.Parent)
	assert.InDelta(t, 20, card.X, 1e-9)
	assert.InDelta(t, 20, card.Y, 1e-9)
	gx, gy := card.GlobalPosition()
	assert.InDelta(t, 120, gx, 1e-9)
	assert.InDelta(t, 70, gy, 1e-9)
	assert.False(t, s.Glass().Hosts(card))
	assert.Equal(t, target.Section(), card.Section())

	require.Len(t, events.byType[EventDropped], 1)
	assert.Equal(t, target, events.byType[EventDropped][0].Other)
	require.Len(t, events.byType[EventReceiveDrop], 1)
	assert.Equal(t, target, events.byType[EventReceiveDrop][0].Node)
	assert.Len(t, events.byType[EventDragMoveStart], 1)
	assert.Len(t, events.byType[EventDragMoveDrop], 1)
	assert.Empty(t, events.byType[EventClick], "a drag is not a click")
	assert.Equal(t, []*Node{card}, s.Selection().Selection(nil), "dropped nodes become the selection")
	assert.Equal(t, DragIdle, s.Controller().State())

	require.True(t, s.History().Undo())
	assert.Equal(t, s.Root(), card.Parent)
	assert.Equal(t, 0.0, card.X)
	require.True(t, s.History().Redo())
	assert.Equal(t, target, card.Parent)
	assert.InDelta(t, 20, card.X, 1e-9)
}

func TestMoveRollbackRestoresExactly(t *testing.T) {
	s := NewScene()
	before := NewShape("before", 10, 10)
	before.X, before.Y = 500, 400
	after := NewShape("after", 10, 10)
	after.X, after.Y = 550, 400
	card := newCard("card")
	card.X, card.Y = 2, 3
	_ = card.SetAttr("label", "todo")
	target := newTarget("T", 100, 50, false)

	s.Root().AddChild(target)
	s.Root().AddChild(before)
	s.Root().AddChild(card)
	s.Root().AddChild(after)
	card.SetZIndex(2)
	ix := s.RootSection().Index().(*ListIndex)
	box, _ := ix.Bounds(card)
	events := recordEvents(s)

	gesture(s, [2]float64{10, 10}, [2]float64{60, 40}, [2]float64{130, 80})

	assert.Equal(t, []*Node{target, before, card, after}, s.Root().Children())
	assert.Equal(t, 2.0, card.X)
	assert.Equal(t, 3.0, card.Y)
	v, _ := card.Attr("label")
	assert.Equal(t, "todo", v)
	assert.True(t, card.Layered())
	assert.Equal(t, []*Node{card}, s.RootSection().LayerNodes(2))
	assertLayersPure(t, s.RootSection())
	got, ok := ix.Bounds(card)
	require.True(t, ok, "card must be back in the index")
	assert.Equal(t, box, got)
	assert.False(t, s.Glass().Hosts(card))

	assert.False(t, s.History().CanUndo(), "a gesture with no commit leaves no undo unit")
	assert.False(t, s.History().InScope())
	require.Len(t, events.byType[EventRevertDropped], 1)
	assert.Equal(t, s.Root(), events.byType[EventRevertDropped][0].Other)
	require.Len(t, events.byType[EventRevertDrop], 1)
	assert.Empty(t, events.byType[EventDropped])
}

type liftProbe struct {
	fn func(n, from *Node)
}

func (l liftProbe) Lifted(n, from *Node) { l.fn(n, from) }

func TestMoveCancelUndoesLiftSideEffects(t *testing.T) {
	s := NewScene()
	sibling := NewShape("sibling", 10, 10)
	sibling.X, sibling.Y = 500, 10
	card := NewShape("card", 40, 40, &Movable{}, liftProbe{fn: func(n, from *Node) {
		sibling.SetPosition(480, 10)
		_ = sibling.SetAttr("gap", true)
	}})
	target := newTarget("T", 100, 50, false)
	s.Root().AddChild(target)
	s.Root().AddChild(card)
	s.Root().AddChild(sibling)

	gesture(s, [2]float64{10, 10}, [2]float64{130, 80})

	assert.Equal(t, 500.0, sibling.X)
	_, ok := sibling.Attr("gap")
	assert.False(t, ok)
	assert.Equal(t, s.Root(), card.Parent)
	assert.Equal(t, 1, s.Root().IndexOf(card))
}

func TestMoveResolvesTargetsOutsideViewport(t *testing.T) {
	s := NewScene()
	target := newTarget("far", 1000, 50, true)
	card := newCard("card")
	s.Root().AddChild(target)
	s.Root().AddChild(card)

	initial := s.Viewport().ViewState()
	var states []ViewState
	s.On(EventDragMoveMove, func(Event) {
		states = append(states, s.Viewport().ViewState())
	})

	gesture(s, [2]float64{10, 10}, [2]float64{1030, 80})

	require.Equal(t, target, card.Parent)
	assert.InDelta(t, 20, card.X, 1e-9)
	assert.InDelta(t, 20, card.Y, 1e-9)
	require.NotEmpty(t, states)
	for _, st := range states {
		assert.Equal(t, initial, st, "viewport must be restored after the shifted query")
	}
	assert.Equal(t, initial, s.Viewport().ViewState())
}

func TestMoveTargetWithoutExecutorPanics(t *testing.T) {
	s := NewScene()
	bare := NewShape("bare", 200, 200)
	bare.X, bare.Y = 100, 50
	card := newCard("card")
	s.Root().AddChild(bare)
	s.Root().AddChild(card)

	s.FeedPointer(10, 10, true, MouseButtonLeft, 0)
	s.FeedPointer(130, 80, true, MouseButtonLeft, 0)
	assert.PanicsWithError(t,
		`trellis: protocol violation in DoDrop on "bare": drop target has no DropExecutor`,
		func() { s.FeedPointer(130, 80, false, MouseButtonLeft, 0) })
	assert.Equal(t, DragIdle, s.Controller().State())
}

func TestMoveDragSetFollowsSelection(t *testing.T) {
	s := NewScene()
	target := newTarget("T", 300, 0, true)
	a := newCard("a")
	b := newCard("b")
	b.X = 100
	clicked := newCard("clicked")
	clicked.Y = 100
	s.Root().AddChild(target)
	s.Root().AddChild(a)
	s.Root().AddChild(b)
	s.Root().AddChild(clicked)
	s.Selection().SelectOnly(a, b)

	var set []*Node
	s.On(EventDragMoveStart, func(e Event) { set = e.Set })
	gesture(s, [2]float64{10, 110}, [2]float64{320, 130})

	assert.Equal(t, []*Node{a, b, clicked}, set, "drag set is in document order")
	for _, n := range []*Node{a, b, clicked} {
		assert.Equal(t, target, n.Parent, "%s should land in the target", n.Name)
	}
	// Offsets from the pointer are preserved: a stays 100 left of b.
	assert.InDelta(t, 100, b.X-a.X, 1e-9)
	assert.InDelta(t, 100, clicked.Y-a.Y, 1e-9)
	assert.Equal(t, []*Node{a, b, clicked}, s.Selection().Selection(nil))
}

func TestComputeDragSet(t *testing.T) {
	s := NewScene()
	env := s.Env()
	group := NewShape("group", 100, 100, &Movable{}, Selectable{})
	inner := newCard("inner")
	locked := NewShape("locked", 10, 10, &Movable{Locked: true}, Selectable{})
	still := NewShape("still", 10, 10, Selectable{})
	companion := NewShape("companion", 10, 10)
	clicked := NewShape("clicked", 10, 10, &Movable{}, Companions{companion})
	group.AddChild(inner)
	for _, n := range []*Node{group, locked, still, companion, clicked} {
		s.Root().AddChild(n)
	}
	s.Selection().SelectOnly(inner, group, locked, still)

	set := computeDragSet(env, clicked, PointerEvent{})
	assert.Equal(t, []*Node{group, companion, clicked}, set,
		"descendants of set members, refusers and incompatible nodes are left out")
}

func TestMoveFreezesWithoutTarget(t *testing.T) {
	s := NewScene()
	void := NewShape("void", 200, 200, dropFinder{})
	void.X, void.Y = 300, 0
	card := newCard("card")
	s.Root().AddChild(void)
	s.Root().AddChild(card)

	s.FeedPointer(10, 10, true, MouseButtonLeft, 0)
	s.FeedPointer(110, 210, true, MouseButtonLeft, 0)
	gx, gy := card.GlobalPosition()
	require.InDelta(t, 100, gx, 1e-9)
	require.InDelta(t, 200, gy, 1e-9)

	s.FeedPointer(330, 30, true, MouseButtonLeft, 0)
	gx, gy = card.GlobalPosition()
	assert.InDelta(t, 100, gx, 1e-9, "node freezes at its last valid position")
	assert.InDelta(t, 200, gy, 1e-9)

	s.FeedPointer(330, 30, false, MouseButtonLeft, 0)
	assert.Equal(t, s.Root(), card.Parent)
	assert.Equal(t, 0.0, card.X, "no target at drop time reverts the node")
}

type dropFinder struct{}

func (dropFinder) FindDropTarget(owner, n *Node, set []*Node) *Node { return nil }

type chooser struct{ to *Node }

func (c chooser) ChooseDropTarget(n, proposed *Node, set []*Node) *Node { return c.to }

func TestDropTargetChooserOverrides(t *testing.T) {
	s := NewScene()
	shown := newTarget("shown", 100, 50, true)
	hidden := newTarget("hidden", 400, 0, true)
	s.Root().AddChild(shown)
	s.Root().AddChild(hidden)
	card := NewShape("card", 40, 40, &Movable{}, chooser{to: hidden})
	s.Root().AddChild(card)

	var hovered []*Node
	s.On(EventDragMove, func(e Event) { hovered = append(hovered, e.Other) })
	gesture(s, [2]float64{10, 10}, [2]float64{130, 80})

	assert.Equal(t, hidden, card.Parent)
	assert.Equal(t, []*Node{hidden}, hovered, "hover reports the effective target")
}

// probe records protocol hooks.
type probe struct {
	log    *[]string
	accept bool
}

func (p probe) add(s string) { *p.log = append(*p.log, s) }

func (p probe) Lifted(n, from *Node) { p.add("lifted") }
func (p probe) HoverOn(n, initial *Node, set []*Node) { p.add("hover") }
func (p probe) AcceptDropTarget(n, target, initial *Node) bool { p.add("accept-target"); return true }
func (p probe) OrientForDrop(n, target *Node) { p.add("orient") }
func (p probe) Dropped(n, target *Node) { p.add("dropped") }
func (p probe) RecoverDrop(n *Node) { p.add("recover") }
func (p probe) RevertDropped(n, parent *Node) { p.add("revert-dropped") }
func (p probe) ReceiveDrop(target, n *Node) { p.add("receive") }
func (p probe) RevertDrop(parent, n *Node) { p.add("revert-drop") }
func (p probe) ExecuteDrop(target, n, initial *Node) { p.add("execute"); target.AddChild(n) }
func (p probe) UndoDrop(parent, n *Node, index int) { p.add("undo-drop"); parent.AddChildAt(n, index) }
func (p probe) AcceptDrop(target, n *Node, set []*Node, initial *Node) bool {
	p.add("accept-drop")
	return p.accept
}

func TestMoveHookOrderOnCommit(t *testing.T) {
	var log []string
	s := NewScene()
	target := NewShape("T", 200, 200, probe{log: &log, accept: true})
	target.X, target.Y = 100, 50
	card := NewShape("card", 40, 40, &Movable{}, probe{log: &log})
	s.Root().AddChild(target)
	s.Root().AddChild(card)

	gesture(s, [2]float64{10, 10}, [2]float64{130, 80})

	assert.Equal(t, []string{
		"lifted", "hover", "accept-drop", "accept-target", "orient", "execute", "receive", "dropped",
	}, log)
}

func TestMoveHookOrderOnRevert(t *testing.T) {
	var log []string
	s := NewScene()
	home := NewShape("home", 300, 300, probe{log: &log, accept: true})
	home.X, home.Y = 0, 0
	target := NewShape("T", 200, 200, probe{log: &log, accept: false})
	target.X, target.Y = 400, 50
	card := NewShape("card", 40, 40, &Movable{}, probe{log: &log})
	s.Root().AddChild(home)
	s.Root().AddChild(target)
	home.AddChild(card)

	gesture(s, [2]float64{10, 10}, [2]float64{430, 80})

	assert.Equal(t, []string{
		"lifted", "hover", "accept-drop", "undo-drop", "recover", "revert-drop", "revert-dropped",
	}, log)
	assert.Equal(t, home, card.Parent)
}

func TestMoveReadOnlyRefuses(t *testing.T) {
	s := NewScene()
	s.Env().ReadOnly = true
	card := newCard("card")
	s.Root().AddChild(card)
	events := recordEvents(s)

	gesture(s, [2]float64{10, 10}, [2]float64{130, 80})

	assert.Equal(t, s.Root(), card.Parent)
	assert.Equal(t, 0.0, card.X)
	assert.Empty(t, events.byType[EventDragStart])
}

func TestMoveOperationCancel(t *testing.T) {
	s := NewScene()
	card := newCard("card")
	card.X = 5
	s.Root().AddChild(NewShape("first", 1, 1))
	s.Root().AddChild(card)
	m := s.Env().Move

	require.True(t, m.Accept(card, PointerEvent{X: 10, Y: 10}))
	m.DoDragStart(card, PointerEvent{X: 10, Y: 10})
	require.True(t, m.Active())
	require.True(t, s.Glass().Hosts(card))
	m.DoDragMove(card, PointerEvent{X: 200, Y: 200})

	m.Cancel()
	assert.False(t, m.Active())
	assert.Equal(t, s.Root(), card.Parent)
	assert.Equal(t, 1, s.Root().IndexOf(card))
	assert.Equal(t, 5.0, card.X)
	assert.False(t, s.History().InScope())
	assert.False(t, s.History().CanUndo())
}

func TestMoveKeepUpright(t *testing.T) {
	s := NewScene()
	frame := newTarget("frame", 300, 100, true)
	frame.Rotation = 0.5
	card := NewShape("card", 20, 20, &Movable{}, KeepUpright{})
	s.Root().AddChild(frame)
	s.Root().AddChild(card)

	gesture(s, [2]float64{5, 5}, [2]float64{305, 125})

	require.Equal(t, frame, card.Parent)
	g := card.GlobalTransform()
	assert.InDelta(t, 1, g[0], 1e-9, "card stays axis-aligned in scene space")
	assert.InDelta(t, 0, g[1], 1e-9)
}

func TestMoveTwoNodeRefusalCancelsWholeGesture(t *testing.T) {
	s := NewScene()
	companion := NewShape("companion", 10, 10)
	companion.X, companion.Y = 600, 400
	lift := liftProbe{fn: func(n, from *Node) {
		_ = companion.SetAttr("count", float64(len(companion.AttrKeys())+1))
		companion.SetPosition(companion.X-10, companion.Y)
	}}
	a := NewShape("a", 40, 40, &Movable{}, Selectable{}, lift)
	b := NewShape("b", 40, 40, &Movable{}, Selectable{}, lift)
	b.X = 50
	target := newTarget("T", 100, 100, false)
	s.Root().AddChild(target)
	s.Root().AddChild(a)
	s.Root().AddChild(b)
	s.Root().AddChild(companion)
	s.Selection().SelectOnly(a, b)
	events := recordEvents(s)

	gesture(s, [2]float64{10, 10}, [2]float64{130, 130})

	require.Len(t, events.byType[EventRevertDropped], 2)
	assert.Equal(t, []*Node{target, a, b, companion}, s.Root().Children())
	assert.Equal(t, 0.0, a.X)
	assert.Equal(t, 50.0, b.X)
	assert.Equal(t, 600.0, companion.X, "start-phase side effects are undone too")
	assert.Empty(t, companion.AttrKeys())
	assert.False(t, s.History().CanUndo())
	assert.False(t, s.History().InScope())
}

func TestMovePartialCommitRestoresRefusedInPlace(t *testing.T) {
	s := NewScene()
	a := newCard("a")
	x := NewShape("x", 40, 40)
	x.Y = 100
	b := newCard("b")
	b.X = 50
	c := newCard("c")
	c.X = 100
	target := NewShape("T", 200, 200, Container{Accept: func(_, n *Node) bool { return n == c }})
	target.X = 300
	for _, n := range []*Node{target, a, x, b, c} {
		s.Root().AddChild(n)
	}
	b.SetZIndex(2)
	ix := s.RootSection().Index().(*ListIndex)
	boxA, _ := ix.Bounds(a)
	boxB, _ := ix.Bounds(b)
	s.Selection().SelectOnly(a, b, c)
	events := recordEvents(s)

	gesture(s, [2]float64{10, 10}, [2]float64{320, 20})

	require.Equal(t, target, c.Parent)
	assert.InDelta(t, 110, c.X, 1e-9)
	assert.Equal(t, []*Node{target, a, x, b}, s.Root().Children(), "refused nodes keep their slots")
	assert.Equal(t, 0.0, a.X)
	assert.Equal(t, 50.0, b.X)
	assert.False(t, a.Layered())
	assert.True(t, b.Layered())
	assert.Equal(t, []*Node{b}, s.RootSection().LayerNodes(2))
	assertLayersPure(t, s.RootSection())
	got, ok := ix.Bounds(a)
	require.True(t, ok)
	assert.Equal(t, boxA, got)
	got, ok = ix.Bounds(b)
	require.True(t, ok)
	assert.Equal(t, boxB, got)
	for _, n := range []*Node{a, b, c} {
		assert.False(t, s.Glass().Hosts(n))
	}

	assert.Len(t, events.byType[EventRevertDropped], 2)
	require.Len(t, events.byType[EventDropped], 1)
	assert.Equal(t, []*Node{c}, s.Selection().Selection(nil))
	assert.False(t, s.History().InScope())

	require.True(t, s.History().Undo())
	assert.Equal(t, []*Node{target, a, x, b, c}, s.Root().Children())
}

func TestMoveCancelKeepsSiblingOrder(t *testing.T) {
	s := NewScene()
	a := newCard("a")
	x := NewShape("x", 40, 40)
	x.Y = 100
	b := newCard("b")
	b.X = 50
	for _, n := range []*Node{a, x, b} {
		s.Root().AddChild(n)
	}
	s.Selection().SelectOnly(a, b)
	m := s.Env().Move

	m.DoDragStart(a, PointerEvent{X: 10, Y: 10})
	require.Equal(t, []*Node{a, b}, m.Set())
	m.Cancel()

	assert.Equal(t, []*Node{a, x, b}, s.Root().Children())
}

func TestMoveCardOntoCardDropsIntoContainer(t *testing.T) {
	s := NewScene()
	lane := NewShape("lane", 200, 300, Container{})
	a := newCard("a")
	a.X, a.Y = 20, 20
	b := newCard("b")
	b.X, b.Y = 20, 120
	s.Root().AddChild(lane)
	lane.AddChild(a)
	lane.AddChild(b)
	events := recordEvents(s)

	require.NotPanics(t, func() {
		gesture(s, [2]float64{30, 30}, [2]float64{40, 140})
	})

	require.Equal(t, lane, a.Parent)
	assert.Equal(t, []*Node{b, a}, lane.Children())
	assert.InDelta(t, 30, a.X, 1e-9)
	assert.InDelta(t, 130, a.Y, 1e-9)
	require.Len(t, events.byType[EventDropped], 1)
	assert.Equal(t, lane, events.byType[EventDropped][0].Other)
}

func TestMovableFindDropTarget(t *testing.T) {
	m := &Movable{}
	s := NewScene()
	group := NewContainer("group")
	card := newCard("card")
	s.Root().AddChild(group)
	group.AddChild(card)

	assert.Equal(t, s.Root(), m.FindDropTarget(card, nil, nil), "climbs past nodes that cannot execute")
	lane := NewShape("lane", 10, 10, Container{})
	assert.Equal(t, lane, m.FindDropTarget(lane, nil, nil))
	assert.Nil(t, m.FindDropTarget(NewShape("loose", 1, 1), nil, nil))
}
