package ecs

import (
	"testing"

	"github.com/phanxgames/trellis"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []Notification
	NotificationEventType.Subscribe(world, func(w donburi.World, e Notification) {
		received = append(received, e)
	})

	node := trellis.NewShape("card", 10, 10)
	target := trellis.NewContainer("lane")
	store.EmitEvent(trellis.Event{
		Type:  trellis.EventDropped,
		Node:  node,
		Other: target,
		X:     100,
		Y:     200,
	})
	store.EmitEvent(trellis.Event{
		Type: trellis.EventDragMoveStart,
		Set:  []*trellis.Node{node, target},
	})

	// Events are queued; process them.
	NotificationEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}

	e0 := received[0]
	if e0.Type != trellis.EventDropped || e0.NodeID != node.ID || e0.OtherID != target.ID {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.Name != "card" || e0.X != 100 || e0.Y != 200 {
		t.Errorf("event 0 payload: %+v", e0)
	}

	e1 := received[1]
	if e1.Type != trellis.EventDragMoveStart || len(e1.SetIDs) != 2 || e1.SetIDs[1] != target.ID {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiStore_ImplementsEntityStore(t *testing.T) {
	world := donburi.NewWorld()
	var store trellis.EntityStore = NewDonburiStore(world)
	_ = store // compile-time interface check
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	NotificationEventType.Subscribe(world, func(w donburi.World, e Notification) {
		count1++
	})
	NotificationEventType.Subscribe(world, func(w donburi.World, e Notification) {
		count2++
	})

	store.EmitEvent(trellis.Event{Type: trellis.EventClick})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestDonburiStore_SceneNotifications(t *testing.T) {
	world := donburi.NewWorld()
	scene := trellis.NewScene()
	scene.SetEntityStore(NewDonburiStore(world))

	var entered int
	NotificationEventType.Subscribe(world, func(w donburi.World, e Notification) {
		if e.Type == trellis.EventSectionEntered {
			entered++
		}
	})

	group := trellis.NewContainer("group")
	group.AddChild(trellis.NewShape("a", 5, 5))
	scene.Root().AddChild(group)
	NotificationEventType.ProcessEvents(world)

	if entered != 2 {
		t.Errorf("section-entered = %d, want 2", entered)
	}
}
