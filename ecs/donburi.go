// Package ecs provides ECS adapters for trellis.
package ecs

import (
	"github.com/google/uuid"
	"github.com/phanxgames/trellis"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// Notification is the ECS-side copy of a trellis.Event. Nodes are referred
// to by ID so systems never hold scene pointers.
type Notification struct {
	Type    trellis.EventType
	NodeID  uuid.UUID
	Name    string
	OtherID uuid.UUID
	SetIDs  []uuid.UUID
	X, Y    float64
}

// NotificationEventType is the Donburi event type for trellis notifications.
var NotificationEventType = events.NewEventType[Notification]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Notifications are published to NotificationEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) trellis.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event trellis.Event) {
	NotificationEventType.Publish(s.world, toNotification(event))
}

func toNotification(e trellis.Event) Notification {
	n := Notification{Type: e.Type, X: e.X, Y: e.Y}
	if e.Node != nil {
		n.NodeID = e.Node.ID
		n.Name = e.Node.Name
	}
	if e.Other != nil {
		n.OtherID = e.Other.ID
	}
	if len(e.Set) > 0 {
		n.SetIDs = make([]uuid.UUID, len(e.Set))
		for i, x := range e.Set {
			n.SetIDs[i] = x.ID
		}
	}
	return n
}
