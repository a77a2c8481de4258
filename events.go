package trellis

// EventType identifies a kind of engine notification.
type EventType uint8

const (
	EventDragStart      EventType = iota // a node was picked up (per node)
	EventDragMove                        // a dragged node moved (per node)
	EventDragMoveStart                   // a move gesture started (whole set)
	EventDragMoveMove                    // a move gesture sample was applied (whole set)
	EventDragMoveDrop                    // a move gesture ended (whole set)
	EventDropped                         // a node was dropped onto Other
	EventRevertDropped                   // a node's drop was reverted; Other is the original parent
	EventReceiveDrop                     // Node received Other as a drop
	EventRevertDrop                      // Node (original parent) took Other back
	EventRotated                         // a rotation gesture was committed
	EventRevertRotation                  // a rotation gesture was reverted
	EventSectionEntered                  // a node joined a section
	EventSectionExited                   // a node left a section
	EventClick                           // press then release without movement
	eventTypeCount
)

var eventNames = [...]string{
	EventDragStart:      "drag-start",
	EventDragMove:       "drag-move",
	EventDragMoveStart:  "drag-move-start",
	EventDragMoveMove:   "drag-move-move",
	EventDragMoveDrop:   "drag-move-drop",
	EventDropped:        "dropped",
	EventRevertDropped:  "revert-dropped",
	EventReceiveDrop:    "receive-drop",
	EventRevertDrop:     "revert-drop",
	EventRotated:        "rotated",
	EventRevertRotation: "revert-rotation",
	EventSectionEntered: "section-entered",
	EventSectionExited:  "section-exited",
	EventClick:          "click",
}

func (e EventType) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Event is the payload of every notification. Fields not relevant to the
// event type are zero.
type Event struct {
	Type    EventType
	Node    *Node
	Other   *Node
	Set     []*Node
	Section *Section
	X, Y    float64
}

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, every notification is forwarded to it.
type EntityStore interface {
	EmitEvent(event Event)
}

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(Event)
}

type handlerRegistry struct {
	handlers [eventTypeCount][]eventHandler
	nextID   uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
// The entry is removed from the slice to avoid nil iteration waste.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.handlers[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			h.reg.handlers[h.event] = s[:len(s)-1]
			return
		}
	}
}

// On registers a scene-level callback for ev.
func (s *Scene) On(ev EventType, fn func(Event)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.handlers[ev] = append(s.handlers.handlers[ev], eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: ev}
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// emit dispatches scene-level handlers first, then the bindings of the
// event's node, then the ECS bridge.
func (s *Scene) emit(e Event) {
	if s == nil {
		return
	}
	for _, h := range s.handlers.handlers[e.Type] {
		h.fn(e)
	}
	if e.Node != nil {
		for _, b := range e.Node.bindings {
			if b.Event == e.Type {
				b.Fn(e)
			}
		}
	}
	if s.store != nil {
		s.store.EmitEvent(e)
	}
}
