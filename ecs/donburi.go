// Package ecs provides ECS adapters for flip.
package ecs

import (
	"github.com/phanxgames/flip"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// LifecycleEventType is the Donburi event type for flip lifecycle events.
// Subscribe to this in your ECS systems to receive enter, move and exit
// transitions.
var LifecycleEventType = events.NewEventType[flip.LifecycleEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world.
// Lifecycle events are published to LifecycleEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) flip.EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event flip.LifecycleEvent) {
	LifecycleEventType.Publish(s.world, event)
}

// KeyStatus is the component NewMirrorStore keeps on each key's entity.
type KeyStatus struct {
	Session string
	Key     any
	// Last is the most recent event for the key.
	Last flip.EventType
	// Moves counts the move animations started for the key.
	Moves int
}

// KeyStatusComponent is the Donburi component type for KeyStatus.
var KeyStatusComponent = donburi.NewComponentType[KeyStatus]()

type mirrorKey struct {
	session string
	key     any
}

// MirrorStore publishes lifecycle events like NewDonburiStore and mirrors
// every key into an entity with a KeyStatus component. The entity is created
// on the key's first event and removed with EventRemoved.
type MirrorStore struct {
	world    donburi.World
	entities map[mirrorKey]donburi.Entity
}

// NewMirrorStore creates a MirrorStore for world. Keys must be comparable
// values (they are boxed from the Scheduler's key type).
func NewMirrorStore(world donburi.World) *MirrorStore {
	return &MirrorStore{world: world, entities: make(map[mirrorKey]donburi.Entity)}
}

// EmitEvent implements flip.EventSink.
func (m *MirrorStore) EmitEvent(event flip.LifecycleEvent) {
	LifecycleEventType.Publish(m.world, event)
	if event.Key == nil {
		return
	}

	mk := mirrorKey{session: event.Session, key: event.Key}
	ent, ok := m.entities[mk]
	if event.Type == flip.EventRemoved {
		if ok {
			if m.world.Valid(ent) {
				m.world.Remove(ent)
			}
			delete(m.entities, mk)
		}
		return
	}
	if !ok || !m.world.Valid(ent) {
		ent = m.world.Create(KeyStatusComponent)
		m.entities[mk] = ent
		KeyStatusComponent.SetValue(m.world.Entry(ent), KeyStatus{Session: event.Session, Key: event.Key})
	}

	status := KeyStatusComponent.Get(m.world.Entry(ent))
	status.Last = event.Type
	if event.Type == flip.EventMoveStart {
		status.Moves++
	}
}

// Entity returns the entity mirroring key of the given scheduler session.
func (m *MirrorStore) Entity(session string, key any) (donburi.Entity, bool) {
	ent, ok := m.entities[mirrorKey{session: session, key: key}]
	return ent, ok
}

// Len returns the number of mirrored keys.
func (m *MirrorStore) Len() int {
	return len(m.entities)
}
