package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/canopy"
)

// Interaction is the payload published for each canopy interaction event.
// Entity is the donburi entity bound to the event's EntityID; Bound is false
// when nothing is bound to it.
type Interaction struct {
	canopy.InteractionEvent
	Entity donburi.Entity
	Bound  bool
}

// InteractionEventType is the Donburi event type interaction events are
// published on. Subscribe to it and call ProcessEvents each tick.
var InteractionEventType = events.NewEventType[Interaction]()

// InteractionBridge is a canopy.EntityStore that forwards interaction events
// into a Donburi world. Nodes are tied to entities through their entity ID
// (Tree.SetEntityID) and Bind.
type InteractionBridge struct {
	world   donburi.World
	bound   map[uint32]donburi.Entity
	dropped int
}

// NewInteractionBridge creates a bridge publishing into world.
func NewInteractionBridge(world donburi.World) *InteractionBridge {
	return &InteractionBridge{world: world, bound: make(map[uint32]donburi.Entity)}
}

// Bind ties a node entity ID to e. Events for id carry e until e is removed
// from the world.
func (b *InteractionBridge) Bind(id uint32, e donburi.Entity) {
	b.bound[id] = e
}

// Unbind forgets the entity of id.
func (b *InteractionBridge) Unbind(id uint32) {
	delete(b.bound, id)
}

// Dropped returns the number of events discarded because their bound entity
// had been removed from the world.
func (b *InteractionBridge) Dropped() int {
	return b.dropped
}

// EmitEvent implements canopy.EntityStore. Events whose bound entity no
// longer exists are dropped and the binding is cleared.
func (b *InteractionBridge) EmitEvent(event canopy.InteractionEvent) {
	msg := Interaction{InteractionEvent: event}
	if e, ok := b.bound[event.EntityID]; ok {
		if !b.world.Valid(e) {
			delete(b.bound, event.EntityID)
			b.dropped++
			return
		}
		msg.Entity, msg.Bound = e, true
	}
	InteractionEventType.Publish(b.world, msg)
}
