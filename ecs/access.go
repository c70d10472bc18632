package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/canopy"
)

// AccessibleNode is the component an AccessibilityBridge keeps on the entity
// of each accessible node.
type AccessibleNode struct {
	ID          canopy.AccessID
	Description canopy.Description
}

// Accessible is the component type of AccessibleNode.
var Accessible = donburi.NewComponentType[AccessibleNode]()

// AccessibilityDeltaType is the Donburi event type every applied delta is
// republished on.
var AccessibilityDeltaType = events.NewEventType[canopy.Delta]()

// AccessibilityBridge mirrors the accessibility tree into a Donburi world:
// one entity per live accessibility ID.
type AccessibilityBridge struct {
	world    donburi.World
	entities map[canopy.AccessID]donburi.Entity
}

// NewAccessibilityBridge creates a bridge writing into world.
func NewAccessibilityBridge(world donburi.World) *AccessibilityBridge {
	return &AccessibilityBridge{
		world:    world,
		entities: make(map[canopy.AccessID]donburi.Entity),
	}
}

// Apply merges d: entities of removed IDs are destroyed first, then updated
// IDs get their component written, creating the entity when needed.
func (b *AccessibilityBridge) Apply(d canopy.Delta) {
	for _, id := range d.Removed {
		e, ok := b.entities[id]
		if !ok {
			continue
		}
		if b.world.Valid(e) {
			b.world.Remove(e)
		}
		delete(b.entities, id)
	}
	for _, u := range d.Updates {
		e, ok := b.entities[u.ID]
		if !ok || !b.world.Valid(e) {
			e = b.world.Create(Accessible)
			b.entities[u.ID] = e
		}
		Accessible.SetValue(b.world.Entry(e), AccessibleNode{ID: u.ID, Description: u.Description})
	}
	AccessibilityDeltaType.Publish(b.world, d)
}

// Entity returns the entity mirroring id.
func (b *AccessibilityBridge) Entity(id canopy.AccessID) (donburi.Entity, bool) {
	e, ok := b.entities[id]
	return e, ok
}

// Node returns the mirrored description of id.
func (b *AccessibilityBridge) Node(id canopy.AccessID) (AccessibleNode, bool) {
	e, ok := b.entities[id]
	if !ok || !b.world.Valid(e) {
		return AccessibleNode{}, false
	}
	return *Accessible.Get(b.world.Entry(e)), true
}

// Len returns the number of mirrored nodes.
func (b *AccessibilityBridge) Len() int {
	return len(b.entities)
}
