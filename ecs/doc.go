// Package ecs provides ECS adapters for canopy's interaction events and
// accessibility deltas.
//
// [InteractionBridge] forwards interaction events (pointer, click, enter,
// leave) into a [Donburi] world as [Interaction] events, resolving each node's
// entity ID to the entity bound with Bind. Events for entities that have been
// removed from the world are dropped. Subscribe to [InteractionEventType] in
// your ECS systems to receive them.
//
// [AccessibilityBridge] is a canopy.AccessibilitySink that mirrors the
// accessibility tree as entities carrying an [AccessibleNode] component and
// republishes every delta as an [AccessibilityDeltaType] event.
//
// Usage:
//
//	scene.SetEntityStore(ecs.NewInteractionBridge(world))
//	scene.SetAccessibilitySink(ecs.NewAccessibilityBridge(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
