// Package canopy is a retained-mode UI scene graph that keeps layout,
// accessibility and event dispatch consistent under incremental mutation.
//
// # Quick start
//
// A [Scene] owns a [Tree] and runs the per-frame cycle. With the ebitenui
// package a window and game loop are created for you:
//
//	scene := canopy.NewScene(canopy.Config{Viewport: canopy.Viewport{Width: 640, Height: 480}})
//	label, _ := scene.Tree().InsertUnder(scene.Root(), canopy.Text("greeting", "hello"))
//	ebitenui.Run(scene, ebitenui.RunConfig{Title: "Demo", Width: 640, Height: 480})
//
// Headless, call [Scene.Update] (or [Scene.Flush]) yourself and read the
// results from the tree.
//
// # Nodes and handles
//
// Nodes live in an arena and are addressed by [Handle]. A handle never
// resolves to a different node: when a node is removed its slot may be
// recycled, but under a new generation, so the stale handle fails with a
// [*LookupError]. There are two kinds of node, containers and text, selected
// by [Kind].
//
// Nodes are read through [Tree.Node]. Every write goes through a Tree
// mutator ([Tree.SetSize], [Tree.SetText], [Tree.AppendChild], ...), and
// every mutator pushes the node to the tree's [DirtyQueue], even when the
// value does not change.
//
// # The frame cycle
//
//  1. Mutations posted from other goroutines with [Scene.Post] run.
//  2. Injected or real pointer input is hit-tested against the boxes of the
//     previous layout and dispatched to node handlers.
//  3. Tweens write their current values.
//  4. The [LayoutEngine] reconciles dirty nodes with the layout solver
//     (package flex), computes, and derives absolute boxes.
//  5. The [AccessibilityDiffer] describes dirty nodes and reports removed
//     ones in a [Delta] that goes to the [AccessibilitySink].
//  6. The dirty queue and the removal graveyard are cleared.
//
// # Event handlers
//
// A [Handler] receives the whole [Tree] and may mutate anything, including
// the node it is attached to. [Dispatch] takes the handler out of its slot
// for the duration of the call, so a handler that dispatches to itself is a
// no-op, and puts it back afterwards unless the node was removed.
//
// # Accessibility IDs
//
// Every described node gets a stable [AccessID] that stays with it while it
// is live. IDs of removed nodes appear once in [Delta.Removed]; under
// [ReuseRetired] they are handed out again afterwards, under [NeverReuse]
// never.
//
// The ecs subpackage bridges interaction events and accessibility deltas
// into a Donburi world.
package canopy
