package ecs

import (
	"testing"

	"github.com/yohamta/donburi"

	"github.com/phanxgames/canopy"
)

func TestAccessibilityBridge_ApplyAndRemove(t *testing.T) {
	world := donburi.NewWorld()
	b := NewAccessibilityBridge(world)

	var published int
	AccessibilityDeltaType.Subscribe(world, func(w donburi.World, d canopy.Delta) {
		published++
	})

	b.Apply(canopy.Delta{Updates: []canopy.Update{
		{ID: 1, Description: canopy.Description{Role: canopy.RoleGroup, Children: []canopy.AccessID{2}}},
		{ID: 2, Description: canopy.Description{Role: canopy.RoleLabel, Label: "hi"}},
	}})
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	n, ok := b.Node(2)
	if !ok || n.Description.Label != "hi" || n.ID != 2 {
		t.Errorf("Node(2) = %+v, %v", n, ok)
	}

	e2, _ := b.Entity(2)
	b.Apply(canopy.Delta{
		Updates: []canopy.Update{{ID: 1, Description: canopy.Description{Role: canopy.RoleGroup}}},
		Removed: []canopy.AccessID{2},
	})
	if b.Len() != 1 {
		t.Errorf("Len after removal = %d, want 1", b.Len())
	}
	if world.Valid(e2) {
		t.Error("entity of removed ID still valid")
	}
	if _, ok := b.Node(2); ok {
		t.Error("Node(2) found after removal")
	}
	n, _ = b.Node(1)
	if len(n.Description.Children) != 0 {
		t.Errorf("Node(1) children = %v, want none", n.Description.Children)
	}

	AccessibilityDeltaType.ProcessEvents(world)
	if published != 2 {
		t.Errorf("published = %d, want 2", published)
	}
}

func TestAccessibilityBridge_SceneSink(t *testing.T) {
	world := donburi.NewWorld()
	b := NewAccessibilityBridge(world)
	scene := canopy.NewScene(canopy.Config{})
	scene.SetAccessibilitySink(b)

	label, err := scene.Tree().InsertUnder(scene.Root(), canopy.Text("label", "A"))
	if err != nil {
		t.Fatal(err)
	}
	if err := scene.Update(); err != nil {
		t.Fatal(err)
	}

	n, _ := scene.Tree().Node(label)
	id, ok := n.AccessID()
	if !ok {
		t.Fatal("label has no accessibility ID")
	}
	got, ok := b.Node(id)
	if !ok {
		t.Fatal("label not mirrored")
	}
	if got.Description.Role != canopy.RoleLabel || got.Description.Label != "A" {
		t.Errorf("mirrored = %+v", got.Description)
	}
	if got.Description.Bounds.Width != 7 || got.Description.Bounds.Height != 13 {
		t.Errorf("bounds = %+v, want 7x13", got.Description.Bounds)
	}
}
