package canopy

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phanxgames/canopy/flex"
)

func mustInsertUnder(t *testing.T, tr *Tree, parent Handle, c Content) Handle {
	t.Helper()
	h, err := tr.InsertUnder(parent, c)
	if err != nil {
		t.Fatalf("InsertUnder(%s): %v", parent, err)
	}
	return h
}

func mustNode(t *testing.T, tr *Tree, h Handle) *Node {
	t.Helper()
	n, err := tr.Node(h)
	if err != nil {
		t.Fatalf("Node(%s): %v", h, err)
	}
	return n
}

// --- Insertion and lookup ---

func TestNewTreeRoot(t *testing.T) {
	tr := NewTree(DefaultStyle())
	root := mustNode(t, tr, tr.Root())
	if root.Kind() != KindContainer {
		t.Errorf("root kind = %s", root.Kind())
	}
	if _, ok := root.Parent(); ok {
		t.Error("root should have no parent")
	}
	if tr.Len() != 1 {
		t.Errorf("Len = %d, want 1", tr.Len())
	}
	if diff := cmp.Diff([]Handle{tr.Root()}, tr.Dirty().Items(), cmp.AllowUnexported(Handle{})); diff != "" {
		t.Errorf("dirty (-want +got):\n%s", diff)
	}
}

func TestInsertMarksDirty(t *testing.T) {
	tr := NewTree(DefaultStyle())
	tr.EndFrame()
	h := tr.InsertText("hello")
	if tr.Dirty().Len() != 1 || tr.Dirty().Items()[0] != h {
		t.Errorf("dirty = %v, want [%s]", tr.Dirty().Items(), h)
	}
	n := mustNode(t, tr, h)
	if n.Text() != "hello" || n.Kind() != KindText {
		t.Errorf("node = %s %q", n.Kind(), n.Text())
	}
	if _, ok := n.Parent(); ok {
		t.Error("inserted node should be detached")
	}
}

func TestLookupErrors(t *testing.T) {
	tr := NewTree(DefaultStyle())
	tests := []struct {
		name string
		h    Handle
	}{
		{"zero", Handle{}},
		{"out of range", Handle{index: 99}},
		{"wrong generation", Handle{index: tr.Root().index, gen: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Node(tt.h)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
			var le *LookupError
			if !errors.As(err, &le) || le.Handle != tt.h {
				t.Errorf("err = %#v, want *LookupError for %s", err, tt.h)
			}
		})
	}
}

// --- Mutators ---

func TestMutatorsAlwaysPush(t *testing.T) {
	tr := NewTree(DefaultStyle())
	h := tr.InsertContainer(DefaultStyle())
	txt := tr.InsertText("x")
	tr.EndFrame()

	ops := []struct {
		name string
		fn   func() error
	}{
		{"SetSize", func() error { return tr.SetSize(h, flex.Points(10), flex.Points(10)) }},
		{"SetSize again", func() error { return tr.SetSize(h, flex.Points(10), flex.Points(10)) }},
		{"SetPadding", func() error { return tr.SetPadding(h, flex.EdgeAll(1)) }},
		{"SetMargin", func() error { return tr.SetMargin(h, flex.EdgeAll(1)) }},
		{"SetDirection", func() error { return tr.SetDirection(h, flex.Row) }},
		{"SetAlignItems", func() error { return tr.SetAlignItems(h, flex.AlignCenter) }},
		{"SetJustify", func() error { return tr.SetJustify(h, flex.JustifyEnd) }},
		{"SetGap", func() error { return tr.SetGap(h, 2) }},
		{"SetFlexGrow", func() error { return tr.SetFlexGrow(h, 1) }},
		{"SetBackgroundColor", func() error { return tr.SetBackgroundColor(h, ColorWhite) }},
		{"SetLabel", func() error { return tr.SetLabel(h, "box") }},
		{"SetInteractive", func() error { return tr.SetInteractive(h, true) }},
		{"SetEntityID", func() error { return tr.SetEntityID(h, 3) }},
		{"MarkDirty", func() error { return tr.MarkDirty(h) }},
		{"SetText same value", func() error { return tr.SetText(txt, "x") }},
		{"SetTextColor", func() error { return tr.SetTextColor(txt, ColorWhite) }},
	}
	for i, op := range ops {
		if err := op.fn(); err != nil {
			t.Fatalf("%s: %v", op.name, err)
		}
		if got := tr.Dirty().Len(); got != i+1 {
			t.Errorf("after %s dirty len = %d, want %d", op.name, got, i+1)
		}
	}

	n := mustNode(t, tr, h)
	st := n.Style()
	if st.Layout.Width != flex.Points(10) || st.Layout.Direction != flex.Row || st.Layout.Gap != 2 {
		t.Errorf("style not applied: %+v", st.Layout)
	}
	if n.Label() != "box" || !n.Interactive() || n.EntityID() != 3 {
		t.Errorf("label %q interactive %v entity %d", n.Label(), n.Interactive(), n.EntityID())
	}
}

func TestSetTextOnContainer(t *testing.T) {
	tr := NewTree(DefaultStyle())
	tr.EndFrame()
	err := tr.SetText(tr.Root(), "nope")
	if !errors.Is(err, ErrKind) {
		t.Errorf("err = %v, want ErrKind", err)
	}
	if tr.Dirty().Len() != 0 {
		t.Error("failed mutation should not mark dirty")
	}
}

func TestMutatorStaleHandle(t *testing.T) {
	tr := NewTree(DefaultStyle())
	h := mustInsertUnder(t, tr, tr.Root(), Text("a", "a"))
	if err := tr.Remove(h); err != nil {
		t.Fatal(err)
	}
	if err := tr.SetText(h, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetText on removed node: %v", err)
	}
}

// --- Tree edits ---

func TestAppendChildReparents(t *testing.T) {
	tr := NewTree(DefaultStyle())
	a := mustInsertUnder(t, tr, tr.Root(), Container("a", DefaultStyle()))
	b := mustInsertUnder(t, tr, tr.Root(), Container("b", DefaultStyle()))
	c := mustInsertUnder(t, tr, a, Text("c", "c"))
	tr.EndFrame()

	if err := tr.AppendChild(b, c); err != nil {
		t.Fatal(err)
	}
	if got := mustNode(t, tr, a).Children(); len(got) != 0 {
		t.Errorf("old parent children = %v", got)
	}
	if got := mustNode(t, tr, b).Children(); len(got) != 1 || got[0] != c {
		t.Errorf("new parent children = %v", got)
	}
	if p, _ := mustNode(t, tr, c).Parent(); p != b {
		t.Errorf("parent = %s, want %s", p, b)
	}
	dirty := map[Handle]bool{}
	for _, h := range tr.Dirty().Items() {
		dirty[h] = true
	}
	for _, h := range []Handle{a, b, c} {
		if !dirty[h] {
			t.Errorf("%s not marked dirty", h)
		}
	}
}

func TestAppendChildErrors(t *testing.T) {
	tr := NewTree(DefaultStyle())
	a := mustInsertUnder(t, tr, tr.Root(), Container("a", DefaultStyle()))
	b := mustInsertUnder(t, tr, a, Container("b", DefaultStyle()))

	if err := tr.AppendChild(b, a); !errors.Is(err, ErrCycle) {
		t.Errorf("attach under descendant: %v, want ErrCycle", err)
	}
	if err := tr.AppendChild(a, a); !errors.Is(err, ErrCycle) {
		t.Errorf("attach under itself: %v, want ErrCycle", err)
	}
	if err := tr.AppendChild(a, tr.Root()); !errors.Is(err, ErrRoot) && !errors.Is(err, ErrCycle) {
		t.Errorf("attach root: %v", err)
	}
	if err := tr.AppendChild(Handle{index: 50}, a); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown parent: %v", err)
	}
	if p, _ := mustNode(t, tr, a).Parent(); p != tr.Root() {
		t.Error("failed attach changed the tree")
	}
}

func TestInsertChildAt(t *testing.T) {
	tr := NewTree(DefaultStyle())
	root := tr.Root()
	a := mustInsertUnder(t, tr, root, Text("a", "a"))
	b := mustInsertUnder(t, tr, root, Text("b", "b"))
	c := tr.InsertText("c")

	if err := tr.InsertChildAt(root, c, 1); err != nil {
		t.Fatal(err)
	}
	want := []Handle{a, c, b}
	if diff := cmp.Diff(want, mustNode(t, tr, root).Children(), cmp.AllowUnexported(Handle{})); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}

	// Moving within the same parent: index is taken after removal.
	if err := tr.InsertChildAt(root, a, 2); err != nil {
		t.Fatal(err)
	}
	want = []Handle{c, b, a}
	if diff := cmp.Diff(want, mustNode(t, tr, root).Children(), cmp.AllowUnexported(Handle{})); diff != "" {
		t.Errorf("children after move (-want +got):\n%s", diff)
	}

	if err := tr.InsertChildAt(root, a, 3); !errors.Is(err, ErrIndex) {
		t.Errorf("out of range: %v, want ErrIndex", err)
	}
	if err := tr.InsertChildAt(root, tr.InsertText("d"), -1); !errors.Is(err, ErrIndex) {
		t.Errorf("negative index: %v, want ErrIndex", err)
	}
}

func TestDetach(t *testing.T) {
	tr := NewTree(DefaultStyle())
	a := mustInsertUnder(t, tr, tr.Root(), Container("a", DefaultStyle()))
	b := mustInsertUnder(t, tr, a, Text("b", "b"))

	if err := tr.Detach(a); err != nil {
		t.Fatal(err)
	}
	if len(mustNode(t, tr, tr.Root()).Children()) != 0 {
		t.Error("root still lists detached child")
	}
	if _, ok := mustNode(t, tr, a).Parent(); ok {
		t.Error("detached node keeps parent")
	}
	// Subtree stays intact and live.
	if p, _ := mustNode(t, tr, b).Parent(); p != a {
		t.Error("detached subtree lost its shape")
	}
	if err := tr.Detach(a); err != nil {
		t.Errorf("detach of detached node: %v", err)
	}
	if err := tr.Detach(tr.Root()); !errors.Is(err, ErrRoot) {
		t.Errorf("detach root: %v, want ErrRoot", err)
	}
}

// --- Removal ---

func TestRemoveSubtree(t *testing.T) {
	tr := NewTree(DefaultStyle())
	root := tr.Root()
	a := mustInsertUnder(t, tr, root, Container("a", DefaultStyle()))
	b := mustInsertUnder(t, tr, a, Text("b", "b"))
	keep := mustInsertUnder(t, tr, root, Text("keep", "k"))
	mustNode(t, tr, a).accessID = 7
	tr.EndFrame()

	if err := tr.Remove(a); err != nil {
		t.Fatal(err)
	}
	for _, h := range []Handle{a, b} {
		if tr.Contains(h) {
			t.Errorf("%s still live", h)
		}
	}
	if !tr.Contains(keep) {
		t.Error("sibling removed")
	}
	if tr.Len() != 2 {
		t.Errorf("Len = %d, want 2", tr.Len())
	}
	if got := mustNode(t, tr, root).Children(); len(got) != 1 || got[0] != keep {
		t.Errorf("root children = %v", got)
	}
	if items := tr.Dirty().Items(); len(items) != 1 || items[0] != root {
		t.Errorf("dirty = %v, want old parent only", items)
	}

	gy := tr.Graveyard()
	if len(gy) != 2 {
		t.Fatalf("graveyard = %v", gy)
	}
	if gy[0].Handle != a || gy[0].AccessID != 7 {
		t.Errorf("tombstone 0 = %+v", gy[0])
	}

	tr.EndFrame()
	if len(tr.Graveyard()) != 0 {
		t.Error("EndFrame kept tombstones")
	}
}

func TestRemoveRecyclesSlotWithNewGeneration(t *testing.T) {
	tr := NewTree(DefaultStyle())
	a := mustInsertUnder(t, tr, tr.Root(), Text("a", "a"))
	if err := tr.Remove(a); err != nil {
		t.Fatal(err)
	}
	b := tr.InsertText("b")
	if b.index != a.index {
		t.Fatalf("slot not recycled: %s vs %s", a, b)
	}
	if b == a {
		t.Fatal("recycled slot reused the old handle")
	}
	if _, err := tr.Node(a); !errors.Is(err, ErrNotFound) {
		t.Errorf("stale handle resolved: %v", err)
	}
	if n := mustNode(t, tr, b); n.Text() != "b" {
		t.Errorf("new node text = %q", n.Text())
	}
}

func TestRemoveRoot(t *testing.T) {
	tr := NewTree(DefaultStyle())
	if err := tr.Remove(tr.Root()); !errors.Is(err, ErrRoot) {
		t.Errorf("err = %v, want ErrRoot", err)
	}
}

func TestRemovedDirtyEntriesStayQueued(t *testing.T) {
	tr := NewTree(DefaultStyle())
	tr.EndFrame()
	a := mustInsertUnder(t, tr, tr.Root(), Text("a", "a"))
	if err := tr.Remove(a); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, h := range tr.Dirty().Items() {
		if h == a {
			found = true
		}
	}
	if !found {
		t.Error("dirty entries of removed node were dropped")
	}
}

// --- Invariants ---

// checkTree verifies every non-root live node has exactly one parent listing
// it exactly once, and every listed child points back at its parent.
func checkTree(t *testing.T, tr *Tree) {
	t.Helper()
	listed := map[Handle]int{}
	for i := 1; i < len(tr.slots); i++ {
		n := tr.slots[i].node
		if n == nil {
			continue
		}
		for _, c := range n.children {
			listed[c]++
			cn, err := tr.Node(c)
			if err != nil {
				t.Fatalf("%s lists dead child %s", n.handle, c)
			}
			if cn.parent != n.handle {
				t.Fatalf("%s lists %s whose parent is %s", n.handle, c, cn.parent)
			}
		}
	}
	for i := 1; i < len(tr.slots); i++ {
		n := tr.slots[i].node
		if n == nil {
			continue
		}
		want := 1
		if n.parent.IsZero() {
			want = 0
		}
		if listed[n.handle] != want {
			t.Fatalf("%s listed %d times, want %d", n.handle, listed[n.handle], want)
		}
	}
}

func TestRandomEditsKeepSingleParent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tr := NewTree(DefaultStyle())
	handles := []Handle{tr.Root()}

	for step := 0; step < 2000; step++ {
		pick := func() Handle { return handles[rng.Intn(len(handles))] }
		switch rng.Intn(6) {
		case 0, 1:
			handles = append(handles, tr.Insert(Container("", DefaultStyle())))
		case 2, 3:
			_ = tr.AppendChild(pick(), pick())
		case 4:
			p := pick()
			if n, err := tr.Node(p); err == nil {
				_ = tr.InsertChildAt(p, pick(), rng.Intn(len(n.children)+1))
			}
		case 5:
			if rng.Intn(3) == 0 {
				_ = tr.Remove(pick())
			} else {
				_ = tr.Detach(pick())
			}
		}
		live := handles[:0]
		for _, h := range handles {
			if tr.Contains(h) {
				live = append(live, h)
			}
		}
		handles = live
		checkTree(t, tr)
	}
}

func TestWalkPreOrder(t *testing.T) {
	tr := NewTree(DefaultStyle())
	root := tr.Root()
	a := mustInsertUnder(t, tr, root, Container("a", DefaultStyle()))
	a1 := mustInsertUnder(t, tr, a, Text("a1", "1"))
	b := mustInsertUnder(t, tr, root, Container("b", DefaultStyle()))
	mustInsertUnder(t, tr, b, Text("b1", "1"))

	var got []Handle
	if err := tr.Walk(root, func(n *Node) bool {
		got = append(got, n.Handle())
		return n.Handle() != b // skip b's children
	}); err != nil {
		t.Fatal(err)
	}
	want := []Handle{root, a, a1, b}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Handle{})); diff != "" {
		t.Errorf("walk (-want +got):\n%s", diff)
	}

	if err := tr.Walk(Handle{}, func(*Node) bool { return true }); !errors.Is(err, ErrNotFound) {
		t.Errorf("walk from zero handle: %v", err)
	}
}
