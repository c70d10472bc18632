package canopy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func accessID(t *testing.T, tr *Tree, h Handle) AccessID {
	t.Helper()
	id, ok := mustNode(t, tr, h).AccessID()
	if !ok {
		t.Fatalf("%s has no accessibility ID", h)
	}
	return id
}

// --- IDs ---

func TestDifferAssignsFromOne(t *testing.T) {
	tr := NewTree(DefaultStyle())
	a := mustInsertUnder(t, tr, tr.Root(), Text("a", "A"))
	b := mustInsertUnder(t, tr, tr.Root(), Text("b", "B"))
	d := NewAccessibilityDiffer(ReuseRetired)

	delta := d.Delta(tr)
	if got := accessID(t, tr, tr.Root()); got != 1 {
		t.Errorf("root ID = %d, want 1", got)
	}
	if got := accessID(t, tr, a); got != 2 {
		t.Errorf("a ID = %d, want 2", got)
	}
	if got := accessID(t, tr, b); got != 3 {
		t.Errorf("b ID = %d, want 3", got)
	}
	if len(delta.Updates) != 3 || len(delta.Removed) != 0 {
		t.Fatalf("delta = %+v", delta)
	}
	if diff := cmp.Diff([]AccessID{2, 3}, delta.Updates[0].Description.Children); diff != "" {
		t.Errorf("root children (-want +got):\n%s", diff)
	}
}

func TestDifferIDsStableAcrossFrames(t *testing.T) {
	tr := NewTree(DefaultStyle())
	a := mustInsertUnder(t, tr, tr.Root(), Text("a", "A"))
	d := NewAccessibilityDiffer(ReuseRetired)
	d.Delta(tr)
	tr.EndFrame()
	first := accessID(t, tr, a)

	for i := 0; i < 3; i++ {
		if err := tr.SetText(a, "changed"); err != nil {
			t.Fatal(err)
		}
		delta := d.Delta(tr)
		tr.EndFrame()
		if len(delta.Updates) != 1 || delta.Updates[0].ID != first {
			t.Fatalf("frame %d delta = %+v, want single update for %d", i, delta, first)
		}
	}
}

func TestDifferReusePolicies(t *testing.T) {
	tests := []struct {
		policy ReusePolicy
		want   AccessID
	}{
		{ReuseRetired, 2},
		{NeverReuse, 4},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			tr := NewTree(DefaultStyle())
			root := tr.Root()
			a := mustInsertUnder(t, tr, root, Text("a", "A"))
			mustInsertUnder(t, tr, root, Text("b", "B"))
			d := NewAccessibilityDiffer(tt.policy)
			d.Delta(tr)
			tr.EndFrame()

			if err := tr.Remove(a); err != nil {
				t.Fatal(err)
			}
			delta := d.Delta(tr)
			tr.EndFrame()
			if diff := cmp.Diff([]AccessID{2}, delta.Removed); diff != "" {
				t.Errorf("removed (-want +got):\n%s", diff)
			}
			if len(delta.Updates) != 1 || delta.Updates[0].ID != 1 {
				t.Errorf("updates = %+v, want only the root", delta.Updates)
			}
			if diff := cmp.Diff([]AccessID{3}, delta.Updates[0].Description.Children); diff != "" {
				t.Errorf("root children (-want +got):\n%s", diff)
			}

			c := mustInsertUnder(t, tr, root, Text("c", "C"))
			d.Delta(tr)
			if got := accessID(t, tr, c); got != tt.want {
				t.Errorf("new node ID = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDifferNoReuseWithinRemovingDelta(t *testing.T) {
	tr := NewTree(DefaultStyle())
	root := tr.Root()
	a := mustInsertUnder(t, tr, root, Text("a", "A"))
	mustInsertUnder(t, tr, root, Text("b", "B"))
	d := NewAccessibilityDiffer(ReuseRetired)
	d.Delta(tr)
	tr.EndFrame()

	if err := tr.Remove(a); err != nil {
		t.Fatal(err)
	}
	c := mustInsertUnder(t, tr, root, Text("c", "C"))
	delta := d.Delta(tr)

	if got := accessID(t, tr, c); got != 4 {
		t.Errorf("new node ID = %d, want 4", got)
	}
	for _, u := range delta.Updates {
		for _, r := range delta.Removed {
			if u.ID == r {
				t.Errorf("ID %d both updated and removed", r)
			}
		}
	}
}

func TestDifferSkipsRemovedDirtyEntries(t *testing.T) {
	tr := NewTree(DefaultStyle())
	tr.EndFrame()
	a := mustInsertUnder(t, tr, tr.Root(), Text("a", "A"))
	if err := tr.Remove(a); err != nil {
		t.Fatal(err)
	}
	d := NewAccessibilityDiffer(ReuseRetired)
	delta := d.Delta(tr)
	if len(delta.Removed) != 0 {
		t.Errorf("removed = %v, node never had an ID", delta.Removed)
	}
	if len(delta.Updates) != 1 || delta.Updates[0].ID != 1 {
		t.Errorf("updates = %+v, want the root only", delta.Updates)
	}
}

// --- Descriptions ---

func TestDifferDescriptions(t *testing.T) {
	tr := NewTree(DefaultStyle())
	root := tr.Root()
	label := mustInsertUnder(t, tr, root, Text("label", "hello"))
	named := mustInsertUnder(t, tr, root, Text("named", "x"))
	if err := tr.SetLabel(named, "close"); err != nil {
		t.Fatal(err)
	}
	button := mustInsertUnder(t, tr, root, Container("button", DefaultStyle()))
	if err := tr.SetHandler(button, EventClick, func(*Tree, Event) {}); err != nil {
		t.Fatal(err)
	}
	hover := mustInsertUnder(t, tr, root, Container("hover", DefaultStyle()))
	if err := tr.SetHandler(hover, EventPointerEnter, func(*Tree, Event) {}); err != nil {
		t.Fatal(err)
	}
	plain := mustInsertUnder(t, tr, root, Container("plain", DefaultStyle()))

	d := NewAccessibilityDiffer(ReuseRetired)
	delta := d.Delta(tr)
	byID := map[AccessID]Description{}
	for _, u := range delta.Updates {
		byID[u.ID] = u.Description
	}

	tests := []struct {
		name        string
		h           Handle
		role        Role
		label       string
		actions     Action
		interactive bool
	}{
		{"text", label, RoleLabel, "hello", 0, false},
		{"explicit label", named, RoleLabel, "close", 0, false},
		{"clickable container", button, RoleButton, "", ActionClick, true},
		{"hover container", hover, RoleGroup, "", ActionHover, true},
		{"plain container", plain, RoleGroup, "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, ok := byID[accessID(t, tr, tt.h)]
			if !ok {
				t.Fatal("no update")
			}
			if desc.Role != tt.role {
				t.Errorf("Role = %s, want %s", desc.Role, tt.role)
			}
			if desc.Label != tt.label {
				t.Errorf("Label = %q, want %q", desc.Label, tt.label)
			}
			if desc.Actions != tt.actions {
				t.Errorf("Actions = %b, want %b", desc.Actions, tt.actions)
			}
			if desc.Interactive != tt.interactive {
				t.Errorf("Interactive = %v, want %v", desc.Interactive, tt.interactive)
			}
		})
	}
}

func TestDifferUpdatesInQueueOrder(t *testing.T) {
	tr := NewTree(DefaultStyle())
	a := mustInsertUnder(t, tr, tr.Root(), Text("a", "A"))
	b := mustInsertUnder(t, tr, tr.Root(), Text("b", "B"))
	d := NewAccessibilityDiffer(ReuseRetired)
	d.Delta(tr)
	tr.EndFrame()

	for _, h := range []Handle{b, a, b} {
		if err := tr.MarkDirty(h); err != nil {
			t.Fatal(err)
		}
	}
	delta := d.Delta(tr)
	var got []AccessID
	for _, u := range delta.Updates {
		got = append(got, u.ID)
	}
	want := []AccessID{accessID(t, tr, b), accessID(t, tr, a)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("update order (-want +got):\n%s", diff)
	}
}

// --- Mirror ---

func TestMirrorApply(t *testing.T) {
	m := NewMirror()
	m.Apply(Delta{Updates: []Update{
		{ID: 1, Description: Description{Role: RoleGroup, Children: []AccessID{2}}},
		{ID: 2, Description: Description{Role: RoleLabel, Label: "a"}},
	}})
	m.Apply(Delta{
		Updates: []Update{{ID: 1, Description: Description{Role: RoleGroup}}},
		Removed: []AccessID{2},
	})
	if m.Len() != 1 || m.Applied() != 2 {
		t.Errorf("Len = %d, Applied = %d", m.Len(), m.Applied())
	}
	if _, ok := m.Get(2); ok {
		t.Error("removed ID still retained")
	}
	// Removals are applied before updates.
	m.Apply(Delta{
		Updates: []Update{{ID: 3, Description: Description{Label: "new"}}},
		Removed: []AccessID{3},
	})
	if desc, ok := m.Get(3); !ok || desc.Label != "new" {
		t.Errorf("Get(3) = %+v, %v", desc, ok)
	}
}

func TestDeltaEmpty(t *testing.T) {
	if !(Delta{}).Empty() {
		t.Error("zero delta not empty")
	}
	if (Delta{Removed: []AccessID{1}}).Empty() {
		t.Error("delta with removals reported empty")
	}
}

// --- Policy parsing ---

func TestParseReusePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ReusePolicy
		wantErr bool
	}{
		{"", ReuseRetired, false},
		{"reuse", ReuseRetired, false},
		{"never", NeverReuse, false},
		{"sometimes", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReusePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseReusePolicy(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestReusePolicyYAML(t *testing.T) {
	var v struct {
		Policy ReusePolicy `yaml:"policy"`
	}
	if err := yaml.Unmarshal([]byte("policy: never\n"), &v); err != nil {
		t.Fatal(err)
	}
	if v.Policy != NeverReuse {
		t.Errorf("Policy = %s, want never", v.Policy)
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "policy: never\n" {
		t.Errorf("Marshal = %q", out)
	}
	if err := yaml.Unmarshal([]byte("policy: bogus\n"), &v); err == nil {
		t.Error("bogus policy accepted")
	}
}
