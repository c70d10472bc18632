package canopy

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Role is the platform-neutral accessibility role of a node.
type Role uint8

const (
	RoleGroup  Role = iota // container without actions
	RoleButton             // container with a click handler
	RoleLabel              // static text
)

func (r Role) String() string {
	switch r {
	case RoleGroup:
		return "group"
	case RoleButton:
		return "button"
	case RoleLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Action is a bitmask of actions an assistive technology can trigger.
type Action uint8

const (
	ActionClick Action = 1 << iota // node has a click handler
	ActionHover                    // node reacts to pointer enter/leave
)

// Description is the platform-neutral accessibility description of a node.
// Children lists the IDs of the node's children in order; it is the only
// tree-shape information a delta carries.
type Description struct {
	Role        Role
	Label       string
	Bounds      Rect
	Interactive bool
	Actions     Action
	Children    []AccessID
}

// Update pairs a stable ID with the node's current description.
type Update struct {
	ID          AccessID
	Description Description
}

// Delta is an incremental accessibility update: descriptions of the nodes
// that changed since the last delta, in dirty-queue order, and IDs of nodes
// removed since then. Consumers merge it into their retained tree.
type Delta struct {
	Updates []Update
	Removed []AccessID
}

// Empty reports whether the delta carries nothing.
func (d Delta) Empty() bool {
	return len(d.Updates) == 0 && len(d.Removed) == 0
}

// AccessibilitySink accepts incremental updates, e.g. a platform
// accessibility bridge.
type AccessibilitySink interface {
	Apply(d Delta)
}

// ReusePolicy selects what happens to IDs of removed nodes.
type ReusePolicy uint8

const (
	// ReuseRetired hands retired IDs out again, most recently retired first.
	ReuseRetired ReusePolicy = iota
	// NeverReuse allocates every ID from the monotonic counter.
	NeverReuse
)

func (p ReusePolicy) String() string {
	switch p {
	case ReuseRetired:
		return "reuse"
	case NeverReuse:
		return "never"
	default:
		return "unknown"
	}
}

// ParseReusePolicy parses "reuse" or "never".
func ParseReusePolicy(s string) (ReusePolicy, error) {
	switch s {
	case "", "reuse":
		return ReuseRetired, nil
	case "never":
		return NeverReuse, nil
	default:
		return 0, fmt.Errorf("unknown id reuse policy %q", s)
	}
}

// UnmarshalYAML decodes a policy name.
func (p *ReusePolicy) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := ParseReusePolicy(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*p = v
	return nil
}

// MarshalYAML encodes the policy name.
func (p ReusePolicy) MarshalYAML() (any, error) {
	return p.String(), nil
}

// AccessibilityDiffer assigns stable IDs to nodes and produces deltas for the
// dirty nodes of a cycle.
//
// An ID stays with its node while the node is live. IDs of removed nodes are
// reported in Delta.Removed and only become reusable after that delta has
// been produced, so no delta both removes and reassigns the same ID.
type AccessibilityDiffer struct {
	policy ReusePolicy
	nextID AccessID
	free   []AccessID
}

// NewAccessibilityDiffer creates a differ. IDs start at 1.
func NewAccessibilityDiffer(policy ReusePolicy) *AccessibilityDiffer {
	return &AccessibilityDiffer{policy: policy, nextID: 1}
}

// Policy returns the differ's reuse policy.
func (d *AccessibilityDiffer) Policy() ReusePolicy {
	return d.policy
}

// Delta builds the delta for the tree's current dirty queue and graveyard.
// It does not clear either; call Tree.EndFrame after the cycle. Dirty entries
// for removed nodes are skipped.
func (d *AccessibilityDiffer) Delta(t *Tree) Delta {
	var out Delta
	for _, h := range t.dirty.Unique() {
		n, err := t.node(h)
		if err != nil {
			continue
		}
		id := d.ensureID(n)
		out.Updates = append(out.Updates, Update{ID: id, Description: d.describe(t, n)})
	}

	var retired []AccessID
	for i := range t.graveyard {
		ts := &t.graveyard[i]
		if ts.AccessID == 0 {
			continue
		}
		out.Removed = append(out.Removed, ts.AccessID)
		retired = append(retired, ts.AccessID)
		ts.AccessID = 0
	}
	// Retire only after this delta's assignments are done.
	if d.policy == ReuseRetired {
		d.free = append(d.free, retired...)
	}
	return out
}

// ensureID returns n's ID, assigning one if needed.
func (d *AccessibilityDiffer) ensureID(n *Node) AccessID {
	if n.accessID == 0 {
		n.accessID = d.assign()
	}
	return n.accessID
}

// assign pops the free list, or takes the next counter value.
func (d *AccessibilityDiffer) assign() AccessID {
	if d.policy == ReuseRetired {
		if k := len(d.free); k > 0 {
			id := d.free[k-1]
			d.free = d.free[:k-1]
			return id
		}
	}
	id := d.nextID
	d.nextID++
	return id
}

// describe builds the description of n by kind.
func (d *AccessibilityDiffer) describe(t *Tree, n *Node) Description {
	desc := Description{
		Label:       n.label,
		Bounds:      n.absoluteBox,
		Interactive: n.Interactive(),
	}
	if n.handlers[EventClick] != nil {
		desc.Actions |= ActionClick
	}
	if n.handlers[EventPointerEnter] != nil || n.handlers[EventPointerLeave] != nil {
		desc.Actions |= ActionHover
	}

	switch n.kind {
	case KindContainer:
		desc.Role = RoleGroup
		if desc.Actions&ActionClick != 0 {
			desc.Role = RoleButton
		}
	case KindText:
		desc.Role = RoleLabel
		if desc.Label == "" {
			desc.Label = n.text
		}
	}

	if len(n.children) > 0 {
		desc.Children = make([]AccessID, 0, len(n.children))
		for _, c := range n.children {
			cn, err := t.node(c)
			if err != nil {
				continue
			}
			desc.Children = append(desc.Children, d.ensureID(cn))
		}
	}
	return desc
}

// Mirror is an AccessibilitySink that merges deltas into an in-memory copy
// of the accessibility tree.
type Mirror struct {
	nodes   map[AccessID]Description
	applied int
}

// NewMirror creates an empty mirror.
func NewMirror() *Mirror {
	return &Mirror{nodes: make(map[AccessID]Description)}
}

// Apply merges d: removals first, then updates.
func (m *Mirror) Apply(d Delta) {
	for _, id := range d.Removed {
		delete(m.nodes, id)
	}
	for _, u := range d.Updates {
		m.nodes[u.ID] = u.Description
	}
	m.applied++
}

// Get returns the retained description for id.
func (m *Mirror) Get(id AccessID) (Description, bool) {
	desc, ok := m.nodes[id]
	return desc, ok
}

// Len returns the number of retained nodes.
func (m *Mirror) Len() int {
	return len(m.nodes)
}

// Applied returns the number of deltas merged so far.
func (m *Mirror) Applied() int {
	return m.applied
}
