package canopy

import "fmt"

// Handle is an opaque, stable reference to a node. A handle stays valid for
// the node's whole lifetime. When the node is removed its arena slot may be
// recycled, but under a new generation, so an old handle never resolves to a
// different node. The zero Handle never refers to a node.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.index == 0
}

func (h Handle) String() string {
	if h.IsZero() {
		return "#nil"
	}
	return fmt.Sprintf("#%d.%d", h.index, h.gen)
}
