package canopy

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"go.uber.org/zap"
)

// frameStats holds per-frame timing and queue metrics.
// Only populated when the scene is in debug mode.
type frameStats struct {
	mutations  int
	dirty      int
	removed    int
	updates    int
	layoutTime time.Duration
	diffTime   time.Duration
}

func (s *Scene) debugLog(stats frameStats) {
	s.logger.Debug("frame",
		zap.Uint64("frame", s.frame),
		zap.Int("mutations", stats.mutations),
		zap.Int("dirty", stats.dirty),
		zap.Int("removed", stats.removed),
		zap.Int("a11y_updates", stats.updates),
		zap.Duration("layout", stats.layoutTime),
		zap.Duration("diff", stats.diffTime),
		zap.Duration("total", stats.layoutTime+stats.diffTime),
	)
}

const (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

// debugCheckTree warns when the tree is deeper than debugMaxTreeDepth or a
// node has more than debugMaxChildCount children.
func (s *Scene) debugCheckTree() {
	type entry struct {
		h     Handle
		depth int
	}
	stack := []entry{{s.tree.root, 1}}
	warnedDepth := false
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, err := s.tree.node(e.h)
		if err != nil {
			continue
		}
		if e.depth > debugMaxTreeDepth && !warnedDepth {
			s.logger.Warn("tree depth exceeds threshold",
				zap.Int("depth", e.depth), zap.Int("threshold", debugMaxTreeDepth),
				zap.String("node", n.name), zap.Stringer("handle", n.handle))
			warnedDepth = true
		}
		if len(n.children) > debugMaxChildCount {
			s.logger.Warn("node child count exceeds threshold",
				zap.Int("children", len(n.children)), zap.Int("threshold", debugMaxChildCount),
				zap.String("node", n.name), zap.Stringer("handle", n.handle))
		}
		for _, c := range n.children {
			stack = append(stack, entry{c, e.depth + 1})
		}
	}
}

var dumpEnumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginRight(1)

// DumpTree renders the subtree rooted at h, one node per line, with its
// kind, handle, absolute box and accessibility ID.
func DumpTree(t *Tree, h Handle) (string, error) {
	n, err := t.node(h)
	if err != nil {
		return "", err
	}
	root := tree.Root(describeNode(n)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(dumpEnumStyle)
	dumpChildren(t, n, root)
	return root.String(), nil
}

func dumpChildren(t *Tree, n *Node, parent *tree.Tree) {
	for _, c := range n.children {
		cn, err := t.node(c)
		if err != nil {
			continue
		}
		if len(cn.children) == 0 {
			parent.Child(describeNode(cn))
			continue
		}
		sub := tree.Root(describeNode(cn))
		dumpChildren(t, cn, sub)
		parent.Child(sub)
	}
}

func describeNode(n *Node) string {
	var b strings.Builder
	if n.name != "" {
		b.WriteString(n.name)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%s %s", n.kind, n.handle)
	if n.kind == KindText {
		fmt.Fprintf(&b, " %q", n.text)
	}
	box := n.absoluteBox
	fmt.Fprintf(&b, " [%g,%g %gx%g]", box.X, box.Y, box.Width, box.Height)
	if n.accessID != 0 {
		fmt.Fprintf(&b, " a11y=%d", n.accessID)
	}
	return b.String()
}

// DumpTree renders the scene's tree. See the package-level DumpTree.
func (s *Scene) DumpTree() string {
	out, _ := DumpTree(s.tree, s.tree.Root())
	return out
}
