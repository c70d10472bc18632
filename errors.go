package canopy

import (
	"errors"
	"fmt"

	"github.com/phanxgames/canopy/flex"
)

var (
	// ErrNotFound is matched by every LookupError.
	ErrNotFound = errors.New("canopy: node not found")

	// ErrCycle is returned when attaching a node under its own descendant.
	ErrCycle = errors.New("canopy: attach would create a cycle")

	// ErrRoot is returned when an operation would detach or destroy the root.
	ErrRoot = errors.New("canopy: operation not allowed on the root")

	// ErrKind is returned when a mutator does not apply to the node's kind.
	ErrKind = errors.New("canopy: wrong node kind")

	// ErrIndex is returned when a child index is out of range.
	ErrIndex = errors.New("canopy: child index out of range")
)

// LookupError reports a handle that refers to a missing or removed node.
type LookupError struct {
	Handle Handle
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("canopy: node %s not found", e.Handle)
}

// Is makes errors.Is(err, ErrNotFound) true for every LookupError.
func (e *LookupError) Is(target error) bool {
	return target == ErrNotFound
}

// SolverError reports a failure of the layout solver while building,
// computing, or reading back the node Handle. The affected subtree is rebuilt
// on the next layout pass.
type SolverError struct {
	Handle Handle
	Op     string
	Err    error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("canopy: layout %s for node %s: %v", e.Op, e.Handle, e.Err)
}

func (e *SolverError) Unwrap() error {
	return e.Err
}

// isInvalidSolverNode reports whether err means the solver no longer knows
// the referenced node.
func isInvalidSolverNode(err error) bool {
	return errors.Is(err, flex.ErrInvalidNode)
}
