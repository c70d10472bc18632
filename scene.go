package canopy

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/phanxgames/canopy/flex"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events on nodes bound to an entity are
// forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	Node      Handle
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// Mutation is a deferred tree edit posted from outside the frame loop.
type Mutation func(t *Tree)

// Scene is the top-level object that owns the node tree and runs the
// per-frame cycle: apply posted mutations, route input, lay out, diff the
// accessibility tree, then clear the frame's dirty state.
//
// Every method except Post and Close must be called from the goroutine that
// runs Update.
type Scene struct {
	tree   *Tree
	layout *LayoutEngine
	differ *AccessibilityDiffer
	hits   HitTester
	sink   AccessibilitySink
	store  EntityStore
	logger *zap.Logger
	cfg    Config
	debug  bool

	// Posted mutations
	mu        sync.RWMutex
	mutations chan Mutation
	closed    bool

	lastDelta Delta
	frame     uint64

	// Input state
	listeners   listenerRegistry
	pointer     pointerState
	captured    Handle
	injectQueue []PointerEvent

	tweens          []*TweenGroup
	testRunner      *TestRunner
	screenshotQueue []string
}

// NewScene creates a scene from cfg. Zero fields take their DefaultConfig
// values; a nil Solver uses a fresh flex.Solver. When a viewport is set the
// root container is fixed to it.
func NewScene(cfg Config) *Scene {
	cfg = cfg.withDefaults()
	solver := cfg.Solver
	if solver == nil {
		solver = flex.NewSolver()
	}

	rootStyle := DefaultStyle()
	if cfg.Viewport.Width > 0 {
		rootStyle.Layout.Width = flex.Points(cfg.Viewport.Width)
	}
	if cfg.Viewport.Height > 0 {
		rootStyle.Layout.Height = flex.Points(cfg.Viewport.Height)
	}

	s := &Scene{
		tree:      NewTree(rootStyle),
		layout:    NewLayoutEngine(solver, cfg.Measurer, cfg.Logger),
		differ:    NewAccessibilityDiffer(cfg.IDReuse),
		logger:    cfg.Logger,
		cfg:       cfg,
		debug:     cfg.Debug,
		mutations: make(chan Mutation, cfg.MutationQueue),
	}
	return s
}

// Tree returns the scene's node tree.
func (s *Scene) Tree() *Tree {
	return s.tree
}

// Root returns the root container handle.
func (s *Scene) Root() Handle {
	return s.tree.Root()
}

// Config returns the effective configuration.
func (s *Scene) Config() Config {
	return s.cfg
}

// Frame returns the number of completed Update calls.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// LastDelta returns the accessibility delta produced by the last flush.
func (s *Scene) LastDelta() Delta {
	return s.lastDelta
}

// Logger returns the scene's logger.
func (s *Scene) Logger() *zap.Logger {
	return s.logger
}

// SetLogger replaces the scene's logger. nil discards output.
func (s *Scene) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.logger = l
	s.layout.logger = l
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetAccessibilitySink sets where each frame's accessibility delta is sent.
func (s *Scene) SetAccessibilitySink(sink AccessibilitySink) {
	s.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame
// timings and tree depth and child count warnings are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// --- Posted mutations ---

// Post enqueues m to run at the start of the next Update. It never blocks:
// it returns false when the queue is full or the scene is closed. Safe for
// concurrent use.
func (s *Scene) Post(m Mutation) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || m == nil {
		return false
	}
	select {
	case s.mutations <- m:
		return true
	default:
		return false
	}
}

// Close stops accepting posts. Mutations already queued still run on the
// next Update. Safe for concurrent use and idempotent.
func (s *Scene) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.mutations)
}

// applyMutations runs every queued mutation, in posting order.
func (s *Scene) applyMutations() int {
	n := 0
	for {
		select {
		case m, ok := <-s.mutations:
			if !ok {
				return n
			}
			m(s.tree)
			n++
		default:
			return n
		}
	}
}

// --- Frame cycle ---

// Update runs one frame: posted mutations, the scripted-run step, one
// injected pointer event, tweens, then Flush. Layout failures are returned
// but do not stop the rest of the frame.
func (s *Scene) Update() error {
	applied := s.applyMutations()

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	var errs []error
	if _, err := s.processInjectedInput(); err != nil {
		errs = append(errs, err)
	}
	if err := s.updateTweens(float32(1.0 / float64(s.cfg.TPS))); err != nil {
		errs = append(errs, err)
	}

	_, err := s.flush(applied)
	errs = append(errs, err)
	s.frame++
	return errors.Join(errs...)
}

// Flush lays out the tree, produces the accessibility delta, hands it to the
// sink, writes queued screenshots and clears the frame's dirty state. Update
// calls it; call it directly when driving the tree without a frame loop.
func (s *Scene) Flush() (Delta, error) {
	return s.flush(0)
}

func (s *Scene) flush(applied int) (Delta, error) {
	var stats frameStats
	var t0 time.Time
	if s.debug {
		stats.mutations = applied
		stats.dirty = s.tree.dirty.Len()
		stats.removed = len(s.tree.graveyard)
		t0 = time.Now()
	}

	layoutErr := s.Layout()

	if s.debug {
		stats.layoutTime = time.Since(t0)
		t0 = time.Now()
	}

	delta := s.AccessibilityDelta()
	if s.sink != nil && !delta.Empty() {
		s.sink.Apply(delta)
	}
	s.lastDelta = delta

	if s.debug {
		stats.diffTime = time.Since(t0)
		stats.updates = len(delta.Updates)
		s.debugLog(stats)
		s.debugCheckTree()
	}

	s.flushScreenshots()
	s.tree.EndFrame()
	return delta, layoutErr
}

// Layout runs a layout pass for the whole tree without ending the frame.
func (s *Scene) Layout() error {
	return s.layout.Layout(s.tree, s.tree.Root())
}

// AccessibilityDelta diffs the current dirty queue without ending the frame.
func (s *Scene) AccessibilityDelta() Delta {
	return s.differ.Delta(s.tree)
}

// Paint draws the tree into c using the boxes of the last layout pass.
func (s *Scene) Paint(c Canvas) error {
	return Paint(s.tree, s.tree.Root(), c)
}

// HitTest returns the topmost node under (x, y).
func (s *Scene) HitTest(x, y float64, mode HitMode) (Handle, bool) {
	return s.hits.HitTest(s.tree, s.tree.Root(), x, y, mode)
}

// Dispatch delivers ev to h's handler. See the package-level Dispatch.
func (s *Scene) Dispatch(h Handle, ev Event) (bool, error) {
	return Dispatch(s.tree, h, ev)
}
