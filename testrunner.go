package canopy

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a scripted run.
type scriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `yaml:"steps"`
}

var knownActions = map[string]bool{
	"click": true, "hover": true, "drag": true, "wait": true, "screenshot": true,
}

// TestRunner sequences injected input and screenshots across frames for
// automated visual testing. Attach it with Scene.SetTestRunner.
type TestRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML (or JSON) script of steps. Actions are click,
// hover, drag, wait and screenshot.
func LoadScript(data []byte) (*TestRunner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range sc.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: sc.Steps}, nil
}

// SetTestRunner attaches a runner; it advances once per Update before
// injected input is processed.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether every step has run and its input has been consumed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Let pending injections drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "click":
		s.InjectClick(st.X, st.Y)
	case "hover":
		s.InjectHover(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
