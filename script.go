package trellis

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// scriptStep is a single action in a gesture script.
type scriptStep struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

type gestureScript struct {
	Steps []scriptStep `yaml:"steps"`
}

// ScriptRunner replays a sequence of injected gestures and history commands
// across frames. Attach to a Scene via SetScriptRunner.
//
//	steps:
//	  - action: drag
//	    fromX: 40
//	    fromY: 40
//	    toX: 300
//	    toY: 120
//	    frames: 10
//	  - action: wait
//	    frames: 2
//	  - action: undo
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

var scriptActions = map[string]bool{
	"click": true, "drag": true, "wait": true, "undo": true, "redo": true,
}

// LoadScript parses a YAML gesture script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var script gestureScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range script.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// SetScriptRunner attaches a runner. Its step method is called from
// Scene.Update before input is processed.
func (s *Scene) SetScriptRunner(r *ScriptRunner) {
	s.script = r
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Injected events drain before the next step.
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
	s.log().WithField("action", st.Action).Debug("script step")

	switch st.Action {
	case "click":
		s.InjectClick(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	case "undo":
		s.history.Undo()
	case "redo":
		s.history.Redo()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
