package flip

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a session script.
type scriptStep struct {
	Action string   `yaml:"action"`
	Label  string   `yaml:"label,omitempty"`
	Items  []string `yaml:"items,omitempty"`
	Width  int      `yaml:"width,omitempty"`
	Height int      `yaml:"height,omitempty"`
	Frames int      `yaml:"frames,omitempty"`
}

// script is the top-level YAML structure for a session script.
type script struct {
	Steps []scriptStep `yaml:"steps"`
}

// defaultSettleFrames bounds a settle step that names no frame limit.
const defaultSettleFrames = 600

// ScriptRunner replays reconcile, wait, resize, settle and screenshot steps
// across frames. Attach it to a Scene with SetScript.
//
//	steps:
//	  - action: reconcile
//	    items: [a, b, c]
//	  - action: settle
//	  - action: reconcile
//	    items: [c, a]
//	  - action: resize
//	    width: 800
//	    height: 600
//	  - action: wait
//	    frames: 10
//	  - action: screenshot
//	    label: mid-move
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	settling  int
	done      bool
	timedOut  bool
}

// LoadScript parses a YAML session script and returns a ScriptRunner ready
// to be attached to a Scene via SetScript.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "reconcile", "wait", "settle", "screenshot":
		case "resize":
			if st.Width <= 0 || st.Height <= 0 {
				return nil, fmt.Errorf("parse script: step %d: resize needs a positive width and height", i)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// SetScript attaches runner to the scene. Reconcile steps pass their items
// to target. The runner advances from Scene.Update before anything else.
func (s *Scene) SetScript(runner *ScriptRunner, target func(keys []string)) {
	s.script = runner
	s.target = target
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// TimedOut reports whether a settle step gave up before the scene went idle.
func (r *ScriptRunner) TimedOut() bool {
	return r.timedOut
}

// step advances the runner by one frame. Called from Scene.UpdateWithDelta.
func (r *ScriptRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.resizeQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.settling > 0 {
		if s.Busy() {
			r.settling--
			if r.settling == 0 {
				r.timedOut = true
				Logger().Warn("flip: script settle step timed out", "step", r.cursor-1)
			}
			return
		}
		r.settling = 0
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "reconcile":
		if s.target != nil {
			s.target(st.Items)
		}
	case "resize":
		s.InjectResize(st.Width, st.Height)
	case "screenshot":
		s.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "settle":
		frames := st.Frames
		if frames <= 0 {
			frames = defaultSettleFrames
		}
		r.settling = frames
	}
}
