package flip

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AnimationKind identifies one of the three animation callbacks. Values can
// be combined with bitwise OR (e.g. KindEnter | KindExit).
type AnimationKind uint8

const (
	KindMove  AnimationKind = 1 << iota // geometry changed between passes
	KindEnter                           // key appeared
	KindExit                            // key disappeared
)

func (k AnimationKind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindEnter:
		return "enter"
	case KindExit:
		return "exit"
	default:
		var names []string
		for _, kind := range []AnimationKind{KindMove, KindEnter, KindExit} {
			if k&kind != 0 {
				names = append(names, kind.String())
			}
		}
		if len(names) == 0 {
			return "none"
		}
		return strings.Join(names, "|")
	}
}

// MeasureFunc returns the geometry of a visual node relative to a stable
// ancestor. ok is false when the handle has no measurable node yet; the key is
// then skipped for this pass.
type MeasureFunc func(handle any) (r Rect, ok bool)

// AnimateOptions carries per-animation scheduling data.
type AnimateOptions struct {
	// Kind is the animation being started.
	Kind AnimationKind
	// Timing is the easing curve and duration to use.
	Timing Timing
	// Delay is the stagger delay before the animation starts moving.
	Delay time.Duration
	// Token is invalidated when the transition is superseded. Enter and exit
	// animations receive one; move animations receive nil.
	Token *Token
}

// AnimateFunc starts an animation on a visual node. For moves, style is the
// inverse delta to animate away; for enters it is the style to animate from;
// for exits it is the style to animate to. Returning an error (or panicking)
// is treated as an immediately settled animation.
type AnimateFunc func(handle any, style *StyleDelta, opts AnimateOptions) (Animation, error)

// Config configures a Scheduler. The zero value is usable: every unset field
// falls back to its documented default.
type Config struct {
	// Timing for all animations. Default: DefaultTiming.
	Timing *Timing
	// HiddenStyle is the style of a node before it enters and after it
	// exits. Default: opacity 0, scale 0.9.
	HiddenStyle *StyleDelta
	// EnterStyle overrides HiddenStyle for enter animations.
	EnterStyle *StyleDelta
	// ExitStyle overrides HiddenStyle for exit animations.
	ExitStyle *StyleDelta
	// StaggerDelay is the per-item stagger step. Default: 16.6ms.
	StaggerDelay time.Duration
	// StaggerCap bounds any single stagger delay. Default: 333ms.
	StaggerCap time.Duration
	// AnimateOnMount runs enter animations for items present at the first
	// commit. Default: false.
	AnimateOnMount bool
	// Measure overrides geometry measurement. Default: MeasureOffset.
	Measure MeasureFunc
	// Move, Enter, Exit override the animation callbacks. Nil selects the
	// default *Node animations driven by Animator.
	Move  AnimateFunc
	Enter AnimateFunc
	Exit  AnimateFunc
	// Disable switches off the named animation callbacks entirely.
	Disable AnimationKind
	// Animator drives the default animations. Default: a new Animator that
	// the caller advances through Scheduler.Animator().
	Animator *Animator
	// Environment overrides DetectEnvironment, resolved once at construction.
	Environment *Environment
	// ResizeDebounce is the quiet period before re-measuring after an
	// ambient resize. Default: 100ms.
	ResizeDebounce time.Duration
}

// DefaultResizeDebounce is the default quiet period after a resize.
const DefaultResizeDebounce = 100 * time.Millisecond

// DefaultHiddenStyle returns the default hidden style: opacity 0, scale 0.9.
func DefaultHiddenStyle() *StyleDelta {
	opacity := 0.0
	return &StyleDelta{
		Opacity: &opacity,
		Scale:   &Vec2{X: 0.9, Y: 0.9},
	}
}

// withDefaults returns a copy of c with every unset field resolved.
func (c Config) withDefaults() Config {
	if c.Timing == nil {
		t := DefaultTiming
		c.Timing = &t
	}
	if c.HiddenStyle == nil {
		c.HiddenStyle = DefaultHiddenStyle()
	}
	if c.EnterStyle == nil {
		c.EnterStyle = c.HiddenStyle
	}
	if c.ExitStyle == nil {
		c.ExitStyle = c.HiddenStyle
	}
	if c.StaggerDelay == 0 {
		c.StaggerDelay = DefaultStaggerDelay
	}
	if c.StaggerCap == 0 {
		c.StaggerCap = DefaultStaggerCap
	}
	if c.Measure == nil {
		c.Measure = MeasureOffset
	}
	if c.Animator == nil {
		c.Animator = NewAnimator()
	}
	if c.Move == nil {
		c.Move = c.Animator.Move
	}
	if c.Enter == nil {
		c.Enter = c.Animator.Enter
	}
	if c.Exit == nil {
		c.Exit = c.Animator.Exit
	}
	if c.Environment == nil {
		env := DetectEnvironment()
		c.Environment = &env
	}
	if c.ResizeDebounce == 0 {
		c.ResizeDebounce = DefaultResizeDebounce
	}
	return c
}

// animateFunc returns the callback for kind, or nil when it is disabled.
func (c *Config) animateFunc(kind AnimationKind) AnimateFunc {
	if c.Disable&kind != 0 {
		return nil
	}
	switch kind {
	case KindMove:
		return c.Move
	case KindEnter:
		return c.Enter
	case KindExit:
		return c.Exit
	}
	return nil
}

// --- YAML loading ---

// Duration is a time.Duration that unmarshals from YAML strings such as
// "16.6ms" or from bare numbers interpreted as milliseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var ms float64
	if err := node.Decode(&ms); err == nil {
		*d = Duration(ms * float64(time.Millisecond))
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: duration must be a string or number", node.Line)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML accepts a scalar (applied to both axes), a two-element
// sequence, or an {x, y} mapping.
func (v *Vec2) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = Vec2{X: f, Y: f}
		return nil
	case yaml.SequenceNode:
		var pair []float64
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: expected 2 values, got %d", node.Line, len(pair))
		}
		*v = Vec2{X: pair[0], Y: pair[1]}
		return nil
	case yaml.MappingNode:
		var m struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		*v = Vec2{X: m.X, Y: m.Y}
		return nil
	}
	return fmt.Errorf("line %d: unsupported vector value", node.Line)
}

// fileConfig is the YAML form of Config.
type fileConfig struct {
	Spring         yaml.Node   `yaml:"spring"`
	HiddenStyle    *StyleDelta `yaml:"hiddenStyle"`
	EnterStyle     *StyleDelta `yaml:"enterStyle"`
	ExitStyle      *StyleDelta `yaml:"exitStyle"`
	StaggerDelay   Duration    `yaml:"staggerDelay"`
	StaggerCap     Duration    `yaml:"staggerCap"`
	AnimateOnMount bool        `yaml:"animateOnMount"`
	Disable        []string    `yaml:"disable"`
	ReducedMotion  string      `yaml:"reducedMotion"`
	ResizeDebounce Duration    `yaml:"resizeDebounce"`
}

// LoadConfig parses a YAML configuration document. A spring section is
// synthesized into Config.Timing, starting from DefaultSpring for any field
// it leaves out:
//
//	spring:
//	  stiffness: 300
//	  damping: 20
//	hiddenStyle:
//	  opacity: 0
//	  scale: 0.8
//	staggerDelay: 20ms
//	animateOnMount: true
//	disable: [move]
//	reducedMotion: auto   # auto | on | off
func LoadConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Config{
		HiddenStyle:    fc.HiddenStyle,
		EnterStyle:     fc.EnterStyle,
		ExitStyle:      fc.ExitStyle,
		StaggerDelay:   time.Duration(fc.StaggerDelay),
		StaggerCap:     time.Duration(fc.StaggerCap),
		AnimateOnMount: fc.AnimateOnMount,
		ResizeDebounce: time.Duration(fc.ResizeDebounce),
	}

	if fc.Spring.Kind != 0 {
		spring := DefaultSpring()
		if err := fc.Spring.Decode(&spring); err != nil {
			return Config{}, fmt.Errorf("parse config: spring: %w", err)
		}
		timing, err := Synthesize(spring)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg.Timing = &timing
	}

	for _, name := range fc.Disable {
		switch strings.ToLower(name) {
		case "move":
			cfg.Disable |= KindMove
		case "enter":
			cfg.Disable |= KindEnter
		case "exit":
			cfg.Disable |= KindExit
		default:
			return Config{}, fmt.Errorf("parse config: unknown animation %q in disable", name)
		}
	}

	switch strings.ToLower(fc.ReducedMotion) {
	case "", "auto":
	case "on", "reduce":
		cfg.Environment = &Environment{ReducedMotion: true}
	case "off", "no-preference":
		cfg.Environment = &Environment{ReducedMotion: false}
	default:
		return Config{}, fmt.Errorf("parse config: unknown reducedMotion %q", fc.ReducedMotion)
	}

	return cfg, nil
}
