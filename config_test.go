package flip

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Environment: &Environment{}}.withDefaults()

	require.NotNil(t, cfg.Timing)
	assert.Equal(t, DefaultTiming.Duration, cfg.Timing.Duration)
	assert.Equal(t, DefaultHiddenStyle(), cfg.HiddenStyle)
	assert.Same(t, cfg.HiddenStyle, cfg.EnterStyle)
	assert.Same(t, cfg.HiddenStyle, cfg.ExitStyle)
	assert.Equal(t, DefaultStaggerDelay, cfg.StaggerDelay)
	assert.Equal(t, DefaultStaggerCap, cfg.StaggerCap)
	assert.Equal(t, DefaultResizeDebounce, cfg.ResizeDebounce)
	assert.False(t, cfg.AnimateOnMount)
	assert.NotNil(t, cfg.Animator)
	assert.NotNil(t, cfg.Measure)
	assert.NotNil(t, cfg.animateFunc(KindMove))
	assert.NotNil(t, cfg.animateFunc(KindEnter))
	assert.NotNil(t, cfg.animateFunc(KindExit))
}

func TestConfigDisable(t *testing.T) {
	cfg := Config{Disable: KindEnter | KindExit, Environment: &Environment{}}.withDefaults()
	assert.NotNil(t, cfg.animateFunc(KindMove))
	assert.Nil(t, cfg.animateFunc(KindEnter))
	assert.Nil(t, cfg.animateFunc(KindExit))
}

func TestAnimationKindString(t *testing.T) {
	assert.Equal(t, "move", KindMove.String())
	assert.Equal(t, "enter|exit", (KindEnter | KindExit).String())
	assert.Equal(t, "none", AnimationKind(0).String())
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig([]byte(`
spring:
  stiffness: 300
  damping: 20
hiddenStyle:
  opacity: 0
  scale: 0.8
exitStyle:
  translate: [0, 20]
  opacity: 0
staggerDelay: 20ms
staggerCap: 250
animateOnMount: true
disable: [move]
reducedMotion: on
resizeDebounce: 50ms
`))
	require.NoError(t, err)

	spring := DefaultSpring()
	spring.Stiffness, spring.Damping = 300, 20
	want, err := Synthesize(spring)
	require.NoError(t, err)
	require.NotNil(t, cfg.Timing)
	assert.Equal(t, want, *cfg.Timing)

	require.NotNil(t, cfg.HiddenStyle)
	assert.Equal(t, Vec2{X: 0.8, Y: 0.8}, *cfg.HiddenStyle.Scale)
	assert.Equal(t, 0.0, *cfg.HiddenStyle.Opacity)
	assert.Nil(t, cfg.EnterStyle)
	assert.Equal(t, Vec2{X: 0, Y: 20}, *cfg.ExitStyle.Translate)

	assert.Equal(t, 20*time.Millisecond, cfg.StaggerDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.StaggerCap)
	assert.Equal(t, 50*time.Millisecond, cfg.ResizeDebounce)
	assert.True(t, cfg.AnimateOnMount)
	assert.Equal(t, KindMove, cfg.Disable)
	require.NotNil(t, cfg.Environment)
	assert.True(t, cfg.Environment.ReducedMotion)
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{}`))
	require.NoError(t, err)
	assert.Nil(t, cfg.Timing)
	assert.Nil(t, cfg.Environment, "auto defers to the process environment")
}

func TestLoadConfigVectorForms(t *testing.T) {
	cfg, err := LoadConfig([]byte(`
hiddenStyle:
  translate: {x: 4, y: -2}
  scale: [0.5, 0.7]
`))
	require.NoError(t, err)
	assert.Equal(t, Vec2{X: 4, Y: -2}, *cfg.HiddenStyle.Translate)
	assert.Equal(t, Vec2{X: 0.5, Y: 0.7}, *cfg.HiddenStyle.Scale)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"syntax", "spring: [", "parse config"},
		{"unknown disable", "disable: [fade]", `unknown animation "fade"`},
		{"reduced motion", "reducedMotion: sometimes", `unknown reducedMotion "sometimes"`},
		{"vector length", "hiddenStyle:\n  scale: [1, 2, 3]\n", "expected 2 values"},
		{"duration", "staggerDelay: soon\n", "invalid duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadConfigInvalidSpring(t *testing.T) {
	_, err := LoadConfig([]byte("spring:\n  stiffness: 0\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestDetectEnvironment(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"1", true},
		{"reduce", true},
		{" TRUE ", true},
		{"off", false},
		{"0", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(ReducedMotionEnv, tt.value)
			assert.Equal(t, tt.want, DetectEnvironment().ReducedMotion)
		})
	}
}

func TestSchedulerResolvesEnvironmentOnce(t *testing.T) {
	t.Setenv(ReducedMotionEnv, "1")
	sched := NewScheduler(func(i int) int { return i }, Config{})
	t.Setenv(ReducedMotionEnv, "")
	assert.True(t, sched.ReducedMotion())
}
