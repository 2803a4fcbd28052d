package flip

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultCommandCap = 256

// Scene is the top-level object that owns the node tree, the shared Animator,
// the attached keyed lists and the render buffers.
type Scene struct {
	root     *Node
	animator *Animator
	updaters []Updater
	store    EventSink
	debug    bool

	// ClearColor fills the screen before drawing when its alpha is positive.
	ClearColor Color
	// ScreenshotDir is where Screenshot writes PNGs. Default: "screenshots".
	ScreenshotDir string

	screenshotQueue []string

	updateFunc func() error
	script     *ScriptRunner
	target     func(keys []string)

	width, height int
	resizeQueue   []Vec2

	commands []RenderCommand
	frames   uint64
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	return &Scene{
		root:     NewContainer("root"),
		animator: NewAnimator(),
		commands: make([]RenderCommand, 0, defaultCommandCap),
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Animator returns the Animator the scene advances every frame. Pass it in
// Config.Animator so lists share the scene's frame clock.
func (s *Scene) Animator() *Animator {
	return s.animator
}

// Attach registers u to be updated every frame after animations advance.
// Updaters that publish lifecycle events are connected to the scene's
// event sink.
func (s *Scene) Attach(u Updater) {
	s.updaters = append(s.updaters, u)
	if src, ok := u.(eventSource); ok && s.store != nil {
		src.SetEventSink(s.store)
	}
}

// Detach removes u from the scene.
func (s *Scene) Detach(u Updater) {
	for i, x := range s.updaters {
		if x == u {
			s.updaters = append(s.updaters[:i], s.updaters[i+1:]...)
			return
		}
	}
}

// SetUpdateFunc installs a callback invoked once per frame before the scene
// advances. Returning an error stops Run.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// Update advances the scene by one tick at the ebiten tick rate.
func (s *Scene) Update() {
	dt := time.Duration(float64(time.Second) / float64(ebiten.TPS()))
	s.UpdateWithDelta(dt)
}

// UpdateWithDelta advances the scene by dt: scripted steps and injected
// resizes are applied, animations advance, attached lists sync and lay out,
// and node update hooks run.
func (s *Scene) UpdateWithDelta(dt time.Duration) {
	s.frames++
	if s.script != nil {
		s.script.step(s)
	}
	s.processInjectedResize()

	s.animator.Update(float32(dt.Seconds()))
	for _, u := range s.updaters {
		u.Update(dt)
	}
	updateNodes(s.root, dt.Seconds())
	updateWorldTransform(s.root, identityTransform, 1.0, false)
}

// updateNodes calls OnUpdate on every node, depth-first.
func updateNodes(n *Node, dt float64) {
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	for _, child := range n.children {
		updateNodes(child, dt)
	}
}

// Draw traverses the scene tree, emits render commands and submits them to
// screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.commands = s.commands[:0]
	treeOrder := 0
	s.traverse(s.root, identityTransform, 1.0, false, &treeOrder)

	if s.debug {
		stats.traverseTime = time.Since(t0)
		stats.commandCount = len(s.commands)
		t0 = time.Now()
	}

	s.submit(screen)

	if s.debug {
		stats.submitTime = time.Since(t0)
		stats.tweenCount = s.animator.Len()
		s.debugLog(stats)
	}

	s.flushScreenshots(screen)
}

// Resize records a new screen size. Attached lists are notified so they
// re-measure once the resize settles. The first call only records the size.
func (s *Scene) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	first := s.width == 0 && s.height == 0
	s.width, s.height = width, height
	if first {
		return
	}
	for _, u := range s.updaters {
		if r, ok := u.(resizer); ok {
			r.NotifyResize()
		}
	}
}

// Size returns the last recorded screen size.
func (s *Scene) Size() (width, height int) {
	return s.width, s.height
}

// Busy reports whether any animation is running or any attached list has a
// cycle in flight.
func (s *Scene) Busy() bool {
	if s.animator.Len() > 0 {
		return true
	}
	for _, u := range s.updaters {
		if b, ok := u.(interface{ Busy() bool }); ok && b.Busy() {
			return true
		}
	}
	return false
}

// Frames returns the number of updates the scene has run.
func (s *Scene) Frames() uint64 {
	return s.frames
}

// SetEntityStore sets the sink that receives lifecycle events from every
// attached list, such as the ecs adapter.
func (s *Scene) SetEntityStore(store EventSink) {
	s.store = store
	for _, u := range s.updaters {
		if src, ok := u.(eventSource); ok {
			src.SetEventSink(store)
		}
	}
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame timing stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

type eventSource interface {
	SetEventSink(sink EventSink)
}

type resizer interface {
	NotifyResize()
}
