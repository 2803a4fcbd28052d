package flip

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of one key.
type State uint8

const (
	StateAbsent   State = iota // not in the committed list
	StateEntering              // committed; enter animation running or pending
	StateSteady                // committed and settled
	StateExiting               // dropped by a cycle; exit animation running
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateEntering:
		return "entering"
	case StateSteady:
		return "steady"
	case StateExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// Entry is a snapshot of one key in the committed list.
type Entry[K comparable, T any] struct {
	Key    K
	Item   T
	Handle any
	State  State
}

type entry[K comparable, T any] struct {
	key    K
	item   T
	handle any
	state  State

	// fresh entries have not been through a post-commit pass with a handle.
	fresh bool
	mount bool

	token       *Token
	anim        Animation
	exitCycle   *cycle[K, T]
	exitPending bool

	tracker MoveTracker
}

// Scheduler reconciles successive versions of a keyed list and sequences
// their exit, commit and move/enter phases so each cycle animates against a
// consistent layout.
//
// A Scheduler is single-threaded. Reconcile, AfterRender, SetHandle and the
// animation settled callbacks must all run on the goroutine that owns the
// frame loop; none of them block.
type Scheduler[K comparable, T any] struct {
	cfg     Config
	keyOf   func(T) K
	session string

	entries []*entry[K, T]
	byKey   map[K]*entry[K, T]

	active *cycle[K, T]
	queued *cycle[K, T]

	cycles  uint64
	commits uint64

	advancing bool
	again     bool
	pass      int

	resize ResizeDebouncer
	sink   EventSink
}

// NewScheduler creates a Scheduler that identifies items with keyOf. The
// environment (reduced motion) is resolved once here.
func NewScheduler[K comparable, T any](keyOf func(T) K, cfg Config) *Scheduler[K, T] {
	if keyOf == nil {
		panic("flip: NewScheduler requires a key function")
	}
	cfg = cfg.withDefaults()
	s := &Scheduler[K, T]{
		cfg:     cfg,
		keyOf:   keyOf,
		session: uuid.NewString(),
		byKey:   make(map[K]*entry[K, T]),
		resize:  ResizeDebouncer{Delay: cfg.ResizeDebounce},
	}
	Logger().Debug("flip: scheduler created",
		"session", s.session, "reducedMotion", cfg.Environment.ReducedMotion,
		"duration", cfg.Timing.Duration)
	return s
}

// Reconcile submits the next version of the list. Exiting keys that reappear
// are cancelled and reversed immediately; everything else waits until the
// cycle becomes active. If a cycle is already waiting behind the active one,
// items replace it, so bursts of updates collapse into the latest version.
func (s *Scheduler[K, T]) Reconcile(items []T) {
	c := s.newCycle(items)

	for _, k := range c.keys {
		if e := s.byKey[k]; e != nil && e.state == StateExiting {
			s.cancelExit(c, e)
		}
	}

	switch {
	case s.active == nil:
		s.active = c
	case s.queued != nil:
		Logger().Debug("flip: queued cycle replaced",
			"session", s.session, "dropped", s.queued.id, "cycle", c.id)
		s.queued = c
	default:
		s.queued = c
	}
	s.advance()
}

// AfterRender notifies the Scheduler that the host rendered the committed
// list and its geometry can be measured. The cycle awaiting render runs its
// move/enter phase; otherwise committed entries are checked for layout drift.
func (s *Scheduler[K, T]) AfterRender() {
	if c := s.active; c != nil && c.phase == phaseAwaitRender {
		s.postCommit(c)
		s.advance()
		return
	}
	s.renderPass(0)
}

// SetHandle binds the visual node for key. Pass nil when the node is
// unmounted. Unknown keys are ignored.
func (s *Scheduler[K, T]) SetHandle(key K, handle any) {
	e := s.byKey[key]
	if e == nil {
		Logger().Debug("flip: handle for unknown key ignored", "session", s.session, "key", key)
		return
	}
	if handle == nil {
		e.handle = nil
		e.tracker.Forget()
		return
	}
	e.handle = handle
}

// Handle returns the visual node bound to key.
func (s *Scheduler[K, T]) Handle(key K) (any, bool) {
	e := s.byKey[key]
	if e == nil || e.handle == nil {
		return nil, false
	}
	return e.handle, true
}

// Entries returns a snapshot of the committed list, including keys that are
// still exiting, in render order.
func (s *Scheduler[K, T]) Entries() []Entry[K, T] {
	out := make([]Entry[K, T], len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry[K, T]{Key: e.key, Item: e.item, Handle: e.handle, State: e.state}
	}
	return out
}

// Len returns the number of committed entries.
func (s *Scheduler[K, T]) Len() int {
	return len(s.entries)
}

// State returns the lifecycle state of key.
func (s *Scheduler[K, T]) State(key K) State {
	if e := s.byKey[key]; e != nil {
		return e.state
	}
	return StateAbsent
}

// Busy reports whether a cycle is in flight.
func (s *Scheduler[K, T]) Busy() bool {
	return s.active != nil
}

// Cycle returns the id of the most recently submitted cycle.
func (s *Scheduler[K, T]) Cycle() uint64 {
	return s.cycles
}

// Commits returns how many cycles have committed.
func (s *Scheduler[K, T]) Commits() uint64 {
	return s.commits
}

// Session returns the unique id of this Scheduler, attached to its log lines
// and events.
func (s *Scheduler[K, T]) Session() string {
	return s.session
}

// Animator returns the Animator driving the default animations.
func (s *Scheduler[K, T]) Animator() *Animator {
	return s.cfg.Animator
}

// ReducedMotion reports whether animations are suppressed.
func (s *Scheduler[K, T]) ReducedMotion() bool {
	return s.cfg.Environment.ReducedMotion
}

// SetEventSink installs an observer for lifecycle events. Nil removes it.
func (s *Scheduler[K, T]) SetEventSink(sink EventSink) {
	s.sink = sink
}

// Remeasure refreshes the stored geometry of every committed, non-exiting
// entry without animating. Hosts call it after an ambient resize.
func (s *Scheduler[K, T]) Remeasure() {
	for _, e := range s.entries {
		if e.state == StateExiting || e.handle == nil || e.fresh {
			continue
		}
		e.tracker.Remeasure(e.handle)
	}
}

// NotifyResize records an ambient resize. The re-measure runs from Tick once
// the resize debounce period passes without another notification.
func (s *Scheduler[K, T]) NotifyResize() {
	s.resize.Notify()
}

// Tick advances frame time by dt. It fires a debounced re-measure and warns
// once when a cycle waits unusually long on its exit animations.
func (s *Scheduler[K, T]) Tick(dt time.Duration) {
	if s.resize.Advance(dt) {
		Logger().Debug("flip: remeasure after resize", "session", s.session)
		s.Remeasure()
	}
	if c := s.active; c != nil && c.phase == phaseExiting {
		c.waited += dt
		if c.waited >= stallWarning && !c.stalled {
			c.stalled = true
			Logger().Warn("flip: cycle waiting on exit animations",
				"session", s.session, "cycle", c.id, "pending", c.pending, "waited", c.waited)
		}
	}
}

// advance drives the active cycle until it blocks on exit animations or on
// the next render. Calls made while advancing (from settled callbacks) only
// request another round.
func (s *Scheduler[K, T]) advance() {
	if s.advancing {
		s.again = true
		return
	}
	s.advancing = true
	defer func() { s.advancing = false }()

	for {
		s.again = false
		s.step()
		if !s.again {
			return
		}
	}
}

func (s *Scheduler[K, T]) step() {
	for c := s.active; c != nil; c = s.active {
		switch c.phase {
		case phaseQueued:
			s.beginExits(c)
		case phaseExiting:
			if c.pending > 0 {
				return
			}
			s.commit(c)
		default:
			return
		}
	}
}

func (s *Scheduler[K, T]) newEntry(key K, mount bool) *entry[K, T] {
	e := &entry[K, T]{
		key:   key,
		state: StateEntering,
		fresh: true,
		mount: mount,
	}
	e.tracker.Measure = s.cfg.Measure
	e.tracker.Move = func(handle any, delta *StyleDelta) {
		s.startMove(e, delta)
	}
	return e
}

// renderPass visits every committed, non-exiting entry with a handle: fresh
// entries enter, the rest are checked for movement. cycleID is 0 outside a
// post-commit phase.
func (s *Scheduler[K, T]) renderPass(cycleID uint64) {
	s.pass = 0
	enters := 0
	for _, e := range s.entries {
		if e.state == StateExiting || e.handle == nil {
			continue
		}
		if !e.fresh {
			e.tracker.Update(e.handle)
			continue
		}
		e.fresh = false
		e.tracker.Remeasure(e.handle)
		if e.mount && !s.cfg.AnimateOnMount {
			e.state = StateSteady
			continue
		}
		s.startEnter(cycleID, e, enters)
		enters++
	}
}

func (s *Scheduler[K, T]) startEnter(cycleID uint64, e *entry[K, T], i int) {
	tok := NewToken()
	e.token = tok
	e.state = StateEntering
	s.emit(LifecycleEvent{Type: EventEnterStart, Cycle: cycleID, Key: e.key, Delta: s.cfg.EnterStyle})

	anim := s.invoke(KindEnter, e, s.cfg.EnterStyle, AnimateOptions{
		Kind:   KindEnter,
		Timing: *s.cfg.Timing,
		Delay:  s.stagger(i),
		Token:  tok,
	})
	e.anim = anim
	anim.OnSettled(func(err error) {
		s.report(KindEnter, e.key, err)
		if e.token == tok && e.state == StateEntering {
			e.state = StateSteady
			e.token = nil
			e.anim = nil
		}
		s.emit(LifecycleEvent{Type: EventSettled, Cycle: cycleID, Key: e.key})
	})
}

func (s *Scheduler[K, T]) startMove(e *entry[K, T], delta *StyleDelta) {
	i := s.pass
	s.pass++
	s.emit(LifecycleEvent{Type: EventMoveStart, Cycle: s.activeID(), Key: e.key, Delta: delta})
	anim := s.invoke(KindMove, e, delta, AnimateOptions{
		Kind:   KindMove,
		Timing: *s.cfg.Timing,
		Delay:  s.stagger(i),
	})
	anim.OnSettled(func(err error) {
		s.report(KindMove, e.key, err)
	})
}

// startExit moves e into the exiting state on behalf of c. It reports whether
// an exit animation was started; entries without a handle are removed at
// commit without one.
func (s *Scheduler[K, T]) startExit(c *cycle[K, T], e *entry[K, T], i int) bool {
	e.tracker.Forget()
	e.state = StateExiting
	e.exitCycle = c
	e.fresh = false
	tok := NewToken()
	e.token = tok
	if e.handle == nil {
		e.anim = nil
		s.emit(LifecycleEvent{Type: EventExitStart, Cycle: c.id, Key: e.key})
		return false
	}

	e.exitPending = true
	c.pending++
	s.emit(LifecycleEvent{Type: EventExitStart, Cycle: c.id, Key: e.key, Delta: s.cfg.ExitStyle})

	anim := s.invoke(KindExit, e, s.cfg.ExitStyle, AnimateOptions{
		Kind:   KindExit,
		Timing: *s.cfg.Timing,
		Delay:  s.stagger(i),
		Token:  tok,
	})
	e.anim = anim
	anim.OnSettled(func(err error) {
		s.report(KindExit, e.key, err)
		s.emit(LifecycleEvent{Type: EventSettled, Cycle: c.id, Key: e.key})
		if tok.Cancelled() {
			if e.anim == anim && e.state == StateEntering {
				e.state = StateSteady
				e.token = nil
				e.anim = nil
			}
			return
		}
		if e.exitPending {
			e.exitPending = false
			c.pending--
			s.advance()
		}
	})
	return true
}

// cancelExit abandons the exit of a key that reappeared. A running exit
// animation is reversed and the key counts as entering until it settles.
func (s *Scheduler[K, T]) cancelExit(next *cycle[K, T], e *entry[K, T]) {
	owner := e.exitCycle
	e.exitCycle = nil
	e.token.Cancel()

	if e.exitPending {
		e.exitPending = false
		owner.pending--
		e.state = StateEntering
		if r, ok := e.anim.(Reverser); ok {
			r.Reverse()
		}
	} else {
		e.state = StateSteady
		e.token = nil
		e.anim = nil
	}

	var ownerID uint64
	if owner != nil {
		ownerID = owner.id
	}
	Logger().Debug("flip: exit cancelled",
		"session", s.session, "key", e.key, "cycle", ownerID, "by", next.id)
	s.emit(LifecycleEvent{Type: EventExitCancelled, Cycle: ownerID, Key: e.key})
}

// invoke calls the animation callback for kind. Disabled kinds, reduced
// motion and handle-less entries yield an already settled animation, as do
// callbacks that fail or panic.
func (s *Scheduler[K, T]) invoke(kind AnimationKind, e *entry[K, T], style *StyleDelta, opts AnimateOptions) Animation {
	fn := s.cfg.animateFunc(kind)
	if fn == nil || s.cfg.Environment.ReducedMotion || e.handle == nil {
		return Settled(nil)
	}

	anim, err := callAnimate(fn, e.handle, style, opts)
	if err != nil {
		var aerr *AnimationError
		if errors.As(err, &aerr) {
			aerr.Kind, aerr.Key = kind, e.key
		} else {
			aerr = &AnimationError{Kind: kind, Key: e.key, Err: err}
		}
		return Settled(aerr)
	}
	if anim == nil {
		return Settled(nil)
	}
	return anim
}

func callAnimate(fn AnimateFunc, handle any, style *StyleDelta, opts AnimateOptions) (anim Animation, err error) {
	defer func() {
		if r := recover(); r != nil {
			anim = nil
			err = &AnimationError{Recovered: r}
		}
	}()
	return fn(handle, style, opts)
}

// report logs and publishes a failed animation. The cycle carries on as if
// it had settled normally.
func (s *Scheduler[K, T]) report(kind AnimationKind, key K, err error) {
	if err == nil {
		return
	}
	var aerr *AnimationError
	if !errors.As(err, &aerr) {
		aerr = &AnimationError{Kind: kind, Key: key, Err: err}
	}
	Logger().Warn("flip: animation rejected",
		"session", s.session, "kind", kind.String(), "key", fmt.Sprint(key), "err", aerr)
	s.emit(LifecycleEvent{Type: EventRejected, Cycle: s.activeID(), Key: key, Err: aerr})
}

func (s *Scheduler[K, T]) stagger(i int) time.Duration {
	return StaggerDelay(i, s.cfg.StaggerDelay, s.cfg.StaggerCap)
}

func (s *Scheduler[K, T]) activeID() uint64 {
	if s.active != nil {
		return s.active.id
	}
	return 0
}

func (s *Scheduler[K, T]) emit(ev LifecycleEvent) {
	if s.sink == nil {
		return
	}
	ev.Session = s.session
	s.sink.EmitEvent(ev)
}
