package flip

import "time"

// Updater is anything a Scene advances once per frame after its animations.
type Updater interface {
	Update(dt time.Duration)
}

// KeyedList renders the committed list of a Scheduler as the children of a
// container node, one child per key, and drives the Scheduler's render
// notifications from the frame loop.
//
// Nodes are created with the build function when a key first commits and
// disposed once its exit has finished and the key left the committed list.
// The container should hold no other children.
type KeyedList[K comparable, T any] struct {
	container *Node
	sched     *Scheduler[K, T]
	build     func(item T) *Node
	update    func(node *Node, item T)
	layout    Layout
	nodes     map[K]*Node

	ownsAnimator bool
	synced       uint64
}

// NewKeyedList creates a list rendered into container. If cfg.Animator is
// nil the list owns a private Animator and advances it in Update; pass
// Scene.Animator() to share the scene's instead.
func NewKeyedList[K comparable, T any](container *Node, keyOf func(T) K, build func(item T) *Node, cfg Config) *KeyedList[K, T] {
	if container == nil || build == nil {
		panic("flip: NewKeyedList requires a container and a build function")
	}
	owns := cfg.Animator == nil
	if cfg.Measure == nil {
		cfg.Measure = MeasureWithin(container)
	}
	return &KeyedList[K, T]{
		container:    container,
		sched:        NewScheduler(keyOf, cfg),
		build:        build,
		layout:       ColumnLayout{},
		nodes:        make(map[K]*Node),
		ownsAnimator: owns,
	}
}

// Scheduler returns the underlying Scheduler.
func (l *KeyedList[K, T]) Scheduler() *Scheduler[K, T] {
	return l.sched
}

// Container returns the node the list renders into.
func (l *KeyedList[K, T]) Container() *Node {
	return l.container
}

// SetLayout replaces the layout applied to the container's children each
// frame. Nil restores the default ColumnLayout.
func (l *KeyedList[K, T]) SetLayout(layout Layout) {
	if layout == nil {
		layout = ColumnLayout{}
	}
	l.layout = layout
}

// SetUpdate installs a callback that refreshes an existing node from its
// item whenever a cycle commits.
func (l *KeyedList[K, T]) SetUpdate(fn func(node *Node, item T)) {
	l.update = fn
}

// Set submits the next version of the list.
func (l *KeyedList[K, T]) Set(items []T) {
	l.sched.Reconcile(items)
}

// Node returns the node rendering key.
func (l *KeyedList[K, T]) Node(key K) (*Node, bool) {
	n, ok := l.nodes[key]
	return n, ok
}

// Len returns the number of rendered nodes, including exiting ones.
func (l *KeyedList[K, T]) Len() int {
	return len(l.nodes)
}

// Busy reports whether a cycle is in flight or, for a list with a private
// Animator, whether any of its tweens are still running.
func (l *KeyedList[K, T]) Busy() bool {
	if l.sched.Busy() {
		return true
	}
	return l.ownsAnimator && l.sched.Animator().Len() > 0
}

// SetEventSink forwards lifecycle events of the underlying Scheduler.
func (l *KeyedList[K, T]) SetEventSink(sink EventSink) {
	l.sched.SetEventSink(sink)
}

// NotifyResize schedules a debounced re-measure of every node.
func (l *KeyedList[K, T]) NotifyResize() {
	l.sched.NotifyResize()
}

// Update advances the list by one frame: it syncs the container with the
// committed list, lays it out, and tells the Scheduler the frame rendered.
func (l *KeyedList[K, T]) Update(dt time.Duration) {
	if l.ownsAnimator {
		l.sched.Animator().Update(float32(dt.Seconds()))
	}
	l.sched.Tick(dt)
	if l.synced != l.sched.Commits() || l.synced == 0 {
		l.sync()
		l.synced = l.sched.Commits()
	}
	l.layout.Arrange(l.container.Children())
	l.sched.AfterRender()
}

// sync makes the container's children match the committed list.
func (l *KeyedList[K, T]) sync() {
	entries := l.sched.Entries()
	seen := make(map[K]struct{}, len(entries))
	for i, e := range entries {
		seen[e.Key] = struct{}{}
		n := l.nodes[e.Key]
		if n == nil || n.IsDisposed() {
			n = l.build(e.Item)
			l.nodes[e.Key] = n
			l.sched.SetHandle(e.Key, n)
		} else if l.update != nil {
			l.update(n, e.Item)
		}
		if n.Parent != l.container {
			l.container.AddChildAt(n, i)
		} else {
			l.container.SetChildIndex(n, i)
		}
	}
	for k, n := range l.nodes {
		if _, ok := seen[k]; ok {
			continue
		}
		n.Dispose()
		delete(l.nodes, k)
	}
}
