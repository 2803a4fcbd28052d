// Package flip animates keyed lists with the FLIP technique (First, Last,
// Invert, Play) on a retained-mode scene graph for [Ebitengine].
//
// When a list changes, items that left play an exit animation while the
// remaining layout stays put; only then is the new list committed and laid
// out. Items that moved are measured again, snapped back to where they were,
// and animated to their new place; items that appeared play an enter
// animation. Every animation uses a curve synthesized from a damped spring.
//
// # Quick start
//
//	scene := flip.NewScene()
//	column := flip.NewContainer("todos")
//	scene.Root().AddChild(column)
//
//	list := flip.NewKeyedList(column,
//		func(t Todo) int { return t.ID },
//		func(t Todo) *flip.Node { return flip.NewBox(t.Title, 300, 32, flip.ColorWhite) },
//		flip.Config{Animator: scene.Animator()})
//	list.SetLayout(flip.ColumnLayout{Gap: 8})
//	scene.Attach(list)
//
//	list.Set(todos)
//	flip.Run(scene, flip.RunConfig{Title: "Todos", Width: 640, Height: 480})
//
// # Scheduler
//
// [Scheduler] is the host-independent core. It keeps the committed list,
// the visual handle of each key, and one [MoveTracker] per key. Hosts call
// [Scheduler.Reconcile] with new item lists, [Scheduler.SetHandle] when a
// node mounts, and [Scheduler.AfterRender] once the committed list has been
// laid out. Handles are opaque; measurement and animation are injected
// through [Config] and default to [*Node] handles animated by an [Animator].
//
// Each Reconcile call is a cycle. A cycle first runs exit animations for
// dropped keys, then commits once they all settled, then runs moves and
// enters after the next render. Only one cycle runs at a time and at most one
// waits behind it: newer calls replace the waiting one. A key that reappears
// while exiting has its exit cancelled and reversed at once.
//
// # Springs
//
// [Synthesize] turns [Spring] parameters into a [Timing]: evenly spaced
// samples of the spring's step response and the time it takes to settle.
// [Timing.CSS] renders the curve as a CSS linear() easing and [Timing.Ease]
// adapts it to [gween] tweens.
//
// # Reduced motion
//
// When FLIP_REDUCED_MOTION is set (see [DetectEnvironment]) no animation
// callback runs; lists reconcile instantly.
//
// # Logging
//
// The package logs through [log/slog] and is silent by default. Install a
// logger with [SetLogger]. Lifecycle events are also available to an
// [EventSink]; the flip/ecs module forwards them to a Donburi world.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package flip
