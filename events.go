package flip

// EventType identifies a kind of lifecycle event.
type EventType uint8

const (
	EventEnterStart    EventType = iota // enter animation started for a key
	EventMoveStart                      // move animation started for a key
	EventExitStart                      // exit animation started for a key
	EventExitCancelled                  // exiting key reappeared before its exit settled
	EventEnterCancelled                 // entering key was removed before its enter settled
	EventCommit                         // a cycle replaced the committed list
	EventRemoved                        // a key left the committed list
	EventSettled                        // an enter or exit animation settled
	EventRejected                       // an animation callback failed; treated as settled
)

func (t EventType) String() string {
	switch t {
	case EventEnterStart:
		return "enter-start"
	case EventMoveStart:
		return "move-start"
	case EventExitStart:
		return "exit-start"
	case EventExitCancelled:
		return "exit-cancelled"
	case EventEnterCancelled:
		return "enter-cancelled"
	case EventCommit:
		return "commit"
	case EventRemoved:
		return "removed"
	case EventSettled:
		return "settled"
	case EventRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// LifecycleEvent describes one step of a key's transition.
type LifecycleEvent struct {
	Type EventType
	// Session identifies the Scheduler that emitted the event.
	Session string
	// Cycle is the reconciliation cycle the event belongs to.
	Cycle uint64
	// Key is the item key, boxed. Nil for EventCommit.
	Key any
	// Delta is the style the animation started from or toward, when any.
	Delta *StyleDelta
	// Err is set for EventRejected.
	Err error
}

// EventSink is the interface for optional lifecycle observers. When set on
// a Scheduler, every lifecycle event is forwarded to it synchronously.
type EventSink interface {
	EmitEvent(event LifecycleEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(event LifecycleEvent)

// EmitEvent implements EventSink.
func (f EventSinkFunc) EmitEvent(event LifecycleEvent) {
	f(event)
}
