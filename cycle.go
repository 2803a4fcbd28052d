package flip

import "time"

// cyclePhase is the position of one reconciliation cycle in its pipeline.
//
//	           activate            exits settled          AfterRender
//	queued ─────────────► exiting ──────────────► awaitRender ──────────► done
//
// Only the active cycle advances; at most one more waits behind it.
type cyclePhase uint8

const (
	phaseQueued cyclePhase = iota
	phaseExiting
	phaseAwaitRender
	phaseDone
)

func (p cyclePhase) String() string {
	switch p {
	case phaseQueued:
		return "queued"
	case phaseExiting:
		return "exiting"
	case phaseAwaitRender:
		return "await-render"
	case phaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// stallWarning is how long a cycle may wait on exit animations before a
// warning is logged.
const stallWarning = 10 * time.Second

// cycle is one Reconcile call travelling through the exit, commit and
// post-commit phases.
type cycle[K comparable, T any] struct {
	id     uint64
	items  []T
	keys   []K
	keySet map[K]struct{}

	phase   cyclePhase
	pending int
	mount   bool

	waited  time.Duration
	stalled bool
}

// newCycle builds a cycle from items, dropping duplicate keys after their
// first occurrence.
func (s *Scheduler[K, T]) newCycle(items []T) *cycle[K, T] {
	s.cycles++
	c := &cycle[K, T]{
		id:     s.cycles,
		items:  make([]T, 0, len(items)),
		keys:   make([]K, 0, len(items)),
		keySet: make(map[K]struct{}, len(items)),
	}
	for _, item := range items {
		k := s.keyOf(item)
		if _, dup := c.keySet[k]; dup {
			Logger().Warn("flip: duplicate key dropped",
				"session", s.session, "cycle", c.id, "key", k)
			continue
		}
		c.keySet[k] = struct{}{}
		c.keys = append(c.keys, k)
		c.items = append(c.items, item)
	}
	return c
}

// beginExits diffs the committed list against the cycle's items and starts
// exit animations for every committed key the cycle drops.
func (s *Scheduler[K, T]) beginExits(c *cycle[K, T]) {
	c.phase = phaseExiting
	Logger().Debug("flip: cycle active",
		"session", s.session, "cycle", c.id, "items", len(c.keys), "committed", len(s.entries))

	i := 0
	for _, e := range s.entries {
		if _, keep := c.keySet[e.key]; keep || e.state == StateExiting {
			continue
		}
		if e.state == StateEntering && e.token != nil {
			e.token.Cancel()
			s.emit(LifecycleEvent{Type: EventEnterCancelled, Cycle: c.id, Key: e.key})
		}
		if s.startExit(c, e, i) {
			i++
		}
	}
}

// commit replaces the committed list once every exit of the cycle settled.
// Entries whose exit was abandoned because their key reappeared are kept at
// their previous relative position.
func (s *Scheduler[K, T]) commit(c *cycle[K, T]) {
	old := s.entries
	c.mount = s.commits == 0

	next := make([]*entry[K, T], 0, len(c.keys))
	inNext := make(map[*entry[K, T]]bool, len(c.keys))
	for i, k := range c.keys {
		e := s.byKey[k]
		if e == nil {
			e = s.newEntry(k, c.mount)
			s.byKey[k] = e
		}
		e.item = c.items[i]
		next = append(next, e)
		inNext[e] = true
	}

	type keptEntry struct {
		e, after *entry[K, T]
	}
	var kept []keptEntry
	var removed []*entry[K, T]
	var prev *entry[K, T]
	for _, e := range old {
		if inNext[e] {
			prev = e
			continue
		}
		if e.state == StateExiting && e.exitCycle == c {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, keptEntry{e: e, after: prev})
		prev = e
	}
	for _, k := range kept {
		pos := 0
		if k.after != nil {
			pos = indexOfEntry(next, k.after) + 1
		}
		next = append(next, nil)
		copy(next[pos+1:], next[pos:])
		next[pos] = k.e
	}

	s.entries = next
	s.commits++
	c.phase = phaseAwaitRender

	for _, e := range removed {
		delete(s.byKey, e.key)
		e.state = StateAbsent
		e.exitCycle = nil
		e.token = nil
		e.anim = nil
		e.tracker.Forget()
		s.emit(LifecycleEvent{Type: EventRemoved, Cycle: c.id, Key: e.key})
	}

	Logger().Debug("flip: cycle committed",
		"session", s.session, "cycle", c.id, "entries", len(next),
		"removed", len(removed), "kept", len(kept))
	s.emit(LifecycleEvent{Type: EventCommit, Cycle: c.id})
}

// postCommit runs the move/enter phase against freshly rendered geometry,
// then hands the queue over to the next cycle.
func (s *Scheduler[K, T]) postCommit(c *cycle[K, T]) {
	s.renderPass(c.id)
	c.phase = phaseDone
	s.active = s.queued
	s.queued = nil
}

func indexOfEntry[K comparable, T any](list []*entry[K, T], e *entry[K, T]) int {
	for i, x := range list {
		if x == e {
			return i
		}
	}
	return -1
}
