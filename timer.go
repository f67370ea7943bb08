package coro

// timerWheel is a flat, insertion-ordered doubly-linked list of pending
// TIMEOUT wait-records. A heap was considered and rejected: the
// expected number of concurrent timers is small and per-iteration
// traversal cost is dominated by the socket poll call, so a heap would
// add complexity with no measurable benefit at this scale (the same
// rationale weighed here too).
type timerWheel struct {
	pending waitList
}

func (w *timerWheel) register(we *WatchedEvent) {
	w.pending.append(we)
}

func (w *timerWheel) unregister(we *WatchedEvent) {
	if we.curList == &w.pending {
		w.pending.detach(we)
	}
}

// expireDue walks the wheel once, collecting every record whose expiry
// has passed, then detaches each one from the wheel and wakes its owner
// (wakeUp expects the record to be off its list already). All timers
// firing in the same iteration are processed in insertion order before
// any coroutine resumes.
func (w *timerWheel) expireDue(rt *Runtime, now Timestamp) {
	var due []*WatchedEvent
	for we := w.pending.head; we != nil; we = we.nextInList {
		if !we.expiry.After(now) {
			due = append(due, we)
		}
	}
	for _, we := range due {
		w.pending.detach(we)
		rt.wakeUp(we)
	}
}
