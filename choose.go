package coro

// arm is the two-method protocol every choose() participant implements:
// declareEvent fills the wait-record this arm contributes, and run
// attempts the corresponding action once that record (or another arm's)
// has fired, returning whether the action actually succeeded.
type arm interface {
	declareEvent(rt *Runtime, owner Handle) WatchedEvent
	run(rt *Runtime) bool
}

// Choose fills one wait-record per arm, waits for the first to fire, and
// dispatches run() on the winning arm. If run() reports failure (e.g. a
// channel closed between wake and run), Choose returns -1.
//
// Fairness note: the fast path
// inside Wait returns the first ready index by array position, so an arm
// listed first that happens to already be satisfiable always wins over
// later arms, even if they were also ready. Callers should not rely on
// choose() for fairness across arms.
func Choose(rt *Runtime, arms ...arm) int {
	owner := rt.Current()
	events := make([]WatchedEvent, len(arms))
	for i, a := range arms {
		events[i] = a.declareEvent(rt, owner)
	}
	idx := rt.Wait(events)
	if idx < 0 {
		return -1
	}
	if !arms[idx].run(rt) {
		return -1
	}
	return idx
}

// IfCanPull is the built-in arm that pulls from ch and invokes cb with
// the pulled value on success.
type IfCanPull[T any] struct {
	ch *Chan[T]
	cb func(T)
}

func OnCanPull[T any](ch Chan[T], cb func(T)) IfCanPull[T] { return IfCanPull[T]{ch: &ch, cb: cb} }

func (a IfCanPull[T]) declareEvent(rt *Runtime, owner Handle) WatchedEvent {
	mc := rt.resolveMemChan(a.ch.h)
	return WatchedEvent{Owner: owner, Kind: EventChannelCanPull, channel: mc}
}

func (a IfCanPull[T]) run(rt *Runtime) bool {
	v, ok := a.ch.Pull(rt)
	if ok {
		a.cb(v)
	}
	return ok
}

// IfCanPush is the built-in arm that pushes v into ch and invokes cb once
// the push has actually happened.
type IfCanPush[T any] struct {
	ch *Chan[T]
	v  T
	cb func(T)
}

func OnCanPush[T any](ch Chan[T], v T, cb func(T)) IfCanPush[T] {
	return IfCanPush[T]{ch: &ch, v: v, cb: cb}
}

func (a IfCanPush[T]) declareEvent(rt *Runtime, owner Handle) WatchedEvent {
	mc := rt.resolveMemChan(a.ch.h)
	return WatchedEvent{Owner: owner, Kind: EventChannelCanPush, channel: mc}
}

func (a IfCanPush[T]) run(rt *Runtime) bool {
	ok := a.ch.Push(rt, a.v)
	if ok {
		a.cb(a.v)
	}
	return ok
}

// IfTimerFires is the built-in arm for a timer-channel tick. While the
// timer channel is open the arm waits for its next firing time; a closed
// timer channel makes the arm ready at once (and its run then fails).
type IfTimerFires struct {
	th TimerHandle
	cb func(Timestamp)
}

func OnTimerFires(th TimerHandle, cb func(Timestamp)) IfTimerFires {
	return IfTimerFires{th: th, cb: cb}
}

func (a IfTimerFires) declareEvent(rt *Runtime, owner Handle) WatchedEvent {
	tc := rt.resolveTimerChan(a.th.h)
	if tc != nil && !tc.isClosed() {
		return newTimeoutEvent(owner, tc.next.Sub(Now()))
	}
	return WatchedEvent{Owner: owner, Kind: EventChannelCanPull, channel: tc}
}

func (a IfTimerFires) run(rt *Runtime) bool {
	ts, ok := a.th.Pull(rt)
	if ok {
		a.cb(ts)
	}
	return ok
}

// IfTimeout is the built-in one-shot timeout arm.
type IfTimeout struct {
	d  Duration
	cb func()
}

func OnTimeout(d Duration, cb func()) IfTimeout { return IfTimeout{d: d, cb: cb} }

func (a IfTimeout) declareEvent(rt *Runtime, owner Handle) WatchedEvent {
	return newTimeoutEvent(owner, a.d)
}

func (a IfTimeout) run(rt *Runtime) bool {
	a.cb()
	return true
}

// IfSocketReadable is the built-in arm for raw socket readability, mostly
// useful for embedders composing choose() around Accept-style loops.
type IfSocketReadable struct {
	s  *Socket
	cb func()
}

func OnSocketReadable(s *Socket, cb func()) IfSocketReadable {
	return IfSocketReadable{s: s, cb: cb}
}

func (a IfSocketReadable) declareEvent(rt *Runtime, owner Handle) WatchedEvent {
	return newSocketReadEvent(owner, a.s.conn)
}

func (a IfSocketReadable) run(rt *Runtime) bool {
	a.cb()
	return true
}
