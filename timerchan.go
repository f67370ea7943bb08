package coro

// timerChan is a channel whose values are timestamps, emitted on a
// schedule: after(delta) fires once then closes itself; every(delta)
// fires repeatedly until explicitly closed.
type timerChan struct {
	base     baseChan
	next     Timestamp
	interval Duration
	periodic bool
}

func newTimerChan(interval Duration, periodic bool) *timerChan {
	return &timerChan{
		next:     Now().Add(interval),
		interval: interval,
		periodic: periodic,
	}
}

func (c *timerChan) handle() ChanHandle     { return c.base.handle() }
func (c *timerChan) isClosed() bool         { return c.base.isClosed() }
func (c *timerChan) isEmpty() bool          { return true }
func (c *timerChan) isFull() bool           { return false }
func (c *timerChan) pushWaiters() *waitList { return c.base.pushWaiters() }
func (c *timerChan) pullWaiters() *waitList { return c.base.pullWaiters() }
func (c *timerChan) Close(rt *Runtime) { c.base.close(rt) }

// prepareNext advances next by the smallest integer multiple of interval
// that puts it strictly after now, so a long scheduler stall doesn't
// produce a burst of missed-tick catch-up fires; a one-shot timer just
// closes.
func (c *timerChan) prepareNext() {
	if !c.periodic {
		c.base.closed = true
		return
	}
	now := Now()
	n := 1 + now.Sub(c.next)/c.interval
	c.next = c.next.Add(n * c.interval)
}

// pullTime blocks until the next tick or until the channel is closed
// while waiting, whichever comes first. Returns ok=false iff the channel
// was (or became) closed.
func (c *timerChan) pullTime(rt *Runtime) (Timestamp, bool) {
	if c.isClosed() {
		return Timestamp{}, false
	}

	now := Now()
	if !c.next.After(now) {
		c.prepareNext()
		return now, true
	}

	owner := rt.Current()
	timeoutWE := newTimeoutEvent(owner, c.next.Sub(now))
	closeWE := WatchedEvent{Owner: owner, Kind: EventChannelCanPull, channel: c}
	idx := rt.Wait([]WatchedEvent{timeoutWE, closeWE})
	if idx == -1 {
		return Timestamp{}, false
	}

	ts := Now()
	c.prepareNext()
	return ts, idx == 0
}

// TimeToNextEvent inspects the next firing timestamp without blocking.
func (c *timerChan) timeToNextEvent() Duration {
	if c.isClosed() {
		return 0
	}
	return c.next.Sub(Now())
}

// TimerHandle is the public handle to a timer channel.
type TimerHandle struct {
	h ChanHandle
}

func (h TimerHandle) Handle() ChanHandle { return h.h }

func (rt *Runtime) resolveTimerChan(h ChanHandle) *timerChan {
	tc, _ := rt.channels.resolve(h).(*timerChan)
	return tc
}

// Every creates a periodic timer channel firing every interval until closed.
func (rt *Runtime) Every(interval Duration) TimerHandle {
	c := newTimerChan(interval, true)
	c.base.h = rt.channels.register(c, ChanTimer)
	return TimerHandle{h: c.base.h}
}

// AfterChan creates a one-shot timer channel firing once after interval, then
// closing itself automatically.
func (rt *Runtime) AfterChan(interval Duration) TimerHandle {
	c := newTimerChan(interval, false)
	c.base.h = rt.channels.register(c, ChanTimer)
	return TimerHandle{h: c.base.h}
}

// Pull blocks until the next tick, returning the firing timestamp.
func (h TimerHandle) Pull(rt *Runtime) (Timestamp, bool) {
	tc := rt.resolveTimerChan(h.h)
	if tc == nil {
		return Timestamp{}, false
	}
	return tc.pullTime(rt)
}

// PullDiscard pulls and discards the timestamp.
func (h TimerHandle) PullDiscard(rt *Runtime) bool {
	_, ok := h.Pull(rt)
	return ok
}

// TimeToNextEvent inspects, without blocking, how long until the next tick.
func (h TimerHandle) TimeToNextEvent(rt *Runtime) Duration {
	tc := rt.resolveTimerChan(h.h)
	if tc == nil {
		return 0
	}
	return tc.timeToNextEvent()
}

// Close closes the timer channel.
func (h TimerHandle) Close(rt *Runtime) bool { return rt.CloseChan(h.h) }

func Every(interval Duration) TimerHandle      { return Default().Every(interval) }
func AfterChan(interval Duration) TimerHandle  { return Default().AfterChan(interval) }
