package coro

import "strconv"

// memChan is the untyped backing store for a bounded FIFO channel: a
// circular buffer of element bytes represented here as a slice of `any`
// (Go generics let the typed wrapper below avoid a raw byte-copy
// approach while keeping the wake/queue semantics simple).
type memChan struct {
	base     baseChan
	buf      []any
	capacity int
	count    int
	head     int
}

func newMemChan(capacity int) *memChan {
	if capacity < 1 {
		capacity = 1
	}
	return &memChan{buf: make([]any, capacity), capacity: capacity}
}

func (c *memChan) handle() ChanHandle     { return c.base.handle() }
func (c *memChan) isClosed() bool         { return c.base.isClosed() }
func (c *memChan) isEmpty() bool          { return c.count == 0 }
func (c *memChan) isFull() bool           { return c.count == c.capacity }
func (c *memChan) pushWaiters() *waitList { return c.base.pushWaiters() }
func (c *memChan) pullWaiters() *waitList { return c.base.pullWaiters() }
func (c *memChan) Close(rt *Runtime)      { c.base.close(rt) }

func (c *memChan) enqueue(v any) {
	idx := (c.head + c.count) % c.capacity
	c.buf[idx] = v
	c.count++
}

func (c *memChan) dequeue() any {
	v := c.buf[c.head]
	c.buf[c.head] = nil
	c.head = (c.head + 1) % c.capacity
	c.count--
	return v
}

// push appends v, waiting while the channel is full and open. Returns
// false iff the channel was (or became) closed before the value could be
// stored. On success, wakes at most one blocked puller.
func (c *memChan) push(rt *Runtime, v any) bool {
	for c.isFull() && !c.isClosed() {
		owner := rt.Current()
		we := WatchedEvent{Owner: owner, Kind: EventChannelCanPush, channel: c}
		rt.Wait([]WatchedEvent{we})
	}
	if c.isClosed() {
		return false
	}
	c.enqueue(v)
	c.reportDepth(rt)
	if we := c.pullWaiters().detachFirst(); we != nil {
		rt.wakeUp(we)
	}
	return true
}

// reportDepth publishes the channel's current buffered-element count to
// the runtime's ChannelDepth gauge, labeled by the channel's handle.
func (c *memChan) reportDepth(rt *Runtime) {
	if rt.metrics == nil {
		return
	}
	label := strconv.FormatUint(uint64(c.handle().AsUint32()), 10)
	rt.metrics.ChannelDepth.WithLabelValues(label).Set(float64(c.count))
}

// pull removes and returns the oldest value, waiting while the channel is
// empty and open. Returns ok=false iff the channel was empty and closed.
// On success, wakes at most one blocked pusher. Already-buffered
// elements remain pullable after close.
func (c *memChan) pull(rt *Runtime) (any, bool) {
	for c.isEmpty() && !c.isClosed() {
		owner := rt.Current()
		we := WatchedEvent{Owner: owner, Kind: EventChannelCanPull, channel: c}
		rt.Wait([]WatchedEvent{we})
	}
	if c.isEmpty() && c.isClosed() {
		return nil, false
	}
	v := c.dequeue()
	c.reportDepth(rt)
	if we := c.pushWaiters().detachFirst(); we != nil {
		rt.wakeUp(we)
	}
	return v, true
}

// Chan[T] is the typed public handle to a memory channel, the generic
// rendering of a generic typed channel wrapper over untyped storage.
type Chan[T any] struct {
	h ChanHandle
}

// NewChan creates a bounded channel of capacity (minimum 1) and returns a
// typed handle to it.
func NewChan[T any](rt *Runtime, capacity int) Chan[T] {
	c := newMemChan(capacity)
	c.base.h = rt.channels.register(c, ChanMemory)
	return Chan[T]{h: c.base.h}
}

// NewDefaultChan creates a channel using the runtime's configured
// DefaultChannelCapacity, for callers that have no specific sizing need.
func NewDefaultChan[T any](rt *Runtime) Chan[T] {
	return NewChan[T](rt, rt.cfg.DefaultChannelCapacity)
}

// Handle returns the untyped ChanHandle backing c.
func (c Chan[T]) Handle() ChanHandle { return c.h }

func (rt *Runtime) resolveMemChan(h ChanHandle) *memChan {
	mc, _ := rt.channels.resolve(h).(*memChan)
	return mc
}

// Push attempts to store v, blocking the caller while the channel is full.
// Returns false if the channel is stale or (became) closed.
func (c Chan[T]) Push(rt *Runtime, v T) bool {
	mc := rt.resolveMemChan(c.h)
	if mc == nil {
		return false
	}
	return mc.push(rt, v)
}

// Pull removes and returns the oldest value. ok is false if the channel
// is stale, or closed with no buffered elements left.
func (c Chan[T]) Pull(rt *Runtime) (v T, ok bool) {
	mc := rt.resolveMemChan(c.h)
	if mc == nil {
		return v, false
	}
	raw, ok := mc.pull(rt)
	if !ok {
		return v, false
	}
	return raw.(T), true
}

// PullDiscard pulls one element and discards it — a convenience for flow
// control signals where the value itself is uninteresting.
func (c Chan[T]) PullDiscard(rt *Runtime) bool {
	_, ok := c.Pull(rt)
	return ok
}

// Close closes the channel. Returns false if already closed or stale.
func (c Chan[T]) Close(rt *Runtime) bool { return rt.CloseChan(c.h) }

// IsChannel reports whether c still refers to a live channel.
func (c Chan[T]) IsChannel(rt *Runtime) bool { return rt.IsChannel(c.h) }

// --- package-level convenience wrappers over Default() ---

func NewChannel[T any](capacity int) Chan[T] { return NewChan[T](Default(), capacity) }
func NewDefaultChannel[T any]() Chan[T]      { return NewDefaultChan[T](Default()) }
func Push[T any](c Chan[T], v T) bool        { return c.Push(Default(), v) }
func Pull[T any](c Chan[T]) (T, bool)        { return c.Pull(Default()) }
