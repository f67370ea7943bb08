package coro

// Handle is a generation-tagged identifier for a coroutine, safe against
// dangling reuse: a slot's age strictly increases every time it is
// recycled, so a stale Handle into a recycled slot compares unequal to
// the slot's current occupant.
type Handle struct {
	Slot uint32
	Age  uint32
}

// noHandle is the sentinel returned by Current() when no coroutine is
// currently running (the scheduler itself is in control).
var noHandle = Handle{}

// AsUint64 packs the handle into a single integer, useful for logging and
// for embedding a handle inside a union-style watchedEvent field.
func (h Handle) AsUint64() uint64 {
	return uint64(h.Age)<<32 | uint64(h.Slot)
}

func (h Handle) isNone() bool { return h == noHandle }
