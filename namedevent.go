package coro

import "github.com/google/uuid"

// EventID identifies a named event. The opaque UUID, freshly generated by
// every CreateEvent call, gives named events a globally unique identity
// for logging/tracing; the sequence number is what the wait/attach
// machinery actually keys on.
type EventID struct {
	seq  uint64
	uuid uuid.UUID
}

func (id EventID) String() string { return id.uuid.String() }

type namedEventRecord struct {
	id      EventID
	value   bool
	name    string
	waiters waitList
}

// namedEventTable is the named-event store: a latched boolean with
// broadcast wakeup, multiple-producer multiple-waiter.
type namedEventTable struct {
	next uint64
	all  map[uint64]*namedEventRecord
}

func (t *namedEventTable) init() {
	t.all = make(map[uint64]*namedEventRecord)
	t.next = 1
}

// CreateEvent registers a new named event with initial value and an
// optional debug name, returning its id.
func (rt *Runtime) CreateEvent(initial bool, debugName string) EventID {
	seq := rt.events.next
	rt.events.next++
	id := EventID{seq: seq, uuid: uuid.New()}
	rt.events.all[seq] = &namedEventRecord{id: id, value: initial, name: debugName}
	return id
}

// SetEvent latches the event true and wakes every waiter registered
// before this call returns. Setting an already-set event is a
// no-op wake-wise: its waiter list is already empty because any waiter
// arriving after the first set took Wait's fast path.
func (rt *Runtime) SetEvent(id EventID) bool {
	rec, ok := rt.events.all[id.seq]
	if !ok {
		return false
	}
	rec.value = true
	for {
		we := rec.waiters.detachFirst()
		if we == nil {
			break
		}
		rt.wakeUp(we)
	}
	return true
}

// ClearEvent latches the event false.
func (rt *Runtime) ClearEvent(id EventID) bool {
	rec, ok := rt.events.all[id.seq]
	if !ok {
		return false
	}
	rec.value = false
	return true
}

// IsEventSet reports the event's current latched value.
func (rt *Runtime) IsEventSet(id EventID) bool {
	rec, ok := rt.events.all[id.seq]
	return ok && rec.value
}

func (t *namedEventTable) isSet(id EventID) bool {
	rec, ok := t.all[id.seq]
	return ok && rec.value
}

// DestroyEvent wakes every remaining waiter and removes the entry.
func (rt *Runtime) DestroyEvent(id EventID) bool {
	rec, ok := rt.events.all[id.seq]
	if !ok {
		return false
	}
	for {
		we := rec.waiters.detachFirst()
		if we == nil {
			break
		}
		rt.wakeUp(we)
	}
	delete(rt.events.all, id.seq)
	return true
}

// IsValidEvent reports whether id still refers to a live named event.
func (rt *Runtime) IsValidEvent(id EventID) bool {
	_, ok := rt.events.all[id.seq]
	return ok
}

func (t *namedEventTable) attach(id EventID, we *WatchedEvent) {
	rec, ok := t.all[id.seq]
	if !ok {
		return
	}
	rec.waiters.append(we)
}

func (t *namedEventTable) detach(id EventID, we *WatchedEvent) {
	rec, ok := t.all[id.seq]
	if !ok {
		return
	}
	if we.curList == &rec.waiters {
		rec.waiters.detach(we)
	}
}

func CreateEvent(initial bool, debugName string) EventID { return Default().CreateEvent(initial, debugName) }
func SetEvent(id EventID) bool                            { return Default().SetEvent(id) }
func ClearEvent(id EventID) bool                           { return Default().ClearEvent(id) }
func IsEventSet(id EventID) bool                           { return Default().IsEventSet(id) }
func DestroyEvent(id EventID) bool                         { return Default().DestroyEvent(id) }
func IsValidEvent(id EventID) bool                         { return Default().IsValidEvent(id) }
