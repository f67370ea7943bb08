package coro

// EventKind discriminates the payload carried by a WatchedEvent. Go has
// no tagged unions, so every WatchedEvent carries all fields and only the
// ones matching Kind are meaningful.
type EventKind int

const (
	EventInvalid EventKind = iota
	EventUserEvent
	EventCoroutineEnds
	EventTimeout
	EventSocketCanRead
	EventSocketCanWrite
	EventChannelCanPush
	EventChannelCanPull
)

// WatchedEvent is a single wait-record: a discriminated value describing
// one condition a coroutine is blocked on. It is linked into at most one
// waitList at a time (the curList/prev/next fields below), and it lives
// in the calling coroutine's stack frame for the duration of the wait.
type WatchedEvent struct {
	Owner Handle
	Kind  EventKind

	// EVT_CHANNEL_CAN_PUSH / EVT_CHANNEL_CAN_PULL
	channel anyChannel

	// EVT_COROUTINE_ENDS
	Target Handle

	// EVT_SOCKET_IO_CAN_READ / EVT_SOCKET_IO_CAN_WRITE
	socket *socketConn

	// EVT_USER_EVENT
	EventID EventID

	// EVT_TIMEOUT
	programmedAt Timestamp
	expiry       Timestamp

	// intrusive waitList linkage: a record sits on exactly one list
	// at a time — a channel's waiters, a coroutine's waiters-for-me, a
	// named event's waiters, or the timer wheel.
	prevInList, nextInList *WatchedEvent
	curList                *waitList
}

// newCoroutineEndsEvent builds a wait-record satisfied when h stops
// being a live handle.
func newCoroutineEndsEvent(owner Handle, h Handle) WatchedEvent {
	return WatchedEvent{Owner: owner, Kind: EventCoroutineEnds, Target: h}
}

// newUserEvent builds a wait-record satisfied when the named event id is set.
func newUserEvent(owner Handle, id EventID) WatchedEvent {
	return WatchedEvent{Owner: owner, Kind: EventUserEvent, EventID: id}
}

// newTimeoutEvent builds a wait-record satisfied once delta has elapsed
// since now. The owner must still be stamped by the caller (WatchedEvent
// construction captures Current() at build time).
func newTimeoutEvent(owner Handle, delta Duration) WatchedEvent {
	now := Now()
	return WatchedEvent{
		Owner:        owner,
		Kind:         EventTimeout,
		programmedAt: now,
		expiry:       now.Add(delta),
	}
}

func newSocketReadEvent(owner Handle, s *socketConn) WatchedEvent {
	return WatchedEvent{Owner: owner, Kind: EventSocketCanRead, socket: s}
}

func newSocketWriteEvent(owner Handle, s *socketConn) WatchedEvent {
	return WatchedEvent{Owner: owner, Kind: EventSocketCanWrite, socket: s}
}
