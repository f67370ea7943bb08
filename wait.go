package coro

// Wait blocks the calling coroutine until any one of events fires,
// returning its index. Before blocking it scans every event for one that
// is already satisfiable (channel non-empty/not-full, target coroutine
// already gone, named event already set, channel closed) and returns
// immediately without attaching to anything if so — the "fast path".
// Socket events never take the fast path (see isReadyWithoutBlocking).
//
// Otherwise every event is attached to its source, the caller is parked,
// and on resume every event is detached from every source it was still
// registered on, regardless of which one fired, so nothing leaks a
// stale waiter.
func (rt *Runtime) Wait(events []WatchedEvent) int {
	co := rt.byHandle(rt.Current())
	if co == nil {
		panicBug("Wait called outside a coroutine")
		return -1
	}

	for i := range events {
		events[i].Owner = co.handle
	}

	if idx := rt.isReadyWithoutBlocking(events); idx >= 0 {
		return idx
	}

	rt.registerToEvents(co, events)
	rt.Yield()
	return rt.unregisterFromEvents(co)
}

func (rt *Runtime) isReadyWithoutBlocking(events []WatchedEvent) int {
	for i := range events {
		we := &events[i]
		switch we.Kind {
		case EventChannelCanPull:
			c := we.channel
			if c == nil {
				continue
			}
			if !c.isEmpty() || c.isClosed() {
				return i
			}
		case EventChannelCanPush:
			c := we.channel
			if c == nil {
				continue
			}
			if !c.isFull() && !c.isClosed() {
				return i
			}
		case EventCoroutineEnds:
			if !rt.IsHandle(we.Target) {
				return i
			}
		case EventUserEvent:
			if rt.events.isSet(we.EventID) {
				return i
			}
		case EventTimeout, EventSocketCanRead, EventSocketCanWrite:
			// Timers and socket readiness always go through the
			// scheduler loop: a timer has no "already expired at
			// registration time" meaning a TIMEOUT(0) should still
			// observe one full iteration, and sockets are never
			// checked without going through the poller (avoids a
			// syscall-per-check).
		default:
			// unsupported / zero-value event, ignore
		}
	}
	return -1
}

func (rt *Runtime) registerToEvents(co *coroutine, events []WatchedEvent) {
	co.watched = co.watched[:0]
	for i := range events {
		we := &events[i]
		switch we.Kind {
		case EventChannelCanPull:
			we.channel.pullWaiters().append(we)
		case EventChannelCanPush:
			we.channel.pushWaiters().append(we)
		case EventCoroutineEnds:
			if target := rt.byHandle(we.Target); target != nil {
				target.waitingForMe.append(we)
			}
		case EventSocketCanRead:
			we.socket.readWaiters.append(we)
		case EventSocketCanWrite:
			we.socket.writeWaiters.append(we)
		case EventUserEvent:
			rt.events.attach(we.EventID, we)
		case EventTimeout:
			rt.timers.register(we)
		default:
			panicBug("registerToEvents: unsupported event kind")
		}
		co.watched = append(co.watched, we)
	}

	co.state = stateWaitingForEvent
	co.wakingEvent = nil
}

func (rt *Runtime) unregisterFromEvents(co *coroutine) int {
	firedIdx := -1
	for i, we := range co.watched {
		switch we.Kind {
		case EventChannelCanPull:
			if we.curList != nil {
				we.channel.pullWaiters().detach(we)
			}
		case EventChannelCanPush:
			if we.curList != nil {
				we.channel.pushWaiters().detach(we)
			}
		case EventCoroutineEnds:
			if target := rt.byHandle(we.Target); target != nil && we.curList != nil {
				target.waitingForMe.detach(we)
			}
		case EventSocketCanRead:
			if we.curList != nil {
				we.socket.readWaiters.detach(we)
			}
		case EventSocketCanWrite:
			if we.curList != nil {
				we.socket.writeWaiters.detach(we)
			}
		case EventUserEvent:
			if we.curList != nil {
				rt.events.detach(we.EventID, we)
			}
		case EventTimeout:
			rt.timers.unregister(we)
		}

		if co.wakingEvent == we {
			firedIdx = i
		}
	}
	co.watched = nil

	if co.state == stateWaitingForEvent {
		co.state = stateRunning
	}

	return firedIdx
}

// wakeUp transitions the wait-record's owner from WAITING_FOR_EVENT to
// RUNNING, recording which record fired. It does not detach we from its
// own list — the caller is expected to have already done that (or be
// detaching it as part of this call, e.g. timerWheel.expireDue); the
// owner's Wait return path detaches it from every *other* list it was
// still on.
func (rt *Runtime) wakeUp(we *WatchedEvent) {
	co := rt.byHandle(we.Owner)
	if co == nil {
		return
	}
	if co.state != stateWaitingForEvent {
		panicBug("wakeUp: owner not WAITING_FOR_EVENT")
		return
	}
	co.wakingEvent = we
	co.state = stateRunning
}

// Wait, WaitPredicate, WaitAll, Sleep, After on the default runtime.
func Wait(events []WatchedEvent) int { return Default().Wait(events) }
