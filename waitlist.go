package coro

// waitList is the intrusive doubly-linked FIFO used everywhere a set of
// coroutines needs to be parked against some event source: channel
// push/pull queues, the timer wheel, named-event waiters, socket
// read/write waiters, and a coroutine's "waiting for me to finish" list.
//
// Nodes are *WatchedEvent values themselves (the list pointers live on
// the node itself, so append/detach/detachFirst are
// all O(1) and require no separate allocation. Appending a node already
// on a list, or detaching a node that isn't on this list, is a bug and
// is reported rather than silently ignored.
type waitList struct {
	head, tail *WatchedEvent
	length     int
}

func (l *waitList) empty() bool { return l.length == 0 }

func (l *waitList) append(we *WatchedEvent) {
	if we.curList != nil {
		panicBug("waitList.append: node already attached to a list")
	}
	we.prevInList = l.tail
	we.nextInList = nil
	we.curList = l
	if l.tail != nil {
		l.tail.nextInList = we
	} else {
		l.head = we
	}
	l.tail = we
	l.length++
}

func (l *waitList) detach(we *WatchedEvent) {
	if we.curList != l {
		panicBug("waitList.detach: node not present on this list")
	}
	if we.prevInList != nil {
		we.prevInList.nextInList = we.nextInList
	} else {
		l.head = we.nextInList
	}
	if we.nextInList != nil {
		we.nextInList.prevInList = we.prevInList
	} else {
		l.tail = we.prevInList
	}
	we.prevInList = nil
	we.nextInList = nil
	we.curList = nil
	l.length--
}

func (l *waitList) detachFirst() *WatchedEvent {
	we := l.head
	if we == nil {
		return nil
	}
	l.detach(we)
	return we
}
