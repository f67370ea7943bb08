package coro

import "testing"

func TestWaitListAppendDetachOrder(t *testing.T) {
	var l waitList
	a := &WatchedEvent{}
	b := &WatchedEvent{}
	c := &WatchedEvent{}

	l.append(a)
	l.append(b)
	l.append(c)

	if l.length != 3 {
		t.Fatalf("length = %d, want 3", l.length)
	}

	first := l.detachFirst()
	if first != a {
		t.Fatalf("detachFirst = %p, want %p", first, a)
	}
	if a.curList != nil {
		t.Fatalf("detached node still attached")
	}

	l.detach(c)
	if l.head != b || l.tail != b {
		t.Fatalf("list not left with just b: head=%p tail=%p", l.head, l.tail)
	}

	last := l.detachFirst()
	if last != b {
		t.Fatalf("detachFirst = %p, want %p", last, b)
	}
	if !l.empty() {
		t.Fatalf("list should be empty")
	}
	if l.detachFirst() != nil {
		t.Fatalf("detachFirst on empty list should return nil")
	}
}

func TestWaitListAppendTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic appending an already-attached node")
		}
	}()
	var l waitList
	we := &WatchedEvent{}
	l.append(we)
	l.append(we)
}

func TestWaitListDetachForeignPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic detaching a node from the wrong list")
		}
	}()
	var l1, l2 waitList
	we := &WatchedEvent{}
	l1.append(we)
	l2.detach(we)
}
