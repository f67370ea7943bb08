package coro

import "testing"

func TestWaitFastPathOnAlreadyReadyChannel(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt, 1)
	ch.Push(rt, 7)

	var idx int
	rt.Start(func() {
		we := WatchedEvent{Kind: EventChannelCanPull, channel: rt.resolveMemChan(ch.Handle())}
		idx = rt.Wait([]WatchedEvent{we})
	})

	if idx != 0 {
		t.Fatalf("idx = %d, want 0 (fast path, no blocking)", idx)
	}
}

func TestWaitTimeoutReturnsItsArrayIndex(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	var result int
	rt.Start(func() {
		result = rt.Wait([]WatchedEvent{newTimeoutEvent(rt.Current(), Microsecond)})
	})
	for rt.ExecuteActives() > 0 {
	}
	if result != 0 {
		t.Fatalf("result = %d, want 0 (the TIMEOUT record's own index)", result)
	}
}

func TestWaitUnregistersFromEveryUnfiredEvent(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch1 := NewChan[int](rt, 1)
	ch2 := NewChan[int](rt, 1)

	rt.Start(func() {
		we1 := WatchedEvent{Kind: EventChannelCanPull, channel: rt.resolveMemChan(ch1.Handle())}
		we2 := WatchedEvent{Kind: EventChannelCanPull, channel: rt.resolveMemChan(ch2.Handle())}
		rt.Wait([]WatchedEvent{we1, we2})
	})

	ch1.Push(rt, 1)
	for rt.ExecuteActives() > 0 {
	}

	mc2 := rt.resolveMemChan(ch2.Handle())
	if !mc2.pullWaiters().empty() {
		t.Fatalf("the non-firing event should have been detached from ch2's waiter list")
	}
}
