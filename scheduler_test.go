package coro

import "testing"

func TestStartRunsImmediatelyFromOutsideACoroutine(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ran := false
	rt.Start(func() { ran = true })
	if !ran {
		t.Fatalf("expected boot function to run synchronously up to its first yield")
	}
}

func TestWaitAllBlocksUntilEveryTargetEnds(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt, 1)

	var h1, h2 Handle
	h1 = rt.Start(func() {
		v, _ := ch.Pull(rt)
		_ = v
	})
	h2 = rt.Start(func() {
		ch.Push(rt, 1)
	})

	done := false
	rt.Start(func() {
		rt.WaitAll(h1, h2)
		done = true
	})

	for rt.ExecuteActives() > 0 {
	}

	if !done {
		t.Fatalf("WaitAll should have observed both targets finish")
	}
}

func TestExitCoSelfUnwindsBootFunction(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	reachedAfterExit := false
	h := rt.Start(func() {
		rt.ExitCo()
		reachedAfterExit = true
	})
	if rt.IsHandle(h) {
		t.Fatalf("self-exiting coroutine should already be free")
	}
	if reachedAfterExit {
		t.Fatalf("code after ExitCo() should never run")
	}
}

func TestExitCoOtherWakesWaiters(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt, 1)
	target := rt.Start(func() {
		ch.Pull(rt)
	})

	woke := false
	rt.Start(func() {
		rt.Wait([]WatchedEvent{newCoroutineEndsEvent(rt.Current(), target)})
		woke = true
	})

	rt.ExitCo(target)
	for rt.ExecuteActives() > 0 {
	}

	if rt.IsHandle(target) {
		t.Fatalf("externally killed coroutine should be freed")
	}
	if !woke {
		t.Fatalf("expected the waiter to wake once its target was killed")
	}
}

func TestHandleRecycleBumpsAge(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	h1 := rt.Start(func() {})
	h2 := rt.Start(func() {})
	if h2.Slot != h1.Slot {
		t.Fatalf("expected the second coroutine to reuse slot %d, got %d", h1.Slot, h2.Slot)
	}
	if h2.Age <= h1.Age {
		t.Fatalf("recycled slot age should strictly increase: %d -> %d", h1.Age, h2.Age)
	}
	if rt.IsHandle(h1) {
		t.Fatalf("stale handle h1 should no longer resolve")
	}
}
