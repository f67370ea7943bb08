package coro

import "testing"

func TestChanHandleRoundTripsThroughUint32(t *testing.T) {
	h := ChanHandle{Class: ChanMemory, Index: 0xABC, Age: 0xBEEF}
	got := chanHandleFromUint32(h.AsUint32())
	if got != h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestCloseWakesAllBlockedPushers(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt, 1)
	ch.Push(rt, 1) // fill it so further pushes block

	results := make([]bool, 3)
	for i := range results {
		i := i
		rt.Start(func() {
			results[i] = ch.Push(rt, 2)
		})
	}

	ch.Close(rt)
	for rt.ExecuteActives() > 0 {
	}

	for i, ok := range results {
		if ok {
			t.Fatalf("pusher %d should have observed the channel as closed", i)
		}
	}
}

func TestCloseWakesAllBlockedPullers(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt, 1)

	results := make([]bool, 3)
	for i := range results {
		i := i
		rt.Start(func() {
			_, ok := ch.Pull(rt)
			results[i] = ok
		})
	}

	ch.Close(rt)
	for rt.ExecuteActives() > 0 {
	}

	for i, ok := range results {
		if ok {
			t.Fatalf("puller %d should have observed the closed, empty channel", i)
		}
	}
}

func TestCloseLeavesBufferedElementsPullable(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt, 2)
	ch.Push(rt, 10)
	ch.Close(rt)

	v, ok := ch.Pull(rt)
	if !ok || v != 10 {
		t.Fatalf("a buffered element should still be pullable after close, got v=%d ok=%v", v, ok)
	}
	_, ok = ch.Pull(rt)
	if ok {
		t.Fatalf("pulling an empty closed channel should report ok=false")
	}
}

func TestStaleChanHandleResolvesToNil(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt, 1)
	stale := ch.Handle()
	stale.Age = 0
	if rt.channels.resolve(stale) != nil {
		t.Fatalf("a stale handle should not resolve")
	}
}
