package coro

import "testing"

func TestChooseDispatchesWinningArm(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt, 1)
	ch.Push(rt, 5)

	var got int
	var timedOut bool
	rt.Start(func() {
		idx := Choose(rt,
			OnCanPull(ch, func(v int) { got = v }),
			OnTimeout(Second, func() { timedOut = true }),
		)
		if idx != 0 {
			t.Errorf("idx = %d, want 0 (the channel arm)", idx)
		}
	})

	if got != 5 || timedOut {
		t.Fatalf("got=%d timedOut=%v, want got=5 timedOut=false", got, timedOut)
	}
}

func TestChooseFallsBackToTimeoutWhenNothingElseFires(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt, 1)

	var timedOut bool
	rt.Start(func() {
		Choose(rt,
			OnCanPull(ch, func(int) {}),
			OnTimeout(Microsecond, func() { timedOut = true }),
		)
	})

	for rt.ExecuteActives() > 0 {
	}

	if !timedOut {
		t.Fatalf("expected the timeout arm to win when the channel never becomes pullable")
	}
}

func TestChoosePushArm(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt, 1)

	var pushed int
	rt.Start(func() {
		Choose(rt, OnCanPush(ch, 11, func(v int) { pushed = v }))
	})

	if pushed != 11 {
		t.Fatalf("pushed = %d, want 11", pushed)
	}
	v, _ := ch.Pull(rt)
	if v != 11 {
		t.Fatalf("channel held %d, want 11", v)
	}
}
