package coro

import "testing"

func TestMemChanPushPullFIFO(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[string](rt, 4)

	ch.Push(rt, "a")
	ch.Push(rt, "b")
	ch.Push(rt, "c")

	for _, want := range []string{"a", "b", "c"} {
		got, ok := ch.Pull(rt)
		if !ok || got != want {
			t.Fatalf("got %q, ok=%v, want %q", got, ok, want)
		}
	}
}

func TestMemChanPushBlocksWhileFull(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt, 1)
	ch.Push(rt, 1)

	pushed := false
	rt.Start(func() {
		ch.Push(rt, 2)
		pushed = true
	})
	if pushed {
		t.Fatalf("push into a full channel should not complete before a slot frees up")
	}

	v, _ := ch.Pull(rt)
	if v != 1 {
		t.Fatalf("v = %d, want 1", v)
	}
	for rt.ExecuteActives() > 0 {
	}
	if !pushed {
		t.Fatalf("blocked push should complete once a slot opens up")
	}

	v2, _ := ch.Pull(rt)
	if v2 != 2 {
		t.Fatalf("v2 = %d, want 2", v2)
	}
}

func TestMemChanPullBlocksWhileEmpty(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt, 1)

	var got int
	pulled := false
	rt.Start(func() {
		got, _ = ch.Pull(rt)
		pulled = true
	})
	if pulled {
		t.Fatalf("pull from an empty channel should not complete before a value is pushed")
	}

	ch.Push(rt, 99)
	for rt.ExecuteActives() > 0 {
	}
	if !pulled || got != 99 {
		t.Fatalf("blocked pull should complete with the pushed value, got %d pulled=%v", got, pulled)
	}
}

func TestChanHandleStaleAfterRuntimeMismatch(t *testing.T) {
	rt1 := NewRuntime(testConfig(), nil)
	rt2 := NewRuntime(testConfig(), nil)
	ch := NewChan[int](rt1, 1)
	if rt2.resolveMemChan(ch.Handle()) != nil {
		t.Fatalf("a handle from one runtime should not resolve against another runtime's table")
	}
}
