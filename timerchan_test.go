package coro

import (
	"testing"
	"time"
)

func TestAfterChanFiresOnceThenCloses(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	th := rt.AfterChan(Millisecond)

	fires := 0
	rt.Start(func() {
		for {
			_, ok := th.Pull(rt)
			if !ok {
				break
			}
			fires++
		}
	})

	time.Sleep(2 * time.Millisecond)
	for rt.ExecuteActives() > 0 {
	}

	if fires != 1 {
		t.Fatalf("fires = %d, want exactly 1", fires)
	}
}

func TestEveryChanFiresRepeatedlyUntilClosed(t *testing.T) {
	rt := NewRuntime(testConfig(), nil)
	th := rt.Every(Millisecond)

	fires := 0
	done := false
	rt.Start(func() {
		for {
			_, ok := th.Pull(rt)
			if !ok {
				done = true
				return
			}
			fires++
			if fires == 3 {
				th.Close(rt)
			}
		}
	})

	for !done {
		time.Sleep(time.Millisecond)
		rt.ExecuteActives()
	}

	if fires != 3 {
		t.Fatalf("fires = %d, want exactly 3", fires)
	}
}

func TestTimerChanPrepareNextCatchesUp(t *testing.T) {
	tc := newTimerChan(Millisecond, true)
	tc.next = Now().Add(-50 * Millisecond) // simulate a long scheduler stall
	before := tc.next
	tc.prepareNext()
	if !tc.next.After(Now()) {
		t.Fatalf("prepareNext should land strictly in the future")
	}
	if tc.next.Sub(before) <= 50*Millisecond {
		t.Fatalf("prepareNext should skip over all missed ticks in one jump")
	}
}
