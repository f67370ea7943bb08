package coro

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/go-coro/coro/internal/config"
	"github.com/go-coro/coro/internal/telemetry"
)

type coroState int

const (
	stateUninitialized coroState = iota
	stateRunning
	stateWaitingForCondition
	stateWaitingForEvent
	stateFree
)

// selfExitSignal unwinds a coroutine's boot function when ExitCo targets
// it, whether self-initiated or (via the killCh path, see Yield) driven
// externally by another coroutine calling ExitCo on this one.
type selfExitSignal struct{}

// coroutine is the scheduler's per-slot record.
// It is backed by a real goroutine; resume/yield hand a run-token back
// and forth over unbuffered channels instead of swapping machine
// contexts, the idiomatic Go rendering when the target language has
// first-class goroutines.
type coroutine struct {
	handle Handle
	state  coroState
	bootFn func()

	waitingForMe waitList
	mustWait     func() bool
	wakingEvent  *WatchedEvent
	watched      []*WatchedEvent

	started          bool
	externallyKilled bool
	resumeCh         chan struct{}
	yieldCh          chan struct{}
	killCh           chan struct{}
}

func newCoroutine(slot uint32) *coroutine {
	return &coroutine{
		handle:   Handle{Slot: slot, Age: 1},
		state:    stateUninitialized,
		resumeCh: make(chan struct{}),
		yieldCh:  make(chan struct{}),
		killCh:   make(chan struct{}, 1),
	}
}

func (co *coroutine) recycle() {
	co.handle.Age++
	co.state = stateFree
	co.bootFn = nil
	co.mustWait = nil
	co.wakingEvent = nil
	co.watched = nil
	co.started = false
	co.externallyKilled = false
	co.resumeCh = make(chan struct{})
	co.yieldCh = make(chan struct{})
	co.killCh = make(chan struct{}, 1)
}

// Runtime is an explicit scheduler value, usable either as
// process-global state via Default() for simple embedders, or as an
// isolated instance via NewRuntime for tests that must not share state.
type Runtime struct {
	logger  *zap.Logger
	metrics *telemetry.Metrics
	cfg     config.Config

	coros    []*coroutine
	freeList []uint32
	current  Handle
	numLoops uint64

	timers   timerWheel
	events   namedEventTable
	poller   *socketPoller
	channels chanTable
}

// NewRuntime builds an independent runtime instance from cfg and logger.
// A nil logger installs a no-op logger for this runtime and leaves the
// package-wide invariant-violation logger unchanged.
func NewRuntime(cfg config.Config, logger *zap.Logger) *Runtime {
	if logger == nil {
		logger = telemetry.NewNop()
	} else {
		bugLogger = logger
	}
	rt := &Runtime{
		logger: logger,
		cfg:    cfg,
	}
	rt.poller = newSocketPoller(rt)
	rt.channels.init()
	rt.events.init()
	return rt
}

var defaultRuntime *Runtime

// Default returns the process-global Runtime, lazily constructed with
// built-in configuration defaults and a no-op logger. Call
// SetDefaultLogger/SetDefaultMetrics to attach observability before
// starting any coroutines.
func Default() *Runtime {
	if defaultRuntime == nil {
		defaultRuntime = NewRuntime(config.Default(), nil)
	}
	return defaultRuntime
}

// SetDefaultLogger attaches logger to the default runtime (and to the
// package-wide invariant-violation logger).
func SetDefaultLogger(logger *zap.Logger) {
	Default().logger = logger
	bugLogger = logger
}

// SetDefaultMetrics attaches a metrics sink to the default runtime.
func SetDefaultMetrics(m *telemetry.Metrics) {
	Default().metrics = m
}

func (rt *Runtime) byHandle(h Handle) *coroutine {
	if int(h.Slot) >= len(rt.coros) {
		return nil
	}
	co := rt.coros[h.Slot]
	if co.handle.Age != h.Age {
		return nil
	}
	return co
}

func (rt *Runtime) findFree() *coroutine {
	if n := len(rt.freeList); n > 0 {
		slot := rt.freeList[n-1]
		rt.freeList = rt.freeList[:n-1]
		co := rt.coros[slot]
		co.state = stateRunning
		return co
	}
	co := newCoroutine(uint32(len(rt.coros)))
	rt.coros = append(rt.coros, co)
	co.state = stateRunning
	rt.logger.Debug("coroutine slot allocated",
		zap.Uint32("slot", co.handle.Slot),
		zap.Int("stack_reservation_bytes", rt.cfg.StackReservationBytes))
	return co
}

// Current returns the handle of the coroutine currently executing, or
// the zero Handle if the caller is not running inside a coroutine.
func (rt *Runtime) Current() Handle { return rt.current }

// IsHandle reports whether h refers to a still-live coroutine.
func (rt *Runtime) IsHandle(h Handle) bool { return rt.byHandle(h) != nil }

// Start allocates or recycles a slot and registers fn to run. If the
// caller is itself a coroutine, the new one only runs starting the next
// scheduler iteration. If called from outside any coroutine, it is
// resumed immediately (one context switch in, one out on its first
// suspension).
func (rt *Runtime) Start(fn func()) Handle {
	co := rt.findFree()
	co.bootFn = fn
	h := co.handle
	if !rt.IsHandle(rt.Current()) {
		rt.resume(co)
	}
	return h
}

func (rt *Runtime) resume(co *coroutine) {
	if !co.started {
		co.started = true
		go rt.runCoroutine(co)
	}
	prev := rt.current
	rt.current = co.handle
	co.resumeCh <- struct{}{}
	<-co.yieldCh
	rt.current = prev
}

// runCoroutine is the body of the goroutine backing a coroutine slot. It
// blocks until the first resume, runs the boot function to completion (or
// until it panics, self-exits, or is externally killed), then reports back
// on yieldCh exactly once unless it was killed while idle.
func (rt *Runtime) runCoroutine(co *coroutine) {
	select {
	case <-co.resumeCh:
	case <-co.killCh:
		return
	}

	func() {
		defer func() {
			r := recover()
			if r != nil {
				if _, ok := r.(selfExitSignal); !ok {
					rt.logger.Error("coroutine panic",
						zap.Uint64("handle", co.handle.AsUint64()),
						zap.Any("recover", r))
				}
			}
			if !co.externallyKilled {
				rt.epilogue(co)
			}
		}()
		co.bootFn()
	}()

	if !co.externallyKilled {
		co.yieldCh <- struct{}{}
	}
}

func (rt *Runtime) epilogue(co *coroutine) {
	rt.markFree(co)
	rt.wakeWaitingForMe(co)
}

func (rt *Runtime) markFree(co *coroutine) {
	if co.state != stateRunning && co.state != stateWaitingForCondition && co.state != stateWaitingForEvent {
		panicBug("markFree: coroutine not in a live state", zap.Int("state", int(co.state)))
	}
	co.recycle()
	rt.freeList = append(rt.freeList, co.handle.Slot)
}

func (rt *Runtime) wakeWaitingForMe(co *coroutine) {
	for {
		we := co.waitingForMe.detachFirst()
		if we == nil {
			break
		}
		rt.wakeUp(we)
	}
}

// Yield returns control to the scheduler without changing the caller's
// state. The caller must be a coroutine.
func (rt *Runtime) Yield() {
	co := rt.byHandle(rt.Current())
	if co == nil {
		panicBug("Yield called outside a coroutine")
		return
	}
	co.yieldCh <- struct{}{}
	select {
	case <-co.resumeCh:
	case <-co.killCh:
		panic(selfExitSignal{})
	}
}

// ExitCo terminates a coroutine. With no argument it terminates the
// caller (running the normal epilogue in place of the rest of its boot
// function). Given another handle, it is a synchronous external
// termination: the target is detached from every wait source, marked
// free, and any peers waiting on it are woken, immediately.
func (rt *Runtime) ExitCo(h ...Handle) {
	target := rt.Current()
	if len(h) > 0 {
		target = h[0]
	}
	if target == rt.Current() && !target.isNone() {
		panic(selfExitSignal{})
	}

	co := rt.byHandle(target)
	if co == nil {
		return
	}
	rt.unregisterFromEvents(co)
	co.externallyKilled = true
	rt.markFree(co)
	rt.wakeWaitingForMe(co)
	select {
	case co.killCh <- struct{}{}:
	default:
	}
}

// NumLoops is the monotonic scheduler-iteration counter, for diagnostics only.
func (rt *Runtime) NumLoops() uint64 { return rt.numLoops }

// ExecuteActives runs one scheduling iteration: drain socket-poller
// completions, expire due timers, then resume every runnable coroutine in
// slot order. Returns the number of coroutines still active (runnable or
// waiting) so an embedder can drive the loop until it returns zero.
func (rt *Runtime) ExecuteActives() int {
	rt.numLoops++
	rt.poller.drainCompletions()
	rt.timers.expireDue(rt, Now())
	n := rt.runActives()
	if rt.metrics != nil {
		rt.metrics.Loops.Inc()
		rt.metrics.ActiveCoroutines.Set(float64(n))
	}
	return n
}

func (rt *Runtime) runActives() int {
	// Snapshot the live coroutines so that one started during this pass
	// is counted as active but first runs on the next iteration.
	live := make([]Handle, len(rt.coros))
	for j, co := range rt.coros {
		if co.state != stateFree {
			live[j] = co.handle
		}
	}

	nactives := 0
	i := 0
	for i < len(rt.coros) {
		co := rt.coros[i]
		i++

		if co.state == stateFree {
			continue
		}
		if i > len(live) || live[i-1] != co.handle {
			nactives++
			continue
		}
		if co.state == stateWaitingForEvent {
			nactives++
			continue
		}
		if co.state == stateWaitingForCondition {
			if co.mustWait() {
				nactives++
				continue
			}
			co.state = stateRunning
		} else if co.state != stateRunning {
			panicBug(fmt.Sprintf("runActives: unexpected coroutine state %d", co.state))
			continue
		}

		rt.resume(co)

		if co.state == stateRunning || co.state == stateWaitingForCondition || co.state == stateWaitingForEvent {
			nactives++
		}
	}
	return nactives
}

// WaitPredicate is the escape hatch for conditions not expressible as
// events: if fn is already false, returns immediately; otherwise blocks,
// re-evaluating fn on every scheduler iteration, until it returns false.
func (rt *Runtime) WaitPredicate(fn func() bool) {
	if !fn() {
		return
	}
	co := rt.byHandle(rt.Current())
	if co == nil {
		panicBug("WaitPredicate called outside a coroutine")
		return
	}
	co.state = stateWaitingForCondition
	co.mustWait = fn
	rt.Yield()
}

// WaitAll blocks the caller until every listed coroutine has finished.
func (rt *Runtime) WaitAll(handles ...Handle) {
	for _, h := range handles {
		rt.Wait([]WatchedEvent{newCoroutineEndsEvent(rt.Current(), h)})
	}
}

// Sleep parks the caller for d, without registering any other event.
func (rt *Runtime) Sleep(d Duration) {
	rt.Wait([]WatchedEvent{newTimeoutEvent(rt.Current(), d)})
}

// After returns a one-shot TIMEOUT wait-record usable as a raw Wait
// element or a choose arm.
func (rt *Runtime) After(d Duration) WatchedEvent {
	return newTimeoutEvent(rt.Current(), d)
}

// --- package-level convenience wrappers over Default() ---

func Start(fn func()) Handle              { return Default().Start(fn) }
func Current() Handle                     { return Default().Current() }
func IsHandle(h Handle) bool              { return Default().IsHandle(h) }
func Yield()                              { Default().Yield() }
func ExitCo(h ...Handle)                  { Default().ExitCo(h...) }
func ExecuteActives() int                 { return Default().ExecuteActives() }
func GetNumLoops() uint64                 { return Default().NumLoops() }
func WaitPredicate(fn func() bool)        { Default().WaitPredicate(fn) }
func WaitAll(handles ...Handle)           { Default().WaitAll(handles...) }
func Sleep(d Duration)                    { Default().Sleep(d) }
func After(d Duration) WatchedEvent       { return Default().After(d) }
