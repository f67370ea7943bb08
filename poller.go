package coro

import "net"

// ioOp discriminates the kind of background operation an ioCompletion
// reports back from.
type ioOp int

const (
	ioOpRead ioOp = iota
	ioOpWrite
	ioOpConnect
	ioOpAccept
)

// ioCompletion is a single result crossing from a background goroutine
// back onto the scheduler goroutine. Every socket operation in socket.go
// spawns exactly one of these per in-flight syscall and reports exactly
// once; a socketConn's result fields are only written on the scheduler
// goroutine (by the poller, or by CloseSocket), so no lock is taken.
type ioCompletion struct {
	sc      *socketConn
	op      ioOp
	n       int
	err     error
	newConn net.Conn
}

// socketPoller bridges blocking net.Conn/net.Listener calls into the
// cooperative scheduler: the wait primitive here is "a goroutine finished
// a blocking syscall" rather than an OS readiness notification (see
// DESIGN.md for why). completions is buffered generously so background
// goroutines never block handing a result back even if the scheduler is
// busy running other coroutines.
type socketPoller struct {
	rt          *Runtime
	completions chan ioCompletion
}

func newSocketPoller(rt *Runtime) *socketPoller {
	return &socketPoller{rt: rt, completions: make(chan ioCompletion, 4096)}
}

// trackOpen/trackClose keep the PollerFDs gauge in sync with the number
// of sockets currently registered with this poller.
func (p *socketPoller) trackOpen() {
	if p.rt.metrics != nil {
		p.rt.metrics.PollerFDs.Inc()
	}
}

func (p *socketPoller) trackClose() {
	if p.rt.metrics != nil {
		p.rt.metrics.PollerFDs.Dec()
	}
}

// drainCompletions applies every completion queued since the last
// iteration, waking at most one waiter per completion, the same
// one-wake discipline channels use. Called once per
// ExecuteActives, never blocks.
func (p *socketPoller) drainCompletions() {
	for {
		select {
		case c := <-p.completions:
			p.apply(c)
		default:
			return
		}
	}
}

func (p *socketPoller) apply(c ioCompletion) {
	sc := c.sc
	switch c.op {
	case ioOpRead:
		sc.pendingRead = false
		sc.readN, sc.readErr = c.n, c.err
		if we := sc.readWaiters.detachFirst(); we != nil {
			p.rt.wakeUp(we)
		}
	case ioOpWrite:
		sc.pendingWrite = false
		sc.writeN, sc.writeErr = c.n, c.err
		if we := sc.writeWaiters.detachFirst(); we != nil {
			p.rt.wakeUp(we)
		}
	case ioOpConnect, ioOpAccept:
		sc.pendingRead = false
		sc.conn = c.newConn
		sc.readErr = c.err
		if we := sc.readWaiters.detachFirst(); we != nil {
			p.rt.wakeUp(we)
		}
	}
}
