package coro

import "net"

// socketConn is the internal per-connection record the poller and the
// wait dispatcher both reach into directly (readWaiters/writeWaiters are
// appended to by registerToEvents exactly like a channel's wait lists).
// Every field below is only ever written from the scheduler goroutine —
// either directly, or via socketPoller.apply draining a completion — so
// there is no mutex, the same single-writer discipline the rest of the
// runtime relies on.
type socketConn struct {
	conn   net.Conn
	poller *socketPoller
	closed bool

	readWaiters  waitList
	writeWaiters waitList

	pendingRead bool
	readN       int
	readErr     error

	pendingWrite bool
	writeN       int
	writeErr     error
}

// Socket is the public handle to a connected stream socket.
type Socket struct {
	conn *socketConn
}

func newSocketConn(poller *socketPoller, conn net.Conn) *socketConn {
	poller.trackOpen()
	return &socketConn{conn: conn, poller: poller}
}

func (rt *Runtime) socketFromConn(conn net.Conn) *Socket {
	return &Socket{conn: newSocketConn(rt.poller, conn)}
}

// Connect dials network/address on a background goroutine and blocks the
// calling coroutine until the dial completes, without ever blocking the
// scheduler thread itself.
func (rt *Runtime) Connect(network, address string) (*Socket, error) {
	sc := &socketConn{poller: rt.poller, pendingRead: true}
	rt.poller.trackOpen()
	go func() {
		conn, err := net.Dial(network, address)
		rt.poller.completions <- ioCompletion{sc: sc, op: ioOpConnect, err: err, newConn: conn}
	}()

	owner := rt.Current()
	we := newSocketReadEvent(owner, sc)
	rt.Wait([]WatchedEvent{we})
	if sc.readErr != nil {
		return nil, sc.readErr
	}
	return &Socket{conn: sc}, nil
}

// Listener is a passive listening socket; Accept blocks the calling
// coroutine (not the scheduler thread) until a peer connects.
type Listener struct {
	ln net.Listener
	rt *Runtime
}

// Listen opens a listening socket on network/address. Listen itself is a
// blocking OS call but is expected to be fast and is typically only
// called once at startup outside any coroutine, so unlike Connect/Accept
// it is not bridged through the poller.
func (rt *Runtime) Listen(network, address string) (*Listener, error) {
	ln, err := net.Listen(network, address)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln, rt: rt}, nil
}

// Accept waits for and returns the next incoming connection.
func (l *Listener) Accept() (*Socket, error) {
	sc := &socketConn{poller: l.rt.poller, pendingRead: true}
	l.rt.poller.trackOpen()
	go func() {
		conn, err := l.ln.Accept()
		l.rt.poller.completions <- ioCompletion{sc: sc, op: ioOpAccept, err: err, newConn: conn}
	}()

	owner := l.rt.Current()
	we := newSocketReadEvent(owner, sc)
	l.rt.Wait([]WatchedEvent{we})
	if sc.readErr != nil {
		return nil, sc.readErr
	}
	return &Socket{conn: sc}, nil
}

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Close stops accepting new connections.
func (l *Listener) Close() error { return l.ln.Close() }

// Send writes data, blocking the caller until the write completes. The
// returned bool is false on write error or if the socket is closed; the
// underlying error is available via LastError.
func (s *Socket) Send(rt *Runtime, data []byte) (int, bool) {
	sc := s.conn
	if sc.closed {
		return 0, false
	}
	if !sc.pendingWrite {
		sc.pendingWrite = true
		buf := append([]byte(nil), data...)
		go func() {
			n, err := sc.conn.Write(buf)
			sc.poller.completions <- ioCompletion{sc: sc, op: ioOpWrite, n: n, err: err}
		}()
	}

	owner := rt.Current()
	we := newSocketWriteEvent(owner, sc)
	rt.Wait([]WatchedEvent{we})
	return sc.writeN, sc.writeErr == nil
}

// Recv reads into buf, blocking the caller until at least one read
// completes (which may return 0 bytes with ok=false on EOF).
func (s *Socket) Recv(rt *Runtime, buf []byte) (int, bool) {
	sc := s.conn
	if sc.closed {
		return 0, false
	}
	if !sc.pendingRead {
		sc.pendingRead = true
		go func() {
			n, err := sc.conn.Read(buf)
			sc.poller.completions <- ioCompletion{sc: sc, op: ioOpRead, n: n, err: err}
		}()
	}

	owner := rt.Current()
	we := newSocketReadEvent(owner, sc)
	rt.Wait([]WatchedEvent{we})
	return sc.readN, sc.readErr == nil
}

// RecvUpTo reads at most maxLen bytes and returns the slice actually
// filled, a convenience wrapper over Recv for callers without a
// reusable buffer. maxLen <= 0 falls back to the runtime's configured
// InternalReadBufferSize.
func (s *Socket) RecvUpTo(rt *Runtime, maxLen int) ([]byte, bool) {
	if maxLen <= 0 {
		maxLen = rt.cfg.InternalReadBufferSize
	}
	buf := make([]byte, maxLen)
	n, ok := s.Recv(rt, buf)
	return buf[:n], ok
}

// CloseSocket closes the underlying connection and wakes every still
// pending reader/writer so nobody blocks forever on a dead socket.
func (s *Socket) CloseSocket() error {
	sc := s.conn
	if sc.closed {
		return nil
	}
	sc.closed = true
	var err error
	if sc.conn != nil {
		err = sc.conn.Close()
	}
	sc.poller.trackClose()

	closeErr := err
	if closeErr == nil {
		closeErr = net.ErrClosed
	}
	sc.readErr = closeErr
	sc.writeErr = closeErr
	for {
		we := sc.readWaiters.detachFirst()
		if we == nil {
			break
		}
		sc.poller.rt.wakeUp(we)
	}
	for {
		we := sc.writeWaiters.detachFirst()
		if we == nil {
			break
		}
		sc.poller.rt.wakeUp(we)
	}
	return err
}

// LastError returns the most recent read or write error observed on
// this socket, if any.
func (s *Socket) LastError() error {
	if s.conn.readErr != nil {
		return s.conn.readErr
	}
	return s.conn.writeErr
}

func Connect(network, address string) (*Socket, error) { return Default().Connect(network, address) }
func Listen(network, address string) (*Listener, error) { return Default().Listen(network, address) }
