package coro

import "os"

// fileResult carries a completed file operation back from its
// background goroutine over a channel, the same happens-before guarantee
// the socket poller relies on, rather than a shared field the scheduler
// goroutine and the background goroutine would otherwise race on.
type fileResult struct {
	data []byte
	err  error
}

// LoadFile reads the named file on a background goroutine and blocks the
// calling coroutine (not the scheduler) until it completes.
func (rt *Runtime) LoadFile(path string) ([]byte, error) {
	done := make(chan fileResult, 1)
	go func() {
		data, err := os.ReadFile(path)
		done <- fileResult{data: data, err: err}
	}()

	var res fileResult
	rt.WaitPredicate(func() bool {
		select {
		case res = <-done:
			return false
		default:
			return true
		}
	})
	return res.data, res.err
}

// SaveFile writes data to path on a background goroutine and blocks the
// calling coroutine until it completes.
func (rt *Runtime) SaveFile(path string, data []byte) error {
	done := make(chan fileResult, 1)
	go func() {
		err := os.WriteFile(path, data, 0o644)
		done <- fileResult{err: err}
	}()

	var res fileResult
	rt.WaitPredicate(func() bool {
		select {
		case res = <-done:
			return false
		default:
			return true
		}
	})
	return res.err
}

func LoadFile(path string) ([]byte, error) { return Default().LoadFile(path) }
func SaveFile(path string, data []byte) error    { return Default().SaveFile(path, data) }
