// Package coro is a user-space cooperative concurrency runtime: a
// goroutine-backed coroutine scheduler, CSP-style bounded channels, and a
// unified wait primitive that lets a coroutine block on a heterogeneous
// set of conditions (channel readiness, peer-coroutine completion, timer
// expiry, named events, socket readiness) and resume on whichever fires
// first.
//
// The runtime is strictly single-threaded from the caller's point of
// view: exactly one coroutine is "current" at any instant, enforced by a
// run-token handoff between goroutines rather than preemption. Context
// switches only happen at Yield, inside Wait, and at coroutine start/exit.
package coro
