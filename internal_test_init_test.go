package coro

import "go.uber.org/zap"

// Tests run with a development logger so panicBug (zap.DPanic) actually
// panics on invariant violations instead of only logging, the same way
// an embedder running coro in development mode would see failures.
func init() {
	dev, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	bugLogger = dev
}
