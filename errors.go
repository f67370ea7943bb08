package coro

import "go.uber.org/zap"

// bugLogger backs panicBug: it defaults to a no-op logger so the package
// is usable without any Runtime having been constructed yet, and is
// replaced by the logger of the most recent NewRuntime call that was given
// a non-nil one (or by SetDefaultLogger) so invariant violations surface
// through the embedder's own logging pipeline.
//
// Internal invariant violations are programmer errors and should abort
// loudly in development; DPanic gives embedders that behavior while only
// logging (not crashing) in a production zap config.
var bugLogger = zap.NewNop()

func panicBug(msg string, fields ...zap.Field) {
	bugLogger.WithOptions(zap.AddCallerSkip(1)).DPanic(msg, fields...)
}
