// Package telemetry wires up the runtime's structured logging and
// metrics, built on zap and prometheus/client_golang.
package telemetry

import (
	"go.uber.org/zap"
)

// NewLogger builds a production or development zap.Logger depending on
// dev. Development loggers DPanic at invariant violations (useful in
// tests); production loggers only log them, matching the "Fatal: internal
// invariant violations ... abort" policy being a development-time trap
// rather than a customer-visible crash.
func NewLogger(dev bool) (*zap.Logger, error) {
	if dev {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	return cfg.Build()
}

// NewNop returns a logger that discards everything, used as the default
// until an embedder supplies one.
func NewNop() *zap.Logger { return zap.NewNop() }
