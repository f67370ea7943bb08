// Package config loads scheduler tunables from a YAML file, overridable
// by environment variables, using a layered koanf configuration stack.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the scheduler/poller/channel tunables an embedder can
// override. Default supplies the built-in values; a zero Config is not
// filled in with them.
type Config struct {
	// StackReservationBytes is a diagnostic sizing hint logged at
	// coroutine creation; Go goroutine stacks grow on demand and are not
	// actually pre-allocated at this size (see DESIGN.md).
	StackReservationBytes int `koanf:"stack_reservation_bytes"`
	// InternalReadBufferSize sizes the scratch buffer RecvUpTo uses when
	// the caller doesn't provide one.
	InternalReadBufferSize int `koanf:"internal_read_buffer_size"`
	// DefaultChannelCapacity is used by NewDefaultChan, for callers that
	// don't need an explicit capacity.
	DefaultChannelCapacity int `koanf:"default_channel_capacity"`
	// Development toggles development-mode logging (DPanic-on-invariant-
	// violation) versus production logging (log-and-continue).
	Development bool `koanf:"development"`
}

// Default returns the built-in defaults, used when no config file/env is present.
func Default() Config {
	return Config{
		StackReservationBytes:  64 * 1024,
		InternalReadBufferSize: 64 * 1024,
		DefaultChannelCapacity: 1,
		Development:            false,
	}
}

// Load reads defaults, then overlays a YAML file at path (if it exists)
// and then environment variables prefixed CORO_ (e.g. CORO_DEVELOPMENT=true).
// path may be empty, in which case only defaults + environment apply.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	cfg := Default()
	if err := k.Load(confmap.Provider(defaultsMap(cfg), "."), nil); err != nil {
		return cfg, err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, err
		}
	}

	if err := k.Load(env.Provider("CORO_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CORO_"))
	}), nil); err != nil {
		return cfg, err
	}

	var out Config
	if err := k.Unmarshal("", &out); err != nil {
		return cfg, err
	}
	return out, nil
}

// defaultsMap adapts a Config value into the plain map confmap.Provider
// expects, so builtin defaults flow through the same merge path as the
// file/env layers.
func defaultsMap(cfg Config) map[string]interface{} {
	return map[string]interface{}{
		"stack_reservation_bytes":   cfg.StackReservationBytes,
		"internal_read_buffer_size": cfg.InternalReadBufferSize,
		"default_channel_capacity":  cfg.DefaultChannelCapacity,
		"development":               cfg.Development,
	}
}
