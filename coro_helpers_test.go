package coro

import "github.com/go-coro/coro/internal/config"

func testConfig() config.Config {
	return config.Default()
}
