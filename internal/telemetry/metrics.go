package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the scheduler/poller instrumentation exposed to an
// embedder's prometheus registry.
type Metrics struct {
	Loops            prometheus.Counter
	ActiveCoroutines prometheus.Gauge
	ChannelDepth     *prometheus.GaugeVec
	PollerFDs        prometheus.Gauge
}

// NewMetrics creates and registers the runtime's metrics against reg. A
// nil reg is accepted and produces unregistered (but still usable)
// collectors, so tests can construct a Metrics without a global registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Loops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coro",
			Name:      "scheduler_loops_total",
			Help:      "Number of ExecuteActives iterations run.",
		}),
		ActiveCoroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coro",
			Name:      "active_coroutines",
			Help:      "Number of coroutines that are runnable or waiting.",
		}),
		ChannelDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "coro",
			Name:      "channel_depth",
			Help:      "Number of elements currently buffered in a memory channel.",
		}, []string{"channel"}),
		PollerFDs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coro",
			Name:      "socket_poller_fds",
			Help:      "Number of sockets currently tracked by the poller.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Loops, m.ActiveCoroutines, m.ChannelDepth, m.PollerFDs)
	}
	return m
}

// NewRegistry creates a fresh prometheus registry for an embedder that
// wants an isolated metrics namespace (e.g. per-test).
func NewRegistry() *prometheus.Registry { return prometheus.NewRegistry() }
