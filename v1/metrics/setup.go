package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a dedicated Prometheus registry with the client instruments
// and the HTTP server that exposes it.
type Metrics struct {
	// Server serves the registry at /metrics.
	Server *http.Server

	// Registry holds every metric of this instance. It is never the global
	// default registry, so several clients can live in one process.
	Registry *prometheus.Registry

	registerer prometheus.Registerer
	namespace  string

	pollCycles        *prometheus.CounterVec
	normalizeFailures *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewMetrics builds the registry, registers the client instruments and
// prepares (but does not start) the HTTP server.
//
// Every metric carries a constant service="<cfg.ServiceName>" label.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.DefaultConfig().WithAddress(":9100"))
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry:   registry,
		registerer: wrapped,
		namespace:  cfg.Namespace,
	}

	m.pollCycles = createCounterVec(cfg.Namespace, "poll_cycles_total",
		"Status checks performed by lifecycle waits, by terminal state.",
		[]string{"operation", "state"})
	m.normalizeFailures = createCounterVec(cfg.Namespace, "normalize_failures_total",
		"Upsert records rejected during normalization, by error kind.",
		[]string{"kind"})
	m.operationDuration = createHistogramVec(cfg.Namespace, "operation_duration_seconds",
		"Duration of client operations in seconds.",
		[]string{"operation", "outcome"}, prometheus.DefBuckets)

	wrapped.MustRegister(
		m.pollCycles,
		m.normalizeFailures,
		m.operationDuration,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	address := cfg.Address
	if address == "" {
		address = DefaultMetricsAddress
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	m.Server = &http.Server{
		Addr:    address,
		Handler: mux,
	}
	return m
}
