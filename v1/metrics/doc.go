// Package metrics exposes client metrics to Prometheus.
//
// *Metrics implements pinecone.Recorder and poller.Observer. It records:
//
//   - pinecone_poll_cycles_total{operation,state}: status checks spent in
//     lifecycle waits, by terminal state
//   - pinecone_normalize_failures_total{kind}: upsert batches rejected
//     during normalization
//   - pinecone_operation_duration_seconds{operation,outcome}: latency of
//     every client call
//
// All metrics live in a dedicated registry and carry a constant service
// label, so several clients in one process never collide.
//
// # Direct Usage (Without FX)
//
//	m := metrics.NewMetrics(metrics.DefaultConfig())
//	go m.Server.ListenAndServe()
//
//	client, err := pinecone.NewClient(pinecone.ClientParams{
//	    Config:       cfg,
//	    ControlPlane: control,
//	    Dialer:       dialer,
//	    Recorder:     m,
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Supply(metrics.DefaultConfig()),
//	    metrics.FXModule,
//	    fx.Provide(func(m *metrics.Metrics) pinecone.Recorder { return m }),
//	)
//
// The server listens on Config.Address and serves /metrics until the
// application stops.
package metrics
