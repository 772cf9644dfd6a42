package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"

	"github.com/pinecone-io/pinecone-client/v1/logger"
)

// FXModule provides *Metrics from a metrics.Config in the graph and runs its
// HTTP server for the lifetime of the application.
//
// Usage:
//
//	app := fx.New(
//	    fx.Supply(metrics.DefaultConfig()),
//	    metrics.FXModule,
//	)
var FXModule = fx.Module("metrics",
	fx.Provide(NewMetrics),
	fx.Invoke(RegisterMetricsLifecycle),
)

// LifecycleParams groups the dependencies of RegisterMetricsLifecycle. The
// logger is optional.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    *logger.Logger `optional:"true"`
}

// RegisterMetricsLifecycle binds the listener on start, so an address
// already in use fails the application start, then serves in the
// background. OnStop shuts the server down gracefully.
func RegisterMetricsLifecycle(p LifecycleParams) {
	m := p.Metrics
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var lc net.ListenConfig
			ln, err := lc.Listen(ctx, "tcp", m.Server.Addr)
			if err != nil {
				return err
			}
			if p.Logger != nil {
				p.Logger.Info("Starting Prometheus metrics server", nil, map[string]interface{}{
					"address": ln.Addr().String(),
				})
			}

			go func() {
				if err := m.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && p.Logger != nil {
					p.Logger.Error("Prometheus metrics server stopped", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if p.Logger != nil {
				p.Logger.Info("Shutting down Prometheus metrics server", nil, nil)
			}
			return m.Server.Shutdown(ctx)
		},
	})
}
