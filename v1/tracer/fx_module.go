package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/pinecone-io/pinecone-client/v1/logger"
)

// FXModule provides a *Tracer from a tracer.Config in the graph and shuts
// it down, flushing pending spans, when the application stops.
//
// Usage:
//
//	app := fx.New(
//	    fx.Supply(tracer.DefaultConfig()),
//	    tracer.FXModule,
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(NewFromParams),
	fx.Invoke(RegisterTracerLifecycle),
)

// Params defines the dependencies of NewFromParams. The logger is optional.
type Params struct {
	fx.In

	Config Config
	Logger *logger.Logger `optional:"true"`
}

// NewFromParams adapts NewClient to the fx graph.
func NewFromParams(p Params) (*Tracer, error) {
	if p.Logger == nil {
		return NewClient(p.Config, nil)
	}
	return NewClient(p.Config, p.Logger)
}

// RegisterTracerLifecycle shuts the provider down on stop.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Info("[Tracer] shutting down tracer", nil, nil)
			return tracer.Shutdown(ctx)
		},
	})
}
