package pinecone

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides a *Client built from a *Config, a ControlPlane and a
// Dialer supplied elsewhere in the graph (for example by controller.FXModule
// or qdrant.FXModule).
//
// Usage:
//
//	app := fx.New(
//	    fx.Provide(pinecone.NewConfig),
//	    controller.FXModule,
//	    pinecone.FXModule,
//	)
var FXModule = fx.Module("pinecone",
	fx.Provide(NewClient),
	fx.Invoke(RegisterClientLifecycle),
)

// RegisterClientLifecycle closes every index handle still open when the
// application stops.
func RegisterClientLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			client.logger.Info("[Pinecone] closing open index connections", nil, nil)
			return client.Close()
		},
	})
}
