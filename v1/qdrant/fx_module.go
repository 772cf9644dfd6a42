package qdrant

import (
	"context"

	"go.uber.org/fx"

	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

// FXModule provides a Backend as both pinecone.ControlPlane and
// pinecone.Dialer and closes its connection on stop.
//
// Usage:
//
//	app := fx.New(
//	    fx.Provide(pinecone.NewConfig, func() *qdrant.Config { return qdrant.FromEndpoint("localhost") }),
//	    qdrant.FXModule,
//	    pinecone.FXModule,
//	)
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewBackend,
		func(b *Backend) pinecone.ControlPlane { return b },
		func(b *Backend) pinecone.Dialer { return b },
	),
	fx.Invoke(RegisterBackendLifecycle),
)

// BackendLifecycleParams groups the dependencies of the lifecycle hooks.
type BackendLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Backend   *Backend
}

// RegisterBackendLifecycle closes the gRPC connection when the app stops.
// The health check already ran in NewBackend.
func RegisterBackendLifecycle(p BackendLifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.Backend.Close()
		},
	})
}
