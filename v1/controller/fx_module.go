package controller

import (
	"go.uber.org/fx"

	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

// FXModule provides the hosted control plane and REST dialer as
// pinecone.ControlPlane and pinecone.Dialer.
//
// Usage:
//
//	app := fx.New(
//	    fx.Provide(pinecone.NewConfig),
//	    logger.FXModule,
//	    controller.FXModule,
//	    pinecone.FXModule,
//	)
var FXModule = fx.Module("controller",
	fx.Provide(
		fx.Annotate(NewControlPlane, fx.As(new(pinecone.ControlPlane))),
		fx.Annotate(NewRESTDialer, fx.As(new(pinecone.Dialer))),
	),
)

// Params are the dependencies of the fx constructors.
type Params struct {
	fx.In

	Config *pinecone.Config
	Logger pinecone.Logger `optional:"true"`
}

func (p Params) options() []Option {
	if p.Logger == nil {
		return nil
	}
	return []Option{WithLogger(p.Logger)}
}

// NewControlPlane builds a Client from injected dependencies.
func NewControlPlane(p Params) *Client {
	return New(p.Config, p.options()...)
}

// NewRESTDialer builds a Dialer from injected dependencies.
func NewRESTDialer(p Params) *Dialer {
	return NewDialer(p.Config, p.options()...)
}
