package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides a *Logger built from a logger.Config in the graph and
// flushes it on shutdown.
//
// Usage:
//
//	app := fx.New(
//	    fx.Supply(logger.DefaultConfig()),
//	    logger.FXModule,
//	)
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle flushes buffered entries when the application
// stops. Sync errors on stderr are ignored since most platforms report
// ENOTTY or EINVAL for terminals.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = client.Zap.Sync()
			return nil
		},
	})
}
