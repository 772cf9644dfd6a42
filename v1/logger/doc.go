// Package logger provides structured logging on top of go.uber.org/zap.
//
// Every method takes a message, an optional error and any number of field
// maps:
//
//	log.Warn("index not ready", err, map[string]interface{}{
//	    "index":  "docs",
//	    "cycles": 4,
//	})
//
// *Logger satisfies the Logger interfaces declared by the pinecone and
// poller packages, so it can be passed straight to pinecone.ClientParams.
//
// # Tracing
//
// With Config.EnableTracing set, WithContext copies the trace and span ids
// of the active span onto the entry:
//
//	log.WithContext(ctx).Info("query finished", nil, nil)
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Supply(logger.DefaultConfig()),
//	    logger.FXModule,
//	)
package logger
