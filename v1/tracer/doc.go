// Package tracer provides OpenTelemetry tracing for the client.
//
// *Tracer satisfies pinecone.Tracer: the client opens one span per
// operation, named "pinecone.<operation>", and records failures on it.
// NewClient also installs a W3C trace-context propagator globally so REST
// calls made by the controller package carry the active span.
//
// # Export
//
// Spans stay in-process unless Config.EnableExport is set, in which case
// they are batched to an OTLP/HTTP collector:
//
//	cfg := tracer.DefaultConfig().WithExport("otel-collector:4318", true)
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Supply(tracer.DefaultConfig()),
//	    tracer.FXModule,
//	    fx.Provide(func(t *tracer.Tracer) pinecone.Tracer { return t }),
//	)
package tracer
