package pinecone

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/pinecone-io/pinecone-client/v1/poller"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// observe wraps fn in a span and reports its duration and outcome.
func (c *Client) observe(ctx context.Context, operation string, attrs map[string]interface{}, fn func(ctx context.Context) error) error {
	ctx, span := c.tracer.StartSpan(ctx, "pinecone."+operation)
	defer span.End()

	if len(attrs) > 0 {
		c.tracer.SetAttributes(span, attrs)
	}

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
		c.tracer.RecordErrorOnSpan(span, err)
		c.logger.Debug("[Pinecone] operation failed", err, map[string]interface{}{
			"operation": operation,
			"duration":  duration.String(),
		})
	}
	c.recorder.ObserveOperation(operation, outcome, duration)
	return err
}

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}

type nopTracer struct{}

func (nopTracer) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return noop.NewTracerProvider().Tracer("").Start(ctx, name)
}

func (nopTracer) RecordErrorOnSpan(trace.Span, error) {}

func (nopTracer) SetAttributes(trace.Span, map[string]interface{}) {}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string, time.Duration) {}
func (nopRecorder) IncrementNormalizeFailures(string)              {}
func (nopRecorder) ObservePoll(string, poller.Result)              {}
