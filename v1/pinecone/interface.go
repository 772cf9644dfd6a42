package pinecone

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/pinecone-io/pinecone-client/v1/filter"
	"github.com/pinecone-io/pinecone-client/v1/poller"
	"github.com/pinecone-io/pinecone-client/v1/records"
)

//go:generate mockgen -source=interface.go -destination=mock_interface.go -package=pinecone

// ControlPlane manages indexes and collections.
//
// Implemented by the controller package (hosted service) and the qdrant
// package (self-hosted).
type ControlPlane interface {
	CreateIndex(ctx context.Context, spec IndexSpec) error
	DeleteIndex(ctx context.Context, name string) error
	DescribeIndex(ctx context.Context, name string) (IndexDescription, error)
	ListIndexes(ctx context.Context) ([]string, error)
	ConfigureIndex(ctx context.Context, name string, req ConfigureRequest) error

	CreateCollection(ctx context.Context, name, source string) error
	DescribeCollection(ctx context.Context, name string) (CollectionDescription, error)
	ListCollections(ctx context.Context) ([]string, error)
	DeleteCollection(ctx context.Context, name string) error

	Whoami(ctx context.Context) (Whoami, error)
}

// DataPlane reads and writes the vectors of one index. Vectors reaching a
// DataPlane are already normalized.
type DataPlane interface {
	// Upsert returns the number of vectors the store accepted.
	Upsert(ctx context.Context, namespace string, vectors []records.Vector) (uint32, error)
	Query(ctx context.Context, req QueryRequest) ([]ScoredVector, error)
	Fetch(ctx context.Context, namespace string, ids []string) (map[string]records.Vector, error)
	Update(ctx context.Context, req UpdateRequest) error
	Delete(ctx context.Context, req DeleteRequest) error
	DescribeIndexStats(ctx context.Context, f filter.Expr) (IndexStats, error)
	Close() error
}

// Dialer opens a DataPlane for an index. url is the index endpoint derived
// from the config; implementations may ignore it.
type Dialer interface {
	Dial(ctx context.Context, indexName, url string) (DataPlane, error)
}

// Logger matches the leveled methods of the logger package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Tracer matches the span helpers of the tracer package.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)
	RecordErrorOnSpan(span trace.Span, err error)
	SetAttributes(span trace.Span, attrs map[string]interface{})
}

// Recorder receives client metrics. The metrics package implements it.
type Recorder interface {
	ObserveOperation(operation, outcome string, duration time.Duration)
	IncrementNormalizeFailures(kind string)
	ObservePoll(operation string, res poller.Result)
}
