package pinecone

import (
	"errors"
	"fmt"

	"github.com/pinecone-io/pinecone-client/v1/metadata"
	"github.com/pinecone-io/pinecone-client/v1/poller"
	"github.com/pinecone-io/pinecone-client/v1/records"
)

// Errors shared with the packages the client is built on, re-exported so
// callers need only this package.
type (
	ArgumentError    = poller.ArgumentError
	TimeoutError     = poller.TimeoutError
	InterruptedError = poller.InterruptedError
)

var (
	ErrInvalidArgument = poller.ErrInvalidArgument
	ErrTimeout         = poller.ErrTimeout
	ErrInterrupted     = poller.ErrInterrupted

	// ErrConnection is matched by every *ConnectionError.
	ErrConnection = errors.New("connection failed")

	// ErrUnsupported is returned by backends for operations they do not model.
	ErrUnsupported = errors.New("operation not supported by this backend")
)

const apiKeyDocsURL = "https://docs.pinecone.io/docs/quickstart#2-get-and-verify-your-pinecone-api-key"

// ConnectionError reports an unreachable control or data plane. Hint names
// the remediation step.
type ConnectionError struct {
	Target string
	Hint   string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("Failed to connect to %s. %s\nUnderlying Error: %v", e.Target, e.Hint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// NewControlPlaneConnectionError wraps a failure to reach the controller.
func NewControlPlaneConnectionError(region string, err error) *ConnectionError {
	return &ConnectionError{
		Target: fmt.Sprintf("Pinecone's controller on region %s", region),
		Hint: "Please verify client configuration: API key, region and project_id. " +
			"See more info: " + apiKeyDocsURL,
		Err: err,
	}
}

// NewIndexConnectionError wraps a failure to reach an index.
func NewIndexConnectionError(index string, err error) *ConnectionError {
	return &ConnectionError{
		Target: fmt.Sprintf("index '%s'", index),
		Hint:   "Please verify that an index with that name exists using `client.ListIndexes()`.",
		Err:    err,
	}
}

// UpsertCountError reports a data plane that accepted fewer vectors than sent.
type UpsertCountError struct {
	Upserted int
	Expected int
}

func (e *UpsertCountError) Error() string {
	return fmt.Sprintf("Failed to upsert all vectors. Upserted %d out of %d vectors", e.Upserted, e.Expected)
}

// IsArgumentError reports whether err is a call-site argument error.
func IsArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsTimeoutError reports whether a lifecycle wait ran out of time.
func IsTimeoutError(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsInterruptedError reports whether a lifecycle wait was cancelled.
func IsInterruptedError(err error) bool {
	return errors.Is(err, ErrInterrupted)
}

// IsConnectionError reports whether err is a *ConnectionError.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsValidationError reports whether an upsert record was rejected.
func IsValidationError(err error) bool {
	return records.IsValidationError(err) || metadata.IsUnsupportedTypeError(err)
}

func argumentError(name, msg string) error {
	return &ArgumentError{Name: name, Msg: msg}
}
