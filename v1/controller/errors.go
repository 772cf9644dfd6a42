package controller

import (
	"errors"
	"fmt"
)

// ErrParse is returned when a 2xx response body cannot be decoded into the
// expected shape.
var ErrParse = errors.New("Failed to parse response contents")

// OperationError is a non-2xx response from the controller or an index.
// Body holds the raw response text.
type OperationError struct {
	StatusCode int
	Body       string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("Operation failed with error code %d. \nUnderlying Error: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 OperationError.
func IsNotFound(err error) bool {
	var op *OperationError
	return errors.As(err, &op) && op.StatusCode == 404
}

func parseError(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrParse, what, err)
}

var errMissingFields = errors.New("missing name or dimension")
