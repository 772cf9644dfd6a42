package poller

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is matched by every *ArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTimeout is matched by every *TimeoutError.
	ErrTimeout = errors.New("operation timed out")

	// ErrInterrupted is matched by every *InterruptedError.
	ErrInterrupted = errors.New("operation interrupted")
)

// ArgumentError reports a malformed call-site argument. It is raised before
// any remote call is issued.
type ArgumentError struct {
	Name  string
	Found string
	Msg   string
}

func (e *ArgumentError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("Invalid value for argument %s: %q", e.Name, e.Found)
}

func (e *ArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// TimeoutError is returned when the target state was not reached in time.
type TimeoutError struct {
	Resource string
	Action   string
	Hint     string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %s timed out. Please call %s to check status.", e.Resource, e.Action, e.Hint)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// InterruptedError is returned when the wait was cancelled. The remote
// operation may or may not have completed.
type InterruptedError struct {
	Resource string
	Hint     string
	Err      error
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("Interrupted. %s status unknown. Please call %s to check status", e.Resource, e.Hint)
}

func (e *InterruptedError) Unwrap() error { return e.Err }

func (e *InterruptedError) Is(target error) bool { return target == ErrInterrupted }

// ValidateTimeout accepts NoWait and any non-negative number of seconds.
func ValidateTimeout(timeout int) error {
	if timeout < NoWait {
		return &ArgumentError{
			Name:  "timeout",
			Found: fmt.Sprint(timeout),
			Msg:   "Timeout must be -1 or a positive integer",
		}
	}
	return nil
}
