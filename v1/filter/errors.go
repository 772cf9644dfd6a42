package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidFilter is matched by every error returned from Parse.
var ErrInvalidFilter = errors.New("invalid filter")

// OperatorError reports an operator the filter language does not define, or
// one used in the wrong position.
type OperatorError struct {
	Field string
	Op    string
}

func (e *OperatorError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid filter: unsupported top-level operator %q", e.Op)
	}
	return fmt.Sprintf("invalid filter: unsupported operator %q for field %q", e.Op, e.Field)
}

func (e *OperatorError) Is(target error) bool { return target == ErrInvalidFilter }

// OperandError reports an operand of the wrong type.
type OperandError struct {
	Field    string
	Op       Operator
	Expected string
}

func (e *OperandError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("invalid filter: field %q expects %s", e.Field, e.Expected)
	}
	if e.Field == "" {
		return fmt.Sprintf("invalid filter: operator %s expects %s", e.Op, e.Expected)
	}
	return fmt.Sprintf("invalid filter: operator %s on field %q expects %s", e.Op, e.Field, e.Expected)
}

func (e *OperandError) Is(target error) bool { return target == ErrInvalidFilter }
