package records

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRecord is matched by every validation error in this package.
var ErrInvalidRecord = errors.New("invalid upsert record")

// MissingKeyError reports a required key absent from a mapping.
type MissingKeyError struct {
	Key      string
	Position int
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("Error in vector number %d: Missing key '%s'", e.Position, e.Key)
}

func (e *MissingKeyError) Is(target error) bool { return target == ErrInvalidRecord }

// WrongTypeError reports a present key whose value has the wrong shape.
type WrongTypeError struct {
	Key      string
	Position int
	Expected string
	Actual   string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("Error in vector number %d: Found unexpected value for '%s'. Expected a %s, found: %s",
		e.Position, e.Key, e.Expected, e.Actual)
}

func (e *WrongTypeError) Is(target error) bool { return target == ErrInvalidRecord }

// ExcessKeysError lists keys outside the recognized set. Keys are sorted.
type ExcessKeysError struct {
	Keys     []string
	Position int
}

func (e *ExcessKeysError) Error() string {
	quoted := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		quoted[i] = "'" + k + "'"
	}
	return fmt.Sprintf("Error in vector number %d: Found unexpected keys: [%s]",
		e.Position, strings.Join(quoted, ", "))
}

func (e *ExcessKeysError) Is(target error) bool { return target == ErrInvalidRecord }

// MetadataError wraps a metadata codec failure.
type MetadataError struct {
	Position int
	Err      error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("Error in vector number %d: %v", e.Position, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

func (e *MetadataError) Is(target error) bool { return target == ErrInvalidRecord }

// UnsupportedRecordError reports input that matches no record shape.
type UnsupportedRecordError struct {
	Position int
	Value    any
}

func (e *UnsupportedRecordError) Error() string {
	return fmt.Sprintf("Error in vector number %d: Found unexpected value: %s.\n"+
		"Allowed types are: Vector; Pair{ID, Values}; Triple{ID, Values, Metadata}; map[string]any",
		e.Position, render(e.Value))
}

func (e *UnsupportedRecordError) Is(target error) bool { return target == ErrInvalidRecord }

// IsValidationError reports whether err came from record validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRecord)
}

// Position extracts the batch position from a validation error.
func Position(err error) (int, bool) {
	var (
		mk *MissingKeyError
		wt *WrongTypeError
		ek *ExcessKeysError
		md *MetadataError
		ur *UnsupportedRecordError
	)
	switch {
	case errors.As(err, &mk):
		return mk.Position, true
	case errors.As(err, &wt):
		return wt.Position, true
	case errors.As(err, &ek):
		return ek.Position, true
	case errors.As(err, &md):
		return md.Position, true
	case errors.As(err, &ur):
		return ur.Position, true
	}
	return 0, false
}

// Kind returns a short label for a validation error, used as a metric label.
func Kind(err error) string {
	var (
		mk *MissingKeyError
		wt *WrongTypeError
		ek *ExcessKeysError
		md *MetadataError
		ur *UnsupportedRecordError
	)
	switch {
	case errors.As(err, &mk):
		return "missing_key"
	case errors.As(err, &wt):
		return "wrong_type"
	case errors.As(err, &ek):
		return "excess_keys"
	case errors.As(err, &md):
		return "metadata"
	case errors.As(err, &ur):
		return "unsupported"
	}
	return "other"
}

// underField prefixes the key labels of a nested validation error with
// field. It is applied once per nesting level.
func underField(field string, err error) error {
	prefix := field + ": "

	var mk *MissingKeyError
	if errors.As(err, &mk) {
		return &MissingKeyError{Key: prefix + mk.Key, Position: mk.Position}
	}

	var wt *WrongTypeError
	if errors.As(err, &wt) {
		return &WrongTypeError{Key: prefix + wt.Key, Position: wt.Position, Expected: wt.Expected, Actual: wt.Actual}
	}

	var ek *ExcessKeysError
	if errors.As(err, &ek) {
		keys := make([]string, len(ek.Keys))
		for i, k := range ek.Keys {
			keys[i] = prefix + k
		}
		return &ExcessKeysError{Keys: keys, Position: ek.Position}
	}

	return err
}

// render produces the debug form of a received value used in messages.
func render(v any) string {
	if v == nil {
		return "None"
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}
