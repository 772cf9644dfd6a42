package metadata

import (
	"errors"
	"fmt"
)

// SupportedTypesURL documents the metadata types accepted by the store.
const SupportedTypesURL = "https://docs.pinecone.io/docs/metadata-filtering#supported-metadata-types"

const (
	listSuffix = " value in a list"
	dictSuffix = " value in a dict"
)

// ErrUnsupportedType is matched by every metadata conversion error.
var ErrUnsupportedType = errors.New("unsupported metadata type")

// ValueError reports a value that has no metadata representation.
// ValType is the offending type label, extended with one suffix per
// enclosing list.
type ValueError struct {
	ValType string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("Unsupported metadata value (see %s for allowed metadata types): %s",
		SupportedTypesURL, e.ValType)
}

func (e *ValueError) Is(target error) bool { return target == ErrUnsupportedType }

// KeyError is a ValueError located under a map key. Key holds the path from
// the outermost map, joined with ": ".
type KeyError struct {
	Key     string
	ValType string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("Unsupported metadata value for key %q (see %s for allowed metadata types): found value of type %s",
		e.Key, SupportedTypesURL, e.ValType)
}

func (e *KeyError) Is(target error) bool { return target == ErrUnsupportedType }

// IsUnsupportedTypeError reports whether err is a metadata conversion error.
func IsUnsupportedTypeError(err error) bool {
	return errors.Is(err, ErrUnsupportedType)
}

// inList adds one level of list context to err.
func inList(err error) error {
	return nest(err, listSuffix, "")
}

// inDict adds one level of map context to err, recording key.
func inDict(key string, err error) error {
	return nest(err, dictSuffix, key)
}

// atKey attaches a top-level struct key to err without a type suffix.
func atKey(key string, err error) error {
	return nest(err, "", key)
}

// nest is the single place nesting context is applied. It appends suffix to
// the type label and, when key is set, prepends it to the key path.
func nest(err error, suffix, key string) error {
	var ke *KeyError
	if errors.As(err, &ke) {
		path := ke.Key
		if key != "" {
			path = key + ": " + ke.Key
		}
		return &KeyError{Key: path, ValType: ke.ValType + suffix}
	}

	var ve *ValueError
	if errors.As(err, &ve) {
		if key == "" {
			return &ValueError{ValType: ve.ValType + suffix}
		}
		return &KeyError{Key: key, ValType: ve.ValType + suffix}
	}

	return err
}
