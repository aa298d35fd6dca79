package manifest

import (
	"errors"
	"fmt"
)

// Error classes returned by the loader and keying. Messages of the typed
// errors are matched by substring downstream and must not change.
var (
	// ErrParse indicates malformed YAML or JSON input.
	ErrParse = errors.New("parse error")

	// ErrMissingField indicates a document lacks kind, metadata or metadata.name.
	ErrMissingField = errors.New("missing field")

	// ErrDuplicateKey indicates two documents share a kind and name.
	ErrDuplicateKey = errors.New("duplicate key")
)

// ParseError wraps a decoder failure with the index of the document it hit.
type ParseError struct {
	Document int
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse document %d: %v", e.Document, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Field names reported by MissingFieldError.
const (
	FieldKind     = "kind"
	FieldMetadata = "metadata"
	FieldName     = "metadata.name"
)

// MissingFieldError reports the first structural check a document failed.
type MissingFieldError struct {
	Field    string
	Document int
}

func (e *MissingFieldError) Error() string {
	var msg string
	switch e.Field {
	case FieldKind:
		msg = "No kind attribute for keyed object"
	case FieldMetadata:
		msg = "No metadata attribute for keyed object"
	default:
		msg = "No name attribute in metadata for keyed object"
	}
	return fmt.Sprintf("%s (document %d)", msg, e.Document)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// DuplicateKeyError reports a second document with an existing key.
type DuplicateKeyError struct {
	Key Key
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("Duplicate element %s in list", e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }
