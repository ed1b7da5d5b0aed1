package store

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates no document exists for the requested id.
var ErrNotFound = errors.New("not found")

// EncodingError indicates a domain object could not be serialized for
// storage. This is a programming-error-class failure: it should not occur
// for well-formed inputs.
type EncodingError struct {
	Entity string
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Entity, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DecodingError indicates stored data does not match the serialization
// contract. The whole read fails; no partial objects are returned.
type DecodingError struct {
	Entity string
	Field  string
	Reason string
}

func (e *DecodingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("decode %s: field %q: %s", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("decode %s: %s", e.Entity, e.Reason)
}

// StorageError indicates the transport to the backing store failed.
// Not retried by this package; callers decide.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
