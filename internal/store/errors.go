package store

import "errors"

var (
	// ErrUnauthenticated is returned when a mutating operation is attempted
	// without an account bound to the collection
	ErrUnauthenticated = errors.New("no authenticated account for operation")

	// ErrNotFound is returned when an update or delete targets a document
	// that does not exist in the collection
	ErrNotFound = errors.New("document not found")

	// ErrUnsupportedOperation is returned when a write is attempted against
	// a read-only projection
	ErrUnsupportedOperation = errors.New("operation not supported on read-only projection")

	// ErrStoreUnavailable is returned when the backing store fails a
	// subscription refresh or a write
	ErrStoreUnavailable = errors.New("backing store unavailable")

	// ErrEncodingFailure is returned when a document body cannot be
	// encoded or decoded
	ErrEncodingFailure = errors.New("document encoding failure")
)
