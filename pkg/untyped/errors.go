package untyped

import "errors"

var (
	// ErrIndexOutOfRange is returned when an index falls outside the collection
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrReadOnly is returned when a write is attempted on a read-only collection
	ErrReadOnly = errors.New("collection is read-only")

	// ErrKeyNotFound is returned when a key does not exist
	ErrKeyNotFound = errors.New("key not found")

	// ErrDuplicateKey is returned when Add targets an existing key
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnhashableKey is returned when a key cannot be used for lookup
	ErrUnhashableKey = errors.New("unhashable key")

	// ErrUnrepresentable is returned when a store cannot hold the given value
	ErrUnrepresentable = errors.New("value not representable")
)
