// Package untyped defines the dynamically typed collections the typed
// adapters consume, along with in-memory reference implementations.
//
// Elements are stored as opaque any values whose type is only known at the
// point where a typed consumer reads them. Stores in this package accept
// values of any type on every write path.
package untyped

import "reflect"

// Cursor is a forward-only position over an untyped source. A new cursor is
// positioned before the first element; MoveNext must be called before Current.
type Cursor interface {
	// Current returns the element at the cursor, or nil when not positioned
	Current() any

	// MoveNext advances the cursor and reports whether an element is available
	MoveNext() bool
}

// PairCursor is a forward-only position over the key/value pairs of a Dict.
type PairCursor interface {
	// Current returns the pair at the cursor
	Current() (key, value any)

	// MoveNext advances the cursor and reports whether a pair is available
	MoveNext() bool
}

// Resetter is implemented by cursors that can return to their initial
// position. Cursors that cannot restart simply do not implement it.
type Resetter interface {
	Reset() error
}

// Iterable produces independent cursors over a source.
type Iterable interface {
	Cursor() Cursor
}

// List is a mutable, index-addressable ordered collection of untyped values.
type List interface {
	Iterable

	Len() int
	Get(index int) (any, error)
	Set(index int, value any) error
	Insert(index int, value any) error
	RemoveAt(index int) error
	Append(value any) error
	// Remove deletes the first element equal to value and reports whether one was found
	Remove(value any) (bool, error)
	Clear() error
	// IndexOf returns the position of the first element equal to value, or -1
	IndexOf(value any) int
	Contains(value any) bool
	IsReadOnly() bool
}

// Dict is a mutable key/value collection of untyped keys and values.
type Dict interface {
	Len() int
	// Lookup returns the value stored under key and whether it was present
	Lookup(key any) (any, bool, error)
	// Get returns the value stored under key or an error wrapping ErrKeyNotFound
	Get(key any) (any, error)
	// Store inserts or replaces the value under key
	Store(key, value any) error
	// Add inserts a new key, failing with ErrDuplicateKey if it exists
	Add(key, value any) error
	// Delete removes key and reports whether it was present
	Delete(key any) (bool, error)
	// ContainsPair reports whether key is present with a value equal to
	// value under the store's own equality
	ContainsPair(key, value any) (bool, error)
	// RemovePair deletes key only when it maps to an equal value
	RemovePair(key, value any) (bool, error)
	ContainsKey(key any) bool
	Clear() error
	Keys() []any
	Values() []any
	Pairs() PairCursor
	IsReadOnly() bool
}

// Equal is the element equality used by the in-memory stores. Comparable
// values of the same dynamic type compare with ==, everything else is
// compared structurally.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if reflect.ValueOf(a).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// Hashable reports whether key can be used as a Dict key.
func Hashable(key any) bool {
	if key == nil {
		return true
	}
	return reflect.ValueOf(key).Comparable()
}
