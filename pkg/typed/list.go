package typed

import (
	"fmt"
	"iter"

	"github.com/KevoDB/interop/pkg/untyped"
)

// ListAdapter exposes an untyped.List as a list of T.
type ListAdapter[T any] struct {
	list untyped.List
	opts *options
}

// NewListAdapter creates a typed adapter over list
func NewListAdapter[T any](list untyped.List, opts ...Option) *ListAdapter[T] {
	return &ListAdapter[T]{list: list, opts: newOptions(opts)}
}

// Get returns the element at index converted to T
func (l *ListAdapter[T]) Get(index int) (T, error) {
	v, err := l.list.Get(index)
	if err != nil {
		var zero T
		return zero, err
	}
	return convertValue[T](l.opts, AdapterList, v)
}

// Set stores value at index
func (l *ListAdapter[T]) Set(index int, value T) error {
	return l.list.Set(index, value)
}

// IndexOf returns the position of the first element equal to item, or -1.
// Equality is the backing list's.
func (l *ListAdapter[T]) IndexOf(item T) int {
	return l.list.IndexOf(item)
}

// Contains reports whether the backing list holds an element equal to item
func (l *ListAdapter[T]) Contains(item T) bool {
	return l.list.Contains(item)
}

// Insert places item at index
func (l *ListAdapter[T]) Insert(index int, item T) error {
	return l.list.Insert(index, item)
}

// RemoveAt deletes the element at index
func (l *ListAdapter[T]) RemoveAt(index int) error {
	return l.list.RemoveAt(index)
}

// Add appends item
func (l *ListAdapter[T]) Add(item T) error {
	return l.list.Append(item)
}

// Remove deletes the first element equal to item and reports whether one was found
func (l *ListAdapter[T]) Remove(item T) (bool, error) {
	return l.list.Remove(item)
}

// Clear removes every element
func (l *ListAdapter[T]) Clear() error {
	return l.list.Clear()
}

// Len returns the number of elements in the backing list
func (l *ListAdapter[T]) Len() int {
	return l.list.Len()
}

// IsReadOnly mirrors the backing list
func (l *ListAdapter[T]) IsReadOnly() bool {
	return l.list.IsReadOnly()
}

// CopyTo converts every element into dst starting at start.
//
// The copy is not transactional: when element k fails conversion, the
// elements before k have already been written to dst.
func (l *ListAdapter[T]) CopyTo(dst []T, start int) error {
	n := l.list.Len()
	if start < 0 || start > len(dst) || len(dst)-start < n {
		return fmt.Errorf("%w: destination of length %d cannot hold %d elements at %d",
			untyped.ErrIndexOutOfRange, len(dst), n, start)
	}

	for i := 0; i < n; i++ {
		v, err := l.Get(i)
		if err != nil {
			return fmt.Errorf("copying element %d: %w", i, err)
		}
		dst[start+i] = v
	}
	return nil
}

// ToSlice converts every element into a new slice
func (l *ListAdapter[T]) ToSlice() ([]T, error) {
	out := make([]T, l.list.Len())
	if err := l.CopyTo(out, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// Iterate returns a lazily converting iterator over the list
func (l *ListAdapter[T]) Iterate() *IteratorAdapter[T] {
	return newIteratorAdapter[T](l.list.Cursor(), l.opts, AdapterList)
}

// All yields every element from a fresh iterator
func (l *ListAdapter[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := l.Iterate()
		defer it.Close()
		it.All()(yield)
	}
}

// Untyped returns the backing list
func (l *ListAdapter[T]) Untyped() untyped.List {
	return l.list
}
