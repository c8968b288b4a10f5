package typed

import (
	"iter"

	"github.com/KevoDB/interop/pkg/untyped"
)

// SequenceView exposes an untyped.Iterable as a restartable typed sequence.
// It holds nothing but the source: every Iterate call opens a new cursor, so
// iterators never share position.
type SequenceView[T any] struct {
	src  untyped.Iterable
	opts *options
}

// NewSequenceView creates a typed view over src
func NewSequenceView[T any](src untyped.Iterable, opts ...Option) *SequenceView[T] {
	return &SequenceView[T]{src: src, opts: newOptions(opts)}
}

// Iterate returns a fresh iterator positioned before the first element
func (v *SequenceView[T]) Iterate() *IteratorAdapter[T] {
	return newIteratorAdapter[T](v.src.Cursor(), v.opts, AdapterSequence)
}

// All yields every element from a fresh iterator, closing it afterwards
func (v *SequenceView[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := v.Iterate()
		defer it.Close()
		it.All()(yield)
	}
}
