package typed

import (
	"io"
	"iter"

	"github.com/KevoDB/interop/pkg/untyped"
)

// IteratorAdapter adapts an untyped.Cursor to a typed forward iterator.
// Elements are converted lazily in Current, so iteration can begin even when
// a later element would fail conversion.
type IteratorAdapter[T any] struct {
	cursor     untyped.Cursor
	opts       *options
	adapter    string
	positioned bool
}

// NewIteratorAdapter creates a new adapter for an untyped cursor
func NewIteratorAdapter[T any](cursor untyped.Cursor, opts ...Option) *IteratorAdapter[T] {
	return newIteratorAdapter[T](cursor, newOptions(opts), AdapterIterator)
}

func newIteratorAdapter[T any](cursor untyped.Cursor, o *options, adapter string) *IteratorAdapter[T] {
	o.metrics.RecordIterate(o.ctx, adapter)
	return &IteratorAdapter[T]{cursor: cursor, opts: o, adapter: adapter}
}

// Next advances the iterator and reports whether an element is available
func (a *IteratorAdapter[T]) Next() bool {
	a.positioned = a.cursor != nil && a.cursor.MoveNext()
	return a.positioned
}

// Current returns the element at the cursor converted to T, or
// ErrNotPositioned when Next has not reported an element
func (a *IteratorAdapter[T]) Current() (T, error) {
	if !a.positioned {
		var zero T
		return zero, ErrNotPositioned
	}
	return convertValue[T](a.opts, a.adapter, a.cursor.Current())
}

// CurrentUntyped returns the element at the cursor without conversion.
// It is nil while the iterator is not positioned.
func (a *IteratorAdapter[T]) CurrentUntyped() any {
	if !a.positioned {
		return nil
	}
	return a.cursor.Current()
}

// Reset returns the iterator to its initial position. Cursors that cannot
// restart produce an *UnsupportedOperationError.
func (a *IteratorAdapter[T]) Reset() error {
	if err := resetCursor(a.opts, a.adapter, a.cursor); err != nil {
		return err
	}
	a.positioned = false
	return nil
}

// Close releases the wrapped cursor if it owns resources
func (a *IteratorAdapter[T]) Close() error {
	return closeCursor(a.cursor)
}

// All yields the remaining elements. A conversion failure is yielded with
// the error and iteration continues unless the consumer stops.
func (a *IteratorAdapter[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for a.Next() {
			if !yield(a.Current()) {
				return
			}
		}
	}
}

func closeCursor(cursor any) error {
	if c, ok := cursor.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
