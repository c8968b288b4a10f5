package typed

import (
	"fmt"
	"iter"

	"github.com/KevoDB/interop/pkg/untyped"
)

// Pair is a converted key/value pair
type Pair[K, V any] struct {
	Key   K
	Value V
}

// MapAdapter exposes an untyped.Dict as a map from K to V. Keys are passed
// to the backing dictionary as-is; only values read back are converted.
type MapAdapter[K, V any] struct {
	dict untyped.Dict
	opts *options
}

// NewMapAdapter creates a typed adapter over dict
func NewMapAdapter[K, V any](dict untyped.Dict, opts ...Option) *MapAdapter[K, V] {
	return &MapAdapter[K, V]{dict: dict, opts: newOptions(opts)}
}

// Get returns the value under key converted to V. A missing key is an
// error wrapping untyped.ErrKeyNotFound.
func (m *MapAdapter[K, V]) Get(key K) (V, error) {
	raw, err := m.dict.Get(key)
	if err != nil {
		var zero V
		return zero, err
	}
	return convertValue[V](m.opts, AdapterMap, raw)
}

// TryGet looks up key. A missing key reports false with a nil error; a
// present value of the wrong type is still a *convert.TypeMismatchError.
func (m *MapAdapter[K, V]) TryGet(key K) (V, bool, error) {
	var zero V
	raw, ok, err := m.dict.Lookup(key)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := convertValue[V](m.opts, AdapterMap, raw)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Set stores value under key, replacing any existing value
func (m *MapAdapter[K, V]) Set(key K, value V) error {
	return m.dict.Store(key, value)
}

// Add inserts a new key
func (m *MapAdapter[K, V]) Add(key K, value V) error {
	return m.dict.Add(key, value)
}

// ContainsKey reports whether key is present
func (m *MapAdapter[K, V]) ContainsKey(key K) bool {
	return m.dict.ContainsKey(key)
}

// Remove deletes key and reports whether it was present
func (m *MapAdapter[K, V]) Remove(key K) (bool, error) {
	return m.dict.Delete(key)
}

// Clear removes every entry
func (m *MapAdapter[K, V]) Clear() error {
	return m.dict.Clear()
}

// Len returns the number of entries
func (m *MapAdapter[K, V]) Len() int {
	return m.dict.Len()
}

// IsReadOnly mirrors the backing dictionary
func (m *MapAdapter[K, V]) IsReadOnly() bool {
	return m.dict.IsReadOnly()
}

// Keys returns a snapshot of the keys converted to K. Later changes to the
// dictionary do not affect the returned slice.
func (m *MapAdapter[K, V]) Keys() ([]K, error) {
	raw := m.dict.Keys()
	keys := make([]K, len(raw))
	for i, r := range raw {
		k, err := convertValue[K](m.opts, AdapterMap, r)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys[i] = k
	}
	return keys, nil
}

// Values returns a snapshot of the values converted to V
func (m *MapAdapter[K, V]) Values() ([]V, error) {
	raw := m.dict.Values()
	values := make([]V, len(raw))
	for i, r := range raw {
		v, err := convertValue[V](m.opts, AdapterMap, r)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

// AddPair inserts p as a new entry
func (m *MapAdapter[K, V]) AddPair(p Pair[K, V]) error {
	return m.dict.Add(p.Key, p.Value)
}

// ContainsPair reports whether p.Key is present with a value equal to
// p.Value. Equality is the backing dictionary's.
func (m *MapAdapter[K, V]) ContainsPair(p Pair[K, V]) (bool, error) {
	return m.dict.ContainsPair(p.Key, p.Value)
}

// RemovePair deletes p.Key only when it currently maps to p.Value
func (m *MapAdapter[K, V]) RemovePair(p Pair[K, V]) (bool, error) {
	return m.dict.RemovePair(p.Key, p.Value)
}

// CopyTo converts every pair into dst starting at start. Like
// ListAdapter.CopyTo this is best-effort, not transactional.
func (m *MapAdapter[K, V]) CopyTo(dst []Pair[K, V], start int) error {
	n := m.dict.Len()
	if start < 0 || start > len(dst) || len(dst)-start < n {
		return fmt.Errorf("%w: destination of length %d cannot hold %d pairs at %d",
			untyped.ErrIndexOutOfRange, len(dst), n, start)
	}

	i := start
	for p, err := range m.All() {
		if err != nil {
			return err
		}
		dst[i] = p
		i++
	}
	return nil
}

// Iterate returns an iterator over converted pairs
func (m *MapAdapter[K, V]) Iterate() *PairIterator[K, V] {
	m.opts.metrics.RecordIterate(m.opts.ctx, AdapterMap)
	return &PairIterator[K, V]{cursor: m.dict.Pairs(), opts: m.opts}
}

// All yields every pair from a fresh iterator
func (m *MapAdapter[K, V]) All() iter.Seq2[Pair[K, V], error] {
	return func(yield func(Pair[K, V], error) bool) {
		it := m.Iterate()
		defer it.Close()
		for it.Next() {
			if !yield(it.Current()) {
				return
			}
		}
	}
}

// Untyped returns the backing dictionary
func (m *MapAdapter[K, V]) Untyped() untyped.Dict {
	return m.dict
}

// PairIterator adapts an untyped.PairCursor to typed pairs. Key and value
// are converted independently; either failing fails the pair.
type PairIterator[K, V any] struct {
	cursor     untyped.PairCursor
	opts       *options
	positioned bool
}

// Next advances to the next pair
func (it *PairIterator[K, V]) Next() bool {
	it.positioned = it.cursor.MoveNext()
	return it.positioned
}

// Current returns the pair at the cursor, or ErrNotPositioned when Next
// has not reported a pair
func (it *PairIterator[K, V]) Current() (Pair[K, V], error) {
	var p Pair[K, V]
	if !it.positioned {
		return p, ErrNotPositioned
	}
	rawKey, rawValue := it.cursor.Current()
	k, err := convertValue[K](it.opts, AdapterMap, rawKey)
	if err != nil {
		return p, fmt.Errorf("pair key: %w", err)
	}
	v, err := convertValue[V](it.opts, AdapterMap, rawValue)
	if err != nil {
		return p, fmt.Errorf("pair value: %w", err)
	}

	p.Key, p.Value = k, v
	return p, nil
}

// Reset returns the iterator to its initial position
func (it *PairIterator[K, V]) Reset() error {
	if err := resetCursor(it.opts, AdapterMap, it.cursor); err != nil {
		return err
	}
	it.positioned = false
	return nil
}

// Close releases the wrapped cursor if it owns resources
func (it *PairIterator[K, V]) Close() error {
	return closeCursor(it.cursor)
}
