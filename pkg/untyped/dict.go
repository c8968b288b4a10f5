package untyped

import "fmt"

type dictEntry struct {
	key   any
	value any
}

// OrderedDict is an in-memory Dict that remembers insertion order.
type OrderedDict struct {
	index    map[any]int
	entries  []dictEntry
	readOnly bool
}

// NewOrderedDict creates an empty dictionary
func NewOrderedDict() *OrderedDict {
	return &OrderedDict{
		index:   make(map[any]int),
		entries: make([]dictEntry, 0, 8),
	}
}

// Freeze makes the dictionary read-only and returns it
func (d *OrderedDict) Freeze() *OrderedDict {
	d.readOnly = true
	return d
}

// Len returns the number of entries
func (d *OrderedDict) Len() int {
	return len(d.entries)
}

// Lookup returns the value under key and whether it exists
func (d *OrderedDict) Lookup(key any) (any, bool, error) {
	if !Hashable(key) {
		return nil, false, unhashable(key)
	}
	pos, ok := d.index[key]
	if !ok {
		return nil, false, nil
	}
	return d.entries[pos].value, true, nil
}

// Get returns the value under key
func (d *OrderedDict) Get(key any) (any, error) {
	v, ok, err := d.Lookup(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return v, nil
}

// Store inserts or replaces the value under key
func (d *OrderedDict) Store(key, value any) error {
	if d.readOnly {
		return ErrReadOnly
	}
	if !Hashable(key) {
		return unhashable(key)
	}
	if pos, ok := d.index[key]; ok {
		d.entries[pos].value = value
		return nil
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, dictEntry{key: key, value: value})
	return nil
}

// Add inserts a new key
func (d *OrderedDict) Add(key, value any) error {
	if d.readOnly {
		return ErrReadOnly
	}
	if !Hashable(key) {
		return unhashable(key)
	}
	if _, ok := d.index[key]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
	}
	return d.Store(key, value)
}

// Delete removes key and reports whether it was present
func (d *OrderedDict) Delete(key any) (bool, error) {
	if d.readOnly {
		return false, ErrReadOnly
	}
	if !Hashable(key) {
		return false, unhashable(key)
	}
	pos, ok := d.index[key]
	if !ok {
		return false, nil
	}

	delete(d.index, key)
	copy(d.entries[pos:], d.entries[pos+1:])
	d.entries[len(d.entries)-1] = dictEntry{}
	d.entries = d.entries[:len(d.entries)-1]

	// Shift positions of the entries after the removed one
	for i := pos; i < len(d.entries); i++ {
		d.index[d.entries[i].key] = i
	}
	return true, nil
}

// ContainsPair reports whether key maps to a value Equal to value
func (d *OrderedDict) ContainsPair(key, value any) (bool, error) {
	stored, ok, err := d.Lookup(key)
	if err != nil || !ok {
		return false, err
	}
	return Equal(stored, value), nil
}

// RemovePair deletes key when it maps to a value Equal to value
func (d *OrderedDict) RemovePair(key, value any) (bool, error) {
	if d.readOnly {
		return false, ErrReadOnly
	}
	ok, err := d.ContainsPair(key, value)
	if err != nil || !ok {
		return false, err
	}
	return d.Delete(key)
}

// ContainsKey reports whether key exists. Unhashable keys are never present.
func (d *OrderedDict) ContainsKey(key any) bool {
	_, ok, err := d.Lookup(key)
	return err == nil && ok
}

// Clear removes every entry
func (d *OrderedDict) Clear() error {
	if d.readOnly {
		return ErrReadOnly
	}
	clear(d.index)
	clear(d.entries)
	d.entries = d.entries[:0]
	return nil
}

// Keys returns the keys in insertion order
func (d *OrderedDict) Keys() []any {
	keys := make([]any, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.key
	}
	return keys
}

// Values returns the values in insertion order
func (d *OrderedDict) Values() []any {
	values := make([]any, len(d.entries))
	for i, e := range d.entries {
		values[i] = e.value
	}
	return values
}

// IsReadOnly reports whether writes are rejected
func (d *OrderedDict) IsReadOnly() bool {
	return d.readOnly
}

// Pairs returns a cursor over the live entries
func (d *OrderedDict) Pairs() PairCursor {
	return &dictCursor{dict: d, pos: -1}
}

// Cursor returns a cursor over the keys, making the dictionary Iterable
func (d *OrderedDict) Cursor() Cursor {
	return &keyCursor{dictCursor{dict: d, pos: -1}}
}

func unhashable(key any) error {
	return fmt.Errorf("%w: %T", ErrUnhashableKey, key)
}

type dictCursor struct {
	dict *OrderedDict
	pos  int
}

func (c *dictCursor) Current() (any, any) {
	if c.pos < 0 || c.pos >= len(c.dict.entries) {
		return nil, nil
	}
	e := c.dict.entries[c.pos]
	return e.key, e.value
}

func (c *dictCursor) MoveNext() bool {
	if c.pos < len(c.dict.entries) {
		c.pos++
	}
	return c.pos < len(c.dict.entries)
}

func (c *dictCursor) Reset() error {
	c.pos = -1
	return nil
}

type keyCursor struct {
	dictCursor
}

func (c *keyCursor) Current() any {
	k, _ := c.dictCursor.Current()
	return k
}

var (
	_ Dict     = (*OrderedDict)(nil)
	_ Iterable = (*OrderedDict)(nil)
	_ Resetter = (*dictCursor)(nil)
	_ Resetter = (*keyCursor)(nil)
)
