package untyped

import "fmt"

// SliceList is an in-memory List backed by a []any.
type SliceList struct {
	items    []any
	readOnly bool
}

// NewSliceList creates a list holding items. The list takes ownership of the
// slice passed in.
func NewSliceList(items ...any) *SliceList {
	if items == nil {
		items = make([]any, 0, 8)
	}
	return &SliceList{items: items}
}

// Freeze makes the list read-only and returns it
func (l *SliceList) Freeze() *SliceList {
	l.readOnly = true
	return l
}

// Len returns the number of elements
func (l *SliceList) Len() int {
	return len(l.items)
}

// Get returns the element at index
func (l *SliceList) Get(index int) (any, error) {
	if err := l.checkIndex(index, len(l.items)); err != nil {
		return nil, err
	}
	return l.items[index], nil
}

// Set replaces the element at index
func (l *SliceList) Set(index int, value any) error {
	if l.readOnly {
		return ErrReadOnly
	}
	if err := l.checkIndex(index, len(l.items)); err != nil {
		return err
	}
	l.items[index] = value
	return nil
}

// Insert places value at index, shifting later elements. index may equal Len.
func (l *SliceList) Insert(index int, value any) error {
	if l.readOnly {
		return ErrReadOnly
	}
	if err := l.checkIndex(index, len(l.items)+1); err != nil {
		return err
	}
	l.items = append(l.items, nil)
	copy(l.items[index+1:], l.items[index:])
	l.items[index] = value
	return nil
}

// RemoveAt deletes the element at index
func (l *SliceList) RemoveAt(index int) error {
	if l.readOnly {
		return ErrReadOnly
	}
	if err := l.checkIndex(index, len(l.items)); err != nil {
		return err
	}
	copy(l.items[index:], l.items[index+1:])
	l.items[len(l.items)-1] = nil
	l.items = l.items[:len(l.items)-1]
	return nil
}

// Append adds value at the end
func (l *SliceList) Append(value any) error {
	if l.readOnly {
		return ErrReadOnly
	}
	l.items = append(l.items, value)
	return nil
}

// Remove deletes the first element equal to value
func (l *SliceList) Remove(value any) (bool, error) {
	if l.readOnly {
		return false, ErrReadOnly
	}
	idx := l.IndexOf(value)
	if idx < 0 {
		return false, nil
	}
	return true, l.RemoveAt(idx)
}

// Clear removes every element
func (l *SliceList) Clear() error {
	if l.readOnly {
		return ErrReadOnly
	}
	clear(l.items)
	l.items = l.items[:0]
	return nil
}

// IndexOf returns the position of the first element equal to value, or -1
func (l *SliceList) IndexOf(value any) int {
	for i, item := range l.items {
		if Equal(item, value) {
			return i
		}
	}
	return -1
}

// Contains reports whether an element equal to value is present
func (l *SliceList) Contains(value any) bool {
	return l.IndexOf(value) >= 0
}

// IsReadOnly reports whether writes are rejected
func (l *SliceList) IsReadOnly() bool {
	return l.readOnly
}

// Items returns a copy of the elements
func (l *SliceList) Items() []any {
	out := make([]any, len(l.items))
	copy(out, l.items)
	return out
}

// Cursor returns a new cursor over the live list
func (l *SliceList) Cursor() Cursor {
	return &sliceCursor{list: l, pos: -1}
}

func (l *SliceList) checkIndex(index, limit int) error {
	if index < 0 || index >= limit {
		return fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, index, len(l.items))
	}
	return nil
}

// sliceCursor walks a SliceList by position
type sliceCursor struct {
	list *SliceList
	pos  int
}

func (c *sliceCursor) Current() any {
	if c.pos < 0 || c.pos >= len(c.list.items) {
		return nil
	}
	return c.list.items[c.pos]
}

func (c *sliceCursor) MoveNext() bool {
	if c.pos < len(c.list.items) {
		c.pos++
	}
	return c.pos < len(c.list.items)
}

func (c *sliceCursor) Reset() error {
	c.pos = -1
	return nil
}

var (
	_ List     = (*SliceList)(nil)
	_ Resetter = (*sliceCursor)(nil)
)
