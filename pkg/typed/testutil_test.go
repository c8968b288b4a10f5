package typed

import "github.com/KevoDB/interop/pkg/untyped"

// forwardCursor walks items once and records Close calls.
type forwardCursor struct {
	items  []any
	pos    int
	closed int
}

func newForwardCursor(items ...any) *forwardCursor {
	return &forwardCursor{items: items, pos: -1}
}

func (c *forwardCursor) Current() any {
	if c.pos < 0 || c.pos >= len(c.items) {
		return nil
	}
	return c.items[c.pos]
}

func (c *forwardCursor) MoveNext() bool {
	if c.pos < len(c.items) {
		c.pos++
	}
	return c.pos < len(c.items)
}

func (c *forwardCursor) Close() error {
	c.closed++
	return nil
}

// countingIterable counts how many cursors were opened.
type countingIterable struct {
	list   *untyped.SliceList
	opened int
}

func (c *countingIterable) Cursor() untyped.Cursor {
	c.opened++
	return c.list.Cursor()
}
