package protoval

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KevoDB/interop/pkg/untyped"
)

// List exposes a *structpb.ListValue as an untyped.List. The ListValue is
// borrowed; writes through the List are visible to other holders of it.
type List struct {
	lv       *structpb.ListValue
	readOnly bool
}

// NewList wraps lv. A nil lv starts a new empty list.
func NewList(lv *structpb.ListValue) *List {
	if lv == nil {
		lv = &structpb.ListValue{}
	}
	return &List{lv: lv}
}

// Freeze makes the list read-only and returns it
func (l *List) Freeze() *List {
	l.readOnly = true
	return l
}

// Proto returns the wrapped message
func (l *List) Proto() *structpb.ListValue {
	return l.lv
}

func (l *List) Len() int {
	return len(l.lv.Values)
}

func (l *List) Get(index int) (any, error) {
	if err := l.checkIndex(index, len(l.lv.Values)); err != nil {
		return nil, err
	}
	return fromValue(l.lv.Values[index]), nil
}

func (l *List) Set(index int, value any) error {
	if l.readOnly {
		return untyped.ErrReadOnly
	}
	if err := l.checkIndex(index, len(l.lv.Values)); err != nil {
		return err
	}
	pv, err := toValue(value)
	if err != nil {
		return err
	}
	l.lv.Values[index] = pv
	return nil
}

func (l *List) Insert(index int, value any) error {
	if l.readOnly {
		return untyped.ErrReadOnly
	}
	if err := l.checkIndex(index, len(l.lv.Values)+1); err != nil {
		return err
	}
	pv, err := toValue(value)
	if err != nil {
		return err
	}
	vals := append(l.lv.Values, nil)
	copy(vals[index+1:], vals[index:])
	vals[index] = pv
	l.lv.Values = vals
	return nil
}

func (l *List) RemoveAt(index int) error {
	if l.readOnly {
		return untyped.ErrReadOnly
	}
	if err := l.checkIndex(index, len(l.lv.Values)); err != nil {
		return err
	}
	vals := l.lv.Values
	copy(vals[index:], vals[index+1:])
	vals[len(vals)-1] = nil
	l.lv.Values = vals[:len(vals)-1]
	return nil
}

func (l *List) Append(value any) error {
	if l.readOnly {
		return untyped.ErrReadOnly
	}
	pv, err := toValue(value)
	if err != nil {
		return err
	}
	l.lv.Values = append(l.lv.Values, pv)
	return nil
}

func (l *List) Remove(value any) (bool, error) {
	if l.readOnly {
		return false, untyped.ErrReadOnly
	}
	idx := l.IndexOf(value)
	if idx < 0 {
		return false, nil
	}
	return true, l.RemoveAt(idx)
}

func (l *List) Clear() error {
	if l.readOnly {
		return untyped.ErrReadOnly
	}
	l.lv.Values = nil
	return nil
}

func (l *List) IndexOf(value any) int {
	for i, stored := range l.lv.Values {
		if equalValue(stored, value) {
			return i
		}
	}
	return -1
}

func (l *List) Contains(value any) bool {
	return l.IndexOf(value) >= 0
}

func (l *List) IsReadOnly() bool {
	return l.readOnly
}

// Cursor returns a forward-only cursor over the list
func (l *List) Cursor() untyped.Cursor {
	return &listCursor{list: l, pos: -1}
}

func (l *List) checkIndex(index, limit int) error {
	if index < 0 || index >= limit {
		return fmt.Errorf("%w: %d (length %d)", untyped.ErrIndexOutOfRange, index, len(l.lv.Values))
	}
	return nil
}

type listCursor struct {
	list *List
	pos  int
}

func (c *listCursor) Current() any {
	vals := c.list.lv.Values
	if c.pos < 0 || c.pos >= len(vals) {
		return nil
	}
	return fromValue(vals[c.pos])
}

func (c *listCursor) MoveNext() bool {
	if c.pos < len(c.list.lv.Values) {
		c.pos++
	}
	return c.pos < len(c.list.lv.Values)
}

var _ untyped.List = (*List)(nil)
