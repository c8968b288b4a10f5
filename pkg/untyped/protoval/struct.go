package protoval

import (
	"fmt"
	"maps"
	"slices"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KevoDB/interop/pkg/untyped"
)

// Struct exposes a *structpb.Struct as an untyped.Dict. Keys must be
// strings; key order is lexical since the message itself is unordered.
type Struct struct {
	s        *structpb.Struct
	readOnly bool
}

// NewStruct wraps s. A nil s starts a new empty struct.
func NewStruct(s *structpb.Struct) *Struct {
	if s == nil {
		s = &structpb.Struct{}
	}
	if s.Fields == nil {
		s.Fields = make(map[string]*structpb.Value)
	}
	return &Struct{s: s}
}

// Freeze makes the struct read-only and returns it
func (d *Struct) Freeze() *Struct {
	d.readOnly = true
	return d
}

// Proto returns the wrapped message
func (d *Struct) Proto() *structpb.Struct {
	return d.s
}

func (d *Struct) Len() int {
	return len(d.s.Fields)
}

func (d *Struct) Lookup(key any) (any, bool, error) {
	k, err := fieldName(key)
	if err != nil {
		return nil, false, err
	}
	v, ok := d.s.Fields[k]
	if !ok {
		return nil, false, nil
	}
	return fromValue(v), true, nil
}

func (d *Struct) Get(key any) (any, error) {
	v, ok, err := d.Lookup(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %v", untyped.ErrKeyNotFound, key)
	}
	return v, nil
}

func (d *Struct) Store(key, value any) error {
	if d.readOnly {
		return untyped.ErrReadOnly
	}
	k, err := fieldName(key)
	if err != nil {
		return err
	}
	pv, err := toValue(value)
	if err != nil {
		return err
	}
	d.s.Fields[k] = pv
	return nil
}

func (d *Struct) Add(key, value any) error {
	if d.readOnly {
		return untyped.ErrReadOnly
	}
	if d.ContainsKey(key) {
		return fmt.Errorf("%w: %v", untyped.ErrDuplicateKey, key)
	}
	return d.Store(key, value)
}

func (d *Struct) Delete(key any) (bool, error) {
	if d.readOnly {
		return false, untyped.ErrReadOnly
	}
	k, err := fieldName(key)
	if err != nil {
		return false, err
	}
	if _, ok := d.s.Fields[k]; !ok {
		return false, nil
	}
	delete(d.s.Fields, k)
	return true, nil
}

// ContainsPair compares the stored field with value using protobuf equality,
// so an int matches the number it was stored as.
func (d *Struct) ContainsPair(key, value any) (bool, error) {
	k, err := fieldName(key)
	if err != nil {
		return false, err
	}
	stored, ok := d.s.Fields[k]
	if !ok {
		return false, nil
	}
	return equalValue(stored, value), nil
}

func (d *Struct) RemovePair(key, value any) (bool, error) {
	if d.readOnly {
		return false, untyped.ErrReadOnly
	}
	ok, err := d.ContainsPair(key, value)
	if err != nil || !ok {
		return false, err
	}
	return d.Delete(key)
}

func (d *Struct) ContainsKey(key any) bool {
	_, ok, err := d.Lookup(key)
	return err == nil && ok
}

func (d *Struct) Clear() error {
	if d.readOnly {
		return untyped.ErrReadOnly
	}
	clear(d.s.Fields)
	return nil
}

func (d *Struct) Keys() []any {
	names := d.sortedNames()
	keys := make([]any, len(names))
	for i, n := range names {
		keys[i] = n
	}
	return keys
}

func (d *Struct) Values() []any {
	names := d.sortedNames()
	values := make([]any, len(names))
	for i, n := range names {
		values[i] = fromValue(d.s.Fields[n])
	}
	return values
}

func (d *Struct) IsReadOnly() bool {
	return d.readOnly
}

// Pairs returns a forward-only cursor over a snapshot of the field names
func (d *Struct) Pairs() untyped.PairCursor {
	return &structCursor{s: d, names: d.sortedNames(), pos: -1}
}

func (d *Struct) sortedNames() []string {
	return slices.Sorted(maps.Keys(d.s.Fields))
}

func fieldName(key any) (string, error) {
	k, ok := key.(string)
	if !ok {
		return "", fmt.Errorf("%w: struct field names must be strings, got %T", untyped.ErrUnhashableKey, key)
	}
	return k, nil
}

type structCursor struct {
	s     *Struct
	names []string
	pos   int
}

func (c *structCursor) Current() (any, any) {
	if c.pos < 0 || c.pos >= len(c.names) {
		return nil, nil
	}
	name := c.names[c.pos]
	return name, fromValue(c.s.s.Fields[name])
}

func (c *structCursor) MoveNext() bool {
	if c.pos < len(c.names) {
		c.pos++
	}
	return c.pos < len(c.names)
}

var _ untyped.Dict = (*Struct)(nil)
