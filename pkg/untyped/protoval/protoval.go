// Package protoval adapts protobuf's dynamically typed structpb values to
// the untyped collection contracts.
//
// Reads surface the plain Go form produced by structpb's AsInterface, so all
// numbers come back as float64. Writes go through structpb.NewValue and fail
// with untyped.ErrUnrepresentable when a value has no protobuf form.
// Cursors are forward-only and do not support Reset.
package protoval

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KevoDB/interop/pkg/untyped"
)

// Parse decodes a JSON document into a structpb value
func Parse(data []byte) (*structpb.Value, error) {
	var v structpb.Value
	if err := protojson.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &v, nil
}

// Marshal encodes a structpb value as JSON
func Marshal(v *structpb.Value) ([]byte, error) {
	return protojson.Marshal(v)
}

// ListValue snapshots any untyped list as a structpb list value.
// A protoval List is returned as-is without copying.
func ListValue(l untyped.List) (*structpb.Value, error) {
	if pl, ok := l.(*List); ok {
		return structpb.NewListValue(pl.Proto()), nil
	}
	lv := &structpb.ListValue{Values: make([]*structpb.Value, 0, l.Len())}
	for i := 0; i < l.Len(); i++ {
		item, err := l.Get(i)
		if err != nil {
			return nil, err
		}
		pv, err := toValue(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		lv.Values = append(lv.Values, pv)
	}
	return structpb.NewListValue(lv), nil
}

// StructValue snapshots any untyped dictionary as a structpb struct value.
// Keys must be strings.
func StructValue(d untyped.Dict) (*structpb.Value, error) {
	if ps, ok := d.(*Struct); ok {
		return structpb.NewStructValue(ps.Proto()), nil
	}
	st := &structpb.Struct{Fields: make(map[string]*structpb.Value, d.Len())}
	for _, key := range d.Keys() {
		name, err := fieldName(key)
		if err != nil {
			return nil, err
		}
		v, err := d.Get(key)
		if err != nil {
			return nil, err
		}
		pv, err := toValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		st.Fields[name] = pv
	}
	return structpb.NewStructValue(st), nil
}

func toValue(v any) (*structpb.Value, error) {
	if pv, ok := v.(*structpb.Value); ok {
		return pv, nil
	}
	pv, err := structpb.NewValue(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", untyped.ErrUnrepresentable, err)
	}
	return pv, nil
}

func fromValue(v *structpb.Value) any {
	if v == nil {
		return nil
	}
	return v.AsInterface()
}

// equalValue compares a stored value with a Go value using protobuf equality
func equalValue(stored *structpb.Value, v any) bool {
	pv, err := toValue(v)
	if err != nil {
		return false
	}
	return proto.Equal(stored, pv)
}
