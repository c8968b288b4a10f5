package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/KevoDB/interop/pkg/typed"
	"github.com/KevoDB/interop/pkg/untyped"
)

// typeOps binds the typed adapters to one element type chosen at runtime.
type typeOps struct {
	get    func(l untyped.List, i int) (any, error)
	each   func(l untyped.List, fn func(i int, v any, err error))
	lookup func(d untyped.Dict, key any) (any, error)
	tryGet func(d untyped.Dict, key any) (any, bool, error)
	values func(d untyped.Dict) ([]any, error)
	pairs  func(d untyped.Dict, fn func(k, v any, err error))
}

func opsFor[T any](opts []typed.Option) typeOps {
	return typeOps{
		get: func(l untyped.List, i int) (any, error) {
			return typed.NewListAdapter[T](l, opts...).Get(i)
		},
		each: func(l untyped.List, fn func(int, any, error)) {
			i := 0
			for v, err := range typed.NewListAdapter[T](l, opts...).All() {
				fn(i, v, err)
				i++
			}
		},
		lookup: func(d untyped.Dict, key any) (any, error) {
			return typed.NewMapAdapter[any, T](d, opts...).Get(key)
		},
		tryGet: func(d untyped.Dict, key any) (any, bool, error) {
			return typed.NewMapAdapter[any, T](d, opts...).TryGet(key)
		},
		values: func(d untyped.Dict) ([]any, error) {
			vs, err := typed.NewMapAdapter[any, T](d, opts...).Values()
			if err != nil {
				return nil, err
			}
			out := make([]any, len(vs))
			for i, v := range vs {
				out[i] = v
			}
			return out, nil
		},
		pairs: func(d untyped.Dict, fn func(any, any, error)) {
			for p, err := range typed.NewMapAdapter[any, T](d, opts...).All() {
				fn(p.Key, p.Value, err)
			}
		},
	}
}

var typeTable = map[string]func([]typed.Option) typeOps{
	"int":    opsFor[int],
	"float":  opsFor[float64],
	"string": opsFor[string],
	"bool":   opsFor[bool],
	"any":    opsFor[any],
}

func lookupType(name string, opts []typed.Option) (typeOps, error) {
	mk, ok := typeTable[strings.ToLower(name)]
	if !ok {
		names := slices.Sorted(maps.Keys(typeTable))
		return typeOps{}, fmt.Errorf("unknown type %q (want one of %s)", name, strings.Join(names, ", "))
	}
	return mk(opts), nil
}
