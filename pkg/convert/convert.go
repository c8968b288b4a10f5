// Package convert performs the checked conversions that happen whenever an
// untyped value crosses into a statically typed consumer.
//
// Every adapter in this module funnels reads through To, so a value either
// arrives as the requested type or the caller receives a *TypeMismatchError
// naming both the expected and the actual runtime type. There is no
// defaulting: a failed conversion is always reported.
package convert

import (
	"reflect"
)

// To converts v to T.
//
// The conversion succeeds when the dynamic value of v is assignable to T. For
// an interface T that means the value implements it. A nil v converts to the
// zero T only when T can hold nil (pointer, interface, slice, map, chan, func).
func To[T any](v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}

	var zero T
	if v == nil && nilable(reflect.TypeFor[T]()) {
		return zero, nil
	}

	return zero, &TypeMismatchError{
		Expected: TypeName[T](),
		Actual:   TypeNameOf(v),
	}
}

// MustTo is like To but panics on a mismatch. Intended for tests and for
// call sites that already validated the value.
func MustTo[T any](v any) T {
	t, err := To[T](v)
	if err != nil {
		panic(err)
	}
	return t
}

// Check reports whether v would convert to T without producing the value.
func Check[T any](v any) error {
	_, err := To[T](v)
	return err
}

// TypeName returns the diagnostic name of T.
func TypeName[T any]() string {
	return typeString(reflect.TypeFor[T]())
}

// TypeNameOf returns the diagnostic name of the dynamic type of v, or "nil".
func TypeNameOf(v any) string {
	if v == nil {
		return "nil"
	}
	return typeString(reflect.TypeOf(v))
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	// "interface {}" reads badly in error messages
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 && t.Name() == "" {
		return "any"
	}
	return t.String()
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
