// Package typed adapts untyped collections to generic, statically typed
// list, map and iterator contracts.
//
// Adapters borrow the collection they wrap and never copy its storage. Reads
// convert each element with convert.To at the moment it is surfaced, so a
// value of the wrong runtime type produces a *convert.TypeMismatchError
// instead of a silent default. Writes are passed through unchecked: the
// backing stores accept any element type.
//
// Naming follows the iterator adapter convention used across this module:
// an adapter type carries the "Adapter" suffix and is built by the matching
// New constructor.
//
//	list := untyped.NewSliceList(1, "x", 3)
//	ints := typed.NewListAdapter[int](list)
//
//	v, err := ints.Get(0) // 1, nil
//	_, err = ints.Get(1)  // *convert.TypeMismatchError{Expected: "int", Actual: "string"}
//
// Nothing here locks. Concurrent mutation of a wrapped collection while an
// adapter or one of its iterators is in use is the caller's responsibility.
package typed
