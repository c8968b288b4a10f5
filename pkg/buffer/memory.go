package buffer

import "fmt"

// Memory is a borrowed byte region tagged with its origin. A region built
// with ReadOnlyMemory can never back a writable view; MutableMemory can
// back either kind.
//
// Memory does not copy: the caller keeps ownership of the slice and must
// not resize it while views are outstanding.
type Memory struct {
	data    []byte
	mutable bool
}

// ReadOnlyMemory wraps b as an immutable-origin region.
func ReadOnlyMemory(b []byte) Memory {
	return Memory{data: b}
}

// MutableMemory wraps b as a mutable-capable region.
func MutableMemory(b []byte) Memory {
	return Memory{data: b, mutable: true}
}

// IsMutable reports the origin tag.
func (m Memory) IsMutable() bool {
	return m.mutable
}

// Len returns the region length in bytes.
func (m Memory) Len() int {
	return len(m.data)
}

func (m Memory) String() string {
	kind := "read-only"
	if m.mutable {
		kind = "mutable"
	}
	return fmt.Sprintf("%s memory (%d bytes)", kind, len(m.data))
}
