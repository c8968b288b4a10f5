package buffer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// View is a flat, byte-granular window onto a Source's memory. Its
// metadata never changes after Acquire. Writes go straight to the backing
// memory and are visible to every other view of the same source.
type View struct {
	mem      Memory
	flags    Flags
	readOnly bool
	metrics  Metrics

	releaseOnce sync.Once
}

var (
	_ io.ReaderAt = (*View)(nil)
	_ io.WriterAt = (*View)(nil)
	_ io.WriterTo = (*View)(nil)
	_ io.Closer   = (*View)(nil)
)

// IsReadOnly reports whether writes through this view are refused
func (v *View) IsReadOnly() bool {
	return v.readOnly
}

// Flags returns the flags the view was acquired with
func (v *View) Flags() Flags {
	return v.flags
}

// Memory returns the region the view wraps
func (v *View) Memory() Memory {
	return v.mem
}

// ItemCount is the number of items, equal to the byte length
func (v *View) ItemCount() int {
	return len(v.mem.data)
}

// ItemSize is always 1
func (v *View) ItemSize() int {
	return 1
}

// NumDims is always 1
func (v *View) NumDims() int {
	return 1
}

// Offset is always 0
func (v *View) Offset() int {
	return 0
}

// Shape is absent: the layout is flat with unit stride.
func (v *View) Shape() ([]int, bool) {
	return nil, false
}

// Strides is absent.
func (v *View) Strides() ([]int, bool) {
	return nil, false
}

// SubOffsets is absent.
func (v *View) SubOffsets() ([]int, bool) {
	return nil, false
}

// Format returns "B" (unsigned byte) when FlagFormat was requested.
func (v *View) Format() (string, bool) {
	if v.flags.Has(FlagFormat) {
		return "B", true
	}
	return "", false
}

// Len returns the byte length
func (v *View) Len() int {
	return len(v.mem.data)
}

// At returns the byte at i
func (v *View) At(i int) (byte, error) {
	if i < 0 || i >= len(v.mem.data) {
		return 0, fmt.Errorf("%w: %d (length %d)", ErrOutOfRange, i, len(v.mem.data))
	}
	return v.mem.data[i], nil
}

// ReadAt implements io.ReaderAt
func (v *View) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, off)
	}
	if off >= int64(len(v.mem.data)) {
		return 0, io.EOF
	}
	n := copy(p, v.mem.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// CopyTo copies min(len(dst), Len()) bytes into dst
func (v *View) CopyTo(dst []byte) int {
	return copy(dst, v.mem.data)
}

// Bytes returns a copy of the viewed bytes
func (v *View) Bytes() []byte {
	return bytes.Clone(v.mem.data)
}

// NewReader returns a reader over the viewed bytes
func (v *View) NewReader() *bytes.Reader {
	return bytes.NewReader(v.mem.data)
}

// WriteTo implements io.WriterTo
func (v *View) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(v.mem.data)
	return int64(n), err
}

// Checksum returns the xxhash64 of the viewed bytes
func (v *View) Checksum() uint64 {
	return xxhash.Sum64(v.mem.data)
}

// Writable returns the backing slice of a writable view.
func (v *View) Writable() ([]byte, error) {
	if err := v.checkWritable("writable span"); err != nil {
		return nil, err
	}
	return v.mem.data, nil
}

// WriteAt implements io.WriterAt. The region cannot grow, so a write that
// would run past the end is refused without copying anything.
func (v *View) WriteAt(p []byte, off int64) (int, error) {
	if err := v.checkWritable("write"); err != nil {
		return 0, err
	}
	if off < 0 || off+int64(len(p)) > int64(len(v.mem.data)) {
		return 0, fmt.Errorf("%w: write of %d bytes at %d (length %d)", ErrOutOfRange, len(p), off, len(v.mem.data))
	}
	return copy(v.mem.data[off:], p), nil
}

// SetAt stores b at i
func (v *View) SetAt(i int, b byte) error {
	if err := v.checkWritable("set"); err != nil {
		return err
	}
	if i < 0 || i >= len(v.mem.data) {
		return fmt.Errorf("%w: %d (length %d)", ErrOutOfRange, i, len(v.mem.data))
	}
	v.mem.data[i] = b
	return nil
}

// Release ends the scoped acquisition. Nothing is pinned, so it only
// records the release; calling it again is a no-op.
func (v *View) Release() error {
	v.releaseOnce.Do(func() {
		v.metrics.RecordRelease(context.Background())
	})
	return nil
}

// Close is Release
func (v *View) Close() error {
	return v.Release()
}

// checkWritable guards every write path. Acquire never hands a read-only
// view to a caller that asked to write, so this only trips on misuse.
func (v *View) checkWritable(op string) error {
	if !v.readOnly && v.mem.mutable {
		return nil
	}
	v.metrics.RecordInvalidOperation(context.Background(), op)
	return &InvalidOperationError{Op: op}
}
