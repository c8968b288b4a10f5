package buffer

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrNotWritable is wrapped by BufferNotWritableError
	ErrNotWritable = errors.New("buffer not writable")

	// ErrReadOnlyView is wrapped by InvalidOperationError
	ErrReadOnlyView = errors.New("view is read-only")

	// ErrOutOfRange is returned for offsets outside the view
	ErrOutOfRange = errors.New("offset out of range")

	// ErrUnknownCodec is returned when an unsupported compression codec is specified
	ErrUnknownCodec = errors.New("unknown compression codec")

	// ErrInvalidCompressedData is returned when compressed data cannot be decompressed
	ErrInvalidCompressedData = errors.New("invalid compressed data")

	// ErrCompressorClosed is returned after Close
	ErrCompressorClosed = errors.New("compressor is closed")
)

// BufferNotWritableError rejects a writable acquisition over read-only memory.
type BufferNotWritableError struct {
	Requested Flags
	Len       int
}

func (e *BufferNotWritableError) Error() string {
	return fmt.Sprintf("buffer not writable: %s request over %d bytes of read-only memory", e.Requested, e.Len)
}

func (e *BufferNotWritableError) Unwrap() error {
	return ErrNotWritable
}

// GRPCStatus maps the rejection to FailedPrecondition.
func (e *BufferNotWritableError) GRPCStatus() *status.Status {
	return status.New(codes.FailedPrecondition, e.Error())
}

// InvalidOperationError reports a write attempted through a read-only view.
type InvalidOperationError struct {
	Op string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation: %s: %v", e.Op, ErrReadOnlyView)
}

func (e *InvalidOperationError) Unwrap() error {
	return ErrReadOnlyView
}

// GRPCStatus maps the violation to FailedPrecondition.
func (e *InvalidOperationError) GRPCStatus() *status.Status {
	return status.New(codes.FailedPrecondition, e.Error())
}

// IsNotWritable reports whether err is an acquisition rejection.
func IsNotWritable(err error) bool {
	var target *BufferNotWritableError
	return errors.As(err, &target)
}

// IsInvalidOperation reports whether err is a write through a read-only view.
func IsInvalidOperation(err error) bool {
	var target *InvalidOperationError
	return errors.As(err, &target)
}
