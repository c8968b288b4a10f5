package typed

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrUnsupported is the sentinel matched by every *UnsupportedOperationError
	ErrUnsupported = errors.New("unsupported operation")

	// ErrNotPositioned is returned by Current before the first Next or
	// after Next has reported exhaustion
	ErrNotPositioned = errors.New("iterator is not positioned on an element")
)

// UnsupportedOperationError is returned when an adapter is asked for a
// capability its backing source does not have, such as resetting a
// forward-only cursor.
type UnsupportedOperationError struct {
	// Op names the requested capability
	Op string
	// Source is the runtime type of the backing source
	Source string
}

// Error returns the error string
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: %s is not supported by %s", e.Op, e.Source)
}

// Unwrap returns ErrUnsupported
func (e *UnsupportedOperationError) Unwrap() error {
	return ErrUnsupported
}

// GRPCStatus maps the error to codes.Unimplemented
func (e *UnsupportedOperationError) GRPCStatus() *status.Status {
	return status.New(codes.Unimplemented, e.Error())
}

// IsUnsupported reports whether err is or wraps an *UnsupportedOperationError
func IsUnsupported(err error) bool {
	var target *UnsupportedOperationError
	return errors.As(err, &target)
}
