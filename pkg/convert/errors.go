package convert

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrTypeMismatch is the sentinel matched by every *TypeMismatchError.
var ErrTypeMismatch = errors.New("type mismatch")

// TypeMismatchError is returned when a value read from an untyped source
// cannot be converted to the statically expected type.
type TypeMismatchError struct {
	// Expected is the name of the requested type
	Expected string
	// Actual is the name of the value's runtime type ("nil" for a nil value)
	Actual string
}

// Error returns the error string
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: cannot convert %s to %s", e.Actual, e.Expected)
}

// Unwrap returns ErrTypeMismatch so errors.Is works on wrapped mismatches
func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// GRPCStatus maps the mismatch to codes.InvalidArgument
func (e *TypeMismatchError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// IsTypeMismatch reports whether err is or wraps a *TypeMismatchError.
func IsTypeMismatch(err error) bool {
	var target *TypeMismatchError
	return errors.As(err, &target)
}

// AsTypeMismatch returns err as a *TypeMismatchError, or nil if it is not one.
func AsTypeMismatch(err error) *TypeMismatchError {
	var target *TypeMismatchError
	if errors.As(err, &target) {
		return target
	}
	return nil
}
