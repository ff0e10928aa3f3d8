// Sentinel errors for the CyclicDB table engine.
package cyclicdb

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by table operations. Check against these with
// errors.Is; wrapped errors (Io) additionally carry context via errors.As.
var (
	// ErrDetachedRecord is returned when a field-by-name operation is
	// attempted on a record not bound to a schema.
	ErrDetachedRecord = errors.New("cyclicdb: record is not attached to a schema")

	// ErrUnknownField is returned when a field name is not present in a schema.
	ErrUnknownField = errors.New("cyclicdb: unknown field")

	// ErrTimeNotSupported is returned by time operations on a table whose
	// duration is zero.
	ErrTimeNotSupported = errors.New("cyclicdb: table does not support time")

	// ErrTableIsFull is returned by Append once the absolute maximum index
	// has been reached.
	ErrTableIsFull = errors.New("cyclicdb: table is full")

	// ErrInvalidArgument is returned for malformed arguments such as an
	// empty schema, zero capacity, or the sentinel index.
	ErrInvalidArgument = errors.New("cyclicdb: invalid argument")

	// ErrLogicError is returned for operations that are never legal given
	// the table's current state, such as Set on an empty table.
	ErrLogicError = errors.New("cyclicdb: logic error")

	// ErrOutOfRange is returned when an index, position or time falls
	// outside the table's legal bounds.
	ErrOutOfRange = errors.New("cyclicdb: out of range")

	// ErrRangeError reports an internal position/index mismatch. Its
	// presence indicates a bug in the engine, not a caller error.
	ErrRangeError = errors.New("cyclicdb: internal range error")

	// ErrTypeMismatch is returned by a strict Value accessor when the
	// stored variant differs from the requested one.
	ErrTypeMismatch = errors.New("cyclicdb: type mismatch")

	// ErrNoValue is returned by an accessor on a null Value.
	ErrNoValue = errors.New("cyclicdb: no value")

	// ErrBadFormat is returned when a file's magic, version or structure
	// cannot be read as a CyclicDB table.
	ErrBadFormat = errors.New("cyclicdb: bad file format")
)

// IoError wraps a lower-level I/O failure with the operation context in
// which it occurred, wrapped as an Io{kind, context} variant.
type IoError struct {
	Context string
	Err     error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("cyclicdb: io error during %s: %v", e.Context, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// wrapIo wraps err with its operation context, or returns nil if err is nil.
func wrapIo(context string, err error) error {
	if err == nil {
		return nil
	}
	return &IoError{Context: context, Err: err}
}
