package dm

import "errors"

// Domain errors for the data model.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, dm.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when an object, instance, or resource
	// instance addressed by a request does not exist.
	ErrNotFound = errors.New("dm: not found")

	// ErrAlreadyExists is returned when creating an instance or
	// registering an object whose identifier is already taken.
	ErrAlreadyExists = errors.New("dm: already exists")

	// ErrMethodNotAllowed is returned when an operation is undefined
	// for the addressed resource (e.g. reading an executable resource
	// or listing sub-instances of a single-instance resource).
	ErrMethodNotAllowed = errors.New("dm: method not allowed")

	// ErrResourceExhausted is returned when an allocation or capacity
	// limit prevents the operation from completing.
	ErrResourceExhausted = errors.New("dm: resource exhausted")

	// ErrBufferOverflow is returned when a value does not fit the
	// fixed capacity of its destination. Values are never silently
	// truncated.
	ErrBufferOverflow = errors.New("dm: buffer overflow")

	// ErrTypeMismatch is returned by the typed read helpers when the
	// stored value has a different kind than requested.
	ErrTypeMismatch = errors.New("dm: value type mismatch")
)
