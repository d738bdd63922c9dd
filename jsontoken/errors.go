package jsontoken

import "github.com/pkg/errors"

// EncodingError reports a byte-level malformation of JSON: a bad escape, an
// unexpected byte, a number with more precision than the target width can
// hold in strict mode. It is deterministic, path-tagged, and not locally
// recoverable — see spec.md §7.
type EncodingError struct {
	msg  string
	path string
	Err  error
}

func (e *EncodingError) Error() string {
	if e.path != "" {
		return e.msg + " at " + e.path
	}
	return e.msg
}

func (e *EncodingError) Unwrap() error { return e.Err }

func newEncodingError(path, msg string) error {
	return &EncodingError{msg: msg, path: path}
}

// NewEncodingError is the exported constructor for adapter code outside
// this package that needs to report a byte-level malformation tagged with
// a reader/writer's current path.
func NewEncodingError(path, msg string) error { return newEncodingError(path, msg) }

// DataError reports a schema-level mismatch: expected a string, got a
// number; a duplicate object member name; null where a non-null value was
// required; SkipValue invoked while failOnUnknown is set. Deterministic,
// path-tagged, and may be recovered by the adapter layer (e.g. an "optional"
// adapter can catch it and substitute an absent value). See spec.md §7.
type DataError struct {
	msg  string
	path string
	Err  error
}

func (e *DataError) Error() string {
	if e.path != "" {
		return e.msg + " at " + e.path
	}
	return e.msg
}

func (e *DataError) Unwrap() error { return e.Err }

func newDataError(path, msg string) error {
	return &DataError{msg: msg, path: path}
}

// NewDataError is the exported constructor for adapter code outside this
// package that needs to report a schema-level mismatch tagged with a
// reader/writer's current path.
func NewDataError(path, msg string) error { return newDataError(path, msg) }

func newDataErrorf(path string, cause error, format string, args ...any) error {
	return &DataError{msg: errors.Wrapf(cause, format, args...).Error(), path: path, Err: cause}
}

// wrongTypeError renders the "expected X but was Y at path P" message
// spec.md §4.1 requires from the typed Read* accessors.
func wrongTypeError(path string, want string, got Kind) error {
	return newDataError(path, "Expected "+want+" but was "+got.String())
}
