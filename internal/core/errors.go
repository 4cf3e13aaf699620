package core

// errors.go defines the error taxonomy the web layer maps to status codes.
//
// ParseError means the caller's input was unusable (malformed CSV, file too
// large, unresolvable columns): the upload is aborted, no partial merge is
// attempted, and the transport layer answers with a 4xx. Everything else is
// an internal failure. Row-level validation failures are not errors at all;
// they are counted and the batch continues.

import (
	"errors"
	"fmt"
)

// ParseError marks an upload as rejected because of bad input rather than an
// internal failure.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// parseErrorf builds a ParseError with a formatted reason.
func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
