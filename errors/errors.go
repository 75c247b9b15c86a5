package errors

import (
	stderrors "errors"
	"fmt"
)

// BusinessError is an application error identified by a catalog key rather
// than by its type. The resolver looks Key up in the loaded error catalog.
type BusinessError struct {
	// Key selects the catalog entry, e.g. "USER_NOT_FOUND".
	Key string
	// Cause is the underlying error. It is logged, never sent to clients.
	Cause error
}

// Business creates a BusinessError for the given catalog key.
func Business(key string) *BusinessError {
	return &BusinessError{Key: key}
}

// Error returns the catalog key, plus the cause when present.
func (e *BusinessError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Key, e.Cause)
	}
	return e.Key
}

// Unwrap returns the underlying cause of the error.
func (e *BusinessError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *BusinessError) WithCause(cause error) *BusinessError {
	e.Cause = cause
	return e
}

// IsBusiness reports whether err is or wraps a BusinessError.
func IsBusiness(err error) bool {
	var be *BusinessError
	return stderrors.As(err, &be)
}

// AsBusiness returns the first BusinessError in err's chain.
func AsBusiness(err error) (*BusinessError, bool) {
	var be *BusinessError
	if stderrors.As(err, &be) {
		return be, true
	}
	return nil, false
}
