package core

import "github.com/pkg/errors"

// FieldError pins a message to one input field, eg. "batch_id": "batch is at
// capacity".
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries per-field errors from model Validate methods; the
// API error handler renders it as a 400 field map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

// NewShutdownError flags an unrecoverable condition; the API error handler
// signals a graceful stop when it sees one.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
