package store

import (
	"errors"
	"fmt"
)

// ErrAlreadyExists reports a uniqueness violation (duplicate username or
// contact email). The web layer shows "already exists" instead of the raw
// driver message.
var ErrAlreadyExists = errors.New("already exists")

// ValidationError is a request problem caught before any store call: an
// invalid identifier, an empty insert/update set, or a table without a
// primary key. It is user-facing, never a server fault.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
