package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrValidation              = errors.New("validation error")
	ErrNotAvailable            = errors.New("booking not available")
	ErrConcurrentUpdate        = errors.New("booking was changed concurrently")
	ErrAlreadyBlocked          = errors.New("date already blocked")
)

// RuleError carries the user-facing reason next to the sentinel a handler maps to a status code.
type RuleError struct {
	Err     error
	Message string
}

func (e *RuleError) Error() string { return e.Message }

func (e *RuleError) Unwrap() error { return e.Err }

func ruleErr(sentinel error, format string, args ...any) error {
	return &RuleError{Err: sentinel, Message: fmt.Sprintf(format, args...)}
}
