// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Input errors.
	ErrEmptyCatalog = errors.New("catalog has no priced records")
)

// UserError carries a message meant for the person running the command,
// wrapping the error that caused it.
type UserError struct {
	Err     error
	Message string
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps err with a message for the CLI user.
func NewUserError(message string, err error) error {
	return &UserError{Message: message, Err: err}
}

// UserMessage returns the message of the first UserError in err's chain.
func UserMessage(err error) (string, bool) {
	var ue *UserError
	if !errors.As(err, &ue) {
		return "", false
	}
	return ue.Message, true
}
