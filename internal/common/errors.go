// Package common holds the error values and logger setup shared across tiffin.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors. These are recovered per line and never abort a batch.
	ErrDateParse    = errors.New("unrecognized date")
	ErrMessageParse = errors.New("malformed order message")

	// Payment export errors.
	ErrUnsupportedFormat = errors.New("unsupported payment export format")
	ErrMissingColumn     = errors.New("missing required column")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoInput is returned when a command has nothing to read.
	ErrNoInput = errors.New("no order messages provided")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
