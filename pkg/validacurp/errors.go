package validacurp

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports a missing token or an unsupported API version.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrValidation reports calculation input with a missing field.
	ErrValidation = errors.New("invalid calculation input")
	// ErrAuthentication maps HTTP 401 and 403 answers.
	ErrAuthentication = errors.New("failed authentication")
	// ErrBadRequest maps HTTP 400 answers.
	ErrBadRequest = errors.New("bad request")
	// ErrRequest maps every other unsuccessful answer.
	ErrRequest = errors.New("the request failed")
)

var (
	errTokenNotSet    = fmt.Errorf("%w: the token was not set", ErrConfiguration)
	errInvalidVersion = fmt.Errorf("%w: the version is invalid", ErrConfiguration)
)

// ValidationError names the first required calculation field that was empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("the %s was not set", e.Field)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
