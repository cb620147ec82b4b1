package errors

import (
	"errors"
	"fmt"
)

// Common error types for the clinic gateway
var (
	// Session errors
	ErrNoToken      = errors.New("no token persisted")
	ErrInvalidToken = errors.New("invalid token")

	// Claims errors
	ErrNoInstitution = errors.New("institution could not be determined from token")
	ErrNoUser        = errors.New("user could not be determined from token")

	// Request errors
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidResponse = errors.New("invalid response")

	// Dev backend errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
