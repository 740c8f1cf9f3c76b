package errs

import (
	"errors"
	"fmt"
)

// Common error types for the partner auth service
var (
	// Grant errors
	ErrMissingTokens = errors.New("provider granted an incomplete credential set")
	ErrRefreshFailed = errors.New("refresh token exchange rejected")

	// State payload errors
	ErrDecodeFailed = errors.New("state payload undecodable")

	// Partnership errors
	ErrLinkageFailed = errors.New("partnership linkage failed")

	// Store errors
	ErrPersistenceUnavailable = errors.New("token store unavailable")
	ErrRecordNotFound         = errors.New("record not found")

	// Session errors
	ErrInvalidSession = errors.New("invalid session container")
	ErrStateMismatch  = errors.New("state parameter mismatch")
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
