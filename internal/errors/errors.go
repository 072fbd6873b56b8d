package errors

import (
	"errors"
	"fmt"
)

// Common error types for the reservation API
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrDuplicateLogin     = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")

	// Token errors
	ErrMissingToken        = errors.New("token is required")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// General errors
	ErrNotFound = errors.New("not found")
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
