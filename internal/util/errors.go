// Package util provides common utilities for repoctl.
package util

import (
	"errors"
	"fmt"
)

// Common error types for repoctl.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotConfigured   = errors.New("not configured")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// InvalidArgument returns an error wrapping ErrInvalidArgument with msg.
func InvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted context.
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// IsInvalidArgument reports whether err was caused by a rejected argument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsNotConfigured reports whether err was caused by missing remote state.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
