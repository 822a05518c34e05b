package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// InvariantViolationError names the lifecycle invariant an attempted
// transition would break. State is left unchanged when it is returned.
type InvariantViolationError struct {
	Invariant string
}

func (e *InvariantViolationError) Error() string {
	return "invariant violation: " + e.Invariant
}

// NewInvariantViolation builds an InvariantViolationError from a format string.
func NewInvariantViolation(format string, args ...any) *InvariantViolationError {
	return &InvariantViolationError{Invariant: fmt.Sprintf(format, args...)}
}

// IsInvariantViolation reports whether err is an invariant violation.
func IsInvariantViolation(err error) bool {
	var target *InvariantViolationError
	return errors.As(err, &target)
}

// AdapterUnavailableError signals a third-party timeout or 5xx. The
// reconciler absorbs it: the transition is recorded but not advanced.
type AdapterUnavailableError struct {
	Provider string
	Err      error
}

func (e *AdapterUnavailableError) Error() string {
	return e.Provider + " unavailable: " + e.Err.Error()
}

func (e *AdapterUnavailableError) Unwrap() error {
	return e.Err
}

// NewAdapterUnavailable wraps err as downtime of the named provider.
func NewAdapterUnavailable(provider string, err error) *AdapterUnavailableError {
	return &AdapterUnavailableError{Provider: provider, Err: err}
}

// IsAdapterUnavailable reports whether err represents adapter downtime.
func IsAdapterUnavailable(err error) bool {
	var target *AdapterUnavailableError
	return errors.As(err, &target)
}
