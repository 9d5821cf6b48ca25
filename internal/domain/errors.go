package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ErrInvalidCredentials is returned when an admin login does not match the
// configured identity.
var ErrInvalidCredentials = errors.New("Invalid credentials")

// AuthorizationError is a denied authorization decision.
type AuthorizationError struct {
	Reason DenyReason
}

func (e *AuthorizationError) Error() string {
	if e.Reason == DenyForbidden {
		return "Forbidden"
	}
	return "Unauthorized"
}

// StoreError wraps a failure reported by the external store. Its message is
// the underlying store message so callers can surface it unchanged.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Op + ": store failure"
	}
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ValidationError is malformed input rejected before any store call.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// IsUnauthenticated reports whether err is an authorization denial for a
// caller without any session.
func IsUnauthenticated(err error) bool {
	var authErr *AuthorizationError
	return errors.As(err, &authErr) && authErr.Reason == DenyUnauthenticated
}

// IsForbidden reports whether err is an authorization denial for a known
// caller lacking rights.
func IsForbidden(err error) bool {
	var authErr *AuthorizationError
	return errors.As(err, &authErr) && authErr.Reason == DenyForbidden
}
