// Package errs defines the error taxonomy shared by the domain services.
// Validation and authorization errors are raised before any remote call and
// leave state untouched; RemoteError wraps failures of the backing store.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports a local invariant violation.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Constraint)
}

// NotAuthorizedError reports a role-policy denial.
type NotAuthorizedError struct {
	Op string
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("not authorized for %s", e.Op)
}

// ResourceNotFoundError reports a missing referenced entity.
type ResourceNotFoundError struct {
	Resource string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// InsufficientStockError reports a failed sale feasibility check.
type InsufficientStockError struct {
	Item      string
	Required  float64
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %s: need %.3f, have %.3f", e.Item, e.Required, e.Available)
}

// RemoteError wraps a rejection or failure of the remote data service.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// SessionExpiredError is distinct from a plain credential failure; it forces
// a sign-out on the caller's side.
type SessionExpiredError struct{}

func (*SessionExpiredError) Error() string { return "session expired, sign in again" }

// ErrInvalidCredentials is returned on a failed sign-in attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNotAuthenticated is returned when a request carries no usable session
// token. Distinct from SessionExpiredError, which names a token that was
// valid once.
var ErrNotAuthenticated = errors.New("authentication required")

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotAuthorized reports whether err is a NotAuthorizedError.
func IsNotAuthorized(err error) bool {
	var v *NotAuthorizedError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a ResourceNotFoundError.
func IsNotFound(err error) bool {
	var v *ResourceNotFoundError
	return errors.As(err, &v)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var v *InsufficientStockError
	return errors.As(err, &v)
}

// IsSessionExpired reports whether err is a SessionExpiredError.
func IsSessionExpired(err error) bool {
	var v *SessionExpiredError
	return errors.As(err, &v)
}
