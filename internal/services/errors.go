package services

import (
	"errors"
	"fmt"
)

// Sentinel failures surfaced by the domain services. The HTTP layer maps
// each of them to a status code in httputil.
var (
	ErrUnauthenticated    = errors.New("not authorized, no valid token")
	ErrPrincipalNotFound  = errors.New("user belonging to this token no longer exists")
	ErrAccountBlocked     = errors.New("your account has been blocked")
	ErrForbidden          = errors.New("not authorized to perform this action")
	ErrNotFound           = errors.New("not found")
	ErrBadRequest         = errors.New("bad request")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrUserExists         = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// DomainError carries a client-facing message on top of a sentinel kind.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(entity string) error {
	return newError(ErrNotFound, "%s not found", entity)
}

func badRequest(format string, args ...any) error {
	return newError(ErrBadRequest, format, args...)
}

func forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

// ValidationError wraps a request validation failure.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}
	return &DomainError{Kind: ErrValidation, Message: err.Error()}
}
