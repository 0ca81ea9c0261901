package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories, services and handlers. Wrap them
// with fmt.Errorf("...: %w") and test with errors.Is or the helpers below.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation indicates the input failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized access")
	// ErrForbidden indicates the caller is authenticated but not allowed.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicate indicates a unique constraint conflict.
	ErrDuplicate = errors.New("duplicate resource")
	// ErrConflict indicates a general state conflict.
	ErrConflict = errors.New("resource conflict")
	// ErrRateLimited indicates the caller exceeded a rate limit.
	ErrRateLimited = errors.New("rate limited")
	// ErrDatabase indicates a general database failure.
	ErrDatabase = errors.New("database error")
	// ErrUpstream indicates an external service answered with a failure.
	ErrUpstream = errors.New("upstream failure")
	// ErrUnavailable indicates a dependency is not configured or not reachable.
	ErrUnavailable = errors.New("service unavailable")
)

// New wraps kind with a caller-facing message.
func New(kind error, format string, args ...interface{}) error {
	return &MessageError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Validation wraps ErrValidation with a caller-facing message.
func Validation(format string, args ...interface{}) error {
	return &MessageError{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// BadRequest wraps ErrBadRequest with a caller-facing message.
func BadRequest(format string, args ...interface{}) error {
	return &MessageError{Kind: ErrBadRequest, Msg: fmt.Sprintf(format, args...)}
}

// MessageError carries a message that is safe to return to API callers.
type MessageError struct {
	Kind error
	Msg  string
}

// Error implements the error interface.
func (e *MessageError) Error() string {
	return e.Msg
}

// Unwrap returns the sentinel kind.
func (e *MessageError) Unwrap() error {
	return e.Kind
}

// PublicMessage returns the caller-facing message of err, if it carries one.
func PublicMessage(err error) (string, bool) {
	var target *MessageError
	if errors.As(err, &target) {
		return target.Msg, true
	}
	return "", false
}

// IsNotFoundError checks if the error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if the error is or wraps ErrValidation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsBadRequestError checks if the error is or wraps ErrBadRequest.
func IsBadRequestError(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// IsUnauthorizedError checks if the error is or wraps ErrUnauthorized.
func IsUnauthorizedError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbiddenError checks if the error is or wraps ErrForbidden.
func IsForbiddenError(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsDuplicateError checks if the error is or wraps ErrDuplicate.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsConflictError checks if the error is or wraps ErrConflict.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsRateLimitedError checks if the error is or wraps ErrRateLimited.
func IsRateLimitedError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsUpstreamError checks if the error is or wraps ErrUpstream.
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsUnavailableError checks if the error is or wraps ErrUnavailable.
func IsUnavailableError(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
