// Package errors provides the error taxonomy for the verification flow.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes. Each code maps to one recovery strategy in the flow engine.
const (
	// ErrCodeResolution: tenant, credentials or OTP could not be extracted
	// from the message text. Recoverable; re-prompt.
	ErrCodeResolution = "RESOLUTION_FAILURE"
	// ErrCodeValidation: malformed email or missing credential field.
	// Recoverable; re-prompt for the specific field.
	ErrCodeValidation = "VALIDATION_FAILURE"
	// ErrCodeUpstreamAuth: the tenant authentication API rejected or failed
	// the call. Recoverable; session stays in NEED_CREDENTIALS.
	ErrCodeUpstreamAuth = "UPSTREAM_AUTH_ERROR"
	// ErrCodeUpstreamData: the tenant loan API rejected or failed the call.
	// Triggers a session reset that preserves the pending intent.
	ErrCodeUpstreamData = "UPSTREAM_DATA_ERROR"
	// ErrCodeStorage: the state store write failed. The turn fails with a
	// generic retry message and no phase transition is claimed.
	ErrCodeStorage = "STORAGE_ERROR"
	// ErrCodeInternal: anything else.
	ErrCodeInternal = "INTERNAL_ERROR"
)

// Upstream error kinds, shared by the auth and loan call classifications.
const (
	KindInvalidCredentials = "invalid_credentials"
	KindNotFound           = "not_found"
	KindUnauthorized       = "unauthorized"
	KindUnknown            = "unknown"
)

// DomainError is an error with a machine code, an optional upstream kind and
// an HTTP status for the API edge.
type DomainError struct {
	Code       string `json:"code"`
	Kind       string `json:"kind,omitempty"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s/%s: %s", e.Code, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewResolutionFailure reports that structured data could not be pulled from
// free text.
func NewResolutionFailure(what string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeResolution,
		Message:    fmt.Sprintf("could not resolve %s from message", what),
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

// NewValidationFailure reports a malformed or missing credential field.
func NewValidationFailure(field, reason string) *DomainError {
	return &DomainError{
		Code:       ErrCodeValidation,
		Kind:       field,
		Message:    reason,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUpstreamAuthError classifies a failed tenant authentication call.
// Kind is one of KindInvalidCredentials, KindNotFound, KindUnknown.
func NewUpstreamAuthError(kind string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeUpstreamAuth,
		Kind:       kind,
		Message:    "tenant authentication call failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewUpstreamDataError classifies a failed tenant loan-data call.
// Kind is one of KindUnauthorized, KindUnknown.
func NewUpstreamDataError(kind string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeUpstreamData,
		Kind:       kind,
		Message:    "tenant loan-data call failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewStorageError wraps a state-store failure.
func NewStorageError(op string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeStorage,
		Message:    fmt.Sprintf("state store %s failed", op),
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewInternalError wraps any other failure.
func NewInternalError(message string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// GetDomainError extracts the domain error from an error chain.
func GetDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given domain code.
func IsCode(err error, code string) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == code
}

// IsStorage reports whether err is a state-store failure.
func IsStorage(err error) bool {
	return IsCode(err, ErrCodeStorage)
}

// IsResolution reports whether err is an extraction failure.
func IsResolution(err error) bool {
	return IsCode(err, ErrCodeResolution)
}

// UpstreamKind returns the upstream kind for auth/data errors, or "".
func UpstreamKind(err error) string {
	domainErr, ok := GetDomainError(err)
	if !ok {
		return ""
	}
	return domainErr.Kind
}
