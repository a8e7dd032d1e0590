// Package apierror defines the errors reported to API callers.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies caller-facing failures.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindDuplicateEmail     Kind = "duplicate_email"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindUnauthorized       Kind = "unauthorized"
	KindNotFound           Kind = "not_found"
)

// APIError is an error with a stable kind, HTTP status and a message safe to show callers.
type APIError struct {
	Kind     Kind
	HTTPCode int
	Message  string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is matches any APIError of the same kind.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or "" when err is not an APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func NewErrValidation(message string) *APIError {
	return &APIError{Kind: KindValidation, HTTPCode: http.StatusBadRequest, Message: message}
}

func NewErrEmailIsTaken() *APIError {
	return &APIError{Kind: KindDuplicateEmail, HTTPCode: http.StatusBadRequest, Message: "User already exists"}
}

// NewErrInvalidCredentials is shared by the unknown-email and wrong-password paths.
func NewErrInvalidCredentials() *APIError {
	return &APIError{Kind: KindInvalidCredentials, HTTPCode: http.StatusUnauthorized, Message: "Invalid credentials"}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{Kind: KindUnauthorized, HTTPCode: http.StatusUnauthorized, Message: "Not authorized, no token"}
}

func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{Kind: KindUnauthorized, HTTPCode: http.StatusUnauthorized, Message: "Not authorized, invalid token"}
}

func NewErrUserNotFound() *APIError {
	return &APIError{Kind: KindNotFound, HTTPCode: http.StatusNotFound, Message: "User not found"}
}

func NewErrTaskNotFound() *APIError {
	return &APIError{Kind: KindNotFound, HTTPCode: http.StatusNotFound, Message: "Task not found"}
}

func NewErrRouteNotFound(path string) *APIError {
	return &APIError{Kind: KindNotFound, HTTPCode: http.StatusNotFound, Message: fmt.Sprintf("Not Found - %s", path)}
}
