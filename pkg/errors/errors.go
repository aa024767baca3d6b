package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthorizationError is returned when the directory rejects the acting identity (HTTP 403).
// Message is the server-provided text and is shown to the user verbatim.
type AuthorizationError struct {
	Message string
}

// NewAuthorizationError creates a new authorization error
func NewAuthorizationError(message string) *AuthorizationError {
	return &AuthorizationError{Message: message}
}

// Error implements the error interface
func (e *AuthorizationError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status this error was built from
func (e *AuthorizationError) StatusCode() int {
	return http.StatusForbidden
}

// ValidationError is returned when the directory rejects a payload (HTTP 400).
type ValidationError struct {
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status this error was built from
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// RequestError represents any other non-success HTTP status.
// Message is optional and holds the server's {error} text when one was sent.
type RequestError struct {
	Status  int
	Message string
}

// NewRequestError creates a new request error
func NewRequestError(status int, message string) *RequestError {
	return &RequestError{Status: status, Message: message}
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// StatusCode returns the HTTP status of the failed request
func (e *RequestError) StatusCode() int {
	return e.Status
}

// NetworkError represents a transport-level failure: no usable response was received.
type NetworkError struct {
	Op  string
	Err error
}

// NewNetworkError creates a new network error
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	if e.Err == nil {
		return e.Op + ": network failure"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the wrapped error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusCoder is implemented by errors that map to an HTTP status
type StatusCoder interface {
	StatusCode() int
}

// ServerMessage returns the message the directory sent with a failed response.
// ok is false when err carries no server message.
func ServerMessage(err error) (msg string, ok bool) {
	var authErr *AuthorizationError
	if errors.As(err, &authErr) {
		return authErr.Message, authErr.Message != ""
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message, valErr.Message != ""
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message, reqErr.Message != ""
	}

	return "", false
}

// IsNetwork reports whether err is a transport-level failure
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsAuthorization reports whether err is an authorization denial
func IsAuthorization(err error) bool {
	var authErr *AuthorizationError
	return errors.As(err, &authErr)
}
