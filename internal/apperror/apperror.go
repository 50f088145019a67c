package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by the validation, repository and HTTP layers.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeRepository   = "REPOSITORY_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL_ERROR"
)

// Error standardizes application errors.
type Error struct {
	Code       string
	Message    string
	HTTPStatus int
	Field      string
	Err        error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports a client-side format rejection for one input field.
// Validation errors never reach a repository.
func NewValidationError(field, message string) error {
	return &Error{Code: CodeValidation, Message: message, HTTPStatus: http.StatusBadRequest, Field: field}
}

// NewRepositoryError wraps a backend or network failure with a user readable message.
func NewRepositoryError(message string, err error) error {
	return &Error{Code: CodeRepository, Message: message, HTTPStatus: http.StatusBadGateway, Err: err}
}

// NewNotFound reports an absent record.
func NewNotFound(resource string) error {
	return &Error{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NewConflict(message string) error {
	return &Error{Code: CodeConflict, Message: message, HTTPStatus: http.StatusConflict}
}

func NewUnauthorized(message string) error {
	return &Error{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

func NewInternal(err error) error {
	return &Error{Code: CodeInternal, Message: "internal server error", HTTPStatus: http.StatusInternalServerError, Err: err}
}

// From converts any error into an *Error, treating unknown errors as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err).(*Error)
}

// IsValidation reports whether err is a validation rejection.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsRepository reports whether err is a backend failure.
func IsRepository(err error) bool {
	return hasCode(err, CodeRepository)
}

func hasCode(err error, code string) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}

// MessageOr returns the error's message, or fallback when err carries none.
func MessageOr(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
