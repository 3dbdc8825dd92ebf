// Package apperrors defines the error taxonomy shared by services and handlers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeNoProfile    Code = "NO_PROFILE"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeDuplicate    Code = "DUPLICATE_INTEREST"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL_ERROR"
)

const (
	NoProfileMessage     = "Create at least one profile to express interest"
	DuplicateMessage     = "Interest already sent"
	InternalErrorMessage = "Something went wrong"
)

// AppError is a classified error with a user-facing message. Fields holds
// per-field validation messages when there are any.
type AppError struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError with the same code, so errors.Is(err, ErrDuplicate) works
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is
var (
	ErrValidation   = &AppError{Code: CodeValidation}
	ErrNoProfile    = &AppError{Code: CodeNoProfile}
	ErrForbidden    = &AppError{Code: CodeForbidden}
	ErrNotFound     = &AppError{Code: CodeNotFound}
	ErrDuplicate    = &AppError{Code: CodeDuplicate}
	ErrUnauthorized = &AppError{Code: CodeUnauthorized}
	ErrConflict     = &AppError{Code: CodeConflict}
)

func Validation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// ValidationFields reports several invalid fields at once
func ValidationFields(fields map[string]string) *AppError {
	msg := "Validation failed"
	if len(fields) == 1 {
		for _, m := range fields {
			msg = m
		}
	}
	return &AppError{Code: CodeValidation, Message: msg, Fields: fields}
}

func NoProfile() *AppError {
	return &AppError{Code: CodeNoProfile, Message: NoProfileMessage}
}

func Forbidden(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NotFound builds "<entity> not found"
func NotFound(entity string) *AppError {
	return &AppError{Code: CodeNotFound, Message: entity + " not found"}
}

func Duplicate() *AppError {
	return &AppError{Code: CodeDuplicate, Message: DuplicateMessage}
}

func Unauthorized(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// Internal wraps an unexpected error. Its message never leaks err.
func Internal(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: InternalErrorMessage, Err: err}
}

// HTTPStatus maps err to a response status. Unclassified errors are 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation, CodeNoProfile:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicate, CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to return to a client
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != CodeInternal {
		return appErr.Message
	}
	return InternalErrorMessage
}

// FieldErrors returns per-field messages carried by err, if any
func FieldErrors(err error) map[string]string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
