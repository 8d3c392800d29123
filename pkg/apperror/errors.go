package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error independently of its transport status
type Kind string

const (
	KindNotFound            Kind = "NotFound"
	KindInvalidIndex        Kind = "InvalidIndex"
	KindInvalidLine         Kind = "InvalidLine"
	KindInvalidPayment      Kind = "InvalidPayment"
	KindPaymentExceedsTotal Kind = "PaymentExceedsTotal"
	KindUnauthenticated     Kind = "Unauthenticated"
	KindUnauthorized        Kind = "Unauthorized"
	KindBadRequest          Kind = "BadRequest"
	KindValidation          Kind = "Validation"
	KindConflict            Kind = "Conflict"
	KindRateLimited         Kind = "RateLimited"
	KindInternal            Kind = "Internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Kind    Kind         `json:"kind"`
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches errors of the same kind so errors.Is works against the sentinels below
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Common errors
var (
	ErrNotFound           = &AppError{Kind: KindNotFound, Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthenticated    = &AppError{Kind: KindUnauthenticated, Code: http.StatusUnauthorized, Message: "Unauthenticated"}
	ErrUnauthorized       = &AppError{Kind: KindUnauthorized, Code: http.StatusForbidden, Message: "Unauthorized"}
	ErrBadRequest         = &AppError{Kind: KindBadRequest, Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Kind: KindInternal, Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Kind: KindConflict, Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidIndex       = &AppError{Kind: KindInvalidIndex, Code: http.StatusBadRequest, Message: "Invalid room index"}
	ErrInvalidLine        = &AppError{Kind: KindInvalidLine, Code: http.StatusUnprocessableEntity, Message: "Invalid line item"}
	ErrInvalidPayment     = &AppError{Kind: KindInvalidPayment, Code: http.StatusUnprocessableEntity, Message: "Invalid payment"}
	ErrPaymentExceeds     = &AppError{Kind: KindPaymentExceedsTotal, Code: http.StatusUnprocessableEntity, Message: "Payment exceeds total amount"}
	ErrInvalidCredentials = &AppError{Kind: KindUnauthenticated, Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Kind: KindUnauthenticated, Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Kind: KindUnauthenticated, Code: http.StatusUnauthorized, Message: "Invalid token"}
	ErrRateLimited        = &AppError{Kind: KindRateLimited, Code: http.StatusTooManyRequests, Message: "Rate limit exceeded. Please try again later."}
)

// NewAppError creates a new application error
func NewAppError(kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Kind:    KindBadRequest,
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewInvalidIndexError reports a room index that can never address a slot
func NewInvalidIndexError(index int) *AppError {
	return &AppError{
		Kind:    KindInvalidIndex,
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("room index %d is invalid", index),
	}
}

// NewInvalidIndexTextError reports a room index that is not an integer
func NewInvalidIndexTextError(raw string) *AppError {
	return &AppError{
		Kind:    KindInvalidIndex,
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("room index %q is not an integer", raw),
	}
}

// NewInvalidLineError reports a present but unusable per-line value
func NewInvalidLineError(room, line int, field, value string) *AppError {
	return &AppError{
		Kind:    KindInvalidLine,
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("room %d line %d: %s %q is not a valid non-negative number", room, line, field, value),
		Errors: []FieldError{{
			Field:   fmt.Sprintf("%s[%d]", field, line),
			Message: "must be a non-negative number",
		}},
	}
}

// NewInvalidPaymentError creates an invalid payment error with a custom message
func NewInvalidPaymentError(message string) *AppError {
	return &AppError{
		Kind:    KindInvalidPayment,
		Code:    http.StatusUnprocessableEntity,
		Message: message,
	}
}

// NewPaymentExceedsTotalError reports a payment larger than what is still owed
func NewPaymentExceedsTotalError(amount, remaining string) *AppError {
	return &AppError{
		Kind:    KindPaymentExceedsTotal,
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("payment of %s exceeds the remaining %s", amount, remaining),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// KindOf returns the kind of err, or KindInternal when err is not an AppError
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Kind:    KindInternal,
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
