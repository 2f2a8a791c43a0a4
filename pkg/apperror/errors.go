package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a stable, machine-readable error category surfaced to API clients.
type Kind string

const (
	KindEmptyCart               Kind = "EmptyCart"
	KindMissingCustomer         Kind = "MissingCustomer"
	KindLineItemMissingService  Kind = "LineItemMissingService"
	KindInvalidQuantity         Kind = "InvalidQuantity"
	KindInvalidCoupon           Kind = "InvalidCoupon"
	KindInsufficientPayment     Kind = "InsufficientPayment"
	KindAlreadyReturned         Kind = "AlreadyReturned"
	KindAlreadyStarted          Kind = "AlreadyStarted"
	KindNotStarted              Kind = "NotStarted"
	KindSectionOrderViolation   Kind = "SectionOrderViolation"
	KindInvalidStatusTransition Kind = "InvalidStatusTransition"
	KindNotFound                Kind = "NotFound"
	KindConflict                Kind = "Conflict"
	KindValidation              Kind = "Validation"
	KindBadRequest              Kind = "BadRequest"
	KindUnauthorized            Kind = "Unauthorized"
	KindForbidden               Kind = "Forbidden"
	KindRateLimited             Kind = "RateLimited"
	KindPersistence             Kind = "Persistence"
	KindInternal                Kind = "Internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int            `json:"code"`
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	Errors  []FieldError   `json:"errors,omitempty"`
	Context map[string]any `json:"context,omitempty"`
	cause   error
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is matches two AppErrors by kind so sentinel values work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// With returns a copy of the error carrying an extra context value.
func (e *AppError) With(key string, value any) *AppError {
	cp := *e
	cp.Context = make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		cp.Context[k] = v
	}
	cp.Context[key] = value
	return &cp
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrUnprocessable  = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: "Unprocessable entity"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid token"}

	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid phone or PIN"}

	// Invoice issuance
	ErrEmptyCart              = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindEmptyCart, Message: "Cart has no line items"}
	ErrMissingCustomer        = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindMissingCustomer, Message: "A customer must be selected"}
	ErrLineItemMissingService = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindLineItemMissingService, Message: "Every line item needs at least one service"}
	ErrInvalidQuantity        = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindInvalidQuantity, Message: "Line item quantity must be at least 1"}
	ErrInvalidCoupon          = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindInvalidCoupon, Message: "Coupon is not valid"}
	ErrInsufficientPayment    = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindInsufficientPayment, Message: "Amount paid is less than the invoice total"}

	// Invoice lifecycle
	ErrAlreadyReturned         = &AppError{Code: http.StatusConflict, Kind: KindAlreadyReturned, Message: "Invoice has already been returned"}
	ErrInvalidStatusTransition = &AppError{Code: http.StatusConflict, Kind: KindInvalidStatusTransition, Message: "Invalid status transition"}

	// Workflow
	ErrAlreadyStarted        = &AppError{Code: http.StatusConflict, Kind: KindAlreadyStarted, Message: "Work has already been started in this section"}
	ErrNotStarted            = &AppError{Code: http.StatusConflict, Kind: KindNotStarted, Message: "Work is not in progress in this section"}
	ErrSectionOrderViolation = &AppError{Code: http.StatusConflict, Kind: KindSectionOrderViolation, Message: "The previous section has not been completed"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindForStatus(code),
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewPersistenceError wraps a storage failure. It is the only retryable kind.
func NewPersistenceError(op string, err error) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindPersistence,
		Message: fmt.Sprintf("failed to %s", op),
		cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// IsRetryable reports whether the caller may retry the same input.
func IsRetryable(err error) bool {
	return IsKind(err, KindPersistence)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}

func kindForStatus(code int) Kind {
	switch code {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}
