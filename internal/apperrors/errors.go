package apperrors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrorCode classifies a ServiceError.
type ErrorCode int

const (
	ErrValidation ErrorCode = iota + 1000
	ErrNotFound
	ErrConflict
	ErrCorruptedState
	ErrUnauthorized
	ErrForbidden
	ErrInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrValidation:
		return "validation"
	case ErrNotFound:
		return "not_found"
	case ErrConflict:
		return "conflict"
	case ErrCorruptedState:
		return "corrupted_state"
	case ErrUnauthorized:
		return "unauthorized"
	case ErrForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// ServiceError is the error type returned by the service layer.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
	// Fields holds per-field messages for validation failures.
	Fields map[string]string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Sentinels for the failures callers branch on.
var (
	ErrInvalidCredentials = New(ErrUnauthorized, "invalid email or password")
	ErrAccountSuspended   = New(ErrForbidden, "account has been suspended, please contact support")
	ErrNotAuthenticated   = New(ErrUnauthorized, "please login to continue")
	ErrPasswordMismatch   = New(ErrValidation, "passwords do not match")
	ErrEmailTaken         = New(ErrConflict, "email already registered")
	ErrEmptyCart          = New(ErrValidation, "your cart is empty")
)

// New creates a ServiceError.
func New(code ErrorCode, message string) error {
	return &ServiceError{Code: code, Message: message}
}

// Wrap creates a ServiceError around an existing error.
func Wrap(code ErrorCode, message string, err error) error {
	return &ServiceError{Code: code, Message: message, Err: err}
}

// NotFound builds an ErrNotFound error for the given entity.
func NotFound(entity string, id any) error {
	return New(ErrNotFound, fmt.Sprintf("%s with ID %v not found", entity, id))
}

// FromValidation converts validator errors into an ErrValidation ServiceError.
// Errors that are not validator.ValidationErrors are wrapped as ErrInternal.
func FromValidation(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return Wrap(ErrInternal, "validation could not run", err)
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return &ServiceError{
		Code:    ErrValidation,
		Message: "please fill in all fields",
		Fields:  fields,
	}
}

// CodeOf reports the code of the first ServiceError in err's chain, or
// ErrInternal when there is none.
func CodeOf(err error) ErrorCode {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
