package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")

	// onboarding
	ErrMissingCursor  = errors.New("registration session expired")
	ErrStepConflict   = errors.New("registration step already completed")
	ErrStepInProgress = errors.New("registration step already in progress")
	ErrUploadRejected = errors.New("upload rejected")
	ErrStoreNameTaken = fmt.Errorf("store name taken: %w", ErrAlreadyExists)

	// approval + marketplace
	ErrNotApproved        = errors.New("account not approved")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrRegistrationClosed = errors.New("registration not completed")
)

// Machine readable error codes returned to clients
const (
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeUploadRejected    = "UPLOAD_REJECTED"
	CodeSessionExpired    = "SESSION_EXPIRED"
	CodeStepConflict      = "STEP_CONFLICT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeConflict          = "CONFLICT"
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeInternal          = "INTERNAL_ERROR"
)

// Field level error codes
const (
	FieldRequired       = "required"
	FieldInvalid        = "invalid"
	FieldUnique         = "unique"
	FieldMismatch       = "mismatch"
	FieldTooShort       = "too_short"
	FieldTooLong        = "too_long"
	FieldWeakPassword   = "weak_password"
	FieldUploadRejected = "upload_rejected"
	FieldUnverified     = "unverified"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeBadRequest, message, ErrBadRequest)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "internal server error", err)
}

// FieldError describes one rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError carries every rejected field of one request
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a validation error from field errors
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Field is shorthand for a FieldError
func Field(field, code, message string) FieldError {
	return FieldError{Field: field, Code: code, Message: message}
}

// Unique reports a uniqueness violation on field
func Unique(field string) *ValidationError {
	return NewValidationError(Field(field, FieldUnique, fmt.Sprintf("%s has already been taken", field)))
}

// UploadRejected reports a file that failed type or size checks
func UploadRejected(field, reason string) *ValidationError {
	return NewValidationError(Field(field, FieldUploadRejected, reason))
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes every ValidationError match ErrInvalidInput, and upload
// failures additionally match ErrUploadRejected.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return true
	case ErrUploadRejected:
		return e.HasCode(FieldUploadRejected)
	case ErrAlreadyExists:
		return e.HasCode(FieldUnique)
	}
	return false
}

// HasCode reports whether any field carries code
func (e *ValidationError) HasCode(code string) bool {
	for _, f := range e.Fields {
		if f.Code == code {
			return true
		}
	}
	return false
}

// Add appends a field error
func (e *ValidationError) Add(field, code, message string) {
	e.Fields = append(e.Fields, Field(field, code, message))
}

// OrNil returns nil when no field was rejected
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ToAppError classifies any error into the client facing shape
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Status == 0 {
			appErr.Status = http.StatusBadRequest
		}
		if appErr.Code == "" {
			appErr.Code = CodeBadRequest
		}
		return appErr
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		code := CodeValidationFailed
		msg := "the given data was invalid"
		if vErr.HasCode(FieldUploadRejected) {
			code = CodeUploadRejected
			msg = "one or more uploads were rejected"
		}
		return &AppError{Status: http.StatusUnprocessableEntity, Code: code, Message: msg, Fields: vErr.Fields, Err: err}
	}

	switch {
	case errors.Is(err, ErrMissingCursor):
		return NewAppError(http.StatusSeeOther, CodeSessionExpired, ErrMissingCursor.Error(), err)
	case errors.Is(err, ErrStepConflict), errors.Is(err, ErrStepInProgress):
		return NewAppError(http.StatusConflict, CodeStepConflict, err.Error(), err)
	case errors.Is(err, ErrInvalidTransition):
		return NewAppError(http.StatusConflict, CodeInvalidTransition, err.Error(), err)
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrAlreadyExists):
		return NewAppError(http.StatusConflict, CodeConflict, err.Error(), err)
	case errors.Is(err, ErrRegistrationClosed):
		return NewAppError(http.StatusConflict, CodeInvalidTransition, err.Error(), err)
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTokenExpired):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, err.Error(), err)
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrNotApproved):
		return NewAppError(http.StatusForbidden, CodeForbidden, err.Error(), err)
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, err.Error(), err)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBadRequest):
		return NewAppError(http.StatusBadRequest, CodeBadRequest, err.Error(), err)
	}
	return InternalError(err)
}
