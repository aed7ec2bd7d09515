package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Assessment specific errors
	CodeInvalidMode      ErrorCode = "INVALID_MODE"
	CodeInvalidSubtest   ErrorCode = "INVALID_SUBTEST"
	CodeMissingSubtest   ErrorCode = "MISSING_SUBTEST"
	CodeInsufficientPool ErrorCode = "INSUFFICIENT_POOL"
	CodeSessionNotFound  ErrorCode = "SESSION_NOT_FOUND"
	CodeSessionMismatch  ErrorCode = "SESSION_MISMATCH"
	CodeQuestionNotFound ErrorCode = "QUESTION_NOT_FOUND"

	// Persistence errors
	CodePersistence ErrorCode = "PERSISTENCE_ERROR"
)

// DomainError represents a domain-specific error with an error code,
// a human readable message, an optional cause and optional context values
// that are safe to expose to API clients.
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper constructors for common errors

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewPersistenceError(message string, cause error) *DomainError {
	return NewError(CodePersistence, message, cause)
}

func NewInvalidModeError(mode string) *DomainError {
	return NewError(CodeInvalidMode, fmt.Sprintf("invalid assessment mode: %s", mode), nil)
}

func NewInvalidSubtestError(code string) *DomainError {
	return NewError(CodeInvalidSubtest, fmt.Sprintf("invalid subtest code: %s", code), nil)
}

func NewMissingSubtestError() *DomainError {
	return NewError(CodeMissingSubtest, "subtest_code is required for focus mode", nil)
}

// NewInsufficientPoolError reports a subtest whose candidate pool is smaller
// than the number of questions the session configuration requires.
func NewInsufficientPoolError(subtest SubtestCode, required, available int) *DomainError {
	err := NewError(CodeInsufficientPool,
		fmt.Sprintf("not enough questions for subtest %s: need %d, have %d", subtest, required, available), nil)
	err.Context = map[string]interface{}{
		"subtest":   string(subtest),
		"required":  required,
		"available": available,
	}
	return err
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("assessment session not found: %s", sessionID), nil)
}

func NewQuestionNotFoundError(questionID string) *DomainError {
	return NewError(CodeQuestionNotFound, fmt.Sprintf("question not found: %s", questionID), nil)
}

// ValidationError represents a single field-level validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field-level failures for one request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e[0].Error())
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%s is required", field),
		Code:    string(CodeMissingField),
	}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: fmt.Sprintf("invalid format for %s: %s", field, value),
		Code:    string(CodeInvalidFormat),
	}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%s value %d is out of range [%d, %d]", field, value, min, max),
		Code:    string(CodeOutOfRange),
	}
}
