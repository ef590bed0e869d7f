package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeBudgetExceeded = "BUDGET_EXCEEDED"
	ErrCodeDivision       = "DIVISION"
	ErrCodeUnauthorised   = "UNAUTHORIZED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure carrying a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrNotFound) matches every not-found error regardless of message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidInput   = NewDomainError(ErrCodeInvalidInput, "invalid input")
	ErrNotFound       = NewDomainError(ErrCodeNotFound, "not found")
	ErrBudgetExceeded = NewDomainError(ErrCodeBudgetExceeded, "calorie budget exceeded")
	ErrDivision       = NewDomainError(ErrCodeDivision, "division by zero portions")
)

// InvalidInputf returns an invalid-input error with a formatted message.
func InvalidInputf(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, fmt.Sprintf(format, args...))
}

// NotFoundf returns a not-found error with a formatted message.
func NotFoundf(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

// BudgetExceededf returns a budget-exceeded error with a formatted message.
func BudgetExceededf(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeBudgetExceeded, fmt.Sprintf(format, args...))
}

// Divisionf returns a division error with a formatted message.
func Divisionf(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeDivision, fmt.Sprintf(format, args...))
}
