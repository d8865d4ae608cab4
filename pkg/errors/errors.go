package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidPayment    = errors.New("invalid payment")
	ErrRecordNotFound    = errors.New("fee record not found")
	ErrRecordAlreadyPaid = errors.New("fee record is already fully paid")
	ErrDuplicatePeriod   = errors.New("fee record already exists for period")
	ErrStorageFailure    = errors.New("storage operation failed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidPayment    = "INVALID_PAYMENT"
	ErrCodeRecordNotFound    = "RECORD_NOT_FOUND"
	ErrCodeRecordAlreadyPaid = "RECORD_ALREADY_PAID"
	ErrCodeDuplicatePeriod   = "DUPLICATE_PERIOD"
	ErrCodeStorageError      = "STORAGE_ERROR"
	ErrCodeCacheError        = "CACHE_ERROR"
)

// Wrap common errors with business context

// WrapInvalidPayment carries the specific precondition that failed so the
// caller sees an actionable message, not a bare rejection.
func WrapInvalidPayment(reason string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidPayment, reason, ErrInvalidPayment)
}

func WrapNoOpenRecord(studentID, feeType string) *BusinessError {
	return NewBusinessError(
		ErrCodeRecordNotFound,
		fmt.Sprintf("No open %s fee record found for student %s", feeType, studentID),
		ErrRecordNotFound,
	)
}

func WrapRecordNotFound(studentID, feeType string, month, year int) *BusinessError {
	return NewBusinessError(
		ErrCodeRecordNotFound,
		fmt.Sprintf("No %s fee record for student %s in period %04d-%02d", feeType, studentID, year, month),
		ErrRecordNotFound,
	)
}

func WrapRecordAlreadyPaid(studentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeRecordAlreadyPaid,
		fmt.Sprintf("Current fee record for student %s is already fully paid", studentID),
		ErrRecordAlreadyPaid,
	)
}

func WrapDuplicatePeriod(studentID, feeType string, month, year int) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicatePeriod,
		fmt.Sprintf("Fee record for student %s, %s, %04d-%02d already exists", studentID, feeType, year, month),
		ErrDuplicatePeriod,
	)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(ErrCodeStorageError, "storage operation failed", err)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(ErrCodeCacheError, "cache operation failed", err)
}

// Classifiers used by the HTTP layer to pick a status code.

func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidPayment) || errors.Is(err, ErrRecordAlreadyPaid)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicatePeriod)
}
